package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aurora/typedpack/internal/checker"
	"github.com/aurora/typedpack/internal/parser"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <input>",
		Short: "Parse and validate .tp schema files without generating code",
		Long: `check parses <input> (a file, a directory of ".tp" files, or "-" for
standard input) and reports every parse or validation error it finds,
without writing any generated source.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]

			info, statErr := os.Stat(input)
			if statErr == nil && info.IsDir() && input != "-" {
				paths, err := scanDir(input)
				if err != nil {
					return fmt.Errorf("reading input directory: %w", err)
				}
				failures := 0
				for _, p := range paths {
					if err := checkFile(p); err != nil {
						logger().Error("check failed", "input", p, "error", err)
						failures++
					} else {
						logger().Info("ok", "input", p)
					}
				}
				if failures > 0 {
					return fmt.Errorf("%d of %d schema file(s) failed", failures, len(paths))
				}
				return nil
			}

			if err := checkFile(input); err != nil {
				return err
			}
			logger().Info("ok", "input", input)
			return nil
		},
	}
}

func checkFile(path string) error {
	src, err := readInput(path)
	if err != nil {
		return err
	}
	file, err := parser.Parse(src)
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	if errs := checker.Check(file); len(errs) > 0 {
		for _, e := range errs {
			logger().Error("schema check failed", "error", e)
		}
		return fmt.Errorf("%d schema error(s)", len(errs))
	}
	return nil
}
