package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aurora/typedpack/internal/checker"
	"github.com/aurora/typedpack/internal/codegen"
	"github.com/aurora/typedpack/internal/codegen/msgpackgo"
	"github.com/aurora/typedpack/internal/parser"
)

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <input> <output>",
		Short: "Generate Go wire-format source from .tp schema files",
		Long: `compile reads one or more .tp schema files and writes generated Go
source implementing the MessagePack wire contract.

<input> and <output> are both either a file or a directory; use "-" for
<input> to read a single schema from standard input, and "-" for
<output> to print a single generated file to standard output. When
<input> is a directory, <output> must be a directory too (it is
created if missing); every ".tp" file under <input> is compiled into
an identically-placed ".go" file under <output>.`,
		Args: cobra.ExactArgs(2),
	}

	// bindNamingFlags must run at construction time: cobra parses
	// flags into nf's fields before RunE ever executes.
	nf := bindNamingFlags(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		input, output := args[0], args[1]
		opts := nf.options()

		info, err := os.Stat(input)
		isDir := err == nil && info.IsDir() && input != "-"

		if isDir {
			if output == "-" {
				return fmt.Errorf("when input is a directory, output must be a directory too")
			}
			if outInfo, err := os.Stat(output); err == nil && !outInfo.IsDir() {
				return fmt.Errorf("when input is a directory, output must be a directory too")
			}
			paths, err := scanDir(input)
			if err != nil {
				return fmt.Errorf("reading input directory: %w", err)
			}
			for _, p := range paths {
				rel, err := filepath.Rel(input, p)
				if err != nil {
					return err
				}
				outPath := filepath.Join(output, withExt(rel, ".go"))
				if err := compileFile(p, outPath, opts, true); err != nil {
					return fmt.Errorf("compiling %s: %w", p, err)
				}
				logger().Info("compiled", "input", p, "output", outPath)
			}
			return nil
		}

		if err := compileFile(input, output, opts, false); err != nil {
			return fmt.Errorf("compiling %s: %w", input, err)
		}
		logger().Info("compiled", "input", input, "output", output)
		return nil
	}
	return cmd
}

func compileFile(input, output string, opts codegen.Options, mkdirAll bool) error {
	src, err := readInput(input)
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

	generated, err := msgpackgo.New().Generate(file, opts)
	if err != nil {
		return fmt.Errorf("generating: %w", err)
	}

	return writeOutput(output, generated, mkdirAll)
}

func readInput(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading standard input: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return string(b), nil
}

func writeOutput(path, content string, mkdirAll bool) error {
	if path == "-" {
		_, err := fmt.Print(content)
		return err
	}
	if mkdirAll {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
