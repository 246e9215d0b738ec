package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aurora/typedpack/internal/codegen"
	"github.com/aurora/typedpack/internal/driverlog"
)

// namingFlags holds the command-line overrides for codegen.Options,
// bound directly to pflag so the zero value always matches
// codegen.DefaultOptions' naming with no override applied.
type namingFlags struct {
	typesNamespace        string
	encodeNamespace       string
	decodeNamespace       string
	encodeArrayNamespace  string
	decodeArrayNamespace  string
	exportDecodeInternal  bool
}

func bindNamingFlags(flags *pflag.FlagSet) *namingFlags {
	nf := &namingFlags{}
	flags.StringVar(&nf.typesNamespace, "types-namespace", "", "name of the namespace containing generated types (default \"Types\")")
	flags.StringVar(&nf.encodeNamespace, "encode-namespace", "", "name of the namespace containing encode functions (default \"Encode\")")
	flags.StringVar(&nf.decodeNamespace, "decode-namespace", "", "name of the namespace containing decode functions (default \"Decode\")")
	flags.StringVar(&nf.encodeArrayNamespace, "encode-array-namespace", "", "name of the namespace containing array-encode functions (default \"EncodeArray\")")
	flags.StringVar(&nf.decodeArrayNamespace, "decode-array-namespace", "", "name of the namespace containing array-decode functions (default \"DecodeArray\")")
	flags.BoolVar(&nf.exportDecodeInternal, "export-decode-internal-namespace", false, "also export each type's implementation-private decode helper, for backend tests")
	return nf
}

// options turns the flag overrides into codegen.Options, leaving any
// field the user didn't set at its zero value so fillDefaults (inside
// the backend) supplies the default.
func (nf *namingFlags) options() codegen.Options {
	return codegen.Options{
		TypesNamespace:                nf.typesNamespace,
		EncodeNamespace:               nf.encodeNamespace,
		DecodeNamespace:               nf.decodeNamespace,
		EncodeArrayNamespace:          nf.encodeArrayNamespace,
		DecodeArrayNamespace:          nf.decodeArrayNamespace,
		ExportDecodeInternalNamespace: nf.exportDecodeInternal,
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "typedpack",
		Short:         "Compile .tp schema files into generated wire-format source",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			driverlog.Configure(verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newCompileCmd())
	return root
}

func logger() *slog.Logger {
	return slog.Default()
}
