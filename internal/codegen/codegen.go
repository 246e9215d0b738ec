// Package codegen defines the naming contract and pluggable Backend
// interface that turn a validated *ir.File into host-language source.
// Concrete backends (see the msgpackgo subpackage) are pure
// functions of (IR, Options); codegen itself holds no generator
// logic, keeping casing/naming concerns separate from any one target
// language's generator.
package codegen

import "github.com/aurora/typedpack/internal/ir"

// Options configures the identifiers a Backend emits. DefaultOptions
// returns the default for every field. An empty namespace string means
// "not set": the msgpackgo backend fills each empty one from
// DefaultOptions, so a zero Options there yields the default names.
type Options struct {
	// TypesNamespace prefixes emitted type declarations.
	TypesNamespace string
	// EncodeNamespace prefixes per-type encoder functions.
	EncodeNamespace string
	// DecodeNamespace prefixes per-type decoder functions.
	DecodeNamespace string
	// EncodeArrayNamespace prefixes per-type array-encoder functions.
	EncodeArrayNamespace string
	// DecodeArrayNamespace prefixes per-type array-decoder functions.
	DecodeArrayNamespace string
	// ExportDecodeInternalNamespace additionally exposes each type's
	// implementation-private decode helper under a fixed, exported
	// name, for backends whose tests need to exercise it directly.
	ExportDecodeInternalNamespace bool
}

// DefaultOptions returns the naming defaults every backend falls back
// to when a caller does not override them.
func DefaultOptions() Options {
	return Options{
		TypesNamespace:       "Types",
		EncodeNamespace:      "Encode",
		DecodeNamespace:      "Decode",
		EncodeArrayNamespace: "EncodeArray",
		DecodeArrayNamespace: "DecodeArray",
	}
}

// Backend is a pure transformation from a validated IR and naming
// options to host-language source text. Backends must not perform
// I/O and must produce byte-identical output for identical inputs.
type Backend interface {
	Generate(file *ir.File, opts Options) (string, error)
}
