package msgpackgo

import (
	"fmt"

	"github.com/aurora/typedpack/internal/codegen"
	"github.com/aurora/typedpack/internal/ir"
)

// goScalarType returns the Go type used to hold a decoded primitive
// value, ignoring any optional/nullable wrapping.
func goScalarType(p ir.Primitive) string {
	switch p.Kind {
	case ir.Bool:
		return "bool"
	case ir.I8:
		return "int8"
	case ir.I16:
		return "int16"
	case ir.I32:
		return "int32"
	case ir.I64:
		return "int64"
	case ir.U8:
		return "uint8"
	case ir.U16:
		return "uint16"
	case ir.U32:
		return "uint32"
	case ir.U64:
		return "uint64"
	case ir.F32:
		return "float32"
	case ir.F64:
		return "float64"
	case ir.String:
		return "string"
	case ir.Bytes:
		return "[]byte"
	default:
		return "interface{}"
	}
}

// bareGoType returns the unwrapped Go type for a field type, with no
// optional/nullable pointer wrapping applied.
func (e *emitter) bareGoType(ft ir.FieldType) string {
	switch t := ft.(type) {
	case ir.Primitive:
		return goScalarType(t)
	case ir.ArrayType:
		return "[]" + e.bareGoType(t.Elem)
	case ir.RefType:
		return e.typeName(t.Name)
	default:
		return "interface{}"
	}
}

// fieldGoType returns the Go type of a struct field, accounting for
// optional/nullable presence wrapping: required+non-nullable is the
// bare type, either optionality alone is a single pointer, and
// optional+nullable together need two levels of pointer to represent
// the three distinct observable states (absent, null, value).
func (e *emitter) fieldGoType(f ir.Field) string {
	base := e.bareGoType(f.Type)
	switch {
	case f.Optional && f.Nullable:
		return "**" + base
	case f.Optional || f.Nullable:
		return "*" + base
	default:
		return base
	}
}

// emitter threads shared naming options and a fresh-variable counter
// through the recursive encode/decode statement generators. It also
// tracks which shared imports and helpers the generated file actually
// needs, since an empty schema or an all-optional-free schema must not
// emit an import nobody references.
type emitter struct {
	file *ir.File
	opts codegen.Options
	n    int

	usesFmt       bool
	usesWire      bool
	usesBoolToInt bool
}

func newEmitter(file *ir.File, opts codegen.Options) *emitter {
	return &emitter{file: file, opts: opts}
}

func (e *emitter) fresh(prefix string) string {
	e.n++
	return fmt.Sprintf("%s%d", prefix, e.n)
}

func (e *emitter) typeName(name string) string {
	return codegen.Namespaced(e.opts.TypesNamespace, codegen.ExportedName(name))
}

func (e *emitter) encodeFuncName(name string) string {
	return codegen.UnexportedName("Encode" + codegen.ExportedName(name))
}

func (e *emitter) decodeFuncName(name string) string {
	return codegen.UnexportedName("Decode" + codegen.ExportedName(name))
}
