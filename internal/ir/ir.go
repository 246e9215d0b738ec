// Package ir holds the in-memory representation of a parsed .tp schema
// file: the set of declared struct and enum types, their fields and
// variants, and nothing else. Values are built once by the parser and
// never mutated afterward; backends only ever read them.
package ir

// Position locates a token in source text. Line and column are
// 1-based.
type Position struct {
	Line   int
	Column int
}

// File is a fully parsed and validated schema: an ordered list of
// declared types. Field order within a struct and variant order within
// an enum are preserved from the source even though the wire format
// does not depend on them, so that backends can emit stable output.
type File struct {
	Types []Type
}

// StructByName returns the struct declared with the given name, or nil
// if no such struct exists.
func (f *File) StructByName(name string) *Struct {
	for _, t := range f.Types {
		if s, ok := t.(*Struct); ok && s.Name == name {
			return s
		}
	}
	return nil
}

// Type is either a *Struct or an *Enum.
type Type interface {
	TypeName() string
	Pos() Position
	typ()
}

// Struct is a declared struct type: a name and an ordered list of
// fields, unique by id and by name.
type Struct struct {
	Name     string
	Fields   []Field
	Position Position
}

func (s *Struct) TypeName() string { return s.Name }
func (s *Struct) Pos() Position    { return s.Position }
func (s *Struct) typ()             {}

// Field is a single struct field.
type Field struct {
	ID       uint8
	Name     string
	Type     FieldType
	Optional bool
	Nullable bool
	Position Position
}

// FieldType is the closed set of field type shapes: the primitive
// family, array<T> of arbitrary depth, and ref<Name> to another
// declared type.
type FieldType interface {
	fieldType()
}

// Primitive is one of the fixed-width scalar kinds, string, or the
// bytes kind: variable-length when FixedLen < 0, bytesN otherwise.
type Primitive struct {
	Kind PrimitiveKind
	// FixedLen is the declared length for a bytesN field, or -1 for a
	// variable-length bytes field. Unused for non-bytes kinds.
	FixedLen int
}

func (Primitive) fieldType() {}

// PrimitiveKind enumerates the closed primitive field type family.
type PrimitiveKind int

const (
	Bool PrimitiveKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	String
	Bytes
)

func (k PrimitiveKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// ArrayType is array<Elem>, arbitrarily nestable.
type ArrayType struct {
	Elem FieldType
}

func (ArrayType) fieldType() {}

// RefType is ref<Name>: a reference to another type declared in the
// same file. The parser does not resolve this eagerly; resolution,
// where needed, is a backend or checker concern.
type RefType struct {
	Name string
}

func (RefType) fieldType() {}

// Enum is a declared enum type, either entirely tagged or entirely
// untagged.
type Enum struct {
	Name             string
	Tagged           bool
	UntaggedVariants []UntaggedVariant
	TaggedVariants   []TaggedVariant
	Position         Position
}

func (e *Enum) TypeName() string { return e.Name }
func (e *Enum) Pos() Position    { return e.Position }
func (e *Enum) typ()             {}

// UntaggedVariant is a named integer constant of an untagged enum.
type UntaggedVariant struct {
	ID       uint8
	Name     string
	Position Position
}

// TaggedVariant is one variant of a tagged enum: an id, a name, and
// the name of the struct carried as its payload.
type TaggedVariant struct {
	ID              uint8
	Name            string
	PayloadName     string
	Position        Position
	PayloadPosition Position
}
