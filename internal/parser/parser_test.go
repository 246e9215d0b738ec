package parser

import (
	"testing"

	"github.com/aurora/typedpack/internal/ir"
)

func TestParseSimpleStruct(t *testing.T) {
	input := `
struct Point {
    i32 x = 0;
    i32 y = 1;
    optional nullable string label = 2;
}
`
	file, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(file.Types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(file.Types))
	}
	s, ok := file.Types[0].(*ir.Struct)
	if !ok {
		t.Fatalf("expected *ir.Struct, got %T", file.Types[0])
	}
	if s.Name != "Point" {
		t.Errorf("name = %q, want Point", s.Name)
	}
	if len(s.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(s.Fields))
	}
	label := s.Fields[2]
	if label.Name != "label" || !label.Optional || !label.Nullable {
		t.Errorf("label field = %+v, want optional+nullable", label)
	}
	if _, ok := label.Type.(ir.Primitive); !ok {
		t.Errorf("label.Type = %T, want ir.Primitive", label.Type)
	}
}

func TestParseArrayAndBytesTypes(t *testing.T) {
	input := `
struct Blob {
    bytes raw = 0;
    bytes0 empty = 1;
    bytes16 fixed = 2;
    i32[] numbers = 3;
    i32[][] matrix = 4;
}
`
	file, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	s := file.Types[0].(*ir.Struct)

	raw := s.Fields[0].Type.(ir.Primitive)
	if raw.Kind != ir.Bytes || raw.FixedLen != -1 {
		t.Errorf("raw = %+v, want variable-length bytes", raw)
	}
	empty := s.Fields[1].Type.(ir.Primitive)
	if empty.Kind != ir.Bytes || empty.FixedLen != 0 {
		t.Errorf("empty = %+v, want bytes0", empty)
	}
	fixed := s.Fields[2].Type.(ir.Primitive)
	if fixed.Kind != ir.Bytes || fixed.FixedLen != 16 {
		t.Errorf("fixed = %+v, want bytes16", fixed)
	}

	arr := s.Fields[3].Type.(ir.ArrayType)
	if _, ok := arr.Elem.(ir.Primitive); !ok {
		t.Errorf("numbers elem = %T, want ir.Primitive", arr.Elem)
	}

	matrix := s.Fields[4].Type.(ir.ArrayType)
	if _, ok := matrix.Elem.(ir.ArrayType); !ok {
		t.Errorf("matrix elem = %T, want nested ir.ArrayType", matrix.Elem)
	}
}

func TestParseRefType(t *testing.T) {
	input := `
struct Inner { i32 v = 0; }
struct Outer { Inner inner = 0; }
`
	file, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	outer := file.Types[1].(*ir.Struct)
	ref, ok := outer.Fields[0].Type.(ir.RefType)
	if !ok || ref.Name != "Inner" {
		t.Errorf("field type = %+v, want ref<Inner>", outer.Fields[0].Type)
	}
}

func TestParseUntaggedEnum(t *testing.T) {
	input := `enum Color { Red = 0; Green = 1; Blue = 2; }`
	file, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	e := file.Types[0].(*ir.Enum)
	if e.Tagged {
		t.Fatal("expected untagged enum")
	}
	if len(e.UntaggedVariants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(e.UntaggedVariants))
	}
}

func TestParseTaggedEnum(t *testing.T) {
	input := `
struct P { bool foo = 0; }
enum E { P A = 0; P B = 1; }
`
	file, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	e := file.Types[1].(*ir.Enum)
	if !e.Tagged {
		t.Fatal("expected tagged enum")
	}
	if len(e.TaggedVariants) != 2 || e.TaggedVariants[0].PayloadName != "P" {
		t.Errorf("tagged variants = %+v", e.TaggedVariants)
	}
}

func expectErrKind(t *testing.T, input string, kind ErrorKind) {
	t.Helper()
	_, err := Parse(input)
	if err == nil {
		t.Fatalf("expected error of kind %v, got nil", kind)
	}
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *parser.Error, got %T (%v)", err, err)
	}
	if perr.Kind != kind {
		t.Errorf("error kind = %v, want %v (message: %s)", perr.Kind, kind, perr.Message)
	}
}

func TestDuplicateTypeName(t *testing.T) {
	expectErrKind(t, `struct A { i32 x = 0; } struct A { i32 y = 0; }`, ErrDuplicateTypeName)
}

func TestDuplicateFieldID(t *testing.T) {
	expectErrKind(t, `struct A { i32 x = 0; i32 y = 0; }`, ErrDuplicateFieldID)
}

func TestDuplicateFieldName(t *testing.T) {
	expectErrKind(t, `struct A { i32 x = 0; i32 x = 1; }`, ErrDuplicateFieldName)
}

func TestDuplicateVariantID(t *testing.T) {
	expectErrKind(t, `enum E { A = 0; B = 0; }`, ErrDuplicateVariantID)
}

func TestDuplicateVariantName(t *testing.T) {
	expectErrKind(t, `enum E { A = 0; A = 1; }`, ErrDuplicateVariantName)
}

func TestMixedEnumVariants(t *testing.T) {
	expectErrKind(t, `struct P { i32 x = 0; } enum E { A = 0; P B = 1; }`, ErrMixedEnumVariants)
}

func TestEmptyEnumRejected(t *testing.T) {
	expectErrKind(t, `enum E { }`, ErrEmptyEnum)
}

func TestUnknownTaggedVariantType(t *testing.T) {
	expectErrKind(t, `enum E { Missing A = 0; }`, ErrUnknownTaggedVariantType)
}

func TestTaggedVariantPayloadMustBeStructNotEnum(t *testing.T) {
	expectErrKind(t, `enum Inner { X = 0; } enum Outer { Inner A = 0; }`, ErrUnknownTaggedVariantType)
}

func TestIDOutOfRange(t *testing.T) {
	expectErrKind(t, `struct A { i32 x = 128; }`, ErrIntegerOutOfRange)
}

func TestIDLeadingZeroRejected(t *testing.T) {
	expectErrKind(t, `struct A { i32 x = 007; }`, ErrInvalidIntegerLeadingZero)
}

func TestIDZeroLiteralAccepted(t *testing.T) {
	_, err := Parse(`struct A { i32 x = 0; }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnbalancedArrayBrackets(t *testing.T) {
	expectErrKind(t, `struct A { i32[[ x = 0; }`, ErrUnexpectedToken)
}

func TestUnexpectedEndOfInput(t *testing.T) {
	_, err := Parse(`struct A {`)
	if err == nil {
		t.Fatal("expected error")
	}
	perr := err.(*Error)
	if perr.Kind != ErrUnexpectedEnd {
		t.Errorf("kind = %v, want ErrUnexpectedEnd", perr.Kind)
	}
	if perr.HasPosition {
		t.Error("end-of-input error should not carry a position")
	}
}

func TestNonAsciiCharacterRejected(t *testing.T) {
	expectErrKind(t, "struct Foö { i32 x = 0; }", ErrNonASCIICharacter)
}
