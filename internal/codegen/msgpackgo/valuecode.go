package msgpackgo

import (
	"fmt"

	"github.com/aurora/typedpack/internal/ir"
)

func indentLines(lines []string, prefix string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = prefix + l
	}
	return out
}

func errCheck(zeroReturn string) []string {
	return []string{
		"if err != nil {",
		"\treturn " + zeroReturn + ", err",
		"}",
	}
}

// encodeStmts returns the Go statements that write the value held in
// varExpr (of type ft) into the writer variable "w".
func (e *emitter) encodeStmts(varExpr string, ft ir.FieldType) []string {
	switch t := ft.(type) {
	case ir.Primitive:
		switch t.Kind {
		case ir.Bool:
			return []string{fmt.Sprintf("w.WriteBool(%s)", varExpr)}
		case ir.I8, ir.I16, ir.I32, ir.I64:
			return []string{fmt.Sprintf("w.WriteInt(int64(%s))", varExpr)}
		case ir.U8, ir.U16, ir.U32, ir.U64:
			return []string{fmt.Sprintf("w.WriteUint(uint64(%s))", varExpr)}
		case ir.F32:
			return []string{fmt.Sprintf("w.WriteFloat32(%s)", varExpr)}
		case ir.F64:
			return []string{fmt.Sprintf("w.WriteFloat64(%s)", varExpr)}
		case ir.String:
			return []string{fmt.Sprintf("w.WriteString(%s)", varExpr)}
		case ir.Bytes:
			return []string{fmt.Sprintf("w.WriteBin(%s)", varExpr)}
		default:
			return nil
		}
	case ir.ArrayType:
		item := e.fresh("item")
		var lines []string
		lines = append(lines, fmt.Sprintf("w.WriteArrayHeader(len(%s))", varExpr))
		lines = append(lines, fmt.Sprintf("for _, %s := range %s {", item, varExpr))
		lines = append(lines, indentLines(e.encodeStmts(item, t.Elem), "\t")...)
		lines = append(lines, "}")
		return lines
	case ir.RefType:
		return []string{fmt.Sprintf("%s(w, %s)", e.encodeFuncName(t.Name), varExpr)}
	default:
		return nil
	}
}

// decodeStmts returns Go statements that declare targetVar (via :=)
// holding a freshly decoded value of type ft, reading from the reader
// variable "r". Any decode error causes an early return of
// (zeroReturn, err) from the enclosing function.
func (e *emitter) decodeStmts(targetVar string, ft ir.FieldType, zeroReturn string) []string {
	switch t := ft.(type) {
	case ir.Primitive:
		return e.decodePrimitiveStmts(targetVar, t, zeroReturn)
	case ir.ArrayType:
		nVar := e.fresh("n")
		idxVar := e.fresh("i")
		elemVar := e.fresh("elem")
		var lines []string
		lines = append(lines, fmt.Sprintf("%s, err := r.ReadArrayHeader()", nVar))
		lines = append(lines, errCheck(zeroReturn)...)
		lines = append(lines, fmt.Sprintf("%s := make([]%s, %s)", targetVar, e.bareGoType(t.Elem), nVar))
		lines = append(lines, fmt.Sprintf("for %s := 0; %s < %s; %s++ {", idxVar, idxVar, nVar, idxVar))
		inner := e.decodeStmts(elemVar, t.Elem, zeroReturn)
		inner = append(inner, fmt.Sprintf("%s[%s] = %s", targetVar, idxVar, elemVar))
		lines = append(lines, indentLines(inner, "\t")...)
		lines = append(lines, "}")
		return lines
	case ir.RefType:
		var lines []string
		lines = append(lines, fmt.Sprintf("%s, err := %s(r)", targetVar, e.decodeFuncName(t.Name)))
		lines = append(lines, errCheck(zeroReturn)...)
		return lines
	default:
		return nil
	}
}

func (e *emitter) decodePrimitiveStmts(targetVar string, p ir.Primitive, zeroReturn string) []string {
	switch p.Kind {
	case ir.Bool:
		return append([]string{fmt.Sprintf("%s, err := r.ReadBool()", targetVar)}, errCheck(zeroReturn)...)
	case ir.F32:
		return append([]string{fmt.Sprintf("%s, err := r.ReadFloat32()", targetVar)}, errCheck(zeroReturn)...)
	case ir.F64:
		return append([]string{fmt.Sprintf("%s, err := r.ReadFloat64()", targetVar)}, errCheck(zeroReturn)...)
	case ir.String:
		return append([]string{fmt.Sprintf("%s, err := r.ReadString()", targetVar)}, errCheck(zeroReturn)...)
	case ir.Bytes:
		fixedLen := 0
		hasFixedLen := p.FixedLen >= 0
		if hasFixedLen {
			fixedLen = p.FixedLen
		}
		return append([]string{fmt.Sprintf("%s, err := r.ReadBin(%d, %t)", targetVar, fixedLen, hasFixedLen)}, errCheck(zeroReturn)...)
	case ir.I8, ir.I16, ir.I32, ir.I64:
		min, max := intRange(p.Kind)
		raw := e.fresh("raw")
		lines := append([]string{fmt.Sprintf("%s, err := r.ReadInt(%d, %d)", raw, min, max)}, errCheck(zeroReturn)...)
		lines = append(lines, fmt.Sprintf("%s := %s(%s)", targetVar, goScalarType(p), raw))
		return lines
	case ir.U8, ir.U16, ir.U32, ir.U64:
		max := uintRange(p.Kind)
		raw := e.fresh("raw")
		lines := append([]string{fmt.Sprintf("%s, err := r.ReadUint(%s)", raw, max)}, errCheck(zeroReturn)...)
		lines = append(lines, fmt.Sprintf("%s := %s(%s)", targetVar, goScalarType(p), raw))
		return lines
	default:
		return nil
	}
}

func intRange(k ir.PrimitiveKind) (int64, int64) {
	switch k {
	case ir.I8:
		return -128, 127
	case ir.I16:
		return -32768, 32767
	case ir.I32:
		return -2147483648, 2147483647
	default: // I64
		return -9223372036854775808, 9223372036854775807
	}
}

func uintRange(k ir.PrimitiveKind) string {
	switch k {
	case ir.U8:
		return "255"
	case ir.U16:
		return "65535"
	case ir.U32:
		return "4294967295"
	default: // U64
		return "18446744073709551615"
	}
}
