// Package parser turns .tp schema source into an *ir.File, enforcing
// the schema grammar and its semantic rules as it goes. Parsing is
// total: it returns a complete IR or a single *Error describing the
// first fatal problem; there is no recovery and no error list.
package parser

import (
	"strconv"
	"strings"

	"github.com/aurora/typedpack/internal/ir"
	"github.com/aurora/typedpack/internal/lexer"
)

// Parser parses a single .tp source buffer into an *ir.File. The
// buffer must outlive the returned IR: the IR borrows field and type
// names as slices of it.
type Parser struct {
	lex  *lexer.Lexer
	cur  lexer.Token
	peek lexer.Token
}

// New creates a Parser positioned at the start of input.
func New(input string) (*Parser, error) {
	p := &Parser{lex: lexer.New(input)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse parses input into an *ir.File in one call.
func Parse(input string) (*ir.File, error) {
	p, err := New(input)
	if err != nil {
		return nil, err
	}
	return p.ParseFile()
}

func (p *Parser) advance() error {
	p.cur = p.peek
	if p.lex == nil {
		return nil
	}
	tok, err := p.lex.NextToken()
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			return &Error{Kind: ErrNonASCIICharacter, Message: lexErr.Error(), Position: lexErr.Position, HasPosition: true}
		}
		return err
	}
	p.peek = tok
	return nil
}

func (p *Parser) curIsWord(lit string) bool {
	return p.cur.Kind == lexer.Word && p.cur.Literal == lit
}

func (p *Parser) curIsPunct(lit string) bool {
	return p.cur.Kind == lexer.Punct && p.cur.Literal == lit
}

func (p *Parser) curDisplay() string {
	if p.cur.Kind == lexer.EOF {
		return "end of input"
	}
	return p.cur.Literal
}

func (p *Parser) unexpectedCur(expected string) error {
	if p.cur.Kind == lexer.EOF {
		return newEndError(expected)
	}
	return newPosError(ErrUnexpectedToken, p.cur.Position, "unexpected token %q; expected %s", p.curDisplay(), expected)
}

// expectIdentErr reports why the current token cannot serve as an
// identifier where expected is required: a word that fails
// isIdentStart (e.g. a bare numeral) is an identifier-rule violation,
// anything else is an ordinary unexpected-token error.
func (p *Parser) expectIdentErr(expected string) error {
	if p.cur.Kind == lexer.Word && !isIdentStart(p.cur.Literal) {
		return newPosError(ErrInvalidIdentifier, p.cur.Position, "invalid identifier %q: must start with a letter or underscore", p.cur.Literal)
	}
	return p.unexpectedCur(expected)
}

func isIdentStart(lit string) bool {
	if lit == "" {
		return false
	}
	c := lit[0]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isAllDigits(lit string) bool {
	if lit == "" {
		return false
	}
	for i := 0; i < len(lit); i++ {
		if lit[i] < '0' || lit[i] > '9' {
			return false
		}
	}
	return true
}

// ParseFile parses a complete file: a sequence of struct and enum
// declarations followed by end of input.
func (p *Parser) ParseFile() (*ir.File, error) {
	var types []ir.Type
	seen := make(map[string]bool)

	for p.cur.Kind != lexer.EOF {
		var (
			t    ir.Type
			name string
			err  error
		)
		switch {
		case p.curIsWord("struct"):
			var s *ir.Struct
			s, err = p.parseStruct()
			if s != nil {
				t, name = s, s.Name
			}
		case p.curIsWord("enum"):
			var e *ir.Enum
			e, err = p.parseEnum()
			if e != nil {
				t, name = e, e.Name
			}
		default:
			err = p.unexpectedCur("`struct` or `enum`")
		}
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, newPosError(ErrDuplicateTypeName, t.Pos(), "duplicate type name %q", name)
		}
		seen[name] = true
		types = append(types, t)
	}

	file := &ir.File{Types: types}
	if err := validateTaggedPayloads(file); err != nil {
		return nil, err
	}
	return file, nil
}

// parseStruct parses: struct IDENT "{" field* "}"
func (p *Parser) parseStruct() (*ir.Struct, error) {
	pos := p.cur.Position
	if err := p.advance(); err != nil { // consume 'struct'
		return nil, err
	}

	if p.cur.Kind != lexer.Word || !isIdentStart(p.cur.Literal) {
		return nil, p.expectIdentErr("a struct name")
	}
	name := p.cur.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}

	if !p.curIsPunct("{") {
		return nil, p.unexpectedCur("`{`")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var fields []ir.Field
	ids := make(map[uint8]bool)
	names := make(map[string]bool)

	for !p.curIsPunct("}") {
		if p.cur.Kind == lexer.EOF {
			return nil, newEndError("a struct field or `}`")
		}
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		if ids[field.ID] {
			return nil, newPosError(ErrDuplicateFieldID, field.Position, "duplicate struct field id %d", field.ID)
		}
		if names[field.Name] {
			return nil, newPosError(ErrDuplicateFieldName, field.Position, "duplicate struct field name %q", field.Name)
		}
		ids[field.ID] = true
		names[field.Name] = true
		fields = append(fields, field)
	}
	if err := p.advance(); err != nil { // consume '}'
		return nil, err
	}

	return &ir.Struct{Name: name, Fields: fields, Position: pos}, nil
}

// parseField parses: ["optional"] ["nullable"] TYPENAME ("[" "]")* IDENT "=" UINT ";"
func (p *Parser) parseField() (ir.Field, error) {
	var optional, nullable bool

	if p.curIsWord("optional") {
		optional = true
		if err := p.advance(); err != nil {
			return ir.Field{}, err
		}
	}
	if p.curIsWord("nullable") {
		nullable = true
		if err := p.advance(); err != nil {
			return ir.Field{}, err
		}
	}

	typeExpected := "a struct field type"
	switch {
	case nullable:
		typeExpected = "a struct field type"
	case optional:
		typeExpected = "`nullable` or a struct field type"
	default:
		typeExpected = "`optional`, `nullable` or a struct field type"
	}

	if p.cur.Kind != lexer.Word || !isIdentStart(p.cur.Literal) {
		return ir.Field{}, p.expectIdentErr(typeExpected)
	}
	typeWord := p.cur.Literal
	if err := p.advance(); err != nil {
		return ir.Field{}, err
	}

	depth := 0
	open := false
	for {
		switch {
		case p.curIsPunct("["):
			if open {
				return ir.Field{}, p.unexpectedCur("`]`")
			}
			open = true
			depth++
			if err := p.advance(); err != nil {
				return ir.Field{}, err
			}
			continue
		case p.curIsPunct("]"):
			if !open {
				return ir.Field{}, p.unexpectedCur("`[` or a struct field name")
			}
			open = false
			if err := p.advance(); err != nil {
				return ir.Field{}, err
			}
			continue
		}
		if open {
			return ir.Field{}, p.unexpectedCur("`]`")
		}
		break
	}

	if p.cur.Kind != lexer.Word || !isIdentStart(p.cur.Literal) {
		return ir.Field{}, p.expectIdentErr("a struct field name")
	}
	fieldName := p.cur.Literal
	fieldPos := p.cur.Position
	if err := p.advance(); err != nil {
		return ir.Field{}, err
	}

	if !p.curIsPunct("=") {
		return ir.Field{}, p.unexpectedCur("`=`")
	}
	if err := p.advance(); err != nil {
		return ir.Field{}, err
	}

	id, err := p.parseID()
	if err != nil {
		return ir.Field{}, err
	}

	if !p.curIsPunct(";") {
		return ir.Field{}, p.unexpectedCur("`;`")
	}
	if err := p.advance(); err != nil {
		return ir.Field{}, err
	}

	fieldType := resolveFieldType(typeWord)
	for i := 0; i < depth; i++ {
		fieldType = ir.ArrayType{Elem: fieldType}
	}

	return ir.Field{
		ID:       id,
		Name:     fieldName,
		Type:     fieldType,
		Optional: optional,
		Nullable: nullable,
		Position: fieldPos,
	}, nil
}

// parseID parses a UINT token and validates it is in [0, 127] with no
// disallowed leading zero.
func (p *Parser) parseID() (uint8, error) {
	if p.cur.Kind != lexer.Word || !isAllDigits(p.cur.Literal) {
		return 0, p.unexpectedCur("an integer between 0 and 127 inclusive")
	}
	lit := p.cur.Literal
	pos := p.cur.Position

	if len(lit) > 1 && lit[0] == '0' {
		return 0, newPosError(ErrInvalidIntegerLeadingZero, pos, "invalid integer %q: leading zero not allowed", lit)
	}

	val, convErr := strconv.ParseUint(lit, 10, 64)
	if convErr != nil || val > 127 {
		return 0, newPosError(ErrIntegerOutOfRange, pos, "invalid integer %q: must be between 0 and 127 inclusive", lit)
	}

	if err := p.advance(); err != nil {
		return 0, err
	}
	return uint8(val), nil
}

// parseEnum parses: enum IDENT "{" variant+ "}"
func (p *Parser) parseEnum() (*ir.Enum, error) {
	pos := p.cur.Position
	if err := p.advance(); err != nil { // consume 'enum'
		return nil, err
	}

	if p.cur.Kind != lexer.Word || !isIdentStart(p.cur.Literal) {
		return nil, p.expectIdentErr("an enum name")
	}
	name := p.cur.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}

	if !p.curIsPunct("{") {
		return nil, p.unexpectedCur("`{`")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var untagged []ir.UntaggedVariant
	var tagged []ir.TaggedVariant
	ids := make(map[uint8]bool)
	names := make(map[string]bool)
	shapeKnown := false
	isTagged := false

	for !p.curIsPunct("}") {
		if p.cur.Kind == lexer.EOF {
			return nil, newEndError("an enum variant or `}`")
		}
		v, err := p.parseEnumVariant(shapeKnown, isTagged)
		if err != nil {
			return nil, err
		}

		if shapeKnown && v.tagged != isTagged {
			return nil, newPosError(ErrMixedEnumVariants, v.pos, "cannot mix tagged and untagged enum variants")
		}
		shapeKnown = true
		isTagged = v.tagged

		if ids[v.id] {
			return nil, newPosError(ErrDuplicateVariantID, v.pos, "duplicate enum variant id %d", v.id)
		}
		if names[v.name] {
			return nil, newPosError(ErrDuplicateVariantName, v.pos, "duplicate enum variant name %q", v.name)
		}
		ids[v.id] = true
		names[v.name] = true

		if v.tagged {
			tagged = append(tagged, ir.TaggedVariant{
				ID: v.id, Name: v.name, PayloadName: v.payload,
				Position: v.pos, PayloadPosition: v.payloadPos,
			})
		} else {
			untagged = append(untagged, ir.UntaggedVariant{ID: v.id, Name: v.name, Position: v.pos})
		}
	}
	if err := p.advance(); err != nil { // consume '}'
		return nil, err
	}

	if len(tagged) == 0 && len(untagged) == 0 {
		return nil, newPosError(ErrEmptyEnum, pos, "enum %q has no variants", name)
	}

	return &ir.Enum{Name: name, Tagged: isTagged, UntaggedVariants: untagged, TaggedVariants: tagged, Position: pos}, nil
}

type enumVariant struct {
	id         uint8
	name       string
	payload    string
	payloadPos ir.Position
	tagged     bool
	pos        ir.Position
}

// parseEnumVariant parses one variant in either the untagged form
// (`IDENT "=" UINT ";"`) or the tagged form (`IDENT IDENT "=" UINT
// ";"`, where the first identifier is the payload struct name). The
// shapeKnown/priorTagged hints only affect the "expected" wording in
// errors, not the parse itself, since both forms start identically.
func (p *Parser) parseEnumVariant(shapeKnown, priorTagged bool) (enumVariant, error) {
	firstExpected := "a struct name or an enum variant name"
	if shapeKnown {
		if priorTagged {
			firstExpected = "a struct name"
		} else {
			firstExpected = "an enum variant name"
		}
	}

	if p.cur.Kind != lexer.Word || !isIdentStart(p.cur.Literal) {
		return enumVariant{}, p.expectIdentErr(firstExpected)
	}
	first := p.cur.Literal
	firstPos := p.cur.Position
	if err := p.advance(); err != nil {
		return enumVariant{}, err
	}

	if p.curIsPunct("=") {
		if err := p.advance(); err != nil {
			return enumVariant{}, err
		}
		id, err := p.parseID()
		if err != nil {
			return enumVariant{}, err
		}
		if !p.curIsPunct(";") {
			return enumVariant{}, p.unexpectedCur("`;`")
		}
		if err := p.advance(); err != nil {
			return enumVariant{}, err
		}
		return enumVariant{id: id, name: first, pos: firstPos, tagged: false}, nil
	}

	if p.cur.Kind != lexer.Word || !isIdentStart(p.cur.Literal) {
		return enumVariant{}, p.expectIdentErr("an enum variant name")
	}
	name := p.cur.Literal
	namePos := p.cur.Position
	if err := p.advance(); err != nil {
		return enumVariant{}, err
	}

	if !p.curIsPunct("=") {
		return enumVariant{}, p.unexpectedCur("`=`")
	}
	if err := p.advance(); err != nil {
		return enumVariant{}, err
	}

	id, err := p.parseID()
	if err != nil {
		return enumVariant{}, err
	}
	if !p.curIsPunct(";") {
		return enumVariant{}, p.unexpectedCur("`;`")
	}
	if err := p.advance(); err != nil {
		return enumVariant{}, err
	}

	return enumVariant{id: id, name: name, pos: namePos, tagged: true, payload: first, payloadPos: firstPos}, nil
}

// resolveFieldType maps a TYPENAME token's text onto the closed field
// type family; the bytes family is resolved lexically on the base
// type name. Anything not matching a primitive or the bytes family is
// a ref<Name>.
func resolveFieldType(word string) ir.FieldType {
	switch word {
	case "bool":
		return ir.Primitive{Kind: ir.Bool}
	case "i8":
		return ir.Primitive{Kind: ir.I8}
	case "i16":
		return ir.Primitive{Kind: ir.I16}
	case "i32":
		return ir.Primitive{Kind: ir.I32}
	case "i64":
		return ir.Primitive{Kind: ir.I64}
	case "u8":
		return ir.Primitive{Kind: ir.U8}
	case "u16":
		return ir.Primitive{Kind: ir.U16}
	case "u32":
		return ir.Primitive{Kind: ir.U32}
	case "u64":
		return ir.Primitive{Kind: ir.U64}
	case "f32":
		return ir.Primitive{Kind: ir.F32}
	case "f64":
		return ir.Primitive{Kind: ir.F64}
	case "string":
		return ir.Primitive{Kind: ir.String}
	case "bytes":
		return ir.Primitive{Kind: ir.Bytes, FixedLen: -1}
	case "bytes0":
		return ir.Primitive{Kind: ir.Bytes, FixedLen: 0}
	}
	if suffix, ok := strings.CutPrefix(word, "bytes"); ok && suffix != "" && suffix[0] >= '1' && suffix[0] <= '9' {
		if n, err := strconv.ParseUint(suffix, 10, 32); err == nil {
			return ir.Primitive{Kind: ir.Bytes, FixedLen: int(n)}
		}
	}
	return ir.RefType{Name: word}
}

// validateTaggedPayloads enforces that every tagged enum variant's
// payload name resolves to a declared struct in the same file.
func validateTaggedPayloads(file *ir.File) error {
	structs := make(map[string]bool)
	for _, t := range file.Types {
		if s, ok := t.(*ir.Struct); ok {
			structs[s.Name] = true
		}
	}
	for _, t := range file.Types {
		e, ok := t.(*ir.Enum)
		if !ok || !e.Tagged {
			continue
		}
		for _, v := range e.TaggedVariants {
			if !structs[v.PayloadName] {
				return newPosError(ErrUnknownTaggedVariantType, v.PayloadPosition, "unknown tagged enum variant type %q", v.PayloadName)
			}
		}
	}
	return nil
}
