// Package msgpackgo is the reference backend: it renders a validated
// IR into Go source that encodes and decodes according to the
// MessagePack wire contract, built on internal/wire. Each shape of
// declaration (header, struct, enum, array helpers) has its own
// text/template skeleton; anything that needs recursion, such as
// nested arrays, ref chains, or optional/nullable dispatch, is
// precomputed in Go and handed to the template as an already-rendered
// string.
package msgpackgo

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/aurora/typedpack/internal/codegen"
	"github.com/aurora/typedpack/internal/ir"
)

// Backend implements codegen.Backend for Go source generation.
type Backend struct{}

// New returns a ready-to-use Backend.
func New() *Backend { return &Backend{} }

var (
	headerStr = `// Code generated by typedpack. DO NOT EDIT.

package {{ .PackageName }}
{{ if .Imports }}
import (
{{- range .Imports }}
	"{{ . }}"
{{- end }}
)
{{ end }}`
	headerTemplate = template.Must(template.New("header").Parse(headerStr))
)

type headerData struct {
	PackageName string
	Imports     []string
}

var (
	boolToIntStr = `
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
`
	boolToIntTemplate = template.Must(template.New("boolToInt").Parse(boolToIntStr))
)

var (
	structTypeStr = `
type {{ .Name }} struct {
{{- range .Fields }}
	{{ .GoName }} {{ .GoType }}
{{- end }}
}
`
	structTypeTemplate = template.Must(template.New("structType").Parse(structTypeStr))
)

type structFieldData struct {
	GoName string
	GoType string
}

type structTypeData struct {
	Name   string
	Fields []structFieldData
}

var (
	structFuncsStr = `
func {{ .EncodeFunc }}(w *wire.Writer, v {{ .TypeName }}) {
	w.WriteMapHeader({{ .CountExpr }})
{{ .EncodeBody }}
}

// {{ .ExportedEncode }} encodes a {{ .TypeName }} value.
func {{ .ExportedEncode }}(v {{ .TypeName }}) []byte {
	var w wire.Writer
	{{ .EncodeFunc }}(&w, v)
	return w.Bytes()
}

func {{ .DecodeFunc }}(r *wire.Reader) ({{ .TypeName }}, error) {
	n, err := r.ReadMapHeader()
	if err != nil {
		return {{ .TypeName }}{}, err
	}
	var result {{ .TypeName }}
{{ .SeenDecls }}
	for i := 0; i < n; i++ {
		key, err := r.ReadUint(127)
		if err != nil {
			return {{ .TypeName }}{}, err
		}
		switch key {
{{ .DecodeBody }}
		default:
			if err := r.SkipValue(); err != nil {
				return {{ .TypeName }}{}, err
			}
		}
	}
{{ .RequiredChecks }}
	return result, nil
}

// {{ .ExportedDecode }} decodes a {{ .TypeName }} value.
func {{ .ExportedDecode }}(b []byte) ({{ .TypeName }}, error) {
	r := wire.NewReader(b)
	return {{ .DecodeFunc }}(r)
}
`
	structFuncsTemplate = template.Must(template.New("structFuncs").Parse(structFuncsStr))
)

type structFuncsData struct {
	TypeName       string
	EncodeFunc     string
	DecodeFunc     string
	ExportedEncode string
	ExportedDecode string
	CountExpr      string
	EncodeBody     string
	SeenDecls      string
	DecodeBody     string
	RequiredChecks string
}

var (
	arrayFuncsStr = `
// {{ .ExportedEncodeArray }} encodes a slice of {{ .TypeName }} values.
func {{ .ExportedEncodeArray }}(vs []{{ .TypeName }}) []byte {
	var w wire.Writer
	w.WriteArrayHeader(len(vs))
	for _, v := range vs {
		{{ .EncodeFunc }}(&w, v)
	}
	return w.Bytes()
}

// {{ .ExportedDecodeArray }} decodes a slice of {{ .TypeName }} values.
func {{ .ExportedDecodeArray }}(b []byte) ([]{{ .TypeName }}, error) {
	r := wire.NewReader(b)
	n, err := r.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	out := make([]{{ .TypeName }}, n)
	for i := 0; i < n; i++ {
		v, err := {{ .DecodeFunc }}(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
`
	arrayFuncsTemplate = template.Must(template.New("arrayFuncs").Parse(arrayFuncsStr))
)

type arrayFuncsData struct {
	TypeName            string
	EncodeFunc          string
	DecodeFunc          string
	ExportedEncodeArray string
	ExportedDecodeArray string
}

var (
	internalDecodeAliasStr = `
// {{ .ExportedName }} exposes the implementation-private decode
// helper of {{ .TypeName }} for tests that need to decode a value
// without going through its top-level byte-slice decoder.
func {{ .ExportedName }}(r *wire.Reader) ({{ .TypeName }}, error) {
	return {{ .DecodeFunc }}(r)
}
`
	internalDecodeAliasTemplate = template.Must(template.New("internalDecodeAlias").Parse(internalDecodeAliasStr))
)

type internalDecodeAliasData struct {
	ExportedName string
	TypeName     string
	DecodeFunc   string
}

var (
	untaggedEnumStr = `
type {{ .TypeName }} int32

const (
{{- range .Variants }}
	{{ .ConstName }} {{ $.TypeName }} = {{ .ID }}
{{- end }}
)

func {{ .EncodeFunc }}(w *wire.Writer, v {{ .TypeName }}) {
	w.WriteInt(int64(v))
}

// {{ .ExportedEncode }} encodes a {{ .TypeName }} value.
func {{ .ExportedEncode }}(v {{ .TypeName }}) []byte {
	var w wire.Writer
	{{ .EncodeFunc }}(&w, v)
	return w.Bytes()
}

func {{ .DecodeFunc }}(r *wire.Reader) ({{ .TypeName }}, error) {
	raw, err := r.ReadInt(-2147483648, 2147483647)
	if err != nil {
		return 0, err
	}
	switch raw {
{{- range .Variants }}
	case {{ .ID }}:
		return {{ $.TypeName }}(raw), nil
{{- end }}
	default:
		return 0, fmt.Errorf("{{ .TypeName }}: unknown variant id %d", raw)
	}
}

// {{ .ExportedDecode }} decodes a {{ .TypeName }} value.
func {{ .ExportedDecode }}(b []byte) ({{ .TypeName }}, error) {
	r := wire.NewReader(b)
	return {{ .DecodeFunc }}(r)
}
`
	untaggedEnumTemplate = template.Must(template.New("untaggedEnum").Parse(untaggedEnumStr))
)

type untaggedVariantData struct {
	ConstName string
	ID        uint8
}

type untaggedEnumData struct {
	TypeName       string
	Variants       []untaggedVariantData
	EncodeFunc     string
	DecodeFunc     string
	ExportedEncode string
	ExportedDecode string
}

var (
	taggedEnumStr = `
type {{ .TypeName }} struct {
	ID uint8
{{- range .Variants }}
	{{ .FieldName }} *{{ .PayloadType }}
{{- end }}
}

func {{ .EncodeFunc }}(w *wire.Writer, v {{ .TypeName }}) {
	w.WriteArrayHeader(2)
	w.WriteUint(uint64(v.ID))
	switch v.ID {
{{- range .Variants }}
	case {{ .ID }}:
		{{ .PayloadEncodeFunc }}(w, *v.{{ .FieldName }})
{{- end }}
	default:
		panic(fmt.Sprintf("typedpack: unknown {{ .TypeName }} variant id %d", v.ID))
	}
}

// {{ .ExportedEncode }} encodes a {{ .TypeName }} value.
func {{ .ExportedEncode }}(v {{ .TypeName }}) []byte {
	var w wire.Writer
	{{ .EncodeFunc }}(&w, v)
	return w.Bytes()
}

func {{ .DecodeFunc }}(r *wire.Reader) ({{ .TypeName }}, error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return {{ .TypeName }}{}, err
	}
	if n != 2 {
		return {{ .TypeName }}{}, fmt.Errorf("{{ .TypeName }}: tagged enum array length %d, want 2", n)
	}
	id, err := r.ReadUint(127)
	if err != nil {
		return {{ .TypeName }}{}, err
	}
	switch id {
{{- range .Variants }}
	case {{ .ID }}:
		payload, err := {{ .PayloadDecodeFunc }}(r)
		if err != nil {
			return {{ $.TypeName }}{}, err
		}
		return {{ $.TypeName }}{ID: uint8(id), {{ .FieldName }}: &payload}, nil
{{- end }}
	default:
		return {{ .TypeName }}{}, fmt.Errorf("{{ .TypeName }}: unknown variant id %d", id)
	}
}

// {{ .ExportedDecode }} decodes a {{ .TypeName }} value.
func {{ .ExportedDecode }}(b []byte) ({{ .TypeName }}, error) {
	r := wire.NewReader(b)
	return {{ .DecodeFunc }}(r)
}
`
	taggedEnumTemplate = template.Must(template.New("taggedEnum").Parse(taggedEnumStr))
)

type taggedVariantData struct {
	ID                uint8
	FieldName         string
	PayloadType       string
	PayloadEncodeFunc string
	PayloadDecodeFunc string
}

type taggedEnumData struct {
	TypeName       string
	Variants       []taggedVariantData
	EncodeFunc     string
	DecodeFunc     string
	ExportedEncode string
	ExportedDecode string
}

func execTemplate(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("msgpackgo: executing template %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// Generate renders file as Go source per opts. It satisfies
// codegen.Backend.
func (b *Backend) Generate(file *ir.File, opts codegen.Options) (string, error) {
	opts = fillDefaults(opts)
	e := newEmitter(file, opts)

	var bodies strings.Builder
	for _, t := range file.Types {
		switch v := t.(type) {
		case *ir.Struct:
			s, err := e.generateStruct(v)
			if err != nil {
				return "", err
			}
			bodies.WriteString(s)
		case *ir.Enum:
			s, err := e.generateEnum(v)
			if err != nil {
				return "", err
			}
			bodies.WriteString(s)
		}
	}

	var imports []string
	if e.usesFmt {
		imports = append(imports, "fmt")
	}
	if e.usesWire {
		imports = append(imports, "github.com/aurora/typedpack/internal/wire")
	}

	var out strings.Builder
	header, err := execTemplate(headerTemplate, headerData{PackageName: "typedpack", Imports: imports})
	if err != nil {
		return "", err
	}
	out.WriteString(header)

	if e.usesBoolToInt {
		helper, err := execTemplate(boolToIntTemplate, nil)
		if err != nil {
			return "", err
		}
		out.WriteString(helper)
	}

	out.WriteString(bodies.String())

	return out.String(), nil
}

func fillDefaults(opts codegen.Options) codegen.Options {
	d := codegen.DefaultOptions()
	if opts.TypesNamespace == "" {
		opts.TypesNamespace = d.TypesNamespace
	}
	if opts.EncodeNamespace == "" {
		opts.EncodeNamespace = d.EncodeNamespace
	}
	if opts.DecodeNamespace == "" {
		opts.DecodeNamespace = d.DecodeNamespace
	}
	if opts.EncodeArrayNamespace == "" {
		opts.EncodeArrayNamespace = d.EncodeArrayNamespace
	}
	if opts.DecodeArrayNamespace == "" {
		opts.DecodeArrayNamespace = d.DecodeArrayNamespace
	}
	return opts
}

func (e *emitter) generateStruct(s *ir.Struct) (string, error) {
	e.usesWire = true
	typeName := e.typeName(s.Name)
	encodeFunc := e.encodeFuncName(s.Name)
	decodeFunc := e.decodeFuncName(s.Name)

	var fields []structFieldData
	for _, f := range s.Fields {
		fields = append(fields, structFieldData{
			GoName: codegen.ExportedName(f.Name),
			GoType: e.fieldGoType(f),
		})
	}
	typeDecl, err := execTemplate(structTypeTemplate, structTypeData{Name: typeName, Fields: fields})
	if err != nil {
		return "", err
	}

	countTerms := make([]string, 0, len(s.Fields))
	var encodeBody, decodeBody, seenDecls, requiredChecks strings.Builder
	for _, f := range s.Fields {
		goName := codegen.ExportedName(f.Name)
		if f.Optional {
			countTerms = append(countTerms, fmt.Sprintf("boolToInt(v.%s != nil)", goName))
			e.usesBoolToInt = true
		} else {
			countTerms = append(countTerms, "1")
		}

		encodeBody.WriteString(e.renderFieldEncode(f, goName))
		decodeBody.WriteString(e.renderFieldDecodeCase(f, goName, typeName))

		if !f.Optional {
			seenVar := "seen" + goName
			seenDecls.WriteString(fmt.Sprintf("\t%s := false\n", seenVar))
			requiredChecks.WriteString(fmt.Sprintf(
				"\tif !%s {\n\t\treturn %s{}, fmt.Errorf(%q)\n\t}\n",
				seenVar, typeName, fmt.Sprintf("missing required field %q", f.Name)))
			e.usesFmt = true
		}
	}

	countExpr := strings.Join(countTerms, " + ")
	if countExpr == "" {
		countExpr = "0"
	}

	funcs, err := execTemplate(structFuncsTemplate, structFuncsData{
		TypeName:       typeName,
		EncodeFunc:     encodeFunc,
		DecodeFunc:     decodeFunc,
		ExportedEncode: codegen.Namespaced(e.opts.EncodeNamespace, codegen.ExportedName(s.Name)),
		ExportedDecode: codegen.Namespaced(e.opts.DecodeNamespace, codegen.ExportedName(s.Name)),
		CountExpr:      countExpr,
		EncodeBody:     encodeBody.String(),
		SeenDecls:      seenDecls.String(),
		DecodeBody:     decodeBody.String(),
		RequiredChecks: requiredChecks.String(),
	})
	if err != nil {
		return "", err
	}

	arrays, err := execTemplate(arrayFuncsTemplate, arrayFuncsData{
		TypeName:            typeName,
		EncodeFunc:          encodeFunc,
		DecodeFunc:          decodeFunc,
		ExportedEncodeArray: codegen.Namespaced(e.opts.EncodeArrayNamespace, codegen.ExportedName(s.Name)),
		ExportedDecodeArray: codegen.Namespaced(e.opts.DecodeArrayNamespace, codegen.ExportedName(s.Name)),
	})
	if err != nil {
		return "", err
	}

	result := typeDecl + funcs + arrays
	if e.opts.ExportDecodeInternalNamespace {
		alias, err := execTemplate(internalDecodeAliasTemplate, internalDecodeAliasData{
			ExportedName: "DecodeInternal" + codegen.ExportedName(s.Name),
			TypeName:     typeName,
			DecodeFunc:   decodeFunc,
		})
		if err != nil {
			return "", err
		}
		result += alias
	}
	return result, nil
}

// renderFieldEncode renders the conditional write of one struct
// field, dispatching on its optional/nullable combination per the
// four-way presence table.
func (e *emitter) renderFieldEncode(f ir.Field, goName string) string {
	var b strings.Builder
	valueExpr := "v." + goName
	writeKey := fmt.Sprintf("\tw.WriteUint(uint64(%d))\n", f.ID)

	switch {
	case f.Optional && f.Nullable:
		b.WriteString(fmt.Sprintf("\tif v.%s != nil {\n", goName))
		b.WriteString(writeKey)
		b.WriteString(fmt.Sprintf("\t\tif *v.%s == nil {\n\t\t\tw.WriteNil()\n\t\t} else {\n", goName))
		for _, l := range e.encodeStmts("**"+valueExpr, f.Type) {
			b.WriteString("\t\t\t" + l + "\n")
		}
		b.WriteString("\t\t}\n\t}\n")
	case f.Optional:
		b.WriteString(fmt.Sprintf("\tif v.%s != nil {\n", goName))
		b.WriteString(writeKey)
		for _, l := range e.encodeStmts("*"+valueExpr, f.Type) {
			b.WriteString("\t\t" + l + "\n")
		}
		b.WriteString("\t}\n")
	case f.Nullable:
		b.WriteString(writeKey)
		b.WriteString(fmt.Sprintf("\tif v.%s == nil {\n\t\tw.WriteNil()\n\t} else {\n", goName))
		for _, l := range e.encodeStmts("*"+valueExpr, f.Type) {
			b.WriteString("\t\t" + l + "\n")
		}
		b.WriteString("\t}\n")
	default:
		b.WriteString(writeKey)
		for _, l := range e.encodeStmts(valueExpr, f.Type) {
			b.WriteString("\t" + l + "\n")
		}
	}
	return b.String()
}

// renderFieldDecodeCase renders one "case <id>:" arm of the struct
// decoder's key-dispatch switch.
func (e *emitter) renderFieldDecodeCase(f ir.Field, goName, typeName string) string {
	zero := typeName + "{}"
	tmp := e.fresh("v")
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\t\tcase %d:\n", f.ID))

	switch {
	case f.Optional && f.Nullable:
		b.WriteString("\t\t\tif r.PeekIsNil() {\n")
		b.WriteString("\t\t\t\tif err := r.ReadNil(); err != nil {\n")
		b.WriteString(fmt.Sprintf("\t\t\t\t\treturn %s, err\n\t\t\t\t}\n", zero))
		b.WriteString(fmt.Sprintf("\t\t\t\tvar nullVal *%s\n", e.bareGoType(f.Type)))
		b.WriteString(fmt.Sprintf("\t\t\t\tresult.%s = &nullVal\n", goName))
		b.WriteString("\t\t\t} else {\n")
		for _, l := range e.decodeStmts(tmp, f.Type, zero) {
			b.WriteString("\t\t\t\t" + l + "\n")
		}
		b.WriteString(fmt.Sprintf("\t\t\t\t%sPtr := &%s\n", tmp, tmp))
		b.WriteString(fmt.Sprintf("\t\t\t\tresult.%s = &%sPtr\n", goName, tmp))
		b.WriteString("\t\t\t}\n")
	case f.Optional:
		for _, l := range e.decodeStmts(tmp, f.Type, zero) {
			b.WriteString("\t\t\t" + l + "\n")
		}
		b.WriteString(fmt.Sprintf("\t\t\tresult.%s = &%s\n", goName, tmp))
	case f.Nullable:
		b.WriteString("\t\t\tif r.PeekIsNil() {\n")
		b.WriteString("\t\t\t\tif err := r.ReadNil(); err != nil {\n")
		b.WriteString(fmt.Sprintf("\t\t\t\t\treturn %s, err\n\t\t\t\t}\n", zero))
		b.WriteString(fmt.Sprintf("\t\t\t\tresult.%s = nil\n", goName))
		b.WriteString("\t\t\t} else {\n")
		for _, l := range e.decodeStmts(tmp, f.Type, zero) {
			b.WriteString("\t\t\t\t" + l + "\n")
		}
		b.WriteString(fmt.Sprintf("\t\t\t\tresult.%s = &%s\n", goName, tmp))
		b.WriteString("\t\t\t}\n")
	default:
		for _, l := range e.decodeStmts(tmp, f.Type, zero) {
			b.WriteString("\t\t\t" + l + "\n")
		}
		b.WriteString(fmt.Sprintf("\t\t\tresult.%s = %s\n", goName, tmp))
	}

	if !f.Optional {
		b.WriteString(fmt.Sprintf("\t\t\tseen%s = true\n", goName))
	}
	return b.String()
}

func (e *emitter) generateEnum(en *ir.Enum) (string, error) {
	e.usesWire = true
	typeName := e.typeName(en.Name)
	encodeFunc := e.encodeFuncName(en.Name)
	decodeFunc := e.decodeFuncName(en.Name)

	e.usesFmt = true

	if !en.Tagged {
		variants := make([]untaggedVariantData, 0, len(en.UntaggedVariants))
		for _, v := range en.UntaggedVariants {
			variants = append(variants, untaggedVariantData{
				ConstName: typeName + codegen.ExportedName(v.Name),
				ID:        v.ID,
			})
		}
		sort.Slice(variants, func(i, j int) bool { return variants[i].ID < variants[j].ID })
		return execTemplate(untaggedEnumTemplate, untaggedEnumData{
			TypeName:       typeName,
			Variants:       variants,
			EncodeFunc:     encodeFunc,
			DecodeFunc:     decodeFunc,
			ExportedEncode: codegen.Namespaced(e.opts.EncodeNamespace, codegen.ExportedName(en.Name)),
			ExportedDecode: codegen.Namespaced(e.opts.DecodeNamespace, codegen.ExportedName(en.Name)),
		})
	}

	variants := make([]taggedVariantData, 0, len(en.TaggedVariants))
	for _, v := range en.TaggedVariants {
		variants = append(variants, taggedVariantData{
			ID:                v.ID,
			FieldName:         codegen.ExportedName(v.Name),
			PayloadType:       e.typeName(v.PayloadName),
			PayloadEncodeFunc: e.encodeFuncName(v.PayloadName),
			PayloadDecodeFunc: e.decodeFuncName(v.PayloadName),
		})
	}
	sort.Slice(variants, func(i, j int) bool { return variants[i].ID < variants[j].ID })

	result, err := execTemplate(taggedEnumTemplate, taggedEnumData{
		TypeName:       typeName,
		Variants:       variants,
		EncodeFunc:     encodeFunc,
		DecodeFunc:     decodeFunc,
		ExportedEncode: codegen.Namespaced(e.opts.EncodeNamespace, codegen.ExportedName(en.Name)),
		ExportedDecode: codegen.Namespaced(e.opts.DecodeNamespace, codegen.ExportedName(en.Name)),
	})
	if err != nil {
		return "", err
	}

	arrays, err := execTemplate(arrayFuncsTemplate, arrayFuncsData{
		TypeName:            typeName,
		EncodeFunc:          encodeFunc,
		DecodeFunc:          decodeFunc,
		ExportedEncodeArray: codegen.Namespaced(e.opts.EncodeArrayNamespace, codegen.ExportedName(en.Name)),
		ExportedDecodeArray: codegen.Namespaced(e.opts.DecodeArrayNamespace, codegen.ExportedName(en.Name)),
	})
	if err != nil {
		return "", err
	}
	result += arrays

	if e.opts.ExportDecodeInternalNamespace {
		alias, err := execTemplate(internalDecodeAliasTemplate, internalDecodeAliasData{
			ExportedName: "DecodeInternal" + codegen.ExportedName(en.Name),
			TypeName:     typeName,
			DecodeFunc:   decodeFunc,
		})
		if err != nil {
			return "", err
		}
		result += alias
	}
	return result, nil
}
