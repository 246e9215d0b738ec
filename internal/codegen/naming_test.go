package codegen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"struct_field_name", []string{"struct", "field", "name"}},
		{"camelCaseField", []string{"camel", "Case", "Field"}},
		{"ID", []string{"ID"}},
		{"already", []string{"already"}},
		{"leading_", []string{"leading"}},
	}
	for _, tt := range tests {
		got := splitWords(tt.in)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("splitWords(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestExportedNameTitleCasesEveryWord(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"struct_field_name", "StructFieldName"},
		{"camelCaseField", "CamelCaseField"},
		{"x", "X"},
	}
	for _, tt := range tests {
		if got := ExportedName(tt.in); got != tt.want {
			t.Errorf("ExportedName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnexportedNameLowersFirstRune(t *testing.T) {
	if got := UnexportedName("struct_field_name"); got != "structFieldName" {
		t.Errorf("UnexportedName = %q, want structFieldName", got)
	}
}

func TestNamespacedJoinsPrefixAndTypeName(t *testing.T) {
	if got := Namespaced("Encode", "Point"); got != "EncodePoint" {
		t.Errorf("Namespaced = %q, want EncodePoint", got)
	}
}
