// Package checker re-validates an *ir.File against the schema's
// semantic rules, independent of how that IR was produced. The
// parser already enforces these rules inline while it builds the IR
// (so parser.Parse alone is a complete, correct frontend); Checker is
// a second, independent pass over an already-built IR, for defense in
// depth against IR constructed through some path other than the
// parser.
package checker

import (
	"fmt"

	"github.com/aurora/typedpack/internal/ir"
)

// Error is a semantic error found by a Checker run.
type Error struct {
	Pos     ir.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Checker validates a *ir.File.
type Checker struct {
	file *ir.File

	structs map[string]*ir.Struct
	enums   map[string]*ir.Enum
}

// New creates a Checker for file.
func New(file *ir.File) *Checker {
	return &Checker{
		file:    file,
		structs: make(map[string]*ir.Struct),
		enums:   make(map[string]*ir.Enum),
	}
}

// Check runs every validation rule and returns all errors found (nil
// if the file is valid). Unlike the parser, which stops at the first
// problem, Check collects every defect in one pass since its job is
// to audit IR that may not have come from the parser.
func (c *Checker) Check() []error {
	var errs []error

	typeNames := make(map[string]bool)
	for _, t := range c.file.Types {
		if typeNames[t.TypeName()] {
			errs = append(errs, &Error{Pos: t.Pos(), Message: fmt.Sprintf("duplicate type name %q", t.TypeName())})
		}
		typeNames[t.TypeName()] = true

		switch v := t.(type) {
		case *ir.Struct:
			c.structs[v.Name] = v
		case *ir.Enum:
			c.enums[v.Name] = v
		}
	}

	for _, t := range c.file.Types {
		switch v := t.(type) {
		case *ir.Struct:
			errs = append(errs, c.checkStruct(v)...)
		case *ir.Enum:
			errs = append(errs, c.checkEnum(v)...)
		}
	}

	return errs
}

func (c *Checker) checkStruct(s *ir.Struct) []error {
	var errs []error
	ids := make(map[uint8]bool)
	names := make(map[string]bool)
	for _, f := range s.Fields {
		if ids[f.ID] {
			errs = append(errs, &Error{Pos: f.Position, Message: fmt.Sprintf("duplicate struct field id %d", f.ID)})
		}
		ids[f.ID] = true
		if names[f.Name] {
			errs = append(errs, &Error{Pos: f.Position, Message: fmt.Sprintf("duplicate struct field name %q", f.Name)})
		}
		names[f.Name] = true
	}
	return errs
}

func (c *Checker) checkEnum(e *ir.Enum) []error {
	var errs []error
	ids := make(map[uint8]bool)
	names := make(map[string]bool)

	if len(e.TaggedVariants) == 0 && len(e.UntaggedVariants) == 0 {
		errs = append(errs, &Error{Pos: e.Position, Message: fmt.Sprintf("enum %q has no variants", e.Name)})
	}

	for _, v := range e.UntaggedVariants {
		if ids[v.ID] {
			errs = append(errs, &Error{Pos: v.Position, Message: fmt.Sprintf("duplicate enum variant id %d", v.ID)})
		}
		ids[v.ID] = true
		if names[v.Name] {
			errs = append(errs, &Error{Pos: v.Position, Message: fmt.Sprintf("duplicate enum variant name %q", v.Name)})
		}
		names[v.Name] = true
	}
	for _, v := range e.TaggedVariants {
		if ids[v.ID] {
			errs = append(errs, &Error{Pos: v.Position, Message: fmt.Sprintf("duplicate enum variant id %d", v.ID)})
		}
		ids[v.ID] = true
		if names[v.Name] {
			errs = append(errs, &Error{Pos: v.Position, Message: fmt.Sprintf("duplicate enum variant name %q", v.Name)})
		}
		names[v.Name] = true

		if _, ok := c.structs[v.PayloadName]; !ok {
			errs = append(errs, &Error{
				Pos:     v.PayloadPosition,
				Message: fmt.Sprintf("unknown tagged enum variant type %q", v.PayloadName),
			})
		}
	}
	return errs
}

// Check is a convenience function equivalent to New(file).Check().
func Check(file *ir.File) []error {
	return New(file).Check()
}
