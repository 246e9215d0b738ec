package parser

import (
	"fmt"

	"github.com/aurora/typedpack/internal/ir"
)

// ErrorKind classifies a parse error so callers can match on
// classification rather than message text: wording may change between
// versions, the kind is the stable contract.
type ErrorKind int

const (
	ErrNonASCIICharacter ErrorKind = iota
	ErrUnexpectedToken
	ErrUnexpectedEnd
	ErrInvalidIdentifier
	ErrInvalidIntegerLeadingZero
	ErrIntegerOutOfRange
	ErrDuplicateTypeName
	ErrDuplicateFieldID
	ErrDuplicateFieldName
	ErrDuplicateVariantID
	ErrDuplicateVariantName
	ErrMixedEnumVariants
	ErrEmptyEnum
	ErrUnknownTaggedVariantType
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNonASCIICharacter:
		return "NonAsciiCharacter"
	case ErrUnexpectedToken:
		return "UnexpectedToken"
	case ErrUnexpectedEnd:
		return "UnexpectedEnd"
	case ErrInvalidIdentifier:
		return "InvalidIdentifier"
	case ErrInvalidIntegerLeadingZero:
		return "InvalidIntegerLeadingZero"
	case ErrIntegerOutOfRange:
		return "IntegerOutOfRange"
	case ErrDuplicateTypeName:
		return "DuplicateTypeName"
	case ErrDuplicateFieldID:
		return "DuplicateStructFieldId"
	case ErrDuplicateFieldName:
		return "DuplicateStructFieldName"
	case ErrDuplicateVariantID:
		return "DuplicateEnumVariantId"
	case ErrDuplicateVariantName:
		return "DuplicateEnumVariantName"
	case ErrMixedEnumVariants:
		return "MixedTaggedAndUntaggedEnumVariants"
	case ErrEmptyEnum:
		return "EmptyEnum"
	case ErrUnknownTaggedVariantType:
		return "UnknownTaggedEnumVariantType"
	default:
		return "Unknown"
	}
}

// Error is the single error type parsing produces. Parsing is total:
// the first fatal problem stops the parse and is returned wrapped in
// an *Error. HasPosition is false only for end-of-input errors, which
// carry an expected-token description but no position.
type Error struct {
	Kind        ErrorKind
	Message     string
	Position    ir.Position
	HasPosition bool
}

func (e *Error) Error() string {
	if !e.HasPosition {
		return fmt.Sprintf("unexpected end of input: %s", e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

func newPosError(kind ErrorKind, pos ir.Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Position: pos, HasPosition: true}
}

func newEndError(expected string) *Error {
	return &Error{Kind: ErrUnexpectedEnd, Message: fmt.Sprintf("expected %s", expected)}
}
