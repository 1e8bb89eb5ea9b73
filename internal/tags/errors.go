package tags

import (
	"errors"
	"fmt"
)

// Tag syntax errors.
var (
	// ErrMismatchedBrackets indicates a tag contains a nested opening bracket.
	ErrMismatchedBrackets = errors.New("mismatched brackets")

	// ErrInvalidParameter indicates a parameter segment without a colon.
	ErrInvalidParameter = errors.New("invalid parameter syntax")

	// ErrEmptyParameterName indicates a parameter segment with a blank name.
	ErrEmptyParameterName = errors.New("empty parameter name")

	// ErrUnknownParameter indicates a parameter that is not in the catalog.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrParameterRange indicates a catalog parameter outside its range.
	ErrParameterRange = errors.New("parameter out of range")
)

// ErrorCode identifies the kind of syntax error found in a tag.
type ErrorCode string

const (
	ErrorCodeMismatchedBrackets ErrorCode = "MISMATCHED_BRACKETS"
	ErrorCodeInvalidParameter   ErrorCode = "INVALID_PARAMETER"
	ErrorCodeEmptyParameterName ErrorCode = "EMPTY_PARAMETER_NAME"
)

// SyntaxError describes the first malformed tag found in a text.
type SyntaxError struct {
	Code ErrorCode

	// Tag is the full bracketed tag text.
	Tag string

	// Segment is the offending parameter segment, if any.
	Segment string

	// Position is the offset of the tag's opening bracket.
	Position int
}

// Error returns the user-facing validation message.
func (e *SyntaxError) Error() string {
	switch e.Code {
	case ErrorCodeMismatchedBrackets:
		return fmt.Sprintf("Mismatched brackets in tag: %s", e.Tag)
	case ErrorCodeInvalidParameter:
		return fmt.Sprintf("Invalid parameter syntax: %s (expected format: param:value)", e.Segment)
	case ErrorCodeEmptyParameterName:
		return fmt.Sprintf("Empty parameter name in %s", e.Segment)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Tag)
	}
}

// Unwrap returns the sentinel error matching the error code.
func (e *SyntaxError) Unwrap() error {
	switch e.Code {
	case ErrorCodeMismatchedBrackets:
		return ErrMismatchedBrackets
	case ErrorCodeInvalidParameter:
		return ErrInvalidParameter
	case ErrorCodeEmptyParameterName:
		return ErrEmptyParameterName
	default:
		return nil
	}
}
