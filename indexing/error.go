package indexing

import (
	"fmt"

	"github.com/udoprog/st/spans"
)

type ErrorKind uint8

const (
	ErrMacrosDisabled ErrorKind = iota + 1
	ErrMacroExpansion
	ErrBadName
	ErrConflict
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMacrosDisabled:
		return "macros are disabled"
	case ErrMacroExpansion:
		return "macro expansion failed"
	case ErrBadName:
		return "bad item name"
	case ErrConflict:
		return "conflicting item"
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

type Error struct {
	Span spans.Span
	Kind ErrorKind
	Err  error
}

var _ error = new(Error)

func (e *Error) ErrorSpan() spans.Span {
	return e.Span
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v at %v: %v", e.Kind, e.Span, e.Err)
	}
	return fmt.Sprintf("%v at %v", e.Kind, e.Span)
}

func (e *Error) Unwrap() error {
	return e.Err
}
