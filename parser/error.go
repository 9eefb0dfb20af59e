package parser

import (
	"fmt"

	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/spans"
)

type ErrorKind uint8

const (
	ErrUnexpected ErrorKind = iota + 1
	ErrExpected
	ErrTokenMismatch
	ErrExpectedEOF
	ErrUnexpectedEOF
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpected:
		return "unexpected token"
	case ErrExpected:
		return "expected"
	case ErrTokenMismatch:
		return "token mismatch"
	case ErrExpectedEOF:
		return "expected end of input"
	case ErrUnexpectedEOF:
		return "unexpected end of input"
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Error is a parse failure. Lexer failures are passed through as *lexer.Error.
type Error struct {
	Span     spans.Span
	Kind     ErrorKind
	Expected string
	Actual   ast.Kind
}

var _ error = new(Error)

func (e *Error) ErrorSpan() spans.Span {
	return e.Span
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrExpected:
		return fmt.Sprintf("expected %s, got %v at %v", e.Expected, e.Actual, e.Span)
	case ErrTokenMismatch:
		return fmt.Sprintf("token mismatch at %v: expected %s, got %v", e.Span, e.Expected, e.Actual)
	case ErrExpectedEOF:
		return fmt.Sprintf("expected end of input, got %v at %v", e.Actual, e.Span)
	case ErrUnexpectedEOF:
		if e.Expected != "" {
			return fmt.Sprintf("unexpected end of input at %v, expected %s", e.Span, e.Expected)
		}
		return fmt.Sprintf("unexpected end of input at %v", e.Span)
	}
	return fmt.Sprintf("unexpected %v at %v", e.Actual, e.Span)
}
