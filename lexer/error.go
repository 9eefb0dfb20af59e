package lexer

import (
	"fmt"

	"github.com/udoprog/st/spans"
)

type ErrorKind uint8

const (
	ErrUnexpectedChar ErrorKind = iota + 1
	ErrUnterminatedStr
	ErrUnterminatedByteStr
	ErrUnterminatedChar
	ErrUnterminatedByte
	ErrExpectedCharClose
	ErrExpectedByteClose
	ErrExpectedEscape
	ErrUnexpectedCloseBrace
	ErrBadLexerMode
	ErrExpectedTemplateMode
	ErrUnexpectedEOF
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedChar:
		return "unexpected character"
	case ErrUnterminatedStr:
		return "unterminated string literal"
	case ErrUnterminatedByteStr:
		return "unterminated byte string literal"
	case ErrUnterminatedChar:
		return "unterminated character literal"
	case ErrUnterminatedByte:
		return "unterminated byte literal"
	case ErrExpectedCharClose:
		return "expected character literal to be closed"
	case ErrExpectedByteClose:
		return "expected byte literal to be closed"
	case ErrExpectedEscape:
		return "expected escape sequence"
	case ErrUnexpectedCloseBrace:
		return "unexpected closing brace"
	case ErrBadLexerMode:
		return "bad lexer mode"
	case ErrExpectedTemplateMode:
		return "expected template mode"
	case ErrUnexpectedEOF:
		return "unexpected end of input"
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Error is a fatal lexing error. Lexing of the current source stops.
type Error struct {
	Span spans.Span
	Kind ErrorKind

	// set for ErrUnexpectedChar
	Char rune
	// set for ErrBadLexerMode
	Mode     string
	Expected string
}

var _ error = new(Error)

func (e *Error) ErrorSpan() spans.Span {
	return e.Span
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnexpectedChar:
		return fmt.Sprintf("%v %q at %v", e.Kind, e.Char, e.Span)
	case ErrBadLexerMode:
		return fmt.Sprintf("%v at %v: got %s, expected %s", e.Kind, e.Span, e.Mode, e.Expected)
	}
	return fmt.Sprintf("%v at %v", e.Kind, e.Span)
}
