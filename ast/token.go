package ast

import (
	"fmt"

	"github.com/udoprog/st/spans"
)

type NumberBase uint8

const (
	Decimal NumberBase = iota
	Hex
	Binary
	Octal
)

func (b NumberBase) Radix() int {
	switch b {
	case Hex:
		return 16
	case Binary:
		return 2
	case Octal:
		return 8
	}
	return 10
}

func (b NumberBase) String() string {
	switch b {
	case Hex:
		return "hex"
	case Binary:
		return "binary"
	case Octal:
		return "octal"
	}
	return "decimal"
}

// LitSource describes where the value of a literal token comes from.
//
// A nil Inline means the value is re-derived from the token span against the
// original source, with the result memoized in a Storage. Synthesized tokens
// carry their value in Inline instead.
type LitSource struct {
	Inline any

	// string and byte string literals
	Escaped bool
	Wrapped bool

	// number literals
	Fractional bool
	Base       NumberBase
}

func (s LitSource) IsText() bool {
	return s.Inline == nil
}

// Token is a kind tagged with its byte span.
type Token struct {
	Kind   Kind
	Span   spans.Span
	Source LitSource
}

func (t Token) String() string {
	switch t.Kind {
	case KindNumber:
		return fmt.Sprintf("%v(%v, fractional=%v)@%v", t.Kind, t.Source.Base, t.Source.Fractional, t.Span)
	case KindStr, KindByteStr:
		return fmt.Sprintf("%v(escaped=%v, wrapped=%v)@%v", t.Kind, t.Source.Escaped, t.Source.Wrapped, t.Span)
	}
	return fmt.Sprintf("%v@%v", t.Kind, t.Span)
}

// Spanned is implemented by everything that covers a range of source.
type Spanned interface {
	Span() spans.Span
}
