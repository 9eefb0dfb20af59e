package compiler

import (
	"fmt"

	"github.com/udoprog/st/items"
	"github.com/udoprog/st/spans"
)

type ErrorKind uint8

const (
	ErrMissingItem ErrorKind = iota + 1
	ErrUnsupportedAssignTarget
	ErrMissingLocal
	ErrMissingLabel
	ErrBreakOutsideLoop
	ErrUnsupported
	ErrUnexpandedMacro
	ErrNotCallable
	ErrBadArgumentCount
	ErrDuplicateKey
	ErrResolve
	ErrRequires
	ErrOperandOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMissingItem:
		return "missing item"
	case ErrUnsupportedAssignTarget:
		return "unsupported assignment target"
	case ErrMissingLocal:
		return "missing local variable"
	case ErrMissingLabel:
		return "missing loop label"
	case ErrBreakOutsideLoop:
		return "break or continue outside of a loop"
	case ErrUnsupported:
		return "unsupported"
	case ErrUnexpandedMacro:
		return "macro call was not expanded"
	case ErrNotCallable:
		return "item is not callable"
	case ErrBadArgumentCount:
		return "wrong number of arguments"
	case ErrDuplicateKey:
		return "duplicate object key"
	case ErrResolve:
		return "failed to resolve"
	case ErrRequires:
		return "language version requirement not met"
	case ErrOperandOverflow:
		return "operand out of range"
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

type Error struct {
	Span spans.Span
	Kind ErrorKind
	Item items.Item
	// the local, label, key or construct the error is about
	Name string
	Err  error
}

var _ error = new(Error)

func (e *Error) ErrorSpan() spans.Span {
	return e.Span
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if !e.Item.IsRoot() {
		msg += fmt.Sprintf(" `%v`", e.Item)
	}
	if e.Name != "" {
		msg += fmt.Sprintf(" `%s`", e.Name)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s at %v", msg, e.Span)
}

func (e *Error) Unwrap() error {
	return e.Err
}
