package query

import (
	"fmt"

	"github.com/udoprog/st/items"
	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/spans"
)

type ErrorKind uint8

const (
	ErrConflict ErrorKind = iota + 1
	ErrMissingItem
	ErrImportCycle
	ErrCycle
	ErrNotConst
	ErrAmbiguousWildcard
	ErrBadOperands
	ErrDivideByZero
	ErrOverflow
	ErrUnsupportedPath
	ErrNotModule
)

func (k ErrorKind) String() string {
	switch k {
	case ErrConflict:
		return "item already defined"
	case ErrMissingItem:
		return "missing item"
	case ErrImportCycle:
		return "import cycle"
	case ErrCycle:
		return "cycle in constant evaluation"
	case ErrNotConst:
		return "expression is not constant"
	case ErrAmbiguousWildcard:
		return "name is imported by more than one wildcard"
	case ErrBadOperands:
		return "unsupported operands"
	case ErrDivideByZero:
		return "division by zero"
	case ErrOverflow:
		return "integer overflow"
	case ErrUnsupportedPath:
		return "unsupported path"
	case ErrNotModule:
		return "not a module"
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

type Error struct {
	Kind ErrorKind
	Item items.Item
	// the other party of ErrConflict and ErrAmbiguousWildcard
	Other items.Item
	// the operator of ErrBadOperands
	Name string
}

var _ error = new(Error)

func (e *Error) Error() string {
	switch e.Kind {
	case ErrAmbiguousWildcard:
		return fmt.Sprintf("%v: %v (%v)", e.Kind, e.Item, e.Other)
	case ErrBadOperands:
		return fmt.Sprintf("%v for `%s`", e.Kind, e.Name)
	}
	if e.Item.IsRoot() {
		return e.Kind.String()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Item)
}

// ConstError locates a failure inside the evaluation of a constant item,
// which may live in another source than the use of the constant.
type ConstError struct {
	SourceID sources.SourceID
	Span     spans.Span
	Item     items.Item
	Err      error
}

var _ error = new(ConstError)

func (e *ConstError) ErrorSource() (sources.SourceID, spans.Span) {
	return e.SourceID, e.Span
}

func (e *ConstError) Error() string {
	return fmt.Sprintf("evaluating %v: %v", e.Item, e.Err)
}

func (e *ConstError) Unwrap() error {
	return e.Err
}
