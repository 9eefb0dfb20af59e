package worker

import (
	"fmt"

	"github.com/reusee/e5"
	"github.com/udoprog/st/items"
	"github.com/udoprog/st/spans"
)

var wrap = e5.Wrap.With(e5.WrapStacktrace)

type ErrorKind uint8

const (
	ErrModuleConflict ErrorKind = iota + 1
	ErrUnsupportedImport
)

func (k ErrorKind) String() string {
	switch k {
	case ErrModuleConflict:
		return "module is already loaded"
	case ErrUnsupportedImport:
		return "unsupported import"
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

type Error struct {
	Span spans.Span
	Kind ErrorKind
	Item items.Item
	// where the module was loaded first, for ErrModuleConflict
	Existing spans.Span
}

var _ error = new(Error)

func (e *Error) ErrorSpan() spans.Span {
	return e.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v at %v", e.Kind, e.Item, e.Span)
}
