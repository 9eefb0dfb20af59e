package diagnostics

import (
	"errors"
	"fmt"

	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/spans"
)

// SpanError is implemented by errors that know where they happened.
type SpanError interface {
	error
	ErrorSpan() spans.Span
}

// SourceError is implemented by errors that happened in a specific source,
// possibly another one than the operation that failed.
type SourceError interface {
	error
	ErrorSource() (sources.SourceID, spans.Span)
}

// Diagnostic is an error tied to a source location.
type Diagnostic struct {
	SourceID sources.SourceID
	Span     spans.Span
	Err      error
}

var _ error = Diagnostic{}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("source %d at %v: %v", d.SourceID, d.Span, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Errors is the append-only error sink of a compilation.
type Errors struct {
	list []Diagnostic
}

// Push records err. The location of the error itself, if any, is preferred
// over id and span.
func (e *Errors) Push(id sources.SourceID, span spans.Span, err error) {
	var sourceErr SourceError
	var spanErr SpanError
	if errors.As(err, &sourceErr) {
		id, span = sourceErr.ErrorSource()
	} else if errors.As(err, &spanErr) {
		span = spanErr.ErrorSpan()
	}
	e.list = append(e.list, Diagnostic{
		SourceID: id,
		Span:     span,
		Err:      err,
	})
}

func (e *Errors) IsEmpty() bool {
	return len(e.list) == 0
}

func (e *Errors) Len() int {
	return len(e.list)
}

func (e *Errors) All() []Diagnostic {
	return e.list
}

// Err joins all recorded errors, nil if there are none.
func (e *Errors) Err() error {
	if len(e.list) == 0 {
		return nil
	}
	errs := make([]error, 0, len(e.list))
	for _, d := range e.list {
		errs = append(errs, d)
	}
	return errors.Join(errs...)
}

type WarningKind uint8

const (
	// an expression is evaluated but its value is discarded without effect
	WarnNotUsed WarningKind = iota + 1
	// a template with no expressions in it
	WarnTemplateWithoutExpansions
	// a wildcard import that bound no names
	WarnUnusedWildcard
)

func (k WarningKind) String() string {
	switch k {
	case WarnNotUsed:
		return "value not used"
	case WarnTemplateWithoutExpansions:
		return "template string without expansions, use a string literal"
	case WarnUnusedWildcard:
		return "wildcard import did not bind any names"
	}
	return fmt.Sprintf("WarningKind(%d)", k)
}

type Warning struct {
	SourceID sources.SourceID
	Span     spans.Span
	Kind     WarningKind
	// Context is the span of the enclosing construct, empty if unknown
	Context spans.Span
}

func (w Warning) String() string {
	return fmt.Sprintf("source %d at %v: %v", w.SourceID, w.Span, w.Kind)
}

// Warnings is the append-only warning sink of a compilation.
type Warnings struct {
	list []Warning
}

func (w *Warnings) Push(warning Warning) {
	w.list = append(w.list, warning)
}

func (w *Warnings) Len() int {
	return len(w.list)
}

func (w *Warnings) All() []Warning {
	return w.list
}
