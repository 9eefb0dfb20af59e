package diagnostics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/udoprog/st/lexer"
	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/spans"
)

func TestErrorsPreferErrorSpan(t *testing.T) {
	var errs Errors
	_, err := lexer.All(`"foo`)
	if err == nil {
		t.Fatal()
	}
	errs.Push(1, spans.New(0, 100), err)
	errs.Push(1, spans.New(3, 4), errors.New("plain"))
	if errs.Len() != 2 {
		t.Fatalf("got %d", errs.Len())
	}
	all := errs.All()
	if all[0].Span != spans.New(0, 4) {
		t.Fatalf("got %v", all[0].Span)
	}
	if all[1].Span != spans.New(3, 4) {
		t.Fatalf("got %v", all[1].Span)
	}
	var lexErr *lexer.Error
	if !errors.As(errs.Err(), &lexErr) {
		t.Fatalf("got %v", errs.Err())
	}
}

type elsewhere struct{}

func (elsewhere) Error() string {
	return "elsewhere"
}

func (elsewhere) ErrorSource() (sources.SourceID, spans.Span) {
	return 7, spans.New(1, 2)
}

func TestErrorsPreferErrorSource(t *testing.T) {
	var errs Errors
	errs.Push(1, spans.New(0, 100), fmt.Errorf("wrapped: %w", elsewhere{}))
	d := errs.All()[0]
	if d.SourceID != 7 || d.Span != spans.New(1, 2) {
		t.Fatalf("got %v", d)
	}
}

func TestEmpty(t *testing.T) {
	var errs Errors
	if !errs.IsEmpty() || errs.Err() != nil {
		t.Fatal()
	}
}
