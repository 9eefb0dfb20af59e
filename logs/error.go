package logs

import (
	"context"
	"fmt"
)

// SpanError is an error returned from traced work.
type SpanError struct {
	Span Span
	Err  error
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("%v (span %s)", e.Err, e.Span)
}

func (e *SpanError) Unwrap() error {
	return e.Err
}

// WrapSpan attaches the span of ctx to err. err is returned as is if it is
// nil or ctx has no span.
func WrapSpan(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	span, ok := SpanOf(ctx)
	if !ok {
		return err
	}
	return &SpanError{
		Span: span,
		Err:  err,
	}
}
