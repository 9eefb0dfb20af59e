package logs

// Span identifies one unit of traced work, like a compile run.
type Span string

type spanKey struct{}

// SpanKey is the context key of the current Span.
var SpanKey = spanKey{}

// SpanOf returns the span attached to ctx, if any.
func SpanOf(ctx interface{ Value(any) any }) (Span, bool) {
	span, ok := ctx.Value(SpanKey).(Span)
	return span, ok
}
