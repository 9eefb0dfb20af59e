package logs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/reusee/dscope"
)

func TestLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
	).Call(func(
		logger Logger,
	) {
		logger.Info("test", "hello", "world!")
		if !strings.Contains(buf.String(), "hello=world!") {
			t.Fatalf("got %q", buf.String())
		}
	})
}

func TestJournalKey(t *testing.T) {
	if key := journalKey("st.span-id"); key != "ST_SPAN_ID" {
		t.Fatalf("got %v", key)
	}
}

func TestWrapSpan(t *testing.T) {
	err := errors.New("foo")
	if WrapSpan(context.Background(), err) != err {
		t.Fatal()
	}
	if WrapSpan(context.Background(), nil) != nil {
		t.Fatal()
	}
	ctx := context.WithValue(context.Background(), SpanKey, Span("abc"))
	wrapped := WrapSpan(ctx, err)
	if !errors.Is(wrapped, err) {
		t.Fatalf("got %v", wrapped)
	}
	var spanErr *SpanError
	if !errors.As(wrapped, &spanErr) || spanErr.Span != "abc" {
		t.Fatalf("got %v", wrapped)
	}
}

func TestHandlerWithAttrs(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := New(buf).With("stage", "index")
	ctx := context.WithValue(context.Background(), SpanKey, Span("xyz"))
	logger.InfoContext(ctx, "test")
	out := buf.String()
	if !strings.Contains(out, "stage=index") || !strings.Contains(out, "st.span=xyz") {
		t.Fatalf("got %q", out)
	}
}
