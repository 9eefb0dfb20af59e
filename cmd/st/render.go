package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/udoprog/st/compiler"
	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/spans"
)

func render(w io.Writer, srcs *sources.Sources, result *compiler.Result) {
	for _, diagnostic := range result.Errors.All() {
		renderAt(w, srcs, "error", diagnostic.SourceID, diagnostic.Span, diagnostic.Err.Error())
	}
	for _, warning := range result.Warnings.All() {
		renderAt(w, srcs, "warning", warning.SourceID, warning.Span, warning.Kind.String())
	}
}

// renderAt prints the message with the source line under it and the span marked.
func renderAt(w io.Writer, srcs *sources.Sources, level string, id sources.SourceID, span spans.Span, message string) {
	source, ok := srcs.Get(id)
	if !ok {
		fmt.Fprintf(w, "%s: %s\n", level, message)
		return
	}

	name := source.Path
	if name == "" {
		name = source.Name
	}
	pos := source.Pos(span.Start)
	fmt.Fprintf(w, "%s: %s:%v: %s\n", level, name, pos, message)

	line, start := source.Line(span.Start)
	width := max(1, min(span.End, start+len(line))-span.Start)
	fmt.Fprintf(w, "  | %s\n", line)
	fmt.Fprintf(w, "  | %s%s\n",
		strings.Repeat(" ", span.Start-start),
		strings.Repeat("^", width),
	)
}
