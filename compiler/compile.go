package compiler

import (
	"context"

	"github.com/udoprog/st/diagnostics"
	"github.com/udoprog/st/hosts"
	"github.com/udoprog/st/indexing"
	"github.com/udoprog/st/items"
	"github.com/udoprog/st/logs"
	"github.com/udoprog/st/query"
	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/units"
	"github.com/udoprog/st/worker"
)

type CompileInput struct {
	// nil means an empty context
	Context *hosts.Context
	// every source already inserted is a root source of the crate
	Sources  *sources.Sources
	Options  Options
	Loader   sources.Loader
	Logger   logs.Logger
	Expander indexing.MacroExpander
}

type Result struct {
	Unit     *units.Unit
	Errors   *diagnostics.Errors
	Warnings *diagnostics.Warnings
}

// Usable reports whether the unit may be handed to a runtime.
func (r *Result) Usable() bool {
	return r.Errors.IsEmpty()
}

// Compile indexes the root sources with every module they reference, then
// lowers each indexed function. Failures of single items go to the error sink
// of the result and leave no code in the unit. The returned error is an
// internal fault or a cancellation.
func Compile(ctx context.Context, input CompileInput) (*Result, error) {
	logger := input.Logger
	if logger == nil {
		logger = logs.Discard()
	}
	srcs := input.Sources
	if srcs == nil {
		srcs = new(sources.Sources)
	}
	loader := input.Loader
	if loader == nil {
		loader = sources.MapLoader{}
	}

	result := &Result{
		Errors:   new(diagnostics.Errors),
		Warnings: new(diagnostics.Warnings),
	}
	if err := input.Options.Check(); err != nil {
		return nil, logs.WrapSpan(ctx, err)
	}

	q := query.New(input.Context, srcs)
	w := worker.New(q, loader, result.Errors, result.Warnings, logger)
	w.Options = indexing.Options{
		Macros:   input.Options.Macros,
		Expander: input.Expander,
	}

	roots := srcs.Len()
	for id := range sources.SourceID(roots) {
		source, _ := srcs.Get(id)
		if w.Root == "" {
			w.Root = source.Path
		}
		w.Push(&worker.LoadFile{
			Kind:     worker.LoadRoot,
			SourceID: id,
			Module:   items.New(),
		})
	}
	if err := w.Run(ctx); err != nil {
		return nil, logs.WrapSpan(ctx, err)
	}

	builder := units.NewBuilder()
	for _, entry := range q.Entries() {
		if err := ctx.Err(); err != nil {
			return nil, logs.WrapSpan(ctx, err)
		}

		switch entry.Kind {
		case query.EntryConst:
			// evaluate to report errors of unused constants too
			if _, err := q.Resolve(entry.Item); err != nil {
				result.Errors.Push(entry.SourceID, entry.Span, err)
			}
			continue
		case query.EntryFunction:
		default:
			continue
		}

		if entry.Failed {
			// errors already recorded by the indexer
			continue
		}

		fn, err := Function(q, result.Warnings, entry)
		if err != nil {
			result.Errors.Push(entry.SourceID, entry.Span, err)
			continue
		}
		if input.Options.Verify {
			if _, err := units.Verify(fn); err != nil {
				result.Errors.Push(entry.SourceID, entry.Span, err)
				continue
			}
		}
		if err := builder.Insert(fn); err != nil {
			result.Errors.Push(entry.SourceID, entry.Span, err)
			continue
		}

		logger.DebugContext(ctx, "compile function",
			"item", entry.Item.String(),
			"instructions", len(fn.Assembly.Code),
		)
	}

	result.Unit = builder.Build()
	return result, nil
}
