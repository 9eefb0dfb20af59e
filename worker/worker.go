package worker

import (
	"context"
	"fmt"

	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/diagnostics"
	"github.com/udoprog/st/indexing"
	"github.com/udoprog/st/items"
	"github.com/udoprog/st/logs"
	"github.com/udoprog/st/parser"
	"github.com/udoprog/st/query"
	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/spans"
)

// Worker owns the item table of a compilation while its task queue is
// drained. Tasks run one at a time, in the order they were queued.
type Worker struct {
	Query    *query.Query
	Loader   sources.Loader
	Errors   *diagnostics.Errors
	Warnings *diagnostics.Warnings
	Options  indexing.Options
	Logger   logs.Logger
	// path of the root source, handed to the loader
	Root string

	queue     []Task
	wildcards []*ExpandWildcardImport
	loaded    map[string]loadedModule
	pending   map[string]int
}

type loadedModule struct {
	SourceID sources.SourceID
	Span     spans.Span
}

var _ indexing.Tasks = new(Worker)

func New(
	q *query.Query,
	loader sources.Loader,
	errs *diagnostics.Errors,
	warnings *diagnostics.Warnings,
	logger logs.Logger,
) *Worker {
	if logger == nil {
		logger = logs.Discard()
	}
	return &Worker{
		Query:    q,
		Loader:   loader,
		Errors:   errs,
		Warnings: warnings,
		Logger:   logger,
		loaded:   make(map[string]loadedModule),
		pending:  make(map[string]int),
	}
}

// Push queues a task.
func (w *Worker) Push(task Task) {
	if load, ok := task.(*LoadFile); ok {
		w.pending[load.Module.String()]++
	}
	w.queue = append(w.queue, task)
}

func (w *Worker) LoadFile(module items.Item, id sources.SourceID, span spans.Span) {
	w.Push(&LoadFile{
		Kind:     LoadModule,
		SourceID: id,
		Module:   module,
		Span:     span,
	})
}

func (w *Worker) ExpandImport(scope items.Item, id sources.SourceID, use *ast.ItemUse) {
	w.Push(&ExpandImport{
		SourceID: id,
		Scope:    scope,
		Use:      use,
	})
}

// Run drains the queue, then resolves the deferred wildcard imports in the
// order they were found. Failures of single tasks are recorded and the task
// is dropped. The returned error is an internal fault.
func (w *Worker) Run(ctx context.Context) error {
	for len(w.queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		task := w.queue[0]
		w.queue[0] = nil
		w.queue = w.queue[1:]

		switch task := task.(type) {
		case *LoadFile:
			if err := w.loadFile(task); err != nil {
				return err
			}
		case *ExpandImport:
			w.expandImport(task)
		case *ExpandWildcardImport:
			w.wildcards = append(w.wildcards, task)
		}
	}

	wildcards := w.wildcards
	w.wildcards = nil
	for _, task := range wildcards {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.expandWildcard(task)
	}

	return nil
}

func (w *Worker) loadFile(task *LoadFile) error {
	key := task.Module.String()
	w.pending[key]--
	if w.pending[key] == 0 {
		delete(w.pending, key)
	}

	source, ok := w.Query.Sources().Get(task.SourceID)
	if !ok {
		return wrap(fmt.Errorf("missing queued source %d for %v", task.SourceID, task.Module))
	}

	w.Logger.Debug("load file",
		"module", key,
		"source", source.Name,
	)

	// every root source contributes to the crate root
	if existing, ok := w.loaded[key]; ok && task.Kind != LoadRoot {
		w.Errors.Push(task.SourceID, task.Span, &Error{
			Span:     task.Span,
			Kind:     ErrModuleConflict,
			Item:     task.Module,
			Existing: existing.Span,
		})
		return nil
	}
	if _, ok := w.loaded[key]; !ok {
		w.loaded[key] = loadedModule{
			SourceID: task.SourceID,
			Span:     task.Span,
		}
	}

	file, err := parser.ParseFile(source.Text)
	if err != nil {
		w.Errors.Push(task.SourceID, spans.Point(0), err)
		return nil
	}

	ix := &indexing.Indexer{
		Query:    w.Query,
		Loader:   w.Loader,
		Errors:   w.Errors,
		Tasks:    w,
		Options:  w.Options,
		Logger:   w.Logger,
		Root:     w.Root,
		SourceID: task.SourceID,
	}
	if err := ix.Index(file, task.Module); err != nil {
		w.Errors.Push(task.SourceID, file.End, err)
	}
	return nil
}

// isPending reports whether item lives in a module whose file is still queued.
func (w *Worker) isPending(item items.Item) bool {
	for {
		if w.pending[item.String()] > 0 {
			return true
		}
		parent, ok := item.Parent()
		if !ok {
			return false
		}
		item = parent
	}
}

// target resolves the path of a use declaration.
func (w *Worker) target(id sources.SourceID, scope items.Item, use *ast.ItemUse) (items.Item, error) {
	source, ok := w.Query.Sources().Get(id)
	if !ok {
		return items.Item{}, wrap(fmt.Errorf("missing source %d", id))
	}
	components, err := query.Components(&use.Path, source.Text, w.Query.Storage(id))
	if err != nil {
		return items.Item{}, err
	}
	target, err := w.Query.ResolvePath(scope, components)
	if err != nil {
		return items.Item{}, err
	}
	if target.IsRoot() {
		return items.Item{}, &Error{
			Span: use.Span(),
			Kind: ErrUnsupportedImport,
			Item: target,
		}
	}
	return target, nil
}

func (w *Worker) expandImport(task *ExpandImport) {
	if task.Use.IsWildcard() {
		w.Logger.Debug("defer wildcard import",
			"scope", task.Scope.String(),
		)
		w.wildcards = append(w.wildcards, &ExpandWildcardImport{
			SourceID: task.SourceID,
			Scope:    task.Scope,
			Use:      task.Use,
		})
		return
	}

	span := task.Use.Span()
	target, err := w.target(task.SourceID, task.Scope, task.Use)
	if err != nil {
		w.Errors.Push(task.SourceID, span, err)
		return
	}

	if !w.Query.Exists(target) {
		if w.isPending(target) {
			// try again once the module is loaded
			w.ExpandImport(task.Scope, task.SourceID, task.Use)
			return
		}
		w.Errors.Push(task.SourceID, span, &query.Error{
			Kind: query.ErrMissingItem,
			Item: target,
		})
		return
	}

	name := target.Last()
	if task.Use.Alias != nil {
		source, _ := w.Query.Sources().Get(task.SourceID)
		alias, err := ast.ResolveIdent(w.Query.Storage(task.SourceID), source.Text, *task.Use.Alias)
		if err != nil {
			w.Errors.Push(task.SourceID, span, err)
			return
		}
		name = alias
	}

	item := task.Scope.Join(name)
	w.Logger.Debug("expand import",
		"item", item.String(),
		"target", target.String(),
	)
	if err := w.Query.Insert(&query.Entry{
		Kind:     query.EntryImport,
		Item:     item,
		SourceID: task.SourceID,
		Span:     span,
		Scope:    task.Scope,
		Node:     task.Use,
		Target:   target,
	}); err != nil {
		w.Errors.Push(task.SourceID, span, err)
	}
}

func (w *Worker) expandWildcard(task *ExpandWildcardImport) {
	span := task.Use.Span()
	module, err := w.target(task.SourceID, task.Scope, task.Use)
	if err != nil {
		w.Errors.Push(task.SourceID, span, err)
		return
	}
	if !w.Query.IsModule(module) {
		entry, ok := w.Query.Get(module)
		if !ok || entry.Kind != query.EntryEnum {
			kind := query.ErrNotModule
			if !w.Query.Exists(module) {
				kind = query.ErrMissingItem
			}
			w.Errors.Push(task.SourceID, span, &query.Error{
				Kind: kind,
				Item: module,
			})
			return
		}
	}

	w.Logger.Debug("wildcard import",
		"scope", task.Scope.String(),
		"module", module.String(),
	)

	bound := 0
	for _, name := range w.Query.Children(module) {
		item := task.Scope.Join(name)
		target := module.Join(name)
		if existing, ok := w.Query.Get(item); ok {
			// explicit imports and local items win
			if existing.Wildcard != nil && !existing.Target.Equal(target) {
				w.Errors.Push(task.SourceID, span, &query.Error{
					Kind:  query.ErrAmbiguousWildcard,
					Item:  item,
					Other: existing.Target,
				})
			}
			continue
		}
		if err := w.Query.Insert(&query.Entry{
			Kind:     query.EntryImport,
			Item:     item,
			SourceID: task.SourceID,
			Span:     span,
			Scope:    task.Scope,
			Node:     task.Use,
			Target:   target,
			Wildcard: &module,
		}); err != nil {
			w.Errors.Push(task.SourceID, span, err)
			continue
		}
		bound++
	}

	if bound == 0 {
		w.Warnings.Push(diagnostics.Warning{
			SourceID: task.SourceID,
			Span:     span,
			Kind:     diagnostics.WarnUnusedWildcard,
		})
	}
}
