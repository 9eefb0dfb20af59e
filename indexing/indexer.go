package indexing

import (
	"fmt"

	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/diagnostics"
	"github.com/udoprog/st/items"
	"github.com/udoprog/st/logs"
	"github.com/udoprog/st/query"
	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/spans"
)

// MacroExpander turns a macro call into an expression.
type MacroExpander interface {
	Expand(call *ast.ExprMacroCall, source string) (ast.Expr, error)
}

type Options struct {
	Macros   bool
	Expander MacroExpander
}

// Tasks receives the work discovered while indexing a file.
type Tasks interface {
	// LoadFile is called for `mod name;` once the backing source is loaded.
	LoadFile(module items.Item, id sources.SourceID, span spans.Span)
	ExpandImport(scope items.Item, id sources.SourceID, use *ast.ItemUse)
}

// Indexer records the declarations of one source.
type Indexer struct {
	Query   *query.Query
	Loader  sources.Loader
	Errors  *diagnostics.Errors
	Tasks   Tasks
	Options Options
	Logger  logs.Logger
	// path of the root source, handed to the loader
	Root     string
	SourceID sources.SourceID

	source  string
	storage *ast.Storage
}

// Index records every item of file under module. Missing module files and
// disabled macros are reported to Errors and indexing goes on, any other
// failure stops it.
func (ix *Indexer) Index(file *ast.File, module items.Item) error {
	source, ok := ix.Query.Sources().Get(ix.SourceID)
	if !ok {
		return &query.Error{
			Kind: query.ErrMissingItem,
			Item: module,
		}
	}
	ix.source = source.Text
	ix.storage = ix.Query.Storage(ix.SourceID)

	for _, item := range file.Items {
		if err := ix.item(module, item); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Indexer) name(token ast.Token) (string, error) {
	name, err := ast.ResolveIdent(ix.storage, ix.source, token)
	if err != nil {
		return "", &Error{
			Span: token.Span,
			Kind: ErrBadName,
			Err:  err,
		}
	}
	return name, nil
}

func (ix *Indexer) insert(kind query.EntryKind, scope items.Item, name ast.Token, node ast.Node) (*query.Entry, error) {
	ident, err := ix.name(name)
	if err != nil {
		return nil, err
	}
	entry := &query.Entry{
		Kind:     kind,
		Item:     scope.Join(ident),
		SourceID: ix.SourceID,
		Span:     node.Span(),
		Scope:    scope,
		Node:     node,
	}
	if err := ix.Query.Insert(entry); err != nil {
		return nil, &Error{
			Span: name.Span,
			Kind: ErrConflict,
			Err:  err,
		}
	}
	if ix.Logger != nil {
		ix.Logger.Debug("index",
			"item", entry.Item.String(),
			"kind", kind.String(),
		)
	}
	return entry, nil
}

func (ix *Indexer) item(scope items.Item, item ast.Item) error {
	switch item := item.(type) {
	case *ast.ItemFn:
		entry, err := ix.insert(query.EntryFunction, scope, item.Name, item)
		if err != nil {
			return err
		}
		return ix.body(entry, &item.Body)

	case *ast.ItemConst:
		_, err := ix.insert(query.EntryConst, scope, item.Name, item)
		return err

	case *ast.ItemStruct:
		_, err := ix.insert(query.EntryStruct, scope, item.Name, item)
		return err

	case *ast.ItemEnum:
		entry, err := ix.insert(query.EntryEnum, scope, item.Name, item)
		if err != nil {
			return err
		}
		for _, variant := range item.Variants.Items {
			if _, err := ix.insert(query.EntryVariant, entry.Item, variant.Name, variant); err != nil {
				return err
			}
		}
		return nil

	case *ast.ItemMod:
		entry, err := ix.insert(query.EntryModule, scope, item.Name, item)
		if err != nil {
			return err
		}
		if item.Body != nil {
			for _, inner := range item.Body.Items {
				if err := ix.item(entry.Item, inner); err != nil {
					return err
				}
			}
			return nil
		}
		source, err := ix.Loader.Load(ix.Root, entry.Item, item.Span())
		if err != nil {
			ix.Errors.Push(ix.SourceID, item.Span(), err)
			return nil
		}
		id := ix.Query.Sources().Insert(source)
		ix.Tasks.LoadFile(entry.Item, id, item.Span())
		return nil

	case *ast.ItemUse:
		ix.Tasks.ExpandImport(scope, ix.SourceID, item)
		return nil
	}
	return nil
}

// maxExpansionDepth bounds macro calls nested in expansions.
const maxExpansionDepth = 64

// body indexes the items nested in a function body and handles its macro calls.
func (ix *Indexer) body(entry *query.Entry, body *ast.Block) error {
	return ix.walk(entry, body, 0)
}

// walk indexes root and everything below it. Expansions of macro calls are
// walked the same way, one level deeper.
func (ix *Indexer) walk(entry *query.Entry, root ast.Node, depth int) error {
	var err error
	visit := func(node ast.Node) bool {
		if err != nil {
			return false
		}
		switch node := node.(type) {
		case ast.Item:
			err = ix.item(entry.Item, node)
			return false
		case *ast.ExprMacroCall:
			entry.Macros++
			expr, ok := ix.macro(node, depth)
			if !ok {
				entry.Failed = true
			} else if expr != nil {
				err = ix.walk(entry, expr, depth+1)
			}
			return false
		}
		return true
	}
	if visit(root) {
		ast.Inspect(root, visit)
	}
	return err
}

// macro expands call. It reports false if an error was recorded for the
// call, and a nil expression if there is no expander.
func (ix *Indexer) macro(call *ast.ExprMacroCall, depth int) (ast.Expr, bool) {
	if !ix.Options.Macros {
		ix.Errors.Push(ix.SourceID, call.Span(), &Error{
			Span: call.Span(),
			Kind: ErrMacrosDisabled,
		})
		return nil, false
	}
	if ix.Options.Expander == nil {
		return nil, true
	}
	if depth >= maxExpansionDepth {
		ix.Errors.Push(ix.SourceID, call.Span(), &Error{
			Span: call.Span(),
			Kind: ErrMacroExpansion,
			Err:  fmt.Errorf("expansions nested deeper than %d", maxExpansionDepth),
		})
		return nil, false
	}
	expr, err := ix.Options.Expander.Expand(call, ix.source)
	if err != nil {
		ix.Errors.Push(ix.SourceID, call.Span(), &Error{
			Span: call.Span(),
			Kind: ErrMacroExpansion,
			Err:  err,
		})
		return nil, false
	}
	ix.Query.SetExpansion(ix.SourceID, call.Span(), expr)
	return expr, true
}
