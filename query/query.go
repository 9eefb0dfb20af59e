package query

import (
	"slices"

	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/hosts"
	"github.com/udoprog/st/items"
	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/spans"
)

// MaxImportDepth bounds the import chains followed by Resolve.
const MaxImportDepth = 64

type expansionKey struct {
	source sources.SourceID
	span   spans.Span
}

// Query is the item table of one compilation. Items are recorded by the
// indexer and resolved lazily, with results kept for the whole compilation.
type Query struct {
	context *hosts.Context
	sources *sources.Sources

	entries    map[string]*Entry
	order      []*Entry
	children   map[string][]string
	cache      map[string]*Meta
	evaluating map[string]bool
	storages   map[sources.SourceID]*ast.Storage
	expansions map[expansionKey]ast.Expr
}

func New(context *hosts.Context, srcs *sources.Sources) *Query {
	if context == nil {
		context = hosts.NewContext()
	}
	return &Query{
		context:    context,
		sources:    srcs,
		entries:    make(map[string]*Entry),
		children:   make(map[string][]string),
		cache:      make(map[string]*Meta),
		evaluating: make(map[string]bool),
		storages:   make(map[sources.SourceID]*ast.Storage),
		expansions: make(map[expansionKey]ast.Expr),
	}
}

func (q *Query) Context() *hosts.Context {
	return q.context
}

func (q *Query) Sources() *sources.Sources {
	return q.sources
}

// Storage is the literal storage of a source.
func (q *Query) Storage(id sources.SourceID) *ast.Storage {
	storage, ok := q.storages[id]
	if !ok {
		storage = ast.NewStorage()
		q.storages[id] = storage
	}
	return storage
}

// Insert records a declaration. Item paths are unique.
func (q *Query) Insert(entry *Entry) error {
	key := entry.Item.String()
	if existing, ok := q.entries[key]; ok {
		return &Error{
			Kind:  ErrConflict,
			Item:  entry.Item,
			Other: existing.Item,
		}
	}
	q.entries[key] = entry
	q.order = append(q.order, entry)
	if parent, ok := entry.Item.Parent(); ok {
		parentKey := parent.String()
		q.children[parentKey] = append(q.children[parentKey], entry.Item.Last())
	}
	return nil
}

func (q *Query) Get(item items.Item) (*Entry, bool) {
	entry, ok := q.entries[item.String()]
	return entry, ok
}

// Contains reports whether the item is declared or imported.
func (q *Query) Contains(item items.Item) bool {
	_, ok := q.entries[item.String()]
	return ok
}

// Entries returns every entry in the order it was recorded.
func (q *Query) Entries() []*Entry {
	return q.order
}

// Children lists the names bound directly under item, including the ones
// provided by the host, sorted.
func (q *Query) Children(item items.Item) []string {
	names := slices.Clone(q.children[item.String()])
	names = append(names, q.context.Children(item)...)
	slices.Sort(names)
	return slices.Compact(names)
}

// IsModule reports whether item is the root, a declared module or a host module.
func (q *Query) IsModule(item items.Item) bool {
	if item.IsRoot() {
		return true
	}
	if entry, ok := q.Get(item); ok {
		return entry.Kind == EntryModule
	}
	return q.context.ContainsModule(item)
}

// ModuleOf is the closest module containing item, item itself if it is one.
func (q *Query) ModuleOf(item items.Item) items.Item {
	for !q.IsModule(item) {
		parent, ok := item.Parent()
		if !ok {
			break
		}
		item = parent
	}
	return item
}

func (q *Query) SetExpansion(id sources.SourceID, span spans.Span, expr ast.Expr) {
	q.expansions[expansionKey{id, span}] = expr
}

// Expansion is the expression a macro call at span expanded to.
func (q *Query) Expansion(id sources.SourceID, span spans.Span) (ast.Expr, bool) {
	expr, ok := q.expansions[expansionKey{id, span}]
	return expr, ok
}

// Resolve materializes the meta of an item, following imports.
func (q *Query) Resolve(item items.Item) (*Meta, error) {
	key := item.String()
	if meta, ok := q.cache[key]; ok {
		return meta, nil
	}
	meta, err := q.resolve(item, 0)
	if err != nil {
		return nil, err
	}
	q.cache[key] = meta
	return meta, nil
}

func (q *Query) resolve(item items.Item, depth int) (*Meta, error) {
	if depth > MaxImportDepth {
		return nil, &Error{
			Kind: ErrImportCycle,
			Item: item,
		}
	}

	entry, ok := q.Get(item)
	if !ok {
		return q.host(item)
	}

	switch entry.Kind {
	case EntryImport:
		if meta, ok := q.cache[entry.Target.String()]; ok {
			return meta, nil
		}
		return q.resolve(entry.Target, depth+1)

	case EntryFunction:
		fn := entry.Node.(*ast.ItemFn)
		return &Meta{
			Kind:     MetaFunction,
			Item:     item,
			Hash:     items.FunctionHash(item),
			Args:     len(fn.Args.Items),
			Instance: fn.IsInstance(),
			Entry:    entry,
		}, nil

	case EntryConst:
		value, err := q.evalConst(entry)
		if err != nil {
			return nil, err
		}
		return &Meta{
			Kind:  MetaConst,
			Item:  item,
			Hash:  items.ConstHash(item),
			Value: value,
			Entry: entry,
		}, nil

	case EntryStruct:
		body := entry.Node.(*ast.ItemStruct).Body
		meta := &Meta{
			Kind:  MetaStruct,
			Item:  item,
			Hash:  items.TypeHash(item),
			Entry: entry,
		}
		if body.Kind == ast.StructTuple {
			meta.Kind = MetaTupleStruct
			meta.Tuple = true
			meta.Args = len(body.Fields.Items)
		}
		return meta, nil

	case EntryVariant:
		body := entry.Node.(*ast.Variant).Body
		return &Meta{
			Kind:  MetaVariant,
			Item:  item,
			Hash:  items.TypeHash(item),
			Tuple: body.Kind == ast.StructTuple,
			Args:  len(body.Fields.Items),
			Entry: entry,
		}, nil

	case EntryEnum:
		return &Meta{
			Kind:  MetaEnum,
			Item:  item,
			Hash:  items.TypeHash(item),
			Entry: entry,
		}, nil

	case EntryModule:
		return &Meta{
			Kind:  MetaModule,
			Item:  item,
			Entry: entry,
		}, nil
	}

	return nil, &Error{
		Kind: ErrMissingItem,
		Item: item,
	}
}

func (q *Query) host(item items.Item) (*Meta, error) {
	kind, ok := q.context.KindOf(item)
	if !ok {
		return nil, &Error{
			Kind: ErrMissingItem,
			Item: item,
		}
	}
	switch kind {
	case hosts.KindFunction:
		hash := items.FunctionHash(item)
		fn, _ := q.context.Lookup(hash)
		return &Meta{
			Kind: MetaHostFunction,
			Item: item,
			Hash: hash,
			Args: fn.Args,
			Host: fn,
		}, nil
	case hosts.KindConstant:
		hash := items.ConstHash(item)
		value, _ := q.context.Constant(hash)
		return &Meta{
			Kind:  MetaHostConst,
			Item:  item,
			Hash:  hash,
			Value: value,
		}, nil
	case hosts.KindType:
		check, _ := q.context.TypeCheckFor(item)
		return &Meta{
			Kind:      MetaHostType,
			Item:      item,
			Hash:      items.TypeHash(item),
			TypeCheck: check,
		}, nil
	}
	return &Meta{
		Kind: MetaModule,
		Item: item,
	}, nil
}
