package units

import (
	"fmt"
	"slices"

	"github.com/udoprog/st/items"
	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/spans"
)

// Function is a compiled function. Arguments occupy the first stack slots.
type Function struct {
	Item     items.Item
	Hash     items.Hash
	Args     int
	Instance bool
	SourceID sources.SourceID
	Span     spans.Span
	Assembly *Assembly
}

func (f *Function) String() string {
	return fmt.Sprintf("fn %v/%d", f.Item, f.Args)
}

// Unit is the set of compiled functions of one compilation.
type Unit struct {
	functions map[items.Hash]*Function
}

func (u *Unit) Lookup(hash items.Hash) (*Function, bool) {
	fn, ok := u.functions[hash]
	return fn, ok
}

func (u *Unit) Len() int {
	return len(u.functions)
}

// Functions returns all functions sorted by item path.
func (u *Unit) Functions() []*Function {
	ret := make([]*Function, 0, len(u.functions))
	for _, fn := range u.functions {
		ret = append(ret, fn)
	}
	slices.SortFunc(ret, func(a, b *Function) int {
		return slices.Compare(a.Item.Components(), b.Item.Components())
	})
	return ret
}

type ConflictError struct {
	Item items.Item
	Hash items.Hash
}

var _ error = new(ConflictError)

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting function %v (%v)", e.Item, e.Hash)
}

// Builder collects finished functions.
type Builder struct {
	functions map[items.Hash]*Function
}

func NewBuilder() *Builder {
	return &Builder{
		functions: make(map[items.Hash]*Function),
	}
}

func (b *Builder) Insert(fn *Function) error {
	if _, ok := b.functions[fn.Hash]; ok {
		return &ConflictError{
			Item: fn.Item,
			Hash: fn.Hash,
		}
	}
	b.functions[fn.Hash] = fn
	return nil
}

func (b *Builder) Build() *Unit {
	return &Unit{
		functions: b.functions,
	}
}
