package query

import (
	"fmt"

	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/hosts"
	"github.com/udoprog/st/items"
	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/spans"
)

type EntryKind uint8

const (
	EntryFunction EntryKind = iota + 1
	EntryConst
	EntryStruct
	EntryEnum
	EntryVariant
	EntryModule
	EntryImport
)

func (k EntryKind) String() string {
	switch k {
	case EntryFunction:
		return "function"
	case EntryConst:
		return "const"
	case EntryStruct:
		return "struct"
	case EntryEnum:
		return "enum"
	case EntryVariant:
		return "variant"
	case EntryModule:
		return "module"
	case EntryImport:
		return "import"
	}
	return fmt.Sprintf("EntryKind(%d)", k)
}

// Entry is a declaration recorded by the indexer.
type Entry struct {
	Kind     EntryKind
	Item     items.Item
	SourceID sources.SourceID
	Span     spans.Span
	// the module or function the declaration appears in
	Scope items.Item

	// one of *ast.ItemFn, *ast.ItemConst, *ast.ItemStruct, *ast.ItemEnum,
	// *ast.Variant, *ast.ItemMod or *ast.ItemUse
	Node ast.Node

	// imports
	Target items.Item
	// set for names bound by a wildcard import, the module it expanded
	Wildcard *items.Item

	// macro calls in a function body
	Macros int
	// an error was already reported for the body
	Failed bool
}

type MetaKind uint8

const (
	MetaFunction MetaKind = iota + 1
	MetaConst
	MetaStruct
	MetaTupleStruct
	MetaEnum
	MetaVariant
	MetaModule
	MetaHostFunction
	MetaHostConst
	MetaHostType
)

func (k MetaKind) String() string {
	switch k {
	case MetaFunction:
		return "function"
	case MetaConst:
		return "constant"
	case MetaStruct:
		return "struct"
	case MetaTupleStruct:
		return "tuple struct"
	case MetaEnum:
		return "enum"
	case MetaVariant:
		return "variant"
	case MetaModule:
		return "module"
	case MetaHostFunction:
		return "native function"
	case MetaHostConst:
		return "native constant"
	case MetaHostType:
		return "native type"
	}
	return fmt.Sprintf("MetaKind(%d)", k)
}

// Meta is what an item path resolves to, after following imports.
type Meta struct {
	Kind MetaKind
	Item items.Item
	Hash items.Hash

	// argument count of functions and tuple constructors, hosts.Variadic for
	// variadic native functions
	Args     int
	Instance bool
	// set for tuple structs and tuple variants
	Tuple bool

	// value of constants
	Value any

	Entry     *Entry
	Host      *hosts.Function
	TypeCheck hosts.TypeCheck
}

// IsCallable reports whether the item can be called like a function.
func (m *Meta) IsCallable() bool {
	switch m.Kind {
	case MetaFunction, MetaHostFunction, MetaTupleStruct:
		return true
	case MetaVariant:
		return m.Tuple
	}
	return false
}
