package hosts

import (
	"fmt"
	"slices"

	"github.com/udoprog/st/items"
)

// Handler is a native function. The core never calls it, it is only
// resolved and handed to the runtime.
type Handler func(args []any) (any, error)

// Variadic is the argument count of functions taking any number of arguments.
const Variadic = -1

type Function struct {
	Item    items.Item
	Hash    items.Hash
	Args    int
	Handler Handler
}

type TypeCheck uint8

const (
	TypeUnit TypeCheck = iota + 1
	TypeBool
	TypeChar
	TypeByte
	TypeInteger
	TypeFloat
	TypeString
	TypeBytes
	TypeVec
	TypeTuple
	TypeObject
	TypeRange
)

func (t TypeCheck) String() string {
	switch t {
	case TypeUnit:
		return "unit"
	case TypeBool:
		return "bool"
	case TypeChar:
		return "char"
	case TypeByte:
		return "byte"
	case TypeInteger:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "String"
	case TypeBytes:
		return "Bytes"
	case TypeVec:
		return "Vec"
	case TypeTuple:
		return "Tuple"
	case TypeObject:
		return "Object"
	case TypeRange:
		return "Range"
	}
	return fmt.Sprintf("TypeCheck(%d)", t)
}

// Kind is what a host item is.
type Kind uint8

const (
	KindFunction Kind = iota + 1
	KindConstant
	KindType
	KindModule
)

type ConflictError struct {
	Item items.Item
}

var _ error = new(ConflictError)

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting host item: %v", e.Item)
}

// Context is the read-only table of everything the host provides,
// keyed by content hash.
type Context struct {
	functions map[items.Hash]*Function
	types     map[items.Hash]TypeCheck
	constants map[items.Hash]any
	kinds     map[string]Kind
	children  map[string][]string
}

func NewContext() *Context {
	return &Context{
		functions: make(map[items.Hash]*Function),
		types:     make(map[items.Hash]TypeCheck),
		constants: make(map[items.Hash]any),
		kinds:     make(map[string]Kind),
		children:  make(map[string][]string),
	}
}

func (c *Context) declare(item items.Item, kind Kind) error {
	key := item.String()
	if existing, ok := c.kinds[key]; ok {
		if existing == KindModule && kind == KindModule {
			return nil
		}
		return &ConflictError{
			Item: item,
		}
	}
	// parents are modules
	if parent, ok := item.Parent(); ok {
		if !parent.IsRoot() {
			if err := c.declare(parent, KindModule); err != nil {
				return err
			}
		}
		parentKey := parent.String()
		c.children[parentKey] = append(c.children[parentKey], item.Last())
	}
	c.kinds[key] = kind
	return nil
}

// Install adds every item of the module.
func (c *Context) Install(m *Module) error {
	if !m.Item.IsRoot() {
		if err := c.declare(m.Item, KindModule); err != nil {
			return err
		}
	}
	for _, fn := range m.functions {
		if err := c.declare(fn.Item, KindFunction); err != nil {
			return err
		}
		c.functions[fn.Hash] = fn
	}
	for _, name := range m.constantNames {
		item := m.Item.Join(name)
		if err := c.declare(item, KindConstant); err != nil {
			return err
		}
		c.constants[items.ConstHash(item)] = m.constants[name]
	}
	for _, name := range m.typeNames {
		item := m.Item.Join(name)
		if err := c.declare(item, KindType); err != nil {
			return err
		}
		c.types[items.TypeHash(item)] = m.types[name]
	}
	return nil
}

func (c *Context) Lookup(hash items.Hash) (*Function, bool) {
	fn, ok := c.functions[hash]
	return fn, ok
}

func (c *Context) TypeCheckFor(item items.Item) (TypeCheck, bool) {
	check, ok := c.types[items.TypeHash(item)]
	return check, ok
}

func (c *Context) Constant(hash items.Hash) (any, bool) {
	value, ok := c.constants[hash]
	return value, ok
}

// KindOf reports what the item is, if the host provides it.
func (c *Context) KindOf(item items.Item) (Kind, bool) {
	kind, ok := c.kinds[item.String()]
	return kind, ok
}

func (c *Context) ContainsModule(item items.Item) bool {
	return c.kinds[item.String()] == KindModule
}

// Children lists the names declared directly in a module, sorted.
func (c *Context) Children(item items.Item) []string {
	names := slices.Clone(c.children[item.String()])
	slices.Sort(names)
	return names
}

// Functions returns all native functions sorted by item path.
func (c *Context) Functions() []*Function {
	ret := make([]*Function, 0, len(c.functions))
	for _, fn := range c.functions {
		ret = append(ret, fn)
	}
	slices.SortFunc(ret, func(a, b *Function) int {
		return compareItems(a.Item, b.Item)
	})
	return ret
}

func compareItems(a, b items.Item) int {
	return slices.Compare(a.Components(), b.Components())
}
