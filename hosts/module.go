package hosts

import (
	"github.com/udoprog/st/items"
)

// Module collects host items to install into a Context.
type Module struct {
	Item          items.Item
	functions     []*Function
	constants     map[string]any
	constantNames []string
	types         map[string]TypeCheck
	typeNames     []string
	names         map[string]bool
}

func NewModule(path ...string) *Module {
	return &Module{
		Item:      items.New(path...),
		constants: make(map[string]any),
		types:     make(map[string]TypeCheck),
		names:     make(map[string]bool),
	}
}

func (m *Module) claim(name string) error {
	if m.names[name] {
		return &ConflictError{
			Item: m.Item.Join(name),
		}
	}
	m.names[name] = true
	return nil
}

// Function registers a native function taking args arguments, or Variadic.
func (m *Module) Function(name string, args int, handler Handler) error {
	if err := m.claim(name); err != nil {
		return err
	}
	item := m.Item.Join(name)
	m.functions = append(m.functions, &Function{
		Item:    item,
		Hash:    items.FunctionHash(item),
		Args:    args,
		Handler: handler,
	})
	return nil
}

// Constant registers a constant. Values are nil for unit, bool, int64,
// float64, rune, byte, string or []byte.
func (m *Module) Constant(name string, value any) error {
	if err := m.claim(name); err != nil {
		return err
	}
	m.constants[name] = value
	m.constantNames = append(m.constantNames, name)
	return nil
}

func (m *Module) Type(name string, check TypeCheck) error {
	if err := m.claim(name); err != nil {
		return err
	}
	m.types[name] = check
	m.typeNames = append(m.typeNames, name)
	return nil
}
