package cmds

import (
	"fmt"
	"reflect"
)

// Command is a function taking its arguments from the following words of
// the command line, a set of sub commands, or both.
type Command struct {
	Func        reflect.Value
	Subs        map[string]*Command
	Description string
	Aliases     []string
}

func (c *Command) Desc(desc string) *Command {
	c.Description = desc
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.Aliases = append(c.Aliases, names...)
	return c
}

var errorType = reflect.TypeFor[error]()

// Func wraps fn, which must return nothing or an error. Pointer arguments are optional.
func Func(fn any) *Command {
	value := reflect.ValueOf(fn)
	if value.Kind() != reflect.Func {
		panic(fmt.Errorf("must be function, got %T", fn))
	}
	switch t := value.Type(); {
	case t.NumOut() > 1:
		panic(fmt.Errorf("must return 0 or 1 value"))
	case t.NumOut() == 1 && t.Out(0) != errorType:
		panic(fmt.Errorf("must return error"))
	}
	return &Command{
		Func: value,
	}
}

func Sub(subs map[string]*Command) *Command {
	return &Command{
		Subs: subs,
	}
}

// Params describes the arguments of the command for usage output.
func (c *Command) Params() []string {
	if !c.Func.IsValid() {
		return nil
	}
	t := c.Func.Type()
	ret := make([]string, 0, t.NumIn())
	for i := range t.NumIn() {
		in := t.In(i)
		if in.Kind() == reflect.Pointer {
			ret = append(ret, "["+in.Elem().Kind().String()+"]")
			continue
		}
		ret = append(ret, "<"+in.Kind().String()+">")
	}
	return ret
}
