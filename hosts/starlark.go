package hosts

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/reusee/starlarkutil"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ToStarlark converts a host value into a starlark value.
// Stringers, like items and hashes, are shown as strings.
func ToStarlark(v any) starlark.Value {
	switch v := v.(type) {
	case nil:
		return starlark.None
	case starlark.Value:
		return v
	case []byte:
		return starlark.Bytes(v)
	case Handler:
		return starlark.NewBuiltin("native", func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, _ []starlark.Tuple) (starlark.Value, error) {
			values := make([]any, 0, len(args))
			for _, arg := range args {
				value, err := FromStarlark(arg)
				if err != nil {
					return nil, err
				}
				values = append(values, value)
			}
			ret, err := v(values)
			if err != nil {
				return nil, err
			}
			return ToStarlark(ret), nil
		})
	case fmt.Stringer:
		return starlark.String(v.String())
	}

	value := reflect.ValueOf(v)
	switch value.Kind() {

	case reflect.Bool:
		return starlark.Bool(value.Bool())

	case reflect.String:
		return starlark.String(value.String())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return starlark.MakeInt64(value.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return starlark.MakeUint64(value.Uint())

	case reflect.Float32, reflect.Float64:
		return starlark.Float(value.Float())

	case reflect.Slice, reflect.Array:
		elems := make([]starlark.Value, value.Len())
		for i := range elems {
			elems[i] = ToStarlark(value.Index(i).Interface())
		}
		return starlark.NewList(elems)

	case reflect.Map:
		d := starlark.NewDict(value.Len())
		iter := value.MapRange()
		for iter.Next() {
			d.SetKey(
				ToStarlark(iter.Key().Interface()),
				ToStarlark(iter.Value().Interface()),
			)
		}
		return d

	case reflect.Struct:
		typ := value.Type()
		d := starlark.NewDict(typ.NumField())
		for i := range typ.NumField() {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			d.SetKey(
				starlark.String(field.Name),
				ToStarlark(value.Field(i).Interface()),
			)
		}
		return d

	case reflect.Pointer, reflect.Interface:
		elem := value.Elem()
		if !elem.IsValid() {
			return starlark.None
		}
		return ToStarlark(elem.Interface())

	case reflect.Func:
		return starlarkutil.MakeFunc("", value.Interface())

	}

	panic(fmt.Errorf("unsupported type for starlark: %T", v))
}

// FromStarlark converts a scalar starlark value into a constant value.
func FromStarlark(v starlark.Value) (any, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(v), nil
	case starlark.Int:
		i, ok := v.Int64()
		if !ok {
			return nil, fmt.Errorf("integer out of range: %v", v)
		}
		return i, nil
	case starlark.Float:
		return float64(v), nil
	case starlark.String:
		return string(v), nil
	case starlark.Bytes:
		return []byte(v), nil
	case *starlark.List:
		ret := make([]any, 0, v.Len())
		for i := range v.Len() {
			elem, err := FromStarlark(v.Index(i))
			if err != nil {
				return nil, err
			}
			ret = append(ret, elem)
		}
		return ret, nil
	case starlark.Tuple:
		ret := make([]any, 0, len(v))
		for _, e := range v {
			elem, err := FromStarlark(e)
			if err != nil {
				return nil, err
			}
			ret = append(ret, elem)
		}
		return ret, nil
	}
	return nil, fmt.Errorf("unsupported starlark value: %s", v.Type())
}

// ModuleKey is the starlark global naming the module a prelude installs into.
const ModuleKey = "MODULE"

// LoadStarlark runs a starlark prelude and collects its globals into a module.
// Callables become native functions, other public globals become constants.
// The module path is taken from the MODULE global, `a::b` style.
func LoadStarlark(filename string, src any) (*Module, error) {
	thread := &starlark.Thread{
		Name: filename,
	}
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
	}, thread, filename, src, nil)
	if err != nil {
		return nil, err
	}

	name, ok := globals[ModuleKey].(starlark.String)
	if !ok {
		return nil, fmt.Errorf("%s: %s must be a string", filename, ModuleKey)
	}
	m := NewModule(strings.Split(string(name), "::")...)

	names := make([]string, 0, len(globals))
	for key := range globals {
		if key == ModuleKey || strings.HasPrefix(key, "_") {
			continue
		}
		names = append(names, key)
	}
	slices.Sort(names)

	for _, key := range names {
		value := globals[key]
		if callable, ok := value.(starlark.Callable); ok {
			args := Variadic
			if fn, ok := callable.(*starlark.Function); ok && !fn.HasVarargs() {
				args = fn.NumParams()
			}
			if err := m.Function(key, args, starlarkHandler(filename, callable)); err != nil {
				return nil, err
			}
			continue
		}
		constant, err := FromStarlark(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", filename, key, err)
		}
		if err := m.Constant(key, constant); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func starlarkHandler(filename string, callable starlark.Callable) Handler {
	return func(args []any) (any, error) {
		tuple := make(starlark.Tuple, 0, len(args))
		for _, arg := range args {
			tuple = append(tuple, ToStarlark(arg))
		}
		thread := &starlark.Thread{
			Name: filename,
		}
		ret, err := starlark.Call(thread, callable, tuple, nil)
		if err != nil {
			return nil, err
		}
		return FromStarlark(ret)
	}
}
