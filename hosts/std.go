package hosts

import (
	"fmt"
	"io"
	"strings"
)

// Version is the language version reported by std::VERSION.
const Version = "0.7.0"

// Std builds the `std` module. dbg and print write to out.
func Std(out io.Writer) (*Module, error) {
	m := NewModule("std")

	if err := m.Function("dbg", Variadic, func(args []any) (any, error) {
		for i, arg := range args {
			if _, err := fmt.Fprintf(out, "%d = %#v\n", i, arg); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}); err != nil {
		return nil, err
	}

	if err := m.Function("print", Variadic, func(args []any) (any, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			parts = append(parts, fmt.Sprint(arg))
		}
		_, err := fmt.Fprintln(out, strings.Join(parts, " "))
		return nil, err
	}); err != nil {
		return nil, err
	}

	if err := m.Constant("VERSION", Version); err != nil {
		return nil, err
	}

	for _, check := range []TypeCheck{
		TypeUnit, TypeBool, TypeChar, TypeByte, TypeInteger, TypeFloat,
		TypeString, TypeBytes, TypeVec, TypeTuple, TypeObject, TypeRange,
	} {
		if err := m.Type(check.String(), check); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Default is a context with the std module installed.
func Default(out io.Writer) (*Context, error) {
	ctx := NewContext()
	std, err := Std(out)
	if err != nil {
		return nil, err
	}
	if err := ctx.Install(std); err != nil {
		return nil, err
	}
	return ctx, nil
}
