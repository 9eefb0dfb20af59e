package debugs

import (
	"context"
	"maps"
	"slices"

	"github.com/udoprog/st/hosts"
	"github.com/udoprog/st/logs"
	"github.com/udoprog/st/units"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Tap opens a starlark REPL on stdin with globals bound.
type Tap func(ctx context.Context, what string, globals map[string]any)

func (Module) Tap(
	logger logs.Logger,
) Tap {
	return func(ctx context.Context, what string, globals map[string]any) {
		logger.InfoContext(ctx, "tap: "+what,
			"globals", slices.Sorted(maps.Keys(globals)),
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		thread := &starlark.Thread{
			Name: "tap",
		}
		repl.REPLOptions(&syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
		}, thread, Globals(globals))
	}
}

// Globals converts host values for use in starlark.
func Globals(values map[string]any) starlark.StringDict {
	ret := make(starlark.StringDict, len(values))
	for name, value := range values {
		ret[name] = hosts.ToStarlark(value)
	}
	return ret
}

// UnitGlobals exposes a compiled unit: `functions` lists the function paths,
// `dump(path)` disassembles one.
func UnitGlobals(unit *units.Unit) map[string]any {
	byPath := make(map[string]*units.Function)
	var paths []string
	for _, fn := range unit.Functions() {
		path := fn.Item.String()
		byPath[path] = fn
		paths = append(paths, path)
	}
	return map[string]any{
		"functions": paths,
		"dump": func(path string) string {
			fn, ok := byPath[path]
			if !ok {
				return ""
			}
			return fn.Assembly.Dump()
		},
	}
}
