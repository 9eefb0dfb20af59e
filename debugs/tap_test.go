package debugs

import (
	"context"
	"testing"

	"github.com/reusee/dscope"
	"github.com/udoprog/st/items"
	"github.com/udoprog/st/spans"
	"github.com/udoprog/st/units"
	"go.starlark.net/starlark"
)

func TestTap(t *testing.T) {
	dscope.New(
		new(Module),
	).Call(func(
		tap Tap,
	) {
		tap(context.Background(), "test", map[string]any{
			"foo": 42,
		})
	})
}

func testUnit(t *testing.T) *units.Unit {
	asm := units.NewAssembly()
	asm.Emit(units.OpLoadConst.With(asm.Const(int64(1))), spans.New(0, 1))
	asm.Emit(units.OpReturn, spans.New(0, 1))
	builder := units.NewBuilder()
	item := items.New("main")
	if err := builder.Insert(&units.Function{
		Item:     item,
		Hash:     items.FunctionHash(item),
		Assembly: asm,
	}); err != nil {
		t.Fatal(err)
	}
	return builder.Build()
}

func TestUnitGlobals(t *testing.T) {
	globals := Globals(UnitGlobals(testUnit(t)))
	thread := &starlark.Thread{
		Name: "test",
	}
	result, err := starlark.ExecFile(thread, "test.star", `
names = functions
code = dump("main")
missing = dump("none")
`, globals)
	if err != nil {
		t.Fatal(err)
	}
	if s := result["names"].String(); s != `["main"]` {
		t.Fatalf("got %v", s)
	}
	code, ok := starlark.AsString(result["code"])
	if !ok || code != "0000 load-const 0 (1)\n0001 return\n" {
		t.Fatalf("got %q", result["code"])
	}
	if s, _ := starlark.AsString(result["missing"]); s != "" {
		t.Fatalf("got %v", s)
	}
}
