package stconfigs

import (
	"io"
	"testing"

	"github.com/reusee/dscope"
	"github.com/udoprog/st/compiler"
	"github.com/udoprog/st/configs"
	"github.com/udoprog/st/items"
	"github.com/udoprog/st/logs"
	"github.com/udoprog/st/modes"
)

func TestDiscover(t *testing.T) {
	paths := discover([]string{"testdata", "missing"})
	if len(paths) != 2 || paths[0] != "testdata/st.cue" || paths[1] != "testdata/.st.cue" {
		t.Fatalf("got %v", paths)
	}
	if err := configs.NewLoader(paths, schema).Validate(); err != nil {
		t.Fatal(err)
	}
}

func testScope(mode any) dscope.Scope {
	return dscope.New(new(Module), mode).Fork(
		func() configs.Loader {
			return configs.NewLoader(discover([]string{"testdata"}), schema)
		},
		func() logs.Writer {
			return io.Discard
		},
	)
}

func TestOptions(t *testing.T) {
	testScope(modes.ForProduction()).Call(func(
		options compiler.Options,
	) {
		if !options.Macros || !options.Verify || options.Requires != ">= 0.6" {
			t.Fatalf("got %+v", options)
		}
		if err := options.Check(); err != nil {
			t.Fatal(err)
		}
	})
}

func TestDevelopmentVerifies(t *testing.T) {
	dscope.New(new(Module), modes.ForTest(t)).Fork(
		func() configs.Loader {
			return configs.Loader{}
		},
	).Call(func(
		options compiler.Options,
	) {
		if !options.Verify || options.Macros {
			t.Fatalf("got %+v", options)
		}
	})
}

func TestNewHostContext(t *testing.T) {
	testScope(modes.ForTest(t)).Call(func(
		prelude Prelude,
		newHostContext NewHostContext,
	) {
		if len(prelude) != 1 {
			t.Fatalf("got %v", prelude)
		}
		host, err := newHostContext(io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := host.Lookup(items.FunctionHash(items.New("math", "square"))); !ok {
			t.Fatal("prelude function not installed")
		}
		if _, ok := host.Lookup(items.FunctionHash(items.New("std", "dbg"))); !ok {
			t.Fatal("std not installed")
		}
	})
}
