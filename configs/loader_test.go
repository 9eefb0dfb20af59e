package configs

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

var testSchema = `
str?: string
list?: [...int]
`

func TestLoaderAssignFirst(t *testing.T) {
	loader := NewLoader([]string{"testdata/a.cue"}, testSchema)

	var str string
	if err := loader.AssignFirst("str", &str); err != nil {
		t.Fatal(err)
	}
	if str != "bar" {
		t.Fatalf("got %q", str)
	}

	var list []int
	if err := loader.AssignFirst("list", &list); err != nil {
		t.Fatal(err)
	}
	if str := fmt.Sprintf("%v", list); str != "[1 2 3]" {
		t.Fatalf("got %s", str)
	}

	if err := loader.AssignFirst("not", &list); !errors.Is(err, ErrValueNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestLoaderIterCueValues(t *testing.T) {
	loader := NewLoader([]string{
		"testdata/a.cue",
		"testdata/b.cue",
	}, testSchema)

	var strs []string
	for value, err := range loader.IterCueValues("str") {
		if err != nil {
			t.Fatal(err)
		}
		var s string
		if err := value.Decode(&s); err != nil {
			t.Fatal(err)
		}
		strs = append(strs, s)
	}
	if str := fmt.Sprintf("%v", strs); str != "[bar foo]" {
		t.Fatalf("got %q", str)
	}

	strs = slices.Collect(All[string](loader, "str"))
	if str := fmt.Sprintf("%v", strs); str != "[bar foo]" {
		t.Fatalf("got %q", str)
	}

	// only the first file has a list
	if lists := slices.Collect(All[[]int](loader, "list")); len(lists) != 1 {
		t.Fatalf("got %v", lists)
	}
}

func TestUnknownField(t *testing.T) {
	loader := NewLoader([]string{
		"testdata/bad.cue",
	}, testSchema)
	if err := loader.Validate(); err == nil {
		t.Fatal("should error")
	}
	var str string
	if err := loader.AssignFirst("unknown_field", &str); err == nil {
		t.Fatal("should error")
	}
}

func TestMissingFile(t *testing.T) {
	loader := NewLoader([]string{"testdata/none.cue"}, testSchema)
	if err := loader.Validate(); err == nil {
		t.Fatal("should error")
	}
}

func TestEmptyLoader(t *testing.T) {
	var loader Loader
	if str := First[string](loader, "str"); str != "" {
		t.Fatalf("got %v", str)
	}
	if err := loader.Validate(); err != nil {
		t.Fatal(err)
	}
}
