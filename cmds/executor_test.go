package cmds

import (
	"errors"
	"strings"
	"testing"
)

func TestExecutor(t *testing.T) {
	executor := NewExecutor()

	var path string
	var verify bool
	executor.Define("build", Func(func(p string) {
		path = p
	}))
	executor.Define("-verify", Func(func() {
		verify = true
	}))

	if err := executor.Execute([]string{"-verify", "build", "main.st"}); err != nil {
		t.Fatal(err)
	}
	if path != "main.st" || !verify {
		t.Fatalf("got %v %v", path, verify)
	}

	err := executor.Execute([]string{"foo"})
	if err == nil || !strings.Contains(err.Error(), "unknown command: foo") {
		t.Fatalf("got %v", err)
	}

	err = executor.Execute([]string{"build"})
	if err == nil || !strings.Contains(err.Error(), "build: expecting argument") {
		t.Fatalf("got %v", err)
	}
}

func TestCommandError(t *testing.T) {
	executor := NewExecutor()
	failed := errors.New("failed")
	executor.Define("fail", Func(func() error {
		return failed
	}))
	executor.Define("ok", Func(func() error {
		return nil
	}))
	if err := executor.Execute([]string{"ok"}); err != nil {
		t.Fatal(err)
	}
	if err := executor.Execute([]string{"fail"}); !errors.Is(err, failed) {
		t.Fatalf("got %v", err)
	}
}

func TestBadArgument(t *testing.T) {
	executor := NewExecutor()
	executor.Define("n", Func(func(int8) {}))
	if err := executor.Execute([]string{"n", "1000"}); err == nil {
		t.Fatal("should fail")
	}
	if err := executor.Execute([]string{"n", "x"}); err == nil {
		t.Fatal("should fail")
	}
}

func TestSubCommands(t *testing.T) {
	executor := NewExecutor()
	var dump, depth int
	executor.Define("unit", Sub(map[string]*Command{
		"dump": Func(func() {
			dump = 1
		}),
		"depth": Func(func(i int) {
			depth = i
		}),
	}))

	if err := executor.Execute([]string{"unit", "dump", "depth", "42"}); err != nil {
		t.Fatal(err)
	}
	if dump != 1 || depth != 42 {
		t.Fatalf("got %v %v", dump, depth)
	}

	// sub commands are not visible before their parent
	if err := executor.Execute([]string{"dump"}); err == nil {
		t.Fatal("should fail")
	}
}

func TestDuplicatedSubCommand(t *testing.T) {
	executor := NewExecutor()
	executor.Define("foo", Sub(map[string]*Command{
		"a": nil,
	}))
	executor.Define("bar", Sub(map[string]*Command{
		"a": nil,
	}))
	err := executor.Execute([]string{"foo", "bar"})
	if err == nil || !strings.Contains(err.Error(), "duplicated sub command: bar a") {
		t.Fatalf("got %v", err)
	}
}

func TestDuplicatedCommand(t *testing.T) {
	executor := NewExecutor()
	defer func() {
		if recover() == nil {
			t.Fatal("should panic")
		}
	}()
	executor.Define("help", Func(func() {}))
}

func TestOptionalArgument(t *testing.T) {
	executor := NewExecutor()
	var n int
	var s string
	executor.Define("foo", Func(func(arg *int, arg2 *string) {
		n = *arg
		s = *arg2
	}))

	if err := executor.Execute([]string{"foo", "42", "foo"}); err != nil {
		t.Fatal(err)
	}
	if n != 42 || s != "foo" {
		t.Fatalf("got %v %v", n, s)
	}

	if err := executor.Execute([]string{"foo", "99"}); err != nil {
		t.Fatal(err)
	}
	if n != 99 || s != "" {
		t.Fatalf("got %v %v", n, s)
	}

	if err := executor.Execute([]string{"foo"}); err != nil {
		t.Fatal(err)
	}
	if n != 0 || s != "" {
		t.Fatalf("got %v %v", n, s)
	}
}
