package cmds

import (
	"fmt"
	"testing"
)

func TestVar(t *testing.T) {
	a := Var[int]("TestVar.int")
	b := Var[string]("TestVar.string")
	GlobalExecutor.MustExecute([]string{
		"TestVar.int", "42",
		"TestVar.string", "bar",
	})
	if *a != 42 || *b != "bar" {
		t.Fatalf("got %v %v", *a, *b)
	}
	GlobalExecutor.MustExecute([]string{
		"TestVar.int.",
	})
	if *a != 0 {
		t.Fatalf("got %v", *a)
	}
}

func TestSwitch(t *testing.T) {
	foo := Switch("TestSwitch")
	if err := Execute([]string{"TestSwitch"}); err != nil {
		t.Fatal(err)
	}
	if !*foo {
		t.Fatal()
	}
	GlobalExecutor.MustExecute([]string{"!TestSwitch"})
	if *foo {
		t.Fatal()
	}
}

func TestCollect(t *testing.T) {
	list := Collect[string]("TestCollect")
	GlobalExecutor.MustExecute([]string{
		"TestCollect", "a",
		"TestCollect", "b",
	})
	if str := fmt.Sprintf("%v", *list); str != "[a b]" {
		t.Fatalf("got %s", str)
	}
}

func TestTypedVar(t *testing.T) {
	type Requires string
	v := Var[Requires]("TestTypedVar")
	GlobalExecutor.MustExecute([]string{
		"TestTypedVar", ">= 0.6",
	})
	if *v != ">= 0.6" {
		t.Fatalf("got %v", *v)
	}
}
