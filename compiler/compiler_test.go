package compiler

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/diagnostics"
	"github.com/udoprog/st/hosts"
	"github.com/udoprog/st/indexing"
	"github.com/udoprog/st/items"
	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/spans"
	"github.com/udoprog/st/units"
)

func compile(t *testing.T, text string, input CompileInput) *Result {
	t.Helper()
	if input.Sources == nil {
		input.Sources = new(sources.Sources)
		input.Sources.Insert(sources.New("main", text))
	}
	if input.Context == nil {
		host, err := hosts.Default(io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		input.Context = host
	}
	input.Options.Verify = true
	result, err := Compile(context.Background(), input)
	if err != nil {
		t.Fatal(err)
	}
	return result
}

// function compiles text without errors and returns the function at path.
func function(t *testing.T, text string, path string) *units.Function {
	t.Helper()
	result := compile(t, text, CompileInput{})
	if !result.Usable() {
		t.Fatalf("got %v", result.Errors.Err())
	}
	fn, ok := result.Unit.Lookup(items.FunctionHash(items.Parse(path)))
	if !ok {
		t.Fatalf("no function %s", path)
	}
	return fn
}

func expectCode(t *testing.T, fn *units.Function, expected ...units.OpCode) {
	t.Helper()
	code := fn.Assembly.Code
	if len(code) != len(expected) {
		t.Fatalf("got\n%s", fn.Assembly.Dump())
	}
	for i := range code {
		if code[i] != expected[i] {
			t.Fatalf("at %d: got\n%s", i, fn.Assembly.Dump())
		}
	}
}

func compileError(t *testing.T, text string) error {
	t.Helper()
	result := compile(t, text, CompileInput{})
	if result.Errors.Len() == 0 {
		t.Fatalf("expected error for %q", text)
	}
	return result.Errors.All()[0].Err
}

func TestArgs(t *testing.T) {
	fn := function(t, "fn add(a, b) { a + b }", "add")
	expectCode(t, fn,
		units.OpCopy.With(0),
		units.OpCopy.With(1),
		units.OpAdd,
		units.OpReturn,
	)
	if fn.Args != 2 || fn.Instance {
		t.Fatalf("got %v", fn)
	}
}

func TestIndexSet(t *testing.T) {
	expected := []units.OpCode{
		units.OpLoadConst.With(0),
		units.OpMakeVec.With(1),
		// value, index, target
		units.OpLoadConst.With(1),
		units.OpLoadConst.With(2),
		units.OpCopy.With(0),
		units.OpIndexSet,
		units.OpUnit,
		units.OpClean.With(1),
		units.OpReturn,
	}
	expectCode(t, function(t, "fn f() { let v = [1]; v[0] = 2; }", "f"), expected...)
	expectCode(t, function(t, "fn f() { let v = [1]; v[0] = 2 }", "f"), expected...)
}

func TestLocals(t *testing.T) {
	fn := function(t, "fn f() { let a = 1; let b = 2; a }", "f")
	expectCode(t, fn,
		units.OpLoadConst.With(0),
		units.OpLoadConst.With(1),
		units.OpCopy.With(0),
		units.OpClean.With(2),
		units.OpReturn,
	)

	fn = function(t, "fn f(a) { a += 2; a }", "f")
	expectCode(t, fn,
		units.OpCopy.With(0),
		units.OpLoadConst.With(0),
		units.OpAdd,
		units.OpReplace.With(0),
		units.OpCopy.With(0),
		units.OpReturn,
	)

	fn = function(t, "fn f(a) { { let a = 1; } a }", "f")
	expectCode(t, fn,
		units.OpLoadConst.With(0),
		units.OpPopN.With(1),
		units.OpCopy.With(0),
		units.OpReturn,
	)
}

func TestIf(t *testing.T) {
	fn := function(t, "fn f(a) { if a { 1 } else { 2 } }", "f")
	expectCode(t, fn,
		units.OpCopy.With(0),
		units.OpJumpIfNot.With(2),
		units.OpLoadConst.With(0),
		units.OpJump.With(1),
		units.OpLoadConst.With(1),
		units.OpReturn,
	)

	// no else branch, the value is unit
	fn = function(t, "fn f(a) { if a { a; } }", "f")
	if fn.Assembly.Code[len(fn.Assembly.Code)-2] != units.OpUnit {
		t.Fatalf("got\n%s", fn.Assembly.Dump())
	}
}

func TestLogical(t *testing.T) {
	fn := function(t, "fn f(a, b) { a && b }", "f")
	expectCode(t, fn,
		units.OpCopy.With(0),
		units.OpJumpIfNotOrPop.With(1),
		units.OpCopy.With(1),
		units.OpReturn,
	)
	fn = function(t, "fn f(a, b) { a || b }", "f")
	expectCode(t, fn,
		units.OpCopy.With(0),
		units.OpJumpIfOrPop.With(1),
		units.OpCopy.With(1),
		units.OpReturn,
	)
}

func TestLoopBreakValue(t *testing.T) {
	fn := function(t, "fn f() { loop { break 1; } }", "f")
	expectCode(t, fn,
		units.OpLoadConst.With(0),
		units.OpJump.With(1),
		units.OpJump.With(-3),
		units.OpReturn,
	)
}

func TestFor(t *testing.T) {
	fn := function(t, "fn f(v) { for x in v { x + 1; } }", "f")
	expectCode(t, fn,
		units.OpCopy.With(0),
		units.OpIter,
		units.OpIterNext.With(6),
		units.OpCopy.With(2),
		units.OpLoadConst.With(0),
		units.OpAdd,
		units.OpPop,
		units.OpPop,
		units.OpJump.With(-7),
		units.OpPop,
		units.OpUnit,
		units.OpReturn,
	)
}

func TestLabels(t *testing.T) {
	fn := function(t, "fn f() { 'outer: while true { loop { continue 'outer; } } }", "f")
	expectCode(t, fn,
		units.OpLoadConst.With(0),
		units.OpJumpIfNot.With(3),
		units.OpJump.With(-3),
		units.OpJump.With(-2),
		units.OpJump.With(-5),
		units.OpUnit,
		units.OpReturn,
	)

	// breaks pop the locals of the loop body
	fn = function(t, "fn f() { while true { let a = 1; let b = 2; break; } }", "f")
	depth, err := units.Verify(fn)
	if err != nil {
		t.Fatal(err)
	}
	if depth != 2 {
		t.Fatalf("got %v", depth)
	}
}

func TestCalls(t *testing.T) {
	fn := function(t, "fn g(a) { a } fn f() { g(1) }", "f")
	expectCode(t, fn,
		units.OpLoadConst.With(0),
		units.OpCall.With(1),
		units.OpReturn,
	)
	target := fn.Assembly.Consts[1].(units.CallTarget)
	if target.Hash != items.FunctionHash(items.New("g")) || target.Args != 1 {
		t.Fatalf("got %v", target)
	}

	fn = function(t, "fn f(a) { a.len() }", "f")
	expectCode(t, fn,
		units.OpCopy.With(0),
		units.OpCallInstance.With(0),
		units.OpReturn,
	)
	call := fn.Assembly.Consts[0].(units.InstanceCall)
	if call.Name != "len" || call.Hash != items.InstanceHash("len") || call.Args != 0 {
		t.Fatalf("got %v", call)
	}

	// local functions are called by value
	fn = function(t, "fn f(g) { g(1, 2) }", "f")
	expectCode(t, fn,
		units.OpCopy.With(0),
		units.OpLoadConst.With(0),
		units.OpLoadConst.With(1),
		units.OpCallFn.With(2),
		units.OpReturn,
	)

	// host functions
	fn = function(t, "fn f() { std::dbg(1, 2, 3); }", "f")
	if fn.Assembly.Code[3] != units.OpCall.With(3) {
		t.Fatalf("got\n%s", fn.Assembly.Dump())
	}

	// imported
	fn = function(t, "use std::print as p; fn f() { p(1) }", "f")
	target = fn.Assembly.Consts[1].(units.CallTarget)
	if target.Hash != items.FunctionHash(items.New("std", "print")) {
		t.Fatalf("got %v", target)
	}
}

func TestValues(t *testing.T) {
	fn := function(t, "const A = 1 + 2; fn f() { A }", "f")
	if v := fn.Assembly.Consts[0]; v != int64(3) {
		t.Fatalf("got %#v", v)
	}

	fn = function(t, "fn g() {} fn f() { g }", "f")
	expectCode(t, fn,
		units.OpLoadFn.With(0),
		units.OpReturn,
	)

	fn = function(t, "fn f() { std::String }", "f")
	expectCode(t, fn,
		units.OpType.With(0),
		units.OpReturn,
	)

	fn = function(t, "fn f() { std::VERSION }", "f")
	if v := fn.Assembly.Consts[0]; v != hosts.Version {
		t.Fatalf("got %#v", v)
	}

	fn = function(t, "fn f(a) { #{x: a, \"y\": 2} }", "f")
	keys := fn.Assembly.Consts[1].(units.ObjectKeys)
	if len(keys) != 2 || keys[0] != "x" || keys[1] != "y" {
		t.Fatalf("got %v", keys)
	}

	fn = function(t, "fn f(a) { `x {a}` }", "f")
	expectCode(t, fn,
		units.OpLoadConst.With(0),
		units.OpCopy.With(0),
		units.OpStringConcat.With(2),
		units.OpReturn,
	)

	fn = function(t, "fn f(a) { (a.0, a.b, 1..=2, ..a) }", "f")
	expectCode(t, fn,
		units.OpCopy.With(0),
		units.OpTupleIndexGet.With(0),
		units.OpCopy.With(0),
		units.OpFieldGet.With(0),
		units.OpLoadConst.With(1),
		units.OpLoadConst.With(2),
		units.OpRange.With(units.RangeFrom|units.RangeTo|units.RangeClosed),
		units.OpCopy.With(0),
		units.OpRange.With(units.RangeTo),
		units.OpMakeTuple.With(4),
		units.OpReturn,
	)
}

func TestWarnings(t *testing.T) {
	result := compile(t, "fn f() { 1; `abc` }", CompileInput{})
	if !result.Usable() {
		t.Fatal(result.Errors.Err())
	}
	warnings := result.Warnings.All()
	if len(warnings) != 2 {
		t.Fatalf("got %v", warnings)
	}
	if warnings[0].Kind != diagnostics.WarnNotUsed {
		t.Fatalf("got %v", warnings[0])
	}
	if warnings[1].Kind != diagnostics.WarnTemplateWithoutExpansions {
		t.Fatalf("got %v", warnings[1])
	}
}

func TestErrors(t *testing.T) {
	for source, kind := range map[string]ErrorKind{
		"fn f() { break; }":                         ErrBreakOutsideLoop,
		"fn f() { continue }":                       ErrBreakOutsideLoop,
		"fn f() { loop { break 'a; } }":             ErrMissingLabel,
		"fn f() { x }":                              ErrMissingItem,
		"fn f() { y = 1; }":                         ErrMissingLocal,
		"fn f() { self }":                           ErrMissingLocal,
		"fn f() { std::x = 1; }":                    ErrUnsupportedAssignTarget,
		"fn f(v) { v[0] += 1; }":                    ErrUnsupportedAssignTarget,
		"fn f() { #{a: 1, a: 2} }":                  ErrDuplicateKey,
		"fn f() { while true { break 1; } }":        ErrUnsupported,
		"fn f() { std }":                            ErrUnsupported,
		"const C = 1; fn f() { C() }":               ErrNotCallable,
		"fn g(a) {} fn f() { g() }":                 ErrBadArgumentCount,
		"fn f() { m::C } mod m { const C = 1 / 0; }": ErrResolve,
	} {
		var cerr *Error
		if err := compileError(t, source); !errors.As(err, &cerr) || cerr.Kind != kind {
			t.Fatalf("%s: got %v", source, err)
		}
	}
}

func TestFailedFunctionLeavesNoCode(t *testing.T) {
	result := compile(t, "fn good() { 1 } fn bad() { break; }", CompileInput{})
	if result.Usable() {
		t.Fatal("unit with errors is usable")
	}
	if result.Unit.Len() != 1 {
		t.Fatalf("got %v", result.Unit.Functions())
	}
	if _, ok := result.Unit.Lookup(items.FunctionHash(items.New("good"))); !ok {
		t.Fatal()
	}
}

func TestModules(t *testing.T) {
	result := compile(t, "mod a; fn f() { a::g() + a::b::h() }", CompileInput{
		Loader: sources.MapLoader{
			"a":    "mod b; pub fn g() { super::f }",
			"a::b": "pub fn h() { crate::a::g() }",
		},
	})
	if !result.Usable() {
		t.Fatal(result.Errors.Err())
	}
	if result.Unit.Len() != 3 {
		t.Fatalf("got %v", result.Unit.Functions())
	}
}

func TestMultipleRoots(t *testing.T) {
	srcs := new(sources.Sources)
	srcs.Insert(sources.New("a", "fn a() { b() }"))
	srcs.Insert(sources.New("b", "fn b() { 1 }"))
	result := compile(t, "", CompileInput{
		Sources: srcs,
	})
	if !result.Usable() {
		t.Fatal(result.Errors.Err())
	}
	if result.Unit.Len() != 2 {
		t.Fatalf("got %v", result.Unit.Functions())
	}
}

type boolExpander bool

func (b boolExpander) Expand(call *ast.ExprMacroCall, source string) (ast.Expr, error) {
	return &ast.LitBool{
		Token: call.Bang,
		Value: bool(b),
	}, nil
}

func TestMacros(t *testing.T) {
	text := "fn f() { yes!(anything) }"

	result := compile(t, text, CompileInput{})
	var ierr *indexing.Error
	if err := result.Errors.Err(); !errors.As(err, &ierr) || ierr.Kind != indexing.ErrMacrosDisabled {
		t.Fatalf("got %v", err)
	}
	if result.Unit.Len() != 0 {
		t.Fatalf("got %v", result.Unit.Functions())
	}

	result = compile(t, text, CompileInput{
		Options: Options{
			Macros: true,
		},
	})
	var cerr *Error
	if err := result.Errors.Err(); !errors.As(err, &cerr) || cerr.Kind != ErrUnexpandedMacro {
		t.Fatalf("got %v", err)
	}

	result = compile(t, text, CompileInput{
		Options: Options{
			Macros: true,
		},
		Expander: boolExpander(true),
	})
	if !result.Usable() {
		t.Fatal(result.Errors.Err())
	}
	fn, _ := result.Unit.Lookup(items.FunctionHash(items.New("f")))
	if v := fn.Assembly.Consts[0]; v != true {
		t.Fatalf("got %#v", v)
	}
}

func TestOptionsCheck(t *testing.T) {
	if err := (Options{Requires: ">= 0.6"}).Check(); err != nil {
		t.Fatal(err)
	}
	var cerr *Error
	if err := (Options{Requires: "< 0.5"}).Check(); !errors.As(err, &cerr) || cerr.Kind != ErrRequires {
		t.Fatalf("got %v", err)
	}
	if err := (Options{Requires: "not a constraint"}).Check(); !errors.As(err, &cerr) || cerr.Err == nil {
		t.Fatalf("got %v", err)
	}

	srcs := new(sources.Sources)
	srcs.Insert(sources.New("main", "fn f() {}"))
	if _, err := Compile(context.Background(), CompileInput{
		Sources: srcs,
		Options: Options{Requires: "< 0.5"},
	}); !errors.As(err, &cerr) {
		t.Fatalf("got %v", err)
	}
}

func TestCanceled(t *testing.T) {
	srcs := new(sources.Sources)
	srcs.Insert(sources.New("main", "fn f() {}"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Compile(ctx, CompileInput{Sources: srcs}); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestTupleIndexOutOfRange(t *testing.T) {
	fn := function(t, "fn f(x) { x.8388607 }", "f")
	expectCode(t, fn,
		units.OpCopy.With(0),
		units.OpTupleIndexGet.With(units.MaxArg),
		units.OpReturn,
	)

	result := compile(t, "fn f(x) { x.8388608 }", CompileInput{})
	if result.Errors.Len() != 1 {
		t.Fatalf("got %v", result.Errors.Err())
	}
	var compileErr *Error
	if !errors.As(result.Errors.All()[0].Err, &compileErr) || compileErr.Kind != ErrOperandOverflow {
		t.Fatalf("got %v", result.Errors.Err())
	}
	if compileErr.Span != spans.New(12, 19) {
		t.Fatalf("got %v", compileErr.Span)
	}
	if result.Unit.Len() != 0 {
		t.Fatalf("got %v", result.Unit.Functions())
	}
}

func TestOperandOverflowFailsFunction(t *testing.T) {
	c := &compiler{
		asm: units.NewAssembly(),
	}
	c.emitArg(units.OpPopN, units.MaxArg, spans.New(0, 1))
	if c.err != nil {
		t.Fatal(c.err)
	}
	c.emitArg(units.OpPopN, units.MaxArg+1, spans.New(1, 2))
	c.emitArg(units.OpPopN, units.MaxArg+2, spans.New(2, 3))
	var compileErr *Error
	if !errors.As(c.err, &compileErr) || compileErr.Kind != ErrOperandOverflow || compileErr.Span != spans.New(1, 2) {
		t.Fatalf("got %v", c.err)
	}
	var operandErr *units.OperandError
	if !errors.As(c.err, &operandErr) || operandErr.Arg != units.MaxArg+1 {
		t.Fatalf("got %v", c.err)
	}
	if c.asm.IP() != 3 {
		t.Fatalf("got %v", c.asm.IP())
	}

	c = &compiler{
		asm: units.NewAssembly(),
	}
	c.jumpTo(units.OpJump, -units.MaxArg, spans.New(4, 5))
	if !errors.As(c.err, &compileErr) || compileErr.Span != spans.New(4, 5) {
		t.Fatalf("got %v", c.err)
	}
}
