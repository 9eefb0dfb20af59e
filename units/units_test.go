package units

import (
	"errors"
	"strings"
	"testing"

	"github.com/udoprog/st/items"
	"github.com/udoprog/st/spans"
)

func TestOpCodeArg(t *testing.T) {
	op := OpJump.With(-3)
	if op.Op() != OpJump {
		t.Fatalf("got %v", op.Op())
	}
	if op.Arg() != -3 {
		t.Fatalf("got %v", op.Arg())
	}
	op = OpLoadConst.With(1 << 20)
	if op.Op() != OpLoadConst || op.Arg() != 1<<20 {
		t.Fatalf("got %v", op)
	}
	if s := OpPopN.With(2).String(); s != "pop-n 2" {
		t.Fatalf("got %v", s)
	}
	if s := OpAdd.String(); s != "add" {
		t.Fatalf("got %v", s)
	}
}

func TestOpCodeWithArg(t *testing.T) {
	for _, arg := range []int{0, MaxArg, -MaxArg} {
		op, err := OpTupleIndexGet.WithArg(arg)
		if err != nil {
			t.Fatal(err)
		}
		if op.Op() != OpTupleIndexGet || op.Arg() != arg {
			t.Fatalf("got %v", op)
		}
	}
	for _, arg := range []int{MaxArg + 1, -MaxArg - 1, 1 << 40} {
		_, err := OpTupleIndexGet.WithArg(arg)
		var operandErr *OperandError
		if !errors.As(err, &operandErr) {
			t.Fatalf("got %v", err)
		}
		if operandErr.Arg != arg || operandErr.Op != OpTupleIndexGet {
			t.Fatalf("got %+v", operandErr)
		}
	}
}

func TestPatchJumpOutOfRange(t *testing.T) {
	asm := NewAssembly()
	jump := asm.Emit(OpJump, spans.New(0, 1))
	if err := asm.PatchJump(jump, jump+1+MaxArg+1); err == nil {
		t.Fatal("expected error")
	}
	if asm.Code[jump] != OpJump {
		t.Fatalf("got %v", asm.Code[jump])
	}
	if err := asm.PatchJump(jump, jump+1+MaxArg); err != nil {
		t.Fatal(err)
	}
	if asm.JumpTarget(jump) != jump+1+MaxArg {
		t.Fatalf("got %v", asm.JumpTarget(jump))
	}
}

func TestConstDedup(t *testing.T) {
	asm := NewAssembly()
	a := asm.Const(int64(1))
	b := asm.Const("foo")
	c := asm.Const(int64(1))
	d := asm.Const(rune(1))
	e := asm.Const([]byte("foo"))
	f := asm.Const([]byte("foo"))
	if a != c {
		t.Fatalf("got %v %v", a, c)
	}
	if a == d || b == a {
		t.Fatal("distinct constants share a slot")
	}
	if e == f {
		t.Fatal("byte slices are not deduplicated")
	}
	target := CallTarget{Hash: items.FunctionHash(items.New("f")), Args: 2}
	if asm.Const(target) != asm.Const(target) {
		t.Fatal()
	}
}

func TestPatchJump(t *testing.T) {
	asm := NewAssembly()
	asm.Emit(OpUnit, spans.Span{})
	jump := asm.Emit(OpJumpIfNot, spans.Span{})
	asm.Emit(OpUnit, spans.Span{})
	asm.Emit(OpPop, spans.Span{})
	asm.PatchJump(jump, asm.IP())
	if asm.JumpTarget(jump) != 4 {
		t.Fatalf("got %v", asm.JumpTarget(jump))
	}
	if asm.Code[jump].Op() != OpJumpIfNot {
		t.Fatalf("got %v", asm.Code[jump])
	}
	back := asm.Emit(OpJump, spans.Span{})
	asm.PatchJump(back, 0)
	if asm.JumpTarget(back) != 0 {
		t.Fatalf("got %v", asm.JumpTarget(back))
	}
	if !strings.Contains(asm.Dump(), "(-> 0000)") {
		t.Fatalf("got %s", asm.Dump())
	}
}

func function(args int, build func(asm *Assembly)) *Function {
	asm := NewAssembly()
	build(asm)
	return &Function{
		Item:     items.New("f"),
		Hash:     items.FunctionHash(items.New("f")),
		Args:     args,
		Assembly: asm,
	}
}

func TestVerify(t *testing.T) {
	// if a { 1 } else { 2 }
	fn := function(1, func(asm *Assembly) {
		asm.Emit(OpCopy.With(0), spans.Span{})
		jump := asm.Emit(OpJumpIfNot, spans.Span{})
		asm.Emit(OpLoadConst.With(asm.Const(int64(1))), spans.Span{})
		end := asm.Emit(OpJump, spans.Span{})
		asm.PatchJump(jump, asm.IP())
		asm.Emit(OpLoadConst.With(asm.Const(int64(2))), spans.Span{})
		asm.PatchJump(end, asm.IP())
		asm.Emit(OpReturn, spans.Span{})
	})
	depth, err := Verify(fn)
	if err != nil {
		t.Fatal(err)
	}
	if depth != 2 {
		t.Fatalf("got %v", depth)
	}
}

func TestVerifyLoop(t *testing.T) {
	// for x in v {} with the iterator kept below the binding
	fn := function(1, func(asm *Assembly) {
		asm.Emit(OpCopy.With(0), spans.Span{})
		asm.Emit(OpIter, spans.Span{})
		head := asm.IP()
		next := asm.Emit(OpIterNext, spans.Span{})
		asm.Emit(OpPop, spans.Span{})
		back := asm.Emit(OpJump, spans.Span{})
		asm.PatchJump(back, head)
		asm.PatchJump(next, asm.IP())
		asm.Emit(OpPop, spans.Span{})
		asm.Emit(OpReturnUnit, spans.Span{})
	})
	if _, err := Verify(fn); err != nil {
		t.Fatal(err)
	}
}

func TestVerifyErrors(t *testing.T) {
	check := func(kind VerifyErrorKind, fn *Function) {
		t.Helper()
		_, err := Verify(fn)
		var verr *VerifyError
		if !errors.As(err, &verr) {
			t.Fatalf("got %v", err)
		}
		if verr.Kind != kind {
			t.Fatalf("got %v, expected %v", verr.Kind, kind)
		}
	}

	check(ErrUnderflow, function(0, func(asm *Assembly) {
		asm.Emit(OpPop, spans.Span{})
		asm.Emit(OpReturnUnit, spans.Span{})
	}))

	check(ErrFallthrough, function(0, func(asm *Assembly) {
		asm.Emit(OpUnit, spans.Span{})
	}))

	check(ErrBadSlot, function(1, func(asm *Assembly) {
		asm.Emit(OpCopy.With(1), spans.Span{})
		asm.Emit(OpReturn, spans.Span{})
	}))

	check(ErrBadConst, function(0, func(asm *Assembly) {
		asm.Emit(OpCall.With(asm.Const("not a target")), spans.Span{})
		asm.Emit(OpReturn, spans.Span{})
	}))

	check(ErrBadJump, function(0, func(asm *Assembly) {
		asm.Emit(OpJump.With(10), spans.Span{})
	}))

	// one branch leaves a value, the other does not
	check(ErrInconsistentDepth, function(1, func(asm *Assembly) {
		asm.Emit(OpCopy.With(0), spans.Span{})
		jump := asm.Emit(OpJumpIfNot, spans.Span{})
		asm.Emit(OpUnit, spans.Span{})
		asm.PatchJump(jump, asm.IP())
		asm.Emit(OpReturnUnit, spans.Span{})
	}))
}

func TestEffect(t *testing.T) {
	consts := []any{
		CallTarget{Args: 2},
		InstanceCall{Args: 1},
		ObjectKeys{"a", "b", "c"},
	}
	for _, c := range []struct {
		op     OpCode
		pops   int
		pushes int
	}{
		{OpCall.With(0), 2, 1},
		{OpCallInstance.With(1), 2, 1},
		{OpMakeObject.With(2), 3, 1},
		{OpCallFn.With(3), 4, 1},
		{OpClean.With(2), 3, 1},
		{OpIndexSet, 3, 0},
		{OpRange.With(RangeFrom | RangeTo | RangeClosed), 2, 1},
		{OpRange.With(RangeTo), 1, 1},
		{OpGe, 2, 1},
	} {
		pops, pushes, ok := Effect(c.op, consts)
		if !ok || pops != c.pops || pushes != c.pushes {
			t.Fatalf("%v: got %v %v %v", c.op, pops, pushes, ok)
		}
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	fn := function(0, func(asm *Assembly) {
		asm.Emit(OpReturnUnit, spans.Span{})
	})
	if err := b.Insert(fn); err != nil {
		t.Fatal(err)
	}
	var conflict *ConflictError
	if err := b.Insert(fn); !errors.As(err, &conflict) {
		t.Fatalf("got %v", err)
	}
	unit := b.Build()
	if got, ok := unit.Lookup(fn.Hash); !ok || got != fn {
		t.Fatal()
	}
	if unit.Len() != 1 {
		t.Fatalf("got %v", unit.Len())
	}
}
