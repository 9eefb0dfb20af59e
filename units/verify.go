package units

import (
	"fmt"

	"github.com/udoprog/st/spans"
)

type VerifyErrorKind uint8

const (
	ErrUnknownOp VerifyErrorKind = iota + 1
	ErrBadConst
	ErrBadJump
	ErrBadSlot
	ErrUnderflow
	ErrInconsistentDepth
	ErrFallthrough
)

func (k VerifyErrorKind) String() string {
	switch k {
	case ErrUnknownOp:
		return "unknown instruction"
	case ErrBadConst:
		return "bad constant operand"
	case ErrBadJump:
		return "jump out of bounds"
	case ErrBadSlot:
		return "stack slot out of bounds"
	case ErrUnderflow:
		return "stack underflow"
	case ErrInconsistentDepth:
		return "inconsistent stack depth"
	case ErrFallthrough:
		return "control falls off the end of the function"
	}
	return fmt.Sprintf("VerifyErrorKind(%d)", k)
}

type VerifyError struct {
	Span spans.Span
	Kind VerifyErrorKind
	IP   int
	Op   OpCode
	// stack depth reaching the instruction, and the one seen before for ErrInconsistentDepth
	Depth    int
	Expected int
}

var _ error = new(VerifyError)

func (e *VerifyError) ErrorSpan() spans.Span {
	return e.Span
}

func (e *VerifyError) Error() string {
	if e.Kind == ErrInconsistentDepth {
		return fmt.Sprintf("%v at %04d %v: %d, expected %d", e.Kind, e.IP, e.Op, e.Depth, e.Expected)
	}
	return fmt.Sprintf("%v at %04d %v (depth %d)", e.Kind, e.IP, e.Op, e.Depth)
}

// Effect is the static stack effect of an instruction when control falls
// through to the next one. A taken jump of OpJumpIfOrPop, OpJumpIfNotOrPop
// and OpIterNext leaves the stack as it was.
func Effect(op OpCode, consts []any) (pops int, pushes int, ok bool) {
	arg := op.Arg()
	constAt := func() (any, bool) {
		if arg < 0 || arg >= len(consts) {
			return nil, false
		}
		return consts[arg], true
	}

	switch op.Op() {
	case OpUnit, OpLoadConst, OpCopy, OpLoadFn, OpType:
		return 0, 1, true
	case OpReplace, OpPop, OpJumpIf, OpJumpIfNot, OpJumpIfOrPop, OpJumpIfNotOrPop, OpReturn:
		return 1, 0, true
	case OpPopN:
		return arg, 0, arg >= 0
	case OpClean:
		return arg + 1, 1, arg >= 0
	case OpDup:
		return 1, 2, true
	case OpSwap:
		return 2, 2, true
	case OpJump, OpReturnUnit:
		return 0, 0, true
	case OpCall:
		v, ok := constAt()
		target, isTarget := v.(CallTarget)
		if !ok || !isTarget {
			return 0, 0, false
		}
		return target.Args, 1, true
	case OpCallInstance:
		v, ok := constAt()
		call, isCall := v.(InstanceCall)
		if !ok || !isCall {
			return 0, 0, false
		}
		return call.Args + 1, 1, true
	case OpCallFn:
		return arg + 1, 1, arg >= 0
	case OpIndexGet:
		return 2, 1, true
	case OpIndexSet:
		return 3, 0, true
	case OpFieldGet, OpTupleIndexGet, OpNot, OpRef, OpDeref, OpIter:
		return 1, 1, true
	case OpFieldSet:
		return 2, 0, true
	case OpMakeVec, OpMakeTuple, OpStringConcat:
		return arg, 1, arg >= 0
	case OpMakeObject:
		v, ok := constAt()
		keys, isKeys := v.(ObjectKeys)
		if !ok || !isKeys {
			return 0, 0, false
		}
		return len(keys), 1, true
	case OpRange:
		n := 0
		if arg&RangeFrom != 0 {
			n++
		}
		if arg&RangeTo != 0 {
			n++
		}
		return n, 1, true
	case OpIterNext:
		return 1, 2, true
	}
	if op.Op() >= OpAdd && op.Op() < opMax {
		return 2, 1, true
	}
	return 0, 0, false
}

// Verify walks every reachable path of the function and checks that each
// instruction is reached at a single stack depth. It returns the maximum depth.
func Verify(fn *Function) (int, error) {
	asm := fn.Assembly
	depths := make([]int, len(asm.Code))
	for i := range depths {
		depths[i] = -1
	}

	type edge struct {
		ip    int
		depth int
	}
	work := []edge{{0, fn.Args}}
	maxDepth := fn.Args

	fail := func(kind VerifyErrorKind, ip int, depth int) error {
		err := &VerifyError{
			Span:  fn.Span,
			Kind:  kind,
			IP:    ip,
			Depth: depth,
		}
		if ip < len(asm.Code) {
			err.Op = asm.Code[ip]
			err.Span = asm.Spans[ip]
		}
		return err
	}

	for len(work) > 0 {
		e := work[len(work)-1]
		work = work[:len(work)-1]

		if e.ip < 0 || e.ip > len(asm.Code) {
			return 0, fail(ErrBadJump, e.ip, e.depth)
		}
		if e.ip == len(asm.Code) {
			return 0, fail(ErrFallthrough, e.ip, e.depth)
		}
		if seen := depths[e.ip]; seen >= 0 {
			if seen != e.depth {
				err := fail(ErrInconsistentDepth, e.ip, e.depth).(*VerifyError)
				err.Expected = seen
				return 0, err
			}
			continue
		}
		depths[e.ip] = e.depth

		op := asm.Code[e.ip]
		if _, ok := opNames[op.Op()]; !ok {
			return 0, fail(ErrUnknownOp, e.ip, e.depth)
		}
		pops, pushes, ok := Effect(op, asm.Consts)
		if !ok {
			return 0, fail(ErrBadConst, e.ip, e.depth)
		}
		if e.depth < pops {
			return 0, fail(ErrUnderflow, e.ip, e.depth)
		}
		switch op.Op() {
		case OpCopy:
			if op.Arg() < 0 || op.Arg() >= e.depth {
				return 0, fail(ErrBadSlot, e.ip, e.depth)
			}
		case OpReplace:
			if op.Arg() < 0 || op.Arg() >= e.depth-1 {
				return 0, fail(ErrBadSlot, e.ip, e.depth)
			}
		}
		next := e.depth - pops + pushes
		if next > maxDepth {
			maxDepth = next
		}

		switch op.Op() {
		case OpReturn, OpReturnUnit:
		case OpJump:
			work = append(work, edge{asm.JumpTarget(e.ip), next})
		case OpJumpIf, OpJumpIfNot:
			work = append(work, edge{asm.JumpTarget(e.ip), next}, edge{e.ip + 1, next})
		case OpJumpIfOrPop, OpJumpIfNotOrPop, OpIterNext:
			work = append(work, edge{asm.JumpTarget(e.ip), e.depth}, edge{e.ip + 1, next})
		default:
			work = append(work, edge{e.ip + 1, next})
		}
	}

	return maxDepth, nil
}
