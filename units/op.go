package units

import "fmt"

// OpCode is one instruction. The low byte is the operation, the operand is
// packed above it as a signed 24 bit integer.
type OpCode uint32

const (
	OpUnit OpCode = iota + 1
	// push consts[arg]
	OpLoadConst
	// push a copy of stack slot arg
	OpCopy
	// pop a value and store it into stack slot arg
	OpReplace
	OpPop
	OpPopN
	// pop the top value, pop arg values, push the top value back
	OpClean
	OpDup
	OpSwap

	// jumps take an offset relative to the next instruction
	OpJump
	OpJumpIf
	OpJumpIfNot
	// jump keeping the condition if it is true, otherwise pop it
	OpJumpIfOrPop
	OpJumpIfNotOrPop

	// call consts[arg], a CallTarget
	OpCall
	// call consts[arg], an InstanceCall, on the receiver below the arguments
	OpCallInstance
	// call the function value below arg arguments
	OpCallFn
	// push the function named by the hash in consts[arg]
	OpLoadFn
	// push the type named by the hash in consts[arg]
	OpType
	OpReturn
	OpReturnUnit

	OpIndexGet
	OpIndexSet
	// field name in consts[arg]
	OpFieldGet
	OpFieldSet
	OpTupleIndexGet

	OpMakeVec
	OpMakeTuple
	// field names in consts[arg], an ObjectKeys
	OpMakeObject
	OpStringConcat
	// arg is a set of RangeFrom, RangeTo and RangeClosed
	OpRange

	OpNot
	OpRef
	OpDeref

	// turn the value on top into an iterator
	OpIter
	// push the next value of the iterator on top, or jump by arg when done
	OpIterNext

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpBitAnd
	OpBitXor
	OpBitOr
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpIs
	OpIsNot

	opMax
)

const (
	RangeFrom = 1 << iota
	RangeTo
	RangeClosed
)

// MaxArg is the largest operand magnitude an instruction holds.
const MaxArg = 1<<23 - 1

// With packs arg without a range check. Use WithArg for operands derived
// from source.
func (o OpCode) With(arg int) OpCode {
	return o | (OpCode(arg) << 8)
}

// WithArg packs arg, failing if it does not fit the operand field.
func (o OpCode) WithArg(arg int) (OpCode, error) {
	if arg > MaxArg || arg < -MaxArg {
		return 0, &OperandError{
			Op:  o.Op(),
			Arg: arg,
		}
	}
	return o.With(arg), nil
}

type OperandError struct {
	Op  OpCode
	Arg int
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("operand %d of %v out of range", e.Arg, e.Op)
}

func (o OpCode) Op() OpCode {
	return o & 0xff
}

func (o OpCode) Arg() int {
	return int(int32(o) >> 8)
}

var opNames = map[OpCode]string{
	OpUnit:           "unit",
	OpLoadConst:      "load-const",
	OpCopy:           "copy",
	OpReplace:        "replace",
	OpPop:            "pop",
	OpPopN:           "pop-n",
	OpClean:          "clean",
	OpDup:            "dup",
	OpSwap:           "swap",
	OpJump:           "jump",
	OpJumpIf:         "jump-if",
	OpJumpIfNot:      "jump-if-not",
	OpJumpIfOrPop:    "jump-if-or-pop",
	OpJumpIfNotOrPop: "jump-if-not-or-pop",
	OpCall:           "call",
	OpCallInstance:   "call-instance",
	OpCallFn:         "call-fn",
	OpLoadFn:         "load-fn",
	OpType:           "type",
	OpReturn:         "return",
	OpReturnUnit:     "return-unit",
	OpIndexGet:       "index-get",
	OpIndexSet:       "index-set",
	OpFieldGet:       "field-get",
	OpFieldSet:       "field-set",
	OpTupleIndexGet:  "tuple-index-get",
	OpMakeVec:        "vec",
	OpMakeTuple:      "tuple",
	OpMakeObject:     "object",
	OpStringConcat:   "string-concat",
	OpRange:          "range",
	OpNot:            "not",
	OpRef:            "ref",
	OpDeref:          "deref",
	OpIter:           "iter",
	OpIterNext:       "iter-next",
	OpAdd:            "add",
	OpSub:            "sub",
	OpMul:            "mul",
	OpDiv:            "div",
	OpRem:            "rem",
	OpBitAnd:         "bit-and",
	OpBitXor:         "bit-xor",
	OpBitOr:          "bit-or",
	OpShl:            "shl",
	OpShr:            "shr",
	OpEq:             "eq",
	OpNe:             "ne",
	OpLt:             "lt",
	OpLe:             "le",
	OpGt:             "gt",
	OpGe:             "ge",
	OpIs:             "is",
	OpIsNot:          "is-not",
}

// hasArg reports whether the operand is meaningful.
func (o OpCode) hasArg() bool {
	switch o.Op() {
	case OpLoadConst, OpCopy, OpReplace, OpPopN, OpClean,
		OpJump, OpJumpIf, OpJumpIfNot, OpJumpIfOrPop, OpJumpIfNotOrPop,
		OpCall, OpCallInstance, OpCallFn, OpLoadFn, OpType,
		OpFieldGet, OpFieldSet, OpTupleIndexGet,
		OpMakeVec, OpMakeTuple, OpMakeObject, OpStringConcat, OpRange,
		OpIterNext:
		return true
	}
	return false
}

// IsJump reports whether the operand is a jump offset.
func (o OpCode) IsJump() bool {
	switch o.Op() {
	case OpJump, OpJumpIf, OpJumpIfNot, OpJumpIfOrPop, OpJumpIfNotOrPop, OpIterNext:
		return true
	}
	return false
}

func (o OpCode) String() string {
	name, ok := opNames[o.Op()]
	if !ok {
		return fmt.Sprintf("OpCode(%d)", uint32(o))
	}
	if o.hasArg() {
		return fmt.Sprintf("%s %d", name, o.Arg())
	}
	return name
}
