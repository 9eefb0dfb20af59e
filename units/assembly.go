package units

import (
	"fmt"
	"strings"

	"github.com/udoprog/st/items"
	"github.com/udoprog/st/spans"
)

// CallTarget is the constant operand of OpCall.
type CallTarget struct {
	Hash items.Hash
	Args int
}

// InstanceCall is the constant operand of OpCallInstance.
// Args does not count the receiver.
type InstanceCall struct {
	Hash items.Hash
	Name string
	Args int
}

// ObjectKeys is the constant operand of OpMakeObject.
type ObjectKeys []string

// Assembly is the instruction sink of one function.
type Assembly struct {
	Code     []OpCode
	Spans    []spans.Span
	Consts   []any
	constMap map[any]int
}

func NewAssembly() *Assembly {
	return &Assembly{
		constMap: make(map[any]int),
	}
}

// Emit appends an instruction and returns its address.
func (a *Assembly) Emit(op OpCode, span spans.Span) int {
	a.Code = append(a.Code, op)
	a.Spans = append(a.Spans, span)
	return len(a.Code) - 1
}

// IP is the address of the next instruction.
func (a *Assembly) IP() int {
	return len(a.Code)
}

// Const adds a value to the constant pool, reusing an equal one.
func (a *Assembly) Const(value any) int {
	if isComparable(value) {
		if idx, ok := a.constMap[value]; ok {
			return idx
		}
	}
	idx := len(a.Consts)
	a.Consts = append(a.Consts, value)
	if isComparable(value) {
		a.constMap[value] = idx
	}
	return idx
}

func isComparable(v any) bool {
	switch v.(type) {
	case bool, int64, float64, rune, byte, string, items.Hash, CallTarget, InstanceCall:
		return true
	}
	return false
}

// PatchJump points the jump at ip to target.
func (a *Assembly) PatchJump(ip int, target int) error {
	op, err := a.Code[ip].Op().WithArg(target - ip - 1)
	if err != nil {
		return err
	}
	a.Code[ip] = op
	return nil
}

// JumpTarget is the address the jump at ip leads to.
func (a *Assembly) JumpTarget(ip int) int {
	return ip + 1 + a.Code[ip].Arg()
}

// Truncate drops every instruction from ip on.
func (a *Assembly) Truncate(ip int) {
	a.Code = a.Code[:ip]
	a.Spans = a.Spans[:ip]
}

func (a *Assembly) Dump() string {
	b := new(strings.Builder)
	for ip, op := range a.Code {
		fmt.Fprintf(b, "%04d %v", ip, op)
		switch op.Op() {
		case OpLoadConst, OpCall, OpCallInstance, OpLoadFn, OpType, OpFieldGet, OpFieldSet, OpMakeObject:
			if arg := op.Arg(); arg >= 0 && arg < len(a.Consts) {
				fmt.Fprintf(b, " (%#v)", a.Consts[arg])
			}
		default:
			if op.IsJump() {
				fmt.Fprintf(b, " (-> %04d)", a.JumpTarget(ip))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
