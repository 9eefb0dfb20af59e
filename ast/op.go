package ast

import "fmt"

type BinOp uint8

const (
	BinInvalid BinOp = iota
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinRem
	BinBitAnd
	BinBitXor
	BinBitOr
	BinShl
	BinShr
	BinAnd
	BinOr
	BinEq
	BinNeq
	BinLt
	BinGt
	BinLte
	BinGte
	BinIs
	BinIsNot

	// compound assignment
	BinAddAssign
	BinSubAssign
	BinMulAssign
	BinDivAssign
	BinRemAssign
	BinBitAndAssign
	BinBitXorAssign
	BinBitOrAssign
	BinShlAssign
	BinShrAssign
)

var binOpKinds = map[Kind]BinOp{
	Plus:     BinAdd,
	Dash:     BinSub,
	Star:     BinMul,
	Div:      BinDiv,
	Perc:     BinRem,
	Amp:      BinBitAnd,
	Caret:    BinBitXor,
	Pipe:     BinBitOr,
	LtLt:     BinShl,
	GtGt:     BinShr,
	AmpAmp:   BinAnd,
	PipePipe: BinOr,
	EqEq:     BinEq,
	BangEq:   BinNeq,
	Lt:       BinLt,
	Gt:       BinGt,
	LtEq:     BinLte,
	GtEq:     BinGte,
	Is:       BinIs,
	PlusEq:   BinAddAssign,
	DashEq:   BinSubAssign,
	StarEq:   BinMulAssign,
	SlashEq:  BinDivAssign,
	PercEq:   BinRemAssign,
	AmpEq:    BinBitAndAssign,
	CaretEq:  BinBitXorAssign,
	PipeEq:   BinBitOrAssign,
	LtLtEq:   BinShlAssign,
	GtGtEq:   BinShrAssign,
}

// BinOpFor maps an operator token to its binary operator.
// `is not` spans two tokens and is handled by the parser.
func BinOpFor(kind Kind) (BinOp, bool) {
	op, ok := binOpKinds[kind]
	return op, ok
}

// Precedence is the binding strength of the operator, higher binds tighter.
func (o BinOp) Precedence() int {
	switch o {
	case BinMul, BinDiv, BinRem:
		return 10
	case BinAdd, BinSub:
		return 9
	case BinShl, BinShr:
		return 8
	case BinBitAnd:
		return 7
	case BinBitXor:
		return 6
	case BinBitOr:
		return 5
	case BinEq, BinNeq, BinLt, BinGt, BinLte, BinGte, BinIs, BinIsNot:
		return 4
	case BinAnd:
		return 3
	case BinOr:
		return 2
	}
	return 1
}

func (o BinOp) IsAssign() bool {
	return o >= BinAddAssign && o <= BinShrAssign
}

// IsComparison reports operators that may not be chained without parens.
func (o BinOp) IsComparison() bool {
	return o.Precedence() == 4
}

// Unassign maps a compound assignment to the underlying operator.
func (o BinOp) Unassign() BinOp {
	if !o.IsAssign() {
		return o
	}
	return o - BinAddAssign + BinAdd
}

func (o BinOp) String() string {
	switch o {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinRem:
		return "%"
	case BinBitAnd:
		return "&"
	case BinBitXor:
		return "^"
	case BinBitOr:
		return "|"
	case BinShl:
		return "<<"
	case BinShr:
		return ">>"
	case BinAnd:
		return "&&"
	case BinOr:
		return "||"
	case BinEq:
		return "=="
	case BinNeq:
		return "!="
	case BinLt:
		return "<"
	case BinGt:
		return ">"
	case BinLte:
		return "<="
	case BinGte:
		return ">="
	case BinIs:
		return "is"
	case BinIsNot:
		return "is not"
	}
	if o.IsAssign() {
		return o.Unassign().String() + "="
	}
	return fmt.Sprintf("BinOp(%d)", o)
}

type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota + 1
	UnaryBorrowRef
	UnaryDeref
)

// UnaryOpFor maps the operator token of a unary expression.
func UnaryOpFor(kind Kind) (UnaryOp, bool) {
	switch kind {
	case Bang:
		return UnaryNot, true
	case Amp:
		return UnaryBorrowRef, true
	case Star:
		return UnaryDeref, true
	}
	return 0, false
}

func (o UnaryOp) String() string {
	switch o {
	case UnaryNot:
		return "!"
	case UnaryBorrowRef:
		return "&"
	case UnaryDeref:
		return "*"
	}
	return fmt.Sprintf("UnaryOp(%d)", o)
}
