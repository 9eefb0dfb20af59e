package query

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"math/bits"
	"reflect"
	"strings"

	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/spans"
)

// evalConst computes the value of a const item. Values are nil for unit,
// bool, int64, float64, rune, byte, string or []byte.
func (q *Query) evalConst(entry *Entry) (any, error) {
	key := entry.Item.String()
	if q.evaluating[key] {
		return nil, &Error{
			Kind: ErrCycle,
			Item: entry.Item,
		}
	}
	q.evaluating[key] = true
	defer delete(q.evaluating, key)

	source, ok := q.sources.Get(entry.SourceID)
	if !ok {
		return nil, &Error{
			Kind: ErrMissingItem,
			Item: entry.Item,
		}
	}

	ev := &evaluator{
		query:   q,
		entry:   entry,
		source:  source.Text,
		storage: q.Storage(entry.SourceID),
	}
	node := entry.Node.(*ast.ItemConst)
	value, err := ev.expr(node.Value)
	if err != nil {
		return nil, ev.locate(node.Value.Span(), err)
	}
	return value, nil
}

type evaluator struct {
	query   *Query
	entry   *Entry
	source  string
	storage *ast.Storage
}

// locate attaches the source of the constant to err, once.
func (e *evaluator) locate(span spans.Span, err error) error {
	if _, ok := err.(*ConstError); ok {
		return err
	}
	return &ConstError{
		SourceID: e.entry.SourceID,
		Span:     span,
		Item:     e.entry.Item,
		Err:      err,
	}
}

func (e *evaluator) expr(expr ast.Expr) (any, error) {
	switch expr := expr.(type) {
	case *ast.LitUnit:
		return nil, nil
	case *ast.LitBool:
		return expr.Value, nil
	case *ast.LitNumber:
		n, err := ast.ResolveNumber(e.storage, e.source, expr.Token)
		if err != nil {
			return nil, err
		}
		if n.IsFloat {
			return n.Float, nil
		}
		return n.Int, nil
	case *ast.LitChar:
		return ast.ResolveChar(e.storage, e.source, expr.Token)
	case *ast.LitByte:
		return ast.ResolveByte(e.storage, e.source, expr.Token)
	case *ast.LitStr:
		return ast.ResolveStr(e.storage, e.source, expr.Token)
	case *ast.LitByteStr:
		return ast.ResolveByteStr(e.storage, e.source, expr.Token)
	case *ast.LitTemplate:
		return e.template(expr)
	case *ast.ExprGroup:
		return e.expr(expr.Expr)
	case *ast.ExprUnary:
		return e.unary(expr)
	case *ast.ExprBinary:
		return e.binary(expr)
	case *ast.ExprPath:
		return e.path(expr)
	}
	return nil, e.locate(expr.Span(), &Error{
		Kind: ErrNotConst,
		Item: e.entry.Item,
	})
}

func (e *evaluator) template(expr *ast.LitTemplate) (any, error) {
	b := new(strings.Builder)
	for _, arg := range expr.Args.Items {
		value, err := e.expr(arg)
		if err != nil {
			return nil, err
		}
		switch value := value.(type) {
		case string:
			b.WriteString(value)
		case rune:
			b.WriteRune(value)
		case int64, float64, bool:
			fmt.Fprint(b, value)
		default:
			return nil, e.locate(arg.Span(), &Error{
				Kind: ErrBadOperands,
				Name: "template",
			})
		}
	}
	return b.String(), nil
}

func (e *evaluator) path(expr *ast.ExprPath) (any, error) {
	components, err := Components(&expr.Path, e.source, e.storage)
	if err != nil {
		return nil, e.locate(expr.Span(), err)
	}
	item, err := e.query.ResolvePath(e.entry.Scope, components)
	if err != nil {
		return nil, e.locate(expr.Span(), err)
	}
	meta, err := e.query.Resolve(item)
	if err != nil {
		return nil, e.locate(expr.Span(), err)
	}
	switch meta.Kind {
	case MetaConst, MetaHostConst:
		return meta.Value, nil
	}
	return nil, e.locate(expr.Span(), &Error{
		Kind: ErrNotConst,
		Item: item,
	})
}

func (e *evaluator) unary(expr *ast.ExprUnary) (any, error) {
	value, err := e.expr(expr.Expr)
	if err != nil {
		return nil, err
	}
	if expr.Op == ast.UnaryNot {
		switch value := value.(type) {
		case bool:
			return !value, nil
		case int64:
			return ^value, nil
		}
	}
	return nil, e.locate(expr.Span(), &Error{
		Kind: ErrBadOperands,
		Name: expr.Op.String(),
	})
}

func (e *evaluator) binary(expr *ast.ExprBinary) (any, error) {
	if expr.Op.IsAssign() {
		return nil, e.locate(expr.Span(), &Error{
			Kind: ErrNotConst,
			Item: e.entry.Item,
		})
	}

	lhs, err := e.expr(expr.Lhs)
	if err != nil {
		return nil, err
	}

	// short circuit
	if b, ok := lhs.(bool); ok {
		if expr.Op == ast.BinAnd && !b {
			return false, nil
		}
		if expr.Op == ast.BinOr && b {
			return true, nil
		}
	}

	rhs, err := e.expr(expr.Rhs)
	if err != nil {
		return nil, err
	}

	value, err := binary(expr.Op, lhs, rhs)
	if err != nil {
		return nil, e.locate(expr.Span(), err)
	}
	return value, nil
}

func binary(op ast.BinOp, lhs, rhs any) (any, error) {
	bad := &Error{
		Kind: ErrBadOperands,
		Name: op.String(),
	}

	switch op {
	case ast.BinEq, ast.BinNeq:
		eq, ok := equal(lhs, rhs)
		if !ok {
			return nil, bad
		}
		return eq == (op == ast.BinEq), nil
	case ast.BinLt, ast.BinGt, ast.BinLte, ast.BinGte:
		c, ok := compare(lhs, rhs)
		if !ok {
			return nil, bad
		}
		switch op {
		case ast.BinLt:
			return c < 0, nil
		case ast.BinGt:
			return c > 0, nil
		case ast.BinLte:
			return c <= 0, nil
		}
		return c >= 0, nil
	}

	switch l := lhs.(type) {
	case bool:
		r, ok := rhs.(bool)
		if !ok {
			return nil, bad
		}
		switch op {
		case ast.BinAnd:
			return l && r, nil
		case ast.BinOr:
			return l || r, nil
		case ast.BinBitAnd:
			return l && r, nil
		case ast.BinBitOr:
			return l || r, nil
		case ast.BinBitXor:
			return l != r, nil
		}

	case int64:
		r, ok := rhs.(int64)
		if !ok {
			return nil, bad
		}
		return intBinary(op, l, r)

	case float64:
		r, ok := rhs.(float64)
		if !ok {
			return nil, bad
		}
		switch op {
		case ast.BinAdd:
			return l + r, nil
		case ast.BinSub:
			return l - r, nil
		case ast.BinMul:
			return l * r, nil
		case ast.BinDiv:
			return l / r, nil
		case ast.BinRem:
			return math.Mod(l, r), nil
		}

	case string:
		r, ok := rhs.(string)
		if ok && op == ast.BinAdd {
			return l + r, nil
		}
	}

	return nil, bad
}

func intBinary(op ast.BinOp, l, r int64) (any, error) {
	overflow := &Error{
		Kind: ErrOverflow,
	}
	switch op {
	case ast.BinAdd:
		sum := l + r
		if (sum > l) != (r > 0) {
			return nil, overflow
		}
		return sum, nil
	case ast.BinSub:
		diff := l - r
		if (diff < l) != (r > 0) {
			return nil, overflow
		}
		return diff, nil
	case ast.BinMul:
		hi, lo := bits.Mul64(uint64(abs(l)), uint64(abs(r)))
		if hi != 0 || lo > math.MaxInt64 {
			return nil, overflow
		}
		return l * r, nil
	case ast.BinDiv, ast.BinRem:
		if r == 0 {
			return nil, &Error{
				Kind: ErrDivideByZero,
			}
		}
		if l == math.MinInt64 && r == -1 {
			return nil, overflow
		}
		if op == ast.BinDiv {
			return l / r, nil
		}
		return l % r, nil
	case ast.BinBitAnd:
		return l & r, nil
	case ast.BinBitOr:
		return l | r, nil
	case ast.BinBitXor:
		return l ^ r, nil
	case ast.BinShl, ast.BinShr:
		if r < 0 || r > 63 {
			return nil, overflow
		}
		if op == ast.BinShl {
			return l << r, nil
		}
		return l >> r, nil
	}
	return nil, &Error{
		Kind: ErrBadOperands,
		Name: op.String(),
	}
}

func abs(i int64) int64 {
	if i < 0 {
		return -i
	}
	return i
}

func equal(lhs, rhs any) (bool, bool) {
	switch l := lhs.(type) {
	case nil:
		return rhs == nil, true
	case []byte:
		r, ok := rhs.([]byte)
		return ok && bytes.Equal(l, r), ok
	case bool, int64, float64, rune, byte, string:
		if reflect.TypeOf(lhs) != reflect.TypeOf(rhs) {
			return false, false
		}
		return lhs == rhs, true
	}
	return false, false
}

func compare(lhs, rhs any) (int, bool) {
	switch l := lhs.(type) {
	case int64:
		r, ok := rhs.(int64)
		return cmp.Compare(l, r), ok
	case float64:
		r, ok := rhs.(float64)
		return cmp.Compare(l, r), ok
	case rune:
		r, ok := rhs.(rune)
		return cmp.Compare(l, r), ok
	case byte:
		r, ok := rhs.(byte)
		return cmp.Compare(l, r), ok
	case string:
		r, ok := rhs.(string)
		return cmp.Compare(l, r), ok
	case []byte:
		r, ok := rhs.([]byte)
		return bytes.Compare(l, r), ok
	}
	return 0, false
}
