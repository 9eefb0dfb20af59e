package compiler

import (
	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/diagnostics"
	"github.com/udoprog/st/hosts"
	"github.com/udoprog/st/items"
	"github.com/udoprog/st/query"
	"github.com/udoprog/st/units"
)

var binaryOps = map[ast.BinOp]units.OpCode{
	ast.BinAdd:    units.OpAdd,
	ast.BinSub:    units.OpSub,
	ast.BinMul:    units.OpMul,
	ast.BinDiv:    units.OpDiv,
	ast.BinRem:    units.OpRem,
	ast.BinBitAnd: units.OpBitAnd,
	ast.BinBitXor: units.OpBitXor,
	ast.BinBitOr:  units.OpBitOr,
	ast.BinShl:    units.OpShl,
	ast.BinShr:    units.OpShr,
	ast.BinEq:     units.OpEq,
	ast.BinNeq:    units.OpNe,
	ast.BinLt:     units.OpLt,
	ast.BinGt:     units.OpGt,
	ast.BinLte:    units.OpLe,
	ast.BinGte:    units.OpGe,
	ast.BinIs:     units.OpIs,
	ast.BinIsNot:  units.OpIsNot,
}

var unaryOps = map[ast.UnaryOp]units.OpCode{
	ast.UnaryNot:       units.OpNot,
	ast.UnaryBorrowRef: units.OpRef,
	ast.UnaryDeref:     units.OpDeref,
}

// expr emits code leaving exactly one value on the stack if needs is
// NeedsValue, and nothing otherwise.
func (c *compiler) expr(expr ast.Expr, needs Needs) error {
	switch expr := expr.(type) {
	case *ast.LitUnit:
		if !needs.Value() {
			c.notUsed(expr.Span())
			return nil
		}
		c.emit(units.OpUnit, expr.Span())
		return nil

	case *ast.LitBool:
		return c.constant(expr, expr.Value, needs)

	case *ast.LitNumber:
		n, err := ast.ResolveNumber(c.storage, c.source, expr.Token)
		if err != nil {
			return err
		}
		if n.IsFloat {
			return c.constant(expr, n.Float, needs)
		}
		return c.constant(expr, n.Int, needs)

	case *ast.LitChar:
		r, err := ast.ResolveChar(c.storage, c.source, expr.Token)
		if err != nil {
			return err
		}
		return c.constant(expr, r, needs)

	case *ast.LitByte:
		b, err := ast.ResolveByte(c.storage, c.source, expr.Token)
		if err != nil {
			return err
		}
		return c.constant(expr, b, needs)

	case *ast.LitStr:
		s, err := ast.ResolveStr(c.storage, c.source, expr.Token)
		if err != nil {
			return err
		}
		return c.constant(expr, s, needs)

	case *ast.LitByteStr:
		b, err := ast.ResolveByteStr(c.storage, c.source, expr.Token)
		if err != nil {
			return err
		}
		return c.constant(expr, b, needs)

	case *ast.LitTemplate:
		return c.template(expr, needs)

	case *ast.LitVec:
		if err := c.exprs(expr.Items.Items); err != nil {
			return err
		}
		c.emitArg(units.OpMakeVec, len(expr.Items.Items), expr.Span())
		c.discard(needs, expr.Span())
		return nil

	case *ast.LitTuple:
		if err := c.exprs(expr.Items.Items); err != nil {
			return err
		}
		c.emitArg(units.OpMakeTuple, len(expr.Items.Items), expr.Span())
		c.discard(needs, expr.Span())
		return nil

	case *ast.LitObject:
		return c.object(expr, needs)

	case *ast.ExprGroup:
		return c.expr(expr.Expr, needs)

	case *ast.ExprBlock:
		return c.block(&expr.Block, needs)

	case *ast.ExprPath:
		return c.path(expr, needs)

	case *ast.ExprLet:
		return &Error{
			Span: expr.Span(),
			Kind: ErrUnsupported,
			Name: "let outside of a block",
		}

	case *ast.ExprAssign:
		return c.assign(expr, needs)

	case *ast.ExprIndexSet:
		// value, index, target
		if err := c.expr(expr.Value, NeedsValue); err != nil {
			return err
		}
		if err := c.expr(expr.Index, NeedsValue); err != nil {
			return err
		}
		if err := c.expr(expr.Target, NeedsValue); err != nil {
			return err
		}
		c.emit(units.OpIndexSet, expr.Span())
		if needs.Value() {
			c.emit(units.OpUnit, expr.Span())
		}
		return nil

	case *ast.ExprIndex:
		if err := c.expr(expr.Target, NeedsValue); err != nil {
			return err
		}
		if err := c.expr(expr.Index, NeedsValue); err != nil {
			return err
		}
		c.emit(units.OpIndexGet, expr.Span())
		c.discard(needs, expr.Span())
		return nil

	case *ast.ExprField:
		return c.field(expr, needs)

	case *ast.ExprBinary:
		return c.binary(expr, needs)

	case *ast.ExprUnary:
		if err := c.expr(expr.Expr, NeedsValue); err != nil {
			return err
		}
		c.emit(unaryOps[expr.Op], expr.Span())
		c.discard(needs, expr.Span())
		return nil

	case *ast.ExprRange:
		return c.rangeExpr(expr, needs)

	case *ast.ExprCall:
		return c.call(expr, needs)

	case *ast.ExprMethodCall:
		if err := c.expr(expr.Target, NeedsValue); err != nil {
			return err
		}
		if err := c.exprs(expr.Args.Items); err != nil {
			return err
		}
		name, err := ast.ResolveIdent(c.storage, c.source, expr.Name)
		if err != nil {
			return err
		}
		c.emitConst(units.OpCallInstance, units.InstanceCall{
			Hash: items.InstanceHash(name),
			Name: name,
			Args: len(expr.Args.Items),
		}, expr.Span())
		c.discard(needs, expr.Span())
		return nil

	case *ast.ExprMacroCall:
		expansion, ok := c.query.Expansion(c.sourceID, expr.Span())
		if !ok {
			return &Error{
				Span: expr.Span(),
				Kind: ErrUnexpandedMacro,
			}
		}
		return c.expr(expansion, needs)

	case *ast.ExprIf:
		return c.ifExpr(expr, needs)

	case *ast.ExprWhile:
		return c.while(expr, needs)

	case *ast.ExprLoop:
		return c.loop(expr, needs)

	case *ast.ExprFor:
		return c.forExpr(expr, needs)

	case *ast.ExprBreak:
		return c.breakExpr(expr, needs)

	case *ast.ExprContinue:
		l, err := c.findLoop(expr.Label, expr.Span())
		if err != nil {
			return err
		}
		depth := c.depth
		c.unwind(l.depth, expr.Span())
		c.jumpTo(units.OpJump, l.head, expr.Span())
		c.diverge(depth, needs)
		return nil

	case *ast.ExprReturn:
		depth := c.depth
		if expr.Value != nil {
			if err := c.expr(expr.Value, NeedsValue); err != nil {
				return err
			}
			c.emit(units.OpReturn, expr.Span())
		} else {
			c.emit(units.OpReturnUnit, expr.Span())
		}
		c.diverge(depth, needs)
		return nil
	}

	return &Error{
		Span: expr.Span(),
		Kind: ErrUnsupported,
	}
}

// diverge sets the static depth after an expression that never completes.
func (c *compiler) diverge(depth int, needs Needs) {
	c.depth = depth
	if needs.Value() {
		c.depth++
	}
}

func (c *compiler) exprs(exprs []ast.Expr) error {
	for _, expr := range exprs {
		if err := c.expr(expr, NeedsValue); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) constant(node ast.Node, value any, needs Needs) error {
	if !needs.Value() {
		c.notUsed(node.Span())
		return nil
	}
	c.emitConst(units.OpLoadConst, value, node.Span())
	return nil
}

func (c *compiler) template(expr *ast.LitTemplate, needs Needs) error {
	if expr.Expansions() == 0 {
		c.warnings.Push(diagnostics.Warning{
			SourceID: c.sourceID,
			Span:     expr.Span(),
			Kind:     diagnostics.WarnTemplateWithoutExpansions,
		})
	}
	if err := c.exprs(expr.Args.Items); err != nil {
		return err
	}
	c.emitArg(units.OpStringConcat, len(expr.Args.Items), expr.Span())
	c.discard(needs, expr.Span())
	return nil
}

func (c *compiler) object(expr *ast.LitObject, needs Needs) error {
	keys := make(units.ObjectKeys, 0, len(expr.Fields.Items))
	seen := make(map[string]bool)
	for _, field := range expr.Fields.Items {
		var key string
		var err error
		if field.Key.Kind == ast.KindStr {
			key, err = ast.ResolveStr(c.storage, c.source, field.Key)
		} else {
			key, err = ast.ResolveIdent(c.storage, c.source, field.Key)
		}
		if err != nil {
			return err
		}
		if seen[key] {
			return &Error{
				Span: field.Key.Span,
				Kind: ErrDuplicateKey,
				Name: key,
			}
		}
		seen[key] = true
		keys = append(keys, key)
		if err := c.expr(field.Value, NeedsValue); err != nil {
			return err
		}
	}
	c.emitConst(units.OpMakeObject, keys, expr.Span())
	c.discard(needs, expr.Span())
	return nil
}

// localPath returns the local a single identifier path refers to.
func (c *compiler) localPath(path *ast.Path) (local, bool, error) {
	var name string
	if ident, ok := path.TryAsIdent(); ok {
		var err error
		name, err = ast.ResolveIdent(c.storage, c.source, ident)
		if err != nil {
			return local{}, false, err
		}
	} else if len(path.Rest) == 0 && path.LeadingColon == nil && path.Trailing == nil && path.First.Token.Kind == ast.Self {
		name = "self"
	} else {
		return local{}, false, nil
	}
	l, ok := c.lookup(name)
	if !ok && name == "self" {
		return local{}, false, &Error{
			Span: path.Span(),
			Kind: ErrMissingLocal,
			Name: name,
		}
	}
	return l, ok, nil
}

func (c *compiler) path(expr *ast.ExprPath, needs Needs) error {
	span := expr.Span()
	l, ok, err := c.localPath(&expr.Path)
	if err != nil {
		return err
	}
	if ok {
		if !needs.Value() {
			c.notUsed(span)
			return nil
		}
		c.emitArg(units.OpCopy, l.slot, span)
		return nil
	}

	meta, err := c.resolve(&expr.Path)
	if err != nil {
		return err
	}

	switch meta.Kind {
	case query.MetaConst, query.MetaHostConst:
		return c.constant(expr, meta.Value, needs)
	case query.MetaModule:
		return &Error{
			Span: span,
			Kind: ErrUnsupported,
			Item: meta.Item,
			Name: "module used as a value",
		}
	}

	if !needs.Value() {
		c.notUsed(span)
		return nil
	}
	if meta.IsCallable() {
		c.emitConst(units.OpLoadFn, items.FunctionHash(meta.Item), span)
	} else {
		c.emitConst(units.OpType, meta.Hash, span)
	}
	return nil
}

func (c *compiler) call(expr *ast.ExprCall, needs Needs) error {
	span := expr.Span()
	args := expr.Args.Items

	if path, ok := expr.Fn.(*ast.ExprPath); ok {
		_, isLocal, err := c.localPath(&path.Path)
		if err != nil {
			return err
		}
		if !isLocal {
			meta, err := c.resolve(&path.Path)
			if err != nil {
				return err
			}
			if !meta.IsCallable() {
				return &Error{
					Span: path.Span(),
					Kind: ErrNotCallable,
					Item: meta.Item,
				}
			}
			if meta.Args != hosts.Variadic && meta.Args != len(args) {
				return &Error{
					Span: span,
					Kind: ErrBadArgumentCount,
					Item: meta.Item,
				}
			}
			if err := c.exprs(args); err != nil {
				return err
			}
			c.emitConst(units.OpCall, units.CallTarget{
				Hash: items.FunctionHash(meta.Item),
				Args: len(args),
			}, span)
			c.discard(needs, span)
			return nil
		}
	}

	if err := c.expr(expr.Fn, NeedsValue); err != nil {
		return err
	}
	if err := c.exprs(args); err != nil {
		return err
	}
	c.emitArg(units.OpCallFn, len(args), span)
	c.discard(needs, span)
	return nil
}

func (c *compiler) field(expr *ast.ExprField, needs Needs) error {
	if err := c.expr(expr.Target, NeedsValue); err != nil {
		return err
	}
	span := expr.Span()
	if expr.Field.Kind == ast.KindNumber {
		n, err := ast.ResolveNumber(c.storage, c.source, expr.Field)
		if err != nil {
			return err
		}
		if n.IsFloat || n.Int < 0 {
			return &Error{
				Span: expr.Field.Span,
				Kind: ErrUnsupported,
				Name: "tuple index",
			}
		}
		op, err := units.OpTupleIndexGet.WithArg(int(n.Int))
		if err != nil {
			return &Error{
				Span: expr.Field.Span,
				Kind: ErrOperandOverflow,
				Name: "tuple index",
				Err:  err,
			}
		}
		c.emit(op, span)
	} else {
		name, err := ast.ResolveIdent(c.storage, c.source, expr.Field)
		if err != nil {
			return err
		}
		c.emitConst(units.OpFieldGet, name, span)
	}
	c.discard(needs, span)
	return nil
}

func (c *compiler) assign(expr *ast.ExprAssign, needs Needs) error {
	span := expr.Span()
	switch lhs := expr.Lhs.(type) {
	case *ast.ExprPath:
		l, ok, err := c.localPath(&lhs.Path)
		if err != nil {
			return err
		}
		if !ok {
			if _, isIdent := lhs.Path.TryAsIdent(); isIdent {
				name, _ := ast.ResolveIdent(c.storage, c.source, lhs.Path.First.Token)
				return &Error{
					Span: lhs.Span(),
					Kind: ErrMissingLocal,
					Name: name,
				}
			}
			break
		}
		if err := c.expr(expr.Rhs, NeedsValue); err != nil {
			return err
		}
		c.emitArg(units.OpReplace, l.slot, span)
		if needs.Value() {
			c.emit(units.OpUnit, span)
		}
		return nil

	case *ast.ExprField:
		if lhs.Field.Kind != ast.Ident {
			break
		}
		name, err := ast.ResolveIdent(c.storage, c.source, lhs.Field)
		if err != nil {
			return err
		}
		// value, target
		if err := c.expr(expr.Rhs, NeedsValue); err != nil {
			return err
		}
		if err := c.expr(lhs.Target, NeedsValue); err != nil {
			return err
		}
		c.emitConst(units.OpFieldSet, name, span)
		if needs.Value() {
			c.emit(units.OpUnit, span)
		}
		return nil
	}

	return &Error{
		Span: expr.Lhs.Span(),
		Kind: ErrUnsupportedAssignTarget,
	}
}

func (c *compiler) binary(expr *ast.ExprBinary, needs Needs) error {
	span := expr.Span()

	if expr.Op.IsAssign() {
		path, ok := expr.Lhs.(*ast.ExprPath)
		if !ok {
			return &Error{
				Span: expr.Lhs.Span(),
				Kind: ErrUnsupportedAssignTarget,
			}
		}
		l, ok, err := c.localPath(&path.Path)
		if err != nil {
			return err
		}
		if !ok {
			return &Error{
				Span: expr.Lhs.Span(),
				Kind: ErrUnsupportedAssignTarget,
			}
		}
		c.emitArg(units.OpCopy, l.slot, path.Span())
		if err := c.expr(expr.Rhs, NeedsValue); err != nil {
			return err
		}
		c.emit(binaryOps[expr.Op.Unassign()], expr.OpToken.Span)
		c.emitArg(units.OpReplace, l.slot, span)
		if needs.Value() {
			c.emit(units.OpUnit, span)
		}
		return nil
	}

	if expr.Op == ast.BinAnd || expr.Op == ast.BinOr {
		if err := c.expr(expr.Lhs, NeedsValue); err != nil {
			return err
		}
		op := units.OpJumpIfNotOrPop
		if expr.Op == ast.BinOr {
			op = units.OpJumpIfOrPop
		}
		jump := c.emit(op, expr.OpToken.Span)
		if err := c.expr(expr.Rhs, NeedsValue); err != nil {
			return err
		}
		c.patch(jump)
		c.discard(needs, span)
		return nil
	}

	if err := c.expr(expr.Lhs, NeedsValue); err != nil {
		return err
	}
	if err := c.expr(expr.Rhs, NeedsValue); err != nil {
		return err
	}
	c.emit(binaryOps[expr.Op], expr.OpToken.Span)
	c.discard(needs, span)
	return nil
}

func (c *compiler) rangeExpr(expr *ast.ExprRange, needs Needs) error {
	flags := 0
	if expr.From != nil {
		if err := c.expr(expr.From, NeedsValue); err != nil {
			return err
		}
		flags |= units.RangeFrom
	}
	if expr.To != nil {
		if err := c.expr(expr.To, NeedsValue); err != nil {
			return err
		}
		flags |= units.RangeTo
	}
	if expr.Limits.Closed() {
		flags |= units.RangeClosed
	}
	c.emitArg(units.OpRange, flags, expr.Span())
	c.discard(needs, expr.Span())
	return nil
}

func (c *compiler) ifExpr(expr *ast.ExprIf, needs Needs) error {
	span := expr.Span()
	if err := c.expr(expr.Cond, NeedsValue); err != nil {
		return err
	}
	jumpElse := c.emit(units.OpJumpIfNot, expr.If.Span)
	depth := c.depth

	if err := c.block(&expr.Then, needs); err != nil {
		return err
	}
	if expr.Else == nil && !needs.Value() {
		c.patch(jumpElse)
		return nil
	}

	end := c.emit(units.OpJump, span)
	c.patch(jumpElse)
	c.depth = depth
	if expr.Else != nil {
		if err := c.expr(expr.Else, needs); err != nil {
			return err
		}
	} else {
		c.emit(units.OpUnit, span)
	}
	c.patch(end)
	return nil
}

func (c *compiler) while(expr *ast.ExprWhile, needs Needs) error {
	span := expr.Span()
	l, err := c.pushLoop(expr.Label, span, false, needs)
	if err != nil {
		return err
	}
	if err := c.expr(expr.Cond, NeedsValue); err != nil {
		return err
	}
	exit := c.emit(units.OpJumpIfNot, expr.While.Span)
	if err := c.block(&expr.Body, NeedsNone); err != nil {
		return err
	}
	c.jumpTo(units.OpJump, l.head, span)
	c.patch(exit)
	c.popLoop()
	c.depth = l.depth
	if needs.Value() {
		c.emit(units.OpUnit, span)
	}
	return nil
}

func (c *compiler) loop(expr *ast.ExprLoop, needs Needs) error {
	span := expr.Span()
	l, err := c.pushLoop(expr.Label, span, true, needs)
	if err != nil {
		return err
	}
	if err := c.block(&expr.Body, NeedsNone); err != nil {
		return err
	}
	c.jumpTo(units.OpJump, l.head, span)
	c.popLoop()
	c.diverge(l.depth, needs)
	return nil
}

func (c *compiler) forExpr(expr *ast.ExprFor, needs Needs) error {
	span := expr.Span()
	if err := c.expr(expr.Iter, NeedsValue); err != nil {
		return err
	}
	c.emit(units.OpIter, expr.Iter.Span())

	// the iterator stays on the stack for the whole loop
	l, err := c.pushLoop(expr.Label, span, false, needs)
	if err != nil {
		return err
	}
	next := c.emit(units.OpIterNext, expr.For.Span)

	scope := len(c.locals)
	if expr.Binding.Kind == ast.Ident {
		name, err := ast.ResolveIdent(c.storage, c.source, expr.Binding)
		if err != nil {
			return err
		}
		c.bind(name)
	}
	if err := c.block(&expr.Body, NeedsNone); err != nil {
		return err
	}
	c.locals = c.locals[:scope]
	c.emit(units.OpPop, expr.Binding.Span)
	c.jumpTo(units.OpJump, l.head, span)

	c.patch(next)
	c.popLoop()
	c.depth = l.depth
	c.emit(units.OpPop, span)
	if needs.Value() {
		c.emit(units.OpUnit, span)
	}
	return nil
}

func (c *compiler) breakExpr(expr *ast.ExprBreak, needs Needs) error {
	span := expr.Span()
	l, err := c.findLoop(expr.Label, span)
	if err != nil {
		return err
	}
	depth := c.depth

	if expr.Value != nil {
		if !l.valued {
			return &Error{
				Span: expr.Value.Span(),
				Kind: ErrUnsupported,
				Name: "break with a value outside of `loop`",
			}
		}
		if err := c.expr(expr.Value, NeedsValue); err != nil {
			return err
		}
		if l.needs.Value() {
			if n := c.depth - l.depth - 1; n > 0 {
				c.emitArg(units.OpClean, n, span)
			}
		} else {
			c.unwind(l.depth, span)
		}
	} else {
		c.unwind(l.depth, span)
		if l.valued && l.needs.Value() {
			c.emit(units.OpUnit, span)
		}
	}

	l.breaks = append(l.breaks, c.emit(units.OpJump, span))
	c.diverge(depth, needs)
	return nil
}
