package compiler

import (
	"errors"

	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/diagnostics"
	"github.com/udoprog/st/items"
	"github.com/udoprog/st/query"
	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/spans"
	"github.com/udoprog/st/units"
)

type local struct {
	name string
	slot int
}

type loop struct {
	label string
	span  spans.Span
	// the instruction continue jumps to
	head int
	// stack depth continue and break unwind to
	depth int
	// loop expressions take a break value
	valued bool
	needs  Needs
	breaks []int
}

// compiler lowers the body of one function.
type compiler struct {
	query    *query.Query
	warnings *diagnostics.Warnings
	asm      *units.Assembly
	sourceID sources.SourceID
	source   string
	storage  *ast.Storage
	// the function item, scope of path lookups
	scope items.Item

	// static stack depth
	depth  int
	locals []local
	loops  []*loop

	// first operand that did not fit its instruction
	err error
}

// Function compiles a function entry recorded by the indexer.
func Function(q *query.Query, warnings *diagnostics.Warnings, entry *query.Entry) (*units.Function, error) {
	fn := entry.Node.(*ast.ItemFn)
	source, ok := q.Sources().Get(entry.SourceID)
	if !ok {
		return nil, &Error{
			Span: fn.Span(),
			Kind: ErrMissingItem,
			Item: entry.Item,
		}
	}

	c := &compiler{
		query:    q,
		warnings: warnings,
		asm:      units.NewAssembly(),
		sourceID: entry.SourceID,
		source:   source.Text,
		storage:  q.Storage(entry.SourceID),
		scope:    entry.Item,
	}

	// arguments are the first stack slots
	for i, arg := range fn.Args.Items {
		name := "_"
		switch arg.Kind {
		case ast.Self:
			name = "self"
		case ast.Ident:
			ident, err := ast.ResolveIdent(c.storage, c.source, arg)
			if err != nil {
				return nil, err
			}
			name = ident
		}
		c.locals = append(c.locals, local{
			name: name,
			slot: i,
		})
	}
	c.depth = len(c.locals)

	if err := c.block(&fn.Body, NeedsValue); err != nil {
		return nil, err
	}
	c.emit(units.OpReturn, fn.Body.Close.Span)
	if c.err != nil {
		return nil, c.err
	}

	return &units.Function{
		Item:     entry.Item,
		Hash:     items.FunctionHash(entry.Item),
		Args:     len(fn.Args.Items),
		Instance: fn.IsInstance(),
		SourceID: entry.SourceID,
		Span:     fn.Span(),
		Assembly: c.asm,
	}, nil
}

func (c *compiler) emit(op units.OpCode, span spans.Span) int {
	pops, pushes, _ := units.Effect(op, c.asm.Consts)
	c.depth += pushes - pops
	return c.asm.Emit(op, span)
}

// emitArg emits op with an operand. An operand out of range fails the
// function; the instruction is still emitted so addresses stay stable.
func (c *compiler) emitArg(op units.OpCode, arg int, span spans.Span) int {
	packed, err := op.WithArg(arg)
	if err != nil {
		c.overflow(span, err)
		packed = op
	}
	return c.emit(packed, span)
}

func (c *compiler) emitConst(op units.OpCode, value any, span spans.Span) int {
	return c.emitArg(op, c.asm.Const(value), span)
}

func (c *compiler) overflow(span spans.Span, err error) {
	if c.err == nil {
		c.err = &Error{
			Span: span,
			Kind: ErrOperandOverflow,
			Err:  err,
		}
	}
}

// jumpTo emits a jump back to an earlier instruction.
func (c *compiler) jumpTo(op units.OpCode, target int, span spans.Span) {
	ip := c.emit(op, span)
	if err := c.asm.PatchJump(ip, target); err != nil {
		c.overflow(span, err)
	}
}

func (c *compiler) patch(ip int) {
	if err := c.asm.PatchJump(ip, c.asm.IP()); err != nil {
		c.overflow(c.asm.Spans[ip], err)
	}
}

// unwind pops the stack down to depth.
func (c *compiler) unwind(depth int, span spans.Span) {
	if n := c.depth - depth; n > 0 {
		c.emitArg(units.OpPopN, n, span)
	}
}

// discard pops the value of an expression compiled for its effect.
func (c *compiler) discard(needs Needs, span spans.Span) {
	if !needs.Value() {
		c.emit(units.OpPop, span)
	}
}

func (c *compiler) notUsed(span spans.Span) {
	c.warnings.Push(diagnostics.Warning{
		SourceID: c.sourceID,
		Span:     span,
		Kind:     diagnostics.WarnNotUsed,
	})
}

// bind names the value on top of the stack.
func (c *compiler) bind(name string) {
	c.locals = append(c.locals, local{
		name: name,
		slot: c.depth - 1,
	})
}

func (c *compiler) lookup(name string) (local, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return c.locals[i], true
		}
	}
	return local{}, false
}

// block compiles a block, dropping the locals it declared.
func (c *compiler) block(block *ast.Block, needs Needs) error {
	base := c.depth
	scope := len(c.locals)

	tail := block.Tail()
	for _, stmt := range block.Stmts {
		var err error
		switch node := stmt.Node.(type) {
		case ast.Item:
			// indexed separately
		case *ast.ExprLet:
			if node == tail {
				err = c.let(node, needs)
			} else {
				err = c.let(node, NeedsNone)
			}
		case ast.Expr:
			if node == tail {
				err = c.expr(node, needs)
			} else {
				err = c.expr(node, NeedsNone)
			}
		}
		if err != nil {
			return err
		}
	}
	if tail == nil && needs.Value() {
		c.emit(units.OpUnit, block.Close.Span)
	}

	if n := c.depth - base; needs.Value() && n > 1 {
		c.emitArg(units.OpClean, n-1, block.Close.Span)
	} else if !needs.Value() && n > 0 {
		c.emitArg(units.OpPopN, n, block.Close.Span)
	}
	c.locals = c.locals[:scope]
	return nil
}

func (c *compiler) let(let *ast.ExprLet, needs Needs) error {
	if err := c.expr(let.Value, NeedsValue); err != nil {
		return err
	}
	switch let.Name.Kind {
	case ast.Underscore:
		c.emit(units.OpPop, let.Name.Span)
	default:
		name, err := ast.ResolveIdent(c.storage, c.source, let.Name)
		if err != nil {
			return err
		}
		c.bind(name)
	}
	if needs.Value() {
		c.emit(units.OpUnit, let.Span())
	}
	return nil
}

// resolve finds the item a path refers to.
func (c *compiler) resolve(path *ast.Path) (*query.Meta, error) {
	span := path.Span()
	components, err := query.Components(path, c.source, c.storage)
	if err != nil {
		return nil, c.queryError(span, err)
	}
	item, err := c.query.ResolvePath(c.scope, components)
	if err != nil {
		return nil, c.queryError(span, err)
	}
	meta, err := c.query.Resolve(item)
	if err != nil {
		return nil, c.queryError(span, err)
	}
	return meta, nil
}

func (c *compiler) queryError(span spans.Span, err error) error {
	var qerr *query.Error
	if errors.As(err, &qerr) && qerr.Kind == query.ErrMissingItem {
		return &Error{
			Span: span,
			Kind: ErrMissingItem,
			Item: qerr.Item,
		}
	}
	return &Error{
		Span: span,
		Kind: ErrResolve,
		Err:  err,
	}
}

func (c *compiler) label(token *ast.Token) (string, error) {
	if token == nil {
		return "", nil
	}
	return ast.ResolveLabel(c.storage, c.source, *token)
}

// findLoop resolves the loop a break or continue applies to.
func (c *compiler) findLoop(label *ast.Token, span spans.Span) (*loop, error) {
	if len(c.loops) == 0 {
		return nil, &Error{
			Span: span,
			Kind: ErrBreakOutsideLoop,
		}
	}
	if label == nil {
		return c.loops[len(c.loops)-1], nil
	}
	name, err := c.label(label)
	if err != nil {
		return nil, err
	}
	for i := len(c.loops) - 1; i >= 0; i-- {
		if c.loops[i].label == name {
			return c.loops[i], nil
		}
	}
	return nil, &Error{
		Span: label.Span,
		Kind: ErrMissingLabel,
		Name: name,
	}
}

func (c *compiler) pushLoop(label *ast.LoopLabel, span spans.Span, valued bool, needs Needs) (*loop, error) {
	l := &loop{
		span:   span,
		head:   c.asm.IP(),
		depth:  c.depth,
		valued: valued,
		needs:  needs,
	}
	if label != nil {
		name, err := c.label(&label.Label)
		if err != nil {
			return nil, err
		}
		l.label = name
	}
	c.loops = append(c.loops, l)
	return l, nil
}

// popLoop points the breaks of the innermost loop to the next instruction.
func (c *compiler) popLoop() {
	l := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]
	for _, ip := range l.breaks {
		c.patch(ip)
	}
}
