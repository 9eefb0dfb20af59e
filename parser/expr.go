package parser

import (
	"github.com/udoprog/st/ast"
)

// Expr parses a full expression, including assignment.
func (p *Parser) Expr() (ast.Expr, error) {
	if p.kind(0) == ast.Let {
		return expr(p.exprLet())
	}

	lhs, err := p.exprRange()
	if err != nil {
		return nil, err
	}

	kind := p.kind(0)
	if kind == ast.Eq {
		eq, err := p.next()
		if err != nil {
			return nil, err
		}
		rhs, err := p.Expr()
		if err != nil {
			return nil, err
		}
		if index, ok := lhs.(*ast.ExprIndex); ok {
			return &ast.ExprIndexSet{
				Target: index.Target,
				Open:   index.Open,
				Index:  index.Index,
				Close:  index.Close,
				Eq:     eq,
				Value:  rhs,
			}, nil
		}
		return &ast.ExprAssign{
			Lhs: lhs,
			Eq:  eq,
			Rhs: rhs,
		}, nil
	}

	if op, ok := ast.BinOpFor(kind); ok && op.IsAssign() {
		opToken, err := p.next()
		if err != nil {
			return nil, err
		}
		rhs, err := p.Expr()
		if err != nil {
			return nil, err
		}
		return &ast.ExprBinary{
			Lhs:     lhs,
			Op:      op,
			OpToken: opToken,
			Rhs:     rhs,
		}, nil
	}

	return lhs, nil
}

func (p *Parser) exprLet() (*ast.ExprLet, error) {
	let, err := p.expect(ast.Let)
	if err != nil {
		return nil, err
	}
	if kind := p.kind(0); kind != ast.Ident && kind != ast.Underscore {
		return nil, p.expected("binding name")
	}
	name, err := p.next()
	if err != nil {
		return nil, err
	}
	eq, err := p.expect(ast.Eq)
	if err != nil {
		return nil, err
	}
	value, err := p.Expr()
	if err != nil {
		return nil, err
	}
	return &ast.ExprLet{
		Let:   let,
		Name:  name,
		Eq:    eq,
		Value: value,
	}, nil
}

// lowest precedence of a non-assignment binary operator
const minBinaryPrecedence = 2

func (p *Parser) exprRange() (ast.Expr, error) {
	if p.peek(PeekRangeLimits) {
		return expr(p.exprRangeFrom(nil))
	}
	from, err := p.exprBinary(minBinaryPrecedence)
	if err != nil {
		return nil, err
	}
	if !p.peek(PeekRangeLimits) {
		return from, nil
	}
	return expr(p.exprRangeFrom(from))
}

// ExprRange parses a range expression, the limits are required.
func (p *Parser) ExprRange() (*ast.ExprRange, error) {
	var from ast.Expr
	if !p.peek(PeekRangeLimits) {
		var err error
		from, err = p.exprBinary(minBinaryPrecedence)
		if err != nil {
			return nil, err
		}
	}
	return p.exprRangeFrom(from)
}

func (p *Parser) exprRangeFrom(from ast.Expr) (*ast.ExprRange, error) {
	limits, err := p.RangeLimits()
	if err != nil {
		return nil, err
	}
	var to ast.Expr
	// `for x in 0.. { }` keeps the block for the loop
	if p.peek(peekExpr) && p.kind(0) != ast.OpenBrace && !p.peek(PeekRangeLimits) {
		to, err = p.exprBinary(minBinaryPrecedence)
		if err != nil {
			return nil, err
		}
	}
	return &ast.ExprRange{
		From:   from,
		Limits: limits,
		To:     to,
	}, nil
}

func (p *Parser) RangeLimits() (ast.RangeLimits, error) {
	if !p.peek(PeekRangeLimits) {
		return ast.RangeLimits{}, p.expected("range limits")
	}
	token, err := p.next()
	if err != nil {
		return ast.RangeLimits{}, err
	}
	return ast.RangeLimits{
		Token: token,
	}, nil
}

func (p *Parser) binOp() (ast.BinOp, bool) {
	op, ok := ast.BinOpFor(p.kind(0))
	if !ok || op.IsAssign() {
		return 0, false
	}
	return op, true
}

// exprBinary is precedence climbing over operators binding at least minPrec.
func (p *Parser) exprBinary(minPrec int) (ast.Expr, error) {
	lhs, err := p.exprUnaryOrPostfix()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.binOp()
		if !ok || op.Precedence() < minPrec {
			return lhs, nil
		}
		opToken, err := p.next()
		if err != nil {
			return nil, err
		}
		var not *ast.Token
		if op == ast.BinIs && p.kind(0) == ast.Not {
			not = p.nextOpt()
			op = ast.BinIsNot
		}
		rhs, err := p.exprBinary(op.Precedence() + 1)
		if err != nil {
			return nil, err
		}
		lhs = &ast.ExprBinary{
			Lhs:     lhs,
			Op:      op,
			OpToken: opToken,
			Not:     not,
			Rhs:     rhs,
		}
	}
}

func (p *Parser) exprUnaryOrPostfix() (ast.Expr, error) {
	if _, ok := ast.UnaryOpFor(p.kind(0)); ok {
		return expr(p.ExprUnary())
	}
	return p.exprPostfix()
}

// ExprUnary parses `!x`, `&x` or `*x`.
func (p *Parser) ExprUnary() (*ast.ExprUnary, error) {
	op, ok := ast.UnaryOpFor(p.kind(0))
	if !ok {
		return nil, p.expected("unary operator")
	}
	opToken, err := p.next()
	if err != nil {
		return nil, err
	}
	operand, err := p.exprUnaryOrPostfix()
	if err != nil {
		return nil, err
	}
	return &ast.ExprUnary{
		Op:      op,
		OpToken: opToken,
		Expr:    operand,
	}, nil
}

func (p *Parser) exprPostfix() (ast.Expr, error) {
	target, err := p.exprPrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.kind(0) {

		case ast.OpenParen:
			open, err := p.next()
			if err != nil {
				return nil, err
			}
			args, err := punctuated(p, ast.CloseParen, p.Expr)
			if err != nil {
				return nil, err
			}
			close, err := p.expect(ast.CloseParen)
			if err != nil {
				return nil, err
			}
			target = &ast.ExprCall{
				Fn:    target,
				Open:  open,
				Args:  args,
				Close: close,
			}

		case ast.OpenBracket:
			open, err := p.next()
			if err != nil {
				return nil, err
			}
			index, err := p.Expr()
			if err != nil {
				return nil, err
			}
			close, err := p.expect(ast.CloseBracket)
			if err != nil {
				return nil, err
			}
			target = &ast.ExprIndex{
				Target: target,
				Open:   open,
				Index:  index,
				Close:  close,
			}

		case ast.Dot:
			dot, err := p.next()
			if err != nil {
				return nil, err
			}
			switch p.kind(0) {
			case ast.KindNumber:
				field, err := p.next()
				if err != nil {
					return nil, err
				}
				target = &ast.ExprField{
					Target: target,
					Dot:    dot,
					Field:  field,
				}
			case ast.Ident:
				name, err := p.next()
				if err != nil {
					return nil, err
				}
				if p.kind(0) != ast.OpenParen {
					target = &ast.ExprField{
						Target: target,
						Dot:    dot,
						Field:  name,
					}
					continue
				}
				open, err := p.next()
				if err != nil {
					return nil, err
				}
				args, err := punctuated(p, ast.CloseParen, p.Expr)
				if err != nil {
					return nil, err
				}
				close, err := p.expect(ast.CloseParen)
				if err != nil {
					return nil, err
				}
				target = &ast.ExprMethodCall{
					Target: target,
					Dot:    dot,
					Name:   name,
					Open:   open,
					Args:   args,
					Close:  close,
				}
			default:
				return nil, p.expected("field or method name")
			}

		default:
			return target, nil
		}
	}
}

func (p *Parser) exprPrimary() (ast.Expr, error) {
	switch p.kind(0) {
	case ast.KindNumber:
		token, err := p.next()
		return expr(&ast.LitNumber{Token: token}, err)
	case ast.KindChar:
		return expr(p.LitChar())
	case ast.KindByte:
		token, err := p.next()
		return expr(&ast.LitByte{Token: token}, err)
	case ast.KindStr:
		token, err := p.next()
		return expr(&ast.LitStr{Token: token}, err)
	case ast.KindByteStr:
		token, err := p.next()
		return expr(&ast.LitByteStr{Token: token}, err)
	case ast.True, ast.False:
		token, err := p.next()
		return expr(&ast.LitBool{Token: token, Value: token.Kind == ast.True}, err)
	case ast.Template:
		return expr(p.litTemplate())
	case ast.OpenParen:
		return p.exprParen()
	case ast.OpenBracket:
		return expr(p.litVec())
	case ast.Pound:
		return expr(p.litObject())
	case ast.OpenBrace:
		block, err := p.block()
		return expr(&ast.ExprBlock{Block: block}, err)
	case ast.If:
		return expr(p.exprIf())
	case ast.While:
		return expr(p.ExprWhile())
	case ast.Loop:
		return expr(p.exprLoop(nil))
	case ast.For:
		return expr(p.exprFor(nil))
	case ast.Label:
		return p.exprLabeled()
	case ast.Break:
		return expr(p.exprBreak())
	case ast.Continue:
		return expr(p.exprContinue())
	case ast.Return:
		return expr(p.exprReturn())
	case ast.Let:
		return expr(p.exprLet())
	}

	if p.peek(PeekPath) {
		path, err := p.path()
		if err != nil {
			return nil, err
		}
		if p.kind(0) == ast.Bang && p.kind(1) == ast.OpenParen {
			return expr(p.exprMacroCall(path))
		}
		return &ast.ExprPath{Path: path}, nil
	}

	return nil, p.expected("expression")
}

// exprParen parses `()`, `(expr)` or a tuple.
func (p *Parser) exprParen() (ast.Expr, error) {
	if p.peek(PeekLitUnit) {
		return expr(p.LitUnit())
	}
	open, err := p.expect(ast.OpenParen)
	if err != nil {
		return nil, err
	}
	first, err := p.Expr()
	if err != nil {
		return nil, err
	}
	if p.kind(0) != ast.Comma {
		close, err := p.expect(ast.CloseParen)
		if err != nil {
			return nil, err
		}
		return &ast.ExprGroup{
			Open:  open,
			Expr:  first,
			Close: close,
		}, nil
	}
	comma, err := p.next()
	if err != nil {
		return nil, err
	}
	rest, err := punctuated(p, ast.CloseParen, p.Expr)
	if err != nil {
		return nil, err
	}
	close, err := p.expect(ast.CloseParen)
	if err != nil {
		return nil, err
	}
	return &ast.LitTuple{
		Open: open,
		Items: ast.Punctuated[ast.Expr]{
			Items:  append([]ast.Expr{first}, rest.Items...),
			Commas: append([]ast.Token{comma}, rest.Commas...),
		},
		Close: close,
	}, nil
}

// LitUnit parses `()`.
func (p *Parser) LitUnit() (*ast.LitUnit, error) {
	open, err := p.expect(ast.OpenParen)
	if err != nil {
		return nil, err
	}
	close, err := p.expect(ast.CloseParen)
	if err != nil {
		return nil, err
	}
	return &ast.LitUnit{
		Open:  open,
		Close: close,
	}, nil
}

func (p *Parser) LitChar() (*ast.LitChar, error) {
	token, err := p.expect(ast.KindChar)
	if err != nil {
		return nil, err
	}
	return &ast.LitChar{Token: token}, nil
}

func (p *Parser) litTemplate() (*ast.LitTemplate, error) {
	template, err := p.expect(ast.Template)
	if err != nil {
		return nil, err
	}
	open, err := p.expect(ast.OpenBrace)
	if err != nil {
		return nil, err
	}
	args, err := punctuated(p, ast.CloseBrace, p.Expr)
	if err != nil {
		return nil, err
	}
	close, err := p.expect(ast.CloseBrace)
	if err != nil {
		return nil, err
	}
	return &ast.LitTemplate{
		Template: template,
		Open:     open,
		Args:     args,
		Close:    close,
	}, nil
}

func (p *Parser) litVec() (*ast.LitVec, error) {
	open, err := p.expect(ast.OpenBracket)
	if err != nil {
		return nil, err
	}
	items, err := punctuated(p, ast.CloseBracket, p.Expr)
	if err != nil {
		return nil, err
	}
	close, err := p.expect(ast.CloseBracket)
	if err != nil {
		return nil, err
	}
	return &ast.LitVec{
		Open:  open,
		Items: items,
		Close: close,
	}, nil
}

func (p *Parser) litObject() (*ast.LitObject, error) {
	pound, err := p.expect(ast.Pound)
	if err != nil {
		return nil, err
	}
	open, err := p.expect(ast.OpenBrace)
	if err != nil {
		return nil, err
	}
	fields, err := punctuated(p, ast.CloseBrace, p.objectField)
	if err != nil {
		return nil, err
	}
	close, err := p.expect(ast.CloseBrace)
	if err != nil {
		return nil, err
	}
	return &ast.LitObject{
		Pound:  pound,
		Open:   open,
		Fields: fields,
		Close:  close,
	}, nil
}

func (p *Parser) objectField() (*ast.ObjectField, error) {
	if kind := p.kind(0); kind != ast.Ident && kind != ast.KindStr {
		return nil, p.expected("object key")
	}
	key, err := p.next()
	if err != nil {
		return nil, err
	}
	colon, err := p.expect(ast.Colon)
	if err != nil {
		return nil, err
	}
	value, err := p.Expr()
	if err != nil {
		return nil, err
	}
	return &ast.ObjectField{
		Key:   key,
		Colon: colon,
		Value: value,
	}, nil
}

func (p *Parser) exprMacroCall(path ast.Path) (*ast.ExprMacroCall, error) {
	bang, err := p.expect(ast.Bang)
	if err != nil {
		return nil, err
	}
	open, input, close, err := p.delimited()
	if err != nil {
		return nil, err
	}
	return &ast.ExprMacroCall{
		Path:  path,
		Bang:  bang,
		Open:  open,
		Input: input,
		Close: close,
	}, nil
}

var closers = map[ast.Kind]ast.Kind{
	ast.OpenParen:   ast.CloseParen,
	ast.OpenBracket: ast.CloseBracket,
	ast.OpenBrace:   ast.CloseBrace,
}

// delimited consumes a balanced token group and returns the tokens inside it.
func (p *Parser) delimited() (open ast.Token, inner []ast.Token, close ast.Token, err error) {
	open, err = p.next()
	if err != nil {
		return
	}
	closer, ok := closers[open.Kind]
	if !ok {
		err = &Error{
			Span:     open.Span,
			Kind:     ErrExpected,
			Expected: "delimiter",
			Actual:   open.Kind,
		}
		return
	}
	stack := []ast.Kind{closer}
	for {
		var token ast.Token
		token, err = p.next()
		if err != nil {
			return
		}
		if c, ok := closers[token.Kind]; ok {
			stack = append(stack, c)
		} else if token.Kind == stack[len(stack)-1] {
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				close = token
				return
			}
		} else if token.Kind == ast.CloseParen || token.Kind == ast.CloseBracket || token.Kind == ast.CloseBrace {
			err = &Error{
				Span:     token.Span,
				Kind:     ErrTokenMismatch,
				Expected: stack[len(stack)-1].String(),
				Actual:   token.Kind,
			}
			return
		}
		inner = append(inner, token)
	}
}

func (p *Parser) exprIf() (*ast.ExprIf, error) {
	ifToken, err := p.expect(ast.If)
	if err != nil {
		return nil, err
	}
	cond, err := p.Expr()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	ret := &ast.ExprIf{
		If:   ifToken,
		Cond: cond,
		Then: then,
	}
	if p.kind(0) != ast.Else {
		return ret, nil
	}
	ret.ElseTok = p.nextOpt()
	switch p.kind(0) {
	case ast.If:
		ret.Else, err = expr(p.exprIf())
	case ast.OpenBrace:
		block, e := p.block()
		ret.Else, err = expr(&ast.ExprBlock{Block: block}, e)
	default:
		return nil, p.expected("`if` or block after `else`")
	}
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (p *Parser) loopLabel() (*ast.LoopLabel, error) {
	if !p.peek(PeekLabel) {
		return nil, nil
	}
	label, err := p.next()
	if err != nil {
		return nil, err
	}
	colon, err := p.next()
	if err != nil {
		return nil, err
	}
	return &ast.LoopLabel{
		Label: label,
		Colon: colon,
	}, nil
}

func (p *Parser) exprLabeled() (ast.Expr, error) {
	label, err := p.loopLabel()
	if err != nil {
		return nil, err
	}
	if label == nil {
		return nil, p.expected("loop label")
	}
	switch p.kind(0) {
	case ast.While:
		return expr(p.exprWhile(label))
	case ast.Loop:
		return expr(p.exprLoop(label))
	case ast.For:
		return expr(p.exprFor(label))
	}
	return nil, p.expected("loop after label")
}

// ExprWhile parses `while cond { }` with an optional label.
func (p *Parser) ExprWhile() (*ast.ExprWhile, error) {
	label, err := p.loopLabel()
	if err != nil {
		return nil, err
	}
	return p.exprWhile(label)
}

func (p *Parser) exprWhile(label *ast.LoopLabel) (*ast.ExprWhile, error) {
	while, err := p.expect(ast.While)
	if err != nil {
		return nil, err
	}
	cond, err := p.Expr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.ExprWhile{
		Label: label,
		While: while,
		Cond:  cond,
		Body:  body,
	}, nil
}

func (p *Parser) exprLoop(label *ast.LoopLabel) (*ast.ExprLoop, error) {
	loop, err := p.expect(ast.Loop)
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.ExprLoop{
		Label: label,
		Loop:  loop,
		Body:  body,
	}, nil
}

func (p *Parser) exprFor(label *ast.LoopLabel) (*ast.ExprFor, error) {
	forToken, err := p.expect(ast.For)
	if err != nil {
		return nil, err
	}
	if kind := p.kind(0); kind != ast.Ident && kind != ast.Underscore {
		return nil, p.expected("loop binding")
	}
	binding, err := p.next()
	if err != nil {
		return nil, err
	}
	in, err := p.expect(ast.In)
	if err != nil {
		return nil, err
	}
	iter, err := p.Expr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.ExprFor{
		Label:   label,
		For:     forToken,
		Binding: binding,
		In:      in,
		Iter:    iter,
		Body:    body,
	}, nil
}

// valueFollows reports whether a `break` or `return` has an operand.
func (p *Parser) valueFollows() bool {
	switch p.kind(0) {
	case ast.SemiColon, ast.CloseBrace, ast.CloseParen, ast.CloseBracket, ast.Comma:
		return false
	}
	return p.peek(peekExpr)
}

func (p *Parser) exprBreak() (*ast.ExprBreak, error) {
	breakToken, err := p.expect(ast.Break)
	if err != nil {
		return nil, err
	}
	ret := &ast.ExprBreak{
		Break: breakToken,
	}
	if p.kind(0) == ast.Label {
		ret.Label = p.nextOpt()
	}
	if p.valueFollows() {
		ret.Value, err = p.Expr()
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (p *Parser) exprContinue() (*ast.ExprContinue, error) {
	continueToken, err := p.expect(ast.Continue)
	if err != nil {
		return nil, err
	}
	ret := &ast.ExprContinue{
		Continue: continueToken,
	}
	if p.kind(0) == ast.Label {
		ret.Label = p.nextOpt()
	}
	return ret, nil
}

func (p *Parser) exprReturn() (*ast.ExprReturn, error) {
	returnToken, err := p.expect(ast.Return)
	if err != nil {
		return nil, err
	}
	ret := &ast.ExprReturn{
		Return: returnToken,
	}
	if p.valueFollows() {
		ret.Value, err = p.Expr()
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// Block parses `{ stmts }`.
func (p *Parser) Block() (*ast.Block, error) {
	block, err := p.block()
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (p *Parser) block() (block ast.Block, err error) {
	block.Open, err = p.expect(ast.OpenBrace)
	if err != nil {
		return
	}
	for p.kind(0) != ast.CloseBrace {
		if eof, err := p.atEOF(); err != nil || eof {
			_, err = p.expect(ast.CloseBrace)
			return block, err
		}
		stmt, err := p.stmt()
		if err != nil {
			return block, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	block.Close, err = p.expect(ast.CloseBrace)
	return
}

func (p *Parser) stmt() (ast.Stmt, error) {
	if p.peek(PeekItem) {
		node, err := p.Item()
		if err != nil {
			return ast.Stmt{}, err
		}
		return ast.Stmt{Node: node}, nil
	}

	blockLike := p.peek(peekBlockLike)
	var node ast.Expr
	var err error
	if blockLike {
		node, err = p.exprPrimary()
	} else {
		node, err = p.Expr()
	}
	if err != nil {
		return ast.Stmt{}, err
	}

	switch p.kind(0) {
	case ast.SemiColon:
		return ast.Stmt{
			Node: node,
			Semi: p.nextOpt(),
		}, nil
	case ast.CloseBrace:
		return ast.Stmt{Node: node}, nil
	}
	if blockLike {
		return ast.Stmt{Node: node}, nil
	}
	return ast.Stmt{}, p.expected("`;`")
}

// Path parses a path with optional leading and trailing `::`.
func (p *Parser) Path() (*ast.Path, error) {
	path, err := p.path()
	if err != nil {
		return nil, err
	}
	return &path, nil
}

func (p *Parser) path() (path ast.Path, err error) {
	if p.kind(0) == ast.ColonColon {
		path.LeadingColon = p.nextOpt()
	}
	path.First, err = p.pathSegment()
	if err != nil {
		return
	}
	for p.kind(0) == ast.ColonColon {
		if !ast.IsPathSegment(p.kind(1)) {
			path.Trailing = p.nextOpt()
			break
		}
		colon, err := p.next()
		if err != nil {
			return path, err
		}
		segment, err := p.pathSegment()
		if err != nil {
			return path, err
		}
		path.Rest = append(path.Rest, ast.PathPart{
			Colon:   colon,
			Segment: segment,
		})
	}
	return
}

func (p *Parser) pathSegment() (ast.PathSegment, error) {
	if !ast.IsPathSegment(p.kind(0)) {
		token, ok, err := p.Nth(0)
		if err != nil {
			return ast.PathSegment{}, err
		}
		if !ok {
			return ast.PathSegment{}, &Error{
				Span:     p.lexer.Span(),
				Kind:     ErrUnexpectedEOF,
				Expected: "path segment",
			}
		}
		return ast.PathSegment{}, &Error{
			Span:     token.Span,
			Kind:     ErrTokenMismatch,
			Expected: "path segment",
			Actual:   token.Kind,
		}
	}
	token, err := p.next()
	if err != nil {
		return ast.PathSegment{}, err
	}
	return ast.PathSegment{Token: token}, nil
}
