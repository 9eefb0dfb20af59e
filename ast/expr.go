package ast

import "github.com/udoprog/st/spans"

type ExprPath struct {
	Path Path
}

func (e *ExprPath) Span() spans.Span {
	return e.Path.Span()
}

func (e *ExprPath) Tokens(w Writer) {
	e.Path.Tokens(w)
}

// ExprGroup is a parenthesized expression.
type ExprGroup struct {
	Open  Token
	Expr  Expr
	Close Token
}

func (e *ExprGroup) Span() spans.Span {
	return e.Open.Span.Join(e.Close.Span)
}

func (e *ExprGroup) Tokens(w Writer) {
	w.Token(e.Open)
	w.Node(e.Expr)
	w.Token(e.Close)
}

// ExprIndex is `target[index]`.
type ExprIndex struct {
	Target Expr
	Open   Token
	Index  Expr
	Close  Token
}

func (e *ExprIndex) Span() spans.Span {
	return e.Target.Span().Join(e.Close.Span)
}

func (e *ExprIndex) Tokens(w Writer) {
	w.Node(e.Target)
	w.Token(e.Open)
	w.Node(e.Index)
	w.Token(e.Close)
}

// ExprIndexSet is `target[index] = value`.
type ExprIndexSet struct {
	Target Expr
	Open   Token
	Index  Expr
	Close  Token
	Eq     Token
	Value  Expr
}

func (e *ExprIndexSet) Span() spans.Span {
	return e.Target.Span().Join(e.Value.Span())
}

func (e *ExprIndexSet) Tokens(w Writer) {
	w.Node(e.Target)
	w.Token(e.Open)
	w.Node(e.Index)
	w.Token(e.Close)
	w.Token(e.Eq)
	w.Node(e.Value)
}

// ExprAssign is `lhs = rhs` for any target other than an index.
type ExprAssign struct {
	Lhs Expr
	Eq  Token
	Rhs Expr
}

func (e *ExprAssign) Span() spans.Span {
	return e.Lhs.Span().Join(e.Rhs.Span())
}

func (e *ExprAssign) Tokens(w Writer) {
	w.Node(e.Lhs)
	w.Token(e.Eq)
	w.Node(e.Rhs)
}

// ExprBinary is a binary operation, including compound assignment.
// `is not` is the only operator with two tokens, Not is set for it.
type ExprBinary struct {
	Lhs     Expr
	Op      BinOp
	OpToken Token
	Not     *Token
	Rhs     Expr
}

func (e *ExprBinary) Span() spans.Span {
	return e.Lhs.Span().Join(e.Rhs.Span())
}

func (e *ExprBinary) Tokens(w Writer) {
	w.Node(e.Lhs)
	w.Token(e.OpToken)
	optToken(w, e.Not)
	w.Node(e.Rhs)
}

type ExprUnary struct {
	Op      UnaryOp
	OpToken Token
	Expr    Expr
}

func (e *ExprUnary) Span() spans.Span {
	return e.OpToken.Span.Join(e.Expr.Span())
}

func (e *ExprUnary) Tokens(w Writer) {
	w.Token(e.OpToken)
	w.Node(e.Expr)
}

// RangeLimits is `..` (half open) or `..=` (closed).
type RangeLimits struct {
	Token Token
}

func (r RangeLimits) Closed() bool {
	return r.Token.Kind == DotDotEq
}

// ExprRange is `from..to`, both sides are optional.
type ExprRange struct {
	From   Expr
	Limits RangeLimits
	To     Expr
}

func (e *ExprRange) Span() spans.Span {
	span := e.Limits.Token.Span
	if e.From != nil {
		span = span.Join(e.From.Span())
	}
	if e.To != nil {
		span = span.Join(e.To.Span())
	}
	return span
}

func (e *ExprRange) Tokens(w Writer) {
	if e.From != nil {
		w.Node(e.From)
	}
	w.Token(e.Limits.Token)
	if e.To != nil {
		w.Node(e.To)
	}
}

// ExprField is `target.name` or `target.0`.
type ExprField struct {
	Target Expr
	Dot    Token
	Field  Token
}

func (e *ExprField) Span() spans.Span {
	return e.Target.Span().Join(e.Field.Span)
}

func (e *ExprField) Tokens(w Writer) {
	w.Node(e.Target)
	w.Token(e.Dot)
	w.Token(e.Field)
}

type ExprCall struct {
	Fn    Expr
	Open  Token
	Args  Punctuated[Expr]
	Close Token
}

func (e *ExprCall) Span() spans.Span {
	return e.Fn.Span().Join(e.Close.Span)
}

func (e *ExprCall) Tokens(w Writer) {
	w.Node(e.Fn)
	w.Token(e.Open)
	e.Args.tokens(w)
	w.Token(e.Close)
}

// ExprMethodCall is `target.name(args)`.
type ExprMethodCall struct {
	Target Expr
	Dot    Token
	Name   Token
	Open   Token
	Args   Punctuated[Expr]
	Close  Token
}

func (e *ExprMethodCall) Span() spans.Span {
	return e.Target.Span().Join(e.Close.Span)
}

func (e *ExprMethodCall) Tokens(w Writer) {
	w.Node(e.Target)
	w.Token(e.Dot)
	w.Token(e.Name)
	w.Token(e.Open)
	e.Args.tokens(w)
	w.Token(e.Close)
}

// ExprMacroCall is `path!(tokens)`. The input is kept as raw tokens.
type ExprMacroCall struct {
	Path  Path
	Bang  Token
	Open  Token
	Input []Token
	Close Token
}

func (e *ExprMacroCall) Span() spans.Span {
	return e.Path.Span().Join(e.Close.Span)
}

func (e *ExprMacroCall) Tokens(w Writer) {
	e.Path.Tokens(w)
	w.Token(e.Bang)
	w.Token(e.Open)
	for _, token := range e.Input {
		w.Token(token)
	}
	w.Token(e.Close)
}

// Stmt is one statement of a block.
// Node is an Expr or an Item. Semi is the terminating `;` if present.
type Stmt struct {
	Node Node
	Semi *Token
}

type Block struct {
	Open  Token
	Stmts []Stmt
	Close Token
}

func (b *Block) Span() spans.Span {
	return b.Open.Span.Join(b.Close.Span)
}

func (b *Block) Tokens(w Writer) {
	w.Token(b.Open)
	for _, stmt := range b.Stmts {
		w.Node(stmt.Node)
		optToken(w, stmt.Semi)
	}
	w.Token(b.Close)
}

// Tail is the expression producing the value of the block, if any.
func (b *Block) Tail() Expr {
	if len(b.Stmts) == 0 {
		return nil
	}
	last := b.Stmts[len(b.Stmts)-1]
	if last.Semi != nil {
		return nil
	}
	expr, ok := last.Node.(Expr)
	if !ok {
		return nil
	}
	return expr
}

type ExprBlock struct {
	Block Block
}

func (e *ExprBlock) Span() spans.Span {
	return e.Block.Span()
}

func (e *ExprBlock) Tokens(w Writer) {
	e.Block.Tokens(w)
}

// ExprIf is `if cond { } else ...`. Else is an *ExprIf or an *ExprBlock.
type ExprIf struct {
	If      Token
	Cond    Expr
	Then    Block
	ElseTok *Token
	Else    Expr
}

func (e *ExprIf) Span() spans.Span {
	span := e.If.Span.Join(e.Then.Span())
	if e.Else != nil {
		span = span.Join(e.Else.Span())
	}
	return span
}

func (e *ExprIf) Tokens(w Writer) {
	w.Token(e.If)
	w.Node(e.Cond)
	e.Then.Tokens(w)
	optToken(w, e.ElseTok)
	if e.Else != nil {
		w.Node(e.Else)
	}
}

// LoopLabel is `'label:` in front of a loop.
type LoopLabel struct {
	Label Token
	Colon Token
}

func labelTokens(w Writer, label *LoopLabel) {
	if label != nil {
		w.Token(label.Label)
		w.Token(label.Colon)
	}
}

// ExprWhile is `'label: while cond { }`.
// The span starts at the keyword, the label is not included.
type ExprWhile struct {
	Label *LoopLabel
	While Token
	Cond  Expr
	Body  Block
}

func (e *ExprWhile) Span() spans.Span {
	return e.While.Span.Join(e.Body.Span())
}

func (e *ExprWhile) Tokens(w Writer) {
	labelTokens(w, e.Label)
	w.Token(e.While)
	w.Node(e.Cond)
	e.Body.Tokens(w)
}

type ExprLoop struct {
	Label *LoopLabel
	Loop  Token
	Body  Block
}

func (e *ExprLoop) Span() spans.Span {
	return e.Loop.Span.Join(e.Body.Span())
}

func (e *ExprLoop) Tokens(w Writer) {
	labelTokens(w, e.Label)
	w.Token(e.Loop)
	e.Body.Tokens(w)
}

// ExprFor is `for binding in iter { }`. Binding is an identifier or `_`.
type ExprFor struct {
	Label   *LoopLabel
	For     Token
	Binding Token
	In      Token
	Iter    Expr
	Body    Block
}

func (e *ExprFor) Span() spans.Span {
	return e.For.Span.Join(e.Body.Span())
}

func (e *ExprFor) Tokens(w Writer) {
	labelTokens(w, e.Label)
	w.Token(e.For)
	w.Token(e.Binding)
	w.Token(e.In)
	w.Node(e.Iter)
	e.Body.Tokens(w)
}

type ExprBreak struct {
	Break Token
	Label *Token
	Value Expr
}

func (e *ExprBreak) Span() spans.Span {
	span := joinOpt(e.Break.Span, e.Label)
	if e.Value != nil {
		span = span.Join(e.Value.Span())
	}
	return span
}

func (e *ExprBreak) Tokens(w Writer) {
	w.Token(e.Break)
	optToken(w, e.Label)
	if e.Value != nil {
		w.Node(e.Value)
	}
}

type ExprContinue struct {
	Continue Token
	Label    *Token
}

func (e *ExprContinue) Span() spans.Span {
	return joinOpt(e.Continue.Span, e.Label)
}

func (e *ExprContinue) Tokens(w Writer) {
	w.Token(e.Continue)
	optToken(w, e.Label)
}

type ExprReturn struct {
	Return Token
	Value  Expr
}

func (e *ExprReturn) Span() spans.Span {
	if e.Value != nil {
		return e.Return.Span.Join(e.Value.Span())
	}
	return e.Return.Span
}

func (e *ExprReturn) Tokens(w Writer) {
	w.Token(e.Return)
	if e.Value != nil {
		w.Node(e.Value)
	}
}

// ExprLet is `let name = value`. Name is an identifier or `_`.
type ExprLet struct {
	Let   Token
	Name  Token
	Eq    Token
	Value Expr
}

func (e *ExprLet) Span() spans.Span {
	return e.Let.Span.Join(e.Value.Span())
}

func (e *ExprLet) Tokens(w Writer) {
	w.Token(e.Let)
	w.Token(e.Name)
	w.Token(e.Eq)
	w.Node(e.Value)
}

// IsBlockLike reports expressions that end in a block and need no `;` as statements.
func IsBlockLike(expr Expr) bool {
	switch expr.(type) {
	case *ExprBlock, *ExprIf, *ExprWhile, *ExprLoop, *ExprFor:
		return true
	}
	return false
}

func (*ExprPath) exprNode()       {}
func (*ExprGroup) exprNode()      {}
func (*ExprIndex) exprNode()      {}
func (*ExprIndexSet) exprNode()   {}
func (*ExprAssign) exprNode()     {}
func (*ExprBinary) exprNode()     {}
func (*ExprUnary) exprNode()      {}
func (*ExprRange) exprNode()      {}
func (*ExprField) exprNode()      {}
func (*ExprCall) exprNode()       {}
func (*ExprMethodCall) exprNode() {}
func (*ExprMacroCall) exprNode()  {}
func (*ExprBlock) exprNode()      {}
func (*ExprIf) exprNode()         {}
func (*ExprWhile) exprNode()      {}
func (*ExprLoop) exprNode()       {}
func (*ExprFor) exprNode()        {}
func (*ExprBreak) exprNode()      {}
func (*ExprContinue) exprNode()   {}
func (*ExprReturn) exprNode()     {}
func (*ExprLet) exprNode()        {}
