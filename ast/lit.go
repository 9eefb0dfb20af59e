package ast

import "github.com/udoprog/st/spans"

// LitUnit is `()`.
type LitUnit struct {
	Open  Token
	Close Token
}

func (l *LitUnit) Span() spans.Span {
	return l.Open.Span.Join(l.Close.Span)
}

func (l *LitUnit) Tokens(w Writer) {
	w.Token(l.Open)
	w.Token(l.Close)
}

// LitBool is `true` or `false`.
type LitBool struct {
	Token Token
	Value bool
}

func (l *LitBool) Span() spans.Span {
	return l.Token.Span
}

func (l *LitBool) Tokens(w Writer) {
	w.Token(l.Token)
}

// LitNumber is an integer or float literal.
type LitNumber struct {
	Token Token
}

func (l *LitNumber) Span() spans.Span {
	return l.Token.Span
}

func (l *LitNumber) Tokens(w Writer) {
	w.Token(l.Token)
}

// LitChar is a character literal like `'a'`.
type LitChar struct {
	Token Token
}

func (l *LitChar) Span() spans.Span {
	return l.Token.Span
}

func (l *LitChar) Tokens(w Writer) {
	w.Token(l.Token)
}

// LitByte is a byte literal like `b'a'`.
type LitByte struct {
	Token Token
}

func (l *LitByte) Span() spans.Span {
	return l.Token.Span
}

func (l *LitByte) Tokens(w Writer) {
	w.Token(l.Token)
}

// LitStr is a string literal, or a literal segment of a template.
type LitStr struct {
	Token Token
}

func (l *LitStr) Span() spans.Span {
	return l.Token.Span
}

func (l *LitStr) Tokens(w Writer) {
	w.Token(l.Token)
}

// LitByteStr is a byte string literal like `b"abc"`.
type LitByteStr struct {
	Token Token
}

func (l *LitByteStr) Span() spans.Span {
	return l.Token.Span
}

func (l *LitByteStr) Tokens(w Writer) {
	w.Token(l.Token)
}

// LitTemplate is a back-tick template.
// Args holds the literal segments, as unwrapped LitStr nodes, and the
// expanded expressions in source order.
type LitTemplate struct {
	Template Token
	Open     Token
	Args     Punctuated[Expr]
	Close    Token
}

func (l *LitTemplate) Span() spans.Span {
	return l.Template.Span.Join(l.Close.Span)
}

func (l *LitTemplate) Tokens(w Writer) {
	w.Token(l.Template)
	w.Token(l.Open)
	l.Args.tokens(w)
	w.Token(l.Close)
}

// Expansions counts the arguments that are not literal segments.
func (l *LitTemplate) Expansions() int {
	n := 0
	for _, arg := range l.Args.Items {
		if IsTemplateSegment(arg) {
			continue
		}
		n++
	}
	return n
}

// IsTemplateSegment reports whether a template argument is a literal segment.
func IsTemplateSegment(expr Expr) bool {
	str, ok := expr.(*LitStr)
	return ok && !str.Token.Source.Wrapped
}

// LitVec is `[a, b]`.
type LitVec struct {
	Open  Token
	Items Punctuated[Expr]
	Close Token
}

func (l *LitVec) Span() spans.Span {
	return l.Open.Span.Join(l.Close.Span)
}

func (l *LitVec) Tokens(w Writer) {
	w.Token(l.Open)
	l.Items.tokens(w)
	w.Token(l.Close)
}

// LitTuple is `(a, b)`. A one element tuple needs a trailing comma.
type LitTuple struct {
	Open  Token
	Items Punctuated[Expr]
	Close Token
}

func (l *LitTuple) Span() spans.Span {
	return l.Open.Span.Join(l.Close.Span)
}

func (l *LitTuple) Tokens(w Writer) {
	w.Token(l.Open)
	l.Items.tokens(w)
	w.Token(l.Close)
}

// ObjectField is `key: value` in an object literal.
// The key is an identifier or a string literal.
type ObjectField struct {
	Key   Token
	Colon Token
	Value Expr
}

func (f *ObjectField) Span() spans.Span {
	return f.Key.Span.Join(f.Value.Span())
}

func (f *ObjectField) Tokens(w Writer) {
	w.Token(f.Key)
	w.Token(f.Colon)
	w.Node(f.Value)
}

// LitObject is `#{a: 1, "b": 2}`.
type LitObject struct {
	Pound  Token
	Open   Token
	Fields Punctuated[*ObjectField]
	Close  Token
}

func (l *LitObject) Span() spans.Span {
	return l.Pound.Span.Join(l.Close.Span)
}

func (l *LitObject) Tokens(w Writer) {
	w.Token(l.Pound)
	w.Token(l.Open)
	l.Fields.tokens(w)
	w.Token(l.Close)
}

func (*LitUnit) exprNode()     {}
func (*LitBool) exprNode()     {}
func (*LitNumber) exprNode()   {}
func (*LitChar) exprNode()     {}
func (*LitByte) exprNode()     {}
func (*LitStr) exprNode()      {}
func (*LitByteStr) exprNode()  {}
func (*LitTemplate) exprNode() {}
func (*LitVec) exprNode()      {}
func (*LitTuple) exprNode()    {}
func (*LitObject) exprNode()   {}
