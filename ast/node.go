package ast

import "github.com/udoprog/st/spans"

// Node is implemented by every syntax tree node.
type Node interface {
	Spanned
	// Tokens writes the token stream the node was parsed from.
	Tokens(w Writer)
}

// Writer receives the token stream of a node.
// Child nodes are passed to Node so writers can treat some of them specially.
type Writer interface {
	Token(Token)
	Node(Node)
}

// Expr is the closed set of expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Item is the closed set of declarations.
type Item interface {
	Node
	itemNode()
	Attrs() []Attribute
}

// CollectTokens flattens the token stream of a node.
func CollectTokens(node Node) []Token {
	var c collector
	node.Tokens(&c)
	return c.tokens
}

type collector struct {
	tokens []Token
}

func (c *collector) Token(token Token) {
	c.tokens = append(c.tokens, token)
}

func (c *collector) Node(node Node) {
	node.Tokens(c)
}

// Punctuated is a comma separated list with an optional trailing comma.
type Punctuated[T Node] struct {
	Items  []T
	Commas []Token
}

func (p *Punctuated[T]) Len() int {
	return len(p.Items)
}

// Trailing reports whether the list ends with a comma.
func (p *Punctuated[T]) Trailing() bool {
	return len(p.Commas) > 0 && len(p.Commas) == len(p.Items)
}

func (p *Punctuated[T]) tokens(w Writer) {
	for i, item := range p.Items {
		w.Node(item)
		if i < len(p.Commas) {
			w.Token(p.Commas[i])
		}
	}
}

// TokenList is a comma separated list of single tokens, used for names.
type TokenList struct {
	Items  []Token
	Commas []Token
}

func (l *TokenList) tokens(w Writer) {
	for i, item := range l.Items {
		w.Token(item)
		if i < len(l.Commas) {
			w.Token(l.Commas[i])
		}
	}
}

func optToken(w Writer, token *Token) {
	if token != nil {
		w.Token(*token)
	}
}

func joinOpt(span spans.Span, token *Token) spans.Span {
	if token == nil {
		return span
	}
	return span.Join(token.Span)
}
