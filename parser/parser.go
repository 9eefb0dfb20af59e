package parser

import (
	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/lexer"
)

// Parser is a recursive descent parser over a lazily filled token buffer.
type Parser struct {
	source string
	lexer  *lexer.Lexer
	buf    []ast.Token
	done   bool
	err    error
}

func New(source string) *Parser {
	return &Parser{
		source: source,
		lexer:  lexer.New(source),
	}
}

func (p *Parser) Source() string {
	return p.source
}

// All parses the whole source with parse and fails if any token is left.
func All[T any](source string, parse func(*Parser) (T, error)) (ret T, err error) {
	p := New(source)
	ret, err = parse(p)
	if err != nil {
		return ret, err
	}
	if err := p.EOF(); err != nil {
		return ret, err
	}
	return ret, nil
}

// ParseFile parses a complete source file.
func ParseFile(source string) (*ast.File, error) {
	return All(source, (*Parser).File)
}

// Nth peeks at the token n positions ahead. ok is false past the end of input.
func (p *Parser) Nth(n int) (token ast.Token, ok bool, err error) {
	for len(p.buf) <= n {
		if p.err != nil {
			return token, false, p.err
		}
		if p.done {
			return token, false, nil
		}
		next, ok, err := p.lexer.Next()
		if err != nil {
			p.err = err
			return token, false, err
		}
		if !ok {
			p.done = true
			return token, false, nil
		}
		p.buf = append(p.buf, next)
	}
	return p.buf[n], true, nil
}

// kind is the kind of the n-th token, KindInvalid at the end or on a lexer error.
// Lexer errors are reported by the next consuming call.
func (p *Parser) kind(n int) ast.Kind {
	token, ok, err := p.Nth(n)
	if err != nil || !ok {
		return ast.KindInvalid
	}
	return token.Kind
}

// EOF fails unless all input is consumed.
func (p *Parser) EOF() error {
	token, ok, err := p.Nth(0)
	if err != nil {
		return err
	}
	if ok {
		return &Error{
			Span:   token.Span,
			Kind:   ErrExpectedEOF,
			Actual: token.Kind,
		}
	}
	return nil
}

func (p *Parser) atEOF() (bool, error) {
	_, ok, err := p.Nth(0)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (p *Parser) next() (ast.Token, error) {
	token, ok, err := p.Nth(0)
	if err != nil {
		return token, err
	}
	if !ok {
		return token, &Error{
			Span: p.lexer.Span(),
			Kind: ErrUnexpectedEOF,
		}
	}
	p.buf = p.buf[1:]
	return token, nil
}

func (p *Parser) nextOpt() *ast.Token {
	token, err := p.next()
	if err != nil {
		return nil
	}
	return &token
}

func (p *Parser) expect(kind ast.Kind) (ast.Token, error) {
	token, ok, err := p.Nth(0)
	if err != nil {
		return token, err
	}
	if !ok {
		return token, &Error{
			Span:     p.lexer.Span(),
			Kind:     ErrUnexpectedEOF,
			Expected: kind.String(),
		}
	}
	if token.Kind != kind {
		return token, &Error{
			Span:     token.Span,
			Kind:     ErrTokenMismatch,
			Expected: kind.String(),
			Actual:   token.Kind,
		}
	}
	p.buf = p.buf[1:]
	return token, nil
}

// expected builds the error for a token that does not start the expected form.
func (p *Parser) expected(what string) error {
	token, ok, err := p.Nth(0)
	if err != nil {
		return err
	}
	if !ok {
		return &Error{
			Span:     p.lexer.Span(),
			Kind:     ErrUnexpectedEOF,
			Expected: what,
		}
	}
	return &Error{
		Span:     token.Span,
		Kind:     ErrExpected,
		Expected: what,
		Actual:   token.Kind,
	}
}

func expr[T ast.Expr](node T, err error) (ast.Expr, error) {
	if err != nil {
		return nil, err
	}
	return node, nil
}

func item[T ast.Item](node T, err error) (ast.Item, error) {
	if err != nil {
		return nil, err
	}
	return node, nil
}

func punctuated[T ast.Node](p *Parser, close ast.Kind, parse func() (T, error)) (ret ast.Punctuated[T], err error) {
	for p.kind(0) != close {
		node, err := parse()
		if err != nil {
			return ret, err
		}
		ret.Items = append(ret.Items, node)
		if p.kind(0) != ast.Comma {
			break
		}
		comma, err := p.next()
		if err != nil {
			return ret, err
		}
		ret.Commas = append(ret.Commas, comma)
	}
	return ret, nil
}

func (p *Parser) tokenList(close ast.Kind, what string, accept func(ast.Kind) bool) (ret ast.TokenList, err error) {
	for p.kind(0) != close {
		if !accept(p.kind(0)) {
			return ret, p.expected(what)
		}
		token, err := p.next()
		if err != nil {
			return ret, err
		}
		ret.Items = append(ret.Items, token)
		if p.kind(0) != ast.Comma {
			break
		}
		comma, err := p.next()
		if err != nil {
			return ret, err
		}
		ret.Commas = append(ret.Commas, comma)
	}
	return ret, nil
}
