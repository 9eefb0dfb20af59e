package parser

import "github.com/udoprog/st/ast"

// PeekLitUnit reports whether the next two tokens are `(` `)`.
func PeekLitUnit(t1, t2 ast.Kind) bool {
	return t1 == ast.OpenParen && t2 == ast.CloseParen
}

func PeekPath(t1, t2 ast.Kind) bool {
	return t1 == ast.ColonColon || PeekPathSegment(t1, t2)
}

func PeekPathSegment(t1, _ ast.Kind) bool {
	return ast.IsPathSegment(t1)
}

// PeekLabel reports a loop label `'name:`.
func PeekLabel(t1, t2 ast.Kind) bool {
	return t1 == ast.Label && t2 == ast.Colon
}

func PeekRangeLimits(t1, _ ast.Kind) bool {
	return t1 == ast.DotDot || t1 == ast.DotDotEq
}

func PeekItem(t1, t2 ast.Kind) bool {
	switch t1 {
	case ast.Fn, ast.Async, ast.Mod, ast.Use, ast.Const, ast.Struct, ast.Enum, ast.Pub:
		return true
	case ast.Pound:
		return t2 == ast.OpenBracket
	}
	return false
}

// peekBlockLike reports expressions that end with a block and stand alone as statements.
func peekBlockLike(t1, t2 ast.Kind) bool {
	switch t1 {
	case ast.OpenBrace, ast.If, ast.While, ast.Loop, ast.For:
		return true
	}
	return PeekLabel(t1, t2)
}

// peekExpr reports tokens that can start an expression.
func peekExpr(t1, t2 ast.Kind) bool {
	switch t1 {
	case ast.KindNumber, ast.KindChar, ast.KindByte, ast.KindStr, ast.KindByteStr,
		ast.True, ast.False, ast.Template,
		ast.OpenParen, ast.OpenBracket, ast.OpenBrace, ast.Pound,
		ast.If, ast.While, ast.Loop, ast.For, ast.Label,
		ast.Break, ast.Continue, ast.Return, ast.Let,
		ast.Bang, ast.Amp, ast.Star, ast.DotDot, ast.DotDotEq:
		return true
	}
	return PeekPath(t1, t2)
}

func (p *Parser) peek(fn func(t1, t2 ast.Kind) bool) bool {
	return fn(p.kind(0), p.kind(1))
}
