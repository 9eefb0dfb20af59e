package parser

import (
	"errors"
	"testing"

	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/lexer"
)

func parseExpr(t *testing.T, source string) ast.Expr {
	t.Helper()
	e, err := All(source, (*Parser).Expr)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	return e
}

func TestRoundTripExprs(t *testing.T) {
	for _, source := range []string{
		"()",
		"(1)",
		"(1,)",
		"(1, 2, 3)",
		"true",
		"'a'",
		"b'a'",
		`"foo\nbar"`,
		`b"bytes"`,
		"[1, 2, 3,]",
		`#{a: 1, "b": 2}`,
		"a::b::c",
		"::a",
		"crate::foo",
		"super::foo",
		"Self::new",
		"self",
		"a[1]",
		"a[1] = 2",
		"a.b.c = 2",
		"a += 1",
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"a && b || !c",
		"a is not b",
		"a << 2 >> 1",
		"!a",
		"&a",
		"*a",
		"0..10",
		"0..=10",
		"..10",
		"a..",
		"foo(1, 2)",
		"a.b(1)",
		"a.0",
		"10.checked_div(2)",
		"dbg!(1, [2, 3])",
		"{ let a = 1; a }",
		"if a { 1 } else if b { 2 } else { 3 }",
		"while a { a -= 1; }",
		"'outer: loop { break 'outer; }",
		"for x in 0..10 { continue; }",
		"loop { break 42 }",
		"`foo {bar} \\` baz`",
		"`a {`b {c}`} {#{x: 1}}`",
		"``",
		"`{a}{b}`",
	} {
		first := ast.Render(parseExpr(t, source), source)
		second := ast.Render(parseExpr(t, first), first)
		if first != second {
			t.Fatalf("round trip of %q: got %q, then %q", source, first, second)
		}
	}
}

func TestRoundTripFile(t *testing.T) {
	source := `
#[test]
pub fn main(a, _, b) {
	let x = foo::bar(a);
	x[0] = b;
	fn inner() { 1 }
	inner()
}

mod file;
mod inline {
	pub const C = 1 + 2;
	use super::main as entry;
}
use std::*;
struct Unit;
struct Tuple(a, b);
struct Named { a, b }
enum Option { Some(value), None, Point { x, y }, }
async fn run(self) { self.x }
`
	file, err := ParseFile(source)
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Items) != 9 {
		t.Fatalf("got %d items", len(file.Items))
	}
	first := ast.Render(file, source)
	file2, err := ParseFile(first)
	if err != nil {
		t.Fatalf("reparse %q: %v", first, err)
	}
	second := ast.Render(file2, first)
	if first != second {
		t.Fatalf("got %q, then %q", first, second)
	}
}

func TestRenderTemplate(t *testing.T) {
	source := "`foo {bar + 1} baz`"
	got := ast.Render(parseExpr(t, source), source)
	if got != "`foo {bar + 1} baz`" {
		t.Fatalf("got %q", got)
	}
}

func TestSpanCoverage(t *testing.T) {
	for _, c := range []struct {
		source string
		text   string
	}{
		{"  a[1]  ", "a[1]"},
		{"foo(1, 2) ", "foo(1, 2)"},
		{"(10.)", "(10.)"},
		{" 'a' ", "'a'"},
		{"a::b::", "a::b::"},
		{"::a", "::a"},
		{"x[1] = 2", "x[1] = 2"},
		{"`foo {bar}`", "`foo {bar}`"},
		{"#{a: 1}", "#{a: 1}"},
		{"..", ".."},
		{"a.b.c()", "a.b.c()"},
		{"!  x", "!  x"},
	} {
		node := parseExpr(t, c.source)
		text, ok := node.Span().Text(c.source)
		if !ok || text != c.text {
			t.Fatalf("span of %q: got %q", c.source, text)
		}
	}
}

func TestIndexSpanIncludesBracket(t *testing.T) {
	source := "a[b[1]]"
	node := parseExpr(t, source)
	index, ok := node.(*ast.ExprIndex)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if index.Span().End != len(source) {
		t.Fatalf("got %v", index.Span())
	}
	if text, _ := index.Index.Span().Text(source); text != "b[1]" {
		t.Fatalf("got %q", text)
	}
}

func TestLabeledWhileSpan(t *testing.T) {
	source := "'label: while x { }"
	w, err := All(source, (*Parser).ExprWhile)
	if err != nil {
		t.Fatal(err)
	}
	if w.Label == nil {
		t.Fatal("expected label")
	}
	if text, _ := w.Span().Text(source); text != "while x { }" {
		t.Fatalf("got %q", text)
	}
}

func TestRangeLimits(t *testing.T) {
	r, err := All("0..", (*Parser).ExprRange)
	if err != nil {
		t.Fatal(err)
	}
	if r.Limits.Closed() || r.To != nil {
		t.Fatalf("got %v", r)
	}
	r, err = All("0..=1", (*Parser).ExprRange)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Limits.Closed() || r.To == nil {
		t.Fatalf("got %v", r)
	}

	_, err = All("0", (*Parser).ExprRange)
	var parseErr *Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("got %v", err)
	}
	if parseErr.Kind != ErrUnexpectedEOF || parseErr.Expected != "range limits" {
		t.Fatalf("got %v", parseErr)
	}

	_, err = All("0 + 1", (*Parser).RangeLimits)
	if !errors.As(err, &parseErr) || parseErr.Kind != ErrExpected || parseErr.Expected != "range limits" {
		t.Fatalf("got %v", err)
	}
}

func TestUnaryOps(t *testing.T) {
	for source, op := range map[string]ast.UnaryOp{
		"!a": ast.UnaryNot,
		"&a": ast.UnaryBorrowRef,
		"*a": ast.UnaryDeref,
	} {
		u, err := All(source, (*Parser).ExprUnary)
		if err != nil {
			t.Fatal(err)
		}
		if u.Op != op {
			t.Fatalf("got %v", u.Op)
		}
	}

	_, err := All("-a", (*Parser).ExprUnary)
	var parseErr *Error
	if !errors.As(err, &parseErr) || parseErr.Expected != "unary operator" || parseErr.Actual != ast.Dash {
		t.Fatalf("got %v", err)
	}
}

func TestPeekLitUnit(t *testing.T) {
	if !PeekLitUnit(ast.OpenParen, ast.CloseParen) {
		t.Fatal()
	}
	if PeekLitUnit(ast.OpenParen, ast.Ident) {
		t.Fatal()
	}
	u, err := All("( )", (*Parser).LitUnit)
	if err != nil {
		t.Fatal(err)
	}
	if u.Span().Start != 0 || u.Span().End != 3 {
		t.Fatalf("got %v", u.Span())
	}
	if _, ok := parseExpr(t, "(a)").(*ast.ExprGroup); !ok {
		t.Fatal()
	}
}

func TestLitChar(t *testing.T) {
	c, err := All("'\\n'", (*Parser).LitChar)
	if err != nil {
		t.Fatal(err)
	}
	if c.Span().End != 4 {
		t.Fatalf("got %v", c.Span())
	}
}

func TestPathTryAsIdent(t *testing.T) {
	for source, expected := range map[string]bool{
		"a":     true,
		"::a":   false,
		"a::":   false,
		"a::b":  false,
		"crate": false,
		"self":  false,
		"Self":  false,
		"super": false,
	} {
		path, err := All(source, (*Parser).Path)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := path.TryAsIdent(); ok != expected {
			t.Fatalf("%s: got %v", source, ok)
		}
	}
}

func TestPrecedence(t *testing.T) {
	source := "a = b || c && d == e + f * g"
	assign, ok := parseExpr(t, source).(*ast.ExprAssign)
	if !ok {
		t.Fatal()
	}
	or := assign.Rhs.(*ast.ExprBinary)
	if or.Op != ast.BinOr {
		t.Fatalf("got %v", or.Op)
	}
	and := or.Rhs.(*ast.ExprBinary)
	if and.Op != ast.BinAnd {
		t.Fatalf("got %v", and.Op)
	}
	eq := and.Rhs.(*ast.ExprBinary)
	if eq.Op != ast.BinEq {
		t.Fatalf("got %v", eq.Op)
	}
	add := eq.Rhs.(*ast.ExprBinary)
	if add.Op != ast.BinAdd {
		t.Fatalf("got %v", add.Op)
	}
	if mul := add.Rhs.(*ast.ExprBinary); mul.Op != ast.BinMul {
		t.Fatalf("got %v", mul.Op)
	}

	// left associative
	sub := parseExpr(t, "a - b - c").(*ast.ExprBinary)
	if _, ok := sub.Lhs.(*ast.ExprBinary); !ok {
		t.Fatal("expected left associativity")
	}
	// assignment is right associative
	a := parseExpr(t, "a = b = c").(*ast.ExprAssign)
	if _, ok := a.Rhs.(*ast.ExprAssign); !ok {
		t.Fatal("expected right associativity")
	}
}

func TestIndexSet(t *testing.T) {
	node := parseExpr(t, "a[b] = c")
	set, ok := node.(*ast.ExprIndexSet)
	if !ok {
		t.Fatalf("got %T", node)
	}
	if text, _ := set.Index.Span().Text("a[b] = c"); text != "b" {
		t.Fatalf("got %q", text)
	}
}

func TestBlockTail(t *testing.T) {
	b, err := All("{ let a = 1; if a { 2 } else { 3 } }", (*Parser).Block)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Stmts) != 2 {
		t.Fatalf("got %d", len(b.Stmts))
	}
	if _, ok := b.Tail().(*ast.ExprIf); !ok {
		t.Fatalf("got %T", b.Tail())
	}

	b, err = All("{ while x { } 1; }", (*Parser).Block)
	if err != nil {
		t.Fatal(err)
	}
	if b.Tail() != nil || len(b.Stmts) != 2 {
		t.Fatalf("got %v", b.Stmts)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := ParseFile("fn main() { 1 2 }")
	var parseErr *Error
	if !errors.As(err, &parseErr) || parseErr.Expected != "`;`" {
		t.Fatalf("got %v", err)
	}

	_, err = ParseFile("fn main() {")
	if !errors.As(err, &parseErr) || parseErr.Kind != ErrUnexpectedEOF {
		t.Fatalf("got %v", err)
	}

	_, err = All("a b", (*Parser).Expr)
	if !errors.As(err, &parseErr) || parseErr.Kind != ErrExpectedEOF || parseErr.Actual != ast.Ident {
		t.Fatalf("got %v", err)
	}

	_, err = ParseFile(`fn main() { "unterminated }`)
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) || lexErr.Kind != lexer.ErrUnterminatedStr {
		t.Fatalf("got %v", err)
	}

	_, err = ParseFile("use a::b::;")
	if !errors.As(err, &parseErr) || parseErr.Kind != ErrTokenMismatch {
		t.Fatalf("got %v", err)
	}

	_, err = ParseFile("let x = 1;")
	if !errors.As(err, &parseErr) || parseErr.Expected != "item" {
		t.Fatalf("got %v", err)
	}
}
