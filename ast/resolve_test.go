package ast_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/lexer"
)

func lexOne(t *testing.T, source string) ast.Token {
	t.Helper()
	tokens, err := lexer.All(source)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 1 {
		t.Fatalf("got %v", tokens)
	}
	return tokens[0]
}

func TestResolveStr(t *testing.T) {
	for source, expected := range map[string]string{
		`"foo"`:           "foo",
		`"a\nb"`:          "a\nb",
		`"\"quoted\""`:    `"quoted"`,
		`"\x41\u{1F600}"`: "A\U0001F600",
		`"\{\}\0"`:        "{}\x00",
	} {
		str, err := ast.ResolveStr(ast.NewStorage(), source, lexOne(t, source))
		if err != nil {
			t.Fatal(err)
		}
		if str != expected {
			t.Fatalf("got %q, expected %q", str, expected)
		}
	}
}

func TestResolveStrMemoized(t *testing.T) {
	storage := ast.NewStorage()
	source := `"a\tb"`
	token := lexOne(t, source)
	first, err := ast.ResolveStr(storage, source, token)
	if err != nil {
		t.Fatal(err)
	}
	// resolving again must not look at the source
	second, err := ast.ResolveStr(storage, "", token)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("got %q", second)
	}
}

func TestResolveInline(t *testing.T) {
	token := ast.Token{
		Kind: ast.KindStr,
		Source: ast.LitSource{
			Inline: "synthesized",
		},
	}
	str, err := ast.ResolveStr(nil, "", token)
	if err != nil {
		t.Fatal(err)
	}
	if str != "synthesized" {
		t.Fatalf("got %q", str)
	}
}

func TestResolveBadEscape(t *testing.T) {
	for _, source := range []string{
		`"\q"`,
		`"\xZZ"`,
		`"\xff"`,
		`"\u{}"`,
		`"\u{110000}"`,
	} {
		_, err := ast.ResolveStr(nil, source, lexOne(t, source))
		var resolveErr *ast.ResolveError
		if !errors.As(err, &resolveErr) {
			t.Fatalf("%s: got %v", source, err)
		}
		if resolveErr.Kind != ast.ErrBadEscape && resolveErr.Kind != ast.ErrBadUnicodeEscape {
			t.Fatalf("%s: got %v", source, resolveErr.Kind)
		}
		if resolveErr.Span.Start != 1 {
			t.Fatalf("%s: got %v", source, resolveErr.Span)
		}
	}
}

func TestResolveNumber(t *testing.T) {
	for source, expected := range map[string]ast.Number{
		"42":    {Int: 42},
		"0xff":  {Int: 255},
		"0b101": {Int: 5},
		"0o17":  {Int: 15},
		"1.5":   {IsFloat: true, Float: 1.5},
	} {
		n, err := ast.ResolveNumber(nil, source, lexOne(t, source))
		if err != nil {
			t.Fatal(err)
		}
		if n != expected {
			t.Fatalf("%s: got %v", source, n)
		}
	}

	tokens, err := lexer.All("(10.)")
	if err != nil {
		t.Fatal(err)
	}
	n, err := ast.ResolveNumber(nil, "(10.)", tokens[1])
	if err != nil {
		t.Fatal(err)
	}
	if !n.IsFloat || n.Float != 10 {
		t.Fatalf("got %v", n)
	}

	_, err = ast.ResolveNumber(nil, "10abc", lexOne(t, "10abc"))
	var resolveErr *ast.ResolveError
	if !errors.As(err, &resolveErr) || resolveErr.Kind != ast.ErrBadNumberLiteral {
		t.Fatalf("got %v", err)
	}
}

func TestResolveChar(t *testing.T) {
	for source, expected := range map[string]rune{
		"'a'":         'a',
		"'\\n'":       '\n',
		"'\\''":       '\'',
		"'\\u{abcd}'": '\uabcd',
		"'ä'":         'ä',
	} {
		r, err := ast.ResolveChar(nil, source, lexOne(t, source))
		if err != nil {
			t.Fatal(err)
		}
		if r != expected {
			t.Fatalf("%s: got %q", source, r)
		}
	}

	_, err := ast.ResolveChar(nil, "'ab'", lexOne(t, "'ab'"))
	var resolveErr *ast.ResolveError
	if !errors.As(err, &resolveErr) || resolveErr.Kind != ast.ErrBadCharLiteral {
		t.Fatalf("got %v", err)
	}
}

func TestResolveByte(t *testing.T) {
	for source, expected := range map[string]byte{
		"b'a'":     'a',
		"b'\\xff'": 0xff,
		"b'\\''":   '\'',
	} {
		b, err := ast.ResolveByte(nil, source, lexOne(t, source))
		if err != nil {
			t.Fatal(err)
		}
		if b != expected {
			t.Fatalf("%s: got %v", source, b)
		}
	}
	_, err := ast.ResolveByte(nil, "b'ä'", lexOne(t, "b'ä'"))
	var resolveErr *ast.ResolveError
	if !errors.As(err, &resolveErr) || resolveErr.Kind != ast.ErrBadByteLiteral {
		t.Fatalf("got %v", err)
	}
}

func TestResolveByteStr(t *testing.T) {
	source := `b"a\xffb"`
	bs, err := ast.ResolveByteStr(nil, source, lexOne(t, source))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(bs, []byte{'a', 0xff, 'b'}) {
		t.Fatalf("got %v", bs)
	}
}

func TestResolveWrongKind(t *testing.T) {
	_, err := ast.ResolveStr(nil, "foo", lexOne(t, "foo"))
	var resolveErr *ast.ResolveError
	if !errors.As(err, &resolveErr) || resolveErr.Kind != ast.ErrBadTokenKind {
		t.Fatalf("got %v", err)
	}
}

func TestResolveIdentAndLabel(t *testing.T) {
	name, err := ast.ResolveIdent(nil, "foo_bar", lexOne(t, "foo_bar"))
	if err != nil {
		t.Fatal(err)
	}
	if name != "foo_bar" {
		t.Fatalf("got %q", name)
	}
	tokens, err := lexer.All("'outer: loop")
	if err != nil {
		t.Fatal(err)
	}
	label, err := ast.ResolveLabel(nil, "'outer: loop", tokens[0])
	if err != nil {
		t.Fatal(err)
	}
	if label != "outer" {
		t.Fatalf("got %q", label)
	}
}
