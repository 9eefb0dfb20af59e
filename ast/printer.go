package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Render writes the token stream of a node back to source text.
// Tokens are separated by single spaces, templates are re-assembled.
func Render(node Node, source string) string {
	p := &printer{
		source: source,
	}
	p.Node(node)
	return p.buf.String()
}

type printer struct {
	source string
	buf    strings.Builder
	space  bool
}

var _ Writer = new(printer)

func (p *printer) write(text string) {
	if p.space {
		p.buf.WriteByte(' ')
	}
	p.buf.WriteString(text)
	p.space = true
}

func (p *printer) Token(token Token) {
	p.write(TokenText(token, p.source))
}

func (p *printer) Node(node Node) {
	if template, ok := node.(*LitTemplate); ok {
		p.template(template)
		return
	}
	node.Tokens(p)
}

func (p *printer) template(template *LitTemplate) {
	p.write("`")
	p.space = false
	for _, arg := range template.Args.Items {
		if IsTemplateSegment(arg) {
			p.buf.WriteString(TokenText(arg.(*LitStr).Token, p.source))
			continue
		}
		p.buf.WriteByte('{')
		p.Node(arg)
		p.buf.WriteByte('}')
		p.space = false
	}
	p.buf.WriteByte('`')
	p.space = true
}

// TokenText returns the source text of a token.
func TokenText(token Token, source string) string {
	if text := token.Kind.Text(); text != "" {
		return text
	}
	if !token.Source.IsText() {
		return inlineText(token)
	}
	text, ok := token.Span.Text(source)
	if !ok {
		return "<" + token.Kind.String() + ">"
	}
	return text
}

func inlineText(token Token) string {
	value := token.Source.Inline
	switch token.Kind {
	case KindStr:
		s := fmt.Sprint(value)
		if !token.Source.Wrapped {
			return s
		}
		return strconv.Quote(s)
	case KindByteStr:
		return "b" + strconv.Quote(fmt.Sprintf("%s", value))
	case KindChar:
		if r, ok := value.(rune); ok {
			return strconv.QuoteRune(r)
		}
	case KindByte:
		if b, ok := value.(byte); ok {
			return fmt.Sprintf("b'\\x%02x'", b)
		}
	case Label:
		return "'" + fmt.Sprint(value)
	}
	return fmt.Sprint(value)
}
