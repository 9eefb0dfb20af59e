package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/spans"
)

// Lexer turns source text into spanned tokens.
//
// Templates are spliced into a sequence of tokens that reads like an argument
// list, so one call to Next may buffer several tokens.
type Lexer struct {
	source string
	pos    int
	modes  modes
	buffer []ast.Token
}

func New(source string) *Lexer {
	return &Lexer{
		source: source,
	}
}

// All lexes the whole source.
func All(source string) ([]ast.Token, error) {
	l := New(source)
	var ret []ast.Token
	for {
		token, ok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return ret, nil
		}
		ret = append(ret, token)
	}
}

// Span is the point span at the end of the source.
func (l *Lexer) Span() spans.Span {
	return spans.Point(len(l.source))
}

func (l *Lexer) peek() (rune, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
	return r, true
}

func (l *Lexer) peek2() (rune, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	_, size := utf8.DecodeRuneInString(l.source[l.pos:])
	if l.pos+size >= len(l.source) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.pos+size:])
	return r, true
}

func (l *Lexer) next() (rune, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	return r, true
}

func (l *Lexer) spanFrom(start int) spans.Span {
	return spans.New(start, l.pos)
}

func (l *Lexer) endSpan(start int) spans.Span {
	return spans.New(start, len(l.source))
}

func (l *Lexer) emit(kind ast.Kind, span spans.Span) {
	l.buffer = append(l.buffer, ast.Token{
		Kind: kind,
		Span: span,
	})
}

func (l *Lexer) emitStr(span spans.Span, escaped bool) {
	l.buffer = append(l.buffer, ast.Token{
		Kind: ast.KindStr,
		Span: span,
		Source: ast.LitSource{
			Escaped: escaped,
		},
	})
}

func isIdentChar(c rune) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_'
}

func isIdentStart(c rune) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c == '_'
}

func (l *Lexer) nextIdent(start int) ast.Token {
	for {
		c, ok := l.peek()
		if !ok || !isIdentChar(c) {
			break
		}
		l.next()
	}
	span := l.spanFrom(start)
	if kind, ok := ast.Keyword(l.source[span.Start:span.End]); ok {
		return ast.Token{Kind: kind, Span: span}
	}
	return ast.Token{Kind: ast.Ident, Span: span}
}

func (l *Lexer) nextNumber(c rune, start int) ast.Token {
	base := ast.Decimal
	if c == '0' {
		if m, ok := l.peek(); ok {
			switch m {
			case 'x':
				base = ast.Hex
			case 'b':
				base = ast.Binary
			case 'o':
				base = ast.Octal
			}
			if base != ast.Decimal {
				l.next()
			}
		}
	}

	fractional := false
loop:
	for {
		c, ok := l.peek()
		if !ok {
			break
		}
		switch {
		case unicode.IsLetter(c) || unicode.IsDigit(c):
			l.next()
		case c == '.' && !fractional:
			// `1..2` is a range and `1.foo()` a method call, the dot belongs to the next token
			if after, ok := l.peek2(); ok && (after == '.' || isIdentStart(after)) {
				break loop
			}
			l.next()
			fractional = true
			// a dot is only followed by more of the number if a digit comes next
			if c, ok := l.peek(); !ok || !unicode.IsDigit(c) {
				break loop
			}
		default:
			break loop
		}
	}

	return ast.Token{
		Kind: ast.KindNumber,
		Span: l.spanFrom(start),
		Source: ast.LitSource{
			Fractional: fractional,
			Base:       base,
		},
	}
}

func (l *Lexer) nextCharOrLabel(start int) (ast.Token, error) {
	isLabel := true
	count := 0

loop:
	for {
		c, ok := l.peek()
		if !ok {
			if isLabel {
				return ast.Token{}, &Error{
					Span: l.endSpan(start),
					Kind: ErrExpectedCharClose,
				}
			}
			return ast.Token{}, &Error{
				Span: l.endSpan(start),
				Kind: ErrUnterminatedChar,
			}
		}

		switch {
		case c == '\\':
			isLabel = false
			l.next()
			if _, ok := l.next(); !ok {
				return ast.Token{}, &Error{
					Span: l.endSpan(start),
					Kind: ErrExpectedEscape,
				}
			}
			count++
		case c == '\'':
			isLabel = false
			l.next()
			break loop
		case c >= '0' && c <= '9' || c >= 'a' && c <= 'z':
			l.next()
			count++
		case unicode.IsControl(c):
			return ast.Token{}, &Error{
				Span: l.spanFrom(start),
				Kind: ErrUnterminatedChar,
			}
		case isLabel && count > 0:
			break loop
		default:
			isLabel = false
			l.next()
			count++
		}
	}

	if isLabel {
		return ast.Token{Kind: ast.Label, Span: l.spanFrom(start)}, nil
	}
	return ast.Token{Kind: ast.KindChar, Span: l.spanFrom(start)}, nil
}

// nextByte lexes the rest of b'…' after the opening quote.
func (l *Lexer) nextByte(start int) (ast.Token, error) {
	for {
		c, ok := l.next()
		if !ok {
			return ast.Token{}, &Error{
				Span: l.spanFrom(start),
				Kind: ErrExpectedByteClose,
			}
		}
		switch {
		case c == '\\':
			if _, ok := l.next(); !ok {
				return ast.Token{}, &Error{
					Span: l.endSpan(start),
					Kind: ErrExpectedEscape,
				}
			}
		case c == '\'':
			return ast.Token{Kind: ast.KindByte, Span: l.spanFrom(start)}, nil
		case unicode.IsControl(c):
			return ast.Token{}, &Error{
				Span: l.spanFrom(start),
				Kind: ErrUnterminatedByte,
			}
		}
	}
}

// nextStr lexes the rest of a quoted string after the opening quote.
func (l *Lexer) nextStr(start int, kind ast.Kind, unterminated ErrorKind) (ast.Token, error) {
	escaped := false
	for {
		c, ok := l.next()
		if !ok {
			return ast.Token{}, &Error{
				Span: l.spanFrom(start),
				Kind: unterminated,
			}
		}
		switch {
		case c == '"':
			return ast.Token{
				Kind: kind,
				Span: l.spanFrom(start),
				Source: ast.LitSource{
					Escaped: escaped,
					Wrapped: true,
				},
			}, nil
		case c == '\\':
			if _, ok := l.next(); !ok {
				return ast.Token{}, &Error{
					Span: l.endSpan(start),
					Kind: ErrExpectedEscape,
				}
			}
			escaped = true
		case kind == ast.KindByteStr && unicode.IsControl(c):
			return ast.Token{}, &Error{
				Span: l.spanFrom(start),
				Kind: unterminated,
			}
		}
	}
}

func (l *Lexer) consumeLine() {
	for {
		c, ok := l.next()
		if !ok || c == '\n' {
			return
		}
	}
}

// templateNext scans one literal segment of a template and buffers the tokens
// it produces, up to the next hole or the closing back-tick.
func (l *Lexer) templateNext() error {
	start := l.pos
	escaped := false

	// pushSegment buffers a literal segment, preceded by a comma if expressions came before it.
	pushSegment := func(expressions *int, span spans.Span) {
		if *expressions > 0 {
			l.emit(ast.Comma, span)
		}
		l.emitStr(span, escaped)
		escaped = false
		*expressions++
	}

	for {
		c, ok := l.peek()
		if !ok {
			break
		}

		switch c {
		case '{':
			expressions, err := l.modes.expressionCount(l.spanFrom(start))
			if err != nil {
				return err
			}
			span := l.spanFrom(start)
			hadString := start != l.pos
			braceStart := l.pos
			l.next()
			if hadString {
				pushSegment(expressions, span)
			}
			if *expressions > 0 {
				l.emit(ast.Comma, l.spanFrom(braceStart))
			}
			l.modes.push(defaultMode(1))
			return nil

		case '}':
			braceStart := l.pos
			l.next()
			return &Error{
				Span: l.spanFrom(braceStart),
				Kind: ErrUnexpectedCloseBrace,
			}

		case '\\':
			l.next()
			if _, ok := l.next(); !ok {
				return &Error{
					Span: l.endSpan(start),
					Kind: ErrExpectedEscape,
				}
			}
			escaped = true

		case '`':
			span := l.spanFrom(start)
			hadString := start != l.pos
			tickStart := l.pos
			l.next()
			expressions, err := l.modes.expressionCount(l.spanFrom(tickStart))
			if err != nil {
				return err
			}
			if hadString {
				pushSegment(expressions, span)
			}
			l.emit(ast.CloseBrace, l.spanFrom(tickStart))
			return l.modes.pop(l.pos, templateMode(*expressions))

		default:
			l.next()
		}
	}

	return &Error{
		Span: spans.Point(l.pos),
		Kind: ErrUnexpectedEOF,
	}
}

func found(token ast.Token, err error) (ast.Token, bool, error) {
	if err != nil {
		return ast.Token{}, false, err
	}
	return token, true, nil
}

// Next returns the next token. ok is false at the end of input.
func (l *Lexer) Next() (token ast.Token, ok bool, err error) {
outer:
	for {
		if len(l.buffer) > 0 {
			token = l.buffer[0]
			l.buffer = l.buffer[1:]
			return token, true, nil
		}

		current := l.modes.last()
		if current.kind == modeTemplate {
			if err := l.templateNext(); err != nil {
				return token, false, err
			}
			continue
		}
		level := current.n

		start := l.pos
		c, ok := l.next()
		if !ok {
			if err := l.modes.pop(l.pos, defaultMode(0)); err != nil {
				return token, false, err
			}
			return token, false, nil
		}

		if unicode.IsSpace(c) {
			continue
		}

		kind := ast.KindInvalid
		if c2, ok := l.peek(); ok {
			switch c {
			case '/':
				if c2 == '/' {
					l.consumeLine()
					continue outer
				}
			case '<', '>':
				if c2 == c {
					l.next()
					kind = ast.LtLt
					if c == '>' {
						kind = ast.GtGt
					}
					if c3, ok := l.peek(); ok && c3 == '=' {
						l.next()
						kind = shiftAssign[kind]
					}
				}
			case '.':
				if c2 == '.' {
					l.next()
					if c3, ok := l.peek(); ok && c3 == '=' {
						l.next()
						kind = ast.DotDotEq
					} else {
						kind = ast.DotDot
					}
				}
			case 'b':
				switch c2 {
				case '\'':
					l.next()
					return found(l.nextByte(start))
				case '"':
					l.next()
					return found(l.nextStr(start, ast.KindByteStr, ErrUnterminatedByteStr))
				}
			}
			if kind == ast.KindInvalid {
				if merged, ok := merges[[2]rune{c, c2}]; ok {
					l.next()
					kind = merged
				}
			}
		}

		if kind == ast.KindInvalid {
			switch c {
			case '{':
				if level > 0 {
					l.modes.push(defaultMode(level + 1))
				}
				kind = ast.OpenBrace

			case '}':
				if level > 0 {
					if err := l.modes.pop(l.pos, defaultMode(level)); err != nil {
						return token, false, err
					}
					// end of an expression in a template
					if level == 1 {
						expressions, err := l.modes.expressionCount(l.spanFrom(start))
						if err != nil {
							return token, false, err
						}
						*expressions++
						continue outer
					}
				}
				kind = ast.CloseBrace

			case '_':
				if c2, ok := l.peek(); ok && isIdentChar(c2) {
					return l.nextIdent(start), true, nil
				}
				kind = ast.Underscore

			case '"':
				return found(l.nextStr(start, ast.KindStr, ErrUnterminatedStr))

			case '`':
				span := l.spanFrom(start)
				l.emit(ast.Template, span)
				l.emit(ast.OpenBrace, span)
				l.modes.push(templateMode(0))
				continue outer

			case '\'':
				return found(l.nextCharOrLabel(start))

			default:
				switch {
				case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
					return l.nextIdent(start), true, nil
				case c >= '0' && c <= '9':
					return l.nextNumber(c, start), true, nil
				}
				single, ok := singles[c]
				if !ok {
					_, size := utf8.DecodeRuneInString(l.source[start:])
					return token, false, &Error{
						Span: spans.New(start, start+size),
						Kind: ErrUnexpectedChar,
						Char: c,
					}
				}
				kind = single
			}
		}

		return ast.Token{
			Kind: kind,
			Span: l.spanFrom(start),
		}, true, nil
	}
}

var merges = map[[2]rune]ast.Kind{
	{'+', '='}: ast.PlusEq,
	{'-', '='}: ast.DashEq,
	{'*', '='}: ast.StarEq,
	{'/', '='}: ast.SlashEq,
	{'%', '='}: ast.PercEq,
	{'&', '='}: ast.AmpEq,
	{'^', '='}: ast.CaretEq,
	{'|', '='}: ast.PipeEq,
	{':', ':'}: ast.ColonColon,
	{'<', '='}: ast.LtEq,
	{'>', '='}: ast.GtEq,
	{'=', '='}: ast.EqEq,
	{'!', '='}: ast.BangEq,
	{'&', '&'}: ast.AmpAmp,
	{'|', '|'}: ast.PipePipe,
	{'=', '>'}: ast.Rocket,
	{'-', '>'}: ast.Arrow,
}

var shiftAssign = map[ast.Kind]ast.Kind{
	ast.LtLt: ast.LtLtEq,
	ast.GtGt: ast.GtGtEq,
}

var singles = map[rune]ast.Kind{
	'(': ast.OpenParen,
	')': ast.CloseParen,
	'[': ast.OpenBracket,
	']': ast.CloseBracket,
	',': ast.Comma,
	':': ast.Colon,
	'#': ast.Pound,
	'.': ast.Dot,
	';': ast.SemiColon,
	'=': ast.Eq,
	'+': ast.Plus,
	'-': ast.Dash,
	'/': ast.Div,
	'*': ast.Star,
	'&': ast.Amp,
	'>': ast.Gt,
	'<': ast.Lt,
	'!': ast.Bang,
	'?': ast.QuestionMark,
	'|': ast.Pipe,
	'%': ast.Perc,
	'^': ast.Caret,
	'@': ast.At,
	'$': ast.Dollar,
	'~': ast.Tilde,
}
