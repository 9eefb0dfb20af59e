package ast

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/udoprog/st/spans"
)

// Storage memoizes literal values resolved from source text, keyed by span.
// One storage serves one source.
type Storage struct {
	values map[spans.Span]any
}

func NewStorage() *Storage {
	return &Storage{
		values: make(map[spans.Span]any),
	}
}

type ResolveErrorKind uint8

const (
	ErrBadSlice ResolveErrorKind = iota + 1
	ErrBadTokenKind
	ErrBadCharLiteral
	ErrBadByteLiteral
	ErrBadEscape
	ErrBadNumberLiteral
	ErrBadUnicodeEscape
)

func (k ResolveErrorKind) String() string {
	switch k {
	case ErrBadSlice:
		return "span out of source range"
	case ErrBadTokenKind:
		return "unexpected token kind"
	case ErrBadCharLiteral:
		return "bad character literal"
	case ErrBadByteLiteral:
		return "bad byte literal"
	case ErrBadEscape:
		return "bad escape sequence"
	case ErrBadNumberLiteral:
		return "bad number literal"
	case ErrBadUnicodeEscape:
		return "bad unicode escape"
	}
	return fmt.Sprintf("ResolveErrorKind(%d)", k)
}

type ResolveError struct {
	Span spans.Span
	Kind ResolveErrorKind
}

var _ error = new(ResolveError)

func (e *ResolveError) ErrorSpan() spans.Span {
	return e.Span
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%v at %v", e.Kind, e.Span)
}

func resolve[T any](
	storage *Storage,
	source string,
	token Token,
	fn func(text string) (T, error),
	kinds ...Kind,
) (ret T, err error) {
	match := false
	for _, kind := range kinds {
		if token.Kind == kind {
			match = true
			break
		}
	}
	if !match {
		return ret, &ResolveError{
			Span: token.Span,
			Kind: ErrBadTokenKind,
		}
	}

	if !token.Source.IsText() {
		value, ok := token.Source.Inline.(T)
		if !ok {
			return ret, &ResolveError{
				Span: token.Span,
				Kind: ErrBadTokenKind,
			}
		}
		return value, nil
	}

	if storage != nil {
		if v, ok := storage.values[token.Span]; ok {
			if value, ok := v.(T); ok {
				return value, nil
			}
		}
	}

	text, ok := token.Span.Text(source)
	if !ok {
		return ret, &ResolveError{
			Span: token.Span,
			Kind: ErrBadSlice,
		}
	}
	ret, err = fn(text)
	if err != nil {
		return ret, err
	}
	if storage != nil {
		storage.values[token.Span] = ret
	}
	return ret, nil
}

func ResolveIdent(storage *Storage, source string, token Token) (string, error) {
	return resolve(storage, source, token, func(text string) (string, error) {
		return text, nil
	}, Ident)
}

// ResolveLabel returns the label name without the leading quote.
func ResolveLabel(storage *Storage, source string, token Token) (string, error) {
	return resolve(storage, source, token, func(text string) (string, error) {
		return strings.TrimPrefix(text, "'"), nil
	}, Label)
}

// Number is a resolved number literal.
type Number struct {
	IsFloat bool
	Int     int64
	Float   float64
}

func (n Number) String() string {
	if n.IsFloat {
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	}
	return strconv.FormatInt(n.Int, 10)
}

func ResolveNumber(storage *Storage, source string, token Token) (Number, error) {
	return resolve(storage, source, token, func(text string) (Number, error) {
		bad := &ResolveError{
			Span: token.Span,
			Kind: ErrBadNumberLiteral,
		}
		if token.Source.Fractional {
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return Number{}, bad
			}
			return Number{
				IsFloat: true,
				Float:   f,
			}, nil
		}
		base := token.Source.Base
		if base != Decimal {
			// 0x, 0b, 0o
			text = text[2:]
		}
		i, err := strconv.ParseInt(text, base.Radix(), 64)
		if err != nil {
			return Number{}, bad
		}
		return Number{
			Int: i,
		}, nil
	}, KindNumber)
}

func ResolveChar(storage *Storage, source string, token Token) (rune, error) {
	return resolve(storage, source, token, func(text string) (rune, error) {
		bad := &ResolveError{
			Span: token.Span,
			Kind: ErrBadCharLiteral,
		}
		if len(text) < 3 || text[0] != '\'' || text[len(text)-1] != '\'' {
			return 0, bad
		}
		inner := text[1 : len(text)-1]
		if inner[0] == '\\' {
			str, err := unescape(inner, token.Span.Start+1, false)
			if err != nil {
				return 0, err
			}
			inner = str
		}
		r, size := utf8.DecodeRuneInString(inner)
		if r == utf8.RuneError || size != len(inner) {
			return 0, bad
		}
		return r, nil
	}, KindChar)
}

func ResolveByte(storage *Storage, source string, token Token) (byte, error) {
	return resolve(storage, source, token, func(text string) (byte, error) {
		bad := &ResolveError{
			Span: token.Span,
			Kind: ErrBadByteLiteral,
		}
		if len(text) < 4 || !strings.HasPrefix(text, "b'") || text[len(text)-1] != '\'' {
			return 0, bad
		}
		inner := text[2 : len(text)-1]
		if inner[0] == '\\' {
			str, err := unescape(inner, token.Span.Start+2, true)
			if err != nil {
				return 0, err
			}
			inner = str
		} else if inner[0] >= utf8.RuneSelf {
			return 0, bad
		}
		if len(inner) != 1 {
			return 0, bad
		}
		return inner[0], nil
	}, KindByte)
}

func ResolveStr(storage *Storage, source string, token Token) (string, error) {
	return resolve(storage, source, token, func(text string) (string, error) {
		start := token.Span.Start
		if token.Source.Wrapped {
			if len(text) < 2 {
				return "", &ResolveError{
					Span: token.Span,
					Kind: ErrBadSlice,
				}
			}
			text = text[1 : len(text)-1]
			start++
		}
		if !token.Source.Escaped {
			return text, nil
		}
		return unescape(text, start, false)
	}, KindStr)
}

func ResolveByteStr(storage *Storage, source string, token Token) ([]byte, error) {
	return resolve(storage, source, token, func(text string) ([]byte, error) {
		if len(text) < 3 || !strings.HasPrefix(text, `b"`) {
			return nil, &ResolveError{
				Span: token.Span,
				Kind: ErrBadSlice,
			}
		}
		text = text[2 : len(text)-1]
		if !token.Source.Escaped {
			return []byte(text), nil
		}
		str, err := unescape(text, token.Span.Start+2, true)
		if err != nil {
			return nil, err
		}
		return []byte(str), nil
	}, KindByteStr)
}

// unescape processes escape sequences. offset is the source position of text.
// In byte mode `\x` may produce any byte and `\u` is rejected.
func unescape(text string, offset int, bytes bool) (string, error) {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		c := text[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		start := i
		i++
		bad := func(kind ResolveErrorKind) error {
			return &ResolveError{
				Span: spans.New(offset+start, offset+min(i, len(text))),
				Kind: kind,
			}
		}
		if i >= len(text) {
			return "", bad(ErrBadEscape)
		}
		c = text[i]
		i++
		switch c {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"', '`', '{', '}':
			b.WriteByte(c)
		case 'x':
			if i+2 > len(text) {
				return "", bad(ErrBadEscape)
			}
			v, err := strconv.ParseUint(text[i:i+2], 16, 8)
			i += 2
			if err != nil || (!bytes && v >= utf8.RuneSelf) {
				return "", bad(ErrBadEscape)
			}
			b.WriteByte(byte(v))
		case 'u':
			if bytes {
				return "", bad(ErrBadEscape)
			}
			if i >= len(text) || text[i] != '{' {
				return "", bad(ErrBadUnicodeEscape)
			}
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				i = len(text)
				return "", bad(ErrBadUnicodeEscape)
			}
			digits := text[i+1 : i+end]
			i += end + 1
			if digits == "" || len(digits) > 6 {
				return "", bad(ErrBadUnicodeEscape)
			}
			v, err := strconv.ParseUint(digits, 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return "", bad(ErrBadUnicodeEscape)
			}
			b.WriteRune(rune(v))
		default:
			return "", bad(ErrBadEscape)
		}
	}
	return b.String(), nil
}
