package ast

import "fmt"

// Kind is the tag of a token.
type Kind uint8

const (
	KindInvalid Kind = iota

	// delimiters
	OpenParen
	CloseParen
	OpenBrace
	CloseBrace
	OpenBracket
	CloseBracket

	// punctuation and operators
	Underscore
	Comma
	Colon
	ColonColon
	Pound
	Dot
	DotDot
	DotDotEq
	SemiColon
	Eq
	EqEq
	Plus
	PlusEq
	Dash
	DashEq
	Div
	SlashEq
	Star
	StarEq
	Perc
	PercEq
	Amp
	AmpAmp
	AmpEq
	Caret
	CaretEq
	Pipe
	PipePipe
	PipeEq
	Gt
	GtEq
	GtGt
	GtGtEq
	Lt
	LtEq
	LtLt
	LtLtEq
	Bang
	BangEq
	QuestionMark
	At
	Dollar
	Tilde
	Arrow
	Rocket
	Template

	// keywords
	As
	Async
	Await
	Break
	Const
	Continue
	Crate
	Else
	Enum
	False
	Fn
	For
	If
	Impl
	In
	Is
	Let
	Loop
	Match
	Mod
	Not
	Pub
	Return
	Self
	SelfType
	Struct
	Super
	True
	Use
	While
	Yield

	// literals, values are resolved from the token source
	Ident
	Label
	KindNumber
	KindChar
	KindByte
	KindStr
	KindByteStr

	numKinds
)

var kindTexts = [numKinds]string{
	OpenParen:    "(",
	CloseParen:   ")",
	OpenBrace:    "{",
	CloseBrace:   "}",
	OpenBracket:  "[",
	CloseBracket: "]",
	Underscore:   "_",
	Comma:        ",",
	Colon:        ":",
	ColonColon:   "::",
	Pound:        "#",
	Dot:          ".",
	DotDot:       "..",
	DotDotEq:     "..=",
	SemiColon:    ";",
	Eq:           "=",
	EqEq:         "==",
	Plus:         "+",
	PlusEq:       "+=",
	Dash:         "-",
	DashEq:       "-=",
	Div:          "/",
	SlashEq:      "/=",
	Star:         "*",
	StarEq:       "*=",
	Perc:         "%",
	PercEq:       "%=",
	Amp:          "&",
	AmpAmp:       "&&",
	AmpEq:        "&=",
	Caret:        "^",
	CaretEq:      "^=",
	Pipe:         "|",
	PipePipe:     "||",
	PipeEq:       "|=",
	Gt:           ">",
	GtEq:         ">=",
	GtGt:         ">>",
	GtGtEq:       ">>=",
	Lt:           "<",
	LtEq:         "<=",
	LtLt:         "<<",
	LtLtEq:       "<<=",
	Bang:         "!",
	BangEq:       "!=",
	QuestionMark: "?",
	At:           "@",
	Dollar:       "$",
	Tilde:        "~",
	Arrow:        "->",
	Rocket:       "=>",
	Template:     "`",
	As:           "as",
	Async:        "async",
	Await:        "await",
	Break:        "break",
	Const:        "const",
	Continue:     "continue",
	Crate:        "crate",
	Else:         "else",
	Enum:         "enum",
	False:        "false",
	Fn:           "fn",
	For:          "for",
	If:           "if",
	Impl:         "impl",
	In:           "in",
	Is:           "is",
	Let:          "let",
	Loop:         "loop",
	Match:        "match",
	Mod:          "mod",
	Not:          "not",
	Pub:          "pub",
	Return:       "return",
	Self:         "self",
	SelfType:     "Self",
	Struct:       "struct",
	Super:        "super",
	True:         "true",
	Use:          "use",
	While:        "while",
	Yield:        "yield",
}

var kindNames = [numKinds]string{
	KindInvalid: "invalid",
	Ident:       "identifier",
	Label:       "label",
	KindNumber:  "number literal",
	KindChar:    "char literal",
	KindByte:    "byte literal",
	KindStr:     "string literal",
	KindByteStr: "byte string literal",
}

var keywords = func() map[string]Kind {
	ret := make(map[string]Kind)
	for kind := As; kind <= Yield; kind++ {
		ret[kindTexts[kind]] = kind
	}
	return ret
}()

// Keyword looks up the keyword kind of an identifier.
func Keyword(ident string) (Kind, bool) {
	kind, ok := keywords[ident]
	return kind, ok
}

// Text is the fixed source text of the kind. It is empty for literals.
func (k Kind) Text() string {
	if k >= numKinds {
		return ""
	}
	return kindTexts[k]
}

func (k Kind) IsKeyword() bool {
	return k >= As && k <= Yield
}

func (k Kind) IsLiteral() bool {
	return k >= Ident && k < numKinds
}

func (k Kind) String() string {
	if k >= numKinds {
		return fmt.Sprintf("Kind(%d)", k)
	}
	if name := kindNames[k]; name != "" {
		return name
	}
	return "`" + kindTexts[k] + "`"
}
