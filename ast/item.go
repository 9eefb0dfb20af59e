package ast

import "github.com/udoprog/st/spans"

// Attribute is `#[path]` or `#[path(input)]`. Input holds the raw tokens after the path.
type Attribute struct {
	Pound Token
	Open  Token
	Path  Path
	Input []Token
	Close Token
}

func (a *Attribute) Span() spans.Span {
	return a.Pound.Span.Join(a.Close.Span)
}

func (a *Attribute) Tokens(w Writer) {
	w.Token(a.Pound)
	w.Token(a.Open)
	a.Path.Tokens(w)
	for _, token := range a.Input {
		w.Token(token)
	}
	w.Token(a.Close)
}

// ItemHead is shared by all items: attributes and visibility.
type ItemHead struct {
	Attributes []Attribute
	Pub        *Token
}

func (h *ItemHead) Attrs() []Attribute {
	return h.Attributes
}

func (h *ItemHead) span(span spans.Span) spans.Span {
	if len(h.Attributes) > 0 {
		span = span.Join(h.Attributes[0].Span())
	}
	return joinOpt(span, h.Pub)
}

func (h *ItemHead) tokens(w Writer) {
	for i := range h.Attributes {
		h.Attributes[i].Tokens(w)
	}
	optToken(w, h.Pub)
}

// ItemFn is `fn name(args) { }`. Args are identifiers, `_` or `self`.
type ItemFn struct {
	ItemHead
	Async *Token
	Fn    Token
	Name  Token
	Open  Token
	Args  TokenList
	Close Token
	Body  Block
}

func (i *ItemFn) Span() spans.Span {
	return i.span(joinOpt(i.Fn.Span, i.Async).Join(i.Body.Span()))
}

func (i *ItemFn) Tokens(w Writer) {
	i.tokens(w)
	optToken(w, i.Async)
	w.Token(i.Fn)
	w.Token(i.Name)
	w.Token(i.Open)
	i.Args.tokens(w)
	w.Token(i.Close)
	i.Body.Tokens(w)
}

// IsInstance reports whether the first argument is `self`.
func (i *ItemFn) IsInstance() bool {
	return len(i.Args.Items) > 0 && i.Args.Items[0].Kind == Self
}

// ModBody is the inline body of `mod name { }`.
type ModBody struct {
	Open  Token
	Items []Item
	Close Token
}

// ItemMod is `mod name;` backed by a file, or `mod name { }` inline.
type ItemMod struct {
	ItemHead
	Mod  Token
	Name Token
	Semi *Token
	Body *ModBody
}

func (i *ItemMod) Span() spans.Span {
	span := i.Mod.Span.Join(i.Name.Span)
	span = joinOpt(span, i.Semi)
	if i.Body != nil {
		span = span.Join(i.Body.Close.Span)
	}
	return i.span(span)
}

func (i *ItemMod) Tokens(w Writer) {
	i.tokens(w)
	w.Token(i.Mod)
	w.Token(i.Name)
	optToken(w, i.Semi)
	if i.Body != nil {
		w.Token(i.Body.Open)
		for _, item := range i.Body.Items {
			w.Node(item)
		}
		w.Token(i.Body.Close)
	}
}

// ItemUse is `use path;`, `use path as alias;` or `use path::*;`.
type ItemUse struct {
	ItemHead
	Use   Token
	Path  Path
	Star  *Token
	As    *Token
	Alias *Token
	Semi  Token
}

func (i *ItemUse) Span() spans.Span {
	return i.span(i.Use.Span.Join(i.Semi.Span))
}

func (i *ItemUse) Tokens(w Writer) {
	i.tokens(w)
	w.Token(i.Use)
	i.Path.Tokens(w)
	optToken(w, i.Star)
	optToken(w, i.As)
	optToken(w, i.Alias)
	w.Token(i.Semi)
}

func (i *ItemUse) IsWildcard() bool {
	return i.Star != nil
}

// ItemConst is `const NAME = value;`.
type ItemConst struct {
	ItemHead
	Const Token
	Name  Token
	Eq    Token
	Value Expr
	Semi  Token
}

func (i *ItemConst) Span() spans.Span {
	return i.span(i.Const.Span.Join(i.Semi.Span))
}

func (i *ItemConst) Tokens(w Writer) {
	i.tokens(w)
	w.Token(i.Const)
	w.Token(i.Name)
	w.Token(i.Eq)
	w.Node(i.Value)
	w.Token(i.Semi)
}

type StructKind uint8

const (
	StructUnit StructKind = iota
	StructTuple
	StructNamed
)

// StructBody is the field list of a struct or an enum variant.
// Unit bodies have no delimiters.
type StructBody struct {
	Kind   StructKind
	Open   *Token
	Fields TokenList
	Close  *Token
}

func (b *StructBody) span(span spans.Span) spans.Span {
	return joinOpt(span, b.Close)
}

func (b *StructBody) tokens(w Writer) {
	optToken(w, b.Open)
	b.Fields.tokens(w)
	optToken(w, b.Close)
}

// ItemStruct is `struct Name;`, `struct Name(a, b);` or `struct Name { a, b }`.
type ItemStruct struct {
	ItemHead
	Struct Token
	Name   Token
	Body   StructBody
	Semi   *Token
}

func (i *ItemStruct) Span() spans.Span {
	span := i.Body.span(i.Struct.Span.Join(i.Name.Span))
	return i.span(joinOpt(span, i.Semi))
}

func (i *ItemStruct) Tokens(w Writer) {
	i.tokens(w)
	w.Token(i.Struct)
	w.Token(i.Name)
	i.Body.tokens(w)
	optToken(w, i.Semi)
}

type Variant struct {
	Name Token
	Body StructBody
}

func (v *Variant) Span() spans.Span {
	return v.Body.span(v.Name.Span)
}

func (v *Variant) Tokens(w Writer) {
	w.Token(v.Name)
	v.Body.tokens(w)
}

type ItemEnum struct {
	ItemHead
	Enum     Token
	Name     Token
	Open     Token
	Variants Punctuated[*Variant]
	Close    Token
}

func (i *ItemEnum) Span() spans.Span {
	return i.span(i.Enum.Span.Join(i.Close.Span))
}

func (i *ItemEnum) Tokens(w Writer) {
	i.tokens(w)
	w.Token(i.Enum)
	w.Token(i.Name)
	w.Token(i.Open)
	i.Variants.tokens(w)
	w.Token(i.Close)
}

// File is the root of one source.
type File struct {
	Items []Item
	End   spans.Span
}

func (f *File) Span() spans.Span {
	if len(f.Items) == 0 {
		return f.End
	}
	return f.Items[0].Span().Join(f.Items[len(f.Items)-1].Span())
}

func (f *File) Tokens(w Writer) {
	for _, item := range f.Items {
		w.Node(item)
	}
}

func (*ItemFn) itemNode()     {}
func (*ItemMod) itemNode()    {}
func (*ItemUse) itemNode()    {}
func (*ItemConst) itemNode()  {}
func (*ItemStruct) itemNode() {}
func (*ItemEnum) itemNode()   {}
