package ast

import "github.com/udoprog/st/spans"

// PathSegment is one component of a path.
// Its token is an identifier or one of `crate`, `super`, `self` and `Self`.
type PathSegment struct {
	Token Token
}

func IsPathSegment(kind Kind) bool {
	switch kind {
	case Ident, Crate, Super, Self, SelfType:
		return true
	}
	return false
}

func (s PathSegment) Span() spans.Span {
	return s.Token.Span
}

// TryAsIdent returns the identifier token if the segment is a plain identifier.
func (s PathSegment) TryAsIdent() (Token, bool) {
	if s.Token.Kind == Ident {
		return s.Token, true
	}
	return Token{}, false
}

type PathPart struct {
	Colon   Token
	Segment PathSegment
}

// Path is a sequence of segments separated by `::`.
type Path struct {
	LeadingColon *Token
	First        PathSegment
	Rest         []PathPart
	Trailing     *Token
}

var _ Node = new(Path)

func (p *Path) Span() spans.Span {
	span := p.First.Span()
	span = joinOpt(span, p.LeadingColon)
	if len(p.Rest) > 0 {
		span = span.Join(p.Rest[len(p.Rest)-1].Segment.Span())
	}
	return joinOpt(span, p.Trailing)
}

func (p *Path) Tokens(w Writer) {
	optToken(w, p.LeadingColon)
	w.Token(p.First.Token)
	for _, part := range p.Rest {
		w.Token(part.Colon)
		w.Token(part.Segment.Token)
	}
	optToken(w, p.Trailing)
}

// TryAsIdent narrows a path that is a single plain identifier.
func (p *Path) TryAsIdent() (Token, bool) {
	if len(p.Rest) > 0 || p.LeadingColon != nil || p.Trailing != nil {
		return Token{}, false
	}
	return p.First.TryAsIdent()
}

// Segments returns all segments in order.
func (p *Path) Segments() []PathSegment {
	ret := make([]PathSegment, 0, len(p.Rest)+1)
	ret = append(ret, p.First)
	for _, part := range p.Rest {
		ret = append(ret, part.Segment)
	}
	return ret
}
