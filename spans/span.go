package spans

import "fmt"

// Span is a half-open byte range [Start, End) into one source.
type Span struct {
	Start int
	End   int
}

func New(start, end int) Span {
	return Span{
		Start: start,
		End:   end,
	}
}

// Point is an empty span at the given offset.
func Point(pos int) Span {
	return Span{
		Start: pos,
		End:   pos,
	}
}

func (s Span) Join(other Span) Span {
	return Span{
		Start: min(s.Start, other.Start),
		End:   max(s.End, other.End),
	}
}

// Narrow shrinks the span by n bytes on both sides.
func (s Span) Narrow(n int) Span {
	return Span{
		Start: s.Start + n,
		End:   max(s.Start+n, s.End-n),
	}
}

func (s Span) WithStart(start int) Span {
	s.Start = start
	return s
}

func (s Span) WithEnd(end int) Span {
	s.End = end
	return s
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Text slices the span out of source. ok is false if the span is out of range.
func (s Span) Text(source string) (text string, ok bool) {
	if s.Start < 0 || s.End > len(source) || s.Start > s.End {
		return "", false
	}
	return source[s.Start:s.End], true
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}
