package sources

import (
	"fmt"

	"github.com/udoprog/st/spans"
)

type SourceID uint32

// Source is one loaded source buffer.
type Source struct {
	Name string
	// Path is empty for sources that do not come from the filesystem
	Path string
	Text string
}

func New(name, text string) *Source {
	return &Source{
		Name: name,
		Text: text,
	}
}

// Pos is a line and column, both one based. Columns count bytes.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Pos converts a byte offset to a line and column.
func (s *Source) Pos(offset int) Pos {
	pos := Pos{
		Line:   1,
		Column: 1,
	}
	for i := 0; i < len(s.Text) && i < offset; i++ {
		if s.Text[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

// Line returns the full line containing offset and the offset of its first byte.
func (s *Source) Line(offset int) (string, int) {
	offset = min(max(offset, 0), len(s.Text))
	start := offset
	for start > 0 && s.Text[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(s.Text) && s.Text[end] != '\n' {
		end++
	}
	return s.Text[start:end], start
}

func (s *Source) Slice(span spans.Span) (string, bool) {
	return span.Text(s.Text)
}

// Sources is the append-only set of sources of one compilation.
type Sources struct {
	sources []*Source
}

func (s *Sources) Insert(source *Source) SourceID {
	id := SourceID(len(s.sources))
	s.sources = append(s.sources, source)
	return id
}

func (s *Sources) Get(id SourceID) (*Source, bool) {
	if int(id) >= len(s.sources) {
		return nil, false
	}
	return s.sources[id], true
}

func (s *Sources) Len() int {
	return len(s.sources)
}
