package lexer

import (
	"fmt"

	"github.com/udoprog/st/spans"
)

type modeKind uint8

const (
	modeDefault modeKind = iota
	modeTemplate
)

// mode is one frame of the lexer mode stack.
// For modeDefault n is the brace nesting level inside a template hole, zero
// outside of templates. For modeTemplate n is the number of pending expressions.
type mode struct {
	kind modeKind
	n    int
}

func defaultMode(level int) mode {
	return mode{kind: modeDefault, n: level}
}

func templateMode(expressions int) mode {
	return mode{kind: modeTemplate, n: expressions}
}

func (m mode) String() string {
	if m.kind == modeTemplate {
		return fmt.Sprintf("template %d", m.n)
	}
	if m.n > 0 {
		return fmt.Sprintf("default in template (%d)", m.n)
	}
	return "default"
}

type modes struct {
	stack []mode
}

func (m *modes) last() mode {
	if len(m.stack) == 0 {
		return defaultMode(0)
	}
	return m.stack[len(m.stack)-1]
}

func (m *modes) push(frame mode) {
	m.stack = append(m.stack, frame)
}

// pop removes the top frame, which must be the expected one.
func (m *modes) pop(at int, expected mode) error {
	frame := defaultMode(0)
	if len(m.stack) > 0 {
		frame = m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]
	}
	if frame != expected {
		return &Error{
			Span:     spans.Point(at),
			Kind:     ErrBadLexerMode,
			Mode:     frame.String(),
			Expected: expected.String(),
		}
	}
	return nil
}

// expressionCount points at the pending expression count of the template frame on top.
func (m *modes) expressionCount(span spans.Span) (*int, error) {
	if len(m.stack) == 0 || m.stack[len(m.stack)-1].kind != modeTemplate {
		return nil, &Error{
			Span: span,
			Kind: ErrExpectedTemplateMode,
		}
	}
	return &m.stack[len(m.stack)-1].n, nil
}
