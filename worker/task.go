package worker

import (
	"fmt"

	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/items"
	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/spans"
)

// Task is one unit of queued indexing work.
type Task interface {
	fmt.Stringer
	task()
}

type LoadFileKind uint8

const (
	LoadRoot LoadFileKind = iota + 1
	LoadModule
)

// LoadFile parses and indexes a source as the body of Module.
type LoadFile struct {
	Kind     LoadFileKind
	SourceID sources.SourceID
	Module   items.Item
	// the `mod name;` declaration for LoadModule
	Span spans.Span
}

// ExpandImport binds the name imported by a `use` declaration in Scope.
type ExpandImport struct {
	SourceID sources.SourceID
	Scope    items.Item
	Use      *ast.ItemUse
}

// ExpandWildcardImport binds every name of a module not already bound in Scope.
type ExpandWildcardImport struct {
	SourceID sources.SourceID
	Scope    items.Item
	Use      *ast.ItemUse
}

func (*LoadFile) task()             {}
func (*ExpandImport) task()         {}
func (*ExpandWildcardImport) task() {}

func (t *LoadFile) String() string {
	return fmt.Sprintf("load file %d as %v", t.SourceID, t.Module)
}

func (t *ExpandImport) String() string {
	return fmt.Sprintf("expand import in %v at %v", t.Scope, t.Use.Span())
}

func (t *ExpandWildcardImport) String() string {
	return fmt.Sprintf("expand wildcard import in %v at %v", t.Scope, t.Use.Span())
}
