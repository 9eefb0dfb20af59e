package sources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/udoprog/st/items"
	"github.com/udoprog/st/spans"
)

// Loader finds the source backing a `mod name;` declaration.
// root is the path of the root source of the compilation.
type Loader interface {
	Load(root string, item items.Item, span spans.Span) (*Source, error)
}

// Ext is the extension of source files.
const Ext = ".st"

type ModuleNotFoundError struct {
	Item       items.Item
	Span       spans.Span
	Candidates []string
}

var _ error = new(ModuleNotFoundError)

func (e *ModuleNotFoundError) ErrorSpan() spans.Span {
	return e.Span
}

func (e *ModuleNotFoundError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("module not found: %v", e.Item)
	}
	return fmt.Sprintf("module not found: %v (tried %s)", e.Item, strings.Join(e.Candidates, ", "))
}

// FileLoader resolves `a::b` to `<dir>/a/b.st`, falling back to `<dir>/a/b/mod.st`,
// where dir is the directory of the root source.
type FileLoader struct{}

var _ Loader = FileLoader{}

func (FileLoader) Load(root string, item items.Item, span spans.Span) (*Source, error) {
	if root == "" {
		return nil, &ModuleNotFoundError{
			Item: item,
			Span: span,
		}
	}
	base := filepath.Join(append([]string{filepath.Dir(root)}, item.Components()...)...)
	candidates := []string{
		base + Ext,
		filepath.Join(base, "mod"+Ext),
	}
	for _, candidate := range candidates {
		content, err := os.ReadFile(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &Source{
			Name: item.String(),
			Path: candidate,
			Text: string(content),
		}, nil
	}
	return nil, &ModuleNotFoundError{
		Item:       item,
		Span:       span,
		Candidates: candidates,
	}
}

// MapLoader serves module sources from memory, keyed by item path like `a::b`.
type MapLoader map[string]string

var _ Loader = MapLoader{}

func (m MapLoader) Load(_ string, item items.Item, span spans.Span) (*Source, error) {
	text, ok := m[item.String()]
	if !ok {
		return nil, &ModuleNotFoundError{
			Item: item,
			Span: span,
		}
	}
	return New(item.String(), text), nil
}

// ReadFile loads a root source from the filesystem.
func ReadFile(path string) (*Source, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Source{
		Name: filepath.Base(path),
		Path: path,
		Text: string(content),
	}, nil
}
