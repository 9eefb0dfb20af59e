package configs

import (
	"errors"
	"iter"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

var ErrValueNotFound = errors.New("value not found")

// Loader reads a list of CUE files, each checked against a closed schema.
// Earlier files take precedence. Files are read once, on first use.
type Loader struct {
	paths []string
	roots func() ([]root, error)
}

type root struct {
	value cue.Value
	path  string
}

func NewLoader(paths []string, schema string) Loader {
	return Loader{
		paths: paths,
		roots: sync.OnceValues(func() ([]root, error) {
			ctx := cuecontext.New()

			var schemaValue cue.Value
			if schema != "" {
				schemaValue = ctx.CompileString("close({" + schema + "})")
				if err := schemaValue.Err(); err != nil {
					return nil, err
				}
			}

			ret := make([]root, 0, len(paths))
			for _, path := range paths {
				content, err := os.ReadFile(path)
				if err != nil {
					return nil, err
				}
				value := ctx.CompileBytes(content, cue.Filename(path))
				if err := value.Err(); err != nil {
					return nil, err
				}
				if schemaValue.Exists() {
					if err := schemaValue.Unify(value).Validate(); err != nil {
						return nil, err
					}
				}
				ret = append(ret, root{
					value: value,
					path:  path,
				})
			}
			return ret, nil
		}),
	}
}

func (l Loader) Paths() []string {
	return l.paths
}

// Validate reads and checks every file.
func (l Loader) Validate() error {
	if l.roots == nil {
		return nil
	}
	_, err := l.roots()
	return err
}

// IterCueValues yields the value at path of every file defining it.
func (l Loader) IterCueValues(path string) iter.Seq2[*cue.Value, error] {
	return func(yield func(*cue.Value, error) bool) {
		if l.roots == nil {
			return
		}
		roots, err := l.roots()
		if err != nil {
			yield(nil, err)
			return
		}
		cuePath := cue.ParsePath(path)
		for _, root := range roots {
			value := root.value.LookupPath(cuePath)
			if !value.Exists() {
				continue
			}
			if !yield(&value, nil) {
				return
			}
		}
	}
}

// AssignFirst decodes the first value at path into target.
func (l Loader) AssignFirst(path string, target any) error {
	for value, err := range l.IterCueValues(path) {
		if err != nil {
			return err
		}
		return value.Decode(target)
	}
	return ErrValueNotFound
}
