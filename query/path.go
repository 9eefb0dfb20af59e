package query

import (
	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/items"
)

// Path keywords are kept as components, identifiers can not collide with them.
const (
	crateKeyword = "crate"
	superKeyword = "super"
	selfKeyword  = "self"
)

// Components lowers a path to its names.
func Components(path *ast.Path, source string, storage *ast.Storage) ([]string, error) {
	if path.LeadingColon != nil || path.Trailing != nil {
		return nil, &Error{
			Kind: ErrUnsupportedPath,
		}
	}
	segments := path.Segments()
	ret := make([]string, 0, len(segments))
	for i, segment := range segments {
		switch segment.Token.Kind {
		case ast.Ident:
			name, err := ast.ResolveIdent(storage, source, segment.Token)
			if err != nil {
				return nil, err
			}
			ret = append(ret, name)
		case ast.Crate, ast.Self:
			if i > 0 {
				return nil, &Error{
					Kind: ErrUnsupportedPath,
				}
			}
			if segment.Token.Kind == ast.Crate {
				ret = append(ret, crateKeyword)
			} else {
				ret = append(ret, selfKeyword)
			}
		case ast.Super:
			// only in a leading run
			if i > 0 && ret[i-1] != superKeyword {
				return nil, &Error{
					Kind: ErrUnsupportedPath,
				}
			}
			ret = append(ret, superKeyword)
		default:
			return nil, &Error{
				Kind: ErrUnsupportedPath,
			}
		}
	}
	return ret, nil
}

// ResolvePath finds the item a path written inside scope refers to.
//
// `crate::` starts at the root, `super::` at the parent of the enclosing
// module and `self::` at the enclosing module. Other paths are relative to
// the innermost scope binding their first name, up to the enclosing module,
// and absolute otherwise.
func (q *Query) ResolvePath(scope items.Item, components []string) (items.Item, error) {
	if len(components) == 0 {
		return items.Item{}, &Error{
			Kind: ErrUnsupportedPath,
		}
	}

	switch components[0] {
	case crateKeyword:
		return q.canonical(items.New(components[1:]...))

	case selfKeyword:
		return q.canonical(q.ModuleOf(scope).Join(components[1:]...))

	case superKeyword:
		base := q.ModuleOf(scope)
		rest := components
		for len(rest) > 0 && rest[0] == superKeyword {
			parent, ok := base.Parent()
			if !ok {
				return items.Item{}, &Error{
					Kind: ErrMissingItem,
					Item: base,
				}
			}
			base = q.ModuleOf(parent)
			rest = rest[1:]
		}
		return q.canonical(base.Join(rest...))
	}

	for current := scope; ; {
		if q.Contains(current.Join(components[0])) {
			return q.canonical(current.Join(components...))
		}
		if q.IsModule(current) {
			break
		}
		parent, ok := current.Parent()
		if !ok {
			break
		}
		current = parent
	}

	return q.canonical(items.New(components...))
}

// canonical replaces imported prefixes of item with their targets. The last
// component is kept as written.
func (q *Query) canonical(item items.Item) (items.Item, error) {
	components := item.Components()
	for depth := 0; ; depth++ {
		if depth > MaxImportDepth {
			return items.Item{}, &Error{
				Kind: ErrImportCycle,
				Item: item,
			}
		}
		replaced := false
		for i := 1; i < len(components); i++ {
			entry, ok := q.Get(items.New(components[:i]...))
			if !ok || entry.Kind != EntryImport {
				continue
			}
			components = append(entry.Target.Components(), components[i:]...)
			replaced = true
			break
		}
		if !replaced {
			return items.New(components...), nil
		}
	}
}

// Exists reports whether the item is declared, imported or provided by the host.
func (q *Query) Exists(item items.Item) bool {
	if q.Contains(item) {
		return true
	}
	_, ok := q.context.KindOf(item)
	return ok
}
