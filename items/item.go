package items

import (
	"slices"
	"strings"
)

// Item is a fully-qualified item path such as `crate::foo::bar`.
// The root module is the empty item.
type Item struct {
	components []string
}

func New(components ...string) Item {
	return Item{
		components: slices.Clone(components),
	}
}

// Parse splits a `::` separated path.
func Parse(str string) Item {
	if str == "" {
		return Item{}
	}
	return Item{
		components: strings.Split(str, "::"),
	}
}

func (i Item) Components() []string {
	return slices.Clone(i.components)
}

func (i Item) Len() int {
	return len(i.components)
}

func (i Item) IsRoot() bool {
	return len(i.components) == 0
}

func (i Item) Join(components ...string) Item {
	ret := make([]string, 0, len(i.components)+len(components))
	ret = append(ret, i.components...)
	ret = append(ret, components...)
	return Item{
		components: ret,
	}
}

func (i Item) Extend(other Item) Item {
	return i.Join(other.components...)
}

// Parent returns the enclosing item. ok is false for the root.
func (i Item) Parent() (parent Item, ok bool) {
	if len(i.components) == 0 {
		return i, false
	}
	return Item{
		components: i.components[:len(i.components)-1],
	}, true
}

func (i Item) Last() string {
	if len(i.components) == 0 {
		return ""
	}
	return i.components[len(i.components)-1]
}

func (i Item) First() string {
	if len(i.components) == 0 {
		return ""
	}
	return i.components[0]
}

func (i Item) HasPrefix(prefix Item) bool {
	if len(prefix.components) > len(i.components) {
		return false
	}
	return slices.Equal(i.components[:len(prefix.components)], prefix.components)
}

func (i Item) Equal(other Item) bool {
	return slices.Equal(i.components, other.components)
}

func (i Item) String() string {
	return strings.Join(i.components, "::")
}
