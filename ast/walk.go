package ast

// Inspect calls fn for every node below node, in source order. The children
// of a node are visited when fn returns true.
func Inspect(node Node, fn func(Node) bool) {
	node.Tokens(&inspector{
		fn: fn,
	})
}

type inspector struct {
	fn func(Node) bool
}

func (i *inspector) Token(Token) {}

func (i *inspector) Node(node Node) {
	if i.fn(node) {
		node.Tokens(i)
	}
}
