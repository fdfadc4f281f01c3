package tree

import "errors"

// SkipChildren may be returned by a Visitor to prune the subtree below
// the current node. Walk itself will not report it as an error.
var SkipChildren = errors.New("skip children")

// Visitor is called for every node of a walk, together with the node's
// depth relative to the start node (which has depth 0).
type Visitor[T comparable] func(node *Node[T], depth int) error

// Walk traverses the (sub-)tree starting at node depth first, parents
// before children, children in order. A visitor error other than
// SkipChildren stops the walk and is returned.
func Walk[T comparable](node *Node[T], visit Visitor[T]) error {
	if node == nil {
		return nil
	}
	return walk(node, 0, visit)
}

func walk[T comparable](node *Node[T], depth int, visit Visitor[T]) error {
	if err := visit(node, depth); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, ch := range node.Children() {
		if err := walk(ch, depth+1, visit); err != nil {
			return err
		}
	}
	return nil
}

// Predicate is a function type to match against nodes of a tree.
type Predicate[T comparable] func(node *Node[T]) bool

// DescendantsWith collects all descendants of node (excluding node itself)
// matching a predicate, in document order.
func DescendantsWith[T comparable](node *Node[T], pred Predicate[T]) []*Node[T] {
	var matches []*Node[T]
	_ = Walk(node, func(n *Node[T], depth int) error {
		if depth > 0 && pred(n) {
			matches = append(matches, n)
		}
		return nil
	})
	tracer().Debugf("tree: %d descendants matched", len(matches))
	return matches
}

// NodeIsLeaf is a predicate to match leafs of a tree.
func NodeIsLeaf[T comparable]() Predicate[T] {
	return func(node *Node[T]) bool {
		return node.ChildCount() == 0
	}
}
