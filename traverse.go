package kdtree

import "iter"

// ForEach calls fn for every element in order: left subtree, node, right
// subtree.
func (t Tree[P]) ForEach(fn func(P)) {
	forEachNode(t.root, fn)
}

func forEachNode[P Point[P]](n *node[P], fn func(P)) {
	if n == nil {
		return
	}
	forEachNode(n.left, fn)
	fn(n.value)
	forEachNode(n.right, fn)
}

// All returns an iterator over the elements in the same order as ForEach.
// Each call starts a fresh traversal.
func (t Tree[P]) All() iter.Seq[P] {
	return func(yield func(P) bool) {
		yieldNode(t.root, yield)
	}
}

func yieldNode[P Point[P]](n *node[P], yield func(P) bool) bool {
	if n == nil {
		return true
	}
	return yieldNode(n.left, yield) && yield(n.value) && yieldNode(n.right, yield)
}

// Elements returns every element in traversal order.
func (t Tree[P]) Elements() []P {
	out := make([]P, 0, t.Count())
	t.ForEach(func(v P) { out = append(out, v) })
	return out
}

// Count returns the number of elements in the tree.
func (t Tree[P]) Count() int { return countNodes(t.root) }

func countNodes[P Point[P]](n *node[P]) int {
	if n == nil {
		return 0
	}
	return 1 + countNodes(n.left) + countNodes(n.right)
}

// Depth returns the number of nodes on the longest root-to-leaf path. An
// empty tree has depth 0.
func (t Tree[P]) Depth() int { return depthOf(t.root) }

func depthOf[P Point[P]](n *node[P]) int {
	if n == nil {
		return 0
	}
	return 1 + max(depthOf(n.left), depthOf(n.right))
}

// Contains reports whether an element equal to value is stored in the tree.
func (t Tree[P]) Contains(value P) bool {
	n := t.root
	for n != nil {
		if n.value.Equal(value) {
			return true
		}
		if value.Coordinate(n.dim) < n.value.Coordinate(n.dim) {
			n = n.left
		} else {
			n = n.right
		}
	}
	return false
}

// Filter returns a tree holding only the elements for which keep returns
// true. A node whose own value is kept survives with both children filtered
// independently. A node whose value is dropped is replaced by a subtree
// rebuilt from the surviving elements of both its children, so that part of
// the result no longer shares structure with the receiver.
func (t Tree[P]) Filter(keep func(P) bool) Tree[P] {
	cfg := t.cfg
	applyDefaults(&cfg)
	return Tree[P]{root: filterNode(t.root, keep, cfg), cfg: t.cfg}
}

func filterNode[P Point[P]](n *node[P], keep func(P) bool, cfg Config) *node[P] {
	if n == nil {
		return nil
	}
	if !keep(n.value) {
		var survivors []P
		collect := func(v P) {
			if keep(v) {
				survivors = append(survivors, v)
			}
		}
		forEachNode(n.left, collect)
		forEachNode(n.right, collect)
		return buildRoot(survivors, n.dim, cfg)
	}

	left := filterNode(n.left, keep, cfg)
	right := filterNode(n.right, keep, cfg)
	if left == n.left && right == n.right {
		return n
	}
	return &node[P]{left: left, value: n.value, dim: n.dim, right: right}
}

// Map returns a tree of the same shape and split dimensions whose elements
// are transform applied to t's elements.
//
// The ordering invariant is only preserved when transform is monotonic on
// every dimension; otherwise queries on the result may miss elements. Use
// Build on the transformed Elements when that cannot be guaranteed.
func Map[P Point[P], U Point[U]](t Tree[P], transform func(P) U) Tree[U] {
	return Tree[U]{root: mapNode(t.root, transform), cfg: t.cfg}
}

func mapNode[P Point[P], U Point[U]](n *node[P], transform func(P) U) *node[U] {
	if n == nil {
		return nil
	}
	return &node[U]{
		left:  mapNode(n.left, transform),
		value: transform(n.value),
		dim:   n.dim,
		right: mapNode(n.right, transform),
	}
}

// Reduce folds the elements into a single value, threading the accumulator
// through the tree in traversal order.
func Reduce[P Point[P], A any](t Tree[P], initial A, combine func(A, P) A) A {
	acc := initial
	t.ForEach(func(v P) { acc = combine(acc, v) })
	return acc
}
