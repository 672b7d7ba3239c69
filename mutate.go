package kdtree

// Inserting returns a tree that also holds value. The receiver is not
// modified: only the nodes on the path to the new leaf are copied, every
// other subtree is shared. If an element equal to value is already present
// the receiver is returned unchanged.
//
// No rebalancing is performed, so long runs of skewed insertions can make
// the tree arbitrarily deep.
func (t Tree[P]) Inserting(value P) Tree[P] {
	root, added := insertNode(t.root, value, 0)
	if !added {
		return t
	}
	return t.withRoot(root)
}

func insertNode[P Point[P]](n *node[P], value P, dim int) (*node[P], bool) {
	if n == nil {
		return leaf(value, dim), true
	}
	if n.value.Equal(value) {
		return n, false
	}

	next := (n.dim + 1) % value.Dimensions()
	c := *n
	if value.Coordinate(n.dim) < n.value.Coordinate(n.dim) {
		left, added := insertNode(n.left, value, next)
		if !added {
			return n, false
		}
		c.left = left
	} else {
		right, added := insertNode(n.right, value, next)
		if !added {
			return n, false
		}
		c.right = right
	}
	return &c, true
}

// Removing returns a tree without value. The receiver is not modified. If
// value is not present the receiver is returned unchanged.
func (t Tree[P]) Removing(value P) Tree[P] {
	root, removed := removeNode(t.root, value)
	if !removed {
		return t
	}
	return t.withRoot(root)
}

func removeNode[P Point[P]](n *node[P], value P) (*node[P], bool) {
	if n == nil {
		return nil, false
	}
	if n.value.Equal(value) {
		return replaceNode(n), true
	}

	c := *n
	if value.Coordinate(n.dim) < n.value.Coordinate(n.dim) {
		left, removed := removeNode(n.left, value)
		if !removed {
			return n, false
		}
		c.left = left
	} else {
		right, removed := removeNode(n.right, value)
		if !removed {
			return n, false
		}
		c.right = right
	}
	return &c, true
}

// replaceNode returns the subtree that takes the place of n once n's own
// value is dropped.
//
// The preferred replacement is the left subtree's maximum on n.dim. That is
// only valid when no other left element shares its coordinate, because the
// left side must stay strictly below the new value. Otherwise the right
// subtree's minimum is promoted instead, and when there is no right subtree
// the left minimum is promoted with the remaining left elements moved to its
// right.
func replaceNode[P Point[P]](n *node[P]) *node[P] {
	d := n.dim
	if n.left != nil {
		m := extremeOnDim(n.left, d, 1)
		left, _ := removeNode(n.left, m)
		if left == nil || extremeOnDim(left, d, 1).Coordinate(d) < m.Coordinate(d) {
			return &node[P]{left: left, value: m, dim: d, right: n.right}
		}
	}
	if n.right != nil {
		m := extremeOnDim(n.right, d, -1)
		right, _ := removeNode(n.right, m)
		return &node[P]{left: n.left, value: m, dim: d, right: right}
	}
	if n.left != nil {
		m := extremeOnDim(n.left, d, -1)
		rest, _ := removeNode(n.left, m)
		return &node[P]{value: m, dim: d, right: rest}
	}
	return nil
}

// extremeOnDim returns the element of the non-empty subtree n with the
// largest coordinate on dim when sign is 1, or the smallest when sign is -1.
// Ties prefer the left subtree, then the right subtree, then n itself.
func extremeOnDim[P Point[P]](n *node[P], dim int, sign float64) P {
	best := n.value
	bestScore := sign * best.Coordinate(dim)
	consider := func(child *node[P]) {
		if child == nil {
			return
		}
		c := extremeOnDim(child, dim, sign)
		if s := sign * c.Coordinate(dim); s >= bestScore {
			best, bestScore = c, s
		}
	}

	if n.dim == dim {
		// Only one side can beat n: larger values live right, smaller left.
		if sign > 0 {
			consider(n.right)
		} else {
			consider(n.left)
		}
		return best
	}
	consider(n.right)
	consider(n.left)
	return best
}
