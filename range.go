package kdtree

import "fmt"

// Interval is a closed range [Min, Max] along one dimension.
type Interval struct {
	Min, Max float64
}

// Contains reports whether Min <= v <= Max.
func (iv Interval) Contains(v float64) bool { return iv.Min <= v && v <= iv.Max }

// ElementsIn returns every element whose coordinates fall inside the box
// described by intervals, one interval per dimension in dimension order.
// The result order is unspecified. An empty tree yields an empty result for
// any intervals; otherwise len(intervals) must equal the point
// dimensionality or ErrDimensionMismatch is returned.
func (t Tree[P]) ElementsIn(intervals []Interval) ([]P, error) {
	if t.root == nil {
		return []P{}, nil
	}
	if dims := t.root.value.Dimensions(); len(intervals) != dims {
		return nil, fmt.Errorf("%w: got %d intervals for %d dimensions", ErrDimensionMismatch, len(intervals), dims)
	}
	out := []P{}
	collectInBox(t.root, intervals, &out)
	return out, nil
}

func collectInBox[P Point[P]](n *node[P], intervals []Interval, out *[]P) {
	if n == nil {
		return
	}
	inside := true
	for d, iv := range intervals {
		if !iv.Contains(n.value.Coordinate(d)) {
			inside = false
			break
		}
	}
	if inside {
		*out = append(*out, n.value)
	}

	split := n.value.Coordinate(n.dim)
	iv := intervals[n.dim]
	if iv.Min < split {
		collectInBox(n.left, intervals, out)
	}
	// The right side holds coordinates equal to split as well.
	if iv.Max >= split {
		collectInBox(n.right, intervals, out)
	}
}

// ElementsWithin returns every element at most radius away from center,
// including an element equal to center. The result order is unspecified.
func (t Tree[P]) ElementsWithin(center P, radius float64) []P {
	out := []P{}
	if !(radius >= 0) {
		return out
	}
	collectInRadius(t.root, center, radius*radius, &out)
	return out
}

func collectInRadius[P Point[P]](n *node[P], center P, radiusSq float64, out *[]P) {
	if n == nil {
		return
	}
	if n.value.SquaredDistance(center) <= radiusSq {
		*out = append(*out, n.value)
	}

	delta := n.value.Coordinate(n.dim) - center.Coordinate(n.dim)
	near, far := n.left, n.right
	if delta <= 0 {
		near, far = n.right, n.left
	}
	collectInRadius(near, center, radiusSq, out)
	if delta*delta <= radiusSq {
		collectInRadius(far, center, radiusSq, out)
	}
}
