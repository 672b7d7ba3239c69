package kdtree

import (
	"math"
	"math/rand"
)

// Build constructs a balanced tree from elements using the default
// configuration. The caller's slice is not modified.
func Build[P Point[P]](elements []P) Tree[P] {
	return BuildAt(elements, 0)
}

// BuildAt is Build with the root splitting on dimension depth mod Dimensions.
func BuildAt[P Point[P]](elements []P, depth int) Tree[P] {
	cfg := DefaultConfig()
	return Tree[P]{root: buildRoot(elements, depth, cfg), cfg: cfg}
}

// New constructs a balanced tree from elements with an explicit configuration.
// Returns an error if the config is invalid.
func New[P Point[P]](elements []P, cfg Config) (Tree[P], error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return Tree[P]{}, err
	}
	return Tree[P]{root: buildRoot(elements, 0, cfg), cfg: cfg}, nil
}

// buildRoot copies elements into a private working buffer and builds from it.
func buildRoot[P Point[P]](elements []P, depth int, cfg Config) *node[P] {
	if len(elements) == 0 {
		return nil
	}
	buf := make([]P, len(elements))
	copy(buf, elements)
	b := builder[P]{
		dims: buf[0].Dimensions(),
		eps:  cfg.Epsilon,
		rng:  rand.New(rand.NewSource(cfg.Seed)),
	}
	return b.build(buf, depth)
}

type builder[P Point[P]] struct {
	dims int
	eps  float64
	rng  *rand.Rand
}

// build recursively builds the tree for buf, reordering buf in place.
func (b *builder[P]) build(buf []P, depth int) *node[P] {
	switch len(buf) {
	case 0:
		return nil
	case 1:
		return leaf(buf[0], depth%b.dims)
	}

	dim := depth % b.dims
	median := len(buf) / 2
	b.selectKth(buf, median, dim)
	median = b.gatherTies(buf, median, dim)

	return &node[P]{
		left:  b.build(buf[:median], depth+1),
		value: buf[median],
		dim:   dim,
		right: b.build(buf[median+1:], depth+1),
	}
}

// selectKth rearranges buf so that buf[k] holds the element with the k-th
// smallest coordinate on dim, with nothing larger before it and nothing
// smaller after it.
func (b *builder[P]) selectKth(buf []P, k, dim int) {
	lo, hi := 0, len(buf)-1
	for lo < hi {
		p := b.partition(buf, lo, hi, dim)
		switch {
		case p == k:
			return
		case k < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
}

// partition splits buf[lo:hi+1] around a randomly chosen pivot and returns
// the pivot's final index p: buf[lo:p] < pivot <= buf[p+1:hi+1] on dim.
func (b *builder[P]) partition(buf []P, lo, hi, dim int) int {
	r := lo + b.rng.Intn(hi-lo+1)
	buf[r], buf[hi] = buf[hi], buf[r]
	pivot := buf[hi].Coordinate(dim)

	i, j := lo, hi-1
	for {
		for i <= j && buf[i].Coordinate(dim) < pivot {
			i++
		}
		for i <= j && buf[j].Coordinate(dim) >= pivot {
			j--
		}
		if i >= j {
			break
		}
		buf[i], buf[j] = buf[j], buf[i]
		i++
		j--
	}
	buf[i], buf[hi] = buf[hi], buf[i]
	return i
}

// gatherTies moves every element before the median whose coordinate on dim
// is within eps of the median's into the slots immediately preceding it,
// then moves the median index left across that run. The smallest element of
// the run becomes the node value, so every element left of the returned
// index is strictly smaller on dim and every element right of it is not.
func (b *builder[P]) gatherTies(buf []P, median, dim int) int {
	m := buf[median].Coordinate(dim)
	start := median
	for i := median - 1; i >= 0; i-- {
		if math.Abs(buf[i].Coordinate(dim)-m) < b.eps {
			start--
			buf[i], buf[start] = buf[start], buf[i]
		}
	}
	if start == median {
		return median
	}

	least := start
	for i := start + 1; i <= median; i++ {
		if buf[i].Coordinate(dim) < buf[least].Coordinate(dim) {
			least = i
		}
	}
	buf[start], buf[least] = buf[least], buf[start]
	return start
}
