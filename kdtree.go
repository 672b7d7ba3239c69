package kdtree

import (
	"errors"
	"fmt"
	"math"
	"runtime"
)

var (
	// ErrDimensionMismatch is returned by range queries whose interval count
	// differs from the point dimensionality.
	ErrDimensionMismatch = errors.New("kdtree: interval count does not match point dimensions")

	// ErrInvalidTree is returned when a tree violates the ordering invariant
	// or stores an out-of-range split dimension, typically after decoding.
	ErrInvalidTree = errors.New("kdtree: invalid tree")

	// ErrInvalidConfig is returned by New for a Config that fails validation.
	ErrInvalidConfig = errors.New("kdtree: invalid config")
)

// Config controls tree construction and batch queries.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Epsilon is the tolerance under which two coordinates count as equal
	// while placing duplicates of the median. Must be >= 0.
	// Default: machine epsilon (2.220446049250313e-16).
	Epsilon float64

	// Seed seeds the pivot selection of the median partition. The same
	// elements built with the same Seed always produce the same tree.
	// Default: 0.
	Seed int64

	// Workers controls the number of goroutines used by NearestParallel and
	// NearestKParallel. 0 means use runtime.NumCPU(). Default: 0 (auto).
	Workers int
}

// machineEpsilon is the distance from 1.0 to the next float64.
const machineEpsilon = 0x1p-52

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Epsilon: machineEpsilon,
		Workers: runtime.NumCPU(),
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Epsilon == 0 {
		cfg.Epsilon = machineEpsilon
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.Epsilon < 0 || math.IsNaN(cfg.Epsilon) || math.IsInf(cfg.Epsilon, 0) {
		return fmt.Errorf("%w: Epsilon must be a finite value >= 0, got %g", ErrInvalidConfig, cfg.Epsilon)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: Workers must be >= 0 (0 means runtime.NumCPU()), got %d", ErrInvalidConfig, cfg.Workers)
	}
	return nil
}

// Tree is a persistent k-d tree. The zero value is an empty tree.
//
// A Tree is never modified after construction; every mutating operation
// returns a new Tree that shares unmodified subtrees with its receiver.
type Tree[P Point[P]] struct {
	root *node[P]
	cfg  Config
}

// node is one element of the tree together with its splitting dimension.
// A nil *node is the empty tree.
type node[P Point[P]] struct {
	left  *node[P]
	value P
	dim   int
	right *node[P]
}

func leaf[P Point[P]](value P, dim int) *node[P] {
	return &node[P]{value: value, dim: dim}
}

func (t Tree[P]) withRoot(root *node[P]) Tree[P] {
	return Tree[P]{root: root, cfg: t.cfg}
}

// IsEmpty reports whether the tree holds no element.
func (t Tree[P]) IsEmpty() bool { return t.root == nil }

// Value returns the element stored at the root. ok is false for an empty tree.
func (t Tree[P]) Value() (value P, ok bool) {
	if t.root == nil {
		return value, false
	}
	return t.root.value, true
}

// Dimension returns the splitting dimension of the root, or -1 for an empty tree.
func (t Tree[P]) Dimension() int {
	if t.root == nil {
		return -1
	}
	return t.root.dim
}

// Left returns the subtree holding the elements below the root on its
// splitting dimension.
func (t Tree[P]) Left() Tree[P] {
	if t.root == nil {
		return t
	}
	return t.withRoot(t.root.left)
}

// Right returns the subtree holding the elements at or above the root on its
// splitting dimension.
func (t Tree[P]) Right() Tree[P] {
	if t.root == nil {
		return t
	}
	return t.withRoot(t.root.right)
}

// Validate checks the ordering invariant and the stored split dimensions of
// every node. It returns an error wrapping ErrInvalidTree on the first
// violation found.
func (t Tree[P]) Validate() error {
	if t.root == nil {
		return nil
	}
	dims := t.root.value.Dimensions()
	if dims < 1 {
		return fmt.Errorf("%w: point dimensions must be >= 1, got %d", ErrInvalidTree, dims)
	}
	lower := make([]float64, dims)
	upper := make([]float64, dims)
	for i := range lower {
		lower[i] = math.Inf(-1)
		upper[i] = math.Inf(1)
	}
	return validateNode(t.root, dims, lower, upper)
}

// validateNode checks n against the half-open box [lower, upper) inherited
// from its ancestors.
func validateNode[P Point[P]](n *node[P], dims int, lower, upper []float64) error {
	if n == nil {
		return nil
	}
	if n.value.Dimensions() != dims {
		return fmt.Errorf("%w: element has %d dimensions, tree has %d", ErrInvalidTree, n.value.Dimensions(), dims)
	}
	if n.dim < 0 || n.dim >= dims {
		return fmt.Errorf("%w: split dimension %d out of range [0, %d)", ErrInvalidTree, n.dim, dims)
	}
	for d := 0; d < dims; d++ {
		c := n.value.Coordinate(d)
		if c < lower[d] || c >= upper[d] {
			return fmt.Errorf("%w: coordinate %g on dimension %d outside [%g, %g)", ErrInvalidTree, c, d, lower[d], upper[d])
		}
	}

	split := n.value.Coordinate(n.dim)
	saved := upper[n.dim]
	upper[n.dim] = split
	if err := validateNode(n.left, dims, lower, upper); err != nil {
		return err
	}
	upper[n.dim] = saved

	saved = lower[n.dim]
	lower[n.dim] = split
	err := validateNode(n.right, dims, lower, upper)
	lower[n.dim] = saved
	return err
}
