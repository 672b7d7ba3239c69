package kdtree

import (
	"math/rand"
	"testing"
)

// --- Inserting tests ---

func TestInserting_IntoEmpty(t *testing.T) {
	var tree Tree[R2]
	got := tree.Inserting(R2{X: 1, Y: 2})

	if got.Count() != 1 || got.Dimension() != 0 {
		t.Errorf("Count() = %d, Dimension() = %d; want 1, 0", got.Count(), got.Dimension())
	}
	if !tree.IsEmpty() {
		t.Error("Inserting modified the empty receiver")
	}
}

func TestInserting_Properties(t *testing.T) {
	points := generateR2(100, 31)
	tree := Build(points)

	for _, x := range generateR2(50, 32) {
		inserted := tree.Inserting(x)
		if inserted.Count() != tree.Count()+1 {
			t.Fatalf("Count() = %d, want %d", inserted.Count(), tree.Count()+1)
		}
		if !inserted.Contains(x) {
			t.Errorf("Contains(%v) = false after Inserting", x)
		}
		if err := inserted.Validate(); err != nil {
			t.Fatalf("Validate() = %v", err)
		}
		if !sameElements(inserted.Removing(x).Elements(), points) {
			t.Errorf("Inserting(%v).Removing(%v) changed the element set", x, x)
		}
	}
}

func TestInserting_DuplicateIsNoOp(t *testing.T) {
	tree := Build(diagonal(10))
	once := tree.Inserting(R2{X: 3.5, Y: 1})
	twice := once.Inserting(R2{X: 3.5, Y: 1})

	if twice.root != once.root {
		t.Error("inserting an existing element should return the receiver")
	}
	if again := tree.Inserting(R2{X: 4, Y: 4}); again.root != tree.root {
		t.Error("inserting an element from the build should return the receiver")
	}
}

func TestInserting_PathCopy(t *testing.T) {
	tree := Build(diagonal(15))
	before := tree.Elements()

	root, _ := tree.Value()
	// Far above the root on dimension 0, so only the right spine changes.
	inserted := tree.Inserting(R2{X: root.X + 100, Y: 0})

	if inserted.root == tree.root {
		t.Fatal("Inserting returned the receiver's root")
	}
	if inserted.root.left != tree.root.left {
		t.Error("untouched left subtree was copied instead of shared")
	}
	if !sameElements(tree.Elements(), before) {
		t.Error("Inserting modified the receiver")
	}
}

func TestInserting_Sequential(t *testing.T) {
	var tree Tree[Vector]
	points := generateVectors(300, 3, 33)
	for _, p := range points {
		tree = tree.Inserting(p)
	}

	if err := tree.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if !sameElements(tree.Elements(), points) {
		t.Error("incrementally built tree lost elements")
	}
	for _, q := range generateVectors(30, 3, 34) {
		want, _ := bruteNearest(points, q, 1e300)
		got, _ := tree.Nearest(q)
		if d := got.SquaredDistance(q); !almostEqual(d, want, floatTol) {
			t.Errorf("Nearest(%v) at %g, brute force %g", q, d, want)
		}
	}
}

// --- Removing tests ---

func TestRemoving_Absent(t *testing.T) {
	tree := Build(diagonal(10))
	got := tree.Removing(R2{X: 3, Y: 4})

	if got.root != tree.root {
		t.Error("removing an absent element should return the receiver")
	}
	var empty Tree[R2]
	if !empty.Removing(R2{X: 1, Y: 1}).IsEmpty() {
		t.Error("removing from an empty tree should stay empty")
	}
}

func TestRemoving_Idempotent(t *testing.T) {
	tree := Build(diagonal(10))
	once := tree.Removing(R2{X: 5, Y: 5})
	twice := once.Removing(R2{X: 5, Y: 5})

	if once.Count() != 9 || twice.Count() != 9 {
		t.Errorf("Count() = %d then %d, want 9 and 9", once.Count(), twice.Count())
	}
	if once.Contains(R2{X: 5, Y: 5}) {
		t.Error("removed element still present")
	}
}

func TestRemoving_Root(t *testing.T) {
	tree := Build(diagonal(7))
	root, _ := tree.Value()

	got := tree.Removing(root)
	if got.Contains(root) {
		t.Errorf("root %v still present", root)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if got.Count() != 6 {
		t.Errorf("Count() = %d, want 6", got.Count())
	}
}

func TestRemoving_LeavesReceiverIntact(t *testing.T) {
	points := generateR2(80, 41)
	tree := Build(points)

	for _, p := range points[:20] {
		tree.Removing(p)
	}
	if !sameElements(tree.Elements(), points) {
		t.Error("Removing modified the receiver")
	}
}

func TestRemoving_AllInRandomOrder(t *testing.T) {
	points := generateVectors(200, 2, 42)
	tree := Build(points)
	rng := rand.New(rand.NewSource(43))
	order := rng.Perm(len(points))

	for i, idx := range order {
		tree = tree.Removing(points[idx])
		if err := tree.Validate(); err != nil {
			t.Fatalf("after %d removals: Validate() = %v", i+1, err)
		}
		if tree.Count() != len(points)-i-1 {
			t.Fatalf("after %d removals: Count() = %d", i+1, tree.Count())
		}
		if tree.Contains(points[idx]) {
			t.Fatalf("removed %v still present", points[idx])
		}
	}
	if !tree.IsEmpty() {
		t.Error("tree should be empty after removing every element")
	}
}

func TestRemoving_TiedCoordinates(t *testing.T) {
	// Few distinct coordinates per axis: replacement candidates tie often.
	points := grid(4, 12)
	tree := Build(points)
	rng := rand.New(rand.NewSource(44))

	remaining := append([]R2(nil), points...)
	for len(remaining) > 0 {
		i := rng.Intn(len(remaining))
		victim := remaining[i]
		remaining = append(remaining[:i], remaining[i+1:]...)

		tree = tree.Removing(victim)
		if err := tree.Validate(); err != nil {
			t.Fatalf("removing %v: Validate() = %v", victim, err)
		}
		for _, p := range remaining {
			if !tree.Contains(p) {
				t.Fatalf("removing %v lost %v", victim, p)
			}
		}
	}
}

func TestRemoving_TiedLeftMaximum(t *testing.T) {
	// Both left elements share the left maximum on dimension 0.
	tree := Tree[R2]{root: &node[R2]{
		left: &node[R2]{
			value: R2{X: 3, Y: 0},
			dim:   1,
			right: leaf(R2{X: 3, Y: 5}, 0),
		},
		value: R2{X: 5, Y: 0},
		dim:   0,
	}}
	if err := tree.Validate(); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}

	got := tree.Removing(R2{X: 5, Y: 0})
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	for _, p := range []R2{{X: 3, Y: 0}, {X: 3, Y: 5}} {
		if !got.Contains(p) {
			t.Errorf("Contains(%v) = false", p)
		}
	}
	if got.Count() != 2 {
		t.Errorf("Count() = %d, want 2", got.Count())
	}
}

func TestRemoving_PrefersLeftMaximum(t *testing.T) {
	tree := Tree[R2]{root: &node[R2]{
		left: &node[R2]{
			left:  leaf(R2{X: 1, Y: 0}, 0),
			value: R2{X: 2, Y: 3},
			dim:   1,
			right: leaf(R2{X: 4, Y: 6}, 0),
		},
		value: R2{X: 5, Y: 0},
		dim:   0,
		right: leaf(R2{X: 8, Y: 1}, 1),
	}}

	got := tree.Removing(R2{X: 5, Y: 0})
	if v, _ := got.Value(); v != (R2{X: 4, Y: 6}) {
		t.Errorf("new root = %v, want the left maximum (4,6)", v)
	}
	if got.root.right != tree.root.right {
		t.Error("right subtree should be shared")
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestRemoving_FallsBackToRightMinimum(t *testing.T) {
	tree := Tree[R2]{root: &node[R2]{
		value: R2{X: 5, Y: 0},
		dim:   0,
		right: &node[R2]{
			left:  leaf(R2{X: 9, Y: 1}, 0),
			value: R2{X: 7, Y: 4},
			dim:   1,
			right: leaf(R2{X: 6, Y: 8}, 0),
		},
	}}

	got := tree.Removing(R2{X: 5, Y: 0})
	if v, _ := got.Value(); v != (R2{X: 6, Y: 8}) {
		t.Errorf("new root = %v, want the right minimum (6,8)", v)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if got.Count() != 3 {
		t.Errorf("Count() = %d, want 3", got.Count())
	}
}

func TestExtremeOnDim(t *testing.T) {
	points := generateVectors(150, 3, 45)
	tree := Build(points)

	for dim := 0; dim < 3; dim++ {
		lo, hi := points[0][dim], points[0][dim]
		for _, p := range points {
			lo = min(lo, p[dim])
			hi = max(hi, p[dim])
		}
		if got := extremeOnDim(tree.root, dim, 1); got[dim] != hi {
			t.Errorf("max on %d = %g, want %g", dim, got[dim], hi)
		}
		if got := extremeOnDim(tree.root, dim, -1); got[dim] != lo {
			t.Errorf("min on %d = %g, want %g", dim, got[dim], lo)
		}
	}
}
