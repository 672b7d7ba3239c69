package kdtree

import (
	"errors"
	"math/rand"
	"testing"
)

func grid(w, h int) []R2 {
	var points []R2
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			points = append(points, R2{X: float64(x), Y: float64(y)})
		}
	}
	return points
}

func TestElementsIn_BruteForceMatch(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, dims := range []int{1, 2, 3} {
		points := generateVectors(500, dims, int64(dims))
		tree := Build(points)

		for i := 0; i < 50; i++ {
			intervals := make([]Interval, dims)
			for d := range intervals {
				a, b := rng.Float64()*100, rng.Float64()*100
				intervals[d] = Interval{Min: min(a, b), Max: max(a, b)}
			}
			got, err := tree.ElementsIn(intervals)
			if err != nil {
				t.Fatalf("ElementsIn: %v", err)
			}
			want := bruteBox(points, intervals)
			if !sameElements(got, want) {
				t.Errorf("dims=%d box=%v: got %d elements, brute force %d", dims, intervals, len(got), len(want))
			}
		}
	}
}

func TestElementsIn_InclusiveBounds(t *testing.T) {
	points := grid(6, 6)
	tree := Build(points)

	got, err := tree.ElementsIn([]Interval{{Min: 1, Max: 3}, {Min: 1, Max: 3}})
	if err != nil {
		t.Fatalf("ElementsIn: %v", err)
	}
	if len(got) != 9 {
		t.Errorf("got %d elements, want 9: %v", len(got), got)
	}
}

func TestElementsIn_ZeroWidth(t *testing.T) {
	tree := Build(grid(5, 5))

	got, err := tree.ElementsIn([]Interval{{Min: 2.5, Max: 2.5}, {Min: 0, Max: 4}})
	if err != nil {
		t.Fatalf("ElementsIn: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("zero-width interval returned %v", got)
	}
}

func TestElementsIn_FullSpan(t *testing.T) {
	points := generateR2(300, 8)
	tree := Build(points)

	got, err := tree.ElementsIn([]Interval{{Min: 0, Max: 100}, {Min: 0, Max: 100}})
	if err != nil {
		t.Fatalf("ElementsIn: %v", err)
	}
	if !sameElements(got, points) {
		t.Errorf("full span returned %d elements, want each of the %d exactly once", len(got), len(points))
	}
}

func TestElementsIn_DimensionMismatch(t *testing.T) {
	tree := Build(grid(3, 3))

	for _, intervals := range [][]Interval{nil, {{Min: 0, Max: 1}}, {{}, {}, {}}} {
		_, err := tree.ElementsIn(intervals)
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("ElementsIn(%d intervals) error = %v, want ErrDimensionMismatch", len(intervals), err)
		}
	}

	var empty Tree[R2]
	got, err := empty.ElementsIn(nil)
	if err != nil || len(got) != 0 {
		t.Errorf("empty tree: ElementsIn = %v, %v; want empty, nil", got, err)
	}
}

func TestElementsWithin(t *testing.T) {
	points := generateR2(400, 15)
	tree := Build(points)

	for i, c := range generateR2(40, 16) {
		radius := float64(i % 20)
		var want []R2
		for _, p := range points {
			if p.SquaredDistance(c) <= radius*radius {
				want = append(want, p)
			}
		}
		got := tree.ElementsWithin(c, radius)
		if !sameElements(got, want) {
			t.Errorf("center=%v r=%g: got %d elements, want %d", c, radius, len(got), len(want))
		}
	}
}

func TestElementsWithin_IncludesCenter(t *testing.T) {
	tree := Build(grid(4, 4))

	got := tree.ElementsWithin(R2{X: 1, Y: 1}, 0)
	if len(got) != 1 || got[0] != (R2{X: 1, Y: 1}) {
		t.Errorf("ElementsWithin(r=0) = %v, want [(1,1)]", got)
	}
	if got := tree.ElementsWithin(R2{X: 1.5, Y: 1.5}, 0); len(got) != 0 {
		t.Errorf("zero radius away from any element returned %v", got)
	}
	if got := tree.ElementsWithin(R2{X: 1, Y: 1}, -1); len(got) != 0 {
		t.Errorf("negative radius returned %v", got)
	}
}
