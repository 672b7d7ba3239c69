package kdtree

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ Point[Vector] = Vector(nil)
	_ Point[R2]     = R2{}
	_ Point[R3]     = R3{}
)

// Vector is an N-dimensional point. All vectors stored in one tree must have
// the same length.
type Vector []float64

func (v Vector) Dimensions() int                   { return len(v) }
func (v Vector) Coordinate(dim int) float64        { return v[dim] }
func (v Vector) Equal(other Vector) bool           { return floats.Equal(v, other) }
func (v Vector) SquaredDistance(to Vector) float64 { return sumOfSquares(v, to) }

// Distance returns the Euclidean distance to another vector.
func (v Vector) Distance(to Vector) float64 {
	return floats.Distance(v, to, 2)
}

func sumOfSquares(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// R2 is a point in the plane.
type R2 r2.Vec

func (p R2) Dimensions() int { return 2 }

func (p R2) Coordinate(dim int) float64 {
	if dim == 0 {
		return p.X
	}
	return p.Y
}

func (p R2) SquaredDistance(to R2) float64 { return r2.Norm2(r2.Sub(r2.Vec(p), r2.Vec(to))) }
func (p R2) Equal(other R2) bool           { return p == other }

// R3 is a point in three-dimensional space.
type R3 r3.Vec

func (p R3) Dimensions() int { return 3 }

func (p R3) Coordinate(dim int) float64 {
	switch dim {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

func (p R3) SquaredDistance(to R3) float64 { return r3.Norm2(r3.Sub(r3.Vec(p), r3.Vec(to))) }
func (p R3) Equal(other R3) bool           { return p == other }
