package kdtree

// Point is the contract every indexed element satisfies. P is the concrete
// point type itself, so SquaredDistance and Equal compare like with like.
//
// Coordinate must be a pure function of the value: the tree relies on
// coordinates never changing after an element has been indexed.
type Point[P any] interface {
	// Dimensions returns the number of coordinates. It must be the same for
	// every value of the concrete type and at least 1.
	Dimensions() int

	// Coordinate returns the coordinate along dim, 0 <= dim < Dimensions().
	Coordinate(dim int) float64

	// SquaredDistance returns the squared Euclidean distance to another point.
	SquaredDistance(to P) float64

	// Equal reports whether both values denote the same element. Equal values
	// must have equal coordinates.
	Equal(other P) bool
}
