// Package kdtree implements a persistent k-d tree for points of any fixed
// dimensionality.
//
// A tree is built from an unordered collection by recursive median
// partitioning and answers nearest-neighbour, k-nearest-neighbour and
// axis-aligned range queries. Trees are immutable values: Inserting,
// Removing and Filter return a new tree that shares every untouched subtree
// with the receiver, so any number of goroutines may query a tree while
// others derive new versions from it.
//
// Basic usage:
//
//	tree := kdtree.Build([]kdtree.R2{{X: 2, Y: 3}, {X: 5, Y: 4}, {X: 9, Y: 6}})
//	p, ok := tree.Nearest(kdtree.R2{X: 8, Y: 7})
//	// p is the closest element that is not equal to the query
//	knn := tree.NearestK(2, kdtree.R2{X: 8, Y: 7})
//	// knn holds the two closest elements, nearest first
//	tree = tree.Inserting(kdtree.R2{X: 1, Y: 1})
//
// Any type can be indexed by implementing [Point]. [Vector], [R2] and [R3]
// are ready-made implementations.
//
// # Ordering
//
// Every node splits on one dimension d. Elements in its left subtree have a
// d coordinate strictly less than the node's value; elements in its right
// subtree have a d coordinate greater than or equal to it. Equal coordinates
// always go right, during construction, insertion and search alike.
//
// # Persistence
//
// Tree implements json.Marshaler and the msgpack CustomEncoder interfaces.
// The encoded form mirrors the node shape one-to-one, and decoding rejects
// data that does not describe a valid tree.
package kdtree
