package kdtree

import "math"

// Nearest returns the element closest to query, excluding any element equal
// to query itself. ok is false when the tree holds no other element.
func (t Tree[P]) Nearest(query P) (nearest P, ok bool) {
	return t.NearestWithin(query, math.Inf(1))
}

// NearestWithin is Nearest restricted to elements at most maxDistance away
// from query. ok is false when no such element exists.
func (t Tree[P]) NearestWithin(query P, maxDistance float64) (nearest P, ok bool) {
	if t.root == nil || !(maxDistance >= 0) {
		return nearest, false
	}
	s := nearestSearch[P]{query: query, limit: maxDistance * maxDistance}
	s.visit(t.root)
	return s.best, s.found
}

// nearestSearch is the branch-and-bound state of one Nearest call.
type nearestSearch[P Point[P]] struct {
	query  P
	limit  float64 // squared maxDistance
	best   P
	bestSq float64
	found  bool
}

func (s *nearestSearch[P]) consider(v P) {
	if v.Equal(s.query) {
		return
	}
	d := v.SquaredDistance(s.query)
	if d > s.limit {
		return
	}
	if !s.found || d < s.bestSq {
		s.best, s.bestSq, s.found = v, d, true
	}
}

// reaches reports whether a region whose closest possible point lies planeSq
// away from the query could still hold a better candidate.
func (s *nearestSearch[P]) reaches(planeSq float64) bool {
	if s.found {
		return planeSq < s.bestSq
	}
	return planeSq <= s.limit
}

func (s *nearestSearch[P]) visit(n *node[P]) {
	if n.left == nil && n.right == nil {
		s.consider(n.value)
		return
	}

	delta := n.value.Coordinate(n.dim) - s.query.Coordinate(n.dim)
	near, far := n.left, n.right
	if delta <= 0 {
		near, far = n.right, n.left
	}

	if near != nil {
		s.visit(near)
	}
	s.consider(n.value)
	if far != nil && s.reaches(delta*delta) {
		s.visit(far)
	}
}
