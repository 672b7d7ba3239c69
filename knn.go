package kdtree

// NearestK returns the k elements closest to query, nearest first. Unlike
// Nearest, an element equal to query is a candidate like any other. The
// result holds min(k, Count()) elements.
func (t Tree[P]) NearestK(k int, query P) []P {
	return t.NearestKFunc(k, query, nil)
}

// NearestKFunc is NearestK restricted to elements for which accept returns
// true. A nil accept admits every element.
func (t Tree[P]) NearestKFunc(k int, query P, accept func(P) bool) []P {
	if k <= 0 || t.root == nil {
		return []P{}
	}
	s := knnSearch[P]{
		query:  query,
		accept: accept,
		list:   neighbourList[P]{capacity: k, items: make([]neighbour[P], 0, min(k, 16))},
	}
	s.visit(t.root)
	return s.list.values()
}

type neighbour[P any] struct {
	value  P
	distSq float64
}

// neighbourList is a bounded list of candidates sorted by ascending distance.
// Insertion is O(capacity), which is fine for the small k it is meant for.
type neighbourList[P any] struct {
	capacity int
	items    []neighbour[P]
}

func (l *neighbourList[P]) full() bool { return len(l.items) >= l.capacity }

// worst returns the squared distance of the k-th candidate. Only valid when
// the list is not empty.
func (l *neighbourList[P]) worst() float64 { return l.items[len(l.items)-1].distSq }

// add admits v if the list has room or v beats the current worst candidate,
// evicting the worst in the latter case. Candidates at equal distance keep
// their arrival order.
func (l *neighbourList[P]) add(v P, distSq float64) {
	if l.full() && distSq >= l.worst() {
		return
	}
	i := len(l.items)
	for i > 0 && l.items[i-1].distSq > distSq {
		i--
	}
	if !l.full() {
		l.items = append(l.items, neighbour[P]{})
	}
	copy(l.items[i+1:], l.items[i:len(l.items)-1])
	l.items[i] = neighbour[P]{value: v, distSq: distSq}
}

func (l *neighbourList[P]) values() []P {
	out := make([]P, len(l.items))
	for i, it := range l.items {
		out[i] = it.value
	}
	return out
}

type knnSearch[P Point[P]] struct {
	query  P
	accept func(P) bool
	list   neighbourList[P]
}

func (s *knnSearch[P]) consider(v P) {
	if s.accept != nil && !s.accept(v) {
		return
	}
	s.list.add(v, v.SquaredDistance(s.query))
}

func (s *knnSearch[P]) visit(n *node[P]) {
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
	// Until k candidates are known the far side is always searched.
	if far != nil && (!s.list.full() || delta*delta < s.list.worst()) {
		s.visit(far)
	}
}
