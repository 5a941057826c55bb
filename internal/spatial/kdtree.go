// Package spatial provides a 2D kd-tree for nearest-neighbor queries over
// projected point sets. Coordinates must be planar (meters); geographic
// degrees would make the distance thresholds used downstream meaningless.
package spatial

import (
	"math"
	"sort"
)

// Point is a projected 2D coordinate.
type Point struct {
	X float64
	Y float64
}

// Dist returns the Euclidean distance to q.
func (p Point) Dist(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Hypot(dx, dy)
}

type node struct {
	idx         int
	axis        int
	left, right *node
}

// Index is an immutable balanced kd-tree built once over a point set.
// Queries run in O(log n) expected time.
type Index struct {
	pts  []Point
	root *node
}

// NewIndex builds a kd-tree over the given points. The slice is retained;
// callers must not mutate it afterwards.
func NewIndex(pts []Point) *Index {
	idxs := make([]int, len(pts))
	for i := range idxs {
		idxs[i] = i
	}
	ix := &Index{pts: pts}
	ix.root = ix.build(idxs, 0)
	return ix
}

// Len returns the number of indexed points.
func (ix *Index) Len() int {
	return len(ix.pts)
}

// At returns the indexed point at position i.
func (ix *Index) At(i int) Point {
	return ix.pts[i]
}

func (ix *Index) build(idxs []int, depth int) *node {
	if len(idxs) == 0 {
		return nil
	}
	axis := depth % 2
	sort.Slice(idxs, func(a, b int) bool {
		return coord(ix.pts[idxs[a]], axis) < coord(ix.pts[idxs[b]], axis)
	})
	mid := len(idxs) / 2
	return &node{
		idx:   idxs[mid],
		axis:  axis,
		left:  ix.build(idxs[:mid], depth+1),
		right: ix.build(idxs[mid+1:], depth+1),
	}
}

func coord(p Point, axis int) float64 {
	if axis == 0 {
		return p.X
	}
	return p.Y
}

// Nearest returns the index of the single closest point to q and its
// distance. It returns (-1, +Inf) for an empty index.
func (ix *Index) Nearest(q Point) (int, float64) {
	best := -1
	bestDist := math.Inf(1)
	ix.nearest(ix.root, q, &best, &bestDist)
	return best, bestDist
}

func (ix *Index) nearest(n *node, q Point, best *int, bestDist *float64) {
	if n == nil {
		return
	}
	d := ix.pts[n.idx].Dist(q)
	if d < *bestDist {
		*bestDist = d
		*best = n.idx
	}

	delta := coord(q, n.axis) - coord(ix.pts[n.idx], n.axis)
	near, far := n.left, n.right
	if delta > 0 {
		near, far = n.right, n.left
	}
	ix.nearest(near, q, best, bestDist)
	if math.Abs(delta) < *bestDist {
		ix.nearest(far, q, best, bestDist)
	}
}

// KNN returns the indices of the k points closest to q along with their
// distances, sorted ascending by distance. Fewer than k results are returned
// when the index is smaller than k. The query point itself is included when
// it is part of the index.
func (ix *Index) KNN(q Point, k int) ([]int, []float64) {
	if k <= 0 || len(ix.pts) == 0 {
		return nil, nil
	}
	if k > len(ix.pts) {
		k = len(ix.pts)
	}
	h := &knnHeap{k: k}
	ix.knn(ix.root, q, h)

	idxs := make([]int, len(h.items))
	dists := make([]float64, len(h.items))
	order := make([]int, len(h.items))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return h.items[order[a]].dist < h.items[order[b]].dist
	})
	for i, o := range order {
		idxs[i] = h.items[o].idx
		dists[i] = h.items[o].dist
	}
	return idxs, dists
}

func (ix *Index) knn(n *node, q Point, h *knnHeap) {
	if n == nil {
		return
	}
	h.push(n.idx, ix.pts[n.idx].Dist(q))

	delta := coord(q, n.axis) - coord(ix.pts[n.idx], n.axis)
	near, far := n.left, n.right
	if delta > 0 {
		near, far = n.right, n.left
	}
	ix.knn(near, q, h)
	if !h.full() || math.Abs(delta) < h.worst() {
		ix.knn(far, q, h)
	}
}

type knnItem struct {
	idx  int
	dist float64
}

// knnHeap is a bounded max-heap keyed on distance; the root is the current
// worst of the k best candidates.
type knnHeap struct {
	k     int
	items []knnItem
}

func (h *knnHeap) full() bool { return len(h.items) == h.k }

func (h *knnHeap) worst() float64 {
	if len(h.items) == 0 {
		return math.Inf(1)
	}
	return h.items[0].dist
}

func (h *knnHeap) push(idx int, dist float64) {
	if h.full() {
		if dist >= h.items[0].dist {
			return
		}
		h.items[0] = knnItem{idx, dist}
		h.siftDown(0)
		return
	}
	h.items = append(h.items, knnItem{idx, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *knnHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[parent].dist >= h.items[i].dist {
			return
		}
		h.items[parent], h.items[i] = h.items[i], h.items[parent]
		i = parent
	}
}

func (h *knnHeap) siftDown(i int) {
	for {
		l, r := 2*i+1, 2*i+2
		largest := i
		if l < len(h.items) && h.items[l].dist > h.items[largest].dist {
			largest = l
		}
		if r < len(h.items) && h.items[r].dist > h.items[largest].dist {
			largest = r
		}
		if largest == i {
			return
		}
		h.items[i], h.items[largest] = h.items[largest], h.items[i]
		i = largest
	}
}
