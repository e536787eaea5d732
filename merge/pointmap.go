package merge

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
)

// pointIndexMap answers "have I seen this point before, and at which index?".
// At on a point that was never inserted is undefined; callers must guard with
// Contains. Insert keeps the first index registered for a point.
type pointIndexMap[N Num] interface {
	Clear()
	Contains(p Point[N]) bool
	Insert(p Point[N], index int)
	At(p Point[N]) int
}

// newPointIndexMap picks the implementation for the element type: an exact
// hash map for integer coordinates, a nearest-neighbor quadtree for floating
// coordinates. The bounds hint is required by the quadtree variant and must
// cover every point that will be inserted.
func newPointIndexMap[N Num](bounds Box[N]) pointIndexMap[N] {
	if isIntegral[N]() {
		return &hashPointMap[N]{m: make(map[Point[N]]int)}
	}
	return newQuadtreePointMap[N](bounds)
}

// hashPointMap backs the integer specialization with a plain map keyed by the
// exact point value.
type hashPointMap[N Num] struct {
	m map[Point[N]]int
}

func (h *hashPointMap[N]) Clear() {
	h.m = make(map[Point[N]]int)
}

func (h *hashPointMap[N]) Contains(p Point[N]) bool {
	_, ok := h.m[p]
	return ok
}

func (h *hashPointMap[N]) Insert(p Point[N], index int) {
	if _, ok := h.m[p]; !ok {
		h.m[p] = index
	}
}

func (h *hashPointMap[N]) At(p Point[N]) int {
	return h.m[p]
}

// quadtreePointMap backs the floating specialization with a 2D
// nearest-neighbor index. Contains is true iff the nearest stored point
// equals p under the element tolerance.
type quadtreePointMap[N Num] struct {
	bound orb.Bound
	qt    *quadtree.Quadtree
}

type indexedPoint struct {
	pt    orb.Point
	index int
}

func (ip indexedPoint) Point() orb.Point { return ip.pt }

func newQuadtreePointMap[N Num](bounds Box[N]) *quadtreePointMap[N] {
	// Pad by one unit so boundary points always fall inside.
	bound := orb.Bound{
		Min: orb.Point{float64(bounds.MinX) - 1, float64(bounds.MinY) - 1},
		Max: orb.Point{float64(bounds.MaxX) + 1, float64(bounds.MaxY) + 1},
	}
	return &quadtreePointMap[N]{bound: bound, qt: quadtree.New(bound)}
}

func (q *quadtreePointMap[N]) Clear() {
	q.qt = quadtree.New(q.bound)
}

func (q *quadtreePointMap[N]) find(p Point[N]) (indexedPoint, bool) {
	nearest := q.qt.Find(orb.Point{float64(p.X), float64(p.Y)})
	if nearest == nil {
		return indexedPoint{}, false
	}
	ip := nearest.(indexedPoint)
	if EQ(N(ip.pt[0]), p.X) && EQ(N(ip.pt[1]), p.Y) {
		return ip, true
	}
	return indexedPoint{}, false
}

func (q *quadtreePointMap[N]) Contains(p Point[N]) bool {
	_, ok := q.find(p)
	return ok
}

func (q *quadtreePointMap[N]) Insert(p Point[N], index int) {
	if q.Contains(p) {
		return
	}
	q.qt.Add(indexedPoint{pt: orb.Point{float64(p.X), float64(p.Y)}, index: index})
}

func (q *quadtreePointMap[N]) At(p Point[N]) int {
	ip, _ := q.find(p)
	return ip.index
}
