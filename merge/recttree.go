package merge

import "sort"

// rectNode is one node of the merge task tree: a hierarchical spatial
// partition of polygon records keyed by their bounding boxes. Children are
// packed sort-tile-recursive style, so their boxes are content-tight and may
// overlap; records straddling nothing in particular all live in leaves.
// Every record is referenced by exactly one node at any time.
type rectNode[P Prop, N Num] struct {
	bbox     Box[N]
	children []*rectNode[P, N]
	objs     []*PolygonWithProp[P, N]
}

// treeFanout is the maximum child count per interior node.
const treeFanout = 4

// SetBBox fixes the node's bounding box before Build.
func (n *rectNode[P, N]) SetBBox(b Box[N]) {
	n.bbox = b
}

// BBox returns the node's bounding box.
func (n *rectNode[P, N]) BBox() Box[N] {
	return n.bbox
}

// HasChild reports whether the node has any children.
func (n *rectNode[P, N]) HasChild() bool {
	return len(n.children) > 0
}

// Children returns the child nodes.
func (n *rectNode[P, N]) Children() []*rectNode[P, N] {
	return n.children
}

// Objs returns the records held at this node only.
func (n *rectNode[P, N]) Objs() []*PolygonWithProp[P, N] {
	return n.objs
}

// AllObjects appends the records of this node and all descendants, in
// depth-first traversal order.
func (n *rectNode[P, N]) AllObjects(out []*PolygonWithProp[P, N]) []*PolygonWithProp[P, N] {
	out = append(out, n.objs...)
	for _, child := range n.children {
		out = child.AllObjects(out)
	}
	return out
}

// Clear drops the node's records and children without touching the records
// themselves.
func (n *rectNode[P, N]) Clear() {
	n.objs = nil
	n.children = nil
}

// Build (re)seats items into a fresh partition below this node. Leaves hold
// at most threshold records; threshold zero means one bucket, no splitting.
// The node's bbox tightens to the union of the item boxes unless it was set
// explicitly on an empty tree.
func (n *rectNode[P, N]) Build(items []*PolygonWithProp[P, N], threshold int) {
	n.children = nil
	n.objs = nil
	if len(items) == 0 {
		return
	}

	bbox := InvertedBox[N]()
	for _, it := range items {
		bbox.Union(it.BBox())
	}
	n.bbox = bbox

	if threshold <= 0 || len(items) <= threshold {
		n.objs = items
		return
	}

	for _, group := range strSplit(items, treeFanout) {
		child := &rectNode[P, N]{}
		child.Build(group, threshold)
		n.children = append(n.children, child)
	}
}

// strSplit partitions items into up to fanout groups by sorting on bounding
// box centers: first into columns by X, then each column into runs by Y.
func strSplit[P Prop, N Num](items []*PolygonWithProp[P, N], fanout int) [][]*PolygonWithProp[P, N] {
	cols := 2
	rows := (fanout + cols - 1) / cols

	byX := make([]*PolygonWithProp[P, N], len(items))
	copy(byX, items)
	sort.SliceStable(byX, func(i, j int) bool {
		xi, _ := byX[i].BBox().Center()
		xj, _ := byX[j].BBox().Center()
		return xi < xj
	})

	var groups [][]*PolygonWithProp[P, N]
	for _, col := range chunk(byX, cols) {
		sort.SliceStable(col, func(i, j int) bool {
			_, yi := col[i].BBox().Center()
			_, yj := col[j].BBox().Center()
			return yi < yj
		})
		groups = append(groups, chunk(col, rows)...)
	}
	return groups
}

// chunk slices items into at most parts contiguous, near-equal groups.
func chunk[T any](items []T, parts int) [][]T {
	if parts > len(items) {
		parts = len(items)
	}
	out := make([][]T, 0, parts)
	size := (len(items) + parts - 1) / parts
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end:end])
	}
	return out
}
