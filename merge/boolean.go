package merge

import (
	"math"
	"slices"

	clipper "github.com/ctessum/go.clipper"
)

// boolRegion is one merged region produced by the boolean backend: an outer
// contour plus the hole contours directly nested inside it.
type boolRegion[N Num] struct {
	Outer Ring[N]
	Holes []Ring[N]
}

// boolResult is one entry of the property-keyed merge output: the exact set
// of input properties covering the region set, the shaped regions, and the
// flat closed polylines of the region set (used for conflict records).
type boolResult[P Prop, N Num] struct {
	Props    []P
	Regions  []boolRegion[N]
	Outlines []Ring[N]
}

// propertyMerger accumulates property-tagged contributions and merges them
// into regions keyed by the exact subset of properties covering them. Solids
// count positive, holes negative. The backend works on clipper's int64
// coordinates; floating element types are quantized by scale on the way in
// and divided back on the way out.
type propertyMerger[P Prop, N Num] struct {
	scale  float64
	inputs map[P]clipper.Paths
}

func newPropertyMerger[P Prop, N Num](scale float64) *propertyMerger[P, N] {
	if isIntegral[N]() || scale <= 0 {
		scale = 1
	}
	return &propertyMerger[P, N]{
		scale:  scale,
		inputs: make(map[P]clipper.Paths),
	}
}

// Insert adds one ring contribution under prop. Hole rings subtract from the
// property's coverage.
func (m *propertyMerger[P, N]) Insert(ring Ring[N], prop P, isHole bool) {
	if len(ring) < 3 {
		return
	}
	path := m.toPath(ring)
	// Non-zero fill: solids must wind positive, holes negative.
	if clipper.Orientation(path) == isHole {
		reversePath(path)
	}
	m.inputs[prop] = append(m.inputs[prop], path)
}

// Merge computes the property-set keyed overlay. Properties are processed in
// ascending order and each property's unioned coverage is distributed over
// the cells accumulated so far, so every output cell carries the exact
// subset of properties covering it. Results are sorted by property set.
func (m *propertyMerger[P, N]) Merge() []boolResult[P, N] {
	props := make([]P, 0, len(m.inputs))
	for p := range m.inputs {
		props = append(props, p)
	}
	slices.Sort(props)

	type cell struct {
		props []P
		paths clipper.Paths
	}
	var cells []cell
	for _, p := range props {
		u := m.execute(clipper.CtUnion, m.inputs[p], nil)
		if len(u) == 0 {
			continue
		}
		remainder := u
		next := make([]cell, 0, len(cells)+1)
		for _, c := range cells {
			inter := m.execute(clipper.CtIntersection, c.paths, u)
			if len(inter) == 0 {
				next = append(next, c)
				continue
			}
			if diff := m.execute(clipper.CtDifference, c.paths, u); len(diff) > 0 {
				next = append(next, cell{props: c.props, paths: diff})
			}
			joined := make([]P, len(c.props), len(c.props)+1)
			copy(joined, c.props)
			next = append(next, cell{props: append(joined, p), paths: inter})
			remainder = m.execute(clipper.CtDifference, remainder, c.paths)
		}
		if len(remainder) > 0 {
			next = append(next, cell{props: []P{p}, paths: remainder})
		}
		cells = next
	}

	results := make([]boolResult[P, N], 0, len(cells))
	for _, c := range cells {
		res := boolResult[P, N]{Props: c.props}
		for _, path := range c.paths {
			res.Outlines = append(res.Outlines, m.fromPath(path))
		}
		tree := m.executeTree(clipper.CtUnion, c.paths)
		if tree != nil {
			m.collectRegions(tree.Childs(), &res.Regions)
		}
		results = append(results, res)
	}
	slices.SortFunc(results, func(a, b boolResult[P, N]) int {
		return slices.Compare(a.Props, b.Props)
	})
	return results
}

func (m *propertyMerger[P, N]) execute(ct clipper.ClipType, subject, clip clipper.Paths) clipper.Paths {
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(subject, clipper.PtSubject, true)
	if clip != nil {
		c.AddPaths(clip, clipper.PtClip, true)
	}
	solution, ok := c.Execute1(ct, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil
	}
	return solution
}

func (m *propertyMerger[P, N]) executeTree(ct clipper.ClipType, subject clipper.Paths) *clipper.PolyTree {
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(subject, clipper.PtSubject, true)
	tree, ok := c.Execute2(ct, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil
	}
	return tree
}

// collectRegions walks outer-level poly nodes: each yields a region with its
// immediate hole children; islands nested inside holes start new regions.
func (m *propertyMerger[P, N]) collectRegions(outers []*clipper.PolyNode, out *[]boolRegion[N]) {
	for _, node := range outers {
		region := boolRegion[N]{Outer: m.fromPath(node.Contour())}
		for _, holeNode := range node.Childs() {
			region.Holes = append(region.Holes, m.fromPath(holeNode.Contour()))
		}
		*out = append(*out, region)
		for _, holeNode := range node.Childs() {
			m.collectRegions(holeNode.Childs(), out)
		}
	}
}

func (m *propertyMerger[P, N]) toPath(r Ring[N]) clipper.Path {
	path := make(clipper.Path, len(r))
	for i, pt := range r {
		path[i] = &clipper.IntPoint{
			X: clipper.CInt(math.Round(float64(pt.X) * m.scale)),
			Y: clipper.CInt(math.Round(float64(pt.Y) * m.scale)),
		}
	}
	return path
}

func (m *propertyMerger[P, N]) fromPath(path clipper.Path) Ring[N] {
	r := make(Ring[N], len(path))
	for i, ip := range path {
		r[i] = Point[N]{
			X: roundTo[N](float64(ip.X) / m.scale),
			Y: roundTo[N](float64(ip.Y) / m.scale),
		}
	}
	return r
}

func reversePath(path clipper.Path) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}
