package merge

// reconstructPolygon converts one closed polyline as produced by the boolean
// backend, possibly self-touching at vertices, into a polygon record with one
// outer ring and zero or more holes. Every self-touch pinches off a hole: the
// walk keeps a point-index map of visited points, and whenever a point
// reoccurs the sub-ring between the two occurrences is spliced out of a
// circular doubly-linked list over the polyline indices. Degenerate pinches
// (width or height <= 1 for integer coordinates, area <= 0 under tolerance
// for floats) are discarded.
func reconstructPolygon[P Prop, N Num](in Ring[N], prop P) *PolygonWithProp[P, N] {
	if len(in) > 1 && in[0] == in[len(in)-1] {
		in = in[:len(in)-1]
	}
	if len(in) < 3 {
		return nil
	}

	pd := &PolygonWithProp[P, N]{Property: prop}

	size := len(in)
	type ptNode struct {
		prev, next int
	}
	nodes := make([]ptNode, size)
	for i := range nodes {
		nodes[i].prev = (i + size - 1) % size
		nodes[i].next = (i + 1) % size
	}

	ptMap := newPointIndexMap[N](in.BBox())
	for i := 0; i < size; i++ {
		if ptMap.Contains(in[i]) {
			prev := ptMap.At(in[i])
			curr := i
			next := nodes[curr].next

			// Pull the sub-ring prev..curr out of the main ring.
			nodes[curr].next = prev
			var hole Ring[N]
			start := prev
			index := start
			for start != nodes[index].next {
				hole = append(hole, in[index])
				index = nodes[index].next
			}

			if !degenerateHole(hole) {
				pd.Holes = append(pd.Holes, hole)
			}

			// Re-stitch the main ring across the splice.
			prev = nodes[prev].prev
			nodes[prev].next = curr
			nodes[curr].prev = prev
			nodes[curr].next = next
		}
		ptMap.Insert(in[i], i)
	}

	var solid Ring[N]
	start := size - 1
	index := start
	for start != nodes[index].next {
		solid = append(solid, in[index])
		index = nodes[index].next
	}
	solid = append(solid, in[index])
	pd.Solid = solid

	pd.Normalize()
	return pd
}

// degenerateHole reports whether a spliced-out candidate ring is too thin to
// be a real hole.
func degenerateHole[N Num](hole Ring[N]) bool {
	bbox := hole.BBox()
	if isIntegral[N]() {
		return bbox.Width() <= 1 || bbox.Height() <= 1
	}
	return LE(bbox.Area(), 0)
}
