package merge

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// cleanPolygons runs point cleanup on every record, outer rings and holes
// both.
func cleanPolygons[P Prop, N Num](polygons []*PolygonWithProp[P, N], dist float64) {
	for _, polygon := range polygons {
		cleanPolygon(polygon, dist)
	}
}

func cleanPolygon[P Prop, N Num](polygon *PolygonWithProp[P, N], dist float64) {
	polygon.Solid = cleanRing(polygon.Solid, dist)
	for i, hole := range polygon.Holes {
		polygon.Holes[i] = cleanRing(hole, dist)
	}
}

// cleanRing simplifies a ring with Douglas-Peucker at the given tolerance,
// iterating until the point count stops decreasing. If the surviving
// endpoints sit further apart than the tolerance (squared distance against
// squared tolerance) the trailing point is dropped; a trailing point equal
// to the first is dropped as the closing duplicate. Rings that would fall
// below three points are returned unchanged.
func cleanRing[N Num](ring Ring[N], dist float64) Ring[N] {
	if len(ring) < 3 {
		return ring
	}

	// Work on the closed form so Douglas-Peucker pins both ring endpoints.
	out := ring.toOrbLineString()
	out = append(out, out[0])

	size := -1
	for size != len(out) {
		size = len(out)
		out = simplify.DouglasPeucker(dist).Simplify(out.Clone()).(orb.LineString)
	}

	if distSq(out[0], out[len(out)-1]) > dist*dist {
		out = out[:len(out)-1]
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	if len(out) < 3 {
		return ring
	}
	return ringFromOrb[N](out)
}

func distSq(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}
