package merge

import "github.com/paulmach/orb"

// Point is a 2D coordinate. X increases to the right, Y up the page.
type Point[N Num] struct {
	X, Y N
}

// Box is an axis-aligned bounding rectangle.
type Box[N Num] struct {
	MinX, MinY, MaxX, MaxY N
}

// InvertedBox returns a box with inverted extents, so that any Extend or
// Union call makes it valid.
func InvertedBox[N Num]() Box[N] {
	var b Box[N]
	b.SetInvalid()
	return b
}

// SetInvalid inverts the box extents.
func (b *Box[N]) SetInvalid() {
	b.MinX, b.MinY = maxValue[N](), maxValue[N]()
	b.MaxX, b.MaxY = minValue[N](), minValue[N]()
}

// Valid reports whether the box covers at least a single point.
func (b Box[N]) Valid() bool {
	return b.MinX <= b.MaxX && b.MinY <= b.MaxY
}

// Extend grows the box to cover p.
func (b *Box[N]) Extend(p Point[N]) {
	b.MinX = minN(b.MinX, p.X)
	b.MinY = minN(b.MinY, p.Y)
	b.MaxX = maxN(b.MaxX, p.X)
	b.MaxY = maxN(b.MaxY, p.Y)
}

// Union grows the box to cover o.
func (b *Box[N]) Union(o Box[N]) {
	if !o.Valid() {
		return
	}
	b.MinX = minN(b.MinX, o.MinX)
	b.MinY = minN(b.MinY, o.MinY)
	b.MaxX = maxN(b.MaxX, o.MaxX)
	b.MaxY = maxN(b.MaxY, o.MaxY)
}

// Intersects reports whether the two boxes overlap or touch.
func (b Box[N]) Intersects(o Box[N]) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX &&
		b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// Width returns the X extent of the box.
func (b Box[N]) Width() N { return b.MaxX - b.MinX }

// Height returns the Y extent of the box.
func (b Box[N]) Height() N { return b.MaxY - b.MinY }

// Area returns the box area.
func (b Box[N]) Area() float64 {
	if !b.Valid() {
		return 0
	}
	return float64(b.Width()) * float64(b.Height())
}

// Center returns the box midpoint in float coordinates.
func (b Box[N]) Center() (x, y float64) {
	return (float64(b.MinX) + float64(b.MaxX)) / 2, (float64(b.MinY) + float64(b.MaxY)) / 2
}

// Ring is an ordered point sequence forming a closed polygon outline. The
// closing edge from the last point back to the first is implicit.
type Ring[N Num] []Point[N]

// SignedArea returns the shoelace area of the ring: positive for
// counter-clockwise orientation, negative for clockwise.
func (r Ring[N]) SignedArea() float64 {
	if len(r) < 3 {
		return 0
	}
	var sum float64
	for i, p := range r {
		q := r[(i+1)%len(r)]
		sum += float64(p.X)*float64(q.Y) - float64(q.X)*float64(p.Y)
	}
	return sum / 2
}

// Area returns the absolute ring area.
func (r Ring[N]) Area() float64 {
	a := r.SignedArea()
	if a < 0 {
		return -a
	}
	return a
}

// IsCCW reports whether the ring winds counter-clockwise.
func (r Ring[N]) IsCCW() bool {
	return r.SignedArea() > 0
}

// Reverse flips the winding direction in place.
func (r Ring[N]) Reverse() {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}

// BBox returns the bounding box of the ring.
func (r Ring[N]) BBox() Box[N] {
	b := InvertedBox[N]()
	for _, p := range r {
		b.Extend(p)
	}
	return b
}

// Clone returns a copy of the ring.
func (r Ring[N]) Clone() Ring[N] {
	out := make(Ring[N], len(r))
	copy(out, r)
	return out
}

// toOrbLineString converts the ring to an orb.LineString for use with the orb
// helpers, which work in float64.
func (r Ring[N]) toOrbLineString() orb.LineString {
	ls := make(orb.LineString, len(r))
	for i, p := range r {
		ls[i] = orb.Point{float64(p.X), float64(p.Y)}
	}
	return ls
}

// ringFromOrb converts an orb.LineString back to a ring, rounding
// coordinates to the nearest value for integer element types.
func ringFromOrb[N Num](ls orb.LineString) Ring[N] {
	r := make(Ring[N], len(ls))
	for i, p := range ls {
		r[i] = Point[N]{X: roundTo[N](p[0]), Y: roundTo[N](p[1])}
	}
	return r
}

func minN[N Num](a, b N) N {
	if a < b {
		return a
	}
	return b
}

func maxN[N Num](a, b N) N {
	if a > b {
		return a
	}
	return b
}
