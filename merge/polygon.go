package merge

import "cmp"

// Prop is the set of property tag types: comparable and orderable, so tags
// can key maps and be iterated deterministically.
type Prop interface {
	cmp.Ordered
}

// PolygonWithProp is one merge participant: a property tag, an outer ring and
// zero or more hole rings. After Normalize the solid winds counter-clockwise
// and every hole winds clockwise.
type PolygonWithProp[P Prop, N Num] struct {
	Property P
	Solid    Ring[N]
	Holes    []Ring[N]
}

// HasHole reports whether the polygon carries any hole rings.
func (p *PolygonWithProp[P, N]) HasHole() bool {
	return len(p.Holes) > 0
}

// BBox returns the union of the solid's extent and all holes' extents.
func (p *PolygonWithProp[P, N]) BBox() Box[N] {
	bbox := p.Solid.BBox()
	for _, hole := range p.Holes {
		bbox.Union(hole.BBox())
	}
	return bbox
}

// CoveredArea returns the area of the solid ring only; interpreting holes is
// left to callers.
func (p *PolygonWithProp[P, N]) CoveredArea() float64 {
	return p.Solid.Area()
}

// Normalize orients the solid counter-clockwise and every hole clockwise.
func (p *PolygonWithProp[P, N]) Normalize() {
	if !p.Solid.IsCCW() {
		p.Solid.Reverse()
	}
	for _, hole := range p.Holes {
		if hole.IsCCW() {
			hole.Reverse()
		}
	}
}

// RemoveTinyHoles drops holes whose absolute area is below the threshold.
func (p *PolygonWithProp[P, N]) RemoveTinyHoles(area float64) {
	kept := p.Holes[:0]
	for _, hole := range p.Holes {
		if !LT(hole.Area(), area) {
			kept = append(kept, hole)
		}
	}
	p.Holes = kept
	if len(p.Holes) == 0 {
		p.Holes = nil
	}
}
