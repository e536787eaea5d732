package merge

import "testing"

func unitSquare[N Num](x, y N) Ring[N] {
	return Ring[N]{{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}}
}

func TestRingArea(t *testing.T) {
	square := Ring[int]{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got := square.Area(); got != 100 {
		t.Errorf("Area = %v, want 100", got)
	}
	if !square.IsCCW() {
		t.Error("square as listed should be counter-clockwise")
	}

	square.Reverse()
	if square.IsCCW() {
		t.Error("reversed square should be clockwise")
	}
	if got := square.Area(); got != 100 {
		t.Errorf("Area after reverse = %v, want 100", got)
	}
}

func TestRingBBox(t *testing.T) {
	ring := Ring[float64]{{1, 2}, {5, -3}, {-2, 4}}
	bbox := ring.BBox()
	want := Box[float64]{MinX: -2, MinY: -3, MaxX: 5, MaxY: 4}
	if bbox != want {
		t.Errorf("BBox = %+v, want %+v", bbox, want)
	}
}

func TestBoxOps(t *testing.T) {
	t.Run("inverted box is invalid until extended", func(t *testing.T) {
		b := InvertedBox[int]()
		if b.Valid() {
			t.Error("inverted box should be invalid")
		}
		b.Extend(Point[int]{3, 4})
		if !b.Valid() || b.MinX != 3 || b.MaxY != 4 {
			t.Errorf("extend broken: %+v", b)
		}
	})

	t.Run("touching boxes intersect", func(t *testing.T) {
		a := Box[int]{0, 0, 1, 1}
		b := Box[int]{1, 0, 2, 1}
		c := Box[int]{3, 3, 4, 4}
		if !a.Intersects(b) {
			t.Error("boxes sharing an edge must intersect")
		}
		if a.Intersects(c) {
			t.Error("disjoint boxes must not intersect")
		}
	})
}
