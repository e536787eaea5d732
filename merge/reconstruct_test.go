package merge

import "testing"

func TestReconstructSimpleRing(t *testing.T) {
	in := Ring[int]{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	pd := reconstructPolygon(in.Clone(), 1)
	if pd == nil {
		t.Fatal("reconstruction returned nil")
	}
	if len(pd.Holes) != 0 {
		t.Errorf("simple ring produced %d holes", len(pd.Holes))
	}
	if got := pd.Solid.Area(); got != 100 {
		t.Errorf("outer area = %v, want 100", got)
	}
	if !pd.Solid.IsCCW() {
		t.Error("outer must be counter-clockwise")
	}
}

func TestReconstructDropsClosingDuplicate(t *testing.T) {
	in := Ring[int]{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	pd := reconstructPolygon(in, 1)
	if pd == nil {
		t.Fatal("reconstruction returned nil")
	}
	if len(pd.Solid) != 4 {
		t.Errorf("outer has %d points, want 4", len(pd.Solid))
	}
}

func TestReconstructPinchedHole(t *testing.T) {
	// Ring excursion through (4,4): the revisit pinches off the 2x2 square.
	in := Ring[int]{
		{0, 0}, {10, 0}, {10, 10},
		{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4},
		{0, 10},
	}
	pd := reconstructPolygon(in, 1)
	if pd == nil {
		t.Fatal("reconstruction returned nil")
	}
	if len(pd.Holes) != 1 {
		t.Fatalf("got %d holes, want 1", len(pd.Holes))
	}
	if got := pd.Holes[0].Area(); got != 4 {
		t.Errorf("hole area = %v, want 4", got)
	}
	if pd.Holes[0].IsCCW() {
		t.Error("hole must be clockwise after reconstruction")
	}
	if !pd.Solid.IsCCW() {
		t.Error("outer must be counter-clockwise")
	}
	// The pinch point stays on the outer ring.
	if len(pd.Solid) != 5 {
		t.Errorf("outer has %d points, want 5", len(pd.Solid))
	}
}

func TestReconstructRejectsDegeneratePinch(t *testing.T) {
	t.Run("duplicate consecutive point", func(t *testing.T) {
		in := Ring[int]{{0, 0}, {10, 0}, {10, 10}, {10, 10}}
		pd := reconstructPolygon(in, 1)
		if pd == nil {
			t.Fatal("reconstruction returned nil")
		}
		if len(pd.Holes) != 0 {
			t.Errorf("degenerate pinch produced %d holes", len(pd.Holes))
		}
		if len(pd.Solid) != 3 {
			t.Errorf("outer has %d points, want 3", len(pd.Solid))
		}
	})

	t.Run("zero-height excursion", func(t *testing.T) {
		// The spike to (7,0) and back pinches off a flat two-point ring.
		in := Ring[int]{{0, 0}, {5, 0}, {7, 0}, {5, 0}, {10, 0}, {10, 10}, {0, 10}}
		pd := reconstructPolygon(in, 1)
		if pd == nil {
			t.Fatal("reconstruction returned nil")
		}
		if len(pd.Holes) != 0 {
			t.Errorf("flat excursion produced %d holes", len(pd.Holes))
		}
	})
}

func TestReconstructFloatRing(t *testing.T) {
	in := Ring[float64]{
		{0, 0}, {10, 0}, {10, 10},
		{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4},
		{0, 10},
	}
	pd := reconstructPolygon(in, "metal1")
	if pd == nil {
		t.Fatal("reconstruction returned nil")
	}
	if len(pd.Holes) != 1 {
		t.Fatalf("got %d holes, want 1", len(pd.Holes))
	}
	if got := pd.Holes[0].Area(); got != 4 {
		t.Errorf("hole area = %v, want 4", got)
	}
}

func TestReconstructTooFewPoints(t *testing.T) {
	if pd := reconstructPolygon(Ring[int]{{0, 0}, {1, 1}}, 1); pd != nil {
		t.Error("two-point input should reconstruct to nil")
	}
}
