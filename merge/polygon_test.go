package merge

import "testing"

func TestPolygonNormalize(t *testing.T) {
	pd := &PolygonWithProp[int, int]{
		Property: 1,
		Solid:    Ring[int]{{0, 10}, {10, 10}, {10, 0}, {0, 0}}, // clockwise
		Holes: []Ring[int]{
			{{2, 2}, {4, 2}, {4, 4}, {2, 4}}, // counter-clockwise
		},
	}
	pd.Normalize()

	if !pd.Solid.IsCCW() {
		t.Error("solid must be counter-clockwise after Normalize")
	}
	if pd.Holes[0].IsCCW() {
		t.Error("hole must be clockwise after Normalize")
	}
}

func TestPolygonNormalizeIdempotent(t *testing.T) {
	pd := &PolygonWithProp[int, int]{
		Property: 1,
		Solid:    Ring[int]{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		Holes:    []Ring[int]{{{2, 4}, {4, 4}, {4, 2}, {2, 2}}},
	}
	pd.Normalize()
	solid := pd.Solid.Clone()
	hole := pd.Holes[0].Clone()

	pd.Normalize()
	for i := range solid {
		if pd.Solid[i] != solid[i] {
			t.Fatal("second Normalize changed the solid")
		}
	}
	for i := range hole {
		if pd.Holes[0][i] != hole[i] {
			t.Fatal("second Normalize changed the hole")
		}
	}
}

func TestPolygonBBoxCoversHoles(t *testing.T) {
	pd := &PolygonWithProp[int, int]{
		Solid: Ring[int]{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		Holes: []Ring[int]{{{2, 2}, {4, 2}, {4, 4}, {2, 4}}},
	}
	bbox := pd.BBox()
	want := Box[int]{0, 0, 10, 10}
	if bbox != want {
		t.Errorf("BBox = %+v, want %+v", bbox, want)
	}
}

func TestRemoveTinyHoles(t *testing.T) {
	pd := &PolygonWithProp[int, int]{
		Solid: Ring[int]{{0, 0}, {20, 0}, {20, 20}, {0, 20}},
		Holes: []Ring[int]{
			{{1, 1}, {2, 1}, {2, 2}, {1, 2}},     // area 1
			{{5, 5}, {10, 5}, {10, 10}, {5, 10}}, // area 25
		},
	}
	pd.RemoveTinyHoles(2)

	if len(pd.Holes) != 1 {
		t.Fatalf("got %d holes, want 1", len(pd.Holes))
	}
	if got := pd.Holes[0].Area(); got != 25 {
		t.Errorf("surviving hole area = %v, want 25", got)
	}
	if !pd.HasHole() {
		t.Error("HasHole should still be true")
	}
}

func TestCoveredAreaIgnoresHoles(t *testing.T) {
	pd := &PolygonWithProp[int, int]{
		Solid: Ring[int]{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		Holes: []Ring[int]{{{2, 2}, {4, 2}, {4, 4}, {2, 4}}},
	}
	if got := pd.CoveredArea(); got != 100 {
		t.Errorf("CoveredArea = %v, want 100 (solid only)", got)
	}
}
