package merge

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func squareFeature(x, y, size float64, layer string) *geojson.Feature {
	ring := orb.Ring{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
	}
	f := geojson.NewFeature(orb.Polygon{ring})
	f.Properties["layer"] = layer
	return f
}

func TestAddFeatureCollection(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(squareFeature(0, 0, 1, "metal1"))
	fc.Append(squareFeature(1, 0, 1, "metal1"))
	fc.Append(squareFeature(10, 10, 2, "via"))

	m := NewMerger[string, float64]()
	if err := AddFeatureCollection(m, fc, "layer"); err != nil {
		t.Fatalf("AddFeatureCollection: %v", err)
	}
	m.Merge()

	polys := m.GetAllPolygons()
	if len(polys) != 2 {
		t.Fatalf("got %d polygons, want 2", len(polys))
	}

	areas := map[string]float64{}
	for _, pd := range polys {
		areas[pd.Property] += pd.CoveredArea()
	}
	if got := areas["metal1"]; got < 1.999 || got > 2.001 {
		t.Errorf("metal1 area = %v, want 2", got)
	}
	if got := areas["via"]; got < 3.999 || got > 4.001 {
		t.Errorf("via area = %v, want 4", got)
	}
}

func TestAddFeatureCollectionSkipsNonAreal(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(orb.LineString{{0, 0}, {1, 1}})
	f.Properties["layer"] = "route"
	fc.Append(f)

	m := NewMerger[string, float64]()
	if err := AddFeatureCollection(m, fc, "layer"); err != nil {
		t.Fatalf("AddFeatureCollection: %v", err)
	}
	if polys := m.GetAllPolygons(); len(polys) != 0 {
		t.Error("non-polygon features must be skipped")
	}
}

func TestToFeatureCollection(t *testing.T) {
	m := NewMerger[string, float64]()
	m.AddObject("metal1", Ring[float64]{{0, 0}, {2, 0}, {2, 2}, {0, 2}})
	m.Merge()

	diffs := []PropDiffArea[string, float64]{
		{Props: []string{"metal1", "metal2"}, Outlines: []Ring[float64]{{{0, 0}, {1, 0}, {1, 1}, {0, 1}}}},
	}
	fc := ToFeatureCollection(m.GetAllPolygons(), diffs, "layer")

	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want polygon + conflict", len(fc.Features))
	}

	polyFeature := fc.Features[0]
	if polyFeature.Properties["layer"] != "metal1" {
		t.Errorf("layer property = %v, want metal1", polyFeature.Properties["layer"])
	}
	poly, ok := polyFeature.Geometry.(orb.Polygon)
	if !ok {
		t.Fatalf("first feature geometry is %T, want orb.Polygon", polyFeature.Geometry)
	}
	ring := poly[0]
	if len(ring) < 4 || ring[0] != ring[len(ring)-1] {
		t.Error("output rings must be closed")
	}

	conflictFeature := fc.Features[1]
	if conflictFeature.Properties["conflict"] != true {
		t.Error("conflict feature must be flagged")
	}
	if _, ok := conflictFeature.Geometry.(orb.MultiLineString); !ok {
		t.Errorf("conflict geometry is %T, want orb.MultiLineString", conflictFeature.Geometry)
	}
}

func TestGeoJSONRoundTripThroughMerge(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(squareFeature(0, 0, 2, "metal1"))
	fc.Append(squareFeature(1, 1, 2, "metal1"))

	m := NewMerger[string, float64]()
	if err := AddFeatureCollection(m, fc, "layer"); err != nil {
		t.Fatal(err)
	}
	m.Merge()

	out := ToFeatureCollection(m.GetAllPolygons(), m.PropDiffAreas(), "layer")
	if len(out.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(out.Features))
	}

	poly := out.Features[0].Geometry.(orb.Polygon)
	got := ringFromOrb[float64](orb.LineString(poly[0][:len(poly[0])-1])).Area()
	if got < 6.999 || got > 7.001 {
		t.Errorf("merged area = %v, want 7", got)
	}
}
