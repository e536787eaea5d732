package merge

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// AddFeatureCollection ingests every Polygon and MultiPolygon feature of a
// GeoJSON FeatureCollection into the merger, tagged with the string value of
// the given property key. Features missing the key merge under the empty
// property. Features with invalid outer rings abort with an error naming the
// feature index.
func AddFeatureCollection(m *Merger[string, float64], fc *geojson.FeatureCollection, propertyKey string) error {
	for i, feature := range fc.Features {
		property := ""
		if v, ok := feature.Properties[propertyKey]; ok {
			property = fmt.Sprintf("%v", v)
		}

		var polygons []orb.Polygon
		switch geom := feature.Geometry.(type) {
		case orb.Polygon:
			polygons = []orb.Polygon{geom}
		case orb.MultiPolygon:
			polygons = geom
		default:
			continue
		}

		for _, polygon := range polygons {
			if len(polygon) == 0 {
				continue
			}
			solid := ringFromOrb[float64](orb.LineString(polygon[0]))
			var holes []Ring[float64]
			for _, hole := range polygon[1:] {
				holes = append(holes, ringFromOrb[float64](orb.LineString(hole)))
			}
			if _, err := m.AddObject(property, solid, holes...); err != nil {
				return fmt.Errorf("feature %d: %w", i, err)
			}
		}
	}
	return nil
}

// ToFeatureCollection converts merged records and conflict records back to a
// GeoJSON FeatureCollection. Each record becomes one Polygon feature with the
// merge property under propertyKey; each conflict record becomes one
// MultiLineString feature listing the conflicting properties.
func ToFeatureCollection(polygons []*PolygonWithProp[string, float64], diffs []PropDiffArea[string, float64], propertyKey string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, pd := range polygons {
		poly := orb.Polygon{closedOrbRing(pd.Solid)}
		for _, hole := range pd.Holes {
			poly = append(poly, closedOrbRing(hole))
		}
		feature := geojson.NewFeature(poly)
		feature.Properties[propertyKey] = pd.Property
		fc.Append(feature)
	}

	for _, diff := range diffs {
		mls := make(orb.MultiLineString, 0, len(diff.Outlines))
		for _, outline := range diff.Outlines {
			ls := outline.toOrbLineString()
			if len(ls) > 0 {
				ls = append(ls, ls[0])
			}
			mls = append(mls, ls)
		}
		feature := geojson.NewFeature(mls)
		feature.Properties["conflict"] = true
		feature.Properties["properties"] = diff.Props
		fc.Append(feature)
	}

	return fc
}

func closedOrbRing(r Ring[float64]) orb.Ring {
	ring := make(orb.Ring, 0, len(r)+1)
	for _, p := range r {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}
