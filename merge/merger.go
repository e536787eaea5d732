package merge

import (
	"errors"
	"sync"
)

// ErrInvalidGeometry is returned by the Add methods when an outer ring has
// fewer than three points after dropping a duplicate closing point.
var ErrInvalidGeometry = errors.New("polygon needs at least three points")

// PropDiffArea records one region covered by inputs with distinct
// properties: the property set and the closed polylines outlining the
// region. Produced only when Settings.CheckPropertyDiff is enabled.
type PropDiffArea[P Prop, N Num] struct {
	Props    []P
	Outlines []Ring[N]
}

// Merger merges property-tagged polygons: overlapping or touching polygons
// with the same property are unioned, and regions covered by distinct
// properties are either folded onto a canonical property or reported as
// conflicts. The zero value is not usable; construct with NewMerger.
//
// Lifecycle: AddObject/AddBox accumulate records, Merge or RunParallel
// performs the merge, GetAllPolygons returns the result, Clear resets.
type Merger[P Prop, N Num] struct {
	settings Settings
	bbox     Box[N]
	datas    []*PolygonWithProp[P, N]
	tree     rectNode[P, N]

	// propertyMap and propDiffAreas are written by concurrent region merges.
	mu            sync.Mutex
	propertyMap   map[P]P
	propDiffAreas []PropDiffArea[P, N]
}

// NewMerger returns an empty merger with default settings.
func NewMerger[P Prop, N Num]() *Merger[P, N] {
	return &Merger[P, N]{
		settings:    DefaultSettings(),
		bbox:        InvertedBox[N](),
		propertyMap: make(map[P]P),
	}
}

// SetSettings replaces the merge settings. Call before Merge.
func (m *Merger[P, N]) SetSettings(settings Settings) {
	m.settings = settings
}

// Settings returns the current merge settings.
func (m *Merger[P, N]) Settings() Settings {
	return m.settings
}

// AddBox ingests an axis-aligned rectangle under the given property.
func (m *Merger[P, N]) AddBox(property P, box Box[N]) (*PolygonWithProp[P, N], error) {
	if !box.Valid() {
		return nil, ErrInvalidGeometry
	}
	solid := Ring[N]{
		{box.MinX, box.MinY},
		{box.MaxX, box.MinY},
		{box.MaxX, box.MaxY},
		{box.MinX, box.MaxY},
	}
	return m.addPolygonData(&PolygonWithProp[P, N]{Property: property, Solid: solid})
}

// AddObject ingests a polygon, optionally with holes, under the given
// property. A duplicate closing point on the outer ring is dropped; an outer
// ring with fewer than three points afterwards is rejected with
// ErrInvalidGeometry and not retained.
func (m *Merger[P, N]) AddObject(property P, solid Ring[N], holes ...Ring[N]) (*PolygonWithProp[P, N], error) {
	solid = dropClosingPoint(solid)
	if len(solid) < 3 {
		return nil, ErrInvalidGeometry
	}
	pd := &PolygonWithProp[P, N]{Property: property, Solid: solid}
	for _, hole := range holes {
		hole = dropClosingPoint(hole)
		if len(hole) < 3 {
			return nil, ErrInvalidGeometry
		}
		pd.Holes = append(pd.Holes, hole)
	}
	return m.addPolygonData(pd)
}

func dropClosingPoint[N Num](ring Ring[N]) Ring[N] {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		return ring[:len(ring)-1]
	}
	return ring
}

func (m *Merger[P, N]) addPolygonData(pd *PolygonWithProp[P, N]) (*PolygonWithProp[P, N], error) {
	pd.Normalize()
	m.bbox.Union(pd.BBox())
	m.datas = append(m.datas, pd)
	return pd, nil
}

// Merge runs the merge on the calling goroutine. Merging with no records is
// a no-op.
func (m *Merger[P, N]) Merge() {
	m.preProcess()
	m.mergeRegion(&m.tree)
	m.postProcess()
}

// RunParallel runs the merge on a pool of the given size. A thread count of
// one or less falls back to the sequential path.
func (m *Merger[P, N]) RunParallel(threads int) {
	if threads <= 1 {
		m.Merge()
		return
	}
	NewRunner(m, threads).Run()
}

// GetAllPolygons returns every record the merger currently holds: the merged
// tree content, or the not-yet-partitioned input list if no merge has run.
func (m *Merger[P, N]) GetAllPolygons() []*PolygonWithProp[P, N] {
	polygons := m.tree.AllObjects(nil)
	if len(polygons) == 0 && len(m.datas) > 0 {
		polygons = append(polygons, m.datas...)
	}
	return polygons
}

// BBox returns the aggregate bounding box of everything added so far.
func (m *Merger[P, N]) BBox() Box[N] {
	return m.bbox
}

// PropDiffAreas returns the conflict records collected by the last merge.
func (m *Merger[P, N]) PropDiffAreas() []PropDiffArea[P, N] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.propDiffAreas
}

// Clear releases every surviving record and resets the merger for reuse.
func (m *Merger[P, N]) Clear() {
	m.datas = nil
	m.tree.Clear()
	m.mu.Lock()
	m.propertyMap = make(map[P]P)
	m.propDiffAreas = nil
	m.mu.Unlock()
	m.bbox.SetInvalid()
}

func (m *Merger[P, N]) preProcess() {
	if m.settings.CleanPolygonPoints && IsPositive(m.settings.CleanPointDist) {
		cleanPolygons(m.GetAllPolygons(), m.settings.CleanPointDist)
	}
	m.buildTaskTree()
}

func (m *Merger[P, N]) buildTaskTree() {
	m.tree.SetBBox(m.bbox)
	m.tree.Build(m.datas, m.settings.MergeThreshold)
	m.datas = nil
}

func (m *Merger[P, N]) postProcess() {
	if m.settings.CleanPolygonPoints && IsPositive(m.settings.CleanPointDist) {
		cleanPolygons(m.GetAllPolygons(), m.settings.CleanPointDist)
	}
	if m.settings.IgnoreTinySolid && IsPositive(m.settings.TinySolidArea) {
		m.filterOutTinyArea()
	}
}

// mergeRegion merges one tree node depth-first: children complete before the
// parent so the parent consumes their merged output, not their raw input.
func (m *Merger[P, N]) mergeRegion(node *rectNode[P, N]) {
	for _, child := range node.Children() {
		m.mergeRegion(child)
	}
	m.mergeNode(node)
}

// mergeNode performs the node-local merge. Children must already be merged.
// Sibling subtrees with mutually overlapping boxes are drained and merged
// jointly first, then the node's own records are merged with everything
// below, and the result is re-seated into the node.
func (m *Merger[P, N]) mergeNode(node *rectNode[P, N]) {
	merged := false
	var mergedObjs []*PolygonWithProp[P, N]

	for _, group := range m.overlappedSubTaskNodes(node) {
		var objs []*PolygonWithProp[P, N]
		for _, subNode := range group {
			objs = append(objs, subNode.Objs()...)
			subNode.Clear()
		}
		objs = m.mergePolygons(objs)
		mergedObjs = append(mergedObjs, objs...)
		merged = true
	}

	allObjs := node.AllObjects(nil)
	allObjs = append(allObjs, mergedObjs...)

	if len(node.Objs()) > 0 {
		allObjs = m.mergePolygons(allObjs)
		merged = true
	}

	if merged {
		m.filterOutTinyHoles(allObjs)
	}
	node.Build(allObjs, 0)
}

// overlappedSubTaskNodes groups this node's children by mutual bounding-box
// overlap and returns the groups with more than one member.
func (m *Merger[P, N]) overlappedSubTaskNodes(node *rectNode[P, N]) [][]*rectNode[P, N] {
	children := node.Children()
	if len(children) < 2 {
		return nil
	}
	boxOf := func(n *rectNode[P, N]) Box[N] { return n.BBox() }
	var groups [][]*rectNode[P, N]
	for _, component := range connectivityExtraction(children, boxOf) {
		if len(component) < 2 {
			continue
		}
		group := make([]*rectNode[P, N], len(component))
		for k, idx := range component {
			group[k] = children[idx]
		}
		groups = append(groups, group)
	}
	return groups
}

// mergePolygons unions the given records respecting property semantics and
// returns the replacement records. The inputs are consumed.
func (m *Merger[P, N]) mergePolygons(polygons []*PolygonWithProp[P, N]) []*PolygonWithProp[P, N] {
	if len(polygons) <= 1 {
		return polygons
	}

	merger := newPropertyMerger[P, N](m.settings.ClipperScale)
	for _, pd := range polygons {
		property := m.resolveProperty(pd.Property)
		merger.Insert(pd.Solid, property, false)
		for _, hole := range pd.Holes {
			merger.Insert(hole, property, true)
		}
	}

	var out []*PolygonWithProp[P, N]
	redirected := false
	for _, result := range merger.Merge() {
		props := result.Props
		if len(props) == 0 {
			continue
		}
		if len(props) > 1 {
			if m.settings.CheckPropertyDiff {
				m.addPropDiffArea(props, result.Outlines)
				continue
			}
			m.redirectProperties(props)
			redirected = true
		}
		property := props[0]
		for _, region := range result.Regions {
			pd := reconstructPolygon(region.Outer, property)
			if pd == nil {
				continue
			}
			for _, hole := range region.Holes {
				if !degenerateHole(hole) {
					pd.Holes = append(pd.Holes, hole)
				}
			}
			pd.Normalize()
			out = append(out, pd)
		}
	}
	if redirected {
		// The redirects only apply at insertion time, so regions split by
		// the old properties re-merge under the canonical one.
		return m.mergePolygons(out)
	}
	return out
}

// resolveProperty maps a property through the conflict-resolution map: one
// level of redirect, never chased transitively.
func (m *Merger[P, N]) resolveProperty(p P) P {
	m.mu.Lock()
	defer m.mu.Unlock()
	if canonical, ok := m.propertyMap[p]; ok {
		return canonical
	}
	return p
}

// redirectProperties repoints every non-canonical member of a conflict set
// to the first (canonical) one.
func (m *Merger[P, N]) redirectProperties(props []P) {
	m.mu.Lock()
	defer m.mu.Unlock()
	canonical := props[0]
	for _, p := range props[1:] {
		m.propertyMap[p] = canonical
	}
}

func (m *Merger[P, N]) addPropDiffArea(props []P, outlines []Ring[N]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.propDiffAreas = append(m.propDiffAreas, PropDiffArea[P, N]{
		Props:    props,
		Outlines: outlines,
	})
}

func (m *Merger[P, N]) filterOutTinyHoles(polygons []*PolygonWithProp[P, N]) {
	if m.settings.IgnoreTinyHoles && IsPositive(m.settings.TinyHolesArea) {
		for _, polygon := range polygons {
			polygon.RemoveTinyHoles(m.settings.TinyHolesArea)
		}
	}
}

func (m *Merger[P, N]) filterOutTinyArea() {
	polygons := m.GetAllPolygons()
	kept := polygons[:0]
	for _, polygon := range polygons {
		if !LT(polygon.CoveredArea(), m.settings.TinySolidArea) {
			kept = append(kept, polygon)
		}
	}
	m.tree.Build(kept, 0)
}
