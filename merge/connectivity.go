package merge

import (
	"sort"

	flatbush "github.com/bmharper/flatbush-go/v2"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// connectivityExtraction builds the "bounding boxes overlap" adjacency
// relation over items and returns its connected components. Components are
// ordered by ascending minimum member index, and indices inside a component
// ascend. The overlap probe goes through a packed spatial index rather than
// pairwise comparison.
func connectivityExtraction[T any, N Num](items []T, boxOf func(T) Box[N]) [][]int {
	n := len(items)
	if n == 0 {
		return nil
	}

	boxes := make([]Box[N], n)
	fb := flatbush.NewFlatbush[float64]()
	fb.Reserve(n)
	for i, it := range items {
		boxes[i] = boxOf(it)
		b := boxes[i]
		fb.Add(float64(b.MinX), float64(b.MinY), float64(b.MaxX), float64(b.MaxY))
	}
	fb.Finish()

	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	var hits []int
	for i := 0; i < n; i++ {
		b := boxes[i]
		hits = fb.SearchFast(float64(b.MinX), float64(b.MinY), float64(b.MaxX), float64(b.MaxY), hits)
		for _, j := range hits {
			if j == i {
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
		}
	}

	components := make([][]int, 0)
	for _, comp := range topo.ConnectedComponents(g) {
		indices := make([]int, len(comp))
		for k, node := range comp {
			indices[k] = int(node.ID())
		}
		sort.Ints(indices)
		components = append(components, indices)
	}
	sort.Slice(components, func(a, b int) bool {
		return components[a][0] < components[b][0]
	})
	return components
}
