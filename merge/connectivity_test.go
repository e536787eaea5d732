package merge

import (
	"reflect"
	"testing"
)

func TestConnectivityExtraction(t *testing.T) {
	ident := func(b Box[int]) Box[int] { return b }

	t.Run("two chains and a loner", func(t *testing.T) {
		boxes := []Box[int]{
			{0, 0, 2, 2},   // 0 overlaps 1
			{1, 1, 3, 3},   // 1 overlaps 0 and 2
			{3, 3, 5, 5},   // 2 touches 1 at a corner
			{10, 10, 11, 11}, // 3 isolated
			{20, 0, 22, 2}, // 4 overlaps 5
			{21, 0, 23, 2}, // 5
		}
		got := connectivityExtraction(boxes, ident)
		want := [][]int{{0, 1, 2}, {3}, {4, 5}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("components = %v, want %v", got, want)
		}
	})

	t.Run("deterministic ordering", func(t *testing.T) {
		boxes := []Box[int]{
			{5, 5, 6, 6},
			{0, 0, 1, 1},
			{5, 5, 7, 7},
		}
		got := connectivityExtraction(boxes, ident)
		want := [][]int{{0, 2}, {1}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("components = %v, want %v", got, want)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := connectivityExtraction(nil, ident); got != nil {
			t.Errorf("components of empty input = %v, want nil", got)
		}
	})
}
