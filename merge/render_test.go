package merge

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderSVG(t *testing.T) {
	m := NewMerger[string, float64]()
	m.AddObject("metal1", Ring[float64]{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		Ring[float64]{{4, 4}, {6, 4}, {6, 6}, {4, 6}})
	m.AddObject("via", Ring[float64]{{20, 0}, {25, 0}, {25, 5}, {20, 5}})
	m.Merge()

	var buf bytes.Buffer
	err := RenderSVG(&buf, m.GetAllPolygons(), nil, DefaultRenderOptions())
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") {
		t.Error("output does not look like SVG")
	}
	if len(out) < 100 {
		t.Errorf("suspiciously small SVG output (%d bytes)", len(out))
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSVG(&buf, nil, nil, DefaultRenderOptions()); err != nil {
		t.Fatalf("RenderSVG on empty input: %v", err)
	}
}
