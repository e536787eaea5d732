package merge

import (
	"image/color"
	"image/png"
	"io"
	"sort"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// RenderOptions controls the debug rendering of merged output.
type RenderOptions struct {
	Padding    float64           // padding in world units
	Resolution canvas.Resolution // resolution for PNG output
}

// DefaultRenderOptions returns rendering defaults: a small padding and
// 300 DPI PNG output.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Padding:    10,
		Resolution: canvas.DPI(300),
	}
}

// propPalette is the fill rotation for properties, premultiplied RGBA.
var propPalette = []color.RGBA{
	{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF}, // green
	{R: 0x21, G: 0x96, B: 0xF3, A: 0xFF}, // blue
	{R: 0xFF, G: 0x98, B: 0x00, A: 0xFF}, // orange
	{R: 0x9C, G: 0x27, B: 0xB0, A: 0xFF}, // purple
	{R: 0x79, G: 0x55, B: 0x48, A: 0xFF}, // brown
	{R: 0x00, G: 0xBC, B: 0xD4, A: 0xFF}, // cyan
}

// conflictColor strokes conflict-region outlines.
var conflictColor = color.RGBA{R: 0xF4, G: 0x43, B: 0x36, A: 0xFF}

// RenderSVG writes the polygons (and conflict outlines, if any) as an SVG.
// Each property gets a stable fill color from the palette; holes are cut via
// even-odd path fill.
func RenderSVG(w io.Writer, polygons []*PolygonWithProp[string, float64], diffs []PropDiffArea[string, float64], opts RenderOptions) error {
	width, height, render := renderScene(polygons, diffs, opts)
	svgRenderer := svg.New(w, width, height, nil)
	render(svgRenderer)
	return svgRenderer.Close()
}

// RenderPNG writes the polygons (and conflict outlines, if any) as a PNG.
func RenderPNG(w io.Writer, polygons []*PolygonWithProp[string, float64], diffs []PropDiffArea[string, float64], opts RenderOptions) error {
	width, height, render := renderScene(polygons, diffs, opts)
	rast := rasterizer.New(width, height, opts.Resolution, canvas.DefaultColorSpace)
	render(rast)
	return png.Encode(w, rast)
}

type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// renderScene computes canvas dimensions and returns the shared drawing
// closure used by both the SVG and PNG paths.
func renderScene(polygons []*PolygonWithProp[string, float64], diffs []PropDiffArea[string, float64], opts RenderOptions) (width, height float64, render func(canvasRenderer)) {
	bounds := InvertedBox[float64]()
	for _, pd := range polygons {
		bounds.Union(pd.BBox())
	}
	for _, diff := range diffs {
		for _, outline := range diff.Outlines {
			bounds.Union(outline.BBox())
		}
	}
	if !bounds.Valid() {
		bounds = Box[float64]{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}
	}

	width = bounds.Width() + 2*opts.Padding
	height = bounds.Height() + 2*opts.Padding
	colors := paletteFor(polygons)

	toCanvas := func(p Point[float64]) (float64, float64) {
		return p.X - bounds.MinX + opts.Padding, p.Y - bounds.MinY + opts.Padding
	}

	tracePath := func(cp *canvas.Path, ring Ring[float64]) {
		for i, pt := range ring {
			cx, cy := toCanvas(pt)
			if i == 0 {
				cp.MoveTo(cx, cy)
			} else {
				cp.LineTo(cx, cy)
			}
		}
		cp.Close()
	}

	render = func(renderer canvasRenderer) {
		bgStyle := canvas.DefaultStyle
		bgStyle.Fill = canvas.Paint{Color: canvas.White}
		renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

		for _, pd := range polygons {
			style := canvas.DefaultStyle
			style.Fill = canvas.Paint{Color: colors[pd.Property]}
			style.FillRule = canvas.EvenOdd
			style.Stroke = canvas.Paint{Color: canvas.Transparent}

			cp := &canvas.Path{}
			tracePath(cp, pd.Solid)
			for _, hole := range pd.Holes {
				tracePath(cp, hole)
			}
			renderer.RenderPath(cp, style, canvas.Identity)
		}

		for _, diff := range diffs {
			style := canvas.DefaultStyle
			style.Fill = canvas.Paint{Color: canvas.Transparent}
			style.Stroke = canvas.Paint{Color: conflictColor}
			style.StrokeWidth = 1.0

			for _, outline := range diff.Outlines {
				cp := &canvas.Path{}
				tracePath(cp, outline)
				renderer.RenderPath(cp, style, canvas.Identity)
			}
		}
	}
	return width, height, render
}

// paletteFor assigns each distinct property a stable palette color, in
// sorted property order.
func paletteFor(polygons []*PolygonWithProp[string, float64]) map[string]color.RGBA {
	var props []string
	seen := make(map[string]struct{})
	for _, pd := range polygons {
		if _, ok := seen[pd.Property]; !ok {
			seen[pd.Property] = struct{}{}
			props = append(props, pd.Property)
		}
	}
	sort.Strings(props)

	colors := make(map[string]color.RGBA, len(props))
	for i, p := range props {
		colors[p] = propPalette[i%len(propPalette)]
	}
	return colors
}
