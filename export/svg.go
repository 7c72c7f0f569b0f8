package export

import (
	"bytes"
	"math"

	svg "github.com/ajstarks/svgo"

	"isopipe/core"
	"isopipe/geometry"
)

const (
	svgPadding      = 40
	svgSymbolRadius = 12
)

// SVGExporter draws the scene: pipes as lines, equipment as labelled circles.
type SVGExporter struct {
	ShowGrid bool
}

// NewSVGExporter creates a new SVG exporter with the grid drawn
func NewSVGExporter() *SVGExporter {
	return &SVGExporter{ShowGrid: true}
}

// bounds is the world-space box covering every entity.
type bounds struct {
	minX, minY, maxX, maxY float64
}

func sceneBounds(s core.Scene) bounds {
	b := bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	add := func(p core.Point) {
		b.minX = math.Min(b.minX, p.X)
		b.minY = math.Min(b.minY, p.Y)
		b.maxX = math.Max(b.maxX, p.X)
		b.maxY = math.Max(b.maxY, p.Y)
	}
	for _, p := range s.Pipes {
		add(p.Start)
		add(p.End)
	}
	for _, e := range s.Equipment {
		add(e.Position)
	}
	if s.IsEmpty() {
		return bounds{}
	}
	return b
}

// Export renders doc.Scene as an SVG document.
func (e *SVGExporter) Export(doc Document) (string, error) {
	var buf bytes.Buffer
	canvas := svg.New(&buf)

	b := sceneBounds(doc.Scene)
	width := int(math.Ceil(b.maxX-b.minX)) + 2*svgPadding
	height := int(math.Ceil(b.maxY-b.minY)) + 2*svgPadding
	at := func(p core.Point) (int, int) {
		return int(math.Round(p.X-b.minX)) + svgPadding, int(math.Round(p.Y-b.minY)) + svgPadding
	}

	canvas.Start(width, height)
	canvas.Title("isopipe drawing")
	canvas.Rect(0, 0, width, height, "fill:white")

	if e.ShowGrid && doc.Unit > 0 {
		e.drawGrid(canvas, b, doc.Unit, at)
	}

	canvas.Gstyle("stroke:#1f4e79;stroke-width:3;stroke-linecap:round")
	for _, p := range doc.Scene.Pipes {
		x1, y1 := at(p.Start)
		x2, y2 := at(p.End)
		canvas.Line(x1, y1, x2, y2)
	}
	canvas.Gend()

	for _, p := range doc.Scene.Pipes {
		mid := p.Start.Add(p.End).Scale(0.5)
		x, y := at(mid)
		canvas.Text(x, y-6, p.Tag, "text-anchor:middle;font-size:10px;fill:#666")
	}

	for _, eq := range doc.Scene.Equipment {
		x, y := at(eq.Position)
		canvas.Circle(x, y, svgSymbolRadius, "fill:#f4f4f4;stroke:black;stroke-width:1.5")
		if eq.RotationDegrees != 0 {
			// Orientation tick from the centre
			rad := eq.RotationDegrees * math.Pi / 180
			tx := x + int(math.Round(svgSymbolRadius*math.Cos(rad)))
			ty := y + int(math.Round(svgSymbolRadius*math.Sin(rad)))
			canvas.Line(x, y, tx, ty, "stroke:black;stroke-width:1")
		}
		canvas.Text(x, y+svgSymbolRadius+12, eq.Tag, "text-anchor:middle;font-size:10px;fill:#333")
	}

	canvas.End()
	return buf.String(), nil
}

// drawGrid draws the three isometric axis families through every vertex
// inside the drawing area, as faint dots.
func (e *SVGExporter) drawGrid(canvas *svg.SVG, b bounds, unit float64, at func(core.Point) (int, int)) {
	lo := core.Point{X: b.minX - svgPadding, Y: b.minY - svgPadding}
	hi := core.Point{X: b.maxX + svgPadding, Y: b.maxY + svgPadding}

	// Grid coordinates of the corners bound the vertex range
	amin, amax := math.Inf(1), math.Inf(-1)
	bmin, bmax := math.Inf(1), math.Inf(-1)
	for _, c := range []core.Point{lo, hi, {X: lo.X, Y: hi.Y}, {X: hi.X, Y: lo.Y}} {
		ga, gb := geometry.GridCoords(c)
		amin, amax = math.Min(amin, ga), math.Max(amax, ga)
		bmin, bmax = math.Min(bmin, gb), math.Max(bmax, gb)
	}

	canvas.Gstyle("fill:#d0d0d0")
	for ka := math.Floor(amin / unit); ka <= math.Ceil(amax/unit); ka++ {
		for kb := math.Floor(bmin / unit); kb <= math.Ceil(bmax/unit); kb++ {
			p := geometry.FromGridCoords(ka*unit, kb*unit)
			if p.X < lo.X || p.X > hi.X || p.Y < lo.Y || p.Y > hi.Y {
				continue
			}
			x, y := at(p)
			canvas.Circle(x, y, 1)
		}
	}
	canvas.Gend()
}

// GetFileExtension returns the file extension for SVG
func (e *SVGExporter) GetFileExtension() string {
	return ".svg"
}

// GetFormatName returns the format name
func (e *SVGExporter) GetFormatName() string {
	return "SVG"
}
