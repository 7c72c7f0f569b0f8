// Package terminal is the tcell front end of the editor: it draws editor
// snapshots to a terminal screen and turns key and mouse events into
// controller intents.
package terminal

import (
	"math"

	"isopipe/core"
)

const (
	minScale = 0.25
	maxScale = 4
)

// View maps world coordinates to terminal cells. Cells are about twice as
// tall as they are wide, so a row covers twice the world height of a column.
type View struct {
	base   float64    // World width of one column at scale 1
	Scale  float64    // Zoom factor; larger shows less of the world
	Origin core.Point // World point at cell (0, 0)
}

// NewView returns a view where one grid unit spans four columns and two rows.
func NewView(unit float64) *View {
	v := &View{base: unit / 4, Scale: 1}
	v.Origin = core.Point{X: -4 * v.CellWidth(), Y: -2 * v.CellHeight()}
	return v
}

// CellWidth returns the world width of one column.
func (v *View) CellWidth() float64 {
	return v.base / v.Scale
}

// CellHeight returns the world height of one row.
func (v *View) CellHeight() float64 {
	return 2 * v.CellWidth()
}

// ToWorld returns the world position of a cell.
func (v *View) ToWorld(col, row int) core.Point {
	return core.Point{
		X: v.Origin.X + float64(col)*v.CellWidth(),
		Y: v.Origin.Y + float64(row)*v.CellHeight(),
	}
}

// ToCell returns the cell nearest to a world position.
func (v *View) ToCell(p core.Point) (col, row int) {
	col = int(math.Round((p.X - v.Origin.X) / v.CellWidth()))
	row = int(math.Round((p.Y - v.Origin.Y) / v.CellHeight()))
	return col, row
}

// Pan moves the view by whole cells.
func (v *View) Pan(cols, rows int) {
	v.Origin = v.ToWorld(cols, rows)
}

// ZoomBy multiplies the scale by factor, keeping the world point under the
// given cell fixed.
func (v *View) ZoomBy(factor float64, col, row int) {
	anchor := v.ToWorld(col, row)
	v.Scale = math.Min(maxScale, math.Max(minScale, v.Scale*factor))
	v.Origin = core.Point{
		X: anchor.X - float64(col)*v.CellWidth(),
		Y: anchor.Y - float64(row)*v.CellHeight(),
	}
}
