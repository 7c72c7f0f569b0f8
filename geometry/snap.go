package geometry

import (
	"math"

	"isopipe/core"
)

var (
	cos30 = math.Sqrt(3) / 2
	sin30 = 0.5
)

// IsoAngles are the canonical isometric drawing directions, ascending.
var IsoAngles = []float64{30, 90, 150, 210, 270, 330}

// IsoAxes returns the basis vectors of the isometric grid: u runs along
// the 30° axis (cos30, -sin30) and v is vertical (0, 1).
func IsoAxes() (u, v core.Point) {
	return core.Point{X: cos30, Y: -sin30}, core.Point{X: 0, Y: 1}
}

// GridCoords decomposes p into its coordinates (a, b) along the isometric basis.
func GridCoords(p core.Point) (a, b float64) {
	a = p.X / cos30
	b = p.Y + a*sin30
	return a, b
}

// FromGridCoords reconstructs the point a·u + b·v.
func FromGridCoords(a, b float64) core.Point {
	u, v := IsoAxes()
	return u.Scale(a).Add(v.Scale(b))
}

// SnapToGrid rounds p to the nearest vertex of the isometric grid whose
// spacing along both axes is unit. A non-positive unit returns p unchanged.
//
// The grid indices are rounded first and the point rebuilt from the integer
// indices, so snapping an already snapped point gives back exactly the same
// value.
func SnapToGrid(p core.Point, unit float64) core.Point {
	if unit <= 0 {
		return p
	}
	a, b := GridCoords(p)
	ka := math.Round(a / unit)
	kb := math.Round(b / unit)
	return FromGridCoords(ka*unit, kb*unit)
}

// NearestIsoAngle returns the canonical angle closest to deg. Ties resolve to
// the lower angle.
func NearestIsoAngle(deg float64) float64 {
	best := IsoAngles[0]
	bestDiff := AngularDifference(deg, best)
	for _, candidate := range IsoAngles[1:] {
		if d := AngularDifference(deg, candidate); d < bestDiff {
			best, bestDiff = candidate, d
		}
	}
	return best
}

// SnapAngle constrains the vector start->end to the nearest isometric angle
// and a whole number of grid units (at least one), returning the grid vertex
// at the end of the constrained vector.
//
// When the raw vector is shorter than half a grid unit the input start is
// returned unchanged; callers treat that as "no segment".
func SnapAngle(start, end core.Point, unit float64) core.Point {
	if unit <= 0 {
		return end
	}
	length := Distance(start, end)
	if length < unit/2 {
		return start
	}

	angle := NearestIsoAngle(AngleDegrees(start, end))
	steps := math.Round(length / unit)
	if steps < 1 {
		steps = 1
	}
	dist := steps * unit

	rad := angle * math.Pi / 180
	target := core.Point{
		X: start.X + dist*math.Cos(rad),
		Y: start.Y + dist*math.Sin(rad),
	}
	return SnapToGrid(target, unit)
}
