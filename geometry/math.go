// Package geometry holds the pure numeric helpers behind grid snapping and hit testing.
package geometry

import (
	"math"

	"isopipe/core"
)

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b core.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// PointSegmentDistance returns the distance from p to the segment a-b.
// The projection parameter is clamped to [0,1] so points beyond either end
// measure to the nearest endpoint.
func PointSegmentDistance(p, a, b core.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Distance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = Clamp(t, 0, 1)
	proj := core.Point{X: a.X + t*dx, Y: a.Y + t*dy}
	return Distance(p, proj)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round2 rounds v to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AngleDegrees returns the direction of the vector start->end in degrees, in [0, 360).
func AngleDegrees(start, end core.Point) float64 {
	deg := math.Atan2(end.Y-start.Y, end.X-start.X) * 180 / math.Pi
	return NormalizeDegrees(deg)
}

// NormalizeDegrees maps any angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -0 and values that round up to 360 both collapse to 0
	if deg == 0 || deg >= 360 {
		return 0
	}
	return deg
}

// AngularDifference returns the smallest absolute difference between two angles, in [0, 180].
func AngularDifference(a, b float64) float64 {
	d := math.Abs(NormalizeDegrees(a) - NormalizeDegrees(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
