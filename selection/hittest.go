// Package selection resolves pointer positions to scene entities and keeps
// track of which entities are selected.
package selection

import (
	"isopipe/core"
	"isopipe/geometry"
)

// Hit is a candidate entity under the pointer.
type Hit struct {
	ID       string
	Distance float64
	Seq      uint64
}

// ToleranceForZoom converts a screen-pixel tolerance into world units so the
// on-screen pick radius stays constant as the view zooms.
func ToleranceForZoom(pixels, zoom float64) float64 {
	if zoom <= 0 {
		return pixels
	}
	return pixels / zoom
}

// Candidates returns every entity within reach of point: pipes whose
// perpendicular distance is below tolerance and equipment whose anchor is
// closer than equipmentRadius.
func Candidates(s core.Scene, point core.Point, tolerance, equipmentRadius float64) []Hit {
	var hits []Hit
	for _, p := range s.Pipes {
		d := geometry.PointSegmentDistance(point, p.Start, p.End)
		if d < tolerance {
			hits = append(hits, Hit{ID: p.ID, Distance: d, Seq: p.Seq})
		}
	}
	for _, e := range s.Equipment {
		d := geometry.Distance(point, e.Position)
		if d < equipmentRadius {
			hits = append(hits, Hit{ID: e.ID, Distance: d, Seq: e.Seq})
		}
	}
	return hits
}

// HitTest returns the id of the entity under point. The nearest candidate
// wins; equal distances go to the most recently created entity.
func HitTest(s core.Scene, point core.Point, tolerance, equipmentRadius float64) (string, bool) {
	hits := Candidates(s, point, tolerance, equipmentRadius)
	if len(hits) == 0 {
		return "", false
	}

	best := hits[0]
	for _, h := range hits[1:] {
		if h.Distance < best.Distance || (h.Distance == best.Distance && h.Seq > best.Seq) {
			best = h
		}
	}
	return best.ID, true
}
