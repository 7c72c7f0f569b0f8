// Package core contains the fundamental value types shared by the isopipe editor.
package core

import "math"

// Point represents a 2D coordinate in world units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p multiplied by k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Len returns the Euclidean length of p treated as a vector.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// PipeSegment is a single straight pipe run between two grid points.
type PipeSegment struct {
	ID       string `json:"id"`
	Seq      uint64 `json:"seq"` // Creation order, unique within a scene
	Start    Point  `json:"start"`
	End      Point  `json:"end"`
	Size     string `json:"size"`
	Material string `json:"material"`
	Tag      string `json:"tag"`
}

// Length returns the Euclidean length of the segment in world units.
func (p PipeSegment) Length() float64 {
	return p.End.Sub(p.Start).Len()
}

// Equipment is a placed symbol (tank, pump, valve, ...) anchored at one point.
type Equipment struct {
	ID              string  `json:"id"`
	Seq             uint64  `json:"seq"`
	Kind            string  `json:"kind"`
	Subtype         string  `json:"subtype"`
	Position        Point   `json:"position"`
	Size            string  `json:"size"`
	Tag             string  `json:"tag"`
	Material        string  `json:"material"`
	RotationDegrees float64 `json:"rotation_degrees"`
}

// Scene is the full set of drawable entities. It is treated as a value:
// operations in package scene always return a new Scene and never write
// into the slices of the one they were given.
type Scene struct {
	Pipes     []PipeSegment `json:"pipes"`
	Equipment []Equipment   `json:"equipment"`
}

// IsEmpty returns true if the scene holds no entities.
func (s Scene) IsEmpty() bool {
	return len(s.Pipes) == 0 && len(s.Equipment) == 0
}

// Len returns the total number of entities in the scene.
func (s Scene) Len() int {
	return len(s.Pipes) + len(s.Equipment)
}

// Clone creates a deep copy of the scene
func (s Scene) Clone() Scene {
	clone := Scene{}
	if s.Pipes != nil {
		clone.Pipes = make([]PipeSegment, len(s.Pipes))
		copy(clone.Pipes, s.Pipes)
	}
	if s.Equipment != nil {
		clone.Equipment = make([]Equipment, len(s.Equipment))
		copy(clone.Equipment, s.Equipment)
	}
	return clone
}

// Equal reports whether two scenes hold the same entities in the same order.
// A nil slice and an empty slice compare equal.
func (s Scene) Equal(o Scene) bool {
	if len(s.Pipes) != len(o.Pipes) || len(s.Equipment) != len(o.Equipment) {
		return false
	}
	for i := range s.Pipes {
		if s.Pipes[i] != o.Pipes[i] {
			return false
		}
	}
	for i := range s.Equipment {
		if s.Equipment[i] != o.Equipment[i] {
			return false
		}
	}
	return true
}

// FindPipe returns the index of the pipe with the given id, or -1.
func (s Scene) FindPipe(id string) int {
	for i := range s.Pipes {
		if s.Pipes[i].ID == id {
			return i
		}
	}
	return -1
}

// FindEquipment returns the index of the equipment with the given id, or -1.
func (s Scene) FindEquipment(id string) int {
	for i := range s.Equipment {
		if s.Equipment[i].ID == id {
			return i
		}
	}
	return -1
}

// Contains returns true if any entity in the scene has the given id.
func (s Scene) Contains(id string) bool {
	return s.FindPipe(id) >= 0 || s.FindEquipment(id) >= 0
}

// MaxSeq returns the highest creation sequence number in the scene (0 when empty).
func (s Scene) MaxSeq() uint64 {
	var max uint64
	for _, p := range s.Pipes {
		if p.Seq > max {
			max = p.Seq
		}
	}
	for _, e := range s.Equipment {
		if e.Seq > max {
			max = e.Seq
		}
	}
	return max
}

// Patch is a partial update for a scene entity. Nil fields are left untouched.
// RotationDegrees and Subtype only apply to equipment.
type Patch struct {
	Size            *string
	Material        *string
	Tag             *string
	Subtype         *string
	RotationDegrees *float64
	Position        *Point
}

// IsEmpty returns true if the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Size == nil && p.Material == nil && p.Tag == nil &&
		p.Subtype == nil && p.RotationDegrees == nil && p.Position == nil
}
