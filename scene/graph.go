// Package scene implements the scene graph operations of the piping editor.
//
// Every operation takes a core.Scene value and returns a new one; the input
// is never written to, so a scene held by the history or handed to a renderer
// stays valid while the next mutation is prepared. Rejected input (degenerate
// pipes, unknown ids) is not an error: the original scene comes back and the
// caller can tell by comparing.
package scene

import (
	"fmt"

	"github.com/google/uuid"

	"isopipe/core"
	"isopipe/geometry"
)

// Graph carries the settings that scene mutations depend on.
type Graph struct {
	Unit  float64       // Grid unit in world coordinates
	Snap  bool          // Snap entity coordinates to the isometric grid
	NewID func() string // Source of fresh entity ids
}

// New returns a Graph with snapping enabled and random UUID ids.
func New(unit float64) Graph {
	return Graph{
		Unit:  unit,
		Snap:  true,
		NewID: uuid.NewString,
	}
}

// SequentialIDs returns an id source yielding prefix1, prefix2, ...
// It is handy for tests and scripted sessions where ids must be stable.
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func (g Graph) newID() string {
	if g.NewID == nil {
		return uuid.NewString()
	}
	return g.NewID()
}

func (g Graph) place(p core.Point) core.Point {
	if !g.Snap {
		return p
	}
	return geometry.SnapToGrid(p, g.Unit)
}

// IsDegenerate reports whether a segment between start and end is too short
// to be stored.
func (g Graph) IsDegenerate(start, end core.Point) bool {
	if start == end {
		return true
	}
	return geometry.Distance(start, end) < g.Unit/2
}

// AddPipe appends a pipe between start and end. When the (snapped) segment is
// degenerate the input scene is returned with an empty id.
func (g Graph) AddPipe(s core.Scene, start, end core.Point, size, material string) (core.Scene, string) {
	start, end = g.place(start), g.place(end)
	if g.IsDegenerate(start, end) {
		return s, ""
	}

	pipe := core.PipeSegment{
		ID:       g.newID(),
		Seq:      s.MaxSeq() + 1,
		Start:    start,
		End:      end,
		Size:     size,
		Material: material,
		Tag:      fmt.Sprintf("P-%d", len(s.Pipes)+1),
	}

	next := core.Scene{
		Pipes:     appendPipe(s.Pipes, pipe),
		Equipment: s.Equipment,
	}
	return next, pipe.ID
}

// AddEquipment places a symbol at position. It always succeeds. The tag is
// the display name followed by the count of existing equipment of the same kind.
func (g Graph) AddEquipment(s core.Scene, kind, subtype string, position core.Point, size, material string) (core.Scene, string) {
	count := 0
	for _, e := range s.Equipment {
		if e.Kind == kind {
			count++
		}
	}

	eq := core.Equipment{
		ID:       g.newID(),
		Seq:      s.MaxSeq() + 1,
		Kind:     kind,
		Subtype:  subtype,
		Position: g.place(position),
		Size:     size,
		Material: material,
	}
	eq.Tag = fmt.Sprintf("%s-%d", eq.DisplayName(), count+1)

	next := core.Scene{
		Pipes:     s.Pipes,
		Equipment: appendEquipment(s.Equipment, eq),
	}
	return next, eq.ID
}

// RemoveEntities drops every pipe and piece of equipment whose id is in ids.
// Unknown ids are ignored; if nothing matches, s is returned unchanged.
func RemoveEntities(s core.Scene, ids map[string]bool) core.Scene {
	if len(ids) == 0 {
		return s
	}

	removed := false
	pipes := make([]core.PipeSegment, 0, len(s.Pipes))
	for _, p := range s.Pipes {
		if ids[p.ID] {
			removed = true
			continue
		}
		pipes = append(pipes, p)
	}
	equipment := make([]core.Equipment, 0, len(s.Equipment))
	for _, e := range s.Equipment {
		if ids[e.ID] {
			removed = true
			continue
		}
		equipment = append(equipment, e)
	}

	if !removed {
		return s
	}
	return core.Scene{Pipes: pipes, Equipment: equipment}
}

// UpdateEntity applies patch to the entity with the given id. Unknown ids and
// empty patches return s unchanged.
func (g Graph) UpdateEntity(s core.Scene, id string, patch core.Patch) core.Scene {
	if patch.IsEmpty() {
		return s
	}

	if i := s.FindPipe(id); i >= 0 {
		out := s.Clone()
		p := &out.Pipes[i]
		if patch.Size != nil {
			p.Size = *patch.Size
		}
		if patch.Material != nil {
			p.Material = *patch.Material
		}
		if patch.Tag != nil {
			p.Tag = *patch.Tag
		}
		if patch.Position != nil {
			// Moving a pipe translates both endpoints
			delta := g.place(*patch.Position).Sub(p.Start)
			p.Start = p.Start.Add(delta)
			p.End = p.End.Add(delta)
		}
		return out
	}

	if i := s.FindEquipment(id); i >= 0 {
		out := s.Clone()
		e := &out.Equipment[i]
		if patch.Size != nil {
			e.Size = *patch.Size
		}
		if patch.Material != nil {
			e.Material = *patch.Material
		}
		if patch.Tag != nil {
			e.Tag = *patch.Tag
		}
		if patch.Subtype != nil {
			e.Subtype = *patch.Subtype
		}
		if patch.RotationDegrees != nil {
			e.RotationDegrees = geometry.NormalizeDegrees(*patch.RotationDegrees)
		}
		if patch.Position != nil {
			e.Position = g.place(*patch.Position)
		}
		return out
	}

	return s
}

// PipeLength returns the length of p measured in grid units.
func PipeLength(p core.PipeSegment, unit float64) float64 {
	if unit <= 0 {
		return 0
	}
	return p.Length() / unit
}

// appendPipe returns a new slice holding pipes followed by p. It never
// writes into the backing array of pipes.
func appendPipe(pipes []core.PipeSegment, p core.PipeSegment) []core.PipeSegment {
	out := make([]core.PipeSegment, len(pipes), len(pipes)+1)
	copy(out, pipes)
	return append(out, p)
}

func appendEquipment(equipment []core.Equipment, e core.Equipment) []core.Equipment {
	out := make([]core.Equipment, len(equipment), len(equipment)+1)
	copy(out, equipment)
	return append(out, e)
}
