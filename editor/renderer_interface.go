package editor

import (
	"isopipe/bom"
	"isopipe/core"
)

// Segment is a pipe run that has not been committed yet.
type Segment struct {
	Start core.Point
	End   core.Point
}

// Snapshot is everything a renderer needs for one frame. The scene and BOM
// are never modified after the snapshot is taken.
type Snapshot struct {
	Scene       core.Scene
	BOM         []bom.Item
	Selected    []string
	InProgress  *Segment
	State       State
	Tool        Tool
	Kind        string // Equipment kind placed by ToolEquipment
	GridVisible bool
	Snap        bool
	Unit        float64
	Message     string
	CanUndo     bool
	CanRedo     bool
}

// IsSelected reports whether id is part of the selection.
func (s Snapshot) IsSelected(id string) bool {
	for _, v := range s.Selected {
		if v == id {
			return true
		}
	}
	return false
}

// Renderer is the interface the controller needs for rendering. It must not
// modify the snapshot.
type Renderer interface {
	Render(s Snapshot) error
}
