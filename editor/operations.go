package editor

import (
	"fmt"

	"isopipe/core"
	"isopipe/geometry"
	"isopipe/scene"
	"isopipe/selection"
)

// PointerDown handles a click at world position p with the active tool.
func (c *Controller) PointerDown(p core.Point, mod Modifier) {
	switch c.tool {
	case ToolPipe:
		c.pipeClick(p)
	case ToolEquipment:
		c.placeEquipment(p)
	default:
		c.selectAt(p, mod&ModShift != 0)
	}
	c.notify()
}

// PointerMove records the pointer position for the in-progress preview. It
// never touches the scene or the history.
func (c *Controller) PointerMove(p core.Point) {
	c.pointer = &p
	if c.state == StateDrawing {
		c.notify()
	}
}

func (c *Controller) pipeClick(p core.Point) {
	if c.state != StateDrawing {
		c.selection = selection.Set{}
		c.state = StateDrawing
		c.drawStart = c.place(p)
		c.message = "Drawing: click to add a run, Enter to finish, Esc to cancel"
		return
	}

	end := c.constrain(c.drawStart, p)
	next, id := c.graph.AddPipe(c.Scene(), c.drawStart, end, c.pipeSize, c.material)
	if id == "" {
		c.message = "Run too short, ignored"
		return
	}
	c.commit(next)

	// Continue the chain from the end of the committed run
	pipe := next.Pipes[len(next.Pipes)-1]
	c.drawStart = pipe.End
	c.message = fmt.Sprintf("Added %s (%.2f units)", pipe.Tag, scene.PipeLength(pipe, c.cfg.GridUnit))
	c.logger.Printf("added pipe %s %s", pipe.Tag, pipe.ID)
}

func (c *Controller) placeEquipment(p core.Point) {
	next, id := c.graph.AddEquipment(c.Scene(), c.kind, c.subtype, p, c.pipeSize, c.material)
	c.commit(next)
	eq := next.Equipment[next.FindEquipment(id)]
	c.message = fmt.Sprintf("Placed %s", eq.Tag)
	c.logger.Printf("placed equipment %s %s", eq.Tag, eq.ID)
}

func (c *Controller) selectAt(p core.Point, additive bool) {
	id, ok := selection.HitTest(c.Scene(), p, c.tolerance(), c.cfg.EquipmentRadius)
	switch {
	case ok && additive:
		c.selection = c.selection.Toggle(id)
	case ok:
		c.selection = selection.NewSet(id)
	case !additive:
		c.selection = selection.Set{}
	}

	if c.selection.IsEmpty() {
		c.state = StateIdle
		c.message = ""
	} else {
		c.state = StateSelecting
		c.message = fmt.Sprintf("%d selected", c.selection.Len())
	}
}

// Select replaces the selection with ids that exist in the scene.
func (c *Controller) Select(ids ...string) {
	c.selection = selection.NewSet(ids...).Prune(c.Scene())
	if c.state != StateDrawing {
		if c.selection.IsEmpty() {
			c.state = StateIdle
		} else {
			c.state = StateSelecting
		}
	}
	c.notify()
}

// Cancel discards the in-progress run and clears the selection. It never
// touches the history.
func (c *Controller) Cancel() {
	c.state = StateIdle
	c.pointer = nil
	c.selection = selection.Set{}
	c.message = ""
	c.notify()
}

// EndChain finishes the current pipe chain. Runs already added stay; the
// pending preview is dropped.
func (c *Controller) EndChain() {
	if c.state != StateDrawing {
		return
	}
	c.state = StateIdle
	c.pointer = nil
	c.message = ""
	c.notify()
}

// DeleteSelection removes every selected entity with a single history entry.
func (c *Controller) DeleteSelection() {
	if c.selection.IsEmpty() {
		return
	}
	n := c.selection.Len()
	if c.commit(scene.RemoveEntities(c.Scene(), c.selection.Map())) {
		c.message = fmt.Sprintf("Deleted %d", n)
		c.logger.Printf("deleted %d entities", n)
	}
	c.selection = selection.Set{}
	c.state = StateIdle
	c.notify()
}

// UpdateSelection applies patch to every selected entity with a single
// history entry.
func (c *Controller) UpdateSelection(patch core.Patch) {
	if c.selection.IsEmpty() || patch.IsEmpty() {
		return
	}
	next := c.Scene()
	for _, id := range c.selection.IDs() {
		next = c.graph.UpdateEntity(next, id, patch)
	}
	if c.commit(next) {
		c.notify()
	}
}

// RotateSelection turns selected equipment by delta degrees. Pipes in the
// selection are left alone.
func (c *Controller) RotateSelection(delta float64) {
	if c.selection.IsEmpty() {
		return
	}
	next := c.Scene()
	for _, id := range c.selection.IDs() {
		i := next.FindEquipment(id)
		if i < 0 {
			continue
		}
		rot := next.Equipment[i].RotationDegrees + delta
		next = c.graph.UpdateEntity(next, id, core.Patch{RotationDegrees: &rot})
	}
	if c.commit(next) {
		c.message = fmt.Sprintf("Rotated %.0f°", delta)
		c.notify()
	}
}

// Undo steps the history back one entry.
func (c *Controller) Undo() {
	if _, ok := c.history.Undo(); !ok {
		c.message = "Nothing to undo"
		c.notify()
		return
	}
	c.restore()
	cur, total := c.history.Stats()
	c.message = fmt.Sprintf("Undo (%d/%d)", cur, total)
	c.notify()
}

// Redo steps the history forward one entry.
func (c *Controller) Redo() {
	if _, ok := c.history.Redo(); !ok {
		c.message = "Nothing to redo"
		c.notify()
		return
	}
	c.restore()
	cur, total := c.history.Stats()
	c.message = fmt.Sprintf("Redo (%d/%d)", cur, total)
	c.notify()
}

// SetTool switches the pointer tool. Leaving the pipe tool ends the chain and
// leaving the select tool clears the selection.
func (c *Controller) SetTool(t Tool) {
	if t == c.tool {
		return
	}
	if c.state == StateDrawing && t != ToolPipe {
		c.state = StateIdle
		c.pointer = nil
	}
	if c.tool == ToolSelect && t != ToolSelect {
		c.selection = selection.Set{}
		if c.state == StateSelecting {
			c.state = StateIdle
		}
	}
	c.tool = t
	c.message = t.String()
	c.notify()
}

// CycleTool moves to the next tool: select, pipe, equipment, then back.
func (c *Controller) CycleTool() {
	c.SetTool((c.tool + 1) % (ToolEquipment + 1))
}

// SetPipeSpec sets the size and material given to new entities.
func (c *Controller) SetPipeSpec(size, material string) {
	c.pipeSize = size
	c.material = material
}

// SetEquipment sets the kind and subtype placed by the equipment tool.
func (c *Controller) SetEquipment(kind, subtype string) {
	c.kind = kind
	c.subtype = subtype
}

// CycleEquipmentKind moves to the next known equipment kind.
func (c *Controller) CycleEquipmentKind() {
	next := 0
	for i, k := range core.EquipmentKinds {
		if k.Name == c.kind {
			next = (i + 1) % len(core.EquipmentKinds)
			break
		}
	}
	c.kind = core.EquipmentKinds[next].Name
	c.subtype = ""
	c.message = "Equipment: " + core.EquipmentKinds[next].DefaultSubtype
	c.notify()
}

// ToggleGrid flips grid visibility.
func (c *Controller) ToggleGrid() {
	c.gridVisible = !c.gridVisible
	c.notify()
}

// ToggleSnap flips snapping of new input to the grid.
func (c *Controller) ToggleSnap() {
	c.graph.Snap = !c.graph.Snap
	if c.graph.Snap {
		c.message = "Snap on"
	} else {
		c.message = "Snap off"
	}
	c.notify()
}

// SetZoom changes the view zoom used to scale the pick tolerance.
func (c *Controller) SetZoom(zoom float64) {
	if zoom > 0 {
		c.cfg.Zoom = zoom
	}
}

func (c *Controller) tolerance() float64 {
	return selection.ToleranceForZoom(c.cfg.HitTolerancePx, c.cfg.Zoom)
}

func (c *Controller) place(p core.Point) core.Point {
	if !c.graph.Snap {
		return p
	}
	return geometry.SnapToGrid(p, c.cfg.GridUnit)
}

// constrain maps a raw pointer position to the end of the next run.
func (c *Controller) constrain(start, p core.Point) core.Point {
	if !c.graph.Snap {
		return p
	}
	return geometry.SnapAngle(start, p, c.cfg.GridUnit)
}
