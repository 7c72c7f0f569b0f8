package editor

import (
	"errors"
	"math"
	"testing"

	"isopipe/bom"
	"isopipe/config"
	"isopipe/core"
	"isopipe/scene"
)

func newTestController(opts ...Option) *Controller {
	cfg := config.Default()
	opts = append([]Option{WithIDs(scene.SequentialIDs("id"))}, opts...)
	return NewController(cfg, opts...)
}

// drawChain draws a connected chain of runs through the given points.
func drawChain(c *Controller, points ...core.Point) {
	c.SetTool(ToolPipe)
	for _, p := range points {
		c.PointerDown(p, 0)
	}
	c.EndChain()
}

func TestControllerStartsIdle(t *testing.T) {
	c := newTestController()
	if c.State() != StateIdle || c.Tool() != ToolSelect {
		t.Errorf("Expected IDLE/SELECT, got %s/%s", c.State(), c.Tool())
	}
	if !c.Scene().IsEmpty() || len(c.BOM()) != 0 {
		t.Error("Expected empty scene and BOM")
	}
	if c.History().Len() != 1 {
		t.Errorf("Expected a single history entry, got %d", c.History().Len())
	}
}

func TestContinuousChainDrawing(t *testing.T) {
	c := newTestController()
	c.SetTool(ToolPipe)

	c.PointerDown(core.Point{X: 0, Y: 0}, 0)
	if c.State() != StateDrawing {
		t.Fatalf("Expected DRAWING after first click, got %s", c.State())
	}
	if c.History().Len() != 1 {
		t.Error("Starting a chain must not touch history")
	}

	c.PointerDown(core.Point{X: 0, Y: 85}, 0)
	c.PointerDown(core.Point{X: 70, Y: 120}, 0)

	s := c.Scene()
	if len(s.Pipes) != 2 {
		t.Fatalf("Expected 2 pipes, got %d", len(s.Pipes))
	}
	if s.Pipes[1].Start != s.Pipes[0].End {
		t.Error("Second run should start where the first ended")
	}
	if s.Pipes[0].End != (core.Point{X: 0, Y: 80}) {
		t.Errorf("Expected first run snapped to (0,80), got %v", s.Pipes[0].End)
	}
	if c.History().Len() != 3 {
		t.Errorf("Expected one push per run, history has %d entries", c.History().Len())
	}
	if start, ok := c.DrawStart(); !ok || start != s.Pipes[1].End {
		t.Errorf("Chain should continue from the last end, got %v %v", start, ok)
	}

	c.EndChain()
	if c.State() != StateIdle {
		t.Errorf("Expected IDLE after Enter, got %s", c.State())
	}
	if len(c.BOM()) != 2 {
		t.Errorf("Expected BOM to track the scene, got %d items", len(c.BOM()))
	}
}

func TestEscapeDiscardsWithoutHistory(t *testing.T) {
	c := newTestController()
	c.SetTool(ToolPipe)
	c.PointerDown(core.Point{}, 0)
	c.PointerMove(core.Point{X: 0, Y: 200})

	if c.Snapshot().InProgress == nil {
		t.Fatal("Expected an in-progress preview while drawing")
	}

	c.HandleKey(Special(KeyEscape))
	if c.State() != StateIdle {
		t.Errorf("Expected IDLE after Escape, got %s", c.State())
	}
	if c.History().Len() != 1 || !c.Scene().IsEmpty() {
		t.Error("Escape must not change the scene or history")
	}
	if c.Snapshot().InProgress != nil {
		t.Error("Preview should be cleared")
	}
}

func TestShortRunIgnored(t *testing.T) {
	c := newTestController()
	c.SetTool(ToolPipe)
	c.PointerDown(core.Point{}, 0)
	c.PointerDown(core.Point{X: 3, Y: 4}, 0)

	if len(c.Scene().Pipes) != 0 || c.History().Len() != 1 {
		t.Error("Degenerate run should be rejected without a push")
	}
	if c.State() != StateDrawing {
		t.Error("A rejected run keeps the chain open")
	}
}

func TestUndoTwiceThenDrawClearsRedo(t *testing.T) {
	c := newTestController()
	drawChain(c,
		core.Point{X: 0, Y: 0},
		core.Point{X: 0, Y: 80},
		core.Point{X: 0, Y: 160},
		core.Point{X: 0, Y: 240},
	)
	if len(c.Scene().Pipes) != 3 {
		t.Fatalf("Expected 3 pipes, got %d", len(c.Scene().Pipes))
	}

	c.HandleKey(Ctrl('z'))
	c.HandleKey(Ctrl('z'))
	if len(c.Scene().Pipes) != 1 {
		t.Fatalf("Expected 1 pipe after two undos, got %d", len(c.Scene().Pipes))
	}

	drawChain(c, core.Point{X: 200, Y: 0}, core.Point{X: 200, Y: 80})
	before := c.Scene()
	if len(before.Pipes) != 2 {
		t.Fatalf("Expected 2 pipes, got %d", len(before.Pipes))
	}

	c.HandleKey(Ctrl('y'))
	c.HandleKey(KeyEvent{Rune: 'z', Mod: ModCtrl | ModShift})
	if !c.Scene().Equal(before) {
		t.Error("Redo should be a no-op after a new mutation")
	}
	if c.History().CanRedo() {
		t.Error("Redo stack should be empty")
	}
}

func TestSelectAndDelete(t *testing.T) {
	c := newTestController()
	drawChain(c, core.Point{X: 0, Y: 0}, core.Point{X: 0, Y: 80})
	pipe := c.Scene().Pipes[0]

	c.SetTool(ToolSelect)
	c.PointerDown(core.Point{X: 5, Y: 40}, 0)
	if c.State() != StateSelecting {
		t.Fatalf("Expected SELECTING, got %s", c.State())
	}
	if sel := c.Selected(); len(sel) != 1 || sel[0] != pipe.ID {
		t.Errorf("Expected %s selected, got %v", pipe.ID, sel)
	}

	entries := c.History().Len()
	c.HandleKey(Special(KeyDelete))
	if len(c.Scene().Pipes) != 0 {
		t.Error("Pipe should be deleted")
	}
	if c.History().Len() != entries+1 {
		t.Error("Delete should push exactly once")
	}
	if c.State() != StateIdle || len(c.Selected()) != 0 {
		t.Error("Delete should clear the selection")
	}
	if len(c.BOM()) != 0 {
		t.Error("BOM should drop the deleted pipe")
	}

	// Delete with nothing selected is a no-op
	c.HandleKey(Special(KeyBackspace))
	if c.History().Len() != entries+1 {
		t.Error("Delete with empty selection must not push")
	}

	c.HandleKey(Ctrl('z'))
	if len(c.Scene().Pipes) != 1 {
		t.Error("Undo should restore the deleted pipe")
	}
}

func TestClickEmptySpaceClearsSelection(t *testing.T) {
	c := newTestController()
	drawChain(c, core.Point{X: 0, Y: 0}, core.Point{X: 0, Y: 80})
	c.SetTool(ToolSelect)

	c.PointerDown(core.Point{X: 0, Y: 40}, 0)
	c.PointerDown(core.Point{X: 500, Y: 500}, 0)
	if c.State() != StateIdle || len(c.Selected()) != 0 {
		t.Error("Clicking empty space should clear the selection")
	}
}

func TestShiftClickExtendsSelection(t *testing.T) {
	c := newTestController()
	drawChain(c, core.Point{X: 0, Y: 0}, core.Point{X: 0, Y: 80})
	c.SetTool(ToolEquipment)
	c.PointerDown(core.Point{X: 200, Y: 0}, 0)
	c.SetTool(ToolSelect)

	c.PointerDown(core.Point{X: 0, Y: 40}, 0)
	eq := c.Scene().Equipment[0]
	c.PointerDown(eq.Position, ModShift)
	if len(c.Selected()) != 2 {
		t.Fatalf("Expected 2 selected, got %v", c.Selected())
	}

	c.HandleKey(Special(KeyDelete))
	if !c.Scene().IsEmpty() {
		t.Error("Both entities should be deleted in one step")
	}
	c.HandleKey(Ctrl('z'))
	if c.Scene().Len() != 2 {
		t.Error("One undo should restore both")
	}
}

func TestUndoPrunesSelection(t *testing.T) {
	c := newTestController()
	c.SetTool(ToolEquipment)
	c.PointerDown(core.Point{X: 0, Y: 0}, 0)
	c.SetTool(ToolSelect)
	c.PointerDown(c.Scene().Equipment[0].Position, 0)

	c.Undo()
	if c.State() != StateIdle || len(c.Selected()) != 0 {
		t.Error("Selection of an entity removed by undo should be dropped")
	}
}

func TestPlaceAndRotateEquipment(t *testing.T) {
	c := newTestController()
	c.SetEquipment("pump", "Centrifugal Pump")
	c.SetTool(ToolEquipment)
	c.PointerDown(core.Point{X: 10, Y: 10}, 0)

	s := c.Scene()
	if len(s.Equipment) != 1 || s.Equipment[0].Tag != "Centrifugal Pump-1" {
		t.Fatalf("Unexpected equipment: %+v", s.Equipment)
	}
	if c.State() != StateIdle {
		t.Error("Placing equipment leaves the controller idle")
	}

	c.SetTool(ToolSelect)
	c.PointerDown(s.Equipment[0].Position, 0)
	c.HandleKey(Rune('r'))
	c.HandleKey(Rune('R'))
	c.HandleKey(Rune('R'))
	if got := c.Scene().Equipment[0].RotationDegrees; got != 270 {
		t.Errorf("Expected rotation 270, got %v", got)
	}
	if c.History().Len() != 5 {
		t.Errorf("Expected one push per rotation, got %d entries", c.History().Len())
	}
}

func TestToolSwitchEndsChain(t *testing.T) {
	c := newTestController()
	c.SetTool(ToolPipe)
	c.PointerDown(core.Point{}, 0)
	c.HandleKey(Rune('v'))
	if c.State() != StateIdle || c.Tool() != ToolSelect {
		t.Errorf("Expected IDLE/SELECT, got %s/%s", c.State(), c.Tool())
	}
}

func TestToggleGridAndSnap(t *testing.T) {
	c := newTestController()
	grid, snap := c.GridVisible(), c.SnapEnabled()
	c.HandleKey(Rune('g'))
	c.HandleKey(Rune('S'))
	if c.GridVisible() == grid || c.SnapEnabled() == snap {
		t.Error("G and S should toggle grid and snap")
	}
	if c.History().Len() != 1 {
		t.Error("View toggles must not touch history")
	}

	// Without snap the raw pointer positions are stored
	c.SetTool(ToolPipe)
	c.PointerDown(core.Point{X: 1, Y: 1}, 0)
	c.PointerDown(core.Point{X: 51, Y: 1}, 0)
	p := c.Scene().Pipes[0]
	if p.Start != (core.Point{X: 1, Y: 1}) || p.End != (core.Point{X: 51, Y: 1}) {
		t.Errorf("Expected raw endpoints, got %v -> %v", p.Start, p.End)
	}
}

func TestUnknownKeyNotHandled(t *testing.T) {
	c := newTestController()
	if c.HandleKey(Rune('x')) {
		t.Error("x is not an editor key")
	}
	if c.HandleKey(Ctrl('q')) {
		t.Error("Ctrl+Q is not an editor key")
	}
}

func TestTabCyclesTool(t *testing.T) {
	c := newTestController()
	want := []Tool{ToolPipe, ToolEquipment, ToolSelect}
	for _, tool := range want {
		if !c.HandleKey(Special(KeyTab)) {
			t.Fatal("Tab should be handled")
		}
		if c.Tool() != tool {
			t.Errorf("Expected %v, got %v", tool, c.Tool())
		}
	}

	// Cycling away from the pipe tool ends the chain
	c.HandleKey(Special(KeyTab))
	c.PointerDown(core.Point{X: 0, Y: 0}, 0)
	if c.State() != StateDrawing {
		t.Fatalf("Expected drawing, got %v", c.State())
	}
	c.HandleKey(Special(KeyTab))
	if c.State() != StateIdle || c.Tool() != ToolEquipment {
		t.Errorf("Expected idle equipment tool, got %v %v", c.State(), c.Tool())
	}
}

type recordingRenderer struct {
	frames []Snapshot
	err    error
}

func (r *recordingRenderer) Render(s Snapshot) error {
	r.frames = append(r.frames, s)
	return r.err
}

func TestRendererReceivesSnapshots(t *testing.T) {
	c := newTestController()
	r := &recordingRenderer{err: errors.New("boom")}
	c.Attach(r)

	drawChain(c, core.Point{}, core.Point{X: 0, Y: 80})
	if len(r.frames) == 0 {
		t.Fatal("Renderer was never called")
	}
	last := r.frames[len(r.frames)-1]
	if len(last.Scene.Pipes) != 1 || len(last.BOM) != 1 {
		t.Errorf("Last frame should show the committed pipe, got %+v", last)
	}

	// Earlier frames must not change when later mutations happen
	first := r.frames[0].Scene
	c.Undo()
	if len(first.Pipes) != 0 {
		t.Error("Snapshot scene changed after a later mutation")
	}
}

func TestControllerPricesBOM(t *testing.T) {
	catalog := bom.MapCatalog{"CS": {UnitCost: 20, WeightPerUnitLength: 3}}
	c := newTestController(WithCatalog(catalog))
	drawChain(c, core.Point{}, core.Point{X: 0, Y: 90})

	items := c.BOM()
	if len(items) != 1 || items[0].UnitCost == nil {
		t.Fatalf("Expected a priced item, got %+v", items)
	}
	if items[0].Quantity != 2 {
		t.Errorf("Expected 2 grid units, got %v", items[0].Quantity)
	}
	if math.Abs(*items[0].WeightKg-6) > 1e-9 {
		t.Errorf("Expected weight 6, got %v", *items[0].WeightKg)
	}
}
