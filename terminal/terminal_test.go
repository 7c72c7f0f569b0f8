package terminal

import (
	"math"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"isopipe/config"
	"isopipe/core"
	"isopipe/demo"
	"isopipe/editor"
	"isopipe/scene"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	sim.SetSize(w, h)
	t.Cleanup(sim.Fini)
	return sim
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func newApp(t *testing.T) (*App, tcell.SimulationScreen, *editor.Controller) {
	t.Helper()
	sim := newSimScreen(t, 100, 30)
	ctl := editor.NewController(config.Default(), editor.WithIDs(scene.SequentialIDs("t")))
	return NewApp(sim, ctl, nil), sim, ctl
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func click(x, y int) []tcell.Event {
	return []tcell.Event{
		tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone),
		tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone),
	}
}

func TestViewRoundTrip(t *testing.T) {
	v := NewView(40)
	for _, c := range [][2]int{{0, 0}, {4, 2}, {17, 9}, {-3, 5}} {
		col, row := v.ToCell(v.ToWorld(c[0], c[1]))
		if col != c[0] || row != c[1] {
			t.Errorf("Round trip of %v gave (%d,%d)", c, col, row)
		}
	}

	if col, row := v.ToCell(core.Point{}); col != 4 || row != 2 {
		t.Errorf("Expected world origin at (4,2), got (%d,%d)", col, row)
	}
}

func TestViewPanAndZoom(t *testing.T) {
	v := NewView(40)
	before := v.ToWorld(10, 5)
	v.Pan(2, 1)
	if got := v.ToWorld(8, 4); got != before {
		t.Errorf("Pan should shift cells, got %v want %v", got, before)
	}

	anchor := v.ToWorld(10, 5)
	v.ZoomBy(2, 10, 5)
	if v.Scale != 2 {
		t.Errorf("Expected scale 2, got %v", v.Scale)
	}
	got := v.ToWorld(10, 5)
	if math.Abs(got.X-anchor.X) > 1e-9 || math.Abs(got.Y-anchor.Y) > 1e-9 {
		t.Errorf("Zoom should keep the anchor fixed, got %v want %v", got, anchor)
	}

	v.ZoomBy(100, 0, 0)
	if v.Scale != maxScale {
		t.Errorf("Expected scale clamped to %v, got %v", maxScale, v.Scale)
	}
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name    string
		ev      *tcell.EventKey
		want    editor.KeyEvent
		command bool
		shifted bool
	}{
		{"ctrl-z", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), editor.KeyEvent{Rune: 'z', Mod: editor.ModCtrl}, true, false},
		{"ctrl-shift-z", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl|tcell.ModShift), editor.KeyEvent{Rune: 'z', Mod: editor.ModCtrl | editor.ModShift}, true, true},
		{"ctrl-y", tcell.NewEventKey(tcell.KeyCtrlY, 0, tcell.ModCtrl), editor.KeyEvent{Rune: 'y', Mod: editor.ModCtrl}, true, false},
		{"cmd-z", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModMeta), editor.KeyEvent{Rune: 'z', Mod: editor.ModMeta}, true, false},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), editor.Special(editor.KeyEscape), false, false},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), editor.Special(editor.KeyEnter), false, false},
		{"delete", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), editor.Special(editor.KeyDelete), false, false},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), editor.Special(editor.KeyBackspace), false, false},
		{"g", key('g'), editor.Rune('g'), false, false},
		{"R", key('R'), editor.KeyEvent{Rune: 'R', Mod: editor.ModShift}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TranslateKey(tt.ev)
			if !ok {
				t.Fatal("Expected key to translate")
			}
			if got != tt.want {
				t.Errorf("TranslateKey = %+v, want %+v", got, tt.want)
			}
			if got.Command() != tt.command || got.Shifted() != tt.shifted {
				t.Errorf("Command/Shifted = %v/%v, want %v/%v", got.Command(), got.Shifted(), tt.command, tt.shifted)
			}
		})
	}

	if _, ok := TranslateKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)); ok {
		t.Error("Arrow keys are not editor keys")
	}
}

func TestRendererDrawsScene(t *testing.T) {
	sim := newSimScreen(t, 100, 30)
	view := NewView(40)
	r := NewScreenRenderer(sim, view)

	g := scene.New(40)
	g.NewID = scene.SequentialIDs("r")
	s, _ := g.AddPipe(core.Scene{}, core.Point{X: 0, Y: 0}, core.Point{X: 0, Y: 80}, "DN50", "CS")
	s, _ = g.AddEquipment(s, "pump", "", core.Point{X: 0, Y: 160}, "DN50", "CS")

	ctl := editor.NewController(config.Default())
	snap := ctl.Snapshot()
	snap.Scene = s
	snap.GridVisible = false

	if err := r.Render(snap); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// The pipe runs straight down column 4 from row 2 to row 6
	for row := 2; row <= 6; row++ {
		if ch, _, _, _ := sim.GetContent(4, row); ch != '│' {
			t.Errorf("Expected pipe at (4,%d), got %q", row, ch)
		}
	}
	if ch, _, _, _ := sim.GetContent(4, 10); ch != '◎' {
		t.Errorf("Expected pump symbol at (4,10), got %q", ch)
	}
	if !strings.Contains(rowText(sim, 10), "Pump-1") {
		t.Errorf("Expected pump tag next to the symbol, got %q", rowText(sim, 10))
	}
	if !strings.Contains(rowText(sim, 0), "BILL OF MATERIALS") {
		t.Error("Expected BOM panel header")
	}
	if !strings.Contains(rowText(sim, 28), "SELECT") {
		t.Errorf("Expected status line, got %q", rowText(sim, 28))
	}
}

func TestRendererWithoutScreen(t *testing.T) {
	r := NewScreenRenderer(nil, NewView(40))
	if err := r.Render(editor.Snapshot{}); err != ErrNoScreen {
		t.Errorf("Expected ErrNoScreen, got %v", err)
	}
}

func TestSegmentRune(t *testing.T) {
	tests := []struct {
		end  core.Point
		want rune
	}{
		{core.Point{X: 0, Y: 10}, '│'},
		{core.Point{X: 0, Y: -10}, '│'},
		{core.Point{X: 10, Y: 0}, '─'},
		{core.Point{X: 8.66, Y: 5}, '╲'},
		{core.Point{X: -8.66, Y: 5}, '╱'},
		{core.Point{X: 8.66, Y: -5}, '╱'},
	}
	for _, tt := range tests {
		if got := segmentRune(core.Point{}, tt.end); got != tt.want {
			t.Errorf("segmentRune(%v) = %q, want %q", tt.end, got, tt.want)
		}
	}
}

func TestAppDrawsPipeWithMouse(t *testing.T) {
	app, sim, ctl := newApp(t)

	app.HandleEvent(key('p'))
	if ctl.Tool() != editor.ToolPipe {
		t.Fatalf("Expected pipe tool, got %s", ctl.Tool())
	}

	for _, ev := range click(4, 2) {
		app.HandleEvent(ev)
	}
	if ctl.State() != editor.StateDrawing {
		t.Fatalf("Expected DRAWING, got %s", ctl.State())
	}

	app.HandleEvent(tcell.NewEventMouse(4, 5, tcell.ButtonNone, tcell.ModNone))
	if ctl.Snapshot().InProgress == nil {
		t.Error("Mouse motion should update the preview")
	}

	for _, ev := range click(4, 6) {
		app.HandleEvent(ev)
	}
	s := ctl.Scene()
	if len(s.Pipes) != 1 || s.Pipes[0].End != (core.Point{X: 0, Y: 80}) {
		t.Fatalf("Expected one pipe to (0,80), got %+v", s.Pipes)
	}
	if ch, _, _, _ := sim.GetContent(4, 4); ch != '│' {
		t.Errorf("Expected the committed pipe on screen, got %q", ch)
	}

	app.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if ctl.State() != editor.StateIdle {
		t.Errorf("Enter should finish the chain, got %s", ctl.State())
	}

	app.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl))
	if len(ctl.Scene().Pipes) != 0 {
		t.Error("Ctrl+Z should undo the pipe")
	}
	app.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlY, 0, tcell.ModCtrl))
	if len(ctl.Scene().Pipes) != 1 {
		t.Error("Ctrl+Y should redo the pipe")
	}
}

func TestAppIgnoresClicksOutsideCanvas(t *testing.T) {
	app, _, ctl := newApp(t)
	app.HandleEvent(key('e'))
	for _, ev := range click(90, 5) {
		app.HandleEvent(ev)
	}
	if !ctl.Scene().IsEmpty() {
		t.Error("Clicks on the BOM panel must not place equipment")
	}
}

func TestAppHelpOverlay(t *testing.T) {
	app, sim, ctl := newApp(t)

	app.HandleEvent(key('?'))
	found := false
	_, h := sim.Size()
	for y := 0; y < h; y++ {
		if strings.Contains(rowText(sim, y), "ISOPIPE HELP") {
			found = true
		}
	}
	if !found {
		t.Error("Expected help overlay on screen")
	}

	// The key that closes help is not passed on
	app.HandleEvent(key('p'))
	if ctl.Tool() != editor.ToolSelect {
		t.Error("Key closing the help overlay should be swallowed")
	}
}

func TestAppPanZoomAndQuit(t *testing.T) {
	app, _, ctl := newApp(t)

	origin := app.View().Origin
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if app.View().Origin == origin {
		t.Error("Arrow keys should pan the view")
	}

	app.HandleEvent(key('+'))
	if app.View().Scale <= 1 {
		t.Errorf("Expected zoom in, got scale %v", app.View().Scale)
	}
	if ctl.History().Len() != 1 {
		t.Error("View changes must not touch history")
	}

	if app.HandleEvent(key('x')) {
		t.Error("Unbound keys must not quit")
	}
	if !app.HandleEvent(key('q')) {
		t.Error("q should quit")
	}
	if !app.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Error("Ctrl+C should quit")
	}
}

func TestAppAppliesDemoCommands(t *testing.T) {
	app, _, ctl := newApp(t)

	events := []demo.Command{
		{Type: "tool", Value: "equipment"},
		{Type: "click", X: 0, Y: 0},
		{Type: "teleport"}, // Logged and skipped
	}
	for _, cmd := range events {
		app.HandleEvent(tcell.NewEventInterrupt(cmd))
	}
	if len(ctl.Scene().Equipment) != 1 {
		t.Errorf("Expected demo to place one symbol, got %d", len(ctl.Scene().Equipment))
	}
}
