package terminal

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"isopipe/bom"
	"isopipe/core"
	"isopipe/editor"
	"isopipe/geometry"
)

// Layout
const (
	sidebarWidth    = 34
	minSidebarWidth = 80 // Screens narrower than this get no BOM panel
	statusRows      = 2
)

var (
	styleDefault   = tcell.StyleDefault
	styleGrid      = tcell.StyleDefault.Foreground(tcell.ColorGray).Dim(true)
	stylePipe      = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue).Bold(true)
	styleEquipment = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleSelected  = tcell.StyleDefault.Reverse(true)
	stylePreview   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleLabel     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleStatus    = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleHeader    = tcell.StyleDefault.Bold(true).Underline(true)
)

var equipmentSymbols = map[string]rune{
	"tank":       '▣',
	"pump":       '◎',
	"valve":      '⋈',
	"vessel":     '◍',
	"exchanger":  '⊞',
	"instrument": '○',
	"flange":     '‖',
	"reducer":    '▷',
}

// ErrNoScreen is returned when rendering without a screen.
var ErrNoScreen = errors.New("terminal: no screen")

// ScreenRenderer draws editor snapshots onto a tcell screen. It implements
// editor.Renderer.
type ScreenRenderer struct {
	screen   tcell.Screen
	view     *View
	showHelp bool
}

// NewScreenRenderer creates a renderer drawing through view onto screen.
func NewScreenRenderer(screen tcell.Screen, view *View) *ScreenRenderer {
	return &ScreenRenderer{screen: screen, view: view}
}

// ShowHelp toggles the help overlay.
func (r *ScreenRenderer) ShowHelp(show bool) {
	r.showHelp = show
}

// HelpVisible reports whether the help overlay is shown.
func (r *ScreenRenderer) HelpVisible() bool {
	return r.showHelp
}

// CanvasSize returns the size of the drawing area in cells.
func (r *ScreenRenderer) CanvasSize() (int, int) {
	w, h := r.screen.Size()
	if w >= minSidebarWidth {
		w -= sidebarWidth
	}
	return w, max(0, h-statusRows)
}

// Render draws a full frame for snap.
func (r *ScreenRenderer) Render(snap editor.Snapshot) error {
	if r.screen == nil {
		return ErrNoScreen
	}
	r.screen.Clear()

	if snap.GridVisible {
		r.drawGrid(snap.Unit)
	}
	for _, p := range snap.Scene.Pipes {
		style := stylePipe
		if snap.IsSelected(p.ID) {
			style = styleSelected
		}
		r.drawSegment(p.Start, p.End, style)
	}
	if seg := snap.InProgress; seg != nil {
		r.drawSegment(seg.Start, seg.End, stylePreview)
	}
	for _, p := range snap.Scene.Pipes {
		r.drawLabel(p.Start.Add(p.End).Scale(0.5), 1, p.Tag)
	}
	for _, e := range snap.Scene.Equipment {
		r.drawEquipment(e, snap.IsSelected(e.ID))
	}

	r.drawSidebar(snap.BOM)
	r.drawStatus(snap)
	if r.showHelp {
		r.drawHelp()
	}

	r.screen.Show()
	return nil
}

func (r *ScreenRenderer) setCell(col, row int, ch rune, style tcell.Style) {
	w, h := r.CanvasSize()
	if col < 0 || row < 0 || col >= w || row >= h {
		return
	}
	r.screen.SetContent(col, row, ch, nil, style)
}

// drawString writes text starting at (x, y), clipped to width cells.
func (r *ScreenRenderer) drawString(x, y, width int, text string, style tcell.Style) {
	for _, ch := range text {
		if width <= 0 {
			return
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
		width--
	}
}

// drawGrid marks every cell whose nearest grid vertex falls inside it.
func (r *ScreenRenderer) drawGrid(unit float64) {
	if unit <= 0 {
		return
	}
	w, h := r.CanvasSize()
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			vertex := geometry.SnapToGrid(r.view.ToWorld(col, row), unit)
			if c, rr := r.view.ToCell(vertex); c == col && rr == row {
				r.setCell(col, row, '·', styleGrid)
			}
		}
	}
}

// segmentRune picks a box-drawing rune for the direction start->end. Screen
// y grows downwards, so 30° runs down and to the right.
func segmentRune(start, end core.Point) rune {
	angle := geometry.AngleDegrees(start, end)
	if geometry.AngularDifference(angle, 0) < 15 || geometry.AngularDifference(angle, 180) < 15 {
		return '─'
	}
	switch geometry.NearestIsoAngle(angle) {
	case 90, 270:
		return '│'
	case 30, 210:
		return '╲'
	default:
		return '╱'
	}
}

func (r *ScreenRenderer) drawSegment(start, end core.Point, style tcell.Style) {
	c0, r0 := r.view.ToCell(start)
	c1, r1 := r.view.ToCell(end)
	ch := segmentRune(start, end)

	steps := max(geometry.Abs(c1-c0), geometry.Abs(r1-r0))
	if steps == 0 {
		r.setCell(c0, r0, '•', style)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		col := c0 + int(math.Round(t*float64(c1-c0)))
		row := r0 + int(math.Round(t*float64(r1-r0)))
		r.setCell(col, row, ch, style)
	}
}

func (r *ScreenRenderer) drawLabel(at core.Point, offset int, text string) {
	if text == "" {
		return
	}
	col, row := r.view.ToCell(at)
	for i, ch := range text {
		r.setCell(col+offset+i, row, ch, styleLabel)
	}
}

func (r *ScreenRenderer) drawEquipment(e core.Equipment, selected bool) {
	symbol, ok := equipmentSymbols[strings.ToLower(e.Kind)]
	if !ok {
		symbol = '●'
	}
	style := styleEquipment
	if selected {
		style = styleSelected
	}
	col, row := r.view.ToCell(e.Position)
	r.setCell(col, row, symbol, style)
	r.drawLabel(e.Position, 2, e.Tag)
}

// drawSidebar lists the bill of materials down the right edge.
func (r *ScreenRenderer) drawSidebar(items []bom.Item) {
	w, h := r.screen.Size()
	if w < minSidebarWidth {
		return
	}
	x := w - sidebarWidth + 1
	width := sidebarWidth - 1
	for row := 0; row < h-statusRows; row++ {
		r.screen.SetContent(x-1, row, '│', nil, styleLabel)
	}

	r.drawString(x, 0, width, "BILL OF MATERIALS", styleHeader)
	r.drawString(x, 1, width, fmt.Sprintf("%-3s %-14s %8s", "#", "TAG", "QTY"), styleLabel)

	row := 2
	last := h - statusRows - 2
	for i, it := range items {
		if row >= last {
			r.drawString(x, row, width, fmt.Sprintf("... %d more", len(items)-i), styleLabel)
			break
		}
		line := fmt.Sprintf("%-3d %-14s %8s", i+1, truncate(it.Tag, 14), formatQuantity(it.Quantity))
		r.drawString(x, row, width, line, styleDefault)
		row++
	}

	totals := bom.Summarize(items)
	summary := fmt.Sprintf("%d items  $%.2f  %.2f kg", totals.Items, totals.TotalPrice, totals.WeightKg)
	if totals.Unpriced > 0 {
		summary += fmt.Sprintf("  (%d N/A)", totals.Unpriced)
	}
	r.drawString(x, h-statusRows-1, width, summary, styleHeader)
}

func (r *ScreenRenderer) drawStatus(snap editor.Snapshot) {
	w, h := r.screen.Size()
	if h < statusRows {
		return
	}

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	status := fmt.Sprintf(" %s | %s | %s | snap:%s grid:%s | undo:%s redo:%s | %s",
		snap.Tool, snap.State, snap.Kind, onOff(snap.Snap), onOff(snap.GridVisible),
		onOff(snap.CanUndo), onOff(snap.CanRedo), snap.Message)

	for col := 0; col < w; col++ {
		r.screen.SetContent(col, h-2, ' ', nil, styleStatus)
	}
	r.drawString(0, h-2, w, status, styleStatus)
	r.drawString(0, h-1, w, " "+editor.GetCompactHelp(), styleLabel)
}

func (r *ScreenRenderer) drawHelp() {
	w, h := r.screen.Size()
	lines := strings.Split(strings.Trim(editor.GetHelpText(), "\n"), "\n")
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	x := max(0, (w-width)/2)
	y := max(0, (h-len(lines))/2)
	for i, l := range lines {
		r.drawString(x, y+i, w-x, l, styleDefault)
	}
}

func formatQuantity(q float64) string {
	return fmt.Sprintf("%.2f", q)
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
