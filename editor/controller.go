package editor

import (
	"io"
	"log"

	"isopipe/bom"
	"isopipe/config"
	"isopipe/core"
	"isopipe/scene"
	"isopipe/selection"
)

// Controller is the editor state machine. It owns the history (and through it
// the current scene) and the selection; everything else only reads snapshots.
//
// A Controller is not safe for concurrent use: intents must be dispatched one
// at a time, and each one is fully applied before it returns.
type Controller struct {
	cfg     config.Config
	graph   scene.Graph
	history *History
	catalog bom.Catalog
	logger  *log.Logger

	// State machine
	state     State
	tool      Tool
	drawStart core.Point  // Valid in StateDrawing
	pointer   *core.Point // Last pointer position, for the in-progress preview
	selection selection.Set

	// Defaults for new entities
	pipeSize string
	material string
	kind     string
	subtype  string

	// View flags (G and S keys)
	gridVisible bool

	items   []bom.Item // BOM of the current scene, priced
	message string     // Status line text from the last intent

	observers []func(Snapshot)
}

// Option customises a Controller.
type Option func(*Controller)

// WithCatalog sets the pricing catalog used for the BOM.
func WithCatalog(c bom.Catalog) Option {
	return func(ctl *Controller) {
		ctl.catalog = c
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(ctl *Controller) {
		if l != nil {
			ctl.logger = l
		}
	}
}

// WithIDs replaces the entity id source.
func WithIDs(newID func() string) Option {
	return func(ctl *Controller) {
		ctl.graph.NewID = newID
	}
}

// NewController creates a controller with an empty scene.
func NewController(cfg config.Config, opts ...Option) *Controller {
	if cfg.GridUnit <= 0 {
		cfg.GridUnit = config.Default().GridUnit
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = 1
	}

	graph := scene.New(cfg.GridUnit)
	graph.Snap = cfg.Snap

	c := &Controller{
		cfg:         cfg,
		graph:       graph,
		history:     NewHistory(cfg.HistoryLimit),
		logger:      log.New(io.Discard, "", 0),
		state:       StateIdle,
		tool:        ToolSelect,
		pipeSize:    cfg.DefaultPipeSize,
		material:    cfg.DefaultMaterial,
		kind:        cfg.DefaultKind,
		gridVisible: cfg.ShowGrid,
	}
	if c.kind == "" {
		c.kind = core.EquipmentKinds[0].Name
	}
	for _, opt := range opts {
		opt(c)
	}
	c.recomputeBOM()
	return c
}

// OnChange registers fn to be called after every intent that changed the
// scene, the selection, the in-progress segment or a view flag.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.observers = append(c.observers, fn)
}

// Attach registers a renderer as an observer. Render errors are logged.
func (c *Controller) Attach(r Renderer) {
	c.OnChange(func(s Snapshot) {
		if err := r.Render(s); err != nil {
			c.logger.Printf("render failed: %v", err)
		}
	})
}

// Scene returns the current scene.
func (c *Controller) Scene() core.Scene {
	return c.history.Current()
}

// BOM returns the priced bill of materials for the current scene.
func (c *Controller) BOM() []bom.Item {
	out := make([]bom.Item, len(c.items))
	copy(out, c.items)
	return out
}

// State returns the current state machine state.
func (c *Controller) State() State {
	return c.state
}

// Tool returns the active tool.
func (c *Controller) Tool() Tool {
	return c.tool
}

// DrawStart returns the anchor of the pipe chain being drawn.
func (c *Controller) DrawStart() (core.Point, bool) {
	return c.drawStart, c.state == StateDrawing
}

// Selected returns the selected entity ids in selection order.
func (c *Controller) Selected() []string {
	return c.selection.IDs()
}

// GridVisible returns whether the grid is drawn.
func (c *Controller) GridVisible() bool {
	return c.gridVisible
}

// SnapEnabled returns whether input is snapped to the grid.
func (c *Controller) SnapEnabled() bool {
	return c.graph.Snap
}

// Unit returns the grid unit in world coordinates.
func (c *Controller) Unit() float64 {
	return c.cfg.GridUnit
}

// History exposes the undo history for inspection.
func (c *Controller) History() *History {
	return c.history
}

// Message returns the status text left by the last intent.
func (c *Controller) Message() string {
	return c.message
}

// Snapshot captures the current editor state for rendering.
func (c *Controller) Snapshot() Snapshot {
	undo, redo := c.history.CanUndo(), c.history.CanRedo()
	return Snapshot{
		Scene:       c.history.Current(),
		BOM:         c.BOM(),
		Selected:    c.selection.IDs(),
		InProgress:  c.inProgress(),
		State:       c.state,
		Tool:        c.tool,
		Kind:        c.kind,
		GridVisible: c.gridVisible,
		Snap:        c.graph.Snap,
		Unit:        c.cfg.GridUnit,
		Message:     c.message,
		CanUndo:     undo,
		CanRedo:     redo,
	}
}

// inProgress returns the preview segment from the chain anchor to the
// pointer, constrained the same way a commit would be.
func (c *Controller) inProgress() *Segment {
	if c.state != StateDrawing || c.pointer == nil {
		return nil
	}
	end := c.constrain(c.drawStart, *c.pointer)
	return &Segment{Start: c.drawStart, End: end}
}

// commit pushes next onto the history if it differs from the current scene.
// It returns false for no-op mutations, which leave the history untouched.
func (c *Controller) commit(next core.Scene) bool {
	if next.Equal(c.history.Current()) {
		return false
	}
	c.history.Push(next)
	c.recomputeBOM()
	return true
}

// restore re-derives everything that depends on the current history entry.
func (c *Controller) restore() {
	c.recomputeBOM()
	c.selection = c.selection.Prune(c.history.Current())
	if c.state == StateSelecting && c.selection.IsEmpty() {
		c.state = StateIdle
	}
}

func (c *Controller) recomputeBOM() {
	c.items = bom.ApplyPricing(bom.Derive(c.history.Current(), c.cfg.GridUnit), c.catalog)
}

func (c *Controller) notify() {
	if len(c.observers) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, fn := range c.observers {
		fn(snap)
	}
}
