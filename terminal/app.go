package terminal

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/gdamore/tcell/v2"

	"isopipe/demo"
	"isopipe/editor"
)

const (
	panCols   = 4
	panRows   = 2
	zoomStep  = 1.25
	wheelStep = 1.1
)

// App runs the interactive editor on a tcell screen.
type App struct {
	screen   tcell.Screen
	ctl      *editor.Controller
	view     *View
	renderer *ScreenRenderer
	logger   *log.Logger

	buttons tcell.ButtonMask // Buttons held at the previous mouse event
}

// NewApp wires a controller to a screen. The renderer is attached to the
// controller, so every intent redraws the frame.
func NewApp(screen tcell.Screen, ctl *editor.Controller, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	view := NewView(ctl.Unit())
	a := &App{
		screen:   screen,
		ctl:      ctl,
		view:     view,
		renderer: NewScreenRenderer(screen, view),
		logger:   logger,
	}
	ctl.Attach(a.renderer)
	return a
}

// View returns the current view transform.
func (a *App) View() *View {
	return a.view
}

// Run executes the event loop until the user quits.
func (a *App) Run() error {
	a.redraw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			// Screen finalized
			return nil
		}
		if a.HandleEvent(ev) {
			return nil
		}
	}
}

// HandleEvent processes one event and reports whether the app should quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.redraw()
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventInterrupt:
		// Demo commands are posted from the player goroutine and applied here,
		// on the event loop, so the controller only ever sees one caller.
		if cmd, ok := ev.Data().(demo.Command); ok {
			if err := demo.Apply(a.ctl, cmd); err != nil {
				a.logger.Printf("demo: %v", err)
			}
		}
	}
	return false
}

// PlayDemo replays script through the event loop with human-like pacing.
// Playback stops when ctx is cancelled.
func (a *App) PlayDemo(ctx context.Context, script *demo.Script) error {
	player := demo.NewPlayer(script, func(cmd demo.Command) {
		if err := a.screen.PostEvent(tcell.NewEventInterrupt(cmd)); err != nil {
			a.logger.Printf("demo: dropped %s command: %v", cmd.Type, err)
		}
	})
	_, err := player.Play(ctx)
	return err
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}

	// Any key closes the help overlay
	if a.renderer.HelpVisible() {
		a.renderer.ShowHelp(false)
		a.redraw()
		return false
	}

	switch ev.Key() {
	case tcell.KeyUp:
		a.pan(0, -panRows)
		return false
	case tcell.KeyDown:
		a.pan(0, panRows)
		return false
	case tcell.KeyLeft:
		a.pan(-panCols, 0)
		return false
	case tcell.KeyRight:
		a.pan(panCols, 0)
		return false
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModMeta|tcell.ModAlt|tcell.ModCtrl) == 0 {
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case '?':
				a.renderer.ShowHelp(true)
				a.redraw()
				return false
			case '+', '=':
				a.zoom(zoomStep)
				return false
			case '-', '_':
				a.zoom(1 / zoomStep)
				return false
			}
		}
	}

	k, ok := TranslateKey(ev)
	if !ok {
		return false
	}
	if !a.ctl.HandleKey(k) {
		a.logger.Printf("unbound key %q", ev.Name())
	}
	return false
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons &^ a.buttons
	a.buttons = buttons

	switch {
	case buttons&tcell.WheelUp != 0:
		a.zoomAt(wheelStep, x, y)
		return
	case buttons&tcell.WheelDown != 0:
		a.zoomAt(1/wheelStep, x, y)
		return
	}

	w, h := a.renderer.CanvasSize()
	if x >= w || y >= h {
		return
	}
	world := a.view.ToWorld(x, y)

	switch {
	case pressed&tcell.Button1 != 0:
		var mod editor.Modifier
		if ev.Modifiers()&tcell.ModShift != 0 {
			mod |= editor.ModShift
		}
		a.ctl.PointerDown(world, mod)
	case pressed&tcell.Button2 != 0:
		// Right click finishes the current chain
		a.ctl.EndChain()
	default:
		a.ctl.PointerMove(world)
	}
}

func (a *App) pan(cols, rows int) {
	a.view.Pan(cols, rows)
	a.redraw()
}

func (a *App) zoom(factor float64) {
	w, h := a.renderer.CanvasSize()
	a.zoomAt(factor, w/2, h/2)
}

func (a *App) zoomAt(factor float64, col, row int) {
	a.view.ZoomBy(factor, col, row)
	a.ctl.SetZoom(a.view.Scale)
	a.redraw()
}

func (a *App) redraw() {
	if err := a.renderer.Render(a.ctl.Snapshot()); err != nil {
		a.logger.Printf("render failed: %v", err)
	}
}

// RunInteractive opens the terminal, runs the editor until the user quits and
// restores the terminal. A non-nil script is played back as a demo.
func RunInteractive(ctl *editor.Controller, logger *log.Logger, script *demo.Script) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.Clear()

	app := NewApp(screen, ctl, logger)
	if script != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := app.PlayDemo(ctx, script); err != nil {
			return fmt.Errorf("failed to start demo: %w", err)
		}
	}
	return app.Run()
}
