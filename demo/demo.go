// Package demo replays scripted editing sessions. A script is a list of
// pointer and key commands applied to an editor controller, either all at
// once (batch export) or paced like a person typing (terminal demo mode).
package demo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"isopipe/core"
	"isopipe/editor"
)

// ErrUnknownCommand is returned for commands the player does not understand.
var ErrUnknownCommand = errors.New("unknown demo command")

// Command represents a single demo command
type Command struct {
	Type     string  `json:"type" yaml:"type"`                       // tool, spec, equipment, click, move, key, pause
	Value    string  `json:"value,omitempty" yaml:"value,omitempty"` // Tool name, key name, "size material", "kind subtype"
	X        float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y        float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Shift    bool    `json:"shift,omitempty" yaml:"shift,omitempty"`
	Delay    int     `json:"delay,omitempty" yaml:"delay,omitempty"`       // base delay in milliseconds
	Variance int     `json:"variance,omitempty" yaml:"variance,omitempty"` // random variance in ms (±variance)
}

// Script represents a demo script
type Script struct {
	Name         string    `json:"name" yaml:"name"`
	Description  string    `json:"description" yaml:"description"`
	Commands     []Command `json:"commands" yaml:"commands"`
	BaseDelay    int       `json:"base_delay" yaml:"base_delay"`       // default delay between commands
	BaseVariance int       `json:"base_variance" yaml:"base_variance"` // default variance
}

// ParseScript decodes a script. YAML is a superset of JSON, so both work.
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse demo script: %w", err)
	}

	// Set defaults
	if script.BaseDelay == 0 {
		script.BaseDelay = 300 // 300ms default
	}
	if script.BaseVariance == 0 {
		script.BaseVariance = 100 // ±100ms default
	}
	return &script, nil
}

// LoadScript loads a demo script from a file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read demo script: %w", err)
	}
	script, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return script, nil
}

// ParseKey converts a key name such as "esc", "ctrl+shift+z" or "r" into a
// key event.
func ParseKey(name string) (editor.KeyEvent, error) {
	switch strings.ToLower(name) {
	case "esc", "escape":
		return editor.Special(editor.KeyEscape), nil
	case "enter", "return":
		return editor.Special(editor.KeyEnter), nil
	case "del", "delete":
		return editor.Special(editor.KeyDelete), nil
	case "backspace":
		return editor.Special(editor.KeyBackspace), nil
	case "tab":
		return editor.Special(editor.KeyTab), nil
	}

	var mod editor.Modifier
	rest := name
	for {
		prefix, tail, ok := strings.Cut(rest, "+")
		if !ok || tail == "" {
			break
		}
		switch strings.ToLower(prefix) {
		case "ctrl":
			mod |= editor.ModCtrl
		case "cmd", "meta":
			mod |= editor.ModMeta
		case "alt":
			mod |= editor.ModAlt
		case "shift":
			mod |= editor.ModShift
		default:
			return editor.KeyEvent{}, fmt.Errorf("%w: key modifier %q", ErrUnknownCommand, prefix)
		}
		rest = tail
	}

	runes := []rune(rest)
	if len(runes) != 1 {
		return editor.KeyEvent{}, fmt.Errorf("%w: key %q", ErrUnknownCommand, name)
	}
	return editor.KeyEvent{Rune: runes[0], Mod: mod}, nil
}

func parseTool(name string) (editor.Tool, error) {
	switch strings.ToLower(name) {
	case "select", "v":
		return editor.ToolSelect, nil
	case "pipe", "p":
		return editor.ToolPipe, nil
	case "equipment", "equip", "e":
		return editor.ToolEquipment, nil
	}
	return editor.ToolSelect, fmt.Errorf("%w: tool %q", ErrUnknownCommand, name)
}

// Apply executes one command against the controller.
func Apply(ctl *editor.Controller, cmd Command) error {
	switch cmd.Type {
	case "tool":
		tool, err := parseTool(cmd.Value)
		if err != nil {
			return err
		}
		ctl.SetTool(tool)

	case "spec":
		// "size material"
		fields := strings.Fields(cmd.Value)
		if len(fields) != 2 {
			return fmt.Errorf("%w: spec wants \"size material\", got %q", ErrUnknownCommand, cmd.Value)
		}
		ctl.SetPipeSpec(fields[0], fields[1])

	case "equipment":
		// "kind [subtype words...]"
		kind, subtype, _ := strings.Cut(strings.TrimSpace(cmd.Value), " ")
		if _, ok := core.LookupKind(kind); !ok {
			return fmt.Errorf("%w: equipment kind %q", ErrUnknownCommand, kind)
		}
		ctl.SetEquipment(strings.ToLower(kind), strings.TrimSpace(subtype))

	case "click":
		var mod editor.Modifier
		if cmd.Shift {
			mod = editor.ModShift
		}
		ctl.PointerDown(core.Point{X: cmd.X, Y: cmd.Y}, mod)

	case "move":
		ctl.PointerMove(core.Point{X: cmd.X, Y: cmd.Y})

	case "key":
		k, err := ParseKey(cmd.Value)
		if err != nil {
			return err
		}
		if !ctl.HandleKey(k) {
			return fmt.Errorf("%w: unbound key %q", ErrUnknownCommand, cmd.Value)
		}

	case "pause":
		// Just pause, no action

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	return nil
}

// Run applies every command of the script in order without delays. It stops
// at the first failing command.
func Run(ctl *editor.Controller, script *Script) error {
	for i, cmd := range script.Commands {
		if err := Apply(ctl, cmd); err != nil {
			return fmt.Errorf("command %d: %w", i+1, err)
		}
	}
	return nil
}

// Player plays back demo scripts with human-like timing. Commands are handed
// to the apply callback one at a time from the playback goroutine; the
// callback decides how they reach the controller.
type Player struct {
	script *Script
	apply  func(Command)

	mu        sync.Mutex
	cancel    context.CancelFunc
	isPlaying bool
}

// NewPlayer creates a new demo player
func NewPlayer(script *Script, apply func(Command)) *Player {
	return &Player{script: script, apply: apply}
}

// Play starts playing the script in the background. It returns a channel
// closed when playback finishes or is stopped.
func (p *Player) Play(ctx context.Context) (<-chan struct{}, error) {
	if p.script == nil {
		return nil, fmt.Errorf("no script loaded")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isPlaying {
		return nil, fmt.Errorf("already playing")
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.isPlaying = true
	done := make(chan struct{})
	go p.playScript(ctx, done)
	return done, nil
}

// Stop stops the current playback
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

// IsPlaying returns whether a demo is currently playing
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isPlaying
}

func (p *Player) playScript(ctx context.Context, done chan struct{}) {
	defer func() {
		p.mu.Lock()
		p.isPlaying = false
		p.cancel = nil
		p.mu.Unlock()
		close(done)
	}()

	for _, cmd := range p.script.Commands {
		if ctx.Err() != nil {
			return
		}
		p.apply(cmd)

		// Wait before next command
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.delay(cmd)):
		}
	}
}

// delay returns the pause after cmd, with random variance for a natural feel.
func (p *Player) delay(cmd Command) time.Duration {
	delay := cmd.Delay
	if delay == 0 {
		delay = p.script.BaseDelay
	}

	variance := cmd.Variance
	if variance == 0 {
		variance = p.script.BaseVariance
	}
	if variance > 0 {
		delay += rand.Intn(variance*2) - variance // ±variance
	}

	// Ensure minimum delay
	if delay < 10 {
		delay = 10
	}
	return time.Duration(delay) * time.Millisecond
}

// GenerateExample creates an example demo script
func GenerateExample() string {
	script := Script{
		Name:         "Pump discharge",
		Description:  "Draws a pipe run from a pump through a gate valve",
		BaseDelay:    400,
		BaseVariance: 150,
		Commands: []Command{
			{Type: "equipment", Value: "pump Centrifugal Pump"},
			{Type: "tool", Value: "equipment"},
			{Type: "click", X: 0, Y: 0, Delay: 800},

			{Type: "spec", Value: "DN100 CS"},
			{Type: "tool", Value: "pipe"},
			{Type: "click", X: 0, Y: 0},
			{Type: "click", X: 0, Y: 120},
			{Type: "click", X: 104, Y: 180},
			{Type: "key", Value: "enter"},

			{Type: "equipment", Value: "valve Gate Valve"},
			{Type: "tool", Value: "equipment"},
			{Type: "click", X: 104, Y: 180},

			{Type: "pause", Delay: 2000}, // Pause to show result
		},
	}

	data, _ := yaml.Marshal(script)
	return string(data)
}
