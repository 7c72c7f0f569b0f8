package editor

// State is the editor controller state. The three states replace what would
// otherwise be independent drawing/selecting flags: every UI flag is derived
// from the state.
type State int

const (
	StateIdle      State = iota // Nothing in progress, nothing selected
	StateDrawing                // A pipe chain is being drawn from drawStart
	StateSelecting              // One or more entities are selected
)

// String returns the state name for display
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateDrawing:
		return "DRAWING"
	case StateSelecting:
		return "SELECTING"
	default:
		return "UNKNOWN"
	}
}

// Tool is the active pointer tool.
type Tool int

const (
	ToolSelect    Tool = iota // Pointer-down hit-tests and selects
	ToolPipe                  // Pointer-down starts or continues a pipe chain
	ToolEquipment             // Pointer-down places a symbol
)

// String returns the tool name for display
func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "SELECT"
	case ToolPipe:
		return "PIPE"
	case ToolEquipment:
		return "EQUIPMENT"
	default:
		return "UNKNOWN"
	}
}
