package editor

import (
	"fmt"
	"strings"
)

// Help categories
type HelpCategory struct {
	Name     string
	Commands []HelpCommand
}

type HelpCommand struct {
	Key         string
	Description string
}

// HelpCategories lists the keyboard surface grouped for display.
func HelpCategories() []HelpCategory {
	return []HelpCategory{
		{
			Name: "Tools",
			Commands: []HelpCommand{
				{"v", "Select tool"},
				{"p", "Pipe tool (click to chain runs)"},
				{"e", "Equipment tool"},
				{"k", "Next equipment kind"},
				{"Tab", "Next tool"},
			},
		},
		{
			Name: "Drawing",
			Commands: []HelpCommand{
				{"Enter", "Finish the current chain"},
				{"Esc", "Cancel drawing, clear selection"},
				{"r/R", "Rotate selected equipment ±90°"},
				{"Del/Backspace", "Delete selection"},
			},
		},
		{
			Name: "History",
			Commands: []HelpCommand{
				{"Ctrl/Cmd+Z", "Undo"},
				{"Ctrl/Cmd+Y", "Redo"},
				{"Ctrl/Cmd+Shift+Z", "Redo"},
			},
		},
		{
			Name: "View",
			Commands: []HelpCommand{
				{"g", "Toggle grid"},
				{"s", "Toggle snap to grid"},
				{"?", "Show this help"},
				{"q", "Quit"},
			},
		},
	}
}

// GetHelpText returns the help text for display
func GetHelpText() string {
	categories := HelpCategories()

	var b strings.Builder
	b.WriteString("\n╔════════════════════════════════════════════════════╗\n")
	b.WriteString("║                ISOPIPE HELP                        ║\n")
	b.WriteString("╠════════════════════════════════════════════════════╣\n")

	for i, cat := range categories {
		b.WriteString(fmt.Sprintf("║ %-50s ║\n", cat.Name+":"))
		for _, cmd := range cat.Commands {
			b.WriteString(fmt.Sprintf("║   %-16s %-32s ║\n", cmd.Key, cmd.Description))
		}
		if i < len(categories)-1 {
			b.WriteString("║                                                    ║\n")
		}
	}

	b.WriteString("╚════════════════════════════════════════════════════╝\n")
	return b.String()
}

// GetCompactHelp returns a single-line help hint
func GetCompactHelp() string {
	return "v:select p:pipe e:equip Tab:next tool k:kind r:rotate g:grid s:snap ^Z:undo ^Y:redo ?:help q:quit"
}
