package editor

// HandleKey dispatches a keyboard intent. It returns false for keys the
// editor does not use, so the caller can handle them (quit, help, ...).
func (c *Controller) HandleKey(k KeyEvent) bool {
	// Global shortcuts work in every state
	if k.Command() {
		switch {
		case k.Is('z') && k.Shifted():
			c.Redo()
		case k.Is('z'):
			c.Undo()
		case k.Is('y'):
			c.Redo()
		default:
			return false
		}
		return true
	}

	switch k.SpecialKey {
	case KeyEscape: // Cancel draw and clear selection
		c.Cancel()
		return true
	case KeyEnter: // Finish the current chain
		c.EndChain()
		return true
	case KeyDelete, KeyBackspace:
		c.DeleteSelection()
		return true
	case KeyTab:
		c.CycleTool()
		return true
	case KeyNone:
	default:
		return false
	}

	switch {
	case k.Is('g'):
		c.ToggleGrid()
	case k.Is('s'):
		c.ToggleSnap()
	case k.Is('r'):
		if k.Shifted() {
			c.RotateSelection(-90)
		} else {
			c.RotateSelection(90)
		}
	case k.Is('p'):
		c.SetTool(ToolPipe)
	case k.Is('v'):
		c.SetTool(ToolSelect)
	case k.Is('e'):
		c.SetTool(ToolEquipment)
	case k.Is('k'):
		c.CycleEquipmentKind()
	default:
		return false
	}
	return true
}
