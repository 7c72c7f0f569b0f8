package editor

import (
	"isopipe/config"
	"isopipe/core"
)

// History keeps a bounded list of scene snapshots and a cursor pointing at
// the one currently shown. It starts with a single empty scene, so the
// cursor is always valid.
//
// Scenes are values that are never modified after creation, so entries can
// be stored and returned without copying.
type History struct {
	entries []core.Scene
	cursor  int
	limit   int
}

// NewHistory creates a history holding at most limit snapshots.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = config.DefaultHistoryLimit
	}
	return &History{
		entries: []core.Scene{{}},
		cursor:  0,
		limit:   limit,
	}
}

// Push records s as the new current scene. Any redo branch past the cursor is
// discarded; when the limit is exceeded the oldest entry is evicted.
func (h *History) Push(s core.Scene) {
	// Drop everything after the cursor
	h.entries = h.entries[:h.cursor+1]
	h.entries = append(h.entries, s)
	h.cursor = len(h.entries) - 1

	for len(h.entries) > h.limit {
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = core.Scene{}
		h.entries = h.entries[:len(h.entries)-1]
		h.cursor--
	}
}

// CanUndo returns true if we can undo
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo returns true if we can redo
func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// Undo moves the cursor back one entry. At the oldest entry it is a no-op
// and reports false.
func (h *History) Undo() (core.Scene, bool) {
	if !h.CanUndo() {
		return h.Current(), false
	}
	h.cursor--
	return h.Current(), true
}

// Redo moves the cursor forward one entry. At the newest entry it is a no-op
// and reports false.
func (h *History) Redo() (core.Scene, bool) {
	if !h.CanRedo() {
		return h.Current(), false
	}
	h.cursor++
	return h.Current(), true
}

// Current returns the scene under the cursor.
func (h *History) Current() core.Scene {
	return h.entries[h.cursor]
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return len(h.entries)
}

// Limit returns the maximum number of snapshots kept.
func (h *History) Limit() int {
	return h.limit
}

// Stats returns current position (1-based) and total states
func (h *History) Stats() (current, total int) {
	return h.cursor + 1, len(h.entries)
}
