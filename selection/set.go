package selection

import "isopipe/core"

// Set is an insertion-ordered set of selected entity ids.
type Set struct {
	ids []string
}

// NewSet returns a set holding ids (duplicates dropped).
func NewSet(ids ...string) Set {
	var s Set
	for _, id := range ids {
		s = s.With(id)
	}
	return s
}

// Len returns the number of selected ids.
func (s Set) Len() int {
	return len(s.ids)
}

// IsEmpty returns true when nothing is selected.
func (s Set) IsEmpty() bool {
	return len(s.ids) == 0
}

// Has reports whether id is selected.
func (s Set) Has(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the selected ids in selection order.
func (s Set) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Map returns the selection as a lookup map, the form scene.RemoveEntities takes.
func (s Set) Map() map[string]bool {
	m := make(map[string]bool, len(s.ids))
	for _, id := range s.ids {
		m[id] = true
	}
	return m
}

// With returns a set that also holds id.
func (s Set) With(id string) Set {
	if id == "" || s.Has(id) {
		return s
	}
	ids := make([]string, len(s.ids), len(s.ids)+1)
	copy(ids, s.ids)
	return Set{ids: append(ids, id)}
}

// Toggle adds id if absent and removes it if present.
func (s Set) Toggle(id string) Set {
	if !s.Has(id) {
		return s.With(id)
	}
	ids := make([]string, 0, len(s.ids)-1)
	for _, v := range s.ids {
		if v != id {
			ids = append(ids, v)
		}
	}
	return Set{ids: ids}
}

// Prune drops ids that no longer exist in the scene, e.g. after an undo.
func (s Set) Prune(sc core.Scene) Set {
	var ids []string
	for _, id := range s.ids {
		if sc.Contains(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == len(s.ids) {
		return s
	}
	return Set{ids: ids}
}
