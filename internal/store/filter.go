package store

import "notesapp/internal/notes"

// Filter selects the notes shown in the view. Empty fields match everything.
type Filter struct {
	Tag      string `json:"tag,omitempty"`
	Category string `json:"category,omitempty"`
}

// IsZero reports whether the filter shows every note.
func (f Filter) IsZero() bool {
	return f.Tag == "" && f.Category == ""
}

// Match reports whether n passes the filter. Matching is exact and
// case-sensitive.
func (f Filter) Match(n notes.Note) bool {
	if f.Tag != "" && n.Tag != f.Tag {
		return false
	}
	if f.Category != "" && !n.HasCategory(f.Category) {
		return false
	}
	return true
}
