package store

import "notesapp/internal/notes"

// Notes returns the canonical collection in insertion order.
func (s *Store) Notes() []notes.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]notes.Note, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

// View returns the filtered view.
func (s *Store) View() []notes.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.view)
}

// Categories returns every distinct category label across all notes.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.categories...)
}

// Filter returns the active filter.
func (s *Store) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter
}

// Editing returns the note being edited, if any.
func (s *Store) Editing() (notes.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.editing == nil {
		return notes.Note{}, false
	}
	return s.editing.Clone(), true
}

// Get returns the canonical note with the given id.
func (s *Store) Get(id int64) (notes.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byID[id]
	if !ok {
		return notes.Note{}, false
	}
	return n.Clone(), true
}

// Len returns the size of the canonical collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

// Partition splits notes into active and archived ones, keeping order.
func Partition(list []notes.Note) (active, archived []notes.Note) {
	for _, n := range list {
		if n.Archived {
			archived = append(archived, n)
		} else {
			active = append(active, n)
		}
	}
	return active, archived
}

func cloneAll(list []notes.Note) []notes.Note {
	out := make([]notes.Note, len(list))
	for i, n := range list {
		out[i] = n.Clone()
	}
	return out
}
