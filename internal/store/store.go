// Package store keeps the client-side view of the note collection: the
// canonical notes last synchronised with the note service, the active filter,
// the filtered view derived from both, and the category set.
//
// Every mutation goes through the Remote first. State changes only after the
// remote call succeeds, so a failed operation leaves the store exactly as it
// was. The lock is never held across a remote call; when two calls for the
// same note race, the last response to arrive wins.
package store

import (
	"context"
	"log/slog"
	"sync"

	"notesapp/internal/notes"
)

// Remote is the note service the store synchronises with.
type Remote interface {
	ListNotes(ctx context.Context) ([]notes.Note, error)
	CreateNote(ctx context.Context, d notes.Draft) (notes.Note, error)
	UpdateNote(ctx context.Context, n notes.Note) (notes.Note, error)
	DeleteNote(ctx context.Context, id int64) error
}

// Store is the in-memory note view-state manager.
type Store struct {
	remote Remote
	log    *slog.Logger

	mu         sync.RWMutex
	order      []int64
	byID       map[int64]notes.Note
	filter     Filter
	view       []notes.Note
	categories []string
	editing    *notes.Note

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// New returns an empty store backed by remote. Call Initialize to load it.
func New(remote Remote, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		remote: remote,
		log:    log,
		byID:   make(map[int64]notes.Note),
		subs:   make(map[int]func(Event)),
	}
}

// Initialize replaces the canonical collection with the service's full list
// and clears the filter. On failure the store is left untouched.
func (s *Store) Initialize(ctx context.Context) error {
	list, err := s.remote.ListNotes(ctx)
	if err != nil {
		return s.failed(OpList, err)
	}

	s.mu.Lock()
	s.order = make([]int64, 0, len(list))
	s.byID = make(map[int64]notes.Note, len(list))
	for _, n := range list {
		if _, dup := s.byID[n.ID]; !dup {
			s.order = append(s.order, n.ID)
		}
		s.byID[n.ID] = n.Clone()
	}
	s.filter = Filter{}
	s.rebuildLocked()
	count := len(s.order)
	s.mu.Unlock()

	s.log.Debug("store initialized", "notes", count)
	s.publish(Event{Kind: EventLoaded})
	return nil
}

// AddNote creates d on the service and appends the created note.
func (s *Store) AddNote(ctx context.Context, d notes.Draft) (notes.Note, error) {
	created, err := s.remote.CreateNote(ctx, d)
	if err != nil {
		return notes.Note{}, s.failed(OpCreate, err)
	}

	s.mu.Lock()
	if _, exists := s.byID[created.ID]; !exists {
		s.order = append(s.order, created.ID)
	}
	s.byID[created.ID] = created.Clone()
	s.rebuildLocked()
	s.mu.Unlock()

	s.log.Debug("note added", "id", created.ID)
	s.publish(Event{Kind: EventAdded, NoteID: created.ID})
	return created.Clone(), nil
}

// UpdateNote sends n to the service and stores the note the service returns.
// The edited note is cleared when it refers to the same id.
func (s *Store) UpdateNote(ctx context.Context, n notes.Note) (notes.Note, error) {
	return s.update(ctx, OpUpdate, n)
}

// ToggleArchive flips the archived flag of n through the update path.
// Archived notes stay in the view.
func (s *Store) ToggleArchive(ctx context.Context, n notes.Note) (notes.Note, error) {
	n = n.Clone()
	n.Archived = !n.Archived
	return s.update(ctx, OpArchive, n)
}

func (s *Store) update(ctx context.Context, op string, n notes.Note) (notes.Note, error) {
	updated, err := s.remote.UpdateNote(ctx, n)
	if err != nil {
		return notes.Note{}, s.failed(op, err)
	}

	s.mu.Lock()
	// An id the store does not hold (deleted meanwhile) is not resurrected.
	_, known := s.byID[updated.ID]
	if known {
		s.byID[updated.ID] = updated.Clone()
		s.rebuildLocked()
	}
	editCleared := s.editing != nil && s.editing.ID == updated.ID
	if editCleared {
		s.editing = nil
	}
	s.mu.Unlock()

	s.log.Debug("note updated", "op", op, "id", updated.ID, "known", known)
	if known {
		s.publish(Event{Kind: EventUpdated, NoteID: updated.ID})
	}
	if editCleared {
		s.publish(Event{Kind: EventEditChanged, NoteID: updated.ID})
	}
	return updated.Clone(), nil
}

// DeleteNote removes id on the service, then from the canonical collection.
// The filtered view is re-derived rather than pruned separately.
func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	if err := s.remote.DeleteNote(ctx, id); err != nil {
		return s.failed(OpDelete, err)
	}

	s.mu.Lock()
	_, known := s.byID[id]
	if known {
		delete(s.byID, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		s.rebuildLocked()
	}
	editCleared := s.editing != nil && s.editing.ID == id
	if editCleared {
		s.editing = nil
	}
	s.mu.Unlock()

	s.log.Debug("note deleted", "id", id, "known", known)
	s.publish(Event{Kind: EventDeleted, NoteID: id})
	if editCleared {
		s.publish(Event{Kind: EventEditChanged, NoteID: id})
	}
	return nil
}

// SetTagFilter shows only notes whose tag equals tag. An empty tag shows all.
// It replaces any category filter.
func (s *Store) SetTagFilter(tag string) {
	s.SetFilter(Filter{Tag: tag})
}

// SetCategoryFilter shows only notes carrying category. An empty category
// shows all. It replaces any tag filter.
func (s *Store) SetCategoryFilter(category string) {
	s.SetFilter(Filter{Category: category})
}

// SetFilter installs f as the active filter. Both fields must match when
// both are set.
func (s *Store) SetFilter(f Filter) {
	s.mu.Lock()
	s.filter = f
	s.view = s.deriveViewLocked()
	s.mu.Unlock()

	s.publish(Event{Kind: EventFilterChanged})
}

// BeginEdit marks n as the note being edited.
func (s *Store) BeginEdit(n notes.Note) {
	n = n.Clone()
	s.mu.Lock()
	s.editing = &n
	s.mu.Unlock()

	s.publish(Event{Kind: EventEditChanged, NoteID: n.ID})
}

// EndEdit clears the note being edited.
func (s *Store) EndEdit() {
	s.mu.Lock()
	s.editing = nil
	s.mu.Unlock()

	s.publish(Event{Kind: EventEditChanged})
}

func (s *Store) failed(op string, err error) error {
	s.log.Warn("remote note operation failed", "op", op, "error", err)
	return &RemoteOperationFailed{Op: op, Err: err}
}

// rebuildLocked recomputes everything derived from the canonical collection.
func (s *Store) rebuildLocked() {
	s.view = s.deriveViewLocked()
	s.categories = s.deriveCategoriesLocked()
}

func (s *Store) deriveViewLocked() []notes.Note {
	view := make([]notes.Note, 0, len(s.order))
	for _, id := range s.order {
		n := s.byID[id]
		if s.filter.Match(n) {
			view = append(view, n)
		}
	}
	return view
}

// deriveCategoriesLocked lists each label once, in order of first appearance.
func (s *Store) deriveCategoriesLocked() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, id := range s.order {
		for _, c := range s.byID[id].Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
