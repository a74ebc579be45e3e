// Package storetest provides an in-memory note service for tests of code
// built on store.Store.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"notesapp/internal/notes"
)

// ErrUnavailable is returned by every call while a Remote is failing.
var ErrUnavailable = errors.New("note service unavailable")

// Remote is an in-memory store.Remote that assigns increasing ids.
type Remote struct {
	mu     sync.Mutex
	notes  []notes.Note
	nextID int64
	fail   bool
}

// NewRemote returns a Remote holding seed. New ids continue after the
// highest seeded id.
func NewRemote(seed ...notes.Note) *Remote {
	r := &Remote{nextID: 1}
	for _, n := range seed {
		r.notes = append(r.notes, n.Clone())
		if n.ID >= r.nextID {
			r.nextID = n.ID + 1
		}
	}
	return r
}

// SetFailing makes every following call fail with ErrUnavailable, or stops it.
func (r *Remote) SetFailing(fail bool) {
	r.mu.Lock()
	r.fail = fail
	r.mu.Unlock()
}

// Stored returns what the service currently holds.
func (r *Remote) Stored() []notes.Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notes.Note, len(r.notes))
	for i, n := range r.notes {
		out[i] = n.Clone()
	}
	return out
}

func (r *Remote) ListNotes(ctx context.Context) ([]notes.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, ErrUnavailable
	}
	out := make([]notes.Note, len(r.notes))
	for i, n := range r.notes {
		out[i] = n.Clone()
	}
	return out, nil
}

func (r *Remote) CreateNote(ctx context.Context, d notes.Draft) (notes.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return notes.Note{}, ErrUnavailable
	}
	n := notes.Note{
		ID:         r.nextID,
		Title:      d.Title,
		Content:    d.Content,
		Tag:        d.Tag,
		Author:     d.Author,
		Categories: append([]string(nil), d.Categories...),
		Archived:   d.Archived,
	}
	r.nextID++
	r.notes = append(r.notes, n)
	return n.Clone(), nil
}

func (r *Remote) UpdateNote(ctx context.Context, n notes.Note) (notes.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return notes.Note{}, ErrUnavailable
	}
	for i := range r.notes {
		if r.notes[i].ID == n.ID {
			r.notes[i] = n.Clone()
			return n.Clone(), nil
		}
	}
	return notes.Note{}, fmt.Errorf("note %d: %w", n.ID, notes.ErrNoteNotFound)
}

func (r *Remote) DeleteNote(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return ErrUnavailable
	}
	for i := range r.notes {
		if r.notes[i].ID == id {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			break
		}
	}
	return nil
}
