package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notesapp/internal/notes"
	"notesapp/internal/store/storetest"
)

// hookedRemote is a storetest.Remote whose update results can be rewritten,
// standing in for server-side normalisation or a concurrent change.
type hookedRemote struct {
	*storetest.Remote
	afterUpdate func(notes.Note) notes.Note
}

func newRemote(seed ...notes.Note) *hookedRemote {
	return &hookedRemote{Remote: storetest.NewRemote(seed...)}
}

func (r *hookedRemote) UpdateNote(ctx context.Context, n notes.Note) (notes.Note, error) {
	updated, err := r.Remote.UpdateNote(ctx, n)
	if err != nil || r.afterUpdate == nil {
		return updated, err
	}
	return r.afterUpdate(updated), nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadedStore(t *testing.T, seed ...notes.Note) (*Store, *hookedRemote) {
	t.Helper()
	remote := newRemote(seed...)
	s := New(remote, quietLogger())
	require.NoError(t, s.Initialize(context.Background()))
	return s, remote
}

func ids(list []notes.Note) []int64 {
	out := make([]int64, len(list))
	for i, n := range list {
		out[i] = n.ID
	}
	return out
}

func sampleNotes() []notes.Note {
	return []notes.Note{
		{ID: 1, Title: "one", Tag: "x", Categories: []string{"work"}},
		{ID: 2, Title: "two", Tag: "y", Archived: true, Categories: []string{"home", "work"}},
		{ID: 3, Title: "three", Tag: "x", Categories: []string{"urgent"}},
	}
}

func TestInitialize(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)

	assert.Equal(t, []int64{1, 2, 3}, ids(s.Notes()))
	assert.Equal(t, []int64{1, 2, 3}, ids(s.View()))
	assert.Equal(t, []string{"work", "home", "urgent"}, s.Categories())
	assert.True(t, s.Filter().IsZero())
}

func TestInitializeFailureLeavesStoreEmpty(t *testing.T) {
	remote := newRemote(sampleNotes()...)
	remote.SetFailing(true)
	s := New(remote, quietLogger())

	err := s.Initialize(context.Background())
	require.Error(t, err)

	var rof *RemoteOperationFailed
	require.ErrorAs(t, err, &rof)
	assert.Equal(t, OpList, rof.Op)
	assert.ErrorIs(t, err, storetest.ErrUnavailable)

	assert.Empty(t, s.Notes())
	assert.Empty(t, s.View())
	assert.Empty(t, s.Categories())
}

func TestAddNoteAssignsServerID(t *testing.T) {
	remote := newRemote(notes.Note{ID: 6})
	require.NoError(t, remote.DeleteNote(context.Background(), 6))
	s := New(remote, quietLogger())
	require.NoError(t, s.Initialize(context.Background()))

	created, err := s.AddNote(context.Background(), notes.Draft{
		Title:      "A",
		Categories: []string{"work", "urgent"},
	})
	require.NoError(t, err)

	want := notes.Note{ID: 7, Title: "A", Categories: []string{"work", "urgent"}}
	assert.Equal(t, want, created)
	assert.Equal(t, []notes.Note{want}, s.Notes())
	assert.ElementsMatch(t, []string{"work", "urgent"}, s.Categories())
}

func TestAddNoteGrowsByOneWithUniqueIDs(t *testing.T) {
	s, _ := loadedStore(t)

	for i := 0; i < 20; i++ {
		before := s.Len()
		_, err := s.AddNote(context.Background(), notes.Draft{Title: fmt.Sprintf("note %d", i)})
		require.NoError(t, err)
		require.Equal(t, before+1, s.Len())
	}

	seen := make(map[int64]bool)
	for _, n := range s.Notes() {
		require.NotZero(t, n.ID)
		require.False(t, seen[n.ID], "duplicate id %d", n.ID)
		seen[n.ID] = true
	}
}

func TestAddNoteRespectsActiveFilter(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)
	s.SetTagFilter("x")

	_, err := s.AddNote(context.Background(), notes.Draft{Title: "other", Tag: "z"})
	require.NoError(t, err)
	_, err = s.AddNote(context.Background(), notes.Draft{Title: "match", Tag: "x"})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 3, 5}, ids(s.View()))
	assert.Len(t, s.Notes(), 5)
}

func TestAddNoteFailure(t *testing.T) {
	s, remote := loadedStore(t, sampleNotes()...)
	remote.SetFailing(true)
	before := s.Notes()

	_, err := s.AddNote(context.Background(), notes.Draft{Title: "lost", Categories: []string{"new"}})
	require.Error(t, err)

	var rof *RemoteOperationFailed
	require.ErrorAs(t, err, &rof)
	assert.Equal(t, OpCreate, rof.Op)
	assert.Equal(t, before, s.Notes())
	assert.NotContains(t, s.Categories(), "new")
}

func TestUpdateNoteUsesServerResult(t *testing.T) {
	s, remote := loadedStore(t, sampleNotes()...)
	remote.afterUpdate = func(n notes.Note) notes.Note {
		n.Title = "normalized " + n.Title
		return n
	}

	n, ok := s.Get(1)
	require.True(t, ok)
	n.Title = "changed"
	n.Categories = []string{"fresh"}

	updated, err := s.UpdateNote(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, "normalized changed", updated.Title)

	got, _ := s.Get(1)
	assert.Equal(t, "normalized changed", got.Title)
	assert.Equal(t, []int64{1, 2, 3}, ids(s.Notes()))
	assert.Equal(t, []string{"fresh", "home", "work", "urgent"}, s.Categories())
}

func TestUpdateNoteDoesNotResurrectDeletedNote(t *testing.T) {
	s, remote := loadedStore(t, sampleNotes()...)
	n, ok := s.Get(3)
	require.True(t, ok)
	s.BeginEdit(n)

	// The note is deleted while the update is in flight.
	remote.afterUpdate = func(updated notes.Note) notes.Note {
		require.NoError(t, s.DeleteNote(context.Background(), updated.ID))
		return updated
	}

	var events []Event
	cancel := s.Subscribe(func(e Event) { events = append(events, e) })
	defer cancel()

	n.Title = "late edit"
	updated, err := s.UpdateNote(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, "late edit", updated.Title)

	_, ok = s.Get(3)
	assert.False(t, ok)
	assert.Equal(t, []int64{1, 2}, ids(s.Notes()))
	assert.Equal(t, []int64{1, 2}, ids(s.View()))
	assert.NotContains(t, s.Categories(), "urgent")
	_, editing := s.Editing()
	assert.False(t, editing)
	for _, e := range events {
		assert.NotEqual(t, EventUpdated, e.Kind)
	}
}

func TestUpdateNoteDeletedOnService(t *testing.T) {
	s, remote := loadedStore(t, sampleNotes()...)
	n, _ := s.Get(1)
	require.NoError(t, remote.DeleteNote(context.Background(), 1))

	n.Title = "gone"
	_, err := s.UpdateNote(context.Background(), n)
	var rof *RemoteOperationFailed
	require.ErrorAs(t, err, &rof)
	assert.Equal(t, OpUpdate, rof.Op)
	assert.ErrorIs(t, err, notes.ErrNoteNotFound)

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "one", got.Title)
}

func TestUpdateNoteClearsMatchingEdit(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)

	n, _ := s.Get(1)
	s.BeginEdit(n)
	n.Title = "edited"
	_, err := s.UpdateNote(context.Background(), n)
	require.NoError(t, err)

	_, editing := s.Editing()
	assert.False(t, editing)
}

func TestUpdateNoteKeepsOtherEdit(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)

	other, _ := s.Get(2)
	s.BeginEdit(other)
	n, _ := s.Get(1)
	_, err := s.UpdateNote(context.Background(), n)
	require.NoError(t, err)

	editing, ok := s.Editing()
	require.True(t, ok)
	assert.Equal(t, int64(2), editing.ID)
}

func TestUpdateNoteFailureLeavesStateUnchanged(t *testing.T) {
	s, remote := loadedStore(t, sampleNotes()...)
	n, _ := s.Get(1)
	s.BeginEdit(n)
	s.SetCategoryFilter("work")

	beforeNotes := s.Notes()
	beforeView := s.View()
	beforeCats := s.Categories()

	remote.SetFailing(true)
	n.Title = "never stored"
	_, err := s.UpdateNote(context.Background(), n)
	require.Error(t, err)

	var rof *RemoteOperationFailed
	require.ErrorAs(t, err, &rof)
	assert.Equal(t, OpUpdate, rof.Op)

	assert.Equal(t, beforeNotes, s.Notes())
	assert.Equal(t, beforeView, s.View())
	assert.Equal(t, beforeCats, s.Categories())
	editing, ok := s.Editing()
	require.True(t, ok)
	assert.Equal(t, "one", editing.Title)
}

func TestDeleteNote(t *testing.T) {
	for _, id := range []int64{1, 2, 3} {
		t.Run(fmt.Sprintf("id %d", id), func(t *testing.T) {
			s, _ := loadedStore(t, sampleNotes()...)
			s.SetCategoryFilter("work")

			require.NoError(t, s.DeleteNote(context.Background(), id))

			_, ok := s.Get(id)
			assert.False(t, ok)
			assert.NotContains(t, ids(s.Notes()), id)
			assert.NotContains(t, ids(s.View()), id)
			assert.Equal(t, Filter{Category: "work"}, s.Filter())
		})
	}
}

func TestDeleteNoteDropsVanishedCategories(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)

	require.NoError(t, s.DeleteNote(context.Background(), 3))
	assert.Equal(t, []string{"work", "home"}, s.Categories())
}

func TestDeleteNoteClearsEdit(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)
	n, _ := s.Get(3)
	s.BeginEdit(n)

	require.NoError(t, s.DeleteNote(context.Background(), 3))
	_, ok := s.Editing()
	assert.False(t, ok)
}

func TestDeleteNoteFailure(t *testing.T) {
	s, remote := loadedStore(t, sampleNotes()...)
	remote.SetFailing(true)

	err := s.DeleteNote(context.Background(), 2)
	var rof *RemoteOperationFailed
	require.ErrorAs(t, err, &rof)
	assert.Equal(t, OpDelete, rof.Op)

	assert.Equal(t, []int64{1, 2, 3}, ids(s.Notes()))
	assert.Equal(t, []int64{1, 2, 3}, ids(s.View()))
}

func TestToggleArchiveKeepsNoteVisible(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)

	n, _ := s.Get(1)
	updated, err := s.ToggleArchive(context.Background(), n)
	require.NoError(t, err)
	assert.True(t, updated.Archived)

	assert.Equal(t, []int64{1, 2, 3}, ids(s.View()))
	got, _ := s.Get(1)
	assert.True(t, got.Archived)

	active, archived := Partition(s.View())
	assert.Equal(t, []int64{3}, ids(active))
	assert.Equal(t, []int64{1, 2}, ids(archived))
}

func TestToggleArchiveTwiceRestoresFlag(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)
	before, _ := s.Get(2)

	once, err := s.ToggleArchive(context.Background(), before)
	require.NoError(t, err)
	twice, err := s.ToggleArchive(context.Background(), once)
	require.NoError(t, err)

	assert.Equal(t, before.Archived, twice.Archived)
	got, _ := s.Get(2)
	assert.Equal(t, before, got)
}

func TestToggleArchiveDoesNotMutateArgument(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)
	n, _ := s.Get(1)

	_, err := s.ToggleArchive(context.Background(), n)
	require.NoError(t, err)
	assert.False(t, n.Archived)
}

func TestToggleArchiveFailure(t *testing.T) {
	s, remote := loadedStore(t, sampleNotes()...)
	remote.SetFailing(true)
	n, _ := s.Get(1)

	_, err := s.ToggleArchive(context.Background(), n)
	var rof *RemoteOperationFailed
	require.ErrorAs(t, err, &rof)
	assert.Equal(t, OpArchive, rof.Op)

	got, _ := s.Get(1)
	assert.False(t, got.Archived)
}

func TestSetTagFilter(t *testing.T) {
	s, _ := loadedStore(t,
		notes.Note{ID: 1, Tag: "x"},
		notes.Note{ID: 2, Tag: "y", Archived: true},
	)

	s.SetTagFilter("x")
	assert.Equal(t, []int64{1}, ids(s.View()))
	for _, n := range s.View() {
		assert.Equal(t, "x", n.Tag)
	}

	s.SetTagFilter("")
	assert.Equal(t, s.Notes(), s.View())
	assert.Equal(t, []int64{1, 2}, ids(s.View()))
}

func TestSetTagFilterIsExact(t *testing.T) {
	s, _ := loadedStore(t,
		notes.Note{ID: 1, Tag: "Work"},
		notes.Note{ID: 2, Tag: "work"},
		notes.Note{ID: 3, Tag: "workshop"},
	)

	s.SetTagFilter("work")
	assert.Equal(t, []int64{2}, ids(s.View()))
}

func TestSetCategoryFilter(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)

	s.SetCategoryFilter("work")
	assert.Equal(t, []int64{1, 2}, ids(s.View()))

	s.SetCategoryFilter("wor")
	assert.Empty(t, s.View())

	s.SetCategoryFilter("")
	assert.Equal(t, []int64{1, 2, 3}, ids(s.View()))
}

func TestFilterSettersReplaceEachOther(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)

	s.SetTagFilter("y")
	s.SetCategoryFilter("urgent")
	assert.Equal(t, Filter{Category: "urgent"}, s.Filter())
	assert.Equal(t, []int64{3}, ids(s.View()))
}

func TestSetFilterComposes(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)

	s.SetFilter(Filter{Tag: "x", Category: "work"})
	assert.Equal(t, []int64{1}, ids(s.View()))
}

func TestFilterDoesNotTouchCanonical(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)
	before := s.Notes()

	s.SetTagFilter("nothing")
	assert.Empty(t, s.View())
	assert.Equal(t, before, s.Notes())
}

func TestEditLifecycle(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)

	_, ok := s.Editing()
	assert.False(t, ok)

	n, _ := s.Get(2)
	s.BeginEdit(n)
	editing, ok := s.Editing()
	require.True(t, ok)
	assert.Equal(t, n, editing)

	s.EndEdit()
	_, ok = s.Editing()
	assert.False(t, ok)
}

func TestAccessorsReturnCopies(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)

	view := s.View()
	view[0].Categories[0] = "mutated"
	view[0].Title = "mutated"

	got, _ := s.Get(1)
	assert.Equal(t, "one", got.Title)
	assert.Equal(t, []string{"work"}, got.Categories)
}

func TestSubscribe(t *testing.T) {
	s, _ := loadedStore(t, sampleNotes()...)

	var events []Event
	cancel := s.Subscribe(func(ev Event) {
		events = append(events, ev)
		// Subscribers may read the store.
		_ = s.View()
	})

	_, err := s.AddNote(context.Background(), notes.Draft{Title: "four"})
	require.NoError(t, err)
	s.SetTagFilter("x")
	require.NoError(t, s.DeleteNote(context.Background(), 1))

	assert.Equal(t, []Event{
		{Kind: EventAdded, NoteID: 4},
		{Kind: EventFilterChanged},
		{Kind: EventDeleted, NoteID: 1},
	}, events)

	cancel()
	s.EndEdit()
	assert.Len(t, events, 3)
}

func TestFailedOperationsDoNotNotify(t *testing.T) {
	s, remote := loadedStore(t, sampleNotes()...)
	remote.SetFailing(true)

	notified := false
	s.Subscribe(func(Event) { notified = true })

	n, _ := s.Get(1)
	_, _ = s.UpdateNote(context.Background(), n)
	_, _ = s.AddNote(context.Background(), notes.Draft{})
	_ = s.DeleteNote(context.Background(), 1)
	_ = s.Initialize(context.Background())

	assert.False(t, notified)
}
