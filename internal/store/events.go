package store

// EventKind says what changed in the store.
type EventKind int

const (
	EventLoaded EventKind = iota + 1
	EventAdded
	EventUpdated
	EventDeleted
	EventFilterChanged
	EventEditChanged
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventAdded:
		return "added"
	case EventUpdated:
		return "updated"
	case EventDeleted:
		return "deleted"
	case EventFilterChanged:
		return "filter_changed"
	case EventEditChanged:
		return "edit_changed"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after the store state has changed.
// NoteID is zero for events that are not about a single note.
type Event struct {
	Kind   EventKind
	NoteID int64
}

// Subscribe registers fn to be called after every state change. Callbacks run
// synchronously on the goroutine that made the change, outside the store
// lock, so they may read the store. The returned func removes the
// subscription.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
