package models

// NoteView represents a note for template rendering
type NoteView struct {
	ID         int64
	Title      string
	Content    string
	Tag        string
	Author     string
	Categories []string
	Archived   bool
}

// FormView holds the values of the create/edit form
type FormView struct {
	EditingID  int64 // zero when creating
	Title      string
	Content    string
	Tag        string
	Author     string
	Categories string
}

// Editing reports whether the form edits an existing note
func (f FormView) Editing() bool {
	return f.EditingID != 0
}

// FilterView describes the filter controls
type FilterView struct {
	Tag        string
	Category   string
	Categories []string
}

// PageView is everything the home page shows
type PageView struct {
	Active   []NoteView
	Archived []NoteView
	Rendered map[int64]string // note id -> rendered markdown
	Form     FormView
	Filter   FilterView
	Error    string
}
