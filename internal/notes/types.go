package notes

// Note is a short text note as stored by the note service.
type Note struct {
	ID         int64    `bson:"_id" json:"id" yaml:"id"`
	Title      string   `bson:"title" json:"title" yaml:"title"`
	Content    string   `bson:"content" json:"content" yaml:"content"`
	Tag        string   `bson:"tag" json:"tag" yaml:"tag"`
	Author     string   `bson:"users" json:"users" yaml:"users"`
	Categories []string `bson:"categories" json:"categories" yaml:"categories"`
	Archived   bool     `bson:"archived" json:"archived" yaml:"archived"`
}

// Draft is a note that has not been assigned an id yet.
type Draft struct {
	Title      string   `json:"title" validate:"max=200"`
	Content    string   `json:"content" validate:"max=20000"`
	Tag        string   `json:"tag" validate:"max=100"`
	Author     string   `json:"users" validate:"max=100"`
	Categories []string `json:"categories" validate:"max=32,dive,max=64"`
	Archived   bool     `json:"archived"`
}

// Draft returns the note without its id.
func (n Note) Draft() Draft {
	return Draft{
		Title:      n.Title,
		Content:    n.Content,
		Tag:        n.Tag,
		Author:     n.Author,
		Categories: append([]string(nil), n.Categories...),
		Archived:   n.Archived,
	}
}

// Clone returns a deep copy of the note.
func (n Note) Clone() Note {
	n.Categories = append([]string(nil), n.Categories...)
	return n
}

// HasCategory reports whether the note carries the category label exactly.
func (n Note) HasCategory(category string) bool {
	for _, c := range n.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// UpdateNoteInput is a partial update: nil fields are left untouched.
type UpdateNoteInput struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Tag        *string   `json:"tag"`
	Author     *string   `json:"users"`
	Categories *[]string `json:"categories"`
	Archived   *bool     `json:"archived"`
}

// Apply merges the set fields of the input into n.
func (in UpdateNoteInput) Apply(n Note) Note {
	if in.Title != nil {
		n.Title = *in.Title
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if in.Tag != nil {
		n.Tag = *in.Tag
	}
	if in.Author != nil {
		n.Author = *in.Author
	}
	if in.Categories != nil {
		n.Categories = append([]string(nil), (*in.Categories)...)
	}
	if in.Archived != nil {
		n.Archived = *in.Archived
	}
	return n
}

// Category represents aggregated category info
type Category struct {
	Name  string `bson:"_id" json:"name" yaml:"name"`
	Count int64  `bson:"count" json:"count" yaml:"count"`
}

// ListQuery represents list parameters
type ListQuery struct {
	Category string
	Archived *bool
}
