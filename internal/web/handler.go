// Package web serves the form-driven note UI on top of a store.Store.
package web

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"notesapp/internal/notes"
	"notesapp/internal/store"
	"notesapp/views/models"
	"notesapp/views/pages"
)

type Handler struct {
	store *store.Store
	log   *slog.Logger
	md    goldmark.Markdown
}

func NewHandler(s *store.Store, log *slog.Logger) *Handler {
	return &Handler{
		store: s,
		log:   log,
		md:    goldmark.New(),
	}
}

// Routes registers the UI on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HomePage)
	mux.HandleFunc("POST /notes", h.SaveNote)
	mux.HandleFunc("POST /notes/{id}/edit", h.EditNote)
	mux.HandleFunc("POST /edit/cancel", h.CancelEdit)
	mux.HandleFunc("POST /notes/{id}/delete", h.DeleteNote)
	mux.HandleFunc("POST /notes/{id}/archive", h.ToggleArchive)
	mux.HandleFunc("GET /filter/tag", h.FilterByTag)
	mux.HandleFunc("GET /filter/category", h.FilterByCategory)
}

// HomePage handles GET /
func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	view := h.store.View()
	active, archived := store.Partition(view)
	filter := h.store.Filter()

	page := models.PageView{
		Active:   notesToViews(active),
		Archived: notesToViews(archived),
		Rendered: make(map[int64]string, len(view)),
		Filter: models.FilterView{
			Tag:        filter.Tag,
			Category:   filter.Category,
			Categories: h.store.Categories(),
		},
		Error: r.URL.Query().Get("error"),
	}
	for _, n := range view {
		page.Rendered[n.ID] = h.RenderMarkdown(n.Content)
	}
	if editing, ok := h.store.Editing(); ok {
		page.Form = models.FormView{
			EditingID:  editing.ID,
			Title:      editing.Title,
			Content:    editing.Content,
			Tag:        editing.Tag,
			Author:     editing.Author,
			Categories: strings.Join(editing.Categories, ", "),
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.HomePage(page).Render(r.Context(), w); err != nil {
		h.log.Error("failed to render home page", "error", err)
	}
}

// SaveNote handles POST /notes. With an id it updates that note, otherwise
// it creates one.
func (h *Handler) SaveNote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectError(w, r, "invalid form")
		return
	}

	draft := notes.Draft{
		Title:      r.PostForm.Get("title"),
		Content:    r.PostForm.Get("content"),
		Tag:        r.PostForm.Get("tag"),
		Author:     r.PostForm.Get("users"),
		Categories: ParseCategories(r.PostForm.Get("categories")),
	}

	idStr := r.PostForm.Get("id")
	if idStr == "" {
		if _, err := h.store.AddNote(r.Context(), draft); err != nil {
			h.redirectError(w, r, "Could not save the note: "+err.Error())
			return
		}
		h.redirectHome(w, r)
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.redirectError(w, r, "invalid note ID")
		return
	}
	current, ok := h.store.Get(id)
	if !ok {
		h.redirectError(w, r, "note not found")
		return
	}

	updated := notes.Note{
		ID:         id,
		Title:      draft.Title,
		Content:    draft.Content,
		Tag:        draft.Tag,
		Author:     draft.Author,
		Categories: draft.Categories,
		Archived:   current.Archived,
	}
	if _, err := h.store.UpdateNote(r.Context(), updated); err != nil {
		h.redirectError(w, r, "Could not update the note: "+err.Error())
		return
	}
	h.redirectHome(w, r)
}

// EditNote handles POST /notes/{id}/edit
func (h *Handler) EditNote(w http.ResponseWriter, r *http.Request) {
	n, ok := h.noteFromPath(w, r)
	if !ok {
		return
	}
	h.store.BeginEdit(n)
	h.redirectHome(w, r)
}

// CancelEdit handles POST /edit/cancel
func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.store.EndEdit()
	h.redirectHome(w, r)
}

// DeleteNote handles POST /notes/{id}/delete
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteNote(r.Context(), id); err != nil {
		h.redirectError(w, r, "Could not delete the note: "+err.Error())
		return
	}
	h.redirectHome(w, r)
}

// ToggleArchive handles POST /notes/{id}/archive
func (h *Handler) ToggleArchive(w http.ResponseWriter, r *http.Request) {
	n, ok := h.noteFromPath(w, r)
	if !ok {
		return
	}
	if _, err := h.store.ToggleArchive(r.Context(), n); err != nil {
		h.redirectError(w, r, "Could not archive the note: "+err.Error())
		return
	}
	h.redirectHome(w, r)
}

// FilterByTag handles GET /filter/tag?tag=
func (h *Handler) FilterByTag(w http.ResponseWriter, r *http.Request) {
	h.store.SetTagFilter(r.URL.Query().Get("tag"))
	h.redirectHome(w, r)
}

// FilterByCategory handles GET /filter/category?category=
func (h *Handler) FilterByCategory(w http.ResponseWriter, r *http.Request) {
	h.store.SetCategoryFilter(r.URL.Query().Get("category"))
	h.redirectHome(w, r)
}

// RenderMarkdown converts markdown content to HTML
func (h *Handler) RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(content), &buf); err != nil {
		return content // Return raw content on error
	}
	return buf.String()
}

// ParseCategories splits the comma separated category input, trimming
// labels and dropping empty ones.
func ParseCategories(s string) []string {
	out := []string{}
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// --- Helper methods ---

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.redirectError(w, r, "invalid note ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) noteFromPath(w http.ResponseWriter, r *http.Request) (notes.Note, bool) {
	id, ok := h.pathID(w, r)
	if !ok {
		return notes.Note{}, false
	}
	n, ok := h.store.Get(id)
	if !ok {
		h.redirectError(w, r, "note not found")
		return notes.Note{}, false
	}
	return n, true
}

func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	h.log.Warn("note action failed", "path", r.URL.Path, "error", msg)
	http.Redirect(w, r, "/?"+url.Values{"error": {msg}}.Encode(), http.StatusSeeOther)
}

func notesToViews(list []notes.Note) []models.NoteView {
	views := make([]models.NoteView, len(list))
	for i, n := range list {
		views[i] = models.NoteView{
			ID:         n.ID,
			Title:      n.Title,
			Content:    n.Content,
			Tag:        n.Tag,
			Author:     n.Author,
			Categories: n.Categories,
			Archived:   n.Archived,
		}
	}
	return views
}
