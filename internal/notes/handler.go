package notes

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Routes registers the note API on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /note", h.ListNotes)
	mux.HandleFunc("POST /noteNew", h.CreateNote)
	mux.HandleFunc("PUT /notes/{id}", h.UpdateNote)
	mux.HandleFunc("DELETE /deleteNote/{id}", h.DeleteNote)
	mux.HandleFunc("GET /notes/archived", h.ListByArchived)
	mux.HandleFunc("GET /notes/category/{category}", h.ListByCategory)
	mux.HandleFunc("GET /categories", h.ListCategories)
}

// --- REST API Handlers ---

// ListNotes handles GET /note
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, ListQuery{})
}

// CreateNote handles POST /noteNew
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var input Draft
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	note, err := h.svc.Create(r.Context(), input)
	if errors.Is(err, ErrInvalidInput) {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Error("failed to create note", "error", err, "request_id", RequestID(r))
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, note, http.StatusCreated)
}

// UpdateNote handles PUT /notes/{id}
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var input UpdateNoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	note, err := h.svc.Update(r.Context(), id, input)
	switch {
	case errors.Is(err, ErrNoteNotFound):
		h.jsonError(w, "note not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrInvalidInput):
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.log.Error("failed to update note", "error", err, "id", id, "request_id", RequestID(r))
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, note, http.StatusOK)
}

// DeleteNote handles DELETE /deleteNote/{id}
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.log.Error("failed to delete note", "error", err, "id", id, "request_id", RequestID(r))
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByArchived handles GET /notes/archived?archived=true|false
func (h *Handler) ListByArchived(w http.ResponseWriter, r *http.Request) {
	archived, err := strconv.ParseBool(r.URL.Query().Get("archived"))
	if err != nil {
		h.jsonError(w, "archived must be true or false", http.StatusBadRequest)
		return
	}
	h.list(w, r, ListQuery{Archived: &archived})
}

// ListByCategory handles GET /notes/category/{category}
func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if category == "" {
		h.jsonError(w, "category required", http.StatusBadRequest)
		return
	}
	h.list(w, r, ListQuery{Category: category})
}

// ListCategories handles GET /categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.log.Error("failed to list categories", "error", err, "request_id", RequestID(r))
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, categories, http.StatusOK)
}

// --- Helper methods ---

func (h *Handler) list(w http.ResponseWriter, r *http.Request, q ListQuery) {
	notes, err := h.svc.List(r.Context(), q)
	if err != nil {
		h.log.Error("failed to list notes", "error", err, "request_id", RequestID(r))
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, notes, http.StatusOK)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.jsonError(w, "invalid note ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// --- Middleware ---

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID tags every request with an id, reusing the caller's
// X-Request-ID when present, and logs the request once it completes.
func WithRequestID(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", sw.status, "request_id", id)
	})
}

// RequestID returns the id assigned by WithRequestID, or "".
func RequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
