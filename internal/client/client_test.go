package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notesapp/internal/notes"
)

func TestListNotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/note", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":1,"title":"a","tag":"x","users":"ana","categories":["work"],"archived":false},
			{"id":2,"title":"b","tag":"y","users":"bo","categories":[],"archived":true}]`)
	}))
	defer srv.Close()

	got, err := New(srv.URL).ListNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, notes.Note{ID: 1, Title: "a", Tag: "x", Author: "ana", Categories: []string{"work"}}, got[0])
	assert.True(t, got[1].Archived)
}

func TestCreateNoteSendsDraftWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/noteNew", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "id")
		assert.Equal(t, "A", body["title"])
		assert.Equal(t, "me", body["users"])
		assert.Equal(t, []any{}, body["categories"])

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":7,"title":"A","users":"me","categories":[],"archived":false}`)
	}))
	defer srv.Close()

	got, err := New(srv.URL).CreateNote(context.Background(), notes.Draft{Title: "A", Author: "me"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
}

func TestUpdateNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/notes/3", r.URL.Path)

		var n notes.Note
		require.NoError(t, json.NewDecoder(r.Body).Decode(&n))
		n.Title = "server says " + n.Title
		json.NewEncoder(w).Encode(n)
	}))
	defer srv.Close()

	got, err := New(srv.URL).UpdateNote(context.Background(), notes.Note{ID: 3, Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, "server says t", got.Title)
	assert.Equal(t, []string{}, got.Categories)
}

func TestDeleteNote(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/deleteNote/9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL+"/").DeleteNote(context.Background(), 9))
	assert.True(t, called)
}

func TestServerSideFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/notes/archived":
			assert.Equal(t, "true", r.URL.Query().Get("archived"))
			io.WriteString(w, `[{"id":2,"archived":true}]`)
		case "/notes/category/to do":
			io.WriteString(w, `[{"id":5,"categories":["to do"]}]`)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	archived, err := c.ListByArchived(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), archived[0].ID)

	byCat, err := c.ListByCategory(context.Background(), "to do")
	require.NoError(t, err)
	assert.Equal(t, int64(5), byCat[0].ID)
}

func TestListCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories", r.URL.Path)
		io.WriteString(w, `[{"name":"home","count":1},{"name":"work","count":3}]`)
	}))
	defer srv.Close()

	got, err := New(srv.URL).ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []notes.Category{{Name: "home", Count: 1}, {Name: "work", Count: 3}}, got)
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"note not found"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).UpdateNote(context.Background(), notes.Note{ID: 1})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "note not found", se.Message)
}

func TestStatusErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListNotes(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "bad gateway", se.Message)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).ListNotes(context.Background())
	require.Error(t, err)
}
