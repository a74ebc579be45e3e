// Package client talks to the note service over its JSON REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"notesapp/internal/notes"
)

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("note service: %s", http.StatusText(e.Code))
	}
	return fmt.Sprintf("note service: %d %s", e.Code, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New returns a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListNotes fetches every note (GET /note).
func (c *Client) ListNotes(ctx context.Context) ([]notes.Note, error) {
	var out []notes.Note
	if err := c.do(ctx, http.MethodGet, "/note", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateNote creates a note (POST /noteNew) and returns it with its id.
func (c *Client) CreateNote(ctx context.Context, d notes.Draft) (notes.Note, error) {
	if d.Categories == nil {
		d.Categories = []string{}
	}
	var out notes.Note
	if err := c.do(ctx, http.MethodPost, "/noteNew", d, &out); err != nil {
		return notes.Note{}, err
	}
	return out, nil
}

// UpdateNote sends the full note (PUT /notes/{id}) and returns the service's
// version of it.
func (c *Client) UpdateNote(ctx context.Context, n notes.Note) (notes.Note, error) {
	if n.Categories == nil {
		n.Categories = []string{}
	}
	var out notes.Note
	path := "/notes/" + strconv.FormatInt(n.ID, 10)
	if err := c.do(ctx, http.MethodPut, path, n, &out); err != nil {
		return notes.Note{}, err
	}
	return out, nil
}

// DeleteNote removes a note (DELETE /deleteNote/{id}).
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/deleteNote/"+strconv.FormatInt(id, 10), nil, nil)
}

// ListByArchived asks the service for notes with the given archived flag.
func (c *Client) ListByArchived(ctx context.Context, archived bool) ([]notes.Note, error) {
	var out []notes.Note
	path := "/notes/archived?" + url.Values{"archived": {strconv.FormatBool(archived)}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCategory asks the service for notes carrying category.
func (c *Client) ListByCategory(ctx context.Context, category string) ([]notes.Note, error) {
	var out []notes.Note
	path := "/notes/category/" + url.PathEscape(category)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCategories returns the service's category counts.
func (c *Client) ListCategories(ctx context.Context) ([]notes.Category, error) {
	var out []notes.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(data, &payload) != nil || payload.Error == "" {
		payload.Error = strings.TrimSpace(string(data))
	}
	return &StatusError{Code: resp.StatusCode, Message: payload.Error}
}
