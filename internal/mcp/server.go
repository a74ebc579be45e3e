package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"notesapp/internal/notes"
	"notesapp/internal/store"
)

// NewServer creates an MCP server with tools that read and change the note store
func NewServer(s *store.Store) *server.MCPServer {
	srv := server.NewMCPServer(
		"Notes",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Tool: list_notes - the filtered view, grouped into active and archived
	srv.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List the notes in the current view (respecting the active tag or category filter), split into active and archived notes."),
		),
		handleListNotes(s),
	)

	// Tool: get_note - a single note by id
	srv.AddTool(
		mcp.NewTool("get_note",
			mcp.WithDescription("Get a specific note by its numeric ID."),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("The note ID"),
			),
		),
		handleGetNote(s),
	)

	// Tool: list_categories - every category label in use
	srv.AddTool(
		mcp.NewTool("list_categories",
			mcp.WithDescription("List every distinct category label used by any note."),
		),
		handleListCategories(s),
	)

	srv.AddTool(
		mcp.NewTool("create_note",
			mcp.WithDescription("Create a new note. The note service assigns its ID."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
			mcp.WithString("content", mcp.Description("Note body (markdown)")),
			mcp.WithString("tag", mcp.Description("Single tag used by the tag filter")),
			mcp.WithString("user", mcp.Description("User the note belongs to")),
			mcp.WithArray("categories",
				mcp.Description("Category labels"),
				mcp.WithStringItems(),
			),
		),
		handleCreateNote(s),
	)

	srv.AddTool(
		mcp.NewTool("update_note",
			mcp.WithDescription("Update a note. Only the given fields change."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("The note ID")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("content", mcp.Description("New body (markdown)")),
			mcp.WithString("tag", mcp.Description("New tag")),
			mcp.WithString("user", mcp.Description("New user")),
			mcp.WithArray("categories",
				mcp.Description("New category labels, replacing the old ones"),
				mcp.WithStringItems(),
			),
		),
		handleUpdateNote(s),
	)

	srv.AddTool(
		mcp.NewTool("delete_note",
			mcp.WithDescription("Delete a note by ID."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("The note ID")),
		),
		handleDeleteNote(s),
	)

	srv.AddTool(
		mcp.NewTool("toggle_archive",
			mcp.WithDescription("Archive an active note, or unarchive an archived one."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("The note ID")),
		),
		handleToggleArchive(s),
	)

	srv.AddTool(
		mcp.NewTool("filter_by_tag",
			mcp.WithDescription("Show only notes with exactly this tag. An empty tag clears the filter."),
			mcp.WithString("tag", mcp.Description("Tag to filter by; empty shows all notes")),
		),
		handleFilterByTag(s),
	)

	srv.AddTool(
		mcp.NewTool("filter_by_category",
			mcp.WithDescription("Show only notes carrying this category. An empty category clears the filter."),
			mcp.WithString("category", mcp.Description("Category to filter by; empty shows all notes")),
		),
		handleFilterByCategory(s),
	)

	return srv
}

// NoteResult represents a note in tool responses
type NoteResult struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tag        string   `json:"tag"`
	User       string   `json:"user"`
	Categories []string `json:"categories"`
	Archived   bool     `json:"archived"`
}

// ViewResult is the filtered view as returned by list_notes
type ViewResult struct {
	Filter   store.Filter `json:"filter"`
	Active   []NoteResult `json:"active"`
	Archived []NoteResult `json:"archived"`
}

func handleListNotes(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return viewResult(s), nil
	}
}

func handleGetNote(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n, errResult := noteArg(s, req)
		if errResult != nil {
			return errResult, nil
		}
		return jsonResult(noteToResult(n)), nil
	}
}

func handleListCategories(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		categories := s.Categories()
		if categories == nil {
			categories = []string{}
		}
		return jsonResult(categories), nil
	}
}

func handleCreateNote(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError("title is required"), nil
		}

		created, err := s.AddNote(ctx, notes.Draft{
			Title:      title,
			Content:    req.GetString("content", ""),
			Tag:        req.GetString("tag", ""),
			Author:     req.GetString("user", ""),
			Categories: req.GetStringSlice("categories", []string{}),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create note: %v", err)), nil
		}
		return jsonResult(noteToResult(created)), nil
	}
}

func handleUpdateNote(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n, errResult := noteArg(s, req)
		if errResult != nil {
			return errResult, nil
		}

		args := req.GetArguments()
		if _, ok := args["title"]; ok {
			n.Title = req.GetString("title", n.Title)
		}
		if _, ok := args["content"]; ok {
			n.Content = req.GetString("content", n.Content)
		}
		if _, ok := args["tag"]; ok {
			n.Tag = req.GetString("tag", n.Tag)
		}
		if _, ok := args["user"]; ok {
			n.Author = req.GetString("user", n.Author)
		}
		if _, ok := args["categories"]; ok {
			n.Categories = req.GetStringSlice("categories", n.Categories)
		}

		updated, err := s.UpdateNote(ctx, n)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to update note: %v", err)), nil
		}
		return jsonResult(noteToResult(updated)), nil
	}
}

func handleDeleteNote(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}
		if err := s.DeleteNote(ctx, int64(id)); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to delete note: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("note %d deleted", id)), nil
	}
}

func handleToggleArchive(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n, errResult := noteArg(s, req)
		if errResult != nil {
			return errResult, nil
		}
		updated, err := s.ToggleArchive(ctx, n)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to toggle archive: %v", err)), nil
		}
		return jsonResult(noteToResult(updated)), nil
	}
}

func handleFilterByTag(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.SetTagFilter(req.GetString("tag", ""))
		return viewResult(s), nil
	}
}

func handleFilterByCategory(s *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.SetCategoryFilter(req.GetString("category", ""))
		return viewResult(s), nil
	}
}

// Helper functions

func noteArg(s *store.Store, req mcp.CallToolRequest) (notes.Note, *mcp.CallToolResult) {
	id, err := req.RequireInt("id")
	if err != nil {
		return notes.Note{}, mcp.NewToolResultError("id is required")
	}
	n, ok := s.Get(int64(id))
	if !ok {
		return notes.Note{}, mcp.NewToolResultError(fmt.Sprintf("note %d not found", id))
	}
	return n, nil
}

func viewResult(s *store.Store) *mcp.CallToolResult {
	active, archived := store.Partition(s.View())
	return jsonResult(ViewResult{
		Filter:   s.Filter(),
		Active:   notesToResults(active),
		Archived: notesToResults(archived),
	})
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}

func noteToResult(n notes.Note) NoteResult {
	categories := n.Categories
	if categories == nil {
		categories = []string{}
	}
	return NoteResult{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		Tag:        n.Tag,
		User:       n.Author,
		Categories: categories,
		Archived:   n.Archived,
	}
}

func notesToResults(list []notes.Note) []NoteResult {
	results := make([]NoteResult, len(list))
	for i, n := range list {
		results[i] = noteToResult(n)
	}
	return results
}
