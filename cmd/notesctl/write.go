package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"notesapp/internal/notes"
	"notesapp/internal/web"
)

var (
	noteTitle      string
	noteContent    string
	noteTag        string
	noteUser       string
	noteCategories string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}

		created, err := s.AddNote(cmd.Context(), notes.Draft{
			Title:      noteTitle,
			Content:    noteContent,
			Tag:        noteTag,
			Author:     noteUser,
			Categories: web.ParseCategories(noteCategories),
		})
		if err != nil {
			return err
		}
		return printNotes(cmd.OutOrStdout(), output, []notes.Note{created})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the fields of a note given by flags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		n, ok := s.Get(id)
		if !ok {
			return fmt.Errorf("note %d not found", id)
		}

		flags := cmd.Flags()
		if flags.Changed("title") {
			n.Title = noteTitle
		}
		if flags.Changed("content") {
			n.Content = noteContent
		}
		if flags.Changed("tag") {
			n.Tag = noteTag
		}
		if flags.Changed("user") {
			n.Author = noteUser
		}
		if flags.Changed("categories") {
			n.Categories = web.ParseCategories(noteCategories)
		}

		updated, err := s.UpdateNote(cmd.Context(), n)
		if err != nil {
			return err
		}
		return printNotes(cmd.OutOrStdout(), output, []notes.Note{updated})
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note ID %q", s)
	}
	return id, nil
}

func init() {
	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		c.Flags().StringVar(&noteTitle, "title", "", "Note title")
		c.Flags().StringVar(&noteContent, "content", "", "Note body (markdown)")
		c.Flags().StringVar(&noteTag, "tag", "", "Note tag")
		c.Flags().StringVar(&noteUser, "user", "", "User the note belongs to")
		c.Flags().StringVar(&noteCategories, "categories", "", "Comma separated categories")
		rootCmd.AddCommand(c)
	}
}
