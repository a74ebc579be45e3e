package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notesapp/internal/notes"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
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
		if err := s.DeleteNote(cmd.Context(), id); err != nil {
			return err
		}
		if output == "text" {
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d\n", id)
			return nil
		}
		return printValue(cmd.OutOrStdout(), output, map[string]int64{"deleted": id})
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a note, or unarchive an archived one",
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
		updated, err := s.ToggleArchive(cmd.Context(), n)
		if err != nil {
			return err
		}
		return printNotes(cmd.OutOrStdout(), output, []notes.Note{updated})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(archiveCmd)
}
