package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"notesapp/internal/client"
	"notesapp/internal/notes"
	"notesapp/internal/store"
)

var (
	listTag      string
	listCategory string
	listArchived string
	listServer   bool

	categoryCounts bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, optionally filtered by tag or category",
	Long: `list loads every note into a local store and filters it there.
With --server the category and archived filters are sent to the note
service instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch listArchived {
		case "include", "only", "exclude":
		default:
			return fmt.Errorf("unknown --archived value %q (want include, only or exclude)", listArchived)
		}

		var (
			view []notes.Note
			err  error
		)
		if listServer {
			view, err = listFromServer(cmd.Context())
		} else {
			view, err = listFromStore(cmd.Context())
		}
		if err != nil {
			return err
		}
		if view == nil {
			view = []notes.Note{}
		}
		return printNotes(cmd.OutOrStdout(), output, view)
	},
}

func listFromStore(ctx context.Context) ([]notes.Note, error) {
	s, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	s.SetFilter(store.Filter{Tag: listTag, Category: listCategory})
	return filterArchived(s.View()), nil
}

// listFromServer lets the service do the category or archived filtering.
// Whatever the chosen endpoint cannot express is filtered here.
func listFromServer(ctx context.Context) ([]notes.Note, error) {
	c := client.New(apiURL)

	var (
		list []notes.Note
		err  error
	)
	switch {
	case listCategory != "":
		list, err = c.ListByCategory(ctx, listCategory)
	case listArchived != "include":
		list, err = c.ListByArchived(ctx, listArchived == "only")
	default:
		list, err = c.ListNotes(ctx)
	}
	if err != nil {
		return nil, err
	}

	filter := store.Filter{Tag: listTag}
	var out []notes.Note
	for _, n := range list {
		if filter.Match(n) {
			out = append(out, n)
		}
	}
	return filterArchived(out), nil
}

func filterArchived(view []notes.Note) []notes.Note {
	active, archived := store.Partition(view)
	switch listArchived {
	case "only":
		return archived
	case "exclude":
		return active
	}
	return view
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List every category label in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if categoryCounts {
			counts, err := client.New(apiURL).ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			if counts == nil {
				counts = []notes.Category{}
			}
			return printCategoryCounts(cmd.OutOrStdout(), output, counts)
		}

		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		categories := s.Categories()
		if categories == nil {
			categories = []string{}
		}
		return printValue(cmd.OutOrStdout(), output, categories)
	},
}

func init() {
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only notes with exactly this tag")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only notes carrying this category")
	listCmd.Flags().StringVar(&listArchived, "archived", "include", "Archived notes: include, only or exclude")
	listCmd.Flags().BoolVar(&listServer, "server", false, "Filter on the note service instead of locally")
	categoriesCmd.Flags().BoolVar(&categoryCounts, "counts", false, "Ask the note service how many notes carry each category")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(categoriesCmd)
}
