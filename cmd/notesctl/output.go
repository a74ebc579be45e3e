package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"notesapp/internal/notes"
)

func printNotes(w io.Writer, format string, list []notes.Note) error {
	if format != "text" {
		return printValue(w, format, list)
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No notes.")
		return err
	}
	for _, n := range list {
		state := ""
		if n.Archived {
			state = " [archived]"
		}
		fmt.Fprintf(w, "#%d %s%s\n", n.ID, n.Title, state)
		if n.Tag != "" {
			fmt.Fprintf(w, "  tag: %s\n", n.Tag)
		}
		if n.Author != "" {
			fmt.Fprintf(w, "  user: %s\n", n.Author)
		}
		if len(n.Categories) > 0 {
			fmt.Fprintf(w, "  categories: %s\n", strings.Join(n.Categories, ", "))
		}
	}
	return nil
}

func printCategoryCounts(w io.Writer, format string, counts []notes.Category) error {
	if format != "text" {
		return printValue(w, format, counts)
	}
	for _, c := range counts {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", c.Name, c.Count); err != nil {
			return err
		}
	}
	return nil
}

func printValue(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	default:
		switch t := v.(type) {
		case []string:
			for _, s := range t {
				if _, err := fmt.Fprintln(w, s); err != nil {
					return err
				}
			}
			return nil
		default:
			_, err := fmt.Fprintf(w, "%v\n", v)
			return err
		}
	}
}
