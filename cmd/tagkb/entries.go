package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/tagkb/internal/errors"
	"github.com/pbaille/tagkb/internal/tagindex"
)

func addCmd() *cobra.Command {
	var (
		tags    []string
		parents []string
		noAuto  bool
	)

	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Add a new entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				entry, err := a.store.AddEntry(ctx, content)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "Added entry: %s\n", shortID(entry.ID))
				fmt.Fprintf(out, "Content: %s\n", truncate(entry.Content, 80))

				if len(tags) == 0 {
					return nil
				}
				res, err := a.engine.TagItem(entry.ID, tags, tagOptions(parents, noAuto)...)
				if err != nil {
					return err
				}
				printTagResult(out, res)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "tags to attach")
	cmd.Flags().StringSliceVarP(&parents, "parent", "p", nil, "parent tags for the new tags")
	cmd.Flags().BoolVar(&noAuto, "no-auto", false, "skip auto-tagging rules")
	return cmd
}

func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, false, func(ctx context.Context, a *app) error {
				entries, err := a.store.ListEntries(ctx, limit, 0)
				if err != nil {
					return err
				}

				if len(entries) == 0 {
					fmt.Fprintln(out, "No entries yet. Use 'tagkb add' to create one.")
					return nil
				}

				for _, e := range entries {
					tags := a.engine.ItemTags(e.ID, false)
					fmt.Fprintf(out, "%s  %s", shortID(e.ID), truncate(e.Content, 60))
					if len(tags) > 0 {
						fmt.Fprintf(out, "  [%s]", strings.Join(tags, ", "))
					}
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

func showCmd() *cobra.Command {
	var inherited bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show entry details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, false, func(ctx context.Context, a *app) error {
				entry, err := a.store.FindEntryByPrefix(ctx, args[0])
				if err != nil {
					return err
				}
				entry.Tags = a.engine.ItemTags(entry.ID, inherited)

				fmt.Fprintf(out, "ID:      %s\n", entry.ID)
				fmt.Fprintf(out, "Created: %s\n", entry.CreatedAt.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Content:\n%s\n", entry.Content)

				if len(entry.Tags) > 0 {
					fmt.Fprintf(out, "\nTags:\n")
					for _, t := range entry.Tags {
						if inherited && !a.engine.HasTag(entry.ID, t) {
							fmt.Fprintf(out, "  - %s (inherited)\n", t)
							continue
						}
						fmt.Fprintf(out, "  - %s\n", t)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&inherited, "inherited", false, "include ancestor tags")
	return cmd
}

func searchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search entry content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, false, func(ctx context.Context, a *app) error {
				entries, err := a.store.SearchEntries(ctx, args[0], limit)
				if err != nil {
					return err
				}

				if len(entries) == 0 {
					fmt.Fprintln(out, "No matching entries found.")
					return nil
				}

				for _, e := range entries {
					fmt.Fprintf(out, "%s  %s\n", shortID(e.ID), truncate(e.Content, 60))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum results")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an entry and its tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				id, err := a.resolveEntry(ctx, args[0])
				if err != nil {
					return err
				}
				if err := a.store.DeleteEntry(ctx, id); err != nil {
					return err
				}
				if _, err := a.engine.RemoveItem(id); err != nil && !errors.IsNotFound(err) {
					return err
				}
				fmt.Fprintf(out, "Deleted entry: %s\n", shortID(id))
				return nil
			})
		},
	}
}

func tagOptions(parents []string, noAuto bool) []tagindex.TagOption {
	var opts []tagindex.TagOption
	if len(parents) > 0 {
		opts = append(opts, tagindex.WithParentTags(parents...))
	}
	if !noAuto {
		opts = append(opts, tagindex.WithAutoTag())
	}
	return opts
}
