package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pbaille/tagkb/internal/errors"
	"github.com/pbaille/tagkb/internal/tagindex"
	"github.com/pbaille/tagkb/internal/taxonomy"
)

type queryFlags struct {
	op         string
	sortBy     string
	limit      int
	noChildren bool
	noSynonyms bool
}

func (f *queryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.op, "op", "AND", "operator: AND, OR or NOT")
	cmd.Flags().StringVar(&f.sortBy, "sort", "", "sort: tagCount or recent")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "maximum results, 0 for no limit (default from config)")
	cmd.Flags().BoolVar(&f.noChildren, "no-children", false, "do not expand descendant tags")
	cmd.Flags().BoolVar(&f.noSynonyms, "no-synonyms", false, "do not expand synonyms")
}

// options merges the flags with the configured query defaults.
func (f *queryFlags) options(cmd *cobra.Command, a *app) ([]tagindex.QueryOption, error) {
	op, err := tagindex.ParseOperator(f.op)
	if err != nil {
		return nil, err
	}
	sortBy, err := tagindex.ParseSortKey(f.sortBy)
	if err != nil {
		return nil, err
	}
	limit := a.cfg.Query.Limit
	if cmd.Flags().Changed("limit") {
		limit = f.limit
	}

	return []tagindex.QueryOption{
		tagindex.WithOperator(op),
		tagindex.WithSortBy(sortBy),
		tagindex.WithLimit(limit),
		tagindex.WithChildren(a.cfg.Query.IncludeChildren && !f.noChildren),
		tagindex.WithSynonymExpansion(!f.noSynonyms),
	}, nil
}

func queryCmd() *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "query [tags...]",
		Short: "Find entries by tag",
		Long: `Find entries by tag. Each tag also matches its synonyms and descendant
tags unless disabled. AND keeps entries matching every tag, OR entries
matching any, NOT tagged entries matching none.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, false, func(ctx context.Context, a *app) error {
				opts, err := qf.options(cmd, a)
				if err != nil {
					return err
				}
				res, err := a.engine.Query(args, opts...)
				if err != nil {
					return err
				}
				return printQueryResult(ctx, out, a, res)
			})
		},
	}

	qf.bind(cmd)
	return cmd
}

func printQueryResult(ctx context.Context, w io.Writer, a *app, res *tagindex.QueryResult[string]) error {
	if res.Count == 0 {
		fmt.Fprintln(w, "No matching entries found.")
		return nil
	}

	for _, id := range res.Items {
		entry, err := a.store.GetEntry(ctx, id)
		switch {
		case errors.IsNotFound(err):
			fmt.Fprintf(w, "%s  (no entry)\n", shortID(id))
		case err != nil:
			return err
		default:
			fmt.Fprintf(w, "%s  %s\n", shortID(id), truncate(entry.Content, 60))
		}
	}
	if res.Total > res.Count {
		fmt.Fprintf(w, "(%d of %d shown)\n", res.Count, res.Total)
	}
	return nil
}

func statsCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show tag statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, false, func(ctx context.Context, a *app) error {
				stats := a.engine.Stats()

				fmt.Fprintf(out, "Tags:            %d\n", stats.TotalTags)
				fmt.Fprintf(out, "Items:           %d\n", stats.TotalItems)
				fmt.Fprintf(out, "Edges:           %d\n", stats.Edges)
				fmt.Fprintf(out, "Hierarchy depth: %d\n", stats.HierarchyDepth)
				fmt.Fprintf(out, "Synonyms:        %d\n", stats.Synonyms)
				fmt.Fprintf(out, "Tag sets:        %d\n", stats.TagSets)

				if rev, err := a.store.Revision(ctx); err == nil {
					fmt.Fprintf(out, "Saved:           %s (%s)\n",
						rev.SavedAt.Local().Format("2006-01-02 15:04:05"), shortID(rev.ID))
				}

				if len(stats.TagsByUsage) > 0 {
					fmt.Fprintf(out, "\nTop tags:\n")
					for i, u := range stats.TagsByUsage {
						if i == top {
							break
						}
						fmt.Fprintf(out, "  %-20s %d\n", u.Tag, u.Count)
					}
				}

				if len(stats.CategoryCounts) > 0 {
					fmt.Fprintf(out, "\nCategories:\n")
					for _, name := range a.engine.Categories() {
						fmt.Fprintf(out, "  %-20s %d\n", name, stats.CategoryCounts[name])
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&top, "top", "n", 10, "number of tags to rank")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import categories, hierarchy, synonyms and tag sets from YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				tx, err := taxonomy.Load(args[0])
				if err != nil {
					return err
				}

				report := tx.Apply(a.engine)
				fmt.Fprintf(out, "Categories: %d (%d tags)\n", report.Categories, report.CategoryTags)
				fmt.Fprintf(out, "Edges:      %d\n", report.Edges)
				fmt.Fprintf(out, "Synonyms:   %d\n", report.Synonyms)
				fmt.Fprintf(out, "Tag sets:   %d\n", report.TagSets)
				for _, err := range report.Errors {
					fmt.Fprintf(out, "  skipped: %v\n", err)
				}
				return nil
			})
		},
	}
}

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the taxonomy as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, false, func(ctx context.Context, a *app) error {
				data, err := taxonomy.FromSnapshot(a.engine.Snapshot()).Marshal()
				if err != nil {
					return err
				}
				if output == "" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(output, data, 0644); err != nil {
					return errors.Wrap(err, "write taxonomy")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
