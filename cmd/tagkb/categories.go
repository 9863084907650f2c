package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage tag categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [name] [description]",
		Short: "Register or describe a category",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := ""
			if len(args) == 2 {
				description = args[1]
			}
			out := cmd.OutOrStdout()
			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				name, err := a.engine.AddCategory(args[0], description)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Category: %s\n", name)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "assign [tag] [category]",
		Short: "File a tag under a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				return a.engine.AddTagToCategory(args[0], args[1])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unassign [tag] [category]",
		Short: "Remove a tag from a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				return a.engine.RemoveTagFromCategory(args[0], args[1])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove [name]",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				return a.engine.RemoveCategory(args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Show a category and its tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, false, func(ctx context.Context, a *app) error {
				info, err := a.engine.Category(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %s\n", info.Name, info.Description)
				for _, t := range info.Tags {
					fmt.Fprintf(out, "  - %s\n", t)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, false, func(ctx context.Context, a *app) error {
				for _, name := range a.engine.Categories() {
					info, err := a.engine.Category(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%-12s %3d  %s\n", info.Name, len(info.Tags), info.Description)
				}
				return nil
			})
		},
	})

	return cmd
}

func tagsetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tagset",
		Short: "Manage named tag sets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save [name] [tags...]",
		Short: "Save a named tag set",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				tags, err := a.engine.SaveTagSet(args[0], args[1:])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %s\n", a.engine.Normalizer().Normalize(args[0]), strings.Join(tags, ", "))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Show a tag set, or list them all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, false, func(ctx context.Context, a *app) error {
				names := args
				if len(names) == 0 {
					names = a.engine.TagSets()
				}
				for _, name := range names {
					tags, err := a.engine.TagSet(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s: %s\n", name, strings.Join(tags, ", "))
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a tag set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				return a.engine.DeleteTagSet(args[0])
			})
		},
	})

	var qf queryFlags
	qc := &cobra.Command{
		Use:   "query [name]",
		Short: "Query entries with a saved tag set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, false, func(ctx context.Context, a *app) error {
				opts, err := qf.options(cmd, a)
				if err != nil {
					return err
				}
				res, err := a.engine.QueryTagSet(args[0], opts...)
				if err != nil {
					return err
				}
				return printQueryResult(ctx, out, a, res)
			})
		},
	}
	qf.bind(qc)
	cmd.AddCommand(qc)

	return cmd
}
