package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/tagkb/internal/tagindex"
)

func tagCmd() *cobra.Command {
	var (
		parents []string
		noAuto  bool
	)

	cmd := &cobra.Command{
		Use:   "tag [id] [tags...]",
		Short: "Attach tags to an entry",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				id, err := a.resolveEntry(ctx, args[0])
				if err != nil {
					return err
				}
				res, err := a.engine.TagItem(id, args[1:], tagOptions(parents, noAuto)...)
				if err != nil {
					return err
				}
				printTagResult(out, res)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&parents, "parent", "p", nil, "parent tags for the new tags")
	cmd.Flags().BoolVar(&noAuto, "no-auto", false, "skip auto-tagging rules")
	return cmd
}

func untagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "untag [id] [tag]",
		Short: "Detach a tag from an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				id, err := a.resolveEntry(ctx, args[0])
				if err != nil {
					return err
				}
				res, err := a.engine.RemoveTag(id, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  - %s\n", res.RemovedTag)
				fmt.Fprintf(out, "%d tags left\n", res.RemainingTags)
				return nil
			})
		},
	}
}

func tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Show the tag hierarchy with usage counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, false, func(ctx context.Context, a *app) error {
				roots := treeRoots(a.engine)
				if len(roots) == 0 {
					fmt.Fprintln(out, "No tags yet. Use 'tagkb tag' to attach some.")
					return nil
				}
				printTree(out, a.engine, roots)
				return nil
			})
		},
	}
}

// treeRoots returns the hierarchy roots plus every used tag that has no
// parent, sorted.
func treeRoots(e *tagindex.Engine[string]) []string {
	roots := e.Roots()
	for _, tag := range e.Tags() {
		if len(e.Parents(tag)) == 0 && len(e.Children(tag)) == 0 {
			roots = append(roots, tag)
		}
	}
	slices.Sort(roots)
	return roots
}

// printTree prints every root and its descendants. A tag with several
// parents appears under each of them; its subtree is expanded only once.
func printTree(w io.Writer, e *tagindex.Engine[string], roots []string) {
	expanded := make(map[string]bool)

	var walk func(tag string, depth int)
	walk = func(tag string, depth int) {
		prefix := strings.Repeat("  ", depth)
		count := len(e.ItemsForTag(tag))
		children := e.Children(tag)

		if expanded[tag] && len(children) > 0 {
			fmt.Fprintf(w, "%s%s (%d) ...\n", prefix, tag, count)
			return
		}
		expanded[tag] = true

		fmt.Fprintf(w, "%s%s (%d)\n", prefix, tag, count)
		for _, child := range children {
			walk(child, depth+1)
		}
	}

	for _, root := range roots {
		walk(root, 0)
	}
}

func parentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parent [child] [parent]",
		Short: "Place a tag under a parent tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				if err := a.engine.AddEdge(args[0], args[1]); err != nil {
					return err
				}
				norm := a.engine.Normalizer()
				fmt.Fprintf(out, "%s -> %s\n", norm.Normalize(args[0]), norm.Normalize(args[1]))
				return nil
			})
		},
	}
}

func unparentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unparent [child] [parent]",
		Short: "Remove a parent-child relationship",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				return a.engine.RemoveEdge(args[0], args[1])
			})
		},
	}
}

func synonymCmd() *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "synonym [tag] [synonym]",
		Short: "Register a synonym, or show a tag's expansion",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			mutate := len(args) == 2
			return withApp(cmd, mutate, func(ctx context.Context, a *app) error {
				switch {
				case !mutate:
					fmt.Fprintln(out, strings.Join(a.engine.Expand(args[0]), ", "))
					return nil
				case remove:
					return a.engine.RemoveSynonym(args[0], args[1])
				default:
					return a.engine.AddSynonym(args[0], args[1])
				}
			})
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "remove the synonym instead")
	return cmd
}

func printTagResult(w io.Writer, res *tagindex.TagResult[string]) {
	for _, t := range res.AddedTags {
		fmt.Fprintf(w, "  + %s\n", t)
	}
	for _, t := range res.AutoTags {
		fmt.Fprintf(w, "  + %s (auto)\n", t)
	}
	fmt.Fprintf(w, "%d tags total\n", res.TotalTags)
}
