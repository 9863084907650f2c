package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/tagkb/internal/config"
	"github.com/pbaille/tagkb/internal/errors"
	"github.com/pbaille/tagkb/internal/logger"
	"github.com/pbaille/tagkb/internal/store"
	"github.com/pbaille/tagkb/internal/tagindex"
)

var (
	dbPath     string
	configPath string
	logJSON    bool
	verbose    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd, err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tagkb",
		Short:         "Knowledge base with hierarchical, synonym-aware tags",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dbPath, "db", "", "database path (default ~/.tagkb/tagkb.db)")
	flags.StringVar(&configPath, "config", "", "config file (default ~/.tagkb/config.toml)")
	flags.BoolVar(&logJSON, "log-json", false, "log as JSON")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(tagCmd())
	rootCmd.AddCommand(untagCmd())
	rootCmd.AddCommand(tagsCmd())
	rootCmd.AddCommand(parentCmd())
	rootCmd.AddCommand(unparentCmd())
	rootCmd.AddCommand(synonymCmd())
	rootCmd.AddCommand(categoryCmd())
	rootCmd.AddCommand(tagsetCmd())
	rootCmd.AddCommand(queryCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(exportCmd())

	return rootCmd
}

func printError(cmd *cobra.Command, err error) {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "Error: %v\n", err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

// app bundles what every command needs: configuration, the store and the
// tag index restored from it.
type app struct {
	cfg    *config.Config
	store  *store.Store
	engine *tagindex.Engine[string]
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	if err := logger.Initialize(logJSON || cfg.Log.JSON, level); err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		return nil, errors.Wrap(err, "create db dir")
	}

	s, err := store.New(ctx, cfg.Database.Path, logger.Named("store"))
	if err != nil {
		return nil, err
	}

	engine := tagindex.New[string](cfg.EngineOptions(logger.Named("tagindex"))...)
	if err := restore(ctx, s, engine, cfg); err != nil {
		s.Close()
		return nil, err
	}
	if fn := cfg.AutoTagger(engine.Normalizer()); fn != nil {
		engine.SetAutoTagger(fn)
	}

	return &app{cfg: cfg, store: s, engine: engine}, nil
}

// restore loads the saved index, or seeds the configured categories when
// nothing has been saved yet.
func restore(ctx context.Context, s *store.Store, engine *tagindex.Engine[string], cfg *config.Config) error {
	_, err := s.Revision(ctx)
	if errors.IsNotFound(err) {
		for _, seed := range cfg.Categories {
			if _, err := engine.AddCategory(seed.Name, seed.Description); err != nil {
				return errors.Wrapf(err, "seed category %s", seed.Name)
			}
		}
		logger.Logger.Debugw("Seeded categories", "count", len(cfg.Categories))
		return nil
	}
	if err != nil {
		return err
	}

	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	return engine.Restore(snap)
}

func (a *app) save(ctx context.Context) error {
	_, err := a.store.SaveSnapshot(ctx, a.engine.Snapshot())
	return err
}

func (a *app) Close() error {
	return a.store.Close()
}

// withApp opens the app for the duration of fn. When mutate is set the index
// is saved after fn succeeds.
func withApp(cmd *cobra.Command, mutate bool, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := fn(ctx, a); err != nil {
		return err
	}
	if mutate {
		return a.save(ctx)
	}
	return nil
}

// resolveEntry accepts a full entry ID or a unique prefix of one.
func (a *app) resolveEntry(ctx context.Context, ref string) (string, error) {
	entry, err := a.store.FindEntryByPrefix(ctx, ref)
	if err != nil {
		return "", err
	}
	return entry.ID, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
