package store

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pbaille/tagkb/internal/domain"
	"github.com/pbaille/tagkb/internal/errors"
)

//go:embed schema.sql
var schema string

// Store persists entries and snapshots of the tag index in SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// New opens (or creates) the database at path and applies the schema.
func New(ctx context.Context, path string, logger *zap.SugaredLogger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	// Pragmas are per connection; one connection keeps them in force.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "exec %s", pragma)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init schema")
	}

	logger.Debugw("Database opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// AddEntry creates a new entry and returns it
func (s *Store) AddEntry(ctx context.Context, content string) (*domain.Entry, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO entries (id, content, created_at) VALUES (?, ?, ?)",
		id, content, now,
	)
	if err != nil {
		return nil, errors.Wrap(err, "insert entry")
	}

	return &domain.Entry{
		ID:        id,
		Content:   content,
		CreatedAt: now,
	}, nil
}

// GetEntry retrieves an entry by ID
func (s *Store) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	var entry domain.Entry
	err := s.db.QueryRowContext(ctx,
		"SELECT id, content, created_at FROM entries WHERE id = ?",
		id,
	).Scan(&entry.ID, &entry.Content, &entry.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundf("entry %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "get entry")
	}
	return &entry, nil
}

// FindEntryByPrefix resolves a unique ID prefix to its entry.
func (s *Store) FindEntryByPrefix(ctx context.Context, prefix string) (*domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, content, created_at FROM entries WHERE substr(id, 1, ?) = ? ORDER BY id LIMIT 2",
		len(prefix), prefix,
	)
	if err != nil {
		return nil, errors.Wrap(err, "find entry")
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	switch len(entries) {
	case 0:
		return nil, errors.NewNotFoundf("entry %s", prefix)
	case 1:
		return &entries[0], nil
	default:
		return nil, errors.WithHint(
			errors.NewInvalidInputf("entry prefix %s is ambiguous", prefix),
			"type more characters of the ID")
	}
}

// ListEntries returns recent entries with pagination
func (s *Store) ListEntries(ctx context.Context, limit, offset int) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, content, created_at FROM entries ORDER BY created_at DESC, id LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list entries")
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SearchEntries performs a simple text search on content
func (s *Store) SearchEntries(ctx context.Context, query string, limit int) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, content, created_at FROM entries WHERE content LIKE '%' || ? || '%' ORDER BY created_at DESC LIMIT ?",
		query, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "search entries")
	}
	defer rows.Close()

	return scanEntries(rows)
}

// DeleteEntry removes an entry. Its tags live in the snapshot and are the
// caller's to drop.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "delete entry")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundf("entry %s", id)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]domain.Entry, error) {
	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.Content, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan entry")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate entries")
	}
	return entries, nil
}
