package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/pbaille/tagkb/internal/domain"
	"github.com/pbaille/tagkb/internal/errors"
	"github.com/pbaille/tagkb/internal/tagindex"
)

// Tables in delete order. Child rows go first so foreign keys hold.
var snapshotTables = []string{
	"item_tags",
	"items",
	"tag_edges",
	"tag_synonyms",
	"category_tags",
	"categories",
	"tag_set_tags",
	"tag_sets",
}

// SaveSnapshot replaces the stored tag index with snap in one transaction
// and appends a new revision to the history.
func (s *Store) SaveSnapshot(ctx context.Context, snap tagindex.Snapshot[string]) (*domain.Revision, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	for _, table := range snapshotTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return nil, errors.Wrapf(err, "clear %s", table)
		}
	}

	tags := make(map[string]struct{})
	for _, it := range snap.Items {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO items (item_id, first_seen, last_tagged) VALUES (?, ?, ?)",
			it.Item, int64(it.FirstSeen), int64(it.LastTagged),
		); err != nil {
			return nil, errors.Wrapf(err, "insert item %s", it.Item)
		}
		for _, tag := range it.Tags {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO item_tags (item_id, tag) VALUES (?, ?)",
				it.Item, tag,
			); err != nil {
				return nil, errors.Wrapf(err, "insert tag %s", tag)
			}
			tags[tag] = struct{}{}
		}
	}

	for _, e := range snap.Edges {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO tag_edges (child, parent) VALUES (?, ?)",
			e.Child, e.Parent,
		); err != nil {
			return nil, errors.Wrap(err, "insert edge")
		}
	}

	for _, syn := range snap.Synonyms {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO tag_synonyms (tag, synonym) VALUES (?, ?)",
			syn.Tag, syn.Synonym,
		); err != nil {
			return nil, errors.Wrap(err, "insert synonym")
		}
	}

	for _, c := range snap.Categories {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO categories (name, description) VALUES (?, ?)",
			c.Name, c.Description,
		); err != nil {
			return nil, errors.Wrapf(err, "insert category %s", c.Name)
		}
		for _, tag := range c.Tags {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO category_tags (category, tag) VALUES (?, ?)",
				c.Name, tag,
			); err != nil {
				return nil, errors.Wrap(err, "insert category tag")
			}
		}
	}

	for _, set := range snap.TagSets {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO tag_sets (name) VALUES (?)", set.Name,
		); err != nil {
			return nil, errors.Wrapf(err, "insert tag set %s", set.Name)
		}
		for i, tag := range set.Tags {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO tag_set_tags (name, position, tag) VALUES (?, ?, ?)",
				set.Name, i, tag,
			); err != nil {
				return nil, errors.Wrap(err, "insert tag set tag")
			}
		}
	}

	rev := &domain.Revision{
		ID:      uuid.New().String(),
		SavedAt: time.Now().UTC(),
		Items:   len(snap.Items),
		Tags:    len(tags),
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO snapshot_meta (id, saved_at, items, tags) VALUES (?, ?, ?, ?)",
		rev.ID, rev.SavedAt, rev.Items, rev.Tags,
	); err != nil {
		return nil, errors.Wrap(err, "insert revision")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit snapshot")
	}

	s.logger.Debugw("Saved snapshot", "revision", rev.ID, "items", rev.Items, "tags", rev.Tags)
	return rev, nil
}

// LoadSnapshot reads the stored tag index. An empty database yields an
// empty snapshot. The result is meant for Engine.Restore, which validates it.
func (s *Store) LoadSnapshot(ctx context.Context) (tagindex.Snapshot[string], error) {
	var snap tagindex.Snapshot[string]

	itemTags := make(map[string][]string)
	err := s.each(ctx, "SELECT item_id, tag FROM item_tags ORDER BY item_id, tag",
		func(rows *sql.Rows) error {
			var item, tag string
			if err := rows.Scan(&item, &tag); err != nil {
				return err
			}
			itemTags[item] = append(itemTags[item], tag)
			return nil
		})
	if err != nil {
		return snap, errors.Wrap(err, "load item tags")
	}

	err = s.each(ctx, "SELECT item_id, first_seen, last_tagged FROM items ORDER BY first_seen, item_id",
		func(rows *sql.Rows) error {
			var it tagindex.ItemTags[string]
			var first, last int64
			if err := rows.Scan(&it.Item, &first, &last); err != nil {
				return err
			}
			it.FirstSeen, it.LastTagged = uint64(first), uint64(last)
			it.Tags = itemTags[it.Item]
			snap.Items = append(snap.Items, it)
			return nil
		})
	if err != nil {
		return snap, errors.Wrap(err, "load items")
	}

	err = s.each(ctx, "SELECT child, parent FROM tag_edges ORDER BY parent, child",
		func(rows *sql.Rows) error {
			var e tagindex.Edge
			if err := rows.Scan(&e.Child, &e.Parent); err != nil {
				return err
			}
			snap.Edges = append(snap.Edges, e)
			return nil
		})
	if err != nil {
		return snap, errors.Wrap(err, "load edges")
	}

	err = s.each(ctx, "SELECT tag, synonym FROM tag_synonyms ORDER BY tag, synonym",
		func(rows *sql.Rows) error {
			var syn tagindex.SynonymEdge
			if err := rows.Scan(&syn.Tag, &syn.Synonym); err != nil {
				return err
			}
			snap.Synonyms = append(snap.Synonyms, syn)
			return nil
		})
	if err != nil {
		return snap, errors.Wrap(err, "load synonyms")
	}

	categoryTags := make(map[string][]string)
	err = s.each(ctx, "SELECT category, tag FROM category_tags ORDER BY category, tag",
		func(rows *sql.Rows) error {
			var name, tag string
			if err := rows.Scan(&name, &tag); err != nil {
				return err
			}
			categoryTags[name] = append(categoryTags[name], tag)
			return nil
		})
	if err != nil {
		return snap, errors.Wrap(err, "load category tags")
	}

	err = s.each(ctx, "SELECT name, description FROM categories ORDER BY name",
		func(rows *sql.Rows) error {
			var c tagindex.CategoryInfo
			if err := rows.Scan(&c.Name, &c.Description); err != nil {
				return err
			}
			c.Tags = categoryTags[c.Name]
			snap.Categories = append(snap.Categories, c)
			return nil
		})
	if err != nil {
		return snap, errors.Wrap(err, "load categories")
	}

	setTags := make(map[string][]string)
	err = s.each(ctx, "SELECT name, tag FROM tag_set_tags ORDER BY name, position",
		func(rows *sql.Rows) error {
			var name, tag string
			if err := rows.Scan(&name, &tag); err != nil {
				return err
			}
			setTags[name] = append(setTags[name], tag)
			return nil
		})
	if err != nil {
		return snap, errors.Wrap(err, "load tag set tags")
	}

	err = s.each(ctx, "SELECT name FROM tag_sets ORDER BY name",
		func(rows *sql.Rows) error {
			var set tagindex.NamedTagSet
			if err := rows.Scan(&set.Name); err != nil {
				return err
			}
			set.Tags = setTags[set.Name]
			snap.TagSets = append(snap.TagSets, set)
			return nil
		})
	if err != nil {
		return snap, errors.Wrap(err, "load tag sets")
	}

	return snap, nil
}

// Revision returns the most recently saved revision.
func (s *Store) Revision(ctx context.Context) (*domain.Revision, error) {
	var rev domain.Revision
	err := s.db.QueryRowContext(ctx,
		"SELECT id, saved_at, items, tags FROM snapshot_meta ORDER BY saved_at DESC, rowid DESC LIMIT 1",
	).Scan(&rev.ID, &rev.SavedAt, &rev.Items, &rev.Tags)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundf("revision")
	}
	if err != nil {
		return nil, errors.Wrap(err, "get revision")
	}
	return &rev, nil
}

func (s *Store) each(ctx context.Context, query string, fn func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
