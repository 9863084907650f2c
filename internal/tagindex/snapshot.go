package tagindex

import (
	"github.com/pbaille/tagkb/internal/errors"
)

// ItemTags is one item's tags in a snapshot. FirstSeen and LastTagged keep
// query ordering across a save/restore; zero values fall back to the item's
// position in the snapshot.
type ItemTags[I comparable] struct {
	Item       I        `json:"item"`
	Tags       []string `json:"tags"`
	FirstSeen  uint64   `json:"first_seen,omitempty"`
	LastTagged uint64   `json:"last_tagged,omitempty"`
}

// Snapshot is a copy of the whole data model, suitable for persistence.
type Snapshot[I comparable] struct {
	Items      []ItemTags[I]  `json:"items"`
	Edges      []Edge         `json:"edges"`
	Synonyms   []SynonymEdge  `json:"synonyms"`
	Categories []CategoryInfo `json:"categories"`
	TagSets    []NamedTagSet  `json:"tag_sets"`
}

// Snapshot exports the current state. Items are in first-tagged order and
// every other list is sorted.
func (e *Engine[I]) Snapshot() Snapshot[I] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st := e.st

	var snap Snapshot[I]
	all := make(map[I]struct{}, len(st.itemTags))
	for item := range st.itemTags {
		all[item] = struct{}{}
	}
	for _, item := range st.ordered(all, SortNone) {
		m := st.meta[item]
		snap.Items = append(snap.Items, ItemTags[I]{
			Item:       item,
			Tags:       st.itemTags[item].sorted(),
			FirstSeen:  m.first,
			LastTagged: m.last,
		})
	}
	snap.Edges = st.edges()
	snap.Synonyms = st.synonymEdges()
	snap.Categories = st.categoryInfos()
	for _, name := range sortedKeys(st.tagSets) {
		snap.TagSets = append(snap.TagSets, NamedTagSet{
			Name: name,
			Tags: append([]string(nil), st.tagSets[name]...),
		})
	}
	return snap
}

// Restore replaces the engine state with snap. Every tag is normalized again
// and every edge goes through the same self-reference and cycle checks as
// AddEdge, so an invalid snapshot is rejected and the current state is kept.
func (e *Engine[I]) Restore(snap Snapshot[I]) error {
	st, err := e.build(snap)
	if err != nil {
		return errors.Wrap(err, "restore snapshot")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.st = st
	e.log.Debugw("Restored snapshot",
		"items", len(st.itemTags),
		"tags", len(st.tagItems),
		"edges", len(snap.Edges),
		"synonyms", len(snap.Synonyms))
	return nil
}

func (e *Engine[I]) build(snap Snapshot[I]) (*state[I], error) {
	st := newState[I]()

	for _, it := range snap.Items {
		tags := e.norm.NormalizeList(it.Tags...)
		if len(tags) == 0 {
			return nil, errors.NewInvalidInputf("item %v has no valid tags", it.Item)
		}
		_, dup := st.itemTags[it.Item]
		prev := st.meta[it.Item]
		for _, tag := range tags {
			st.linkItem(it.Item, tag)
		}
		m := st.meta[it.Item]
		if it.FirstSeen > 0 {
			m.first = it.FirstSeen
		}
		if it.LastTagged > 0 {
			m.last = it.LastTagged
		}
		if dup {
			m.first = min(m.first, prev.first)
			m.last = max(m.last, prev.last)
		}
		m.last = max(m.last, m.first)
		st.meta[it.Item] = m
	}
	for _, m := range st.meta {
		st.seq = max(st.seq, m.first, m.last)
	}

	for _, edge := range snap.Edges {
		c, p, err := e.normalizePair(edge.Child, edge.Parent)
		if err != nil {
			return nil, err
		}
		if _, err := st.addEdge(c, p); err != nil {
			return nil, err
		}
	}

	for _, syn := range snap.Synonyms {
		t, s, err := e.normalizePair(syn.Tag, syn.Synonym)
		if err != nil {
			return nil, err
		}
		if t == s {
			return nil, errors.Wrapf(errors.ErrSelfReference, "tag %q cannot be its own synonym", t)
		}
		link(st.synonyms, t, s)
	}

	for _, c := range snap.Categories {
		name := e.norm.Normalize(c.Name)
		if name == "" {
			return nil, errors.NewInvalidInputf("invalid category name %q", c.Name)
		}
		cat, ok := st.categories[name]
		if !ok {
			cat = &category{tags: make(tagSet)}
			st.categories[name] = cat
		}
		cat.description = c.Description
		for _, tag := range e.norm.NormalizeList(c.Tags...) {
			cat.tags[tag] = struct{}{}
		}
	}

	for _, set := range snap.TagSets {
		name := e.norm.Normalize(set.Name)
		tags := e.norm.NormalizeList(set.Tags...)
		if name == "" || len(tags) == 0 {
			return nil, errors.NewInvalidInputf("invalid tag set %q", set.Name)
		}
		st.tagSets[name] = tags
	}

	return st, nil
}
