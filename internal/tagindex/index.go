package tagindex

import (
	"github.com/pbaille/tagkb/internal/errors"
)

// TagResult reports the outcome of TagItem.
type TagResult[I comparable] struct {
	Item      I
	AddedTags []string
	AutoTags  []string
	TotalTags int
}

// RemoveResult reports the outcome of RemoveTag.
type RemoveResult[I comparable] struct {
	Item          I
	RemovedTag    string
	RemainingTags int
}

// TagItem associates tags with item. Tags the item already carries are
// skipped, so repeating a call is a no-op. It fails with ErrInvalidInput when
// no valid tag remains after normalization.
func (e *Engine[I]) TagItem(item I, tags []string, opts ...TagOption) (*TagResult[I], error) {
	normalized := e.norm.NormalizeList(tags...)
	if len(normalized) == 0 {
		return nil, errors.WithHint(
			errors.NewInvalidInputf("no valid tags provided"),
			"tags are separated by ',' or ';' and must not be blank")
	}

	var o tagOptions
	for _, opt := range opts {
		opt(&o)
	}
	parents := e.norm.NormalizeList(o.parents...)
	if len(parents) > 0 && !e.settings.EnableHierarchy {
		return nil, errors.NewInvalidInputf("parent tags given but hierarchy support is disabled")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.st

	current := st.itemTags[item]
	var added []string
	for _, tag := range normalized {
		if !current.has(tag) {
			added = append(added, tag)
		}
	}

	if len(parents) > 0 && len(added) > 0 {
		if err := st.addEdges(added, parents); err != nil {
			return nil, err
		}
	}

	var auto []string
	if o.autoTag && e.autoTag != nil && len(added) > 0 {
		auto = e.collectAutoTags(item, current, added)
	}

	for _, tag := range added {
		st.linkItem(item, tag)
	}
	for _, tag := range auto {
		st.linkItem(item, tag)
	}
	if len(added) > 0 {
		m := st.meta[item]
		m.last = st.nextSeq()
		st.meta[item] = m
		e.log.Debugw("Tagged item", "item", item, "added", added, "auto", auto)
	}

	return &TagResult[I]{
		Item:      item,
		AddedTags: added,
		AutoTags:  auto,
		TotalTags: len(st.itemTags[item]),
	}, nil
}

// collectAutoTags follows the auto-tag hook breadth first from the newly
// added tags and returns the extra tags it produced, in discovery order.
func (e *Engine[I]) collectAutoTags(item I, current tagSet, added []string) []string {
	seen := make(tagSet, len(current)+len(added))
	for tag := range current {
		seen[tag] = struct{}{}
	}
	for _, tag := range added {
		seen[tag] = struct{}{}
	}

	var auto []string
	queue := append([]string(nil), added...)
	for len(queue) > 0 {
		tag := queue[0]
		queue = queue[1:]
		for _, extra := range e.norm.NormalizeList(e.autoTag(item, tag)...) {
			if seen.has(extra) {
				continue
			}
			seen[extra] = struct{}{}
			auto = append(auto, extra)
			queue = append(queue, extra)
		}
	}
	return auto
}

// RemoveTag detaches tag from item. Empty item and tag entries are dropped.
func (e *Engine[I]) RemoveTag(item I, tag string) (*RemoveResult[I], error) {
	normalized := e.norm.Normalize(tag)
	if normalized == "" {
		return nil, errors.NewInvalidInputf("tag %q is empty after normalization", tag)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.st

	tags, ok := st.itemTags[item]
	if !ok {
		return nil, errors.NewNotFoundf("item %v has no tags", item)
	}
	if !tags.has(normalized) {
		return nil, errors.NewNotFoundf("item %v does not have tag %q", item, normalized)
	}

	st.unlinkItem(item, normalized)
	e.log.Debugw("Removed tag", "item", item, "tag", normalized)

	return &RemoveResult[I]{
		Item:          item,
		RemovedTag:    normalized,
		RemainingTags: len(st.itemTags[item]),
	}, nil
}

// RemoveItem detaches every tag from item and returns the tags it had.
func (e *Engine[I]) RemoveItem(item I) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.st

	tags, ok := st.itemTags[item]
	if !ok {
		return nil, errors.NewNotFoundf("item %v has no tags", item)
	}
	removed := tags.sorted()
	for _, tag := range removed {
		st.unlinkItem(item, tag)
	}
	e.log.Debugw("Removed item", "item", item, "tags", removed)
	return removed, nil
}

// ItemTags returns the item's tags, sorted. With includeInherited, every
// transitive ancestor of those tags is included as well. Unknown items yield
// an empty slice.
func (e *Engine[I]) ItemTags(item I, includeInherited bool) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st := e.st

	direct := st.itemTags[item]
	if !includeInherited || !e.settings.EnableHierarchy {
		return direct.sorted()
	}

	all := make(tagSet, len(direct))
	for tag := range direct {
		all[tag] = struct{}{}
	}
	for tag := range direct {
		st.collectAncestors(tag, all)
	}
	return all.sorted()
}

// HasTag reports whether item directly carries tag.
func (e *Engine[I]) HasTag(item I, tag string) bool {
	normalized := e.norm.Normalize(tag)

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.itemTags[item].has(normalized)
}

// Items returns every tagged item in first-tagged order.
func (e *Engine[I]) Items() []I {
	e.mu.RLock()
	defer e.mu.RUnlock()

	items := make(map[I]struct{}, len(e.st.itemTags))
	for item := range e.st.itemTags {
		items[item] = struct{}{}
	}
	return e.st.ordered(items, SortNone)
}

// Tags returns every tag carried by at least one item, sorted.
func (e *Engine[I]) Tags() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tags := make(tagSet, len(e.st.tagItems))
	for tag := range e.st.tagItems {
		tags[tag] = struct{}{}
	}
	return tags.sorted()
}

// ItemsForTag returns the items directly carrying tag, in first-tagged order.
func (e *Engine[I]) ItemsForTag(tag string) []I {
	normalized := e.norm.Normalize(tag)

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.ordered(e.st.itemsFor(tagSet{normalized: {}}), SortNone)
}

// linkItem records tag on item in both views.
func (s *state[I]) linkItem(item I, tag string) {
	tags, ok := s.itemTags[item]
	if !ok {
		tags = make(tagSet)
		s.itemTags[item] = tags
		seq := s.nextSeq()
		s.meta[item] = itemMeta{first: seq, last: seq}
	}
	tags[tag] = struct{}{}

	items, ok := s.tagItems[tag]
	if !ok {
		items = make(map[I]struct{})
		s.tagItems[tag] = items
	}
	items[item] = struct{}{}
}

// unlinkItem removes tag from item in both views and drops empty entries.
func (s *state[I]) unlinkItem(item I, tag string) {
	if tags, ok := s.itemTags[item]; ok {
		delete(tags, tag)
		if len(tags) == 0 {
			delete(s.itemTags, item)
			delete(s.meta, item)
		}
	}
	if items, ok := s.tagItems[tag]; ok {
		delete(items, item)
		if len(items) == 0 {
			delete(s.tagItems, tag)
		}
	}
}
