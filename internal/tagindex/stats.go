package tagindex

import (
	"cmp"
	"slices"
)

// TagUsage is the number of items carrying a tag.
type TagUsage struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Stats summarizes the engine state.
type Stats struct {
	TotalTags      int            `json:"total_tags"`
	TotalItems     int            `json:"total_items"`
	TagsByUsage    []TagUsage     `json:"tags_by_usage"`
	CategoryCounts map[string]int `json:"category_counts"`
	HierarchyDepth int            `json:"hierarchy_depth"`
	Edges          int            `json:"edges"`
	Synonyms       int            `json:"synonyms"`
	TagSets        int            `json:"tag_sets"`
}

// Stats computes usage counts and the hierarchy depth. TagsByUsage is
// ordered by count descending, then tag.
func (e *Engine[I]) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st := e.st

	stats := Stats{
		TotalTags:      len(st.tagItems),
		TotalItems:     len(st.itemTags),
		TagsByUsage:    make([]TagUsage, 0, len(st.tagItems)),
		CategoryCounts: make(map[string]int, len(st.categories)),
		HierarchyDepth: st.hierarchyDepth(),
		TagSets:        len(st.tagSets),
	}

	for tag, items := range st.tagItems {
		stats.TagsByUsage = append(stats.TagsByUsage, TagUsage{Tag: tag, Count: len(items)})
	}
	slices.SortFunc(stats.TagsByUsage, func(a, b TagUsage) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})

	for name, c := range st.categories {
		stats.CategoryCounts[name] = len(c.tags)
	}
	for _, children := range st.children {
		stats.Edges += len(children)
	}
	for _, syns := range st.synonyms {
		stats.Synonyms += len(syns)
	}
	return stats
}

// hierarchyDepth is the longest ancestor chain over all tags. Tags without
// parents sit at depth zero, so only tags with parents are walked.
func (s *state[I]) hierarchyDepth() int {
	deepest := 0
	path := make(tagSet)
	for tag := range s.parents {
		if d := s.depth(tag, path); d > deepest {
			deepest = d
		}
	}
	return deepest
}
