package tagindex

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pbaille/tagkb/internal/errors"
)

// DefaultQueryLimit caps query results when no limit is given.
const DefaultQueryLimit = 1000

// Operator combines the item sets of the filter terms.
type Operator string

const (
	// OpAnd keeps items matching every term.
	OpAnd Operator = "AND"
	// OpOr keeps items matching any term.
	OpOr Operator = "OR"
	// OpNot keeps tagged items matching none of the terms.
	OpNot Operator = "NOT"
)

// ParseOperator accepts AND, OR and NOT in any case.
func ParseOperator(s string) (Operator, error) {
	op := Operator(strings.ToUpper(strings.TrimSpace(s)))
	switch op {
	case OpAnd, OpOr, OpNot:
		return op, nil
	}
	return "", errors.WithHint(
		errors.NewInvalidInputf("invalid operator: %q", s),
		"use AND, OR or NOT")
}

// SortKey orders query results before the limit is applied.
type SortKey string

const (
	// SortNone keeps first-tagged order.
	SortNone SortKey = ""
	// SortTagCount puts items with more tags first.
	SortTagCount SortKey = "tagCount"
	// SortRecent puts the most recently tagged items first.
	SortRecent SortKey = "recent"
)

// ParseSortKey maps user input to a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "tagcount", "tag-count", "tags":
		return SortTagCount, nil
	case "recent", "recentlyadded", "recently-added":
		return SortRecent, nil
	}
	return "", errors.WithHint(
		errors.NewInvalidInputf("invalid sort key: %q", s),
		"use none, tagCount or recent")
}

// QueryOption customizes a query.
type QueryOption func(*queryOptions)

type queryOptions struct {
	operator        Operator
	includeChildren bool
	includeSynonyms bool
	limit           int
	sortBy          SortKey
}

// WithOperator sets how filter terms combine. Defaults to OpAnd.
func WithOperator(op Operator) QueryOption {
	return func(o *queryOptions) { o.operator = op }
}

// WithChildren toggles descendant expansion of each term. Defaults to true.
func WithChildren(enabled bool) QueryOption {
	return func(o *queryOptions) { o.includeChildren = enabled }
}

// WithSynonymExpansion toggles synonym expansion of each term. Defaults to the
// engine's synonym setting.
func WithSynonymExpansion(enabled bool) QueryOption {
	return func(o *queryOptions) { o.includeSynonyms = enabled }
}

// WithLimit caps the number of returned items. Zero means no cap.
func WithLimit(n int) QueryOption {
	return func(o *queryOptions) { o.limit = n }
}

// WithSortBy orders results before truncation.
func WithSortBy(key SortKey) QueryOption {
	return func(o *queryOptions) { o.sortBy = key }
}

// QueryResult is the outcome of a query.
type QueryResult[I comparable] struct {
	Items []I
	// Count is len(Items).
	Count int
	// Total is the number of matches before the limit was applied.
	Total          int
	AppliedFilters []string
	Operator       Operator
}

// Query returns the items matching filters combined by the operator.
//
// Each filter term expands to the tag itself, its descendants when child
// expansion is on, and its one-hop synonyms when synonym expansion is on.
// A term matches every item carrying any tag of its expansion. It fails with
// ErrInvalidInput when no filter survives normalization: an empty AND never
// means "everything".
func (e *Engine[I]) Query(filters []string, opts ...QueryOption) (*QueryResult[I], error) {
	o, err := e.queryOptions(opts)
	if err != nil {
		return nil, err
	}
	normalized := e.norm.NormalizeList(filters...)
	if len(normalized) == 0 {
		return nil, errors.WithHint(
			errors.NewInvalidInputf("no valid tag filters provided"),
			"pass at least one non-blank tag")
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.evaluate(normalized, o), nil
}

// QueryTagSet runs a query whose filters are the tags of a saved tag set.
func (e *Engine[I]) QueryTagSet(name string, opts ...QueryOption) (*QueryResult[I], error) {
	o, err := e.queryOptions(opts)
	if err != nil {
		return nil, err
	}
	key := e.norm.Normalize(name)

	e.mu.RLock()
	defer e.mu.RUnlock()

	tags, ok := e.st.tagSets[key]
	if !ok {
		return nil, errors.NewNotFoundf("tag set %q", key)
	}
	return e.evaluate(tags, o), nil
}

// ExpandedTags returns the tags a single filter term resolves to, sorted.
func (e *Engine[I]) ExpandedTags(tag string, opts ...QueryOption) ([]string, error) {
	o, err := e.queryOptions(opts)
	if err != nil {
		return nil, err
	}
	t := e.norm.Normalize(tag)
	if t == "" {
		return nil, errors.NewInvalidInputf("tag %q is empty after normalization", tag)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.expand(t, o).sorted(), nil
}

func (e *Engine[I]) queryOptions(opts []QueryOption) (queryOptions, error) {
	o := queryOptions{
		operator:        OpAnd,
		includeChildren: true,
		includeSynonyms: e.settings.EnableSynonyms,
		limit:           DefaultQueryLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}

	switch o.operator {
	case OpAnd, OpOr, OpNot:
	default:
		return o, errors.NewInvalidInputf("invalid operator: %q", o.operator)
	}
	switch o.sortBy {
	case SortNone, SortTagCount, SortRecent:
	default:
		return o, errors.NewInvalidInputf("invalid sort key: %q", o.sortBy)
	}
	if o.limit < 0 {
		return o, errors.NewInvalidInputf("limit must not be negative, got %d", o.limit)
	}
	return o, nil
}

func (e *Engine[I]) evaluate(filters []string, o queryOptions) *QueryResult[I] {
	var matched map[I]struct{}
	switch o.operator {
	case OpAnd:
		matched = e.matchAll(filters, o)
	case OpOr:
		matched = e.matchAny(filters, o)
	case OpNot:
		matched = e.matchNone(filters, o)
	}

	items := e.st.ordered(matched, o.sortBy)
	total := len(items)
	if o.limit > 0 && len(items) > o.limit {
		items = items[:o.limit]
	}

	return &QueryResult[I]{
		Items:          items,
		Count:          len(items),
		Total:          total,
		AppliedFilters: filters,
		Operator:       o.operator,
	}
}

// expand resolves one filter term to its expanded tag set.
func (e *Engine[I]) expand(tag string, o queryOptions) tagSet {
	expanded := tagSet{tag: {}}
	if o.includeChildren && e.settings.EnableHierarchy {
		e.st.collectDescendants(tag, expanded)
	}
	if o.includeSynonyms && e.settings.EnableSynonyms {
		for syn := range e.st.synonyms[tag] {
			expanded[syn] = struct{}{}
		}
	}
	return expanded
}

func (e *Engine[I]) matchAll(filters []string, o queryOptions) map[I]struct{} {
	result := e.st.itemsFor(e.expand(filters[0], o))
	for _, tag := range filters[1:] {
		if len(result) == 0 {
			break
		}
		termItems := e.st.itemsFor(e.expand(tag, o))
		for item := range result {
			if _, ok := termItems[item]; !ok {
				delete(result, item)
			}
		}
	}
	return result
}

func (e *Engine[I]) matchAny(filters []string, o queryOptions) map[I]struct{} {
	result := make(map[I]struct{})
	for _, tag := range filters {
		for item := range e.st.itemsFor(e.expand(tag, o)) {
			result[item] = struct{}{}
		}
	}
	return result
}

func (e *Engine[I]) matchNone(filters []string, o queryOptions) map[I]struct{} {
	excluded := e.matchAny(filters, o)
	result := make(map[I]struct{}, len(e.st.itemTags))
	for item := range e.st.itemTags {
		if _, ok := excluded[item]; !ok {
			result[item] = struct{}{}
		}
	}
	return result
}

// itemsFor returns the union of items carrying any of tags.
func (s *state[I]) itemsFor(tags tagSet) map[I]struct{} {
	result := make(map[I]struct{})
	for tag := range tags {
		for item := range s.tagItems[tag] {
			result[item] = struct{}{}
		}
	}
	return result
}

// ordered lists items in first-tagged order, then applies the sort key.
func (s *state[I]) ordered(items map[I]struct{}, key SortKey) []I {
	out := make([]I, 0, len(items))
	for item := range items {
		out = append(out, item)
	}
	slices.SortFunc(out, func(a, b I) int {
		return cmp.Compare(s.meta[a].first, s.meta[b].first)
	})

	switch key {
	case SortTagCount:
		slices.SortStableFunc(out, func(a, b I) int {
			return cmp.Compare(len(s.itemTags[b]), len(s.itemTags[a]))
		})
	case SortRecent:
		slices.SortStableFunc(out, func(a, b I) int {
			return cmp.Compare(s.meta[b].last, s.meta[a].last)
		})
	}
	return out
}
