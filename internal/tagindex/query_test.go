package tagindex

import (
	"fmt"
	"testing"

	"github.com/pbaille/tagkb/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryOperators(t *testing.T) {
	e := newExampleEngine(t)

	tests := []struct {
		name    string
		filters []string
		op      Operator
		want    []string
	}{
		{"and", []string{"x", "y"}, OpAnd, []string{"a"}},
		{"and no overlap", []string{"x", "z"}, OpAnd, []string{}},
		{"or", []string{"x", "z"}, OpOr, []string{"a", "b", "c"}},
		{"not", []string{"x"}, OpNot, []string{"b", "c"}},
		{"not all", []string{"y", "z"}, OpNot, []string{}},
		{"unknown tag and", []string{"x", "nope"}, OpAnd, []string{}},
		{"unknown tag or", []string{"x", "nope"}, OpOr, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Query(tt.filters, WithOperator(tt.op))
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, res.Items)
			assert.Equal(t, len(tt.want), res.Count)
			assert.Equal(t, len(tt.want), res.Total)
			assert.Equal(t, tt.op, res.Operator)
		})
	}
}

func TestQueryDefaultsToAnd(t *testing.T) {
	e := newExampleEngine(t)

	res, err := e.Query([]string{"Y"})
	require.NoError(t, err)
	assert.Equal(t, OpAnd, res.Operator)
	assert.Equal(t, []string{"a", "b"}, res.Items)
	assert.Equal(t, []string{"y"}, res.AppliedFilters)
}

func TestQueryRejectsEmptyFilters(t *testing.T) {
	e := newExampleEngine(t)

	for _, op := range []Operator{OpAnd, OpOr, OpNot} {
		_, err := e.Query([]string{" ", ";"}, WithOperator(op))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput), "operator %s", op)
	}
}

func TestQueryRejectsBadOptions(t *testing.T) {
	e := newExampleEngine(t)

	_, err := e.Query([]string{"x"}, WithOperator("XOR"))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = e.Query([]string{"x"}, WithLimit(-1))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = e.Query([]string{"x"}, WithSortBy("alphabetical"))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestQueryHierarchyExpansion(t *testing.T) {
	e := New[string]()
	require.NoError(t, e.AddEdge("js", "programming"))
	_, err := e.TagItem("a", []string{"js"})
	require.NoError(t, err)

	res, err := e.Query([]string{"programming"}, WithOperator(OpAnd), WithChildren(true))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, res.Items)

	res, err = e.Query([]string{"programming"}, WithOperator(OpAnd), WithChildren(false))
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.Total)
}

func TestQueryHierarchyExpansionIsTransitive(t *testing.T) {
	e := New[string]()
	require.NoError(t, e.AddEdge("typescript", "javascript"))
	require.NoError(t, e.AddEdge("javascript", "programming-language"))
	require.NoError(t, e.AddEdge("programming-language", "programming"))
	_, err := e.TagItem("file-2.ts", []string{"typescript"})
	require.NoError(t, err)
	_, err = e.TagItem("doc-1.md", []string{"documentation"})
	require.NoError(t, err)

	res, err := e.Query([]string{"programming"})
	require.NoError(t, err)
	assert.Equal(t, []string{"file-2.ts"}, res.Items)

	// Expansion goes down only: querying the child does not match parents.
	_, err = e.TagItem("overview.md", []string{"programming"})
	require.NoError(t, err)
	res, err = e.Query([]string{"typescript"})
	require.NoError(t, err)
	assert.Equal(t, []string{"file-2.ts"}, res.Items)
}

func TestQueryHierarchyDisabledEngineIgnoresChildren(t *testing.T) {
	e := New[string](WithHierarchy(false))
	// Loaded data may still carry edges when the feature is off.
	link(e.st.children, "programming", "js")
	link(e.st.parents, "js", "programming")
	_, err := e.TagItem("a", []string{"js"})
	require.NoError(t, err)

	res, err := e.Query([]string{"programming"}, WithChildren(true))
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestQuerySynonymExpansion(t *testing.T) {
	e := New[string]()
	require.NoError(t, e.AddSynonym("javascript", "js"))
	_, err := e.TagItem("a", []string{"js"})
	require.NoError(t, err)

	res, err := e.Query([]string{"javascript"}, WithOperator(OpAnd), WithSynonymExpansion(true))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, res.Items)

	res, err = e.Query([]string{"javascript"}, WithSynonymExpansion(false))
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	// Directed: querying the alias does not reach the canonical tag.
	_, err = e.TagItem("b", []string{"javascript"})
	require.NoError(t, err)
	res, err = e.Query([]string{"js"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, res.Items)
}

func TestQuerySynonymsAreOneHop(t *testing.T) {
	e := New[string]()
	require.NoError(t, e.AddSynonym("a", "b"))
	require.NoError(t, e.AddSynonym("b", "c"))
	_, err := e.TagItem("item", []string{"c"})
	require.NoError(t, err)

	res, err := e.Query([]string{"a"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestQueryLimitReportsTotal(t *testing.T) {
	e := New[string]()
	for i := 1; i <= 7; i++ {
		_, err := e.TagItem(fmt.Sprintf("item-%d", i), []string{"x"})
		require.NoError(t, err)
	}

	res, err := e.Query([]string{"x"}, WithLimit(3))
	require.NoError(t, err)
	assert.Equal(t, []string{"item-1", "item-2", "item-3"}, res.Items)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, 7, res.Total)

	res, err = e.Query([]string{"x"}, WithLimit(0))
	require.NoError(t, err)
	assert.Equal(t, 7, res.Count)
}

func TestQuerySortByTagCount(t *testing.T) {
	e := New[string]()
	_, err := e.TagItem("one", []string{"x"})
	require.NoError(t, err)
	_, err = e.TagItem("three", []string{"x", "y", "z"})
	require.NoError(t, err)
	_, err = e.TagItem("two-a", []string{"x", "y"})
	require.NoError(t, err)
	_, err = e.TagItem("two-b", []string{"x", "z"})
	require.NoError(t, err)

	res, err := e.Query([]string{"x"}, WithSortBy(SortTagCount))
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two-a", "two-b", "one"}, res.Items)

	res, err = e.Query([]string{"x"}, WithSortBy(SortTagCount), WithLimit(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two-a"}, res.Items)
	assert.Equal(t, 4, res.Total)
}

func TestQuerySortRecent(t *testing.T) {
	e := newExampleEngine(t)
	_, err := e.TagItem("a", []string{"w"})
	require.NoError(t, err)

	res, err := e.Query([]string{"x", "z"}, WithOperator(OpOr), WithSortBy(SortRecent))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, res.Items)

	res, err = e.Query([]string{"x", "z"}, WithOperator(OpOr))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, res.Items, "default order is first-tagged")
}

func TestQueryTagSet(t *testing.T) {
	e := newExampleEngine(t)
	_, err := e.SaveTagSet("ends", []string{"x", "z"})
	require.NoError(t, err)

	res, err := e.QueryTagSet("ENDS", WithOperator(OpOr))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, res.Items)
	assert.Equal(t, []string{"x", "z"}, res.AppliedFilters)

	_, err = e.QueryTagSet("missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestExpandedTags(t *testing.T) {
	e := New[string]()
	require.NoError(t, e.AddEdge("javascript", "programming"))
	require.NoError(t, e.AddEdge("typescript", "javascript"))
	require.NoError(t, e.AddSynonym("programming", "coding"))

	got, err := e.ExpandedTags("Programming")
	require.NoError(t, err)
	assert.Equal(t, []string{"coding", "javascript", "programming", "typescript"}, got)

	got, err = e.ExpandedTags("programming", WithChildren(false))
	require.NoError(t, err)
	assert.Equal(t, []string{"coding", "programming"}, got)

	got, err = e.ExpandedTags("programming", WithSynonymExpansion(false), WithChildren(false))
	require.NoError(t, err)
	assert.Equal(t, []string{"programming"}, got)

	_, err = e.ExpandedTags(" ")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestParseOperator(t *testing.T) {
	for in, want := range map[string]Operator{"and": OpAnd, " Or ": OpOr, "NOT": OpNot} {
		got, err := ParseOperator(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseOperator("nand")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{"": SortNone, "none": SortNone, "tagCount": SortTagCount, "recent": SortRecent} {
		got, err := ParseSortKey(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSortKey("random")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}
