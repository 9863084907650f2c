package tagindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// requireConsistent checks that both views of the item/tag relation agree and
// that no empty collection is left behind.
func requireConsistent[I comparable](t *testing.T, e *Engine[I]) {
	t.Helper()
	e.mu.RLock()
	defer e.mu.RUnlock()
	st := e.st

	for item, tags := range st.itemTags {
		require.NotEmpty(t, tags, "item %v has an empty tag set", item)
		_, ok := st.meta[item]
		require.True(t, ok, "item %v has no ordering metadata", item)
		for tag := range tags {
			_, ok := st.tagItems[tag][item]
			require.True(t, ok, "item %v has tag %q but is missing from its item set", item, tag)
		}
	}
	for tag, items := range st.tagItems {
		require.NotEmpty(t, items, "tag %q has an empty item set", tag)
		for item := range items {
			require.True(t, st.itemTags[item].has(tag), "tag %q lists item %v which lacks it", tag, item)
		}
	}
	require.Len(t, st.meta, len(st.itemTags))
}

// newExampleEngine builds the a/b/c fixture: a→[x,y], b→[y,z], c→[z].
func newExampleEngine(t *testing.T) *Engine[string] {
	t.Helper()
	e := New[string]()
	_, err := e.TagItem("a", []string{"x", "y"})
	require.NoError(t, err)
	_, err = e.TagItem("b", []string{"y", "z"})
	require.NoError(t, err)
	_, err = e.TagItem("c", []string{"z"})
	require.NoError(t, err)
	return e
}
