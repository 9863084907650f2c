package tagindex

import (
	"testing"

	"github.com/pbaille/tagkb/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSynonym(t *testing.T) {
	e := New[string]()

	require.NoError(t, e.AddSynonym("JavaScript", "js"))
	require.NoError(t, e.AddSynonym("javascript", "ecmascript"))

	assert.Equal(t, []string{"ecmascript", "js"}, e.Synonyms("javascript"))
	assert.Empty(t, e.Synonyms("js"), "synonyms are directed")
}

func TestAddSynonymErrors(t *testing.T) {
	e := New[string]()

	err := e.AddSynonym("js", "JS")
	assert.True(t, errors.Is(err, errors.ErrSelfReference))

	err = e.AddSynonym(" ", "js")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	disabled := New[string](WithSynonyms(false))
	err = disabled.AddSynonym("javascript", "js")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestAddSynonymRejectsDelimitedTag(t *testing.T) {
	e := New[string]()
	_, err := e.TagItem("a", []string{"js"})
	require.NoError(t, err)

	err = e.AddSynonym("javascript", "js, ecmascript")
	assert.True(t, errors.IsInvalidInput(err))
	assert.Empty(t, e.Synonyms("javascript"))

	require.NoError(t, e.AddSynonym("javascript", "js"))
	res, err := e.Query([]string{"javascript"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, res.Items)
}

func TestExpandIsOneHop(t *testing.T) {
	e := New[string]()
	require.NoError(t, e.AddSynonym("a", "b"))
	require.NoError(t, e.AddSynonym("b", "c"))

	assert.Equal(t, []string{"a", "b"}, e.Expand("A"))
	assert.Equal(t, []string{"b", "c"}, e.Expand("b"))
	assert.Equal(t, []string{"c"}, e.Expand("c"))
	assert.Nil(t, e.Expand("  "))
}

func TestRemoveSynonym(t *testing.T) {
	e := New[string]()
	require.NoError(t, e.AddSynonym("javascript", "js"))

	require.NoError(t, e.RemoveSynonym("javascript", "js"))
	assert.Empty(t, e.Synonyms("javascript"))
	assert.Empty(t, e.st.synonyms)

	err := e.RemoveSynonym("javascript", "js")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
