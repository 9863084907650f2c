package tagindex

import (
	"testing"

	"github.com/pbaille/tagkb/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	e := New[string]()

	name, err := e.AddCategory(" Language ", "Programming language tags")
	require.NoError(t, err)
	assert.Equal(t, "language", name)
	_, err = e.AddCategory("framework", "Framework and library tags")
	require.NoError(t, err)

	require.NoError(t, e.AddTagToCategory("JavaScript", "language"))
	require.NoError(t, e.AddTagToCategory("typescript", "LANGUAGE"))
	require.NoError(t, e.AddTagToCategory("javascript", "framework"))

	info, err := e.Category("language")
	require.NoError(t, err)
	assert.Equal(t, &CategoryInfo{
		Name:        "language",
		Description: "Programming language tags",
		Tags:        []string{"javascript", "typescript"},
	}, info)

	assert.Equal(t, []string{"framework", "language"}, e.Categories())
	assert.Equal(t, []string{"framework", "language"}, e.CategoriesOf("javascript"))
	assert.Equal(t, []string{"language"}, e.CategoriesOf("typescript"))
	assert.Empty(t, e.CategoriesOf("react"))
}

func TestAddCategoryKeepsTags(t *testing.T) {
	e := New[string]()
	_, err := e.AddCategory("status", "old")
	require.NoError(t, err)
	require.NoError(t, e.AddTagToCategory("completed", "status"))

	_, err = e.AddCategory("status", "Status and state tags")
	require.NoError(t, err)

	info, err := e.Category("status")
	require.NoError(t, err)
	assert.Equal(t, "Status and state tags", info.Description)
	assert.Equal(t, []string{"completed"}, info.Tags)
}

func TestCategoryErrors(t *testing.T) {
	e := New[string]()

	_, err := e.AddCategory("  ", "blank")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	err = e.AddTagToCategory("react", "framework")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = e.Category("framework")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = e.AddCategory("framework", "")
	require.NoError(t, err)
	err = e.AddTagToCategory(" ", "framework")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	err = e.AddTagToCategory("react, vue", "framework")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	_, err = e.AddCategory("framework;library", "")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	err = e.RemoveTagFromCategory("react", "framework")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestRemoveCategory(t *testing.T) {
	e := New[string]()
	_, err := e.AddCategory("priority", "")
	require.NoError(t, err)
	require.NoError(t, e.AddTagToCategory("high", "priority"))
	require.NoError(t, e.RemoveTagFromCategory("high", "priority"))

	info, err := e.Category("priority")
	require.NoError(t, err)
	assert.Empty(t, info.Tags)

	require.NoError(t, e.RemoveCategory("priority"))
	assert.Empty(t, e.Categories())
	assert.True(t, errors.Is(e.RemoveCategory("priority"), errors.ErrNotFound))
}
