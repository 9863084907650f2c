package tagindex

import (
	"github.com/pbaille/tagkb/internal/errors"
)

type category struct {
	description string
	tags        tagSet
}

// CategoryInfo describes a category and its tags.
type CategoryInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// AddCategory registers a category. Registering an existing name updates its
// description and keeps its tags.
func (e *Engine[I]) AddCategory(name, description string) (string, error) {
	key, err := e.norm.NormalizeOne(name)
	if err != nil {
		return "", errors.Wrap(err, "category name")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.st.categories[key]; ok {
		c.description = description
		return key, nil
	}
	e.st.categories[key] = &category{description: description, tags: make(tagSet)}
	e.log.Debugw("Added category", "category", key)
	return key, nil
}

// RemoveCategory deletes a category. Its tags are untouched elsewhere.
func (e *Engine[I]) RemoveCategory(name string) error {
	key := e.norm.Normalize(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.st.categories[key]; !ok {
		return errors.NewNotFoundf("category %q", key)
	}
	delete(e.st.categories, key)
	e.log.Debugw("Removed category", "category", key)
	return nil
}

// AddTagToCategory files tag under an existing category. A tag may belong to
// any number of categories.
func (e *Engine[I]) AddTagToCategory(tag, name string) error {
	t, err := e.norm.NormalizeOne(tag)
	if err != nil {
		return err
	}
	key := e.norm.Normalize(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.st.categories[key]
	if !ok {
		return errors.WithHint(
			errors.NewNotFoundf("category %q", key),
			"register the category first")
	}
	c.tags[t] = struct{}{}
	return nil
}

// RemoveTagFromCategory unfiles tag from a category.
func (e *Engine[I]) RemoveTagFromCategory(tag, name string) error {
	t := e.norm.Normalize(tag)
	key := e.norm.Normalize(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.st.categories[key]
	if !ok {
		return errors.NewNotFoundf("category %q", key)
	}
	if !c.tags.has(t) {
		return errors.NewNotFoundf("tag %q in category %q", t, key)
	}
	delete(c.tags, t)
	return nil
}

// Category returns a category with its tags sorted.
func (e *Engine[I]) Category(name string) (*CategoryInfo, error) {
	key := e.norm.Normalize(name)

	e.mu.RLock()
	defer e.mu.RUnlock()

	c, ok := e.st.categories[key]
	if !ok {
		return nil, errors.NewNotFoundf("category %q", key)
	}
	return &CategoryInfo{Name: key, Description: c.description, Tags: c.tags.sorted()}, nil
}

// Categories returns every category name, sorted.
func (e *Engine[I]) Categories() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedKeys(e.st.categories)
}

// CategoriesOf returns the categories tag is filed under, sorted.
func (e *Engine[I]) CategoriesOf(tag string) []string {
	t := e.norm.Normalize(tag)

	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make(tagSet)
	for name, c := range e.st.categories {
		if c.tags.has(t) {
			names[name] = struct{}{}
		}
	}
	return names.sorted()
}

func (s *state[I]) categoryInfos() []CategoryInfo {
	var out []CategoryInfo
	for _, name := range sortedKeys(s.categories) {
		c := s.categories[name]
		out = append(out, CategoryInfo{Name: name, Description: c.description, Tags: c.tags.sorted()})
	}
	return out
}
