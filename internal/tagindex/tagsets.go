package tagindex

import (
	"github.com/pbaille/tagkb/internal/errors"
)

// NamedTagSet is a saved, reusable list of tags.
type NamedTagSet struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// SaveTagSet stores tags under name, replacing any previous set, and
// returns the normalized tags.
func (e *Engine[I]) SaveTagSet(name string, tags []string) ([]string, error) {
	key, err := e.norm.NormalizeOne(name)
	if err != nil {
		return nil, errors.Wrap(err, "tag set name")
	}
	normalized := e.norm.NormalizeList(tags...)
	if len(normalized) == 0 {
		return nil, errors.NewInvalidInputf("no valid tags provided for tag set %q", key)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.st.tagSets[key] = normalized
	e.log.Debugw("Saved tag set", "name", key, "tags", normalized)
	return append([]string(nil), normalized...), nil
}

// TagSet returns the tags saved under name.
func (e *Engine[I]) TagSet(name string) ([]string, error) {
	key := e.norm.Normalize(name)

	e.mu.RLock()
	defer e.mu.RUnlock()

	tags, ok := e.st.tagSets[key]
	if !ok {
		return nil, errors.NewNotFoundf("tag set %q", key)
	}
	return append([]string(nil), tags...), nil
}

// DeleteTagSet forgets a saved tag set.
func (e *Engine[I]) DeleteTagSet(name string) error {
	key := e.norm.Normalize(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.st.tagSets[key]; !ok {
		return errors.NewNotFoundf("tag set %q", key)
	}
	delete(e.st.tagSets, key)
	return nil
}

// TagSets returns the saved tag set names, sorted.
func (e *Engine[I]) TagSets() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedKeys(e.st.tagSets)
}
