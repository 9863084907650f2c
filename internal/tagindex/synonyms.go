package tagindex

import (
	"github.com/pbaille/tagkb/internal/errors"
)

// SynonymEdge is a directed tag → synonym alias.
type SynonymEdge struct {
	Tag     string `json:"tag"`
	Synonym string `json:"synonym"`
}

// AddSynonym registers synonym as an alias matched when tag is queried.
// The relation is directed; register both directions for symmetric lookup.
func (e *Engine[I]) AddSynonym(tag, synonym string) error {
	t, syn, err := e.normalizePair(tag, synonym)
	if err != nil {
		return err
	}
	if t == syn {
		return errors.Wrapf(errors.ErrSelfReference, "tag %q cannot be its own synonym", t)
	}
	if !e.settings.EnableSynonyms {
		return errors.WithHint(
			errors.NewInvalidInputf("synonym support is disabled"),
			"enable synonyms in the engine settings")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	link(e.st.synonyms, t, syn)
	e.log.Debugw("Added synonym", "tag", t, "synonym", syn)
	return nil
}

// RemoveSynonym deletes the tag → synonym alias.
func (e *Engine[I]) RemoveSynonym(tag, synonym string) error {
	t, syn, err := e.normalizePair(tag, synonym)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !unlink(e.st.synonyms, t, syn) {
		return errors.NewNotFoundf("no synonym %s -> %s", t, syn)
	}
	e.log.Debugw("Removed synonym", "tag", t, "synonym", syn)
	return nil
}

// Synonyms returns the direct synonyms of tag, sorted.
func (e *Engine[I]) Synonyms(tag string) []string {
	t := e.norm.Normalize(tag)

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.synonyms[t].sorted()
}

// Expand returns tag followed by its one-hop synonyms. Chains are not
// followed: if a → b and b → c, Expand(a) is [a b].
func (e *Engine[I]) Expand(tag string) []string {
	t := e.norm.Normalize(tag)
	if t == "" {
		return nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string{t}, e.st.synonyms[t].sorted()...)
}

func (s *state[I]) synonymEdges() []SynonymEdge {
	var out []SynonymEdge
	for _, tag := range sortedKeys(s.synonyms) {
		for _, syn := range s.synonyms[tag].sorted() {
			out = append(out, SynonymEdge{Tag: tag, Synonym: syn})
		}
	}
	return out
}
