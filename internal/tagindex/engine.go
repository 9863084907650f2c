package tagindex

import (
	"sync"

	"go.uber.org/zap"
)

// AutoTagFunc is called for each tag newly added to an item when TagItem runs
// with WithAutoTag. The returned tags are normalized and added in the same
// mutation. It runs under the engine's write lock and must not call back into
// the engine.
type AutoTagFunc[I comparable] func(item I, tag string) []string

// Engine is the tag index. The zero value is not usable; construct with New.
type Engine[I comparable] struct {
	mu       sync.RWMutex
	st       *state[I]
	settings Settings
	norm     Normalizer
	autoTag  AutoTagFunc[I]
	log      *zap.SugaredLogger
}

// New creates an empty engine.
func New[I comparable](opts ...Option) *Engine[I] {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	log := settings.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine[I]{
		st:       newState[I](),
		settings: settings,
		norm:     Normalizer{CaseSensitive: settings.CaseSensitive, MaxLength: settings.MaxTagLength},
		log:      log,
	}
}

// Settings returns the settings the engine was built with.
func (e *Engine[I]) Settings() Settings {
	return e.settings
}

// Normalizer returns the normalizer applied at every entry point.
func (e *Engine[I]) Normalizer() Normalizer {
	return e.norm
}

// SetAutoTagger installs the auto-tag hook. Passing nil removes it.
func (e *Engine[I]) SetAutoTagger(fn AutoTagFunc[I]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.autoTag = fn
}

// Reset drops every item, edge, synonym, category and tag set.
func (e *Engine[I]) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.st = newState[I]()
	e.log.Debugw("Engine reset")
}

// itemMeta orders items for query output.
type itemMeta struct {
	first uint64
	last  uint64
}

// state is the whole data model. Every method assumes the caller holds the
// engine lock in the right mode.
type state[I comparable] struct {
	tagItems map[string]map[I]struct{}
	itemTags map[I]tagSet
	meta     map[I]itemMeta
	seq      uint64

	children map[string]tagSet
	parents  map[string]tagSet

	synonyms map[string]tagSet

	categories map[string]*category
	tagSets    map[string][]string
}

func newState[I comparable]() *state[I] {
	return &state[I]{
		tagItems:   make(map[string]map[I]struct{}),
		itemTags:   make(map[I]tagSet),
		meta:       make(map[I]itemMeta),
		children:   make(map[string]tagSet),
		parents:    make(map[string]tagSet),
		synonyms:   make(map[string]tagSet),
		categories: make(map[string]*category),
		tagSets:    make(map[string][]string),
	}
}

func (s *state[I]) nextSeq() uint64 {
	s.seq++
	return s.seq
}
