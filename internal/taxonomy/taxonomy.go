// Package taxonomy reads and writes tag vocabularies as YAML.
//
// A taxonomy file seeds the parts of a tag index that do not involve items:
//
//	categories:
//	  - name: language
//	    description: Programming languages
//	    tags: [go, javascript]
//	hierarchy:
//	  programming: [go, javascript]
//	synonyms:
//	  javascript: [js, ecmascript]
//	symmetric: false
//	tag_sets:
//	  web: [javascript, html, css]
package taxonomy

import (
	"bytes"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/pbaille/tagkb/internal/errors"
	"github.com/pbaille/tagkb/internal/tagindex"
)

// Taxonomy is the decoded form of a taxonomy file.
type Taxonomy struct {
	Categories []Category          `yaml:"categories,omitempty"`
	Hierarchy  map[string][]string `yaml:"hierarchy,omitempty"`
	Synonyms   map[string][]string `yaml:"synonyms,omitempty"`
	// Symmetric also registers every alias with the tag as its synonym.
	Symmetric bool                `yaml:"symmetric,omitempty"`
	TagSets   map[string][]string `yaml:"tag_sets,omitempty"`
}

// Category is one category entry.
type Category struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

// Load reads a taxonomy file from disk.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read taxonomy")
	}
	t, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return t, nil
}

// Parse decodes a taxonomy document. Unknown keys are rejected so typos do
// not pass silently; an empty document is an empty taxonomy.
func Parse(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidInput, "decode taxonomy: %v", err),
			"expected keys: categories, hierarchy, synonyms, symmetric, tag_sets")
	}
	return &t, nil
}

// Marshal encodes t as YAML.
func (t *Taxonomy) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, errors.Wrap(err, "encode taxonomy")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode taxonomy")
	}
	return buf.Bytes(), nil
}

// FromSnapshot extracts the item-independent part of a snapshot.
func FromSnapshot[I comparable](snap tagindex.Snapshot[I]) *Taxonomy {
	t := &Taxonomy{}
	for _, c := range snap.Categories {
		t.Categories = append(t.Categories, Category{
			Name:        c.Name,
			Description: c.Description,
			Tags:        c.Tags,
		})
	}
	for _, e := range snap.Edges {
		if t.Hierarchy == nil {
			t.Hierarchy = make(map[string][]string)
		}
		t.Hierarchy[e.Parent] = append(t.Hierarchy[e.Parent], e.Child)
	}
	for _, s := range snap.Synonyms {
		if t.Synonyms == nil {
			t.Synonyms = make(map[string][]string)
		}
		t.Synonyms[s.Tag] = append(t.Synonyms[s.Tag], s.Synonym)
	}
	for _, set := range snap.TagSets {
		if t.TagSets == nil {
			t.TagSets = make(map[string][]string)
		}
		t.TagSets[set.Name] = set.Tags
	}
	return t
}

// Target receives a taxonomy. *tagindex.Engine satisfies it for any item type.
type Target interface {
	AddCategory(name, description string) (string, error)
	AddTagToCategory(tag, category string) error
	AddEdge(child, parent string) error
	AddSynonym(tag, synonym string) error
	SaveTagSet(name string, tags []string) ([]string, error)
}

// ApplyReport counts what an Apply call registered. Rejected entries do not
// stop the import; their errors are collected in Errors.
type ApplyReport struct {
	Categories   int
	CategoryTags int
	Edges        int
	Synonyms     int
	TagSets      int
	Errors       []error
}

// OK reports whether every entry was accepted.
func (r *ApplyReport) OK() bool {
	return len(r.Errors) == 0
}

func (r *ApplyReport) fail(err error, format string, args ...interface{}) {
	r.Errors = append(r.Errors, errors.Wrapf(err, format, args...))
}

// Apply registers the taxonomy with target. Map sections are applied in key
// order so repeated imports behave the same way.
func (t *Taxonomy) Apply(target Target) *ApplyReport {
	r := &ApplyReport{}

	for _, c := range t.Categories {
		name, err := target.AddCategory(c.Name, c.Description)
		if err != nil {
			r.fail(err, "category %q", c.Name)
			continue
		}
		r.Categories++
		for _, tag := range c.Tags {
			if err := target.AddTagToCategory(tag, name); err != nil {
				r.fail(err, "category %q tag %q", name, tag)
				continue
			}
			r.CategoryTags++
		}
	}

	for _, parent := range slices.Sorted(maps.Keys(t.Hierarchy)) {
		for _, child := range t.Hierarchy[parent] {
			if err := target.AddEdge(child, parent); err != nil {
				r.fail(err, "edge %q -> %q", child, parent)
				continue
			}
			r.Edges++
		}
	}

	for _, tag := range slices.Sorted(maps.Keys(t.Synonyms)) {
		for _, alias := range t.Synonyms[tag] {
			if err := target.AddSynonym(tag, alias); err != nil {
				r.fail(err, "synonym %q of %q", alias, tag)
				continue
			}
			r.Synonyms++
			if !t.Symmetric {
				continue
			}
			if err := target.AddSynonym(alias, tag); err != nil {
				r.fail(err, "synonym %q of %q", tag, alias)
				continue
			}
			r.Synonyms++
		}
	}

	for _, name := range slices.Sorted(maps.Keys(t.TagSets)) {
		if _, err := target.SaveTagSet(name, t.TagSets[name]); err != nil {
			r.fail(err, "tag set %q", name)
			continue
		}
		r.TagSets++
	}

	return r
}
