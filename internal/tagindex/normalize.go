package tagindex

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pbaille/tagkb/internal/errors"
)

// DefaultMaxTagLength is the rune cap applied when none is configured.
const DefaultMaxTagLength = 50

// Normalizer maps raw tag input to canonical tags. The zero value folds case
// and does not cap length.
type Normalizer struct {
	CaseSensitive bool
	MaxLength     int
}

// Normalize canonicalizes a single tag. An empty result means "no tag".
func (n Normalizer) Normalize(raw string) string {
	tag := strings.TrimSpace(raw)
	if tag == "" {
		return ""
	}
	if !n.CaseSensitive {
		tag = strings.ToLower(tag)
	}
	if n.MaxLength > 0 && utf8.RuneCountInString(tag) > n.MaxLength {
		tag = strings.TrimRightFunc(string([]rune(tag)[:n.MaxLength]), unicode.IsSpace)
	}
	return tag
}

// NormalizeOne canonicalizes an argument that must name exactly one tag.
// Input holding a list delimiter, or nothing after normalization, is
// ErrInvalidInput.
func (n Normalizer) NormalizeOne(raw string) (string, error) {
	if strings.IndexFunc(raw, isDelimiter) >= 0 {
		return "", errors.WithHint(
			errors.NewInvalidInputf("%q names more than one tag", raw),
			"pass a single tag without ',' or ';'")
	}
	tag := n.Normalize(raw)
	if tag == "" {
		return "", errors.NewInvalidInputf("%q is empty after normalization", raw)
	}
	return tag, nil
}

// NormalizeList splits every element on ',' and ';', normalizes the pieces,
// drops empties and removes duplicates keeping first-seen order.
func (n Normalizer) NormalizeList(raw ...string) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, r := range raw {
		for _, piece := range strings.FieldsFunc(r, isDelimiter) {
			tag := n.Normalize(piece)
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

func isDelimiter(r rune) bool {
	return r == ',' || r == ';'
}
