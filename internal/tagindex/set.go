package tagindex

import "sort"

type tagSet map[string]struct{}

func (s tagSet) has(tag string) bool {
	_, ok := s[tag]
	return ok
}

func (s tagSet) sorted() []string {
	out := make([]string, 0, len(s))
	for tag := range s {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// link adds v under k, creating the set on demand.
func link(m map[string]tagSet, k, v string) {
	s, ok := m[k]
	if !ok {
		s = make(tagSet)
		m[k] = s
	}
	s[v] = struct{}{}
}

// unlink removes v from k's set and drops the set once empty.
// It reports whether v was present.
func unlink(m map[string]tagSet, k, v string) bool {
	s, ok := m[k]
	if !ok || !s.has(v) {
		return false
	}
	delete(s, v)
	if len(s) == 0 {
		delete(m, k)
	}
	return true
}
