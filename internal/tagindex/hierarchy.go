package tagindex

import (
	"github.com/pbaille/tagkb/internal/errors"
)

// Edge is a child → parent hierarchy relation.
type Edge struct {
	Child  string `json:"child"`
	Parent string `json:"parent"`
}

// AddEdge makes child a narrower tag of parent. It fails with
// ErrSelfReference when both normalize to the same tag and with
// ErrCycleDetected when child is already an ancestor of parent. Adding an
// existing edge succeeds without change.
func (e *Engine[I]) AddEdge(child, parent string) error {
	c, p, err := e.normalizePair(child, parent)
	if err != nil {
		return err
	}
	if !e.settings.EnableHierarchy {
		return errors.WithHint(
			errors.NewInvalidInputf("hierarchy support is disabled"),
			"enable the hierarchy in the engine settings")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	added, err := e.st.addEdge(c, p)
	if err != nil {
		return err
	}
	if added {
		e.log.Debugw("Added hierarchy edge", "child", c, "parent", p)
	}
	return nil
}

// RemoveEdge deletes the child → parent edge.
func (e *Engine[I]) RemoveEdge(child, parent string) error {
	c, p, err := e.normalizePair(child, parent)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.st.removeEdge(c, p) {
		return errors.NewNotFoundf("no hierarchy edge %s -> %s", c, p)
	}
	e.log.Debugw("Removed hierarchy edge", "child", c, "parent", p)
	return nil
}

// Parents returns the direct parents of tag, sorted.
func (e *Engine[I]) Parents(tag string) []string {
	t := e.norm.Normalize(tag)

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.parents[t].sorted()
}

// Children returns the direct children of tag, sorted.
func (e *Engine[I]) Children(tag string) []string {
	t := e.norm.Normalize(tag)

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.children[t].sorted()
}

// Ancestors returns every transitive parent of tag, sorted.
func (e *Engine[I]) Ancestors(tag string) []string {
	t := e.norm.Normalize(tag)

	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(tagSet)
	e.st.collectAncestors(t, out)
	return out.sorted()
}

// Descendants returns every transitive child of tag, sorted.
func (e *Engine[I]) Descendants(tag string) []string {
	t := e.norm.Normalize(tag)

	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(tagSet)
	e.st.collectDescendants(t, out)
	return out.sorted()
}

// Edges returns every hierarchy edge ordered by parent, then child.
func (e *Engine[I]) Edges() []Edge {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.edges()
}

// Roots returns the tags that have children but no parents, sorted.
func (e *Engine[I]) Roots() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	roots := make(tagSet)
	for tag := range e.st.children {
		if _, ok := e.st.parents[tag]; !ok {
			roots[tag] = struct{}{}
		}
	}
	return roots.sorted()
}

func (e *Engine[I]) normalizePair(a, b string) (string, string, error) {
	na, err := e.norm.NormalizeOne(a)
	if err != nil {
		return "", "", err
	}
	nb, err := e.norm.NormalizeOne(b)
	if err != nil {
		return "", "", err
	}
	return na, nb, nil
}

// addEdge inserts child → parent. It reports false for an edge that already
// exists.
func (s *state[I]) addEdge(child, parent string) (bool, error) {
	if child == parent {
		return false, errors.Wrapf(errors.ErrSelfReference, "tag %q cannot be its own parent", child)
	}
	if s.parents[child].has(parent) {
		return false, nil
	}

	// Walking up from the parent is usually cheaper than walking down from
	// the child: tags have few parents and many children.
	ancestors := make(tagSet)
	s.collectAncestors(parent, ancestors)
	if ancestors.has(child) {
		return false, errors.WithHint(
			errors.Wrapf(errors.ErrCycleDetected, "%s -> %s", child, parent),
			child+" is already an ancestor of "+parent)
	}

	link(s.children, parent, child)
	link(s.parents, child, parent)
	return true, nil
}

// addEdges links every child under every parent, undoing the edges it
// inserted if any of them is rejected.
func (s *state[I]) addEdges(children, parents []string) error {
	var inserted []Edge
	for _, p := range parents {
		for _, c := range children {
			// A tag listed as its own parent is tagged but not linked.
			if c == p {
				continue
			}
			added, err := s.addEdge(c, p)
			if err != nil {
				for _, edge := range inserted {
					s.removeEdge(edge.Child, edge.Parent)
				}
				return err
			}
			if added {
				inserted = append(inserted, Edge{Child: c, Parent: p})
			}
		}
	}
	return nil
}

func (s *state[I]) removeEdge(child, parent string) bool {
	if !unlink(s.parents, child, parent) {
		return false
	}
	unlink(s.children, parent, child)
	return true
}

// collectAncestors adds every tag reachable through parent edges to out.
// out doubles as the visited set, so the walk terminates on any graph.
func (s *state[I]) collectAncestors(tag string, out tagSet) {
	s.walk(s.parents, tag, out)
}

// collectDescendants adds every tag reachable through child edges to out.
func (s *state[I]) collectDescendants(tag string, out tagSet) {
	s.walk(s.children, tag, out)
}

func (s *state[I]) walk(edges map[string]tagSet, start string, out tagSet) {
	stack := []string{start}
	for len(stack) > 0 {
		tag := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for next := range edges[tag] {
			if out.has(next) {
				continue
			}
			out[next] = struct{}{}
			stack = append(stack, next)
		}
	}
}

func (s *state[I]) edges() []Edge {
	var out []Edge
	for _, parent := range sortedKeys(s.children) {
		for _, child := range s.children[parent].sorted() {
			out = append(out, Edge{Child: child, Parent: parent})
		}
	}
	return out
}

// depth is the longest parent chain above tag. path holds the tags on the
// current chain so a cycle ends the walk instead of looping.
func (s *state[I]) depth(tag string, path tagSet) int {
	parents := s.parents[tag]
	if len(parents) == 0 || path.has(tag) {
		return 0
	}
	path[tag] = struct{}{}
	defer delete(path, tag)

	best := 0
	for parent := range parents {
		if d := s.depth(parent, path) + 1; d > best {
			best = d
		}
	}
	return best
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make(tagSet, len(m))
	for k := range m {
		keys[k] = struct{}{}
	}
	return keys.sorted()
}
