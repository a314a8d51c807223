package ontology

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/topo"
)

// ErrCycle is returned by BuildClosure when the is_a hierarchy is not a DAG.
var ErrCycle = errors.New("is_a hierarchy contains a cycle")

// Closure is the precomputed reflexive-safe transitive-closure index of an
// is_a hierarchy: for every class in the hierarchy, the complete set of its
// transitive ancestors. A class is never a member of its own ancestor set;
// callers that need reflexive semantics use AncestorsOrSelf.
//
// The index is immutable after construction, so concurrent readers need no
// locking.
type Closure struct {
	ancestors map[string][]string
}

// BuildClosure computes the ancestor index in a single pass over the
// hierarchy in reverse topological order, so that every subsequent ancestor
// lookup is O(1). Cyclic hierarchies are rejected with an error wrapping
// ErrCycle rather than producing an undefined result.
func BuildClosure(h *Hierarchy) (*Closure, error) {
	order, err := topo.Sort(h.g)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycle, err)
	}

	// Edges point child to parent, so reverse topological order visits
	// every parent before any of its children.
	anc := make(map[int64]map[int64]struct{}, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i].ID()
		set := make(map[int64]struct{})
		parents := h.g.From(id)
		for parents.Next() {
			pid := parents.Node().ID()
			set[pid] = struct{}{}
			for a := range anc[pid] {
				set[a] = struct{}{}
			}
		}
		anc[id] = set
	}

	c := &Closure{ancestors: make(map[string][]string, len(anc))}
	for id, set := range anc {
		out := make([]string, 0, len(set))
		for a := range set {
			out = append(out, h.classes[a])
		}
		sort.Strings(out)
		c.ancestors[h.classes[id]] = out
	}
	return c, nil
}

// Len returns the number of classes indexed.
func (c *Closure) Len() int {
	return len(c.ancestors)
}

// Contains reports whether the class participates in the hierarchy.
func (c *Closure) Contains(class string) bool {
	_, ok := c.ancestors[class]
	return ok
}

// Ancestors returns every transitive is_a ancestor of a class in
// lexicographic order, excluding the class itself. The result is nil when
// the class is absent from the hierarchy and must not be modified.
func (c *Closure) Ancestors(class string) []string {
	return c.ancestors[class]
}

// AncestorsOrSelf returns the class's ancestor set together with the class
// itself. A class absent from the hierarchy degrades to just itself rather
// than failing.
func (c *Closure) AncestorsOrSelf(class string) []string {
	anc, ok := c.ancestors[class]
	if !ok {
		return []string{class}
	}
	out := make([]string, 0, len(anc)+1)
	out = append(out, anc...)
	out = append(out, class)
	return out
}
