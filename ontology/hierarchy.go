package ontology

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
)

// Hierarchy is the induced is_a subgraph of a class graph: only is_a edges,
// and only classes touched by at least one of them. Edges remain directed
// child to parent. For well-formed ontologies it is a DAG.
type Hierarchy struct {
	g       *simple.DirectedGraph
	ids     map[string]int64
	classes map[int64]string
}

// HierarchySubgraph derives the pure is_a hierarchy from the full class
// graph. The receiver is not mutated; a graph with no is_a edges yields an
// empty hierarchy.
func (g *Graph) HierarchySubgraph() *Hierarchy {
	h := &Hierarchy{
		g:       simple.NewDirectedGraph(),
		ids:     make(map[string]int64),
		classes: make(map[int64]string),
	}

	nodes := g.g.Nodes()
	for nodes.Next() {
		u := nodes.Node()
		to := g.g.From(u.ID())
		for to.Next() {
			v := to.Node()
			lines := g.g.Lines(u.ID(), v.ID())
			for lines.Next() {
				rl, ok := lines.Line().(relationLine)
				if !ok || rl.relation != RelationIsA {
					continue
				}
				h.addEdge(g.classes[u.ID()], g.classes[v.ID()])
				break
			}
		}
	}
	return h
}

func (h *Hierarchy) node(class string) int64 {
	if id, ok := h.ids[class]; ok {
		return id
	}
	n := h.g.NewNode()
	h.g.AddNode(n)
	h.ids[class] = n.ID()
	h.classes[n.ID()] = class
	return n.ID()
}

func (h *Hierarchy) addEdge(child, parent string) {
	cid := h.node(child)
	pid := h.node(parent)
	if h.g.HasEdgeFromTo(cid, pid) {
		return
	}
	h.g.SetEdge(h.g.NewEdge(h.g.Node(cid), h.g.Node(pid)))
}

// Len returns the number of classes participating in is_a edges.
func (h *Hierarchy) Len() int {
	return len(h.ids)
}

// HasClass reports whether the class participates in the hierarchy.
func (h *Hierarchy) HasClass(class string) bool {
	_, ok := h.ids[class]
	return ok
}

// Parents returns the direct is_a parents of a class in lexicographic order.
// The result is nil when the class is absent or has no parents.
func (h *Hierarchy) Parents(class string) []string {
	id, ok := h.ids[class]
	if !ok {
		return nil
	}
	var out []string
	parents := h.g.From(id)
	for parents.Next() {
		out = append(out, h.classes[parents.Node().ID()])
	}
	sort.Strings(out)
	return out
}

// ClassIDs returns the hierarchy's class identifiers in lexicographic order.
func (h *Hierarchy) ClassIDs() []string {
	out := make([]string, 0, len(h.ids))
	for class := range h.ids {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}
