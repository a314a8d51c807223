// Package ontology models the ChEBI class graph: typed relationships between
// chemical classes, the induced is_a hierarchy, and a precomputed
// transitive-closure index for ancestor lookups.
package ontology

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
)

// Relation tags a typed edge between two ontology classes.
type Relation string

const (
	// RelationIsA marks a hierarchical edge, directed child to parent.
	RelationIsA Relation = "is_a"

	// RelationHasPart marks a compositional edge, directed whole to part.
	RelationHasPart Relation = "has_part"
)

// Relationship is a typed link from one term to another.
type Relationship struct {
	Type   Relation `json:"type"`
	Target string   `json:"target_id"`
}

// Term is a single parsed, flat ontology term record as produced by the
// OBO-parsing layer. Parents holds is_a targets; Relationships holds every
// other typed link.
type Term struct {
	ID            string         `json:"id"`
	Name          string         `json:"name,omitempty"`
	SMILES        string         `json:"smiles,omitempty"`
	Subset        string         `json:"subset,omitempty"`
	Parents       []string       `json:"parents,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
	Obsolete      bool           `json:"is_obsolete,omitempty"`
}

// NodeAttrs holds the per-class attributes carried by the graph.
type NodeAttrs struct {
	Name   string
	SMILES string
	Subset string
}

// relationLine is a typed parallel edge in the class multigraph.
type relationLine struct {
	multi.Line
	relation Relation
}

// Graph is a directed multigraph of ontology classes. Nodes are class
// identifiers with attributes; parallel edges carry a Relation tag each.
// Only is_a edges participate in hierarchy reasoning.
type Graph struct {
	g       *multi.DirectedGraph
	ids     map[string]int64
	classes map[int64]string
	attrs   map[int64]NodeAttrs
}

// NewGraph creates an empty class graph.
func NewGraph() *Graph {
	return &Graph{
		g:       multi.NewDirectedGraph(),
		ids:     make(map[string]int64),
		classes: make(map[int64]string),
		attrs:   make(map[int64]NodeAttrs),
	}
}

// BuildGraph constructs a class graph from flat term records. Obsolete terms
// are skipped entirely; classes referenced only as edge targets exist in the
// graph with empty attributes.
func BuildGraph(terms []Term) *Graph {
	g := NewGraph()
	for _, t := range terms {
		g.AddTerm(t)
	}
	return g
}

// AddTerm adds one term and its outgoing relationships to the graph.
// Obsolete terms are ignored.
func (g *Graph) AddTerm(t Term) {
	if t.Obsolete {
		return
	}
	n := g.node(t.ID)
	g.attrs[n.ID()] = NodeAttrs{Name: t.Name, SMILES: t.SMILES, Subset: t.Subset}

	for _, parent := range t.Parents {
		g.addRelation(t.ID, parent, RelationIsA)
	}
	for _, rel := range t.Relationships {
		g.addRelation(t.ID, rel.Target, rel.Type)
	}
}

// node interns the class identifier, creating the gonum node on first use.
func (g *Graph) node(class string) graph.Node {
	if id, ok := g.ids[class]; ok {
		return g.g.Node(id)
	}
	n := g.g.NewNode()
	g.g.AddNode(n)
	g.ids[class] = n.ID()
	g.classes[n.ID()] = class
	return n
}

func (g *Graph) addRelation(from, to string, rel Relation) {
	if from == to {
		// gonum rejects self loops; a term related to itself is malformed
		// input and carries no hierarchy information anyway.
		return
	}
	f := g.node(from)
	t := g.node(to)
	l := g.g.NewLine(f, t).(multi.Line)
	g.g.SetLine(relationLine{Line: l, relation: rel})
}

// Len returns the number of classes in the graph.
func (g *Graph) Len() int {
	return len(g.ids)
}

// HasClass reports whether the class identifier exists in the graph.
func (g *Graph) HasClass(class string) bool {
	_, ok := g.ids[class]
	return ok
}

// Class returns the attributes recorded for a class identifier.
func (g *Graph) Class(class string) (NodeAttrs, bool) {
	id, ok := g.ids[class]
	if !ok {
		return NodeAttrs{}, false
	}
	return g.attrs[id], true
}

// ClassIDs returns all class identifiers in lexicographic order.
func (g *Graph) ClassIDs() []string {
	out := make([]string, 0, len(g.ids))
	for class := range g.ids {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}

// Relations returns the relation tags of every edge from one class to
// another, in no particular order. The result is nil when no edge exists.
func (g *Graph) Relations(from, to string) []Relation {
	fid, ok := g.ids[from]
	if !ok {
		return nil
	}
	tid, ok := g.ids[to]
	if !ok {
		return nil
	}
	var out []Relation
	lines := g.g.Lines(fid, tid)
	for lines.Next() {
		if rl, ok := lines.Line().(relationLine); ok {
			out = append(out, rl.relation)
		}
	}
	return out
}
