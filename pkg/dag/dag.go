package dag

import (
	"fmt"
	"maps"
	"slices"
)

// Metadata stores arbitrary key-value pairs attached to a node. The graph never
// interprets it: owners, criticality flags or cost figures pass through untouched.
// Metadata maps are never nil once a node is part of a graph.
type Metadata map[string]any

// Node is an application in the portfolio.
type Node struct {
	ID   string   // Unique identifier, e.g. "WMS001"
	Meta Metadata // Opaque attribute bag (never nil after AddNode)
}

// Edge is a dependency between two applications. From is the prerequisite and
// To the dependent: From must be migrated in a strictly earlier wave than To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// String formats the edge as "from->to".
func (e Edge) String() string { return fmt.Sprintf("%s->%s", e.From, e.To) }

// Graph is a directed dependency graph. Unlike its name suggests it may contain
// cycles: acyclicity is a property checked by the analyses that need it.
//
// The zero value is not usable - use [New] or [Build]. A Graph is mutated only
// through AddNode and AddEdge while it is being built; once handed to analyses
// it is read-only and safe to share between goroutines.
type Graph struct {
	nodes    map[string]*Node
	edges    map[Edge]struct{}
	outgoing map[string][]string // prerequisite -> dependents (sorted)
	incoming map[string][]string // dependent -> prerequisites (sorted)
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edges:    make(map[Edge]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// Build constructs a graph from an inventory and a list of dependency edges.
// Nodes are added first, so edge order never matters. Building stops at the
// first invalid node or edge:
//
//   - an empty ID yields [ErrInvalidNodeID]
//   - a repeated ID yields a [*DuplicateNodeError]
//   - an edge with an unknown endpoint yields an [*UnknownNodeError]
//   - an edge (a, a) yields a [*SelfDependencyError]
//
// Submitting the same edge more than once is not an error.
func Build(nodes []Node, edges []Edge) (*Graph, error) {
	g := New()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// BuildIDs is [Build] for callers that only have identifiers and
// (prerequisite, dependent) pairs.
func BuildIDs(ids []string, pairs [][2]string) (*Graph, error) {
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = Node{ID: id}
	}
	edges := make([]Edge, len(pairs))
	for i, p := range pairs {
		edges[i] = Edge{From: p[0], To: p[1]}
	}
	return Build(nodes, edges)
}

// AddNode adds a node. Returns ErrInvalidNodeID for an empty ID or a
// *DuplicateNodeError if the ID is taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return &DuplicateNodeError{ID: n.ID}
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	g.nodes[n.ID] = &n
	return nil
}

// AddEdge adds a dependency edge between two existing nodes. Adding an edge
// that already exists is a no-op.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return &UnknownNodeError{ID: e.From, Edge: e}
	}
	if _, ok := g.nodes[e.To]; !ok {
		return &UnknownNodeError{ID: e.To, Edge: e}
	}
	if e.From == e.To {
		return &SelfDependencyError{Edge: e}
	}
	if _, dup := g.edges[e]; dup {
		return nil
	}
	g.edges[e] = struct{}{}
	g.outgoing[e.From] = insertSorted(g.outgoing[e.From], e.To)
	g.incoming[e.To] = insertSorted(g.incoming[e.To], e.From)
	return nil
}

func insertSorted(s []string, v string) []string {
	i, _ := slices.BinarySearch(s, v)
	return slices.Insert(s, i, v)
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether id is part of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether the edge from→to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[Edge{From: from, To: to}]
	return ok
}

// NodeIDs returns all node IDs in ascending order.
func (g *Graph) NodeIDs() []string {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Nodes returns all nodes ordered by ID.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, id := range g.NodeIDs() {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns all edges ordered by prerequisite, then dependent.
func (g *Graph) Edges() []Edge {
	edges := slices.Collect(maps.Keys(g.edges))
	slices.SortFunc(edges, CompareEdges)
	return edges
}

// CompareEdges orders edges by From, then To.
func CompareEdges(a, b Edge) int {
	if a.From != b.From {
		if a.From < b.From {
			return -1
		}
		return 1
	}
	switch {
	case a.To < b.To:
		return -1
	case a.To > b.To:
		return 1
	}
	return 0
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Predecessors returns the prerequisites of id in ascending order: every p
// with an edge (p, id). The slice is a copy and may be modified.
func (g *Graph) Predecessors(id string) []string { return slices.Clone(g.incoming[id]) }

// Successors returns the dependents of id in ascending order: every d with
// an edge (id, d). The slice is a copy and may be modified.
func (g *Graph) Successors(id string) []string { return slices.Clone(g.outgoing[id]) }

// InDegree returns the number of prerequisites of id.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// OutDegree returns the number of dependents of id.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// Sources returns the IDs of nodes without prerequisites, ascending.
func (g *Graph) Sources() []string {
	var ids []string
	for _, id := range g.NodeIDs() {
		if len(g.incoming[id]) == 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// Sinks returns the IDs of nodes without dependents, ascending.
func (g *Graph) Sinks() []string {
	var ids []string
	for _, id := range g.NodeIDs() {
		if len(g.outgoing[id]) == 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// Subgraph returns the subgraph induced by ids: those nodes (sharing their
// metadata) and every edge between two of them. Unknown IDs are ignored.
func (g *Graph) Subgraph(ids []string) *Graph {
	sub := New()
	for _, id := range ids {
		if n, ok := g.nodes[id]; ok && !sub.HasNode(id) {
			sub.nodes[id] = n
		}
	}
	for e := range g.edges {
		if sub.HasNode(e.From) && sub.HasNode(e.To) {
			_ = sub.AddEdge(e)
		}
	}
	return sub
}
