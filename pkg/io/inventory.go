package io

import (
	"fmt"

	"github.com/matzehuels/waveplan/pkg/dag"
)

// Inventory is the decoded form of an inventory document.
type Inventory struct {
	Nodes []Application `json:"nodes" toml:"nodes"`
	Edges []Dependency  `json:"edges,omitempty" toml:"edges,omitempty"`
	Plan  PlanConfig    `json:"plan,omitzero" toml:"plan,omitempty"`
}

// Application is one entry of the inventory.
type Application struct {
	ID        string       `json:"id" toml:"id"`
	DependsOn []string     `json:"depends_on,omitempty" toml:"depends_on,omitempty"`
	Meta      dag.Metadata `json:"meta,omitempty" toml:"meta,omitempty"`
}

// Dependency is an explicit edge from a prerequisite to its dependent.
type Dependency struct {
	From string `json:"from" toml:"from"`
	To   string `json:"to" toml:"to"`
}

// PlanConfig holds planning parameters. Zero values mean "use the default".
type PlanConfig struct {
	WeeksPerWave int `json:"weeks_per_wave,omitempty" toml:"weeks_per_wave,omitempty"`
	Concurrency  int `json:"concurrency,omitempty" toml:"concurrency,omitempty"`
}

// Graph validates the inventory and builds its dependency graph. Applications
// are added first, then explicit edges, then depends_on entries.
func (inv *Inventory) Graph() (*dag.Graph, error) {
	g := dag.New()
	for _, a := range inv.Nodes {
		if err := g.AddNode(dag.Node{ID: a.ID, Meta: a.Meta}); err != nil {
			return nil, fmt.Errorf("node %q: %w", a.ID, err)
		}
	}
	for _, e := range inv.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	for _, a := range inv.Nodes {
		for _, p := range a.DependsOn {
			if err := g.AddEdge(dag.Edge{From: p, To: a.ID}); err != nil {
				return nil, fmt.Errorf("node %q depends_on %q: %w", a.ID, p, err)
			}
		}
	}
	return g, nil
}

// FromGraph builds the canonical inventory of g: applications sorted by ID
// and every dependency as an explicit edge.
func FromGraph(g *dag.Graph, plan PlanConfig) *Inventory {
	inv := &Inventory{
		Nodes: make([]Application, 0, g.NodeCount()),
		Edges: make([]Dependency, 0, g.EdgeCount()),
		Plan:  plan,
	}
	for _, n := range g.Nodes() {
		a := Application{ID: n.ID}
		if len(n.Meta) > 0 {
			a.Meta = n.Meta
		}
		inv.Nodes = append(inv.Nodes, a)
	}
	for _, e := range g.Edges() {
		inv.Edges = append(inv.Edges, Dependency{From: e.From, To: e.To})
	}
	return inv
}
