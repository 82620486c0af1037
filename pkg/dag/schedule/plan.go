package schedule

import (
	"fmt"
	"slices"

	"github.com/matzehuels/waveplan/pkg/dag"
)

// Wave is a set of applications that can be migrated concurrently.
type Wave struct {
	Index int      `json:"index"` // 1-based position in the plan
	Nodes []string `json:"nodes"` // sorted application IDs
}

// ForcedInclusion records an application placed into a wave although some of
// its prerequisites were still unscheduled.
type ForcedInclusion struct {
	// Node is the forced application.
	Node string `json:"node"`
	// Wave is the index of the wave the node was forced into.
	Wave int `json:"wave"`
	// Violated lists the prerequisite edges whose ordering the plan does not
	// honor. Each prerequisite is scheduled in a later wave than Node.
	Violated []dag.Edge `json:"violated"`
	// Cycles lists the dependency cycles through Node among the nodes still
	// unscheduled when it was forced. Empty when Node only sits downstream
	// of a cycle.
	Cycles [][]string `json:"cycles"`
}

// Plan is the result of [Schedule].
type Plan struct {
	Waves  []Wave            `json:"waves"`
	Forced []ForcedInclusion `json:"forced"`
}

// WaveOf returns the wave index of id, or 0 if id is not scheduled.
func (p *Plan) WaveOf(id string) int {
	for _, w := range p.Waves {
		if _, found := slices.BinarySearch(w.Nodes, id); found {
			return w.Index
		}
	}
	return 0
}

// Assignments returns the wave index of every scheduled node.
func (p *Plan) Assignments() map[string]int {
	m := make(map[string]int)
	for _, w := range p.Waves {
		for _, id := range w.Nodes {
			m[id] = w.Index
		}
	}
	return m
}

// IsForced reports whether e is one of the edges violated by a forced
// inclusion.
func (p *Plan) IsForced(e dag.Edge) bool {
	for _, f := range p.Forced {
		if slices.Contains(f.Violated, e) {
			return true
		}
	}
	return false
}

// NodeCount returns the number of scheduled nodes.
func (p *Plan) NodeCount() int {
	n := 0
	for _, w := range p.Waves {
		n += len(w.Nodes)
	}
	return n
}

// Verify checks the plan against g: every node appears in exactly one wave,
// wave indices run from 1 without gaps, and every edge not recorded as
// violated by a forced inclusion goes from an earlier to a later wave.
func (p *Plan) Verify(g *dag.Graph) error {
	seen := make(map[string]int, g.NodeCount())
	for i, w := range p.Waves {
		if w.Index != i+1 {
			return fmt.Errorf("wave %d has index %d", i+1, w.Index)
		}
		if len(w.Nodes) == 0 {
			return fmt.Errorf("wave %d is empty", w.Index)
		}
		for _, id := range w.Nodes {
			if !g.HasNode(id) {
				return fmt.Errorf("wave %d contains unknown node %q", w.Index, id)
			}
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("node %q scheduled in waves %d and %d", id, prev, w.Index)
			}
			seen[id] = w.Index
		}
	}
	if len(seen) != g.NodeCount() {
		return fmt.Errorf("%d of %d nodes scheduled", len(seen), g.NodeCount())
	}
	for _, e := range g.Edges() {
		if seen[e.From] < seen[e.To] || p.IsForced(e) {
			continue
		}
		return fmt.Errorf("edge %s: wave %d is not before wave %d", e, seen[e.From], seen[e.To])
	}
	return nil
}
