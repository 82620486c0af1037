package schedule

import (
	"maps"
	"slices"

	"github.com/matzehuels/waveplan/pkg/dag"
	"github.com/matzehuels/waveplan/pkg/dag/analyze"
)

// Schedule partitions every node of g into the minimum number of sequential
// waves such that each prerequisite lands in an earlier wave than its
// dependents.
//
// # Algorithm
//
// Schedule repeatedly opens a wave and fills it with every unscheduled node
// whose prerequisites are all in already closed waves. When no node qualifies
// while nodes remain, the unscheduled part of the graph is cyclic and one node
// is forced into the wave:
//
//  1. Every unscheduled node is a candidate. The one with the fewest
//     unscheduled prerequisites wins, the smallest ID breaking ties.
//  2. The node joins the current wave and a [ForcedInclusion] records the
//     prerequisite edges it violates and the cycles through it, if any.
//
// Readiness is then re-evaluated before the wave is closed. Because readiness
// only counts closed waves, the forced node never pulls its own dependents
// into the same wave.
//
// # Guarantees
//
// Every node appears in exactly one wave, indices are contiguous from 1, and
// every edge that is not listed in Plan.Forced goes from an earlier to a later
// wave. For an acyclic graph Plan.Forced is empty. The result is a pure
// function of g.
//
// Schedule returns a [*SchedulerInvariantError] only if the number of waves
// would exceed the number of nodes or the finished plan fails [Plan.Verify],
// which indicates a bug rather than bad input. Cyclic graphs are not an error.
func Schedule(g *dag.Graph) (*Plan, error) {
	plan := &Plan{Waves: []Wave{}, Forced: []ForcedInclusion{}}

	remaining := make(map[string]bool, g.NodeCount())
	for _, id := range g.NodeIDs() {
		remaining[id] = true
	}
	waveOf := make(map[string]int, g.NodeCount())
	limit := g.NodeCount()

	for len(remaining) > 0 {
		if len(plan.Waves) >= limit {
			return nil, &SchedulerInvariantError{
				Reason:    "wave count exceeds node count",
				Waves:     len(plan.Waves),
				Remaining: slices.Sorted(maps.Keys(remaining)),
			}
		}
		index := len(plan.Waves) + 1

		members := ready(g, remaining, waveOf, index)
		if len(members) == 0 {
			f, ok := force(g, remaining, index)
			if !ok {
				return nil, &SchedulerInvariantError{
					Reason:    "no ready node and nothing to force",
					Waves:     len(plan.Waves),
					Remaining: slices.Sorted(maps.Keys(remaining)),
				}
			}
			plan.Forced = append(plan.Forced, f)
			waveOf[f.Node] = index
			delete(remaining, f.Node)
			members = append(ready(g, remaining, waveOf, index), f.Node)
		}

		for _, id := range members {
			waveOf[id] = index
			delete(remaining, id)
		}
		slices.Sort(members)
		plan.Waves = append(plan.Waves, Wave{Index: index, Nodes: members})
	}

	if err := checkPlan(plan, g); err != nil {
		return nil, err
	}
	return plan, nil
}

// checkPlan verifies a finished plan, reporting a failure as a
// [*SchedulerInvariantError].
func checkPlan(p *Plan, g *dag.Graph) error {
	if err := p.Verify(g); err != nil {
		return &SchedulerInvariantError{Reason: err.Error(), Waves: len(p.Waves)}
	}
	return nil
}

// ready returns the unscheduled nodes whose prerequisites all sit in waves
// before index, in ascending order.
func ready(g *dag.Graph, remaining map[string]bool, waveOf map[string]int, index int) []string {
	var ids []string
	for _, id := range g.NodeIDs() {
		if !remaining[id] {
			continue
		}
		ok := true
		for _, p := range g.Predecessors(id) {
			if w, placed := waveOf[p]; !placed || w >= index {
				ok = false
				break
			}
		}
		if ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// force picks the unscheduled node with the fewest unscheduled
// prerequisites, the smallest ID breaking ties, and describes the violation.
// It reports false only when nothing remains.
func force(g *dag.Graph, remaining map[string]bool, index int) (ForcedInclusion, bool) {
	sub := g.Subgraph(slices.Sorted(maps.Keys(remaining)))

	var (
		best      string
		bestCount int
	)
	for _, id := range sub.NodeIDs() {
		count := sub.InDegree(id)
		if best == "" || count < bestCount {
			best, bestCount = id, count
		}
	}
	if best == "" {
		return ForcedInclusion{}, false
	}

	violated := make([]dag.Edge, 0, bestCount)
	for _, p := range sub.Predecessors(best) {
		violated = append(violated, dag.Edge{From: p, To: best})
	}
	cycles := analyze.CyclesThrough(sub, best)
	if cycles == nil {
		cycles = [][]string{}
	}
	return ForcedInclusion{
		Node:     best,
		Wave:     index,
		Violated: violated,
		Cycles:   cycles,
	}, true
}
