package analyze

import (
	"slices"

	"github.com/matzehuels/waveplan/pkg/dag"
)

// TopologicalOrder returns a migration order in which every prerequisite
// precedes its dependents. Among the applications that are ready at any
// point, the smallest ID goes first, so the order is deterministic.
//
// TopologicalOrder uses Kahn's algorithm and returns a [*CyclicGraphError]
// listing every cycle when the graph is not acyclic.
func TopologicalOrder(g *dag.Graph) ([]string, error) {
	ids := g.NodeIDs()
	inDegree := make(map[string]int, len(ids))
	var ready []string

	for _, id := range ids {
		inDegree[id] = g.InDegree(id)
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(ids))
	for len(ready) > 0 {
		curr := ready[0]
		ready = ready[1:]
		order = append(order, curr)

		for _, next := range g.Successors(curr) {
			inDegree[next]--
			if inDegree[next] == 0 {
				i, _ := slices.BinarySearch(ready, next)
				ready = slices.Insert(ready, i, next)
			}
		}
	}

	if len(order) != len(ids) {
		return nil, &CyclicGraphError{Cycles: FindCycles(g)}
	}
	return order, nil
}

// LongestPath returns the critical path of g: the longest chain of
// prerequisite relationships, measured in applications. It bounds the number
// of strictly sequential migration steps.
//
// Nodes are processed in topological order while recording, for each node,
// the length of the longest chain ending there and the predecessor achieving
// it. Ties are broken towards the smallest ID, both when choosing a
// predecessor and when choosing the node the path ends at.
//
// A graph without edges yields its smallest node. An empty graph yields a nil
// path. A cyclic graph yields a [*CyclicGraphError].
func LongestPath(g *dag.Graph) ([]string, error) {
	order, err := TopologicalOrder(g)
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, nil
	}

	dist := make(map[string]int, len(order))
	prev := make(map[string]string, len(order))
	for _, id := range order {
		dist[id] = 1
	}

	for _, v := range order {
		for _, w := range g.Successors(v) {
			switch d := dist[v] + 1; {
			case d > dist[w]:
				dist[w] = d
				prev[w] = v
			case d == dist[w] && v < prev[w]:
				prev[w] = v
			}
		}
	}

	end := ""
	for _, id := range g.NodeIDs() {
		if end == "" || dist[id] > dist[end] {
			end = id
		}
	}

	path := make([]string, 0, dist[end])
	for id := end; id != ""; id = prev[id] {
		path = append(path, id)
	}
	slices.Reverse(path)
	return path, nil
}
