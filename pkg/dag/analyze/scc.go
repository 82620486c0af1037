package analyze

import (
	"slices"

	"github.com/matzehuels/waveplan/pkg/dag"
)

// StronglyConnected returns the strongly connected components of g. Each
// component is sorted, and components are ordered by their smallest ID.
// Single-node components are included; a component is cyclic exactly when it
// has more than one node, since self-dependencies are rejected by the graph.
func StronglyConnected(g *dag.Graph) [][]string {
	return tarjan(g.NodeIDs(), g.Successors)
}

// tarjan runs Tarjan's algorithm over nodes, following succ. Neighbours
// outside of nodes are ignored.
func tarjan(nodes []string, succ func(string) []string) [][]string {
	member := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		member[n] = true
	}

	var (
		index   int
		stack   []string
		onStack = make(map[string]bool, len(nodes))
		idx     = make(map[string]int, len(nodes))
		low     = make(map[string]int, len(nodes))
		out     [][]string
	)

	var connect func(v string)
	connect = func(v string) {
		idx[v] = index
		low[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range succ(v) {
			if !member[w] {
				continue
			}
			if _, seen := idx[w]; !seen {
				connect(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], idx[w])
			}
		}

		if low[v] == idx[v] {
			var scc []string
			for {
				n := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[n] = false
				scc = append(scc, n)
				if n == v {
					break
				}
			}
			slices.Sort(scc)
			out = append(out, scc)
		}
	}

	for _, n := range nodes {
		if _, seen := idx[n]; !seen {
			connect(n)
		}
	}

	slices.SortFunc(out, func(a, b []string) int { return compareIDs(a[0], b[0]) })
	return out
}

func compareIDs(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
