package analyze

import (
	"slices"

	"github.com/matzehuels/waveplan/pkg/dag"
)

// FindCycles returns every simple cycle of g.
//
// A cycle is reported as its node sequence without repeating the start, and
// always starts at its lexicographically smallest ID. The list is sorted
// element-wise, so for a fixed graph the output is identical on every call.
// A graph without cycles yields nil.
//
// # Algorithm
//
// FindCycles implements Johnson's algorithm. IDs are processed in ascending
// order; for each start node s, the search is confined to the strongly
// connected component containing s within the subgraph of nodes >= s. Every
// cycle found from s therefore has s as its smallest member, and each cycle is
// found exactly once.
//
// # Performance
//
// Time complexity is O((V + E)(C + 1)) where C is the number of cycles. The
// number of cycles can grow exponentially with dense cyclic subgraphs, which
// is acceptable for portfolios of tens of applications.
func FindCycles(g *dag.Graph) [][]string {
	ids := g.NodeIDs()
	var cycles [][]string

	for i, s := range ids {
		comp := componentOf(s, ids[i:], g.Successors)
		if len(comp) < 2 {
			continue
		}
		cycles = append(cycles, circuits(s, comp, g.Successors)...)
	}

	slices.SortFunc(cycles, slices.Compare[[]string])
	return cycles
}

// CyclesThrough returns the cycles of g that contain id, in FindCycles order.
func CyclesThrough(g *dag.Graph, id string) [][]string {
	var out [][]string
	for _, c := range FindCycles(g) {
		if slices.Contains(c, id) {
			out = append(out, c)
		}
	}
	return out
}

// IsAcyclic reports whether g has no cycles. It is cheaper than checking
// FindCycles for emptiness.
func IsAcyclic(g *dag.Graph) bool {
	for _, scc := range StronglyConnected(g) {
		if len(scc) > 1 {
			return false
		}
	}
	return true
}

// componentOf returns the members of the strongly connected component of s
// in the subgraph induced by nodes.
func componentOf(s string, nodes []string, succ func(string) []string) map[string]bool {
	for _, scc := range tarjan(nodes, succ) {
		if _, found := slices.BinarySearch(scc, s); found {
			comp := make(map[string]bool, len(scc))
			for _, n := range scc {
				comp[n] = true
			}
			return comp
		}
	}
	return nil
}

// circuits enumerates the elementary circuits through s inside comp.
func circuits(s string, comp map[string]bool, succ func(string) []string) [][]string {
	var (
		out     [][]string
		path    []string
		blocked = make(map[string]bool, len(comp))
		blockBy = make(map[string]map[string]bool, len(comp))
	)

	var unblock func(u string)
	unblock = func(u string) {
		blocked[u] = false
		for w := range blockBy[u] {
			delete(blockBy[u], w)
			if blocked[w] {
				unblock(w)
			}
		}
	}

	var circuit func(v string) bool
	circuit = func(v string) bool {
		found := false
		path = append(path, v)
		blocked[v] = true

		for _, w := range succ(v) {
			if !comp[w] {
				continue
			}
			if w == s {
				out = append(out, slices.Clone(path))
				found = true
			} else if !blocked[w] && circuit(w) {
				found = true
			}
		}

		if found {
			unblock(v)
		} else {
			for _, w := range succ(v) {
				if !comp[w] {
					continue
				}
				if blockBy[w] == nil {
					blockBy[w] = make(map[string]bool)
				}
				blockBy[w][v] = true
			}
		}

		path = path[:len(path)-1]
		return found
	}

	circuit(s)
	return out
}
