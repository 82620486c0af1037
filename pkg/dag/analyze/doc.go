// Package analyze provides read-only analyses over a dependency [dag.Graph].
//
// # Cycles
//
// [FindCycles] enumerates every simple cycle using Johnson's algorithm on top
// of Tarjan's strongly connected components ([StronglyConnected]). Each cycle
// is rotated to start at its lexicographically smallest application ID and
// the list is sorted, so reports and fixtures stay stable between runs:
//
//	cycles := analyze.FindCycles(g)
//	// [[MEMBER006 PAYMENT007] [PAYROLL019 TIMECLK020] ...]
//
// # Critical Path
//
// [LongestPath] returns the longest prerequisite chain, measured in
// applications. It is only defined on acyclic graphs and fails with a
// [*CyclicGraphError] otherwise; resolve the cycles first or let the wave
// scheduler break them.
//
// # Coupling
//
// [Coupling] counts prerequisites and dependents per application. Highly
// coupled applications are the ones whose migration blocks or is blocked by
// the most other work.
//
// None of the functions in this package modify the graph.
//
// [dag.Graph]: github.com/matzehuels/waveplan/pkg/dag.Graph
package analyze
