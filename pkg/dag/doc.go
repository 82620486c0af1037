// Package dag models the dependencies between applications of a legacy
// portfolio as a directed graph.
//
// # Overview
//
// Every application is a [Node] identified by a short token such as "WMS001".
// Every dependency is an [Edge] from a prerequisite to its dependent: the
// prerequisite has to be migrated in an earlier wave than the dependent.
//
//	g, err := dag.Build(
//	    []dag.Node{{ID: "INV002"}, {ID: "WMS001"}},
//	    []dag.Edge{{From: "INV002", To: "WMS001"}}, // WMS001 depends on INV002
//	)
//
// # Validation
//
// [Build] rejects inventories that cannot describe a real portfolio: repeated
// IDs ([*DuplicateNodeError]), edges that point at applications missing from
// the inventory ([*UnknownNodeError]) and applications that depend on
// themselves ([*SelfDependencyError]). Duplicate edges are merged silently.
//
// Cycles are allowed. Independently owned systems frequently declare
// contradicting dependencies, so the graph stores what it was given and leaves
// acyclicity to the analyses in the [analyze] and [schedule] subpackages.
//
// # Determinism
//
// All listing methods return IDs and edges in lexicographic order, so every
// algorithm built on top of the graph produces the same output on every run.
//
// # Concurrency
//
// A graph is built by a single goroutine. Once built it is never modified by
// this module and may be read by any number of goroutines.
//
// [analyze]: github.com/matzehuels/waveplan/pkg/dag/analyze
// [schedule]: github.com/matzehuels/waveplan/pkg/dag/schedule
package dag
