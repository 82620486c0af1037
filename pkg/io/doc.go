// Package io reads application inventories and writes dependency graphs.
//
// # Overview
//
// An inventory lists the applications of a portfolio, their dependencies and
// optional planning parameters. It can be written as JSON, TOML or the CSV
// export of the legacy asset register. All three decode into an [Inventory],
// which [Inventory.Graph] turns into a validated [dag.Graph].
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"id": "INV002", "meta": {"name": "Inventory Master"}},
//	    {"id": "WMS001", "depends_on": ["INV002"]}
//	  ],
//	  "edges": [
//	    {"from": "INV002", "to": "POS003"}
//	  ],
//	  "plan": {"weeks_per_wave": 4, "concurrency": 5}
//	}
//
// Dependencies can be given in two ways, freely mixed:
//
//   - edges: explicit {"from": prerequisite, "to": dependent} pairs
//   - depends_on: per application, the IDs it depends on. An entry p of
//     application a becomes the edge p → a.
//
// # TOML Format
//
// The same document in TOML:
//
//	[plan]
//	weeks_per_wave = 4
//	concurrency = 5
//
//	[[nodes]]
//	id = "INV002"
//	meta = { name = "Inventory Master" }
//
//	[[nodes]]
//	id = "WMS001"
//	depends_on = ["INV002"]
//
// # CSV Format
//
// [ReadCSV] accepts the asset register export: a header row with at least an
// App_ID and a Dependencies column. Dependencies holds a comma separated list
// of application IDs; the placeholder "*ALL*" means the application depends
// on the whole platform and is not turned into edges. Every other column is
// kept as string metadata.
//
// # Import
//
// Use [Import] to load a file by extension, or the format specific readers:
//
//	inv, err := io.Import("portfolio.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g, err := inv.Graph()
//
// Errors are wrapped with the node or edge that caused them. Use errors.Is or
// errors.As to check for the underlying [dag] errors.
//
// # Export
//
// [WriteJSON] and [WriteTOML] write a graph back out in canonical form: nodes
// sorted by ID, every dependency as an explicit edge. Re-importing the result
// yields the same graph.
package io
