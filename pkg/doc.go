// Package pkg provides the core libraries for Waveplan migration planning.
//
// # Overview
//
// Waveplan takes an application inventory, where each application lists the
// systems it depends on, and answers three questions: which dependencies are
// circular, which chain of dependencies bounds the schedule, and in which
// waves the applications can be migrated so that nothing moves before its
// prerequisites.
//
// # Architecture
//
// The typical data flow:
//
//	Inventory (JSON, TOML, CSV)
//	         ↓
//	    [io] package (decode and validate)
//	         ↓
//	    [dag] package (dependency graph)
//	         ↓
//	    [dag/analyze] + [dag/schedule] (cycles, critical path, waves)
//	         ↓
//	    [report] / [render] (Markdown, JSON, DOT, SVG, PNG, PDF)
//
// [pipeline] wires these steps together and is what the CLI and the HTTP
// server call.
//
// # Quick Start
//
//	g, cfg, err := pipeline.Load("portfolio.toml")
//	if err != nil {
//	    return err
//	}
//	opts := pipeline.Options{}
//	opts.ApplyPlanConfig(cfg)
//	res, err := pipeline.NewRunner(logger).Run(ctx, g, opts)
//	if err != nil {
//	    return err
//	}
//	for _, w := range res.Plan.Waves {
//	    fmt.Println(w.Index, w.Nodes)
//	}
//
// # Main Packages
//
// [dag] - The dependency graph. Nodes are applications, an edge A → B means
// B depends on A. Construction rejects duplicates, self-loops and dangling
// edges.
//
// [dag/analyze] - Cycle enumeration, strongly connected components, the
// critical (longest) path, topological order and coupling metrics.
//
// [dag/schedule] - The wave scheduler. Cycles never stall it: when nothing
// is ready, one member of a cycle is forced into the current wave and the
// inclusion is recorded.
//
// [io] - Inventory formats and plan configuration.
//
// [pipeline] - End-to-end planning, rendering and option validation.
//
// [render] - Graphviz diagrams with one cluster per wave.
//
// [report] - Markdown and JSON reports.
//
// [cache] - Rendered diagram cache (file, memory, Redis).
//
// [errors] - Coded errors shared by the CLI and the HTTP server.
//
// [observability] - Hooks for planning and HTTP events.
//
// [dag]: github.com/matzehuels/waveplan/pkg/dag
// [dag/analyze]: github.com/matzehuels/waveplan/pkg/dag/analyze
// [dag/schedule]: github.com/matzehuels/waveplan/pkg/dag/schedule
// [io]: github.com/matzehuels/waveplan/pkg/io
// [pipeline]: github.com/matzehuels/waveplan/pkg/pipeline
// [render]: github.com/matzehuels/waveplan/pkg/render
// [report]: github.com/matzehuels/waveplan/pkg/report
// [cache]: github.com/matzehuels/waveplan/pkg/cache
// [errors]: github.com/matzehuels/waveplan/pkg/errors
// [observability]: github.com/matzehuels/waveplan/pkg/observability
package pkg
