// Package nodelink renders dependency graphs and migration plans as
// node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// applications appear as boxes and dependencies as arrows pointing from a
// prerequisite to its dependent. The layout runs left to right, so earlier
// waves sit to the left of later ones.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Plan: plan, CriticalPath: path})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Plan: groups applications into one labeled cluster per wave, and draws
//     edges violated by forced inclusions dashed red
//   - CriticalPath: draws the edges along the path bold
//   - Detailed: node labels include all metadata
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// Output is deterministic: nodes, clusters and edges are emitted in sorted
// order.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
