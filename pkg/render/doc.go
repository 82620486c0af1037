// Package render turns migration plans into pictures.
//
// # Overview
//
// The [nodelink] subpackage draws the dependency graph with Graphviz, one
// cluster per wave. This package holds the format conversion shared by all
// renderers.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Plan: plan})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/waveplan/pkg/render/nodelink
package render
