package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/waveplan/pkg/dag"
	"github.com/matzehuels/waveplan/pkg/dag/schedule"
	"github.com/matzehuels/waveplan/pkg/render"
)

// Colors used for highlighted elements.
const (
	CriticalColor = "#1f4e79"
	ForcedColor   = "#c0392b"
	ForcedFill    = "#fde2e2"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Plan groups nodes into one cluster per wave. Nil draws the plain graph.
	Plan *schedule.Plan

	// CriticalPath highlights consecutive edges of the path.
	CriticalPath []string

	// Detailed includes metadata in node labels.
	// When false, only the node ID is shown.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Nodes forced into a wave are filled light red. Edges a forced inclusion
// violated are dashed red and excluded from ranking, so the layout still
// reads left to right.
func ToDOT(g *dag.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph waveplan {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	forced := forcedNodes(opts.Plan)
	writeNode := func(indent string, n *dag.Node) {
		attrs := fmtAttrs(fmtLabel(*n, opts.Detailed), forced[n.ID])
		fmt.Fprintf(&buf, "%s%q [%s];\n", indent, n.ID, strings.Join(attrs, ", "))
	}

	if opts.Plan != nil {
		placed := make(map[string]bool, g.NodeCount())
		for _, w := range opts.Plan.Waves {
			fmt.Fprintf(&buf, "  subgraph cluster_wave_%d {\n", w.Index)
			fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("Wave %d", w.Index))
			buf.WriteString("    style=\"rounded,dashed\";\n")
			buf.WriteString("    color=grey;\n")
			for _, id := range w.Nodes {
				if n, ok := g.Node(id); ok {
					writeNode("    ", n)
					placed[id] = true
				}
			}
			buf.WriteString("  }\n")
		}
		for _, n := range g.Nodes() {
			if !placed[n.ID] {
				writeNode("  ", n)
			}
		}
	} else {
		for _, n := range g.Nodes() {
			writeNode("  ", n)
		}
	}

	critical := pathEdges(opts.CriticalPath)
	buf.WriteString("\n")
	for _, e := range g.Edges() {
		var attrs []string
		switch {
		case opts.Plan != nil && opts.Plan.IsForced(e):
			attrs = []string{"style=dashed", fmt.Sprintf("color=%q", ForcedColor), "constraint=false"}
		case critical[e]:
			attrs = []string{"style=bold", fmt.Sprintf("color=%q", CriticalColor), "penwidth=2"}
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func forcedNodes(p *schedule.Plan) map[string]bool {
	m := make(map[string]bool)
	if p == nil {
		return m
	}
	for _, f := range p.Forced {
		m[f.Node] = true
	}
	return m
}

func pathEdges(path []string) map[dag.Edge]bool {
	m := make(map[dag.Edge]bool, len(path))
	for i := 1; i < len(path); i++ {
		m[dag.Edge{From: path[i-1], To: path[i]}] = true
	}
	return m
}

func fmtLabel(n dag.Node, detailed bool) string {
	if !detailed || len(n.Meta) == 0 {
		return n.ID
	}

	parts := make([]string, 0, len(n.Meta))
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}

	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(label string, forced bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if forced {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", ForcedFill), fmt.Sprintf("color=%q", ForcedColor))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
