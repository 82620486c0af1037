package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waveplan/pkg/cache"
	"github.com/matzehuels/waveplan/pkg/render/nodelink"
)

// DefaultPNGScale is the resolution multiplier for PNG output.
const DefaultPNGScale = 2.0

// RenderOptions configures diagram rendering.
type RenderOptions struct {
	Formats  []string
	Detailed bool // include metadata in node labels
	NoWaves  bool // draw the plain graph without wave clusters

	// Cache stores rendered SVG, PNG and PDF artifacts. Nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration // zero uses cache.DefaultTTL
	Logger   *log.Logger
}

// DOT returns the Graphviz source for a result: wave clusters, critical path
// and forced edges highlighted.
func DOT(res *Result, opts RenderOptions) string {
	nopts := nodelink.Options{
		CriticalPath: res.CriticalPath,
		Detailed:     opts.Detailed,
	}
	if !opts.NoWaves {
		nopts.Plan = res.Plan
	}
	return nodelink.ToDOT(res.Graph, nopts)
}

// Render generates diagram artifacts in the requested formats, keyed by
// format.
func Render(ctx context.Context, res *Result, opts RenderOptions) (map[string][]byte, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = []string{FormatSVG}
	}
	if err := ValidateRenderFormats(opts.Formats); err != nil {
		return nil, err
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = cache.DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	dot := DOT(res, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		if format == FormatDOT {
			artifacts[format] = []byte(dot)
			continue
		}
		data, err := renderCached(ctx, dot, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderCached returns the cached artifact for dot and format, rendering and
// storing it on a miss. Cache failures degrade to an uncached render.
func renderCached(ctx context.Context, dot, format string, opts RenderOptions) ([]byte, error) {
	keyOpts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		keyOpts.Scale = DefaultPNGScale
	}
	key := cache.ArtifactKey(dot, keyOpts)

	data, hit, err := opts.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("artifact cache read failed", "format", format, "err", err)
	}
	if hit {
		opts.Logger.Debug("artifact cache hit", "format", format)
		return data, nil
	}

	switch format {
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, DefaultPNGScale)
	case FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	}
	if err != nil {
		return nil, err
	}

	if err := opts.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
		opts.Logger.Warn("artifact cache write failed", "format", format, "err", err)
	}
	return data, nil
}
