package cli

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waveplan/pkg/cache"
	"github.com/matzehuels/waveplan/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	planFlags
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats: "dot", "svg", "png", "pdf"
	detailed bool     // show application metadata in node labels
	noWaves  bool     // draw the plain graph without wave clusters
	noCache  bool     // always re-render instead of reusing cached artifacts
}

// renderCommand creates the render command for drawing the dependency graph.
//
// Default settings:
//   - format: svg
//   - waves: one cluster per wave
//   - critical path edges bold, forced edges dashed red
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [inventory]",
		Short: "Draw the dependency graph and its waves",
		Long: `Render draws the dependency graph of an inventory with Graphviz. Applications
are grouped into one cluster per migration wave, the critical path is drawn
bold and dependencies broken by forced inclusions are drawn dashed red.

PNG and PDF output requires rsvg-convert on the PATH.`,
		Example: `  # SVG next to the inventory (portfolio.svg)
  waveplan render portfolio.toml

  # DOT and PNG with metadata in the labels
  waveplan render portfolio.csv -f dot,png --detailed -o out/portfolio`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateRenderFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	opts.planFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show application metadata in node labels")
	cmd.Flags().BoolVar(&opts.noWaves, "no-waves", false, "draw the graph without wave clusters")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "re-render instead of reusing cached diagrams")

	return cmd
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .dot, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidRenderFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to the file it is written to. A single format
// with an explicit output is written exactly there.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	res, err := c.plan(ctx, input, opts.planFlags)
	if err != nil {
		return err
	}

	artifactCache := openArtifactCache(logger, opts.noCache)
	defer artifactCache.Close()

	artifacts, err := renderWithSpinner(ctx, res, pipeline.RenderOptions{
		Formats:  opts.formats,
		Detailed: opts.detailed,
		NoWaves:  opts.noWaves,
		Cache:    artifactCache,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	paths := outputPaths(opts.output, input, opts.formats)
	formats := slices.Sorted(maps.Keys(artifacts))
	for _, f := range formats {
		if err := writeOutput(out, paths[f], artifacts[f]); err != nil {
			return err
		}
		logger.Debug("wrote artifact", "format", f, "path", paths[f], "bytes", len(artifacts[f]))
	}

	printSuccess(out, "Rendered %s", plural(len(formats), "diagram", "diagrams"))
	for _, f := range formats {
		printFile(out, paths[f])
	}
	return nil
}

// openArtifactCache opens the per-user diagram cache. Rendering proceeds
// uncached when the cache is disabled or its directory is unusable.
func openArtifactCache(logger *log.Logger, disabled bool) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	dir, err := cache.DefaultDir()
	if err == nil {
		var fc *cache.FileCache
		if fc, err = cache.NewFileCache(dir); err == nil {
			logger.Debug("using artifact cache", "dir", dir)
			return fc
		}
	}
	logger.Debug("artifact cache unavailable", "err", err)
	return cache.NewNullCache()
}

// renderWithSpinner renders the artifacts while showing a spinner on stderr.
func renderWithSpinner(ctx context.Context, res *pipeline.Result, opts pipeline.RenderOptions) (map[string][]byte, error) {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()
	artifacts, err := pipeline.Render(ctx, res, opts)
	switch {
	case err == nil, spinner.Cancelled():
		spinner.Stop()
	default:
		spinner.StopWithError("Rendering failed")
	}
	return artifacts, err
}
