package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waveplan/pkg/buildinfo"
	"github.com/matzehuels/waveplan/pkg/dag"
	"github.com/matzehuels/waveplan/pkg/errors"
	wio "github.com/matzehuels/waveplan/pkg/io"
	"github.com/matzehuels/waveplan/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and completion scripts.
const appName = "waveplan"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The persistent --verbose flag raises the log level to debug before any
// subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "Waveplan schedules application migrations in dependency-safe waves",
		Long: `Waveplan reads an application inventory, finds circular dependencies and the
critical path, and partitions the portfolio into migration waves so that no
application moves before the systems it depends on.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.planCommand())
	root.AddCommand(c.cyclesCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Planning Helpers
// =============================================================================

// planFlags holds the planning parameters shared by plan, render and browse.
// Zero values defer to the inventory's plan section, then to the defaults.
type planFlags struct {
	weeksPerWave int
	concurrency  int
	topCoupling  int
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.weeksPerWave, "weeks", 0,
		fmt.Sprintf("weeks per wave (default: inventory plan section, else %d)", pipeline.DefaultWeeksPerWave))
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0,
		fmt.Sprintf("concurrent migrations per wave (default: inventory plan section, else %d)", pipeline.DefaultConcurrency))
	cmd.Flags().IntVar(&f.topCoupling, "top", 0,
		fmt.Sprintf("number of most coupled applications to report (default %d)", pipeline.DefaultTopCoupling))
}

func (f planFlags) options() pipeline.Options {
	return pipeline.Options{
		WeeksPerWave: f.weeksPerWave,
		Concurrency:  f.concurrency,
		TopCoupling:  f.topCoupling,
	}
}

// load reads and validates the inventory at input.
func (c *CLI) load(ctx context.Context, input string) (*dag.Graph, wio.PlanConfig, error) {
	logger := loggerFromContext(ctx)
	g, cfg, err := pipeline.Load(input)
	if err != nil {
		return nil, cfg, err
	}
	logger.Debug("loaded inventory", "path", input, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, cfg, nil
}

// plan loads input and runs the full planning pipeline on it.
func (c *CLI) plan(ctx context.Context, input string, flags planFlags) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, cfg, err := c.load(ctx, input)
	if err != nil {
		return nil, err
	}

	opts := flags.options()
	opts.ApplyPlanConfig(cfg)
	opts.Logger = logger

	res, err := pipeline.NewRunner(logger).Run(ctx, g, opts)
	if err != nil {
		return nil, errors.FromGraph(err)
	}
	prog.done(fmt.Sprintf("Planned %s", plural(g.NodeCount(), "application", "applications")),
		"waves", len(res.Plan.Waves), "forced", len(res.Plan.Forced))
	return res, nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
