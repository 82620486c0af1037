package cli

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waveplan/pkg/errors"
	"github.com/matzehuels/waveplan/pkg/pipeline"
	"github.com/matzehuels/waveplan/pkg/report"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	planFlags
	format string // output format: text, json, markdown
	output string // output file, stdout when empty
	strict bool   // fail when the inventory has dependency cycles
}

// planCommand creates the plan command: analyze an inventory and schedule
// migration waves.
func (c *CLI) planCommand() *cobra.Command {
	opts := planOpts{format: pipeline.FormatText}

	cmd := &cobra.Command{
		Use:   "plan [inventory]",
		Short: "Schedule migration waves for an application inventory",
		Long: `Plan analyzes an application inventory and partitions it into migration waves.

Each wave only contains applications whose prerequisites were migrated in an
earlier wave. Circular dependencies are reported, and one application per
cycle is scheduled ahead of its prerequisites to break it.

The inventory may be JSON, TOML or CSV (selected by file extension).`,
		Example: `  # Print the plan as a table
  waveplan plan portfolio.toml

  # Write a Markdown report with 6-week waves
  waveplan plan portfolio.csv --weeks 6 -f markdown -o plan.md

  # Fail in CI when new dependency cycles appear
  waveplan plan portfolio.json --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateReportFormat(opts.format); err != nil {
				return err
			}
			return c.runPlan(cmd, args[0], opts)
		},
	}

	opts.planFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json, markdown")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when dependency cycles are found")

	return cmd
}

func (c *CLI) runPlan(cmd *cobra.Command, input string, opts planOpts) error {
	res, err := c.plan(cmd.Context(), input, opts.planFlags)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch opts.format {
	case pipeline.FormatJSON:
		if err := report.WriteJSON(&buf, res); err != nil {
			return err
		}
	case pipeline.FormatMarkdown:
		buf.WriteString(report.Markdown(res))
	default:
		writePlanText(&buf, res)
		if opts.output == "" {
			printNextStep(&buf, "Render the plan", fmt.Sprintf("%s render %s", appName, input))
		}
	}

	out := cmd.OutOrStdout()
	if err := writeOutput(out, opts.output, buf.Bytes()); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess(out, "Wrote %s plan", opts.format)
		printFile(out, opts.output)
	}

	if opts.strict && !res.Acyclic() {
		return errors.New(errors.ErrCodeCyclicGraph, "inventory has %s",
			plural(len(res.Cycles), "dependency cycle", "dependency cycles"))
	}
	return nil
}

// writePlanText writes the human readable plan: stats, warnings, waves,
// critical path and timeline.
func writePlanText(w io.Writer, res *pipeline.Result) {
	fmt.Fprintln(w, StyleTitle.Render("Migration wave plan"))
	printStats(w, res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.WaveCount)
	printNewline(w)

	if warnings := res.Warnings(); len(warnings) > 0 {
		for _, msg := range warnings {
			printWarning(w, "%s", msg)
		}
		printNewline(w)
	}

	if len(res.Plan.Waves) > 0 {
		fmt.Fprintln(w, renderTable([]string{"Wave", "Apps", "Applications"}, waveRows(res)))
		printNewline(w)
	}

	switch {
	case res.CriticalPathErr != nil:
		printKeyValue(w, "Critical path", StyleDim.Render("not defined (dependency cycles)"))
	case len(res.CriticalPath) == 0:
		printKeyValue(w, "Critical path", StyleDim.Render("not defined (empty inventory)"))
	default:
		printKeyValue(w, "Critical path", strings.Join(res.CriticalPath, " "+iconArrow+" "))
	}

	t := res.Timeline
	printKeyValue(w, "Sequential", fmt.Sprintf("%d weeks", t.SequentialWeeks))
	printKeyValue(w, "Wave plan", fmt.Sprintf("%d weeks (%d per wave, %s)",
		t.ParallelWeeks, t.WeeksPerWave, concurrencyText(t.Concurrency)))
	printKeyValue(w, "Savings", fmt.Sprintf("%d weeks (%.1f%%)", t.SavedWeeks, t.SavedPercent))
}

// waveRows builds one table row per wave. Forced applications are flagged.
func waveRows(res *pipeline.Result) [][]string {
	forced := make(map[string]bool, len(res.Plan.Forced))
	for _, f := range res.Plan.Forced {
		forced[f.Node] = true
	}

	rows := make([][]string, 0, len(res.Plan.Waves))
	for _, wave := range res.Plan.Waves {
		names := make([]string, len(wave.Nodes))
		for i, id := range wave.Nodes {
			names[i] = id
			if forced[id] {
				names[i] = StyleForced.Render(id + " " + iconForced)
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(wave.Index),
			strconv.Itoa(len(wave.Nodes)),
			strings.Join(names, ", "),
		})
	}
	return rows
}

func concurrencyText(c int) string {
	if c <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d at a time", c)
}
