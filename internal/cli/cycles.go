package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waveplan/pkg/dag/analyze"
	"github.com/matzehuels/waveplan/pkg/errors"
	"github.com/matzehuels/waveplan/pkg/pipeline"
)

// cyclesCommand creates the cycles command for listing circular dependencies.
func (c *CLI) cyclesCommand() *cobra.Command {
	var (
		node   string
		format string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "cycles [inventory]",
		Short: "List circular dependencies",
		Long: `Cycles lists every circular dependency of an inventory. Each cycle starts at
its alphabetically smallest application; the closing dependency is implied.

With --node only the cycles through that application are listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateFormat(format, pipeline.FormatText, pipeline.FormatJSON); err != nil {
				return err
			}
			format = strings.ToLower(format)
			if node != "" {
				if err := errors.ValidateNodeID(node); err != nil {
					return err
				}
			}

			g, _, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var cycles [][]string
			if node != "" {
				if !g.HasNode(node) {
					return errors.New(errors.ErrCodeInvalidInput, "unknown application %q", node)
				}
				cycles = analyze.CyclesThrough(g, node)
			} else {
				cycles = analyze.FindCycles(g)
			}
			loggerFromContext(cmd.Context()).Debug("found cycles", "count", len(cycles), "node", node)

			out := cmd.OutOrStdout()
			if format == pipeline.FormatJSON {
				if cycles == nil {
					cycles = [][]string{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(cycles); err != nil {
					return err
				}
			} else {
				printCycles(cmd, cycles)
			}

			if strict && len(cycles) > 0 {
				return errors.New(errors.ErrCodeCyclicGraph, "inventory has %s",
					plural(len(cycles), "dependency cycle", "dependency cycles"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&node, "node", "", "only list cycles through this application")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatText, "output format: text, json")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when cycles are found")

	return cmd
}

func printCycles(cmd *cobra.Command, cycles [][]string) {
	out := cmd.OutOrStdout()
	if len(cycles) == 0 {
		printSuccess(out, "No circular dependencies")
		return
	}
	printWarning(out, "Found %s", plural(len(cycles), "circular dependency", "circular dependencies"))
	for i, cycle := range cycles {
		printDetail(out, "%s", fmt.Sprintf("%d. %s", i+1, analyze.FormatCycle(cycle)))
	}
}
