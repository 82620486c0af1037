package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waveplan/pkg/dag/analyze"
	"github.com/matzehuels/waveplan/pkg/errors"
)

// pathCommand creates the path command for printing the critical path.
func (c *CLI) pathCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path [inventory]",
		Short: "Print the longest dependency chain",
		Long: `Path prints the critical path: the longest chain of applications in which each
one depends on the previous. Its length is the minimum number of waves any
migration plan needs.

The critical path is only defined for inventories without circular
dependencies; run "waveplan cycles" to find them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			path, err := analyze.LongestPath(g)
			if err != nil {
				printError(out, "No critical path: the inventory has dependency cycles")
				if cyclic, ok := err.(*analyze.CyclicGraphError); ok {
					for _, cycle := range cyclic.Cycles {
						printDetail(out, "%s", analyze.FormatCycle(cycle))
					}
				}
				return errors.FromGraph(err)
			}

			if len(path) == 0 {
				printInfo(out, "Empty inventory")
				return nil
			}
			printInfo(out, "Critical path (%s)", plural(len(path), "application", "applications"))
			printDetail(out, "%s", strings.Join(path, " "+iconArrow+" "))
			return nil
		},
	}

	return cmd
}
