// Package report formats planning results for people and machines.
//
// [Markdown] produces a document suitable for a migration roadmap: warnings
// about cycles and forced inclusions first, then the critical path, the wave
// table, coupling hot spots and the timeline estimate. [WriteJSON] writes the
// complete result for downstream tooling.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/waveplan/pkg/dag/analyze"
	"github.com/matzehuels/waveplan/pkg/pipeline"
)

// Markdown renders res as a Markdown document.
func Markdown(res *pipeline.Result) string {
	var b strings.Builder

	b.WriteString("# Migration Wave Plan\n\n")
	fmt.Fprintf(&b, "%d applications, %d dependencies, %d waves.\n",
		res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.WaveCount)

	if warnings := res.Warnings(); len(warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	b.WriteString("\n## Dependency Cycles\n\n")
	if len(res.Cycles) == 0 {
		b.WriteString("No circular dependencies.\n")
	} else {
		fmt.Fprintf(&b, "%d circular dependencies detected:\n\n", len(res.Cycles))
		for i, c := range res.Cycles {
			fmt.Fprintf(&b, "%d. %s\n", i+1, analyze.FormatCycle(c))
		}
	}

	b.WriteString("\n## Critical Path\n\n")
	switch {
	case res.CriticalPathErr != nil:
		b.WriteString("Not defined: the dependency graph contains cycles.\n")
	case len(res.CriticalPath) == 0:
		b.WriteString("Not defined: the inventory is empty.\n")
	default:
		fmt.Fprintf(&b, "%d applications must be migrated sequentially:\n\n", len(res.CriticalPath))
		fmt.Fprintf(&b, "%s\n", strings.Join(res.CriticalPath, " → "))
	}

	b.WriteString("\n## Waves\n\n")
	rows := make([][]string, 0, len(res.Plan.Waves))
	for _, w := range res.Plan.Waves {
		rows = append(rows, []string{
			strconv.Itoa(w.Index),
			strconv.Itoa(len(w.Nodes)),
			strings.Join(w.Nodes, ", "),
		})
	}
	b.WriteString(markdownTable([]string{"Wave", "Apps", "Applications"}, rows))

	if len(res.Plan.Forced) > 0 {
		b.WriteString("\n### Forced Inclusions\n\n")
		b.WriteString("These applications need a feature toggle or a temporary bridge, because\n")
		b.WriteString("they migrate before some of their prerequisites.\n\n")
		for _, f := range res.Plan.Forced {
			fmt.Fprintf(&b, "- **%s** (wave %d) ahead of", f.Node, f.Wave)
			for i, e := range f.Violated {
				sep := ","
				if i == 0 {
					sep = ""
				}
				fmt.Fprintf(&b, "%s %s (wave %d)", sep, e.From, res.Plan.WaveOf(e.From))
			}
			b.WriteString("\n")
		}
	}

	if len(res.Coupling) > 0 {
		b.WriteString("\n## Coupling\n\n")
		rows := make([][]string, 0, len(res.Coupling))
		for _, c := range res.Coupling {
			rows = append(rows, []string{c.ID, strconv.Itoa(c.Inbound), strconv.Itoa(c.Outbound), strconv.Itoa(c.Total)})
		}
		b.WriteString(markdownTable([]string{"Application", "Inbound", "Outbound", "Total"}, rows))
	}

	t := res.Timeline
	b.WriteString("\n## Timeline\n\n")
	fmt.Fprintf(&b, "- Sequential: %d applications × %d weeks = %d weeks\n",
		t.Applications, t.WeeksPerWave, t.SequentialWeeks)
	fmt.Fprintf(&b, "- Wave plan: %d waves, up to %s, = %d weeks\n",
		t.Waves, concurrencyLabel(t.Concurrency), t.ParallelWeeks)
	fmt.Fprintf(&b, "- Savings: %d weeks (%.1f%% reduction)\n", t.SavedWeeks, t.SavedPercent)

	return b.String()
}

func concurrencyLabel(c int) string {
	if c <= 0 {
		return "unlimited concurrent migrations"
	}
	if c == 1 {
		return "1 concurrent migration"
	}
	return fmt.Sprintf("%d concurrent migrations", c)
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// markdownTable renders a GitHub flavored Markdown table.
func markdownTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.MarkdownBorder()).
		BorderTop(false).
		BorderBottom(false).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Headers(headers...).
		Rows(rows...)
	return t.Render() + "\n"
}

// WriteJSON writes res as indented JSON.
func WriteJSON(w io.Writer, res *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
