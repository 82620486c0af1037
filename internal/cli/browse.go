package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waveplan/pkg/dag/schedule"
	"github.com/matzehuels/waveplan/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command: an interactive wave browser.
func (c *CLI) browseCommand() *cobra.Command {
	var flags planFlags

	cmd := &cobra.Command{
		Use:   "browse [inventory]",
		Short: "Explore the migration plan interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.plan(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			if len(res.Plan.Waves) == 0 {
				printInfo(cmd.OutOrStdout(), "Empty inventory, nothing to browse")
				return nil
			}
			p := tea.NewProgram(NewWaveBrowserModel(res),
				tea.WithContext(cmd.Context()),
				tea.WithAltScreen(),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// WaveBrowserModel - Interactive wave browser
// =============================================================================

// WaveBrowserModel is the bubbletea model for browsing a plan wave by wave.
// Wave is the index into Result.Plan.Waves, Cursor the selected application
// within that wave.
type WaveBrowserModel struct {
	Result  *pipeline.Result
	Wave    int
	Cursor  int
	Offset  int
	Height  int
	Details bool

	forced map[string]schedule.ForcedInclusion
}

// NewWaveBrowserModel creates a browser positioned on the first wave.
func NewWaveBrowserModel(res *pipeline.Result) WaveBrowserModel {
	forced := make(map[string]schedule.ForcedInclusion, len(res.Plan.Forced))
	for _, f := range res.Plan.Forced {
		forced[f.Node] = f
	}
	return WaveBrowserModel{
		Result: res,
		Height: 15,
		forced: forced,
	}
}

func (m WaveBrowserModel) Init() tea.Cmd {
	return nil
}

func (m WaveBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Wave > 0 {
				m.Wave--
				m.Cursor, m.Offset = 0, 0
			}
		case "right", "l":
			if m.Wave < len(m.Result.Plan.Waves)-1 {
				m.Wave++
				m.Cursor, m.Offset = 0, 0
			}
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.current().Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.Details = !m.Details
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m WaveBrowserModel) current() schedule.Wave {
	return m.Result.Plan.Waves[m.Wave]
}

// Selected returns the ID of the highlighted application.
func (m WaveBrowserModel) Selected() string {
	return m.current().Nodes[m.Cursor]
}

func (m WaveBrowserModel) View() string {
	var b strings.Builder
	wave := m.current()

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Wave %d of %d", wave.Index, len(m.Result.Plan.Waves))))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(plural(len(wave.Nodes), "application", "applications")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ wave  ↑/↓ application  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(wave.Nodes))
	g := m.Result.Graph

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		id := wave.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := ""
		if _, ok := m.forced[id]; ok {
			mark = iconForced
		}

		rows = append(rows, []string{
			cursor,
			id,
			mark,
			m.withWaves(g.Predecessors(id)),
			m.withWaves(g.Successors(id)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Application", "", "Prerequisites (wave)", "Dependents (wave)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(wave.Nodes) {
				return lipgloss.NewStyle()
			}
			_, isForced := m.forced[wave.Nodes[actualIdx]]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorDim)
				if isCurrent {
					base = base.Foreground(colorGray)
				}
			}
			switch {
			case isForced && col < 3:
				base = base.Foreground(colorRed)
			case isCurrent && col < 3:
				base = base.Foreground(colorCyan)
			}
			if isCurrent {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(wave.Nodes))))

	if f, ok := m.forced[m.Selected()]; ok {
		b.WriteString("\n")
		b.WriteString(StyleForced.Render(fmt.Sprintf("  %s %s scheduled ahead of %s", iconForced, f.Node, m.violated(f))))
	}
	if m.Details {
		b.WriteString("\n\n")
		b.WriteString(m.details())
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// withWaves formats ids as "ID (wave)".
func (m WaveBrowserModel) withWaves(ids []string) string {
	if len(ids) == 0 {
		return "—"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s (%d)", id, m.Result.Plan.WaveOf(id))
	}
	return strings.Join(parts, ", ")
}

func (m WaveBrowserModel) violated(f schedule.ForcedInclusion) string {
	parts := make([]string, len(f.Violated))
	for i, e := range f.Violated {
		parts[i] = fmt.Sprintf("%s (wave %d)", e.From, m.Result.Plan.WaveOf(e.From))
	}
	return strings.Join(parts, ", ")
}

// details renders the metadata of the selected application.
func (m WaveBrowserModel) details() string {
	id := m.Selected()
	node, ok := m.Result.Graph.Node(id)
	if !ok || len(node.Meta) == 0 {
		return listDimStyle.Render("  no metadata for " + id)
	}
	var b strings.Builder
	b.WriteString(listSelectedStyle.Render("  " + id))
	for _, k := range slices.Sorted(maps.Keys(node.Meta)) {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("    %s: ", k)))
		b.WriteString(StyleValue.Render(fmt.Sprint(node.Meta[k])))
	}
	return b.String()
}
