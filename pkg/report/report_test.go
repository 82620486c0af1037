package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waveplan/pkg/dag"
	"github.com/matzehuels/waveplan/pkg/pipeline"
)

func run(t *testing.T, ids []string, edges [][2]string) *pipeline.Result {
	t.Helper()
	g, err := dag.BuildIDs(ids, edges)
	if err != nil {
		t.Fatalf("BuildIDs() error = %v", err)
	}
	r := pipeline.NewRunner(log.NewWithOptions(io.Discard, log.Options{}))
	res, err := r.Run(context.Background(), g, pipeline.Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return res
}

func TestMarkdown_Acyclic(t *testing.T) {
	res := run(t, []string{"ACCT", "INV", "POS"}, [][2]string{{"INV", "POS"}, {"POS", "ACCT"}})

	md := Markdown(res)

	for _, want := range []string{
		"# Migration Wave Plan",
		"3 applications, 2 dependencies, 3 waves.",
		"No circular dependencies.",
		"INV → POS → ACCT",
		"| Wave",
		"| INV",
		"## Coupling",
		"- Sequential: 3 applications × 4 weeks = 12 weeks",
		"- Savings: 0 weeks (0.0% reduction)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown() missing %q in:\n%s", want, md)
		}
	}
	if strings.Contains(md, "## Warnings") {
		t.Error("Markdown() should omit warnings for an acyclic graph")
	}
}

func TestMarkdown_Cyclic(t *testing.T) {
	res := run(t, []string{"X", "Y"}, [][2]string{{"X", "Y"}, {"Y", "X"}})

	md := Markdown(res)

	for _, want := range []string{
		"## Warnings",
		"- dependency cycle: X → Y → X",
		"1. X → Y → X",
		"Not defined: the dependency graph contains cycles.",
		"### Forced Inclusions",
		"- **X** (wave 1) ahead of Y (wave 2)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown() missing %q in:\n%s", want, md)
		}
	}

	if strings.Index(md, "## Warnings") > strings.Index(md, "## Waves") {
		t.Error("warnings should come before the wave table")
	}
}

func TestMarkdown_Empty(t *testing.T) {
	res := run(t, nil, nil)

	md := Markdown(res)

	if !strings.Contains(md, "Not defined: the inventory is empty.") {
		t.Errorf("Markdown() for empty inventory:\n%s", md)
	}
}

func TestMarkdownTable(t *testing.T) {
	got := markdownTable([]string{"A", "B"}, [][]string{{"1", "2"}})
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("markdownTable() = %d lines, want 3:\n%s", len(lines), got)
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "|") || !strings.HasSuffix(l, "|") {
			t.Errorf("line %q is not a Markdown table row", l)
		}
	}
	if !strings.Contains(lines[1], "---") {
		t.Errorf("separator row = %q", lines[1])
	}
}

func TestConcurrencyLabel(t *testing.T) {
	tests := map[int]string{
		0: "unlimited concurrent migrations",
		1: "1 concurrent migration",
		5: "5 concurrent migrations",
	}
	for in, want := range tests {
		if got := concurrencyLabel(in); got != want {
			t.Errorf("concurrencyLabel(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	res := run(t, []string{"X", "Y"}, [][2]string{{"X", "Y"}, {"Y", "X"}})

	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded struct {
		RunID  string     `json:"run_id"`
		Cycles [][]string `json:"cycles"`
		Plan   struct {
			Waves []struct {
				Index int      `json:"index"`
				Nodes []string `json:"nodes"`
			} `json:"waves"`
			Forced []struct {
				Node     string `json:"node"`
				Violated []struct {
					From string `json:"from"`
					To   string `json:"to"`
				} `json:"violated"`
			} `json:"forced"`
		} `json:"plan"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.RunID != res.RunID {
		t.Errorf("run_id = %q, want %q", decoded.RunID, res.RunID)
	}
	if len(decoded.Plan.Waves) != 2 || len(decoded.Plan.Forced) != 1 {
		t.Errorf("plan = %+v", decoded.Plan)
	}
	if v := decoded.Plan.Forced[0].Violated; len(v) != 1 || v[0].From != "Y" {
		t.Errorf("violated = %+v, want Y->X", v)
	}
}
