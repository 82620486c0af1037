package schedule

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/waveplan/pkg/dag"
)

func mustBuild(t *testing.T, ids []string, edges [][2]string) *dag.Graph {
	t.Helper()
	g, err := dag.BuildIDs(ids, edges)
	if err != nil {
		t.Fatalf("BuildIDs() error = %v", err)
	}
	return g
}

func mustSchedule(t *testing.T, g *dag.Graph) *Plan {
	t.Helper()
	p, err := Schedule(g)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if err := p.Verify(g); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	return p
}

func waveNodes(p *Plan) [][]string {
	out := make([][]string, len(p.Waves))
	for i, w := range p.Waves {
		out[i] = w.Nodes
	}
	return out
}

func TestSchedule_Acyclic(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		edges [][2]string
		want  [][]string
	}{
		{
			name: "Empty",
			want: [][]string{},
		},
		{
			name: "IndependentNodes",
			ids:  []string{"c", "a", "b"},
			want: [][]string{{"a", "b", "c"}},
		},
		{
			name:  "Chain",
			ids:   []string{"a", "b", "c"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}},
			want:  [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name:  "Diamond",
			ids:   []string{"a", "b", "c", "d"},
			edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
			want:  [][]string{{"a"}, {"b", "c"}, {"d"}},
		},
		{
			name:  "UnevenDepth",
			ids:   []string{"a", "b", "c", "x"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}, {"x", "c"}},
			want:  [][]string{{"a", "x"}, {"b"}, {"c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustBuild(t, tt.ids, tt.edges)
			p := mustSchedule(t, g)

			if got := waveNodes(p); !slices.EqualFunc(got, tt.want, slices.Equal[[]string]) {
				t.Errorf("waves = %v, want %v", got, tt.want)
			}
			if len(p.Forced) != 0 {
				t.Errorf("Forced = %v, want none", p.Forced)
			}
			for _, e := range g.Edges() {
				if p.WaveOf(e.From) >= p.WaveOf(e.To) {
					t.Errorf("edge %s: wave %d >= %d", e, p.WaveOf(e.From), p.WaveOf(e.To))
				}
			}
		})
	}
}

func TestSchedule_TwoCycle(t *testing.T) {
	g := mustBuild(t, []string{"Y", "X"}, [][2]string{{"X", "Y"}, {"Y", "X"}})

	p := mustSchedule(t, g)

	if len(p.Waves) != 2 {
		t.Fatalf("len(Waves) = %d, want 2", len(p.Waves))
	}
	if len(p.Forced) != 1 {
		t.Fatalf("len(Forced) = %d, want 1", len(p.Forced))
	}
	f := p.Forced[0]
	if f.Node != "X" {
		t.Errorf("Forced[0].Node = %q, want X", f.Node)
	}
	if f.Wave != 1 {
		t.Errorf("Forced[0].Wave = %d, want 1", f.Wave)
	}
	if !slices.Equal(f.Violated, []dag.Edge{{From: "Y", To: "X"}}) {
		t.Errorf("Forced[0].Violated = %v, want [Y->X]", f.Violated)
	}
	if len(f.Cycles) != 1 || !slices.Equal(f.Cycles[0], []string{"X", "Y"}) {
		t.Errorf("Forced[0].Cycles = %v, want [[X Y]]", f.Cycles)
	}
	if got := waveNodes(p); !slices.EqualFunc(got, [][]string{{"X"}, {"Y"}}, slices.Equal[[]string]) {
		t.Errorf("waves = %v, want [[X] [Y]]", got)
	}
}

func TestSchedule_CycleBehindReadyNodes(t *testing.T) {
	// root feeds a 3-cycle; tail depends on the cycle
	g := mustBuild(t,
		[]string{"root", "a", "b", "c", "tail"},
		[][2]string{{"root", "a"}, {"a", "b"}, {"b", "c"}, {"c", "a"}, {"c", "tail"}},
	)

	p := mustSchedule(t, g)

	want := [][]string{{"root"}, {"a"}, {"b"}, {"c"}, {"tail"}}
	if got := waveNodes(p); !slices.EqualFunc(got, want, slices.Equal[[]string]) {
		t.Errorf("waves = %v, want %v", got, want)
	}
	if len(p.Forced) != 1 || p.Forced[0].Node != "a" || p.Forced[0].Wave != 2 {
		t.Fatalf("Forced = %+v, want a in wave 2", p.Forced)
	}
	if !slices.Equal(p.Forced[0].Violated, []dag.Edge{{From: "c", To: "a"}}) {
		t.Errorf("Violated = %v, want [c->a]", p.Forced[0].Violated)
	}
}

func TestSchedule_ForcesAnyRemainingNode(t *testing.T) {
	// a sits downstream of the m-n cycle with one unscheduled prerequisite,
	// as many as m and n, and wins on ID.
	g := mustBuild(t,
		[]string{"a", "m", "n"},
		[][2]string{{"m", "n"}, {"n", "m"}, {"n", "a"}},
	)

	p := mustSchedule(t, g)

	want := [][]string{{"a"}, {"m"}, {"n"}}
	if got := waveNodes(p); !slices.EqualFunc(got, want, slices.Equal[[]string]) {
		t.Errorf("waves = %v, want %v", got, want)
	}
	if len(p.Forced) != 2 || p.Forced[0].Node != "a" || p.Forced[1].Node != "m" {
		t.Fatalf("Forced = %+v, want a then m", p.Forced)
	}
	a := p.Forced[0]
	if !slices.Equal(a.Violated, []dag.Edge{{From: "n", To: "a"}}) {
		t.Errorf("Violated = %v, want [n->a]", a.Violated)
	}
	if a.Cycles == nil || len(a.Cycles) != 0 {
		t.Errorf("Cycles = %#v, want empty non-nil", a.Cycles)
	}
	if len(p.Forced[1].Cycles) != 1 {
		t.Errorf("m breaks %v, want the m-n cycle", p.Forced[1].Cycles)
	}
}

func TestSchedule_ForcedCandidateOrder(t *testing.T) {
	// Unscheduled prerequisite counts: C=2, D=1, X=1, Y=1.
	g := mustBuild(t,
		[]string{"C", "D", "X", "Y"},
		[][2]string{{"X", "Y"}, {"Y", "X"}, {"Y", "C"}, {"C", "D"}, {"D", "C"}},
	)

	p := mustSchedule(t, g)

	want := [][]string{{"D"}, {"C"}, {"X"}, {"Y"}}
	if got := waveNodes(p); !slices.EqualFunc(got, want, slices.Equal[[]string]) {
		t.Errorf("waves = %v, want %v", got, want)
	}
	var forced []string
	for _, f := range p.Forced {
		forced = append(forced, f.Node)
	}
	if !slices.Equal(forced, []string{"D", "C", "X"}) {
		t.Errorf("forced nodes = %v, want [D C X]", forced)
	}
	if !slices.Equal(p.Forced[0].Violated, []dag.Edge{{From: "C", To: "D"}}) {
		t.Errorf("Forced[0].Violated = %v, want [C->D]", p.Forced[0].Violated)
	}
}

func TestSchedule_FewestUnresolvedPrerequisites(t *testing.T) {
	// b has two unresolved prerequisites, a and c one each. a wins on ID.
	g := mustBuild(t,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "a"}, {"c", "b"}, {"b", "c"}},
	)

	p := mustSchedule(t, g)

	if p.Forced[0].Node != "a" {
		t.Errorf("Forced[0].Node = %q, want a", p.Forced[0].Node)
	}
}

func TestSchedule_DisjointCycles(t *testing.T) {
	g := mustBuild(t,
		[]string{"A", "B", "C", "D", "E"},
		[][2]string{{"A", "B"}, {"B", "A"}, {"C", "D"}, {"D", "E"}, {"E", "C"}},
	)

	p := mustSchedule(t, g)

	var forced []string
	for _, f := range p.Forced {
		forced = append(forced, f.Node)
	}
	if !slices.Equal(forced, []string{"A", "C"}) {
		t.Errorf("forced nodes = %v, want [A C]", forced)
	}
}

func TestSchedule_Deterministic(t *testing.T) {
	g := portfolio(t)

	first := mustSchedule(t, g)
	for range 10 {
		p := mustSchedule(t, g)
		if !slices.EqualFunc(waveNodes(p), waveNodes(first), slices.Equal[[]string]) {
			t.Fatalf("waves differ between runs: %v vs %v", waveNodes(p), waveNodes(first))
		}
		if len(p.Forced) != len(first.Forced) {
			t.Fatalf("forced differ between runs: %v vs %v", p.Forced, first.Forced)
		}
		for i := range p.Forced {
			if p.Forced[i].Node != first.Forced[i].Node || p.Forced[i].Wave != first.Forced[i].Wave {
				t.Fatalf("forced[%d] = %+v, want %+v", i, p.Forced[i], first.Forced[i])
			}
		}
	}
}

func TestSchedule_Portfolio(t *testing.T) {
	g := portfolio(t)

	p := mustSchedule(t, g)

	if p.NodeCount() != g.NodeCount() {
		t.Errorf("NodeCount() = %d, want %d", p.NodeCount(), g.NodeCount())
	}
	if len(p.Forced) == 0 {
		t.Error("portfolio contains cycles, expected forced inclusions")
	}
	if len(p.Waves) > g.NodeCount() {
		t.Errorf("len(Waves) = %d exceeds node count", len(p.Waves))
	}
	for _, f := range p.Forced {
		if len(f.Violated) == 0 {
			t.Errorf("forced %s violates no prerequisite", f.Node)
		}
		for _, e := range f.Violated {
			if p.WaveOf(e.From) <= f.Wave {
				t.Errorf("violated edge %s: prerequisite in wave %d, forced wave %d", e, p.WaveOf(e.From), f.Wave)
			}
		}
	}
}

func TestSchedule_DuplicateEdgesIdempotent(t *testing.T) {
	once := mustBuild(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "a"}, {"b", "c"}})
	twice := mustBuild(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "a"}, {"b", "a"}, {"b", "c"}})

	p1 := mustSchedule(t, once)
	p2 := mustSchedule(t, twice)

	if !slices.EqualFunc(waveNodes(p1), waveNodes(p2), slices.Equal[[]string]) {
		t.Errorf("waves = %v, want %v", waveNodes(p2), waveNodes(p1))
	}
	if len(p1.Forced) != len(p2.Forced) || p1.Forced[0].Node != p2.Forced[0].Node {
		t.Errorf("forced = %v, want %v", p2.Forced, p1.Forced)
	}
}

func TestPlan_Verify(t *testing.T) {
	g := mustBuild(t, []string{"a", "b"}, [][2]string{{"a", "b"}})

	tests := []struct {
		name string
		plan Plan
		ok   bool
	}{
		{"Valid", Plan{Waves: []Wave{{1, []string{"a"}}, {2, []string{"b"}}}}, true},
		{"Missing", Plan{Waves: []Wave{{1, []string{"a"}}}}, false},
		{"Duplicate", Plan{Waves: []Wave{{1, []string{"a", "b"}}, {2, []string{"b"}}}}, false},
		{"Gap", Plan{Waves: []Wave{{1, []string{"a"}}, {3, []string{"b"}}}}, false},
		{"Order", Plan{Waves: []Wave{{1, []string{"a", "b"}}}}, false},
		{"Unknown", Plan{Waves: []Wave{{1, []string{"a"}}, {2, []string{"b", "z"}}}}, false},
		{
			"ForcedEdge",
			Plan{
				Waves:  []Wave{{1, []string{"b"}}, {2, []string{"a"}}},
				Forced: []ForcedInclusion{{Node: "b", Wave: 1, Violated: []dag.Edge{{From: "a", To: "b"}}}},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Verify(g)
			if (err == nil) != tt.ok {
				t.Errorf("Verify() error = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestCheckPlan(t *testing.T) {
	g := mustBuild(t, []string{"a", "b"}, [][2]string{{"a", "b"}})

	if err := checkPlan(&Plan{Waves: []Wave{{1, []string{"a"}}, {2, []string{"b"}}}}, g); err != nil {
		t.Errorf("checkPlan(valid) = %v", err)
	}

	err := checkPlan(&Plan{Waves: []Wave{{1, []string{"b"}}, {2, []string{"a"}}}}, g)
	var inv *SchedulerInvariantError
	if !errors.As(err, &inv) {
		t.Fatalf("checkPlan(reversed) = %v, want *SchedulerInvariantError", err)
	}
	if inv.Waves != 2 || !errors.Is(err, ErrSchedulerInvariant) {
		t.Errorf("error = %+v", inv)
	}
}

func TestSchedulerInvariantError(t *testing.T) {
	var err error = &SchedulerInvariantError{Reason: "test", Waves: 3, Remaining: []string{"a"}}
	if !errors.Is(err, ErrSchedulerInvariant) {
		t.Error("SchedulerInvariantError should match ErrSchedulerInvariant")
	}
}

// portfolio is the retail portfolio from the dependency matrix, with each
// "x depends on y" declaration expressed as the edge y→x.
func portfolio(t *testing.T) *dag.Graph {
	t.Helper()
	apps := []string{
		"WMS001", "INV002", "POS003", "SHIP004", "PURCH005", "MEMBER006",
		"PAYMENT007", "CARRIER008", "VENDOR009", "ACCT010", "RPT011",
		"TAX012", "PRICE013", "LABEL014", "RECALL015", "RETURNS016",
		"FORECAST017", "SECURITY018", "PAYROLL019", "TIMECLK020",
		"LOYALTY021", "AUDIT022", "BACKUP023", "EDI024", "ALLOCATION025",
	}
	dependsOn := [][2]string{
		{"WMS001", "INV002"}, {"WMS001", "POS003"}, {"WMS001", "SHIP004"},
		{"INV002", "POS003"}, {"INV002", "PURCH005"},
		{"POS003", "MEMBER006"}, {"POS003", "PAYMENT007"}, {"POS003", "TAX012"},
		{"POS003", "PRICE013"}, {"POS003", "INV002"}, {"POS003", "LOYALTY021"},
		{"SHIP004", "WMS001"}, {"SHIP004", "CARRIER008"},
		{"PURCH005", "INV002"}, {"PURCH005", "VENDOR009"},
		{"MEMBER006", "POS003"}, {"MEMBER006", "PAYMENT007"},
		{"PAYMENT007", "POS003"}, {"PAYMENT007", "MEMBER006"}, {"PAYMENT007", "ACCT010"},
		{"CARRIER008", "SHIP004"}, {"CARRIER008", "EDI024"},
		{"VENDOR009", "PURCH005"}, {"VENDOR009", "ACCT010"},
		{"ACCT010", "PAYMENT007"}, {"ACCT010", "PURCH005"}, {"ACCT010", "RPT011"},
		{"RPT011", "INV002"}, {"RPT011", "POS003"}, {"RPT011", "WMS001"}, {"RPT011", "ACCT010"},
		{"TAX012", "POS003"},
		{"PRICE013", "INV002"}, {"PRICE013", "POS003"},
		{"LABEL014", "WMS001"},
		{"RECALL015", "INV002"}, {"RECALL015", "MEMBER006"},
		{"RETURNS016", "POS003"}, {"RETURNS016", "INV002"}, {"RETURNS016", "ACCT010"},
		{"FORECAST017", "INV002"}, {"FORECAST017", "POS003"},
		{"PAYROLL019", "ACCT010"}, {"PAYROLL019", "TIMECLK020"},
		{"TIMECLK020", "PAYROLL019"},
		{"LOYALTY021", "MEMBER006"}, {"LOYALTY021", "POS003"},
		{"ALLOCATION025", "WMS001"}, {"ALLOCATION025", "INV002"},
		{"EDI024", "PURCH005"}, {"EDI024", "SHIP004"}, {"EDI024", "CARRIER008"},
	}
	edges := make([][2]string, len(dependsOn))
	for i, d := range dependsOn {
		edges[i] = [2]string{d[1], d[0]}
	}
	return mustBuild(t, apps, edges)
}
