package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/waveplan/pkg/dag"
)

var wantEdges = []dag.Edge{
	{From: "INV002", To: "POS003"},
	{From: "INV002", To: "WMS001"},
	{From: "POS003", To: "WMS001"},
}

func TestImport(t *testing.T) {
	tests := []struct {
		file      string
		wantNodes []string
		wantPlan  PlanConfig
		nameKey   string
	}{
		{"inventory.json", []string{"INV002", "POS003", "WMS001"}, PlanConfig{WeeksPerWave: 3, Concurrency: 2}, "name"},
		{"inventory.toml", []string{"INV002", "POS003", "WMS001"}, PlanConfig{WeeksPerWave: 3, Concurrency: 2}, "name"},
		{"inventory.csv", []string{"INV002", "POS003", "SEC018", "WMS001"}, PlanConfig{}, "App_Name"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			inv, err := Import(filepath.Join("testdata", tt.file))
			if err != nil {
				t.Fatalf("Import() error = %v", err)
			}
			if inv.Plan != tt.wantPlan {
				t.Errorf("Plan = %+v, want %+v", inv.Plan, tt.wantPlan)
			}

			g, err := inv.Graph()
			if err != nil {
				t.Fatalf("Graph() error = %v", err)
			}
			if got := g.NodeIDs(); !slices.Equal(got, tt.wantNodes) {
				t.Errorf("NodeIDs() = %v, want %v", got, tt.wantNodes)
			}
			if got := g.Edges(); !slices.Equal(got, wantEdges) {
				t.Errorf("Edges() = %v, want %v", got, wantEdges)
			}

			n, _ := g.Node("INV002")
			if n.Meta[tt.nameKey] != "Inventory Master" {
				t.Errorf("INV002 %s = %v, want Inventory Master", tt.nameKey, n.Meta[tt.nameKey])
			}
		})
	}
}

func TestImport_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	if err := os.WriteFile(path, []byte("nodes: []"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Import(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Import() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestImport_MissingFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Import() error = %v, want os.ErrNotExist", err)
	}
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"DuplicateNode", `{"nodes":[{"id":"a"},{"id":"a"}]}`, dag.ErrDuplicateNode},
		{"UnknownEdgeEndpoint", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`, dag.ErrUnknownNode},
		{"UnknownDependsOn", `{"nodes":[{"id":"a","depends_on":["z"]}]}`, dag.ErrUnknownNode},
		{"SelfDependency", `{"nodes":[{"id":"a","depends_on":["a"]}]}`, dag.ErrSelfDependency},
		{"EmptyID", `{"nodes":[{"id":""}]}`, dag.ErrInvalidNodeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadJSON() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadJSON_Malformed(t *testing.T) {
	for _, input := range []string{`{`, `{"nodes": "a"}`, `{"nodes":[], "vertices":[]}`} {
		if _, err := ReadJSON(strings.NewReader(input)); !errors.Is(err, ErrMalformed) {
			t.Errorf("ReadJSON(%q) error = %v, want ErrMalformed", input, err)
		}
	}
}

func TestReadTOML_UnknownKey(t *testing.T) {
	input := `
[[nodes]]
id = "a"
depends-on = ["b"]
`
	if _, err := ReadTOML(strings.NewReader(input)); !errors.Is(err, ErrMalformed) {
		t.Errorf("ReadTOML() error = %v, want ErrMalformed", err)
	}
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"MissingDependenciesColumn", "App_ID,Name\nA,Alpha\n", true},
		{"EmptyInput", "", true},
		{"EmptyID", "App_ID,Dependencies\n,\n", true},
		{"HeaderOnly", "App_ID,Dependencies\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadCSV() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitDependencies(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"*ALL*", nil},
		{" A ", []string{"A"}},
		{"A, B,,C", []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		if got := splitDependencies(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("splitDependencies(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	orig, err := ImportTOML(filepath.Join("testdata", "inventory.toml"))
	if err != nil {
		t.Fatalf("ImportTOML() error = %v", err)
	}

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		if err := ExportJSON(orig, path); err != nil {
			t.Fatalf("ExportJSON() error = %v", err)
		}
		got, err := ImportJSON(path)
		if err != nil {
			t.Fatalf("ImportJSON() error = %v", err)
		}
		assertSameGraph(t, orig, got)
	})

	t.Run("TOML", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteTOML(orig, &buf); err != nil {
			t.Fatalf("WriteTOML() error = %v", err)
		}
		got, err := ReadTOML(&buf)
		if err != nil {
			t.Fatalf("ReadTOML() error = %v", err)
		}
		assertSameGraph(t, orig, got)
	})
}

func assertSameGraph(t *testing.T, want, got *dag.Graph) {
	t.Helper()
	if !slices.Equal(got.NodeIDs(), want.NodeIDs()) {
		t.Errorf("NodeIDs() = %v, want %v", got.NodeIDs(), want.NodeIDs())
	}
	if !slices.Equal(got.Edges(), want.Edges()) {
		t.Errorf("Edges() = %v, want %v", got.Edges(), want.Edges())
	}
	for _, n := range want.Nodes() {
		m, _ := got.Node(n.ID)
		if len(m.Meta) != len(n.Meta) {
			t.Errorf("node %s meta = %v, want %v", n.ID, m.Meta, n.Meta)
		}
	}
}

func TestWriteJSON_Canonical(t *testing.T) {
	g, _ := dag.BuildIDs([]string{"b", "a"}, [][2]string{{"a", "b"}})

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	want := `{
  "nodes": [
    {
      "id": "a"
    },
    {
      "id": "b"
    }
  ],
  "edges": [
    {
      "from": "a",
      "to": "b"
    }
  ]
}
`
	if got := buf.String(); got != want {
		t.Errorf("WriteJSON() =\n%s\nwant\n%s", got, want)
	}
}
