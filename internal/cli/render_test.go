package cli

import (
	"io"
	"maps"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waveplan/pkg/cache"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG , dot ", []string{"svg", "dot"}},
		{"trailing comma", "png,", []string{"png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derived from input", "", "inventory/portfolio.toml", "inventory/portfolio"},
		{"input without extension", "", "portfolio", "portfolio"},
		{"output with format extension", "out/graph.svg", "portfolio.toml", "out/graph"},
		{"output without extension", "out/graph", "portfolio.toml", "out/graph"},
		{"output with other extension", "out/graph.v2", "portfolio.toml", "out/graph.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{
			name:    "single format with output",
			output:  "diagram.out",
			formats: []string{"svg"},
			want:    map[string]string{"svg": "diagram.out"},
		},
		{
			name:    "single format without output",
			formats: []string{"png"},
			want:    map[string]string{"png": "apps.png"},
		},
		{
			name:    "multiple formats share a base",
			output:  "out/graph.svg",
			formats: []string{"svg", "dot"},
			want:    map[string]string{"svg": "out/graph.svg", "dot": "out/graph.dot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, "apps.csv", tt.formats)
			if !maps.Equal(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpenArtifactCache(t *testing.T) {
	logger := log.New(io.Discard)

	if _, ok := openArtifactCache(logger, true).(cache.NullCache); !ok {
		t.Error("disabled cache should be a NullCache")
	}

	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	c := openArtifactCache(logger, false)
	defer c.Close()
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("enabled cache = %T, want *cache.FileCache", c)
	}
}
