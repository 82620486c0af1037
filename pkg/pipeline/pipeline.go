// Package pipeline provides the planning pipeline shared by the CLI and the
// HTTP service.
//
// This package implements the complete load → analyze → schedule pipeline.
// By centralizing this logic, every entry point reports the same cycles,
// critical path and waves for the same inventory.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode an inventory (JSON, TOML or CSV) and build the graph
//  2. Analyze: Enumerate cycles, compute the critical path, the migration
//     order and coupling metrics
//  3. Schedule: Partition the applications into waves and estimate the
//     migration timeline
//
// Rendering ([Render]) turns a result into DOT, SVG, PNG, PDF or JSON.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	g, cfg, err := pipeline.Load("portfolio.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts := pipeline.Options{}
//	opts.ApplyPlanConfig(cfg)
//	result, err := runner.Run(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range result.Plan.Waves {
//	    fmt.Println(w.Index, w.Nodes)
//	}
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waveplan/pkg/dag"
	"github.com/matzehuels/waveplan/pkg/dag/analyze"
	"github.com/matzehuels/waveplan/pkg/dag/schedule"
	wio "github.com/matzehuels/waveplan/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWeeksPerWave is the assumed duration of one migration wave.
	DefaultWeeksPerWave = schedule.DefaultWeeksPerWave

	// DefaultConcurrency is the number of applications migrated at once.
	DefaultConcurrency = schedule.DefaultConcurrency

	// DefaultTopCoupling is the number of coupling metrics kept in a result.
	DefaultTopCoupling = 10
)

// Format constants for output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatDOT      = "dot"
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
)

// ValidReportFormats is the set of formats a plan report can be written in.
var ValidReportFormats = map[string]bool{
	FormatText:     true,
	FormatJSON:     true,
	FormatMarkdown: true,
}

// ValidRenderFormats is the set of supported diagram formats.
var ValidRenderFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a planning run.
// This struct supports JSON serialization for API requests.
type Options struct {
	WeeksPerWave int `json:"weeks_per_wave,omitempty"`
	Concurrency  int `json:"concurrency,omitempty"`
	TopCoupling  int `json:"top_coupling,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string `json:"run_id"`

	// Graph is the analyzed dependency graph.
	Graph *dag.Graph `json:"-"`

	// Cycles lists every dependency cycle. Empty for an acyclic graph.
	Cycles [][]string `json:"cycles"`

	// CriticalPath is the longest dependency chain. Nil when the graph is
	// cyclic; CriticalPathErr then holds the reason.
	CriticalPath    []string `json:"critical_path"`
	CriticalPathErr error    `json:"-"`

	// Order is a migration order honoring every dependency. Nil when the
	// graph is cyclic.
	Order []string `json:"order"`

	// Plan is the wave schedule.
	Plan *schedule.Plan `json:"plan"`

	// Coupling holds the most coupled applications, highest first.
	Coupling []analyze.CouplingMetric `json:"coupling"`

	// Timeline compares sequential and wave based migration durations.
	Timeline schedule.Timeline `json:"timeline"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int           `json:"nodes"`
	EdgeCount    int           `json:"edges"`
	CycleCount   int           `json:"cycles"`
	WaveCount    int           `json:"waves"`
	ForcedCount  int           `json:"forced"`
	AnalyzeTime  time.Duration `json:"analyze_ns"`
	ScheduleTime time.Duration `json:"schedule_ns"`
}

// Acyclic reports whether the analyzed graph had no cycles.
func (r *Result) Acyclic() bool { return len(r.Cycles) == 0 }

// Warnings returns human readable warnings about the result: one per
// cycle, then one per forced inclusion.
func (r *Result) Warnings() []string {
	var out []string
	for _, c := range r.Cycles {
		out = append(out, "dependency cycle: "+analyze.FormatCycle(c))
	}
	if r.Plan != nil {
		for _, f := range r.Plan.Forced {
			out = append(out, fmt.Sprintf("%s forced into wave %d ahead of %s",
				f.Node, f.Wave, prerequisites(f.Violated)))
		}
	}
	return out
}

func prerequisites(edges []dag.Edge) string {
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.From
	}
	return strings.Join(ids, ", ")
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateReportFormat checks that a report format is valid.
func ValidateReportFormat(format string) error {
	if !ValidReportFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: text, json, markdown)", format)
	}
	return nil
}

// ValidateRenderFormat checks that a diagram format is valid.
func ValidateRenderFormat(format string) error {
	if !ValidRenderFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateRenderFormats checks that all formats are valid.
func ValidateRenderFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateRenderFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ApplyPlanConfig fills unset options from an inventory's plan section.
// Options set explicitly (flags, request fields) take precedence.
func (o *Options) ApplyPlanConfig(c wio.PlanConfig) {
	if o.WeeksPerWave == 0 {
		o.WeeksPerWave = c.WeeksPerWave
	}
	if o.Concurrency == 0 {
		o.Concurrency = c.Concurrency
	}
}

// ValidateAndSetDefaults checks option ranges and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.WeeksPerWave < 0 {
		return fmt.Errorf("weeks_per_wave must not be negative, got %d", o.WeeksPerWave)
	}
	if o.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", o.Concurrency)
	}
	if o.TopCoupling < 0 {
		return fmt.Errorf("top_coupling must not be negative, got %d", o.TopCoupling)
	}

	if o.WeeksPerWave == 0 {
		o.WeeksPerWave = DefaultWeeksPerWave
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.TopCoupling == 0 {
		o.TopCoupling = DefaultTopCoupling
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}
