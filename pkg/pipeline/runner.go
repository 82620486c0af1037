package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/waveplan/pkg/dag"
	"github.com/matzehuels/waveplan/pkg/dag/analyze"
	"github.com/matzehuels/waveplan/pkg/dag/schedule"
	"github.com/matzehuels/waveplan/pkg/observability"
)

// Runner executes planning runs.
//
// The Runner is stateless except for its logger - it doesn't store results.
// Multiple goroutines can safely use the same Runner with different graphs.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, the default logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Run executes the analyze → schedule pipeline on g.
//
// A cyclic graph is not an error: the result then has no critical path and
// no migration order, and the plan records forced inclusions. Run returns an
// error only for invalid options, a cancelled context or a scheduler
// invariant violation.
func (r *Runner) Run(ctx context.Context, g *dag.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID: uuid.NewString(),
		Graph: g,
	}
	logger := opts.Logger.With("run", result.RunID)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	// Stage 1: Analyze
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	analyzeStart := time.Now()
	observability.Planner().OnAnalyzeStart(ctx, g.NodeCount(), g.EdgeCount())
	r.Analyze(g, opts, result)
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.Stats.CycleCount = len(result.Cycles)
	observability.Planner().OnAnalyzeComplete(ctx, len(result.Cycles), result.Stats.AnalyzeTime, nil)

	logger.Info("analyzed dependencies",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cycles", len(result.Cycles),
		"duration", result.Stats.AnalyzeTime)
	if result.CriticalPathErr != nil {
		logger.Warn("no critical path", "reason", "graph is cyclic")
	} else {
		logger.Debug("critical path", "length", len(result.CriticalPath), "path", result.CriticalPath)
	}

	// Stage 2: Schedule
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scheduleStart := time.Now()
	observability.Planner().OnScheduleStart(ctx, g.NodeCount())
	plan, err := schedule.Schedule(g)
	result.Stats.ScheduleTime = time.Since(scheduleStart)
	if err != nil {
		observability.Planner().OnScheduleComplete(ctx, 0, 0, result.Stats.ScheduleTime, err)
		return nil, fmt.Errorf("schedule: %w", err)
	}
	result.Plan = plan
	result.Stats.WaveCount = len(plan.Waves)
	result.Stats.ForcedCount = len(plan.Forced)
	result.Timeline = schedule.Estimate(plan, opts.WeeksPerWave, opts.Concurrency)
	observability.Planner().OnScheduleComplete(ctx, len(plan.Waves), len(plan.Forced), result.Stats.ScheduleTime, nil)

	logger.Info("scheduled waves",
		"waves", len(plan.Waves),
		"forced", len(plan.Forced),
		"duration", result.Stats.ScheduleTime)
	for _, f := range plan.Forced {
		logger.Warn("forced inclusion", "node", f.Node, "wave", f.Wave, "violated", len(f.Violated))
	}

	return result, nil
}

// Analyze fills the analysis fields of result: cycles, critical path,
// migration order and coupling metrics.
func (r *Runner) Analyze(g *dag.Graph, opts Options, result *Result) {
	result.Cycles = analyze.FindCycles(g)
	if result.Cycles == nil {
		result.Cycles = [][]string{}
	}

	// The cycle scan above already decides acyclicity.
	if len(result.Cycles) > 0 {
		result.CriticalPathErr = &analyze.CyclicGraphError{Cycles: result.Cycles}
	} else {
		result.CriticalPath, result.CriticalPathErr = analyze.LongestPath(g)
		result.Order, _ = analyze.TopologicalOrder(g)
	}

	coupling := analyze.Coupling(g)
	if opts.TopCoupling > 0 && len(coupling) > opts.TopCoupling {
		coupling = coupling[:opts.TopCoupling]
	}
	result.Coupling = coupling
}

// IsCyclic reports whether err stems from a cyclic graph.
func IsCyclic(err error) bool {
	return errors.Is(err, analyze.ErrCyclicGraph)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
