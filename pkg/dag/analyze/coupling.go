package analyze

import (
	"slices"

	"github.com/matzehuels/waveplan/pkg/dag"
)

// CouplingMetric summarizes how entangled an application is.
type CouplingMetric struct {
	ID string `json:"id"`
	// Inbound counts the applications this one depends on.
	Inbound int `json:"inbound"`
	// Outbound counts the applications depending on this one.
	Outbound int `json:"outbound"`
	// Total is Inbound + Outbound.
	Total int `json:"total"`
}

// Coupling returns one metric per application, most coupled first. Equal
// totals are ordered by ID.
func Coupling(g *dag.Graph) []CouplingMetric {
	metrics := make([]CouplingMetric, 0, g.NodeCount())
	for _, id := range g.NodeIDs() {
		in, out := g.InDegree(id), g.OutDegree(id)
		metrics = append(metrics, CouplingMetric{ID: id, Inbound: in, Outbound: out, Total: in + out})
	}
	slices.SortStableFunc(metrics, func(a, b CouplingMetric) int { return b.Total - a.Total })
	return metrics
}
