package analyze

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCyclicGraph matches every [*CyclicGraphError].
var ErrCyclicGraph = errors.New("graph contains a cycle")

// CyclicGraphError is returned by analyses that require an acyclic graph.
// Cycles holds every cycle found, in [FindCycles] order.
type CyclicGraphError struct {
	Cycles [][]string
}

func (e *CyclicGraphError) Error() string {
	if len(e.Cycles) == 0 {
		return ErrCyclicGraph.Error()
	}
	return fmt.Sprintf("graph contains %d cycle(s), first: %s",
		len(e.Cycles), FormatCycle(e.Cycles[0]))
}

// Is reports whether target is [ErrCyclicGraph].
func (e *CyclicGraphError) Is(target error) bool { return target == ErrCyclicGraph }

// FormatCycle renders a cycle with its closing edge, e.g. "A → B → A".
func FormatCycle(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	return strings.Join(append(slices.Clone(cycle), cycle[0]), " → ")
}
