// Package schedule partitions a dependency graph into migration waves.
//
// # Overview
//
// A wave is a batch of applications that can be migrated concurrently because
// every one of their prerequisites was migrated in an earlier wave. [Schedule]
// computes the shortest such sequence using level scheduling (a modified
// Kahn's algorithm): wave k holds every application whose prerequisites all
// sit in waves 1..k-1.
//
//	plan, err := schedule.Schedule(g)
//	for _, w := range plan.Waves {
//	    fmt.Println(w.Index, w.Nodes)
//	}
//
// # Forced Inclusions
//
// Real dependency declarations between independently owned systems are often
// contradictory ("A depends on B", "B depends on A"). When no application is
// ready, Schedule forces one member of a dependency cycle into the current
// wave and records a [ForcedInclusion] naming the node, the prerequisite edges
// it violates and the cycles it breaks. The plan is always complete; the
// violations are returned as data so they can be reviewed before execution.
//
// # Timeline
//
// [Estimate] turns a plan into a rough duration, comparing a fully sequential
// migration with the wave plan under a concurrency limit.
package schedule
