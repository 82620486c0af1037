package schedule

import (
	"errors"
	"fmt"
)

// ErrSchedulerInvariant matches every [*SchedulerInvariantError].
var ErrSchedulerInvariant = errors.New("scheduler invariant violated")

// SchedulerInvariantError reports a defect in wave assignment: the scheduler
// would need more waves than there are nodes, or produced a plan that fails
// [Plan.Verify]. It never results from user input.
type SchedulerInvariantError struct {
	Reason    string
	Waves     int
	Remaining []string
}

func (e *SchedulerInvariantError) Error() string {
	if len(e.Remaining) > 0 {
		return fmt.Sprintf("%s: %s after %d waves (%d unscheduled)",
			ErrSchedulerInvariant, e.Reason, e.Waves, len(e.Remaining))
	}
	return fmt.Sprintf("%s: %s", ErrSchedulerInvariant, e.Reason)
}

// Is reports whether target is [ErrSchedulerInvariant].
func (e *SchedulerInvariantError) Is(target error) bool { return target == ErrSchedulerInvariant }
