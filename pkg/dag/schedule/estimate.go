package schedule

// Default planning parameters.
const (
	DefaultWeeksPerWave = 4
	DefaultConcurrency  = 5
)

// Timeline compares a strictly sequential migration with a wave plan.
type Timeline struct {
	WeeksPerWave    int     `json:"weeks_per_wave"`
	Concurrency     int     `json:"concurrency"`
	Applications    int     `json:"applications"`
	Waves           int     `json:"waves"`
	SequentialWeeks int     `json:"sequential_weeks"`
	ParallelWeeks   int     `json:"parallel_weeks"`
	SavedWeeks      int     `json:"saved_weeks"`
	SavedPercent    float64 `json:"saved_percent"`
}

// Estimate computes a timeline for p. A sequential migration takes
// weeksPerWave for each application. The wave plan runs up to concurrency
// migrations at once, so a wave larger than concurrency takes several
// rounds. A concurrency of zero or less means no limit, and the parallel
// figure is then simply the wave count times weeksPerWave.
func Estimate(p *Plan, weeksPerWave, concurrency int) Timeline {
	t := Timeline{
		WeeksPerWave: weeksPerWave,
		Concurrency:  concurrency,
		Applications: p.NodeCount(),
		Waves:        len(p.Waves),
	}
	t.SequentialWeeks = t.Applications * weeksPerWave

	for _, w := range p.Waves {
		rounds := 1
		if concurrency > 0 {
			rounds = (len(w.Nodes) + concurrency - 1) / concurrency
		}
		t.ParallelWeeks += rounds * weeksPerWave
	}

	t.SavedWeeks = t.SequentialWeeks - t.ParallelWeeks
	if t.SequentialWeeks > 0 {
		t.SavedPercent = float64(t.SavedWeeks) / float64(t.SequentialWeeks) * 100
	}
	return t
}
