package engine

import (
	"time"
)

// TimeManager allocates a thinking budget across an iterative-deepening
// search: an optimum time it tries to stop near, and a hard maximum it
// never exceeds.
type TimeManager struct {
	optimumTime time.Duration
	maximumTime time.Duration
	startTime   time.Time
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init starts the clock for a search budgeted at thinkingBudget. A zero
// budget means search until max_depth completes or cancellation arrives,
// so both times are set far out.
func (tm *TimeManager) Init(thinkingBudget time.Duration) {
	tm.startTime = time.Now()

	if thinkingBudget <= 0 {
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	tm.optimumTime = thinkingBudget * 85 / 100
	tm.maximumTime = thinkingBudget

	if tm.optimumTime < 10*time.Millisecond {
		tm.optimumTime = 10 * time.Millisecond
	}
	if tm.maximumTime < 50*time.Millisecond {
		tm.maximumTime = 50 * time.Millisecond
	}
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// OptimumTime returns the target time for this move.
func (tm *TimeManager) OptimumTime() time.Duration {
	return tm.optimumTime
}

// MaximumTime returns the maximum time allowed.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.maximumTime
}

// ShouldStop returns true if the hard maximum has elapsed.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.maximumTime
}

// PastOptimum returns true once the optimum time has elapsed; iterative
// deepening uses this to decide whether starting another depth is worth it.
func (tm *TimeManager) PastOptimum() bool {
	return tm.Elapsed() >= tm.optimumTime
}

// AdjustForStability shortens the optimum when the best move has held
// steady for several consecutive completed depths.
func (tm *TimeManager) AdjustForStability(stability int) {
	switch {
	case stability >= 6:
		tm.optimumTime = tm.optimumTime * 40 / 100
	case stability >= 4:
		tm.optimumTime = tm.optimumTime * 60 / 100
	case stability >= 2:
		tm.optimumTime = tm.optimumTime * 80 / 100
	}
}

// AdjustForInstability extends the optimum when the best move keeps
// changing between completed depths, capped at the hard maximum.
func (tm *TimeManager) AdjustForInstability(changes int) {
	switch {
	case changes >= 4:
		tm.optimumTime = tm.optimumTime * 200 / 100
	case changes >= 2:
		tm.optimumTime = tm.optimumTime * 150 / 100
	}
	if tm.optimumTime > tm.maximumTime {
		tm.optimumTime = tm.maximumTime
	}
}
