package engine

import "time"

// Difficulty selects the search depth policy for a CPU move request.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	Random
)

// String returns the difficulty's name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	case Random:
		return "Random"
	default:
		return "Unknown"
	}
}

// Depth-policy constants for each fixed difficulty. Hard uses MaxDepth
// from the CpuConfig instead of a fixed constant, defaulting to
// DefaultHardDepth when the caller leaves MaxDepth at zero.
const (
	EasyDepth      = 2
	MediumDepth    = 4
	DefaultHardDepth = 6
)

// CpuConfig parameterizes a single CPU move request.
type CpuConfig struct {
	Difficulty Difficulty

	// MaxDepth is the search depth used for Hard difficulty. Zero means
	// DefaultHardDepth. Ignored for Easy, Medium, and Random.
	MaxDepth int

	// Randomize enables post-search randomization: among root moves within
	// a small window of the best score, one is chosen uniformly rather
	// than always the single top-scoring move. This is independent of the
	// Random difficulty, which skips search entirely.
	Randomize bool

	// ThinkingBudget caps wall-clock search time. Zero means no deadline
	// beyond MaxDepth completing.
	ThinkingBudget time.Duration
}

// depth resolves the difficulty to a concrete search depth. Callers must
// not call this for Random, which never searches.
func (c CpuConfig) depth() int {
	switch c.Difficulty {
	case Easy:
		return EasyDepth
	case Medium:
		return MediumDepth
	default: // Hard
		if c.MaxDepth > 0 {
			return c.MaxDepth
		}
		return DefaultHardDepth
	}
}

// randomizationWindow is the centipawn tolerance used to decide which root
// moves count as "near the best" when Randomize is set.
const randomizationWindow = 50

// randomizationTopN caps how many near-best root moves are eligible for
// uniform random selection.
const randomizationTopN = 5
