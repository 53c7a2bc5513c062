// Package solverconfig centralizes the tunables spec.md leaves implicit —
// the solver's wall-clock budget, the objective weights, and the fallback
// generator's RNG seed — as a single defaults-returning struct, following
// the teacher pack's BusinessRules/DefaultBusinessRules() convention for
// keeping magic numbers out of the algorithm code.
package solverconfig

import (
	"time"

	"github.com/smeggmann99/arrango-timetable/internal/objective"
)

// Config carries every knob the core's search and fallback need.
type Config struct {
	// Budget bounds the solver driver's wall-clock search time
	// (spec.md §4.7: 60 seconds).
	Budget time.Duration

	// Weights are the objective builder's per-term multipliers
	// (spec.md §4.6).
	Weights objective.Weights

	// FallbackSeed seeds the greedy fallback generator's RNG. spec.md §9:
	// "make its seed an explicit parameter to preserve determinism."
	FallbackSeed int64

	// MaxRepairIterations bounds the local-search repair loop
	// independently of the wall-clock budget, so unit tests can run the
	// solver deterministically without sleeping for a full Budget.
	MaxRepairIterations int
}

// Default returns spec.md's literal defaults.
func Default() Config {
	return Config{
		Budget:              60 * time.Second,
		Weights:             objective.DefaultWeights(),
		FallbackSeed:        1,
		MaxRepairIterations: 20000,
	}
}
