package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smeggmann99/arrango-timetable/common/models/input"
	"github.com/smeggmann99/arrango-timetable/internal/constraints"
	"github.com/smeggmann99/arrango-timetable/internal/indexing"
	"github.com/smeggmann99/arrango-timetable/internal/obslog"
	"github.com/smeggmann99/arrango-timetable/internal/objective"
	"github.com/smeggmann99/arrango-timetable/internal/solverconfig"
	"github.com/smeggmann99/arrango-timetable/internal/timegrid"
	"github.com/smeggmann99/arrango-timetable/internal/variables"
)

func buildAll(t *testing.T, in input.InputData) (*variables.Model, indexing.Maps, constraints.Pruned) {
	t.Helper()
	slots, err := timegrid.Build(in.SchoolSettings)
	require.NoError(t, err)
	idx := indexing.Build(in, slots)
	m := variables.Build(in, idx, obslog.Silent())
	pruned := constraints.Prune(m, in, idx, obslog.Silent())
	return m, idx, pruned
}

// TestSolveExampleReachesExtractable covers spec.md's S1 trivial-feasible
// scenario: the example fixture should resolve to Optimal or Feasible with
// zero hard violations.
func TestSolveExampleReachesExtractable(t *testing.T) {
	in := input.ExampleInputData
	m, idx, pruned := buildAll(t, in)

	cfg := solverconfig.Config{
		Budget:              5 * time.Second,
		Weights:             objective.DefaultWeights(),
		FallbackSeed:        1,
		MaxRepairIterations: 2000,
	}

	result := Solve(context.Background(), m, pruned, in, idx, cfg, 1, obslog.Silent())

	assert.True(t, result.Status.Extractable(), "status was %s with %d violations", result.Status, result.Violations.Total())
	assert.Equal(t, 0, result.Violations.Total())
}

// TestSolveOverdemandIsInfeasible covers spec.md's S2 scenario: a class
// whose combined weekly demand exceeds its available (day, slot) capacity
// must short-circuit to Infeasible without exhausting the repair budget.
func TestSolveOverdemandIsInfeasible(t *testing.T) {
	in := input.ExampleInputData
	in.Subjects = append([]input.Subject{}, in.Subjects...)
	for i := range in.Subjects {
		if in.Subjects[i].ID == "english" {
			in.Subjects[i].HoursPerWeek = 1000
		}
	}

	m, idx, pruned := buildAll(t, in)
	cfg := solverconfig.Config{Budget: time.Second, Weights: objective.DefaultWeights(), FallbackSeed: 1, MaxRepairIterations: 100}

	result := Solve(context.Background(), m, pruned, in, idx, cfg, 1, obslog.Silent())
	assert.Equal(t, Infeasible, result.Status)
	assert.False(t, result.Status.Extractable())
}

func TestStatusExtractable(t *testing.T) {
	assert.True(t, Optimal.Extractable())
	assert.True(t, Feasible.Extractable())
	assert.False(t, Infeasible.Extractable())
	assert.False(t, Unknown.Extractable())
}
