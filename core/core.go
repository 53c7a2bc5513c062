// Package core is the facade spec.md §2 and §6 describe: a validate/generate
// pair wired over the timegrid, indexing, variables, constraints, objective,
// solver, extract and fallback packages. It owns the control flow and the
// error-category mapping of spec.md §7.
package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smeggmann99/arrango-timetable/common/models/input"
	"github.com/smeggmann99/arrango-timetable/common/models/output"
	"github.com/smeggmann99/arrango-timetable/internal/constraints"
	"github.com/smeggmann99/arrango-timetable/internal/extract"
	"github.com/smeggmann99/arrango-timetable/internal/fallback"
	"github.com/smeggmann99/arrango-timetable/internal/indexing"
	"github.com/smeggmann99/arrango-timetable/internal/obslog"
	"github.com/smeggmann99/arrango-timetable/internal/solver"
	"github.com/smeggmann99/arrango-timetable/internal/solverconfig"
	"github.com/smeggmann99/arrango-timetable/internal/timegrid"
	"github.com/smeggmann99/arrango-timetable/internal/validate"
	"github.com/smeggmann99/arrango-timetable/internal/variables"
)

// ConfigError means generate() cannot build a time grid from a
// school_settings block that passed Validate (in practice: the grid has
// zero lesson slots; bad time strings and non-positive durations are
// reported as InputError first). It is always returned as a Go error.
type ConfigError struct{ Reason string }

func (e *ConfigError) Error() string { return "config error: " + e.Reason }

// InputError wraps validate.Result.Issues when Validate failed. It is
// always returned as a Go error; generate() never runs the solver against
// an infeasible input.
type InputError struct{ Issues []string }

func (e *InputError) Error() string {
	return fmt.Sprintf("input error: %d issue(s), first: %s", len(e.Issues), firstOrEmpty(e.Issues))
}

func firstOrEmpty(issues []string) string {
	if len(issues) == 0 {
		return ""
	}
	return issues[0]
}

// solveFn indirects the solver driver call so tests can substitute a
// panicking stub to exercise Generate's recover() path without needing a
// genuinely malformed InputData to trigger one organically.
var solveFn = solver.Solve

// Validate runs the structural feasibility check of spec.md §4.3 without
// touching the solver.
func Validate(in input.InputData) validate.Result {
	return validate.Validate(in)
}

// Generate runs the full validate -> timegrid -> indexing -> variables ->
// constraints -> solver -> extract pipeline described in spec.md §2, falling
// back to the deterministic greedy generator (internal/fallback) whenever
// the solver driver does not return an extractable status. Per spec.md §7,
// an internal panic recovered mid-pipeline never propagates as a Go error
// with partial state: it surfaces as a Schedule whose ScheduleID carries
// output.ErrorPrefix plus a random 8-hex suffix, matching the
// <prefix>-<8 hex> format extract and fallback use, and has no entries.
//
// log is optional; a nil value runs with output discarded (obslog.Silent).
func Generate(ctx context.Context, in input.InputData, cfg solverconfig.Config, log *zerolog.Logger) (schedule output.Schedule, err error) {
	effectiveLog := obslog.Silent()
	if log != nil {
		effectiveLog = *log
	}

	defer func() {
		if r := recover(); r != nil {
			effectiveLog.Error().Interface("panic", r).Msg("generate: internal error recovered")
			schedule = output.Schedule{ScheduleID: output.ErrorPrefix + "-" + uuid.New().String()[:8]}
			err = nil
		}
	}()

	result := validate.Validate(in)
	if !result.Feasible {
		return output.Schedule{}, &InputError{Issues: result.Issues}
	}

	slots, errBuild := timegrid.Build(in.SchoolSettings)
	if errBuild != nil {
		return output.Schedule{}, &ConfigError{Reason: errBuild.Error()}
	}

	idx := indexing.Build(in, slots)
	model := variables.Build(in, idx, effectiveLog)
	pruned := constraints.Prune(model, in, idx, effectiveLog)

	for _, pair := range validate.NoTeacherCoverage(in) {
		effectiveLog.Warn().
			Str("class", pair[0]).
			Str("subject", pair[1]).
			Msg("class requires a catalogued subject no teacher covers")
	}

	balance := in.SchoolSettings.EffectivePreferences().BalanceSubjectsAcrossDays

	res := solveFn(ctx, model, pruned, in, idx, cfg, cfg.FallbackSeed, effectiveLog)
	if res.Status.Extractable() {
		sched := extract.Extract(model, res.Assignment, in, idx, pruned, balance, effectiveLog)
		return sched, nil
	}

	effectiveLog.Warn().
		Str("status", string(res.Status)).
		Msg("solver driver did not reach an extractable status; falling back to the greedy generator")
	return fallback.Generate(model, in, idx, cfg.FallbackSeed, effectiveLog), nil
}
