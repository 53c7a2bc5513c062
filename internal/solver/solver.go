// Package solver implements spec.md §4.7's solver driver.
//
// The original system delegates to Google OR-Tools' CP-SAT. No Go binding
// for an equivalent integer-constraint solver appears anywhere in this
// module's reference corpus (see DESIGN.md), so this package implements an
// in-process substitute: a deterministic, seeded constructive pass
// generalized from the teacher's own least-loaded greedy placement
// (core/solver/solver.go's pickLeastLoadedDay), followed by a bounded
// local-search repair loop that relocates single assignment variables to
// reduce hard-constraint violations, within the configured wall-clock
// budget. The weighted objective is evaluated and reported in Result.Score
// but does not steer the search: moves are accepted on the hard-violation
// count alone, and no search runs once that count is zero.
package solver

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/smeggmann99/arrango-timetable/common/models/input"
	"github.com/smeggmann99/arrango-timetable/internal/constraints"
	"github.com/smeggmann99/arrango-timetable/internal/indexing"
	"github.com/smeggmann99/arrango-timetable/internal/objective"
	"github.com/smeggmann99/arrango-timetable/internal/solverconfig"
	"github.com/smeggmann99/arrango-timetable/internal/variables"
)

// Status mirrors the four outcomes spec.md §4.7 names. Only Optimal and
// Feasible allow extraction; Infeasible and Unknown both trigger the
// fallback generator.
type Status string

const (
	Optimal    Status = "OPTIMAL"
	Feasible   Status = "FEASIBLE"
	Infeasible Status = "INFEASIBLE"
	Unknown    Status = "UNKNOWN"
)

// Extractable reports whether a Status allows reading off a schedule.
func (s Status) Extractable() bool {
	return s == Optimal || s == Feasible
}

// Result is the solver driver's verdict plus the winning assignment.
type Result struct {
	Status     Status
	Assignment []bool
	Violations constraints.Violations
	Score      objective.Score
	Duration   time.Duration
}

type daySlot struct{ day, slot int }

// Solve runs the constructive-plus-repair search described above, bounded
// by cfg.Budget and cfg.MaxRepairIterations, seeded by seed for
// reproducibility.
func Solve(ctx context.Context, m *variables.Model, pruned constraints.Pruned, in input.InputData, idx indexing.Maps, cfg solverconfig.Config, seed int64, log zerolog.Logger) Result {
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, cfg.Budget)
	defer cancel()

	if structurallyInfeasible(m, idx) {
		log.Warn().Msg("class demand exceeds total available slots per week; skipping search")
		return Result{Status: Infeasible, Duration: time.Since(started)}
	}

	rng := rand.New(rand.NewSource(seed))
	keyIndex := buildKeyIndex(m)
	balance := in.SchoolSettings.EffectivePreferences().BalanceSubjectsAcrossDays

	assignment := construct(m, idx, in, pruned, keyIndex, balance, rng)
	violations := constraints.Count(m, assignment, in, idx, pruned, balance)

	improvedAny := false
	iterations := 0
	for violations.Total() > 0 && iterations < cfg.MaxRepairIterations {
		select {
		case <-ctx.Done():
			iterations = cfg.MaxRepairIterations
			continue
		default:
		}

		moved := attemptRepairMove(m, assignment, in, idx, pruned, keyIndex, balance, rng, violations.Total())
		iterations++
		if !moved {
			break
		}
		improvedAny = true
		violations = constraints.Count(m, assignment, in, idx, pruned, balance)
	}

	score := objective.Evaluate(m, assignment, in, idx, cfg.Weights)
	duration := time.Since(started)

	status := classify(violations, improvedAny, iterations, cfg.MaxRepairIterations)
	log.Info().
		Str("status", string(status)).
		Int("hard_violations", violations.Total()).
		Int("objective", score.Total).
		Dur("duration", duration).
		Msg("solver driver finished")

	return Result{Status: status, Assignment: assignment, Violations: violations, Score: score, Duration: duration}
}

func classify(v constraints.Violations, improvedAny bool, iterations, maxIterations int) Status {
	if v.Total() > 0 {
		if iterations >= maxIterations {
			return Unknown
		}
		return Infeasible
	}
	if !improvedAny {
		return Optimal
	}
	return Feasible
}

// structurallyInfeasible applies the cheap precondition spec.md §4.5(9)
// implies: a class's total weekly demand across all its subjects cannot
// exceed the number of (day, slot) cells it has available.
func structurallyInfeasible(m *variables.Model, idx indexing.Maps) bool {
	capacity := idx.NumDays() * idx.NumSlots()
	totalByClass := make(map[int]int)
	for cs, h := range m.Demand {
		totalByClass[cs.Class] += h
	}
	for _, total := range totalByClass {
		if total > capacity {
			return true
		}
	}
	return false
}

func buildKeyIndex(m *variables.Model) map[variables.Key]int {
	idx := make(map[variables.Key]int, len(m.Keys))
	for id, k := range m.Keys {
		idx[k] = id
	}
	return idx
}

func perDayLimit(demand int, balance bool) int {
	if !balance || demand < 2 {
		return 1
	}
	limit := demand - 1
	if limit > 2 {
		limit = 2
	}
	return limit
}

// construct builds an initial assignment via a randomized greedy pass: for
// every (class, subject) demand, a single teacher is picked (least-loaded
// first, generalizing the teacher pack's pickLeastLoadedDay heuristic), and
// each required hour is placed at the first slot in a seeded random
// permutation that keeps the teacher, class, and (if enabled) room free,
// respects daily/weekly teacher caps, the per-day same-subject limit, and
// the no-back-to-back rule.
func construct(m *variables.Model, idx indexing.Maps, in input.InputData, pruned constraints.Pruned, keyIndex map[variables.Key]int, balance bool, rng *rand.Rand) []bool {
	assignment := make([]bool, m.NumVars())

	teacherDayHours := make(map[[2]int]int)
	teacherWeekHours := make(map[int]int)
	teacherBusy := make(map[[3]int]bool)
	classBusy := make(map[[3]int]bool)
	roomBusy := make(map[[3]int]bool)
	subjectCount := make(map[[3]int]int)
	subjectSlots := make(map[[3]int][]int)

	order := variables.OrderedDemands(m)

	chosenTeacher := make(map[variables.ClassSubject]int, len(order))
	pickLoad := make(map[int]int)
	for _, cs := range order {
		t := pickLeastLoadedTeacher(m.TeachersFor[cs], pickLoad)
		chosenTeacher[cs] = t
		pickLoad[t] += m.Demand[cs]
	}

	daySlots := make([]daySlot, 0, idx.NumDays()*idx.NumSlots())
	for d := 0; d < idx.NumDays(); d++ {
		for s := 0; s < idx.NumSlots(); s++ {
			daySlots = append(daySlots, daySlot{d, s})
		}
	}

	for _, cs := range order {
		teacher := chosenTeacher[cs]
		demand := m.Demand[cs]
		limit := perDayLimit(demand, balance)
		placed := 0

		perm := rng.Perm(len(daySlots))
		for _, pi := range perm {
			if placed == demand {
				break
			}
			ds := daySlots[pi]

			tdsKey := [3]int{teacher, ds.day, ds.slot}
			if teacherBusy[tdsKey] {
				continue
			}
			cdsKey := [3]int{cs.Class, ds.day, ds.slot}
			if classBusy[cdsKey] {
				continue
			}
			if teacherDayHours[[2]int{teacher, ds.day}] >= idx.TeacherByIdx[teacher].EffectiveMaxHoursPerDay() {
				continue
			}
			if teacherWeekHours[teacher] >= idx.TeacherByIdx[teacher].EffectiveMaxHoursPerWeek() {
				continue
			}
			scKey := [3]int{cs.Class, ds.day, cs.Subject}
			if subjectCount[scKey] >= limit {
				continue
			}
			if hasAdjacent(subjectSlots[scKey], ds.slot) {
				continue
			}

			roomIdx := 0
			if idx.UseRoomConstraints {
				found := -1
				for r := 0; r < idx.NumRooms(); r++ {
					if !roomBusy[[3]int{r, ds.day, ds.slot}] {
						found = r
						break
					}
				}
				if found < 0 {
					continue
				}
				roomIdx = found
			}

			key := variables.Key{Class: cs.Class, Subject: cs.Subject, Teacher: teacher, Room: roomIdx, Day: ds.day, Slot: ds.slot}
			id, ok := keyIndex[key]
			if !ok || pruned.Forbidden(id) {
				continue
			}

			assignment[id] = true
			teacherBusy[tdsKey] = true
			classBusy[cdsKey] = true
			if idx.UseRoomConstraints {
				roomBusy[[3]int{roomIdx, ds.day, ds.slot}] = true
			}
			teacherDayHours[[2]int{teacher, ds.day}]++
			teacherWeekHours[teacher]++
			subjectCount[scKey]++
			subjectSlots[scKey] = append(subjectSlots[scKey], ds.slot)
			placed++
		}
	}

	return assignment
}

func pickLeastLoadedTeacher(teachers []int, load map[int]int) int {
	best := teachers[0]
	for _, t := range teachers[1:] {
		if load[t] < load[best] {
			best = t
		}
	}
	return best
}

func hasAdjacent(placed []int, candidate int) bool {
	for _, s := range placed {
		if s == candidate-1 || s == candidate+1 {
			return true
		}
	}
	return false
}

// attemptRepairMove tries to relocate one currently-assigned variable to an
// alternate (day, slot) — keeping class/subject/teacher/room fixed — and
// keeps the move only if it does not increase the total violation count. It
// returns false once candidateAttempts candidates yield no acceptable move,
// signaling the repair loop to stop.
func attemptRepairMove(m *variables.Model, assignment []bool, in input.InputData, idx indexing.Maps, pruned constraints.Pruned, keyIndex map[variables.Key]int, balance bool, rng *rand.Rand, currentTotal int) bool {
	const candidateAttempts = 40

	activeIDs := make([]int, 0)
	for id, on := range assignment {
		if on {
			activeIDs = append(activeIDs, id)
		}
	}
	if len(activeIDs) == 0 {
		return false
	}

	for attempt := 0; attempt < candidateAttempts; attempt++ {
		id := activeIDs[rng.Intn(len(activeIDs))]
		k := m.Keys[id]

		newDay := rng.Intn(idx.NumDays())
		newSlot := rng.Intn(idx.NumSlots())
		newKey := variables.Key{Class: k.Class, Subject: k.Subject, Teacher: k.Teacher, Room: k.Room, Day: newDay, Slot: newSlot}
		newID, ok := keyIndex[newKey]
		if !ok || newID == id || assignment[newID] || pruned.Forbidden(newID) {
			continue
		}

		assignment[id] = false
		assignment[newID] = true
		newTotal := constraints.Count(m, assignment, in, idx, pruned, balance).Total()
		if newTotal <= currentTotal {
			return true
		}
		assignment[id] = true
		assignment[newID] = false
	}
	return false
}
