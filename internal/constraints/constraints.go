// Package constraints composes the hard-constraint families of spec.md
// §4.5 over a materialized variables.Model: a domain-pruning pass that
// forces structurally-forbidden variables to zero (breaks, free periods,
// teacher availability), and a violation counter the solver and the
// self-auditor both use to judge a candidate assignment.
package constraints

import (
	"github.com/rs/zerolog"

	"github.com/smeggmann99/arrango-timetable/common/models/input"
	"github.com/smeggmann99/arrango-timetable/internal/indexing"
	"github.com/smeggmann99/arrango-timetable/internal/timegrid"
	"github.com/smeggmann99/arrango-timetable/internal/variables"
)

// Pruned is the set of decision variables forced to zero before search
// ever starts, split by the family that forced them (for self-audit
// categorization).
type Pruned struct {
	Breaks       map[int]bool
	FreePeriods  map[int]bool
	Availability map[int]bool
}

// Forbidden reports whether a variable is forced to zero by any family.
func (p Pruned) Forbidden(id int) bool {
	return p.Breaks[id] || p.FreePeriods[id] || p.Availability[id]
}

// Prune computes the forced-zero variable sets. Breaks is defensive per
// spec.md §4.5(6): the time grid builder (§4.1) already excludes
// break-overlapping slots, so this should always be empty, but it is
// computed anyway in case a future slot source skips that step.
func Prune(m *variables.Model, in input.InputData, idx indexing.Maps, log zerolog.Logger) Pruned {
	p := Pruned{
		Breaks:       make(map[int]bool),
		FreePeriods:  make(map[int]bool),
		Availability: make(map[int]bool),
	}

	breakWindows := computeBreakWindows(in.SchoolSettings)
	for id, k := range m.Keys {
		slot := idx.Slots[k.Slot]
		for _, w := range breakWindows {
			if w.overlaps(slot.StartMinutes, slot.EndMinutes) {
				p.Breaks[id] = true
			}
		}
	}
	if len(p.Breaks) > 0 {
		log.Warn().Int("count", len(p.Breaks)).Msg("time grid produced slots overlapping a break window; forcing them to zero")
	}

	for _, fp := range in.SchoolSettings.FreePeriods {
		fpStart, err := timegrid.ParseTime(fp.StartTime)
		if err != nil {
			continue
		}
		fpEnd := fpStart + fp.Duration
		for di, dayName := range idx.DayByIdx {
			if !fp.AppliesToDay(dayName) {
				continue
			}
			for si, slot := range idx.Slots {
				if !(slot.StartMinutes < fpEnd && slot.EndMinutes > fpStart) {
					continue
				}
				for ci, class := range idx.ClassByIdx {
					if !fp.AppliesToClass(class.ID) {
						continue
					}
					for _, id := range m.ByClassDaySlot[variables.ClassDaySlot{Class: ci, Day: di, Slot: si}] {
						p.FreePeriods[id] = true
					}
				}
			}
		}
	}

	for ti, t := range idx.TeacherByIdx {
		if len(t.Availability) == 0 {
			continue // empty availability means no restriction
		}
		for di, dayName := range idx.DayByIdx {
			windows := t.Availability[dayName]
			for si, slot := range idx.Slots {
				allowed := false
				for _, w := range windows {
					if w.StartTime == slot.StartTime && w.EndTime == slot.EndTime {
						allowed = true
						break
					}
				}
				if allowed {
					continue
				}
				for _, id := range m.ByTeacherDaySlot[variables.TeacherDaySlot{Teacher: ti, Day: di, Slot: si}] {
					p.Availability[id] = true
				}
			}
		}
	}

	return p
}

type timeWindow struct{ start, end int }

func (w timeWindow) overlaps(start, end int) bool {
	return start < w.end && end > w.start
}

func computeBreakWindows(s input.SchoolSettings) []timeWindow {
	var windows []timeWindow
	if s.HasBreakfastBreak {
		if start, err := timegrid.ParseTime(s.BreakfastBreakStartTime); err == nil {
			windows = append(windows, timeWindow{start, start + s.BreakfastBreakDuration})
		}
	}
	if start, err := timegrid.ParseTime(s.LunchBreakStartTime); err == nil {
		windows = append(windows, timeWindow{start, start + s.LunchBreakDuration})
	}
	return windows
}

// Violations tallies, per hard-constraint family, how far a candidate
// assignment is from satisfying it. Total() == 0 iff every hard constraint
// in spec.md §4.5 is satisfied.
type Violations struct {
	SubjectHours       int
	TeacherConsistency int
	TeacherOverlap     int
	TeacherDailyCap    int
	TeacherWeeklyCap   int
	ClassSingleTrack   int
	RoomOverlap        int
	Breaks             int
	FreePeriods        int
	DailyLessonsRange  int
	ExactLessonsPerDay int
	NoRepeatSubject    int
	NoBackToBack       int
	Availability       int
}

// Total sums every family's violation count.
func (v Violations) Total() int {
	return v.SubjectHours + v.TeacherConsistency + v.TeacherOverlap + v.TeacherDailyCap +
		v.TeacherWeeklyCap + v.ClassSingleTrack + v.RoomOverlap + v.Breaks + v.FreePeriods +
		v.DailyLessonsRange + v.ExactLessonsPerDay + v.NoRepeatSubject + v.NoBackToBack + v.Availability
}

// Count evaluates every hard constraint family against assignment.
// balanceSubjectsAcrossDays selects whether family 9 (no-repeat-subject)
// replaces its one-per-day cap with the balanced-distribution cap
// min(2, hoursPerWeek-1) for subjects with hoursPerWeek >= 2; that cap
// allows up to two lessons of such a subject per day.
func Count(m *variables.Model, assignment []bool, in input.InputData, idx indexing.Maps, pruned Pruned, balanceSubjectsAcrossDays bool) Violations {
	var v Violations

	for cs, demand := range m.Demand {
		sum := sumAssigned(assignment, m.ByClassSubject[cs])
		v.SubjectHours += absInt(sum - demand)
	}

	for cs, teachers := range m.TeachersFor {
		usedTeachers := 0
		for _, ti := range teachers {
			if teacherHasHoursFor(assignment, m, cs, ti) {
				usedTeachers++
			}
		}
		if usedTeachers > 1 {
			v.TeacherConsistency += usedTeachers - 1
		}
	}

	for _, ids := range m.ByTeacherDaySlot {
		sum := sumAssigned(assignment, ids)
		if sum > 1 {
			v.TeacherOverlap += sum - 1
		}
	}

	for td, ids := range m.ByTeacherDay {
		sum := sumAssigned(assignment, ids)
		cap := idx.TeacherByIdx[td.Teacher].EffectiveMaxHoursPerDay()
		if sum > cap {
			v.TeacherDailyCap += sum - cap
		}
	}

	for ti, ids := range m.ByTeacher {
		sum := sumAssigned(assignment, ids)
		cap := idx.TeacherByIdx[ti].EffectiveMaxHoursPerWeek()
		if sum > cap {
			v.TeacherWeeklyCap += sum - cap
		}
	}

	for _, ids := range m.ByClassDaySlot {
		sum := sumAssigned(assignment, ids)
		if sum > 1 {
			v.ClassSingleTrack += sum - 1
		}
	}

	if idx.UseRoomConstraints {
		for _, ids := range m.ByRoomDaySlot {
			sum := sumAssigned(assignment, ids)
			if sum > 1 {
				v.RoomOverlap += sum - 1
			}
		}
	}

	for id := range pruned.Breaks {
		if assignment[id] {
			v.Breaks++
		}
	}
	for id := range pruned.FreePeriods {
		if assignment[id] {
			v.FreePeriods++
		}
	}
	for id := range pruned.Availability {
		if assignment[id] {
			v.Availability++
		}
	}

	v.DailyLessonsRange += dailyLessonsRangeViolations(m, assignment, in, idx)
	v.ExactLessonsPerDay += exactLessonsPerDayViolations(m, assignment, in, idx)
	v.NoRepeatSubject += noRepeatSubjectViolations(m, assignment, balanceSubjectsAcrossDays)
	v.NoBackToBack += noBackToBackViolations(m, assignment, idx)

	return v
}

func teacherHasHoursFor(assignment []bool, m *variables.Model, cs variables.ClassSubject, teacher int) bool {
	for _, id := range m.ByClassSubject[cs] {
		if m.Keys[id].Teacher == teacher && assignment[id] {
			return true
		}
	}
	return false
}

func dailyLessonsRangeViolations(m *variables.Model, assignment []bool, in input.InputData, idx indexing.Maps) int {
	total := 0
	minPerDay := in.SchoolSettings.MinSubjectsPerDay
	maxPerDay := in.SchoolSettings.EffectiveMaxSubjectsPerDay()

	for ci, subjects := range m.DemandedSubjectsByClass {
		for di := range idx.DayByIdx {
			distinct := 0
			for _, si := range subjects {
				csd := variables.ClassSubjectDay{Class: ci, Subject: si, Day: di}
				if sumAssigned(assignment, m.ByClassSubjectDay[csd]) > 0 {
					distinct++
				}
			}
			if minPerDay > 0 && distinct < minPerDay {
				total += minPerDay - distinct
			}
			if maxPerDay > 0 && distinct > maxPerDay {
				total += distinct - maxPerDay
			}
		}
	}
	return total
}

func exactLessonsPerDayViolations(m *variables.Model, assignment []bool, in input.InputData, idx indexing.Maps) int {
	exact := in.SchoolSettings.ExactLessonsPerDay
	if exact <= 0 {
		return 0
	}
	total := 0
	for ci := range idx.ClassByIdx {
		for di := range idx.DayByIdx {
			sum := 0
			for si := range idx.Slots {
				sum += sumAssigned(assignment, m.ByClassDaySlot[variables.ClassDaySlot{Class: ci, Day: di, Slot: si}])
			}
			total += absInt(sum - exact)
		}
	}
	return total
}

func noRepeatSubjectViolations(m *variables.Model, assignment []bool, balance bool) int {
	total := 0
	for csd, ids := range m.ByClassSubjectDay {
		sum := sumAssigned(assignment, ids)
		limit := 1
		if balance {
			if h := m.Demand[variables.ClassSubject{Class: csd.Class, Subject: csd.Subject}]; h >= 2 {
				limit = h - 1
				if limit > 2 {
					limit = 2
				}
			}
		}
		if sum > limit {
			total += sum - limit
		}
	}
	return total
}

func noBackToBackViolations(m *variables.Model, assignment []bool, idx indexing.Maps) int {
	total := 0
	numSlots := idx.NumSlots()
	for _, ids := range m.ByClassSubjectDay {
		activeBySlot := make(map[int]bool, len(ids))
		for _, id := range ids {
			if assignment[id] {
				activeBySlot[m.Keys[id].Slot] = true
			}
		}
		for s := 0; s < numSlots-1; s++ {
			if activeBySlot[s] && activeBySlot[s+1] {
				total++
			}
		}
	}
	return total
}

func sumAssigned(assignment []bool, ids []int) int {
	n := 0
	for _, id := range ids {
		if assignment[id] {
			n++
		}
	}
	return n
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
