// Package objective builds the weighted soft-penalty objective of
// spec.md §4.6: gap minimization for teachers and classes, plus a
// heavy-subject-in-the-afternoon penalty.
package objective

import (
	"github.com/smeggmann99/arrango-timetable/common/models/input"
	"github.com/smeggmann99/arrango-timetable/internal/indexing"
	"github.com/smeggmann99/arrango-timetable/internal/variables"
)

// Weights are the per-term multipliers. Defaults match spec.md §4.6
// (100 teacher gaps, 80 class gaps, 50 heavy-afternoon placements).
type Weights struct {
	TeacherGap     int
	ClassGap       int
	HeavyAfternoon int
}

// DefaultWeights returns spec.md's literal weighting.
func DefaultWeights() Weights {
	return Weights{TeacherGap: 100, ClassGap: 80, HeavyAfternoon: 50}
}

// Score is the breakdown and total of the weighted objective for a given
// assignment.
type Score struct {
	TeacherGaps     int
	ClassGaps       int
	HeavyAfternoon  int
	Total           int
}

// Evaluate computes the objective for assignment. A heavy-subject slot
// counts as "afternoon" when it starts at or after 12:00 (spec.md: "≥ 12").
func Evaluate(m *variables.Model, assignment []bool, in input.InputData, idx indexing.Maps, w Weights) Score {
	numSlots := idx.NumSlots()

	teacherActive := make(map[[2]int][]bool, len(idx.TeacherByIdx)) // (teacher,day) -> active per slot
	classActive := make(map[[2]int][]bool, len(idx.ClassByIdx))     // (class,day) -> active per slot

	for id, active := range assignment {
		if !active {
			continue
		}
		k := m.Keys[id]
		tKey := [2]int{k.Teacher, k.Day}
		if teacherActive[tKey] == nil {
			teacherActive[tKey] = make([]bool, numSlots)
		}
		teacherActive[tKey][k.Slot] = true

		cKey := [2]int{k.Class, k.Day}
		if classActive[cKey] == nil {
			classActive[cKey] = make([]bool, numSlots)
		}
		classActive[cKey][k.Slot] = true
	}

	var s Score
	s.TeacherGaps = countGaps(teacherActive, numSlots)
	s.ClassGaps = countGaps(classActive, numSlots)

	prefs := in.SchoolSettings.EffectivePreferences()
	if prefs.PreferMorningForHeavySubjects {
		heavy := make(map[int]bool, len(prefs.HeavySubjects))
		for _, sid := range prefs.HeavySubjects {
			if si, ok := idx.SubjectIndex[sid]; ok {
				heavy[si] = true
			}
		}
		for id, active := range assignment {
			if !active {
				continue
			}
			k := m.Keys[id]
			if !heavy[k.Subject] {
				continue
			}
			if idx.Slots[k.Slot].StartMinutes >= 12*60 {
				s.HeavyAfternoon++
			}
		}
	}

	s.Total = w.TeacherGap*s.TeacherGaps + w.ClassGap*s.ClassGaps + w.HeavyAfternoon*s.HeavyAfternoon
	return s
}

// countGaps counts, for every (actor, day) row, interior slots that are
// inactive while sandwiched between two active slots — spec.md's
// definition of a gap.
func countGaps(active map[[2]int][]bool, numSlots int) int {
	gaps := 0
	for _, row := range active {
		for i := 1; i < numSlots-1; i++ {
			if row[i-1] && !row[i] && row[i+1] {
				gaps++
			}
		}
	}
	return gaps
}
