package constraints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smeggmann99/arrango-timetable/common/models/input"
	"github.com/smeggmann99/arrango-timetable/internal/indexing"
	"github.com/smeggmann99/arrango-timetable/internal/obslog"
	"github.com/smeggmann99/arrango-timetable/internal/timegrid"
	"github.com/smeggmann99/arrango-timetable/internal/variables"
)

func setup(t *testing.T, in input.InputData) (*variables.Model, indexing.Maps, Pruned) {
	t.Helper()
	slots, err := timegrid.Build(in.SchoolSettings)
	require.NoError(t, err)
	idx := indexing.Build(in, slots)
	m := variables.Build(in, idx, obslog.Silent())
	pruned := Prune(m, in, idx, obslog.Silent())
	return m, idx, pruned
}

func TestPruneRespectsTeacherAvailability(t *testing.T) {
	in := input.ExampleInputData
	in.Teachers = append([]input.Teacher{}, in.Teachers...)
	in.Teachers[0].Availability = map[string][]input.AvailabilityWindow{
		"MONDAY": {{StartTime: "08:00", EndTime: "09:00"}},
	}

	m, idx, pruned := setup(t, in)

	teacherIdx := idx.TeacherIndex[in.Teachers[0].ID]
	mondayIdx := idx.DayIndex["MONDAY"]

	sawAllowedSlot := false
	for id, k := range m.Keys {
		if k.Teacher != teacherIdx || k.Day != mondayIdx {
			continue
		}
		slot := idx.Slots[k.Slot]
		if slot.StartTime == "08:00" {
			assert.False(t, pruned.Forbidden(id))
			sawAllowedSlot = true
		} else {
			assert.True(t, pruned.Forbidden(id), "slot %s should be forced to zero", slot.StartTime)
		}
	}
	assert.True(t, sawAllowedSlot)

	tuesdayIdx := idx.DayIndex["TUESDAY"]
	for id, k := range m.Keys {
		if k.Teacher == teacherIdx && k.Day == tuesdayIdx {
			assert.True(t, pruned.Forbidden(id), "teacher has no availability window on tuesday")
		}
	}
}

func TestCountDetectsTeacherOverlap(t *testing.T) {
	in := input.ExampleInputData
	m, idx, pruned := setup(t, in)

	assignment := make([]bool, m.NumVars())
	// Find two variables sharing the same teacher/day/slot but different
	// classes, and turn both on.
	byTDS := make(map[[3]int][]int)
	for id, k := range m.Keys {
		key := [3]int{k.Teacher, k.Day, k.Slot}
		byTDS[key] = append(byTDS[key], id)
	}

	var overlapIDs []int
	for _, ids := range byTDS {
		classesSeen := map[int]bool{}
		var distinct []int
		for _, id := range ids {
			c := m.Keys[id].Class
			if !classesSeen[c] {
				classesSeen[c] = true
				distinct = append(distinct, id)
			}
		}
		if len(distinct) >= 2 {
			overlapIDs = distinct[:2]
			break
		}
	}
	require.NotNil(t, overlapIDs, "fixture should contain an overlap-capable pair")

	for _, id := range overlapIDs {
		assignment[id] = true
	}

	balance := in.SchoolSettings.EffectivePreferences().BalanceSubjectsAcrossDays
	v := Count(m, assignment, in, idx, pruned, balance)
	assert.GreaterOrEqual(t, v.TeacherOverlap, 1)
}

func TestCountZeroOnEmptyAssignment(t *testing.T) {
	in := input.ExampleInputData
	m, idx, pruned := setup(t, in)
	assignment := make([]bool, m.NumVars())

	balance := in.SchoolSettings.EffectivePreferences().BalanceSubjectsAcrossDays
	v := Count(m, assignment, in, idx, pruned, balance)

	// An all-zero assignment still violates SubjectHours (demand unmet) but
	// none of the mutual-exclusion families.
	assert.Equal(t, 0, v.TeacherOverlap)
	assert.Equal(t, 0, v.ClassSingleTrack)
	assert.Equal(t, 0, v.RoomOverlap)
	assert.Greater(t, v.SubjectHours, 0)
}
