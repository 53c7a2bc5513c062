package objective

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

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 100, w.TeacherGap)
	assert.Equal(t, 80, w.ClassGap)
	assert.Equal(t, 50, w.HeavyAfternoon)
}

func TestEvaluateCountsGap(t *testing.T) {
	in := input.ExampleInputData
	slots, err := timegrid.Build(in.SchoolSettings)
	require.NoError(t, err)
	idx := indexing.Build(in, slots)
	m := variables.Build(in, idx, obslog.Silent())

	require.GreaterOrEqual(t, idx.NumSlots(), 3, "fixture needs at least 3 slots to form a gap")

	// Pick one teacher and turn on its slot-0 and slot-2 variables (room 0)
	// for the same (class, subject, day), leaving the middle slot inactive.
	var cs variables.ClassSubject
	for k := range m.Demand {
		cs = k
		break
	}
	teacher := m.TeachersFor[cs][0]
	day := 0

	assignment := make([]bool, m.NumVars())
	var firstID, thirdID int
	found := 0
	for _, id := range m.ByClassSubject[cs] {
		k := m.Keys[id]
		if k.Teacher != teacher || k.Day != day || k.Room != 0 {
			continue
		}
		if k.Slot == 0 {
			firstID = id
			found++
		}
		if k.Slot == 2 {
			thirdID = id
			found++
		}
	}
	require.Equal(t, 2, found)
	assignment[firstID] = true
	assignment[thirdID] = true

	score := Evaluate(m, assignment, in, idx, DefaultWeights())
	assert.GreaterOrEqual(t, score.TeacherGaps, 1)
	assert.GreaterOrEqual(t, score.ClassGaps, 1)
	assert.Equal(t, DefaultWeights().TeacherGap*score.TeacherGaps+DefaultWeights().ClassGap*score.ClassGaps+DefaultWeights().HeavyAfternoon*score.HeavyAfternoon, score.Total)
}

func TestEvaluateHeavyAfternoonPenalty(t *testing.T) {
	in := input.ExampleInputData
	prefs := input.SchedulingPreferences{PreferMorningForHeavySubjects: true, HeavySubjects: []string{"math"}}
	in.SchoolSettings.SchedulingPreferences = &prefs

	slots, err := timegrid.Build(in.SchoolSettings)
	require.NoError(t, err)
	idx := indexing.Build(in, slots)
	m := variables.Build(in, idx, obslog.Silent())

	var afternoonSlot = -1
	for si, s := range idx.Slots {
		if s.StartMinutes >= 12*60 {
			afternoonSlot = si
			break
		}
	}
	require.GreaterOrEqual(t, afternoonSlot, 0, "fixture needs an afternoon slot")

	mathIdx := idx.SubjectIndex["math"]
	class1 := idx.ClassIndex["class-1"]
	cs := variables.ClassSubject{Class: class1, Subject: mathIdx}

	assignment := make([]bool, m.NumVars())
	for _, id := range m.ByClassSubject[cs] {
		if m.Keys[id].Slot == afternoonSlot {
			assignment[id] = true
			break
		}
	}

	score := Evaluate(m, assignment, in, idx, DefaultWeights())
	assert.Equal(t, 1, score.HeavyAfternoon)
}
