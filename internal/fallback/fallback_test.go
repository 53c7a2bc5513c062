package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smeggmann99/arrango-timetable/common/models/input"
	"github.com/smeggmann99/arrango-timetable/common/models/output"
	"github.com/smeggmann99/arrango-timetable/internal/indexing"
	"github.com/smeggmann99/arrango-timetable/internal/obslog"
	"github.com/smeggmann99/arrango-timetable/internal/timegrid"
	"github.com/smeggmann99/arrango-timetable/internal/variables"
)

func TestGenerateNeverFails(t *testing.T) {
	in := input.ExampleInputData
	slots, err := timegrid.Build(in.SchoolSettings)
	require.NoError(t, err)
	idx := indexing.Build(in, slots)
	m := variables.Build(in, idx, obslog.Silent())

	schedule := Generate(m, in, idx, 1, obslog.Silent())

	assert.Contains(t, schedule.ScheduleID, output.MockPrefix)
	assert.NotEmpty(t, schedule.Entries)
	for _, e := range schedule.Entries {
		assert.NotEmpty(t, e.ID)
		assert.NotEmpty(t, e.TeacherID)
		assert.NotEmpty(t, e.RoomID)
	}
}

func TestGenerateIsDeterministicForFixedSeed(t *testing.T) {
	in := input.ExampleInputData
	slots, err := timegrid.Build(in.SchoolSettings)
	require.NoError(t, err)
	idx := indexing.Build(in, slots)
	m := variables.Build(in, idx, obslog.Silent())

	first := Generate(m, in, idx, 42, obslog.Silent())
	second := Generate(m, in, idx, 42, obslog.Silent())

	require.Equal(t, len(first.Entries), len(second.Entries))
	for i := range first.Entries {
		a, b := first.Entries[i], second.Entries[i]
		assert.Equal(t, a.Day, b.Day)
		assert.Equal(t, a.StartTime, b.StartTime)
		assert.Equal(t, a.ClassID, b.ClassID)
		assert.Equal(t, a.SubjectID, b.SubjectID)
		assert.Equal(t, a.TeacherID, b.TeacherID)
	}
}

func TestGenerateWithoutRoomConstraintsUsesSyntheticRooms(t *testing.T) {
	in := input.ExampleInputData
	in.SchoolSettings.UseRoomConstraints = false
	slots, err := timegrid.Build(in.SchoolSettings)
	require.NoError(t, err)
	idx := indexing.Build(in, slots)
	m := variables.Build(in, idx, obslog.Silent())

	schedule := Generate(m, in, idx, 7, obslog.Silent())
	for _, e := range schedule.Entries {
		assert.Equal(t, indexing.SyntheticRoomID(e.ClassID), e.RoomID)
	}
}
