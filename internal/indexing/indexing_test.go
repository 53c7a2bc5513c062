package indexing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smeggmann99/arrango-timetable/common/models/input"
	"github.com/smeggmann99/arrango-timetable/internal/timegrid"
)

func TestBuildWithRoomConstraints(t *testing.T) {
	in := input.ExampleInputData
	slots, err := timegrid.Build(in.SchoolSettings)
	require.NoError(t, err)

	idx := Build(in, slots)

	assert.True(t, idx.UseRoomConstraints)
	assert.Equal(t, len(in.Teachers), len(idx.TeacherByIdx))
	assert.Equal(t, len(in.Classes), len(idx.ClassByIdx))
	assert.Equal(t, len(in.Subjects), len(idx.SubjectByIdx))
	assert.Equal(t, len(in.Rooms), idx.NumRooms())
	assert.Equal(t, len(in.SchoolSettings.WorkingDays), idx.NumDays())
	assert.Equal(t, len(slots), idx.NumSlots())

	for ci, c := range idx.ClassByIdx {
		assert.Equal(t, ci, idx.ClassIndex[c.ID])
	}
}

func TestBuildWithoutRoomConstraints(t *testing.T) {
	in := input.ExampleInputData
	in.SchoolSettings.UseRoomConstraints = false
	slots, err := timegrid.Build(in.SchoolSettings)
	require.NoError(t, err)

	idx := Build(in, slots)

	assert.False(t, idx.UseRoomConstraints)
	require.Len(t, idx.RoomByIdx, 1)
	assert.Equal(t, PseudoRoomID, idx.RoomByIdx[0])
	assert.Equal(t, "room-for-class-1", SyntheticRoomID("class-1"))
}
