// Package indexing builds dense 0-based integer indices for every domain
// axis (teacher/class/subject/room/day/slot) so downstream components
// reason over small integers and look up identifiers only at extraction.
package indexing

import (
	"github.com/smeggmann99/arrango-timetable/common/models/input"
	"github.com/smeggmann99/arrango-timetable/internal/timegrid"
)

// PseudoRoomID is the synthetic room identifier used as the single index-0
// room when the input disables room constraints.
const PseudoRoomID = "__no_room_constraints__"

// Maps is the set of bijections every other component indexes through.
type Maps struct {
	TeacherIndex map[string]int
	TeacherByIdx []input.Teacher

	ClassIndex map[string]int
	ClassByIdx []input.Class

	SubjectIndex map[string]int
	SubjectByIdx []input.Subject

	RoomIndex map[string]int
	RoomByIdx []string // room IDs; singleton {PseudoRoomID} when room constraints are off

	DayIndex map[string]int
	DayByIdx []string

	Slots []timegrid.Slot

	UseRoomConstraints bool
}

// Build constructs all index maps from the validated input record and the
// already-generated time grid.
func Build(in input.InputData, slots []timegrid.Slot) Maps {
	m := Maps{
		TeacherIndex: make(map[string]int, len(in.Teachers)),
		ClassIndex:   make(map[string]int, len(in.Classes)),
		SubjectIndex: make(map[string]int, len(in.Subjects)),
		RoomIndex:    make(map[string]int),
		DayIndex:     make(map[string]int, len(in.SchoolSettings.WorkingDays)),
		Slots:        slots,
		UseRoomConstraints: in.SchoolSettings.UseRoomConstraints,
	}

	for _, t := range in.Teachers {
		m.TeacherIndex[t.ID] = len(m.TeacherByIdx)
		m.TeacherByIdx = append(m.TeacherByIdx, t)
	}
	for _, c := range in.Classes {
		m.ClassIndex[c.ID] = len(m.ClassByIdx)
		m.ClassByIdx = append(m.ClassByIdx, c)
	}
	for _, s := range in.Subjects {
		m.SubjectIndex[s.ID] = len(m.SubjectByIdx)
		m.SubjectByIdx = append(m.SubjectByIdx, s)
	}

	if in.SchoolSettings.UseRoomConstraints {
		for _, r := range in.Rooms {
			m.RoomIndex[r.ID] = len(m.RoomByIdx)
			m.RoomByIdx = append(m.RoomByIdx, r.ID)
		}
	} else {
		m.RoomIndex[PseudoRoomID] = 0
		m.RoomByIdx = []string{PseudoRoomID}
	}

	for _, d := range in.SchoolSettings.WorkingDays {
		m.DayIndex[d] = len(m.DayByIdx)
		m.DayByIdx = append(m.DayByIdx, d)
	}

	return m
}

// NumRooms, NumDays and NumSlots are convenience accessors used throughout
// variable/constraint construction.
func (m Maps) NumRooms() int { return len(m.RoomByIdx) }
func (m Maps) NumDays() int  { return len(m.DayByIdx) }
func (m Maps) NumSlots() int { return len(m.Slots) }

// SyntheticRoomID returns the per-class synthetic room identifier used at
// extraction time when room constraints are disabled.
func SyntheticRoomID(classID string) string {
	return "room-for-" + classID
}
