// Package variables materializes boolean decision variables only for the
// cross-product of (class, subject) pairs actually demanded and teachers
// who can teach that subject, across all (room, day, slot). It also
// precomputes the per-axis inverted indices every constraint family needs
// so each one iterates in O(#nonzero) rather than rebuilding the full
// product (see DESIGN.md).
package variables

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/smeggmann99/arrango-timetable/common/models/input"
	"github.com/smeggmann99/arrango-timetable/internal/indexing"
)

// Key identifies a single (class, subject, teacher, room, day, slot) tuple.
type Key struct {
	Class   int
	Subject int
	Teacher int
	Room    int
	Day     int
	Slot    int
}

// ClassSubject, TeacherDaySlot, ClassDaySlot, RoomDaySlot and
// ClassSubjectDay are the tuple types the inverted indices are keyed by.
type ClassSubject struct{ Class, Subject int }
type TeacherDaySlot struct{ Teacher, Day, Slot int }
type ClassDaySlot struct{ Class, Day, Slot int }
type RoomDaySlot struct{ Room, Day, Slot int }
type ClassSubjectDay struct{ Class, Subject, Day int }
type TeacherDay struct{ Teacher, Day int }

// Model is the materialized variable set plus its inverted indices.
type Model struct {
	Keys []Key // VarID -> Key, VarID is the slice index

	ByClassSubject    map[ClassSubject][]int
	ByTeacherDaySlot  map[TeacherDaySlot][]int
	ByClassDaySlot    map[ClassDaySlot][]int
	ByRoomDaySlot     map[RoomDaySlot][]int
	ByClassSubjectDay map[ClassSubjectDay][]int
	ByTeacherDay      map[TeacherDay][]int
	ByTeacher         map[int][]int

	TeachersFor map[ClassSubject][]int // T(c,s), sorted teacher indices
	Demand      map[ClassSubject]int    // hoursPerWeek per demanded (c,s)

	// DemandedSubjectsByClass lists, for each class index with at least
	// one materialized (class, subject) demand, the subject indices
	// involved — used by the daily-lessons constraint family to count
	// distinct subjects taught per (class, day).
	DemandedSubjectsByClass map[int][]int

	// SkippedPairs are (class, subject) demands with an empty T(c,s): no
	// constraint is emitted for them, which causes downstream
	// infeasibility unless satisfied externally (spec.md §4.4).
	SkippedPairs []ClassSubject
}

// NumVars is the number of materialized decision variables.
func (m *Model) NumVars() int { return len(m.Keys) }

// Build constructs the Model for a validated, indexed input record.
func Build(in input.InputData, idx indexing.Maps, log zerolog.Logger) *Model {
	m := &Model{
		ByClassSubject:    make(map[ClassSubject][]int),
		ByTeacherDaySlot:  make(map[TeacherDaySlot][]int),
		ByClassDaySlot:    make(map[ClassDaySlot][]int),
		ByRoomDaySlot:     make(map[RoomDaySlot][]int),
		ByClassSubjectDay: make(map[ClassSubjectDay][]int),
		ByTeacherDay:      make(map[TeacherDay][]int),
		ByTeacher:         make(map[int][]int),
		TeachersFor:       make(map[ClassSubject][]int),
		Demand:            make(map[ClassSubject]int),
		DemandedSubjectsByClass: make(map[int][]int),
	}

	numRooms := idx.NumRooms()
	numDays := idx.NumDays()
	numSlots := idx.NumSlots()

	for ci, class := range idx.ClassByIdx {
		for _, subjectID := range class.RequiredSubjects {
			si, ok := idx.SubjectIndex[subjectID]
			if !ok {
				continue // dangling reference; validator already reports this
			}
			cs := ClassSubject{Class: ci, Subject: si}

			var teachers []int
			for ti, t := range idx.TeacherByIdx {
				if t.CanTeach(subjectID) {
					teachers = append(teachers, ti)
				}
			}
			sort.Ints(teachers)

			if len(teachers) == 0 {
				m.SkippedPairs = append(m.SkippedPairs, cs)
				log.Warn().
					Str("class", class.ID).
					Str("subject", subjectID).
					Msg("no teacher can teach this subject for this class; omitting decision variables")
				continue
			}

			m.TeachersFor[cs] = teachers
			m.Demand[cs] = idx.SubjectByIdx[si].HoursPerWeek
			m.DemandedSubjectsByClass[ci] = append(m.DemandedSubjectsByClass[ci], si)

			for _, ti := range teachers {
				for ri := 0; ri < numRooms; ri++ {
					for di := 0; di < numDays; di++ {
						for tsi := 0; tsi < numSlots; tsi++ {
							key := Key{Class: ci, Subject: si, Teacher: ti, Room: ri, Day: di, Slot: tsi}
							id := len(m.Keys)
							m.Keys = append(m.Keys, key)

							m.ByClassSubject[cs] = append(m.ByClassSubject[cs], id)

							tds := TeacherDaySlot{Teacher: ti, Day: di, Slot: tsi}
							m.ByTeacherDaySlot[tds] = append(m.ByTeacherDaySlot[tds], id)

							cds := ClassDaySlot{Class: ci, Day: di, Slot: tsi}
							m.ByClassDaySlot[cds] = append(m.ByClassDaySlot[cds], id)

							rds := RoomDaySlot{Room: ri, Day: di, Slot: tsi}
							m.ByRoomDaySlot[rds] = append(m.ByRoomDaySlot[rds], id)

							csd := ClassSubjectDay{Class: ci, Subject: si, Day: di}
							m.ByClassSubjectDay[csd] = append(m.ByClassSubjectDay[csd], id)

							td := TeacherDay{Teacher: ti, Day: di}
							m.ByTeacherDay[td] = append(m.ByTeacherDay[td], id)

							m.ByTeacher[ti] = append(m.ByTeacher[ti], id)
						}
					}
				}
			}
		}
	}

	log.Debug().Int("variables", len(m.Keys)).Int("skipped_pairs", len(m.SkippedPairs)).Msg("variable factory complete")
	return m
}
