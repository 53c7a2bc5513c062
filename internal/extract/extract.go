// Package extract reads the solver driver's winning assignment off into an
// output.Schedule and self-audits it against the hard constraints before
// handing it back to the facade, per spec.md §4.8. Extraction never fails:
// a self-audit finding is logged, never returned as an error, since by the
// time extraction runs the solver has already classified the assignment as
// Optimal or Feasible.
package extract

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smeggmann99/arrango-timetable/common/models/input"
	"github.com/smeggmann99/arrango-timetable/common/models/output"
	"github.com/smeggmann99/arrango-timetable/internal/constraints"
	"github.com/smeggmann99/arrango-timetable/internal/indexing"
	"github.com/smeggmann99/arrango-timetable/internal/variables"
)

// Extract materializes every true entry of assignment into an
// output.ScheduleEntry, synthesizing a per-class synthetic room identifier
// when room constraints are disabled, then re-runs constraints.Count as a
// self-audit: any nonzero Violations.Total() is logged at Warn (the solver
// should never hand extraction a violating assignment, but extraction does
// not trust that blindly) without altering the returned Schedule.
func Extract(m *variables.Model, assignment []bool, in input.InputData, idx indexing.Maps, pruned constraints.Pruned, balanceSubjectsAcrossDays bool, log zerolog.Logger) output.Schedule {
	entries := make([]output.ScheduleEntry, 0, countTrue(assignment))

	for id, on := range assignment {
		if !on {
			continue
		}
		k := m.Keys[id]
		slot := idx.Slots[k.Slot]

		roomID := idx.RoomByIdx[k.Room]
		if !idx.UseRoomConstraints {
			roomID = indexing.SyntheticRoomID(idx.ClassByIdx[k.Class].ID)
		}

		entries = append(entries, output.ScheduleEntry{
			ID:        uuid.New().String(),
			Day:       idx.DayByIdx[k.Day],
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			ClassID:   idx.ClassByIdx[k.Class].ID,
			SubjectID: idx.SubjectByIdx[k.Subject].ID,
			TeacherID: idx.TeacherByIdx[k.Teacher].ID,
			RoomID:    roomID,
		})
	}

	audit := constraints.Count(m, assignment, in, idx, pruned, balanceSubjectsAcrossDays)
	if audit.Total() > 0 {
		log.Warn().
			Int("total", audit.Total()).
			Int("subject_hours", audit.SubjectHours).
			Int("teacher_overlap", audit.TeacherOverlap).
			Int("class_single_track", audit.ClassSingleTrack).
			Int("room_overlap", audit.RoomOverlap).
			Msg("self-audit found residual violations in an assignment the solver marked extractable")
	}

	for _, cs := range m.SkippedPairs {
		log.Warn().
			Str("class", idx.ClassByIdx[cs.Class].ID).
			Str("subject", idx.SubjectByIdx[cs.Subject].ID).
			Msg("self-audit: schedule has no entries for this demanded pair; no teacher was available")
	}

	return output.Schedule{
		ScheduleID: output.GeneratedPrefix + "-" + uuid.New().String()[:8],
		Entries:    entries,
	}
}

func countTrue(assignment []bool) int {
	n := 0
	for _, on := range assignment {
		if on {
			n++
		}
	}
	return n
}
