// Package fallback implements the deterministic-greedy constructor used
// only when the solver returns no feasible answer within budget
// (spec.md §4.9). Its sole duty is to never crash on solver failure; it
// makes no ordering guarantees beyond best-effort.
package fallback

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smeggmann99/arrango-timetable/common/models/input"
	"github.com/smeggmann99/arrango-timetable/common/models/output"
	"github.com/smeggmann99/arrango-timetable/internal/indexing"
	"github.com/smeggmann99/arrango-timetable/internal/variables"
)

type daySlot struct{ day, slot int }

// Generate runs the four stages of spec.md §4.9 and always returns a
// Schedule, never an error: (1) pick one teacher per (class, subject) at
// random; (2) enumerate (day, slot) pairs in a seeded random permutation;
// (3) for each required hour, scan the permutation and accept the first
// slot that is locally valid against already-emitted entries; (4) log any
// hours that could not be placed.
func Generate(m *variables.Model, in input.InputData, idx indexing.Maps, seed int64, log zerolog.Logger) output.Schedule {
	rng := rand.New(rand.NewSource(seed))

	chosenTeacher := make(map[variables.ClassSubject]int, len(m.TeachersFor))
	for _, cs := range variables.OrderedDemands(m) {
		teachers := m.TeachersFor[cs]
		chosenTeacher[cs] = teachers[rng.Intn(len(teachers))]
	}

	slots := make([]daySlot, 0, idx.NumDays()*idx.NumSlots())
	for d := 0; d < idx.NumDays(); d++ {
		for s := 0; s < idx.NumSlots(); s++ {
			slots = append(slots, daySlot{d, s})
		}
	}

	teacherBusy := make(map[daySlot]map[int]bool)
	classBusy := make(map[daySlot]map[int]bool)
	subjectUsedToday := make(map[[2]int]map[int]bool) // (class, day) -> subjects placed today
	placedSlotsBySubjectDay := make(map[[3]int][]int)  // (class, day, subject) -> placed slot indices

	var entries []output.ScheduleEntry
	totalRequired, totalPlaced := 0, 0

	// Stable iteration order over (class, subject) demands for determinism
	// given a fixed seed.
	order := variables.OrderedDemands(m)

	for _, cs := range order {
		remaining := m.Demand[cs]
		totalRequired += remaining
		teacher := chosenTeacher[cs]
		classIdx := cs.Class

		perm := rng.Perm(len(slots))
		for _, pi := range perm {
			if remaining == 0 {
				break
			}
			ds := slots[pi]

			if teacherBusy[ds][teacher] {
				continue
			}
			if classBusy[ds][classIdx] {
				continue
			}
			key := [2]int{classIdx, ds.day}
			if subjectUsedToday[key] != nil && subjectUsedToday[key][cs.Subject] {
				continue
			}
			if hasAdjacentSameSubject(placedSlotsBySubjectDay[[3]int{classIdx, ds.day, cs.Subject}], ds.slot) {
				continue
			}

			if teacherBusy[ds] == nil {
				teacherBusy[ds] = make(map[int]bool)
			}
			teacherBusy[ds][teacher] = true
			if classBusy[ds] == nil {
				classBusy[ds] = make(map[int]bool)
			}
			classBusy[ds][classIdx] = true
			if subjectUsedToday[key] == nil {
				subjectUsedToday[key] = make(map[int]bool)
			}
			subjectUsedToday[key][cs.Subject] = true
			sdKey := [3]int{classIdx, ds.day, cs.Subject}
			placedSlotsBySubjectDay[sdKey] = append(placedSlotsBySubjectDay[sdKey], ds.slot)

			roomID := pickRoom(idx, classIdx, rng)
			entries = append(entries, output.ScheduleEntry{
				ID:        uuid.New().String(),
				Day:       idx.DayByIdx[ds.day],
				StartTime: idx.Slots[ds.slot].StartTime,
				EndTime:   idx.Slots[ds.slot].EndTime,
				ClassID:   idx.ClassByIdx[classIdx].ID,
				SubjectID: idx.SubjectByIdx[cs.Subject].ID,
				TeacherID: idx.TeacherByIdx[teacher].ID,
				RoomID:    roomID,
			})

			remaining--
			totalPlaced++
		}

		if remaining > 0 {
			class := idx.ClassByIdx[classIdx]
			subject := idx.SubjectByIdx[cs.Subject]
			log.Warn().
				Str("class", class.ID).
				Str("subject", subject.ID).
				Int("unassigned_hours", remaining).
				Msg("fallback could not place all required hours")
		}
	}

	if totalPlaced < totalRequired {
		log.Warn().Msgf("Could only assign %d/%d hours", totalPlaced, totalRequired)
	}

	return output.Schedule{
		ScheduleID: output.MockPrefix + "-" + randomHex(4, rng),
		Entries:    entries,
	}
}

func hasAdjacentSameSubject(placed []int, candidate int) bool {
	for _, s := range placed {
		if s == candidate-1 || s == candidate+1 {
			return true
		}
	}
	return false
}

func pickRoom(idx indexing.Maps, classIdx int, rng *rand.Rand) string {
	if !idx.UseRoomConstraints || len(idx.RoomByIdx) == 0 {
		return indexing.SyntheticRoomID(idx.ClassByIdx[classIdx].ID)
	}
	return idx.RoomByIdx[rng.Intn(len(idx.RoomByIdx))]
}

func randomHex(n int, rng *rand.Rand) string {
	b := make([]byte, n)
	rng.Read(b)
	return fmt.Sprintf("%x", b)
}
