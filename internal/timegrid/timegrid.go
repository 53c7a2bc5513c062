// Package timegrid turns school hours and break policy into an ordered
// list of lesson slots guaranteed not to overlap any break window.
package timegrid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/smeggmann99/arrango-timetable/common/models/input"
)

// ErrNoSlots is returned when the generated grid is empty: the configured
// hours leave no room for a single lesson.
var ErrNoSlots = errors.New("timegrid: configuration produces zero lesson slots")

// Slot is a contiguous lessonDuration-minute interval that does not
// intersect any break window.
type Slot struct {
	StartTime    string
	EndTime      string
	StartMinutes int
	EndMinutes   int
}

type window struct {
	start, end int
}

func (w window) valid() bool {
	return w.start >= 0 && w.end > w.start
}

func (w window) overlaps(start, end int) bool {
	if !w.valid() {
		return false
	}
	return start < w.end && end > w.start
}

// ParseTime converts a zero-padded 24-hour "HH:MM" string to minutes since
// midnight.
func ParseTime(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("timegrid: invalid time format %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("timegrid: invalid time format %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("timegrid: invalid time format %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("timegrid: invalid time format %q", s)
	}
	return h*60 + m, nil
}

// FormatTime converts minutes since midnight back to a zero-padded "HH:MM".
func FormatTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Build generates the ordered slot list for a school day, per spec.md §4.1:
// starting at startTime, repeatedly attempt a lessonDuration slot; if it
// intersects a break window, jump to the end of that window and retry;
// otherwise emit the slot and advance by lessonDuration+breakDuration.
func Build(s input.SchoolSettings) ([]Slot, error) {
	start, err := ParseTime(s.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseTime(s.EndTime)
	if err != nil {
		return nil, err
	}
	if end <= start {
		return nil, fmt.Errorf("timegrid: endTime must be after startTime")
	}
	if s.LessonDuration <= 0 {
		return nil, fmt.Errorf("timegrid: lessonDuration must be positive")
	}

	var breakfast window = window{-1, -1}
	if s.HasBreakfastBreak {
		bStart, err := ParseTime(s.BreakfastBreakStartTime)
		if err != nil {
			return nil, err
		}
		breakfast = window{bStart, bStart + s.BreakfastBreakDuration}
	}

	lunchStart, err := ParseTime(s.LunchBreakStartTime)
	if err != nil {
		return nil, err
	}
	lunch := window{lunchStart, lunchStart + s.LunchBreakDuration}

	var slots []Slot
	cur := start
	for cur+s.LessonDuration <= end {
		slotEnd := cur + s.LessonDuration

		if breakfast.overlaps(cur, slotEnd) {
			cur = breakfast.end
			continue
		}
		if lunch.overlaps(cur, slotEnd) {
			cur = lunch.end
			continue
		}

		slots = append(slots, Slot{
			StartTime:    FormatTime(cur),
			EndTime:      FormatTime(slotEnd),
			StartMinutes: cur,
			EndMinutes:   slotEnd,
		})
		cur += s.LessonDuration + s.BreakDuration
	}

	if len(slots) == 0 {
		return nil, ErrNoSlots
	}
	return slots, nil
}
