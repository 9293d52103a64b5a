// Package scheduling holds the pure conflict detection and surveillant assignment engine.
// Every function takes a directory snapshot and derives its result without I/O or mutation.
package scheduling

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/exam-scheduler-api/internal/models"
)

// Slot is the time window of an exam: [StartTime, StartTime+Duration) on Date.
type Slot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
}

// SlotOf returns the window occupied by an exam.
func SlotOf(exam models.Exam) Slot {
	return Slot{Date: exam.Date, StartTime: exam.StartTime, Duration: exam.Duration}
}

// Start returns minutes since midnight, ok=false when StartTime cannot be parsed.
func (s Slot) Start() (int, bool) {
	return ParseClock(s.StartTime)
}

// End returns the exclusive end of the window in minutes since midnight.
func (s Slot) End() (int, bool) {
	start, ok := s.Start()
	if !ok {
		return 0, false
	}
	return start + s.Duration, true
}

// Label renders the window the way conflict descriptors cite it.
func (s Slot) Label() string {
	return fmt.Sprintf("%s at %s", s.Date, s.StartTime)
}

// ParseClock converts "HH:MM" (seconds are tolerated and ignored) to minutes since midnight.
func ParseClock(raw string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// CalendarDate strips any time component from an ISO date. No timezone normalisation happens.
func CalendarDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if idx := strings.IndexAny(raw, "T "); idx >= 0 {
		return raw[:idx]
	}
	return raw
}

// Overlaps reports whether two windows intersect. Windows on different dates never overlap,
// back-to-back windows do not overlap, and an unparseable start time never overlaps anything.
func Overlaps(a, b Slot) bool {
	if CalendarDate(a.Date) != CalendarDate(b.Date) {
		return false
	}
	startA, okA := a.Start()
	startB, okB := b.Start()
	if !okA || !okB {
		return false
	}
	return startA < startB+b.Duration && startB < startA+a.Duration
}
