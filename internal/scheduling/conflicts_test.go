package scheduling

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exam-scheduler-api/internal/models"
)

func TestCheckRoomConflictsReportsOverlappingBooking(t *testing.T) {
	dir := &models.Directory{
		Rooms:   []models.Room{{ID: 1, Name: "A101"}},
		Modules: []models.Module{{ID: 1, Name: "Algebra", TeacherID: 10}, {ID: 2, Name: "Geometry", TeacherID: 11}},
		Exams: []models.Exam{
			{ID: 1, ModuleID: 1, Date: "2025-01-15", StartTime: "09:00", Duration: 120, RoomIDs: pq.Int64Array{1}},
			{ID: 2, ModuleID: 2, Date: "2025-01-15", StartTime: "10:00", Duration: 60, RoomIDs: pq.Int64Array{1}},
		},
	}

	conflicts := CheckRoomConflicts(dir, Slot{Date: "2025-01-15", StartTime: "10:00", Duration: 60}, []int64{1}, 2)

	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(1), conflicts[0].ExamID)
	assert.Equal(t, "Algebra", conflicts[0].ExamName)
	assert.Equal(t, "2025-01-15 at 09:00", conflicts[0].Time)
	assert.Equal(t, []string{"A101"}, conflicts[0].Rooms)
}

func TestCheckRoomConflictsDisjointRooms(t *testing.T) {
	dir := scenarioDirectory()
	conflicts := CheckRoomConflicts(dir, Slot{Date: "2025-01-15", StartTime: "09:00", Duration: 120}, []int64{2}, 2)
	assert.Empty(t, conflicts)
	assert.NotNil(t, conflicts)
}

func TestCheckRoomConflictsUnknownRoomRendersPlaceholder(t *testing.T) {
	dir := scenarioDirectory()
	dir.Exams[0].RoomIDs = pq.Int64Array{99}

	conflicts := CheckRoomConflicts(dir, SlotOf(dir.Exams[0]), []int64{99}, 0)

	require.Len(t, conflicts, 1)
	assert.Equal(t, []string{Placeholder}, conflicts[0].Rooms)
}

func TestChecksExcludeSelf(t *testing.T) {
	dir := scenarioDirectory()
	exam := dir.Exams[0]
	slot := SlotOf(exam)

	report := DetectAll(dir, ConflictQuery{
		Slot:           slot,
		RoomIDs:        exam.RoomIDs,
		ModuleID:       exam.ModuleID,
		SurveillantIDs: exam.SurveillantIDs,
		ExcludeExamID:  exam.ID,
	})

	for _, conflict := range report.All() {
		assert.NotEqual(t, exam.ID, conflict.ConflictingExamID())
	}
	assert.True(t, report.Empty())
}

func TestCheckTeacherConflictsScenario(t *testing.T) {
	dir := scenarioDirectory()

	conflicts := CheckTeacherConflicts(dir, Slot{Date: "2025-01-15", StartTime: "10:00", Duration: 60}, 2, 0)

	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(1), conflicts[0].ExamID)
	assert.Equal(t, "Ada", conflicts[0].Teacher)
}

func TestCheckTeacherConflictsFailSoft(t *testing.T) {
	dir := scenarioDirectory()
	slot := Slot{Date: "2025-01-15", StartTime: "10:00", Duration: 60}

	assert.Empty(t, CheckTeacherConflicts(dir, slot, 404, 0))

	dir.Exams[0].ModuleID = 404
	assert.Empty(t, CheckTeacherConflicts(dir, slot, 2, 0))
	assert.Empty(t, CheckTeacherConflicts(nil, slot, 2, 0))
}

func TestCheckSurveillantConflicts(t *testing.T) {
	dir := scenarioDirectory()

	conflicts := CheckSurveillantConflicts(dir, Slot{Date: "2025-01-15", StartTime: "10:30", Duration: 30}, []int64{3, 2}, 0)

	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(1), conflicts[0].ExamID)
	assert.Equal(t, []string{"Bea"}, conflicts[0].Surveillants)
}

func TestDetectAllOrdersByKind(t *testing.T) {
	dir := scenarioDirectory()

	report := DetectAll(dir, ConflictQuery{
		Slot:           Slot{Date: "2025-01-15", StartTime: "10:00", Duration: 30},
		RoomIDs:        []int64{1},
		ModuleID:       2,
		SurveillantIDs: []int64{2},
	})

	kinds := make([]models.ConflictType, 0, report.Count())
	for _, conflict := range report.All() {
		kinds = append(kinds, conflict.Kind())
	}
	assert.Equal(t, []models.ConflictType{models.ConflictTypeRoom, models.ConflictTypeTeacher, models.ConflictTypeSurveillant}, kinds)
}

// Groups sitting two overlapping exams are not reported. Kept as a known gap until product intent is settled.
func TestGroupDoubleBookingIsNotDetected(t *testing.T) {
	dir := scenarioDirectory()
	require.Equal(t, dir.Exams[0].GroupIDs, dir.Exams[1].GroupIDs)

	second := dir.Exams[1]
	report := DetectAll(dir, ConflictQuery{
		Slot:           SlotOf(second),
		RoomIDs:        second.RoomIDs,
		ModuleID:       second.ModuleID,
		SurveillantIDs: second.SurveillantIDs,
		ExcludeExamID:  second.ID,
	})

	assert.True(t, report.Empty())
}
