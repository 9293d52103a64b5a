package scheduling

import "github.com/noah-isme/exam-scheduler-api/internal/models"

// AutoAssignSurveillants picks up to count free teachers for an exam, first fit in directory order.
// The responsible teacher of the exam's module is never picked, nor is a teacher responsible for
// another exam overlapping it. Unknown exams yield an empty list.
func AutoAssignSurveillants(dir *models.Directory, examID int64, count int) []int64 {
	assigned := []int64{}
	if count <= 0 {
		return assigned
	}
	exam, ok := dir.Exam(examID)
	if !ok {
		return assigned
	}

	excluded := ResponsibleTeacherIDs(dir, SlotOf(exam), exam.ID)
	if module, ok := dir.Module(exam.ModuleID); ok {
		excluded[module.TeacherID] = struct{}{}
	}

	for _, teacher := range AvailableSurveillants(dir, SlotOf(exam), exam.ID) {
		if _, skip := excluded[teacher.ID]; skip {
			continue
		}
		assigned = append(assigned, teacher.ID)
		if len(assigned) == count {
			break
		}
	}
	return assigned
}

// MergeSurveillants unions assigned into existing, keeping existing order first and dropping duplicates.
func MergeSurveillants(existing, assigned []int64) []int64 {
	merged := make([]int64, 0, len(existing)+len(assigned))
	seen := make(map[int64]struct{}, len(existing)+len(assigned))
	for _, list := range [][]int64{existing, assigned} {
		for _, id := range list {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}

// DesiredSurveillants is one surveillant per room, at least one.
func DesiredSurveillants(exam models.Exam) int {
	if n := len(exam.RoomIDs); n > 0 {
		return n
	}
	return 1
}

// InvigilationStatusOf derives the invigilation state of an exam against the desired head count.
// A desired value <= 0 falls back to DesiredSurveillants.
func InvigilationStatusOf(exam models.Exam, desired int) models.InvigilationStatus {
	if desired <= 0 {
		desired = DesiredSurveillants(exam)
	}
	assigned := len(MergeSurveillants(exam.SurveillantIDs, nil))
	switch {
	case assigned == 0:
		return models.InvigilationUnassigned
	case assigned < desired:
		return models.InvigilationPartiallyAssigned
	default:
		return models.InvigilationAssigned
	}
}
