package scheduling

import "github.com/noah-isme/exam-scheduler-api/internal/models"

// BusySurveillantIDs collects every teacher invigilating an exam that overlaps slot.
func BusySurveillantIDs(dir *models.Directory, slot Slot, excludeExamID int64) map[int64]struct{} {
	busy := map[int64]struct{}{}
	for _, exam := range overlapping(dir, slot, excludeExamID) {
		for _, id := range exam.SurveillantIDs {
			busy[id] = struct{}{}
		}
	}
	return busy
}

// AvailableSurveillants lists the teachers free to invigilate during slot, in directory order.
func AvailableSurveillants(dir *models.Directory, slot Slot, excludeExamID int64) []models.Teacher {
	available := []models.Teacher{}
	if dir == nil {
		return available
	}
	busy := BusySurveillantIDs(dir, slot, excludeExamID)
	for _, teacher := range dir.Teachers {
		if _, taken := busy[teacher.ID]; taken {
			continue
		}
		available = append(available, teacher)
	}
	return available
}

// ResponsibleTeacherIDs collects the responsible teachers of exams overlapping slot.
// Exams whose module is unknown contribute nothing.
func ResponsibleTeacherIDs(dir *models.Directory, slot Slot, excludeExamID int64) map[int64]struct{} {
	responsible := map[int64]struct{}{}
	for _, exam := range overlapping(dir, slot, excludeExamID) {
		if module, ok := dir.Module(exam.ModuleID); ok {
			responsible[module.TeacherID] = struct{}{}
		}
	}
	return responsible
}
