package scheduling

import "github.com/noah-isme/exam-scheduler-api/internal/models"

// TeacherWorkloads tallies invigilation and responsibility per teacher, in directory order.
// Cancelled exams do not count and surveillant ids without a teacher are ignored.
func TeacherWorkloads(dir *models.Directory) []models.TeacherWorkload {
	workloads := []models.TeacherWorkload{}
	if dir == nil {
		return workloads
	}

	index := make(map[int64]int, len(dir.Teachers))
	for i, teacher := range dir.Teachers {
		index[teacher.ID] = i
		workloads = append(workloads, models.TeacherWorkload{TeacherID: teacher.ID, TeacherName: teacher.Name})
	}

	for _, exam := range dir.Exams {
		if exam.IsCancelled() {
			continue
		}
		for _, id := range MergeSurveillants(exam.SurveillantIDs, nil) {
			i, ok := index[id]
			if !ok {
				continue
			}
			workloads[i].SurveilledExams++
			workloads[i].SurveillanceMinutes += exam.Duration
		}
		if module, ok := dir.Module(exam.ModuleID); ok {
			if i, ok := index[module.TeacherID]; ok {
				workloads[i].ResponsibleExams++
			}
		}
	}
	return workloads
}
