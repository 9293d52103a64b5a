package scheduling

import (
	"github.com/lib/pq"

	"github.com/noah-isme/exam-scheduler-api/internal/models"
)

// scenarioDirectory has exam 1 (module 1, teacher 10) in room 1 invigilated by teacher 2,
// and exam 2 (module 2, teacher 11) at the same time without surveillants.
func scenarioDirectory() *models.Directory {
	return &models.Directory{
		Rooms: []models.Room{
			{ID: 1, Name: "A101", Capacity: 40},
			{ID: 2, Name: "B202", Capacity: 30},
		},
		Teachers: []models.Teacher{
			{ID: 10, Name: "Ada"},
			{ID: 2, Name: "Bea"},
			{ID: 3, Name: "Cal"},
			{ID: 4, Name: "Dee"},
			{ID: 11, Name: "Eli"},
		},
		Modules: []models.Module{
			{ID: 1, Code: "ALG", Name: "Algebra", TeacherID: 10},
			{ID: 2, Code: "GEO", Name: "Geometry", TeacherID: 10},
			{ID: 3, Code: "PHY", Name: "Physics", TeacherID: 11},
		},
		Groups: []models.Group{{ID: 1, Name: "G1"}},
		Exams: []models.Exam{
			{
				ID: 1, ModuleID: 1, Date: "2025-01-15", StartTime: "09:00", Duration: 120,
				RoomIDs: pq.Int64Array{1}, GroupIDs: pq.Int64Array{1}, SurveillantIDs: pq.Int64Array{2},
				Status: models.ExamStatusScheduled,
			},
			{
				ID: 2, ModuleID: 3, Date: "2025-01-15", StartTime: "09:00", Duration: 120,
				RoomIDs: pq.Int64Array{2}, GroupIDs: pq.Int64Array{1}, SurveillantIDs: pq.Int64Array{},
				Status: models.ExamStatusScheduled,
			},
		},
	}
}
