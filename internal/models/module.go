package models

// Module is a taught course. TeacherID references its single responsible teacher.
type Module struct {
	ID         int64  `db:"id" json:"id"`
	Code       string `db:"code" json:"code"`
	Name       string `db:"name" json:"name"`
	SemesterID int64  `db:"semester_id" json:"semester_id"`
	TeacherID  int64  `db:"teacher_id" json:"teacher_id"`
}
