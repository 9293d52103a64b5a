package models

// TeacherWorkload summarises how much invigilation and responsibility a teacher carries.
type TeacherWorkload struct {
	TeacherID           int64  `json:"teacher_id"`
	TeacherName         string `json:"teacher_name"`
	SurveilledExams     int    `json:"surveilled_exams"`
	SurveillanceMinutes int    `json:"surveillance_minutes"`
	ResponsibleExams    int    `json:"responsible_exams"`
}
