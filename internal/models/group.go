package models

// Group is a cohort of students sitting exams together.
type Group struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	LevelID  int64  `db:"level_id" json:"level_id"`
	Capacity int    `db:"capacity" json:"capacity"`
}
