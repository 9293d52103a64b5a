package models

// Teacher represents an instructor who may be responsible for modules and invigilate exams.
type Teacher struct {
	ID         int64   `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	Email      string  `db:"email" json:"email"`
	Department *string `db:"department" json:"department,omitempty"`
	Office     *string `db:"office" json:"office,omitempty"`
	Phone      *string `db:"phone" json:"phone,omitempty"`
}
