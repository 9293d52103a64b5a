package models

import "github.com/lib/pq"

// ExamType enumerates exam formats.
type ExamType string

const (
	ExamTypeWritten   ExamType = "Written"
	ExamTypeOral      ExamType = "Oral"
	ExamTypePractical ExamType = "Practical"
	ExamTypeOnline    ExamType = "Online"
)

// ExamStatus captures the lifecycle of an exam session.
type ExamStatus string

const (
	ExamStatusScheduled ExamStatus = "Scheduled"
	ExamStatusCompleted ExamStatus = "Completed"
	ExamStatusCancelled ExamStatus = "Cancelled"
)

// InvigilationStatus is derived from the surveillant set of an exam; it is never stored.
type InvigilationStatus string

const (
	InvigilationUnassigned        InvigilationStatus = "Unassigned"
	InvigilationPartiallyAssigned InvigilationStatus = "PartiallyAssigned"
	InvigilationAssigned          InvigilationStatus = "Assigned"
)

// Exam is a scheduled sitting of a module. Date is a calendar date (YYYY-MM-DD) and
// StartTime a wall-clock time (HH:MM); Duration is in minutes.
type Exam struct {
	ID             int64         `db:"id" json:"id"`
	ModuleID       int64         `db:"module_id" json:"module_id"`
	Date           string        `db:"date" json:"date"`
	StartTime      string        `db:"start_time" json:"start_time"`
	Duration       int           `db:"duration" json:"duration"`
	Type           ExamType      `db:"type" json:"type"`
	RoomIDs        pq.Int64Array `db:"room_ids" json:"room_ids"`
	GroupIDs       pq.Int64Array `db:"group_ids" json:"group_ids"`
	SurveillantIDs pq.Int64Array `db:"surveillant_ids" json:"surveillant_ids"`
	Status         ExamStatus    `db:"status" json:"status"`
}

// Clone returns a deep copy so callers can patch id sets without touching a shared snapshot.
func (e Exam) Clone() Exam {
	out := e
	out.RoomIDs = cloneIDs(e.RoomIDs)
	out.GroupIDs = cloneIDs(e.GroupIDs)
	out.SurveillantIDs = cloneIDs(e.SurveillantIDs)
	return out
}

// IsCancelled reports whether the exam was called off.
func (e Exam) IsCancelled() bool {
	return e.Status == ExamStatusCancelled
}

func cloneIDs(ids pq.Int64Array) pq.Int64Array {
	if ids == nil {
		return nil
	}
	out := make(pq.Int64Array, len(ids))
	copy(out, ids)
	return out
}
