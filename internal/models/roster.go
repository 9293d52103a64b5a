package models

import "time"

// RosterFormat enumerates supported roster export formats.
type RosterFormat string

const (
	RosterFormatCSV RosterFormat = "csv"
	RosterFormatPDF RosterFormat = "pdf"
)

// RosterStatus captures background job lifecycle states.
type RosterStatus string

const (
	RosterStatusQueued     RosterStatus = "QUEUED"
	RosterStatusProcessing RosterStatus = "PROCESSING"
	RosterStatusFinished   RosterStatus = "FINISHED"
	RosterStatusFailed     RosterStatus = "FAILED"
)

// RosterJobParams scopes which exams end up in a roster.
type RosterJobParams struct {
	Format   RosterFormat `json:"format"`
	DateFrom string       `json:"date_from,omitempty"`
	DateTo   string       `json:"date_to,omitempty"`
	// TeacherID restricts the roster to exams surveilled by one teacher.
	TeacherID int64 `json:"teacher_id,omitempty"`
}

// RosterJob tracks an asynchronous surveillant roster export.
type RosterJob struct {
	ID           string          `json:"id"`
	Params       RosterJobParams `json:"params"`
	Status       RosterStatus    `json:"status"`
	Progress     int             `json:"progress"`
	ResultURL    *string         `json:"result_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}
