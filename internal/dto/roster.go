package dto

import "github.com/noah-isme/exam-scheduler-api/internal/models"

// RosterExportRequest captures POST /rosters payload.
type RosterExportRequest struct {
	Format    models.RosterFormat `json:"format" validate:"required,oneof=csv pdf"`
	DateFrom  string              `json:"dateFrom" validate:"omitempty,exam_date"`
	DateTo    string              `json:"dateTo" validate:"omitempty,exam_date"`
	TeacherID int64               `json:"teacherId" validate:"omitempty,min=1"`
}

// RosterJobResponse is returned after enqueueing a roster export.
type RosterJobResponse struct {
	ID       string              `json:"id"`
	Status   models.RosterStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// RosterStatusResponse exposes job progress metadata.
type RosterStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.RosterStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
