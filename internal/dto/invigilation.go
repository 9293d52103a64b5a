package dto

import "github.com/noah-isme/exam-scheduler-api/internal/models"

// ConflictCheckRequest captures POST /exams/conflicts payload. ExcludeExamID is the exam being edited.
type ConflictCheckRequest struct {
	Date           string  `json:"date" validate:"required,exam_date"`
	StartTime      string  `json:"startTime" validate:"required,clock"`
	Duration       int     `json:"duration" validate:"required,min=1,max=1440"`
	ModuleID       int64   `json:"moduleId" validate:"omitempty,min=1"`
	RoomIDs        []int64 `json:"roomIds" validate:"omitempty,dive,min=1"`
	SurveillantIDs []int64 `json:"surveillantIds" validate:"omitempty,dive,min=1"`
	ExcludeExamID  int64   `json:"excludeExamId" validate:"omitempty,min=1"`
}

// ConflictCheckResponse returns conflicts grouped per kind plus the flattened list.
type ConflictCheckResponse struct {
	HasConflicts bool                  `json:"hasConflicts"`
	Count        int                   `json:"count"`
	Report       models.ConflictReport `json:"report"`
	Conflicts    []models.Conflict     `json:"conflicts"`
}

// AvailabilityQuery captures GET /surveillants/available query parameters.
type AvailabilityQuery struct {
	Date          string `form:"date" validate:"required,exam_date"`
	StartTime     string `form:"startTime" validate:"required,clock"`
	Duration      int    `form:"duration" validate:"required,min=1,max=1440"`
	ExcludeExamID int64  `form:"excludeExamId" validate:"omitempty,min=1"`
}

// AutoAssignRequest tunes a single exam auto-assignment. Count defaults to the exam's room count.
type AutoAssignRequest struct {
	Count int `json:"count" validate:"omitempty,min=1,max=50"`
}

// AutoAssignResult reports what auto-assign picked and the exam's resulting surveillant set.
type AutoAssignResult struct {
	ExamID         int64                     `json:"examId"`
	Assigned       []int64                   `json:"assigned"`
	SurveillantIDs []int64                   `json:"surveillantIds"`
	Status         models.InvigilationStatus `json:"status"`
}

// AutoAssignAllRequest captures POST /exams/surveillants/auto-assign payload.
type AutoAssignAllRequest struct {
	// Count overrides the per-exam desired surveillant count when set.
	Count    int    `json:"count" validate:"omitempty,min=1,max=50"`
	DateFrom string `json:"dateFrom" validate:"omitempty,exam_date"`
	DateTo   string `json:"dateTo" validate:"omitempty,exam_date"`
}

// AutoAssignFailure explains why an exam could not be staffed during a bulk pass.
type AutoAssignFailure struct {
	ExamID int64  `json:"examId"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// AutoAssignAllResult summarises a sequential bulk auto-assign pass.
type AutoAssignAllResult struct {
	Processed int                 `json:"processed"`
	Assigned  []AutoAssignResult  `json:"assigned"`
	Failed    []AutoAssignFailure `json:"failed"`
}

// ManualAssignRequest replaces an exam's surveillants as chosen by an operator.
type ManualAssignRequest struct {
	SurveillantIDs []int64 `json:"surveillantIds" validate:"max=50,dive,min=1"`
}

// ManualAssignResult returns the saved set together with advisory conflicts.
type ManualAssignResult struct {
	ExamID         int64                        `json:"examId"`
	SurveillantIDs []int64                      `json:"surveillantIds"`
	Status         models.InvigilationStatus    `json:"status"`
	Conflicts      []models.SurveillantConflict `json:"conflicts"`
}

// InvigilationStatusResponse describes the invigilation state of one exam.
type InvigilationStatusResponse struct {
	ExamID         int64                     `json:"examId"`
	Status         models.InvigilationStatus `json:"status"`
	Desired        int                       `json:"desired"`
	SurveillantIDs []int64                   `json:"surveillantIds"`
	Surveillants   []string                  `json:"surveillants"`
}
