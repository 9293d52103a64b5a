package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exam-scheduler-api/internal/dto"
	"github.com/noah-isme/exam-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/exam-scheduler-api/pkg/errors"
	"github.com/noah-isme/exam-scheduler-api/pkg/response"
)

type invigilationService interface {
	CheckConflicts(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error)
	Available(ctx context.Context, query dto.AvailabilityQuery) ([]models.Teacher, error)
	AutoAssign(ctx context.Context, examID int64, req dto.AutoAssignRequest) (*dto.AutoAssignResult, error)
	AutoAssignAll(ctx context.Context, req dto.AutoAssignAllRequest) (*dto.AutoAssignAllResult, error)
	AssignManual(ctx context.Context, examID int64, req dto.ManualAssignRequest) (*dto.ManualAssignResult, error)
	Workload(ctx context.Context) ([]models.TeacherWorkload, error)
	Status(ctx context.Context, examID int64) (*dto.InvigilationStatusResponse, error)
}

// InvigilationHandler exposes conflict detection and surveillant assignment endpoints.
type InvigilationHandler struct {
	service invigilationService
}

// NewInvigilationHandler constructs the handler.
func NewInvigilationHandler(svc invigilationService) *InvigilationHandler {
	return &InvigilationHandler{service: svc}
}

// CheckConflicts godoc
// @Summary Detect conflicts for a candidate exam window
// @Description Advisory only. Returns room, teacher and surveillant conflicts against scheduled exams.
// @Tags Invigilation
// @Accept json
// @Produce json
// @Param payload body dto.ConflictCheckRequest true "Candidate exam"
// @Success 200 {object} response.Envelope
// @Router /exams/conflicts [post]
func (h *InvigilationHandler) CheckConflicts(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid conflict payload"))
		return
	}
	result, err := h.service.CheckConflicts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// Available godoc
// @Summary List teachers free to invigilate a window
// @Description Lists teachers with no overlapping invigilation. Auto-assign draws from a narrower pool: it also skips the responsible teacher of the exam and of every overlapping exam.
// @Tags Invigilation
// @Produce json
// @Param date query string true "Exam date (YYYY-MM-DD)"
// @Param startTime query string true "Start time (HH:MM)"
// @Param duration query int true "Duration in minutes"
// @Param excludeExamId query int false "Exam being edited"
// @Success 200 {object} response.Envelope
// @Router /surveillants/available [get]
func (h *InvigilationHandler) Available(c *gin.Context) {
	var query dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter"))
		return
	}
	teachers, err := h.service.Available(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, teachers)
}

// Status godoc
// @Summary Invigilation status of an exam
// @Tags Invigilation
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exams/{id}/invigilation [get]
func (h *InvigilationHandler) Status(c *gin.Context) {
	examID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	status, err := h.service.Status(c.Request.Context(), examID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, status)
}

// AutoAssign godoc
// @Summary Auto-assign free surveillants to an exam
// @Description Body is optional. Count defaults to the number of rooms of the exam.
// @Tags Invigilation
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param payload body dto.AutoAssignRequest false "Assignment options"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /exams/{id}/surveillants/auto-assign [post]
func (h *InvigilationHandler) AutoAssign(c *gin.Context) {
	examID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.AutoAssignRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.AutoAssign(c.Request.Context(), examID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// AutoAssignAll godoc
// @Summary Auto-assign surveillants to every exam that still lacks them
// @Tags Invigilation
// @Accept json
// @Produce json
// @Param payload body dto.AutoAssignAllRequest false "Bulk options"
// @Success 200 {object} response.Envelope
// @Router /exams/surveillants/auto-assign [post]
func (h *InvigilationHandler) AutoAssignAll(c *gin.Context) {
	var req dto.AutoAssignAllRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.AutoAssignAll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// AssignManual godoc
// @Summary Replace the surveillants of an exam
// @Description Persists the given set and reports surveillant conflicts without blocking.
// @Tags Invigilation
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param payload body dto.ManualAssignRequest true "Surveillant IDs"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/surveillants [put]
func (h *InvigilationHandler) AssignManual(c *gin.Context) {
	examID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ManualAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.AssignManual(c.Request.Context(), examID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// Workload godoc
// @Summary Surveillance workload per teacher
// @Tags Invigilation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers/workload [get]
func (h *InvigilationHandler) Workload(c *gin.Context) {
	workloads, err := h.service.Workload(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, workloads)
}

// bindOptionalJSON decodes the body when one is present.
func bindOptionalJSON(c *gin.Context, dest interface{}) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
