package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-scheduler-api/internal/dto"
	"github.com/noah-isme/exam-scheduler-api/internal/models"
	"github.com/noah-isme/exam-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/exam-scheduler-api/pkg/errors"
	"github.com/noah-isme/exam-scheduler-api/pkg/response"
)

type rosterService interface {
	Request(ctx context.Context, req dto.RosterExportRequest) (*dto.RosterJobResponse, error)
	Status(ctx context.Context, id string) (*dto.RosterStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.RosterDownload, error)
}

// RosterHandler exposes surveillant roster exports.
type RosterHandler struct {
	service rosterService
	logger  *zap.Logger
}

// NewRosterHandler constructs the handler.
func NewRosterHandler(svc rosterService, logger *zap.Logger) *RosterHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterHandler{service: svc, logger: logger}
}

// Request godoc
// @Summary Queue a surveillant roster export
// @Tags Rosters
// @Accept json
// @Produce json
// @Param payload body dto.RosterExportRequest true "Roster options"
// @Success 202 {object} response.Envelope
// @Router /rosters [post]
func (h *RosterHandler) Request(c *gin.Context) {
	var req dto.RosterExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid roster payload"))
		return
	}
	job, err := h.service.Request(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// Status godoc
// @Summary Roster job status
// @Tags Rosters
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /rosters/{id} [get]
func (h *RosterHandler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, status)
}

// Download godoc
// @Summary Download a generated roster
// @Tags Rosters
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /rosters/download/{token} [get]
func (h *RosterHandler) Download(c *gin.Context) {
	download, err := h.service.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read roster file"))
		return
	}
	h.logger.Sugar().Debugw("roster download", "file", download.Filename, "size", info.Size())

	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), contentType(download.Format), download.File, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", download.Filename),
	})
}

func contentType(format models.RosterFormat) string {
	switch format {
	case models.RosterFormatPDF:
		return "application/pdf"
	case models.RosterFormatCSV:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
