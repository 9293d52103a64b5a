package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exam-scheduler-api/internal/dto"
	"github.com/noah-isme/exam-scheduler-api/internal/models"
	"github.com/noah-isme/exam-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/exam-scheduler-api/pkg/errors"
)

type rosterServiceMock struct {
	requestResp *dto.RosterJobResponse
	requestErr  error
	statusResp  *dto.RosterStatusResponse
	statusErr   error
	download    *service.RosterDownload
	downloadErr error
}

func (m *rosterServiceMock) Request(ctx context.Context, req dto.RosterExportRequest) (*dto.RosterJobResponse, error) {
	return m.requestResp, m.requestErr
}

func (m *rosterServiceMock) Status(ctx context.Context, id string) (*dto.RosterStatusResponse, error) {
	return m.statusResp, m.statusErr
}

func (m *rosterServiceMock) ResolveDownload(ctx context.Context, token string) (*service.RosterDownload, error) {
	return m.download, m.downloadErr
}

func TestRosterHandlerRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &rosterServiceMock{requestResp: &dto.RosterJobResponse{ID: "job-1", Status: models.RosterStatusQueued}}
	handler := NewRosterHandler(svc, nil)

	payload, _ := json.Marshal(dto.RosterExportRequest{Format: models.RosterFormatCSV})
	c, w := newGinContext(http.MethodPost, "/rosters", payload)

	handler.Request(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"QUEUED"`)
}

func TestRosterHandlerStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRosterHandler(&rosterServiceMock{statusErr: appErrors.Clone(appErrors.ErrNotFound, "roster job not found")}, nil)

	c, w := newGinContext(http.MethodGet, "/rosters/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Status(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRosterHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Start\n"), 0o600))
	file, err := os.Open(path)
	require.NoError(t, err)

	svc := &rosterServiceMock{download: &service.RosterDownload{
		File:      file,
		Filename:  "roster.csv",
		Format:    models.RosterFormatCSV,
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	handler := NewRosterHandler(svc, nil)

	c, w := newGinContext(http.MethodGet, "/rosters/download/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "roster.csv")
	assert.Equal(t, "Date,Start\n", w.Body.String())
}

func TestRosterHandlerDownloadForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRosterHandler(&rosterServiceMock{downloadErr: appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")}, nil)

	c, w := newGinContext(http.MethodGet, "/rosters/download/bad", nil)
	c.Params = gin.Params{{Key: "token", Value: "bad"}}

	handler.Download(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
