package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exam-scheduler-api/internal/dto"
	"github.com/noah-isme/exam-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/exam-scheduler-api/pkg/errors"
)

type invigilationServiceMock struct {
	conflictReq  dto.ConflictCheckRequest
	availableQ   dto.AvailabilityQuery
	autoReq      dto.AutoAssignRequest
	lastExamID   int64
	autoErr      error
	statusErr    error
	teachers     []models.Teacher
	manualResult *dto.ManualAssignResult
}

func (m *invigilationServiceMock) CheckConflicts(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error) {
	m.conflictReq = req
	report := models.ConflictReport{
		Rooms: []models.RoomConflict{{ConflictBase: models.ConflictBase{ExamID: 1, ExamName: "Algebra", Time: "2025-01-15 at 09:00"}, Rooms: []string{"A101"}}},
	}
	return &dto.ConflictCheckResponse{HasConflicts: true, Count: report.Count(), Report: report, Conflicts: report.All()}, nil
}

func (m *invigilationServiceMock) Available(ctx context.Context, query dto.AvailabilityQuery) ([]models.Teacher, error) {
	m.availableQ = query
	return m.teachers, nil
}

func (m *invigilationServiceMock) AutoAssign(ctx context.Context, examID int64, req dto.AutoAssignRequest) (*dto.AutoAssignResult, error) {
	m.lastExamID = examID
	m.autoReq = req
	if m.autoErr != nil {
		return nil, m.autoErr
	}
	return &dto.AutoAssignResult{ExamID: examID, Assigned: []int64{3}, SurveillantIDs: []int64{2, 3}, Status: models.InvigilationAssigned}, nil
}

func (m *invigilationServiceMock) AutoAssignAll(ctx context.Context, req dto.AutoAssignAllRequest) (*dto.AutoAssignAllResult, error) {
	return &dto.AutoAssignAllResult{Processed: 2}, nil
}

func (m *invigilationServiceMock) AssignManual(ctx context.Context, examID int64, req dto.ManualAssignRequest) (*dto.ManualAssignResult, error) {
	m.lastExamID = examID
	return m.manualResult, nil
}

func (m *invigilationServiceMock) Workload(ctx context.Context) ([]models.TeacherWorkload, error) {
	return []models.TeacherWorkload{{TeacherID: 2, TeacherName: "Bea", SurveilledExams: 1, SurveillanceMinutes: 120}}, nil
}

func (m *invigilationServiceMock) Status(ctx context.Context, examID int64) (*dto.InvigilationStatusResponse, error) {
	m.lastExamID = examID
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return &dto.InvigilationStatusResponse{ExamID: examID, Status: models.InvigilationUnassigned, Desired: 1}, nil
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestInvigilationHandlerCheckConflicts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &invigilationServiceMock{}
	handler := NewInvigilationHandler(svc)

	body, _ := json.Marshal(dto.ConflictCheckRequest{Date: "2025-01-15", StartTime: "09:00", Duration: 60, RoomIDs: []int64{1}})
	c, w := newGinContext(http.MethodPost, "/exams/conflicts", body)

	handler.CheckConflicts(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{1}, svc.conflictReq.RoomIDs)
	envelope := decodeEnvelope(t, w)
	assert.Contains(t, string(envelope["data"]), `"type":"room"`)
	assert.Contains(t, string(envelope["data"]), `"hasConflicts":true`)
}

func TestInvigilationHandlerCheckConflictsInvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInvigilationHandler(&invigilationServiceMock{})
	c, w := newGinContext(http.MethodPost, "/exams/conflicts", []byte("{"))

	handler.CheckConflicts(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvigilationHandlerAvailableBindsQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &invigilationServiceMock{teachers: []models.Teacher{{ID: 3, Name: "Cal"}}}
	handler := NewInvigilationHandler(svc)
	c, w := newGinContext(http.MethodGet, "/surveillants/available?date=2025-01-15&startTime=09:00&duration=120&excludeExamId=1", nil)

	handler.Available(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.AvailabilityQuery{Date: "2025-01-15", StartTime: "09:00", Duration: 120, ExcludeExamID: 1}, svc.availableQ)
	assert.Contains(t, w.Body.String(), `"name":"Cal"`)
}

func TestInvigilationHandlerStatusRejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInvigilationHandler(&invigilationServiceMock{})
	c, w := newGinContext(http.MethodGet, "/exams/abc/invigilation", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Status(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvigilationHandlerStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &invigilationServiceMock{statusErr: appErrors.Clone(appErrors.ErrNotFound, "exam not found")}
	handler := NewInvigilationHandler(svc)
	c, w := newGinContext(http.MethodGet, "/exams/9/invigilation", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}

	handler.Status(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(9), svc.lastExamID)
}

func TestInvigilationHandlerAutoAssignWithoutBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &invigilationServiceMock{}
	handler := NewInvigilationHandler(svc)
	c, w := newGinContext(http.MethodPost, "/exams/2/surveillants/auto-assign", nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}

	handler.AutoAssign(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), svc.lastExamID)
	assert.Zero(t, svc.autoReq.Count)
}

func TestInvigilationHandlerAutoAssignNoCandidates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &invigilationServiceMock{autoErr: appErrors.WithDetails(appErrors.ErrNoAvailableSurveillants, map[string]int64{"examId": 2})}
	handler := NewInvigilationHandler(svc)
	body, _ := json.Marshal(dto.AutoAssignRequest{Count: 2})
	c, w := newGinContext(http.MethodPost, "/exams/2/surveillants/auto-assign", body)
	c.Params = gin.Params{{Key: "id", Value: "2"}}

	handler.AutoAssign(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 2, svc.autoReq.Count)
	assert.Contains(t, w.Body.String(), "NO_AVAILABLE_SURVEILLANTS")
}

func TestInvigilationHandlerAssignManual(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &invigilationServiceMock{manualResult: &dto.ManualAssignResult{ExamID: 4, SurveillantIDs: []int64{2}, Status: models.InvigilationAssigned}}
	handler := NewInvigilationHandler(svc)
	body, _ := json.Marshal(dto.ManualAssignRequest{SurveillantIDs: []int64{2}})
	c, w := newGinContext(http.MethodPut, "/exams/4/surveillants", body)
	c.Params = gin.Params{{Key: "id", Value: "4"}}

	handler.AssignManual(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4), svc.lastExamID)
}

func TestInvigilationHandlerWorkloadAndBulk(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInvigilationHandler(&invigilationServiceMock{})

	c, w := newGinContext(http.MethodGet, "/teachers/workload", nil)
	handler.Workload(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"surveillance_minutes":120`)

	c, w = newGinContext(http.MethodPost, "/exams/surveillants/auto-assign", []byte(`{"dateFrom":"2025-01-01"}`))
	handler.AutoAssignAll(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"processed":2`)
}
