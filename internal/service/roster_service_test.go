package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-scheduler-api/internal/dto"
	"github.com/noah-isme/exam-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/exam-scheduler-api/pkg/errors"
	"github.com/noah-isme/exam-scheduler-api/pkg/jobs"
)

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type generatorStub struct {
	result *ExportResult
	err    error
}

func (g generatorStub) Generate(ctx context.Context, job *models.RosterJob) (*ExportResult, error) {
	return g.result, g.err
}

func newRosterServiceForTest(t *testing.T) (*RosterService, *RosterJobStore, *queueStub, *ExportService) {
	t.Helper()
	exporter, _ := newExportServiceForTest(t)
	store := NewRosterJobStore()
	queue := &queueStub{}
	svc := NewRosterService(store, queue, exporter, nil, zap.NewNop(), RosterServiceConfig{ResultTTL: time.Hour})
	return svc, store, queue, exporter
}

func TestRosterServiceRequest(t *testing.T) {
	svc, store, queue, _ := newRosterServiceForTest(t)

	resp, err := svc.Request(context.Background(), dto.RosterExportRequest{Format: models.RosterFormatCSV, DateFrom: "2025-01-01"})
	require.NoError(t, err)

	assert.Equal(t, models.RosterStatusQueued, resp.Status)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, resp.ID, queue.jobs[0].ID)
	job, ok := store.Get(resp.ID)
	require.True(t, ok)
	assert.Equal(t, "2025-01-01", job.Params.DateFrom)
}

func TestRosterServiceRequestValidation(t *testing.T) {
	svc, _, queue, _ := newRosterServiceForTest(t)

	_, err := svc.Request(context.Background(), dto.RosterExportRequest{Format: "xlsx"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Request(context.Background(), dto.RosterExportRequest{Format: models.RosterFormatPDF, DateFrom: "2025-02-01", DateTo: "2025-01-01"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, queue.jobs)
}

func TestRosterServiceRequestEnqueueFailureMarksJobFailed(t *testing.T) {
	svc, store, queue, _ := newRosterServiceForTest(t)
	queue.err = errors.New("queue stopped")

	_, err := svc.Request(context.Background(), dto.RosterExportRequest{Format: models.RosterFormatCSV})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)

	require.Len(t, store.jobs, 1)
	for id := range store.jobs {
		job, _ := store.Get(id)
		assert.Equal(t, models.RosterStatusFailed, job.Status)
	}
}

func TestRosterServiceStatusNotFound(t *testing.T) {
	svc, _, _, _ := newRosterServiceForTest(t)
	_, err := svc.Status(context.Background(), "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestRosterWorkerAndDownload(t *testing.T) {
	svc, store, queue, exporter := newRosterServiceForTest(t)
	worker := NewRosterWorker(store, exporter, 3, zap.NewNop())

	resp, err := svc.Request(context.Background(), dto.RosterExportRequest{Format: models.RosterFormatCSV})
	require.NoError(t, err)
	require.NoError(t, worker.Handle(context.Background(), queue.jobs[0]))

	status, err := svc.Status(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RosterStatusFinished, status.Status)
	assert.Equal(t, 100, status.Progress)
	require.NotNil(t, status.ResultURL)

	token := extractToken(*status.ResultURL)
	download, err := svc.ResolveDownload(context.Background(), token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, models.RosterFormatCSV, download.Format)
	assert.Contains(t, download.Filename, resp.ID)

	_, err = svc.ResolveDownload(context.Background(), token+"x")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestRosterWorkerFailureRetries(t *testing.T) {
	store := NewRosterJobStore()
	store.create(&models.RosterJob{ID: "job-1", Status: models.RosterStatusQueued})
	worker := NewRosterWorker(store, generatorStub{err: errors.New("render failed")}, 2, nil)

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 0})
	require.Error(t, err)
	job, _ := store.Get("job-1")
	assert.Equal(t, models.RosterStatusQueued, job.Status)
	require.NotNil(t, job.ErrorMessage)

	err = worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 2})
	require.Error(t, err)
	job, _ = store.Get("job-1")
	assert.Equal(t, models.RosterStatusFailed, job.Status)
	assert.NotNil(t, job.FinishedAt)
}

func TestRosterServiceCleanupPurgesExpiredJobs(t *testing.T) {
	svc, store, queue, exporter := newRosterServiceForTest(t)
	worker := NewRosterWorker(store, exporter, 3, nil)

	resp, err := svc.Request(context.Background(), dto.RosterExportRequest{Format: models.RosterFormatCSV})
	require.NoError(t, err)
	require.NoError(t, worker.Handle(context.Background(), queue.jobs[0]))

	old := time.Now().Add(-2 * time.Hour)
	store.update(resp.ID, func(j *models.RosterJob) { j.FinishedAt = &old })

	svc.cleanupExpired()

	_, ok := store.Get(resp.ID)
	assert.False(t, ok)
}
