package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-scheduler-api/internal/dto"
	"github.com/noah-isme/exam-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/exam-scheduler-api/pkg/errors"
	"github.com/noah-isme/exam-scheduler-api/pkg/jobs"
)

const rosterJobType = "surveillant_roster"

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type rosterGenerator interface {
	Generate(ctx context.Context, job *models.RosterJob) (*ExportResult, error)
}

// RosterJobStore keeps roster job metadata in memory. Jobs do not survive a restart.
type RosterJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*models.RosterJob
}

// NewRosterJobStore constructs an empty store.
func NewRosterJobStore() *RosterJobStore {
	return &RosterJobStore{jobs: make(map[string]*models.RosterJob)}
}

func (s *RosterJobStore) create(job *models.RosterJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *job
	s.jobs[job.ID] = &copied
}

// Get returns a copy of the job.
func (s *RosterJobStore) Get(id string) (*models.RosterJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	copied := *job
	return &copied, true
}

func (s *RosterJobStore) update(id string, mutate func(job *models.RosterJob)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return false
	}
	mutate(job)
	return true
}

// purgeFinishedBefore drops finished or failed jobs older than cutoff and returns them.
func (s *RosterJobStore) purgeFinishedBefore(cutoff time.Time) []models.RosterJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged []models.RosterJob
	for id, job := range s.jobs {
		if job.FinishedAt == nil || job.FinishedAt.After(cutoff) {
			continue
		}
		purged = append(purged, *job)
		delete(s.jobs, id)
	}
	return purged
}

// RosterServiceConfig governs cleanup of generated rosters.
type RosterServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// RosterDownload aggregates resolved download data.
type RosterDownload struct {
	File      *os.File
	Filename  string
	Format    models.RosterFormat
	ExpiresAt time.Time
}

// RosterService orchestrates the roster export job lifecycle.
type RosterService struct {
	store     *RosterJobStore
	queue     jobDispatcher
	exporter  *ExportService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       RosterServiceConfig
}

// NewRosterService constructs the roster service.
func NewRosterService(store *RosterJobStore, queue jobDispatcher, exporter *ExportService, validate *validator.Validate, logger *zap.Logger, cfg RosterServiceConfig) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	registerSchedulingValidations(validate)
	return &RosterService{
		store:     store,
		queue:     queue,
		exporter:  exporter,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Request validates the payload, records a job and enqueues it.
func (s *RosterService) Request(ctx context.Context, req dto.RosterExportRequest) (*dto.RosterJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if req.DateFrom != "" && req.DateTo != "" && req.DateFrom > req.DateTo {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dateFrom must not be after dateTo")
	}

	job := &models.RosterJob{
		ID: uuid.NewString(),
		Params: models.RosterJobParams{
			Format:    req.Format,
			DateFrom:  req.DateFrom,
			DateTo:    req.DateTo,
			TeacherID: req.TeacherID,
		},
		Status:    models.RosterStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	s.store.create(job)

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: rosterJobType}); err != nil {
		msg := "failed to enqueue job"
		now := time.Now().UTC()
		s.store.update(job.ID, func(j *models.RosterJob) {
			j.Status = models.RosterStatusFailed
			j.Progress = 100
			j.ErrorMessage = &msg
			j.FinishedAt = &now
		})
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to enqueue roster job")
	}
	s.logger.Sugar().Infow("roster job queued", "job_id", job.ID, "format", job.Params.Format)
	return &dto.RosterJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// Status exposes job metadata to clients.
func (s *RosterService) Status(ctx context.Context, id string) (*dto.RosterStatusResponse, error) {
	job, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "roster job not found")
	}
	resp := &dto.RosterStatusResponse{
		ID:        job.ID,
		Status:    job.Status,
		Progress:  job.Progress,
		ResultURL: job.ResultURL,
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp, nil
}

// ResolveDownload validates token and opens the stored roster file.
func (s *RosterService) ResolveDownload(ctx context.Context, token string) (*RosterDownload, error) {
	jobID, relPath, expiresAt, err := s.exporter.ParseToken(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, ok := s.store.Get(jobID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "roster job not found")
	}
	if job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	if job.Status != models.RosterStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "roster not ready")
	}
	file, err := s.exporter.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open roster file")
	}
	return &RosterDownload{
		File:      file,
		Filename:  filepath.Base(relPath),
		Format:    job.Params.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// StartCleanup boots a goroutine that purges expired rosters periodically.
func (s *RosterService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired()
			}
		}
	}()
}

func (s *RosterService) cleanupExpired() {
	cutoff := time.Now().Add(-s.cfg.ResultTTL)
	for _, job := range s.store.purgeFinishedBefore(cutoff) {
		if job.ResultURL == nil {
			continue
		}
		token := extractToken(*job.ResultURL)
		_, relPath, _, err := s.exporter.ParseToken(token, true)
		if err != nil {
			continue
		}
		if err := s.exporter.Delete(relPath); err != nil {
			s.logger.Sugar().Warnw("cleanup delete failed", "job_id", job.ID, "error", err)
		}
	}
	if _, err := s.exporter.Cleanup(s.cfg.ResultTTL); err != nil {
		s.logger.Sugar().Warnw("filesystem cleanup failed", "error", err)
	}
}

func extractToken(url string) string {
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}

// RosterWorker bridges queue jobs to ExportService.
type RosterWorker struct {
	store      *RosterJobStore
	exporter   rosterGenerator
	logger     *zap.Logger
	maxRetries int
}

// NewRosterWorker constructs a worker.
func NewRosterWorker(store *RosterJobStore, exporter rosterGenerator, maxRetries int, logger *zap.Logger) *RosterWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &RosterWorker{store: store, exporter: exporter, logger: logger, maxRetries: maxRetries}
}

// Handle processes a queue job. Failures before the last attempt put the job back to QUEUED.
func (w *RosterWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, ok := w.store.Get(job.ID)
	if !ok {
		w.logger.Sugar().Warnw("roster job vanished", "job_id", job.ID)
		return nil
	}
	w.store.update(job.ID, func(j *models.RosterJob) {
		j.Status = models.RosterStatusProcessing
		j.Progress = 10
	})

	result, err := w.exporter.Generate(ctx, record)
	if err != nil {
		msg := err.Error()
		w.store.update(job.ID, func(j *models.RosterJob) {
			j.ErrorMessage = &msg
			if job.Attempt >= w.maxRetries {
				now := time.Now().UTC()
				j.Status = models.RosterStatusFailed
				j.Progress = 100
				j.FinishedAt = &now
				return
			}
			j.Status = models.RosterStatusQueued
			j.Progress = 0
		})
		return err
	}

	url := result.URL
	now := time.Now().UTC()
	w.store.update(job.ID, func(j *models.RosterJob) {
		j.Status = models.RosterStatusFinished
		j.Progress = 100
		j.ResultURL = &url
		j.ErrorMessage = nil
		j.FinishedAt = &now
	})
	return nil
}
