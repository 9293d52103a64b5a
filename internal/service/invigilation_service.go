package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-scheduler-api/internal/dto"
	"github.com/noah-isme/exam-scheduler-api/internal/models"
	"github.com/noah-isme/exam-scheduler-api/internal/repository"
	"github.com/noah-isme/exam-scheduler-api/internal/scheduling"
	appErrors "github.com/noah-isme/exam-scheduler-api/pkg/errors"
)

type directoryLoader interface {
	Load(ctx context.Context) (*models.Directory, bool, error)
	Invalidate(ctx context.Context) error
}

type surveillantStore interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Exam, error)
	ReplaceSurveillants(ctx context.Context, exec sqlx.ExtContext, examID int64, teacherIDs []int64) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// InvigilationConfig tunes surveillant assignment.
type InvigilationConfig struct {
	// DefaultCount is the desired head count for exams without rooms.
	DefaultCount int
	// BulkLimit caps how many exams one bulk pass may process; zero means unlimited.
	BulkLimit int
}

// InvigilationService exposes conflict checks and surveillant assignment over the current snapshot.
type InvigilationService struct {
	directory directoryLoader
	exams     surveillantStore
	tx        txProvider
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       InvigilationConfig
}

// NewInvigilationService constructs the service.
func NewInvigilationService(directory directoryLoader, exams surveillantStore, tx txProvider, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg InvigilationConfig) *InvigilationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = 1
	}
	registerSchedulingValidations(validate)
	return &InvigilationService{
		directory: directory,
		exams:     exams,
		tx:        tx,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// CheckConflicts reports room, teacher and surveillant conflicts for a candidate exam window.
// Conflicts are advisory; nothing is blocked.
func (s *InvigilationService) CheckConflicts(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	dir, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	report := scheduling.DetectAll(dir, scheduling.ConflictQuery{
		Slot:           scheduling.Slot{Date: req.Date, StartTime: req.StartTime, Duration: req.Duration},
		RoomIDs:        req.RoomIDs,
		ModuleID:       req.ModuleID,
		SurveillantIDs: req.SurveillantIDs,
		ExcludeExamID:  req.ExcludeExamID,
	})
	s.metrics.RecordConflicts(report)

	return &dto.ConflictCheckResponse{
		HasConflicts: !report.Empty(),
		Count:        report.Count(),
		Report:       report,
		Conflicts:    report.All(),
	}, nil
}

// Available lists teachers free to invigilate the given window. Auto-assign picks from a narrower
// pool because it also skips responsible teachers of the exam and of overlapping exams.
func (s *InvigilationService) Available(ctx context.Context, query dto.AvailabilityQuery) ([]models.Teacher, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid filter")
	}
	dir, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	slot := scheduling.Slot{Date: query.Date, StartTime: query.StartTime, Duration: query.Duration}
	return scheduling.AvailableSurveillants(dir, slot, query.ExcludeExamID), nil
}

// AutoAssign picks free surveillants for one exam, merges them into its current set and persists the result.
func (s *InvigilationService) AutoAssign(ctx context.Context, examID int64, req dto.AutoAssignRequest) (*dto.AutoAssignResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	dir, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	exam, ok := dir.Exam(examID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
	}
	if exam.IsCancelled() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "exam is cancelled")
	}

	result, err := s.assign(ctx, dir, exam, req.Count)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAssignments(AssignmentModeAuto, len(result.Assigned))
	s.invalidate(ctx)

	s.logger.Sugar().Infow("surveillants auto-assigned", "exam_id", examID, "assigned", result.Assigned)
	return &result, nil
}

// AutoAssignAll staffs every unassigned, non-cancelled exam in snapshot order. Each exam is persisted
// before the next is considered, so earlier exams shrink the pool available to later ones.
// Per-exam failures are reported and the pass continues.
func (s *InvigilationService) AutoAssignAll(ctx context.Context, req dto.AutoAssignAllRequest) (*dto.AutoAssignAllResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if req.DateFrom != "" && req.DateTo != "" && scheduling.CalendarDate(req.DateFrom) > scheduling.CalendarDate(req.DateTo) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dateFrom must not be after dateTo")
	}
	dir, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.AutoAssignAllResult{Assigned: []dto.AutoAssignResult{}, Failed: []dto.AutoAssignFailure{}}
	working := dir
	added := 0
	for _, candidate := range dir.Exams {
		if ctx.Err() != nil {
			s.logger.Sugar().Warnw("bulk auto-assign interrupted", "processed", result.Processed, "error", ctx.Err())
			break
		}
		if s.cfg.BulkLimit > 0 && result.Processed >= s.cfg.BulkLimit {
			break
		}
		if candidate.IsCancelled() || len(candidate.SurveillantIDs) > 0 || !withinRange(candidate.Date, req.DateFrom, req.DateTo) {
			continue
		}
		result.Processed++

		exam, _ := working.Exam(candidate.ID)
		assigned, err := s.assign(ctx, working, exam, req.Count)
		if err != nil {
			appErr := appErrors.FromError(err)
			result.Failed = append(result.Failed, dto.AutoAssignFailure{ExamID: exam.ID, Code: appErr.Code, Reason: appErr.Message})
			continue
		}
		updated := exam.Clone()
		updated.SurveillantIDs = assigned.SurveillantIDs
		working = working.WithExam(updated)
		added += len(assigned.Assigned)
		result.Assigned = append(result.Assigned, assigned)
	}

	if len(result.Assigned) > 0 {
		s.metrics.RecordAssignments(AssignmentModeBulk, added)
		s.invalidate(ctx)
	}
	s.logger.Sugar().Infow("bulk auto-assign finished", "processed", result.Processed, "assigned", len(result.Assigned), "failed", len(result.Failed))
	return result, nil
}

// AssignManual replaces the surveillants of an exam with an operator's choice. Unlike auto-assignment
// the module's responsible teacher is accepted. Overlapping invigilations are returned as advisory conflicts.
func (s *InvigilationService) AssignManual(ctx context.Context, examID int64, req dto.ManualAssignRequest) (*dto.ManualAssignResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	dir, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	exam, ok := dir.Exam(examID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
	}

	ids := scheduling.MergeSurveillants(req.SurveillantIDs, nil)
	conflicts := scheduling.CheckSurveillantConflicts(dir, scheduling.SlotOf(exam), ids, exam.ID)

	if _, err := s.persist(ctx, exam.ID, func([]int64) ([]int64, error) { return ids, nil }); err != nil {
		return nil, err
	}
	s.metrics.RecordConflicts(models.ConflictReport{Surveillants: conflicts})
	s.metrics.RecordAssignments(AssignmentModeManual, len(ids))
	s.invalidate(ctx)

	updated := exam.Clone()
	updated.SurveillantIDs = ids
	return &dto.ManualAssignResult{
		ExamID:         exam.ID,
		SurveillantIDs: ids,
		Status:         scheduling.InvigilationStatusOf(updated, s.desired(updated)),
		Conflicts:      conflicts,
	}, nil
}

// Workload tallies invigilation and responsibility per teacher.
func (s *InvigilationService) Workload(ctx context.Context) ([]models.TeacherWorkload, error) {
	dir, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return scheduling.TeacherWorkloads(dir), nil
}

// Status reports the invigilation state of one exam.
func (s *InvigilationService) Status(ctx context.Context, examID int64) (*dto.InvigilationStatusResponse, error) {
	dir, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	exam, ok := dir.Exam(examID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
	}

	ids := scheduling.MergeSurveillants(exam.SurveillantIDs, nil)
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name := scheduling.Placeholder
		if teacher, ok := dir.Teacher(id); ok {
			name = teacher.Name
		}
		names = append(names, name)
	}
	desired := s.desired(exam)
	return &dto.InvigilationStatusResponse{
		ExamID:         exam.ID,
		Status:         scheduling.InvigilationStatusOf(exam, desired),
		Desired:        desired,
		SurveillantIDs: ids,
		Surveillants:   names,
	}, nil
}

// assign runs the engine against dir for exam, then merges the picks into the surveillant set
// currently stored for the exam, which may be newer than dir. Picks that are already stored do
// not count as assignments.
func (s *InvigilationService) assign(ctx context.Context, dir *models.Directory, exam models.Exam, count int) (dto.AutoAssignResult, error) {
	if count <= 0 {
		count = s.desired(exam)
	}
	noneAvailable := appErrors.WithDetails(appErrors.ErrNoAvailableSurveillants, map[string]int64{"examId": exam.ID})
	picked := scheduling.AutoAssignSurveillants(dir, exam.ID, count)
	if len(picked) == 0 {
		return dto.AutoAssignResult{}, noneAvailable
	}

	var added []int64
	merged, err := s.persist(ctx, exam.ID, func(stored []int64) ([]int64, error) {
		current := scheduling.MergeSurveillants(stored, nil)
		next := scheduling.MergeSurveillants(current, picked)
		added = next[len(current):]
		if len(added) == 0 {
			return nil, noneAvailable
		}
		return next, nil
	})
	if err != nil {
		return dto.AutoAssignResult{}, err
	}

	updated := exam.Clone()
	updated.SurveillantIDs = merged
	return dto.AutoAssignResult{
		ExamID:         exam.ID,
		Assigned:       added,
		SurveillantIDs: merged,
		Status:         scheduling.InvigilationStatusOf(updated, s.desired(updated)),
	}, nil
}

// persist locks the stored exam, lets next derive the new surveillant set from the stored one
// and writes it in the same transaction. It returns the set that was written.
func (s *InvigilationService) persist(ctx context.Context, examID int64, next func(stored []int64) ([]int64, error)) (ids []int64, err error) {
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stored, err := s.exams.FindByID(ctx, tx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrExamNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	if ids, err = next(stored.SurveillantIDs); err != nil {
		return nil, err
	}
	if err = s.exams.ReplaceSurveillants(ctx, tx, examID, ids); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save surveillants")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit surveillants")
	}
	return ids, nil
}

func (s *InvigilationService) load(ctx context.Context) (*models.Directory, error) {
	dir, _, err := s.directory.Load(ctx)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return dir, nil
}

func (s *InvigilationService) invalidate(ctx context.Context) {
	if err := s.directory.Invalidate(ctx); err != nil {
		s.logger.Warn("invalidate directory snapshot", zap.Error(err))
	}
}

// desired is one surveillant per room, falling back to the configured default for roomless exams.
func (s *InvigilationService) desired(exam models.Exam) int {
	if len(exam.RoomIDs) > 0 {
		return len(exam.RoomIDs)
	}
	return s.cfg.DefaultCount
}

func withinRange(date, from, to string) bool {
	day := scheduling.CalendarDate(date)
	if from != "" && day < scheduling.CalendarDate(from) {
		return false
	}
	if to != "" && day > scheduling.CalendarDate(to) {
		return false
	}
	return true
}
