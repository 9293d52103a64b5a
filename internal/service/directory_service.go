package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/exam-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/exam-scheduler-api/pkg/errors"
)

const (
	directorySnapshotKey = "directory:snapshot"
	directoryKeyPattern  = "directory:*"
)

type directoryRepository interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	ListModules(ctx context.Context) ([]models.Module, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListExams(ctx context.Context) ([]models.Exam, error)
}

// DirectoryService assembles scheduling snapshots, cached through Redis when enabled.
type DirectoryService struct {
	repo    directoryRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	ttl     time.Duration
}

// NewDirectoryService constructs a DirectoryService. cache and metrics may be nil.
func NewDirectoryService(repo directoryRepository, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{repo: repo, cache: cache, metrics: metrics, logger: logger, ttl: ttl}
}

// Load returns the current snapshot. The bool reports whether it came from cache.
func (s *DirectoryService) Load(ctx context.Context) (*models.Directory, bool, error) {
	var cached models.Directory
	hit, err := s.cache.Get(ctx, directorySnapshotKey, &cached)
	if err != nil {
		s.logger.Warn("directory cache read failed, loading from database", zap.Error(err))
	} else if hit {
		return &cached, true, nil
	}

	dir, err := s.loadFromStore(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resource directory")
	}

	if err := s.cache.Set(ctx, directorySnapshotKey, dir, s.ttl); err != nil {
		s.logger.Warn("cache directory snapshot", zap.Error(err))
	}
	return dir, false, nil
}

// Invalidate drops every cached snapshot so the next Load reads the database.
func (s *DirectoryService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, directoryKeyPattern)
}

func (s *DirectoryService) loadFromStore(ctx context.Context) (*models.Directory, error) {
	dir := &models.Directory{}
	var err error

	if dir.Rooms, err = timed(s, "directory_rooms", func() ([]models.Room, error) { return s.repo.ListRooms(ctx) }); err != nil {
		return nil, err
	}
	if dir.Teachers, err = timed(s, "directory_teachers", func() ([]models.Teacher, error) { return s.repo.ListTeachers(ctx) }); err != nil {
		return nil, err
	}
	if dir.Modules, err = timed(s, "directory_modules", func() ([]models.Module, error) { return s.repo.ListModules(ctx) }); err != nil {
		return nil, err
	}
	if dir.Groups, err = timed(s, "directory_groups", func() ([]models.Group, error) { return s.repo.ListGroups(ctx) }); err != nil {
		return nil, err
	}
	if dir.Exams, err = timed(s, "directory_exams", func() ([]models.Exam, error) { return s.repo.ListExams(ctx) }); err != nil {
		return nil, err
	}
	return dir, nil
}

func timed[T any](s *DirectoryService, label string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	if err == nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
	return out, err
}
