package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/exam-scheduler-api/api/swagger"
	"github.com/noah-isme/exam-scheduler-api/internal/handler"
	"github.com/noah-isme/exam-scheduler-api/internal/middleware"
	"github.com/noah-isme/exam-scheduler-api/internal/repository"
	"github.com/noah-isme/exam-scheduler-api/internal/service"
	"github.com/noah-isme/exam-scheduler-api/pkg/cache"
	"github.com/noah-isme/exam-scheduler-api/pkg/config"
	"github.com/noah-isme/exam-scheduler-api/pkg/database"
	"github.com/noah-isme/exam-scheduler-api/pkg/jobs"
	"github.com/noah-isme/exam-scheduler-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/exam-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/exam-scheduler-api/pkg/middleware/requestid"
	"github.com/noah-isme/exam-scheduler-api/pkg/storage"
)

// @title Exam Scheduler API
// @version 0.1.0
// @description Exam conflict detection and surveillant assignment
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, directory cache disabled", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Directory.CacheTTL, logr, cfg.Directory.CacheEnabled && cacheRepo.Enabled())

	validate := validator.New()
	directorySvc := service.NewDirectoryService(repository.NewDirectoryRepository(db), cacheSvc, metricsSvc, cfg.Directory.CacheTTL, logr)
	invigilationSvc := service.NewInvigilationService(
		directorySvc,
		repository.NewExamRepository(db),
		db,
		validate,
		metricsSvc,
		logr,
		service.InvigilationConfig{DefaultCount: cfg.Invigilation.DefaultCount, BulkLimit: cfg.Invigilation.BulkLimit},
	)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc,
		handler.ReadinessCheck{Name: "postgres", Ping: db.PingContext},
		handler.ReadinessCheck{Name: "redis", Ping: cacheRepo.Ping},
	)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	invigilationHandler := handler.NewInvigilationHandler(invigilationSvc)
	api.POST("/exams/conflicts", invigilationHandler.CheckConflicts)
	api.POST("/exams/surveillants/auto-assign", invigilationHandler.AutoAssignAll)
	api.GET("/exams/:id/invigilation", invigilationHandler.Status)
	api.POST("/exams/:id/surveillants/auto-assign", invigilationHandler.AutoAssign)
	api.PUT("/exams/:id/surveillants", invigilationHandler.AssignManual)
	api.GET("/surveillants/available", invigilationHandler.Available)
	api.GET("/teachers/workload", invigilationHandler.Workload)

	if cfg.Rosters.Enabled {
		queue, err := setupRosters(ctx, cfg, api, directorySvc, validate, logr)
		if err != nil {
			logr.Sugar().Fatalw("failed to init rosters", "error", err)
		}
		defer queue.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// setupRosters wires roster storage, the export worker pool and its routes.
func setupRosters(ctx context.Context, cfg *config.Config, api *gin.RouterGroup, directory *service.DirectoryService, validate *validator.Validate, logr *zap.Logger) (*jobs.Queue, error) {
	files, err := storage.NewLocalStorage(cfg.Rosters.StorageDir)
	if err != nil {
		return nil, err
	}
	signer := storage.NewSignedURLSigner(cfg.Rosters.SignedURLSecret, cfg.Rosters.SignedURLTTL)
	exporter := service.NewExportService(directory, files, signer, service.ExportConfig{
		APIPrefix:    cfg.APIPrefix,
		ResultTTL:    cfg.Rosters.SignedURLTTL,
		DefaultCount: cfg.Invigilation.DefaultCount,
	}, logr, nil, nil)

	store := service.NewRosterJobStore()
	worker := service.NewRosterWorker(store, exporter, cfg.Rosters.WorkerRetries, logr)
	queue := jobs.NewQueue("rosters", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Rosters.WorkerConcurrency,
		MaxRetries: cfg.Rosters.WorkerRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	queue.Start(ctx)

	rosterSvc := service.NewRosterService(store, queue, exporter, validate, logr, service.RosterServiceConfig{
		ResultTTL:       cfg.Rosters.SignedURLTTL,
		CleanupInterval: cfg.Rosters.CleanupInterval,
	})
	rosterSvc.StartCleanup(ctx)

	rosterHandler := handler.NewRosterHandler(rosterSvc, logr)
	api.POST("/rosters", rosterHandler.Request)
	api.GET("/rosters/:id", rosterHandler.Status)
	api.GET("/rosters/download/:token", rosterHandler.Download)
	return queue, nil
}
