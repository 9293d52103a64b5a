package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/exam-scheduler-api/internal/models"
	"github.com/noah-isme/exam-scheduler-api/internal/scheduling"
	"github.com/noah-isme/exam-scheduler-api/pkg/export"
	"github.com/noah-isme/exam-scheduler-api/pkg/storage"
)

var rosterHeaders = []string{"Date", "Start", "End", "Module", "Rooms", "Surveillants", "Invigilation", "Status"}

type snapshotSource interface {
	Load(ctx context.Context) (*models.Directory, bool, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix    string
	ResultTTL    time.Duration
	DefaultCount int
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.RosterFormat
	ExpiresAt    time.Time
}

// ExportService renders surveillant rosters from the current snapshot and stores them for signed download.
type ExportService struct {
	directory snapshotSource
	storage   fileStorage
	csv       datasetRenderer
	pdf       datasetRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService. Nil renderers fall back to the pkg/export defaults.
func NewExportService(directory snapshotSource, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = 1
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		directory: directory,
		storage:   files,
		csv:       csv,
		pdf:       pdf,
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate builds the roster for job, renders it and stores the file behind a signed token.
func (s *ExportService) Generate(ctx context.Context, job *models.RosterJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dir, _, err := s.directory.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	dataset := s.BuildDataset(dir, job.Params)

	var payload []byte
	switch job.Params.Format {
	case models.RosterFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.RosterFormatPDF:
		payload, err = s.pdf.Render(dataset)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/rosters/download/%s", prefix, token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// BuildDataset lists the exams matching params in snapshot order, one row per exam.
func (s *ExportService) BuildDataset(dir *models.Directory, params models.RosterJobParams) export.Dataset {
	rows := make([]map[string]string, 0, len(dir.Exams))
	for _, exam := range dir.Exams {
		if !withinRange(exam.Date, params.DateFrom, params.DateTo) {
			continue
		}
		if params.TeacherID != 0 && !containsID(exam.SurveillantIDs, params.TeacherID) {
			continue
		}
		slot := scheduling.SlotOf(exam)
		module := scheduling.Placeholder
		if m, ok := dir.Module(exam.ModuleID); ok {
			module = m.Name
		}
		desired := len(exam.RoomIDs)
		if desired == 0 {
			desired = s.cfg.DefaultCount
		}
		rows = append(rows, map[string]string{
			"Date":         scheduling.CalendarDate(exam.Date),
			"Start":        exam.StartTime,
			"End":          formatClock(slot),
			"Module":       module,
			"Rooms":        strings.Join(roomNames(dir, exam.RoomIDs), ", "),
			"Surveillants": strings.Join(teacherNames(dir, exam.SurveillantIDs), ", "),
			"Invigilation": string(scheduling.InvigilationStatusOf(exam, desired)),
			"Status":       string(exam.Status),
		})
	}

	title := "Surveillance roster"
	if params.TeacherID != 0 {
		if teacher, ok := dir.Teacher(params.TeacherID); ok {
			title = fmt.Sprintf("Surveillance roster %s", teacher.Name)
		}
	}
	return export.Dataset{Title: title, Headers: rosterHeaders, Rows: rows}
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.RosterJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	scope := "all"
	if job.Params.TeacherID != 0 {
		scope = "teacher-" + strconv.FormatInt(job.Params.TeacherID, 10)
	}
	return fmt.Sprintf("roster_%s_%s_%s.%s", scope, timestamp, sanitizeFilename(job.ID), job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func formatClock(slot scheduling.Slot) string {
	end, ok := slot.End()
	if !ok {
		return scheduling.Placeholder
	}
	return fmt.Sprintf("%02d:%02d", (end/60)%24, end%60)
}

func roomNames(dir *models.Directory, ids []int64) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if room, ok := dir.Room(id); ok {
			names = append(names, room.Name)
			continue
		}
		names = append(names, scheduling.Placeholder)
	}
	return names
}

func teacherNames(dir *models.Directory, ids []int64) []string {
	names := make([]string, 0, len(ids))
	for _, id := range scheduling.MergeSurveillants(ids, nil) {
		if teacher, ok := dir.Teacher(id); ok {
			names = append(names, teacher.Name)
			continue
		}
		names = append(names, scheduling.Placeholder)
	}
	return names
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
