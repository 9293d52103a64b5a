package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/exam-scheduler-api/internal/models"
)

const examSelect = `SELECT e.id, e.module_id,
	TO_CHAR(e.exam_date, 'YYYY-MM-DD') AS date,
	TO_CHAR(e.start_time, 'HH24:MI') AS start_time,
	e.duration, e.type, e.status,
	COALESCE((SELECT array_agg(er.room_id ORDER BY er.position) FROM exam_rooms er WHERE er.exam_id = e.id), '{}') AS room_ids,
	COALESCE((SELECT array_agg(eg.group_id ORDER BY eg.position) FROM exam_groups eg WHERE eg.exam_id = e.id), '{}') AS group_ids,
	COALESCE((SELECT array_agg(es.teacher_id ORDER BY es.position) FROM exam_surveillants es WHERE es.exam_id = e.id), '{}') AS surveillant_ids
FROM exams e`

// DirectoryRepository reads the resources making up a scheduling snapshot.
// Every listing is ordered by id so that snapshot iteration order is stable.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository constructs a DirectoryRepository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// ListRooms returns every room.
func (r *DirectoryRepository) ListRooms(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, name, capacity, location FROM rooms ORDER BY id`
	rooms := []models.Room{}
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListTeachers returns every teacher.
func (r *DirectoryRepository) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	const query = `SELECT id, name, email, department, office, phone FROM teachers ORDER BY id`
	teachers := []models.Teacher{}
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ListModules returns every module with its responsible teacher.
func (r *DirectoryRepository) ListModules(ctx context.Context) ([]models.Module, error) {
	const query = `SELECT id, code, name, semester_id, teacher_id FROM modules ORDER BY id`
	modules := []models.Module{}
	if err := r.db.SelectContext(ctx, &modules, query); err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return modules, nil
}

// ListGroups returns every student group.
func (r *DirectoryRepository) ListGroups(ctx context.Context) ([]models.Group, error) {
	const query = `SELECT id, name, level_id, capacity FROM student_groups ORDER BY id`
	groups := []models.Group{}
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// ListExams returns every exam with its room, group and surveillant id sets.
func (r *DirectoryRepository) ListExams(ctx context.Context) ([]models.Exam, error) {
	exams := []models.Exam{}
	if err := r.db.SelectContext(ctx, &exams, examSelect+" ORDER BY e.id"); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}
