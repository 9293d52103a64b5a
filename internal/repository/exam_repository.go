package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/exam-scheduler-api/internal/models"
)

// ErrExamNotFound is returned when an exam id does not exist.
var ErrExamNotFound = errors.New("exam not found")

// ExamRepository writes exam invigilation data back to the store.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

func (r *ExamRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByID fetches one exam with its id sets. Inside a caller transaction the exam row is
// locked until commit so concurrent surveillant writes serialise.
func (r *ExamRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Exam, error) {
	query := examSelect + " WHERE e.id = $1"
	if exec != nil {
		query += " FOR UPDATE OF e"
	}
	var exam models.Exam
	if err := sqlx.GetContext(ctx, r.exec(exec), &exam, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("find exam: %w", err)
	}
	return &exam, nil
}

// ReplaceSurveillants overwrites the surveillant set of an exam, keeping the given order.
func (r *ExamRepository) ReplaceSurveillants(ctx context.Context, exec sqlx.ExtContext, examID int64, teacherIDs []int64) error {
	target := r.exec(exec)

	if _, err := target.ExecContext(ctx, `DELETE FROM exam_surveillants WHERE exam_id = $1`, examID); err != nil {
		return fmt.Errorf("clear exam surveillants: %w", err)
	}

	const insert = `INSERT INTO exam_surveillants (exam_id, teacher_id, position) VALUES ($1, $2, $3)`
	for i, teacherID := range teacherIDs {
		if _, err := target.ExecContext(ctx, insert, examID, teacherID, i); err != nil {
			return fmt.Errorf("insert exam surveillant: %w", err)
		}
	}
	return nil
}
