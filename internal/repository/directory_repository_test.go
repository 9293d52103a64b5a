package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exam-scheduler-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestDirectoryRepositoryListRoomsAndTeachers(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, capacity, location FROM rooms ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "location"}).
			AddRow(1, "A101", 40, "Block A").
			AddRow(2, "B202", 25, "Block B"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, department, office, phone FROM teachers ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "department", "office", "phone"}).
			AddRow(10, "Ada", "ada@example.com", "Maths", nil, nil))

	rooms, err := repo.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "B202", rooms[1].Name)

	teachers, err := repo.ListTeachers(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	require.NotNil(t, teachers[0].Department)
	assert.Equal(t, "Maths", *teachers[0].Department)
	assert.Nil(t, teachers[0].Office)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryListModulesAndGroups(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, name, semester_id, teacher_id FROM modules ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "semester_id", "teacher_id"}).
			AddRow(1, "ALG", "Algebra", 1, 10))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, level_id, capacity FROM student_groups ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "level_id", "capacity"}))

	modules, err := repo.ListModules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), modules[0].TeacherID)

	groups, err := repo.ListGroups(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryListExamsScansIDSets(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery("FROM exams e ORDER BY e.id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "module_id", "date", "start_time", "duration", "type", "status", "room_ids", "group_ids", "surveillant_ids"}).
			AddRow(1, 1, "2025-01-15", "09:00", 120, "Written", "Scheduled", "{1,2}", "{3}", "{}"))

	exams, err := repo.ListExams(context.Background())
	require.NoError(t, err)
	require.Len(t, exams, 1)
	exam := exams[0]
	assert.Equal(t, "2025-01-15", exam.Date)
	assert.Equal(t, "09:00", exam.StartTime)
	assert.Equal(t, models.ExamTypeWritten, exam.Type)
	assert.Equal(t, models.ExamStatusScheduled, exam.Status)
	assert.Equal(t, pq.Int64Array{1, 2}, exam.RoomIDs)
	assert.Equal(t, pq.Int64Array{3}, exam.GroupIDs)
	assert.Empty(t, exam.SurveillantIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryWrapsErrors(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewDirectoryRepository(db)
	boom := errors.New("boom")

	mock.ExpectQuery("FROM exams e").WillReturnError(boom)

	_, err := repo.ListExams(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "list exams")
}
