package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRepositoryReplaceWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	savedAt := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	records := []models.ScheduleRecord{
		{Day: models.DayMonday, Start: "08:00", End: "12:00", Kind: models.KindCenter},
		{Day: models.DayMonday, Start: "12:00", End: "23:00", Kind: models.KindExternal, Description: "학교"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_records WHERE student_id = $1 AND week_start = $2")).
		WithArgs("1", "2026-01-05").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_records")).
		WithArgs(sqlmock.AnyArg(), "1", "2026-01-05", "mon", "08:00", "12:00", "center", "", savedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_records")).
		WithArgs(sqlmock.AnyArg(), "1", "2026-01-05", "mon", "12:00", "23:00", "external", "학교", savedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.ReplaceWeek(context.Background(), "1", "2026-01-05", records, savedAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Every row carries the single batch timestamp.
	for _, r := range records {
		require.NotNil(t, r.SavedAt)
		assert.Equal(t, savedAt, *r.SavedAt)
		assert.NotEmpty(t, r.ID)
	}
}

func TestScheduleRepositoryReplaceWeekRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	savedAt := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_records")).
		WithArgs("1", "2026-01-05").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_records")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ReplaceWeek(context.Background(), "1", "2026-01-05", []models.ScheduleRecord{
		{Day: models.DayMonday, Start: "08:00", End: "12:00", Kind: models.KindCenter},
	}, savedAt)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListByStudentWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	savedAt := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "student_id", "week_start", "day", "start_time", "end_time", "kind", "description", "saved_at"}).
		AddRow("r1", "1", "2026-01-05", "mon", "08:00", "12:00", "center", "", savedAt)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, week_start, day, start_time, end_time, kind, description, saved_at FROM schedule_records WHERE student_id = $1 AND week_start = $2")).
		WithArgs("1", "2026-01-05").
		WillReturnRows(rows)

	records, err := repo.ListByStudentWeek(context.Background(), "1", "2026-01-05")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.DayMonday, records[0].Day)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryLatestWeekStartEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT week_start FROM schedule_records WHERE student_id = $1")).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"week_start"}))

	weekStart, err := repo.LatestWeekStart(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, weekStart)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListRecentSaves(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"week_start", "saved_at", "records"}).
		AddRow("2026-01-12", now, 9).
		AddRow("2026-01-05", now.Add(-7*24*time.Hour), 11)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT week_start, MAX(saved_at) AS saved_at, COUNT(*) AS records FROM schedule_records WHERE student_id = $1 GROUP BY week_start")).
		WithArgs("1", 3).
		WillReturnRows(rows)

	saves, err := repo.ListRecentSaves(context.Background(), "1", 3)
	require.NoError(t, err)
	require.Len(t, saves, 2)
	assert.Equal(t, "2026-01-12", saves[0].WeekStart)
	assert.Equal(t, 9, saves[0].Records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryDeleteByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_records WHERE student_id = $1")).
		WithArgs("1").
		WillReturnResult(sqlmock.NewResult(0, 12))

	require.NoError(t, repo.DeleteByStudent(context.Background(), "1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
