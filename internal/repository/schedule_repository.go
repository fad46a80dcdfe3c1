package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

// ScheduleRepository provides persistence for weekly schedule records.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = "id, student_id, week_start, day, start_time, end_time, kind, description, saved_at"

// ReplaceWeek atomically replaces all rows for (student, week) with the
// given batch, stamping every row with the single savedAt timestamp. The
// delete and inserts share one transaction so readers never observe a
// half-written batch.
func (r *ScheduleRepository) ReplaceWeek(ctx context.Context, studentID, weekStart string, records []models.ScheduleRecord, savedAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace week: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM schedule_records WHERE student_id = $1 AND week_start = $2`, studentID, weekStart); err != nil {
		return fmt.Errorf("delete week records: %w", err)
	}

	const insert = `INSERT INTO schedule_records (id, student_id, week_start, day, start_time, end_time, kind, description, saved_at) VALUES (:id, :student_id, :week_start, :day, :start_time, :end_time, :kind, :description, :saved_at)`
	for i := range records {
		payload := records[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		payload.StudentID = studentID
		payload.WeekStart = weekStart
		stamped := savedAt
		payload.SavedAt = &stamped

		if _, err = sqlx.NamedExecContext(ctx, tx, insert, &payload); err != nil {
			return fmt.Errorf("insert week record: %w", err)
		}
		records[i] = payload
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace week: %w", err)
	}
	return nil
}

// ListByStudentWeek returns all stored rows for one student and week.
func (r *ScheduleRepository) ListByStudentWeek(ctx context.Context, studentID, weekStart string) ([]models.ScheduleRecord, error) {
	const query = `SELECT ` + scheduleColumns + ` FROM schedule_records WHERE student_id = $1 AND week_start = $2 ORDER BY saved_at DESC, day ASC, start_time ASC`
	var records []models.ScheduleRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID, weekStart); err != nil {
		return nil, fmt.Errorf("list student week: %w", err)
	}
	return records, nil
}

// LatestWeekStart returns the week of the student's most recent save, or an
// empty string when the student has never saved.
func (r *ScheduleRepository) LatestWeekStart(ctx context.Context, studentID string) (string, error) {
	const query = `SELECT week_start FROM schedule_records WHERE student_id = $1 ORDER BY saved_at DESC NULLS LAST LIMIT 1`
	var weekStart string
	if err := r.db.GetContext(ctx, &weekStart, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("latest week start: %w", err)
	}
	return weekStart, nil
}

// ListRecentSaves returns the student's save history, newest first.
func (r *ScheduleRepository) ListRecentSaves(ctx context.Context, studentID string, limit int) ([]models.SaveSummary, error) {
	const query = `SELECT week_start, MAX(saved_at) AS saved_at, COUNT(*) AS records FROM schedule_records WHERE student_id = $1 GROUP BY week_start ORDER BY MAX(saved_at) DESC LIMIT $2`
	var saves []models.SaveSummary
	if err := r.db.SelectContext(ctx, &saves, query, studentID, limit); err != nil {
		return nil, fmt.Errorf("list recent saves: %w", err)
	}
	return saves, nil
}

// ListByWeek returns every student's rows for a week joined with names, for
// the admin view.
func (r *ScheduleRepository) ListByWeek(ctx context.Context, weekStart string) ([]models.WeekScheduleRow, error) {
	const query = `SELECT r.id, r.student_id, r.week_start, r.day, r.start_time, r.end_time, r.kind, r.description, r.saved_at, s.name AS student_name FROM schedule_records r JOIN students s ON s.id = r.student_id WHERE r.week_start = $1 ORDER BY s.name ASC, r.day ASC, r.start_time ASC`
	var rows []models.WeekScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, weekStart); err != nil {
		return nil, fmt.Errorf("list week: %w", err)
	}
	return rows, nil
}

// ListStudentWeeks returns the distinct weeks a student has saved.
func (r *ScheduleRepository) ListStudentWeeks(ctx context.Context, studentID string) ([]string, error) {
	const query = `SELECT DISTINCT week_start FROM schedule_records WHERE student_id = $1 ORDER BY week_start DESC`
	var weeks []string
	if err := r.db.SelectContext(ctx, &weeks, query, studentID); err != nil {
		return nil, fmt.Errorf("list student weeks: %w", err)
	}
	return weeks, nil
}

// DeleteByStudent removes every record owned by a student.
func (r *ScheduleRepository) DeleteByStudent(ctx context.Context, studentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_records WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("delete student records: %w", err)
	}
	return nil
}
