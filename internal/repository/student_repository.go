package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

// StudentRepository provides persistence for students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = "id, name, grade, student_phone, parent_phone, created_at, updated_at"

// List returns all students ordered by their numeric id.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students ORDER BY CAST(id AS INTEGER) ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID loads a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByNameAndCode authenticates a student login by exact name and code.
func (r *StudentRepository) FindByNameAndCode(ctx context.Context, name, code string) (*models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students WHERE name = $1 AND id = $2`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, name, code); err != nil {
		return nil, err
	}
	return &student, nil
}

// NextID allocates the next numeric student id.
func (r *StudentRepository) NextID(ctx context.Context) (string, error) {
	const query = `SELECT COALESCE(MAX(CAST(id AS INTEGER)), 0) + 1 FROM students`
	var next int
	if err := r.db.GetContext(ctx, &next, query); err != nil {
		return "", fmt.Errorf("next student id: %w", err)
	}
	return strconv.Itoa(next), nil
}

// Create stores a new student.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	const query = `INSERT INTO students (id, name, grade, student_phone, parent_phone, created_at, updated_at) VALUES (:id, :name, :grade, :student_phone, :parent_phone, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies a student record.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, grade = :grade, student_phone = :student_phone, parent_phone = :parent_phone, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student by id.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
