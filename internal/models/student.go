package models

import "time"

// Student represents an enrolled student. The ID doubles as the login code
// students use together with their name.
type Student struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Grade        string    `db:"grade" json:"grade"`
	StudentPhone string    `db:"student_phone" json:"student_phone"`
	ParentPhone  string    `db:"parent_phone" json:"parent_phone"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StudentLoginRequest authenticates a student by name and assigned code.
type StudentLoginRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required"`
}

// CreateStudentRequest is the admin payload for registering a student.
type CreateStudentRequest struct {
	Name         string `json:"name" validate:"required"`
	Grade        string `json:"grade"`
	StudentPhone string `json:"student_phone"`
	ParentPhone  string `json:"parent_phone"`
}

// UpdateStudentRequest is the admin payload for editing a student.
type UpdateStudentRequest struct {
	Name         string `json:"name" validate:"required"`
	Grade        string `json:"grade"`
	StudentPhone string `json:"student_phone"`
	ParentPhone  string `json:"parent_phone"`
}
