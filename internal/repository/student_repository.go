package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tahfidz-api/internal/models"
)

// StudentRepository looks up enrolled students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID returns a student by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, user_id, full_name, active FROM students WHERE id = $1`
	var student models.Student
	if err := conn(ctx, r.db).GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByUserID returns the student record linked to a user account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	const query = `SELECT id, user_id, full_name, active FROM students WHERE user_id = $1`
	var student models.Student
	if err := conn(ctx, r.db).GetContext(ctx, &student, query, userID); err != nil {
		return nil, err
	}
	return &student, nil
}
