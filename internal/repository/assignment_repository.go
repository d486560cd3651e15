package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tahfidz-api/internal/models"
)

// ErrAssignmentClosed is returned when an assignment is already completed or archived.
var ErrAssignmentClosed = errors.New("assignment already closed")

const assignmentColumns = `id, student_id, assigned_by, assigned_by_role, from_ticket_id, classwork, homework,
       mushaf_mistakes, comment, status, completed_at, created_at, updated_at`

// AssignmentRepository persists synthesized assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.Status == "" {
		assignment.Status = models.AssignmentStatusActive
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	if assignment.UpdatedAt.IsZero() {
		assignment.UpdatedAt = now
	}
	const query = `INSERT INTO assignments
	(id, student_id, assigned_by, assigned_by_role, from_ticket_id, classwork, homework, mushaf_mistakes, comment, status, completed_at, created_at, updated_at)
	VALUES (:id, :student_id, :assigned_by, :assigned_by_role, :from_ticket_id, :classwork, :homework, :mushaf_mistakes, :comment, :status, :completed_at, :created_at, :updated_at)`
	if _, err := conn(ctx, r.db).NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// GetByID fetches an assignment by identifier.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM assignments WHERE id = $1", assignmentColumns)
	var assignment models.Assignment
	if err := conn(ctx, r.db).GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// MarkCompleted moves an active assignment to completed. sql.ErrNoRows is
// returned when the assignment does not exist and ErrAssignmentClosed when it
// is no longer active.
func (r *AssignmentRepository) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE assignments SET status = $1, completed_at = $2, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, models.AssignmentStatusCompleted, at, id, models.AssignmentStatusActive)
	if err != nil {
		return fmt.Errorf("complete assignment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check assignment update rows: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var status models.AssignmentStatus
	if err := conn(ctx, r.db).GetContext(ctx, &status, `SELECT status FROM assignments WHERE id = $1`, id); err != nil {
		return err
	}
	return ErrAssignmentClosed
}

// ListByStudent returns a student's assignments, newest first.
func (r *AssignmentRepository) ListByStudent(ctx context.Context, studentID string, status models.AssignmentStatus, limit, offset int) ([]models.Assignment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	args := []interface{}{studentID}
	where := "student_id = $1"
	if status != "" {
		args = append(args, status)
		where += " AND status = $2"
	}
	query := fmt.Sprintf("SELECT %s FROM assignments WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d", assignmentColumns, where, limit, offset)
	var assignments []models.Assignment
	if err := conn(ctx, r.db).SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ArchiveCompletedBefore archives assignments completed before the cutoff and
// returns how many rows changed.
func (r *AssignmentRepository) ArchiveCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `UPDATE assignments SET status = $1, updated_at = $2 WHERE status = $3 AND completed_at < $4`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, models.AssignmentStatusArchived, time.Now().UTC(), models.AssignmentStatusCompleted, cutoff)
	if err != nil {
		return 0, fmt.Errorf("archive assignments: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check archived assignment rows: %w", err)
	}
	return rows, nil
}
