package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tahfidz-api/internal/models"
)

const ticketColumns = `id, student_id, teacher_id, workflow_step, status, recitation_range, sabq_entries,
       homework_range, mistakes, assignment_id, homework_assigned, reviewed_by, reviewed_at, review_notes,
       created_by, created_at, updated_at`

// TicketRepository persists recitation review tickets.
type TicketRepository struct {
	db *sqlx.DB
}

// NewTicketRepository constructs the repository.
func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create inserts a new pending ticket.
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	if ticket.Status == "" {
		ticket.Status = models.TicketStatusPending
	}
	now := time.Now().UTC()
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = now
	}
	ticket.UpdatedAt = now
	const query = `INSERT INTO tickets
	(id, student_id, teacher_id, workflow_step, status, recitation_range, sabq_entries, homework_range, mistakes,
	 assignment_id, homework_assigned, reviewed_by, reviewed_at, review_notes, created_by, created_at, updated_at)
	VALUES (:id, :student_id, :teacher_id, :workflow_step, :status, :recitation_range, :sabq_entries, :homework_range, :mistakes,
	 :assignment_id, :homework_assigned, :reviewed_by, :reviewed_at, :review_notes, :created_by, :created_at, :updated_at)`
	if _, err := conn(ctx, r.db).NamedExecContext(ctx, query, ticket); err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

// GetByID fetches a ticket by identifier.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM tickets WHERE id = $1", ticketColumns)
	var ticket models.Ticket
	if err := conn(ctx, r.db).GetContext(ctx, &ticket, query, id); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetForUpdate fetches a ticket and locks its row for the enclosing transaction.
func (r *TicketRepository) GetForUpdate(ctx context.Context, id string) (*models.Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM tickets WHERE id = $1 FOR UPDATE", ticketColumns)
	var ticket models.Ticket
	if err := conn(ctx, r.db).GetContext(ctx, &ticket, query, id); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// List returns tickets matching the filter, newest first, with the total count.
func (r *TicketRepository) List(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, int, error) {
	args := make([]interface{}, 0, 6)
	conditions := make([]string, 0, 4)
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)))
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.WorkflowStep != "" {
		args = append(args, filter.WorkflowStep)
		conditions = append(conditions, fmt.Sprintf("workflow_step = $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	db := conn(ctx, r.db)
	query := fmt.Sprintf("SELECT %s FROM tickets%s ORDER BY created_at DESC LIMIT %d OFFSET %d", ticketColumns, where, limit, offset)
	var tickets []models.Ticket
	if err := db.SelectContext(ctx, &tickets, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	var total int
	if err := db.GetContext(ctx, &total, "SELECT COUNT(*) FROM tickets"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}
	return tickets, total, nil
}

// UpdateTicketReviewParams groups the columns written by a review decision.
type UpdateTicketReviewParams struct {
	ID               string
	Status           models.TicketStatus
	ReviewedBy       string
	ReviewedAt       time.Time
	ReviewNotes      *string
	HomeworkAssigned *string
}

// UpdateReview applies a review decision. Only pending tickets are updated;
// sql.ErrNoRows is returned when the ticket is missing or already reviewed.
func (r *TicketRepository) UpdateReview(ctx context.Context, params UpdateTicketReviewParams) error {
	query := fmt.Sprintf(`UPDATE tickets SET status = :status, reviewed_by = :reviewed_by, reviewed_at = :reviewed_at,
	review_notes = :review_notes, homework_assigned = :homework_assigned, updated_at = :updated_at
	WHERE id = :id AND status = '%s'`, models.TicketStatusPending)
	result, err := conn(ctx, r.db).NamedExecContext(ctx, query, map[string]interface{}{
		"id":                params.ID,
		"status":            params.Status,
		"reviewed_by":       params.ReviewedBy,
		"reviewed_at":       params.ReviewedAt,
		"review_notes":      params.ReviewNotes,
		"homework_assigned": params.HomeworkAssigned,
		"updated_at":        params.ReviewedAt,
	})
	if err != nil {
		return fmt.Errorf("update ticket review: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check ticket update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
