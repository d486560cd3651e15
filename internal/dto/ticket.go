package dto

import (
	"time"

	"github.com/noah-isme/tahfidz-api/internal/models"
)

// CreateTicketRequest payload submitted by a teacher after a recitation session.
type CreateTicketRequest struct {
	StudentID       string                  `json:"studentId" validate:"required"`
	TeacherID       string                  `json:"teacherId" validate:"required"`
	WorkflowStep    models.WorkflowStep     `json:"workflowStep" validate:"required,oneof=sabq sabqi manzil"`
	RecitationRange *models.RecitationRange `json:"recitationRange,omitempty"`
	SabqEntries     []models.SabqEntry      `json:"sabqEntries,omitempty" validate:"dive"`
	HomeworkRange   *models.RecitationRange `json:"homeworkRange,omitempty"`
	Mistakes        []models.MistakeRecord  `json:"mistakes,omitempty" validate:"dive"`
	AssignmentID    *string                 `json:"assignmentId,omitempty"`
}

// HomeworkAssignmentData carries explicit homework instructions from the reviewer.
type HomeworkAssignmentData struct {
	Instructions string     `json:"instructions" validate:"required"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
}

// ApproveTicketRequest captures the reviewer's approval payload.
type ApproveTicketRequest struct {
	ReviewNotes            string                  `json:"reviewNotes"`
	HomeworkAssignmentData *HomeworkAssignmentData `json:"homeworkAssignmentData,omitempty"`
}

// RejectTicketRequest captures the reviewer's rejection payload.
type RejectTicketRequest struct {
	ReviewNotes string `json:"reviewNotes"`
}

// ApproveTicketResponse is returned after a successful approval.
type ApproveTicketResponse struct {
	Ticket               *models.Ticket `json:"ticket"`
	HomeworkAssignmentID *string        `json:"homeworkAssignmentId,omitempty"`
	MergedMistakes       int            `json:"mergedMistakes"`
	SkippedMistakes      int            `json:"skippedMistakes"`
}

// TicketQuery mirrors supported listing filters.
type TicketQuery struct {
	StudentID    string
	TeacherID    string
	Status       []models.TicketStatus
	WorkflowStep models.WorkflowStep
	Limit        int
	Offset       int
}
