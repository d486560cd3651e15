package models

import (
	"database/sql/driver"
	"time"
)

// TicketStatus captures review states for recitation tickets.
type TicketStatus string

const (
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusApproved TicketStatus = "approved"
	TicketStatusRejected TicketStatus = "rejected"
)

// Terminal reports whether no further transition is allowed from the status.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusApproved || s == TicketStatusRejected
}

// SabqEntry is one recited portion inside a ticket.
type SabqEntry struct {
	RecitationRange RecitationRange `json:"recitationRange"`
	Mistakes        []MistakeRecord `json:"mistakes,omitempty"`
	Comment         string          `json:"comment,omitempty"`
}

// SabqEntries is the JSONB representation of a ticket's sub-entries.
type SabqEntries []SabqEntry

// Value marshals the entries to JSON for persistence.
func (e SabqEntries) Value() (driver.Value, error) {
	if e == nil {
		e = SabqEntries{}
	}
	return jsonValue([]SabqEntry(e), "sabq entries")
}

// Scan unmarshals JSON payloads into the entries.
func (e *SabqEntries) Scan(value interface{}) error {
	*e = nil
	return scanJSON(value, (*[]SabqEntry)(e), "sabq entries")
}

// Ticket is a single teacher-student recitation review unit.
type Ticket struct {
	ID               string           `db:"id" json:"id"`
	StudentID        string           `db:"student_id" json:"studentId"`
	TeacherID        string           `db:"teacher_id" json:"teacherId"`
	WorkflowStep     WorkflowStep     `db:"workflow_step" json:"workflowStep"`
	Status           TicketStatus     `db:"status" json:"status"`
	RecitationRange  *RecitationRange `db:"recitation_range" json:"recitationRange,omitempty"`
	SabqEntries      SabqEntries      `db:"sabq_entries" json:"sabqEntries,omitempty"`
	HomeworkRange    *RecitationRange `db:"homework_range" json:"homeworkRange,omitempty"`
	Mistakes         MistakeRecords   `db:"mistakes" json:"mistakes,omitempty"`
	AssignmentID     *string          `db:"assignment_id" json:"assignmentId,omitempty"`
	HomeworkAssigned *string          `db:"homework_assigned" json:"homeworkAssigned,omitempty"`
	ReviewedBy       *string          `db:"reviewed_by" json:"reviewedBy,omitempty"`
	ReviewedAt       *time.Time       `db:"reviewed_at" json:"reviewedAt,omitempty"`
	ReviewNotes      *string          `db:"review_notes" json:"reviewNotes,omitempty"`
	CreatedBy        string           `db:"created_by" json:"createdBy"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

// CollectMistakes returns the ticket's mistakes with the sub-entry each came
// from. Sub-entry mistakes take precedence over the flat fallback list.
func (t *Ticket) CollectMistakes() []TicketMistake {
	var out []TicketMistake
	if len(t.SabqEntries) > 0 {
		for i, entry := range t.SabqEntries {
			for _, m := range entry.Mistakes {
				idx := i
				out = append(out, TicketMistake{MistakeRecord: m, SabqEntryIndex: &idx})
			}
		}
		return out
	}
	for _, m := range t.Mistakes {
		out = append(out, TicketMistake{MistakeRecord: m})
	}
	return out
}

// TicketMistake is a collected mistake with its provenance inside the ticket.
type TicketMistake struct {
	MistakeRecord
	SabqEntryIndex *int
}

// TicketFilter constrains ticket listing queries.
type TicketFilter struct {
	StudentID    string
	TeacherID    string
	Status       []TicketStatus
	WorkflowStep WorkflowStep
	Limit        int
	Offset       int
}
