package models

import (
	"database/sql/driver"
	"time"
)

// AssignmentStatus captures the lifecycle of a synthesized assignment.
type AssignmentStatus string

const (
	AssignmentStatusActive    AssignmentStatus = "active"
	AssignmentStatusCompleted AssignmentStatus = "completed"
	AssignmentStatusArchived  AssignmentStatus = "archived"
)

// ClassworkEntry is one in-session recitation item.
type ClassworkEntry struct {
	Type           WorkflowStep `json:"type"`
	RangeText      string       `json:"rangeText"`
	FromSurah      int          `json:"fromSurah"`
	FromAyah       int          `json:"fromAyah"`
	ToSurah        int          `json:"toSurah"`
	ToAyah         int          `json:"toAyah"`
	Comment        string       `json:"comment"`
	MistakeCount   int          `json:"mistakeCount"`
	Homework       bool         `json:"homework,omitempty"`
	SourceTicketID string       `json:"sourceTicketId,omitempty"`
	SourceEntry    *int         `json:"sourceEntry,omitempty"`
}

// Classwork groups classwork entries per workflow step.
type Classwork struct {
	Sabq   []ClassworkEntry `json:"sabq"`
	Sabqi  []ClassworkEntry `json:"sabqi"`
	Manzil []ClassworkEntry `json:"manzil"`
}

// Value marshals classwork to JSON for persistence.
func (c Classwork) Value() (driver.Value, error) {
	return jsonValue(c, "classwork")
}

// Scan unmarshals JSON payloads into classwork.
func (c *Classwork) Scan(value interface{}) error {
	*c = Classwork{}
	return scanJSON(value, c, "classwork")
}

// Total returns the number of classwork entries across all steps.
func (c Classwork) Total() int {
	return len(c.Sabq) + len(c.Sabqi) + len(c.Manzil)
}

// HomeworkItem is a take-home recitation task.
type HomeworkItem struct {
	Type      WorkflowStep  `json:"type"`
	Range     ResolvedRange `json:"range"`
	Content   string        `json:"content"`
	DueDate   *time.Time    `json:"dueDate,omitempty"`
	Completed bool          `json:"completed"`
}

// Homework groups the homework items of an assignment.
type Homework struct {
	Enabled bool           `json:"enabled"`
	Items   []HomeworkItem `json:"items"`
}

// Value marshals homework to JSON for persistence.
func (h Homework) Value() (driver.Value, error) {
	if h.Items == nil {
		h.Items = []HomeworkItem{}
	}
	return jsonValue(h, "homework")
}

// Scan unmarshals JSON payloads into homework.
func (h *Homework) Scan(value interface{}) error {
	*h = Homework{}
	return scanJSON(value, h, "homework")
}

// MushafMistake is the display projection of a mistake attached to an assignment.
type MushafMistake struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Category     MistakeCategory `json:"category"`
	Page         *int            `json:"page,omitempty"`
	Surah        *int            `json:"surah,omitempty"`
	Ayah         *int            `json:"ayah,omitempty"`
	WordIndex    *int            `json:"wordIndex,omitempty"`
	Position     *Position       `json:"position,omitempty"`
	WorkflowStep WorkflowStep    `json:"workflowStep"`
	TicketID     string          `json:"ticketId"`
	SabqEntry    *int            `json:"sabqEntry,omitempty"`
	MarkedBy     string          `json:"markedBy"`
}

// MushafMistakes is the JSONB representation of assignment mistakes.
type MushafMistakes []MushafMistake

// Value marshals the list to JSON for persistence.
func (m MushafMistakes) Value() (driver.Value, error) {
	if m == nil {
		m = MushafMistakes{}
	}
	return jsonValue([]MushafMistake(m), "mushaf mistakes")
}

// Scan unmarshals JSON payloads into the list.
func (m *MushafMistakes) Scan(value interface{}) error {
	*m = nil
	return scanJSON(value, (*[]MushafMistake)(m), "mushaf mistakes")
}

// Assignment is the classwork/homework record produced on ticket approval.
type Assignment struct {
	ID             string           `db:"id" json:"id"`
	StudentID      string           `db:"student_id" json:"studentId"`
	AssignedBy     string           `db:"assigned_by" json:"assignedBy"`
	AssignedByRole UserRole         `db:"assigned_by_role" json:"assignedByRole"`
	FromTicketID   *string          `db:"from_ticket_id" json:"fromTicketId,omitempty"`
	Classwork      Classwork        `db:"classwork" json:"classwork"`
	Homework       Homework         `db:"homework" json:"homework"`
	MushafMistakes MushafMistakes   `db:"mushaf_mistakes" json:"mushafMistakes"`
	Comment        string           `db:"comment" json:"comment"`
	Status         AssignmentStatus `db:"status" json:"status"`
	CompletedAt    *time.Time       `db:"completed_at" json:"completedAt,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updatedAt"`
}
