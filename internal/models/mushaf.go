package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// MistakeTimeline tracks how often and when a ledger entry was marked.
type MistakeTimeline struct {
	FirstMarkedAt *time.Time `json:"firstMarkedAt,omitempty"`
	LastMarkedAt  *time.Time `json:"lastMarkedAt,omitempty"`
	RepeatCount   int        `json:"repeatCount"`
	Resolved      bool       `json:"resolved"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
}

// MistakeLedgerEntry is one deduplicated mistake in a student's personal mushaf.
type MistakeLedgerEntry struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Category     MistakeCategory `json:"category"`
	Page         *int            `json:"page,omitempty"`
	Surah        *int            `json:"surah,omitempty"`
	Ayah         *int            `json:"ayah,omitempty"`
	WordIndex    *int            `json:"wordIndex,omitempty"`
	LetterIndex  *int            `json:"letterIndex,omitempty"`
	Position     *Position       `json:"position,omitempty"`
	TajweedData  json.RawMessage `json:"tajweedData,omitempty"`
	Note         string          `json:"note,omitempty"`
	AudioURL     string          `json:"audioUrl,omitempty"`
	Timestamp    *time.Time      `json:"timestamp,omitempty"`
	WorkflowStep WorkflowStep    `json:"workflowStep"`
	TicketID     string          `json:"ticketId,omitempty"`
	MarkedBy     string          `json:"markedBy,omitempty"`
	MarkedByName string          `json:"markedByName,omitempty"`
	Timeline     MistakeTimeline `json:"timeline"`
}

// MushafEntries is the JSONB representation of a ledger's entries in insertion order.
type MushafEntries []MistakeLedgerEntry

// Value marshals the entries to JSON for persistence.
func (e MushafEntries) Value() (driver.Value, error) {
	if e == nil {
		e = MushafEntries{}
	}
	return jsonValue([]MistakeLedgerEntry(e), "mushaf entries")
}

// Scan unmarshals JSON payloads into the entries.
func (e *MushafEntries) Scan(value interface{}) error {
	*e = nil
	return scanJSON(value, (*[]MistakeLedgerEntry)(e), "mushaf entries")
}

// PersonalMushaf is a student's mistake ledger. It is loaded and saved as a
// whole; Version guards against concurrent writers.
type PersonalMushaf struct {
	ID        string        `db:"id" json:"id"`
	StudentID string        `db:"student_id" json:"studentId"`
	Name      string        `db:"name" json:"name"`
	Entries   MushafEntries `db:"entries" json:"entries"`
	Version   int           `db:"version" json:"version"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time     `db:"updated_at" json:"updatedAt"`
}

// Entry returns a pointer to the entry with the given id.
func (m *PersonalMushaf) Entry(id string) *MistakeLedgerEntry {
	for i := range m.Entries {
		if m.Entries[i].ID == id {
			return &m.Entries[i]
		}
	}
	return nil
}

// Recency buckets a ledger entry by when it was last marked.
type Recency string

const (
	RecencyToday      Recency = "today"
	RecencyRecent     Recency = "recent"
	RecencyHistorical Recency = "historical"
)

// Valid returns true when the recency is a supported value.
func (r Recency) Valid() bool {
	switch r {
	case RecencyToday, RecencyRecent, RecencyHistorical:
		return true
	default:
		return false
	}
}

// MushafFilter narrows a personal mushaf read. Zero values mean "any".
type MushafFilter struct {
	WorkflowStep WorkflowStep
	Page         *int
	Date         *time.Time
	Recency      Recency
	Type         string
	Category     MistakeCategory
	Resolved     *bool
}
