package models

import (
	"database/sql/driver"
	"encoding/json"
	"math"
	"time"
)

// MistakeCategory classifies a recitation mistake for review.
type MistakeCategory string

const (
	MistakeCategoryTajweed MistakeCategory = "tajweed"
	MistakeCategoryLetter  MistakeCategory = "letter"
	MistakeCategoryStop    MistakeCategory = "stop"
	MistakeCategoryMemory  MistakeCategory = "memory"
	MistakeCategoryOther   MistakeCategory = "other"
)

// MistakeCategories lists every supported category.
var MistakeCategories = []MistakeCategory{
	MistakeCategoryTajweed,
	MistakeCategoryLetter,
	MistakeCategoryStop,
	MistakeCategoryMemory,
	MistakeCategoryOther,
}

// Valid returns true when the category is a supported value.
func (c MistakeCategory) Valid() bool {
	switch c {
	case MistakeCategoryTajweed, MistakeCategoryLetter, MistakeCategoryStop, MistakeCategoryMemory, MistakeCategoryOther:
		return true
	default:
		return false
	}
}

// Position is the on-page pixel coordinate a teacher tapped.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// MistakeRecord is a mistake as marked on a ticket during review.
type MistakeRecord struct {
	Type        string          `json:"type" validate:"required"`
	Category    MistakeCategory `json:"category" validate:"required"`
	Page        *int            `json:"page,omitempty" validate:"omitempty,min=1"`
	Surah       *int            `json:"surah,omitempty" validate:"omitempty,min=1,max=114"`
	Ayah        *int            `json:"ayah,omitempty" validate:"omitempty,min=1"`
	WordIndex   *int            `json:"wordIndex,omitempty" validate:"omitempty,min=0"`
	LetterIndex *int            `json:"letterIndex,omitempty" validate:"omitempty,min=0"`
	Position    *Position       `json:"position,omitempty"`
	TajweedData json.RawMessage `json:"tajweedData,omitempty"`
	Note        string          `json:"note,omitempty"`
	AudioURL    string          `json:"audioUrl,omitempty"`
	Timestamp   *time.Time      `json:"timestamp,omitempty"`
}

// MistakeRecords is the JSONB representation of a flat mistake list.
type MistakeRecords []MistakeRecord

// Value marshals the list to JSON for persistence.
func (m MistakeRecords) Value() (driver.Value, error) {
	if m == nil {
		m = MistakeRecords{}
	}
	return jsonValue([]MistakeRecord(m), "mistake records")
}

// Scan unmarshals JSON payloads into the list.
func (m *MistakeRecords) Scan(value interface{}) error {
	*m = nil
	return scanJSON(value, (*[]MistakeRecord)(m), "mistake records")
}
