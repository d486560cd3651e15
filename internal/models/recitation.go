package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// WorkflowStep identifies which memorisation track a recitation belongs to.
type WorkflowStep string

const (
	WorkflowStepSabq   WorkflowStep = "sabq"
	WorkflowStepSabqi  WorkflowStep = "sabqi"
	WorkflowStepManzil WorkflowStep = "manzil"
)

// WorkflowSteps lists every supported step in curriculum order.
var WorkflowSteps = []WorkflowStep{WorkflowStepSabq, WorkflowStepSabqi, WorkflowStepManzil}

// Valid returns true when the step is a supported value.
func (s WorkflowStep) Valid() bool {
	switch s {
	case WorkflowStepSabq, WorkflowStepSabqi, WorkflowStepManzil:
		return true
	default:
		return false
	}
}

// ParseWorkflowStep normalises user input into a WorkflowStep.
func ParseWorkflowStep(raw string) (WorkflowStep, error) {
	step := WorkflowStep(strings.ToLower(strings.TrimSpace(raw)))
	if !step.Valid() {
		return "", fmt.Errorf("unsupported workflow step %q", raw)
	}
	return step, nil
}

// RecitationRange is a surah/ayah span, optionally ending in a later surah.
type RecitationRange struct {
	Surah        *int    `json:"surah,omitempty" validate:"omitempty,min=1,max=114"`
	SurahName    string  `json:"surahName,omitempty"`
	AyahFrom     *int    `json:"ayahFrom,omitempty" validate:"omitempty,min=1"`
	AyahTo       *int    `json:"ayahTo,omitempty" validate:"omitempty,min=1"`
	EndSurah     *int    `json:"endSurah,omitempty" validate:"omitempty,min=1,max=114"`
	EndSurahName string  `json:"endSurahName,omitempty"`
	Juz          *int    `json:"juz,omitempty" validate:"omitempty,min=1,max=30"`
	Note         *string `json:"note,omitempty"`
}

// CrossesSurah reports whether the range ends in a different surah than it starts.
func (r RecitationRange) CrossesSurah() bool {
	if r.EndSurah == nil {
		return false
	}
	if r.Surah == nil {
		return true
	}
	return *r.EndSurah != *r.Surah
}

// Validate checks the ordering invariants of a range.
func (r RecitationRange) Validate() error {
	if r.CrossesSurah() {
		if r.Surah != nil && *r.Surah > *r.EndSurah {
			return fmt.Errorf("range starts in surah %d after it ends in surah %d", *r.Surah, *r.EndSurah)
		}
		return nil
	}
	if r.AyahFrom != nil && r.AyahTo != nil && *r.AyahFrom > *r.AyahTo {
		return fmt.Errorf("ayahFrom %d is after ayahTo %d", *r.AyahFrom, *r.AyahTo)
	}
	return nil
}

// Value marshals the range to JSON for persistence.
func (r RecitationRange) Value() (driver.Value, error) {
	return jsonValue(r, "recitation range")
}

// Scan unmarshals JSON payloads into the range.
func (r *RecitationRange) Scan(value interface{}) error {
	*r = RecitationRange{}
	return scanJSON(value, r, "recitation range")
}

// ResolvedRange is the canonical, display-ready form of a RecitationRange.
type ResolvedRange struct {
	DisplayText string `json:"displayText"`
	FromSurah   int    `json:"fromSurah"`
	FromAyah    int    `json:"fromAyah"`
	ToSurah     int    `json:"toSurah"`
	ToAyah      int    `json:"toAyah"`
}
