package service

import "github.com/noah-isme/tahfidz-api/internal/models"

// DefaultPositionTolerance is the pixel distance under which two taps on the
// same word are treated as one marking.
const DefaultPositionTolerance = 10.0

// MistakeMatcher decides whether two ledger entries describe the same mistake.
type MistakeMatcher struct {
	tolerance float64
}

// NewMistakeMatcher constructs a matcher; a non-positive tolerance uses the default.
func NewMistakeMatcher(tolerance float64) MistakeMatcher {
	if tolerance <= 0 {
		tolerance = DefaultPositionTolerance
	}
	return MistakeMatcher{tolerance: tolerance}
}

// FindDuplicate returns the first entry matching the candidate, or nil.
func (m MistakeMatcher) FindDuplicate(entries []models.MistakeLedgerEntry, candidate models.MistakeLedgerEntry) *models.MistakeLedgerEntry {
	for i := range entries {
		if m.Matches(entries[i], candidate) {
			return &entries[i]
		}
	}
	return nil
}

// Matches compares identity fields exactly and positions within tolerance.
// Position is ignored unless both entries carry one.
func (m MistakeMatcher) Matches(a, b models.MistakeLedgerEntry) bool {
	if a.Type != b.Type || a.Category != b.Category || a.WorkflowStep != b.WorkflowStep {
		return false
	}
	if !equalInt(a.Page, b.Page) || !equalInt(a.Surah, b.Surah) || !equalInt(a.Ayah, b.Ayah) ||
		!equalInt(a.WordIndex, b.WordIndex) || !equalInt(a.LetterIndex, b.LetterIndex) {
		return false
	}
	if a.Position != nil && b.Position != nil {
		return a.Position.DistanceTo(*b.Position) < m.tolerance
	}
	return true
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
