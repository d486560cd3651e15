package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/tahfidz-api/internal/models"
)

var (
	errInvalidMistake = errors.New("invalid mistake")
	errEntryNotFound  = errors.New("mushaf entry not found")
)

// MushafLedger applies merge and resolve rules to a loaded personal mushaf.
// It never touches storage.
type MushafLedger struct {
	matcher MistakeMatcher
	now     func() time.Time
	newID   func() string
}

// NewMushafLedger constructs a ledger using the given matcher.
func NewMushafLedger(matcher MistakeMatcher) *MushafLedger {
	return &MushafLedger{matcher: matcher, now: time.Now, newID: uuid.NewString}
}

// Merge folds the candidate into the mushaf. A matching entry is updated in
// place; otherwise the candidate is appended. The bool reports whether an
// existing entry was reused.
func (l *MushafLedger) Merge(mushaf *models.PersonalMushaf, candidate models.MistakeLedgerEntry) (*models.MistakeLedgerEntry, bool, error) {
	if err := validateCandidate(candidate); err != nil {
		return nil, false, err
	}
	now := l.now().UTC()

	if existing := l.matcher.FindDuplicate(mushaf.Entries, candidate); existing != nil {
		existing.Timeline.RepeatCount++
		existing.Timeline.LastMarkedAt = &now
		existing.Timeline.Resolved = false
		existing.Timeline.ResolvedAt = nil
		if candidate.Note != "" {
			existing.Note = candidate.Note
		}
		if candidate.AudioURL != "" {
			existing.AudioURL = candidate.AudioURL
		}
		if hasJSON(candidate.TajweedData) {
			existing.TajweedData = candidate.TajweedData
		}
		if existing.Timeline.FirstMarkedAt == nil {
			existing.Timeline.FirstMarkedAt = &now
		}
		return existing, true, nil
	}

	entry := candidate
	if entry.ID == "" {
		entry.ID = l.newID()
	}
	first := now
	entry.Timeline = models.MistakeTimeline{
		FirstMarkedAt: &first,
		LastMarkedAt:  &now,
		RepeatCount:   1,
	}
	mushaf.Entries = append(mushaf.Entries, entry)
	return &mushaf.Entries[len(mushaf.Entries)-1], false, nil
}

// Resolve marks an entry as resolved.
func (l *MushafLedger) Resolve(mushaf *models.PersonalMushaf, entryID string) (*models.MistakeLedgerEntry, error) {
	entry := mushaf.Entry(entryID)
	if entry == nil {
		return nil, errEntryNotFound
	}
	now := l.now().UTC()
	entry.Timeline.Resolved = true
	entry.Timeline.ResolvedAt = &now
	return entry, nil
}

// NewLedgerCandidate builds a ledger entry candidate from a ticket mistake.
func NewLedgerCandidate(ticket *models.Ticket, mistake models.MistakeRecord, reviewer *models.JWTClaims) models.MistakeLedgerEntry {
	candidate := models.MistakeLedgerEntry{
		Type:         strings.TrimSpace(mistake.Type),
		Category:     normalizeCategory(mistake.Category),
		Page:         mistake.Page,
		Surah:        mistake.Surah,
		Ayah:         mistake.Ayah,
		WordIndex:    mistake.WordIndex,
		LetterIndex:  mistake.LetterIndex,
		Position:     mistake.Position,
		TajweedData:  mistake.TajweedData,
		Note:         mistake.Note,
		AudioURL:     mistake.AudioURL,
		Timestamp:    mistake.Timestamp,
		WorkflowStep: ticket.WorkflowStep,
		TicketID:     ticket.ID,
	}
	if reviewer != nil {
		candidate.MarkedBy = reviewer.UserID
		candidate.MarkedByName = reviewer.FullName
	}
	return candidate
}

// MushafName is the display name of a lazily created ledger.
func MushafName(studentName string) string {
	name := strings.TrimSpace(studentName)
	if name == "" {
		return "Personal Mushaf"
	}
	return fmt.Sprintf("%s's Personal Mushaf", name)
}

func validateCandidate(c models.MistakeLedgerEntry) error {
	if c.Type == "" {
		return fmt.Errorf("%w: type is required", errInvalidMistake)
	}
	if !c.Category.Valid() {
		return fmt.Errorf("%w: unsupported category %q", errInvalidMistake, c.Category)
	}
	if !c.WorkflowStep.Valid() {
		return fmt.Errorf("%w: unsupported workflow step %q", errInvalidMistake, c.WorkflowStep)
	}
	return nil
}

func hasJSON(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
