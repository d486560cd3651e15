package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/tahfidz-api/internal/dto"
	"github.com/noah-isme/tahfidz-api/internal/models"
)

const homeworkPrefix = "Homework: "

// AssignmentSynthesizer builds classwork/homework assignments from approved tickets.
type AssignmentSynthesizer struct {
	now   func() time.Time
	newID func() string
}

// NewAssignmentSynthesizer constructs a synthesizer.
func NewAssignmentSynthesizer() *AssignmentSynthesizer {
	return &AssignmentSynthesizer{now: time.Now, newID: uuid.NewString}
}

// Build always returns an assignment; malformed ranges degrade to placeholders.
func (s *AssignmentSynthesizer) Build(ticket *models.Ticket, reviewer *models.JWTClaims, homework *dto.HomeworkAssignmentData) *models.Assignment {
	now := s.now().UTC()
	ticketID := ticket.ID
	assignment := &models.Assignment{
		ID:             s.newID(),
		StudentID:      ticket.StudentID,
		FromTicketID:   &ticketID,
		Homework:       models.Homework{Items: []models.HomeworkItem{}},
		MushafMistakes: models.MushafMistakes{},
		Comment:        derefString(ticket.ReviewNotes),
		Status:         models.AssignmentStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
		Classwork: models.Classwork{
			Sabq:   []models.ClassworkEntry{},
			Sabqi:  []models.ClassworkEntry{},
			Manzil: []models.ClassworkEntry{},
		},
	}
	if reviewer != nil {
		assignment.AssignedBy = reviewer.UserID
		assignment.AssignedByRole = reviewer.Role
	}

	if len(ticket.SabqEntries) > 0 {
		for i, entry := range ticket.SabqEntries {
			recitation := entry.RecitationRange
			idx := i
			item := classworkEntry(models.WorkflowStepSabq, ResolveRange(&recitation), ticket.ID)
			item.Comment = strings.TrimSpace(entry.Comment)
			item.MistakeCount = len(entry.Mistakes)
			item.SourceEntry = &idx
			assignment.Classwork.Sabq = append(assignment.Classwork.Sabq, item)
		}
	} else {
		item := classworkEntry(ticket.WorkflowStep, ResolveRange(fallbackRange(ticket)), ticket.ID)
		item.Comment = derefString(ticket.ReviewNotes)
		item.MistakeCount = len(ticket.Mistakes)
		appendClasswork(&assignment.Classwork, ticket.WorkflowStep, item)
	}

	if ticket.HomeworkRange != nil {
		resolved := ResolveRange(ticket.HomeworkRange)
		item := classworkEntry(ticket.WorkflowStep, resolved, ticket.ID)
		item.RangeText = homeworkPrefix + resolved.DisplayText
		item.Homework = true
		appendClasswork(&assignment.Classwork, ticket.WorkflowStep, item)
	}

	if homework != nil {
		assignment.Homework.Enabled = true
		assignment.Homework.Items = append(assignment.Homework.Items, models.HomeworkItem{
			Type:    stepOrDefault(ticket.WorkflowStep),
			Range:   ResolveRange(firstRange(ticket)),
			Content: strings.TrimSpace(homework.Instructions),
			DueDate: homework.DueDate,
		})
	}

	for _, mistake := range ticket.CollectMistakes() {
		assignment.MushafMistakes = append(assignment.MushafMistakes, models.MushafMistake{
			ID:           s.newID(),
			Type:         mistake.Type,
			Category:     mistake.Category,
			Page:         mistake.Page,
			Surah:        mistake.Surah,
			Ayah:         mistake.Ayah,
			WordIndex:    mistake.WordIndex,
			Position:     mistake.Position,
			WorkflowStep: stepOrDefault(ticket.WorkflowStep),
			TicketID:     ticket.ID,
			SabqEntry:    mistake.SabqEntryIndex,
			MarkedBy:     assignment.AssignedBy,
		})
	}

	return assignment
}

func classworkEntry(step models.WorkflowStep, resolved models.ResolvedRange, ticketID string) models.ClassworkEntry {
	return models.ClassworkEntry{
		Type:           stepOrDefault(step),
		RangeText:      resolved.DisplayText,
		FromSurah:      resolved.FromSurah,
		FromAyah:       resolved.FromAyah,
		ToSurah:        resolved.ToSurah,
		ToAyah:         resolved.ToAyah,
		SourceTicketID: ticketID,
	}
}

func appendClasswork(c *models.Classwork, step models.WorkflowStep, item models.ClassworkEntry) {
	switch step {
	case models.WorkflowStepSabq:
		c.Sabq = append(c.Sabq, item)
	case models.WorkflowStepSabqi:
		c.Sabqi = append(c.Sabqi, item)
	case models.WorkflowStepManzil:
		c.Manzil = append(c.Manzil, item)
	default:
		// unknown steps are rejected at submission; keep the record anyway
		c.Sabq = append(c.Sabq, item)
	}
}

func stepOrDefault(step models.WorkflowStep) models.WorkflowStep {
	if step.Valid() {
		return step
	}
	return models.WorkflowStepSabq
}

// fallbackRange derives a classwork range for tickets without sub-entries.
func fallbackRange(ticket *models.Ticket) *models.RecitationRange {
	if ticket.RecitationRange != nil {
		return ticket.RecitationRange
	}
	if len(ticket.Mistakes) > 0 {
		first := ticket.Mistakes[0]
		if first.Surah != nil || first.Ayah != nil {
			return &models.RecitationRange{Surah: first.Surah, AyahFrom: first.Ayah, AyahTo: first.Ayah}
		}
	}
	return nil
}

// firstRange returns the first recitation range available on the ticket.
func firstRange(ticket *models.Ticket) *models.RecitationRange {
	if len(ticket.SabqEntries) > 0 {
		r := ticket.SabqEntries[0].RecitationRange
		return &r
	}
	if r := fallbackRange(ticket); r != nil {
		return r
	}
	return ticket.HomeworkRange
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
