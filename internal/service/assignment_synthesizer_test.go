package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tahfidz-api/internal/dto"
	"github.com/noah-isme/tahfidz-api/internal/models"
)

func newTestSynthesizer(now time.Time) *AssignmentSynthesizer {
	s := NewAssignmentSynthesizer()
	s.now = func() time.Time { return now }
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return s
}

func baqarahRange(from, to int) models.RecitationRange {
	return models.RecitationRange{Surah: intPtr(2), SurahName: "Al-Baqarah", AyahFrom: intPtr(from), AyahTo: intPtr(to)}
}

func maddRecord() models.MistakeRecord {
	return models.MistakeRecord{Type: "madd", Category: models.MistakeCategoryTajweed, Page: intPtr(3), WordIndex: intPtr(2)}
}

func twoEntryTicket() *models.Ticket {
	return &models.Ticket{
		ID:           "ticket-1",
		StudentID:    "student-1",
		TeacherID:    "teacher-1",
		WorkflowStep: models.WorkflowStepSabq,
		Status:       models.TicketStatusPending,
		SabqEntries: models.SabqEntries{
			{RecitationRange: baqarahRange(1, 5), Mistakes: []models.MistakeRecord{maddRecord()}, Comment: "steady"},
			{RecitationRange: baqarahRange(6, 10), Mistakes: []models.MistakeRecord{maddRecord()}},
		},
	}
}

func TestAssignmentSynthesizerBuildFromSabqEntries(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	reviewer := &models.JWTClaims{UserID: "teacher-user", Role: models.RoleTeacher}

	assignment := newTestSynthesizer(now).Build(twoEntryTicket(), reviewer, nil)

	require.Len(t, assignment.Classwork.Sabq, 2)
	assert.Empty(t, assignment.Classwork.Sabqi)
	assert.Empty(t, assignment.Classwork.Manzil)
	assert.Equal(t, "Surah Al-Baqarah, Ayah 1-5", assignment.Classwork.Sabq[0].RangeText)
	assert.Equal(t, "Surah Al-Baqarah, Ayah 6-10", assignment.Classwork.Sabq[1].RangeText)
	assert.Equal(t, "steady", assignment.Classwork.Sabq[0].Comment)
	assert.Equal(t, 1, assignment.Classwork.Sabq[1].MistakeCount)
	require.NotNil(t, assignment.Classwork.Sabq[1].SourceEntry)
	assert.Equal(t, 1, *assignment.Classwork.Sabq[1].SourceEntry)
	assert.Equal(t, 6, assignment.Classwork.Sabq[1].FromAyah)
	assert.Equal(t, 10, assignment.Classwork.Sabq[1].ToAyah)

	assert.Equal(t, models.AssignmentStatusActive, assignment.Status)
	assert.Equal(t, "teacher-user", assignment.AssignedBy)
	assert.Equal(t, models.RoleTeacher, assignment.AssignedByRole)
	require.NotNil(t, assignment.FromTicketID)
	assert.Equal(t, "ticket-1", *assignment.FromTicketID)
	assert.False(t, assignment.Homework.Enabled)

	require.Len(t, assignment.MushafMistakes, 2)
	assert.NotEqual(t, assignment.MushafMistakes[0].ID, assignment.MushafMistakes[1].ID)
	assert.Equal(t, 1, *assignment.MushafMistakes[1].SabqEntry)
	assert.Equal(t, "teacher-user", assignment.MushafMistakes[0].MarkedBy)
}

func TestAssignmentSynthesizerFallbackUsesWorkflowStep(t *testing.T) {
	r := models.RecitationRange{Surah: intPtr(67), SurahName: "Al-Mulk", AyahFrom: intPtr(1), AyahTo: intPtr(30)}
	ticket := &models.Ticket{
		ID:              "ticket-2",
		WorkflowStep:    models.WorkflowStepManzil,
		RecitationRange: &r,
		Mistakes:        models.MistakeRecords{maddRecord(), maddRecord()},
		HomeworkRange:   &models.RecitationRange{Surah: intPtr(68), SurahName: "Al-Qalam", AyahFrom: intPtr(1), AyahTo: intPtr(10)},
	}

	assignment := newTestSynthesizer(time.Now()).Build(ticket, nil, nil)

	assert.Empty(t, assignment.Classwork.Sabq)
	require.Len(t, assignment.Classwork.Manzil, 2)
	assert.Equal(t, "Surah Al-Mulk, Ayah 1-30", assignment.Classwork.Manzil[0].RangeText)
	assert.Equal(t, models.WorkflowStepManzil, assignment.Classwork.Manzil[0].Type)
	assert.Equal(t, 2, assignment.Classwork.Manzil[0].MistakeCount)
	assert.Equal(t, "Homework: Surah Al-Qalam, Ayah 1-10", assignment.Classwork.Manzil[1].RangeText)
	assert.True(t, assignment.Classwork.Manzil[1].Homework)
	assert.Len(t, assignment.MushafMistakes, 2)
	assert.Nil(t, assignment.MushafMistakes[0].SabqEntry)
}

func TestAssignmentSynthesizerFallbackFromFirstMistake(t *testing.T) {
	mistake := maddRecord()
	mistake.Surah = intPtr(18)
	mistake.Ayah = intPtr(10)
	ticket := &models.Ticket{ID: "ticket-3", WorkflowStep: models.WorkflowStepSabqi, Mistakes: models.MistakeRecords{mistake}}

	assignment := newTestSynthesizer(time.Now()).Build(ticket, nil, nil)

	require.Len(t, assignment.Classwork.Sabqi, 1)
	assert.Equal(t, "Surah 18, Ayah 10-10", assignment.Classwork.Sabqi[0].RangeText)
}

func TestAssignmentSynthesizerNeverFailsOnEmptyTicket(t *testing.T) {
	assignment := newTestSynthesizer(time.Now()).Build(&models.Ticket{ID: "ticket-4"}, nil, nil)

	require.Len(t, assignment.Classwork.Sabq, 1)
	entry := assignment.Classwork.Sabq[0]
	assert.Equal(t, "N/A", entry.RangeText)
	assert.Equal(t, 1, entry.FromSurah)
	assert.Equal(t, 1, entry.ToAyah)
	assert.Empty(t, assignment.MushafMistakes)
}

func TestAssignmentSynthesizerHomeworkItem(t *testing.T) {
	due := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	ticket := twoEntryTicket()
	notes := "good progress"
	ticket.ReviewNotes = &notes

	assignment := newTestSynthesizer(time.Now()).Build(ticket, nil, &dto.HomeworkAssignmentData{Instructions: " revise twice ", DueDate: &due})

	assert.True(t, assignment.Homework.Enabled)
	require.Len(t, assignment.Homework.Items, 1)
	item := assignment.Homework.Items[0]
	assert.Equal(t, models.WorkflowStepSabq, item.Type)
	assert.Equal(t, "revise twice", item.Content)
	assert.Equal(t, "Surah Al-Baqarah, Ayah 1-5", item.Range.DisplayText)
	assert.Equal(t, &due, item.DueDate)
	assert.Equal(t, "good progress", assignment.Comment)
}
