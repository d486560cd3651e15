package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tahfidz-api/internal/models"
)

func newTestStatistician(now time.Time, loc *time.Location) *MushafStatistician {
	s := NewMushafStatistician(loc, 3)
	s.now = func() time.Time { return now }
	return s
}

func ledgerEntry(id, typ string, category models.MistakeCategory, step models.WorkflowStep, lastMarked *time.Time, repeat int, resolved bool) models.MistakeLedgerEntry {
	return models.MistakeLedgerEntry{
		ID:           id,
		Type:         typ,
		Category:     category,
		Page:         intPtr(3),
		WorkflowStep: step,
		Timeline:     models.MistakeTimeline{LastMarkedAt: lastMarked, RepeatCount: repeat, Resolved: resolved},
	}
}

func TestMushafStatisticianClassify(t *testing.T) {
	now := time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC)
	s := newTestStatistician(now, time.UTC)

	today := time.Date(2024, 3, 20, 0, 5, 0, 0, time.UTC)
	threeDays := now.AddDate(0, 0, -3)
	sevenDays := now.AddDate(0, 0, -7)
	tenDays := now.AddDate(0, 0, -10)

	assert.Equal(t, models.RecencyToday, s.Classify(&today))
	assert.Equal(t, models.RecencyRecent, s.Classify(&threeDays))
	assert.Equal(t, models.RecencyRecent, s.Classify(&sevenDays))
	assert.Equal(t, models.RecencyHistorical, s.Classify(&tenDays))
	assert.Equal(t, models.RecencyHistorical, s.Classify(nil))
}

func TestMushafStatisticianClassifyUsesAcademyCalendar(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	now := time.Date(2024, 3, 20, 20, 0, 0, 0, time.UTC) // 01:00 on the 21st locally
	s := newTestStatistician(now, loc)

	lastMarked := time.Date(2024, 3, 20, 18, 30, 0, 0, time.UTC) // 23:30 on the 20th locally
	assert.Equal(t, models.RecencyRecent, s.Classify(&lastMarked))

	sameLocalDay := time.Date(2024, 3, 20, 19, 30, 0, 0, time.UTC)
	assert.Equal(t, models.RecencyToday, s.Classify(&sameLocalDay))
}

func sampleMushaf(now time.Time) *models.PersonalMushaf {
	today := now.Add(-time.Hour)
	recent := now.AddDate(0, 0, -3)
	old := now.AddDate(0, 0, -45)
	return &models.PersonalMushaf{
		StudentID: "student-1",
		Name:      "Aisha's Personal Mushaf",
		Entries: models.MushafEntries{
			ledgerEntry("e1", "madd", models.MistakeCategoryTajweed, models.WorkflowStepSabq, &today, 5, false),
			ledgerEntry("e2", "madd", models.MistakeCategoryTajweed, models.WorkflowStepSabqi, &recent, 1, true),
			ledgerEntry("e3", "stop", models.MistakeCategoryStop, models.WorkflowStepManzil, &old, 4, false),
			ledgerEntry("e4", "forgot", models.MistakeCategoryMemory, models.WorkflowStepSabq, nil, 1, false),
		},
	}
}

func TestMushafStatisticianSummarize(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	s := newTestStatistician(now, time.UTC)

	summary := s.Summarize(sampleMushaf(now), models.MushafFilter{})

	assert.Equal(t, "student-1", summary.StudentID)
	assert.Equal(t, "Aisha's Personal Mushaf", summary.Name)
	require.Len(t, summary.Mistakes, 4)
	assert.Equal(t, models.RecencyToday, summary.Mistakes[0].Recency)
	assert.Equal(t, models.RecencyRecent, summary.Mistakes[1].Recency)
	assert.Equal(t, models.RecencyHistorical, summary.Mistakes[2].Recency)
	assert.Equal(t, models.RecencyHistorical, summary.Mistakes[3].Recency)

	stats := summary.Statistics
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 3, stats.Unresolved)
	assert.Equal(t, stats.Total, stats.Resolved+stats.Unresolved)
	assert.Equal(t, 2, stats.ByWorkflowStep[models.WorkflowStepSabq])
	assert.Equal(t, 2, stats.ByCategory[models.MistakeCategoryTajweed])

	sum := 0
	for _, count := range stats.ByCategory {
		sum += count
	}
	assert.Equal(t, stats.Total, sum)
}

func TestMushafStatisticianFilters(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	s := newTestStatistician(now, time.UTC)
	mushaf := sampleMushaf(now)
	resolved := true
	date := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		filter models.MushafFilter
		ids    []string
	}{
		{"workflow step", models.MushafFilter{WorkflowStep: models.WorkflowStepSabq}, []string{"e1", "e4"}},
		{"page", models.MushafFilter{Page: intPtr(4)}, []string{}},
		{"recency", models.MushafFilter{Recency: models.RecencyHistorical}, []string{"e3", "e4"}},
		{"type", models.MushafFilter{Type: "madd"}, []string{"e1", "e2"}},
		{"category", models.MushafFilter{Category: models.MistakeCategoryStop}, []string{"e3"}},
		{"resolved", models.MushafFilter{Resolved: &resolved}, []string{"e2"}},
		{"date", models.MushafFilter{Date: &date}, []string{"e2"}},
		{"combined", models.MushafFilter{Type: "madd", WorkflowStep: models.WorkflowStepSabqi}, []string{"e2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			summary := s.Summarize(mushaf, tc.filter)
			ids := []string{}
			for _, m := range summary.Mistakes {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tc.ids, ids)
			assert.Equal(t, len(tc.ids), summary.Statistics.Total)
		})
	}
}

func TestMushafStatisticianNilMushaf(t *testing.T) {
	s := newTestStatistician(time.Now(), nil)
	summary := s.Summarize(nil, models.MushafFilter{})
	assert.Empty(t, summary.Mistakes)
	assert.Zero(t, summary.Statistics.Total)
}

func TestMushafStatisticianInsights(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	s := newTestStatistician(now, time.UTC)

	insights := s.Insights(sampleMushaf(now), models.MushafFilter{})

	assert.Equal(t, 4, insights.Total)
	assert.Equal(t, map[string]int{"madd": 2, "stop": 1, "forgot": 1}, insights.ByType)

	require.Len(t, insights.RepeatOffenders, 2)
	assert.Equal(t, "e1", insights.RepeatOffenders[0].ID)
	assert.Equal(t, "e3", insights.RepeatOffenders[1].ID)

	require.Len(t, insights.Trend, 30)
	assert.Equal(t, "2024-02-20", insights.Trend[0].Date)
	assert.Equal(t, "2024-03-20", insights.Trend[29].Date)
	assert.Equal(t, 1, insights.Trend[29].Count)
	assert.Equal(t, 1, insights.Trend[26].Count)
	total := 0
	for _, point := range insights.Trend {
		total += point.Count
	}
	assert.Equal(t, 2, total)

	require.Len(t, insights.MostCommonTypes, 3)
	assert.Equal(t, "madd", insights.MostCommonTypes[0].Type)
	assert.Equal(t, 2, insights.MostCommonTypes[0].Count)
	assert.Equal(t, "forgot", insights.MostCommonTypes[1].Type)
	assert.Equal(t, "stop", insights.MostCommonTypes[2].Type)
}

func TestMushafStatisticianMostCommonTypesTruncated(t *testing.T) {
	now := time.Now()
	mushaf := &models.PersonalMushaf{}
	for i := 0; i < 12; i++ {
		for j := 0; j <= i; j++ {
			mushaf.Entries = append(mushaf.Entries, ledgerEntry(fmt.Sprintf("%d-%d", i, j), fmt.Sprintf("type-%02d", i), models.MistakeCategoryOther, models.WorkflowStepSabq, &now, 1, false))
		}
	}

	insights := newTestStatistician(now, time.UTC).Insights(mushaf, models.MushafFilter{})

	require.Len(t, insights.MostCommonTypes, 10)
	assert.Equal(t, "type-11", insights.MostCommonTypes[0].Type)
	assert.Equal(t, 12, insights.MostCommonTypes[0].Count)
	assert.Equal(t, "type-02", insights.MostCommonTypes[9].Type)
}
