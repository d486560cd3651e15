package service

import (
	"sort"
	"time"

	"github.com/noah-isme/tahfidz-api/internal/dto"
	"github.com/noah-isme/tahfidz-api/internal/models"
)

const (
	recentWindowDays   = 7
	trendWindowDays    = 30
	mostCommonTypesMax = 10
	dateLayout         = "2006-01-02"
)

// MushafStatistician summarises a loaded personal mushaf. It is side-effect free.
type MushafStatistician struct {
	loc             *time.Location
	now             func() time.Time
	repeatThreshold int
}

// NewMushafStatistician constructs a statistician; loc defines calendar days.
func NewMushafStatistician(loc *time.Location, repeatThreshold int) *MushafStatistician {
	if loc == nil {
		loc = time.UTC
	}
	if repeatThreshold <= 0 {
		repeatThreshold = 3
	}
	return &MushafStatistician{loc: loc, now: time.Now, repeatThreshold: repeatThreshold}
}

// Location returns the calendar used for day boundaries.
func (s *MushafStatistician) Location() *time.Location {
	return s.loc
}

// Classify buckets a last-marked timestamp relative to now.
func (s *MushafStatistician) Classify(lastMarkedAt *time.Time) models.Recency {
	if lastMarkedAt == nil || lastMarkedAt.IsZero() {
		return models.RecencyHistorical
	}
	days := s.daysAgo(*lastMarkedAt)
	switch {
	case days <= 0:
		return models.RecencyToday
	case days <= recentWindowDays:
		return models.RecencyRecent
	default:
		return models.RecencyHistorical
	}
}

// Summarize filters the mushaf and computes the basic statistics.
func (s *MushafStatistician) Summarize(mushaf *models.PersonalMushaf, filter models.MushafFilter) dto.MushafSummary {
	views := s.filter(mushaf, filter)
	summary := dto.MushafSummary{
		Mistakes:   views,
		Statistics: basicStatistics(views),
	}
	if mushaf != nil {
		summary.StudentID = mushaf.StudentID
		summary.Name = mushaf.Name
	}
	return summary
}

// Insights computes the richer statistics variant over the filtered mushaf.
func (s *MushafStatistician) Insights(mushaf *models.PersonalMushaf, filter models.MushafFilter) dto.MushafInsights {
	views := s.filter(mushaf, filter)
	insights := dto.MushafInsights{
		MushafStatistics: basicStatistics(views),
		ByType:           make(map[string]int),
		RepeatOffenders:  []dto.MushafMistakeView{},
	}
	if mushaf != nil {
		insights.StudentID = mushaf.StudentID
	}

	today := s.civilDate(s.now())
	trendIndex := make(map[string]int, trendWindowDays)
	insights.Trend = make([]dto.TrendPoint, trendWindowDays)
	for i := 0; i < trendWindowDays; i++ {
		day := today.AddDate(0, 0, i-(trendWindowDays-1)).Format(dateLayout)
		insights.Trend[i] = dto.TrendPoint{Date: day}
		trendIndex[day] = i
	}

	for _, view := range views {
		insights.ByType[view.Type]++
		if view.Timeline.RepeatCount > s.repeatThreshold {
			insights.RepeatOffenders = append(insights.RepeatOffenders, view)
		}
		if view.Timeline.LastMarkedAt != nil {
			day := s.civilDate(*view.Timeline.LastMarkedAt).Format(dateLayout)
			if idx, ok := trendIndex[day]; ok {
				insights.Trend[idx].Count++
			}
		}
	}

	types := make([]dto.TypeCount, 0, len(insights.ByType))
	for t, count := range insights.ByType {
		types = append(types, dto.TypeCount{Type: t, Count: count})
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i].Count != types[j].Count {
			return types[i].Count > types[j].Count
		}
		return types[i].Type < types[j].Type
	})
	if len(types) > mostCommonTypesMax {
		types = types[:mostCommonTypesMax]
	}
	insights.MostCommonTypes = types
	return insights
}

func (s *MushafStatistician) filter(mushaf *models.PersonalMushaf, filter models.MushafFilter) []dto.MushafMistakeView {
	views := []dto.MushafMistakeView{}
	if mushaf == nil {
		return views
	}
	var filterDay string
	if filter.Date != nil {
		filterDay = s.civilDate(*filter.Date).Format(dateLayout)
	}
	for _, entry := range mushaf.Entries {
		if filter.WorkflowStep != "" && entry.WorkflowStep != filter.WorkflowStep {
			continue
		}
		if filter.Page != nil && (entry.Page == nil || *entry.Page != *filter.Page) {
			continue
		}
		if filter.Type != "" && entry.Type != filter.Type {
			continue
		}
		if filter.Category != "" && entry.Category != filter.Category {
			continue
		}
		if filter.Resolved != nil && entry.Timeline.Resolved != *filter.Resolved {
			continue
		}
		if filterDay != "" {
			if entry.Timeline.LastMarkedAt == nil || s.civilDate(*entry.Timeline.LastMarkedAt).Format(dateLayout) != filterDay {
				continue
			}
		}
		recency := s.Classify(entry.Timeline.LastMarkedAt)
		if filter.Recency != "" && recency != filter.Recency {
			continue
		}
		views = append(views, dto.MushafMistakeView{MistakeLedgerEntry: entry, Recency: recency})
	}
	return views
}

func basicStatistics(views []dto.MushafMistakeView) dto.MushafStatistics {
	stats := dto.MushafStatistics{
		Total:          len(views),
		ByWorkflowStep: make(map[models.WorkflowStep]int),
		ByCategory:     make(map[models.MistakeCategory]int),
	}
	for _, view := range views {
		stats.ByWorkflowStep[view.WorkflowStep]++
		stats.ByCategory[view.Category]++
		if view.Timeline.Resolved {
			stats.Resolved++
		} else {
			stats.Unresolved++
		}
	}
	return stats
}

// civilDate returns midnight UTC of the calendar date t falls on in the academy timezone.
func (s *MushafStatistician) civilDate(t time.Time) time.Time {
	y, m, d := t.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *MushafStatistician) daysAgo(t time.Time) int {
	return int(s.civilDate(s.now()).Sub(s.civilDate(t)).Hours() / 24)
}
