package dto

import "github.com/noah-isme/tahfidz-api/internal/models"

// MushafMistakeView is a ledger entry annotated with its recency bucket.
type MushafMistakeView struct {
	models.MistakeLedgerEntry
	Recency models.Recency `json:"recency"`
}

// MushafStatistics aggregates counts over a (filtered) personal mushaf.
type MushafStatistics struct {
	Total          int                            `json:"total"`
	ByWorkflowStep map[models.WorkflowStep]int    `json:"byWorkflowStep"`
	ByCategory     map[models.MistakeCategory]int `json:"byCategory"`
	Resolved       int                            `json:"resolved"`
	Unresolved     int                            `json:"unresolved"`
}

// MushafSummary is the response of a personal mushaf read.
type MushafSummary struct {
	StudentID  string              `json:"studentId"`
	Name       string              `json:"name"`
	Mistakes   []MushafMistakeView `json:"mistakes"`
	Statistics MushafStatistics    `json:"statistics"`
}

// TrendPoint counts mistakes last marked on a calendar date.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TypeCount counts ledger entries of one mistake type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// MushafInsights is the richer statistics variant over a personal mushaf.
type MushafInsights struct {
	MushafStatistics
	StudentID       string              `json:"studentId"`
	ByType          map[string]int      `json:"byType"`
	RepeatOffenders []MushafMistakeView `json:"repeatOffenders"`
	Trend           []TrendPoint        `json:"trend"`
	MostCommonTypes []TypeCount         `json:"mostCommonTypes"`
}

// ExportFile is a rendered mushaf export.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}
