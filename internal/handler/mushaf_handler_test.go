package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tahfidz-api/internal/dto"
	"github.com/noah-isme/tahfidz-api/internal/models"
)

type mushafServiceMock struct {
	lastStudent string
	lastEntry   string
	lastFormat  string
	lastFilter  models.MushafFilter
}

func (m *mushafServiceMock) GetPersonalMushaf(ctx context.Context, studentID string, filter models.MushafFilter, claims *models.JWTClaims) (*dto.MushafSummary, error) {
	m.lastStudent, m.lastFilter = studentID, filter
	return &dto.MushafSummary{StudentID: studentID, Mistakes: []dto.MushafMistakeView{}}, nil
}

func (m *mushafServiceMock) Insights(ctx context.Context, studentID string, filter models.MushafFilter, claims *models.JWTClaims) (*dto.MushafInsights, error) {
	m.lastStudent, m.lastFilter = studentID, filter
	return &dto.MushafInsights{StudentID: studentID}, nil
}

func (m *mushafServiceMock) ResolveEntry(ctx context.Context, studentID, entryID string, claims *models.JWTClaims) (*models.MistakeLedgerEntry, error) {
	m.lastStudent, m.lastEntry = studentID, entryID
	return &models.MistakeLedgerEntry{ID: entryID, Timeline: models.MistakeTimeline{Resolved: true}}, nil
}

func (m *mushafServiceMock) Export(ctx context.Context, studentID, format string, filter models.MushafFilter, claims *models.JWTClaims) (*dto.ExportFile, error) {
	m.lastStudent, m.lastFormat = studentID, format
	return &dto.ExportFile{FileName: "personal-mushaf-student-1-2024-03-20.csv", ContentType: "text/csv", Content: []byte("Type\nmadd\n")}, nil
}

func TestMushafHandlerGetParsesFilters(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	mockSvc := &mushafServiceMock{}
	handler := NewMushafHandler(mockSvc, loc)

	c, w := newTestContext(http.MethodGet, "/students/student-1/mushaf?workflowStep=SABQ&page=3&date=2024-03-20&recency=today&type=madd&category=Tajweed&resolved=false", nil)
	c.Params = gin.Params{{Key: "id", Value: "student-1"}}
	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	f := mockSvc.lastFilter
	assert.Equal(t, "student-1", mockSvc.lastStudent)
	assert.Equal(t, models.WorkflowStepSabq, f.WorkflowStep)
	require.NotNil(t, f.Page)
	assert.Equal(t, 3, *f.Page)
	require.NotNil(t, f.Date)
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, loc), *f.Date)
	assert.Equal(t, models.RecencyToday, f.Recency)
	assert.Equal(t, "madd", f.Type)
	assert.Equal(t, models.MistakeCategoryTajweed, f.Category)
	require.NotNil(t, f.Resolved)
	assert.False(t, *f.Resolved)
}

func TestMushafHandlerRejectsInvalidFilters(t *testing.T) {
	handler := NewMushafHandler(&mushafServiceMock{}, nil)
	for _, query := range []string{
		"workflowStep=hifz",
		"page=0",
		"date=20-03-2024",
		"recency=yesterday",
		"category=grammar",
		"resolved=maybe",
	} {
		t.Run(query, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/students/student-1/mushaf?"+query, nil)
			handler.Get(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestMushafHandlerResolveAndExport(t *testing.T) {
	mockSvc := &mushafServiceMock{}
	handler := NewMushafHandler(mockSvc, nil)

	c, w := newTestContext(http.MethodPost, "/students/student-1/mushaf/entries/e-1/resolve", nil)
	c.Params = gin.Params{{Key: "id", Value: "student-1"}, {Key: "entryId", Value: "e-1"}}
	handler.Resolve(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "e-1", mockSvc.lastEntry)

	c, w = newTestContext(http.MethodGet, "/students/student-1/mushaf/export?format=csv", nil)
	c.Params = gin.Params{{Key: "id", Value: "student-1"}}
	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", mockSvc.lastFormat)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "personal-mushaf-student-1-2024-03-20.csv")
	assert.Equal(t, "Type\nmadd\n", w.Body.String())
}
