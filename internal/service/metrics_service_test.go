package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tahfidz-api/internal/models"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()
	m.RecordTicketReview(models.TicketStatusApproved, models.WorkflowStepSabq, 20*time.Millisecond)
	m.RecordMushafMerge(MergeOutcomeMerged)
	m.RecordMushafMerge(MergeOutcomeMerged)
	m.RecordNotification(models.NotificationTicketApproved, true)
	m.RecordArchived(4)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticketReviews.WithLabelValues("approved", "sabq")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.mushafMerges.WithLabelValues(MergeOutcomeMerged)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues(models.NotificationTicketApproved, "delivered")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.archived))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ticket_reviews_total")
}

func TestMetricsServiceQueueDepth(t *testing.T) {
	m := NewMetricsService()
	depth := 3
	require.NoError(t, m.RegisterQueueDepth("notifications", func() int { return depth }))
	assert.Error(t, m.RegisterQueueDepth("notifications", func() int { return 0 }))

	expected := `
# HELP job_queue_depth Jobs buffered in a background queue
# TYPE job_queue_depth gauge
job_queue_depth{queue="notifications"} 3
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "job_queue_depth"))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	assert.NoError(t, (*MetricsService)(nil).RegisterQueueDepth("q", func() int { return 1 }))

	var m *MetricsService
	m.RecordMushafMerge(MergeOutcomeCreated)
	m.RecordCacheOperation(true, time.Millisecond)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "metrics disabled")
}
