package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tahfidz-api/internal/models"
	"github.com/noah-isme/tahfidz-api/internal/service"
)

func TestMetricsHandlerReady(t *testing.T) {
	healthy := NewMetricsHandler(nil, map[string]Pinger{
		"postgres": PingFunc(func(ctx context.Context) error { return nil }),
	})
	c, w := newTestContext(http.MethodGet, "/ready", nil)
	healthy.Ready(c)
	require.Equal(t, http.StatusOK, w.Code)

	degraded := NewMetricsHandler(nil, map[string]Pinger{
		"postgres": PingFunc(func(ctx context.Context) error { return nil }),
		"redis":    PingFunc(func(ctx context.Context) error { return errors.New("connection refused") }),
	})
	c, w = newTestContext(http.MethodGet, "/ready", nil)
	degraded.Ready(c)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Checks["postgres"])
	assert.Equal(t, "connection refused", body.Checks["redis"])
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordTicketReview(models.TicketStatusRejected, models.WorkflowStepManzil, 0)
	c, w := newTestContext(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(metrics, nil).Prometheus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `ticket_reviews_total{decision="rejected",workflow_step="manzil"} 1`)

	c, w = newTestContext(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(nil, nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "metrics disabled\n", w.Body.String())
}

type assignmentServiceMock struct {
	lastStatus models.AssignmentStatus
	lastLimit  int
}

func (m *assignmentServiceMock) Get(ctx context.Context, id string, claims *models.JWTClaims) (*models.Assignment, error) {
	return &models.Assignment{ID: id}, nil
}

func (m *assignmentServiceMock) ListByStudent(ctx context.Context, studentID string, status models.AssignmentStatus, limit, offset int, claims *models.JWTClaims) ([]models.Assignment, error) {
	m.lastStatus, m.lastLimit = status, limit
	return []models.Assignment{}, nil
}

func TestAssignmentHandlerListByStudent(t *testing.T) {
	mockSvc := &assignmentServiceMock{}
	handler := NewAssignmentHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/students/student-1/assignments?status=Active&limit=5", nil)
	handler.ListByStudent(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.AssignmentStatusActive, mockSvc.lastStatus)
	assert.Equal(t, 5, mockSvc.lastLimit)

	c, w = newTestContext(http.MethodGet, "/students/student-1/assignments?offset=-1", nil)
	handler.ListByStudent(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
