package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tahfidz-api/internal/models"
	"github.com/noah-isme/tahfidz-api/pkg/response"
)

type assignmentService interface {
	Get(ctx context.Context, id string, claims *models.JWTClaims) (*models.Assignment, error)
	ListByStudent(ctx context.Context, studentID string, status models.AssignmentStatus, limit, offset int, claims *models.JWTClaims) ([]models.Assignment, error)
}

// AssignmentHandler exposes synthesized assignments.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler builds an assignment handler.
func NewAssignmentHandler(service assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// Get godoc
// @Summary Get an assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// ListByStudent godoc
// @Summary List a student's assignments
// @Tags Assignments
// @Produce json
// @Param id path string true "Student ID"
// @Param status query string false "active, completed or archived"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/assignments [get]
func (h *AssignmentHandler) ListByStudent(c *gin.Context) {
	limit, _, err := queryInt(c, "limit", 1)
	if err != nil {
		response.Error(c, err)
		return
	}
	offset, _, err := queryInt(c, "offset", 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := models.AssignmentStatus(strings.ToLower(strings.TrimSpace(c.Query("status"))))
	items, err := h.service.ListByStudent(c.Request.Context(), c.Param("id"), status, limit, offset, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
