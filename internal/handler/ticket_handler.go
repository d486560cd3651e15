package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tahfidz-api/internal/dto"
	"github.com/noah-isme/tahfidz-api/internal/models"
	appErrors "github.com/noah-isme/tahfidz-api/pkg/errors"
	"github.com/noah-isme/tahfidz-api/pkg/response"
)

type ticketService interface {
	Submit(ctx context.Context, req dto.CreateTicketRequest, claims *models.JWTClaims) (*models.Ticket, error)
	Get(ctx context.Context, id string, claims *models.JWTClaims) (*models.Ticket, error)
	List(ctx context.Context, query dto.TicketQuery, claims *models.JWTClaims) ([]models.Ticket, *models.Pagination, error)
	Approve(ctx context.Context, id string, req dto.ApproveTicketRequest, claims *models.JWTClaims) (*dto.ApproveTicketResponse, error)
	Reject(ctx context.Context, id string, req dto.RejectTicketRequest, claims *models.JWTClaims) (*models.Ticket, error)
}

// TicketHandler exposes recitation ticket endpoints.
type TicketHandler struct {
	service ticketService
}

// NewTicketHandler builds a ticket handler.
func NewTicketHandler(service ticketService) *TicketHandler {
	return &TicketHandler{service: service}
}

// Submit godoc
// @Summary Submit a recitation ticket
// @Tags Tickets
// @Accept json
// @Produce json
// @Param payload body dto.CreateTicketRequest true "Ticket payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tickets [post]
func (h *TicketHandler) Submit(c *gin.Context) {
	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid ticket payload"))
		return
	}
	ticket, err := h.service.Submit(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ticket)
}

// List godoc
// @Summary List recitation tickets
// @Tags Tickets
// @Produce json
// @Param studentId query string false "Student ID"
// @Param teacherId query string false "Teacher ID"
// @Param status query string false "Comma separated statuses (pending,approved,rejected)"
// @Param workflowStep query string false "sabq, sabqi or manzil"
// @Param limit query int false "Page size (max 200)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /tickets [get]
func (h *TicketHandler) List(c *gin.Context) {
	query := dto.TicketQuery{
		StudentID:    c.Query("studentId"),
		TeacherID:    c.Query("teacherId"),
		WorkflowStep: models.WorkflowStep(strings.ToLower(strings.TrimSpace(c.Query("workflowStep")))),
	}
	for _, raw := range strings.Split(c.Query("status"), ",") {
		status := models.TicketStatus(strings.ToLower(strings.TrimSpace(raw)))
		switch status {
		case "":
		case models.TicketStatusPending, models.TicketStatusApproved, models.TicketStatusRejected:
			query.Status = append(query.Status, status)
		default:
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported status "+raw))
			return
		}
	}
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
	query.Limit, query.Offset = limit, offset

	tickets, pagination, err := h.service.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tickets, pagination)
}

// Get godoc
// @Summary Get a recitation ticket
// @Tags Tickets
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tickets/{id} [get]
func (h *TicketHandler) Get(c *gin.Context) {
	ticket, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ticket, nil)
}

// Approve godoc
// @Summary Approve a pending ticket
// @Description Merges the ticket's mistakes into the student's personal mushaf and completes or creates the assignment.
// @Tags Tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param payload body dto.ApproveTicketRequest false "Review payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /tickets/{id}/approve [post]
func (h *TicketHandler) Approve(c *gin.Context) {
	var req dto.ApproveTicketRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}
	result, err := h.service.Approve(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Reject godoc
// @Summary Reject a pending ticket
// @Tags Tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param payload body dto.RejectTicketRequest false "Review payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /tickets/{id}/reject [post]
func (h *TicketHandler) Reject(c *gin.Context) {
	var req dto.RejectTicketRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}
	ticket, err := h.service.Reject(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ticket, nil)
}

// bindOptionalJSON binds a body when one is sent; an empty body is valid.
func bindOptionalJSON(c *gin.Context, dest interface{}) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
