package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tahfidz-api/internal/dto"
	"github.com/noah-isme/tahfidz-api/internal/models"
	"github.com/noah-isme/tahfidz-api/pkg/response"
)

type mushafService interface {
	GetPersonalMushaf(ctx context.Context, studentID string, filter models.MushafFilter, claims *models.JWTClaims) (*dto.MushafSummary, error)
	Insights(ctx context.Context, studentID string, filter models.MushafFilter, claims *models.JWTClaims) (*dto.MushafInsights, error)
	ResolveEntry(ctx context.Context, studentID, entryID string, claims *models.JWTClaims) (*models.MistakeLedgerEntry, error)
	Export(ctx context.Context, studentID, format string, filter models.MushafFilter, claims *models.JWTClaims) (*dto.ExportFile, error)
}

// MushafHandler exposes personal mushaf endpoints.
type MushafHandler struct {
	service mushafService
	loc     *time.Location
}

// NewMushafHandler builds a handler; loc interprets date filters.
func NewMushafHandler(service mushafService, loc *time.Location) *MushafHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &MushafHandler{service: service, loc: loc}
}

// Get godoc
// @Summary Get a student's personal mushaf
// @Tags Mushaf
// @Produce json
// @Param id path string true "Student ID"
// @Param workflowStep query string false "sabq, sabqi or manzil"
// @Param page query int false "Mushaf page"
// @Param date query string false "Last marked on (YYYY-MM-DD)"
// @Param recency query string false "today, recent or historical"
// @Param type query string false "Mistake type"
// @Param category query string false "tajweed, letter, stop, memory or other"
// @Param resolved query bool false "Resolved flag"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/mushaf [get]
func (h *MushafHandler) Get(c *gin.Context) {
	filter, err := parseMushafFilter(c, h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.service.GetPersonalMushaf(c.Request.Context(), c.Param("id"), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Insights godoc
// @Summary Get personal mushaf insights
// @Description Repeat offenders, a 30-day trend and the most common mistake types.
// @Tags Mushaf
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/mushaf/insights [get]
func (h *MushafHandler) Insights(c *gin.Context) {
	filter, err := parseMushafFilter(c, h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}
	insights, err := h.service.Insights(c.Request.Context(), c.Param("id"), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, insights, nil)
}

// Resolve godoc
// @Summary Resolve a personal mushaf entry
// @Tags Mushaf
// @Produce json
// @Param id path string true "Student ID"
// @Param entryId path string true "Ledger entry ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/mushaf/entries/{entryId}/resolve [post]
func (h *MushafHandler) Resolve(c *gin.Context) {
	entry, err := h.service.ResolveEntry(c.Request.Context(), c.Param("id"), c.Param("entryId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Export godoc
// @Summary Export a personal mushaf
// @Tags Mushaf
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /students/{id}/mushaf/export [get]
func (h *MushafHandler) Export(c *gin.Context) {
	filter, err := parseMushafFilter(c, h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Export(c.Request.Context(), c.Param("id"), c.Query("format"), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.FileName, file.ContentType, file.Content)
}
