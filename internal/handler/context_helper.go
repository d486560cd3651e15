package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tahfidz-api/internal/middleware"
	"github.com/noah-isme/tahfidz-api/internal/models"
	appErrors "github.com/noah-isme/tahfidz-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

func queryInt(c *gin.Context, key string, min int) (int, bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return 0, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be an integer >= %d", key, min))
	}
	return v, true, nil
}

// parseMushafFilter reads ledger filters from the query string. Dates are
// calendar days in loc.
func parseMushafFilter(c *gin.Context, loc *time.Location) (models.MushafFilter, error) {
	var filter models.MushafFilter

	if raw := c.Query("workflowStep"); raw != "" {
		step, err := models.ParseWorkflowStep(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		filter.WorkflowStep = step
	}
	page, ok, err := queryInt(c, "page", 1)
	if err != nil {
		return filter, err
	}
	if ok {
		filter.Page = &page
	}
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "date must use YYYY-MM-DD")
		}
		filter.Date = &day
	}
	if raw := c.Query("recency"); raw != "" {
		recency := models.Recency(strings.ToLower(strings.TrimSpace(raw)))
		if !recency.Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, "recency must be today, recent or historical")
		}
		filter.Recency = recency
	}
	filter.Type = strings.TrimSpace(c.Query("type"))
	if raw := c.Query("category"); raw != "" {
		category := models.MistakeCategory(strings.ToLower(strings.TrimSpace(raw)))
		if !category.Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported category %q", raw))
		}
		filter.Category = category
	}
	if raw := c.Query("resolved"); raw != "" {
		resolved, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "resolved must be true or false")
		}
		filter.Resolved = &resolved
	}
	return filter, nil
}
