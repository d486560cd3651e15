package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tahfidz-api/internal/models"
	"github.com/noah-isme/tahfidz-api/internal/service"
	appErrors "github.com/noah-isme/tahfidz-api/pkg/errors"
	"github.com/noah-isme/tahfidz-api/pkg/response"
)

// CapabilityChecker reports whether a role can ever hold a capability.
type CapabilityChecker interface {
	Has(role models.UserRole, capability service.Capability) bool
}

// RequireCapability rejects callers whose role never grants the capability.
// Record-level scoping stays with the services.
func RequireCapability(checker CapabilityChecker, capability service.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !checker.Has(claims.Role, capability) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
