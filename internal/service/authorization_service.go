package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/tahfidz-api/internal/models"
	appErrors "github.com/noah-isme/tahfidz-api/pkg/errors"
)

// Capability names an action a caller may perform.
type Capability string

const (
	CapabilityTicketsSubmit   Capability = "tickets:submit"
	CapabilityTicketsApprove  Capability = "tickets:approve"
	CapabilityTicketsReject   Capability = "tickets:reject"
	CapabilityTicketsRead     Capability = "tickets:read"
	CapabilityMushafRead      Capability = "mushaf:read"
	CapabilityMushafResolve   Capability = "mushaf:resolve"
	CapabilityAssignmentsRead Capability = "assignments:read"
)

var studentCapabilities = map[Capability]bool{
	CapabilityTicketsRead:     true,
	CapabilityMushafRead:      true,
	CapabilityAssignmentsRead: true,
}

type studentAccountReader interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

// AuthorizationService maps roles to capabilities. Students are limited to
// read capabilities over their own record.
type AuthorizationService struct {
	students studentAccountReader
}

// NewAuthorizationService constructs an authorization service.
func NewAuthorizationService(students studentAccountReader) *AuthorizationService {
	return &AuthorizationService{students: students}
}

// Has reports whether the role grants the capability for some subject.
func (s *AuthorizationService) Has(role models.UserRole, capability Capability) bool {
	switch role {
	case models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher:
		return true
	case models.RoleStudent:
		return studentCapabilities[capability]
	default:
		return false
	}
}

// Require checks a capability that is not scoped to a student.
func (s *AuthorizationService) Require(claims *models.JWTClaims, capability Capability) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if claims.Role == models.RoleStudent || !s.Has(claims.Role, capability) {
		return appErrors.ErrForbidden
	}
	return nil
}

// RequireForStudent checks a capability over one student's records.
func (s *AuthorizationService) RequireForStudent(ctx context.Context, claims *models.JWTClaims, capability Capability, studentID string) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if !s.Has(claims.Role, capability) {
		return appErrors.ErrForbidden
	}
	if claims.Role != models.RoleStudent {
		return nil
	}
	if s.students == nil {
		return appErrors.ErrForbidden
	}
	student, err := s.students.FindByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrForbidden
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student account")
	}
	if student.ID != studentID {
		return appErrors.ErrForbidden
	}
	return nil
}
