package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tahfidz-api/internal/models"
	appErrors "github.com/noah-isme/tahfidz-api/pkg/errors"
)

type assignmentReader interface {
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	ListByStudent(ctx context.Context, studentID string, status models.AssignmentStatus, limit, offset int) ([]models.Assignment, error)
	ArchiveCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AssignmentService exposes synthesized assignments and their housekeeping.
type AssignmentService struct {
	repo    assignmentReader
	authz   *AuthorizationService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(repo assignmentReader, authz *AuthorizationService, metrics *MetricsService, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if authz == nil {
		authz = NewAuthorizationService(nil)
	}
	return &AssignmentService{repo: repo, authz: authz, metrics: metrics, logger: logger, now: time.Now}
}

// Get returns one assignment visible to the caller.
func (s *AssignmentService) Get(ctx context.Context, id string, claims *models.JWTClaims) (*models.Assignment, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "assignment not found", "failed to load assignment")
	}
	if err := s.authz.RequireForStudent(ctx, claims, CapabilityAssignmentsRead, assignment.StudentID); err != nil {
		return nil, err
	}
	return assignment, nil
}

// ListByStudent returns a student's assignments, optionally filtered by status.
func (s *AssignmentService) ListByStudent(ctx context.Context, studentID string, status models.AssignmentStatus, limit, offset int, claims *models.JWTClaims) ([]models.Assignment, error) {
	if err := s.authz.RequireForStudent(ctx, claims, CapabilityAssignmentsRead, studentID); err != nil {
		return nil, err
	}
	switch status {
	case "", models.AssignmentStatusActive, models.AssignmentStatusCompleted, models.AssignmentStatusArchived:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported status %q", status))
	}
	assignments, err := s.repo.ListByStudent(ctx, studentID, status, limit, offset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return assignments, nil
}

// ArchiveCompleted archives assignments completed more than olderThan ago.
func (s *AssignmentService) ArchiveCompleted(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "archive age must be positive")
	}
	cutoff := s.now().UTC().Add(-olderThan)
	archived, err := s.repo.ArchiveCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive assignments")
	}
	s.metrics.RecordArchived(archived)
	s.logger.Info("completed assignments archived", zap.Int64("count", archived), zap.Time("cutoff", cutoff))
	return archived, nil
}
