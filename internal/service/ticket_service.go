package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tahfidz-api/internal/dto"
	"github.com/noah-isme/tahfidz-api/internal/models"
	"github.com/noah-isme/tahfidz-api/internal/repository"
	appErrors "github.com/noah-isme/tahfidz-api/pkg/errors"
)

const (
	defaultTicketPageSize = 50
	maxTicketPageSize     = 200
)

type ticketStore interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	GetForUpdate(ctx context.Context, id string) (*models.Ticket, error)
	List(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, int, error)
	UpdateReview(ctx context.Context, params repository.UpdateTicketReviewParams) error
}

type mushafStore interface {
	GetByStudentID(ctx context.Context, studentID string, forUpdate bool) (*models.PersonalMushaf, error)
	Create(ctx context.Context, mushaf *models.PersonalMushaf) error
	Save(ctx context.Context, mushaf *models.PersonalMushaf) error
}

type assignmentWriter interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	MarkCompleted(ctx context.Context, id string, at time.Time) error
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type txRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type reviewNotifier interface {
	Notify(ctx context.Context, notifications ...models.Notification)
}

// TicketDependencies groups the collaborators of TicketService.
type TicketDependencies struct {
	Tickets       ticketStore
	Mushafs       mushafStore
	Assignments   assignmentWriter
	Students      studentReader
	Teachers      teacherReader
	Tx            txRunner
	Authorization *AuthorizationService
	Ledger        *MushafLedger
	Synthesizer   *AssignmentSynthesizer
	Notifier      reviewNotifier
	Cache         *CacheService
	Metrics       *MetricsService
	Validator     *validator.Validate
	Logger        *zap.Logger
}

// TicketService drives the recitation ticket lifecycle.
type TicketService struct {
	tickets     ticketStore
	mushafs     mushafStore
	assignments assignmentWriter
	students    studentReader
	teachers    teacherReader
	tx          txRunner
	authz       *AuthorizationService
	ledger      *MushafLedger
	synthesizer *AssignmentSynthesizer
	notifier    reviewNotifier
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewTicketService builds a TicketService with sane defaults.
func NewTicketService(deps TicketDependencies) *TicketService {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Ledger == nil {
		deps.Ledger = NewMushafLedger(NewMistakeMatcher(DefaultPositionTolerance))
	}
	if deps.Synthesizer == nil {
		deps.Synthesizer = NewAssignmentSynthesizer()
	}
	if deps.Authorization == nil {
		deps.Authorization = NewAuthorizationService(deps.Students)
	}
	return &TicketService{
		tickets:     deps.Tickets,
		mushafs:     deps.Mushafs,
		assignments: deps.Assignments,
		students:    deps.Students,
		teachers:    deps.Teachers,
		tx:          deps.Tx,
		authz:       deps.Authorization,
		ledger:      deps.Ledger,
		synthesizer: deps.Synthesizer,
		notifier:    deps.Notifier,
		cache:       deps.Cache,
		metrics:     deps.Metrics,
		validator:   deps.Validator,
		logger:      deps.Logger,
		now:         time.Now,
	}
}

// Submit records a pending ticket after a recitation session.
func (s *TicketService) Submit(ctx context.Context, req dto.CreateTicketRequest, claims *models.JWTClaims) (*models.Ticket, error) {
	if err := s.authz.Require(claims, CapabilityTicketsSubmit); err != nil {
		return nil, err
	}
	req.WorkflowStep = models.WorkflowStep(strings.ToLower(strings.TrimSpace(string(req.WorkflowStep))))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid ticket payload")
	}
	if err := validateTicketRanges(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, notFoundOrInternal(err, "student not found", "failed to load student")
	}
	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		return nil, notFoundOrInternal(err, "teacher not found", "failed to load teacher")
	}
	if req.AssignmentID != nil {
		assignment, err := s.assignments.GetByID(ctx, *req.AssignmentID)
		if err != nil {
			return nil, notFoundOrInternal(err, "assignment not found", "failed to load assignment")
		}
		if assignment.StudentID != req.StudentID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "assignment belongs to another student")
		}
	}

	ticket := &models.Ticket{
		StudentID:       req.StudentID,
		TeacherID:       req.TeacherID,
		WorkflowStep:    req.WorkflowStep,
		Status:          models.TicketStatusPending,
		RecitationRange: req.RecitationRange,
		SabqEntries:     models.SabqEntries(req.SabqEntries),
		HomeworkRange:   req.HomeworkRange,
		Mistakes:        models.MistakeRecords(req.Mistakes),
		AssignmentID:    req.AssignmentID,
		CreatedBy:       claims.UserID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create ticket")
	}
	s.logger.Info("ticket submitted",
		zap.String("ticket_id", ticket.ID),
		zap.String("student_id", ticket.StudentID),
		zap.String("workflow_step", string(ticket.WorkflowStep)),
	)
	return ticket, nil
}

// Get returns a single ticket visible to the caller.
func (s *TicketService) Get(ctx context.Context, id string, claims *models.JWTClaims) (*models.Ticket, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "ticket not found", "failed to load ticket")
	}
	if err := s.authz.RequireForStudent(ctx, claims, CapabilityTicketsRead, ticket.StudentID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// List returns tickets matching the query. Students only see their own.
func (s *TicketService) List(ctx context.Context, query dto.TicketQuery, claims *models.JWTClaims) ([]models.Ticket, *models.Pagination, error) {
	if claims == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	if claims.Role == models.RoleStudent {
		student, err := s.students.FindByUserID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, appErrors.ErrForbidden
			}
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student account")
		}
		if query.StudentID != "" && query.StudentID != student.ID {
			return nil, nil, appErrors.ErrForbidden
		}
		query.StudentID = student.ID
	} else if err := s.authz.Require(claims, CapabilityTicketsRead); err != nil {
		return nil, nil, err
	}
	if query.WorkflowStep != "" && !query.WorkflowStep.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unsupported workflowStep")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultTicketPageSize
	}
	if limit > maxTicketPageSize {
		limit = maxTicketPageSize
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	tickets, total, err := s.tickets.List(ctx, models.TicketFilter{
		StudentID:    query.StudentID,
		TeacherID:    query.TeacherID,
		Status:       query.Status,
		WorkflowStep: query.WorkflowStep,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tickets")
	}
	return tickets, &models.Pagination{Page: offset/limit + 1, PageSize: limit, TotalCount: total}, nil
}

// Approve transitions a pending ticket to approved. Ledger merges, assignment
// completion or synthesis and the ticket update commit together; mistakes
// that cannot be merged are skipped.
func (s *TicketService) Approve(ctx context.Context, id string, req dto.ApproveTicketRequest, claims *models.JWTClaims) (*dto.ApproveTicketResponse, error) {
	if err := s.authz.Require(claims, CapabilityTicketsApprove); err != nil {
		return nil, err
	}
	if req.HomeworkAssignmentData != nil {
		if err := s.validator.Struct(req.HomeworkAssignmentData); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid homework assignment data")
		}
	}

	start := s.now()
	var (
		ticket     *models.Ticket
		student    *models.Student
		resp       = &dto.ApproveTicketResponse{}
		outcomes   []string
		ledgerSave bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if ticket, err = s.loadPending(ctx, id); err != nil {
			return err
		}
		if student, err = s.students.FindByID(ctx, ticket.StudentID); err != nil {
			return notFoundOrInternal(err, "student not found", "failed to load student")
		}

		reviewedAt := s.now().UTC()
		s.applyReview(ticket, models.TicketStatusApproved, claims, req.ReviewNotes, reviewedAt)

		if ticket.AssignmentID != nil {
			err := s.assignments.MarkCompleted(ctx, *ticket.AssignmentID, reviewedAt)
			switch {
			case err == nil:
			case errors.Is(err, repository.ErrAssignmentClosed):
				s.logger.Info("linked assignment already closed",
					zap.String("ticket_id", ticket.ID),
					zap.String("assignment_id", *ticket.AssignmentID),
				)
			case errors.Is(err, sql.ErrNoRows):
				s.logger.Warn("linked assignment missing",
					zap.String("ticket_id", ticket.ID),
					zap.String("assignment_id", *ticket.AssignmentID),
				)
			default:
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete assignment")
			}
		}

		if mistakes := ticket.CollectMistakes(); len(mistakes) > 0 {
			mushaf, err := loadOrCreateMushaf(ctx, s.mushafs, student)
			if err != nil {
				return err
			}
			outcomes = s.mergeMistakes(mushaf, ticket, mistakes, claims)
			for _, outcome := range outcomes {
				if outcome == MergeOutcomeSkipped {
					resp.SkippedMistakes++
				} else {
					resp.MergedMistakes++
				}
			}
			if resp.MergedMistakes > 0 {
				if err := saveMushaf(ctx, s.mushafs, mushaf); err != nil {
					return err
				}
				ledgerSave = true
			}
		}

		if ticket.AssignmentID == nil {
			assignment := s.synthesizer.Build(ticket, claims, req.HomeworkAssignmentData)
			if err := s.assignments.Create(ctx, assignment); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
			}
			ticket.HomeworkAssigned = &assignment.ID
			resp.HomeworkAssignmentID = &assignment.ID
		}

		return s.persistReview(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}

	for _, outcome := range outcomes {
		s.metrics.RecordMushafMerge(outcome)
	}
	s.metrics.RecordTicketReview(ticket.Status, ticket.WorkflowStep, s.now().Sub(start))
	if ledgerSave {
		invalidateMushafCache(ctx, s.cache, student.ID)
	}
	s.notify(ctx, ticket, student.UserID)

	s.logger.Info("ticket approved",
		zap.String("ticket_id", ticket.ID),
		zap.String("student_id", ticket.StudentID),
		zap.String("reviewed_by", claims.UserID),
		zap.Int("merged_mistakes", resp.MergedMistakes),
		zap.Int("skipped_mistakes", resp.SkippedMistakes),
	)
	resp.Ticket = ticket
	return resp, nil
}

// Reject transitions a pending ticket to rejected without touching the ledger or assignments.
func (s *TicketService) Reject(ctx context.Context, id string, req dto.RejectTicketRequest, claims *models.JWTClaims) (*models.Ticket, error) {
	if err := s.authz.Require(claims, CapabilityTicketsReject); err != nil {
		return nil, err
	}

	start := s.now()
	var ticket *models.Ticket
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if ticket, err = s.loadPending(ctx, id); err != nil {
			return err
		}
		s.applyReview(ticket, models.TicketStatusRejected, claims, req.ReviewNotes, s.now().UTC())
		return s.persistReview(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTicketReview(ticket.Status, ticket.WorkflowStep, s.now().Sub(start))
	s.notify(ctx, ticket, "")
	s.logger.Info("ticket rejected", zap.String("ticket_id", ticket.ID), zap.String("reviewed_by", claims.UserID))
	return ticket, nil
}

func (s *TicketService) loadPending(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := s.tickets.GetForUpdate(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "ticket not found", "failed to load ticket")
	}
	if ticket.Status != models.TicketStatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("ticket is already %s", ticket.Status))
	}
	return ticket, nil
}

func (s *TicketService) applyReview(ticket *models.Ticket, status models.TicketStatus, claims *models.JWTClaims, notes string, at time.Time) {
	reviewer := claims.UserID
	ticket.Status = status
	ticket.ReviewedBy = &reviewer
	ticket.ReviewedAt = &at
	ticket.UpdatedAt = at
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		ticket.ReviewNotes = &trimmed
	}
}

func (s *TicketService) persistReview(ctx context.Context, ticket *models.Ticket) error {
	err := s.tickets.UpdateReview(ctx, repository.UpdateTicketReviewParams{
		ID:               ticket.ID,
		Status:           ticket.Status,
		ReviewedBy:       *ticket.ReviewedBy,
		ReviewedAt:       *ticket.ReviewedAt,
		ReviewNotes:      ticket.ReviewNotes,
		HomeworkAssigned: ticket.HomeworkAssigned,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrInvalidState, "ticket is no longer pending")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update ticket")
	}
	return nil
}

// mergeMistakes folds every collected mistake into the ledger in list order
// and returns one outcome per mistake.
func (s *TicketService) mergeMistakes(mushaf *models.PersonalMushaf, ticket *models.Ticket, mistakes []models.TicketMistake, claims *models.JWTClaims) []string {
	outcomes := make([]string, 0, len(mistakes))
	for i, mistake := range mistakes {
		candidate := NewLedgerCandidate(ticket, mistake.MistakeRecord, claims)
		_, reused, err := s.ledger.Merge(mushaf, candidate)
		if err != nil {
			fields := []zap.Field{zap.String("ticket_id", ticket.ID), zap.Int("mistake_index", i), zap.Error(err)}
			if mistake.SabqEntryIndex != nil {
				fields = append(fields, zap.Int("sabq_entry", *mistake.SabqEntryIndex))
			}
			s.logger.Warn("skipping mistake during ledger merge", fields...)
			outcomes = append(outcomes, MergeOutcomeSkipped)
			continue
		}
		if reused {
			outcomes = append(outcomes, MergeOutcomeMerged)
		} else {
			outcomes = append(outcomes, MergeOutcomeCreated)
		}
	}
	return outcomes
}

func (s *TicketService) notify(ctx context.Context, ticket *models.Ticket, studentUserID string) {
	if s.notifier == nil {
		return
	}
	var teacherUserID string
	teacher, err := s.teachers.FindByID(ctx, ticket.TeacherID)
	if err != nil {
		s.logger.Warn("teacher lookup for notification failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	} else {
		teacherUserID = teacher.UserID
	}
	s.notifier.Notify(ctx, TicketReviewNotifications(ticket, studentUserID, teacherUserID)...)
}

func validateTicketRanges(req dto.CreateTicketRequest) error {
	if req.RecitationRange != nil {
		if err := req.RecitationRange.Validate(); err != nil {
			return fmt.Errorf("recitationRange: %w", err)
		}
	}
	if req.HomeworkRange != nil {
		if err := req.HomeworkRange.Validate(); err != nil {
			return fmt.Errorf("homeworkRange: %w", err)
		}
	}
	for i, entry := range req.SabqEntries {
		if err := entry.RecitationRange.Validate(); err != nil {
			return fmt.Errorf("sabqEntries[%d].recitationRange: %w", i, err)
		}
		for j, m := range entry.Mistakes {
			if !normalizeCategory(m.Category).Valid() {
				return fmt.Errorf("sabqEntries[%d].mistakes[%d]: unsupported category %q", i, j, m.Category)
			}
		}
	}
	for i, m := range req.Mistakes {
		if !normalizeCategory(m.Category).Valid() {
			return fmt.Errorf("mistakes[%d]: unsupported category %q", i, m.Category)
		}
	}
	return nil
}

func normalizeCategory(c models.MistakeCategory) models.MistakeCategory {
	return models.MistakeCategory(strings.ToLower(strings.TrimSpace(string(c))))
}

func notFoundOrInternal(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}
