package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tahfidz-api/internal/models"
	"github.com/noah-isme/tahfidz-api/internal/repository"
	appErrors "github.com/noah-isme/tahfidz-api/pkg/errors"
)

type assignmentRepoStub struct {
	items     map[string]*models.Assignment
	created   []*models.Assignment
	completed map[string]time.Time
	cutoff    time.Time
	archived  int64
	err       error
}

func newAssignmentRepoStub(items ...models.Assignment) *assignmentRepoStub {
	stub := &assignmentRepoStub{items: map[string]*models.Assignment{}, completed: map[string]time.Time{}}
	for i := range items {
		a := items[i]
		stub.items[a.ID] = &a
	}
	return stub
}

func (s *assignmentRepoStub) Create(ctx context.Context, a *models.Assignment) error {
	if s.err != nil {
		return s.err
	}
	s.items[a.ID] = a
	s.created = append(s.created, a)
	return nil
}

func (s *assignmentRepoStub) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	if a, ok := s.items[id]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (s *assignmentRepoStub) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	a, ok := s.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	if a.Status != models.AssignmentStatusActive {
		return repository.ErrAssignmentClosed
	}
	a.Status = models.AssignmentStatusCompleted
	a.CompletedAt = &at
	s.completed[id] = at
	return nil
}

func (s *assignmentRepoStub) ListByStudent(ctx context.Context, studentID string, status models.AssignmentStatus, limit, offset int) ([]models.Assignment, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Assignment
	for _, a := range s.items {
		if a.StudentID == studentID && (status == "" || a.Status == status) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *assignmentRepoStub) ArchiveCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.cutoff = cutoff
	return s.archived, nil
}

func TestAssignmentServiceGetScopesStudents(t *testing.T) {
	repo := newAssignmentRepoStub(models.Assignment{ID: "a-1", StudentID: "student-1", Status: models.AssignmentStatusActive})
	students := newStudentRepoStub(
		models.Student{ID: "student-1", UserID: "s-user-1"},
		models.Student{ID: "student-2", UserID: "s-user-2"},
	)
	svc := NewAssignmentService(repo, NewAuthorizationService(students), nil, nil)
	ctx := context.Background()

	got, err := svc.Get(ctx, "a-1", &models.JWTClaims{UserID: "s-user-1", Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, "a-1", got.ID)

	_, err = svc.Get(ctx, "a-1", &models.JWTClaims{UserID: "s-user-2", Role: models.RoleStudent})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Get(ctx, "missing", &models.JWTClaims{UserID: "t", Role: models.RoleTeacher})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceListByStudent(t *testing.T) {
	repo := newAssignmentRepoStub(
		models.Assignment{ID: "a-1", StudentID: "student-1", Status: models.AssignmentStatusActive},
		models.Assignment{ID: "a-2", StudentID: "student-1", Status: models.AssignmentStatusCompleted},
		models.Assignment{ID: "a-3", StudentID: "student-2", Status: models.AssignmentStatusActive},
	)
	svc := NewAssignmentService(repo, NewAuthorizationService(newStudentRepoStub()), nil, nil)
	teacher := &models.JWTClaims{UserID: "t", Role: models.RoleTeacher}

	items, err := svc.ListByStudent(context.Background(), "student-1", models.AssignmentStatusActive, 10, 0, teacher)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a-1", items[0].ID)

	items, err = svc.ListByStudent(context.Background(), "student-9", "", 10, 0, teacher)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err = svc.ListByStudent(context.Background(), "student-1", "deleted", 10, 0, teacher)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceArchiveCompleted(t *testing.T) {
	repo := newAssignmentRepoStub()
	repo.archived = 3
	metrics := NewMetricsService()
	svc := NewAssignmentService(repo, nil, metrics, nil)
	now := time.Date(2024, 3, 20, 2, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	n, err := svc.ArchiveCompleted(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, now.AddDate(0, 0, -30), repo.cutoff)

	_, err = svc.ArchiveCompleted(context.Background(), 0)
	assert.Error(t, err)

	repo.err = errors.New("db down")
	_, err = svc.ArchiveCompleted(context.Background(), time.Hour)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

type archiverStub struct {
	calls chan time.Duration
}

func (a *archiverStub) ArchiveCompleted(ctx context.Context, olderThan time.Duration) (int64, error) {
	a.calls <- olderThan
	return 0, nil
}

func TestAssignmentArchiverRunOnce(t *testing.T) {
	stub := &archiverStub{calls: make(chan time.Duration, 1)}
	archiver := NewAssignmentArchiver(stub, "0 2 * * *", 48*time.Hour, nil, nil)
	archiver.RunOnce(context.Background())
	assert.Equal(t, 48*time.Hour, <-stub.calls)
}

func TestAssignmentArchiverRejectsBadSchedule(t *testing.T) {
	archiver := NewAssignmentArchiver(&archiverStub{calls: make(chan time.Duration, 1)}, "every night", time.Hour, nil, nil)
	err := archiver.Run(context.Background())
	assert.Error(t, err)
}

func TestAssignmentArchiverStopsWithContext(t *testing.T) {
	archiver := NewAssignmentArchiver(&archiverStub{calls: make(chan time.Duration, 1)}, "@every 1h", time.Hour, time.UTC, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- archiver.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("archiver did not stop")
	}
}
