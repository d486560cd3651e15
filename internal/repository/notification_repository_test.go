package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tahfidz-api/internal/models"
)

func TestNotificationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	notification := &models.Notification{
		UserID:            "user-1",
		Type:              models.NotificationTicketApproved,
		Title:             "Recitation approved",
		RelatedEntityType: models.RelatedEntityTicket,
		RelatedEntityID:   "ticket-1",
		Data:              models.NotificationData{"workflowStep": "sabq"},
	}
	require.NoError(t, repo.Create(context.Background(), notification))
	assert.NotEmpty(t, notification.ID)
	assert.False(t, notification.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
