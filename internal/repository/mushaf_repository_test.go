package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tahfidz-api/internal/models"
)

var mushafRowColumns = []string{"id", "student_id", "name", "entries", "version", "created_at", "updated_at"}

func TestMushafRepositoryGetByStudentID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMushafRepository(db)

	rows := sqlmock.NewRows(mushafRowColumns).
		AddRow("mushaf-1", "student-1", "Aisha's Personal Mushaf",
			`[{"id":"e1","type":"madd","category":"tajweed","page":3,"workflowStep":"sabq","timeline":{"repeatCount":2,"resolved":false}}]`,
			3, time.Now(), time.Now())
	mock.ExpectQuery(`FROM personal_mushafs WHERE student_id = \$1 FOR UPDATE`).
		WithArgs("student-1").
		WillReturnRows(rows)

	mushaf, err := repo.GetByStudentID(context.Background(), "student-1", true)
	require.NoError(t, err)
	assert.Equal(t, 3, mushaf.Version)
	require.Len(t, mushaf.Entries, 1)
	assert.Equal(t, 2, mushaf.Entries[0].Timeline.RepeatCount)
	assert.Equal(t, models.MistakeCategoryTajweed, mushaf.Entries[0].Category)

	mock.ExpectQuery(`FROM personal_mushafs WHERE student_id = \$1$`).
		WithArgs("student-2").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByStudentID(context.Background(), "student-2", false)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMushafRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMushafRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO personal_mushafs")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mushaf := &models.PersonalMushaf{StudentID: "student-1", Name: "Aisha's Personal Mushaf"}
	require.NoError(t, repo.Create(context.Background(), mushaf))
	assert.NotEmpty(t, mushaf.ID)
	assert.Equal(t, 1, mushaf.Version)
	assert.NotNil(t, mushaf.Entries)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (student_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Create(context.Background(), &models.PersonalMushaf{StudentID: "student-1"}), ErrMushafExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMushafRepositorySaveChecksVersion(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMushafRepository(db)
	mushaf := &models.PersonalMushaf{ID: "mushaf-1", Name: "Personal Mushaf", Version: 4, Entries: models.MushafEntries{{ID: "e1", Type: "madd"}}}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE personal_mushafs SET name = $1, entries = $2, version = version + 1")).
		WithArgs("Personal Mushaf", sqlmock.AnyArg(), sqlmock.AnyArg(), "mushaf-1", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Save(context.Background(), mushaf))
	assert.Equal(t, 5, mushaf.Version)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE personal_mushafs")).
		WithArgs("Personal Mushaf", sqlmock.AnyArg(), sqlmock.AnyArg(), "mushaf-1", 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Save(context.Background(), mushaf), ErrStaleMushaf)
	assert.Equal(t, 5, mushaf.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}
