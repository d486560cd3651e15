package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tahfidz-api/internal/models"
)

var (
	// ErrMushafExists is returned when a ledger was created concurrently for the same student.
	ErrMushafExists = errors.New("personal mushaf already exists")
	// ErrStaleMushaf is returned when a ledger changed since it was loaded.
	ErrStaleMushaf = errors.New("personal mushaf version conflict")
)

// MushafRepository persists personal mushaf ledgers as whole aggregates.
type MushafRepository struct {
	db *sqlx.DB
}

// NewMushafRepository constructs the repository.
func NewMushafRepository(db *sqlx.DB) *MushafRepository {
	return &MushafRepository{db: db}
}

// GetByStudentID loads the ledger owned by a student. With forUpdate the row
// stays locked until the enclosing transaction ends.
func (r *MushafRepository) GetByStudentID(ctx context.Context, studentID string, forUpdate bool) (*models.PersonalMushaf, error) {
	query := `SELECT id, student_id, name, entries, version, created_at, updated_at FROM personal_mushafs WHERE student_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var mushaf models.PersonalMushaf
	if err := conn(ctx, r.db).GetContext(ctx, &mushaf, query, studentID); err != nil {
		return nil, err
	}
	if mushaf.Entries == nil {
		mushaf.Entries = models.MushafEntries{}
	}
	return &mushaf, nil
}

// Create inserts an empty ledger. ErrMushafExists is returned when the student already owns one.
func (r *MushafRepository) Create(ctx context.Context, mushaf *models.PersonalMushaf) error {
	if mushaf.ID == "" {
		mushaf.ID = uuid.NewString()
	}
	if mushaf.Entries == nil {
		mushaf.Entries = models.MushafEntries{}
	}
	now := time.Now().UTC()
	mushaf.CreatedAt = now
	mushaf.UpdatedAt = now
	mushaf.Version = 1
	const query = `INSERT INTO personal_mushafs (id, student_id, name, entries, version, created_at, updated_at)
	VALUES (:id, :student_id, :name, :entries, :version, :created_at, :updated_at)
	ON CONFLICT (student_id) DO NOTHING`
	result, err := conn(ctx, r.db).NamedExecContext(ctx, query, mushaf)
	if err != nil {
		return fmt.Errorf("create personal mushaf: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check personal mushaf insert rows: %w", err)
	}
	if rows == 0 {
		return ErrMushafExists
	}
	return nil
}

// Save writes every entry of the ledger, guarded by the loaded version.
func (r *MushafRepository) Save(ctx context.Context, mushaf *models.PersonalMushaf) error {
	now := time.Now().UTC()
	const query = `UPDATE personal_mushafs SET name = $1, entries = $2, version = version + 1, updated_at = $3
	WHERE id = $4 AND version = $5`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, mushaf.Name, mushaf.Entries, now, mushaf.ID, mushaf.Version)
	if err != nil {
		return fmt.Errorf("save personal mushaf: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check personal mushaf update rows: %w", err)
	}
	if rows == 0 {
		return ErrStaleMushaf
	}
	mushaf.Version++
	mushaf.UpdatedAt = now
	return nil
}
