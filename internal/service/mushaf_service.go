package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/tahfidz-api/internal/dto"
	"github.com/noah-isme/tahfidz-api/internal/models"
	"github.com/noah-isme/tahfidz-api/internal/repository"
	appErrors "github.com/noah-isme/tahfidz-api/pkg/errors"
	"github.com/noah-isme/tahfidz-api/pkg/export"
)

// Export formats supported by MushafService.Export.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var mushafExportHeaders = []string{
	"Type", "Category", "Workflow Step", "Page", "Surah", "Ayah", "Word",
	"Repeat Count", "First Marked", "Last Marked", "Recency", "Resolved", "Note",
}

var mushafExportWidths = []float64{1.4, 1, 1, 0.6, 0.6, 0.6, 0.6, 0.8, 1.3, 1.3, 0.9, 0.8, 2.2}

// cachedMushaf is the cached ledger stamped with the student's cache
// generation at the time the ledger was read.
type cachedMushaf struct {
	Generation string                `json:"generation"`
	Mushaf     models.PersonalMushaf `json:"mushaf"`
}

type mushafStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// MushafService serves personal mushaf reads, insights, resolution and export.
type MushafService struct {
	mushafs  mushafStore
	students mushafStudentReader
	tx       txRunner
	authz    *AuthorizationService
	ledger   *MushafLedger
	stats    *MushafStatistician
	cache    *CacheService
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewMushafService constructs a MushafService.
func NewMushafService(
	mushafs mushafStore,
	students mushafStudentReader,
	tx txRunner,
	authz *AuthorizationService,
	ledger *MushafLedger,
	stats *MushafStatistician,
	cache *CacheService,
	logger *zap.Logger,
) *MushafService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ledger == nil {
		ledger = NewMushafLedger(NewMistakeMatcher(DefaultPositionTolerance))
	}
	if stats == nil {
		stats = NewMushafStatistician(time.UTC, 0)
	}
	if authz == nil {
		authz = NewAuthorizationService(nil)
	}
	return &MushafService{
		mushafs:  mushafs,
		students: students,
		tx:       tx,
		authz:    authz,
		ledger:   ledger,
		stats:    stats,
		cache:    cache,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// GetPersonalMushaf returns the filtered ledger with its statistics.
func (s *MushafService) GetPersonalMushaf(ctx context.Context, studentID string, filter models.MushafFilter, claims *models.JWTClaims) (*dto.MushafSummary, error) {
	if err := s.authz.RequireForStudent(ctx, claims, CapabilityMushafRead, studentID); err != nil {
		return nil, err
	}
	mushaf, err := s.load(ctx, studentID)
	if err != nil {
		return nil, err
	}
	summary := s.stats.Summarize(mushaf, filter)
	return &summary, nil
}

// Insights returns the extended statistics over the filtered ledger.
func (s *MushafService) Insights(ctx context.Context, studentID string, filter models.MushafFilter, claims *models.JWTClaims) (*dto.MushafInsights, error) {
	if err := s.authz.RequireForStudent(ctx, claims, CapabilityMushafRead, studentID); err != nil {
		return nil, err
	}
	mushaf, err := s.load(ctx, studentID)
	if err != nil {
		return nil, err
	}
	insights := s.stats.Insights(mushaf, filter)
	return &insights, nil
}

// ResolveEntry marks one ledger entry as resolved.
func (s *MushafService) ResolveEntry(ctx context.Context, studentID, entryID string, claims *models.JWTClaims) (*models.MistakeLedgerEntry, error) {
	if err := s.authz.RequireForStudent(ctx, claims, CapabilityMushafResolve, studentID); err != nil {
		return nil, err
	}

	var resolved models.MistakeLedgerEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		mushaf, err := s.mushafs.GetByStudentID(ctx, studentID, true)
		if err != nil {
			return notFoundOrInternal(err, "personal mushaf not found", "failed to load personal mushaf")
		}
		entry, err := s.ledger.Resolve(mushaf, entryID)
		if err != nil {
			if errors.Is(err, errEntryNotFound) {
				return appErrors.Clone(appErrors.ErrNotFound, "mistake entry not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve entry")
		}
		resolved = *entry
		return saveMushaf(ctx, s.mushafs, mushaf)
	})
	if err != nil {
		return nil, err
	}

	invalidateMushafCache(ctx, s.cache, studentID)
	s.logger.Info("mushaf entry resolved",
		zap.String("student_id", studentID),
		zap.String("entry_id", entryID),
		zap.String("resolved_by", claims.UserID),
	)
	return &resolved, nil
}

// Export renders the filtered ledger as CSV or PDF.
func (s *MushafService) Export(ctx context.Context, studentID, format string, filter models.MushafFilter, claims *models.JWTClaims) (*dto.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	summary, err := s.GetPersonalMushaf(ctx, studentID, filter, claims)
	if err != nil {
		return nil, err
	}

	dataset := s.dataset(summary)
	generated := time.Now().In(s.stats.Location())
	file := &dto.ExportFile{
		FileName: fmt.Sprintf("personal-mushaf-%s-%s.%s", studentID, generated.Format(dateLayout), format),
	}
	switch format {
	case ExportFormatPDF:
		file.ContentType = "application/pdf"
		file.Content, err = s.pdf.Render(dataset, export.Document{
			Title: summary.Name,
			Subtitle: fmt.Sprintf("%d mistakes, %d unresolved | generated %s",
				summary.Statistics.Total, summary.Statistics.Unresolved, generated.Format("2006-01-02 15:04 MST")),
			Widths: mushafExportWidths,
		})
	default:
		file.ContentType = "text/csv"
		file.Content, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return file, nil
}

// load reads the ledger through the cache. A student without a ledger gets an
// empty, unsaved one. The generation is read before the database so a fill
// that races an invalidation is stamped with the old generation and ignored.
func (s *MushafService) load(ctx context.Context, studentID string) (*models.PersonalMushaf, error) {
	key := mushafCacheKey(studentID)
	var generation string
	s.cache.Get(ctx, mushafGenerationKey(studentID), &generation)

	var cached cachedMushaf
	if s.cache.Get(ctx, key, &cached) && cached.Generation == generation {
		return &cached.Mushaf, nil
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found", "failed to load student")
	}
	mushaf, err := s.mushafs.GetByStudentID(ctx, studentID, false)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load personal mushaf")
		}
		mushaf = &models.PersonalMushaf{
			StudentID: student.ID,
			Name:      MushafName(student.FullName),
			Entries:   models.MushafEntries{},
		}
	}
	s.cache.Set(ctx, key, cachedMushaf{Generation: generation, Mushaf: *mushaf})
	return mushaf, nil
}

func (s *MushafService) dataset(summary *dto.MushafSummary) export.Dataset {
	loc := s.stats.Location()
	rows := make([]map[string]string, 0, len(summary.Mistakes))
	for _, m := range summary.Mistakes {
		rows = append(rows, map[string]string{
			"Type":          m.Type,
			"Category":      string(m.Category),
			"Workflow Step": string(m.WorkflowStep),
			"Page":          optionalInt(m.Page),
			"Surah":         optionalInt(m.Surah),
			"Ayah":          optionalInt(m.Ayah),
			"Word":          optionalInt(m.WordIndex),
			"Repeat Count":  strconv.Itoa(m.Timeline.RepeatCount),
			"First Marked":  optionalTime(m.Timeline.FirstMarkedAt, loc),
			"Last Marked":   optionalTime(m.Timeline.LastMarkedAt, loc),
			"Recency":       string(m.Recency),
			"Resolved":      strconv.FormatBool(m.Timeline.Resolved),
			"Note":          m.Note,
		})
	}
	return export.Dataset{Headers: mushafExportHeaders, Rows: rows}
}

// loadOrCreateMushaf locks the student's ledger, creating it on first use.
func loadOrCreateMushaf(ctx context.Context, store mushafStore, student *models.Student) (*models.PersonalMushaf, error) {
	mushaf, err := store.GetByStudentID(ctx, student.ID, true)
	if err == nil {
		return mushaf, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load personal mushaf")
	}

	mushaf = &models.PersonalMushaf{
		StudentID: student.ID,
		Name:      MushafName(student.FullName),
		Entries:   models.MushafEntries{},
	}
	if err := store.Create(ctx, mushaf); err != nil {
		if !errors.Is(err, repository.ErrMushafExists) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create personal mushaf")
		}
		// created concurrently; lock the winner's row
		mushaf, err = store.GetByStudentID(ctx, student.ID, true)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load personal mushaf")
		}
	}
	return mushaf, nil
}

func saveMushaf(ctx context.Context, store mushafStore, mushaf *models.PersonalMushaf) error {
	if err := store.Save(ctx, mushaf); err != nil {
		if errors.Is(err, repository.ErrStaleMushaf) {
			return appErrors.Clone(appErrors.ErrConflict, "personal mushaf was modified concurrently, retry the request")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save personal mushaf")
	}
	return nil
}

func mushafCacheKey(studentID string) string {
	return "mushaf:" + studentID + ":ledger"
}

func mushafCachePattern(studentID string) string {
	return "mushaf:" + studentID + ":*"
}

// mushafGenerationKey sits outside mushafCachePattern so invalidation keeps it.
func mushafGenerationKey(studentID string) string {
	return "mushafgen:" + studentID
}

// invalidateMushafCache rotates the generation, then drops cached copies.
// Call it after the ledger change has committed.
func invalidateMushafCache(ctx context.Context, cache *CacheService, studentID string) {
	cache.Set(ctx, mushafGenerationKey(studentID), uuid.NewString())
	cache.Invalidate(ctx, mushafCachePattern(studentID))
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("2006-01-02 15:04")
}
