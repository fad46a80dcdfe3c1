package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hakwonlab/center-schedule-api/internal/models"
	"github.com/hakwonlab/center-schedule-api/internal/schedule"
	appErrors "github.com/hakwonlab/center-schedule-api/pkg/errors"
	"github.com/hakwonlab/center-schedule-api/pkg/export"
	"github.com/hakwonlab/center-schedule-api/pkg/storage"
)

// Export formats supported for weekly schedules.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type weekRowLister interface {
	ListByWeek(ctx context.Context, weekStart string) ([]models.WeekScheduleRow, error)
}

// ExportResult describes a rendered export file and its download token.
type ExportResult struct {
	FileName  string    `json:"file_name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportService renders a week's canonical schedule into downloadable CSV
// or PDF files with signed, expiring download tokens.
type ExportService struct {
	rows   weekRowLister
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	store  *storage.LocalStorage
	signer *storage.SignedURLSigner
	logger *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(rows weekRowLister, store *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		rows:   rows,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		store:  store,
		signer: signer,
		logger: logger,
	}
}

// ExportWeek renders the canonical view of one week for every student.
func (s *ExportService) ExportWeek(ctx context.Context, weekStart, format string) (*ExportResult, error) {
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	rows, err := s.rows.ListByWeek(ctx, weekStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load week")
	}

	dataset := buildWeekDataset(rows)

	var content []byte
	switch format {
	case FormatCSV:
		content, err = s.csv.Render(dataset)
	case FormatPDF:
		content, err = s.pdf.Render(dataset, fmt.Sprintf("Weekly Schedule %s", weekStart))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	fileName := fmt.Sprintf("weekly/%s.%s", weekStart, format)
	if _, err := s.store.Save(fileName, content); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(uuid.NewString(), fileName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}

	s.logger.Info("week_exported", zap.String("week_start", weekStart), zap.String("format", format))
	return &ExportResult{FileName: fileName, Token: token, ExpiresAt: expiresAt}, nil
}

// Open resolves a download token to the stored file.
func (s *ExportService) Open(token string) (*os.File, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, relPath, nil
}

// RunCleanup deletes expired export files on the given interval until the
// context is cancelled.
func (s *ExportService) RunCleanup(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.store.CleanupOlderThan(ttl)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(deleted) > 0 {
				s.logger.Info("export cleanup", zap.Int("deleted", len(deleted)))
			}
		}
	}
}

// buildWeekDataset canonicalizes the stored rows and lays them out per
// student and day for export.
func buildWeekDataset(rows []models.WeekScheduleRow) export.Dataset {
	names := make(map[string]string, len(rows))
	records := make([]models.ScheduleRecord, 0, len(rows))
	for _, row := range rows {
		names[row.StudentID] = row.StudentName
		records = append(records, row.ScheduleRecord)
	}

	canonical := schedule.Canonicalize(records)

	dataset := export.Dataset{
		Headers: []string{"학생", "요일", "시작", "종료", "구분", "내용"},
		Rows:    make([][]string, 0, len(canonical)),
	}
	for _, r := range canonical {
		start, end := r.Start, r.End
		if r.Kind == models.KindAbsent {
			start, end = "", ""
		}
		dataset.Rows = append(dataset.Rows, []string{
			names[r.StudentID],
			r.Day.Korean(),
			start,
			end,
			r.Kind.Korean(),
			r.Description,
		})
	}
	return dataset
}
