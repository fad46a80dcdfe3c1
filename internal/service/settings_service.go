package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/hakwonlab/center-schedule-api/internal/models"
	"github.com/hakwonlab/center-schedule-api/internal/schedule"
	appErrors "github.com/hakwonlab/center-schedule-api/pkg/errors"
)

type settingsRepository interface {
	Latest(ctx context.Context) (*models.Settings, error)
	Create(ctx context.Context, settings *models.Settings) error
}

// SettingsService exposes the admin-published configuration and resolves
// the active submission week from its free-text range label.
type SettingsService struct {
	repo   settingsRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewSettingsService constructs a SettingsService instance.
func NewSettingsService(repo settingsRepository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, logger: logger, now: time.Now}
}

// Latest returns the current settings. A center that has never published
// settings gets an empty row rather than an error.
func (s *SettingsService) Latest(ctx context.Context) (*models.Settings, error) {
	settings, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.Settings{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	return settings, nil
}

// Update publishes a new settings row. History is kept; reads always see
// the newest row.
func (s *SettingsService) Update(ctx context.Context, req models.UpdateSettingsRequest) (*models.Settings, error) {
	settings := &models.Settings{
		WeekRangeText:      req.WeekRangeText,
		CenterDesc:         req.CenterDesc,
		CenterExample:      req.CenterExample,
		ExternalDesc:       req.ExternalDesc,
		ExternalExample:    req.ExternalExample,
		NotificationFooter: req.NotificationFooter,
	}
	if err := s.repo.Create(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}
	s.logger.Info("settings_updated", zap.String("week_range", req.WeekRangeText))
	return settings, nil
}

// ActiveWeekStart resolves the submission week from the admin's range label.
// A missing or malformed label falls back to the current week.
func (s *SettingsService) ActiveWeekStart(ctx context.Context) (string, error) {
	now := s.now()
	settings, err := s.Latest(ctx)
	if err != nil {
		return "", err
	}
	if ws, ok := schedule.ParseWeekRangeLabel(settings.WeekRangeText, now); ok {
		return schedule.FormatYMD(ws), nil
	}
	return schedule.FormatYMD(schedule.WeekStartOf(now)), nil
}
