package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

type stubSettingsRepo struct {
	latest  *models.Settings
	err     error
	created *models.Settings
}

func (s *stubSettingsRepo) Latest(_ context.Context) (*models.Settings, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.latest, nil
}

func (s *stubSettingsRepo) Create(_ context.Context, settings *models.Settings) error {
	s.created = settings
	return nil
}

func TestSettingsServiceLatestDefaultsWhenEmpty(t *testing.T) {
	svc := NewSettingsService(&stubSettingsRepo{err: sql.ErrNoRows}, nil)

	settings, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, settings.WeekRangeText)
}

func TestSettingsServiceUpdateAppends(t *testing.T) {
	repo := &stubSettingsRepo{}
	svc := NewSettingsService(repo, nil)

	settings, err := svc.Update(context.Background(), models.UpdateSettingsRequest{WeekRangeText: "7/19~7/24"})
	require.NoError(t, err)
	assert.Equal(t, "7/19~7/24", settings.WeekRangeText)
	require.NotNil(t, repo.created)
}

func TestSettingsServiceActiveWeekStartFromLabel(t *testing.T) {
	svc := NewSettingsService(&stubSettingsRepo{latest: &models.Settings{WeekRangeText: "7/19~7/24"}}, nil)
	svc.now = func() time.Time { return time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC) }

	ws, err := svc.ActiveWeekStart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-07-14", ws)
}

func TestSettingsServiceActiveWeekStartFallsBackToToday(t *testing.T) {
	svc := NewSettingsService(&stubSettingsRepo{latest: &models.Settings{WeekRangeText: "다음주 일정"}}, nil)
	svc.now = func() time.Time { return time.Date(2026, time.January, 7, 9, 0, 0, 0, time.UTC) }

	ws, err := svc.ActiveWeekStart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", ws)
}
