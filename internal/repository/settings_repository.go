package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

// SettingsRepository provides persistence for admin settings. The table is
// append-only; the newest row is the active configuration.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

const settingsColumns = "id, week_range_text, center_desc, center_example, external_desc, external_example, notification_footer, created_at"

// Latest returns the most recently published settings row.
func (r *SettingsRepository) Latest(ctx context.Context) (*models.Settings, error) {
	const query = `SELECT ` + settingsColumns + ` FROM settings ORDER BY created_at DESC LIMIT 1`
	var settings models.Settings
	if err := r.db.GetContext(ctx, &settings, query); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Create appends a new settings row.
func (r *SettingsRepository) Create(ctx context.Context, settings *models.Settings) error {
	if settings.ID == "" {
		settings.ID = uuid.NewString()
	}
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO settings (id, week_range_text, center_desc, center_example, external_desc, external_example, notification_footer, created_at) VALUES (:id, :week_range_text, :center_desc, :center_example, :external_desc, :external_example, :notification_footer, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("create settings: %w", err)
	}
	return nil
}
