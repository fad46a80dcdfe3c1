package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

func TestSettingsRepositoryLatest(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	rows := sqlmock.NewRows([]string{"id", "week_range_text", "center_desc", "center_example", "external_desc", "external_example", "notification_footer", "created_at"}).
		AddRow("st-2", "7/19~7/24", "센터 수업", "예: 09:00~12:00", "외부 일정", "예: 학교", "문의는 센터로", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM settings ORDER BY created_at DESC LIMIT 1")).
		WillReturnRows(rows)

	settings, err := repo.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7/19~7/24", settings.WeekRangeText)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryCreateAppendsRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
		WithArgs(sqlmock.AnyArg(), "1/5~1/10", "", "", "", "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	settings := &models.Settings{WeekRangeText: "1/5~1/10"}
	require.NoError(t, repo.Create(context.Background(), settings))
	assert.NotEmpty(t, settings.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
