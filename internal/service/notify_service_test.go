package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwonlab/center-schedule-api/internal/models"
	"github.com/hakwonlab/center-schedule-api/internal/schedule"
	"github.com/hakwonlab/center-schedule-api/pkg/jobs"
)

type captureSender struct {
	sent map[string]string
}

func (s *captureSender) Send(_ context.Context, to, body string) error {
	if s.sent == nil {
		s.sent = map[string]string{}
	}
	s.sent[to] = body
	return nil
}

type stubStudentFinder struct {
	student *models.Student
}

func (s *stubStudentFinder) FindByID(_ context.Context, _ string) (*models.Student, error) {
	return s.student, nil
}

func weeklySubmission(t *testing.T) schedule.WeeklySubmission {
	t.Helper()
	saved := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	subs := schedule.Assemble([]models.ScheduleRecord{
		{StudentID: "1", WeekStart: "2026-01-05", Day: models.DayMonday, Start: "08:00", End: "12:00", Kind: models.KindCenter, SavedAt: &saved},
		{StudentID: "1", WeekStart: "2026-01-05", Day: models.DayMonday, Start: "12:00", End: "23:00", Kind: models.KindExternal, Description: "학교", SavedAt: &saved},
		{StudentID: "1", WeekStart: "2026-01-05", Day: models.DayTuesday, Start: "08:00", End: "08:00", Kind: models.KindAbsent, SavedAt: &saved},
	})
	require.Len(t, subs, 1)
	return subs[0]
}

func TestNotifyServiceBuildWeeklySummary(t *testing.T) {
	svc := NewNotifyService(&captureSender{}, nil, nil, nil, nil, NotifyConfig{})

	text := svc.BuildWeeklySummary(weeklySubmission(t), "김민준", "문의는 센터로")
	assert.Contains(t, text, "[2026-01-05 주간 일정] 김민준")
	assert.Contains(t, text, "월: 08:00~12:00 센터, 12:00~23:00 학교")
	assert.Contains(t, text, "화: 미등원")
	assert.Contains(t, text, "수: -")
	assert.Contains(t, text, "문의는 센터로")
}

func TestNotifyServiceSendWeeklySummary(t *testing.T) {
	sender := &captureSender{}
	students := &stubStudentFinder{student: &models.Student{ID: "1", Name: "김민준", ParentPhone: "010-1234-5678"}}
	svc := NewNotifyService(sender, students, &stubSettingsRepo{latest: &models.Settings{NotificationFooter: "문의는 센터로"}}, nil, nil, NotifyConfig{})

	body, err := svc.SendWeeklySummary(context.Background(), weeklySubmission(t))
	require.NoError(t, err)
	assert.Equal(t, body, sender.sent["010-1234-5678"])
}

func TestNotifyServiceSendWeeklySummaryNoParentPhone(t *testing.T) {
	students := &stubStudentFinder{student: &models.Student{ID: "1", Name: "김민준"}}
	svc := NewNotifyService(&captureSender{}, students, nil, nil, nil, NotifyConfig{})

	body, err := svc.SendWeeklySummary(context.Background(), weeklySubmission(t))
	require.Error(t, err)
	assert.NotEmpty(t, body)
}

func TestNotifyServiceSaveNoticeReachesAdmins(t *testing.T) {
	sender := &captureSender{}
	students := &stubStudentFinder{student: &models.Student{ID: "1", Name: "김민준"}}
	svc := NewNotifyService(sender, students, nil, nil, nil, NotifyConfig{
		AdminNumbers: []string{"010-9999-0000", "010-8888-0000"},
	})

	err := svc.handleJob(context.Background(), jobs.Job{
		Type:    "schedule_saved",
		Payload: saveNotice{StudentID: "1", WeekStart: "2026-01-05"},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent["010-9999-0000"], "김민준")
	assert.Contains(t, sender.sent["010-9999-0000"], "2026-01-05")
}
