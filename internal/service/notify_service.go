package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hakwonlab/center-schedule-api/internal/models"
	"github.com/hakwonlab/center-schedule-api/internal/schedule"
	appErrors "github.com/hakwonlab/center-schedule-api/pkg/errors"
	"github.com/hakwonlab/center-schedule-api/pkg/jobs"
)

// Sender delivers one SMS message.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// ConsoleSender logs messages instead of delivering them. Used in
// development and when SMS is disabled.
type ConsoleSender struct {
	Logger *zap.Logger
}

// Send implements Sender by logging the message.
func (s *ConsoleSender) Send(_ context.Context, to, body string) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("sms_console", zap.String("to", to), zap.String("body", body))
	return nil
}

type notifyStudentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type notifySettingsSource interface {
	Latest(ctx context.Context) (*models.Settings, error)
}

// NotifyConfig configures SMS dispatch.
type NotifyConfig struct {
	SenderNumber string
	AdminNumbers []string
	Workers      int
	Retries      int
}

type saveNotice struct {
	StudentID string
	WeekStart string
}

// NotifyService builds weekly-summary texts and dispatches SMS messages.
// Save notifications go through a background queue so a slow SMS gateway
// never delays the save response.
type NotifyService struct {
	sender   Sender
	students notifyStudentFinder
	settings notifySettingsSource
	metrics  *MetricsService
	logger   *zap.Logger
	config   NotifyConfig
	queue    *jobs.Queue
}

// NewNotifyService constructs a NotifyService instance.
func NewNotifyService(sender Sender, students notifyStudentFinder, settings notifySettingsSource, metrics *MetricsService, logger *zap.Logger, config NotifyConfig) *NotifyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = &ConsoleSender{Logger: logger}
	}
	s := &NotifyService{
		sender:   sender,
		students: students,
		settings: settings,
		metrics:  metrics,
		logger:   logger,
		config:   config,
	}
	s.queue = jobs.NewQueue("sms", s.handleJob, jobs.QueueConfig{
		Workers:    config.Workers,
		MaxRetries: config.Retries,
		Logger:     logger,
	})
	return s
}

// Start launches the dispatch workers.
func (s *NotifyService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop drains the dispatch workers.
func (s *NotifyService) Stop() { s.queue.Stop() }

// ScheduleSaved notifies administrators that a student saved a week.
// Best-effort: enqueue failures are logged, never surfaced to the save path.
func (s *NotifyService) ScheduleSaved(studentID, weekStart string) {
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    "schedule_saved",
		Payload: saveNotice{StudentID: studentID, WeekStart: weekStart},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue save notice", zap.Error(err))
	}
}

func (s *NotifyService) handleJob(ctx context.Context, job jobs.Job) error {
	notice, ok := job.Payload.(saveNotice)
	if !ok {
		s.logger.Error("unexpected sms job payload", zap.String("type", job.Type))
		return nil
	}

	name := notice.StudentID
	if s.students != nil {
		if student, err := s.students.FindByID(ctx, notice.StudentID); err == nil {
			name = student.Name
		}
	}

	body := fmt.Sprintf("[일정 저장] %s 학생이 %s 주간 일정을 저장했습니다.", name, notice.WeekStart)
	var failed bool
	for _, to := range s.config.AdminNumbers {
		if err := s.sender.Send(ctx, to, body); err != nil {
			failed = true
			s.logger.Warn("sms send failed", zap.String("to", to), zap.Error(err))
		}
	}
	if failed {
		s.metrics.RecordSMSJob("failed")
		return fmt.Errorf("one or more admin sends failed")
	}
	s.metrics.RecordSMSJob("sent")
	return nil
}

// BuildWeeklySummary renders the parent-facing weekly summary text for a
// canonical submission.
func (s *NotifyService) BuildWeeklySummary(sub schedule.WeeklySubmission, studentName, footer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s 주간 일정] %s\n", sub.WeekStart, studentName)
	for _, day := range sub.Days {
		fmt.Fprintf(&b, "%s: ", day.Day.Korean())
		if day.Absent {
			b.WriteString("미등원\n")
			continue
		}
		if len(day.Busy) == 0 && len(day.Gaps) == 0 {
			b.WriteString("-\n")
			continue
		}
		parts := make([]string, 0, len(day.Busy)+len(day.Gaps))
		for _, iv := range day.Busy {
			parts = append(parts, fmt.Sprintf("%s~%s 센터", iv.Start(), iv.End()))
		}
		for _, g := range day.Gaps {
			parts = append(parts, fmt.Sprintf("%s~%s %s", g.Start(), g.End(), g.Label))
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\n")
	}
	if footer != "" {
		b.WriteString(footer)
		b.WriteString("\n")
	}
	return b.String()
}

// SendWeeklySummary delivers a student's weekly summary to the parent phone
// and returns the rendered text.
func (s *NotifyService) SendWeeklySummary(ctx context.Context, sub schedule.WeeklySubmission) (string, error) {
	student, err := s.students.FindByID(ctx, sub.StudentID)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrStudentNotFound, "")
	}

	var footer string
	if s.settings != nil {
		if settings, err := s.settings.Latest(ctx); err == nil {
			footer = settings.NotificationFooter
		}
	}

	body := s.BuildWeeklySummary(sub, student.Name, footer)
	if student.ParentPhone == "" {
		return body, appErrors.Clone(appErrors.ErrValidation, "student has no parent phone number")
	}
	if err := s.sender.Send(ctx, student.ParentPhone, body); err != nil {
		s.metrics.RecordSMSJob("failed")
		return body, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send sms")
	}
	s.metrics.RecordSMSJob("sent")
	return body, nil
}
