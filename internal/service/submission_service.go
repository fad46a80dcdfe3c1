package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hakwonlab/center-schedule-api/internal/models"
	"github.com/hakwonlab/center-schedule-api/internal/schedule"
	appErrors "github.com/hakwonlab/center-schedule-api/pkg/errors"
)

type scheduleRepository interface {
	ReplaceWeek(ctx context.Context, studentID, weekStart string, records []models.ScheduleRecord, savedAt time.Time) error
	ListByStudentWeek(ctx context.Context, studentID, weekStart string) ([]models.ScheduleRecord, error)
	LatestWeekStart(ctx context.Context, studentID string) (string, error)
	ListRecentSaves(ctx context.Context, studentID string, limit int) ([]models.SaveSummary, error)
	ListByWeek(ctx context.Context, weekStart string) ([]models.WeekScheduleRow, error)
}

// StudentWeek pairs a canonical submission with the student's name for the
// admin overview.
type StudentWeek struct {
	StudentID   string                    `json:"student_id"`
	StudentName string                    `json:"student_name"`
	Submission  schedule.WeeklySubmission `json:"submission"`
}

type draftRepository interface {
	Save(ctx context.Context, draft *models.Draft) error
	Get(ctx context.Context, studentID, weekStart string) (*models.Draft, error)
	Delete(ctx context.Context, studentID, weekStart string) error
}

type saveNotifier interface {
	ScheduleSaved(studentID, weekStart string)
}

// SubmissionService drives the submission path: validating a week of raw
// day inputs through the engine, persisting the canonical records, and
// reading back canonical weekly views.
type SubmissionService struct {
	records   scheduleRepository
	drafts    draftRepository
	notifier  saveNotifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	window    schedule.Window
	now       func() time.Time
}

// NewSubmissionService constructs a SubmissionService. Drafts and notifier
// are optional.
func NewSubmissionService(records scheduleRepository, drafts draftRepository, notifier saveNotifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, window schedule.Window) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubmissionService{
		records:   records,
		drafts:    drafts,
		notifier:  notifier,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		window:    window,
		now:       time.Now,
	}
}

// SaveWeek validates all seven days and replaces the week's stored rows
// with the canonical batch. Validation defects for every day are returned
// together so the student fixes them in one pass.
func (s *SubmissionService) SaveWeek(ctx context.Context, req models.SaveWeekRequest) (*schedule.WeeklySubmission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save payload")
	}
	if !isMonday(req.WeekStart) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "week_start must be a YYYY-MM-DD Monday")
	}

	days, defects := schedule.BuildWeek(req.Days, s.window)
	if len(defects) > 0 {
		s.metrics.RecordSave("rejected")
		return nil, appErrors.WithDetails(appErrors.ErrIncompleteWeek, defects)
	}

	records := schedule.Records(req.StudentID, req.WeekStart, days)
	savedAt := s.now().UTC()
	if err := s.records.ReplaceWeek(ctx, req.StudentID, req.WeekStart, records, savedAt); err != nil {
		s.metrics.RecordSave("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save week")
	}
	s.metrics.RecordSave("saved")
	s.logger.Info("week_saved",
		zap.String("student_id", req.StudentID),
		zap.String("week_start", req.WeekStart),
		zap.Int("records", len(records)),
	)

	// The draft served its purpose; losing it is harmless.
	if s.drafts != nil {
		if err := s.drafts.Delete(ctx, req.StudentID, req.WeekStart); err != nil {
			s.logger.Warn("failed to clear draft", zap.Error(err))
		}
	}
	if s.notifier != nil {
		s.notifier.ScheduleSaved(req.StudentID, req.WeekStart)
	}

	return s.assembleOne(req.StudentID, req.WeekStart, records), nil
}

// GetWeek returns the canonical submission for a week. An empty weekStart
// resolves to the student's most recently saved week; a student with no
// saves gets an empty submission for the requested week.
func (s *SubmissionService) GetWeek(ctx context.Context, studentID, weekStart string) (*schedule.WeeklySubmission, error) {
	if weekStart == "" {
		latest, err := s.records.LatestWeekStart(ctx, studentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve latest week")
		}
		if latest == "" {
			return emptySubmission(studentID, schedule.FormatYMD(schedule.WeekStartOf(s.now()))), nil
		}
		weekStart = latest
	}

	rows, err := s.records.ListByStudentWeek(ctx, studentID, weekStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load week")
	}
	return s.assembleOne(studentID, weekStart, rows), nil
}

// RecentSaves lists the student's save history. The limit is clamped to
// 1..10 and defaults to 3.
func (s *SubmissionService) RecentSaves(ctx context.Context, studentID string, limit int) ([]models.SaveSummary, error) {
	if limit <= 0 {
		limit = 3
	}
	if limit > 10 {
		limit = 10
	}
	saves, err := s.records.ListRecentSaves(ctx, studentID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list saves")
	}
	return saves, nil
}

// CopyFromPrevious replays a prior week's canonical schedule into the
// target week. The source defaults to the week directly before the target;
// the source week itself is never modified.
func (s *SubmissionService) CopyFromPrevious(ctx context.Context, req models.CopyWeekRequest) (*schedule.WeeklySubmission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid copy payload")
	}
	if !isMonday(req.TargetWeek) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "target_week must be a YYYY-MM-DD Monday")
	}
	target, _ := schedule.ParseYMD(req.TargetWeek)

	sourceWeek := req.SourceWeek
	if sourceWeek == "" {
		sourceWeek = schedule.FormatYMD(schedule.PreviousWeekStart(target))
	}

	rows, err := s.records.ListByStudentWeek(ctx, req.StudentID, sourceWeek)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source week")
	}
	subs := schedule.Assemble(rows)
	if len(subs) == 0 || len(subs[0].Records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no schedule to copy for "+sourceWeek)
	}

	payload := schedule.CarryForward(subs[0], req.TargetWeek)
	savedAt := s.now().UTC()
	if err := s.records.ReplaceWeek(ctx, req.StudentID, req.TargetWeek, payload, savedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy week")
	}
	s.logger.Info("week_copied",
		zap.String("student_id", req.StudentID),
		zap.String("source_week", sourceWeek),
		zap.String("target_week", req.TargetWeek),
	)

	return s.assembleOne(req.StudentID, req.TargetWeek, payload), nil
}

// WeekOverview returns every student's canonical submission for one week.
func (s *SubmissionService) WeekOverview(ctx context.Context, weekStart string) ([]StudentWeek, error) {
	rows, err := s.records.ListByWeek(ctx, weekStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load week")
	}

	names := make(map[string]string, len(rows))
	records := make([]models.ScheduleRecord, 0, len(rows))
	for _, row := range rows {
		names[row.StudentID] = row.StudentName
		records = append(records, row.ScheduleRecord)
	}

	subs := schedule.Assemble(records)
	out := make([]StudentWeek, 0, len(subs))
	for _, sub := range subs {
		out = append(out, StudentWeek{
			StudentID:   sub.StudentID,
			StudentName: names[sub.StudentID],
			Submission:  sub,
		})
	}
	return out, nil
}

// SaveDraft stores the raw form state without validation.
func (s *SubmissionService) SaveDraft(ctx context.Context, draft models.Draft) error {
	if s.drafts == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "drafts are disabled")
	}
	if draft.StudentID == "" || draft.WeekStart == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student_id and week_start are required")
	}
	if err := s.drafts.Save(ctx, &draft); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save draft")
	}
	return nil
}

// GetDraft loads a stored draft; nil when none exists.
func (s *SubmissionService) GetDraft(ctx context.Context, studentID, weekStart string) (*models.Draft, error) {
	if s.drafts == nil {
		return nil, nil
	}
	draft, err := s.drafts.Get(ctx, studentID, weekStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}
	return draft, nil
}

func (s *SubmissionService) assembleOne(studentID, weekStart string, rows []models.ScheduleRecord) *schedule.WeeklySubmission {
	subs := schedule.Assemble(rows)
	if len(subs) == 0 {
		return emptySubmission(studentID, weekStart)
	}
	return &subs[0]
}

// isMonday reports whether s is a parseable date that starts its week.
// Mid-week keys would fragment a student's saves across divergent rows.
func isMonday(s string) bool {
	t, ok := schedule.ParseYMD(s)
	return ok && schedule.WeekStartOf(t).Equal(t)
}

func emptySubmission(studentID, weekStart string) *schedule.WeeklySubmission {
	sub := schedule.WeeklySubmission{StudentID: studentID, WeekStart: weekStart}
	for i, d := range models.Days {
		sub.Days[i].Day = d
	}
	return &sub
}
