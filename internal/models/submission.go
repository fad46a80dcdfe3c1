package models

import "time"

// RawBlock is one user-entered candidate busy interval, still in form-field
// shape. Fields may be empty or non-numeric while the student is typing.
type RawBlock struct {
	StartHour   string `json:"start_hour"`
	StartMinute string `json:"start_minute"`
	EndHour     string `json:"end_hour"`
	EndMinute   string `json:"end_minute"`
}

// Empty reports whether every field of the block is blank.
func (b RawBlock) Empty() bool {
	return b.StartHour == "" && b.StartMinute == "" && b.EndHour == "" && b.EndMinute == ""
}

// GapLabel carries the student's activity description for one free interval,
// keyed positionally by its start and end times.
type GapLabel struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// DayInput is the submission payload for a single day.
type DayInput struct {
	Day       DayOfWeek  `json:"day"`
	Absent    bool       `json:"absent"`
	Blocks    []RawBlock `json:"blocks"`
	GapLabels []GapLabel `json:"gap_labels"`
}

// SaveWeekRequest submits a full week of day inputs for validation and save.
type SaveWeekRequest struct {
	StudentID string     `json:"student_id" validate:"required"`
	WeekStart string     `json:"week_start" validate:"required"`
	Days      []DayInput `json:"days" validate:"required,len=7"`
}

// CopyWeekRequest asks for a prior week's canonical schedule to be replayed
// into a target week.
type CopyWeekRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	TargetWeek string `json:"target_week" validate:"required"`
	SourceWeek string `json:"source_week"`
}

// AdminCopyWeekRequest carries a bulk carry-forward into a target week.
// An empty StudentIDs means every enrolled student.
type AdminCopyWeekRequest struct {
	TargetWeek string   `json:"target_week" validate:"required"`
	SourceWeek string   `json:"source_week"`
	StudentIDs []string `json:"student_ids"`
}

// SendSummaryRequest asks for a student's weekly summary to be texted to
// their parent. An empty WeekStart means the latest saved week.
type SendSummaryRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	WeekStart string `json:"week_start"`
}

// Draft is an unvalidated autosave of the submission form, kept in Redis
// until the student saves for real or the TTL expires.
type Draft struct {
	StudentID string     `json:"student_id"`
	WeekStart string     `json:"week_start"`
	Days      []DayInput `json:"days"`
	UpdatedAt time.Time  `json:"updated_at"`
}
