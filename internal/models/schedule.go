package models

import (
	"strings"
	"time"
)

// DayOfWeek enumerates the seven weekdays in Monday-first order.
type DayOfWeek string

const (
	DayMonday    DayOfWeek = "mon"
	DayTuesday   DayOfWeek = "tue"
	DayWednesday DayOfWeek = "wed"
	DayThursday  DayOfWeek = "thu"
	DayFriday    DayOfWeek = "fri"
	DaySaturday  DayOfWeek = "sat"
	DaySunday    DayOfWeek = "sun"
)

// Days lists all weekdays in canonical order.
var Days = [7]DayOfWeek{
	DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday,
}

var dayAliases = map[string]DayOfWeek{
	"mon": DayMonday, "monday": DayMonday, "월": DayMonday,
	"tue": DayTuesday, "tuesday": DayTuesday, "화": DayTuesday,
	"wed": DayWednesday, "wednesday": DayWednesday, "수": DayWednesday,
	"thu": DayThursday, "thursday": DayThursday, "목": DayThursday,
	"fri": DayFriday, "friday": DayFriday, "금": DayFriday,
	"sat": DaySaturday, "saturday": DaySaturday, "토": DaySaturday,
	"sun": DaySunday, "sunday": DaySunday, "일": DaySunday,
}

var dayKorean = map[DayOfWeek]string{
	DayMonday: "월", DayTuesday: "화", DayWednesday: "수",
	DayThursday: "목", DayFriday: "금", DaySaturday: "토", DaySunday: "일",
}

// NormalizeDay resolves legacy Korean and long-form aliases to the canonical
// value. Returns false when the input names no known weekday.
func NormalizeDay(raw string) (DayOfWeek, bool) {
	d, ok := dayAliases[strings.ToLower(strings.TrimSpace(raw))]
	return d, ok
}

// Index returns the Monday-first position of the day, or -1 if unknown.
func (d DayOfWeek) Index() int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

// Korean returns the single-character Korean label used in exports and SMS.
func (d DayOfWeek) Korean() string {
	return dayKorean[d]
}

// RecordKind classifies a schedule record.
type RecordKind string

const (
	KindCenter   RecordKind = "center"
	KindExternal RecordKind = "external"
	KindAbsent   RecordKind = "absent"
)

var kindAliases = map[string]RecordKind{
	"center": KindCenter, "센터": KindCenter,
	"external": KindExternal, "외부": KindExternal, "원외": KindExternal,
	// Legacy rows label student gap entries as "빈구간"; canonically they are
	// external time.
	"빈구간":    KindExternal,
	"absent": KindAbsent, "미등원": KindAbsent,
}

var kindKorean = map[RecordKind]string{
	KindCenter:   "센터",
	KindExternal: "외부",
	KindAbsent:   "미등원",
}

// NormalizeKind resolves legacy Korean and mixed-case aliases to the
// canonical kind. Returns false for unknown values.
func NormalizeKind(raw string) (RecordKind, bool) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(raw))]
	return k, ok
}

// Korean returns the Korean label used in exports and SMS.
func (k RecordKind) Korean() string {
	return kindKorean[k]
}

// AbsentSentinelTime is the placeholder start and end stored for absent-day
// sentinel rows. Legacy rows use this convention and readers depend on it.
const AbsentSentinelTime = "08:00"

// ScheduleRecord is the atomic persisted unit of a weekly submission.
// Rows are append-per-save: a new save replaces all rows for the same
// (student_id, week_start) with a batch sharing one saved_at.
type ScheduleRecord struct {
	ID          string     `db:"id" json:"id"`
	StudentID   string     `db:"student_id" json:"student_id"`
	WeekStart   string     `db:"week_start" json:"week_start"`
	Day         DayOfWeek  `db:"day" json:"day"`
	Start       string     `db:"start_time" json:"start"`
	End         string     `db:"end_time" json:"end"`
	Kind        RecordKind `db:"kind" json:"kind"`
	Description string     `db:"description" json:"description"`
	SavedAt     *time.Time `db:"saved_at" json:"saved_at,omitempty"`
}

// SaveSummary describes one historical save event for a student.
type SaveSummary struct {
	WeekStart string    `db:"week_start" json:"week_start"`
	SavedAt   time.Time `db:"saved_at" json:"saved_at"`
	Records   int       `db:"records" json:"records"`
}

// WeekScheduleRow is the admin view of a record joined with the student name.
type WeekScheduleRow struct {
	ScheduleRecord
	StudentName string `db:"student_name" json:"student_name"`
}
