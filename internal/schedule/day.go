package schedule

import (
	"fmt"
	"strings"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

// Defect kinds reported by the day validator.
const (
	DefectIncompleteBlock = "incomplete_block"
	DefectOutOfRange      = "out_of_range"
	DefectEmptyDay        = "empty_day"
	DefectUnlabeledGap    = "unlabeled_gap"
)

// Defect describes one validation failure, with enough context for the
// student to locate the offending input.
type Defect struct {
	Day     models.DayOfWeek `json:"day"`
	Kind    string           `json:"kind"`
	Message string           `json:"message"`
}

// DaySchedule is the canonical validated form of one day. When Absent is
// true, Busy and Gaps are void.
type DaySchedule struct {
	Day    models.DayOfWeek `json:"day"`
	Absent bool             `json:"absent"`
	Busy   []Interval       `json:"busy"`
	Gaps   []Gap            `json:"gaps"`
}

// BuildDay validates a single day's input and produces its canonical
// schedule. Checks run in order and the first failing category
// short-circuits the rest of the day: an absent day passes immediately;
// then field completeness, then range checks, then the requirement that at
// least one busy interval survives normalization, then gap labeling.
func BuildDay(in models.DayInput, w Window) (DaySchedule, []Defect) {
	if in.Absent {
		return DaySchedule{Day: in.Day, Absent: true}, nil
	}

	var defects []Defect
	for i, b := range in.Blocks {
		if b.Empty() {
			continue
		}
		if _, ok := parseField(b.StartHour); !ok {
			defects = append(defects, incompleteDefect(in.Day, i))
			continue
		}
		if _, ok := parseField(b.StartMinute); !ok {
			defects = append(defects, incompleteDefect(in.Day, i))
			continue
		}
		if _, ok := parseField(b.EndHour); !ok {
			defects = append(defects, incompleteDefect(in.Day, i))
			continue
		}
		if _, ok := parseField(b.EndMinute); !ok {
			defects = append(defects, incompleteDefect(in.Day, i))
		}
	}
	if len(defects) > 0 {
		return DaySchedule{}, defects
	}

	for i, b := range in.Blocks {
		if b.Empty() {
			continue
		}
		sh, _ := parseField(b.StartHour)
		sm, _ := parseField(b.StartMinute)
		eh, _ := parseField(b.EndHour)
		em, _ := parseField(b.EndMinute)
		if sh < w.StartHour() || sh > w.EndHour() || eh < w.StartHour() || eh > w.EndHour() {
			defects = append(defects, Defect{
				Day:     in.Day,
				Kind:    DefectOutOfRange,
				Message: fmt.Sprintf("block %d: hours must be between %02d and %02d", i+1, w.StartHour(), w.EndHour()),
			})
			continue
		}
		if sm < 0 || sm > 59 || em < 0 || em > 59 {
			defects = append(defects, Defect{
				Day:     in.Day,
				Kind:    DefectOutOfRange,
				Message: fmt.Sprintf("block %d: minutes must be between 00 and 59", i+1),
			})
			continue
		}
		if sh*60+sm >= eh*60+em {
			defects = append(defects, Defect{
				Day:     in.Day,
				Kind:    DefectOutOfRange,
				Message: fmt.Sprintf("block %d: start must be before end", i+1),
			})
		}
	}
	if len(defects) > 0 {
		return DaySchedule{}, defects
	}

	busy := Normalize(in.Blocks, w)
	if len(busy) == 0 {
		return DaySchedule{}, []Defect{{
			Day:     in.Day,
			Kind:    DefectEmptyDay,
			Message: "day has no valid schedule; mark absent or enter a block",
		}}
	}

	gaps := CarryLabels(Gaps(busy, w), in.GapLabels)
	for _, g := range gaps {
		if strings.TrimSpace(g.Label) == "" {
			defects = append(defects, Defect{
				Day:     in.Day,
				Kind:    DefectUnlabeledGap,
				Message: fmt.Sprintf("label required for %s~%s", g.Start(), g.End()),
			})
		}
	}
	if len(defects) > 0 {
		return DaySchedule{}, defects
	}

	return DaySchedule{Day: in.Day, Busy: busy, Gaps: gaps}, nil
}

// BuildWeek validates all seven days and aggregates every defect so the
// caller can present a single report. The returned schedules are valid only
// when the defect list is empty.
func BuildWeek(days []models.DayInput, w Window) ([]DaySchedule, []Defect) {
	schedules := make([]DaySchedule, 0, len(days))
	var defects []Defect
	for _, in := range days {
		ds, dayDefects := BuildDay(in, w)
		defects = append(defects, dayDefects...)
		schedules = append(schedules, ds)
	}
	if len(defects) > 0 {
		return nil, defects
	}
	return schedules, nil
}

// Records flattens validated day schedules into persistable rows for one
// student and week. Busy intervals become center records, labeled gaps
// become external records, and an absent day contributes one sentinel row
// with the legacy placeholder times.
func Records(studentID, weekStart string, days []DaySchedule) []models.ScheduleRecord {
	var out []models.ScheduleRecord
	for _, ds := range days {
		if ds.Absent {
			out = append(out, models.ScheduleRecord{
				StudentID: studentID,
				WeekStart: weekStart,
				Day:       ds.Day,
				Start:     models.AbsentSentinelTime,
				End:       models.AbsentSentinelTime,
				Kind:      models.KindAbsent,
			})
			continue
		}
		for _, iv := range ds.Busy {
			out = append(out, models.ScheduleRecord{
				StudentID: studentID,
				WeekStart: weekStart,
				Day:       ds.Day,
				Start:     iv.Start(),
				End:       iv.End(),
				Kind:      models.KindCenter,
			})
		}
		for _, g := range ds.Gaps {
			out = append(out, models.ScheduleRecord{
				StudentID:   studentID,
				WeekStart:   weekStart,
				Day:         ds.Day,
				Start:       g.Start(),
				End:         g.End(),
				Kind:        models.KindExternal,
				Description: g.Label,
			})
		}
	}
	return out
}

func incompleteDefect(day models.DayOfWeek, ordinal int) Defect {
	return Defect{
		Day:     day,
		Kind:    DefectIncompleteBlock,
		Message: fmt.Sprintf("block %d: all four time fields are required", ordinal+1),
	}
}
