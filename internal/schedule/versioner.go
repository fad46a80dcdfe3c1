package schedule

import (
	"sort"
	"strings"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

// WeeklySubmission is the canonical view of one student's one week,
// reconstructed from stored rows. Records holds the canonical rows backing
// Days.
type WeeklySubmission struct {
	StudentID string                  `json:"student_id"`
	WeekStart string                  `json:"week_start"`
	Days      [7]DaySchedule          `json:"days"`
	Records   []models.ScheduleRecord `json:"records"`
}

type groupKey struct {
	student string
	week    string
}

// Canonicalize resolves an unordered bag of stored rows into the canonical
// record set per (student, week). Aliases are normalized first; within each
// group only rows sharing the most recent saved_at survive (rows without a
// timestamp are treated as already canonical when no row in the group has
// one); exact structural duplicates collapse first-occurrence-wins; an
// absent row occludes every other row for that student and day. The result
// is deterministically ordered and the operation is idempotent.
func Canonicalize(records []models.ScheduleRecord) []models.ScheduleRecord {
	norm := make([]models.ScheduleRecord, 0, len(records))
	for _, r := range records {
		day, ok := models.NormalizeDay(string(r.Day))
		if !ok {
			continue
		}
		kind, ok := models.NormalizeKind(string(r.Kind))
		if !ok {
			continue
		}
		r.Day = day
		r.Kind = kind
		r.Start = normalizeClock(r.Start)
		r.End = normalizeClock(r.End)
		r.WeekStart = strings.TrimSpace(r.WeekStart)
		norm = append(norm, r)
	}

	// Latest saved_at per group. Groups where no row carries a timestamp
	// skip recency filtering entirely (degraded mode: storage pre-filtered).
	latest := make(map[groupKey]int64, 4)
	for _, r := range norm {
		if r.SavedAt == nil {
			continue
		}
		k := groupKey{r.StudentID, r.WeekStart}
		if ts := r.SavedAt.UnixNano(); ts > latest[k] {
			latest[k] = ts
		}
	}

	type dedupKey struct {
		student, week, start, end string
		day                       models.DayOfWeek
		kind                      models.RecordKind
	}
	seen := make(map[dedupKey]struct{}, len(norm))
	absentDays := make(map[groupKey]map[models.DayOfWeek]bool, 4)

	kept := make([]models.ScheduleRecord, 0, len(norm))
	for _, r := range norm {
		k := groupKey{r.StudentID, r.WeekStart}
		if max, ok := latest[k]; ok {
			if r.SavedAt == nil || r.SavedAt.UnixNano() != max {
				continue
			}
		}
		dk := dedupKey{r.StudentID, r.WeekStart, r.Start, r.End, r.Day, r.Kind}
		if _, dup := seen[dk]; dup {
			continue
		}
		seen[dk] = struct{}{}
		if r.Kind == models.KindAbsent {
			if absentDays[k] == nil {
				absentDays[k] = make(map[models.DayOfWeek]bool, 7)
			}
			absentDays[k][r.Day] = true
		}
		kept = append(kept, r)
	}

	// Absent sentinel occludes any stray same-day rows left by data races.
	out := kept[:0]
	for _, r := range kept {
		k := groupKey{r.StudentID, r.WeekStart}
		if r.Kind != models.KindAbsent && absentDays[k][r.Day] {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.StudentID != b.StudentID {
			return a.StudentID < b.StudentID
		}
		if a.WeekStart != b.WeekStart {
			return a.WeekStart < b.WeekStart
		}
		if a.Day.Index() != b.Day.Index() {
			return a.Day.Index() < b.Day.Index()
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Kind < b.Kind
	})
	return out
}

// Assemble canonicalizes the rows and regroups them into weekly submissions,
// one per (student, week), ordered by student then week.
func Assemble(records []models.ScheduleRecord) []WeeklySubmission {
	canonical := Canonicalize(records)

	order := make([]groupKey, 0, 4)
	byGroup := make(map[groupKey][]models.ScheduleRecord, 4)
	for _, r := range canonical {
		k := groupKey{r.StudentID, r.WeekStart}
		if _, ok := byGroup[k]; !ok {
			order = append(order, k)
		}
		byGroup[k] = append(byGroup[k], r)
	}

	subs := make([]WeeklySubmission, 0, len(order))
	for _, k := range order {
		sub := WeeklySubmission{StudentID: k.student, WeekStart: k.week, Records: byGroup[k]}
		for i, d := range models.Days {
			sub.Days[i].Day = d
		}
		for _, r := range byGroup[k] {
			idx := r.Day.Index()
			switch r.Kind {
			case models.KindAbsent:
				sub.Days[idx].Absent = true
			case models.KindCenter:
				if iv, ok := recordInterval(r); ok {
					sub.Days[idx].Busy = append(sub.Days[idx].Busy, iv)
				}
			case models.KindExternal:
				if iv, ok := recordInterval(r); ok {
					sub.Days[idx].Gaps = append(sub.Days[idx].Gaps, Gap{Interval: iv, Label: r.Description})
				}
			}
		}
		subs = append(subs, sub)
	}
	return subs
}

func recordInterval(r models.ScheduleRecord) (Interval, bool) {
	start, ok := ParseClock(r.Start)
	if !ok {
		return Interval{}, false
	}
	end, ok := ParseClock(r.End)
	if !ok || start >= end {
		return Interval{}, false
	}
	return Interval{StartMinute: start, EndMinute: end}, true
}

func normalizeClock(s string) string {
	if m, ok := ParseClock(s); ok {
		return FormatMinutes(m)
	}
	return strings.TrimSpace(s)
}
