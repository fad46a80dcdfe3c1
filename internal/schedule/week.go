package schedule

import (
	"regexp"
	"strconv"
	"time"
)

const ymdLayout = "2006-01-02"

// WeekStartOf returns the Monday of the week containing t, with the time of
// day zeroed. Idempotent; Sunday maps back six days.
func WeekStartOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// PreviousWeekStart returns the Monday one week before the given week start.
func PreviousWeekStart(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, -7)
}

var rangeLabelRe = regexp.MustCompile(`(\d{1,2})\s*/\s*(\d{1,2})`)

// ParseWeekRangeLabel extracts the first M/D pair from a free-text range
// label such as "7/19~7/24" and snaps it to that week's Monday in the
// current year. Returns false on malformed input so the caller can fall
// back to today's week; it never panics.
func ParseWeekRangeLabel(text string, now time.Time) (time.Time, bool) {
	m := rangeLabelRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
	if int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return WeekStartOf(d), true
}

// FormatYMD renders a date as YYYY-MM-DD, the week-start wire format.
func FormatYMD(t time.Time) string {
	return t.Format(ymdLayout)
}

// ParseYMD parses a YYYY-MM-DD string.
func ParseYMD(s string) (time.Time, bool) {
	t, err := time.Parse(ymdLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
