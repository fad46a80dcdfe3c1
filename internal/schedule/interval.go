package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

// Interval is a half-open busy time range in minutes since midnight.
type Interval struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// Start returns the interval start formatted as HH:MM.
func (iv Interval) Start() string { return FormatMinutes(iv.StartMinute) }

// End returns the interval end formatted as HH:MM.
func (iv Interval) End() string { return FormatMinutes(iv.EndMinute) }

// FormatMinutes renders minutes since midnight as HH:MM.
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseClock parses an HH:MM string into minutes since midnight.
func ParseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// parseField accepts any integer; sign and range are judged by the
// validator so the user sees a range message rather than a missing-field one.
func parseField(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseBlock converts a raw form block into an interval. Returns false when
// any field is missing or non-numeric, or when the range is inverted.
func parseBlock(b models.RawBlock) (Interval, bool) {
	sh, ok1 := parseField(b.StartHour)
	sm, ok2 := parseField(b.StartMinute)
	eh, ok3 := parseField(b.EndHour)
	em, ok4 := parseField(b.EndMinute)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Interval{}, false
	}
	if sh < 0 || sm < 0 || eh < 0 || em < 0 {
		return Interval{}, false
	}
	iv := Interval{StartMinute: sh*60 + sm, EndMinute: eh*60 + em}
	if iv.StartMinute >= iv.EndMinute {
		return Interval{}, false
	}
	return iv, true
}

// Normalize merges raw blocks for a single day into a minimal sorted set of
// non-overlapping busy intervals clipped to the window. Incomplete or
// inverted blocks are dropped silently; the validator surfaces them
// separately so partial typing never breaks live recomputation. Idempotent.
func Normalize(blocks []models.RawBlock, w Window) []Interval {
	parsed := make([]Interval, 0, len(blocks))
	for _, b := range blocks {
		iv, ok := parseBlock(b)
		if !ok {
			continue
		}
		if iv.StartMinute < w.StartMinute {
			iv.StartMinute = w.StartMinute
		}
		if iv.EndMinute > w.EndMinute {
			iv.EndMinute = w.EndMinute
		}
		if iv.StartMinute >= iv.EndMinute {
			continue
		}
		parsed = append(parsed, iv)
	}

	sort.Slice(parsed, func(i, j int) bool {
		if parsed[i].StartMinute != parsed[j].StartMinute {
			return parsed[i].StartMinute < parsed[j].StartMinute
		}
		return parsed[i].EndMinute < parsed[j].EndMinute
	})

	merged := make([]Interval, 0, len(parsed))
	for _, iv := range parsed {
		if n := len(merged); n > 0 && merged[n-1].EndMinute >= iv.StartMinute {
			if iv.EndMinute > merged[n-1].EndMinute {
				merged[n-1].EndMinute = iv.EndMinute
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
