package schedule

import (
	"strings"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

// Gap is a free interval between busy time, requiring an activity label
// before the day can be saved.
type Gap struct {
	Interval
	Label string `json:"label"`
}

// Gaps computes the complement of the busy intervals within the window.
// The input must already be normalized; busy and gaps together tile the
// window exactly.
func Gaps(busy []Interval, w Window) []Gap {
	gaps := make([]Gap, 0, len(busy)+1)
	cursor := w.StartMinute
	for _, iv := range busy {
		if iv.StartMinute > cursor {
			gaps = append(gaps, Gap{Interval: Interval{StartMinute: cursor, EndMinute: iv.StartMinute}})
		}
		if iv.EndMinute > cursor {
			cursor = iv.EndMinute
		}
	}
	if cursor < w.EndMinute {
		gaps = append(gaps, Gap{Interval: Interval{StartMinute: cursor, EndMinute: w.EndMinute}})
	}
	return gaps
}

// CarryLabels applies previously entered labels onto freshly computed gaps,
// matching positionally by (start, end). A gap whose bounds changed loses
// its label.
func CarryLabels(gaps []Gap, prior []models.GapLabel) []Gap {
	if len(prior) == 0 {
		return gaps
	}
	byKey := make(map[string]string, len(prior))
	for _, p := range prior {
		byKey[p.Start+"-"+p.End] = p.Label
	}
	for i := range gaps {
		if label, ok := byKey[gaps[i].Start()+"-"+gaps[i].End()]; ok {
			gaps[i].Label = strings.TrimSpace(label)
		}
	}
	return gaps
}
