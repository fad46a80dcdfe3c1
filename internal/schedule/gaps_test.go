package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

func TestGapsComplementBusyIntervals(t *testing.T) {
	w := DefaultWindow()
	busy := []Interval{
		{StartMinute: 9 * 60, EndMinute: 12 * 60},
		{StartMinute: 14 * 60, EndMinute: 16 * 60},
	}

	gaps := Gaps(busy, w)
	require.Len(t, gaps, 3)
	assert.Equal(t, "08:00", gaps[0].Start())
	assert.Equal(t, "09:00", gaps[0].End())
	assert.Equal(t, "12:00", gaps[1].Start())
	assert.Equal(t, "14:00", gaps[1].End())
	assert.Equal(t, "16:00", gaps[2].Start())
	assert.Equal(t, "23:00", gaps[2].End())
}

func TestGapsTileWindowExactly(t *testing.T) {
	w := DefaultWindow()
	cases := [][]Interval{
		nil,
		{{StartMinute: w.StartMinute, EndMinute: w.EndMinute}},
		{{StartMinute: 8 * 60, EndMinute: 12 * 60}},
		{{StartMinute: 10 * 60, EndMinute: 11 * 60}, {StartMinute: 20 * 60, EndMinute: 23 * 60}},
	}
	for _, busy := range cases {
		gaps := Gaps(busy, w)

		covered := 0
		for _, iv := range busy {
			covered += iv.EndMinute - iv.StartMinute
		}
		for _, g := range gaps {
			covered += g.EndMinute - g.StartMinute
		}
		assert.Equal(t, w.EndMinute-w.StartMinute, covered)
	}
}

func TestGapsFullyBusyDayHasNone(t *testing.T) {
	w := DefaultWindow()
	gaps := Gaps([]Interval{{StartMinute: w.StartMinute, EndMinute: w.EndMinute}}, w)
	assert.Empty(t, gaps)
}

func TestCarryLabelsMatchesByBounds(t *testing.T) {
	gaps := []Gap{
		{Interval: Interval{StartMinute: 12 * 60, EndMinute: 14 * 60}},
		{Interval: Interval{StartMinute: 16 * 60, EndMinute: 23 * 60}},
	}
	prior := []models.GapLabel{
		{Start: "12:00", End: "14:00", Label: "학교 수업"},
		{Start: "16:00", End: "22:00", Label: "stale bounds"},
	}

	got := CarryLabels(gaps, prior)
	assert.Equal(t, "학교 수업", got[0].Label)
	assert.Empty(t, got[1].Label)
}
