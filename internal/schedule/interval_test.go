package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

func block(sh, sm, eh, em string) models.RawBlock {
	return models.RawBlock{StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em}
}

func TestNormalizeMergesTouchingAndOverlapping(t *testing.T) {
	w := DefaultWindow()

	got := Normalize([]models.RawBlock{
		block("08", "00", "09", "30"),
		block("09", "00", "12", "00"),
	}, w)
	require.Len(t, got, 1)
	assert.Equal(t, "08:00", got[0].Start())
	assert.Equal(t, "12:00", got[0].End())

	// Touching intervals merge too.
	got = Normalize([]models.RawBlock{
		block("08", "00", "10", "00"),
		block("10", "00", "11", "00"),
	}, w)
	require.Len(t, got, 1)
	assert.Equal(t, "11:00", got[0].End())
}

func TestNormalizeDropsIncompleteAndInverted(t *testing.T) {
	w := DefaultWindow()

	got := Normalize([]models.RawBlock{
		block("08", "", "09", "00"),
		block("abc", "00", "09", "00"),
		block("12", "00", "10", "00"),
		block("13", "00", "14", "00"),
	}, w)
	require.Len(t, got, 1)
	assert.Equal(t, "13:00", got[0].Start())
}

func TestNormalizeClipsToWindow(t *testing.T) {
	w := DefaultWindow()

	got := Normalize([]models.RawBlock{
		block("06", "00", "09", "00"),
		block("22", "00", "23", "59"),
		block("05", "00", "07", "00"),
	}, w)
	require.Len(t, got, 2)
	assert.Equal(t, "08:00", got[0].Start())
	assert.Equal(t, "09:00", got[0].End())
	assert.Equal(t, "22:00", got[1].Start())
	assert.Equal(t, "23:00", got[1].End())
}

func TestNormalizeIdempotent(t *testing.T) {
	w := DefaultWindow()
	raw := []models.RawBlock{
		block("09", "15", "11", "00"),
		block("08", "00", "09", "30"),
		block("14", "00", "16", "00"),
	}
	once := Normalize(raw, w)

	again := make([]models.RawBlock, 0, len(once))
	for _, iv := range once {
		again = append(again, models.RawBlock{
			StartHour:   iv.Start()[:2],
			StartMinute: iv.Start()[3:],
			EndHour:     iv.End()[:2],
			EndMinute:   iv.End()[3:],
		})
	}
	assert.Equal(t, once, Normalize(again, w))
}

func TestNormalizeEmptyInput(t *testing.T) {
	assert.Empty(t, Normalize(nil, DefaultWindow()))
	assert.Empty(t, Normalize([]models.RawBlock{{}}, DefaultWindow()))
}

func TestParseClock(t *testing.T) {
	m, ok := ParseClock("08:30")
	require.True(t, ok)
	assert.Equal(t, 510, m)

	_, ok = ParseClock("25:00")
	assert.False(t, ok)
	_, ok = ParseClock("0830")
	assert.False(t, ok)
	_, ok = ParseClock("08:61")
	assert.False(t, ok)

	assert.Equal(t, "08:05", FormatMinutes(485))
}
