package schedule

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwonlab/center-schedule-api/internal/models"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func rec(student, week string, day models.DayOfWeek, start, end string, kind models.RecordKind, savedAt *time.Time) models.ScheduleRecord {
	return models.ScheduleRecord{
		StudentID: student,
		WeekStart: week,
		Day:       day,
		Start:     start,
		End:       end,
		Kind:      kind,
		SavedAt:   savedAt,
	}
}

func TestCanonicalizeKeepsLatestSave(t *testing.T) {
	older := ts("2025-07-10T10:00:00Z")
	newer := ts("2025-07-12T09:00:00Z")

	got := Canonicalize([]models.ScheduleRecord{
		rec("s1", "2025-07-14", models.DayMonday, "08:00", "12:00", models.KindCenter, older),
		rec("s1", "2025-07-14", models.DayMonday, "08:00", "12:00", models.KindCenter, newer),
	})

	require.Len(t, got, 1)
	assert.Equal(t, newer.Unix(), got[0].SavedAt.Unix())
}

func TestCanonicalizeNormalizesAliases(t *testing.T) {
	saved := ts("2025-07-12T09:00:00Z")

	got := Canonicalize([]models.ScheduleRecord{
		rec("s1", "2025-07-14", "월", "8:00", "12:00", "센터", saved),
		rec("s1", "2025-07-14", "화", "13:00", "15:00", "원외", saved),
		rec("s1", "2025-07-14", "수", "09:00", "10:00", "빈구간", saved),
	})

	require.Len(t, got, 3)
	assert.Equal(t, models.DayMonday, got[0].Day)
	assert.Equal(t, models.KindCenter, got[0].Kind)
	assert.Equal(t, "08:00", got[0].Start)
	assert.Equal(t, models.KindExternal, got[1].Kind)
	assert.Equal(t, models.KindExternal, got[2].Kind)
}

func TestCanonicalizeDropsUnknownDayOrKind(t *testing.T) {
	got := Canonicalize([]models.ScheduleRecord{
		rec("s1", "2025-07-14", "someday", "08:00", "12:00", models.KindCenter, nil),
		rec("s1", "2025-07-14", models.DayMonday, "08:00", "12:00", "mystery", nil),
	})
	assert.Empty(t, got)
}

func TestCanonicalizeStructuralDedup(t *testing.T) {
	saved := ts("2025-07-12T09:00:00Z")

	first := rec("s1", "2025-07-14", models.DayMonday, "08:00", "12:00", models.KindCenter, saved)
	first.Description = "first"
	second := first
	second.Description = "second"

	got := Canonicalize([]models.ScheduleRecord{first, second})
	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Description)
}

func TestCanonicalizeDegradedModeWithoutTimestamps(t *testing.T) {
	// No saved_at anywhere: input is treated as already canonical and only
	// structural duplicates collapse.
	got := Canonicalize([]models.ScheduleRecord{
		rec("s1", "2025-07-14", models.DayMonday, "08:00", "12:00", models.KindCenter, nil),
		rec("s1", "2025-07-14", models.DayMonday, "08:00", "12:00", models.KindCenter, nil),
		rec("s1", "2025-07-14", models.DayTuesday, "09:00", "11:00", models.KindCenter, nil),
	})
	assert.Len(t, got, 2)
}

func TestCanonicalizeAbsentOccludesStrayRecords(t *testing.T) {
	saved := ts("2025-07-12T09:00:00Z")

	got := Canonicalize([]models.ScheduleRecord{
		rec("s1", "2025-07-14", models.DayTuesday, "08:00", "08:00", models.KindAbsent, saved),
		rec("s1", "2025-07-14", models.DayTuesday, "10:00", "12:00", models.KindCenter, saved),
		rec("s1", "2025-07-14", models.DayWednesday, "10:00", "12:00", models.KindCenter, saved),
	})

	require.Len(t, got, 2)
	assert.Equal(t, models.KindAbsent, got[0].Kind)
	assert.Equal(t, models.DayTuesday, got[0].Day)
	assert.Equal(t, models.DayWednesday, got[1].Day)
}

func TestCanonicalizeDeterministicUnderPermutation(t *testing.T) {
	saved := ts("2025-07-12T09:00:00Z")
	records := []models.ScheduleRecord{
		rec("s2", "2025-07-14", models.DayFriday, "10:00", "12:00", models.KindCenter, saved),
		rec("s1", "2025-07-14", models.DayMonday, "08:00", "12:00", models.KindCenter, saved),
		rec("s1", "2025-07-14", models.DayMonday, "12:00", "23:00", models.KindExternal, saved),
		rec("s1", "2025-07-21", models.DayTuesday, "09:00", "11:00", models.KindCenter, saved),
	}
	want := Canonicalize(records)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]models.ScheduleRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Canonicalize(shuffled))
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	saved := ts("2025-07-12T09:00:00Z")
	records := []models.ScheduleRecord{
		rec("s1", "2025-07-14", "월", "8:00", "12:00", "센터", saved),
		rec("s1", "2025-07-14", models.DayMonday, "12:00", "23:00", models.KindExternal, saved),
	}
	once := Canonicalize(records)
	assert.Equal(t, once, Canonicalize(once))
}

func TestCanonicalizeScopesRecencyPerStudentWeek(t *testing.T) {
	older := ts("2025-07-10T10:00:00Z")
	newer := ts("2025-07-12T09:00:00Z")

	got := Canonicalize([]models.ScheduleRecord{
		rec("s1", "2025-07-14", models.DayMonday, "08:00", "12:00", models.KindCenter, newer),
		rec("s2", "2025-07-14", models.DayMonday, "09:00", "11:00", models.KindCenter, older),
	})

	// s2's older save is its own group's latest and must survive.
	require.Len(t, got, 2)
}

func TestAssembleBuildsWeeklySubmission(t *testing.T) {
	saved := ts("2025-07-12T09:00:00Z")

	subs := Assemble([]models.ScheduleRecord{
		rec("s1", "2025-07-14", models.DayMonday, "08:00", "12:00", models.KindCenter, saved),
		{
			StudentID: "s1", WeekStart: "2025-07-14", Day: models.DayMonday,
			Start: "12:00", End: "23:00", Kind: models.KindExternal,
			Description: "학교", SavedAt: saved,
		},
		rec("s1", "2025-07-14", models.DayTuesday, "08:00", "08:00", models.KindAbsent, saved),
	})

	require.Len(t, subs, 1)
	sub := subs[0]
	assert.Equal(t, "s1", sub.StudentID)
	assert.Equal(t, "2025-07-14", sub.WeekStart)
	require.Len(t, sub.Records, 3)

	monday := sub.Days[0]
	require.Len(t, monday.Busy, 1)
	assert.Equal(t, "08:00", monday.Busy[0].Start())
	require.Len(t, monday.Gaps, 1)
	assert.Equal(t, "학교", monday.Gaps[0].Label)

	assert.True(t, sub.Days[1].Absent)
	assert.Equal(t, models.DaySunday, sub.Days[6].Day)
	assert.False(t, sub.Days[6].Absent)
}
