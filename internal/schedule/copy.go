package schedule

import "github.com/hakwonlab/center-schedule-api/internal/models"

// CarryForward builds an unsaved replacement payload for the target week
// from a source week's canonical submission. Every record's week start is
// rewritten and its saved_at cleared so the save path stamps a fresh batch
// timestamp; the source week is never touched. Saving the result replaces
// the target week's rows outright rather than merging into them.
func CarryForward(src WeeklySubmission, targetWeek string) []models.ScheduleRecord {
	out := make([]models.ScheduleRecord, 0, len(src.Records))
	for _, r := range src.Records {
		r.ID = ""
		r.WeekStart = targetWeek
		r.SavedAt = nil
		out = append(out, r)
	}
	return out
}
