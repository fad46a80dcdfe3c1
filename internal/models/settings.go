package models

import "time"

// Settings is one append-only row of administrator configuration. Reads
// always take the latest row; updates insert a new one.
type Settings struct {
	ID                 string    `db:"id" json:"id"`
	WeekRangeText      string    `db:"week_range_text" json:"week_range_text"`
	CenterDesc         string    `db:"center_desc" json:"center_desc"`
	CenterExample      string    `db:"center_example" json:"center_example"`
	ExternalDesc       string    `db:"external_desc" json:"external_desc"`
	ExternalExample    string    `db:"external_example" json:"external_example"`
	NotificationFooter string    `db:"notification_footer" json:"notification_footer"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// UpdateSettingsRequest is the admin payload for publishing new settings.
type UpdateSettingsRequest struct {
	WeekRangeText      string `json:"week_range_text"`
	CenterDesc         string `json:"center_desc"`
	CenterExample      string `json:"center_example"`
	ExternalDesc       string `json:"external_desc"`
	ExternalExample    string `json:"external_example"`
	NotificationFooter string `json:"notification_footer"`
}
