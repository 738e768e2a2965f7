package models

// BreakReminder holds a user's break-reminder settings. Quiet hours are
// local-time hours [0,23]; nil means no quiet window.
type BreakReminder struct {
	ID                   string `json:"id"`
	UserID               string `json:"userId"`
	IsEnabled            bool   `json:"isEnabled"`
	IntervalMinutes      int    `json:"intervalMinutes"`
	BreakDurationMinutes int    `json:"breakDurationMinutes"`
	QuietHoursStart      *int   `json:"quietHoursStart"`
	QuietHoursEnd        *int   `json:"quietHoursEnd"`
}
