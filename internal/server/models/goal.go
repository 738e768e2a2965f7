package models

import "time"

// WeeklyGoal tracks a total-minutes reduction target for one Monday-based
// week. Progress fields are recomputed from daily usage on every sync.
type WeeklyGoal struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	WeekStartDate  time.Time `json:"weekStartDate"`
	TargetMinutes  int       `json:"targetMinutes"`
	CurrentMinutes int       `json:"currentMinutes"`
	DaysCompleted  int       `json:"daysCompleted"`
	IsActive       bool      `json:"isActive"`
}
