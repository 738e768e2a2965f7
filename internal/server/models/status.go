package models

import "time"

// Category status values compare one day's usage to the derived daily
// budget. Exact equality maps to StatusAtLimit.
const (
	StatusUnder   = "under"
	StatusAtLimit = "at_limit"
	StatusOver    = "over"
)

// AppMinutes is one app's contribution to a day's category total.
type AppMinutes struct {
	Name    string `json:"name"`
	Minutes int    `json:"minutes"`
}

// CategoryStatus is one category's aggregated view for a single day,
// joined against the month's budget.
type CategoryStatus struct {
	TotalMinutes  int          `json:"totalMinutes"`
	DailyBudget   int          `json:"dailyBudget"`
	MonthlyBudget int          `json:"monthlyBudget"`
	MonthlyUsed   int          `json:"monthlyUsed"`
	Status        string       `json:"status"`
	Apps          []AppMinutes `json:"apps"`
}

// BudgetStatus is the full aggregation result for one user and one date.
type BudgetStatus struct {
	Date         time.Time                 `json:"date"`
	TotalMinutes int                       `json:"totalMinutes"`
	Categories   map[string]CategoryStatus `json:"categories"`
}
