// Package models defines the database entities and API-facing value types of
// the screen-time budget domain.
package models

import "time"

// Budget is a user's screen-time allocation for one calendar month.
// MonthYear is normalized to the first day of the month; at most one budget
// exists per (user, month) and creating a new one replaces the prior one.
type Budget struct {
	ID         string           `json:"id"`
	UserID     string           `json:"userId"`
	MonthYear  time.Time        `json:"monthYear"`
	CreatedAt  time.Time        `json:"createdAt"`
	Categories []CategoryBudget `json:"categories"`
}

// CategoryBudget is a per-category monthly-hour allocation inside a Budget.
// Excluded categories are skipped entirely by the alert engine.
type CategoryBudget struct {
	ID           string  `json:"id"`
	BudgetID     string  `json:"budgetId"`
	CategoryType string  `json:"categoryType"`
	CategoryName string  `json:"categoryName"`
	MonthlyHours float64 `json:"monthlyHours"`
	IsExcluded   bool    `json:"isExcluded"`
}
