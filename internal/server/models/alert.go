package models

import (
	"database/sql"
	"time"
)

// BudgetAlert records that a category went over its daily budget on a date.
// At most one row exists per (user, category, date). The only transition is
// active → dismissed; rows are never deleted.
type BudgetAlert struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	CategoryType   string       `json:"categoryType"`
	AlertDate      time.Time    `json:"alertDate"`
	OverageMinutes int          `json:"overageMinutes"`
	AlertSentAt    time.Time    `json:"alertSentAt"`
	WasDismissed   bool         `json:"wasDismissed"`
	DismissedAt    sql.NullTime `json:"dismissedAt"`
}

// Notification types for overage payloads.
const (
	NotificationDailyOverage   = "daily_overage"
	NotificationMonthlyOverage = "monthly_overage"
)

// Notification is an ephemeral overage payload generated fresh on every
// sync. It is never persisted; delivery dedup is the client's job.
type Notification struct {
	Type           string `json:"type"`
	CategoryType   string `json:"categoryType"`
	CategoryName   string `json:"categoryName"`
	OverageMinutes int    `json:"overageMinutes"`
	UsedMinutes    int    `json:"usedMinutes"`
	BudgetMinutes  int    `json:"budgetMinutes"`
	Message        string `json:"message"`
}

// AlertSummary is the condensed alert view returned in sync responses.
type AlertSummary struct {
	Category       string `json:"category"`
	OverageMinutes int    `json:"overageMinutes"`
}
