package models

import "time"

// UserApp identifies one app seen on a user's device, keyed by
// (user, bundle id). The category is assigned once at creation from keyword
// classification; name and LastDetected refresh on every sync.
type UserApp struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	BundleID      string    `json:"bundleId"`
	AppName       string    `json:"appName"`
	CategoryType  string    `json:"categoryType"`
	FirstDetected time.Time `json:"firstDetected"`
	LastDetected  time.Time `json:"lastDetected"`
}

// DailyUsage holds total minutes reported for one app on one calendar date.
// Re-syncs overwrite TotalMinutes; the client sends cumulative daily totals,
// not deltas.
type DailyUsage struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	AppID        string    `json:"appId"`
	UsageDate    time.Time `json:"usageDate"`
	TotalMinutes int       `json:"totalMinutes"`
	SyncedAt     time.Time `json:"syncedAt"`
}

// UsageRow is a denormalized daily-usage record joined with its app,
// used by aggregation and reporting queries.
type UsageRow struct {
	UsageDate    time.Time `json:"usageDate"`
	AppName      string    `json:"appName"`
	CategoryType string    `json:"categoryType"`
	TotalMinutes int       `json:"totalMinutes"`
}

// CategoryMinutes is a per-category minute total over some date range.
type CategoryMinutes struct {
	CategoryType string `json:"categoryType"`
	Minutes      int    `json:"minutes"`
}
