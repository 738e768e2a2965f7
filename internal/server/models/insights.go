package models

import "time"

// CategoryTotal and AppTotal are ranked entries in a weekly summary.
type CategoryTotal struct {
	Category string `json:"category"`
	Minutes  int    `json:"minutes"`
}

type AppTotal struct {
	AppName string `json:"appName"`
	Minutes int    `json:"minutes"`
}

// DayTotal is one day's total minutes inside a weekly breakdown.
type DayTotal struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// WeeklyInsights summarizes one Monday-based week of usage with a
// previous-week comparison.
type WeeklyInsights struct {
	WeekStart           time.Time       `json:"weekStart"`
	WeekEnd             time.Time       `json:"weekEnd"`
	TotalMinutes        int             `json:"totalMinutes"`
	PreviousWeekTotal   int             `json:"previousWeekTotal"`
	Change              int             `json:"change"`
	ChangePercent       float64         `json:"changePercent"`
	AverageDailyMinutes int             `json:"averageDailyMinutes"`
	TopCategories       []CategoryTotal `json:"topCategories"`
	TopApps             []AppTotal      `json:"topApps"`
	DailyBreakdown      []DayTotal      `json:"dailyBreakdown"`
}
