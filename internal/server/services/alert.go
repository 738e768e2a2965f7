package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/screenbudget/backend/internal/common"
	"github.com/screenbudget/backend/internal/datex"
	"github.com/screenbudget/backend/internal/server/models"
	"github.com/screenbudget/backend/internal/server/repositories/repomanager"
)

// AlertService compares aggregated usage to the month's budget, persists
// overage alerts, and builds the notification payloads the client schedules
// pushes from.
type AlertService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewAlertService constructs an AlertService.
func NewAlertService(db *sql.DB, m repomanager.RepositoryManager) *AlertService {
	return &AlertService{db: db, repomanager: m}
}

// CheckAndTrigger runs the overage checks for one user and date.
//
// dailyUsage holds per-category minutes for the date; monthlyUsage holds
// month-to-date per-category minutes and is recomputed from the store when
// nil. Per non-excluded category: a daily overage persists at most one
// BudgetAlert per (user, category, date) but always appends a fresh
// daily_overage notification; a monthly overage appends a monthly_overage
// notification once per category per invocation. Missing budget
// configuration is a valid state: the engine returns empty results, not an
// error.
func (s *AlertService) CheckAndTrigger(ctx context.Context, userID string, date time.Time, dailyUsage, monthlyUsage map[string]int) ([]models.AlertSummary, []models.Notification, error) {
	alerts := []models.AlertSummary{}
	notifications := []models.Notification{}

	day := datex.DayStart(date)

	budget, err := s.repomanager.Budgets(s.db).GetByMonth(ctx, userID, datex.MonthStart(day))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return alerts, notifications, nil
		}
		return nil, nil, err
	}

	if monthlyUsage == nil {
		totals, err := s.repomanager.Usage(s.db).CategoryTotals(ctx, userID, datex.MonthStart(day), datex.MonthEnd(day))
		if err != nil {
			return nil, nil, err
		}
		monthlyUsage = make(map[string]int, len(totals))
		for _, t := range totals {
			monthlyUsage[t.CategoryType] = t.Minutes
		}
	}

	existing, err := s.repomanager.Alerts(s.db).CategoriesWithAlert(ctx, userID, day)
	if err != nil {
		return nil, nil, err
	}

	// The monthly dedup set lives only for this invocation: repeated syncs
	// on the same day re-emit monthly notifications and the client dedups
	// delivery.
	monthlyNotified := make(map[string]struct{})

	for _, cat := range budget.Categories {
		if cat.IsExcluded {
			continue
		}

		usedToday := dailyUsage[cat.CategoryType]
		usedMonthly := monthlyUsage[cat.CategoryType]
		dailyBudget := DailyBudget(cat.MonthlyHours, budget.MonthYear)
		monthlyBudget := MonthlyBudget(cat.MonthlyHours)

		if usedToday > dailyBudget {
			overage := usedToday - dailyBudget

			if _, ok := existing[cat.CategoryType]; !ok {
				err := s.repomanager.Alerts(s.db).Create(ctx, &models.BudgetAlert{
					UserID:         userID,
					CategoryType:   cat.CategoryType,
					AlertDate:      day,
					OverageMinutes: overage,
				})
				if err != nil {
					return nil, nil, err
				}
				alerts = append(alerts, models.AlertSummary{
					Category:       cat.CategoryName,
					OverageMinutes: overage,
				})
			}

			notifications = append(notifications, models.Notification{
				Type:           models.NotificationDailyOverage,
				CategoryType:   cat.CategoryType,
				CategoryName:   cat.CategoryName,
				OverageMinutes: overage,
				UsedMinutes:    usedToday,
				BudgetMinutes:  dailyBudget,
				Message:        fmt.Sprintf("You've exceeded your daily %s budget by %s", cat.CategoryName, formatMinutes(overage)),
			})
		}

		if usedMonthly > monthlyBudget {
			if _, ok := monthlyNotified[cat.CategoryType]; ok {
				continue
			}
			monthlyNotified[cat.CategoryType] = struct{}{}

			overage := usedMonthly - monthlyBudget
			notifications = append(notifications, models.Notification{
				Type:           models.NotificationMonthlyOverage,
				CategoryType:   cat.CategoryType,
				CategoryName:   cat.CategoryName,
				OverageMinutes: overage,
				UsedMinutes:    usedMonthly,
				BudgetMinutes:  monthlyBudget,
				Message:        fmt.Sprintf("You've exceeded your monthly %s budget by %s", cat.CategoryName, formatMinutes(overage)),
			})
		}
	}

	return alerts, notifications, nil
}

// List returns the user's most recent alerts.
func (s *AlertService) List(ctx context.Context, userID string, limit int) ([]*models.BudgetAlert, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repomanager.Alerts(s.db).List(ctx, userID, limit)
}

// Dismiss marks one alert dismissed. The alert stays stored; dismissal is
// the only state transition it ever makes.
func (s *AlertService) Dismiss(ctx context.Context, userID, alertID string) error {
	return s.repomanager.Alerts(s.db).Dismiss(ctx, userID, alertID)
}

// formatMinutes renders an overage for humans: "2h 5m", "2h", or a
// pluralized minute count below one hour.
func formatMinutes(minutes int) string {
	hours := minutes / 60
	rem := minutes % 60
	switch {
	case hours > 0 && rem > 0:
		return fmt.Sprintf("%dh %dm", hours, rem)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case rem == 1:
		return "1 minute"
	default:
		return fmt.Sprintf("%d minutes", rem)
	}
}
