package services

import (
	"context"
	"database/sql"
	"math"
	"sort"
	"time"

	"github.com/screenbudget/backend/internal/datex"
	"github.com/screenbudget/backend/internal/server/models"
	"github.com/screenbudget/backend/internal/server/repositories/repomanager"
)

// InsightsService builds weekly usage summaries with a previous-week
// comparison.
type InsightsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewInsightsService constructs an InsightsService.
func NewInsightsService(db *sql.DB, m repomanager.RepositoryManager) *InsightsService {
	return &InsightsService{db: db, repomanager: m}
}

// Weekly summarizes the Monday-based week containing ref (or the current
// week when ref is zero): total minutes, previous-week delta, top-5
// categories and apps, and a per-day breakdown.
func (s *InsightsService) Weekly(ctx context.Context, userID string, ref time.Time) (*models.WeeklyInsights, error) {
	if ref.IsZero() {
		ref = time.Now()
	}
	weekStart := datex.WeekStart(ref)
	weekEnd := weekStart.AddDate(0, 0, 6)

	repo := s.repomanager.Usage(s.db)

	rows, err := repo.Range(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	prevRows, err := repo.Range(ctx, userID, weekStart.AddDate(0, 0, -7), weekStart.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	categoryTotals := make(map[string]int)
	appTotals := make(map[string]int)
	dailyTotals := make(map[string]int)
	total := 0
	for _, row := range rows {
		categoryTotals[row.CategoryType] += row.TotalMinutes
		appTotals[row.AppName] += row.TotalMinutes
		dailyTotals[row.UsageDate.Format("2006-01-02")] += row.TotalMinutes
		total += row.TotalMinutes
	}

	prevTotal := 0
	for _, row := range prevRows {
		prevTotal += row.TotalMinutes
	}

	changePercent := 0.0
	if prevTotal > 0 {
		changePercent = float64(total-prevTotal) / float64(prevTotal) * 100
	}

	insights := &models.WeeklyInsights{
		WeekStart:           weekStart,
		WeekEnd:             weekEnd,
		TotalMinutes:        total,
		PreviousWeekTotal:   prevTotal,
		Change:              total - prevTotal,
		ChangePercent:       changePercent,
		AverageDailyMinutes: int(math.Round(float64(total) / 7)),
		TopCategories:       topCategories(categoryTotals, 5),
		TopApps:             topApps(appTotals, 5),
		DailyBreakdown:      dailyBreakdown(dailyTotals),
	}
	return insights, nil
}

func topCategories(totals map[string]int, n int) []models.CategoryTotal {
	result := make([]models.CategoryTotal, 0, len(totals))
	for category, minutes := range totals {
		result = append(result, models.CategoryTotal{Category: category, Minutes: minutes})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Minutes != result[j].Minutes {
			return result[i].Minutes > result[j].Minutes
		}
		return result[i].Category < result[j].Category
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}

func topApps(totals map[string]int, n int) []models.AppTotal {
	result := make([]models.AppTotal, 0, len(totals))
	for app, minutes := range totals {
		result = append(result, models.AppTotal{AppName: app, Minutes: minutes})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Minutes != result[j].Minutes {
			return result[i].Minutes > result[j].Minutes
		}
		return result[i].AppName < result[j].AppName
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}

func dailyBreakdown(totals map[string]int) []models.DayTotal {
	result := make([]models.DayTotal, 0, len(totals))
	for date, minutes := range totals {
		result = append(result, models.DayTotal{Date: date, Minutes: minutes})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result
}
