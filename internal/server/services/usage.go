package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/screenbudget/backend/internal/common"
	"github.com/screenbudget/backend/internal/datex"
	"github.com/screenbudget/backend/internal/server/categories"
	"github.com/screenbudget/backend/internal/server/models"
	"github.com/screenbudget/backend/internal/server/repositories/repomanager"
)

// syncConcurrency bounds how many app upserts run at once within a sync
// batch, limiting simultaneous database connections.
const syncConcurrency = 10

// AppUsageInput is one app's reported total for the sync date.
type AppUsageInput struct {
	BundleID     string `json:"bundleId"`
	AppName      string `json:"appName"`
	TotalMinutes int    `json:"totalMinutes"`
}

// SyncResult reports a batch outcome: partial success is the expected shape,
// with failures collected per item instead of aborting the batch.
type SyncResult struct {
	Synced int      `json:"synced"`
	Errors []string `json:"errors"`
}

// UsageService ingests daily usage reports and aggregates them against the
// month's budget.
type UsageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewUsageService constructs a UsageService.
func NewUsageService(db *sql.DB, m repomanager.RepositoryManager) *UsageService {
	return &UsageService{db: db, repomanager: m}
}

// Sync upserts the batch of app usage reports for one date. Items are
// processed in bounded concurrent groups; each app's upsert pair is its own
// unit of work and one item's failure never cancels its siblings. Two
// entries for the same bundle id in one batch is a caller error with
// undefined precedence.
func (s *UsageService) Sync(ctx context.Context, userID string, date time.Time, apps []AppUsageInput) *SyncResult {
	day := datex.DayStart(date)

	var mu sync.Mutex
	result := &SyncResult{Errors: []string{}}

	var g errgroup.Group
	g.SetLimit(syncConcurrency)

	for _, app := range apps {
		g.Go(func() error {
			if err := s.syncApp(ctx, userID, day, app); err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, fmt.Sprintf("failed to sync %s: %v", app.AppName, err))
				mu.Unlock()
				return nil
			}
			mu.Lock()
			result.Synced++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return result
}

func (s *UsageService) syncApp(ctx context.Context, userID string, day time.Time, app AppUsageInput) error {
	if app.BundleID == "" {
		return fmt.Errorf("%w: bundleId is required", common.ErrValidation)
	}
	if app.TotalMinutes < 0 || app.TotalMinutes > 1440 {
		return fmt.Errorf("%w: totalMinutes must be between 0 and 1440", common.ErrValidation)
	}

	stored, err := s.repomanager.Apps(s.db).Upsert(ctx, &models.UserApp{
		UserID:       userID,
		BundleID:     app.BundleID,
		AppName:      app.AppName,
		CategoryType: categories.Classify(app.BundleID, app.AppName),
	})
	if err != nil {
		return err
	}

	return s.repomanager.Usage(s.db).Upsert(ctx, &models.DailyUsage{
		UserID:       userID,
		AppID:        stored.ID,
		UsageDate:    day,
		TotalMinutes: app.TotalMinutes,
	})
}

// DailyStatus aggregates one day's usage per budget category, joined with
// month-to-date totals and derived budgets. It requires a budget for the
// month containing date and returns common.ErrNoBudget otherwise.
func (s *UsageService) DailyStatus(ctx context.Context, userID string, date time.Time) (*models.BudgetStatus, error) {
	day := datex.DayStart(date)

	budget, err := s.repomanager.Budgets(s.db).GetByMonth(ctx, userID, datex.MonthStart(day))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNoBudget
		}
		return nil, err
	}

	repo := s.repomanager.Usage(s.db)
	dayRows, err := repo.Day(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	monthTotals, err := repo.CategoryTotals(ctx, userID, datex.MonthStart(day), datex.MonthEnd(day))
	if err != nil {
		return nil, err
	}

	type bucket struct {
		totalMinutes int
		apps         []models.AppMinutes
	}
	daily := make(map[string]*bucket)
	for _, row := range dayRows {
		b, ok := daily[row.CategoryType]
		if !ok {
			b = &bucket{}
			daily[row.CategoryType] = b
		}
		b.totalMinutes += row.TotalMinutes
		b.apps = append(b.apps, models.AppMinutes{Name: row.AppName, Minutes: row.TotalMinutes})
	}

	monthly := make(map[string]int, len(monthTotals))
	for _, t := range monthTotals {
		monthly[t.CategoryType] = t.Minutes
	}

	status := &models.BudgetStatus{
		Date:       day,
		Categories: make(map[string]models.CategoryStatus, len(budget.Categories)),
	}

	for _, cat := range budget.Categories {
		b := daily[cat.CategoryType]
		if b == nil {
			b = &bucket{apps: []models.AppMinutes{}}
		}
		dailyBudget := DailyBudget(cat.MonthlyHours, budget.MonthYear)

		status.Categories[cat.CategoryType] = models.CategoryStatus{
			TotalMinutes:  b.totalMinutes,
			DailyBudget:   dailyBudget,
			MonthlyBudget: MonthlyBudget(cat.MonthlyHours),
			MonthlyUsed:   monthly[cat.CategoryType],
			Status:        statusFor(b.totalMinutes, dailyBudget),
			Apps:          b.apps,
		}
		status.TotalMinutes += b.totalMinutes
	}

	return status, nil
}

// statusFor maps a day total against its budget: exact equality is
// at_limit, not over.
func statusFor(totalMinutes, dailyBudget int) string {
	switch {
	case totalMinutes > dailyBudget:
		return models.StatusOver
	case totalMinutes == dailyBudget:
		return models.StatusAtLimit
	default:
		return models.StatusUnder
	}
}
