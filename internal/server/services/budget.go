// Package services contains the server-side business logic: budget math,
// usage ingest and aggregation, the alert engine, weekly goals and insights,
// break reminders, and usage export.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/screenbudget/backend/internal/common"
	"github.com/screenbudget/backend/internal/datex"
	"github.com/screenbudget/backend/internal/dbx"
	"github.com/screenbudget/backend/internal/server/models"
	"github.com/screenbudget/backend/internal/server/repositories/repomanager"
)

// CategoryBudgetInput is one category allocation in a create-budget request.
type CategoryBudgetInput struct {
	CategoryType string  `json:"categoryType"`
	CategoryName string  `json:"categoryName"`
	MonthlyHours float64 `json:"monthlyHours"`
	IsExcluded   bool    `json:"isExcluded"`
}

// BudgetService manages monthly budgets and derives daily budgets from them.
type BudgetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewBudgetService constructs a BudgetService.
func NewBudgetService(db *sql.DB, m repomanager.RepositoryManager) *BudgetService {
	return &BudgetService{db: db, repomanager: m}
}

// Create replaces the user's budget for the month containing monthYear.
// Delete-old and insert-new run in one transaction so a concurrent status
// read never observes a budget with zero categories.
func (s *BudgetService) Create(ctx context.Context, userID string, monthYear time.Time, categories []CategoryBudgetInput) (*models.Budget, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: categories must be a non-empty array", common.ErrValidation)
	}
	for _, cat := range categories {
		if cat.CategoryType == "" || cat.CategoryName == "" {
			return nil, fmt.Errorf("%w: each category needs categoryType and categoryName", common.ErrValidation)
		}
		if cat.MonthlyHours < 0 || cat.MonthlyHours > 744 {
			return nil, fmt.Errorf("%w: monthlyHours must be between 0 and 744", common.ErrValidation)
		}
	}

	month := datex.MonthStart(monthYear)
	budget := &models.Budget{UserID: userID, MonthYear: month}
	for _, cat := range categories {
		budget.Categories = append(budget.Categories, models.CategoryBudget{
			CategoryType: cat.CategoryType,
			CategoryName: cat.CategoryName,
			MonthlyHours: cat.MonthlyHours,
			IsExcluded:   cat.IsExcluded,
		})
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Budgets(tx)
		if err := repo.DeleteByMonth(ctx, userID, month); err != nil {
			return err
		}
		created, err := repo.Create(ctx, budget)
		if err != nil {
			return err
		}
		budget = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating budget: %w", err)
	}
	return budget, nil
}

// Current returns the user's budget for the month containing now, or
// common.ErrNoBudget. There is no default-budget fallback on this path.
func (s *BudgetService) Current(ctx context.Context, userID string, now time.Time) (*models.Budget, error) {
	return s.forMonth(ctx, userID, now)
}

func (s *BudgetService) forMonth(ctx context.Context, userID string, t time.Time) (*models.Budget, error) {
	budget, err := s.repomanager.Budgets(s.db).GetByMonth(ctx, userID, datex.MonthStart(t))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNoBudget
		}
		return nil, err
	}
	return budget, nil
}

// UpdateCategory mutates one category allocation. A nil isExcluded leaves
// the exclusion flag untouched.
func (s *BudgetService) UpdateCategory(ctx context.Context, userID, categoryID string, monthlyHours float64, isExcluded *bool) (*models.CategoryBudget, error) {
	if monthlyHours < 0 || monthlyHours > 744 {
		return nil, fmt.Errorf("%w: monthlyHours must be between 0 and 744", common.ErrValidation)
	}
	return s.repomanager.Budgets(s.db).UpdateCategory(ctx, userID, categoryID, monthlyHours, isExcluded)
}

// DailyBudget derives the per-day minute budget for a category from its
// monthly hours and the actual number of days in that month. It is
// recomputed on every read so the result always matches the calendar,
// leap years included.
func DailyBudget(monthlyHours float64, monthYear time.Time) int {
	return int(math.Round(monthlyHours * 60 / float64(datex.DaysInMonth(monthYear))))
}

// MonthlyBudget converts a category's monthly hours to minutes.
func MonthlyBudget(monthlyHours float64) int {
	return int(math.Round(monthlyHours * 60))
}
