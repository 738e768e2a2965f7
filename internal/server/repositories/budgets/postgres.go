// Package budgets provides the PostgreSQL-backed repository for monthly
// screen-time budgets and their per-category allocations.
package budgets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/screenbudget/backend/internal/common"
	"github.com/screenbudget/backend/internal/dbx"
	"github.com/screenbudget/backend/internal/server/models"
)

// PostgresRepository implements budget storage over a dbx.DBTX
// (*sql.DB or *sql.Tx). Replace-month flows run it inside a transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO screen_time_budgets (user_id, month_year)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, budget.UserID, budget.MonthYear).
		Scan(&budget.ID, &budget.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert budget: %w", err)
	}

	catQuery := `
		INSERT INTO category_budgets (budget_id, category_type, category_name, monthly_hours, is_excluded)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for i := range budget.Categories {
		cat := &budget.Categories[i]
		cat.BudgetID = budget.ID
		err := r.db.QueryRowContext(ctx, catQuery,
			budget.ID, cat.CategoryType, cat.CategoryName, cat.MonthlyHours, cat.IsExcluded).
			Scan(&cat.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert category %s: %w", cat.CategoryType, err)
		}
	}

	return budget, nil
}

func (r *PostgresRepository) DeleteByMonth(ctx context.Context, userID string, monthYear time.Time) error {
	query := `DELETE FROM screen_time_budgets WHERE user_id = $1 AND month_year = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, monthYear); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByMonth(ctx context.Context, userID string, monthYear time.Time) (*models.Budget, error) {
	query := `
		SELECT id, user_id, month_year, created_at FROM screen_time_budgets
		WHERE user_id = $1 AND month_year = $2
	`
	budget := &models.Budget{}
	err := r.db.QueryRowContext(ctx, query, userID, monthYear).
		Scan(&budget.ID, &budget.UserID, &budget.MonthYear, &budget.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select budget: %w", err)
	}

	catQuery := `
		SELECT id, budget_id, category_type, category_name, monthly_hours, is_excluded
		FROM category_budgets
		WHERE budget_id = $1
		ORDER BY category_type
	`
	rows, err := r.db.QueryContext(ctx, catQuery, budget.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cat models.CategoryBudget
		if err := rows.Scan(&cat.ID, &cat.BudgetID, &cat.CategoryType, &cat.CategoryName,
			&cat.MonthlyHours, &cat.IsExcluded); err != nil {
			return nil, err
		}
		budget.Categories = append(budget.Categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return budget, nil
}

// UpdateCategory joins through the owning budget so a user cannot mutate
// another user's allocation by guessing category ids.
func (r *PostgresRepository) UpdateCategory(ctx context.Context, userID, categoryID string, monthlyHours float64, isExcluded *bool) (*models.CategoryBudget, error) {
	query := `
		UPDATE category_budgets cb
		SET monthly_hours = $3, is_excluded = COALESCE($4, cb.is_excluded)
		FROM screen_time_budgets b
		WHERE cb.id = $1 AND cb.budget_id = b.id AND b.user_id = $2
		RETURNING cb.id, cb.budget_id, cb.category_type, cb.category_name, cb.monthly_hours, cb.is_excluded
	`
	cat := &models.CategoryBudget{}
	err := r.db.QueryRowContext(ctx, query, categoryID, userID, monthlyHours, isExcluded).
		Scan(&cat.ID, &cat.BudgetID, &cat.CategoryType, &cat.CategoryName, &cat.MonthlyHours, &cat.IsExcluded)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return cat, nil
}
