// Package usage provides the PostgreSQL-backed repository for daily per-app
// usage totals and the aggregation queries over them.
package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/screenbudget/backend/internal/dbx"
	"github.com/screenbudget/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert applies last-write-wins semantics: a repeated sync for the same
// (user, app, date) overwrites the stored total.
func (r *PostgresRepository) Upsert(ctx context.Context, u *models.DailyUsage) error {
	query := `
		INSERT INTO daily_app_usage (user_id, app_id, usage_date, total_minutes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, app_id, usage_date)
		DO UPDATE SET total_minutes = EXCLUDED.total_minutes, synced_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query,
		u.UserID, u.AppID, u.UsageDate, u.TotalMinutes); err != nil {
		return fmt.Errorf("failed to upsert daily usage: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Day(ctx context.Context, userID string, date time.Time) ([]models.UsageRow, error) {
	query := `
		SELECT du.usage_date, ua.app_name, ua.category_type, du.total_minutes
		FROM daily_app_usage du
		JOIN user_apps ua ON ua.id = du.app_id
		WHERE du.user_id = $1 AND du.usage_date = $2
	`
	return r.queryRows(ctx, query, userID, date)
}

func (r *PostgresRepository) Range(ctx context.Context, userID string, from, to time.Time) ([]models.UsageRow, error) {
	query := `
		SELECT du.usage_date, ua.app_name, ua.category_type, du.total_minutes
		FROM daily_app_usage du
		JOIN user_apps ua ON ua.id = du.app_id
		WHERE du.user_id = $1 AND du.usage_date BETWEEN $2 AND $3
		ORDER BY du.usage_date
	`
	return r.queryRows(ctx, query, userID, from, to)
}

func (r *PostgresRepository) CategoryTotals(ctx context.Context, userID string, from, to time.Time) ([]models.CategoryMinutes, error) {
	query := `
		SELECT ua.category_type, COALESCE(SUM(du.total_minutes), 0)
		FROM daily_app_usage du
		JOIN user_apps ua ON ua.id = du.app_id
		WHERE du.user_id = $1 AND du.usage_date BETWEEN $2 AND $3
		GROUP BY ua.category_type
	`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to select category totals: %w", err)
	}
	defer rows.Close()

	var result []models.CategoryMinutes
	for rows.Next() {
		var item models.CategoryMinutes
		if err := rows.Scan(&item.CategoryType, &item.Minutes); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) queryRows(ctx context.Context, query string, args ...any) ([]models.UsageRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select usage: %w", err)
	}
	defer rows.Close()

	var result []models.UsageRow
	for rows.Next() {
		var item models.UsageRow
		if err := rows.Scan(&item.UsageDate, &item.AppName, &item.CategoryType, &item.TotalMinutes); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
