// Package alerts provides the PostgreSQL-backed repository for budget
// overage alerts.
package alerts

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create relies on the (user_id, category_type, alert_date) unique key:
// ON CONFLICT DO NOTHING keeps repeated syncs from inserting duplicates
// even when two requests race past the existence check.
func (r *PostgresRepository) Create(ctx context.Context, alert *models.BudgetAlert) error {
	query := `
		INSERT INTO budget_alerts (user_id, category_type, alert_date, overage_minutes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, category_type, alert_date) DO NOTHING
		RETURNING id, alert_sent_at
	`
	err := r.db.QueryRowContext(ctx, query,
		alert.UserID, alert.CategoryType, alert.AlertDate, alert.OverageMinutes).
		Scan(&alert.ID, &alert.AlertSentAt)
	if err != nil {
		// No row returned means the conflict fired: the alert already
		// exists and the insert was a no-op.
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CategoriesWithAlert(ctx context.Context, userID string, date time.Time) (map[string]struct{}, error) {
	query := `SELECT category_type FROM budget_alerts WHERE user_id = $1 AND alert_date = $2`
	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to select existing alerts: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]struct{})
	for rows.Next() {
		var categoryType string
		if err := rows.Scan(&categoryType); err != nil {
			return nil, err
		}
		existing[categoryType] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, limit int) ([]*models.BudgetAlert, error) {
	query := `
		SELECT id, user_id, category_type, alert_date, overage_minutes, alert_sent_at, was_dismissed, dismissed_at
		FROM budget_alerts
		WHERE user_id = $1
		ORDER BY alert_sent_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select alerts: %w", err)
	}
	defer rows.Close()

	var result []*models.BudgetAlert
	for rows.Next() {
		var item models.BudgetAlert
		if err := rows.Scan(&item.ID, &item.UserID, &item.CategoryType, &item.AlertDate,
			&item.OverageMinutes, &item.AlertSentAt, &item.WasDismissed, &item.DismissedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Dismiss(ctx context.Context, userID, alertID string) error {
	query := `
		UPDATE budget_alerts
		SET was_dismissed = TRUE, dismissed_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, alertID, userID)
	if err != nil {
		return fmt.Errorf("failed to dismiss alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
