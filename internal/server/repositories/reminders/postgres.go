// Package reminders provides the PostgreSQL-backed repository for break
// reminder settings.
package reminders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const reminderColumns = `id, user_id, is_enabled, interval_minutes, break_duration_minutes, quiet_hours_start, quiet_hours_end`

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.BreakReminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM break_reminders WHERE user_id = $1`

	reminder := &models.BreakReminder{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&reminder.ID, &reminder.UserID, &reminder.IsEnabled, &reminder.IntervalMinutes,
		&reminder.BreakDurationMinutes, &reminder.QuietHoursStart, &reminder.QuietHoursEnd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select reminder: %w", err)
	}
	return reminder, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, reminder *models.BreakReminder) (*models.BreakReminder, error) {
	query := `
		INSERT INTO break_reminders (user_id, is_enabled, interval_minutes, break_duration_minutes, quiet_hours_start, quiet_hours_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id)
		DO UPDATE SET
			is_enabled = EXCLUDED.is_enabled,
			interval_minutes = EXCLUDED.interval_minutes,
			break_duration_minutes = EXCLUDED.break_duration_minutes,
			quiet_hours_start = EXCLUDED.quiet_hours_start,
			quiet_hours_end = EXCLUDED.quiet_hours_end
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		reminder.UserID, reminder.IsEnabled, reminder.IntervalMinutes,
		reminder.BreakDurationMinutes, reminder.QuietHoursStart, reminder.QuietHoursEnd).
		Scan(&reminder.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert reminder: %w", err)
	}
	return reminder, nil
}
