// Package goals provides the PostgreSQL-backed repository for weekly
// reduction goals.
package goals

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

const goalColumns = `id, user_id, week_start_date, target_minutes, current_minutes, days_completed, is_active`

func (r *PostgresRepository) GetByWeek(ctx context.Context, userID string, weekStart time.Time) (*models.WeeklyGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM weekly_goals WHERE user_id = $1 AND week_start_date = $2`

	goal := &models.WeeklyGoal{}
	err := r.db.QueryRowContext(ctx, query, userID, weekStart).Scan(
		&goal.ID, &goal.UserID, &goal.WeekStartDate, &goal.TargetMinutes,
		&goal.CurrentMinutes, &goal.DaysCompleted, &goal.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select goal: %w", err)
	}
	return goal, nil
}

func (r *PostgresRepository) Create(ctx context.Context, goal *models.WeeklyGoal) (*models.WeeklyGoal, error) {
	query := `
		INSERT INTO weekly_goals (user_id, week_start_date, target_minutes, current_minutes, days_completed, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		goal.UserID, goal.WeekStartDate, goal.TargetMinutes,
		goal.CurrentMinutes, goal.DaysCompleted, goal.IsActive).Scan(&goal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert goal: %w", err)
	}
	return goal, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, goal *models.WeeklyGoal) (*models.WeeklyGoal, error) {
	query := `
		INSERT INTO weekly_goals (user_id, week_start_date, target_minutes, is_active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (user_id, week_start_date)
		DO UPDATE SET target_minutes = EXCLUDED.target_minutes, is_active = TRUE
		RETURNING ` + goalColumns + `
	`
	err := r.db.QueryRowContext(ctx, query,
		goal.UserID, goal.WeekStartDate, goal.TargetMinutes).Scan(
		&goal.ID, &goal.UserID, &goal.WeekStartDate, &goal.TargetMinutes,
		&goal.CurrentMinutes, &goal.DaysCompleted, &goal.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert goal: %w", err)
	}
	return goal, nil
}

func (r *PostgresRepository) UpdateProgress(ctx context.Context, goalID string, currentMinutes, daysCompleted int) error {
	query := `UPDATE weekly_goals SET current_minutes = $2, days_completed = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, goalID, currentMinutes, daysCompleted); err != nil {
		return fmt.Errorf("failed to update goal progress: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, limit int) ([]*models.WeeklyGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM weekly_goals WHERE user_id = $1 ORDER BY week_start_date DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select goals: %w", err)
	}
	defer rows.Close()

	var result []*models.WeeklyGoal
	for rows.Next() {
		var item models.WeeklyGoal
		if err := rows.Scan(&item.ID, &item.UserID, &item.WeekStartDate, &item.TargetMinutes,
			&item.CurrentMinutes, &item.DaysCompleted, &item.IsActive); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
