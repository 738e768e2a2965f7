package goals

import (
	"context"
	"time"

	"github.com/screenbudget/backend/internal/server/models"
)

// Repository persists weekly reduction goals keyed by
// (user, Monday week start).
type Repository interface {
	// GetByWeek returns the goal for the given week start, or
	// common.ErrNotFound.
	GetByWeek(ctx context.Context, userID string, weekStart time.Time) (*models.WeeklyGoal, error)

	// Create inserts a goal, populating its generated id.
	Create(ctx context.Context, goal *models.WeeklyGoal) (*models.WeeklyGoal, error)

	// Upsert sets the target for (user, week), reactivating the goal on
	// conflict. Progress counters are preserved on update.
	Upsert(ctx context.Context, goal *models.WeeklyGoal) (*models.WeeklyGoal, error)

	// UpdateProgress overwrites the goal's progress counters.
	UpdateProgress(ctx context.Context, goalID string, currentMinutes, daysCompleted int) error

	// List returns the user's goals, most recent week first.
	List(ctx context.Context, userID string, limit int) ([]*models.WeeklyGoal, error)
}
