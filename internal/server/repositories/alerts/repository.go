package alerts

import (
	"context"
	"time"

	"github.com/screenbudget/backend/internal/server/models"
)

// Repository persists budget alerts. Rows are unique per
// (user, category, date) and are never deleted, only dismissed.
type Repository interface {
	// Create inserts an alert, populating its generated id and timestamp.
	Create(ctx context.Context, alert *models.BudgetAlert) error

	// CategoriesWithAlert returns the category types that already have an
	// alert for (userID, date), as a membership set.
	CategoriesWithAlert(ctx context.Context, userID string, date time.Time) (map[string]struct{}, error)

	// List returns the user's most recent alerts, newest first.
	List(ctx context.Context, userID string, limit int) ([]*models.BudgetAlert, error)

	// Dismiss marks the user's alert dismissed. Returns common.ErrNotFound
	// when the alert does not exist or belongs to another user.
	Dismiss(ctx context.Context, userID, alertID string) error
}
