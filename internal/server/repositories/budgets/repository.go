package budgets

import (
	"context"
	"time"

	"github.com/screenbudget/backend/internal/server/models"
)

// Repository persists monthly budgets and their category allocations.
type Repository interface {
	// Create inserts a budget and its categories, populating generated ids.
	Create(ctx context.Context, budget *models.Budget) (*models.Budget, error)

	// DeleteByMonth removes the user's budget (and, by cascade, its
	// categories) for the given month, if one exists.
	DeleteByMonth(ctx context.Context, userID string, monthYear time.Time) error

	// GetByMonth returns the user's budget for the given month with its
	// categories, or common.ErrNotFound.
	GetByMonth(ctx context.Context, userID string, monthYear time.Time) (*models.Budget, error)

	// UpdateCategory mutates one category allocation owned by userID.
	// A nil isExcluded leaves the flag untouched. Returns the updated row
	// or common.ErrNotFound when the category does not belong to the user.
	UpdateCategory(ctx context.Context, userID, categoryID string, monthlyHours float64, isExcluded *bool) (*models.CategoryBudget, error)
}
