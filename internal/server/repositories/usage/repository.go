package usage

import (
	"context"
	"time"

	"github.com/screenbudget/backend/internal/server/models"
)

// Repository persists per-app per-day usage totals and serves the
// aggregation queries built on them.
type Repository interface {
	// Upsert overwrites total_minutes for (user, app, date). Totals are
	// cumulative daily values from the client, not deltas.
	Upsert(ctx context.Context, u *models.DailyUsage) error

	// Day returns the user's usage rows for one date, joined with app name
	// and category.
	Day(ctx context.Context, userID string, date time.Time) ([]models.UsageRow, error)

	// Range returns the user's usage rows for dates in [from, to].
	Range(ctx context.Context, userID string, from, to time.Time) ([]models.UsageRow, error)

	// CategoryTotals sums minutes per category for dates in [from, to].
	CategoryTotals(ctx context.Context, userID string, from, to time.Time) ([]models.CategoryMinutes, error)
}
