package reminders

import (
	"context"

	"github.com/screenbudget/backend/internal/server/models"
)

// Repository persists per-user break-reminder settings.
type Repository interface {
	// Get returns the user's settings, or common.ErrNotFound.
	Get(ctx context.Context, userID string) (*models.BreakReminder, error)

	// Upsert inserts the settings row or overwrites it on conflict.
	Upsert(ctx context.Context, reminder *models.BreakReminder) (*models.BreakReminder, error)
}
