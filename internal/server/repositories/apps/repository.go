package apps

import (
	"context"

	"github.com/screenbudget/backend/internal/server/models"
)

// Repository persists app identities keyed by (user, bundle id).
type Repository interface {
	// Upsert inserts the app on first sight (keeping the provided category)
	// or refreshes app_name and last_detected on conflict. The stored
	// category is never recomputed after creation. Returns the stored row.
	Upsert(ctx context.Context, app *models.UserApp) (*models.UserApp, error)
}
