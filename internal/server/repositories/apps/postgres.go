// Package apps provides the PostgreSQL-backed repository for per-user app
// identities.
package apps

import (
	"context"
	"fmt"

	"github.com/screenbudget/backend/internal/dbx"
	"github.com/screenbudget/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert keeps the originally assigned category on conflict; only the
// display name and last_detected are refreshed on re-sync.
func (r *PostgresRepository) Upsert(ctx context.Context, app *models.UserApp) (*models.UserApp, error) {
	query := `
		INSERT INTO user_apps (user_id, bundle_id, app_name, category_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, bundle_id)
		DO UPDATE SET app_name = EXCLUDED.app_name, last_detected = now()
		RETURNING id, category_type, first_detected, last_detected
	`
	err := r.db.QueryRowContext(ctx, query,
		app.UserID, app.BundleID, app.AppName, app.CategoryType).
		Scan(&app.ID, &app.CategoryType, &app.FirstDetected, &app.LastDetected)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert app: %w", err)
	}
	return app, nil
}
