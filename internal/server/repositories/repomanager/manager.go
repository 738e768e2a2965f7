package repomanager

import (
	"context"
	"database/sql"

	"github.com/screenbudget/backend/internal/dbx"
	"github.com/screenbudget/backend/internal/server/repositories/alerts"
	"github.com/screenbudget/backend/internal/server/repositories/apps"
	"github.com/screenbudget/backend/internal/server/repositories/budgets"
	"github.com/screenbudget/backend/internal/server/repositories/goals"
	"github.com/screenbudget/backend/internal/server/repositories/reminders"
	"github.com/screenbudget/backend/internal/server/repositories/usage"
)

// RepositoryManager vends repositories bound to a DBTX (plain connection or
// transaction) so services can run multi-repository units of work inside
// dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Budgets(db dbx.DBTX) budgets.Repository
	Apps(db dbx.DBTX) apps.Repository
	Usage(db dbx.DBTX) usage.Repository
	Alerts(db dbx.DBTX) alerts.Repository
	Goals(db dbx.DBTX) goals.Repository
	Reminders(db dbx.DBTX) reminders.Repository
}
