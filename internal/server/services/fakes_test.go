package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/screenbudget/backend/internal/common"
	"github.com/screenbudget/backend/internal/dbx"
	"github.com/screenbudget/backend/internal/server/models"
	"github.com/screenbudget/backend/internal/server/repositories/alerts"
	"github.com/screenbudget/backend/internal/server/repositories/apps"
	"github.com/screenbudget/backend/internal/server/repositories/budgets"
	"github.com/screenbudget/backend/internal/server/repositories/goals"
	"github.com/screenbudget/backend/internal/server/repositories/reminders"
	"github.com/screenbudget/backend/internal/server/repositories/repomanager"
	"github.com/screenbudget/backend/internal/server/repositories/usage"
)

// -------- test fakes --------

type fakeBudgetsRepo struct {
	budgets.Repository

	budget *models.Budget
	getErr error

	created   *models.Budget
	createErr error

	deleted []time.Time

	updatedCat *models.CategoryBudget
	updateErr  error
}

func (f *fakeBudgetsRepo) GetByMonth(ctx context.Context, userID string, monthYear time.Time) (*models.Budget, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.budget == nil {
		return nil, common.ErrNotFound
	}
	return f.budget, nil
}

func (f *fakeBudgetsRepo) DeleteByMonth(ctx context.Context, userID string, monthYear time.Time) error {
	f.deleted = append(f.deleted, monthYear)
	return nil
}

func (f *fakeBudgetsRepo) Create(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	budget.ID = "budget-1"
	f.created = budget
	return budget, nil
}

func (f *fakeBudgetsRepo) UpdateCategory(ctx context.Context, userID, categoryID string, monthlyHours float64, isExcluded *bool) (*models.CategoryBudget, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updatedCat, nil
}

type fakeAppsRepo struct {
	apps.Repository

	mu       sync.Mutex
	upserted []*models.UserApp
	errFor   map[string]error
}

func (f *fakeAppsRepo) Upsert(ctx context.Context, app *models.UserApp) (*models.UserApp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor[app.BundleID]; err != nil {
		return nil, err
	}
	stored := *app
	stored.ID = "app-" + app.BundleID
	f.upserted = append(f.upserted, &stored)
	return &stored, nil
}

type fakeUsageRepo struct {
	usage.Repository

	mu       sync.Mutex
	upserted []*models.DailyUsage
	upErr    error

	dayRows []models.UsageRow
	dayErr  error

	rangeRows []models.UsageRow
	rangeErr  error

	totals    []models.CategoryMinutes
	totalsErr error
}

func (f *fakeUsageRepo) Upsert(ctx context.Context, u *models.DailyUsage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upErr != nil {
		return f.upErr
	}
	f.upserted = append(f.upserted, u)
	return nil
}

func (f *fakeUsageRepo) Day(ctx context.Context, userID string, date time.Time) ([]models.UsageRow, error) {
	return f.dayRows, f.dayErr
}

func (f *fakeUsageRepo) Range(ctx context.Context, userID string, from, to time.Time) ([]models.UsageRow, error) {
	return f.rangeRows, f.rangeErr
}

func (f *fakeUsageRepo) CategoryTotals(ctx context.Context, userID string, from, to time.Time) ([]models.CategoryMinutes, error) {
	return f.totals, f.totalsErr
}

type fakeAlertsRepo struct {
	alerts.Repository

	created   []*models.BudgetAlert
	createErr error

	existing map[string]struct{}

	list    []*models.BudgetAlert
	listErr error

	dismissErr error
}

func (f *fakeAlertsRepo) Create(ctx context.Context, alert *models.BudgetAlert) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, alert)
	return nil
}

func (f *fakeAlertsRepo) CategoriesWithAlert(ctx context.Context, userID string, date time.Time) (map[string]struct{}, error) {
	if f.existing == nil {
		return map[string]struct{}{}, nil
	}
	return f.existing, nil
}

func (f *fakeAlertsRepo) List(ctx context.Context, userID string, limit int) ([]*models.BudgetAlert, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit < len(f.list) {
		return f.list[:limit], nil
	}
	return f.list, nil
}

func (f *fakeAlertsRepo) Dismiss(ctx context.Context, userID, alertID string) error {
	return f.dismissErr
}

type fakeGoalsRepo struct {
	goals.Repository

	byWeek    *models.WeeklyGoal
	byWeekErr error

	created   *models.WeeklyGoal
	createErr error

	upserted *models.WeeklyGoal

	progressID      string
	progressMinutes int
	progressDays    int

	list []*models.WeeklyGoal
}

func (f *fakeGoalsRepo) GetByWeek(ctx context.Context, userID string, weekStart time.Time) (*models.WeeklyGoal, error) {
	if f.byWeekErr != nil {
		return nil, f.byWeekErr
	}
	if f.byWeek == nil {
		return nil, common.ErrNotFound
	}
	return f.byWeek, nil
}

func (f *fakeGoalsRepo) Create(ctx context.Context, goal *models.WeeklyGoal) (*models.WeeklyGoal, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	goal.ID = "goal-1"
	f.created = goal
	return goal, nil
}

func (f *fakeGoalsRepo) Upsert(ctx context.Context, goal *models.WeeklyGoal) (*models.WeeklyGoal, error) {
	goal.ID = "goal-1"
	goal.IsActive = true
	f.upserted = goal
	return goal, nil
}

func (f *fakeGoalsRepo) UpdateProgress(ctx context.Context, goalID string, currentMinutes, daysCompleted int) error {
	f.progressID = goalID
	f.progressMinutes = currentMinutes
	f.progressDays = daysCompleted
	return nil
}

func (f *fakeGoalsRepo) List(ctx context.Context, userID string, limit int) ([]*models.WeeklyGoal, error) {
	return f.list, nil
}

type fakeRemindersRepo struct {
	reminders.Repository

	stored *models.BreakReminder
	getErr error
}

func (f *fakeRemindersRepo) Get(ctx context.Context, userID string) (*models.BreakReminder, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.stored == nil {
		return nil, common.ErrNotFound
	}
	return f.stored, nil
}

func (f *fakeRemindersRepo) Upsert(ctx context.Context, reminder *models.BreakReminder) (*models.BreakReminder, error) {
	stored := *reminder
	stored.ID = "reminder-1"
	f.stored = &stored
	return &stored, nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager

	b  *fakeBudgetsRepo
	a  *fakeAppsRepo
	u  *fakeUsageRepo
	al *fakeAlertsRepo
	g  *fakeGoalsRepo
	r  *fakeRemindersRepo
}

func (m *fakeRepoManager) Budgets(db dbx.DBTX) budgets.Repository     { return m.b }
func (m *fakeRepoManager) Apps(db dbx.DBTX) apps.Repository           { return m.a }
func (m *fakeRepoManager) Usage(db dbx.DBTX) usage.Repository         { return m.u }
func (m *fakeRepoManager) Alerts(db dbx.DBTX) alerts.Repository       { return m.al }
func (m *fakeRepoManager) Goals(db dbx.DBTX) goals.Repository         { return m.g }
func (m *fakeRepoManager) Reminders(db dbx.DBTX) reminders.Repository { return m.r }

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// monthBudget builds a budget for the month containing day with one
// category per input triple.
func monthBudget(day time.Time, cats ...models.CategoryBudget) *models.Budget {
	month := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	return &models.Budget{
		ID:         "budget-1",
		UserID:     "user-1",
		MonthYear:  month,
		Categories: cats,
	}
}
