// Package rest exposes the HTTP API: usage ingest and aggregation, budgets,
// alerts, weekly goals and insights, break reminders, and usage export.
// Handlers authenticate via bearer tokens and reply with a JSON envelope.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/screenbudget/backend/internal/logging"
	"github.com/screenbudget/backend/internal/server/models"
	"github.com/screenbudget/backend/internal/server/services"
)

// BudgetService is the budget surface the handlers need.
type BudgetService interface {
	Create(ctx context.Context, userID string, monthYear time.Time, categories []services.CategoryBudgetInput) (*models.Budget, error)
	Current(ctx context.Context, userID string, now time.Time) (*models.Budget, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, monthlyHours float64, isExcluded *bool) (*models.CategoryBudget, error)
}

// UsageService ingests sync batches and serves daily status.
type UsageService interface {
	Sync(ctx context.Context, userID string, date time.Time, apps []services.AppUsageInput) *services.SyncResult
	DailyStatus(ctx context.Context, userID string, date time.Time) (*models.BudgetStatus, error)
}

// AlertService runs the overage engine and manages stored alerts.
type AlertService interface {
	CheckAndTrigger(ctx context.Context, userID string, date time.Time, dailyUsage, monthlyUsage map[string]int) ([]models.AlertSummary, []models.Notification, error)
	List(ctx context.Context, userID string, limit int) ([]*models.BudgetAlert, error)
	Dismiss(ctx context.Context, userID, alertID string) error
}

// GoalService manages weekly reduction goals.
type GoalService interface {
	Current(ctx context.Context, userID string, now time.Time) (*models.WeeklyGoal, error)
	Set(ctx context.Context, userID string, targetMinutes int, weekStart time.Time) (*models.WeeklyGoal, error)
	UpdateProgress(ctx context.Context, userID string, date time.Time) (*models.WeeklyGoal, error)
	History(ctx context.Context, userID string, limit int) ([]*models.WeeklyGoal, error)
}

// InsightsService builds weekly summaries.
type InsightsService interface {
	Weekly(ctx context.Context, userID string, ref time.Time) (*models.WeeklyInsights, error)
}

// ReminderService manages break-reminder settings.
type ReminderService interface {
	Get(ctx context.Context, userID string) (*models.BreakReminder, error)
	Update(ctx context.Context, userID string, input services.UpdateReminderInput) (*models.BreakReminder, error)
}

// ExportService uploads usage exports and returns download URLs.
type ExportService interface {
	Export(ctx context.Context, userID string, from, to time.Time) (string, error)
}

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Budgets   BudgetService
	Usage     UsageService
	Alerts    AlertService
	Goals     GoalService
	Insights  InsightsService
	Reminders ReminderService
	Exports   ExportService
}

// Server holds the handler dependencies. It is an http.Handler factory,
// not a listener; the app owns the net/http server.
type Server struct {
	logger    logging.Logger
	secretKey []byte
	services  Services
}

// NewServer constructs the HTTP API server.
func NewServer(logger logging.Logger, secretKey []byte, services Services) *Server {
	return &Server{
		logger:    logger,
		secretKey: secretKey,
		services:  services,
	}
}

// Routes builds the router: CORS, then bearer-token auth, then the API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/usage/sync", s.handleUsageSync)
		r.Get("/usage/daily", s.handleUsageDaily)
		r.Get("/usage/export", s.handleUsageExport)

		r.Post("/budgets", s.handleBudgetCreate)
		r.Get("/budgets/current", s.handleBudgetCurrent)
		r.Patch("/budgets/categories/{categoryID}", s.handleBudgetUpdateCategory)

		r.Get("/alerts", s.handleAlertList)
		r.Post("/alerts/{alertID}/dismiss", s.handleAlertDismiss)

		r.Get("/goals/current", s.handleGoalCurrent)
		r.Post("/goals", s.handleGoalSet)
		r.Get("/goals/history", s.handleGoalHistory)

		r.Get("/insights/weekly", s.handleInsightsWeekly)

		r.Get("/break-reminders", s.handleReminderGet)
		r.Patch("/break-reminders", s.handleReminderUpdate)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
