package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/screenbudget/backend/internal/common"
	"github.com/screenbudget/backend/internal/logging"
	"github.com/screenbudget/backend/internal/server/auth"
	"github.com/screenbudget/backend/internal/server/models"
	"github.com/screenbudget/backend/internal/server/services"
)

// -------- service fakes --------

type fakeBudgetSvc struct {
	budget  *models.Budget
	cat     *models.CategoryBudget
	err     error
	lastCat []services.CategoryBudgetInput
}

func (f *fakeBudgetSvc) Create(ctx context.Context, userID string, monthYear time.Time, categories []services.CategoryBudgetInput) (*models.Budget, error) {
	f.lastCat = categories
	return f.budget, f.err
}

func (f *fakeBudgetSvc) Current(ctx context.Context, userID string, now time.Time) (*models.Budget, error) {
	return f.budget, f.err
}

func (f *fakeBudgetSvc) UpdateCategory(ctx context.Context, userID, categoryID string, monthlyHours float64, isExcluded *bool) (*models.CategoryBudget, error) {
	return f.cat, f.err
}

type fakeUsageSvc struct {
	result    *services.SyncResult
	status    *models.BudgetStatus
	statusErr error

	syncedUser string
	syncedDate time.Time
}

func (f *fakeUsageSvc) Sync(ctx context.Context, userID string, date time.Time, apps []services.AppUsageInput) *services.SyncResult {
	f.syncedUser = userID
	f.syncedDate = date
	return f.result
}

func (f *fakeUsageSvc) DailyStatus(ctx context.Context, userID string, date time.Time) (*models.BudgetStatus, error) {
	return f.status, f.statusErr
}

type fakeAlertSvc struct {
	alerts        []models.AlertSummary
	notifications []models.Notification
	list          []*models.BudgetAlert
	err           error
	dismissErr    error

	checkedDaily   map[string]int
	checkedMonthly map[string]int
}

func (f *fakeAlertSvc) CheckAndTrigger(ctx context.Context, userID string, date time.Time, dailyUsage, monthlyUsage map[string]int) ([]models.AlertSummary, []models.Notification, error) {
	f.checkedDaily = dailyUsage
	f.checkedMonthly = monthlyUsage
	return f.alerts, f.notifications, f.err
}

func (f *fakeAlertSvc) List(ctx context.Context, userID string, limit int) ([]*models.BudgetAlert, error) {
	return f.list, f.err
}

func (f *fakeAlertSvc) Dismiss(ctx context.Context, userID, alertID string) error {
	return f.dismissErr
}

type fakeGoalSvc struct {
	goal        *models.WeeklyGoal
	list        []*models.WeeklyGoal
	err         error
	progressErr error
	progressed  bool
}

func (f *fakeGoalSvc) Current(ctx context.Context, userID string, now time.Time) (*models.WeeklyGoal, error) {
	return f.goal, f.err
}

func (f *fakeGoalSvc) Set(ctx context.Context, userID string, targetMinutes int, weekStart time.Time) (*models.WeeklyGoal, error) {
	return f.goal, f.err
}

func (f *fakeGoalSvc) UpdateProgress(ctx context.Context, userID string, date time.Time) (*models.WeeklyGoal, error) {
	f.progressed = true
	return nil, f.progressErr
}

func (f *fakeGoalSvc) History(ctx context.Context, userID string, limit int) ([]*models.WeeklyGoal, error) {
	return f.list, f.err
}

type fakeInsightsSvc struct {
	insights *models.WeeklyInsights
	err      error
}

func (f *fakeInsightsSvc) Weekly(ctx context.Context, userID string, ref time.Time) (*models.WeeklyInsights, error) {
	return f.insights, f.err
}

type fakeReminderSvc struct {
	reminder *models.BreakReminder
	err      error
}

func (f *fakeReminderSvc) Get(ctx context.Context, userID string) (*models.BreakReminder, error) {
	return f.reminder, f.err
}

func (f *fakeReminderSvc) Update(ctx context.Context, userID string, input services.UpdateReminderInput) (*models.BreakReminder, error) {
	return f.reminder, f.err
}

type fakeExportSvc struct {
	url string
	err error
}

func (f *fakeExportSvc) Export(ctx context.Context, userID string, from, to time.Time) (string, error) {
	return f.url, f.err
}

// -------- helpers --------

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T, svcs Services) *Server {
	t.Helper()
	if svcs.Goals == nil {
		svcs.Goals = &fakeGoalSvc{}
	}
	return NewServer(logging.NewJSON(), testSecret, svcs)
}

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken("user-1", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return env
}

// -------- tests --------

func TestAuthentication(t *testing.T) {
	srv := newTestServer(t, Services{Alerts: &fakeAlertSvc{}})
	handler := srv.Routes()

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/alerts", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if env := decode(t, rec); env.Success {
			t.Fatal("envelope must report failure")
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/alerts", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})
}

func TestUsageSync_FullPipeline(t *testing.T) {
	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	usage := &fakeUsageSvc{
		result: &services.SyncResult{Synced: 2, Errors: []string{}},
		status: &models.BudgetStatus{
			Date: day,
			Categories: map[string]models.CategoryStatus{
				"social_media": {TotalMinutes: 70, MonthlyUsed: 900, Status: models.StatusOver},
			},
			TotalMinutes: 70,
		},
	}
	alerts := &fakeAlertSvc{
		alerts:        []models.AlertSummary{{Category: "Social Media", OverageMinutes: 10}},
		notifications: []models.Notification{{Type: models.NotificationDailyOverage}},
	}
	goals := &fakeGoalSvc{}
	srv := newTestServer(t, Services{Usage: usage, Alerts: alerts, Goals: goals})

	body, _ := json.Marshal(syncRequest{
		Date: "2026-06-15",
		Apps: []services.AppUsageInput{
			{BundleID: "com.instagram.ios", AppName: "Instagram", TotalMinutes: 45},
			{BundleID: "com.netflix.Netflix", AppName: "Netflix", TotalMinutes: 25},
		},
	})
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/usage/sync", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	env := decode(t, rec)
	if !env.Success {
		t.Fatalf("envelope = %+v", env)
	}

	if usage.syncedUser != "user-1" {
		t.Fatalf("synced user = %q", usage.syncedUser)
	}
	if alerts.checkedDaily["social_media"] != 70 || alerts.checkedMonthly["social_media"] != 900 {
		t.Fatalf("alert engine input = %v / %v", alerts.checkedDaily, alerts.checkedMonthly)
	}
	if !goals.progressed {
		t.Fatal("goal progress must run after sync")
	}

	data, _ := json.Marshal(env.Data)
	var resp syncResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if resp.Synced != 2 || len(resp.Alerts) != 1 || len(resp.Notifications) != 1 {
		t.Fatalf("response = %+v", resp)
	}
}

func TestUsageSync_NoBudgetStillSucceeds(t *testing.T) {
	usage := &fakeUsageSvc{
		result:    &services.SyncResult{Synced: 1, Errors: []string{}},
		statusErr: common.ErrNoBudget,
	}
	alerts := &fakeAlertSvc{}
	srv := newTestServer(t, Services{Usage: usage, Alerts: alerts})

	body, _ := json.Marshal(syncRequest{
		Apps: []services.AppUsageInput{{BundleID: "a", AppName: "A", TotalMinutes: 5}},
	})
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/usage/sync", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if alerts.checkedDaily != nil {
		t.Fatal("alert engine must not run without a status")
	}
}

func TestUsageSync_Validation(t *testing.T) {
	srv := newTestServer(t, Services{Usage: &fakeUsageSvc{}, Alerts: &fakeAlertSvc{}})
	handler := srv.Routes()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"empty apps", `{"apps": []}`},
		{"bad date", `{"date": "June 15", "apps": [{"bundleId": "a"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/usage/sync", []byte(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestUsageDaily_NoBudgetIs404(t *testing.T) {
	srv := newTestServer(t, Services{Usage: &fakeUsageSvc{statusErr: common.ErrNoBudget}})

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/usage/daily?date=2026-06-15", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env := decode(t, rec); env.Success || env.Error == "" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestBudgetCreate(t *testing.T) {
	budget := &models.Budget{ID: "b1", UserID: "user-1"}
	svc := &fakeBudgetSvc{budget: budget}
	srv := newTestServer(t, Services{Budgets: svc})

	body := []byte(`{"monthYear": "2026-06-01", "categories": [{"categoryType": "gaming", "categoryName": "Gaming", "monthlyHours": 20}]}`)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/budgets", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(svc.lastCat) != 1 || svc.lastCat[0].CategoryType != "gaming" {
		t.Fatalf("categories passed = %+v", svc.lastCat)
	}
}

func TestBudgetCreate_ValidationErrorIs400(t *testing.T) {
	svc := &fakeBudgetSvc{err: common.ErrValidation}
	srv := newTestServer(t, Services{Budgets: svc})

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/budgets", []byte(`{"categories": []}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAlertDismiss_NotFound(t *testing.T) {
	srv := newTestServer(t, Services{Alerts: &fakeAlertSvc{dismissErr: common.ErrNotFound}})

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/alerts/al9/dismiss", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestInternalErrorIsOpaque(t *testing.T) {
	srv := newTestServer(t, Services{Insights: &fakeInsightsSvc{err: errors.New("pq: connection refused")}})

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/insights/weekly", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	env := decode(t, rec)
	if env.Error != "internal server error" {
		t.Fatalf("error = %q, internals must not leak", env.Error)
	}
}

func TestReminderRoundTrip(t *testing.T) {
	reminder := &models.BreakReminder{ID: "r1", IsEnabled: true, IntervalMinutes: 60, BreakDurationMinutes: 5}
	srv := newTestServer(t, Services{Reminders: &fakeReminderSvc{reminder: reminder}})
	handler := srv.Routes()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/break-reminders", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, http.MethodPatch, "/api/break-reminders", []byte(`{"intervalMinutes": 45}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d", rec.Code)
	}
}

func TestUsageExport(t *testing.T) {
	srv := newTestServer(t, Services{Exports: &fakeExportSvc{url: "http://minio/exports/user-1/x.json"}})

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/usage/export?from=2026-06-01&to=2026-06-15", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	env := decode(t, rec)
	data, _ := json.Marshal(env.Data)
	var resp map[string]string
	_ = json.Unmarshal(data, &resp)
	if resp["url"] == "" {
		t.Fatalf("data = %+v", env.Data)
	}
}

func TestHealthEndpointIsPublic(t *testing.T) {
	srv := newTestServer(t, Services{})

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
