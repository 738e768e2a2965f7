package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/screenbudget/backend/internal/common"
	"github.com/screenbudget/backend/internal/server/models"
	"github.com/screenbudget/backend/internal/server/services"
)

type syncRequest struct {
	Date string                   `json:"date"`
	Apps []services.AppUsageInput `json:"apps"`
}

type syncResponse struct {
	Synced        int                   `json:"synced"`
	Errors        []string              `json:"errors"`
	Status        *models.BudgetStatus  `json:"status,omitempty"`
	Alerts        []models.AlertSummary `json:"alerts"`
	Notifications []models.Notification `json:"notifications"`
}

// handleUsageSync ingests a batch of app totals, then recomputes the day's
// status, runs the alert engine on it, and refreshes goal progress. A user
// without a budget still gets their usage stored; status stays empty.
func (s *Server) handleUsageSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := userID(ctx)

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}
	if len(req.Apps) == 0 {
		s.writeError(ctx, w, fmt.Errorf("%w: apps must be a non-empty array", common.ErrValidation))
		return
	}
	date, err := parseDate(req.Date, time.Now())
	if err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: date must be YYYY-MM-DD", common.ErrValidation))
		return
	}

	result := s.services.Usage.Sync(ctx, uid, date, req.Apps)

	resp := &syncResponse{
		Synced:        result.Synced,
		Errors:        result.Errors,
		Alerts:        []models.AlertSummary{},
		Notifications: []models.Notification{},
	}

	status, err := s.services.Usage.DailyStatus(ctx, uid, date)
	if err != nil && !errors.Is(err, common.ErrNoBudget) {
		s.writeError(ctx, w, err)
		return
	}

	if status != nil {
		resp.Status = status

		dailyUsage := make(map[string]int, len(status.Categories))
		monthlyUsage := make(map[string]int, len(status.Categories))
		for categoryType, cat := range status.Categories {
			dailyUsage[categoryType] = cat.TotalMinutes
			monthlyUsage[categoryType] = cat.MonthlyUsed
		}

		alerts, notifications, err := s.services.Alerts.CheckAndTrigger(ctx, uid, date, dailyUsage, monthlyUsage)
		if err != nil {
			s.writeError(ctx, w, err)
			return
		}
		resp.Alerts = alerts
		resp.Notifications = notifications
	}

	// Goal progress is best-effort: a failure here must not fail the sync.
	if _, err := s.services.Goals.UpdateProgress(ctx, uid, date); err != nil {
		s.logger.Warn(ctx, "goal progress update failed", "error", err)
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUsageDaily(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, err := parseDate(r.URL.Query().Get("date"), time.Now())
	if err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: date must be YYYY-MM-DD", common.ErrValidation))
		return
	}

	status, err := s.services.Usage.DailyStatus(ctx, userID(ctx), date)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleUsageExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	now := time.Now()
	from, err := parseDate(q.Get("from"), now.AddDate(0, 0, -30))
	if err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: from must be YYYY-MM-DD", common.ErrValidation))
		return
	}
	to, err := parseDate(q.Get("to"), now)
	if err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: to must be YYYY-MM-DD", common.ErrValidation))
		return
	}

	url, err := s.services.Exports.Export(ctx, userID(ctx), from, to)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
