package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/screenbudget/backend/internal/common"
)

func (s *Server) handleGoalCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	goal, err := s.services.Goals.Current(ctx, userID(ctx), time.Now())
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, goal)
}

type setGoalRequest struct {
	TargetMinutes int    `json:"targetMinutes"`
	WeekStart     string `json:"weekStart"`
}

func (s *Server) handleGoalSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req setGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}
	weekStart, err := parseDate(req.WeekStart, time.Time{})
	if err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: weekStart must be YYYY-MM-DD", common.ErrValidation))
		return
	}

	goal, err := s.services.Goals.Set(ctx, userID(ctx), req.TargetMinutes, weekStart)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleGoalHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	goals, err := s.services.Goals.History(ctx, userID(ctx), limit)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, goals)
}
