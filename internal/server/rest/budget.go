package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/screenbudget/backend/internal/common"
	"github.com/screenbudget/backend/internal/server/services"
)

type createBudgetRequest struct {
	MonthYear  string                         `json:"monthYear"`
	Categories []services.CategoryBudgetInput `json:"categories"`
}

func (s *Server) handleBudgetCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}
	month, err := parseDate(req.MonthYear, time.Now())
	if err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: monthYear must be YYYY-MM-DD", common.ErrValidation))
		return
	}

	budget, err := s.services.Budgets.Create(ctx, userID(ctx), month, req.Categories)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, budget)
}

func (s *Server) handleBudgetCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	budget, err := s.services.Budgets.Current(ctx, userID(ctx), time.Now())
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, budget)
}

type updateCategoryRequest struct {
	MonthlyHours float64 `json:"monthlyHours"`
	IsExcluded   *bool   `json:"isExcluded"`
}

func (s *Server) handleBudgetUpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}

	cat, err := s.services.Budgets.UpdateCategory(ctx, userID(ctx),
		chi.URLParam(r, "categoryID"), req.MonthlyHours, req.IsExcluded)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cat)
}
