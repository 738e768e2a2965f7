package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/screenbudget/backend/internal/common"
)

func (s *Server) handleInsightsWeekly(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ref, err := parseDate(r.URL.Query().Get("weekStart"), time.Time{})
	if err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: weekStart must be YYYY-MM-DD", common.ErrValidation))
		return
	}

	insights, err := s.services.Insights.Weekly(ctx, userID(ctx), ref)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, insights)
}
