package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleAlertList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	alerts, err := s.services.Alerts.List(ctx, userID(ctx), limit)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleAlertDismiss(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.services.Alerts.Dismiss(ctx, userID(ctx), chi.URLParam(r, "alertID")); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"dismissed": true})
}
