package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/screenbudget/backend/internal/common"
	"github.com/screenbudget/backend/internal/server/services"
)

func (s *Server) handleReminderGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reminder, err := s.services.Reminders.Get(ctx, userID(ctx))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reminder)
}

func (s *Server) handleReminderUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input services.UpdateReminderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeError(ctx, w, fmt.Errorf("%w: invalid JSON body", common.ErrValidation))
		return
	}

	reminder, err := s.services.Reminders.Update(ctx, userID(ctx), input)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reminder)
}
