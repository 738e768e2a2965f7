package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/screenbudget/backend/internal/common"
	"github.com/screenbudget/backend/internal/server/auth"
)

type ctxKey int

const userIDKey ctxKey = 0

// userID returns the authenticated user id stored by the middleware.
func userID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// authenticate verifies the bearer token and stores the user id in the
// request context. Requests without a valid token get a 401 envelope.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(r.Context(), w, common.ErrUnauthorized)
			return
		}

		id, err := auth.GetUserIDFromToken(token, s.secretKey)
		if err != nil || id == "" {
			s.writeError(r.Context(), w, common.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	})
}
