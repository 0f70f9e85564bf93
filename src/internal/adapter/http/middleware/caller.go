package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/api-sage/movement-ledger/src/internal/logger"
)

const CallerHeader = "X-User-ID"

type callerKey struct{}

// RequireCaller reads the authenticated user id forwarded by the session layer
// and stores it on the request context.
func RequireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(CallerHeader))
		if userID == "" {
			logger.Warn("caller middleware missing user id", logger.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			http.Error(w, CallerHeader+" header is required", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCallerID(r.Context(), userID)))
	})
}

func WithCallerID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, callerKey{}, userID)
}

// CallerID returns the user id set by RequireCaller, or "".
func CallerID(ctx context.Context) string {
	userID, _ := ctx.Value(callerKey{}).(string)
	return userID
}
