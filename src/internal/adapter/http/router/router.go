package router

import (
	"net/http"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/adapter/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type MovementRouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// New builds the HTTP surface. Movement routes need channel credentials and a
// caller id; the notification socket needs channel credentials only.
func New(
	movementController MovementRouteRegistrar,
	notificationHandler http.Handler,
	authMiddleware func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)

	registerSwaggerRoutes(r)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}

		if notificationHandler != nil {
			r.Handle("/notifications/ws", notificationHandler)
		}

		if movementController != nil {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCaller)
				r.Use(chimiddleware.Timeout(30 * time.Second))
				movementController.RegisterRoutes(r)
			})
		}
	})

	return r
}
