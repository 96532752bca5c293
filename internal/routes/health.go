package routes

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterHealthRoutes creates the health check endpoints. db is nil when the
// in-memory review store is selected; readiness then only reflects liveness.
func RegisterHealthRoutes(db *sql.DB) func(r chi.Router) {
	return func(r chi.Router) {
		r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
			if db != nil {
				if err := db.PingContext(r.Context()); err != nil {
					w.WriteHeader(http.StatusServiceUnavailable)
					w.Write([]byte("database not ready"))
					return
				}
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ready"))
		})
	}
}
