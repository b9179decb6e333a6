/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the local front-end

ROUTE GROUPS:
  /api/activate   Rollover check on foreground
  /api/today/*    Current day
  /api/history/*  Archive
  /api/settings   Preferences

SECURITY NOTE:
  No authentication. The server is meant to listen on localhost for a
  single user's front-end.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/activate", h.Activate)

		r.Route("/today", func(r chi.Router) {
			r.Get("/", h.GetToday)
			r.Post("/records", h.AddRecord)
			r.Post("/records/quick", h.QuickAdd)
			r.Post("/records/delete", h.DeleteRecords)
			r.Put("/target", h.UpdateTarget)
			r.Post("/reset", h.Reset)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.ListHistory)
			r.Get("/stats", h.GetStats)
		})

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Intake Tracker</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Intake Tracker API</h1>
<ul>
<li><a href="/api/today">/api/today</a> - Today</li>
<li><a href="/api/history">/api/history</a> - Archived days</li>
<li><a href="/api/settings">/api/settings</a> - Settings</li>
</ul>
</body>
</html>`))
	})

	return r
}
