package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/calendar-api/internal/config"
	"github.com/zapponejosh/calendar-api/internal/metrics"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /metrics                                       (METRICS_ENABLED)
//	GET    /api/v1/calendars
//	GET    /api/v1/calendars/{system}
//	GET    /api/v1/calendars/{system}/leap/{year}
//	GET    /api/v1/calendars/{system}/days/{year}/{month}
//	GET    /api/v1/calendars/{system}/jd?year&month&day
//	GET    /api/v1/calendars/{system}/date/{jd}
//	GET    /api/v1/convert?from&to&year&month&day
//	GET    /api/v1/concordance?from&to
//	GET    /api/v1/concordance/stats
//	GET    /api/v1/concordance/{jd}
//	POST   /api/v1/concordance/build                      (API key)
//	DELETE /api/v1/concordance?from&to                    (API key)
//	GET    /api/v1/easter/{year}?method
//	GET    /api/v1/easter.ics?from&years&reckoning
//	GET    /api/v1/liturgical/{jd}?reckoning
//	GET    /api/v1/hebrew/numeral/{n}?flags
//	GET    /api/v1/hebrew/date/{jd}?flags
func SetupRoutes(handlers *Handlers, cfg *config.Config, m *metrics.Metrics, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(log),
		RequestIDMiddleware(),
		LoggingMiddleware(log),
		MetricsMiddleware(m),
		CORSMiddleware(),
	)

	r.Get("/health", handlers.HealthCheck)
	if cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		handlers.Register(r)

		// ======================================================================
		// Write routes (API key)
		// ======================================================================
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, log))
			r.Post("/concordance/build", handlers.BuildConcordance)
			r.Delete("/concordance", handlers.DeleteConcordance)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	return r
}

// Register mounts the public read routes on r.
func (h *Handlers) Register(r chi.Router) {
	r.Get("/calendars", h.ListCalendars)
	r.Route("/calendars/{system}", func(r chi.Router) {
		r.Get("/", h.GetCalendar)
		r.Get("/leap/{year}", h.LeapYear)
		r.Get("/days/{year}/{month}", h.DaysInMonth)
		r.Get("/jd", h.ToJD)
		r.Get("/date/{jd}", h.FromJD)
	})
	r.Get("/convert", h.Convert)

	r.Get("/concordance", h.ListConcordance)
	r.Get("/concordance/stats", h.ConcordanceStats)
	r.Get("/concordance/{jd}", h.GetConcordance)

	r.Get("/easter/{year}", h.GetEaster)
	r.Get("/easter.ics", h.EasterFeed)
	r.Get("/liturgical/{jd}", h.LiturgicalDay)

	r.Get("/hebrew/numeral/{n}", h.HebrewNumeral)
	r.Get("/hebrew/date/{jd}", h.HebrewDate)
}
