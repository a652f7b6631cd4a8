// Package router assembles the HTTP surface: availability queries,
// booking-key redemption, health, and metrics.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/appointments"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/availability"
	httpmiddleware "github.com/noyou75/GitlabsApp-Backend-sub000/internal/http/middleware"
	"github.com/noyou75/GitlabsApp-Backend-sub000/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Availability       *availability.Handler
	Appointments       *appointments.Handler
	MetricsHandler     http.Handler
	StaffJWTSecret     string
	CORSAllowedOrigins []string
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`)) //nolint:errcheck
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Booking surface. Staff identity is optional on every route: anonymous
	// callers get the patient view, staff tokens unlock overrides.
	r.Group(func(api chi.Router) {
		if cfg.StaffJWTSecret != "" {
			api.Use(httpmiddleware.StaffContext(cfg.StaffJWTSecret))
		}
		if cfg.Availability != nil {
			api.Get("/availability", cfg.Availability.GetAvailability)
		}
		if cfg.Appointments != nil {
			api.Post("/appointments", cfg.Appointments.Book)
		}
	})

	return r
}
