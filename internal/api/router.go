// Package api provides the HTTP API for SafarBus.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/safarbus/safarbus/internal/api/handler"
	"github.com/safarbus/safarbus/internal/api/middleware"
	"github.com/safarbus/safarbus/internal/auth"
	"github.com/safarbus/safarbus/internal/booking"
	"github.com/safarbus/safarbus/internal/disruption"
	"github.com/safarbus/safarbus/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version        string
	BuildTime      string
	Logger         zerolog.Logger
	ServiceName    string
	Metrics        *middleware.Metrics
	Verifier       *auth.Verifier
	Disruptions    *disruption.Handler
	BookingService *booking.Service
	DB             handler.Pinger
	Registry       *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "safarbus-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(handler.OpsHandlerConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		DB:        cfg.DB,
		Registry:  cfg.Registry,
	})
	disruptionHandler := handler.NewDisruptionHandler(cfg.Disruptions)
	refundHandler := handler.NewRefundHandler(cfg.BookingService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.Verifier)

	// Create rate limit middleware for different endpoint categories
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Trip disruption endpoints (authenticated, operator-facing)
		r.Route("/trips/{tripId}", func(r chi.Router) {
			r.Use(authMiddleware)
			// Disruption submission runs a remote transaction; keep it
			// behind the strict limit.
			r.With(middleware.RateLimitByUser(middleware.ExpensiveRateLimit)).
				Post("/disruption", disruptionHandler.ReportDisruption)
			r.With(middleware.RateLimitByUser(middleware.StandardRateLimit)).
				Get("/alternatives", disruptionHandler.GetAlternatives)
		})

		// Ad-hoc refund calculation (public, pure compute)
		r.With(standardRateLimit).Post("/refunds/quote", refundHandler.QuoteRefund)

		// Booking-bound refund quote (authenticated)
		r.Route("/bookings/{bookingId}", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Get("/refund-quote", refundHandler.BookingRefundQuote)
		})
	})

	return r
}
