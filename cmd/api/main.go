// Package main provides the entrypoint for the SafarBus API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/safarbus/safarbus/internal/api"
	"github.com/safarbus/safarbus/internal/api/middleware"
	"github.com/safarbus/safarbus/internal/auth"
	"github.com/safarbus/safarbus/internal/booking"
	"github.com/safarbus/safarbus/internal/database"
	"github.com/safarbus/safarbus/internal/disruption"
	"github.com/safarbus/safarbus/internal/disruption/supabase"
	"github.com/safarbus/safarbus/internal/policy"
	"github.com/safarbus/safarbus/internal/provider/resilience"
	"github.com/safarbus/safarbus/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "safarbus-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SafarBus API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize token verification (Supabase project JWT secret)
	jwtSecret := os.Getenv("SUPABASE_JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "local-dev-jwt-secret-change-in-production"
		log.Warn().Msg("using default JWT secret - not secure for production")
	}
	verifier := auth.NewVerifier(auth.VerifierConfig{JWTSecret: jwtSecret})
	log.Info().Msg("token verifier initialized")

	// Initialize policy repository and service
	policyRepo := policy.NewPostgresRepository(pool)
	policyService := policy.NewService(policy.ServiceConfig{
		Repository: policyRepo,
		Logger:     log,
		CacheTTL:   5 * time.Minute,
	})
	log.Info().Msg("policy service initialized")

	// Initialize booking repository and service
	bookingRepo := booking.NewPostgresRepository(pool)
	bookingService := booking.NewService(booking.ServiceConfig{
		Repository: bookingRepo,
		Policies:   policyService,
		Logger:     log,
	})
	log.Info().Msg("booking service initialized")

	// Initialize the Supabase RPC client and disruption handler
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_SERVICE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		log.Warn().Msg("Supabase RPC not configured - disruption endpoints will fail")
	}

	providerMetrics, err := middleware.NewProviderMetrics(supabase.ProviderName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}

	rpcClient := supabase.NewClient(supabase.ClientConfig{
		BaseURL:  supabaseURL,
		APIKey:   supabaseKey,
		Registry: resilience.GlobalRegistry,
		Metrics:  providerMetrics,
		Logger:   log,
	})
	disruptionHandler := disruption.NewHandler(disruption.HandlerConfig{
		RPC:      rpcClient,
		Notifier: disruption.NewLogNotifier(log),
		Logger:   log,
	})
	log.Info().Msg("disruption handler initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		Metrics:        metrics,
		Verifier:       verifier,
		Disruptions:    disruptionHandler,
		BookingService: bookingService,
		DB:             pool,
		Registry:       resilience.GlobalRegistry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
