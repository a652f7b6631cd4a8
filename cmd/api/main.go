package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/allocations"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/api/router"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/appointments"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/availability"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/bookingkey"
	appconfig "github.com/noyou75/GitlabsApp-Backend-sub000/internal/config"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/directory"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/holidays"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/laborders"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/observability/metrics"
	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/pricing"
	"github.com/noyou75/GitlabsApp-Backend-sub000/pkg/logging"
)

func main() {
	// Load .env in development; ignore absence in deployed environments.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting availability API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.BookingKeySecret == "" {
		logger.Error("BOOKING_KEY_SECRET is required")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to reach postgres", "error", err)
		os.Exit(1)
	}

	redisClient := newRedisClient(cfg)
	defer redisClient.Close() //nolint:errcheck
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// Caches degrade to their inner sources, so redis being down is
		// a warning, not a startup failure.
		logger.Warn("redis unreachable at startup", "addr", cfg.RedisAddr, "error", err)
	}

	codec, err := bookingkey.NewCodec([]byte(cfg.BookingKeySecret))
	if err != nil {
		logger.Error("failed to build booking key codec", "error", err)
		os.Exit(1)
	}

	directoryRepo := directory.NewRepository(pool)
	areaResolver := directory.NewCachedResolver(directoryRepo, redisClient, cfg.ServiceAreaCacheTTL, logger)
	holidayCal := holidays.NewCachedCalendar(
		holidays.NewRepository(pool, holidays.DefaultIgnored),
		redisClient, cfg.HolidayCacheTTL, logger,
	)

	availabilityMetrics := metrics.NewAvailabilityMetrics(prometheus.DefaultRegisterer)

	availabilitySvc := availability.NewService(availability.Config{
		Areas:          areaResolver,
		Specialists:    directoryRepo,
		Allocations:    allocations.NewRepository(pool),
		Holidays:       holidayCal,
		LabOrders:      laborders.NewRepository(pool),
		Registry:       pricing.NewRegistry(),
		Codec:          codec,
		Metrics:        availabilityMetrics,
		Logger:         logger,
		MinimumNotice:  cfg.MinimumNotice,
		PriorityNotice: cfg.PriorityNotice,
		MaxHorizonDays: cfg.MaxHorizonDays,
	})
	appointmentsSvc := appointments.NewService(appointments.ServiceConfig{
		Store:   appointments.NewRepository(pool),
		Areas:   areaResolver,
		Codec:   codec,
		Metrics: availabilityMetrics,
		Logger:  logger,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		Availability:       availability.NewHandler(availabilitySvc, logger),
		Appointments:       appointments.NewHandler(appointmentsSvc, logger),
		MetricsHandler:     promhttp.Handler(),
		StaffJWTSecret:     cfg.StaffJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// newRedisClient builds the shared cache client, with TLS when the
// deployment fronts redis with it.
func newRedisClient(cfg *appconfig.Config) *redis.Client {
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}
