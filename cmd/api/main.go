// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/carterperez-dev/templates/job-board/internal/admin"
	"github.com/carterperez-dev/templates/job-board/internal/application"
	"github.com/carterperez-dev/templates/job-board/internal/auth"
	"github.com/carterperez-dev/templates/job-board/internal/config"
	"github.com/carterperez-dev/templates/job-board/internal/core"
	"github.com/carterperez-dev/templates/job-board/internal/events"
	"github.com/carterperez-dev/templates/job-board/internal/health"
	"github.com/carterperez-dev/templates/job-board/internal/job"
	"github.com/carterperez-dev/templates/job-board/internal/metrics"
	"github.com/carterperez-dev/templates/job-board/internal/middleware"
	"github.com/carterperez-dev/templates/job-board/internal/server"
	"github.com/carterperez-dev/templates/job-board/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		configPath = ""
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}
	if telemetry.Exporting() {
		logger.Info("exporting traces",
			"endpoint", cfg.Otel.Endpoint,
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(cfg.Database.URL, logger); err != nil {
			return err
		}
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	hasher, err := core.NewPasswordHasher(core.DefaultArgon2Params)
	if err != nil {
		return err
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	healthDeps := []health.Dependency{
		{Name: "database", Checker: db, Critical: true},
		{Name: "redis", Checker: redis, Critical: true},
	}

	var (
		publisher     events.Publisher = events.NoopPublisher{}
		amqpPublisher *events.AMQPPublisher
	)
	if cfg.Events.Enabled {
		amqpPublisher, err = events.NewAMQPPublisher(cfg.Events)
		if err != nil {
			return err
		}
		publisher = amqpPublisher
		healthDeps = append(healthDeps, health.Dependency{Name: "broker", Checker: amqpPublisher})
		logger.Info("event publisher connected",
			"exchange", cfg.Events.Exchange,
		)
	}

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, hasher, publisher)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(
		jwtManager,
		userSvc,
		auth.NewRedisRevoker(redis.Client),
		hasher,
		cfg.Auth.AllowAdminSignup,
	)
	authHandler := auth.NewHandler(authSvc)

	jobRepo := job.NewRepository(db.DB)
	jobSvc := job.NewService(jobRepo, publisher)
	jobHandler := job.NewHandler(jobSvc)

	applicationRepo := application.NewRepository(db.DB)
	applicationSvc := application.NewService(applicationRepo, jobSvc, publisher)
	applicationHandler := application.NewHandler(applicationSvc)

	if cfg.Auth.AdminEmail != "" {
		created, err := userSvc.EnsureAdmin(ctx,
			cfg.Auth.AdminName,
			cfg.Auth.AdminEmail,
			cfg.Auth.AdminPassword,
		)
		if err != nil {
			return err
		}
		if created {
			logger.Info("bootstrap admin created", "email", cfg.Auth.AdminEmail)
		}
	}

	healthHandler := health.NewHandler(healthDeps...)

	adminBackends := []admin.Backend{
		{Name: "database", Ping: db.Ping, Pool: admin.SQLPool(db.Stats)},
		{Name: "redis", Ping: redis.Ping, Pool: admin.RedisPool(redis.PoolStats)},
	}
	if amqpPublisher != nil {
		adminBackends = append(adminBackends, admin.Backend{Name: "broker", Ping: amqpPublisher.Ping})
	}
	adminHandler := admin.NewHandler(admin.Counters{
		UsersByRole:  userSvc.CountByRole,
		Jobs:         jobSvc.Count,
		Applications: applicationSvc.Count,
	}, adminBackends...)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	proxyTrust, err := middleware.NewProxyTrust(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}

	router := srv.Router()
	probe := isProbe(cfg.Metrics.Path)

	router.Use(proxyTrust.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(metrics.InstrumentHandler(cfg.Metrics.Path))
	}
	router.Use(telemetry.HTTPMiddleware(cfg.Otel.ServiceName, probe))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Name: "global",
			Quota: middleware.Quota{
				Requests: cfg.RateLimit.Requests,
				Burst:    cfg.RateLimit.Burst,
				Window:   cfg.RateLimit.Window,
			},
			Skip:     probe,
			OnReject: metrics.RecordRateLimited,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin
	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Name: "auth",
		Quota: middleware.Quota{
			Requests: cfg.RateLimit.AuthRequests,
			Burst:    cfg.RateLimit.AuthBurst,
			Window:   cfg.RateLimit.Window,
		},
		OnReject: metrics.RecordRateLimited,
	}).Handler

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, authLimiter)
		jobHandler.RegisterRoutes(r, authenticator)
		applicationHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	if err := srv.MountStatic(); err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := publisher.Close(); err != nil {
		logger.Error("event publisher close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func isProbe(metricsPath string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		switch r.URL.Path {
		case "/healthz", "/livez", "/readyz", metricsPath:
			return true
		}
		return strings.HasPrefix(r.URL.Path, "/.well-known/")
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
