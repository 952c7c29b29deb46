package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	_ "qualityweb/docs"
	"qualityweb/internal/auth"
	"qualityweb/internal/config"
	"qualityweb/internal/database"
	"qualityweb/internal/database/migration"
	handlers "qualityweb/internal/http/handler"
	"qualityweb/internal/http/middleware"
	"qualityweb/internal/logging"
	"qualityweb/internal/otel"
	"qualityweb/internal/repository/postgres"
	"qualityweb/internal/service"
	"qualityweb/internal/storage"
	"qualityweb/internal/upload"
)

const shutdownTimeout = 10 * time.Second

// @title                      Quality Management API
// @version                    1.0
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger := logging.New(os.Stdout, cfg.IsLocal(), cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, logger); err != nil {
			return err
		}
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	tokens, closeRedis, err := newTokenService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRedis()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	authSvc, err := service.NewAuthService(postgres.NewUserPostgres(db), tokens, logger, reg)
	if err != nil {
		return fmt.Errorf("init auth service: %w", err)
	}
	docSvc := service.NewDocumentService(
		store,
		postgres.NewDocumentPostgres(db),
		upload.DocumentPolicy(cfg.Storage.MaxUploadBytes),
		logger,
	)

	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Room for the multipart envelope around a maximum-size file.
		BodyLimit: int(cfg.Storage.MaxUploadBytes) + 1<<20,
	})

	app.Use(otelfiber.Middleware())
	app.Use(recover.New())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(metrics.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSAllowOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:               db,
		Tokens:           tokens,
		Auth:             authSvc,
		Documents:        docSvc,
		Audits:           service.NewAuditService(postgres.NewAuditPostgres(db)),
		Actions:          service.NewCorrectiveActionService(postgres.NewCorrectiveActionPostgres(db)),
		Indicators:       service.NewIndicatorService(postgres.NewIndicatorPostgres(db)),
		Summary:          service.NewSummaryService(postgres.NewSummaryPostgres(db)),
		Files:            store,
		FilesRequireAuth: cfg.Storage.FilesRequireAuth,
		Metrics:          promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Swagger:          true,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "storage", cfg.Storage.Backend)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newStorage(ctx context.Context, cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "minio":
		return storage.NewMinIO(ctx, cfg.MinIO)
	case "local":
		return storage.NewLocal(cfg.Storage.LocalDir)
	default:
		return nil, errors.New("unknown storage backend " + cfg.Storage.Backend)
	}
}

// newTokenService wires the Redis denylist when REDIS_ADDR is set. The
// returned function closes the Redis client.
func newTokenService(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*auth.TokenService, func(), error) {
	opts := []auth.Option{
		auth.WithIssuer(cfg.Auth.Issuer),
		auth.WithLogger(logger),
	}
	closeFn := func() {}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		opts = append(opts, auth.WithDenylist(auth.NewRedisDenylist(client, "qualityweb")))
		closeFn = func() { _ = client.Close() }
	} else {
		logger.Warn("REDIS_ADDR not set; logout cannot revoke tokens before they expire")
	}

	return auth.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL, opts...), closeFn, nil
}
