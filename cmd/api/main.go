package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"docuflow/docs"
	"docuflow/internal/config"
	"docuflow/internal/database"
	"docuflow/internal/database/migration"
	handlers "docuflow/internal/http/handler"
	"docuflow/internal/http/middleware"
	"docuflow/internal/otel"
	"docuflow/internal/repository"
	"docuflow/internal/repository/postgres"
	"docuflow/internal/repository/snapshot"
	"docuflow/internal/service"
	"docuflow/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title DocuFlow API
// @version 1.0
// @BasePath /
func main() {
	if err := run(); err != nil {
		log.Fatalf("docuflow: %v", err)
	}
}

func run() error {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	repo, closeRepo, err := newRepository(ctx, cfg, loc)
	if err != nil {
		return err
	}
	defer closeRepo()

	store, err := newStorage(cfg)
	if err != nil {
		return err
	}

	docSvc := service.NewDocumentService(store, repo, logger)
	qaSvc := service.NewQAService(docSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.MaxUploadSize,
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Tracing, request id, JSON request log, metrics
	for _, h := range middleware.Chain(os.Stdout, loc, promMiddleware) {
		app.Use(h)
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	handlers.RegisterRoutes(app, docSvc, qaSvc, cfg.DevToken)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", ":"+cfg.Port,
			"store_backend", cfg.Store.Backend, "storage_backend", cfg.Store.StorageBackend)
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("server shutting down")
		return app.ShutdownWithContext(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newRepository opens the configured metadata backend. The returned func releases its resources.
func newRepository(ctx context.Context, cfg *config.AppConfig, loc *time.Location) (repository.DocumentRepository, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendSnapshot:
		repo, err := snapshot.NewDocumentSnapshot(cfg.Store.SnapshotPath())
		if err != nil {
			return nil, nil, fmt.Errorf("open snapshot store: %w", err)
		}
		return repo, func() {}, nil
	case config.StoreBackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		if err := database.RegisterStats(prometheus.DefaultRegisterer, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewDocumentPostgres(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
}

func newStorage(cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.Store.StorageBackend {
	case config.StorageBackendLocal:
		s, err := storage.NewLocal(cfg.Store.UploadsDir)
		if err != nil {
			return nil, fmt.Errorf("open uploads directory: %w", err)
		}
		return s, nil
	case config.StorageBackendMinIO:
		s, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("initialize object storage: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.Store.StorageBackend)
	}
}
