package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gorm.io/gorm"

	apphttp "github.com/yungbote/peptide-insights-backend/internal/http"
	"github.com/yungbote/peptide-insights-backend/internal/observability"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *apphttp.Server
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	shutdownTracing func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig()
	if err != nil {
		log.Sync()
		return nil, err
	}

	shutdownTracing := observability.InitOTel(ctx, log, cfg.Otel())

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	theDB := clients.Postgres.DB()

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, clients, reposet, metrics)

	if cfg.SeedCatalogOnStart {
		res, err := serviceset.Peptide.SeedCatalog(ctx)
		if err != nil {
			clients.Close(ctx, log)
			log.Sync()
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		log.Info("Catalog seed checked", "seeded", res.Seeded, "count", res.Count)
		effects, err := serviceset.Effect.SeedEffects(ctx)
		if err != nil {
			clients.Close(ctx, log)
			log.Sync()
			return nil, fmt.Errorf("seed effects: %w", err)
		}
		log.Info("Effect seed checked", "seeded", effects.Seeded, "count", effects.Count)
	}

	handlerset := wireHandlers(log, clients, serviceset)
	middleware := wireMiddleware(log, cfg)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:             log,
		DB:              theDB,
		Server:          server,
		Cfg:             cfg,
		Clients:         clients,
		Repos:           reposet,
		Services:        serviceset,
		Metrics:         metrics,
		shutdownTracing: shutdownTracing,
	}, nil
}

// Run blocks serving HTTP until Shutdown is called or the listener fails.
func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Starting server", "addr", addr)
	return a.Server.Run(addr)
}

func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	a.Clients.Close(ctx, a.Log)
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
	return errors.Join(errs...)
}
