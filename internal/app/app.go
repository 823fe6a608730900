package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/fixly/repairdiag/internal/adapters/cache"
	"github.com/fixly/repairdiag/internal/adapters/detect"
	"github.com/fixly/repairdiag/internal/adapters/storage"
	webserver "github.com/fixly/repairdiag/internal/adapters/web/server"
	"github.com/fixly/repairdiag/internal/config"
	"github.com/fixly/repairdiag/internal/core/ports"
	"github.com/fixly/repairdiag/internal/core/services/catalog"
	"github.com/fixly/repairdiag/internal/core/services/diagnose"
	"github.com/fixly/repairdiag/internal/mock"
	"github.com/fixly/repairdiag/internal/telemetry"
)

// Application wires the diagnostic engine together: catalog source, snapshot
// manager, response cache, pipeline service and HTTP server.
type Application struct {
	Config         *config.Config
	CatalogManager *catalog.Manager
	Cache          *cache.TTLCache
	Service        *diagnose.Service
	WebServer      *webserver.Server
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}
	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}
	return app, nil
}

func (app *Application) bootstrap() error {
	telemetry.InitMetrics()

	source, err := app.initCatalogSource()
	if err != nil {
		return err
	}

	app.CatalogManager = catalog.NewManager(source, app.Config.GraceWindow)
	if err := app.CatalogManager.Reload(context.Background()); err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}

	app.Cache = cache.New()
	extractor := detect.New(app.Config.UATimeout)
	app.Service = diagnose.New(app.CatalogManager, extractor, app.Cache, app.Config.Tuning, app.Config.CacheTTL)
	app.WebServer = webserver.NewServer(app.Config.Addr, app.Service, app.CatalogManager)

	return nil
}

// initCatalogSource selects the catalog backend. Mock mode serves the
// built-in seed catalog; otherwise SQLite, seeded on first run so a fresh
// install responds immediately.
func (app *Application) initCatalogSource() (ports.CatalogSource, error) {
	if app.Config.MockMode {
		slog.Info("Mock mode: serving seed catalog")
		return mock.NewCatalogSource(nil), nil
	}

	source, err := storage.NewSQLiteSource(app.Config.DBPath)
	if err != nil {
		return nil, err
	}
	if err := source.Seed(mock.SeedDevices()); err != nil {
		slog.Warn("Catalog seed skipped", "error", err)
	}
	return source, nil
}

// Run starts the background loops and the web server, blocking until the
// context is cancelled or the server fails.
func (app *Application) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.CatalogManager.Run(ctx, app.Config.ReloadInterval)
		return nil
	})
	g.Go(func() error {
		app.Cache.Run(ctx, app.Config.ReapInterval)
		return nil
	})
	g.Go(func() error {
		return app.WebServer.Run(ctx)
	})

	return g.Wait()
}
