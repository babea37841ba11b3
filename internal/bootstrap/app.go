package bootstrap

import (
	"context"
	"time"

	"github.com/osse101/CaseBot_Go/internal/admin"
	"github.com/osse101/CaseBot_Go/internal/catalog"
	"github.com/osse101/CaseBot_Go/internal/config"
	"github.com/osse101/CaseBot_Go/internal/economy"
	"github.com/osse101/CaseBot_Go/internal/idempotency"
	"github.com/osse101/CaseBot_Go/internal/lootbox"
	"github.com/osse101/CaseBot_Go/internal/middleware"
	"github.com/osse101/CaseBot_Go/internal/repository"
	"github.com/osse101/CaseBot_Go/internal/server"
	"github.com/osse101/CaseBot_Go/internal/user"
	"github.com/osse101/CaseBot_Go/internal/worker"
)

// App is the fully wired service
type App struct {
	Server      *server.Server
	Store       repository.Store
	Events      *EventSystem
	Catalog     *catalog.Cache
	Economy     economy.Service
	Users       user.Service
	Admin       admin.Service
	Idempotency idempotency.Store
	Sweeper     *worker.Sweeper
}

// Build opens every dependency named by cfg and wires the HTTP server.
// On error, anything already opened is released before returning.
func Build(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	app := &App{}
	defer func() {
		if err != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
			defer cancel()
			app.Close(shutdownCtx)
		}
	}()

	if app.Events, err = InitializeEventSystem(cfg); err != nil {
		return nil, err
	}
	if app.Store, err = OpenStore(ctx, cfg); err != nil {
		return nil, err
	}
	if err = SyncCatalog(ctx, cfg, app.Store); err != nil {
		return nil, err
	}
	if app.Idempotency, err = OpenIdempotencyStore(ctx, cfg); err != nil {
		return nil, err
	}

	app.Catalog = catalog.NewCache(app.Store, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)
	picker := lootbox.NewPicker(app.Catalog)
	publisher := app.Events.Publisher

	app.Economy = economy.NewService(app.Store, app.Catalog, picker, publisher)
	app.Users = user.NewService(app.Store, publisher, cfg.StartingBalance, user.CacheConfig{
		Size: cfg.IdentityCacheSize,
		TTL:  cfg.IdentityCacheTTL,
	})
	app.Admin = admin.NewService(app.Store, publisher, admin.Config{
		AdminIDs:        cfg.AdminIDs,
		StartingBalance: cfg.StartingBalance,
		DialogTTL:       cfg.DialogTTL,
	})

	users := app.Users
	cache := app.Catalog
	app.Admin.OnReset(func(ctx context.Context) {
		users.Forget()
		cache.Purge(ctx)
	})

	idem := app.Idempotency
	app.Sweeper = worker.NewSweeper(IdempotencySweeperName, IdempotencySweepInterval, func(ctx context.Context, now time.Time) (int, error) {
		return idem.Purge(ctx, now)
	})
	app.Sweeper.Start()

	app.Server = server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		CORSOrigins:    cfg.CORSOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	}, server.Dependencies{
		Store:       app.Store,
		Economy:     app.Economy,
		Users:       app.Users,
		Admin:       app.Admin,
		Idempotency: middleware.NewIdempotency(app.Idempotency, nil, cfg.IdempotencyTTL),
	})

	return app, nil
}

// Close shuts down everything Build opened, in dependency order
func (a *App) Close(ctx context.Context) {
	GracefulShutdown(ctx, ShutdownComponents{
		Server:      a.Server,
		Sweeper:     a.Sweeper,
		Economy:     a.Economy,
		Events:      a.Events,
		Idempotency: a.Idempotency,
		Store:       a.Store,
	})
}
