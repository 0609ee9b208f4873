package app

import (
	"context"
	"fmt"

	httpx "github.com/maturamate/maturamate-backend/internal/http"
	"github.com/maturamate/maturamate-backend/internal/observability"
	"github.com/maturamate/maturamate-backend/internal/platform/envutil"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *httpx.Server

	cancel       context.CancelFunc
	shutdownOTel func(context.Context) error
}

func New() (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfigFromEnv(cfg.ServiceName, cfg.Environment))

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		cancel()
		_ = shutdownOTel(context.Background())
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(clients.DB.DB(), log)
	serviceset, err := wireServices(clients.DB.DB(), log, cfg, reposet, clients)
	if err != nil {
		cancel()
		clients.Close()
		_ = shutdownOTel(context.Background())
		log.Sync()
		return nil, err
	}

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Server:       httpx.NewServer(wireRouterConfig(log, cfg, serviceset, clients)),
		cancel:       cancel,
		shutdownOTel: shutdownOTel,
	}, nil
}

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx, ":"+a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.shutdownOTel != nil {
		if err := a.shutdownOTel(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
