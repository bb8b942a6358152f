package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/chapelworks/mediasync/internal/adapter"
	"github.com/chapelworks/mediasync/internal/config"
	"github.com/chapelworks/mediasync/internal/logger"
	"github.com/chapelworks/mediasync/internal/realtime"
	"github.com/chapelworks/mediasync/internal/service"
	"github.com/chapelworks/mediasync/internal/session"
	"github.com/chapelworks/mediasync/internal/store"
	"github.com/chapelworks/mediasync/internal/tui"
)

type App struct {
	cfg      *config.ClientConfig
	services *service.ClientServices
	ui       *tui.TUI
	logger   *logger.Logger
}

// NewApp assembles the full client from configuration: HTTP gateway,
// websocket channel, credential file, snapshot cache, services and UI.
func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	gateway, err := adapter.NewHTTPGateway(adapter.GatewayConfig{
		BaseURL:        cfg.Backend.URL,
		RequestTimeout: cfg.Backend.RequestTimeout,
		UploadTimeout:  cfg.Backend.UploadTimeout,
		MaxImageBytes:  cfg.Upload.MaxImageBytes,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create gateway: %w", err)
	}

	channel := realtime.NewWSChannel(realtime.Config{
		BaseURL:           cfg.Backend.URL,
		ReconnectMinDelay: cfg.Realtime.ReconnectMinDelay,
		ReconnectMaxDelay: cfg.Realtime.ReconnectMaxDelay,
		TokenSource:       gateway.Token,
	}, log)

	cache, err := store.NewSQLiteCache(cfg.Cache.Path, log)
	if err != nil {
		return nil, fmt.Errorf("open snapshot cache: %w", err)
	}

	persist := session.NewFileCredentialStore(cfg.Session.Path)
	services := service.NewClientServices(gateway, channel, persist, cache, log)

	ui, err := tui.New(services, log)
	if err != nil {
		services.Close()
		return nil, fmt.Errorf("create ui: %w", err)
	}

	return &App{cfg: cfg, services: services, ui: ui, logger: log}, nil
}

// Run restores the previous session, warms the view from the snapshot
// cache, starts the background refresh job and blocks in the UI until
// the user exits.
func (a *App) Run() error {
	ctx := context.Background()
	defer a.services.Close()

	if _, err := a.services.Session.Restore(ctx); err != nil {
		// offline start: browsing continues from cache, login can retry
		a.logger.Warn().Err(err).Msg("session restore failed")
	}

	a.services.WarmFromCache(ctx)
	a.services.RefreshJob.Start(ctx, a.cfg.Workers.RefreshInterval)

	if err := a.ui.Run(ctx); err != nil {
		if errors.Is(err, tui.ErrUserQuit) {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
