package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/linewire/linechat-server/internal/config"
	"github.com/linewire/linechat-server/internal/core"
	"github.com/linewire/linechat-server/internal/store"
	"github.com/linewire/linechat-server/internal/store/sqlite"
	"github.com/linewire/linechat-server/internal/transport/httpapi"
	"github.com/linewire/linechat-server/internal/transport/tcp"
)

// App wires together core, storage, and transport layers.
type App struct {
	tcpServer       *tcp.Server
	httpServer      *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	bus := core.NewBus()
	hub := core.NewHub(bus, logger)

	return &App{
		tcpServer:       tcp.NewServer(cfg, hub, st, logger),
		httpServer:      httpapi.NewServer(hub, bus, st, cfg, logger),
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts both servers and blocks until context cancellation or a
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		errCh <- a.tcpServer.Run(ctx)
	}()
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		var firstErr error
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			firstErr = err
		}
		for i := 0; i < 2; i++ {
			if err := <-errCh; err != nil && firstErr == nil {
				firstErr = err
			}
		}
		a.cleanup()
		return firstErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
