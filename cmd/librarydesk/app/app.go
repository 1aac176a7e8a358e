package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"library-desk/cmd/librarydesk/di"
	"library-desk/cmd/librarydesk/server"
	"library-desk/internal/config"
	"library-desk/pkg/logger"
)

// App represents the application
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Server    *http.Server
	Container *di.Container
}

// New creates a new application instance
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	container, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	router, err := container.Router(ctx)
	if err != nil {
		_ = container.Close()
		return nil, fmt.Errorf("failed to build router: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		Server:    server.NewHTTPServer(cfg.App.HTTPPort, router, l),
		Container: container,
	}, nil
}

// Run serves HTTP until ctx is canceled or the server fails, then shuts
// down gracefully. ready, when non-nil, receives the bound address.
func (a *App) Run(ctx context.Context, ready chan<- net.Addr) error {
	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", a.Config.App.Env),
	)

	lis, err := server.Listen(ctx, a.Server)
	if err != nil {
		return errors.Join(fmt.Errorf("failed to listen: %w", err), a.closeResources())
	}
	if ready != nil {
		ready <- lis.Addr()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("REST API running", zap.String("address", lis.Addr().String()))
		if err := a.Server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutting down application...")
		return a.shutdown()
	})

	return g.Wait()
}

// shutdown gracefully shuts down the application
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.App.ShutdownTimeout)
	defer cancel()

	a.Logger.Info("starting graceful shutdown",
		zap.Duration("timeout", a.Config.App.ShutdownTimeout),
	)

	var errs []error

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("failed to shutdown HTTP server", zap.Error(err))
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}

	errs = append(errs, a.closeResources())

	a.Logger.Info("application shutdown complete")

	return errors.Join(errs...)
}

func (a *App) closeResources() error {
	var errs []error

	if a.Container != nil {
		if err := a.Container.Close(); err != nil {
			a.Logger.Error("failed to close container", zap.Error(err))
			errs = append(errs, fmt.Errorf("container close: %w", err))
		}
	}

	if err := logger.Sync(a.Logger); err != nil {
		errs = append(errs, fmt.Errorf("logger sync: %w", err))
	}

	return errors.Join(errs...)
}
