// Package app wires the career advisor components together and manages their
// lifecycle: the HTTP server and, when history is enabled, the scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/careeradvisor/internal/config"
)

// App represents the running service and manages its components' lifecycle.
type App struct {
	logger     *slog.Logger
	cfg        *config.Config
	httpServer *http.Server
	scheduler  *Scheduler
}

// New creates an App. scheduler may be nil when no scheduled tasks apply.
func New(logger *slog.Logger, cfg *config.Config, httpServer *http.Server, scheduler *Scheduler) *App {
	return &App{
		logger:     logger.With("component", "app"),
		cfg:        cfg,
		httpServer: httpServer,
		scheduler:  scheduler,
	}
}

// Run listens on the configured address and serves until ctx is cancelled or
// a component fails.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.httpServer.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln and the scheduler, shutting both down
// gracefully when ctx is cancelled.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server failed", "error", err)
			return fmt.Errorf("http server failed: %w", err)
		}
		a.logger.Info("HTTP server stopped.")
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("Shutdown signal received, stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gCtx), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Graceful HTTP shutdown failed", "error", err)
			return fmt.Errorf("http shutdown failed: %w", err)
		}
		return nil
	})

	if a.scheduler != nil {
		g.Go(func() error {
			if _, err := a.scheduler.Start(); err != nil {
				a.logger.Error("Failed to start scheduler", "error", err)
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			a.logger.Info("Shutdown signal received, stopping scheduler...")
			if err := a.scheduler.Stop(); err != nil {
				a.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("App stopped due to error", "error", err)
		return err
	}

	a.logger.Info("App stopped gracefully.")
	return nil
}
