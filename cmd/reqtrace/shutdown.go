package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vyrodovalexey/reqtrace/internal/config"
	"github.com/vyrodovalexey/reqtrace/internal/observability"
)

// run serves until a shutdown signal arrives.
func run(app *application, configPath string, logger observability.Logger) {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", observability.String("address", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	watcher := startConfigWatcher(configPath, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	waitForShutdown(sigCh, errCh, watcher, logger)
	shutdown(app, watcher, logger)
}

// waitForShutdown blocks until a terminating signal arrives or the server
// fails. SIGHUP reloads the configuration and keeps waiting.
func waitForShutdown(sigCh <-chan os.Signal, errCh <-chan error, watcher *config.Watcher, logger observability.Logger) {
	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				logger.Info("received reload signal")
				reloadNow(watcher, logger)
				continue
			}
			logger.Info("received shutdown signal", observability.String("signal", sig.String()))
			return
		case err := <-errCh:
			logger.Error("server failed", observability.Error(err))
			return
		}
	}
}

// shutdown drains the server and flushes pending spans.
func shutdown(app *application, watcher *config.Watcher, logger observability.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout.Duration())
	defer cancel()

	if watcher != nil {
		_ = watcher.Stop()
	}

	if err := app.server.Shutdown(ctx); err != nil {
		logger.Error("failed to stop server gracefully", observability.Error(err))
	}

	if err := app.tracer.ForceFlush(ctx); err != nil {
		logger.Error("failed to flush spans", observability.Error(err))
	}
	if err := app.tracer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown tracer", observability.Error(err))
	}

	logger.Info("reqtrace stopped")
}
