package main

import (
	"context"

	"github.com/vyrodovalexey/reqtrace/internal/config"
	"github.com/vyrodovalexey/reqtrace/internal/observability"
)

// startConfigWatcher watches the configuration file when one is in use.
func startConfigWatcher(configPath string, logger observability.Logger) *config.Watcher {
	if configPath == "" {
		return nil
	}

	watcher, err := config.NewWatcher(configPath,
		func(newCfg *config.Config) {
			applyReload(newCfg, logger)
		},
		config.WithLogger(logger),
		config.WithErrorCallback(func(err error) {
			logger.Warn("keeping previous configuration", observability.Error(err))
		}),
	)
	if err != nil {
		logger.Warn("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Warn("failed to start config watcher", observability.Error(err))
		_ = watcher.Stop()
		return nil
	}

	return watcher
}

// applyReload applies the parts of a new configuration that can change at
// runtime. Only the log level does; everything else needs a restart.
func applyReload(newCfg *config.Config, logger observability.Logger) {
	if err := logger.SetLevel(newCfg.Logging.Level); err != nil {
		logger.Error("failed to apply log level", observability.Error(err))
		return
	}
	logger.Info("log level applied",
		observability.String("level", newCfg.Logging.Level),
	)
	logger.Info("other configuration changes take effect after restart")
}

// reloadNow re-reads the configuration file outside the file watcher, as
// requested by SIGHUP.
func reloadNow(watcher *config.Watcher, logger observability.Logger) {
	if watcher == nil {
		logger.Warn("reload requested but no configuration file is watched")
		return
	}
	if err := watcher.Reload(); err != nil {
		logger.Warn("keeping previous configuration", observability.Error(err))
	}
}
