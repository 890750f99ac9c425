// Package config provides configuration types and loading for reqtrace.
//
// Configuration is read from YAML with environment variable substitution
// (${VAR} and ${VAR:-default}; "$$" is a literal dollar), filled with
// defaults, and validated. A Watcher reloads the file when it changes.
//
//	cfg, err := config.LoadConfig("configs/reqtrace.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := config.ValidateConfig(cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	watcher, err := config.NewWatcher(path, func(cfg *config.Config) {
//	    _ = logger.SetLevel(cfg.Logging.Level)
//	}, config.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = watcher.Start(ctx)
package config
