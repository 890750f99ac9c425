// Package main is the entry point for reqtrace, an HTTP service whose
// requests are traced and logged by the request logging middleware.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vyrodovalexey/reqtrace/internal/config"
	"github.com/vyrodovalexey/reqtrace/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	flags := parseFlags(os.Args[1:])

	if flags.showVersion {
		printVersion()
		return
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Logging.LogConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	observability.SetGlobalLogger(logger)
	observability.InstallOTelDiagnostics(logger)

	logger.Info("starting reqtrace",
		observability.String("version", version),
		observability.String("config", flags.configPath),
		observability.String("address", cfg.Server.Address),
		observability.Bool("tracing", cfg.Tracing.Enabled),
	)

	app, err := newApplication(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", observability.Error(err))
	}

	run(app, flags.configPath, logger)
}

// parseFlags parses command line flags. Environment variables provide the
// defaults.
func parseFlags(args []string) cliFlags {
	fs := flag.NewFlagSet("reqtrace", flag.ExitOnError)
	configPath := fs.String("config", getEnvOrDefault("REQTRACE_CONFIG_PATH", ""),
		"Path to configuration file (defaults are used when empty)")
	logLevel := fs.String("log-level", getEnvOrDefault("REQTRACE_LOG_LEVEL", ""),
		"Log level (debug, info, warn, error); overrides the config file")
	logFormat := fs.String("log-format", getEnvOrDefault("REQTRACE_LOG_FORMAT", ""),
		"Log format (json, console); overrides the config file")
	showVersion := fs.Bool("version", false, "Show version information")
	_ = fs.Parse(args)

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		showVersion: *showVersion,
	}
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("reqtrace version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// loadConfig loads the configuration file, or defaults when no path is
// given, applies flag overrides and validates the result.
func loadConfig(flags cliFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.configPath != "" {
		loaded, err := config.LoadConfig(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Logging.Format = flags.logFormat
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
