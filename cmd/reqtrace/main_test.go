package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/reqtrace/internal/config"
)

func TestParseFlags(t *testing.T) {
	flags := parseFlags([]string{"-config", "/etc/reqtrace.yaml", "-log-level", "debug", "-version"})

	assert.Equal(t, "/etc/reqtrace.yaml", flags.configPath)
	assert.Equal(t, "debug", flags.logLevel)
	assert.Empty(t, flags.logFormat)
	assert.True(t, flags.showVersion)
}

func TestParseFlags_EnvDefaults(t *testing.T) {
	t.Setenv("REQTRACE_CONFIG_PATH", "/from/env.yaml")
	t.Setenv("REQTRACE_LOG_FORMAT", "console")

	flags := parseFlags(nil)

	assert.Equal(t, "/from/env.yaml", flags.configPath)
	assert.Equal(t, "console", flags.logFormat)
	assert.Empty(t, flags.logLevel)
	assert.False(t, flags.showVersion)
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("REQTRACE_TEST_VALUE", "set")

	assert.Equal(t, "set", getEnvOrDefault("REQTRACE_TEST_VALUE", "default"))
	assert.Equal(t, "default", getEnvOrDefault("REQTRACE_TEST_MISSING", "default"))
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		cfg, err := loadConfig(cliFlags{})
		require.NoError(t, err)
		assert.Equal(t, config.DefaultConfig(), cfg)
	})

	t.Run("flags override file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reqtrace.yaml")
		require.NoError(t, os.WriteFile(path, []byte("service:\n  name: file\nlogging:\n  level: warn\n"), 0o600))

		cfg, err := loadConfig(cliFlags{configPath: path, logLevel: "debug", logFormat: "console"})
		require.NoError(t, err)
		assert.Equal(t, "file", cfg.Service.Name)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "console", cfg.Logging.Format)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(cliFlags{configPath: filepath.Join(t.TempDir(), "nope.yaml")})
		assert.Error(t, err)
	})

	t.Run("invalid override", func(t *testing.T) {
		_, err := loadConfig(cliFlags{logLevel: "yelling"})
		assert.Error(t, err)
	})
}
