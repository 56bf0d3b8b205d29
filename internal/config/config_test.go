package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"git.sr.ht/~jakintosh/todo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allEnv = []string{
	config.EnvConfig,
	config.EnvAddr,
	config.EnvDB,
	config.EnvLogLevel,
	config.EnvLogPretty,
	config.EnvMemory,
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnv {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load([]string{"-env-file", ""})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "todo.db", filepath.Base(cfg.DBPath))
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	file := writeFile(t, "todo.yaml", `
addr: ":7000"
db: /from/file.db
log_level: warn
log_pretty: true
`)

	t.Run("file", func(t *testing.T) {
		cfg, err := config.Load([]string{"-env-file", "", "-config", file})
		require.NoError(t, err)
		assert.Equal(t, ":7000", cfg.Addr)
		assert.Equal(t, "/from/file.db", cfg.DBPath)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.True(t, cfg.LogPretty)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv(config.EnvConfig, file)
		t.Setenv(config.EnvDB, "/from/env.db")
		t.Setenv(config.EnvLogPretty, "false")

		cfg, err := config.Load([]string{"-env-file", ""})
		require.NoError(t, err)
		assert.Equal(t, ":7000", cfg.Addr)
		assert.Equal(t, "/from/env.db", cfg.DBPath)
		assert.False(t, cfg.LogPretty)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv(config.EnvAddr, ":9000")
		t.Setenv(config.EnvMemory, "false")

		cfg, err := config.Load([]string{"-env-file", "", "-config", file, "-addr", ":9100", "-memory"})
		require.NoError(t, err)
		assert.Equal(t, ":9100", cfg.Addr)
		assert.True(t, cfg.Memory)
		assert.Equal(t, "warn", cfg.LogLevel)
	})
}

func TestLoadDotenv(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, ".env", "TODO_ADDR=:6060\nTODO_LOG_LEVEL=debug\n")

	t.Setenv(config.EnvLogLevel, "error")

	cfg, err := config.Load([]string{"-env-file", envFile})
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Addr)
	assert.Equal(t, "error", cfg.LogLevel, "dotenv must not override the process environment")
}

func TestLoadMissingDotenvIsIgnored(t *testing.T) {
	clearEnv(t)

	_, err := config.Load([]string{"-env-file", filepath.Join(t.TempDir(), "absent.env")})
	assert.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "unknown flag", args: []string{"-nope"}},
		{name: "bad log level", args: []string{"-log-level", "loud"}},
		{name: "empty addr", args: []string{"-addr", ""}},
		{name: "missing config file", args: []string{"-config", "/does/not/exist.yaml"}},
		{name: "unknown yaml key", args: []string{"-config", writeFile(t, "bad.yaml", "colour: blue\n")}},
		{name: "bad bool env", env: map[string]string{config.EnvMemory: "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(append([]string{"-env-file", ""}, tt.args...))
			assert.Error(t, err)
		})
	}
}

func TestValidateMemoryWithoutPath(t *testing.T) {
	cfg := config.Default()
	cfg.DBPath = ""
	assert.Error(t, cfg.Validate())

	cfg.Memory = true
	assert.NoError(t, cfg.Validate())
}
