package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.hjson")
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Overrides(t *testing.T) {
	file := writeConfig(t, `
{
  # comments and unquoted strings are fine
  addr: ":9090"
  heuristic: octile
  logger: {
    level: debug
    json: true
  }
}
`)

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "octile", cfg.Heuristic)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Logger.JSON)

	// untouched fields keep their defaults
	assert.Equal(t, DefaultConfig().SnapshotPath, cfg.SnapshotPath)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.hjson"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "{\n  heuristic: dijkstra\n}\n"))
	assert.ErrorContains(t, err, "dijkstra")

	_, err = LoadConfig(writeConfig(t, "{\n  logger: {\n    level: loud\n  }\n}\n"))
	assert.ErrorContains(t, err, "logger level")
}

func TestNewLogger(t *testing.T) {
	file := filepath.Join(t.TempDir(), "planner.log")
	l, err := NewLogger(LoggerConfig{Level: "info", JSON: true, File: file, MaxSizeMB: 1})
	require.NoError(t, err)

	l.Info("hello")
	_ = l.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)

	_, err = NewLogger(LoggerConfig{Level: "loud"})
	assert.Error(t, err)
}
