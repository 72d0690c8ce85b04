package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	assert.Equal(t, ContextLive, cfg.Context)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "dbChat.sqlite", cfg.DatabasePath)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestDSN(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()
	assert.Equal(t, "dbChat.sqlite", cfg.DSN())

	cfg.Context = ContextPreview
	assert.Equal(t, ":memory:", cfg.DSN())

	cfg.Context = ContextTest
	cfg.DatabasePath = "/tmp/test.sqlite"
	assert.Equal(t, "/tmp/test.sqlite", cfg.DSN())
}

func TestParseJSON_Overlay(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"context": "test",
		"debug": true,
		"database_path": "other.sqlite",
		"request_timeout": "3s"
	}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"avachat", "-c", file}
	t.Cleanup(func() { os.Args = oldArgs })

	var cfg Config
	cfg.LoadDefaults()
	parseJSON(&cfg)

	assert.Equal(t, ContextTest, cfg.Context)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "other.sqlite", cfg.DatabasePath)
	assert.Equal(t, "https://auth.avachat.app", cfg.ProviderBaseURL, "unset fields keep defaults")
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestParseFlags_Overlay(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"avachat", "-a", "https://auth.example.com", "-x", "preview", "-debug"}
	t.Cleanup(func() { os.Args = oldArgs })

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	assert.Equal(t, "https://auth.example.com", cfg.ProviderBaseURL)
	assert.Equal(t, ContextPreview, cfg.Context)
	assert.True(t, cfg.Debug)
}
