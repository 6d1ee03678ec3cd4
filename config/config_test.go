package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skillmatch.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, 0.5, cfg.Search.Threshold)
	assert.Equal(t, 10, cfg.Search.TopK)
	assert.Zero(t, cfg.Search.PoolSize)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[storage]
backend = "sqlite"
path = "/tmp/skillmatch.db"

[ai]
embedding_model = "nomic-embed-text"
timeout = "1m"

[search]
threshold = 0.55

[indexer]
retry_delay = "2s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/skillmatch.db", cfg.Storage.Path)
	assert.Equal(t, "nomic-embed-text", cfg.AI.EmbeddingModel)
	assert.Equal(t, time.Minute, cfg.AI.Timeout)
	assert.Equal(t, 0.55, cfg.Search.Threshold)
	assert.Equal(t, 2*time.Second, cfg.Indexer.RetryDelay)

	// Untouched keys keep their defaults.
	defaults := Default()
	assert.Equal(t, defaults.AI.ClassifierModel, cfg.AI.ClassifierModel)
	assert.Equal(t, defaults.Search.TopK, cfg.Search.TopK)
	assert.Equal(t, defaults.Server.Listen, cfg.Server.Listen)
}

func TestLoad_HostSetsBothServices(t *testing.T) {
	path := writeConfig(t, `
[ai]
host = "http://gpu-box:11434/v1"
classifier_host = "http://llm-box:8080/v1"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434/v1", cfg.AI.EmbeddingHost)
	assert.Equal(t, "http://llm-box:8080/v1", cfg.AI.ClassifierHost)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, `
[search]
treshold = 0.7
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnknownKeys)
	assert.Contains(t, err.Error(), "search.treshold")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, "[search\nthreshold = ")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "postgres" }},
		{"missing path", func(c *Config) { c.Storage.Path = "" }},
		{"threshold too high", func(c *Config) { c.Search.Threshold = 1.2 }},
		{"zero top_k", func(c *Config) { c.Search.TopK = 0 }},
		{"negative pool_size", func(c *Config) { c.Search.PoolSize = -1 }},
		{"zero workers", func(c *Config) { c.Search.Workers = 0 }},
		{"zero batch size", func(c *Config) { c.Indexer.BatchSize = 0 }},
		{"negative retry delay", func(c *Config) { c.Indexer.RetryDelay = -time.Second }},
		{"zero ingestion workers", func(c *Config) { c.Ingestion.Workers = 0 }},
		{"missing listen", func(c *Config) { c.Server.Listen = "" }},
		{"bad temperature", func(c *Config) { c.AI.Temperature = 3 }},
		{"missing model", func(c *Config) { c.AI.EmbeddingModel = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	t.Run("explicit pool_size", func(t *testing.T) {
		cfg := Default()
		cfg.Search.PoolSize = 25
		assert.NoError(t, cfg.Validate())
	})

	t.Run("in-memory needs no path", func(t *testing.T) {
		cfg := Default()
		cfg.Storage.Path = ""
		cfg.Storage.InMemory = true
		assert.NoError(t, cfg.Validate())
	})
}

func TestAIConfig(t *testing.T) {
	cfg := Default()
	cfg.AI.EmbeddingHost = "http://embed:11434"
	cfg.AI.APIKey = ""

	aiCfg := cfg.AIConfig()
	require.NoError(t, aiCfg.Validate())
	assert.Equal(t, "http://embed:11434/v1", aiCfg.EmbeddingHost)
	assert.Equal(t, "none", aiCfg.APIKey)
	assert.Equal(t, cfg.AI.Temperature, aiCfg.Temperature)
}
