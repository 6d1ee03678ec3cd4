package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/poiesic/skillmatch/ai"
)

// Storage backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config is the complete service configuration.
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	AI        AIConfig        `toml:"ai"`
	Search    SearchConfig    `toml:"search"`
	Indexer   IndexerConfig   `toml:"indexer"`
	Ingestion IngestionConfig `toml:"ingestion"`
	Server    ServerConfig    `toml:"server"`
}

// StorageConfig selects and locates the record store.
type StorageConfig struct {
	Backend  string `toml:"backend"`   // "badger" or "sqlite"
	Path     string `toml:"path"`      // Badger directory or SQLite file
	InMemory bool   `toml:"in_memory"` // Ignore Path and keep everything in memory
}

// AIConfig locates the embedding and extraction models.
// Host sets both service hosts unless a specific one is given.
type AIConfig struct {
	Host            string        `toml:"host"`
	EmbeddingHost   string        `toml:"embedding_host"`
	ClassifierHost  string        `toml:"classifier_host"`
	EmbeddingModel  string        `toml:"embedding_model"`
	ClassifierModel string        `toml:"classifier_model"`
	APIKey          string        `toml:"api_key"`
	Temperature     float64       `toml:"temperature"`
	Timeout         time.Duration `toml:"timeout"`
}

// SearchConfig tunes the ranking engine.
type SearchConfig struct {
	Threshold float64 `toml:"threshold"`
	TopK      int     `toml:"top_k"`
	PoolSize  int     `toml:"pool_size"` // Minimum number of coarse hits re-ranked; 0 means top_k
	Workers   int     `toml:"workers"`
}

// IndexerConfig tunes index rebuilds.
type IndexerConfig struct {
	BatchSize   int           `toml:"batch_size"`
	Concurrency int           `toml:"concurrency"`
	MaxAttempts int           `toml:"max_attempts"`
	RetryDelay  time.Duration `toml:"retry_delay"`
}

// IngestionConfig tunes LLM extraction.
type IngestionConfig struct {
	Workers int `toml:"workers"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Listen string `toml:"listen"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		Storage: StorageConfig{
			Backend: BackendBadger,
			Path:    "data/skillmatch",
		},
		AI: AIConfig{
			EmbeddingHost:   aiDefaults.EmbeddingHost,
			ClassifierHost:  aiDefaults.ClassifierHost,
			EmbeddingModel:  aiDefaults.EmbeddingModel,
			ClassifierModel: aiDefaults.ClassifierModel,
			APIKey:          aiDefaults.APIKey,
			Temperature:     aiDefaults.Temperature,
			Timeout:         aiDefaults.Timeout,
		},
		Search: SearchConfig{
			Threshold: 0.5,
			TopK:      10,
			PoolSize:  0,
			Workers:   4,
		},
		Indexer: IndexerConfig{
			BatchSize:   64,
			Concurrency: 4,
			MaxAttempts: 3,
			RetryDelay:  500 * time.Millisecond,
		},
		Ingestion: IngestionConfig{
			Workers: 2,
		},
		Server: ServerConfig{
			Listen: ":8000",
		},
	}
}

// Load reads the TOML file at path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cfg.Decode(string(content)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode overlays TOML content onto cfg. Keys missing from content are left alone.
func (c *Config) Decode(content string) error {
	md, err := toml.Decode(content, c)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
	}
	if c.AI.Host != "" {
		if !md.IsDefined("ai", "embedding_host") {
			c.AI.EmbeddingHost = c.AI.Host
		}
		if !md.IsDefined("ai", "classifier_host") {
			c.AI.ClassifierHost = c.AI.Host
		}
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendBadger, BackendSQLite:
	default:
		return fmt.Errorf("%w: storage backend %q is not one of %q, %q", ErrInvalidConfig, c.Storage.Backend, BackendBadger, BackendSQLite)
	}
	if !c.Storage.InMemory && c.Storage.Path == "" {
		return fmt.Errorf("%w: storage path is required", ErrInvalidConfig)
	}

	if err := c.AIConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Search.Threshold < -1 || c.Search.Threshold > 1 {
		return fmt.Errorf("%w: search threshold must be between -1 and 1", ErrInvalidConfig)
	}
	if c.Search.TopK < 1 {
		return fmt.Errorf("%w: search top_k must be positive", ErrInvalidConfig)
	}
	if c.Search.PoolSize < 0 {
		return fmt.Errorf("%w: search pool_size must not be negative", ErrInvalidConfig)
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("%w: search workers must be positive", ErrInvalidConfig)
	}

	if c.Indexer.BatchSize < 1 || c.Indexer.Concurrency < 1 || c.Indexer.MaxAttempts < 1 {
		return fmt.Errorf("%w: indexer batch_size, concurrency and max_attempts must be positive", ErrInvalidConfig)
	}
	if c.Indexer.RetryDelay < 0 {
		return fmt.Errorf("%w: indexer retry_delay cannot be negative", ErrInvalidConfig)
	}

	if c.Ingestion.Workers < 1 {
		return fmt.Errorf("%w: ingestion workers must be positive", ErrInvalidConfig)
	}
	if c.Server.Listen == "" {
		return fmt.Errorf("%w: server listen address is required", ErrInvalidConfig)
	}
	return nil
}

// AIConfig converts the AI section into a provider configuration.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithClassifierHost(c.AI.ClassifierHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithClassifierModel(c.AI.ClassifierModel),
		ai.WithAPIKey(c.AI.APIKey),
		ai.WithTemperature(c.AI.Temperature),
		ai.WithTimeout(c.AI.Timeout),
	)
}
