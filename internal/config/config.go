package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	LogConfig     logger.LogConfig `json:"log_config"`
	Database      DatabaseConfig   `json:"database"`
	AI            AIConfig         `json:"ai"`
	QA            QAConfig         `json:"qa"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	RateLimitMS   int              `json:"rate_limit_ms"`
	Jobs          JobsConfig       `json:"jobs"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type AIProviderConfig struct {
	Provider   string                 `json:"provider"`
	Model      string                 `json:"model"`
	EmbedModel string                 `json:"embed_model"`
	Data       map[string]interface{} `json:"data"`
}

type AIConfig struct {
	Providers          []AIProviderConfig `json:"providers"`
	SystemMessage      string             `json:"system_message"`
	Timeout            int                `json:"timeout"`
	MaxInputChars      int                `json:"max_input_chars"`
	LruCacheSize       int                `json:"lru_cache_size"`
	LruCacheTTLMinutes int                `json:"lru_cache_ttl_minutes"`
}

type QAConfig struct {
	SimilarityThreshold float64 `json:"similarity_threshold"`
	BestMatch           bool    `json:"best_match"`
	EmbeddingDim        int     `json:"embedding_dim"`
}

type JobsConfig struct {
	EmbeddingCacheCleanupSpec string `json:"embedding_cache_cleanup_spec"`
	EmbeddingCacheMaxAgeDays  int    `json:"embedding_cache_max_age_days"`
	PlantVectorBackfillSpec   string `json:"plant_vector_backfill_spec"`
	PlantVectorBackfillBatch  int    `json:"plant_vector_backfill_batch"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.Database.Host != "" && cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if len(cfg.AI.Providers) == 0 {
		return nil, fmt.Errorf("at least one ai provider is required")
	}
	for i, p := range cfg.AI.Providers {
		if p.Provider == "" {
			return nil, fmt.Errorf("ai.providers[%d].provider is required", i)
		}
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = 30
	}
	if cfg.AI.MaxInputChars <= 0 {
		cfg.AI.MaxInputChars = 4000
	}
	if cfg.AI.LruCacheSize <= 0 {
		cfg.AI.LruCacheSize = 4096
	}
	if cfg.AI.LruCacheTTLMinutes <= 0 {
		cfg.AI.LruCacheTTLMinutes = 120
	}
	if cfg.QA.SimilarityThreshold <= 0 {
		cfg.QA.SimilarityThreshold = 0.75
	}
	if cfg.QA.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("qa.similarity_threshold must be in (0, 1]")
	}
	if cfg.QA.EmbeddingDim <= 0 {
		cfg.QA.EmbeddingDim = 1536
	}
	if cfg.Jobs.EmbeddingCacheCleanupSpec == "" {
		cfg.Jobs.EmbeddingCacheCleanupSpec = "0 3 * * *"
	}
	if cfg.Jobs.EmbeddingCacheMaxAgeDays <= 0 {
		cfg.Jobs.EmbeddingCacheMaxAgeDays = 30
	}
	if cfg.Jobs.PlantVectorBackfillSpec == "" {
		cfg.Jobs.PlantVectorBackfillSpec = "*/10 * * * *"
	}
	if cfg.Jobs.PlantVectorBackfillBatch <= 0 {
		cfg.Jobs.PlantVectorBackfillBatch = 50
	}
	return &cfg, nil
}
