package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	Port         int             `json:"port"`
	JWTSecret    string          `json:"jwt_secret"`
	JWTTTLHours  int             `json:"jwt_ttl_hours"`
	CORSOrigins  []string        `json:"cors_origins"`
	Log          LogConfig       `json:"log"`
	Database     DatabaseConfig  `json:"database"`
	AI           AIConfig        `json:"ai"`
	RAG          RAGConfig       `json:"rag"`
	FileStore    FileStoreConfig `json:"file_store"`
	IndexJobSpec string          `json:"index_job_spec"`
	CacheJobSpec string          `json:"cache_job_spec"`
}

type LogConfig struct {
	Level   string `json:"level"`
	Console bool   `json:"console"`
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

type AIConfig struct {
	Provider       string             `json:"provider"`
	Model          string             `json:"model"`
	EmbedModel     string             `json:"embed_model"`
	EmbedDimension int                `json:"embed_dimension"`
	Data           interface{}        `json:"data"`
	Fallbacks      []AIFallbackConfig `json:"fallbacks"`
	EmbedCacheSize int                `json:"embed_cache_size"`
	EmbedCacheTTL  int                `json:"embed_cache_ttl_seconds"`
}

// AIFallbackConfig is a secondary provider tried when the primary fails.
type AIFallbackConfig struct {
	Provider   string      `json:"provider"`
	Model      string      `json:"model"`
	EmbedModel string      `json:"embed_model"`
	Data       interface{} `json:"data"`
}

type RAGConfig struct {
	DocumentLimit     int     `json:"document_limit"`
	MessageLimit      int     `json:"message_limit"`
	ScoreThreshold    float64 `json:"score_threshold"`
	SemanticWeight    float64 `json:"semantic_weight"`
	KeywordWeight     float64 `json:"keyword_weight"`
	MaxDocChars       int     `json:"max_doc_chars"`
	MaxMessageChars   int     `json:"max_message_chars"`
	RetrievalTimeout  int     `json:"retrieval_timeout_seconds"`
	GenerationTimeout int     `json:"generation_timeout_seconds"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
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
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.JWTTTLHours == 0 {
		c.JWTTTLHours = 72
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("database.dsn or database.host is required")
	}
	if c.AI.Provider == "" {
		return fmt.Errorf("ai.provider is required")
	}
	if c.AI.Model == "" {
		return fmt.Errorf("ai.model is required")
	}
	if c.AI.EmbedModel == "" {
		return fmt.Errorf("ai.embed_model is required")
	}
	if c.AI.EmbedDimension == 0 {
		c.AI.EmbedDimension = 1536
	}
	if c.AI.EmbedCacheSize == 0 {
		c.AI.EmbedCacheSize = 10000
	}
	if c.AI.EmbedCacheTTL == 0 {
		c.AI.EmbedCacheTTL = 7200
	}
	c.RAG.applyDefaults()
	if c.FileStore.Type == "" {
		c.FileStore.Type = "local"
	}
	if c.IndexJobSpec == "" {
		c.IndexJobSpec = "* * * * *"
	}
	if c.CacheJobSpec == "" {
		c.CacheJobSpec = "0 3 * * *"
	}
	return nil
}

func (r *RAGConfig) applyDefaults() {
	if r.DocumentLimit == 0 {
		r.DocumentLimit = 5
	}
	if r.MessageLimit == 0 {
		r.MessageLimit = 5
	}
	if r.ScoreThreshold == 0 {
		r.ScoreThreshold = 0.7
	}
	if r.SemanticWeight == 0 {
		r.SemanticWeight = 0.7
	}
	if r.KeywordWeight == 0 {
		r.KeywordWeight = 0.3
	}
	if r.MaxDocChars == 0 {
		r.MaxDocChars = 500
	}
	if r.MaxMessageChars == 0 {
		r.MaxMessageChars = 300
	}
	if r.RetrievalTimeout == 0 {
		r.RetrievalTimeout = 10
	}
	if r.GenerationTimeout == 0 {
		r.GenerationTimeout = 60
	}
}
