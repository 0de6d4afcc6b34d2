package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// AdminToken authorizes the /admin API surface.
	AdminToken string `envconfig:"ADMIN_TOKEN"`

	// Matching thresholds; defaults are the tuned values.
	ExactThreshold float64 `envconfig:"EXACT_THRESHOLD" default:"0.85"`
	FuzzyThreshold float64 `envconfig:"FUZZY_THRESHOLD" default:"0.35"`
	TopChunks      int     `envconfig:"TOP_CHUNKS" default:"3"`
	FallbackAnswer string  `envconfig:"FALLBACK_ANSWER"`

	// Chunker sizing for uploaded documents.
	ChunkTargetWords  int `envconfig:"CHUNK_TARGET_WORDS" default:"120"`
	ChunkOverlapWords int `envconfig:"CHUNK_OVERLAP_WORDS" default:"20"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"inductbot-documents"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	// Optional answer refinement through an OpenAI-compatible endpoint
	// (a local ollama server works with LLMBaseURL set).
	LLMAPIKey  string `envconfig:"LLM_API_KEY"`
	LLMBaseURL string `envconfig:"LLM_BASE_URL"`
	LLMModel   string `envconfig:"LLM_MODEL" default:"tinyllama"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("INDUCTBOT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasLLM() bool {
	return c.LLMAPIKey != "" || c.LLMBaseURL != ""
}

func (c *Config) HasAdminToken() bool {
	return c.AdminToken != ""
}
