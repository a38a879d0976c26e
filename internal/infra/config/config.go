package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
)

const defaultConfigPath = "configs/config.yaml"

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http" envPrefix:"HTTP_"`
	LLM       LLMConfig       `yaml:"llm" envPrefix:"LLM_"`
	Summary   SummaryConfig   `yaml:"summary" envPrefix:"SUMMARY_"`
	Document  DocumentConfig  `yaml:"document" envPrefix:"DOCUMENT_"`
	Artifacts ArtifactsConfig `yaml:"artifacts" envPrefix:"ARTIFACTS_"`
	Cache     CacheConfig     `yaml:"cache" envPrefix:"CACHE_"`
	History   HistoryConfig   `yaml:"history" envPrefix:"HISTORY_"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address" env:"ADDRESS"`
	ReadTimeout  time.Duration   `yaml:"readTimeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration   `yaml:"writeTimeout" env:"WRITE_TIMEOUT"`
	RateLimit    RateLimitConfig `yaml:"rateLimit" envPrefix:"RATE_LIMIT_"`
	CORS         CORSConfig      `yaml:"cors" envPrefix:"CORS_"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" env:"ENABLED"`
	RequestsPerMinute int  `yaml:"requestsPerMinute" env:"RPM"`
	Burst             int  `yaml:"burst" env:"BURST"`
}

// CORSConfig lists origins allowed to call the API. Empty allows any.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins" env:"ALLOWED_ORIGINS"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey           string        `yaml:"apiKey" env:"API_KEY"`
	BaseURL          string        `yaml:"baseUrl" env:"BASE_URL"`
	RequestTimeout   time.Duration `yaml:"requestTimeout" env:"REQUEST_TIMEOUT"`
	DefaultModel     string        `yaml:"defaultModel" env:"DEFAULT_MODEL"`
	Temperature      *float64      `yaml:"temperature" env:"TEMPERATURE"`
	ChunkTemperature *float64      `yaml:"chunkTemperature" env:"CHUNK_TEMPERATURE"`
}

// SummaryConfig tunes the chunk-and-reduce pipeline and cost reporting.
type SummaryConfig struct {
	BufferFraction float64       `yaml:"bufferFraction" env:"BUFFER_FRACTION"`
	Separator      string        `yaml:"separator" env:"SEPARATOR"`
	MaxConcurrency int           `yaml:"maxConcurrency" env:"MAX_CONCURRENCY"`
	DefaultLength  string        `yaml:"defaultLength" env:"DEFAULT_LENGTH"`
	CostPrecision  int           `yaml:"costPrecision" env:"COST_PRECISION"`
	Pricing        PricingConfig `yaml:"pricing" envPrefix:"PRICE_"`
	Debug          bool          `yaml:"debug" env:"DEBUG"`
}

// PricingConfig holds per-token rates in USD.
type PricingConfig struct {
	InputPerToken  float64 `yaml:"inputPerToken" env:"INPUT_PER_TOKEN"`
	OutputPerToken float64 `yaml:"outputPerToken" env:"OUTPUT_PER_TOKEN"`
}

// DocumentConfig controls remote document downloads.
type DocumentConfig struct {
	TempDir   string        `yaml:"tempDir" env:"TEMP_DIR"`
	MaxBytes  int64         `yaml:"maxBytes" env:"MAX_BYTES"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
	UserAgent string        `yaml:"userAgent" env:"USER_AGENT"`
}

// Artifact sink kinds.
const (
	ArtifactsNone = "none"
	ArtifactsDir  = "dir"
	ArtifactsS3   = "s3"
)

// ArtifactsConfig selects where debug artifacts go.
type ArtifactsConfig struct {
	Kind string   `yaml:"kind" env:"KIND"`
	Dir  string   `yaml:"dir" env:"DIR"`
	S3   S3Config `yaml:"s3" envPrefix:"S3_"`
}

// S3Config addresses an S3-compatible bucket.
type S3Config struct {
	Endpoint  string `yaml:"endpoint" env:"ENDPOINT"`
	AccessKey string `yaml:"accessKey" env:"ACCESS_KEY"`
	SecretKey string `yaml:"secretKey" env:"SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"BUCKET"`
	Region    string `yaml:"region" env:"REGION"`
	Prefix    string `yaml:"prefix" env:"PREFIX"`
}

// CacheConfig contains connection information for response caching.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" env:"ENABLED"`
	Addr    string        `yaml:"addr" env:"ADDR"`
	Prefix  string        `yaml:"prefix" env:"PREFIX"`
	TTL     time.Duration `yaml:"ttl" env:"TTL"`
}

// HistoryConfig controls the summary history store.
type HistoryConfig struct {
	Limit          int            `yaml:"limit" env:"LIMIT"`
	MemoryCapacity int            `yaml:"memoryCapacity" env:"MEMORY_CAPACITY"`
	Postgres       PostgresConfig `yaml:"postgres" envPrefix:"POSTGRES_"`
}

// PostgresConfig contains DSN and pooling settings. An empty DSN keeps history in memory.
type PostgresConfig struct {
	DSN      string `yaml:"dsn" env:"DSN"`
	MaxConns int32  `yaml:"maxConns" env:"MAX_CONNS"`
	MinConns int32  `yaml:"minConns" env:"MIN_CONNS"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(defaultConfigPath); err == nil {
		if err := hydrateFromFile(cfg, defaultConfigPath); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Only variables that are set override file values.
func applyEnvOverrides(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return nil
}

func defaultConfig() *Config {
	chunkTemperature := summarizer.DefaultChunkTemperature
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 5 * time.Minute,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
			},
		},
		LLM: LLMConfig{
			RequestTimeout:   3 * time.Minute,
			DefaultModel:     string(summarizer.ModelGPT35Turbo),
			ChunkTemperature: &chunkTemperature,
		},
		Summary: SummaryConfig{
			BufferFraction: summarizer.DefaultBufferFraction,
			Separator:      summarizer.DefaultSeparator,
			MaxConcurrency: 1,
			DefaultLength:  string(summarizer.LengthMedium),
			CostPrecision:  2,
			Pricing: PricingConfig{
				InputPerToken:  summarizer.DefaultPricing.InputPerToken,
				OutputPerToken: summarizer.DefaultPricing.OutputPerToken,
			},
		},
		Document: DocumentConfig{
			MaxBytes:  50 << 20,
			Timeout:   time.Minute,
			UserAgent: "brevity/1.0",
		},
		Artifacts: ArtifactsConfig{
			Kind: ArtifactsNone,
			Dir:  "artifacts",
		},
		Cache: CacheConfig{
			Prefix: "brevity",
			TTL:    24 * time.Hour,
		},
		History: HistoryConfig{
			Limit:          20,
			MemoryCapacity: 500,
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if _, err := summarizer.LookupModel(c.LLM.DefaultModel); err != nil {
		return fmt.Errorf("llm.defaultModel: %w", err)
	}
	if c.LLM.RequestTimeout < 0 {
		return errors.New("llm.requestTimeout cannot be negative")
	}
	if err := validTemperature("llm.temperature", c.LLM.Temperature); err != nil {
		return err
	}
	if err := validTemperature("llm.chunkTemperature", c.LLM.ChunkTemperature); err != nil {
		return err
	}
	if math.IsNaN(c.Summary.BufferFraction) || c.Summary.BufferFraction <= 0 || c.Summary.BufferFraction > 1 {
		return errors.New("summary.bufferFraction must be in (0, 1]")
	}
	if c.Summary.Separator == "" {
		return errors.New("summary.separator cannot be empty")
	}
	if c.Summary.MaxConcurrency <= 0 {
		return errors.New("summary.maxConcurrency must be positive")
	}
	if _, err := summarizer.ParseSummaryLength(c.Summary.DefaultLength); err != nil {
		return fmt.Errorf("summary.defaultLength: %w", err)
	}
	if c.Summary.CostPrecision < 0 {
		return errors.New("summary.costPrecision cannot be negative")
	}
	if c.Summary.Pricing.InputPerToken < 0 || c.Summary.Pricing.OutputPerToken < 0 {
		return errors.New("summary.pricing rates cannot be negative")
	}
	if c.Document.MaxBytes <= 0 {
		return errors.New("document.maxBytes must be positive")
	}
	switch c.Artifacts.Kind {
	case ArtifactsNone, "":
	case ArtifactsDir:
		if strings.TrimSpace(c.Artifacts.Dir) == "" {
			return errors.New("artifacts.dir cannot be empty when artifacts.kind is dir")
		}
	case ArtifactsS3:
		if strings.TrimSpace(c.Artifacts.S3.Endpoint) == "" || strings.TrimSpace(c.Artifacts.S3.Bucket) == "" {
			return errors.New("artifacts.s3.endpoint and artifacts.s3.bucket are required when artifacts.kind is s3")
		}
	default:
		return fmt.Errorf("artifacts.kind %q must be one of none, dir, s3", c.Artifacts.Kind)
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Addr) == "" {
		return errors.New("cache.addr cannot be empty when cache is enabled")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	if c.History.Limit <= 0 {
		return errors.New("history.limit must be positive")
	}
	if c.History.Postgres.MinConns < 0 || c.History.Postgres.MaxConns < c.History.Postgres.MinConns {
		return errors.New("history.postgres pool sizes are inconsistent")
	}
	return nil
}

func validTemperature(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || *v < 0 || *v > 2 {
		return fmt.Errorf("%s must be between 0 and 2", field)
	}
	return nil
}
