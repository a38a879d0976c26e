package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 0.65, cfg.Summary.BufferFraction)
	require.Equal(t, "\n***\n", cfg.Summary.Separator)
	require.Equal(t, 1, cfg.Summary.MaxConcurrency)
	require.Equal(t, 0.001, cfg.Summary.Pricing.InputPerToken)
	require.Equal(t, 0.002, cfg.Summary.Pricing.OutputPerToken)
	require.Nil(t, cfg.LLM.Temperature)
	require.Equal(t, 0.5, *cfg.LLM.ChunkTemperature)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
llm:
  defaultModel: gpt-4
  temperature: 0.3
summary:
  maxConcurrency: 2
  debug: true
artifacts:
  kind: dir
  dir: /tmp/brevity
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-fallback")
	t.Setenv("SUMMARY_MAX_CONCURRENCY", "4")
	t.Setenv("CACHE_TTL", "90m")
	t.Setenv("HTTP_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "gpt-4", cfg.LLM.DefaultModel)
	require.Equal(t, 0.3, *cfg.LLM.Temperature)
	require.Equal(t, "sk-fallback", cfg.LLM.APIKey)
	require.Equal(t, 4, cfg.Summary.MaxConcurrency)
	require.True(t, cfg.Summary.Debug)
	require.Equal(t, ArtifactsDir, cfg.Artifacts.Kind)
	require.Equal(t, 90*time.Minute, cfg.Cache.TTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORS.AllowedOrigins)
	require.Equal(t, "\n***\n", cfg.Summary.Separator)
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)

	t.Setenv("CONFIG_PATH", "")
	t.Setenv("SUMMARY_BUFFER_FRACTION", "not-a-number")
	_, err = Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	hot := 3.0
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty address", mutate: func(c *Config) { c.HTTP.Address = "" }},
		{name: "unknown model", mutate: func(c *Config) { c.LLM.DefaultModel = "gpt-9" }},
		{name: "temperature too high", mutate: func(c *Config) { c.LLM.Temperature = &hot }},
		{name: "zero buffer", mutate: func(c *Config) { c.Summary.BufferFraction = 0 }},
		{name: "buffer above one", mutate: func(c *Config) { c.Summary.BufferFraction = 1.5 }},
		{name: "empty separator", mutate: func(c *Config) { c.Summary.Separator = "" }},
		{name: "zero concurrency", mutate: func(c *Config) { c.Summary.MaxConcurrency = 0 }},
		{name: "unknown length", mutate: func(c *Config) { c.Summary.DefaultLength = "HUGE" }},
		{name: "negative price", mutate: func(c *Config) { c.Summary.Pricing.OutputPerToken = -1 }},
		{name: "unknown artifacts kind", mutate: func(c *Config) { c.Artifacts.Kind = "ftp" }},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Artifacts.Kind = ArtifactsS3; c.Artifacts.S3.Endpoint = "http://minio:9000" }},
		{name: "cache without addr", mutate: func(c *Config) { c.Cache.Enabled = true }},
		{name: "rate limit without rpm", mutate: func(c *Config) { c.HTTP.RateLimit.RequestsPerMinute = 0 }},
		{name: "pool sizes", mutate: func(c *Config) { c.History.Postgres.MinConns = 8 }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
