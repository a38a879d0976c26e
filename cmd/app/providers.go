package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
	"github.com/djvaroli/brevity/internal/infra/artifacts"
	"github.com/djvaroli/brevity/internal/infra/config"
	"github.com/djvaroli/brevity/internal/infra/document"
	"github.com/djvaroli/brevity/internal/infra/llm/chatgpt"
	"github.com/djvaroli/brevity/internal/infra/summarycache"
	"github.com/djvaroli/brevity/internal/infra/summaryrepo"
)

func provideServiceConfig(cfg *config.Config) summarizer.Config {
	return summarizer.Config{
		DefaultModel:  summarizer.Model(cfg.LLM.DefaultModel),
		DefaultLength: summarizer.SummaryLength(strings.ToUpper(cfg.Summary.DefaultLength)),
		Pricing: summarizer.Pricing{
			InputPerToken:  cfg.Summary.Pricing.InputPerToken,
			OutputPerToken: cfg.Summary.Pricing.OutputPerToken,
		},
		CostPrecision: cfg.Summary.CostPrecision,
		Debug:         cfg.Summary.Debug,
		CacheTTL:      cfg.Cache.TTL,
		RecentLimit:   cfg.History.Limit,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.RequestTimeout)
}

func provideFetcher(cfg *config.Config) *document.Fetcher {
	return document.NewFetcher(document.FetcherConfig{
		TempDir:   cfg.Document.TempDir,
		MaxBytes:  cfg.Document.MaxBytes,
		Timeout:   cfg.Document.Timeout,
		UserAgent: cfg.Document.UserAgent,
	}, nil)
}

func provideArtifactSink(cfg *config.Config, logger *slog.Logger) (summarizer.ArtifactSink, error) {
	switch cfg.Artifacts.Kind {
	case config.ArtifactsDir:
		logger.Info("debug artifacts written to directory", "dir", cfg.Artifacts.Dir)
		return artifacts.NewDirSink(cfg.Artifacts.Dir)
	case config.ArtifactsS3:
		s3 := cfg.Artifacts.S3
		logger.Info("debug artifacts uploaded to bucket", "bucket", s3.Bucket)
		return artifacts.NewS3Sink(artifacts.S3Config{
			Endpoint:  s3.Endpoint,
			AccessKey: s3.AccessKey,
			SecretKey: s3.SecretKey,
			Bucket:    s3.Bucket,
			Region:    s3.Region,
			Prefix:    s3.Prefix,
		}, logger)
	default:
		return artifacts.Noop{}, nil
	}
}

func provideOrchestrator(cfg *config.Config, sink summarizer.ArtifactSink, logger *slog.Logger) *summarizer.Orchestrator {
	return summarizer.NewOrchestrator(summarizer.OrchestratorConfig{
		BufferFraction:   cfg.Summary.BufferFraction,
		Separator:        cfg.Summary.Separator,
		Temperature:      cfg.LLM.Temperature,
		ChunkTemperature: cfg.LLM.ChunkTemperature,
		MaxConcurrency:   cfg.Summary.MaxConcurrency,
		Debug:            cfg.Summary.Debug,
	}, sink, nil, logger)
}

// provideCache returns nil when caching is disabled.
func provideCache(cfg *config.Config, logger *slog.Logger) (summarizer.Cache, func()) {
	if !cfg.Cache.Enabled {
		return nil, func() {}
	}
	opt, err := buildValkeyOptions(cfg.Cache.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return summarycache.NewMemoryCache(), func() {}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return summarycache.NewMemoryCache(), func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return summarycache.NewMemoryCache(), func() {}
	}
	logger.Info("summary valkey cache enabled", "addr", cfg.Cache.Addr)
	return summarycache.NewValkeyCache(client, cfg.Cache.Prefix), client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideHistory(cfg *config.Config, logger *slog.Logger) (summarizer.HistoryRepository, func()) {
	fallback := summaryrepo.NewMemoryRepository(cfg.History.MemoryCapacity)
	dsn := strings.TrimSpace(cfg.History.Postgres.DSN)
	if dsn == "" {
		logger.Info("history postgres dsn not set, using memory repository")
		return fallback, func() {}
	}
	pool, err := openPool(cfg.History.Postgres)
	if err != nil {
		logger.Error("postgres unavailable, using memory repository", "error", err)
		return fallback, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := summaryrepo.Migrate(ctx, pool, logger); err != nil {
		logger.Error("history migration failed, using memory repository", "error", err)
		pool.Close()
		return fallback, func() {}
	}
	logger.Info("history postgres repository enabled")
	return summaryrepo.NewPostgresRepository(pool), pool.Close
}

func openPool(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

func provideDependencies(
	client summarizer.ChatClient,
	tokenizers summarizer.TokenizerProvider,
	source summarizer.DocumentSource,
	extractor summarizer.TextExtractor,
	orchestrator *summarizer.Orchestrator,
	cache summarizer.Cache,
	history summarizer.HistoryRepository,
) summarizer.Dependencies {
	return summarizer.Dependencies{
		Client:       client,
		Tokenizers:   tokenizers,
		Source:       source,
		Extractor:    extractor,
		Orchestrator: orchestrator,
		Cache:        cache,
		History:      history,
	}
}
