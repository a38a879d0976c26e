package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/djvaroli/brevity/pkg/console"
	apperrors "github.com/djvaroli/brevity/pkg/errors"
	"github.com/djvaroli/brevity/pkg/util"
)

const defaultRecentLimit = 20

// Service exposes document summarization capabilities.
type Service interface {
	SummarizeFile(ctx context.Context, req Request) (Response, error)
	Recent(ctx context.Context, limit int) ([]HistoryRecord, error)
}

// Config configures the summarization service.
type Config struct {
	DefaultModel  Model
	DefaultLength SummaryLength
	Pricing       Pricing
	CostPrecision int
	Debug         bool
	CacheTTL      time.Duration
	RecentLimit   int
}

type service struct {
	cfg          Config
	client       ChatClient
	tokenizers   TokenizerProvider
	source       DocumentSource
	extractor    TextExtractor
	orchestrator *Orchestrator
	cache        Cache
	history      HistoryRepository
	console      Console
	logger       *slog.Logger
}

// Dependencies groups the collaborators of the service. Cache, History and
// Console are optional.
type Dependencies struct {
	Client       ChatClient
	Tokenizers   TokenizerProvider
	Source       DocumentSource
	Extractor    TextExtractor
	Orchestrator *Orchestrator
	Cache        Cache
	History      HistoryRepository
	Console      Console
}

// NewService validates the lookup tables eagerly and wires the domain.
func NewService(cfg Config, deps Dependencies, logger *slog.Logger) (Service, error) {
	if err := ValidateLengths(); err != nil {
		return nil, err
	}
	if err := ValidateModels(); err != nil {
		return nil, err
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = ModelGPT35Turbo
	}
	if _, err := LookupModel(string(cfg.DefaultModel)); err != nil {
		return nil, err
	}
	if cfg.DefaultLength == "" {
		cfg.DefaultLength = LengthMedium
	}
	if _, err := cfg.DefaultLength.Words(); err != nil {
		return nil, err
	}
	if cfg.Pricing.InputPerToken < 0 || cfg.Pricing.OutputPerToken < 0 {
		return nil, apperrors.Wrap(apperrors.CodeConfiguration, "token rates cannot be negative", nil)
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = defaultRecentLimit
	}
	if deps.Client == nil || deps.Tokenizers == nil || deps.Source == nil || deps.Extractor == nil || deps.Orchestrator == nil {
		return nil, errors.New("summarizer service requires client, tokenizers, source, extractor and orchestrator")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		cfg:          cfg,
		client:       deps.Client,
		tokenizers:   deps.Tokenizers,
		source:       deps.Source,
		extractor:    deps.Extractor,
		orchestrator: deps.Orchestrator,
		cache:        deps.Cache,
		history:      deps.History,
		console:      deps.Console,
		logger:       logger.With("component", "summarizer.service"),
	}, nil
}

func (s *service) SummarizeFile(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	params, err := s.resolve(req)
	if err != nil {
		return Response{}, err
	}
	profile, err := LookupModel(string(params.ModelName))
	if err != nil {
		return Response{}, err
	}

	key := cacheKey(params)
	if cached, ok := s.lookupCache(ctx, key); ok {
		return cached, nil
	}

	prompt, err := NewDensityPrompt(params.SummaryLength)
	if err != nil {
		return Response{}, err
	}
	tokenizer, err := s.tokenizers.ForModel(profile)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeConfiguration, "tokenizer unavailable for model", err)
	}

	file, err := s.source.Download(ctx, params.URL)
	if err != nil {
		return Response{}, classifyFetchError(params.URL, err)
	}
	defer s.cleanup(file)

	text, err := s.extractor.ExtractText(ctx, file.Path)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeExtract, fmt.Sprintf("unable to extract text from file at URL: %s", params.URL), err)
	}
	s.logger.Info("document text extracted", "url", params.URL, "bytes", file.Size, "chars", len(text))

	sum := NewSummarizer(profile, prompt, s.client, tokenizer, SummarizerOptions{
		Pricing: s.cfg.Pricing,
		Debug:   s.cfg.Debug,
		Console: s.console,
	}, s.logger)

	runID := uuid.NewString()
	outcome, err := s.orchestrator.withArtifactPrefix(runID).ProduceSummary(ctx, text, sum, params.SummaryLength)
	if err != nil {
		return Response{}, err
	}

	inputCost := sum.EstimateCost(text, DirectionInput, s.cfg.CostPrecision)
	outputCost := sum.EstimateCost(outcome.Summary.Content, DirectionOutput, s.cfg.CostPrecision)
	usage := outcome.Usage
	resp := Response{
		Parameters:      params,
		Summary:         outcome.Summary,
		InputCost:       inputCost,
		OutputCost:      outputCost,
		TotalCost:       roundTo(inputCost+outputCost, s.cfg.CostPrecision),
		Currency:        Currency,
		NumInputTokens:  outcome.PromptTokens,
		NumOutputTokens: sum.CountTokens(outcome.Summary.Content),
		NumChunks:       outcome.Chunks,
		TokenUsage:      &usage,
		DurationMs:      util.ElapsedMs(start),
	}
	if s.console != nil {
		s.console.Print(resp.Summary.Title, resp.Summary.Content, console.Blue)
	}
	s.logger.Info("summary produced",
		"run_id", runID,
		"url", params.URL,
		"model", string(params.ModelName),
		"chunked", outcome.Chunked,
		"chunks", outcome.Chunks,
		"total_cost", resp.TotalCost,
		"duration_ms", resp.DurationMs,
	)

	s.remember(ctx, key, resp)
	return resp, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]HistoryRecord, error) {
	if s.history == nil {
		return []HistoryRecord{}, nil
	}
	if limit <= 0 || limit > s.cfg.RecentLimit {
		limit = s.cfg.RecentLimit
	}
	records, err := s.history.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to list summaries", err)
	}
	return records, nil
}

func (s *service) resolve(req Request) (Parameters, error) {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return Parameters{}, apperrors.Wrap(apperrors.CodeInvalidInput, "url cannot be empty", nil)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return Parameters{}, apperrors.Wrap(apperrors.CodeInvalidInput, "url must use http or https", nil)
	}

	model := s.cfg.DefaultModel
	if strings.TrimSpace(req.Model) != "" {
		profile, err := LookupModel(req.Model)
		if err != nil {
			return Parameters{}, err
		}
		model = profile.ID
	}

	length := s.cfg.DefaultLength
	if strings.TrimSpace(req.SummaryLength) != "" {
		parsed, err := ParseSummaryLength(req.SummaryLength)
		if err != nil {
			return Parameters{}, err
		}
		length = parsed
	}
	return Parameters{URL: url, ModelName: model, SummaryLength: length}, nil
}

func classifyFetchError(url string, err error) error {
	var statusErr *RemoteStatusError
	if errors.As(err, &statusErr) {
		return apperrors.Wrap(apperrors.CodeFetchHTTP, fmt.Sprintf("Unable to download file at URL: %s. An HTTP error occurred.", url), err)
	}
	return apperrors.Wrap(apperrors.CodeFetch, fmt.Sprintf("Unable to download file at URL: %s. A server error occurred.", url), err)
}

// Cleanup failures never mask the primary result.
func (s *service) cleanup(file DownloadedFile) {
	if err := s.source.Remove(file); err != nil {
		s.logger.Warn("failed to remove downloaded file", "path", file.Path, "error", err)
	}
}

func (s *service) lookupCache(ctx context.Context, key string) (Response, bool) {
	if s.cache == nil {
		return Response{}, false
	}
	resp, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("summary cache lookup failed", "error", err)
		return Response{}, false
	}
	if !found {
		return Response{}, false
	}
	resp.Cached = true
	s.logger.Info("summary served from cache", "url", resp.Parameters.URL)
	return resp, true
}

func (s *service) remember(ctx context.Context, key string, resp Response) {
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("summary cache store failed", "error", err)
		}
	}
	if s.history == nil {
		return
	}
	record := HistoryRecord{
		ID:              uuid.New(),
		URL:             resp.Parameters.URL,
		Model:           resp.Parameters.ModelName,
		SummaryLength:   resp.Parameters.SummaryLength,
		Title:           resp.Summary.Title,
		Content:         resp.Summary.Content,
		InputCost:       resp.InputCost,
		OutputCost:      resp.OutputCost,
		TotalCost:       resp.TotalCost,
		NumInputTokens:  resp.NumInputTokens,
		NumOutputTokens: resp.NumOutputTokens,
		NumChunks:       resp.NumChunks,
		CreatedAt:       util.NowUTC(),
	}
	if err := s.history.Append(ctx, record); err != nil {
		s.logger.Warn("summary history append failed", "error", err)
	}
}

func cacheKey(p Parameters) string {
	return fmt.Sprintf("%s|%s|%s", p.ModelName, p.SummaryLength, p.URL)
}
