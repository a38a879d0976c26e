package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/djvaroli/brevity/pkg/console"
	apperrors "github.com/djvaroli/brevity/pkg/errors"
	"github.com/djvaroli/brevity/pkg/metrics"
)

const (
	// DefaultBufferFraction is the share of the context window a prompt may use.
	DefaultBufferFraction = 0.65
	// DefaultSeparator delimits chunk summaries handed to the join prompt.
	DefaultSeparator = "\n***\n"
	// DefaultChunkTemperature is used for per-chunk calls.
	DefaultChunkTemperature = 0.5

	summariesArtifact = "summaries.txt"
)

// OrchestratorConfig tunes the chunk-and-reduce pipeline.
type OrchestratorConfig struct {
	BufferFraction   float64
	Separator        string
	Temperature      *float64
	ChunkTemperature *float64
	// MaxConcurrency bounds parallel chunk calls; 1 keeps them sequential.
	MaxConcurrency int
	Debug          bool
}

// Outcome is the result of ProduceSummary.
type Outcome struct {
	Summary      Summary
	Chunked      bool
	Chunks       int
	Budget       int
	PromptTokens int
	Usage        metrics.TokenUsage
}

// Orchestrator summarizes text of any size within a model's context budget.
type Orchestrator struct {
	cfg       OrchestratorConfig
	artifacts ArtifactSink
	console   Console
	logger    *slog.Logger
}

// NewOrchestrator applies defaults to cfg. artifacts and console may be nil.
func NewOrchestrator(cfg OrchestratorConfig, artifacts ArtifactSink, con Console, logger *slog.Logger) *Orchestrator {
	if cfg.BufferFraction == 0 {
		cfg.BufferFraction = DefaultBufferFraction
	}
	if cfg.Separator == "" {
		cfg.Separator = DefaultSeparator
	}
	if cfg.ChunkTemperature == nil {
		temp := DefaultChunkTemperature
		cfg.ChunkTemperature = &temp
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:       cfg,
		artifacts: artifacts,
		console:   con,
		logger:    logger.With("component", "summarizer.orchestrator"),
	}
}

// withArtifactPrefix scopes debug artifacts of one run under prefix.
func (o *Orchestrator) withArtifactPrefix(prefix string) *Orchestrator {
	if o.artifacts == nil || prefix == "" {
		return o
	}
	clone := *o
	clone.artifacts = prefixedSink{sink: o.artifacts, prefix: prefix}
	return &clone
}

// ProduceSummary summarizes fullText in one call when its rendered prompt fits
// strictly below the budget, otherwise splits, summarizes each chunk and joins.
// length must match the length of the summarizer's bound prompt.
func (o *Orchestrator) ProduceSummary(ctx context.Context, fullText string, s *Summarizer, length SummaryLength) (Outcome, error) {
	if bound, ok := s.Prompt().(interface{ Length() SummaryLength }); ok && bound.Length() != length {
		return Outcome{}, apperrors.Wrap(apperrors.CodeConfiguration,
			fmt.Sprintf("summary length %q does not match prompt length %q", string(length), string(bound.Length())), nil)
	}
	budget, err := s.Model().ContextLength(o.cfg.BufferFraction)
	if err != nil {
		return Outcome{}, err
	}
	promptTokens := s.CountTokens(s.Prompt().Render(fullText))
	o.logger.Info("summary budget computed", "prompt_tokens", promptTokens, "budget", budget, "model", string(s.Model().ID))
	o.echo("", fmt.Sprintf("Number of tokens in prompt: %d", promptTokens), console.Green)
	o.echo("", fmt.Sprintf("Model context length: %d", budget), console.Green)

	out := Outcome{Budget: budget, PromptTokens: promptTokens, Chunks: 1}
	if promptTokens < budget {
		summary, usage, err := s.Summarize(ctx, fullText, SamplingParams{Temperature: o.cfg.Temperature})
		if err != nil {
			return Outcome{}, err
		}
		out.Summary = summary
		out.Usage = usage
		return out, nil
	}

	summary, chunks, usage, err := o.chunkAndSummarize(ctx, fullText, s, length, budget)
	if err != nil {
		return Outcome{}, err
	}
	out.Summary = summary
	out.Chunked = true
	out.Chunks = chunks
	out.Usage = usage
	return out, nil
}

func (o *Orchestrator) chunkAndSummarize(ctx context.Context, text string, s *Summarizer, length SummaryLength, maxTokensPerChunk int) (Summary, int, metrics.TokenUsage, error) {
	chunks := slices.Collect(s.Tokenizer().SplitByTokens(text, maxTokensPerChunk))
	o.logger.Info("text exceeds budget, summarizing in chunks", "chunks", len(chunks), "max_tokens_per_chunk", maxTokensPerChunk)

	summaries := make([]Summary, len(chunks))
	usages := make([]metrics.TokenUsage, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.MaxConcurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if o.cfg.Debug {
				o.writeArtifact(gctx, fmt.Sprintf("chunk-%d-%d.txt", i, s.CountTokens(chunk)), chunk)
			}
			summary, usage, err := s.Summarize(gctx, chunk, SamplingParams{Temperature: o.cfg.ChunkTemperature})
			if err != nil {
				return fmt.Errorf("summarize chunk %d: %w", i, err)
			}
			if o.cfg.Debug {
				o.echo(fmt.Sprintf("Summary of chunk %d", i+1), summary.Content, console.Green)
			}
			summaries[i] = summary
			usages[i] = usage
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, 0, metrics.TokenUsage{}, err
	}

	var usage metrics.TokenUsage
	contents := make([]string, len(summaries))
	for i, summary := range summaries {
		contents[i] = summary.Content
		usage = usage.Add(usages[i])
	}
	joined := strings.Join(contents, o.cfg.Separator)
	if o.cfg.Debug {
		o.writeArtifact(ctx, summariesArtifact, joined)
	}

	joinPrompt, err := NewJoinPrompt(length)
	if err != nil {
		return Summary{}, 0, metrics.TokenUsage{}, err
	}
	final, joinUsage, err := s.WithPrompt(joinPrompt).Summarize(ctx, joined, SamplingParams{Temperature: o.cfg.Temperature})
	if err != nil {
		return Summary{}, 0, metrics.TokenUsage{}, fmt.Errorf("join chunk summaries: %w", err)
	}
	if o.cfg.Debug {
		o.echo("Joined summary", final.Content, console.Blue)
	}
	return final, len(chunks), usage.Add(joinUsage), nil
}

func (o *Orchestrator) writeArtifact(ctx context.Context, name, content string) {
	if o.artifacts == nil {
		return
	}
	if err := o.artifacts.Write(ctx, name, []byte(content)); err != nil {
		o.logger.Warn("failed to write debug artifact", "name", name, "error", err)
	}
}

func (o *Orchestrator) echo(heading, content string, color console.Color) {
	if o.console != nil {
		o.console.Print(heading, content, color)
	}
}

type prefixedSink struct {
	sink   ArtifactSink
	prefix string
}

func (p prefixedSink) Write(ctx context.Context, name string, data []byte) error {
	return p.sink.Write(ctx, path.Join(p.prefix, name), data)
}
