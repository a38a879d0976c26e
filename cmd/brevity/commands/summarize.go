package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
	"github.com/djvaroli/brevity/internal/infra/artifacts"
	"github.com/djvaroli/brevity/internal/infra/config"
	"github.com/djvaroli/brevity/internal/infra/document"
	"github.com/djvaroli/brevity/internal/infra/llm/chatgpt"
	"github.com/djvaroli/brevity/internal/infra/tokenizer"
	"github.com/djvaroli/brevity/pkg/console"
)

var (
	summarizeURL          string
	summarizeModel        string
	summarizeLength       string
	summarizeDebug        bool
	summarizeArtifactsDir string
	summarizeConcurrency  int
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize the document at a URL",
	Long: `Download the document at --url, extract its text and print a
chain-of-density summary with its estimated cost.`,
	Example: `  brevity summarize --url https://arxiv.org/pdf/2309.10668.pdf --length SHORT`,
	RunE:    runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeURL, "url", "", "Document URL (http or https)")
	summarizeCmd.Flags().StringVar(&summarizeModel, "model", "", "Model name (see the models command)")
	summarizeCmd.Flags().StringVar(&summarizeLength, "length", "", "Summary length: SHORT, MEDIUM or LONG")
	summarizeCmd.Flags().BoolVar(&summarizeDebug, "debug", false, "Echo chunk summaries and write debug artifacts")
	summarizeCmd.Flags().StringVar(&summarizeArtifactsDir, "artifacts-dir", "artifacts", "Directory for debug artifacts")
	summarizeCmd.Flags().IntVar(&summarizeConcurrency, "concurrency", 0, "Parallel chunk calls (0 uses the configured value)")
	_ = summarizeCmd.MarkFlagRequired("url")
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if summarizeDebug {
		cfg.Summary.Debug = true
	}
	if summarizeConcurrency > 0 {
		cfg.Summary.MaxConcurrency = summarizeConcurrency
	}

	// Console output owns stdout.
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	var con summarizer.Console
	if outputFormat != "json" {
		con = console.New(cmd.OutOrStdout())
	}

	svc, err := buildService(cfg, con, log)
	if err != nil {
		return err
	}

	resp, err := svc.SummarizeFile(ctx, summarizer.Request{
		URL:           summarizeURL,
		Model:         summarizeModel,
		SummaryLength: summarizeLength,
	})
	if err != nil {
		return err
	}
	return writeResponse(cmd.OutOrStdout(), resp, outputFormat, cfg.Summary.CostPrecision)
}

func buildService(cfg *config.Config, con summarizer.Console, log *slog.Logger) (summarizer.Service, error) {
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.RequestTimeout)
	if err != nil {
		return nil, err
	}

	var sink summarizer.ArtifactSink = artifacts.Noop{}
	if cfg.Summary.Debug {
		dir, err := artifacts.NewDirSink(summarizeArtifactsDir)
		if err != nil {
			return nil, err
		}
		sink = dir
	}

	orchestrator := summarizer.NewOrchestrator(summarizer.OrchestratorConfig{
		BufferFraction:   cfg.Summary.BufferFraction,
		Separator:        cfg.Summary.Separator,
		Temperature:      cfg.LLM.Temperature,
		ChunkTemperature: cfg.LLM.ChunkTemperature,
		MaxConcurrency:   cfg.Summary.MaxConcurrency,
		Debug:            cfg.Summary.Debug,
	}, sink, con, log)

	return summarizer.NewService(summarizer.Config{
		DefaultModel:  summarizer.Model(cfg.LLM.DefaultModel),
		DefaultLength: summarizer.SummaryLength(strings.ToUpper(cfg.Summary.DefaultLength)),
		Pricing: summarizer.Pricing{
			InputPerToken:  cfg.Summary.Pricing.InputPerToken,
			OutputPerToken: cfg.Summary.Pricing.OutputPerToken,
		},
		CostPrecision: cfg.Summary.CostPrecision,
		Debug:         cfg.Summary.Debug,
	}, summarizer.Dependencies{
		Client:     client,
		Tokenizers: tokenizer.NewRegistry(),
		Source: document.NewFetcher(document.FetcherConfig{
			TempDir:   cfg.Document.TempDir,
			MaxBytes:  cfg.Document.MaxBytes,
			Timeout:   cfg.Document.Timeout,
			UserAgent: cfg.Document.UserAgent,
		}, nil),
		Extractor:    document.NewExtractor(log),
		Orchestrator: orchestrator,
		Console:      con,
	}, log)
}

func writeResponse(w io.Writer, resp summarizer.Response, format string, precision int) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	_, err := fmt.Fprintf(w,
		"Chunks: %d\nInput tokens: %d\nOutput tokens: %d\nCost: %.*f %s (input %.*f, output %.*f)\n",
		resp.NumChunks, resp.NumInputTokens, resp.NumOutputTokens,
		precision, resp.TotalCost, resp.Currency,
		precision, resp.InputCost,
		precision, resp.OutputCost,
	)
	return err
}
