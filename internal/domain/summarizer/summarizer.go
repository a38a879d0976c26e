package summarizer

import (
	"context"
	"log/slog"

	"github.com/djvaroli/brevity/internal/infra/llm/chatgpt"
	"github.com/djvaroli/brevity/pkg/console"
	apperrors "github.com/djvaroli/brevity/pkg/errors"
	"github.com/djvaroli/brevity/pkg/metrics"
)

// Summarizer binds a model and a prompt strategy to the LLM.
type Summarizer struct {
	model     ModelProfile
	prompt    Prompt
	client    ChatClient
	tokenizer Tokenizer
	pricing   Pricing
	debug     bool
	console   Console
	logger    *slog.Logger
}

// SummarizerOptions carries the optional collaborators of a Summarizer.
type SummarizerOptions struct {
	Pricing Pricing
	Debug   bool
	Console Console
}

// NewSummarizer constructs a Summarizer.
func NewSummarizer(model ModelProfile, prompt Prompt, client ChatClient, tokenizer Tokenizer, opts SummarizerOptions, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		model:     model,
		prompt:    prompt,
		client:    client,
		tokenizer: tokenizer,
		pricing:   opts.Pricing,
		debug:     opts.Debug,
		console:   opts.Console,
		logger:    logger.With("component", "summarizer.summarizer", "model", string(model.ID)),
	}
}

// WithPrompt returns a Summarizer bound to the same model with another strategy.
func (s *Summarizer) WithPrompt(prompt Prompt) *Summarizer {
	clone := *s
	clone.prompt = prompt
	return &clone
}

// Model returns the bound model profile.
func (s *Summarizer) Model() ModelProfile { return s.model }

// Prompt returns the bound prompt strategy.
func (s *Summarizer) Prompt() Prompt { return s.prompt }

// Tokenizer returns the tokenizer of the bound model.
func (s *Summarizer) Tokenizer() Tokenizer { return s.tokenizer }

// Summarize issues one blocking call and parses the reply with the bound strategy.
func (s *Summarizer) Summarize(ctx context.Context, text string, params SamplingParams) (Summary, metrics.TokenUsage, error) {
	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       string(s.model.ID),
		Messages:    []chatgpt.Message{{Role: "user", Content: s.prompt.Render(text)}},
		Temperature: params.Temperature,
	})
	if err != nil {
		return Summary{}, metrics.TokenUsage{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt request failed", err)
	}
	if len(resp.Choices) == 0 {
		return Summary{}, metrics.TokenUsage{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt returned no choices", nil)
	}
	usage := metrics.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		Calls:            1,
	}

	choice := resp.Choices[0]
	s.warnIfNotNaturalStop(choice.FinishReason)
	s.logger.Debug("chatgpt response received", "content", choice.Message.Content)

	summary, err := s.prompt.Parse(choice.Message.Content)
	if err != nil {
		return Summary{}, usage, err
	}
	return summary, usage, nil
}

// A truncated reply usually means incomplete JSON; parsing still gets its chance.
func (s *Summarizer) warnIfNotNaturalStop(reason string) {
	if reason == chatgpt.FinishReasonStop {
		return
	}
	if s.debug && s.console != nil {
		s.console.Print("", "WARNING: Model did not come to a natural stop.", console.Yellow)
	}
	s.logger.Warn("model did not come to a natural stop", "finish_reason", reason)
}

// CountTokens counts text with the bound model's tokenizer.
func (s *Summarizer) CountTokens(text string) int {
	return s.tokenizer.CountTokens(text)
}

// EstimateCost prices text in the given direction, rounded to precision digits.
func (s *Summarizer) EstimateCost(text string, dir Direction, precision int) float64 {
	return s.pricing.Cost(s.CountTokens(text), dir, precision)
}
