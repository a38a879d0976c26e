package summarizer

import (
	"time"

	"github.com/google/uuid"

	"github.com/djvaroli/brevity/pkg/metrics"
)

// DefaultTitle is used when a prompt strategy does not produce a title.
const DefaultTitle = "Title"

// Summary is the structured result extracted from model output.
type Summary struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SamplingParams are forwarded verbatim to the LLM call. Nil fields are omitted.
type SamplingParams struct {
	Temperature *float64
}

// Request represents the incoming summarization payload.
type Request struct {
	URL           string `json:"url" form:"url"`
	Model         string `json:"model" form:"model"`
	SummaryLength string `json:"summaryLength" form:"summaryLength"`
}

// Parameters echoes the resolved request parameters.
type Parameters struct {
	URL           string        `json:"url"`
	ModelName     Model         `json:"modelName"`
	SummaryLength SummaryLength `json:"summaryLength"`
}

// Response is returned by the file summarization endpoint.
type Response struct {
	Parameters      Parameters          `json:"summaryParameters"`
	Summary         Summary             `json:"summary"`
	InputCost       float64             `json:"inputCost"`
	OutputCost      float64             `json:"outputCost"`
	TotalCost       float64             `json:"totalCost"`
	Currency        string              `json:"currency"`
	NumInputTokens  int                 `json:"numInputTokens"`
	NumOutputTokens int                 `json:"numOutputTokens"`
	NumChunks       int                 `json:"numChunks"`
	TokenUsage      *metrics.TokenUsage `json:"tokenUsage,omitempty"`
	DurationMs      int64               `json:"durationMs,omitempty"`
	Cached          bool                `json:"cached,omitempty"`
}

// HistoryRecord is a completed summary kept for later listing.
type HistoryRecord struct {
	ID              uuid.UUID     `json:"id"`
	URL             string        `json:"url"`
	Model           Model         `json:"model"`
	SummaryLength   SummaryLength `json:"summaryLength"`
	Title           string        `json:"title"`
	Content         string        `json:"content"`
	InputCost       float64       `json:"inputCost"`
	OutputCost      float64       `json:"outputCost"`
	TotalCost       float64       `json:"totalCost"`
	NumInputTokens  int           `json:"numInputTokens"`
	NumOutputTokens int           `json:"numOutputTokens"`
	NumChunks       int           `json:"numChunks"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// DownloadedFile is a remote document materialised on local disk.
type DownloadedFile struct {
	URL         string
	Path        string
	Size        int64
	ContentType string
}
