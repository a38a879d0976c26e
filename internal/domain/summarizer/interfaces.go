package summarizer

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/djvaroli/brevity/internal/infra/llm/chatgpt"
	"github.com/djvaroli/brevity/pkg/console"
)

// ChatClient is the LLM call boundary.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// Tokenizer counts and splits text the way a model tokenizes it.
type Tokenizer interface {
	CountTokens(text string) int
	// SplitByTokens yields consecutive token-aligned windows of at most
	// maxTokensPerChunk tokens, counted before decoding. The sequence may be
	// iterated more than once.
	SplitByTokens(text string, maxTokensPerChunk int) iter.Seq[string]
}

// TokenizerProvider returns the tokenizer of a model.
type TokenizerProvider interface {
	ForModel(model ModelProfile) (Tokenizer, error)
}

// DocumentSource downloads remote documents to local files.
type DocumentSource interface {
	Download(ctx context.Context, url string) (DownloadedFile, error)
	Remove(file DownloadedFile) error
}

// TextExtractor turns a local file into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// ArtifactSink receives debug artifacts.
type ArtifactSink interface {
	Write(ctx context.Context, name string, data []byte) error
}

// Console echoes diagnostics to an interactive user.
type Console interface {
	Print(heading, content string, color console.Color)
}

// Cache stores finished responses.
type Cache interface {
	Get(ctx context.Context, key string) (Response, bool, error)
	Set(ctx context.Context, key string, resp Response, ttl time.Duration) error
}

// HistoryRepository records completed summaries.
type HistoryRepository interface {
	Append(ctx context.Context, record HistoryRecord) error
	ListRecent(ctx context.Context, limit int) ([]HistoryRecord, error)
}

// RemoteStatusError reports that the document source rejected the request.
type RemoteStatusError struct {
	URL        string
	StatusCode int
}

func (e *RemoteStatusError) Error() string {
	return fmt.Sprintf("remote responded with status %d for %s", e.StatusCode, e.URL)
}
