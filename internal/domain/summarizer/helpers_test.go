package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/djvaroli/brevity/internal/infra/llm/chatgpt"
	"github.com/djvaroli/brevity/pkg/console"
)

// wordTokenizer treats every whitespace separated field as one token.
type wordTokenizer struct{}

func (wordTokenizer) CountTokens(text string) int {
	return len(strings.Fields(text))
}

func (wordTokenizer) SplitByTokens(text string, maxTokensPerChunk int) iter.Seq[string] {
	return func(yield func(string) bool) {
		words := strings.Fields(text)
		if len(words) == 0 {
			yield("")
			return
		}
		for i := 0; i < len(words); i += maxTokensPerChunk {
			end := min(i+maxTokensPerChunk, len(words))
			if !yield(strings.Join(words[i:end], " ")) {
				return
			}
		}
	}
}

type stubTokenizers struct{}

func (stubTokenizers) ForModel(ModelProfile) (Tokenizer, error) {
	return wordTokenizer{}, nil
}

type stubChatClient struct {
	mu       sync.Mutex
	requests []chatgpt.ChatCompletionRequest
	respond  func(prompt string) (chatgpt.ChatCompletionResponse, error)
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return s.respond(req.Messages[0].Content)
}

func (s *stubChatClient) calls() []chatgpt.ChatCompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chatgpt.ChatCompletionRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

type printed struct {
	heading string
	content string
	color   console.Color
}

type recordingConsole struct {
	mu    sync.Mutex
	lines []printed
}

func (c *recordingConsole) Print(heading, content string, color console.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, printed{heading: heading, content: content, color: color})
}

type memorySink struct {
	mu    sync.Mutex
	files map[string]string
}

func newMemorySink() *memorySink {
	return &memorySink{files: make(map[string]string)}
}

func (m *memorySink) Write(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = string(data)
	return nil
}

func completion(content, finishReason string) chatgpt.ChatCompletionResponse {
	return chatgpt.ChatCompletionResponse{
		Choices: []chatgpt.Choice{{
			Message:      chatgpt.Message{Role: "assistant", Content: content},
			FinishReason: finishReason,
		}},
		Usage: chatgpt.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

// densityOutput builds a five revision reply whose last revision carries content.
func densityOutput(content string) string {
	revisions := make([]map[string]string, 0, 5)
	for i := 0; i < 4; i++ {
		revisions = append(revisions, map[string]string{"Missing_Entities": "e", "Denser_Summary": "draft"})
	}
	revisions = append(revisions, map[string]string{"Missing_Entities": "e", "Denser_Summary": content})
	raw, _ := json.Marshal(revisions)
	return string(raw)
}

func joinOutput(title, content string) string {
	revisions := make([]map[string]string, 0, 5)
	for i := 0; i < 4; i++ {
		revisions = append(revisions, map[string]string{"Missing_Entities": "e", "Denser_Summary": "draft", "Title": "draft title"})
	}
	revisions = append(revisions, map[string]string{"Missing_Entities": "e", "Denser_Summary": content, "Title": title})
	raw, _ := json.Marshal(revisions)
	return string(raw)
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "w" + strconv.Itoa(i)
	}
	return strings.Join(parts, " ")
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func gpt35(t *testing.T) ModelProfile {
	t.Helper()
	profile, err := LookupModel(string(ModelGPT35Turbo))
	require.NoError(t, err)
	return profile
}

// overhead is the token count of a rendered prompt with no text.
func overhead(p Prompt) int {
	return wordTokenizer{}.CountTokens(p.Render(""))
}
