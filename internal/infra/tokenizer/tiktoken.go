// Package tokenizer counts and splits text with the BPE encodings used by the
// supported chat models.
package tokenizer

import (
	"fmt"
	"iter"
	"sync"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
)

// A single rune is at most 4 bytes, so at most 3 trailing tokens can hold an
// incomplete one.
const maxRuneSpill = 3

var loaderOnce sync.Once

// useOfflineTables makes tiktoken read the embedded BPE ranks instead of
// downloading them on first use.
func useOfflineTables() {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
}

// Tokenizer wraps one tiktoken encoding.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New loads the named encoding, e.g. cl100k_base.
func New(encoding string) (*Tokenizer, error) {
	useOfflineTables()
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: get encoding %s: %w", encoding, err)
	}
	return &Tokenizer{enc: enc}, nil
}

// CountTokens returns the number of tokens in text. Special token markers in
// the text are counted as ordinary text.
func (t *Tokenizer) CountTokens(text string) int {
	return len(t.encode(text))
}

// SplitByTokens yields consecutive windows of at most maxTokensPerChunk
// tokens, counted before decoding. Concatenating the windows reproduces text.
// Empty text yields a single empty chunk. Values below 1 are treated as 1.
//
// A window is pulled back so it does not end inside a multi-byte rune, but
// only while it keeps at least one token. With windows of one or two tokens a
// rune may still be split, and such a window re-encodes to more tokens than
// the limit.
func (t *Tokenizer) SplitByTokens(text string, maxTokensPerChunk int) iter.Seq[string] {
	return func(yield func(string) bool) {
		tokens := t.encode(text)
		if len(tokens) == 0 {
			yield("")
			return
		}
		limit := max(maxTokensPerChunk, 1)
		for start := 0; start < len(tokens); {
			end := t.windowEnd(tokens, start, limit)
			if !yield(t.enc.Decode(tokens[start:end])) {
				return
			}
			start = end
		}
	}
}

// windowEnd pulls the window end back when the window would finish inside a
// multi-byte rune, as long as the window keeps at least one token.
func (t *Tokenizer) windowEnd(tokens []int, start, limit int) int {
	end := min(start+limit, len(tokens))
	if end == len(tokens) {
		return end
	}
	for back := 0; back < maxRuneSpill && end-back-1 > start; back++ {
		if utf8.ValidString(t.enc.Decode(tokens[start : end-back])) {
			return end - back
		}
	}
	return end
}

func (t *Tokenizer) encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Registry hands out tokenizers per model, loading each encoding once.
type Registry struct {
	mu        sync.Mutex
	encodings map[string]*Tokenizer
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{encodings: make(map[string]*Tokenizer)}
}

// ForModel returns the tokenizer for the model's encoding.
func (r *Registry) ForModel(model summarizer.ModelProfile) (summarizer.Tokenizer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tok, ok := r.encodings[model.Encoding]; ok {
		return tok, nil
	}
	tok, err := New(model.Encoding)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", model.ID, err)
	}
	r.encodings[model.Encoding] = tok
	return tok, nil
}

var (
	_ summarizer.Tokenizer         = (*Tokenizer)(nil)
	_ summarizer.TokenizerProvider = (*Registry)(nil)
)
