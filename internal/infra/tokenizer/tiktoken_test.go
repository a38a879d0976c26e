package tokenizer

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
)

func newCL100K(t *testing.T) *Tokenizer {
	t.Helper()
	tok, err := New("cl100k_base")
	require.NoError(t, err)
	return tok
}

func TestCountTokens(t *testing.T) {
	tok := newCL100K(t)

	require.Equal(t, 0, tok.CountTokens(""))
	require.Equal(t, 2, tok.CountTokens("hello world"))
}

func TestSplitByTokens(t *testing.T) {
	tok := newCL100K(t)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
	total := tok.CountTokens(text)

	chunks := slices.Collect(tok.SplitByTokens(text, 50))
	require.Len(t, chunks, (total+49)/50)
	require.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitByTokensEdgeCases(t *testing.T) {
	tok := newCL100K(t)

	require.Equal(t, []string{""}, slices.Collect(tok.SplitByTokens("", 10)))
	require.Equal(t, []string{"hello world"}, slices.Collect(tok.SplitByTokens("hello world", 100)))
	require.Equal(t, []string{"hello", " world"}, slices.Collect(tok.SplitByTokens("hello world", 0)))
}

func TestWindowEndStaysWithinLimit(t *testing.T) {
	tok := newCL100K(t)
	tokens := tok.encode(strings.Repeat("naïve 🦊 café 日本語 ", 8))

	for limit := 1; limit <= 6; limit++ {
		for start := 0; start < len(tokens); {
			end := tok.windowEnd(tokens, start, limit)
			require.Greater(t, end, start, "limit %d", limit)
			require.LessOrEqual(t, end-start, limit, "limit %d", limit)
			start = end
		}
	}
}

func TestSplitByTokensIsRestartable(t *testing.T) {
	tok := newCL100K(t)
	seq := tok.SplitByTokens("one two three four five six", 2)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	require.Equal(t, first, second)

	var early []string
	for chunk := range seq {
		early = append(early, chunk)
		break
	}
	require.Equal(t, first[:1], early)
}

func TestSplitByTokensRoundTrip(t *testing.T) {
	tok := newCL100K(t)
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.String().Draw(rt, "text")
		limit := rapid.IntRange(1, 64).Draw(rt, "limit")

		chunks := slices.Collect(tok.SplitByTokens(text, limit))
		if len(chunks) == 0 {
			rt.Fatal("no chunks")
		}
		if joined := strings.Join(chunks, ""); joined != text {
			rt.Fatalf("round trip mismatch: %q != %q", joined, text)
		}
	})
}

func TestRegistryCachesEncodings(t *testing.T) {
	reg := NewRegistry()
	gpt4, err := summarizer.LookupModel("gpt-4")
	require.NoError(t, err)
	gpt35, err := summarizer.LookupModel("gpt-3.5-turbo")
	require.NoError(t, err)

	a, err := reg.ForModel(gpt4)
	require.NoError(t, err)
	b, err := reg.ForModel(gpt35)
	require.NoError(t, err)
	require.Same(t, a, b)

	_, err = reg.ForModel(summarizer.ModelProfile{ID: "custom", MaxTokens: 10, Encoding: "nope"})
	require.Error(t, err)
}
