package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
)

func TestWriteModels(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, writeModels(&buf, 0.65, "text"))
		require.Contains(t, buf.String(), "MODEL")
		require.Contains(t, buf.String(), "gpt-3.5-turbo")
		require.Contains(t, buf.String(), "2600")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, writeModels(&buf, 0.5, "json"))
		var rows []modelRow
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
		require.Len(t, rows, len(summarizer.Models()))
		require.Equal(t, "gpt-4", rows[2].Model)
		require.Equal(t, 4000, rows[2].Budget)
	})

	t.Run("bad fraction", func(t *testing.T) {
		t.Parallel()
		require.Error(t, writeModels(&bytes.Buffer{}, 1.5, "text"))
	})
}

func TestWriteResponse(t *testing.T) {
	t.Parallel()

	resp := summarizer.Response{
		Summary:         summarizer.Summary{Title: "T", Content: "C"},
		InputCost:       0.1,
		OutputCost:      0.01,
		TotalCost:       0.11,
		Currency:        "USD",
		NumInputTokens:  100,
		NumOutputTokens: 5,
		NumChunks:       1,
	}

	var text bytes.Buffer
	require.NoError(t, writeResponse(&text, resp, "text", 3))
	require.Equal(t, "Chunks: 1\nInput tokens: 100\nOutput tokens: 5\nCost: 0.110 USD (input 0.100, output 0.010)\n", text.String())

	var raw bytes.Buffer
	require.NoError(t, writeResponse(&raw, resp, "json", 3))
	var decoded summarizer.Response
	require.NoError(t, json.Unmarshal(raw.Bytes(), &decoded))
	require.Equal(t, resp, decoded)
}

func TestSummarizeRequiresURL(t *testing.T) {
	flag := summarizeCmd.Flags().Lookup("url")
	require.NotNil(t, flag)
	require.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag])
}
