package summarycache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, found)

	resp := summarizer.Response{Summary: summarizer.Summary{Title: "T", Content: "C"}, NumChunks: 2}
	require.NoError(t, c.Set(ctx, "k", resp, 0))

	got, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, resp, got)
}

func TestMemoryCacheExpires(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", summarizer.Response{NumChunks: 1}, time.Minute))
	_, found, _ := c.Get(ctx, "k")
	require.True(t, found)

	now = now.Add(2 * time.Minute)
	_, found, _ = c.Get(ctx, "k")
	require.False(t, found)
	require.Empty(t, c.entries)
}

func TestValkeyEntryKeyIsHashed(t *testing.T) {
	c := NewValkeyCache(nil, "")
	key := c.entryKey("gpt-4|LONG|https://example.com/" + strings.Repeat("a", 500))

	require.True(t, strings.HasPrefix(key, "brevity:summary:"))
	require.Len(t, key, len("brevity:summary:")+64)
	require.Equal(t, key, c.entryKey("gpt-4|LONG|https://example.com/"+strings.Repeat("a", 500)))
	require.NotEqual(t, key, c.entryKey("gpt-4|SHORT|https://example.com/"))
}
