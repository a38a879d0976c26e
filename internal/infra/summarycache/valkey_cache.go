package summarycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
)

// ValkeyCache stores responses as JSON strings in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "brevity"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) (summarizer.Response, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.entryKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return summarizer.Response{}, false, nil
		}
		return summarizer.Response{}, false, err
	}
	var resp summarizer.Response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return summarizer.Response{}, false, fmt.Errorf("decode cached summary: %w", err)
	}
	return resp, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, resp summarizer.Response, ttl time.Duration) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

// URLs can be long, so keys are hashed.
func (c *ValkeyCache) entryKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%s:summary:%s", c.prefix, hex.EncodeToString(sum[:]))
}

var _ summarizer.Cache = (*ValkeyCache)(nil)
