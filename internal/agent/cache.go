package agent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/vampirenirmal/codesmith/internal/storage"
)

// ResponseCache stores completions keyed by prompt hash, with a TTL.
// Identical prompts within the TTL are served without an API call.
type ResponseCache struct {
	storage storage.Storage
	ttl     time.Duration
	logger  *slog.Logger
}

type cachedResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

func NewResponseCache(storage storage.Storage, ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		storage: storage,
		ttl:     ttl,
		logger:  slog.Default().With("component", "response_cache"),
	}
}

func (c *ResponseCache) Get(ctx context.Context, prompt string) (string, bool) {
	key := hashPrompt(prompt)
	path := fmt.Sprintf("cache/responses/%s.json", key)

	data, err := c.storage.Load(ctx, path)
	if err != nil {
		c.logger.Debug("cache miss", "key", key)
		return "", false
	}

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn("cache entry unreadable, evicting", "key", key, "error", err)
		_ = c.storage.Delete(ctx, path)
		return "", false
	}

	age := time.Since(cached.Timestamp)
	if age > c.ttl {
		c.logger.Debug("cache entry expired, evicting", "key", key, "age", age, "ttl", c.ttl)
		_ = c.storage.Delete(ctx, path)
		return "", false
	}

	c.logger.Info("cache hit",
		"key", key,
		"age", age,
		"response_length", len(cached.Response))
	return cached.Response, true
}

func (c *ResponseCache) Set(ctx context.Context, prompt, response string) error {
	key := hashPrompt(prompt)
	path := fmt.Sprintf("cache/responses/%s.json", key)

	data, err := json.Marshal(cachedResponse{
		Response:  response,
		Timestamp: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshaling cached response: %w", err)
	}

	if err := c.storage.Save(ctx, path, data); err != nil {
		c.logger.Error("failed to save cache entry", "key", key, "error", err)
		return err
	}
	return nil
}

func hashPrompt(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(hash[:])
}

// CachedClient wraps an AIClient with a response cache. Plain and JSON
// completions use distinct cache keys so they never collide.
type CachedClient struct {
	inner  AIClient
	cache  *ResponseCache
	logger *slog.Logger
}

func WithCache(client AIClient, cache *ResponseCache) AIClient {
	return &CachedClient{
		inner:  client,
		cache:  cache,
		logger: slog.Default().With("component", "cached_client"),
	}
}

func (c *CachedClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.completeCached(ctx, prompt, prompt, c.inner.Complete)
}

func (c *CachedClient) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	return c.completeCached(ctx, "JSON:"+prompt, prompt, c.inner.CompleteJSON)
}

func (c *CachedClient) completeCached(ctx context.Context, cacheKey, prompt string, call func(context.Context, string) (string, error)) (string, error) {
	if response, found := c.cache.Get(ctx, cacheKey); found {
		return response, nil
	}

	response, err := call(ctx, prompt)
	if err != nil {
		return "", err
	}

	if cacheErr := c.cache.Set(ctx, cacheKey, response); cacheErr != nil {
		c.logger.Warn("failed to cache response", "error", cacheErr)
	}
	return response, nil
}
