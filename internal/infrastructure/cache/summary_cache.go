package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/report"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultSummaryTTL is how long a computed summary stays cached
const DefaultSummaryTTL = 60 * time.Second

// RedisSummaryCache stores report summaries as JSON in Redis
type RedisSummaryCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisSummaryCache creates a summary cache on a shared Redis client.
// The caller keeps ownership of the client.
func NewRedisSummaryCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSummaryCache {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSummaryCache{client: client, ttl: ttl, keyPrefix: "report:summary:", logger: logger}
}

func (c *RedisSummaryCache) key(tenantID uuid.UUID) string {
	return c.keyPrefix + tenantID.String()
}

// Get returns the cached summary for tenantID
func (c *RedisSummaryCache) Get(ctx context.Context, tenantID uuid.UUID) (*report.Summary, bool, error) {
	data, err := c.client.Get(ctx, c.key(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get summary from cache: %w", err)
	}

	var summary report.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		c.logger.Warn("dropping corrupted summary cache entry",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		_ = c.client.Del(ctx, c.key(tenantID)).Err()
		return nil, false, nil
	}
	return &summary, true, nil
}

// Set caches summary for the configured TTL
func (c *RedisSummaryCache) Set(ctx context.Context, tenantID uuid.UUID, summary *report.Summary) error {
	if summary == nil {
		return nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := c.client.Set(ctx, c.key(tenantID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache summary: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary of tenantID
func (c *RedisSummaryCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(tenantID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary cache: %w", err)
	}
	return nil
}

var _ report.Cache = (*RedisSummaryCache)(nil)

type summaryEntry struct {
	summary   report.Summary
	expiresAt time.Time
}

// InMemorySummaryCache is a per-process TTL cache used when Redis is not
// configured. Entries are copied on the way in and out.
type InMemorySummaryCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]summaryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemorySummaryCache creates an empty in-memory cache
func NewInMemorySummaryCache(ttl time.Duration) *InMemorySummaryCache {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &InMemorySummaryCache{entries: make(map[uuid.UUID]summaryEntry), ttl: ttl, now: time.Now}
}

// Get returns the live cached summary for tenantID
func (c *InMemorySummaryCache) Get(_ context.Context, tenantID uuid.UUID) (*report.Summary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[tenantID]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, tenantID)
		return nil, false, nil
	}
	summary := entry.summary
	return &summary, true, nil
}

// Set caches a copy of summary
func (c *InMemorySummaryCache) Set(_ context.Context, tenantID uuid.UUID, summary *report.Summary) error {
	if summary == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tenantID] = summaryEntry{summary: *summary, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Invalidate drops the cached summary of tenantID
func (c *InMemorySummaryCache) Invalidate(_ context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, tenantID)
	return nil
}

// Len returns the number of entries, live or not
func (c *InMemorySummaryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

var _ report.Cache = (*InMemorySummaryCache)(nil)

// NewSummaryCache returns a Redis-backed cache when client is non-nil and
// an in-memory one otherwise
func NewSummaryCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) report.Cache {
	if client != nil {
		return NewRedisSummaryCache(client, ttl, logger)
	}
	if logger != nil {
		logger.Info("redis not configured, caching report summaries in memory")
	}
	return NewInMemorySummaryCache(ttl)
}
