package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/vendsight/internal/config"
	"github.com/andresuchdata/vendsight/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	viewKeyPrefix     = "vending:view"
	viewScanBatchSize = 100
)

// ViewCache stores resolved ViewResults per selector. The snapshot behind a
// view is immutable, so entries only need invalidating on reload.
type ViewCache interface {
	GetView(ctx context.Context, selectorKey domain.SelectorKey, selector string) (domain.ViewResult, bool, error)
	SetView(ctx context.Context, selectorKey domain.SelectorKey, selector string, view domain.ViewResult) error
	InvalidateAll(ctx context.Context) error
}

type redisViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopViewCache struct{}

// NewViewCache returns a redis-backed cache when enabled, a noop otherwise.
func NewViewCache(cfg config.CacheConfig) (ViewCache, error) {
	if !cfg.Enabled {
		return &noopViewCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisViewCache{client: client, ttl: ttl}, nil
}

// NewNoopViewCache returns the always-miss cache.
func NewNoopViewCache() ViewCache {
	return &noopViewCache{}
}

func (c *redisViewCache) GetView(ctx context.Context, selectorKey domain.SelectorKey, selector string) (domain.ViewResult, bool, error) {
	key := buildViewKey(selectorKey, selector)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return domain.ViewResult{}, false, nil
	}
	if err != nil {
		return domain.ViewResult{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var view domain.ViewResult
	if err := json.Unmarshal(payload, &view); err != nil {
		return domain.ViewResult{}, false, fmt.Errorf("decode view cache: %w", err)
	}

	return view, true, nil
}

func (c *redisViewCache) SetView(ctx context.Context, selectorKey domain.SelectorKey, selector string, view domain.ViewResult) error {
	key := buildViewKey(selectorKey, selector)
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode view cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisViewCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, viewKeyPrefix, viewScanBatchSize)
}

func (n *noopViewCache) GetView(ctx context.Context, selectorKey domain.SelectorKey, selector string) (domain.ViewResult, bool, error) {
	return domain.ViewResult{}, false, nil
}

func (n *noopViewCache) SetView(ctx context.Context, selectorKey domain.SelectorKey, selector string, view domain.ViewResult) error {
	return nil
}

func (n *noopViewCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildViewKey hashes the selector so arbitrary machine identifiers never
// leak reserved characters into the key space.
func buildViewKey(selectorKey domain.SelectorKey, selector string) string {
	sum := sha1.Sum([]byte(string(selectorKey) + "|" + selector))
	return fmt.Sprintf("%s:%s", viewKeyPrefix, hex.EncodeToString(sum[:]))
}
