// Package cache is the response cache in front of the athlete store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/athletedex/internal/db"
)

// Namespaces.
const (
	NamespaceAthletes = "athletes"
	NamespaceStats    = "athlete_stats"
	NamespaceFilters  = "filters"
	NamespaceSearch   = "search"
)

// Singleton keys.
const (
	KeyFilters = NamespaceFilters
	KeyStats   = NamespaceStats
)

// Defaults.
const (
	DefaultTTL       = time.Hour
	DefaultOpTimeout = 500 * time.Millisecond
)

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// Config tunes the cache.
type Config struct {
	DefaultTTL time.Duration
	OpTimeout  time.Duration
}

// Cache stores serialized responses. Store failures never reach callers:
// reads degrade to a miss, writes and deletes to a no-op.
type Cache struct {
	store      store
	ttl        time.Duration
	opTimeout  time.Duration
	operations *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a cache over s.
// operations is a counter vec with labels "namespace" and "result", passed explicitly.
func New(s store, cfg Config, operations *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = DefaultOpTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		store:      s,
		ttl:        cfg.DefaultTTL,
		opTimeout:  cfg.OpTimeout,
		operations: operations,
		logger:     logger,
	}
}

// GenerateKey renders namespace plus the params sorted by key as "k:v" pairs joined by "|".
// Params are expected in canonical form; an empty bag yields the bare namespace.
func GenerateKey(namespace string, params map[string]string) string {
	if len(params) == 0 {
		return namespace
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(namespace)
	b.WriteByte(':')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(params[k])
	}
	return b.String()
}

// Get returns the stored bytes, or false on a miss or a store failure.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			c.inc(key, "miss")
			return nil, false
		}
		c.inc(key, "error")
		c.logger.Warn("Failed to read cache", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if len(data) == 0 {
		c.inc(key, "miss")
		return nil, false
	}
	c.inc(key, "hit")
	return data, true
}

// GetJSON decodes a cached value into dst. Undecodable entries count as a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	data, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Failed to decode cached value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value under key. ttl <= 0 uses the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	if err := c.store.SetWithTTL(ctx, key, value, ttl); err != nil {
		c.inc(key, "error")
		c.logger.Warn("Failed to write cache", zap.String("key", key), zap.Error(err))
		return
	}
	c.inc(key, "stored")
}

// SetJSON encodes v and stores it under key.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode cache value", zap.String("key", key), zap.Error(err))
		return
	}
	c.Set(ctx, key, data, ttl)
}

// Delete removes keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	if err := c.store.Del(ctx, keys...); err != nil {
		c.inc(keys[0], "error")
		c.logger.Warn("Failed to delete cache keys", zap.Strings("keys", keys), zap.Error(err))
		return
	}
	for _, k := range keys {
		c.inc(k, "deleted")
	}
}

// DeletePattern removes every key matching the glob pattern and returns how many were found.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) int {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	keys, err := c.store.Keys(ctx, pattern)
	if err != nil {
		c.inc(pattern, "error")
		c.logger.Warn("Failed to list cache keys", zap.String("pattern", pattern), zap.Error(err))
		return 0
	}
	if len(keys) == 0 {
		return 0
	}
	c.Delete(ctx, keys...)
	return len(keys)
}

// InvalidateAll clears the athlete list entries and the filter and stats keys.
func (c *Cache) InvalidateAll(ctx context.Context) {
	n := c.DeletePattern(ctx, NamespaceAthletes+":*")
	c.Delete(ctx, KeyFilters, KeyStats)
	c.logger.Info("Cache invalidated", zap.Int("athlete_entries", n))
}

// InvalidatePattern clears keys matching pattern only.
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) {
	n := c.DeletePattern(ctx, pattern)
	c.logger.Info("Cache invalidated", zap.String("pattern", pattern), zap.Int("entries", n))
}

func (c *Cache) inc(key, result string) {
	if c.operations != nil {
		c.operations.WithLabelValues(namespaceOf(key), result).Inc()
	}
}

// namespaceOf returns the key prefix before the first ':' or the key itself.
func namespaceOf(key string) string {
	ns, _, _ := strings.Cut(key, ":")
	return ns
}

// Disabled returns a Cache that never stores anything and always misses.
func Disabled(logger *zap.Logger) *Cache {
	return New(nopStore{}, Config{}, nil, logger)
}

type nopStore struct{}

func (nopStore) Get(context.Context, string) ([]byte, error) { return nil, db.ErrKeyNotFound }

func (nopStore) SetWithTTL(context.Context, string, []byte, time.Duration) error { return nil }

func (nopStore) Del(context.Context, ...string) error { return nil }

func (nopStore) Keys(context.Context, string) ([]string, error) { return nil, nil }
