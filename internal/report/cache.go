package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Githubtestacc12/reorder-dashboard/internal/config"
	"github.com/Githubtestacc12/reorder-dashboard/internal/domain"
)

const (
	tableKeyPrefix  = "report:table:"
	defaultTableTTL = 5 * time.Minute
)

// TableCache stores parsed report tables keyed by the content hash of the
// source file. Hits must be indistinguishable from a fresh parse.
type TableCache interface {
	Get(ctx context.Context, key string) (*domain.Table, bool, error)
	Set(ctx context.Context, key string, table *domain.Table) error
}

type memoryTableCache struct {
	mu     sync.RWMutex
	tables map[string]*domain.Table
}

type redisTableCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopTableCache struct{}

// NewTableCache builds the cache backend selected by configuration: redis
// when enabled, otherwise a per-process in-memory cache.
func NewTableCache(cfg config.CacheConfig) (TableCache, error) {
	if !cfg.Enabled {
		return NewMemoryTableCache(), nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.TableTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultTableTTL
	}

	return &redisTableCache{client: client, ttl: ttl}, nil
}

func NewMemoryTableCache() TableCache {
	return &memoryTableCache{tables: make(map[string]*domain.Table)}
}

func NewNoopTableCache() TableCache {
	return &noopTableCache{}
}

func (c *memoryTableCache) Get(_ context.Context, key string) (*domain.Table, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	table, ok := c.tables[key]
	return table, ok, nil
}

func (c *memoryTableCache) Set(_ context.Context, key string, table *domain.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[key] = table
	return nil
}

func (c *redisTableCache) Get(ctx context.Context, key string) (*domain.Table, bool, error) {
	payload, err := c.client.Get(ctx, tableKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var table domain.Table
	if err := json.Unmarshal(payload, &table); err != nil {
		return nil, false, fmt.Errorf("decode cached report table: %w", err)
	}

	return &table, true, nil
}

func (c *redisTableCache) Set(ctx context.Context, key string, table *domain.Table) error {
	payload, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode report table for cache: %w", err)
	}

	if err := c.client.Set(ctx, tableKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (n *noopTableCache) Get(_ context.Context, _ string) (*domain.Table, bool, error) {
	return nil, false, nil
}

func (n *noopTableCache) Set(_ context.Context, _ string, _ *domain.Table) error {
	return nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
