package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nagul-a/Grocery-tracker/internal/config"
	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

const (
	dashboardKeyPrefix = "grocery:dashboard"
	scanBatchSize      = 100
)

// DashboardKey identifies one dashboard computation: the catalog filter,
// every parameter handed to the aggregators and the UTC day it was built for.
type DashboardKey struct {
	Filter             domain.ItemFilter
	LowStockThreshold  int
	StaleDays          int
	SpendingWindowDays int
	SuggestionLimit    int
	ExpiringWithinDays int
	Day                time.Time
}

type DashboardCache interface {
	Get(ctx context.Context, key DashboardKey) (*domain.Dashboard, bool, error)
	Set(ctx context.Context, key DashboardKey, dashboard *domain.Dashboard) error
	InvalidateAll(ctx context.Context) (int, error)
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// NewDashboardCache returns a Redis-backed cache, or a no-op one when
// caching is disabled.
func NewDashboardCache(ctx context.Context, cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, err := connectRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{
		client: client,
		ttl:    dashboardTTL(cfg),
	}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) Get(ctx context.Context, key DashboardKey) (*domain.Dashboard, bool, error) {
	payload, err := c.client.Get(ctx, buildDashboardKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var dashboard domain.Dashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return &dashboard, true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, key DashboardKey, dashboard *domain.Dashboard) error {
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, buildDashboardKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) (int, error) {
	return unlinkPrefix(ctx, c.client, dashboardKeyPrefix, scanBatchSize)
}

func (n *noopDashboardCache) Get(ctx context.Context, key DashboardKey) (*domain.Dashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) Set(ctx context.Context, key DashboardKey, dashboard *domain.Dashboard) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) (int, error) {
	return 0, nil
}

func buildDashboardKey(key DashboardKey) string {
	return fmt.Sprintf("%s:%s", dashboardKeyPrefix, dashboardKeyHash(key))
}

func dashboardKeyHash(key DashboardKey) string {
	parts := []string{
		fmt.Sprintf("low=%d", key.LowStockThreshold),
		fmt.Sprintf("stale=%d", key.StaleDays),
		fmt.Sprintf("window=%d", key.SpendingWindowDays),
		fmt.Sprintf("limit=%d", key.SuggestionLimit),
		fmt.Sprintf("expiring=%d", key.ExpiringWithinDays),
		"day=" + key.Day.UTC().Format(time.DateOnly),
	}
	if key.Filter.UserID != "" {
		parts = append(parts, "user="+strings.TrimSpace(key.Filter.UserID))
	}
	if key.Filter.Category != "" {
		parts = append(parts, "category="+strings.ToLower(strings.TrimSpace(key.Filter.Category)))
	}

	hash := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:])
}
