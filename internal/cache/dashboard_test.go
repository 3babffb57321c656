package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagul-a/Grocery-tracker/internal/config"
	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

func baseKey() DashboardKey {
	return DashboardKey{
		Filter:             domain.ItemFilter{UserID: "u1", Category: "Dairy & Eggs"},
		LowStockThreshold:  5,
		StaleDays:          30,
		SpendingWindowDays: 30,
		SuggestionLimit:    10,
		ExpiringWithinDays: 7,
		Day:                time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
	}
}

func TestDashboardKeyStable(t *testing.T) {
	a := baseKey()
	b := baseKey()
	b.Filter.Category = "  dairy & eggs "
	b.Day = time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, buildDashboardKey(a), buildDashboardKey(b))
	assert.Contains(t, buildDashboardKey(a), dashboardKeyPrefix+":")
}

func TestDashboardKeyDistinguishesParameters(t *testing.T) {
	base := buildDashboardKey(baseKey())

	mutations := map[string]func(*DashboardKey){
		"threshold": func(k *DashboardKey) { k.LowStockThreshold = 3 },
		"window":    func(k *DashboardKey) { k.SpendingWindowDays = 7 },
		"user":      func(k *DashboardKey) { k.Filter.UserID = "u2" },
		"category":  func(k *DashboardKey) { k.Filter.Category = "" },
		"day":       func(k *DashboardKey) { k.Day = k.Day.AddDate(0, 0, 1) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			k := baseKey()
			mutate(&k)
			assert.NotEqual(t, base, buildDashboardKey(k))
		})
	}
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
	assert.Equal(t, pingTimeout, opts.DialTimeout)

	opts, err = buildRedisOptions(config.CacheConfig{RedisHost: "redis", RedisDB: 3})
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.Equal(t, 3, opts.DB)

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://:secret@cache:6380/2"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "secret", opts.Password)

	_, err = buildRedisOptions(config.CacheConfig{RedisURL: "ftp://nope"})
	assert.Error(t, err)
}

func TestDashboardTTL(t *testing.T) {
	assert.Equal(t, defaultCacheTTL, dashboardTTL(config.CacheConfig{}))
	assert.Equal(t, defaultCacheTTL, dashboardTTL(config.CacheConfig{DashboardTTLSeconds: -5}))
	assert.Equal(t, 90*time.Second, dashboardTTL(config.CacheConfig{DashboardTTLSeconds: 90}))
}

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	c, err := NewDashboardCache(ctx, config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, baseKey(), &domain.Dashboard{}))
	got, ok, err := c.Get(ctx, baseKey())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	n, err := c.InvalidateAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
