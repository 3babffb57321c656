package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nagul-a/Grocery-tracker/internal/analytics"
	"github.com/nagul-a/Grocery-tracker/internal/cache"
	"github.com/nagul-a/Grocery-tracker/internal/config"
	"github.com/nagul-a/Grocery-tracker/internal/domain"
	"github.com/nagul-a/Grocery-tracker/internal/repository"
)

// AnalyticsService fetches a catalog snapshot, normalizes it once and runs
// the analytics aggregators over it.
type AnalyticsService struct {
	repo  repository.ItemRepository
	cache cache.DashboardCache
	cfg   config.AnalyticsConfig
	now   func() time.Time
}

func NewAnalyticsService(repo repository.ItemRepository, cacheImpl cache.DashboardCache, cfg config.AnalyticsConfig) *AnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &AnalyticsService{
		repo:  repo,
		cache: cacheImpl,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// snapshot loads and normalizes the catalog. Malformed fields are logged by
// the normalizer and only counted here.
func (s *AnalyticsService) snapshot(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, int, error) {
	raws, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("load catalog: %w", err)
	}
	items, issues := analytics.NormalizeItems(raws)
	return items, len(issues), nil
}

func (s *AnalyticsService) InventoryStatistics(ctx context.Context, filter domain.ItemFilter) (domain.InventoryStatistics, error) {
	items, _, err := s.snapshot(ctx, filter)
	if err != nil {
		return domain.InventoryStatistics{}, err
	}
	return analytics.ComputeInventoryStatistics(items), nil
}

// SpendingAnalytics rejects a window outside [1, 365] before loading items.
func (s *AnalyticsService) SpendingAnalytics(ctx context.Context, filter domain.ItemFilter, windowDays int) (domain.SpendingAnalytics, error) {
	if windowDays < analytics.MinSpendingWindowDays || windowDays > analytics.MaxSpendingWindowDays {
		return analytics.EmptySpendingAnalytics(windowDays), domain.InvalidParameter("window_days",
			"must be between %d and %d, got %d", analytics.MinSpendingWindowDays, analytics.MaxSpendingWindowDays, windowDays)
	}

	items, _, err := s.snapshot(ctx, filter)
	if err != nil {
		return analytics.EmptySpendingAnalytics(windowDays), err
	}
	return analytics.ComputeSpendingAnalytics(items, windowDays, s.now())
}

func (s *AnalyticsService) ConsumptionRate(ctx context.Context, filter domain.ItemFilter, name string) (domain.ConsumptionEstimate, error) {
	raws, err := s.repo.ListPurchaseHistory(ctx, filter, name)
	if err != nil {
		return domain.ConsumptionEstimate{}, fmt.Errorf("load purchase history: %w", err)
	}
	items, _ := analytics.NormalizeItems(raws)

	estimate := analytics.EstimateConsumptionRate(analytics.PurchaseHistory(items, name))
	estimate.ItemName = name
	return estimate, nil
}

// Suggestions ranks restock suggestions with the configured thresholds.
func (s *AnalyticsService) Suggestions(ctx context.Context, filter domain.ItemFilter, limit int) ([]domain.SuggestionCandidate, error) {
	if limit < 1 {
		return nil, domain.InvalidParameter("limit", "must be at least 1, got %d", limit)
	}
	items, _, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.rankSuggestions(items, limit)
}

func (s *AnalyticsService) rankSuggestions(items []domain.Item, limit int) ([]domain.SuggestionCandidate, error) {
	return analytics.RankSuggestions(items, s.cfg.LowStockThreshold, analytics.SuggestionOptions{
		StaleDays: s.cfg.StaleDays,
		Limit:     limit,
		Frequent:  s.frequent(items),
	}, s.now())
}

// FrequentPurchases lists items bought often that are out of stock. Every
// record counts as a purchase; records with quantity > 0 are the inventory.
func (s *AnalyticsService) FrequentPurchases(ctx context.Context, filter domain.ItemFilter) ([]domain.FrequentPurchase, error) {
	items, _, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.frequent(items), nil
}

func (s *AnalyticsService) frequent(items []domain.Item) []domain.FrequentPurchase {
	inventory := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if item.QuantityOr(0) > 0 {
			inventory = append(inventory, item)
		}
	}
	return analytics.FrequentPurchaseSuggestions(items, inventory, s.cfg.FrequentMinPurchases)
}

func (s *AnalyticsService) Notifications(ctx context.Context, filter domain.ItemFilter) ([]domain.Notification, error) {
	items, _, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.notifications(items), nil
}

func (s *AnalyticsService) notifications(items []domain.Item) []domain.Notification {
	return analytics.BuildNotifications(items, s.cfg.LowStockThreshold,
		analytics.NotificationOptions{StaleDays: s.cfg.StaleDays}, s.now())
}

// ExpiringItems lists items expiring within withinDays. Zero selects items
// expiring today or already expired.
func (s *AnalyticsService) ExpiringItems(ctx context.Context, filter domain.ItemFilter, withinDays int) ([]domain.Item, error) {
	if withinDays < 0 {
		return nil, domain.InvalidParameter("within_days", "must not be negative, got %d", withinDays)
	}
	items, _, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analytics.ExpiringItems(items, withinDays, s.now()), nil
}

func (s *AnalyticsService) Meals(ctx context.Context, filter domain.ItemFilter) ([]domain.MealSuggestion, error) {
	items, _, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analytics.SuggestMeals(items), nil
}

func (s *AnalyticsService) Search(ctx context.Context, filter domain.ItemFilter, query string, limit int) ([]domain.SearchResult, error) {
	items, _, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analytics.SearchItems(items, query, "", limit), nil
}

// Items returns the normalized catalog.
func (s *AnalyticsService) Items(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	items, _, err := s.snapshot(ctx, filter)
	return items, err
}

func (s *AnalyticsService) dashboardKey(filter domain.ItemFilter, now time.Time) cache.DashboardKey {
	return cache.DashboardKey{
		Filter:             filter,
		LowStockThreshold:  s.cfg.LowStockThreshold,
		StaleDays:          s.cfg.StaleDays,
		SpendingWindowDays: s.cfg.SpendingWindowDays,
		SuggestionLimit:    s.cfg.SuggestionLimit,
		ExpiringWithinDays: s.cfg.ExpiringWithinDays,
		Day:                now,
	}
}

// Dashboard runs every aggregator concurrently over one snapshot. An
// aggregator that fails as a whole is replaced by its zero default and
// listed in Failures; an invalid parameter fails the whole call. Only
// complete dashboards are cached.
func (s *AnalyticsService) Dashboard(ctx context.Context, filter domain.ItemFilter) (*domain.Dashboard, error) {
	now := s.now()
	key := s.dashboardKey(filter, now)

	if dashboard, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return dashboard, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: cache get dashboard failed")
	}

	items, malformed, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}

	dashboard := &domain.Dashboard{GeneratedAt: now, MalformedCount: malformed}
	failures, err := runAggregators(ctx, []aggregator{
		guarded("inventory", &dashboard.Inventory, domain.InventoryStatistics{}, func() (domain.InventoryStatistics, error) {
			return analytics.ComputeInventoryStatistics(items), nil
		}),
		guarded("spending", &dashboard.Spending, analytics.EmptySpendingAnalytics(s.cfg.SpendingWindowDays), func() (domain.SpendingAnalytics, error) {
			return analytics.ComputeSpendingAnalytics(items, s.cfg.SpendingWindowDays, now)
		}),
		guarded("suggestions", &dashboard.Suggestions, []domain.SuggestionCandidate{}, func() ([]domain.SuggestionCandidate, error) {
			return s.rankSuggestions(items, s.cfg.SuggestionLimit)
		}),
		guarded("expiring_items", &dashboard.ExpiringItems, []domain.Item{}, func() ([]domain.Item, error) {
			return analytics.ExpiringItems(items, s.cfg.ExpiringWithinDays, now), nil
		}),
		guarded("low_stock_items", &dashboard.LowStockItems, []domain.Item{}, func() ([]domain.Item, error) {
			return analytics.LowStockItems(items, s.cfg.LowStockThreshold), nil
		}),
		guarded("category_stats", &dashboard.CategoryStats, []domain.CategoryCount{}, func() ([]domain.CategoryCount, error) {
			return analytics.CategoryCounts(items), nil
		}),
		guarded("notifications", &dashboard.Notifications, []domain.Notification{}, func() ([]domain.Notification, error) {
			return s.notifications(items), nil
		}),
	})
	if err != nil {
		return nil, err
	}
	dashboard.Failures = failures

	if len(failures) == 0 {
		if err := s.cache.Set(ctx, key, dashboard); err != nil {
			log.Warn().Err(err).Msg("analytics: cache set dashboard failed")
		}
	}
	return dashboard, nil
}

// InvalidateCache drops every cached dashboard.
func (s *AnalyticsService) InvalidateCache(ctx context.Context) (int, error) {
	return s.cache.InvalidateAll(ctx)
}

type aggregator struct {
	name string
	run  func() error
}

// guarded stores the result of fn, or fallback when fn fails, into dst.
func guarded[T any](name string, dst *T, fallback T, fn func() (T, error)) aggregator {
	return aggregator{
		name: name,
		run: func() error {
			v, err := analytics.Guard(name, fallback, fn)
			*dst = v
			return err
		},
	}
}

// runAggregators runs aggs concurrently. Aggregation failures are logged and
// collected; the first invalid-parameter error is returned.
func runAggregators(ctx context.Context, aggs []aggregator) ([]domain.AggregationFailure, error) {
	var (
		mu       sync.Mutex
		failures = []domain.AggregationFailure{}
	)

	g, _ := errgroup.WithContext(ctx)
	for _, agg := range aggs {
		g.Go(func() error {
			err := agg.run()
			if err == nil {
				return nil
			}
			if errors.Is(err, domain.ErrInvalidParameter) {
				return err
			}

			log.Error().Err(err).Str("aggregator", agg.name).Msg("analytics: aggregator failed, using default")
			mu.Lock()
			failures = append(failures, domain.AggregationFailure{Aggregator: agg.name, Error: err.Error()})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(failures, func(i, j int) bool { return failures[i].Aggregator < failures[j].Aggregator })
	return failures, nil
}
