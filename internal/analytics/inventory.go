package analytics

import (
	"github.com/nagul-a/Grocery-tracker/internal/domain"
	"github.com/shopspring/decimal"
)

// ComputeInventoryStatistics values a catalog snapshot in a single pass.
//
// A record is "with price" only when both its price and quantity are usable;
// anything else counts as "without price" and adds nothing to the sums.
// Active means quantity > 0.
func ComputeInventoryStatistics(items []domain.Item) domain.InventoryStatistics {
	var (
		stats       domain.InventoryStatistics
		totalValue  = decimal.Zero
		activeValue = decimal.Zero
		categories  = make(map[domain.Category]struct{})
	)

	for _, item := range items {
		stats.TotalItems++
		if item.Category != "" {
			categories[item.Category] = struct{}{}
		}

		active := item.Quantity != nil && *item.Quantity > 0
		if active {
			stats.ActiveItems++
		}
		if item.Quantity != nil && *item.Quantity == 0 {
			stats.ZeroQuantityItems++
		}

		value, ok := item.Value()
		if !ok {
			stats.ItemsWithoutPrice++
			continue
		}

		stats.ItemsWithPrice++
		value = cents(value)
		totalValue = totalValue.Add(value)
		if active {
			stats.ActivePricedItems++
			activeValue = activeValue.Add(value)
		}
	}

	stats.TotalValue = money(totalValue)
	stats.ActiveValue = money(activeValue)
	stats.Categories = len(categories)
	stats.AverageItemValue = ratio(activeValue, stats.ActivePricedItems)

	return stats
}

// CategoryCounts returns the number of items per category, in the fixed
// category order, omitting empty categories.
func CategoryCounts(items []domain.Item) []domain.CategoryCount {
	counts := make(map[domain.Category]int)
	for _, item := range items {
		counts[item.Category]++
	}

	result := make([]domain.CategoryCount, 0, len(counts))
	for _, c := range domain.Categories {
		if n := counts[c]; n > 0 {
			result = append(result, domain.CategoryCount{Category: c, Icon: c.Icon(), Count: n})
		}
	}
	return result
}
