package analytics

import (
	"sort"
	"time"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	MinSpendingWindowDays = 1
	MaxSpendingWindowDays = 365
	// RecentPurchasesLimit caps SpendingAnalytics.RecentPurchases.
	RecentPurchasesLimit = 10
)

const day = 24 * time.Hour

type categoryTotal struct {
	spent decimal.Decimal
	count int
}

// ComputeSpendingAnalytics aggregates purchases made in the windowDays
// before now. A record contributes when it has a usable price and a
// last_purchased timestamp inside the window, which ends at now, so
// future-dated purchases are left out; a missing quantity counts as
// one unit. Each item cost is rounded to cents before it is summed, so the
// category breakdown always adds up to TotalSpent.
func ComputeSpendingAnalytics(items []domain.Item, windowDays int, now time.Time) (domain.SpendingAnalytics, error) {
	if windowDays < MinSpendingWindowDays || windowDays > MaxSpendingWindowDays {
		return EmptySpendingAnalytics(windowDays), domain.InvalidParameter("window_days",
			"must be between %d and %d, got %d", MinSpendingWindowDays, MaxSpendingWindowDays, windowDays)
	}

	cutoff := now.Add(-time.Duration(windowDays) * day)
	total := decimal.Zero
	purchased := 0
	byCategory := make(map[domain.Category]*categoryTotal)
	var recent []domain.PurchaseEvent

	for _, item := range items {
		if item.Price == nil || item.LastPurchased == nil {
			continue
		}
		if item.LastPurchased.Before(cutoff) || item.LastPurchased.After(now) {
			continue
		}

		quantity := item.QuantityOr(1)
		cost := cents(item.Price.Mul(decimal.NewFromInt(int64(quantity))))

		total = total.Add(cost)
		purchased++

		ct, ok := byCategory[item.Category]
		if !ok {
			ct = &categoryTotal{spent: decimal.Zero}
			byCategory[item.Category] = ct
		}
		ct.spent = ct.spent.Add(cost)
		ct.count++

		recent = append(recent, domain.PurchaseEvent{
			Name:         item.Name,
			Category:     item.Category,
			Price:        money(*item.Price),
			Quantity:     quantity,
			TotalCost:    money(cost),
			PurchaseDate: *item.LastPurchased,
			DaysAgo:      int(now.Sub(*item.LastPurchased) / day),
		})
	}

	breakdown := make([]domain.CategorySpending, 0, len(byCategory))
	for category, ct := range byCategory {
		breakdown = append(breakdown, domain.CategorySpending{
			CategoryName: category,
			TotalSpent:   money(ct.spent),
			ItemCount:    ct.count,
			AvgPrice:     ratio(ct.spent, ct.count),
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].TotalSpent != breakdown[j].TotalSpent {
			return breakdown[i].TotalSpent > breakdown[j].TotalSpent
		}
		return breakdown[i].CategoryName < breakdown[j].CategoryName
	})

	sort.SliceStable(recent, func(i, j int) bool {
		if !recent[i].PurchaseDate.Equal(recent[j].PurchaseDate) {
			return recent[i].PurchaseDate.After(recent[j].PurchaseDate)
		}
		return recent[i].Name < recent[j].Name
	})
	if len(recent) > RecentPurchasesLimit {
		recent = recent[:RecentPurchasesLimit]
	}
	if recent == nil {
		recent = []domain.PurchaseEvent{}
	}

	return domain.SpendingAnalytics{
		TotalSpent:        money(total),
		CategoryBreakdown: breakdown,
		PeriodDays:        windowDays,
		AvgDailySpending:  ratio(total, windowDays),
		ItemsPurchased:    purchased,
		AvgItemCost:       ratio(total, purchased),
		RecentPurchases:   recent,
	}, nil
}

// EmptySpendingAnalytics is the all-zero result for a window.
func EmptySpendingAnalytics(windowDays int) domain.SpendingAnalytics {
	return domain.SpendingAnalytics{
		PeriodDays:        windowDays,
		CategoryBreakdown: []domain.CategorySpending{},
		RecentPurchases:   []domain.PurchaseEvent{},
	}
}
