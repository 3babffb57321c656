package analytics

import (
	"strings"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
	"github.com/shopspring/decimal"
)

// storePrices is a static per-store price table; every item is quoted at
// the same stores until real store feeds exist.
var storePrices = []domain.StorePrice{
	{Store: "SuperMart", Price: 2.99, Unit: "per lb", Availability: "In Stock", Rating: 4.2},
	{Store: "FreshMarket", Price: 3.49, Unit: "per lb", Availability: "In Stock", Rating: 4.5},
	{Store: "BudgetStore", Price: 2.49, Unit: "per lb", Availability: "Limited Stock", Rating: 3.8},
}

// ComparePrices quotes item at every known store. An empty name is an
// invalid parameter.
func ComparePrices(item string) ([]domain.StorePrice, error) {
	if strings.TrimSpace(item) == "" {
		return nil, domain.InvalidParameter("item", "name is required")
	}
	out := make([]domain.StorePrice, len(storePrices))
	copy(out, storePrices)
	return out, nil
}

// BestDeals finds the cheapest store for each named item and the savings
// against the most expensive quote. Blank names are skipped.
func BestDeals(items []string) []domain.Deal {
	deals := []domain.Deal{}
	for _, name := range items {
		prices, err := ComparePrices(name)
		if err != nil || len(prices) == 0 {
			continue
		}
		best, worst := prices[0], prices[0]
		for _, p := range prices[1:] {
			if p.Price < best.Price {
				best = p
			}
			if p.Price > worst.Price {
				worst = p
			}
		}
		savings := decimal.NewFromFloat(worst.Price).Sub(decimal.NewFromFloat(best.Price))
		deals = append(deals, domain.Deal{
			Item:      name,
			BestStore: best.Store,
			BestPrice: best.Price,
			Savings:   money(savings),
		})
	}
	return deals
}
