package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

const DefaultFrequentMinPurchases = 3

// FrequentPurchaseSuggestions lists names bought at least minFrequency times
// in history that are missing from inventory, most frequent first. Details
// come from the most recent history record for the name.
func FrequentPurchaseSuggestions(history, inventory []domain.Item, minFrequency int) []domain.FrequentPurchase {
	if minFrequency <= 0 {
		minFrequency = DefaultFrequentMinPurchases
	}

	inStock := make(map[string]struct{}, len(inventory))
	for _, item := range inventory {
		inStock[strings.ToLower(item.Name)] = struct{}{}
	}

	type entry struct {
		key    string
		count  int
		latest domain.Item
		order  int
	}
	entries := make(map[string]*entry)
	for i, item := range history {
		key := strings.ToLower(strings.TrimSpace(item.Name))
		if key == "" {
			continue
		}
		e, ok := entries[key]
		if !ok {
			e = &entry{key: key, order: i, latest: item}
			entries[key] = e
		}
		e.count++
		if newerPurchase(item, e.latest) {
			e.latest = item
		}
	}

	ranked := make([]*entry, 0, len(entries))
	for _, e := range entries {
		if e.count < minFrequency {
			continue
		}
		if _, ok := inStock[e.key]; ok {
			continue
		}
		ranked = append(ranked, e)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].order < ranked[j].order
	})

	out := make([]domain.FrequentPurchase, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, domain.FrequentPurchase{
			Name:              e.latest.Name,
			Category:          e.latest.Category,
			Reason:            fmt.Sprintf("Frequently purchased (%d times)", e.count),
			Confidence:        min(e.count*20, 100),
			SuggestedQuantity: max(1, e.latest.QuantityOr(1)),
			Unit:              e.latest.Unit,
			Frequency:         e.count,
		})
	}
	return out
}

// newerPurchase reports whether a was purchased after b. Records without a
// purchase date never replace one that has it.
func newerPurchase(a, b domain.Item) bool {
	if a.LastPurchased == nil {
		return false
	}
	if b.LastPurchased == nil {
		return true
	}
	return a.LastPurchased.After(*b.LastPurchased)
}
