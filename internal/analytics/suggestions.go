package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

const (
	DefaultStaleDays       = 30
	DefaultSuggestionLimit = 10
	minRestockQuantity     = 5
)

// SuggestionOptions tunes RankSuggestions. Zero values select the defaults.
type SuggestionOptions struct {
	// StaleDays is the age after which a purchase counts as stale.
	StaleDays int
	// Limit caps the ranked list.
	Limit int
	// Frequent is an optional extra stream of frequently bought items,
	// ranked as medium priority after the stale stream.
	Frequent []domain.FrequentPurchase
}

func (o SuggestionOptions) withDefaults() SuggestionOptions {
	if o.StaleDays == 0 {
		o.StaleDays = DefaultStaleDays
	}
	if o.Limit == 0 {
		o.Limit = DefaultSuggestionLimit
	}
	return o
}

// RankSuggestions builds restock suggestions from three rule streams, in this
// order: low stock (high priority), stale purchases (medium) and seasonal
// items for now's month (low). The merged list is stably sorted by priority,
// so equal priorities keep their generation order, then truncated.
//
// Candidates are not de-duplicated: an item that is both low and stale
// appears once per stream.
func RankSuggestions(items []domain.Item, lowStockThreshold int, opts SuggestionOptions, now time.Time) ([]domain.SuggestionCandidate, error) {
	if lowStockThreshold < 0 {
		return nil, domain.InvalidParameter("low_stock_threshold", "must not be negative, got %d", lowStockThreshold)
	}
	if opts.StaleDays < 0 {
		return nil, domain.InvalidParameter("stale_days", "must not be negative, got %d", opts.StaleDays)
	}
	if opts.Limit < 0 {
		return nil, domain.InvalidParameter("limit", "must not be negative, got %d", opts.Limit)
	}
	opts = opts.withDefaults()

	var suggestions []domain.SuggestionCandidate
	suggestions = append(suggestions, lowStockSuggestions(items, lowStockThreshold)...)
	suggestions = append(suggestions, staleSuggestions(items, opts.StaleDays, now)...)
	suggestions = append(suggestions, frequentSuggestions(opts.Frequent)...)
	suggestions = append(suggestions, SeasonalSuggestions(now.Month())...)

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority.Rank() > suggestions[j].Priority.Rank()
	})

	if len(suggestions) > opts.Limit {
		suggestions = suggestions[:opts.Limit]
	}
	return suggestions, nil
}

func lowStockSuggestions(items []domain.Item, threshold int) []domain.SuggestionCandidate {
	var out []domain.SuggestionCandidate
	for _, item := range items {
		if item.Quantity == nil || *item.Quantity > threshold {
			continue
		}
		q := *item.Quantity
		out = append(out, domain.SuggestionCandidate{
			Name:              item.Name,
			Category:          item.Category,
			SuggestedQuantity: max(minRestockQuantity, q*2),
			Unit:              item.Unit,
			Reason:            fmt.Sprintf("Running low (only %d left)", q),
			Priority:          domain.PriorityHigh,
			Source:            domain.SourceLowStock,
		})
	}
	return out
}

// isStale reports whether item was never purchased or last bought before cutoff.
func isStale(item domain.Item, cutoff time.Time) bool {
	return item.LastPurchased == nil || item.LastPurchased.Before(cutoff)
}

func staleSuggestions(items []domain.Item, staleDays int, now time.Time) []domain.SuggestionCandidate {
	cutoff := now.Add(-time.Duration(staleDays) * day)
	var out []domain.SuggestionCandidate
	for _, item := range items {
		if !isStale(item, cutoff) {
			continue
		}
		reason := fmt.Sprintf("Haven't purchased in %d+ days", staleDays)
		if item.LastPurchased == nil {
			reason = "No purchase recorded"
		}
		out = append(out, domain.SuggestionCandidate{
			Name:              item.Name,
			Category:          item.Category,
			SuggestedQuantity: max(1, item.QuantityOr(1)),
			Unit:              item.Unit,
			Reason:            reason,
			Priority:          domain.PriorityMedium,
			Source:            domain.SourceStale,
		})
	}
	return out
}

func frequentSuggestions(frequent []domain.FrequentPurchase) []domain.SuggestionCandidate {
	out := make([]domain.SuggestionCandidate, 0, len(frequent))
	for _, f := range frequent {
		out = append(out, domain.SuggestionCandidate{
			Name:              f.Name,
			Category:          f.Category,
			SuggestedQuantity: max(1, f.SuggestedQuantity),
			Unit:              f.Unit,
			Reason:            f.Reason,
			Priority:          domain.PriorityMedium,
			Source:            domain.SourceFrequent,
		})
	}
	return out
}
