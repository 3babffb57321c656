package analytics

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

const (
	DefaultSearchLimit = 10
	// maxTypoDistance is the largest edit distance accepted by the
	// typo-tolerant fallback.
	maxTypoDistance = 2
)

// Relevance scores how well name matches query: exact 100, prefix 80,
// substring 60, word matches 40 + 10 per word, then a typo match scored
// from the Levenshtein distance to the closest word. Zero means no match.
func Relevance(name, query string) int {
	n := strings.ToLower(strings.TrimSpace(name))
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}

	switch {
	case n == q:
		return 100
	case strings.HasPrefix(n, q):
		return 80
	case strings.Contains(n, q):
		return 60
	}

	queryWords := strings.Fields(q)
	nameWords := strings.Fields(n)
	matches := 0
	for _, qw := range queryWords {
		for _, nw := range nameWords {
			if strings.Contains(nw, qw) {
				matches++
				break
			}
		}
	}
	if matches > 0 {
		return 40 + matches*10
	}

	best := -1
	for _, qw := range queryWords {
		if len(qw) < 4 {
			continue
		}
		for _, nw := range nameWords {
			d := levenshtein.ComputeDistance(qw, nw)
			if d <= maxTypoDistance && (best < 0 || d < best) {
				best = d
			}
		}
	}
	if best >= 0 {
		return 30 - best*10
	}
	return 0
}

// SearchItems filters items by query and category (both optional, case
// insensitive). With a query, results are ordered by relevance; without one,
// by name. Results are truncated to limit.
func SearchItems(items []domain.Item, query, category string, limit int) []domain.SearchResult {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	query = strings.TrimSpace(query)
	category = strings.TrimSpace(category)

	results := []domain.SearchResult{}
	for _, item := range items {
		if category != "" && !strings.EqualFold(string(item.Category), category) {
			continue
		}
		if query == "" {
			results = append(results, domain.SearchResult{Item: item})
			continue
		}
		score := Relevance(item.Name, query)
		if score == 0 {
			score = fieldRelevance(item, query)
		}
		if score > 0 {
			results = append(results, domain.SearchResult{Item: item, Relevance: score})
		}
	}

	if query == "" {
		sort.SliceStable(results, func(i, j int) bool {
			return strings.ToLower(results[i].Item.Name) < strings.ToLower(results[j].Item.Name)
		})
	} else {
		sort.SliceStable(results, func(i, j int) bool { return results[i].Relevance > results[j].Relevance })
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// fieldRelevance gives a minimal score when the query only appears in the
// secondary text fields.
func fieldRelevance(item domain.Item, query string) int {
	q := strings.ToLower(query)
	for _, field := range []string{string(item.Category), item.Brand, item.Notes} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return 10
		}
	}
	return 0
}
