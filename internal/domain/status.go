package domain

import "strings"

// Priority orders suggestions: high > medium > low.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var priorityRanks = map[Priority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

// Rank returns the numeric rank of the priority. Unknown priorities rank as low.
func (p Priority) Rank() int {
	if rank, ok := priorityRanks[p]; ok {
		return rank
	}

	return priorityRanks[PriorityLow]
}

// ParsePriority returns the priority for a given label (case-insensitive).
func ParsePriority(label string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(label)))
	_, ok := priorityRanks[p]

	return p, ok
}

// Confidence grades a consumption-rate estimate.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// SuggestionSource names the rule stream that produced a suggestion.
type SuggestionSource string

const (
	SourceLowStock SuggestionSource = "low_stock"
	SourceStale    SuggestionSource = "stale"
	SourceSeasonal SuggestionSource = "seasonal"
	SourceFrequent SuggestionSource = "frequent"
)

// ExpiryState classifies how close an item is to its expiry date.
type ExpiryState string

const (
	ExpiryUnknown  ExpiryState = "unknown"
	ExpiryExpired  ExpiryState = "expired"
	ExpiryToday    ExpiryState = "expires_today"
	ExpirySoon     ExpiryState = "expires_soon"
	ExpiryThisWeek ExpiryState = "expires_this_week"
	ExpiryFresh    ExpiryState = "fresh"
)

// StockState classifies a quantity against the low/medium thresholds.
type StockState string

const (
	StockOut    StockState = "out_of_stock"
	StockLow    StockState = "low"
	StockMedium StockState = "medium"
	StockHigh   StockState = "high"
)
