package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

// EstimateConsumptionRate predicts the next purchase of an item from its
// purchase timestamps using a plain moving average of the gaps between
// consecutive purchases. There is no smoothing and no outlier rejection.
//
// Gaps are measured in whole days. Fewer than two purchases yield a low
// confidence estimate with no rate; one or two gaps are medium confidence
// and three or more are high.
func EstimateConsumptionRate(purchases []time.Time) domain.ConsumptionEstimate {
	sorted := make([]time.Time, 0, len(purchases))
	for _, p := range purchases {
		if !p.IsZero() {
			sorted = append(sorted, p)
		}
	}

	estimate := domain.ConsumptionEstimate{
		Confidence: domain.ConfidenceLow,
		Purchases:  len(sorted),
	}
	if len(sorted) < 2 {
		return estimate
	}

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })

	totalDays := 0
	gaps := len(sorted) - 1
	for i := 0; i < gaps; i++ {
		totalDays += int(sorted[i].Sub(sorted[i+1]) / day)
	}

	rate := float64(totalDays) / float64(gaps)
	next := sorted[0].Add(time.Duration(rate * float64(day)))

	estimate.RateDays = roundFloat(rate, 2)
	estimate.PredictedNextPurchase = &next
	estimate.Confidence = domain.ConfidenceMedium
	if gaps >= 3 {
		estimate.Confidence = domain.ConfidenceHigh
	}
	return estimate
}

// PurchaseHistory collects the purchase timestamps of every record whose
// name matches name case-insensitively.
func PurchaseHistory(items []domain.Item, name string) []time.Time {
	target := strings.TrimSpace(name)
	var history []time.Time
	for _, item := range items {
		if item.LastPurchased == nil || !strings.EqualFold(item.Name, target) {
			continue
		}
		history = append(history, *item.LastPurchased)
	}
	return history
}
