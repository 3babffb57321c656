package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

// DaysUntil returns the number of calendar days from now to t, negative when
// t is in the past. Both are compared as dates in now's location.
func DaysUntil(t, now time.Time) int {
	ty, tm, td := t.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	a := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	b := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b) / day)
}

// ExpiryStatusOf classifies an expiry date relative to now.
func ExpiryStatusOf(expiry *time.Time, now time.Time) domain.ExpiryStatus {
	if expiry == nil {
		return domain.ExpiryStatus{Status: domain.ExpiryUnknown, Color: "secondary", Message: "No expiry date"}
	}

	days := DaysUntil(*expiry, now)
	status := domain.ExpiryStatus{Days: &days}
	switch {
	case days < 0:
		status.Status, status.Color = domain.ExpiryExpired, "danger"
		status.Message = fmt.Sprintf("Expired %d days ago", -days)
	case days == 0:
		status.Status, status.Color = domain.ExpiryToday, "danger"
		status.Message = "Expires today"
	case days <= 3:
		status.Status, status.Color = domain.ExpirySoon, "warning"
		status.Message = fmt.Sprintf("Expires in %d days", days)
	case days <= 7:
		status.Status, status.Color = domain.ExpiryThisWeek, "info"
		status.Message = fmt.Sprintf("Expires in %d days", days)
	default:
		status.Status, status.Color = domain.ExpiryFresh, "success"
		status.Message = fmt.Sprintf("Expires in %d days", days)
	}
	return status
}

// StockLevelOf classifies a quantity against the low and medium thresholds.
func StockLevelOf(quantity, low, medium int) domain.StockLevel {
	switch {
	case quantity <= 0:
		return domain.StockLevel{Level: domain.StockOut, Color: "danger", Message: "Out of stock", Icon: "exclamation-triangle"}
	case quantity <= low:
		return domain.StockLevel{Level: domain.StockLow, Color: "warning", Message: "Low stock", Icon: "exclamation-circle"}
	case quantity <= medium:
		return domain.StockLevel{Level: domain.StockMedium, Color: "info", Message: "Medium stock", Icon: "info-circle"}
	default:
		return domain.StockLevel{Level: domain.StockHigh, Color: "success", Message: "Good stock", Icon: "check-circle"}
	}
}

// ExpiringItems returns items expiring within withinDays of now (including
// already expired ones), soonest first.
func ExpiringItems(items []domain.Item, withinDays int, now time.Time) []domain.Item {
	out := []domain.Item{}
	for _, item := range items {
		if item.ExpiryDate == nil || DaysUntil(*item.ExpiryDate, now) > withinDays {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiryDate.Before(*out[j].ExpiryDate) })
	return out
}

// LowStockItems returns items whose quantity is at or below threshold,
// lowest quantity first.
func LowStockItems(items []domain.Item, threshold int) []domain.Item {
	out := []domain.Item{}
	for _, item := range items {
		if item.Quantity == nil || *item.Quantity > threshold {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].Quantity < *out[j].Quantity })
	return out
}

// NotificationOptions tunes BuildNotifications.
type NotificationOptions struct {
	SoonDays  int
	StaleDays int
}

// BuildNotifications produces dashboard alerts: items expiring today, items
// expiring within SoonDays, low-stock items and one summary line for items
// not purchased within StaleDays. Items never purchased count as stale.
func BuildNotifications(items []domain.Item, lowStockThreshold int, opts NotificationOptions, now time.Time) []domain.Notification {
	if opts.SoonDays <= 0 {
		opts.SoonDays = 3
	}
	if opts.StaleDays <= 0 {
		opts.StaleDays = DefaultStaleDays
	}

	notifications := []domain.Notification{}
	for _, item := range items {
		if item.ExpiryDate == nil {
			continue
		}
		days := DaysUntil(*item.ExpiryDate, now)
		switch {
		case days == 0:
			notifications = append(notifications, domain.Notification{
				Type:    "urgent",
				Title:   "Item Expiring Today!",
				Message: fmt.Sprintf("%s expires today", item.Name),
				ItemID:  item.ID,
				Action:  "use_now",
			})
		case days > 0 && days <= opts.SoonDays:
			notifications = append(notifications, domain.Notification{
				Type:    "warning",
				Title:   "Item Expiring Soon",
				Message: fmt.Sprintf("%s expires in %d days", item.Name, days),
				ItemID:  item.ID,
				Action:  "plan_usage",
			})
		}
	}

	for _, item := range LowStockItems(items, lowStockThreshold) {
		notifications = append(notifications, domain.Notification{
			Type:    "info",
			Title:   "Low Stock Alert",
			Message: fmt.Sprintf("Only %d %s of %s remaining", *item.Quantity, item.Unit, item.Name),
			ItemID:  item.ID,
			Action:  "restock",
		})
	}

	cutoff := now.Add(-time.Duration(opts.StaleDays) * day)
	stale := 0
	for _, item := range items {
		if isStale(item, cutoff) {
			stale++
		}
	}
	if stale > 0 {
		notifications = append(notifications, domain.Notification{
			Type:    "suggestion",
			Title:   "Restock Suggestion",
			Message: fmt.Sprintf("%d items haven't been purchased in %d+ days", stale, opts.StaleDays),
			Action:  "review_list",
		})
	}
	return notifications
}
