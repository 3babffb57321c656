package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

func daysFromNow(n int) *time.Time {
	t := testNow.AddDate(0, 0, n)
	return &t
}

func TestDaysUntil(t *testing.T) {
	late := time.Date(2024, time.March, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysUntil(late, testNow))
	assert.Equal(t, 1, DaysUntil(time.Date(2024, time.March, 16, 0, 1, 0, 0, time.UTC), testNow))
	assert.Equal(t, -2, DaysUntil(time.Date(2024, time.March, 13, 18, 0, 0, 0, time.UTC), testNow))
}

func TestExpiryStatusOf(t *testing.T) {
	tests := []struct {
		name    string
		expiry  *time.Time
		want    domain.ExpiryState
		message string
	}{
		{"unknown", nil, domain.ExpiryUnknown, "No expiry date"},
		{"expired", daysFromNow(-2), domain.ExpiryExpired, "Expired 2 days ago"},
		{"today", daysFromNow(0), domain.ExpiryToday, "Expires today"},
		{"soon", daysFromNow(3), domain.ExpirySoon, "Expires in 3 days"},
		{"this week", daysFromNow(7), domain.ExpiryThisWeek, "Expires in 7 days"},
		{"fresh", daysFromNow(8), domain.ExpiryFresh, "Expires in 8 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := ExpiryStatusOf(tt.expiry, testNow)
			assert.Equal(t, tt.want, status.Status)
			assert.Equal(t, tt.message, status.Message)
			if tt.expiry == nil {
				assert.Nil(t, status.Days)
			} else {
				require.NotNil(t, status.Days)
			}
		})
	}
}

func TestStockLevelOf(t *testing.T) {
	assert.Equal(t, domain.StockOut, StockLevelOf(0, 5, 10).Level)
	assert.Equal(t, domain.StockLow, StockLevelOf(5, 5, 10).Level)
	assert.Equal(t, domain.StockMedium, StockLevelOf(6, 5, 10).Level)
	assert.Equal(t, domain.StockHigh, StockLevelOf(11, 5, 10).Level)
}

func TestExpiringAndLowStockItems(t *testing.T) {
	items := []domain.Item{
		{Name: "Yogurt", Quantity: intPtr(4), ExpiryDate: daysFromNow(5)},
		{Name: "Cream", Quantity: intPtr(0), ExpiryDate: daysFromNow(-1)},
		{Name: "Cheese", Quantity: intPtr(12), ExpiryDate: daysFromNow(30)},
		{Name: "Salt"},
	}

	expiring := ExpiringItems(items, 7, testNow)
	require.Len(t, expiring, 2)
	assert.Equal(t, "Cream", expiring[0].Name)
	assert.Equal(t, "Yogurt", expiring[1].Name)

	low := LowStockItems(items, 5)
	require.Len(t, low, 2)
	assert.Equal(t, "Cream", low[0].Name)
	assert.Equal(t, "Yogurt", low[1].Name)
}

func TestBuildNotifications(t *testing.T) {
	items := []domain.Item{
		{ID: "a", Name: "Fish", Quantity: intPtr(9), Unit: "pieces", ExpiryDate: daysFromNow(0), LastPurchased: daysAgo(1)},
		{ID: "b", Name: "Yogurt", Quantity: intPtr(8), Unit: "cups", ExpiryDate: daysFromNow(2), LastPurchased: daysAgo(2)},
		{ID: "c", Name: "Eggs", Quantity: intPtr(2), Unit: "pieces", LastPurchased: daysAgo(40)},
		{ID: "d", Name: "Rice", Quantity: intPtr(10), Unit: "kg", LastPurchased: daysAgo(50)},
	}

	notifications := BuildNotifications(items, 3, NotificationOptions{}, testNow)

	require.Len(t, notifications, 4)
	assert.Equal(t, "urgent", notifications[0].Type)
	assert.Equal(t, "a", notifications[0].ItemID)
	assert.Equal(t, "warning", notifications[1].Type)
	assert.Equal(t, "Yogurt expires in 2 days", notifications[1].Message)
	assert.Equal(t, "info", notifications[2].Type)
	assert.Equal(t, "Only 2 pieces of Eggs remaining", notifications[2].Message)
	assert.Equal(t, "suggestion", notifications[3].Type)
	assert.Equal(t, "2 items haven't been purchased in 30+ days", notifications[3].Message)
}

func TestBuildNotificationsEmpty(t *testing.T) {
	notifications := BuildNotifications(nil, 3, NotificationOptions{}, testNow)
	assert.NotNil(t, notifications)
	assert.Empty(t, notifications)
}
