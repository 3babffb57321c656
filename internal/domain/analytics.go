package domain

import "time"

// InventoryStatistics summarizes the valuation of a catalog snapshot.
type InventoryStatistics struct {
	TotalItems        int     `json:"total_items"`
	ActiveItems       int     `json:"active_items"`
	ActivePricedItems int     `json:"active_priced_items"`
	TotalValue        float64 `json:"total_value"`
	ActiveValue       float64 `json:"active_value"`
	ItemsWithPrice    int     `json:"items_with_price"`
	ItemsWithoutPrice int     `json:"items_without_price"`
	ZeroQuantityItems int     `json:"zero_quantity_items"`
	Categories        int     `json:"categories"`
	AverageItemValue  float64 `json:"average_item_value"`
}

// CategorySpending is one row of the spending breakdown.
type CategorySpending struct {
	CategoryName Category `json:"category_name"`
	TotalSpent   float64  `json:"total_spent"`
	ItemCount    int      `json:"item_count"`
	AvgPrice     float64  `json:"avg_price"`
}

// PurchaseEvent is a contributing record seen as a purchase.
type PurchaseEvent struct {
	Name         string    `json:"name"`
	Category     Category  `json:"category"`
	Price        float64   `json:"price"`
	Quantity     int       `json:"quantity"`
	TotalCost    float64   `json:"total_cost"`
	PurchaseDate time.Time `json:"purchase_date"`
	DaysAgo      int       `json:"days_ago"`
}

// SpendingAnalytics covers purchases inside a trailing window of PeriodDays.
type SpendingAnalytics struct {
	TotalSpent        float64            `json:"total_spent"`
	CategoryBreakdown []CategorySpending `json:"category_breakdown"`
	PeriodDays        int                `json:"period_days"`
	AvgDailySpending  float64            `json:"avg_daily_spending"`
	ItemsPurchased    int                `json:"items_purchased"`
	AvgItemCost       float64            `json:"avg_item_cost"`
	RecentPurchases   []PurchaseEvent    `json:"recent_purchases"`
}

// ConsumptionEstimate is a moving-average replenishment estimate for one item.
type ConsumptionEstimate struct {
	ItemName              string     `json:"item_name,omitempty"`
	RateDays              float64    `json:"rate_days"`
	PredictedNextPurchase *time.Time `json:"predicted_next_purchase"`
	Confidence            Confidence `json:"confidence"`
	Purchases             int        `json:"purchases"`
}

// SuggestionCandidate is one ranked restock/seasonal suggestion.
type SuggestionCandidate struct {
	Name              string           `json:"name"`
	Category          Category         `json:"category"`
	SuggestedQuantity int              `json:"suggested_quantity"`
	Unit              string           `json:"unit"`
	Reason            string           `json:"reason"`
	Priority          Priority         `json:"priority"`
	Source            SuggestionSource `json:"source"`
}

// FrequentPurchase is a frequently bought item missing from the inventory.
type FrequentPurchase struct {
	Name              string   `json:"name"`
	Category          Category `json:"category"`
	Reason            string   `json:"reason"`
	Confidence        int      `json:"confidence"`
	SuggestedQuantity int      `json:"suggested_quantity"`
	Unit              string   `json:"unit"`
	Frequency         int      `json:"frequency"`
}

// ExpiryStatus is the expiry classification of one item.
type ExpiryStatus struct {
	Status  ExpiryState `json:"status"`
	Color   string      `json:"color"`
	Message string      `json:"message"`
	Days    *int        `json:"days"`
}

// StockLevel is the stock classification of one quantity.
type StockLevel struct {
	Level   StockState `json:"level"`
	Color   string     `json:"color"`
	Message string     `json:"message"`
	Icon    string     `json:"icon"`
}

// Notification is a dashboard alert.
type Notification struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	ItemID  string `json:"item_id,omitempty"`
	Action  string `json:"action"`
}

// MealSuggestion is a meal that can be cooked from what is in stock.
type MealSuggestion struct {
	Name                 string   `json:"name"`
	IngredientsAvailable []string `json:"ingredients_available"`
	MissingIngredients   []string `json:"missing_ingredients"`
	Difficulty           string   `json:"difficulty"`
	CookTime             string   `json:"cook_time"`
}

// Recipe holds the details of a known meal.
type Recipe struct {
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prep_time"`
	CookTime     string   `json:"cook_time"`
	Servings     int      `json:"servings"`
}

// Alternative is a healthier swap for an item.
type Alternative struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// StorePrice is the price of an item at one store.
type StorePrice struct {
	Store        string  `json:"store"`
	Price        float64 `json:"price"`
	Unit         string  `json:"unit"`
	Availability string  `json:"availability"`
	Rating       float64 `json:"rating"`
}

// Deal is the cheapest store for a shopping-list item.
type Deal struct {
	Item      string  `json:"item"`
	BestStore string  `json:"best_store"`
	BestPrice float64 `json:"best_price"`
	Savings   float64 `json:"savings"`
}

// SearchResult is an item matched by a search query.
type SearchResult struct {
	Item      Item `json:"item"`
	Relevance int  `json:"relevance"`
}

// ValidationResult reports problems found in a raw item.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// CategoryCount is the number of items in one category.
type CategoryCount struct {
	Category Category `json:"category"`
	Icon     string   `json:"icon"`
	Count    int      `json:"count"`
}

// AggregationFailure records an aggregator replaced by its zero default.
type AggregationFailure struct {
	Aggregator string `json:"aggregator"`
	Error      string `json:"error"`
}

// Dashboard bundles every analytics view for one catalog snapshot.
type Dashboard struct {
	GeneratedAt    time.Time             `json:"generated_at"`
	Inventory      InventoryStatistics   `json:"inventory"`
	Spending       SpendingAnalytics     `json:"spending"`
	Suggestions    []SuggestionCandidate `json:"suggestions"`
	ExpiringItems  []Item                `json:"expiring_items"`
	LowStockItems  []Item                `json:"low_stock_items"`
	CategoryStats  []CategoryCount       `json:"category_stats"`
	Notifications  []Notification        `json:"notifications"`
	MalformedCount int                   `json:"malformed_fields"`
	Failures       []AggregationFailure  `json:"failures"`
}
