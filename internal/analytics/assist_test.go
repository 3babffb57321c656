package analytics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

func TestSuggestMeals(t *testing.T) {
	items := []domain.Item{
		{Name: "Chicken Breast", Quantity: intPtr(2)},
		{Name: "Basmati Rice", Quantity: intPtr(1)},
		{Name: "Eggs", Quantity: intPtr(0)},
		{Name: "Pasta"},
	}

	meals := SuggestMeals(items)

	require.Len(t, meals, 1)
	assert.Equal(t, "Chicken Fried Rice", meals[0].Name)
	assert.Empty(t, SuggestMeals(nil))
}

func TestRecipeDetails(t *testing.T) {
	recipe, ok := RecipeDetails(" Chicken Fried Rice ")
	require.True(t, ok)
	assert.Equal(t, 4, recipe.Servings)
	assert.NotEmpty(t, recipe.Instructions)

	_, ok = RecipeDetails("Scrambled Eggs")
	assert.False(t, ok)
}

func TestHealthierAlternatives(t *testing.T) {
	alts := HealthierAlternatives("Sliced White Bread")
	require.Len(t, alts, 2)
	assert.Equal(t, "Whole wheat bread", alts[0].Name)

	assert.Empty(t, HealthierAlternatives("Kale"))
}

func TestComparePrices(t *testing.T) {
	prices, err := ComparePrices("apples")
	require.NoError(t, err)
	assert.Len(t, prices, 3)

	_, err = ComparePrices("  ")
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func TestBestDeals(t *testing.T) {
	deals := BestDeals([]string{"apples", "", "milk"})

	require.Len(t, deals, 2)
	assert.Equal(t, "BudgetStore", deals[0].BestStore)
	assert.Equal(t, 2.49, deals[0].BestPrice)
	assert.Equal(t, 1.00, deals[0].Savings)
	assert.Equal(t, "milk", deals[1].Item)
}

func TestRelevance(t *testing.T) {
	tests := []struct {
		name, query string
		want        int
	}{
		{"Milk", "milk", 100},
		{"Milk Chocolate", "milk", 80},
		{"Oat Milk", "milk", 60},
		{"Whole Wheat Bread", "bread wheat", 60},
		{"Tomatoes", "tomatos", 20},
		{"Bananas", "xyz", 0},
		{"Bananas", "", 0},
		{"Rice", "rc", 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.name, tt.query), func(t *testing.T) {
			assert.Equal(t, tt.want, Relevance(tt.name, tt.query))
		})
	}
}

func TestSearchItems(t *testing.T) {
	items := []domain.Item{
		{Name: "Oat Milk", Category: domain.CategoryBeverages},
		{Name: "Milk", Category: domain.CategoryDairyEggs},
		{Name: "Cheddar", Category: domain.CategoryDairyEggs, Brand: "Milky Way Farms"},
		{Name: "Apples", Category: domain.CategoryFruitsVegetables},
	}

	results := SearchItems(items, "milk", "", 0)
	require.Len(t, results, 3)
	assert.Equal(t, "Milk", results[0].Item.Name)
	assert.Equal(t, "Oat Milk", results[1].Item.Name)
	assert.Equal(t, "Cheddar", results[2].Item.Name)
	assert.Equal(t, 10, results[2].Relevance)

	results = SearchItems(items, "milk", "dairy & eggs", 1)
	require.Len(t, results, 1)
	assert.Equal(t, "Milk", results[0].Item.Name)

	results = SearchItems(items, "", "", 10)
	require.Len(t, results, 4)
	assert.Equal(t, "Apples", results[0].Item.Name)
}

func TestValidateItem(t *testing.T) {
	result := ValidateItem(domain.RawItem{
		"name":        "Milk",
		"category":    "Dairy & Eggs",
		"quantity":    "2",
		"unit":        "liters",
		"price":       "3.50",
		"expiry_date": "2024-03-20",
	}, testNow)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)

	result = ValidateItem(domain.RawItem{
		"name":        "",
		"category":    "Garden",
		"quantity":    0,
		"unit":        "bushels",
		"price":       -1,
		"expiry_date": "2024-03-01",
	}, testNow)
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"Name is required", "Quantity must be greater than 0", "Price cannot be negative"}, result.Errors)
	assert.Len(t, result.Warnings, 3)

	result = ValidateItem(domain.RawItem{"name": "x", "category": "Other", "quantity": "lots", "unit": "kg", "expiry_date": "soon"}, testNow)
	assert.Equal(t, []string{"Quantity must be a valid number", "Invalid expiry date format"}, result.Errors)
}

func TestGuardPassesResultThrough(t *testing.T) {
	got, err := Guard("count", -1, func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestGuardRecoversPanic(t *testing.T) {
	got, err := Guard("spending", EmptySpendingAnalytics(30), func() (domain.SpendingAnalytics, error) {
		var items []domain.Item
		_ = items[3]
		return domain.SpendingAnalytics{TotalSpent: 99}, nil
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAggregationFailed))
	var aggErr *AggregationError
	require.True(t, errors.As(err, &aggErr))
	assert.Equal(t, "spending", aggErr.Aggregator)
	assert.Zero(t, got.TotalSpent)
	assert.Equal(t, 30, got.PeriodDays)
}

func TestGuardWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	got, err := Guard("inventory", domain.InventoryStatistics{}, func() (domain.InventoryStatistics, error) {
		return domain.InventoryStatistics{TotalItems: 3}, boom
	})

	assert.True(t, errors.Is(err, domain.ErrAggregationFailed))
	assert.True(t, errors.Is(err, boom))
	assert.Zero(t, got.TotalItems)
}

func TestGuardKeepsInvalidParameter(t *testing.T) {
	_, err := Guard("spending", EmptySpendingAnalytics(0), func() (domain.SpendingAnalytics, error) {
		return ComputeSpendingAnalytics(nil, 0, testNow)
	})

	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
	assert.False(t, errors.Is(err, domain.ErrAggregationFailed))
}
