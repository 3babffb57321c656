package analytics

import (
	"time"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

type seasonalItem struct {
	name     string
	category domain.Category
	reason   string
}

var seasonalItems = map[time.Month][]seasonalItem{
	time.January: {
		{"Oranges", domain.CategoryFruitsVegetables, "Citrus season"},
		{"Soup", domain.CategoryPantryStaples, "Winter comfort food"},
	},
	time.February: {
		{"Chocolate", domain.CategorySnacks, "Valentine's Day"},
		{"Strawberries", domain.CategoryFruitsVegetables, "Valentine's Day"},
	},
	time.March: {
		{"Asparagus", domain.CategoryFruitsVegetables, "Spring vegetables"},
		{"Spinach", domain.CategoryFruitsVegetables, "Spring greens"},
	},
	time.April: {
		{"Artichokes", domain.CategoryFruitsVegetables, "Spring season"},
		{"Peas", domain.CategoryFruitsVegetables, "Spring vegetables"},
	},
	time.May: {
		{"Strawberries", domain.CategoryFruitsVegetables, "Berry season"},
		{"Lettuce", domain.CategoryFruitsVegetables, "Spring salads"},
	},
	time.June: {
		{"Berries", domain.CategoryFruitsVegetables, "Summer berry season"},
		{"Zucchini", domain.CategoryFruitsVegetables, "Summer squash"},
	},
	time.July: {
		{"Tomatoes", domain.CategoryFruitsVegetables, "Peak tomato season"},
		{"Corn", domain.CategoryFruitsVegetables, "Summer corn"},
	},
	time.August: {
		{"Peaches", domain.CategoryFruitsVegetables, "Stone fruit season"},
		{"Watermelon", domain.CategoryFruitsVegetables, "Summer hydration"},
	},
	time.September: {
		{"Apples", domain.CategoryFruitsVegetables, "Apple harvest"},
		{"Pumpkin", domain.CategoryFruitsVegetables, "Fall season"},
	},
	time.October: {
		{"Squash", domain.CategoryFruitsVegetables, "Fall harvest"},
		{"Sweet Potatoes", domain.CategoryFruitsVegetables, "Fall vegetables"},
	},
	time.November: {
		{"Turkey", domain.CategoryMeatSeafood, "Thanksgiving"},
		{"Cranberries", domain.CategoryFruitsVegetables, "Thanksgiving"},
	},
	time.December: {
		{"Ham", domain.CategoryMeatSeafood, "Holiday season"},
		{"Eggnog", domain.CategoryDairyEggs, "Holiday drinks"},
	},
}

// SeasonalSuggestions returns the low-priority seasonal candidates for month.
func SeasonalSuggestions(month time.Month) []domain.SuggestionCandidate {
	entries := seasonalItems[month]
	suggestions := make([]domain.SuggestionCandidate, 0, len(entries))
	for _, e := range entries {
		suggestions = append(suggestions, domain.SuggestionCandidate{
			Name:              e.name,
			Category:          e.category,
			SuggestedQuantity: 1,
			Unit:              domain.DefaultUnit,
			Reason:            e.reason,
			Priority:          domain.PriorityLow,
			Source:            domain.SourceSeasonal,
		})
	}
	return suggestions
}
