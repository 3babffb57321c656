package analytics

import (
	"strings"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

type mealRule struct {
	requires []string
	meal     domain.MealSuggestion
}

// mealRules are checked in order; a meal is suggested when every required
// keyword appears in the name of some in-stock item.
var mealRules = []mealRule{
	{
		requires: []string{"chicken", "rice"},
		meal: domain.MealSuggestion{
			Name:                 "Chicken Fried Rice",
			IngredientsAvailable: []string{"chicken", "rice"},
			MissingIngredients:   []string{"soy sauce", "vegetables"},
			Difficulty:           "Easy",
			CookTime:             "30 minutes",
		},
	},
	{
		requires: []string{"pasta", "tomato"},
		meal: domain.MealSuggestion{
			Name:                 "Pasta with Tomato Sauce",
			IngredientsAvailable: []string{"pasta", "tomatoes"},
			MissingIngredients:   []string{"garlic", "herbs"},
			Difficulty:           "Easy",
			CookTime:             "20 minutes",
		},
	},
	{
		requires: []string{"egg"},
		meal: domain.MealSuggestion{
			Name:                 "Scrambled Eggs",
			IngredientsAvailable: []string{"eggs"},
			MissingIngredients:   []string{"butter", "salt"},
			Difficulty:           "Very Easy",
			CookTime:             "10 minutes",
		},
	},
}

var recipes = map[string]domain.Recipe{
	"chicken fried rice": {
		Ingredients: []string{
			"2 cups cooked rice",
			"1 lb chicken breast, diced",
			"2 eggs, beaten",
			"2 tbsp soy sauce",
			"1 cup mixed vegetables",
			"2 tbsp oil",
		},
		Instructions: []string{
			"Heat oil in a large pan",
			"Cook chicken until done, remove",
			"Scramble eggs, remove",
			"Add rice and vegetables, stir-fry",
			"Add chicken and eggs back",
			"Season with soy sauce",
		},
		PrepTime: "15 minutes",
		CookTime: "15 minutes",
		Servings: 4,
	},
	"pasta with tomato sauce": {
		Ingredients: []string{
			"1 lb pasta",
			"2 cans crushed tomatoes",
			"3 cloves garlic, minced",
			"1 onion, diced",
			"2 tbsp olive oil",
			"Salt and pepper to taste",
		},
		Instructions: []string{
			"Cook pasta according to package directions",
			"Heat oil, saute onion and garlic",
			"Add tomatoes, simmer 20 minutes",
			"Season with salt and pepper",
			"Serve over pasta",
		},
		PrepTime: "10 minutes",
		CookTime: "25 minutes",
		Servings: 4,
	},
}

type alternativeRule struct {
	keyword      string
	alternatives []domain.Alternative
}

var alternativeRules = []alternativeRule{
	{"white bread", []domain.Alternative{
		{Name: "Whole wheat bread", Reason: "Higher fiber content"},
		{Name: "Multigrain bread", Reason: "More nutrients"},
	}},
	{"regular milk", []domain.Alternative{
		{Name: "Low-fat milk", Reason: "Lower calories"},
		{Name: "Almond milk", Reason: "Dairy-free option"},
	}},
	{"potato chips", []domain.Alternative{
		{Name: "Baked chips", Reason: "Less oil and calories"},
		{Name: "Vegetable chips", Reason: "More nutrients"},
	}},
	{"soda", []domain.Alternative{
		{Name: "Sparkling water", Reason: "No added sugar"},
		{Name: "Fresh fruit juice", Reason: "Natural vitamins"},
	}},
}

// SuggestMeals proposes meals from the in-stock items (quantity > 0).
func SuggestMeals(items []domain.Item) []domain.MealSuggestion {
	var names []string
	for _, item := range items {
		if item.QuantityOr(0) > 0 {
			names = append(names, strings.ToLower(item.Name))
		}
	}

	meals := []domain.MealSuggestion{}
	if len(names) == 0 {
		return meals
	}
	for _, rule := range mealRules {
		if hasAll(names, rule.requires) {
			meals = append(meals, rule.meal)
		}
	}
	return meals
}

func hasAll(names, keywords []string) bool {
	for _, kw := range keywords {
		found := false
		for _, n := range names {
			if strings.Contains(n, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// RecipeDetails looks up a recipe by meal name, case-insensitively.
func RecipeDetails(meal string) (domain.Recipe, bool) {
	r, ok := recipes[strings.ToLower(strings.TrimSpace(meal))]
	return r, ok
}

// HealthierAlternatives returns swaps for the first rule whose keyword
// appears in name.
func HealthierAlternatives(name string) []domain.Alternative {
	lower := strings.ToLower(name)
	for _, rule := range alternativeRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.alternatives
		}
	}
	return []domain.Alternative{}
}
