// internal/domain/item.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money serializes as a JSON number everywhere, item prices included.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category is one of the fixed grocery categories.
type Category string

const (
	CategoryFruitsVegetables Category = "Fruits & Vegetables"
	CategoryDairyEggs        Category = "Dairy & Eggs"
	CategoryMeatSeafood      Category = "Meat & Seafood"
	CategoryBakery           Category = "Bakery"
	CategoryPantryStaples    Category = "Pantry Staples"
	CategoryFrozenFoods      Category = "Frozen Foods"
	CategoryBeverages        Category = "Beverages"
	CategorySnacks           Category = "Snacks"
	CategoryHealthBeauty     Category = "Health & Beauty"
	CategoryHousehold        Category = "Household Items"
	CategoryOther            Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFruitsVegetables,
	CategoryDairyEggs,
	CategoryMeatSeafood,
	CategoryBakery,
	CategoryPantryStaples,
	CategoryFrozenFoods,
	CategoryBeverages,
	CategorySnacks,
	CategoryHealthBeauty,
	CategoryHousehold,
	CategoryOther,
}

var categoryIcons = map[Category]string{
	CategoryFruitsVegetables: "apple",
	CategoryDairyEggs:        "egg",
	CategoryMeatSeafood:      "fish",
	CategoryBakery:           "bread-slice",
	CategoryPantryStaples:    "jar",
	CategoryFrozenFoods:      "snow",
	CategoryBeverages:        "cup-straw",
	CategorySnacks:           "cookie",
	CategoryHealthBeauty:     "heart",
	CategoryHousehold:        "house",
	CategoryOther:            "bag",
}

// ParseCategory matches a label case-insensitively against the known
// categories. Unknown or empty labels map to CategoryOther.
func ParseCategory(label string) (Category, bool) {
	trimmed := strings.TrimSpace(label)
	for _, c := range Categories {
		if strings.EqualFold(string(c), trimmed) {
			return c, true
		}
	}
	return CategoryOther, false
}

// Icon returns the icon name used by the dashboard for the category.
func (c Category) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return "bag"
}

// Units is the recognized unit-of-measure set.
var Units = []string{
	"pieces", "kg", "grams", "liters", "ml", "packets",
	"bottles", "cans", "boxes", "loaf", "cups", "block",
}

// DefaultUnit is used when an item carries no unit.
const DefaultUnit = "pieces"

// IsKnownUnit reports whether unit is part of the recognized set.
func IsKnownUnit(unit string) bool {
	for _, u := range Units {
		if strings.EqualFold(u, unit) {
			return true
		}
	}
	return false
}

// RawItem is an item record as supplied by storage: a loose mapping whose
// values may be strings, numbers, byte slices or timestamps.
type RawItem map[string]any

// Item is a normalized grocery item. Nil pointers mean the field was absent
// or unusable.
type Item struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Category      Category         `json:"category"`
	Quantity      *int             `json:"quantity"`
	Unit          string           `json:"unit"`
	Price         *decimal.Decimal `json:"price"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
	LastPurchased *time.Time       `json:"last_purchased"`
	Brand         string           `json:"brand,omitempty"`
	Store         string           `json:"store,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Barcode       string           `json:"barcode,omitempty"`
	UserID        string           `json:"user_id,omitempty"`
}

// QuantityOr returns the quantity or def when it is unknown.
func (i Item) QuantityOr(def int) int {
	if i.Quantity == nil {
		return def
	}
	return *i.Quantity
}

// Value returns price * quantity when both are known.
func (i Item) Value() (decimal.Decimal, bool) {
	if i.Price == nil || i.Quantity == nil {
		return decimal.Zero, false
	}
	return i.Price.Mul(decimal.NewFromInt(int64(*i.Quantity))), true
}

// ItemFilter narrows a catalog snapshot.
type ItemFilter struct {
	UserID   string `json:"user_id"`
	Category string `json:"category"`
}
