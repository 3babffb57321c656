package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

var requiredFields = []string{"name", "category", "quantity", "unit"}

// ValidateItem checks a raw item before it is stored: required fields,
// a positive quantity, a non-negative price and a parseable expiry date.
// An expiry date in the past is only a warning.
func ValidateItem(raw domain.RawItem, now time.Time) domain.ValidationResult {
	result := domain.ValidationResult{Errors: []string{}, Warnings: []string{}}

	for _, field := range requiredFields {
		if isBlank(raw[field]) {
			result.Errors = append(result.Errors, fmt.Sprintf("%s is required", capitalize(field)))
		}
	}

	if v, ok := raw["quantity"]; ok && !isBlank(v) {
		q, present, err := ParseDecimal(v)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, "Quantity must be a valid number")
		case present && !q.IsPositive():
			result.Errors = append(result.Errors, "Quantity must be greater than 0")
		}
	}

	if v, ok := raw["price"]; ok && !isBlank(v) {
		p, _, err := ParseDecimal(v)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, "Price must be a valid number")
		case p.IsNegative():
			result.Errors = append(result.Errors, "Price cannot be negative")
		}
	}

	if v, ok := raw["expiry_date"]; ok && !isBlank(v) {
		t, _, err := ParseTime(v)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, "Invalid expiry date format")
		case DaysUntil(t, now) < 0:
			result.Warnings = append(result.Warnings, "Expiry date is in the past")
		}
	}

	if u, ok := raw["unit"].(string); ok && u != "" && !domain.IsKnownUnit(u) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Unit %q is not a recognized unit", u))
	}
	if c, ok := raw["category"].(string); ok && c != "" {
		if _, known := domain.ParseCategory(c); !known {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Category %q will be stored as %s", c, domain.CategoryOther))
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func isBlank(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	default:
		return false
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
