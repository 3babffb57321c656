package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	errNotNumeric  = errors.New("not a number")
	errNegative    = errors.New("negative value")
	errNotTemporal = errors.New("not a recognized timestamp")
)

// timeLayouts are tried in order for string timestamps. Fractional seconds
// are accepted after the seconds field; layouts without a zone are UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDecimal coerces a raw numeric value. ok is false when the value is
// absent; err is set when a value was present but unusable.
func ParseDecimal(v any) (d decimal.Decimal, ok bool, err error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false, nil
	case decimal.Decimal:
		return n, true, nil
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false, nil
		}
		return *n, true, nil
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case int:
		return decimal.NewFromInt(int64(n)), true, nil
	case int8:
		return decimal.NewFromInt(int64(n)), true, nil
	case int16:
		return decimal.NewFromInt(int64(n)), true, nil
	case int32:
		return decimal.NewFromInt(int64(n)), true, nil
	case int64:
		return decimal.NewFromInt(n), true, nil
	case uint8:
		return decimal.NewFromInt(int64(n)), true, nil
	case uint16:
		return decimal.NewFromInt(int64(n)), true, nil
	case uint32:
		return decimal.NewFromInt(int64(n)), true, nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), true, nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), true, nil
	case json.Number:
		return fromString(string(n))
	case string:
		return fromString(n)
	case []byte:
		return fromString(string(n))
	default:
		return decimal.Zero, false, fmt.Errorf("%w: unsupported type %T", errNotNumeric, v)
	}
}

func fromFloat(f float64) (decimal.Decimal, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false, fmt.Errorf("%w: %v", errNotNumeric, f)
	}
	return decimal.NewFromFloat(f), true, nil
}

func fromString(s string) (decimal.Decimal, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: %q", errNotNumeric, s)
	}
	return d, true, nil
}

// ParseQuantity coerces a raw quantity; fractional values truncate toward zero.
func ParseQuantity(v any) (int, bool, error) {
	d, ok, err := ParseDecimal(v)
	if err != nil || !ok {
		return 0, false, err
	}
	if d.IsNegative() {
		return 0, false, fmt.Errorf("%w: %s", errNegative, d.String())
	}
	if !d.LessThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, false, fmt.Errorf("%w: quantity %s out of range", errNotNumeric, d.String())
	}
	return int(d.IntPart()), true, nil
}

// ParsePrice coerces a raw price; negative prices are unusable.
func ParsePrice(v any) (decimal.Decimal, bool, error) {
	d, ok, err := ParseDecimal(v)
	if err != nil || !ok {
		return decimal.Zero, false, err
	}
	if d.IsNegative() {
		return decimal.Zero, false, fmt.Errorf("%w: %s", errNegative, d.String())
	}
	return d, true, nil
}

type timer interface {
	Time() time.Time
}

// ParseTime coerces a raw timestamp.
func ParseTime(v any) (time.Time, bool, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false, nil
		}
		return t, true, nil
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false, nil
		}
		return *t, true, nil
	case timer:
		return t.Time(), true, nil
	case []byte:
		return parseTimeString(string(t))
	case string:
		return parseTimeString(t)
	default:
		return time.Time{}, false, fmt.Errorf("%w: unsupported type %T", errNotTemporal, v)
	}
}

func parseTimeString(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%w: %q", errNotTemporal, s)
}

// NormalizeItem converts one raw record into an Item. Unusable fields are
// left absent and reported as FieldErrors; the record itself is always kept.
func NormalizeItem(raw domain.RawItem) (domain.Item, []*domain.FieldError) {
	item := domain.Item{
		ID:      stringField(raw, "id", "_id"),
		Name:    strings.TrimSpace(stringField(raw, "name")),
		Unit:    strings.TrimSpace(stringField(raw, "unit")),
		Brand:   stringField(raw, "brand"),
		Store:   stringField(raw, "store"),
		Notes:   stringField(raw, "notes"),
		Barcode: stringField(raw, "barcode"),
		UserID:  stringField(raw, "user_id"),
	}
	item.Category, _ = domain.ParseCategory(stringField(raw, "category"))
	if item.Unit == "" {
		item.Unit = domain.DefaultUnit
	}

	var issues []*domain.FieldError
	report := func(field string, value any, err error) {
		fe := &domain.FieldError{ItemID: item.ID, Field: field, Value: value, Err: err}
		log.Warn().
			Str("item_id", item.ID).
			Str("item", item.Name).
			Str("field", field).
			Interface("value", value).
			Err(err).
			Msg("analytics: unusable field, excluded from aggregates that need it")
		issues = append(issues, fe)
	}

	if v, present := raw["quantity"]; present {
		q, ok, err := ParseQuantity(v)
		if err != nil {
			report("quantity", v, err)
		} else if ok {
			item.Quantity = &q
		}
	}

	if v, present := raw["price"]; present {
		p, ok, err := ParsePrice(v)
		if err != nil {
			report("price", v, err)
		} else if ok {
			item.Price = &p
		}
	}

	for _, f := range []struct {
		name string
		dst  **time.Time
	}{
		{"expiry_date", &item.ExpiryDate},
		{"last_purchased", &item.LastPurchased},
	} {
		v, present := raw[f.name]
		if !present {
			continue
		}
		t, ok, err := ParseTime(v)
		if err != nil {
			report(f.name, v, err)
			continue
		}
		if ok {
			*f.dst = &t
		}
	}

	return item, issues
}

// NormalizeItems normalizes a whole snapshot, keeping every record.
func NormalizeItems(raws []domain.RawItem) ([]domain.Item, []*domain.FieldError) {
	items := make([]domain.Item, 0, len(raws))
	var issues []*domain.FieldError
	for _, raw := range raws {
		item, fieldIssues := NormalizeItem(raw)
		items = append(items, item)
		issues = append(issues, fieldIssues...)
	}
	return items, issues
}

func stringField(raw domain.RawItem, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			return s
		case []byte:
			return string(s)
		case interface{ Hex() string }:
			return s.Hex()
		case fmt.Stringer:
			return s.String()
		case int64:
			return strconv.FormatInt(s, 10)
		case int:
			return strconv.Itoa(s)
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		default:
			return fmt.Sprint(s)
		}
	}
	return ""
}
