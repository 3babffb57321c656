package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagul-a/Grocery-tracker/internal/analytics"
	"github.com/nagul-a/Grocery-tracker/internal/config"
	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

const testTable = "grocery_app_groceryitem"

func newTestStore(t *testing.T) *ItemStore {
	t.Helper()

	db, err := Open("sqlite3", filepath.Join(t.TempDir(), "items.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE ` + testTable + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT,
		quantity INTEGER,
		unit TEXT,
		price DECIMAL(10, 2),
		expiry_date DATETIME,
		last_purchased DATETIME,
		brand TEXT,
		store TEXT,
		notes TEXT,
		barcode TEXT,
		user_id TEXT
	)`)
	require.NoError(t, err)

	store, err := NewItemStore(db, testTable)
	require.NoError(t, err)
	return store
}

func seedItems() []domain.Item {
	qty := func(v int) *int { return &v }
	price := func(s string) *decimal.Decimal { d := decimal.RequireFromString(s); return &d }
	at := func(day int) *time.Time { t := time.Date(2024, 3, day, 9, 0, 0, 0, time.UTC); return &t }

	return []domain.Item{
		{Name: "Milk", Category: domain.CategoryDairyEggs, Quantity: qty(2), Unit: "liters", Price: price("3.00"), LastPurchased: at(1), UserID: "u1"},
		{Name: "milk", Category: domain.CategoryDairyEggs, Quantity: qty(1), Unit: "liters", Price: price("2.80"), LastPurchased: at(10), UserID: "u1"},
		{Name: "Bread", Category: domain.CategoryBakery, Quantity: qty(1), Unit: "loaf", UserID: "u2"},
	}
}

func TestItemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	written, err := store.SaveItems(ctx, seedItems())
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	raws, err := store.ListItems(ctx, domain.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, raws, 3)

	items, issues := analytics.NormalizeItems(raws)
	assert.Empty(t, issues)
	assert.Equal(t, "Milk", items[0].Name)
	require.NotNil(t, items[0].Price)
	assert.True(t, decimal.RequireFromString("3").Equal(*items[0].Price))
	require.NotNil(t, items[0].LastPurchased)
	assert.Equal(t, 1, items[0].LastPurchased.Day())
	assert.Nil(t, items[2].Price)
	assert.Nil(t, items[2].LastPurchased)
}

func TestItemStoreFilters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.SaveItems(ctx, seedItems())
	require.NoError(t, err)

	raws, err := store.ListItems(ctx, domain.ItemFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, raws, 2)

	raws, err = store.ListItems(ctx, domain.ItemFilter{Category: "bakery"})
	require.NoError(t, err)
	assert.Len(t, raws, 1)

	raws, err = store.ListItems(ctx, domain.ItemFilter{UserID: "u2", Category: "Dairy & Eggs"})
	require.NoError(t, err)
	assert.Empty(t, raws)
}

func TestItemStorePurchaseHistory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.SaveItems(ctx, seedItems())
	require.NoError(t, err)

	raws, err := store.ListPurchaseHistory(ctx, domain.ItemFilter{UserID: "u1"}, " MILK ")
	require.NoError(t, err)
	require.Len(t, raws, 2)

	items, _ := analytics.NormalizeItems(raws)
	assert.Equal(t, 10, items[0].LastPurchased.Day())
	assert.Equal(t, 1, items[1].LastPurchased.Day())

	estimate := analytics.EstimateConsumptionRate(analytics.PurchaseHistory(items, "milk"))
	assert.Equal(t, 9.0, estimate.RateDays)

	_, err = store.ListPurchaseHistory(ctx, domain.ItemFilter{}, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func TestNewItemStoreRejectsBadTable(t *testing.T) {
	_, err := NewItemStore(nil, "items; DROP TABLE users")
	assert.Error(t, err)
}

func TestDataSource(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "db", Port: "5432", User: "grocer", Password: "p@ss",
		DBName: "grocery", SSLMode: "disable", SQLitePath: "./db.sqlite3",
	}

	cfg.Driver = "postgres"
	driver, dsn, err := DataSource(cfg)
	require.NoError(t, err)
	assert.Equal(t, "postgres", driver)
	assert.Equal(t, "host=db port=5432 user=grocer password=p@ss dbname=grocery sslmode=disable", dsn)

	cfg.Driver = "pgx"
	driver, dsn, err = DataSource(cfg)
	require.NoError(t, err)
	assert.Equal(t, "pgx", driver)
	assert.Equal(t, "postgres://grocer:p%40ss@db:5432/grocery?sslmode=disable", dsn)

	cfg.Driver = "SQLite3"
	driver, dsn, err = DataSource(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", driver)
	assert.Equal(t, "./db.sqlite3", dsn)

	cfg.Driver = "oracle"
	_, _, err = DataSource(cfg)
	assert.Error(t, err)
}
