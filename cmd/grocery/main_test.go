package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nagul-a/Grocery-tracker/internal/config"
	"github.com/nagul-a/Grocery-tracker/internal/domain"
	"github.com/nagul-a/Grocery-tracker/internal/storage"
)

type memObjects struct {
	objects map[string][]byte
}

func (m *memObjects) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	return out, nil
}

func (m *memObjects) GetObject(ctx context.Context, key string) ([]byte, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (m *memObjects) DownloadObject(ctx context.Context, key, destPath string) error {
	return errors.New("not supported")
}

func (m *memObjects) UploadObject(ctx context.Context, key string, data []byte, contentType string) error {
	m.objects[key] = data
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{LogLevel: "error", Source: "snapshot"},
		Storage: config.StorageConfig{SnapshotKey: "snapshots/items.json", ReportPrefix: "reports/"},
		Analytics: config.AnalyticsConfig{
			LowStockThreshold:    5,
			MediumStockThreshold: 10,
			StaleDays:            30,
			SpendingWindowDays:   30,
			SuggestionLimit:      10,
			ExpiringWithinDays:   7,
			FrequentMinPurchases: 3,
		},
	}
}

func runApp(t *testing.T, objects *memObjects, stdin string, args ...string) (string, error) {
	t.Helper()

	rt := newRuntime(testConfig())
	if objects != nil {
		rt.objects = objects
	}
	app := buildApp(rt)
	var out bytes.Buffer
	app.Writer = &out
	app.Reader = strings.NewReader(stdin)
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"grocery"}, args...))
	return out.String(), err
}

const snapshotJSON = `[
	{"id": 1, "name": "Milk", "category": "Dairy & Eggs", "quantity": 2, "price": "3.00", "user_id": "u1"},
	{"id": 2, "name": "Bread", "category": "Bakery", "quantity": 1, "user_id": "u2"}
]`

func TestStatsCommand(t *testing.T) {
	objects := &memObjects{objects: map[string][]byte{"snapshots/items.json": []byte(snapshotJSON)}}

	out, err := runApp(t, objects, "", "stats")
	require.NoError(t, err)

	var stats domain.InventoryStatistics
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 6.0, stats.TotalValue)

	out, err = runApp(t, objects, "", "--user", "u2", "stats")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 1, stats.TotalItems)
}

func TestReportCommandUploads(t *testing.T) {
	objects := &memObjects{objects: map[string][]byte{"snapshots/items.json": []byte(snapshotJSON)}}

	out, err := runApp(t, objects, "", "report")
	require.NoError(t, err)

	var run struct {
		Status string `json:"status"`
		Jobs   []struct {
			Key string `json:"key"`
		} `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.Equal(t, "completed", run.Status)
	require.Len(t, run.Jobs, 1)
	key := run.Jobs[0].Key
	require.Contains(t, objects.objects, key)
	assert.True(t, strings.HasPrefix(key, "reports/"))

	var dashboard domain.Dashboard
	require.NoError(t, json.Unmarshal(objects.objects[key], &dashboard))
	assert.Equal(t, 2, dashboard.Inventory.TotalItems)
}

func TestSnapshotExportCSV(t *testing.T) {
	objects := &memObjects{objects: map[string][]byte{"snapshots/items.json": []byte(snapshotJSON)}}

	_, err := runApp(t, objects, "", "snapshot", "export", "--key", "exports/items.csv")
	require.NoError(t, err)
	require.Contains(t, objects.objects, "exports/items.csv")
	assert.True(t, strings.HasPrefix(string(objects.objects["exports/items.csv"]), "id,name,category"))
}

func TestValidateCommand(t *testing.T) {
	out, err := runApp(t, nil, `{"name": "Milk", "category": "Dairy & Eggs", "quantity": 2, "unit": "liters"}`, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, `"is_valid": true`)

	out, err = runApp(t, nil, `{"name": "Milk", "quantity": -1}`, "validate")
	require.Error(t, err)
	assert.Contains(t, out, "Quantity must be greater than 0")
}

func TestRecipeCommand(t *testing.T) {
	out, err := runApp(t, nil, "", "recipe", "Pasta", "with", "Tomato", "Sauce")
	require.NoError(t, err)
	assert.Contains(t, out, `"servings": 4`)

	_, err = runApp(t, nil, "", "recipe", "Toast")
	assert.Error(t, err)
}

func TestItemStatuses(t *testing.T) {
	q := 0
	now := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	statuses := itemStatuses([]domain.Item{{Name: "Flour", Quantity: &q}, {Name: "Salt"}}, 5, 10, now)

	require.Len(t, statuses, 2)
	require.NotNil(t, statuses[0].Stock)
	assert.Equal(t, domain.StockOut, statuses[0].Stock.Level)
	assert.Nil(t, statuses[1].Stock)
	assert.Equal(t, domain.ExpiryUnknown, statuses[1].Expiry.Status)
}
