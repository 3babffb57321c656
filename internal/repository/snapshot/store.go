package snapshot

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nagul-a/Grocery-tracker/internal/analytics"
	"github.com/nagul-a/Grocery-tracker/internal/domain"
	"github.com/nagul-a/Grocery-tracker/internal/storage"
)

// csvColumns is the header written for CSV snapshots.
var csvColumns = []string{
	"id", "name", "category", "quantity", "unit", "price", "expiry_date",
	"last_purchased", "brand", "store", "notes", "barcode", "user_id",
}

// Store serves a catalog snapshot kept as a single object: a JSON array of
// item objects, or a CSV file with a header row when the key ends in .csv.
// Every call reads the object again.
type Store struct {
	objects storage.ObjectStorage
	key     string
}

func NewStore(objects storage.ObjectStorage, key string) *Store {
	return &Store{objects: objects, key: key}
}

func (s *Store) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.RawItem, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RawItem, 0, len(all))
	for _, raw := range all {
		if matches(raw, filter) {
			out = append(out, raw)
		}
	}
	return out, nil
}

func (s *Store) ListPurchaseHistory(ctx context.Context, filter domain.ItemFilter, name string) ([]domain.RawItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.InvalidParameter("name", "item name is required")
	}
	items, err := s.ListItems(ctx, filter)
	if err != nil {
		return nil, err
	}

	type dated struct {
		raw domain.RawItem
		at  time.Time
	}
	var history []dated
	for _, raw := range items {
		if !strings.EqualFold(strings.TrimSpace(stringValue(raw["name"])), name) {
			continue
		}
		at, _, _ := analytics.ParseTime(raw["last_purchased"])
		history = append(history, dated{raw: raw, at: at})
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].at.After(history[j].at) })

	out := make([]domain.RawItem, 0, len(history))
	for _, h := range history {
		out = append(out, h.raw)
	}
	return out, nil
}

// SaveItems replaces the snapshot object with items.
func (s *Store) SaveItems(ctx context.Context, items []domain.Item) (int, error) {
	var (
		payload     []byte
		contentType string
		err         error
	)
	if s.isCSV() {
		payload, err = encodeCSV(items)
		contentType = "text/csv"
	} else {
		payload, err = json.MarshalIndent(items, "", "  ")
		contentType = "application/json"
	}
	if err != nil {
		return 0, fmt.Errorf("encode snapshot %s: %w", s.key, err)
	}

	if err := s.objects.UploadObject(ctx, s.key, payload, contentType); err != nil {
		return 0, err
	}
	log.Info().Str("key", s.key).Int("items", len(items)).Msg("snapshot: published")
	return len(items), nil
}

func (s *Store) isCSV() bool {
	return strings.EqualFold(path.Ext(s.key), ".csv")
}

func (s *Store) load(ctx context.Context) ([]domain.RawItem, error) {
	data, err := s.objects.GetObject(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			log.Warn().Str("key", s.key).Msg("snapshot: object missing, treating catalog as empty")
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot %s: %w", s.key, err)
	}

	if s.isCSV() {
		return decodeCSV(bytes.NewReader(data))
	}
	return decodeJSON(data)
}

func decodeJSON(data []byte) ([]domain.RawItem, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var items []domain.RawItem
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode snapshot json: %w", err)
	}
	return items, nil
}

// decodeCSV maps each row onto the header. Empty cells are left out so they
// read as absent fields.
func decodeCSV(r io.Reader) ([]domain.RawItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var items []domain.RawItem
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}

		raw := make(domain.RawItem, len(colMap))
		for col, i := range colMap {
			if i < len(record) && strings.TrimSpace(record[i]) != "" {
				raw[col] = record[i]
			}
		}
		items = append(items, raw)
	}
	return items, nil
}

func encodeCSV(items []domain.Item) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvColumns); err != nil {
		return nil, err
	}
	for _, item := range items {
		record := []string{
			item.ID,
			item.Name,
			string(item.Category),
			"",
			item.Unit,
			"",
			formatTime(item.ExpiryDate),
			formatTime(item.LastPurchased),
			item.Brand,
			item.Store,
			item.Notes,
			item.Barcode,
			item.UserID,
		}
		if item.Quantity != nil {
			record[3] = strconv.Itoa(*item.Quantity)
		}
		if item.Price != nil {
			record[5] = item.Price.String()
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func matches(raw domain.RawItem, filter domain.ItemFilter) bool {
	if filter.UserID != "" && stringValue(raw["user_id"]) != filter.UserID {
		return false
	}
	if filter.Category != "" && !strings.EqualFold(strings.TrimSpace(stringValue(raw["category"])), strings.TrimSpace(filter.Category)) {
		return false
	}
	return true
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
