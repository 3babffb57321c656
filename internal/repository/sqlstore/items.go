package sqlstore

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// itemColumns are written by SaveItems, in order.
var itemColumns = []string{
	"name", "category", "quantity", "unit", "price", "expiry_date",
	"last_purchased", "brand", "store", "notes", "barcode", "user_id",
}

// ItemStore reads and writes grocery items in a single SQL table.
type ItemStore struct {
	db    *DB
	table string
}

// NewItemStore binds the store to table. The name is interpolated into SQL,
// so it must be a plain identifier.
func NewItemStore(db *DB, table string) (*ItemStore, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid items table name %q", table)
	}
	return &ItemStore{db: db, table: table}, nil
}

func (s *ItemStore) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.RawItem, error) {
	where, args := filterClause(filter)
	query := fmt.Sprintf("SELECT * FROM %s%s ORDER BY id", s.table, where)

	rows, err := s.db.queryMaps(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("error listing items: %w", err)
	}
	return toRawItems(rows), nil
}

func (s *ItemStore) ListPurchaseHistory(ctx context.Context, filter domain.ItemFilter, name string) ([]domain.RawItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.InvalidParameter("name", "item name is required")
	}

	where, args := filterClause(filter)
	if where == "" {
		where = " WHERE LOWER(name) = LOWER(?)"
	} else {
		where += " AND LOWER(name) = LOWER(?)"
	}
	args = append(args, name)
	query := fmt.Sprintf("SELECT * FROM %s%s ORDER BY last_purchased DESC", s.table, where)

	rows, err := s.db.queryMaps(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("error listing purchase history for %q: %w", name, err)
	}
	return toRawItems(rows), nil
}

// SaveItems inserts items in one transaction and returns the number written.
func (s *ItemStore) SaveItems(ctx context.Context, items []domain.Item) (int, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(itemColumns)), ", ")
	query := s.db.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table, strings.Join(itemColumns, ", "), placeholders))

	written := 0
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, item := range items {
			_, err := stmt.ExecContext(ctx,
				item.Name,
				string(item.Category),
				item.Quantity,
				item.Unit,
				item.Price,
				item.ExpiryDate,
				item.LastPurchased,
				item.Brand,
				item.Store,
				item.Notes,
				item.Barcode,
				item.UserID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item %q: %w", item.Name, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func filterClause(filter domain.ItemFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Category != "" {
		conds = append(conds, "LOWER(category) = LOWER(?)")
		args = append(args, filter.Category)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func toRawItems(rows []map[string]any) []domain.RawItem {
	items := make([]domain.RawItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.RawItem(row))
	}
	return items
}
