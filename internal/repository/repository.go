// internal/repository/repository.go
package repository

import (
	"context"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

// ItemRepository returns catalog snapshots as loose records. Values are
// passed through as the backing store yields them; normalization happens in
// the analytics layer.
type ItemRepository interface {
	// ListItems returns every item record matching filter.
	ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.RawItem, error)
	// ListPurchaseHistory returns the records whose name equals name,
	// ignoring case, newest purchase first.
	ListPurchaseHistory(ctx context.Context, filter domain.ItemFilter, name string) ([]domain.RawItem, error)
}

// ItemWriter stores normalized items, used to seed a store or publish a
// snapshot.
type ItemWriter interface {
	SaveItems(ctx context.Context, items []domain.Item) (int, error)
}
