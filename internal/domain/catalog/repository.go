package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// ProductRepository provides access to products
type ProductRepository interface {
	shared.StoreRepository[Product]
	FindBySKU(ctx context.Context, storeID uuid.UUID, sku string) (*Product, error)
	FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	FindBelowThreshold(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Product, error)
	// SaveWithVersion persists the product asserting its version is unchanged,
	// returning shared.ErrConcurrencyConflict on a losing race.
	SaveWithVersion(ctx context.Context, product *Product) error
}

// CategoryRepository provides access to categories
type CategoryRepository interface {
	shared.StoreRepository[Category]
	FindByName(ctx context.Context, storeID uuid.UUID, name string) (*Category, error)
}
