package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// CustomerRepository provides access to customers
type CustomerRepository interface {
	shared.StoreRepository[Customer]
	FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*Customer, error)
	// SaveWithVersion persists the customer asserting its version is
	// unchanged, returning shared.ErrConcurrencyConflict on a losing race.
	SaveWithVersion(ctx context.Context, customer *Customer) error
}

// SupplierRepository provides access to suppliers
type SupplierRepository interface {
	shared.StoreRepository[Supplier]
	FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*Supplier, error)
	SaveWithVersion(ctx context.Context, supplier *Supplier) error
}

// CreditTransactionRepository is the append-only store for credit ledger
// entries. Reversal appends a compensating row; rows are never updated
// or deleted.
type CreditTransactionRepository interface {
	Append(ctx context.Context, tx *CreditTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*CreditTransaction, error)
	FindByOwner(ctx context.Context, ownerType OwnerType, ownerID uuid.UUID, filter shared.Filter) ([]CreditTransaction, int64, error)
	FindBySource(ctx context.Context, sourceType CreditSourceType, sourceID uuid.UUID) ([]CreditTransaction, error)
}
