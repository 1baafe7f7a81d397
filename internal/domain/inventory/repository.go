package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockBatchRepository provides access to stock batches
type StockBatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockBatch, error)
	// FindConsumable returns active batches with stock for the product,
	// ordered FEFO (expiry ascending, nil expiry last, created_at tiebreak).
	FindConsumable(ctx context.Context, storeID, productID uuid.UUID) ([]StockBatch, error)
	// FindByProduct returns all batches for a product regardless of status,
	// oldest first.
	FindByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]StockBatch, error)
	FindByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]StockBatch, error)
	FindExpiring(ctx context.Context, storeID uuid.UUID, withinDays int) ([]StockBatch, error)
	FindExpired(ctx context.Context, storeID uuid.UUID) ([]StockBatch, error)
	// SumNonDepleted computes the projection input: the sum of
	// current_quantity over the product's non-depleted batches.
	SumNonDepleted(ctx context.Context, storeID, productID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, batch *StockBatch) error
	SaveAll(ctx context.Context, batches []*StockBatch) error
}

// InventoryTransactionRepository is the append-only store for inventory
// transactions. There is deliberately no update or delete; reversal is a
// new compensating row.
type InventoryTransactionRepository interface {
	Append(ctx context.Context, tx *InventoryTransaction) error
	AppendAll(ctx context.Context, txs []*InventoryTransaction) error
	FindBySource(ctx context.Context, sourceType SourceType, sourceID uuid.UUID) ([]InventoryTransaction, error)
	FindByBatch(ctx context.Context, batchID uuid.UUID, filter shared.Filter) ([]InventoryTransaction, error)
	FindByProduct(ctx context.Context, storeID, productID uuid.UUID, filter shared.Filter) ([]InventoryTransaction, int64, error)
}
