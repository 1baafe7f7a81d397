package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchLedger is the append-only stock engine. Every operation runs
// against repositories obtained from a single TransactionScope so that
// batch mutations, ledger entries and the product quantity projection
// commit atomically. The ledger itself is stateless; the trade
// coordinator calls it inside its own transaction.
type BatchLedger struct{}

// NewBatchLedger creates a batch ledger engine
func NewBatchLedger() *BatchLedger {
	return &BatchLedger{}
}

// ConsumeParams describes one outbound stock movement
type ConsumeParams struct {
	StoreID     uuid.UUID
	ProductID   uuid.UUID
	Quantity    decimal.Decimal
	SourceType  inventory.SourceType
	SourceID    uuid.UUID
	TxType      inventory.TransactionType
	PerformedBy uuid.UUID
	CustomerID  *uuid.UUID
	Reason      string
}

// ReceiveParams describes one received purchase line
type ReceiveParams struct {
	StoreID          uuid.UUID
	ProductID        uuid.UUID
	PurchaseID       uuid.UUID
	BatchNumber      string
	Quantity         decimal.Decimal
	PurchasePrice    decimal.Decimal
	ManufacturedDate *time.Time
	ExpiryDate       *time.Time
	PerformedBy      uuid.UUID
}

// ReturnParams describes stock coming back in, from a customer return
// or a positive manual adjustment
type ReturnParams struct {
	StoreID     uuid.UUID
	ProductID   uuid.UUID
	Quantity    decimal.Decimal
	SourceType  inventory.SourceType
	SourceID    uuid.UUID
	TxType      inventory.TransactionType
	PerformedBy uuid.UUID
	CustomerID  *uuid.UUID
	Reason      string
}

// ConsumeForSale deducts the requested quantity from the product's
// batches in FEFO order. The allocation is planned as a pure function
// first; only a complete plan is applied, so a partial deduction can
// never be observed. Returns the applied plan (carrying the allocated
// cost) and the resynced product.
func (l *BatchLedger) ConsumeForSale(ctx context.Context, repos TransactionalRepositories, p ConsumeParams) (*inventory.AllocationPlan, *catalog.Product, error) {
	batches, err := repos.BatchRepo().FindConsumable(ctx, p.StoreID, p.ProductID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading consumable batches: %w", err)
	}
	inventory.SortFEFO(batches)

	plan, err := inventory.Allocate(batches, p.Quantity)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[uuid.UUID]*inventory.StockBatch, len(batches))
	for i := range batches {
		byID[batches[i].ID] = &batches[i]
	}

	txType := p.TxType
	if txType == "" {
		txType = inventory.TransactionTypeSale
	}

	touched := make([]*inventory.StockBatch, 0, len(plan.Allocations))
	entries := make([]*inventory.InventoryTransaction, 0, len(plan.Allocations))
	for _, alloc := range plan.Allocations {
		batch := byID[alloc.BatchID]
		if err := batch.Deduct(alloc.Quantity); err != nil {
			return nil, nil, err
		}
		touched = append(touched, batch)

		entry, err := inventory.NewInventoryTransaction(
			p.StoreID, p.ProductID, batch.ID,
			txType, alloc.Quantity.Neg(),
			p.SourceType, p.SourceID, p.PerformedBy,
		)
		if err != nil {
			return nil, nil, err
		}
		if p.CustomerID != nil {
			entry.WithCustomer(*p.CustomerID)
		}
		if p.Reason != "" {
			entry.WithReason(p.Reason)
		}
		entries = append(entries, entry)
	}

	if err := repos.BatchRepo().SaveAll(ctx, touched); err != nil {
		return nil, nil, fmt.Errorf("saving batches: %w", err)
	}
	if err := repos.InventoryTxRepo().AppendAll(ctx, entries); err != nil {
		return nil, nil, fmt.Errorf("appending inventory transactions: %w", err)
	}

	product, err := l.SyncProductQuantity(ctx, repos, p.StoreID, p.ProductID)
	if err != nil {
		return nil, nil, err
	}
	return plan, product, nil
}

// ReceivePurchase creates a fresh batch for a received purchase line and
// records the inflow. Lines never merge into existing batches; each
// receipt is its own lot with its own expiry.
func (l *BatchLedger) ReceivePurchase(ctx context.Context, repos TransactionalRepositories, p ReceiveParams) (*inventory.StockBatch, *catalog.Product, error) {
	batch, err := inventory.NewStockBatch(
		p.StoreID, p.ProductID, p.PurchaseID,
		p.BatchNumber, p.Quantity, p.PurchasePrice,
		p.ManufacturedDate, p.ExpiryDate,
	)
	if err != nil {
		return nil, nil, err
	}

	if err := repos.BatchRepo().Save(ctx, batch); err != nil {
		return nil, nil, fmt.Errorf("saving batch: %w", err)
	}

	entry, err := inventory.NewInventoryTransaction(
		p.StoreID, p.ProductID, batch.ID,
		inventory.TransactionTypePurchase, p.Quantity,
		inventory.SourceTypePurchase, p.PurchaseID, p.PerformedBy,
	)
	if err != nil {
		return nil, nil, err
	}
	if err := repos.InventoryTxRepo().Append(ctx, entry); err != nil {
		return nil, nil, fmt.Errorf("appending inventory transaction: %w", err)
	}

	product, err := l.SyncProductQuantity(ctx, repos, p.StoreID, p.ProductID)
	if err != nil {
		return nil, nil, err
	}
	return batch, product, nil
}

// ReturnToSupplier deducts stock being sent back to a supplier. The
// deduction follows the same FEFO allocation as a sale and is recorded
// as a return entry against the return document.
func (l *BatchLedger) ReturnToSupplier(ctx context.Context, repos TransactionalRepositories, p ConsumeParams) (*inventory.AllocationPlan, *catalog.Product, error) {
	p.TxType = inventory.TransactionTypeReturn
	return l.ConsumeForSale(ctx, repos, p)
}

// ReturnFromCustomer puts returned stock back into the oldest batch
// found for the product. The receiving batch is not required to be the
// one the stock was sold from, so the addition is uncapped.
func (l *BatchLedger) ReturnFromCustomer(ctx context.Context, repos TransactionalRepositories, p ReturnParams) (*catalog.Product, error) {
	if !p.Quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}

	batches, err := repos.BatchRepo().FindByProduct(ctx, p.StoreID, p.ProductID)
	if err != nil {
		return nil, fmt.Errorf("loading batches: %w", err)
	}
	if len(batches) == 0 {
		return nil, shared.NewDomainError("NO_BATCH_FOUND",
			"No batch exists for the product to receive the return")
	}

	batch := &batches[0]
	if err := batch.AddUncapped(p.Quantity); err != nil {
		return nil, err
	}
	if err := repos.BatchRepo().Save(ctx, batch); err != nil {
		return nil, fmt.Errorf("saving batch: %w", err)
	}

	txType := p.TxType
	if txType == "" {
		txType = inventory.TransactionTypeReturn
	}
	entry, err := inventory.NewInventoryTransaction(
		p.StoreID, p.ProductID, batch.ID,
		txType, p.Quantity,
		p.SourceType, p.SourceID, p.PerformedBy,
	)
	if err != nil {
		return nil, err
	}
	if p.CustomerID != nil {
		entry.WithCustomer(*p.CustomerID)
	}
	if p.Reason != "" {
		entry.WithReason(p.Reason)
	}
	if err := repos.InventoryTxRepo().Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("appending inventory transaction: %w", err)
	}

	return l.SyncProductQuantity(ctx, repos, p.StoreID, p.ProductID)
}

// Reverse appends compensating entries for every unreversed entry of a
// source document and applies the opposite stock movement. Original
// entries are never deleted or mutated; after a reversal the document's
// entries sum to zero per batch. Reversing a purchase receipt whose
// batch was already partially consumed fails, surfacing the conflict to
// the caller instead of going negative.
func (l *BatchLedger) Reverse(ctx context.Context, repos TransactionalRepositories, sourceType inventory.SourceType, sourceID, performedBy uuid.UUID) ([]*catalog.Product, error) {
	entries, err := repos.InventoryTxRepo().FindBySource(ctx, sourceType, sourceID)
	if err != nil {
		return nil, fmt.Errorf("loading source transactions: %w", err)
	}

	reversed := make(map[uuid.UUID]bool)
	for i := range entries {
		if entries[i].ReversedTransactionID != nil {
			reversed[*entries[i].ReversedTransactionID] = true
		}
	}

	batchCache := make(map[uuid.UUID]*inventory.StockBatch)
	productIDs := make(map[uuid.UUID]uuid.UUID) // productID -> storeID
	var reversals []*inventory.InventoryTransaction

	for i := range entries {
		original := &entries[i]
		if original.IsReversal() || reversed[original.ID] {
			continue
		}

		batch, ok := batchCache[original.BatchID]
		if !ok {
			batch, err = repos.BatchRepo().FindByID(ctx, original.BatchID)
			if err != nil {
				return nil, fmt.Errorf("loading batch %s: %w", original.BatchID, err)
			}
			batchCache[original.BatchID] = batch
		}

		if original.IsInflow() {
			// Undoing an inflow takes the stock back out. This fails if
			// the stock has since been consumed, which is the
			// BATCH_ALREADY_CONSUMED conflict the coordinator reports.
			if original.Quantity.GreaterThan(batch.CurrentQuantity) {
				return nil, shared.NewDomainError("BATCH_ALREADY_CONSUMED",
					fmt.Sprintf("Batch %s has been partially consumed and cannot be reversed", batch.BatchNumber))
			}
			if err := batch.Deduct(original.Quantity); err != nil {
				return nil, err
			}
		} else {
			if err := batch.AddUncapped(original.Quantity.Neg()); err != nil {
				return nil, err
			}
		}

		reversals = append(reversals, original.NewReversal(performedBy))
		productIDs[original.ProductID] = original.StoreID
	}

	if len(reversals) == 0 {
		return nil, nil
	}

	batches := make([]*inventory.StockBatch, 0, len(batchCache))
	for _, b := range batchCache {
		batches = append(batches, b)
	}
	if err := repos.BatchRepo().SaveAll(ctx, batches); err != nil {
		return nil, fmt.Errorf("saving batches: %w", err)
	}
	if err := repos.InventoryTxRepo().AppendAll(ctx, reversals); err != nil {
		return nil, fmt.Errorf("appending reversals: %w", err)
	}

	products := make([]*catalog.Product, 0, len(productIDs))
	for productID, storeID := range productIDs {
		product, err := l.SyncProductQuantity(ctx, repos, storeID, productID)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// SyncProductQuantity recomputes the product quantity projection from
// the non-depleted batch totals and persists it with a version check.
// Must run inside the same transaction as the batch mutations so the
// sum observes them.
func (l *BatchLedger) SyncProductQuantity(ctx context.Context, repos TransactionalRepositories, storeID, productID uuid.UUID) (*catalog.Product, error) {
	total, err := repos.BatchRepo().SumNonDepleted(ctx, storeID, productID)
	if err != nil {
		return nil, fmt.Errorf("summing batch quantities: %w", err)
	}

	product, err := repos.ProductRepo().FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	product.SyncQuantity(total)
	if err := repos.ProductRepo().SaveWithVersion(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
