package inventory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// In-memory repositories backing the ledger tests. They copy values on
// the way in and out so tests observe persisted state, not shared
// pointers.

type fakeBatchRepo struct {
	batches map[uuid.UUID]inventory.StockBatch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: make(map[uuid.UUID]inventory.StockBatch)}
}

func (r *fakeBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := b
	return &copied, nil
}

func (r *fakeBatchRepo) FindConsumable(_ context.Context, storeID, productID uuid.UUID) ([]inventory.StockBatch, error) {
	var out []inventory.StockBatch
	for _, b := range r.batches {
		if b.StoreID == storeID && b.ProductID == productID && b.IsConsumable() {
			out = append(out, b)
		}
	}
	inventory.SortFEFO(out)
	return out, nil
}

func (r *fakeBatchRepo) FindByProduct(_ context.Context, storeID, productID uuid.UUID) ([]inventory.StockBatch, error) {
	var out []inventory.StockBatch
	for _, b := range r.batches {
		if b.StoreID == storeID && b.ProductID == productID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeBatchRepo) FindByPurchase(_ context.Context, purchaseID uuid.UUID) ([]inventory.StockBatch, error) {
	var out []inventory.StockBatch
	for _, b := range r.batches {
		if b.PurchaseID == purchaseID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) FindExpiring(_ context.Context, storeID uuid.UUID, withinDays int) ([]inventory.StockBatch, error) {
	var out []inventory.StockBatch
	for _, b := range r.batches {
		if b.StoreID == storeID && b.Status == inventory.BatchStatusActive &&
			b.ExpiryDate != nil && b.DaysUntilExpiry() <= withinDays {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) FindExpired(_ context.Context, storeID uuid.UUID) ([]inventory.StockBatch, error) {
	var out []inventory.StockBatch
	for _, b := range r.batches {
		if b.StoreID == storeID && b.IsExpired() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) SumNonDepleted(_ context.Context, storeID, productID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.batches {
		if b.StoreID == storeID && b.ProductID == productID && b.Status != inventory.BatchStatusDepleted {
			total = total.Add(b.CurrentQuantity)
		}
	}
	return total, nil
}

func (r *fakeBatchRepo) Save(_ context.Context, batch *inventory.StockBatch) error {
	r.batches[batch.ID] = *batch
	return nil
}

func (r *fakeBatchRepo) SaveAll(ctx context.Context, batches []*inventory.StockBatch) error {
	for _, b := range batches {
		if err := r.Save(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

type fakeInvTxRepo struct {
	entries []inventory.InventoryTransaction
}

func newFakeInvTxRepo() *fakeInvTxRepo {
	return &fakeInvTxRepo{}
}

func (r *fakeInvTxRepo) Append(_ context.Context, tx *inventory.InventoryTransaction) error {
	r.entries = append(r.entries, *tx)
	return nil
}

func (r *fakeInvTxRepo) AppendAll(ctx context.Context, txs []*inventory.InventoryTransaction) error {
	for _, tx := range txs {
		if err := r.Append(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeInvTxRepo) FindBySource(_ context.Context, sourceType inventory.SourceType, sourceID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var out []inventory.InventoryTransaction
	for _, e := range r.entries {
		if e.SourceType == sourceType && e.SourceID == sourceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeInvTxRepo) FindByBatch(_ context.Context, batchID uuid.UUID, _ shared.Filter) ([]inventory.InventoryTransaction, error) {
	var out []inventory.InventoryTransaction
	for _, e := range r.entries {
		if e.BatchID == batchID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeInvTxRepo) FindByProduct(_ context.Context, storeID, productID uuid.UUID, _ shared.Filter) ([]inventory.InventoryTransaction, int64, error) {
	var out []inventory.InventoryTransaction
	for _, e := range r.entries {
		if e.StoreID == storeID && e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (r *fakeProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindBySKU(_ context.Context, storeID uuid.UUID, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.StoreID == storeID && p.SKU == sku {
			copied := p
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		p, ok := r.products[id]
		if ok && p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindBelowThreshold(_ context.Context, storeID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		if p.StoreID == storeID && p.MinThreshold.IsPositive() && p.Quantity.LessThanOrEqual(p.MinThreshold) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) SaveWithVersion(_ context.Context, product *catalog.Product) error {
	current, ok := r.products[product.ID]
	if ok && current.Version != product.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.products[product.ID] = *product
	return nil
}

// NoOpTransactionScope runs the function without a real transaction,
// exposing the in-memory repositories directly.
type NoOpTransactionScope struct {
	batchRepo   inventory.StockBatchRepository
	invTxRepo   inventory.InventoryTransactionRepository
	productRepo catalog.ProductRepository
}

func NewNoOpTransactionScope(
	batchRepo inventory.StockBatchRepository,
	invTxRepo inventory.InventoryTransactionRepository,
	productRepo catalog.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		batchRepo:   batchRepo,
		invTxRepo:   invTxRepo,
		productRepo: productRepo,
	}
}

func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) BatchRepo() inventory.StockBatchRepository {
	return s.batchRepo
}

func (s *NoOpTransactionScope) InventoryTxRepo() inventory.InventoryTransactionRepository {
	return s.invTxRepo
}

func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
