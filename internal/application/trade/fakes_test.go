package trade

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// In-memory repositories for coordinator tests. Values are copied on
// every read and write so the tests observe persisted state.

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

type fakeCustomerRepo struct {
	customers map[uuid.UUID]partner.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]partner.Customer)}
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := c
	return &copied, nil
}

func (r *fakeCustomerRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Customer, error) {
	var out []partner.Customer
	for _, c := range r.customers {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCustomerRepo) Save(_ context.Context, customer *partner.Customer) error {
	r.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.customers)), nil
}

func (r *fakeCustomerRepo) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*partner.Customer, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.BelongsToStore(storeID) {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *fakeCustomerRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) ([]partner.Customer, error) {
	var out []partner.Customer
	for _, c := range r.customers {
		if c.BelongsToStore(storeID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) FindByCode(_ context.Context, storeID uuid.UUID, code string) (*partner.Customer, error) {
	for _, c := range r.customers {
		if c.BelongsToStore(storeID) && c.Code == code {
			copied := c
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) SaveWithVersion(_ context.Context, customer *partner.Customer) error {
	current, ok := r.customers[customer.ID]
	if ok && current.Version != customer.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.customers[customer.ID] = *customer
	return nil
}

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]partner.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: make(map[uuid.UUID]partner.Supplier)}
}

func (r *fakeSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := s
	return &copied, nil
}

func (r *fakeSupplierRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Supplier, error) {
	var out []partner.Supplier
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSupplierRepo) Save(_ context.Context, supplier *partner.Supplier) error {
	r.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *fakeSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

func (r *fakeSupplierRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.suppliers)), nil
}

func (r *fakeSupplierRepo) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*partner.Supplier, error) {
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.BelongsToStore(storeID) {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *fakeSupplierRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) ([]partner.Supplier, error) {
	var out []partner.Supplier
	for _, s := range r.suppliers {
		if s.BelongsToStore(storeID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSupplierRepo) FindByCode(_ context.Context, storeID uuid.UUID, code string) (*partner.Supplier, error) {
	for _, s := range r.suppliers {
		if s.BelongsToStore(storeID) && s.Code == code {
			copied := s
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSupplierRepo) SaveWithVersion(_ context.Context, supplier *partner.Supplier) error {
	current, ok := r.suppliers[supplier.ID]
	if ok && current.Version != supplier.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.suppliers[supplier.ID] = *supplier
	return nil
}

type fakeCreditTxRepo struct {
	entries []partner.CreditTransaction
}

func newFakeCreditTxRepo() *fakeCreditTxRepo {
	return &fakeCreditTxRepo{}
}

func (r *fakeCreditTxRepo) Append(_ context.Context, tx *partner.CreditTransaction) error {
	r.entries = append(r.entries, *tx)
	return nil
}

func (r *fakeCreditTxRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.CreditTransaction, error) {
	for _, e := range r.entries {
		if e.ID == id {
			copied := e
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCreditTxRepo) FindByOwner(_ context.Context, ownerType partner.OwnerType, ownerID uuid.UUID, _ shared.Filter) ([]partner.CreditTransaction, int64, error) {
	var out []partner.CreditTransaction
	for _, e := range r.entries {
		if e.OwnerType == ownerType && e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeCreditTxRepo) FindBySource(_ context.Context, sourceType partner.CreditSourceType, sourceID uuid.UUID) ([]partner.CreditTransaction, error) {
	var out []partner.CreditTransaction
	for _, e := range r.entries {
		if e.SourceType == sourceType && e.SourceID != nil && *e.SourceID == sourceID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakePurchaseRepo struct {
	purchases map[uuid.UUID]trade.Purchase
	seq       int
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{purchases: make(map[uuid.UUID]trade.Purchase)}
}

func (r *fakePurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (r *fakePurchaseRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.Purchase, error) {
	var out []trade.Purchase
	for _, p := range r.purchases {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePurchaseRepo) Save(_ context.Context, purchase *trade.Purchase) error {
	r.purchases[purchase.ID] = *purchase
	return nil
}

func (r *fakePurchaseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.purchases, id)
	return nil
}

func (r *fakePurchaseRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.purchases)), nil
}

func (r *fakePurchaseRepo) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*trade.Purchase, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.BelongsToStore(storeID) {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakePurchaseRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) ([]trade.Purchase, error) {
	var out []trade.Purchase
	for _, p := range r.purchases {
		if p.BelongsToStore(storeID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePurchaseRepo) FindByNumber(_ context.Context, storeID uuid.UUID, number string) (*trade.Purchase, error) {
	for _, p := range r.purchases {
		if p.BelongsToStore(storeID) && p.Number == number {
			copied := p
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePurchaseRepo) GenerateNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("PO-%04d", r.seq), nil
}

type fakeSaleRepo struct {
	sales map[uuid.UUID]trade.Sale
	seq   int
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]trade.Sale)}
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := s
	return &copied, nil
}

func (r *fakeSaleRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.Sale, error) {
	var out []trade.Sale
	for _, s := range r.sales {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSaleRepo) Save(_ context.Context, sale *trade.Sale) error {
	r.sales[sale.ID] = *sale
	return nil
}

func (r *fakeSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.sales, id)
	return nil
}

func (r *fakeSaleRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.sales)), nil
}

func (r *fakeSaleRepo) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*trade.Sale, error) {
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.BelongsToStore(storeID) {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *fakeSaleRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) ([]trade.Sale, error) {
	var out []trade.Sale
	for _, s := range r.sales {
		if s.BelongsToStore(storeID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) FindByNumber(_ context.Context, storeID uuid.UUID, number string) (*trade.Sale, error) {
	for _, s := range r.sales {
		if s.BelongsToStore(storeID) && s.Number == number {
			copied := s
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSaleRepo) GenerateNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("SO-%04d", r.seq), nil
}

type fakeQuotationRepo struct {
	quotations map[uuid.UUID]trade.Quotation
	seq        int
}

func newFakeQuotationRepo() *fakeQuotationRepo {
	return &fakeQuotationRepo{quotations: make(map[uuid.UUID]trade.Quotation)}
}

func (r *fakeQuotationRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Quotation, error) {
	q, ok := r.quotations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := q
	return &copied, nil
}

func (r *fakeQuotationRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.Quotation, error) {
	var out []trade.Quotation
	for _, q := range r.quotations {
		out = append(out, q)
	}
	return out, nil
}

func (r *fakeQuotationRepo) Save(_ context.Context, quotation *trade.Quotation) error {
	r.quotations[quotation.ID] = *quotation
	return nil
}

func (r *fakeQuotationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.quotations, id)
	return nil
}

func (r *fakeQuotationRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.quotations)), nil
}

func (r *fakeQuotationRepo) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*trade.Quotation, error) {
	q, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.BelongsToStore(storeID) {
		return nil, shared.ErrNotFound
	}
	return q, nil
}

func (r *fakeQuotationRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) ([]trade.Quotation, error) {
	var out []trade.Quotation
	for _, q := range r.quotations {
		if q.BelongsToStore(storeID) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuotationRepo) FindByNumber(_ context.Context, storeID uuid.UUID, number string) (*trade.Quotation, error) {
	for _, q := range r.quotations {
		if q.BelongsToStore(storeID) && q.Number == number {
			copied := q
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeQuotationRepo) GenerateNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("QT-%04d", r.seq), nil
}

// NoOpTransactionScope runs the function without a real transaction,
// exposing the in-memory repositories directly.
type NoOpTransactionScope struct {
	batchRepo     inventory.StockBatchRepository
	invTxRepo     inventory.InventoryTransactionRepository
	productRepo   catalog.ProductRepository
	customerRepo  partner.CustomerRepository
	supplierRepo  partner.SupplierRepository
	creditTxRepo  partner.CreditTransactionRepository
	purchaseRepo  trade.PurchaseRepository
	saleRepo      trade.SaleRepository
	quotationRepo trade.QuotationRepository
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

func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository {
	return s.customerRepo
}

func (s *NoOpTransactionScope) SupplierRepo() partner.SupplierRepository {
	return s.supplierRepo
}

func (s *NoOpTransactionScope) CreditTxRepo() partner.CreditTransactionRepository {
	return s.creditTxRepo
}

func (s *NoOpTransactionScope) PurchaseRepo() trade.PurchaseRepository {
	return s.purchaseRepo
}

func (s *NoOpTransactionScope) SaleRepo() trade.SaleRepository {
	return s.saleRepo
}

func (s *NoOpTransactionScope) QuotationRepo() trade.QuotationRepository {
	return s.quotationRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
