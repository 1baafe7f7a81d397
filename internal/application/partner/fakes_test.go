package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
)

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

// NoOpTransactionScope runs the function without a real transaction,
// exposing the in-memory repositories directly.
type NoOpTransactionScope struct {
	customerRepo partner.CustomerRepository
	supplierRepo partner.SupplierRepository
	creditTxRepo partner.CreditTransactionRepository
}

func NewNoOpTransactionScope(
	customerRepo partner.CustomerRepository,
	supplierRepo partner.SupplierRepository,
	creditTxRepo partner.CreditTransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		creditTxRepo: creditTxRepo,
	}
}

func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
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

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
