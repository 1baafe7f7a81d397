package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/retailcore/backend/internal/application/inventory"
	apppartner "github.com/retailcore/backend/internal/application/partner"
	apptrade "github.com/retailcore/backend/internal/application/trade"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/trade"
)

// GormTransactionScope implements the transaction scopes of the
// inventory, partner and trade application layers on a single GORM
// transaction. One struct serves all three because a trade document
// spans all of their repositories.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Inventory adapts the scope to the inventory application layer
func (s *GormTransactionScope) Inventory() appinventory.TransactionScope {
	return &gormInventoryScope{db: s.db}
}

// Partner adapts the scope to the partner application layer
func (s *GormTransactionScope) Partner() apppartner.TransactionScope {
	return &gormPartnerScope{db: s.db}
}

type gormInventoryScope struct {
	db *gorm.DB
}

func (s *gormInventoryScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormPartnerScope struct {
	db *gorm.DB
}

func (s *gormPartnerScope) Execute(ctx context.Context, fn func(repos apppartner.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories exposes every repository bound to the
// current transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// BatchRepo returns the stock batch repository scoped to the current transaction
func (r *gormTransactionalRepositories) BatchRepo() inventory.StockBatchRepository {
	return NewGormStockBatchRepository(r.tx)
}

// InventoryTxRepo returns the inventory transaction repository scoped to the current transaction
func (r *gormTransactionalRepositories) InventoryTxRepo() inventory.InventoryTransactionRepository {
	return NewGormInventoryTransactionRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// CustomerRepo returns the customer repository scoped to the current transaction
func (r *gormTransactionalRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// SupplierRepo returns the supplier repository scoped to the current transaction
func (r *gormTransactionalRepositories) SupplierRepo() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

// CreditTxRepo returns the credit transaction repository scoped to the current transaction
func (r *gormTransactionalRepositories) CreditTxRepo() partner.CreditTransactionRepository {
	return NewGormCreditTransactionRepository(r.tx)
}

// PurchaseRepo returns the purchase repository scoped to the current transaction
func (r *gormTransactionalRepositories) PurchaseRepo() trade.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

// SaleRepo returns the sale repository scoped to the current transaction
func (r *gormTransactionalRepositories) SaleRepo() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

// QuotationRepo returns the quotation repository scoped to the current transaction
func (r *gormTransactionalRepositories) QuotationRepo() trade.QuotationRepository {
	return NewGormQuotationRepository(r.tx)
}

var (
	_ apptrade.TransactionScope          = (*GormTransactionScope)(nil)
	_ apptrade.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ appinventory.TransactionScope      = (*gormInventoryScope)(nil)
	_ apppartner.TransactionScope        = (*gormPartnerScope)(nil)
)
