package trade

import (
	"context"

	appinventory "github.com/retailcore/backend/internal/application/inventory"
	apppartner "github.com/retailcore/backend/internal/application/partner"
	"github.com/retailcore/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to every repository a
// trade document touches. A sale or purchase mutates stock batches, the
// inventory ledger, the counterparty account, the credit ledger, the
// product projection and the document itself; the scope guarantees all
// of it commits or rolls back as one unit.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories spans the inventory and partner contexts
// plus the trade documents, all bound to the same transaction.
type TransactionalRepositories interface {
	appinventory.TransactionalRepositories
	apppartner.TransactionalRepositories
	PurchaseRepo() trade.PurchaseRepository
	SaleRepo() trade.SaleRepository
	QuotationRepo() trade.QuotationRepository
}
