package partner

import (
	"context"

	"github.com/retailcore/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to partner repositories
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories the
// account ledger mutates. All repositories share the same underlying
// transaction, so the counterparty version check and the ledger append
// commit or roll back together.
type TransactionalRepositories interface {
	CustomerRepo() partner.CustomerRepository
	SupplierRepo() partner.SupplierRepository
	CreditTxRepo() partner.CreditTransactionRepository
}

