package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountLedger is the append-only credit account engine. Every write
// applies a precomputed AccountMovement to the counterparty's embedded
// account and records a ledger entry whose running balance is derived
// inside the same transaction. The trade coordinator calls it inside
// its own transaction scope.
type AccountLedger struct{}

// NewAccountLedger creates an account ledger engine
func NewAccountLedger() *AccountLedger {
	return &AccountLedger{}
}

// ApplyParams describes one account movement to record
type ApplyParams struct {
	StoreID     uuid.UUID
	OwnerID     uuid.UUID
	Movement    partner.AccountMovement
	TxType      partner.CreditTransactionType
	PaymentType partner.PaymentType
	SourceType  partner.CreditSourceType
	SourceID    *uuid.UUID
	PerformedBy uuid.UUID
	Note        string
}

// ApplyToCustomer applies a movement to a customer's account and appends
// the ledger entry. The customer is saved with a version check so a
// concurrent movement against the same account fails fast instead of
// producing a stale running balance.
func (l *AccountLedger) ApplyToCustomer(ctx context.Context, repos TransactionalRepositories, p ApplyParams) (*partner.Customer, *partner.CreditTransaction, error) {
	customer, err := repos.CustomerRepo().FindByIDForStore(ctx, p.StoreID, p.OwnerID)
	if err != nil {
		return nil, nil, err
	}

	previous := customer.Account.NetBalance()
	if err := customer.ApplyMovement(p.Movement); err != nil {
		return nil, nil, err
	}
	if err := repos.CustomerRepo().SaveWithVersion(ctx, customer); err != nil {
		return nil, nil, err
	}

	entry, err := l.appendEntry(ctx, repos, partner.OwnerTypeCustomer, previous, p)
	if err != nil {
		return nil, nil, err
	}
	return customer, entry, nil
}

// ApplyToSupplier applies a movement to a supplier's account and appends
// the ledger entry
func (l *AccountLedger) ApplyToSupplier(ctx context.Context, repos TransactionalRepositories, p ApplyParams) (*partner.Supplier, *partner.CreditTransaction, error) {
	supplier, err := repos.SupplierRepo().FindByIDForStore(ctx, p.StoreID, p.OwnerID)
	if err != nil {
		return nil, nil, err
	}

	previous := supplier.Account.NetBalance()
	if err := supplier.ApplyMovement(p.Movement); err != nil {
		return nil, nil, err
	}
	if err := repos.SupplierRepo().SaveWithVersion(ctx, supplier); err != nil {
		return nil, nil, err
	}

	entry, err := l.appendEntry(ctx, repos, partner.OwnerTypeSupplier, previous, p)
	if err != nil {
		return nil, nil, err
	}
	return supplier, entry, nil
}

func (l *AccountLedger) appendEntry(ctx context.Context, repos TransactionalRepositories, ownerType partner.OwnerType, previous decimal.Decimal, p ApplyParams) (*partner.CreditTransaction, error) {
	entry, err := partner.NewCreditTransaction(
		p.StoreID, ownerType, p.OwnerID,
		p.TxType, p.PaymentType,
		previous, p.Movement,
		p.SourceType, p.SourceID, p.PerformedBy,
	)
	if err != nil {
		return nil, err
	}
	if p.Note != "" {
		entry.WithNote(p.Note)
	}
	if err := repos.CreditTxRepo().Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("appending credit transaction: %w", err)
	}
	return entry, nil
}

// Reverse appends compensating entries for every unreversed entry of a
// source document and applies the opposite account effect. The
// compensating movement is recomputed against the current account state:
// giving value back pays down used credit first, taking it back drains
// the balance first, so the registers stay within their invariants while
// the net balance moves by exactly the negated amount.
func (l *AccountLedger) Reverse(ctx context.Context, repos TransactionalRepositories, sourceType partner.CreditSourceType, sourceID, performedBy uuid.UUID) error {
	entries, err := repos.CreditTxRepo().FindBySource(ctx, sourceType, sourceID)
	if err != nil {
		return fmt.Errorf("loading credit transactions: %w", err)
	}

	reversed := make(map[uuid.UUID]bool)
	for i := range entries {
		if entries[i].ReversedTransactionID != nil {
			reversed[*entries[i].ReversedTransactionID] = true
		}
	}

	for i := range entries {
		original := &entries[i]
		if original.TransactionType == partner.CreditTxTypeReversal || reversed[original.ID] {
			continue
		}
		if err := l.reverseOne(ctx, repos, original, performedBy); err != nil {
			return err
		}
	}
	return nil
}

func (l *AccountLedger) reverseOne(ctx context.Context, repos TransactionalRepositories, original *partner.CreditTransaction, performedBy uuid.UUID) error {
	var (
		apply    func(partner.AccountMovement) error
		save     func() error
		account  *partner.CreditAccount
		previous decimal.Decimal
	)

	switch original.OwnerType {
	case partner.OwnerTypeCustomer:
		customer, err := repos.CustomerRepo().FindByIDForStore(ctx, original.StoreID, original.OwnerID)
		if err != nil {
			return err
		}
		account = &customer.Account
		apply = customer.ApplyMovement
		save = func() error { return repos.CustomerRepo().SaveWithVersion(ctx, customer) }
	case partner.OwnerTypeSupplier:
		supplier, err := repos.SupplierRepo().FindByIDForStore(ctx, original.StoreID, original.OwnerID)
		if err != nil {
			return err
		}
		account = &supplier.Account
		apply = supplier.ApplyMovement
		save = func() error { return repos.SupplierRepo().SaveWithVersion(ctx, supplier) }
	default:
		return shared.NewDomainError("INVALID_OWNER_TYPE", "Unknown credit transaction owner type")
	}

	movement, err := compensatingMovement(account, original)
	if err != nil {
		return err
	}
	previous = account.NetBalance()

	if !movement.IsZero() {
		if err := apply(movement); err != nil {
			return err
		}
		if err := save(); err != nil {
			return err
		}
	}

	entry, err := partner.NewCreditTransaction(
		original.StoreID, original.OwnerType, original.OwnerID,
		partner.CreditTxTypeReversal, original.PaymentType,
		previous, movement,
		original.SourceType, original.SourceID, performedBy,
	)
	if err != nil {
		return err
	}
	entry.WithReversedTransaction(original.ID)
	if err := repos.CreditTxRepo().Append(ctx, entry); err != nil {
		return fmt.Errorf("appending reversal: %w", err)
	}
	return nil
}

// compensatingMovement derives the movement that moves the net balance by
// the negation of the original entry's amount, split against the current
// register state.
func compensatingMovement(account *partner.CreditAccount, original *partner.CreditTransaction) (partner.AccountMovement, error) {
	target := original.Amount.Neg()

	movement := partner.AccountMovement{
		CashAmount:   original.CashAmount.Neg(),
		CreditAmount: original.CreditAmount.Neg(),
	}
	if target.IsZero() {
		return movement, nil
	}

	var computed partner.AccountMovement
	var err error
	if target.IsPositive() {
		computed, err = partner.ComputeManualAdjustment(account, partner.AdjustmentAdd, target)
	} else {
		computed, err = partner.ComputeManualAdjustment(account, partner.AdjustmentExclude, target.Neg())
	}
	if err != nil {
		return partner.AccountMovement{}, err
	}

	movement.BalanceDelta = computed.BalanceDelta
	movement.UsedDelta = computed.UsedDelta
	movement.BalanceUsed = computed.BalanceUsed
	movement.CreditUsed = computed.CreditUsed
	return movement, nil
}
