package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreditTransactionType represents the type of credit ledger entry
type CreditTransactionType string

const (
	CreditTxTypeSale            CreditTransactionType = "sale"
	CreditTxTypePurchase        CreditTransactionType = "purchase"
	CreditTxTypeReturn          CreditTransactionType = "return"
	CreditTxTypeInitialCredit   CreditTransactionType = "initial-credit"
	CreditTxTypePayment         CreditTransactionType = "payment"
	CreditTxTypeBalanceAdded    CreditTransactionType = "balance-added"
	CreditTxTypeBalanceExcluded CreditTransactionType = "balance-excluded"
	// CreditTxTypeReversal is a compensating entry appended when a source
	// document is edited or deleted
	CreditTxTypeReversal CreditTransactionType = "reversal"
)

// IsValid returns true if the transaction type is valid
func (t CreditTransactionType) IsValid() bool {
	switch t {
	case CreditTxTypeSale, CreditTxTypePurchase, CreditTxTypeReturn,
		CreditTxTypeInitialCredit, CreditTxTypePayment,
		CreditTxTypeBalanceAdded, CreditTxTypeBalanceExcluded,
		CreditTxTypeReversal:
		return true
	}
	return false
}

// OwnerType identifies which kind of counterparty an entry belongs to
type OwnerType string

const (
	OwnerTypeCustomer OwnerType = "customer"
	OwnerTypeSupplier OwnerType = "supplier"
)

// CreditSourceType represents the source document type
type CreditSourceType string

const (
	CreditSourceSale     CreditSourceType = "Sale"
	CreditSourcePurchase CreditSourceType = "Purchase"
	CreditSourceManual   CreditSourceType = "Manual"
	CreditSourcePayment  CreditSourceType = "Payment"
)

// CreditTransaction is an immutable, append-only record of one credit
// account movement. The running-balance law
//
//	RemainingBalance = PreviousBalance + Amount
//
// is enforced by construction; a row violating it cannot exist.
type CreditTransaction struct {
	shared.BaseEntity
	StoreID          uuid.UUID             `gorm:"type:uuid;not null;index:idx_credit_tx_store_time,priority:1"`
	OwnerType        OwnerType             `gorm:"type:varchar(10);not null;index:idx_credit_tx_owner,priority:1"`
	OwnerID          uuid.UUID             `gorm:"type:uuid;not null;index:idx_credit_tx_owner,priority:2"`
	TransactionType  CreditTransactionType `gorm:"type:varchar(20);not null;index"`
	PaymentType      PaymentType           `gorm:"type:varchar(10);not null"`
	PreviousBalance  decimal.Decimal       `gorm:"type:decimal(18,4);not null"` // net balance before
	Amount           decimal.Decimal       `gorm:"type:decimal(18,4);not null"` // signed net-balance delta
	CashAmount       decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	CreditAmount     decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	RemainingBalance decimal.Decimal       `gorm:"type:decimal(18,4);not null"` // net balance after
	SourceType       CreditSourceType      `gorm:"type:varchar(20);not null;index:idx_credit_tx_source,priority:1"`
	SourceID         *uuid.UUID            `gorm:"type:uuid;index:idx_credit_tx_source,priority:2"`
	// ReversedTransactionID links a reversal entry to the entry it undoes
	ReversedTransactionID *uuid.UUID `gorm:"type:uuid;index"`
	PerformedBy           uuid.UUID  `gorm:"type:uuid;not null"`
	Note                  string     `gorm:"type:varchar(255)"`
	TransactionDate       time.Time  `gorm:"not null;index:idx_credit_tx_store_time,priority:2"`
}

// TableName returns the table name for GORM
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

// NewCreditTransaction records a movement against an account. The caller
// passes the net balance observed before the write and the movement that
// was applied; the remaining balance is derived, never supplied.
func NewCreditTransaction(
	storeID uuid.UUID,
	ownerType OwnerType,
	ownerID uuid.UUID,
	txType CreditTransactionType,
	paymentType PaymentType,
	previousBalance decimal.Decimal,
	movement AccountMovement,
	sourceType CreditSourceType,
	sourceID *uuid.UUID,
	performedBy uuid.UUID,
) (*CreditTransaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid credit transaction type")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Transaction owner cannot be empty")
	}

	amount := movement.SignedAmount()

	return &CreditTransaction{
		BaseEntity:       shared.NewBaseEntity(),
		StoreID:          storeID,
		OwnerType:        ownerType,
		OwnerID:          ownerID,
		TransactionType:  txType,
		PaymentType:      paymentType,
		PreviousBalance:  previousBalance,
		Amount:           amount,
		CashAmount:       movement.CashAmount,
		CreditAmount:     movement.CreditAmount,
		RemainingBalance: previousBalance.Add(amount),
		SourceType:       sourceType,
		SourceID:         sourceID,
		PerformedBy:      performedBy,
		TransactionDate:  time.Now(),
	}, nil
}

// WithNote attaches a free-form note
func (t *CreditTransaction) WithNote(note string) *CreditTransaction {
	t.Note = note
	return t
}

// WithReversedTransaction links this entry to the entry it compensates
func (t *CreditTransaction) WithReversedTransaction(originalID uuid.UUID) *CreditTransaction {
	t.ReversedTransactionID = &originalID
	return t
}

// SatisfiesBalanceLaw verifies the running-balance invariant. It holds by
// construction; the check exists for audit tooling reading raw rows.
func (t *CreditTransaction) SatisfiesBalanceLaw() bool {
	return t.RemainingBalance.Equal(t.PreviousBalance.Add(t.Amount))
}
