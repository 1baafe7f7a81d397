package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of inventory transaction
type TransactionType string

const (
	// TransactionTypePurchase records stock received from a purchase line
	TransactionTypePurchase TransactionType = "purchase"
	// TransactionTypeSale records stock consumed by a sale line
	TransactionTypeSale TransactionType = "sale"
	// TransactionTypeAdjustment records a manual stock correction
	TransactionTypeAdjustment TransactionType = "adjustment"
	// TransactionTypeReturn records a return to supplier (outflow) or from customer (inflow)
	TransactionTypeReturn TransactionType = "return"
	// TransactionTypeReversal is a compensating entry that undoes a prior
	// transaction when its source document is edited or deleted
	TransactionTypeReversal TransactionType = "reversal"
)

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeSale, TransactionTypeAdjustment,
		TransactionTypeReturn, TransactionTypeReversal:
		return true
	}
	return false
}

// String returns the string representation
func (t TransactionType) String() string {
	return string(t)
}

// SourceType represents the source document type for a transaction
type SourceType string

const (
	SourceTypePurchase   SourceType = "Purchase"
	SourceTypeSale       SourceType = "Sale"
	SourceTypeAdjustment SourceType = "Adjustment"
)

// IsValid returns true if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypePurchase, SourceTypeSale, SourceTypeAdjustment:
		return true
	}
	return false
}

// InventoryTransaction is an immutable, append-only record of one stock
// movement against one batch. Quantity is signed: positive for inflow
// (purchase receipt, customer return), negative for outflow (sale,
// supplier return). Corrections are made with compensating reversal
// entries, never by deleting or mutating existing rows.
type InventoryTransaction struct {
	shared.BaseEntity
	StoreID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_store_time,priority:1"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SourceType      SourceType      `gorm:"type:varchar(20);not null;index:idx_inv_tx_source,priority:1"`
	SourceID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_source,priority:2"`
	// ReversedTransactionID links a reversal entry to the entry it undoes
	ReversedTransactionID *uuid.UUID `gorm:"type:uuid;index"`
	PerformedBy           uuid.UUID  `gorm:"type:uuid;not null"`
	CustomerID            *uuid.UUID `gorm:"type:uuid;index"`
	Reason                string     `gorm:"type:varchar(255)"`
	TransactionDate       time.Time  `gorm:"not null;index:idx_inv_tx_store_time,priority:2"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates a new inventory transaction
func NewInventoryTransaction(
	storeID, productID, batchID uuid.UUID,
	txType TransactionType,
	quantity decimal.Decimal,
	sourceType SourceType,
	sourceID uuid.UUID,
	performedBy uuid.UUID,
) (*InventoryTransaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid inventory transaction type")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source document type")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transaction quantity cannot be zero")
	}
	if sourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOURCE_ID", "Source document ID cannot be empty")
	}

	return &InventoryTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		StoreID:         storeID,
		ProductID:       productID,
		BatchID:         batchID,
		TransactionType: txType,
		Quantity:        quantity,
		SourceType:      sourceType,
		SourceID:        sourceID,
		PerformedBy:     performedBy,
		TransactionDate: time.Now(),
	}, nil
}

// NewReversal creates the compensating entry for this transaction.
// The reversal carries the negated quantity and references the original,
// so the pair sums to zero for the batch.
func (t *InventoryTransaction) NewReversal(performedBy uuid.UUID) *InventoryTransaction {
	originalID := t.ID
	return &InventoryTransaction{
		BaseEntity:            shared.NewBaseEntity(),
		StoreID:               t.StoreID,
		ProductID:             t.ProductID,
		BatchID:               t.BatchID,
		TransactionType:       TransactionTypeReversal,
		Quantity:              t.Quantity.Neg(),
		SourceType:            t.SourceType,
		SourceID:              t.SourceID,
		ReversedTransactionID: &originalID,
		PerformedBy:           performedBy,
		TransactionDate:       time.Now(),
	}
}

// WithCustomer attaches the customer involved in the movement
func (t *InventoryTransaction) WithCustomer(customerID uuid.UUID) *InventoryTransaction {
	t.CustomerID = &customerID
	return t
}

// WithReason attaches a free-form reason
func (t *InventoryTransaction) WithReason(reason string) *InventoryTransaction {
	t.Reason = reason
	return t
}

// IsInflow returns true if the entry adds stock
func (t *InventoryTransaction) IsInflow() bool {
	return t.Quantity.IsPositive()
}

// IsReversal returns true if the entry compensates another entry
func (t *InventoryTransaction) IsReversal() bool {
	return t.TransactionType == TransactionTypeReversal
}
