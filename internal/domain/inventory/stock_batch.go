package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchStatus represents the lifecycle status of a stock batch
type BatchStatus string

const (
	BatchStatusActive   BatchStatus = "active"
	BatchStatusDepleted BatchStatus = "depleted"
	BatchStatusExpired  BatchStatus = "expired"
)

// StockBatch is a discrete lot of stock received from one purchase line,
// tracked independently for expiry and quantity.
//
// Invariants maintained by the entity:
//   - CurrentQuantity >= 0 and CurrentQuantity <= InitialQuantity
//   - Status == depleted exactly when CurrentQuantity == 0
//   - BatchNumber is unique per store+product among non-depleted batches;
//     a depleted lot frees its number for a later receipt
type StockBatch struct {
	shared.BaseEntity
	StoreID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batch_store_product_number,priority:1"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batch_store_product_number,priority:2"`
	PurchaseID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber      string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_batch_store_product_number,priority:3,where:status <> 'depleted'"`
	ExpiryDate       *time.Time
	ManufacturedDate *time.Time
	InitialQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CurrentQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PurchasePrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status           BatchStatus     `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (StockBatch) TableName() string {
	return "stock_batches"
}

// NewStockBatch creates a new batch from a received purchase line.
// Initial and current quantity start equal; each purchase line always
// creates a fresh batch, never merging with an existing one.
func NewStockBatch(
	storeID, productID, purchaseID uuid.UUID,
	batchNumber string,
	quantity, purchasePrice decimal.Decimal,
	manufacturedDate, expiryDate *time.Time,
) (*StockBatch, error) {
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if purchasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}

	return &StockBatch{
		BaseEntity:       shared.NewBaseEntity(),
		StoreID:          storeID,
		ProductID:        productID,
		PurchaseID:       purchaseID,
		BatchNumber:      batchNumber,
		ExpiryDate:       expiryDate,
		ManufacturedDate: manufacturedDate,
		InitialQuantity:  quantity,
		CurrentQuantity:  quantity,
		PurchasePrice:    purchasePrice,
		Status:           BatchStatusActive,
	}, nil
}

// Deduct reduces the batch quantity by exactly the given amount.
// Callers compute the amount through Allocate first, so over-deduction
// is a programming error surfaced as InsufficientBatchQuantity.
func (b *StockBatch) Deduct(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction must be positive")
	}
	if quantity.GreaterThan(b.CurrentQuantity) {
		return shared.NewDomainError("INSUFFICIENT_BATCH_QUANTITY",
			fmt.Sprintf("Batch %s holds %s, requested %s", b.BatchNumber, b.CurrentQuantity, quantity))
	}

	b.CurrentQuantity = b.CurrentQuantity.Sub(quantity)
	if b.CurrentQuantity.IsZero() {
		b.Status = BatchStatusDepleted
	}
	b.Touch()
	return nil
}

// Add increases the batch quantity, reactivating a depleted batch.
// The ceiling is the initial quantity; adding back more than was taken
// out of the batch is rejected.
func (b *StockBatch) Add(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Addition must be positive")
	}
	newQuantity := b.CurrentQuantity.Add(quantity)
	if newQuantity.GreaterThan(b.InitialQuantity) {
		return shared.NewDomainError("BATCH_OVERFLOW",
			fmt.Sprintf("Batch %s cannot exceed its initial quantity of %s", b.BatchNumber, b.InitialQuantity))
	}

	b.CurrentQuantity = newQuantity
	if b.Status == BatchStatusDepleted {
		b.Status = BatchStatusActive
	}
	b.Touch()
	return nil
}

// AddUncapped increases the batch quantity without the initial-quantity
// ceiling. Customer returns land in the first batch found for the product
// regardless of origin, so the receiving batch may legitimately exceed
// its own initial quantity.
func (b *StockBatch) AddUncapped(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Addition must be positive")
	}
	b.CurrentQuantity = b.CurrentQuantity.Add(quantity)
	if b.Status == BatchStatusDepleted {
		b.Status = BatchStatusActive
	}
	b.Touch()
	return nil
}

// MarkExpired transitions an active batch past its expiry date
func (b *StockBatch) MarkExpired() {
	if b.Status == BatchStatusActive {
		b.Status = BatchStatusExpired
		b.Touch()
	}
}

// IsExpired returns true if the batch's expiry date has passed
func (b *StockBatch) IsExpired() bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(time.Now())
}

// DaysUntilExpiry returns the days until expiry, -1 if no expiry date
func (b *StockBatch) DaysUntilExpiry() int {
	if b.ExpiryDate == nil {
		return -1
	}
	return int(time.Until(*b.ExpiryDate).Hours() / 24)
}

// HasStock returns true if the batch has remaining quantity
func (b *StockBatch) HasStock() bool {
	return b.CurrentQuantity.IsPositive()
}

// IsConsumable returns true if the batch can be allocated against
func (b *StockBatch) IsConsumable() bool {
	return b.Status == BatchStatusActive && b.HasStock()
}

// Untouched reports whether the batch has never been consumed against.
// Used to guard item edits on purchases whose stock was already sold.
func (b *StockBatch) Untouched() bool {
	return b.CurrentQuantity.Equal(b.InitialQuantity)
}

// ConsumedQuantity returns how much has been taken out of the batch
func (b *StockBatch) ConsumedQuantity() decimal.Decimal {
	return b.InitialQuantity.Sub(b.CurrentQuantity)
}
