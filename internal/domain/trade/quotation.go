package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QuotationStatus represents the lifecycle of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "draft"
	QuotationStatusSent      QuotationStatus = "sent"
	QuotationStatusAccepted  QuotationStatus = "accepted"
	QuotationStatusConverted QuotationStatus = "converted"
	QuotationStatusRejected  QuotationStatus = "rejected"
)

// QuotationItem is one quoted line
type QuotationItem struct {
	shared.BaseEntity
	QuotationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (QuotationItem) TableName() string {
	return "quotation_items"
}

// Quotation is a priced offer to a customer. It has no inventory or
// account effect until converted into a sale.
type Quotation struct {
	shared.StoreAggregateRoot
	Number     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_quotation_store_number,priority:2"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index"`
	Items      []QuotationItem `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
	GrandTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status     QuotationStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	ValidUntil *time.Time
	// ConvertedSaleID links an accepted quotation to the sale it became
	ConvertedSaleID *uuid.UUID `gorm:"type:uuid"`
	Notes           string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Quotation) TableName() string {
	return "quotations"
}

// NewQuotation creates a draft quotation
func NewQuotation(storeID uuid.UUID, number string, customerID *uuid.UUID) (*Quotation, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Quotation number cannot be empty")
	}
	return &Quotation{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Number:             number,
		CustomerID:         customerID,
		GrandTotal:         decimal.Zero,
		Status:             QuotationStatusDraft,
	}, nil
}

// AddItem appends a quoted line and recomputes the grand total
func (q *Quotation) AddItem(productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	q.Items = append(q.Items, QuotationItem{
		BaseEntity:  shared.NewBaseEntity(),
		QuotationID: q.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    quantity.Mul(unitPrice),
	})
	q.recomputeTotal()
	return nil
}

func (q *Quotation) recomputeTotal() {
	total := decimal.Zero
	for i := range q.Items {
		total = total.Add(q.Items[i].Subtotal)
	}
	q.GrandTotal = total
}

// MarkSent transitions draft -> sent
func (q *Quotation) MarkSent() error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft quotations can be sent")
	}
	q.Status = QuotationStatusSent
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	return nil
}

// Accept transitions sent -> accepted
func (q *Quotation) Accept() error {
	if q.Status != QuotationStatusSent && q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Quotation cannot be accepted in its current state")
	}
	q.Status = QuotationStatusAccepted
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	return nil
}

// Reject marks a quotation rejected
func (q *Quotation) Reject() error {
	if q.Status == QuotationStatusConverted {
		return shared.NewDomainError("INVALID_STATE", "Converted quotations cannot be rejected")
	}
	q.Status = QuotationStatusRejected
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	return nil
}

// MarkConverted records the sale an accepted quotation became
func (q *Quotation) MarkConverted(saleID uuid.UUID) error {
	if q.Status != QuotationStatusAccepted {
		return shared.NewDomainError("INVALID_STATE", "Only accepted quotations can be converted")
	}
	q.Status = QuotationStatusConverted
	q.ConvertedSaleID = &saleID
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	return nil
}

// IsExpired returns true if the validity window has passed
func (q *Quotation) IsExpired() bool {
	return q.ValidUntil != nil && q.ValidUntil.Before(time.Now())
}
