package trade

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleItem is one sold line of a sale
type SaleItem struct {
	shared.BaseEntity
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// Sale is the header document for stock sold to (or returned from) a
// customer. It is created transactionally together with its inventory
// transactions and credit transaction.
type Sale struct {
	shared.StoreAggregateRoot
	Number      string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_sale_store_number,priority:2"`
	CustomerID  *uuid.UUID          `gorm:"type:uuid;index"`
	Kind        DocumentKind        `gorm:"type:varchar(10);not null;default:'normal'"`
	PaymentType partner.PaymentType `gorm:"type:varchar(10);not null;default:'cash'"`
	Items       []SaleItem          `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	GrandTotal  decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Snapshot    AccountSnapshot     `gorm:"embedded;embeddedPrefix:account_"`
	Status      DocumentStatus      `gorm:"type:varchar(20);not null;default:'completed';index"`
	Notes       string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a sale header
func NewSale(storeID uuid.UUID, number string, customerID *uuid.UUID, kind DocumentKind, paymentType partner.PaymentType) (*Sale, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Sale number cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Invalid document kind")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Invalid payment type")
	}

	return &Sale{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Number:             number,
		CustomerID:         customerID,
		Kind:               kind,
		PaymentType:        paymentType,
		GrandTotal:         decimal.Zero,
		Status:             DocumentStatusCompleted,
	}, nil
}

// AddItem appends a sold line and recomputes the grand total
func (s *Sale) AddItem(productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal) (*SaleItem, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	item := SaleItem{
		BaseEntity:  shared.NewBaseEntity(),
		SaleID:      s.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    quantity.Mul(unitPrice),
	}
	s.Items = append(s.Items, item)
	s.recomputeTotal()
	return &s.Items[len(s.Items)-1], nil
}

// ReplaceItems swaps the full item list (update path)
func (s *Sale) ReplaceItems(items []SaleItem) {
	for i := range items {
		items[i].SaleID = s.ID
	}
	s.Items = items
	s.recomputeTotal()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

func (s *Sale) recomputeTotal() {
	total := decimal.Zero
	for i := range s.Items {
		total = total.Add(s.Items[i].Subtotal)
	}
	s.GrandTotal = total
}

// SetSnapshot embeds the account movement result on the header
func (s *Sale) SetSnapshot(snapshot AccountSnapshot) {
	s.Snapshot = snapshot
	s.UpdatedAt = time.Now()
}

// Cancel marks the sale cancelled after its effects were reversed
func (s *Sale) Cancel() error {
	if s.Status == DocumentStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Sale is already cancelled")
	}
	s.Status = DocumentStatusCancelled
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// IsCancelled returns true if the sale was cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == DocumentStatusCancelled
}

// ItemsDiffer reports whether the given lines change any quantity or
// price compared to the current ones. Lines are compared as a multiset,
// so repeated lines for the same product are counted, not collapsed.
func (s *Sale) ItemsDiffer(items []SaleItem) bool {
	if len(items) != len(s.Items) {
		return true
	}
	current := sortedSaleItems(s.Items)
	proposed := sortedSaleItems(items)
	for i := range current {
		if current[i].ProductID != proposed[i].ProductID ||
			!current[i].Quantity.Equal(proposed[i].Quantity) ||
			!current[i].UnitPrice.Equal(proposed[i].UnitPrice) {
			return true
		}
	}
	return false
}

func sortedSaleItems(items []SaleItem) []SaleItem {
	out := make([]SaleItem, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ProductID != b.ProductID {
			return bytes.Compare(a.ProductID[:], b.ProductID[:]) < 0
		}
		if c := a.Quantity.Cmp(b.Quantity); c != 0 {
			return c < 0
		}
		return a.UnitPrice.Cmp(b.UnitPrice) < 0
	})
	return out
}

// ProductIDs returns the distinct products on the document
func (s *Sale) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(s.Items))
	ids := make([]uuid.UUID, 0, len(s.Items))
	for _, item := range s.Items {
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}
