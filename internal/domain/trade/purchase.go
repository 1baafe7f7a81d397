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

// DocumentKind distinguishes forward documents from returns
type DocumentKind string

const (
	DocumentKindNormal DocumentKind = "normal"
	DocumentKindReturn DocumentKind = "return"
)

// IsValid returns true if the document kind is valid
func (k DocumentKind) IsValid() bool {
	return k == DocumentKindNormal || k == DocumentKindReturn
}

// DocumentStatus represents the lifecycle of a trade document
type DocumentStatus string

const (
	DocumentStatusCompleted DocumentStatus = "completed"
	DocumentStatusCancelled DocumentStatus = "cancelled"
)

// AccountSnapshot is a denormalized copy of the account movement result
// embedded in trade document headers. It is a read optimization only; the
// credit transaction it references stays the source of truth and the
// snapshot is regenerable from the ledger.
type AccountSnapshot struct {
	CreditTransactionID *uuid.UUID      `gorm:"type:uuid"`
	PaymentType         string          `gorm:"type:varchar(10)"`
	BalanceUsed         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditUsed          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CashAmount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingBalance    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditLimit         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// PurchaseItem is one received line of a purchase
type PurchaseItem struct {
	shared.BaseEntity
	PurchaseID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BatchNumber      string          `gorm:"type:varchar(50);not null"`
	ManufacturedDate *time.Time
	ExpiryDate       *time.Time
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// Purchase is the header document for stock received from (or returned
// to) a supplier. It is created transactionally together with its
// batches, inventory transactions and credit transaction.
type Purchase struct {
	shared.StoreAggregateRoot
	Number      string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_store_number,priority:2"`
	SupplierID  *uuid.UUID          `gorm:"type:uuid;index"`
	Kind        DocumentKind        `gorm:"type:varchar(10);not null;default:'normal'"`
	PaymentType partner.PaymentType `gorm:"type:varchar(10);not null;default:'cash'"`
	Items       []PurchaseItem      `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	GrandTotal  decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Snapshot    AccountSnapshot     `gorm:"embedded;embeddedPrefix:account_"`
	Status      DocumentStatus      `gorm:"type:varchar(20);not null;default:'completed';index"`
	Notes       string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchase creates a purchase header
func NewPurchase(storeID uuid.UUID, number string, supplierID *uuid.UUID, kind DocumentKind, paymentType partner.PaymentType) (*Purchase, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Purchase number cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Invalid document kind")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Invalid payment type")
	}

	return &Purchase{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Number:             number,
		SupplierID:         supplierID,
		Kind:               kind,
		PaymentType:        paymentType,
		GrandTotal:         decimal.Zero,
		Status:             DocumentStatusCompleted,
	}, nil
}

// AddItem appends a received line and recomputes the grand total
func (p *Purchase) AddItem(productID uuid.UUID, productName, batchNumber string, quantity, unitPrice decimal.Decimal, manufacturedDate, expiryDate *time.Time) (*PurchaseItem, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	item := PurchaseItem{
		BaseEntity:       shared.NewBaseEntity(),
		PurchaseID:       p.ID,
		ProductID:        productID,
		ProductName:      productName,
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		Subtotal:         quantity.Mul(unitPrice),
		BatchNumber:      batchNumber,
		ManufacturedDate: manufacturedDate,
		ExpiryDate:       expiryDate,
	}
	p.Items = append(p.Items, item)
	p.recomputeTotal()
	return &p.Items[len(p.Items)-1], nil
}

// ReplaceItems swaps the full item list (update path)
func (p *Purchase) ReplaceItems(items []PurchaseItem) {
	for i := range items {
		items[i].PurchaseID = p.ID
	}
	p.Items = items
	p.recomputeTotal()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func (p *Purchase) recomputeTotal() {
	total := decimal.Zero
	for i := range p.Items {
		total = total.Add(p.Items[i].Subtotal)
	}
	p.GrandTotal = total
}

// SetSnapshot embeds the account movement result on the header
func (p *Purchase) SetSnapshot(snapshot AccountSnapshot) {
	p.Snapshot = snapshot
	p.UpdatedAt = time.Now()
}

// Cancel marks the purchase cancelled after its effects were reversed
func (p *Purchase) Cancel() error {
	if p.Status == DocumentStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Purchase is already cancelled")
	}
	p.Status = DocumentStatusCancelled
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsCancelled returns true if the purchase was cancelled
func (p *Purchase) IsCancelled() bool {
	return p.Status == DocumentStatusCancelled
}

// ItemsDiffer reports whether the given lines change any quantity or
// price compared to the current ones. Lines are compared as a multiset,
// so repeated lines for the same product are counted, not collapsed.
func (p *Purchase) ItemsDiffer(items []PurchaseItem) bool {
	if len(items) != len(p.Items) {
		return true
	}
	current := sortedPurchaseItems(p.Items)
	proposed := sortedPurchaseItems(items)
	for i := range current {
		if current[i].ProductID != proposed[i].ProductID ||
			!current[i].Quantity.Equal(proposed[i].Quantity) ||
			!current[i].UnitPrice.Equal(proposed[i].UnitPrice) {
			return true
		}
	}
	return false
}

func sortedPurchaseItems(items []PurchaseItem) []PurchaseItem {
	out := make([]PurchaseItem, len(items))
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
func (p *Purchase) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(p.Items))
	ids := make([]uuid.UUID, 0, len(p.Items))
	for _, item := range p.Items {
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}
