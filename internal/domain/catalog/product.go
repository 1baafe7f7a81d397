package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a sellable product scoped to a store.
//
// Quantity is a projection: it is always recomputed as the sum of
// current_quantity over the product's non-depleted stock batches. It is
// never the source of truth and must only be written through
// SyncQuantity inside the same transaction as the batch mutations.
type Product struct {
	shared.StoreAggregateRoot
	SKU          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_store_sku,priority:2"`
	Name         string          `gorm:"type:varchar(200);not null"`
	CategoryID   *uuid.UUID      `gorm:"type:uuid;index"`
	Unit         string          `gorm:"type:varchar(30);not null;default:'pcs'"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinThreshold decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status       ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	Description  string          `gorm:"type:text"`
	Barcode      string          `gorm:"type:varchar(100);index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product for a store
func NewProduct(storeID uuid.UUID, sku, name, unit string, salePrice decimal.Decimal) (*Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}
	if unit == "" {
		unit = "pcs"
	}

	product := &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		SKU:                strings.ToUpper(sku),
		Name:               name,
		Unit:               unit,
		SalePrice:          salePrice,
		Quantity:           decimal.Zero,
		MinThreshold:       decimal.Zero,
		Status:             ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, unit, description string, salePrice decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}

	p.Name = name
	if unit != "" {
		p.Unit = unit
	}
	p.Description = description
	p.SalePrice = salePrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(categoryID uuid.UUID) {
	p.CategoryID = &categoryID
	p.UpdatedAt = time.Now()
}

// SetMinThreshold sets the low-stock warning threshold
func (p *Product) SetMinThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Threshold cannot be negative")
	}
	p.MinThreshold = threshold
	p.UpdatedAt = time.Now()
	return nil
}

// SyncQuantity writes the recomputed batch total into the cached quantity.
// Callers must derive newQuantity from the same transaction that performed
// the batch mutations.
func (p *Product) SyncQuantity(newQuantity decimal.Decimal) {
	p.Quantity = newQuantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if p.MinThreshold.IsPositive() && newQuantity.LessThanOrEqual(p.MinThreshold) {
		p.AddDomainEvent(NewProductLowStockEvent(p))
	}
}

// Deactivate marks the product inactive
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate marks the product active
func (p *Product) Activate() {
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsActive returns true if the product can be traded
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}
