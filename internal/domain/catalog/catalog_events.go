package catalog

import (
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the catalog context
const (
	EventTypeProductCreated  = "catalog.product.created"
	EventTypeProductLowStock = "catalog.product.low_stock"
)

// ProductCreatedEvent is published when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// NewProductCreatedEvent creates a ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", p.ID, p.StoreID),
		SKU:             p.SKU,
		Name:            p.Name,
	}
}

// ProductLowStockEvent is published when a projection sync leaves the
// product at or below its minimum threshold
type ProductLowStockEvent struct {
	shared.BaseDomainEvent
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Threshold decimal.Decimal `json:"threshold"`
}

// NewProductLowStockEvent creates a ProductLowStockEvent
func NewProductLowStockEvent(p *Product) *ProductLowStockEvent {
	return &ProductLowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductLowStock, "Product", p.ID, p.StoreID),
		SKU:             p.SKU,
		Name:            p.Name,
		Quantity:        p.Quantity,
		Threshold:       p.MinThreshold,
	}
}
