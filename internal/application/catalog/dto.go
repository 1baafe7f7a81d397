package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the request to create a product
type CreateProductRequest struct {
	SKU          string           `json:"sku" binding:"required,max=50"`
	Name         string           `json:"name" binding:"required,max=200"`
	Unit         string           `json:"unit" binding:"max=30"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	SalePrice    decimal.Decimal  `json:"sale_price"`
	MinThreshold *decimal.Decimal `json:"min_threshold"`
	Description  string           `json:"description"`
	Barcode      string           `json:"barcode" binding:"max=100"`
}

// UpdateProductRequest is the request to update a product
type UpdateProductRequest struct {
	Name         string           `json:"name" binding:"required,max=200"`
	Unit         string           `json:"unit" binding:"max=30"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	SalePrice    decimal.Decimal  `json:"sale_price"`
	MinThreshold *decimal.Decimal `json:"min_threshold"`
	Description  string           `json:"description"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinThreshold decimal.Decimal `json:"min_threshold"`
	Status       string          `json:"status"`
	Description  string          `json:"description,omitempty"`
	Barcode      string          `json:"barcode,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateCategoryRequest is the request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateCategoryRequest is the request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// CategoryResponse is the API representation of a category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse converts a product to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Unit:         p.Unit,
		CategoryID:   p.CategoryID,
		SalePrice:    p.SalePrice,
		Quantity:     p.Quantity,
		MinThreshold: p.MinThreshold,
		Status:       string(p.Status),
		Description:  p.Description,
		Barcode:      p.Barcode,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToCategoryResponse converts a category to its API representation
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
