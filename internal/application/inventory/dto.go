package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// AdjustmentDirection of a manual stock adjustment
type AdjustmentDirection string

const (
	AdjustmentAdd    AdjustmentDirection = "add"
	AdjustmentRemove AdjustmentDirection = "remove"
)

// AdjustStockRequest is the request to manually adjust stock
type AdjustStockRequest struct {
	ProductID uuid.UUID           `json:"product_id" binding:"required"`
	Direction AdjustmentDirection `json:"direction" binding:"required,oneof=add remove"`
	Quantity  decimal.Decimal     `json:"quantity" binding:"required"`
	Reason    string              `json:"reason" binding:"required,max=255"`
}

// AdjustStockResponse reports the outcome of a manual adjustment
type AdjustStockResponse struct {
	AdjustmentID uuid.UUID       `json:"adjustment_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	NewQuantity  decimal.Decimal `json:"new_quantity"`
}

// BatchResponse is the API representation of a stock batch
type BatchResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	PurchaseID       uuid.UUID       `json:"purchase_id"`
	BatchNumber      string          `json:"batch_number"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	ManufacturedDate *time.Time      `json:"manufactured_date,omitempty"`
	InitialQuantity  decimal.Decimal `json:"initial_quantity"`
	CurrentQuantity  decimal.Decimal `json:"current_quantity"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	Status           string          `json:"status"`
	DaysUntilExpiry  int             `json:"days_until_expiry"`
	CreatedAt        time.Time       `json:"created_at"`
}

// TransactionResponse is the API representation of a ledger entry
type TransactionResponse struct {
	ID                    uuid.UUID       `json:"id"`
	ProductID             uuid.UUID       `json:"product_id"`
	BatchID               uuid.UUID       `json:"batch_id"`
	TransactionType       string          `json:"transaction_type"`
	Quantity              decimal.Decimal `json:"quantity"`
	SourceType            string          `json:"source_type"`
	SourceID              uuid.UUID       `json:"source_id"`
	ReversedTransactionID *uuid.UUID      `json:"reversed_transaction_id,omitempty"`
	PerformedBy           uuid.UUID       `json:"performed_by"`
	CustomerID            *uuid.UUID      `json:"customer_id,omitempty"`
	Reason                string          `json:"reason,omitempty"`
	TransactionDate       time.Time       `json:"transaction_date"`
}

// ToBatchResponse converts a stock batch to its API representation
func ToBatchResponse(b *inventory.StockBatch) BatchResponse {
	return BatchResponse{
		ID:               b.ID,
		ProductID:        b.ProductID,
		PurchaseID:       b.PurchaseID,
		BatchNumber:      b.BatchNumber,
		ExpiryDate:       b.ExpiryDate,
		ManufacturedDate: b.ManufacturedDate,
		InitialQuantity:  b.InitialQuantity,
		CurrentQuantity:  b.CurrentQuantity,
		PurchasePrice:    b.PurchasePrice,
		Status:           string(b.Status),
		DaysUntilExpiry:  b.DaysUntilExpiry(),
		CreatedAt:        b.CreatedAt,
	}
}

// ToBatchResponses converts a slice of stock batches
func ToBatchResponses(batches []inventory.StockBatch) []BatchResponse {
	responses := make([]BatchResponse, len(batches))
	for i := range batches {
		responses[i] = ToBatchResponse(&batches[i])
	}
	return responses
}

// ToTransactionResponse converts a ledger entry to its API representation
func ToTransactionResponse(t *inventory.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:                    t.ID,
		ProductID:             t.ProductID,
		BatchID:               t.BatchID,
		TransactionType:       string(t.TransactionType),
		Quantity:              t.Quantity,
		SourceType:            string(t.SourceType),
		SourceID:              t.SourceID,
		ReversedTransactionID: t.ReversedTransactionID,
		PerformedBy:           t.PerformedBy,
		CustomerID:            t.CustomerID,
		Reason:                t.Reason,
		TransactionDate:       t.TransactionDate,
	}
}

// ToTransactionResponses converts a slice of ledger entries
func ToTransactionResponses(txs []inventory.InventoryTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}
