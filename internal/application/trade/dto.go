package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/retailcore/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// SplitRequest carries the two parts of a split payment
type SplitRequest struct {
	CashAmount   decimal.Decimal `json:"cash_amount" binding:"required"`
	CreditAmount decimal.Decimal `json:"credit_amount" binding:"required"`
}

// SaleItemRequest is one line of a sale
type SaleItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateSaleRequest creates a sale or a customer return
type CreateSaleRequest struct {
	CustomerID  *uuid.UUID          `json:"customer_id"`
	Kind        trade.DocumentKind  `json:"kind" binding:"omitempty,oneof=normal return"`
	PaymentType partner.PaymentType `json:"payment_type" binding:"required,oneof=cash credit split"`
	Split       *SplitRequest       `json:"split"`
	Items       []SaleItemRequest   `json:"items" binding:"required,min=1,dive"`
	Notes       string              `json:"notes"`
}

// UpdateSaleRequest replaces a sale's payment terms and lines
type UpdateSaleRequest struct {
	CustomerID  *uuid.UUID          `json:"customer_id"`
	PaymentType partner.PaymentType `json:"payment_type" binding:"required,oneof=cash credit split"`
	Split       *SplitRequest       `json:"split"`
	Items       []SaleItemRequest   `json:"items" binding:"required,min=1,dive"`
	Notes       string              `json:"notes"`
}

// PurchaseItemRequest is one line of a purchase
type PurchaseItemRequest struct {
	ProductID        uuid.UUID       `json:"product_id" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice        decimal.Decimal `json:"unit_price" binding:"required"`
	BatchNumber      string          `json:"batch_number" binding:"max=50"`
	ManufacturedDate *time.Time      `json:"manufactured_date"`
	ExpiryDate       *time.Time      `json:"expiry_date"`
}

// CreatePurchaseRequest creates a purchase or a supplier return
type CreatePurchaseRequest struct {
	SupplierID  *uuid.UUID            `json:"supplier_id"`
	Kind        trade.DocumentKind    `json:"kind" binding:"omitempty,oneof=normal return"`
	PaymentType partner.PaymentType   `json:"payment_type" binding:"required,oneof=cash credit split"`
	Split       *SplitRequest         `json:"split"`
	Items       []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes       string                `json:"notes"`
}

// UpdatePurchaseRequest replaces a purchase's payment terms and lines
type UpdatePurchaseRequest struct {
	SupplierID  *uuid.UUID            `json:"supplier_id"`
	PaymentType partner.PaymentType   `json:"payment_type" binding:"required,oneof=cash credit split"`
	Split       *SplitRequest         `json:"split"`
	Items       []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes       string                `json:"notes"`
}

// QuotationItemRequest is one line of a quotation
type QuotationItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateQuotationRequest creates a draft quotation
type CreateQuotationRequest struct {
	CustomerID *uuid.UUID             `json:"customer_id"`
	ValidUntil *time.Time             `json:"valid_until"`
	Items      []QuotationItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes      string                 `json:"notes"`
}

// UpdateQuotationRequest rewrites a draft quotation
type UpdateQuotationRequest struct {
	CustomerID *uuid.UUID             `json:"customer_id"`
	ValidUntil *time.Time             `json:"valid_until"`
	Items      []QuotationItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes      string                 `json:"notes"`
}

// ConvertQuotationRequest converts an accepted quotation into a sale
type ConvertQuotationRequest struct {
	PaymentType partner.PaymentType `json:"payment_type" binding:"required,oneof=cash credit split"`
	Split       *SplitRequest       `json:"split"`
}

// SnapshotResponse is the account movement snapshot on a document header
type SnapshotResponse struct {
	CreditTransactionID *uuid.UUID      `json:"credit_transaction_id,omitempty"`
	PaymentType         string          `json:"payment_type,omitempty"`
	BalanceUsed         decimal.Decimal `json:"balance_used"`
	CreditUsed          decimal.Decimal `json:"credit_used"`
	CashAmount          decimal.Decimal `json:"cash_amount"`
	CreditAmount        decimal.Decimal `json:"credit_amount"`
	RemainingBalance    decimal.Decimal `json:"remaining_balance"`
	CreditLimit         decimal.Decimal `json:"credit_limit"`
}

// SaleItemResponse is the API representation of a sale line
type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse is the API representation of a sale
type SaleResponse struct {
	ID          uuid.UUID          `json:"id"`
	Number      string             `json:"number"`
	CustomerID  *uuid.UUID         `json:"customer_id,omitempty"`
	Kind        string             `json:"kind"`
	PaymentType string             `json:"payment_type"`
	Items       []SaleItemResponse `json:"items"`
	GrandTotal  decimal.Decimal    `json:"grand_total"`
	Snapshot    SnapshotResponse   `json:"snapshot"`
	Status      string             `json:"status"`
	Notes       string             `json:"notes,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// PurchaseItemResponse is the API representation of a purchase line
type PurchaseItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	BatchNumber      string          `json:"batch_number"`
	ManufacturedDate *time.Time      `json:"manufactured_date,omitempty"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
}

// PurchaseResponse is the API representation of a purchase
type PurchaseResponse struct {
	ID          uuid.UUID              `json:"id"`
	Number      string                 `json:"number"`
	SupplierID  *uuid.UUID             `json:"supplier_id,omitempty"`
	Kind        string                 `json:"kind"`
	PaymentType string                 `json:"payment_type"`
	Items       []PurchaseItemResponse `json:"items"`
	GrandTotal  decimal.Decimal        `json:"grand_total"`
	Snapshot    SnapshotResponse       `json:"snapshot"`
	Status      string                 `json:"status"`
	Notes       string                 `json:"notes,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// QuotationItemResponse is the API representation of a quotation line
type QuotationItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// QuotationResponse is the API representation of a quotation
type QuotationResponse struct {
	ID              uuid.UUID               `json:"id"`
	Number          string                  `json:"number"`
	CustomerID      *uuid.UUID              `json:"customer_id,omitempty"`
	Status          string                  `json:"status"`
	Items           []QuotationItemResponse `json:"items"`
	GrandTotal      decimal.Decimal         `json:"grand_total"`
	ValidUntil      *time.Time              `json:"valid_until,omitempty"`
	ConvertedSaleID *uuid.UUID              `json:"converted_sale_id,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// resolveSplit validates the payment type against the optional split
// parts and returns the value object the movement computation uses.
func resolveSplit(paymentType partner.PaymentType, req *SplitRequest, grandTotal decimal.Decimal) (valueobject.PaymentSplit, error) {
	if paymentType != partner.PaymentTypeSplit {
		return valueobject.PaymentSplit{}, nil
	}
	if req == nil {
		return valueobject.PaymentSplit{}, shared.NewDomainError("SPLIT_MISMATCH",
			"Split payment requires cash and credit parts")
	}
	split, ok := valueobject.NewPaymentSplit(req.CashAmount, req.CreditAmount)
	if !ok {
		return valueobject.PaymentSplit{}, shared.NewDomainError("SPLIT_MISMATCH",
			"Split parts cannot be negative")
	}
	if !split.MatchesTotal(grandTotal) {
		return valueobject.PaymentSplit{}, shared.NewDomainError("SPLIT_MISMATCH",
			"Split parts do not add up to the grand total")
	}
	return split, nil
}

// ToSnapshotResponse converts an account snapshot
func ToSnapshotResponse(s trade.AccountSnapshot) SnapshotResponse {
	return SnapshotResponse{
		CreditTransactionID: s.CreditTransactionID,
		PaymentType:         s.PaymentType,
		BalanceUsed:         s.BalanceUsed,
		CreditUsed:          s.CreditUsed,
		CashAmount:          s.CashAmount,
		CreditAmount:        s.CreditAmount,
		RemainingBalance:    s.RemainingBalance,
		CreditLimit:         s.CreditLimit,
	}
}

// ToSaleResponse converts a sale to its API representation
func ToSaleResponse(s *trade.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
	}
	return SaleResponse{
		ID:          s.ID,
		Number:      s.Number,
		CustomerID:  s.CustomerID,
		Kind:        string(s.Kind),
		PaymentType: string(s.PaymentType),
		Items:       items,
		GrandTotal:  s.GrandTotal,
		Snapshot:    ToSnapshotResponse(s.Snapshot),
		Status:      string(s.Status),
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToPurchaseResponse converts a purchase to its API representation
func ToPurchaseResponse(p *trade.Purchase) PurchaseResponse {
	items := make([]PurchaseItemResponse, len(p.Items))
	for i, item := range p.Items {
		items[i] = PurchaseItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			Subtotal:         item.Subtotal,
			BatchNumber:      item.BatchNumber,
			ManufacturedDate: item.ManufacturedDate,
			ExpiryDate:       item.ExpiryDate,
		}
	}
	return PurchaseResponse{
		ID:          p.ID,
		Number:      p.Number,
		SupplierID:  p.SupplierID,
		Kind:        string(p.Kind),
		PaymentType: string(p.PaymentType),
		Items:       items,
		GrandTotal:  p.GrandTotal,
		Snapshot:    ToSnapshotResponse(p.Snapshot),
		Status:      string(p.Status),
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToQuotationResponse converts a quotation to its API representation
func ToQuotationResponse(q *trade.Quotation) QuotationResponse {
	items := make([]QuotationItemResponse, len(q.Items))
	for i, item := range q.Items {
		items[i] = QuotationItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
	}
	return QuotationResponse{
		ID:              q.ID,
		Number:          q.Number,
		CustomerID:      q.CustomerID,
		Status:          string(q.Status),
		Items:           items,
		GrandTotal:      q.GrandTotal,
		ValidUntil:      q.ValidUntil,
		ConvertedSaleID: q.ConvertedSaleID,
		Notes:           q.Notes,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}
