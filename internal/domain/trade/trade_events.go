package trade

import (
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the trade context
const (
	EventTypeSaleCompleted      = "trade.sale.completed"
	EventTypeSaleCancelled      = "trade.sale.cancelled"
	EventTypePurchaseCompleted  = "trade.purchase.completed"
	EventTypePurchaseCancelled  = "trade.purchase.cancelled"
	EventTypeQuotationConverted = "trade.quotation.converted"
)

// SaleCompletedEvent is published after a sale commits
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	Kind        DocumentKind    `json:"kind"`
	PaymentType string          `json:"payment_type"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	OnCredit    bool            `json:"on_credit"`
}

// NewSaleCompletedEvent creates a SaleCompletedEvent
func NewSaleCompletedEvent(s *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, "Sale", s.ID, s.StoreID),
		Number:          s.Number,
		Kind:            s.Kind,
		PaymentType:     string(s.PaymentType),
		GrandTotal:      s.GrandTotal,
		OnCredit:        s.Snapshot.CreditTransactionID != nil,
	}
}

// SaleCancelledEvent is published after a sale's effects are reversed
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewSaleCancelledEvent creates a SaleCancelledEvent
func NewSaleCancelledEvent(s *Sale) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, "Sale", s.ID, s.StoreID),
		Number:          s.Number,
	}
}

// PurchaseCompletedEvent is published after a purchase commits
type PurchaseCompletedEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	Kind        DocumentKind    `json:"kind"`
	PaymentType string          `json:"payment_type"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	OnCredit    bool            `json:"on_credit"`
}

// NewPurchaseCompletedEvent creates a PurchaseCompletedEvent
func NewPurchaseCompletedEvent(p *Purchase) *PurchaseCompletedEvent {
	return &PurchaseCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseCompleted, "Purchase", p.ID, p.StoreID),
		Number:          p.Number,
		Kind:            p.Kind,
		PaymentType:     string(p.PaymentType),
		GrandTotal:      p.GrandTotal,
		OnCredit:        p.Snapshot.CreditTransactionID != nil,
	}
}

// PurchaseCancelledEvent is published after a purchase's effects are reversed
type PurchaseCancelledEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewPurchaseCancelledEvent creates a PurchaseCancelledEvent
func NewPurchaseCancelledEvent(p *Purchase) *PurchaseCancelledEvent {
	return &PurchaseCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseCancelled, "Purchase", p.ID, p.StoreID),
		Number:          p.Number,
	}
}

// QuotationConvertedEvent is published when a quotation becomes a sale
type QuotationConvertedEvent struct {
	shared.BaseDomainEvent
	Number     string `json:"number"`
	SaleNumber string `json:"sale_number"`
}

// NewQuotationConvertedEvent creates a QuotationConvertedEvent
func NewQuotationConvertedEvent(q *Quotation, saleNumber string) *QuotationConvertedEvent {
	return &QuotationConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationConverted, "Quotation", q.ID, q.StoreID),
		Number:          q.Number,
		SaleNumber:      saleNumber,
	}
}
