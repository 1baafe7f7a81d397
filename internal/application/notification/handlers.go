package notification

import (
	"context"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// Handlers turn domain events into operator-facing notifications. They
// run after commit on the in-process bus; a failure here never affects
// the transaction that raised the event.

// LowStockHandler alerts when a projection sync leaves a product at or
// below its minimum threshold.
type LowStockHandler struct {
	logger *zap.Logger
}

// NewLowStockHandler creates a LowStockHandler
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *LowStockHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductLowStock}
}

// Handle processes a low-stock event
func (h *LowStockHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	e, ok := event.(*catalog.ProductLowStockEvent)
	if !ok {
		return nil
	}
	h.logger.Warn("product stock at or below threshold",
		zap.String("store_id", e.StoreID().String()),
		zap.String("sku", e.SKU),
		zap.String("name", e.Name),
		zap.String("quantity", e.Quantity.String()),
		zap.String("threshold", e.Threshold.String()),
	)
	return nil
}

// CreditAlertHandler alerts on heavy credit usage: charges against an
// account and accounts approaching their limit.
type CreditAlertHandler struct {
	logger *zap.Logger
}

// NewCreditAlertHandler creates a CreditAlertHandler
func NewCreditAlertHandler(logger *zap.Logger) *CreditAlertHandler {
	return &CreditAlertHandler{logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *CreditAlertHandler) EventTypes() []string {
	return []string{
		partner.EventTypeCreditCharged,
		partner.EventTypeCreditNearlyExhausted,
		partner.EventTypePaymentRecorded,
	}
}

// Handle processes a credit account event
func (h *CreditAlertHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *partner.CreditChargedEvent:
		h.logger.Info("credit charged",
			zap.String("store_id", e.StoreID().String()),
			zap.String("owner_type", string(e.OwnerType)),
			zap.String("owner_name", e.OwnerName),
			zap.String("credit_used", e.CreditUsed.String()),
			zap.String("net_balance", e.NetBalance.String()),
		)
	case *partner.CreditNearlyExhaustedEvent:
		h.logger.Warn("credit limit nearly exhausted",
			zap.String("store_id", e.StoreID().String()),
			zap.String("owner_type", string(e.OwnerType)),
			zap.String("owner_name", e.OwnerName),
			zap.String("credit_limit", e.CreditLimit.String()),
			zap.String("available_credit", e.AvailableCredit.String()),
		)
	case *partner.PaymentRecordedEvent:
		h.logger.Info("payment recorded",
			zap.String("store_id", e.StoreID().String()),
			zap.String("owner_type", string(e.OwnerType)),
			zap.String("owner_name", e.OwnerName),
			zap.String("amount", e.Amount.String()),
		)
	}
	return nil
}

// TradeActivityHandler writes an audit line for every trade document
// lifecycle event.
type TradeActivityHandler struct {
	logger *zap.Logger
}

// NewTradeActivityHandler creates a TradeActivityHandler
func NewTradeActivityHandler(logger *zap.Logger) *TradeActivityHandler {
	return &TradeActivityHandler{logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *TradeActivityHandler) EventTypes() []string {
	return []string{
		trade.EventTypeSaleCompleted,
		trade.EventTypeSaleCancelled,
		trade.EventTypePurchaseCompleted,
		trade.EventTypePurchaseCancelled,
		trade.EventTypeQuotationConverted,
	}
}

// Handle processes a trade document event
func (h *TradeActivityHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("store_id", event.StoreID().String()),
		zap.String("aggregate_id", event.AggregateID().String()),
	}
	switch e := event.(type) {
	case *trade.SaleCompletedEvent:
		fields = append(fields,
			zap.String("number", e.Number),
			zap.String("kind", string(e.Kind)),
			zap.String("grand_total", e.GrandTotal.String()),
			zap.Bool("on_credit", e.OnCredit),
		)
		h.logger.Info("sale completed", fields...)
	case *trade.SaleCancelledEvent:
		h.logger.Info("sale cancelled", append(fields, zap.String("number", e.Number))...)
	case *trade.PurchaseCompletedEvent:
		fields = append(fields,
			zap.String("number", e.Number),
			zap.String("kind", string(e.Kind)),
			zap.String("grand_total", e.GrandTotal.String()),
			zap.Bool("on_credit", e.OnCredit),
		)
		h.logger.Info("purchase completed", fields...)
	case *trade.PurchaseCancelledEvent:
		h.logger.Info("purchase cancelled", append(fields, zap.String("number", e.Number))...)
	case *trade.QuotationConvertedEvent:
		h.logger.Info("quotation converted",
			append(fields, zap.String("number", e.Number), zap.String("sale_number", e.SaleNumber))...)
	}
	return nil
}

// RegisterAll subscribes every notification handler on the bus
func RegisterAll(bus shared.EventSubscriber, logger *zap.Logger) {
	bus.Subscribe(NewLowStockHandler(logger))
	bus.Subscribe(NewCreditAlertHandler(logger))
	bus.Subscribe(NewTradeActivityHandler(logger))
}
