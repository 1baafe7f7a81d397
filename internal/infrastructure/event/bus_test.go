package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.received = append(h.received, event)
	if h.fail {
		return errors.New("handler failure")
	}
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newSale(t *testing.T) *trade.Sale {
	t.Helper()
	sale, err := trade.NewSale(
		uuid.New(), "SO-0001", nil, trade.DocumentKindNormal, partner.PaymentTypeCash)
	require.NoError(t, err)
	return sale
}

func TestInMemoryEventBus_RoutesByEventType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	saleHandler := &recordingHandler{types: []string{trade.EventTypeSaleCompleted}}
	stockHandler := &recordingHandler{types: []string{catalog.EventTypeProductLowStock}}
	allHandler := &recordingHandler{}
	bus.Subscribe(saleHandler)
	bus.Subscribe(stockHandler)
	bus.Subscribe(allHandler)

	event := trade.NewSaleCompletedEvent(newSale(t))
	require.NoError(t, bus.Publish(context.Background(), event))

	assert.Len(t, saleHandler.received, 1)
	assert.Empty(t, stockHandler.received)
	assert.Len(t, allHandler.received, 1)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{trade.EventTypeSaleCompleted}, fail: true}
	healthy := &recordingHandler{types: []string{trade.EventTypeSaleCompleted}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), trade.NewSaleCompletedEvent(newSale(t))))
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{trade.EventTypeSaleCompleted}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), trade.NewSaleCompletedEvent(newSale(t))))
	assert.Empty(t, handler.received)
}
