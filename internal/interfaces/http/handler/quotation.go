package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tradeapp "github.com/retailcore/backend/internal/application/trade"
)

// QuotationHandler handles quotation endpoints
type QuotationHandler struct {
	BaseHandler
	quotationService *tradeapp.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *tradeapp.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// Create handles POST /trade/quotations
func (h *QuotationHandler) Create(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req tradeapp.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), storeID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, quotation)
}

// GetByID handles GET /trade/quotations/:id
func (h *QuotationHandler) GetByID(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	quotationID, ok := h.bindID(c)
	if !ok {
		return
	}

	quotation, err := h.quotationService.Get(c.Request.Context(), storeID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// List handles GET /trade/quotations
func (h *QuotationHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	for _, key := range []string{"status", "customer_id"} {
		if value := c.Query(key); value != "" {
			filter.Filters[key] = value
		}
	}

	quotations, err := h.quotationService.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotations)
}

// Update handles PUT /trade/quotations/:id
func (h *QuotationHandler) Update(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	quotationID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req tradeapp.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quotation, err := h.quotationService.Update(c.Request.Context(), storeID, quotationID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// MarkSent handles POST /trade/quotations/:id/send
func (h *QuotationHandler) MarkSent(c *gin.Context) {
	h.transition(c, h.quotationService.MarkSent)
}

// Accept handles POST /trade/quotations/:id/accept
func (h *QuotationHandler) Accept(c *gin.Context) {
	h.transition(c, h.quotationService.Accept)
}

// Reject handles POST /trade/quotations/:id/reject
func (h *QuotationHandler) Reject(c *gin.Context) {
	h.transition(c, h.quotationService.Reject)
}

// ConvertToSale handles POST /trade/quotations/:id/convert
func (h *QuotationHandler) ConvertToSale(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	quotationID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req tradeapp.ConvertQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sale, err := h.quotationService.ConvertToSale(c.Request.Context(), storeID, quotationID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// transition runs a bodyless status transition on a quotation
func (h *QuotationHandler) transition(c *gin.Context, fn func(ctx context.Context, storeID, quotationID uuid.UUID) (*tradeapp.QuotationResponse, error)) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	quotationID, ok := h.bindID(c)
	if !ok {
		return
	}

	quotation, err := fn(c.Request.Context(), storeID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}
