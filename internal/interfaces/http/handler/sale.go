package handler

import (
	"github.com/gin-gonic/gin"

	tradeapp "github.com/retailcore/backend/internal/application/trade"
)

// SaleHandler handles sale document endpoints
type SaleHandler struct {
	BaseHandler
	salesService *tradeapp.SalesService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(salesService *tradeapp.SalesService) *SaleHandler {
	return &SaleHandler{salesService: salesService}
}

// Create handles POST /trade/sales
func (h *SaleHandler) Create(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req tradeapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sale, err := h.salesService.Create(c.Request.Context(), storeID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// GetByID handles GET /trade/sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	saleID, ok := h.bindID(c)
	if !ok {
		return
	}

	sale, err := h.salesService.Get(c.Request.Context(), storeID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// List handles GET /trade/sales
func (h *SaleHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	for _, key := range []string{"status", "kind", "payment_type", "customer_id"} {
		if value := c.Query(key); value != "" {
			filter.Filters[key] = value
		}
	}

	sales, err := h.salesService.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sales)
}

// Update handles PUT /trade/sales/:id
func (h *SaleHandler) Update(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	saleID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req tradeapp.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sale, err := h.salesService.Update(c.Request.Context(), storeID, saleID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// Delete handles DELETE /trade/sales/:id
func (h *SaleHandler) Delete(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	saleID, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.salesService.Delete(c.Request.Context(), storeID, saleID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
