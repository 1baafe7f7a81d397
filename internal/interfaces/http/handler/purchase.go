package handler

import (
	"github.com/gin-gonic/gin"

	tradeapp "github.com/retailcore/backend/internal/application/trade"
)

// PurchaseHandler handles purchase document endpoints
type PurchaseHandler struct {
	BaseHandler
	purchaseService *tradeapp.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *tradeapp.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create handles POST /trade/purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req tradeapp.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	purchase, err := h.purchaseService.Create(c.Request.Context(), storeID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, purchase)
}

// GetByID handles GET /trade/purchases/:id
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	purchaseID, ok := h.bindID(c)
	if !ok {
		return
	}

	purchase, err := h.purchaseService.Get(c.Request.Context(), storeID, purchaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, purchase)
}

// List handles GET /trade/purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	for _, key := range []string{"status", "kind", "payment_type", "supplier_id"} {
		if value := c.Query(key); value != "" {
			filter.Filters[key] = value
		}
	}

	purchases, err := h.purchaseService.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, purchases)
}

// Update handles PUT /trade/purchases/:id
func (h *PurchaseHandler) Update(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	purchaseID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req tradeapp.UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	purchase, err := h.purchaseService.Update(c.Request.Context(), storeID, purchaseID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, purchase)
}

// Delete handles DELETE /trade/purchases/:id
func (h *PurchaseHandler) Delete(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	purchaseID, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.purchaseService.Delete(c.Request.Context(), storeID, purchaseID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
