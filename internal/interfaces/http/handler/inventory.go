package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/retailcore/backend/internal/application/inventory"
	"github.com/retailcore/backend/internal/domain/inventory"
)

// InventoryHandler handles stock adjustment and batch query endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// AdjustStock handles POST /inventory/adjustments
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.inventoryService.AdjustStock(c.Request.Context(), storeID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ReverseAdjustment handles POST /inventory/adjustments/:id/reverse
func (h *InventoryHandler) ReverseAdjustment(c *gin.Context) {
	_, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	adjustmentID, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.inventoryService.ReverseAdjustment(c.Request.Context(), adjustmentID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ProductBatches handles GET /inventory/products/:id/batches
func (h *InventoryHandler) ProductBatches(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	productID, ok := h.bindID(c)
	if !ok {
		return
	}

	batches, err := h.inventoryService.ProductBatches(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batches)
}

// ProductTransactions handles GET /inventory/products/:id/transactions
func (h *InventoryHandler) ProductTransactions(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	productID, ok := h.bindID(c)
	if !ok {
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	if txType := c.Query("transaction_type"); txType != "" {
		filter.Filters["transaction_type"] = txType
	}

	result, err := h.inventoryService.ProductTransactions(c.Request.Context(), storeID, productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// SourceTransactions handles GET /inventory/transactions/by-source
func (h *InventoryHandler) SourceTransactions(c *gin.Context) {
	sourceType := inventory.SourceType(c.Query("source_type"))
	if !sourceType.IsValid() {
		h.BadRequest(c, "Invalid source type")
		return
	}

	sourceID, err := uuid.Parse(c.Query("source_id"))
	if err != nil {
		h.BadRequest(c, "Invalid source ID format")
		return
	}

	transactions, err := h.inventoryService.SourceTransactions(c.Request.Context(), sourceType, sourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transactions)
}

// ExpiringBatches handles GET /inventory/batches/expiring
func (h *InventoryHandler) ExpiringBatches(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	withinDays := 30
	if raw := c.Query("within_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "within_days must be a positive integer")
			return
		}
		withinDays = parsed
	}

	batches, err := h.inventoryService.ExpiringBatches(c.Request.Context(), storeID, withinDays)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batches)
}

// SweepExpired handles POST /inventory/batches/sweep-expired
func (h *InventoryHandler) SweepExpired(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	swept, err := h.inventoryService.SweepExpired(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"swept": swept})
}
