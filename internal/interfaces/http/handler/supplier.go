package handler

import (
	"github.com/gin-gonic/gin"

	partnerapp "github.com/retailcore/backend/internal/application/partner"
)

// SupplierHandler handles supplier and supplier credit-account endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *partnerapp.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// Create handles POST /partners/suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req partnerapp.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, supplier)
}

// GetByID handles GET /partners/suppliers/:id
func (h *SupplierHandler) GetByID(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	supplierID, ok := h.bindID(c)
	if !ok {
		return
	}

	supplier, err := h.supplierService.Get(c.Request.Context(), storeID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// List handles GET /partners/suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	suppliers, err := h.supplierService.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, suppliers)
}

// Update handles PUT /partners/suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	supplierID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req partnerapp.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), storeID, supplierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Deactivate handles POST /partners/suppliers/:id/deactivate
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	supplierID, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.supplierService.Deactivate(c.Request.Context(), storeID, supplierID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// EnableCredit handles POST /partners/suppliers/:id/credit/enable
func (h *SupplierHandler) EnableCredit(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	supplierID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req partnerapp.EnableCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	supplier, err := h.supplierService.EnableCredit(c.Request.Context(), storeID, supplierID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// RecordPayment handles POST /partners/suppliers/:id/credit/payments
func (h *SupplierHandler) RecordPayment(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	supplierID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req partnerapp.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	supplier, err := h.supplierService.RecordPayment(c.Request.Context(), storeID, supplierID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// ManualAdjustment handles POST /partners/suppliers/:id/credit/adjustments
func (h *SupplierHandler) ManualAdjustment(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	supplierID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req partnerapp.ManualAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	supplier, err := h.supplierService.ManualAdjustment(c.Request.Context(), storeID, supplierID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Statement handles GET /partners/suppliers/:id/credit/statement
func (h *SupplierHandler) Statement(c *gin.Context) {
	supplierID, ok := h.bindID(c)
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

	result, err := h.supplierService.Statement(c.Request.Context(), supplierID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
