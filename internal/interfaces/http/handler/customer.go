package handler

import (
	"github.com/gin-gonic/gin"

	partnerapp "github.com/retailcore/backend/internal/application/partner"
)

// CustomerHandler handles customer and customer credit-account endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create handles POST /partners/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req partnerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// GetByID handles GET /partners/customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	customerID, ok := h.bindID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), storeID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// List handles GET /partners/customers
func (h *CustomerHandler) List(c *gin.Context) {
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

	customers, err := h.customerService.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customers)
}

// Update handles PUT /partners/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	customerID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req partnerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), storeID, customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Deactivate handles POST /partners/customers/:id/deactivate
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	customerID, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.customerService.Deactivate(c.Request.Context(), storeID, customerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// EnableCredit handles POST /partners/customers/:id/credit/enable
func (h *CustomerHandler) EnableCredit(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	customerID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req partnerapp.EnableCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.EnableCredit(c.Request.Context(), storeID, customerID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// UpdateCreditLimit handles PUT /partners/customers/:id/credit/limit
func (h *CustomerHandler) UpdateCreditLimit(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	customerID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req partnerapp.UpdateCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.UpdateCreditLimit(c.Request.Context(), storeID, customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// RecordPayment handles POST /partners/customers/:id/credit/payments
func (h *CustomerHandler) RecordPayment(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	customerID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req partnerapp.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.RecordPayment(c.Request.Context(), storeID, customerID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// ManualAdjustment handles POST /partners/customers/:id/credit/adjustments
func (h *CustomerHandler) ManualAdjustment(c *gin.Context) {
	storeID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	customerID, ok := h.bindID(c)
	if !ok {
		return
	}

	var req partnerapp.ManualAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.ManualAdjustment(c.Request.Context(), storeID, customerID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Statement handles GET /partners/customers/:id/credit/statement
func (h *CustomerHandler) Statement(c *gin.Context) {
	customerID, ok := h.bindID(c)
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

	result, err := h.customerService.Statement(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
