package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	reportapp "github.com/retailcore/backend/internal/application/report"
	"github.com/retailcore/backend/internal/domain/partner"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// bindPeriod binds the start_date/end_date query parameters
func (h *ReportHandler) bindPeriod(c *gin.Context) (reportapp.PeriodFilter, bool) {
	var filter reportapp.PeriodFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return reportapp.PeriodFilter{}, false
	}
	if filter.EndDate.Before(filter.StartDate) {
		h.BadRequest(c, "end_date must not be before start_date")
		return reportapp.PeriodFilter{}, false
	}
	return filter, true
}

// SalesSummary handles GET /reports/sales/summary
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	filter, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	summary, err := h.reportService.SalesSummary(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// PurchaseSummary handles GET /reports/purchases/summary
func (h *ReportHandler) PurchaseSummary(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	filter, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	summary, err := h.reportService.PurchaseSummary(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// DailySalesTrend handles GET /reports/sales/daily
func (h *ReportHandler) DailySalesTrend(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	filter, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	trend, err := h.reportService.DailySalesTrend(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, trend)
}

// OutstandingCredit handles GET /reports/credit/outstanding
func (h *ReportHandler) OutstandingCredit(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	ownerType := partner.OwnerType(c.DefaultQuery("owner_type", string(partner.OwnerTypeCustomer)))
	if ownerType != partner.OwnerTypeCustomer && ownerType != partner.OwnerTypeSupplier {
		h.BadRequest(c, "owner_type must be customer or supplier")
		return
	}

	accounts, err := h.reportService.OutstandingCredit(c.Request.Context(), storeID, ownerType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, accounts)
}

// ExpiringBatches handles GET /reports/inventory/expiring
func (h *ReportHandler) ExpiringBatches(c *gin.Context) {
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

	batches, err := h.reportService.ExpiringBatches(c.Request.Context(), storeID, withinDays)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batches)
}

// LowStock handles GET /reports/inventory/low-stock
func (h *ReportHandler) LowStock(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	products, err := h.reportService.LowStock(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}
