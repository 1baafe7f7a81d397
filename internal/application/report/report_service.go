package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TradeSummary aggregates completed documents over a period. Cancelled
// documents are excluded; returns are reported separately and netted.
type TradeSummary struct {
	DocumentCount int64           `json:"document_count"`
	ReturnCount   int64           `json:"return_count"`
	GrossTotal    decimal.Decimal `json:"gross_total"`
	ReturnTotal   decimal.Decimal `json:"return_total"`
	NetTotal      decimal.Decimal `json:"net_total"`
}

// DailyTotal is one day of completed trade volume
type DailyTotal struct {
	Day           time.Time       `json:"day"`
	DocumentCount int64           `json:"document_count"`
	Total         decimal.Decimal `json:"total"`
}

// OutstandingAccount is a credit account with a nonzero position
type OutstandingAccount struct {
	OwnerID     uuid.UUID         `json:"owner_id"`
	OwnerType   partner.OwnerType `json:"owner_type"`
	Code        string            `json:"code"`
	Name        string            `json:"name"`
	Balance     decimal.Decimal   `json:"balance"`
	UsedAmount  decimal.Decimal   `json:"used_amount"`
	NetBalance  decimal.Decimal   `json:"net_balance"`
	CreditLimit decimal.Decimal   `json:"credit_limit"`
}

// Repository is the read model behind the reports. Implemented with
// aggregate SQL in the persistence layer.
type Repository interface {
	SalesSummary(ctx context.Context, storeID uuid.UUID, start, end time.Time) (*TradeSummary, error)
	PurchaseSummary(ctx context.Context, storeID uuid.UUID, start, end time.Time) (*TradeSummary, error)
	DailySalesTotals(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]DailyTotal, error)
	OutstandingAccounts(ctx context.Context, storeID uuid.UUID, ownerType partner.OwnerType) ([]OutstandingAccount, error)
}

// PeriodFilter bounds a report to a date range
type PeriodFilter struct {
	StartDate time.Time `form:"start_date" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `form:"end_date" binding:"required" time_format:"2006-01-02"`
}

// ExpiringBatchResponse is one batch approaching expiry
type ExpiringBatchResponse struct {
	BatchID         uuid.UUID       `json:"batch_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	BatchNumber     string          `json:"batch_number"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
	DaysUntilExpiry int             `json:"days_until_expiry"`
}

// ReportService serves the read-only reporting endpoints. It has no
// invariants of its own; everything it returns is derived from the
// ledgers and projections the other services maintain.
type ReportService struct {
	reportRepo  Repository
	batchRepo   inventory.StockBatchRepository
	productRepo catalog.ProductRepository
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo Repository, batchRepo inventory.StockBatchRepository, productRepo catalog.ProductRepository) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		batchRepo:   batchRepo,
		productRepo: productRepo,
	}
}

// SalesSummary returns completed sales totals for the period
func (s *ReportService) SalesSummary(ctx context.Context, storeID uuid.UUID, filter PeriodFilter) (*TradeSummary, error) {
	return s.reportRepo.SalesSummary(ctx, storeID, filter.StartDate, endOfDay(filter.EndDate))
}

// PurchaseSummary returns completed purchase totals for the period
func (s *ReportService) PurchaseSummary(ctx context.Context, storeID uuid.UUID, filter PeriodFilter) (*TradeSummary, error) {
	return s.reportRepo.PurchaseSummary(ctx, storeID, filter.StartDate, endOfDay(filter.EndDate))
}

// DailySalesTrend returns per-day sales volume for the period
func (s *ReportService) DailySalesTrend(ctx context.Context, storeID uuid.UUID, filter PeriodFilter) ([]DailyTotal, error) {
	return s.reportRepo.DailySalesTotals(ctx, storeID, filter.StartDate, endOfDay(filter.EndDate))
}

// OutstandingCredit returns credit accounts with a nonzero position
func (s *ReportService) OutstandingCredit(ctx context.Context, storeID uuid.UUID, ownerType partner.OwnerType) ([]OutstandingAccount, error) {
	return s.reportRepo.OutstandingAccounts(ctx, storeID, ownerType)
}

// ExpiringBatches returns batches with stock that expire within the window
func (s *ReportService) ExpiringBatches(ctx context.Context, storeID uuid.UUID, withinDays int) ([]ExpiringBatchResponse, error) {
	if withinDays <= 0 {
		withinDays = 30
	}
	batches, err := s.batchRepo.FindExpiring(ctx, storeID, withinDays)
	if err != nil {
		return nil, err
	}
	out := make([]ExpiringBatchResponse, len(batches))
	for i := range batches {
		b := &batches[i]
		out[i] = ExpiringBatchResponse{
			BatchID:         b.ID,
			ProductID:       b.ProductID,
			BatchNumber:     b.BatchNumber,
			CurrentQuantity: b.CurrentQuantity,
			ExpiryDate:      b.ExpiryDate,
			DaysUntilExpiry: b.DaysUntilExpiry(),
		}
	}
	return out, nil
}

// LowStockProductResponse is one product at or below its threshold
type LowStockProductResponse struct {
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinThreshold decimal.Decimal `json:"min_threshold"`
}

// LowStock returns products at or below their warning threshold
func (s *ReportService) LowStock(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]LowStockProductResponse, error) {
	products, err := s.productRepo.FindBelowThreshold(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]LowStockProductResponse, len(products))
	for i := range products {
		p := &products[i]
		out[i] = LowStockProductResponse{
			ProductID:    p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			Quantity:     p.Quantity,
			MinThreshold: p.MinThreshold,
		}
	}
	return out, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}
