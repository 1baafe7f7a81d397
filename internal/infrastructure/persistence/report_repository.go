package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/application/report"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/trade"
)

// GormReportRepository implements the reporting read model with
// aggregate SQL over the trade documents and credit accounts.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

type tradeSummaryRow struct {
	DocumentCount int64
	ReturnCount   int64
	GrossTotal    decimal.Decimal
	ReturnTotal   decimal.Decimal
}

// SalesSummary aggregates completed sales over the period
func (r *GormReportRepository) SalesSummary(ctx context.Context, storeID uuid.UUID, start, end time.Time) (*report.TradeSummary, error) {
	return r.summarize(ctx, "sales", storeID, start, end)
}

// PurchaseSummary aggregates completed purchases over the period
func (r *GormReportRepository) PurchaseSummary(ctx context.Context, storeID uuid.UUID, start, end time.Time) (*report.TradeSummary, error) {
	return r.summarize(ctx, "purchases", storeID, start, end)
}

func (r *GormReportRepository) summarize(ctx context.Context, table string, storeID uuid.UUID, start, end time.Time) (*report.TradeSummary, error) {
	var row tradeSummaryRow
	err := r.db.WithContext(ctx).Table(table).
		Select(`
			COUNT(CASE WHEN kind = ? THEN 1 END) as document_count,
			COUNT(CASE WHEN kind = ? THEN 1 END) as return_count,
			COALESCE(SUM(CASE WHEN kind = ? THEN grand_total END), 0) as gross_total,
			COALESCE(SUM(CASE WHEN kind = ? THEN grand_total END), 0) as return_total
		`,
			trade.DocumentKindNormal, trade.DocumentKindReturn,
			trade.DocumentKindNormal, trade.DocumentKindReturn).
		Where("store_id = ?", storeID).
		Where("status = ?", trade.DocumentStatusCompleted).
		Where("created_at BETWEEN ? AND ?", start, end).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &report.TradeSummary{
		DocumentCount: row.DocumentCount,
		ReturnCount:   row.ReturnCount,
		GrossTotal:    row.GrossTotal,
		ReturnTotal:   row.ReturnTotal,
		NetTotal:      row.GrossTotal.Sub(row.ReturnTotal),
	}, nil
}

// DailySalesTotals aggregates completed normal sales per day
func (r *GormReportRepository) DailySalesTotals(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]report.DailyTotal, error) {
	type dailyRow struct {
		Day           time.Time
		DocumentCount int64
		Total         decimal.Decimal
	}

	var rows []dailyRow
	err := r.db.WithContext(ctx).Table("sales").
		Select(`
			DATE(created_at) as day,
			COUNT(*) as document_count,
			COALESCE(SUM(grand_total), 0) as total
		`).
		Where("store_id = ?", storeID).
		Where("status = ? AND kind = ?", trade.DocumentStatusCompleted, trade.DocumentKindNormal).
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]report.DailyTotal, len(rows))
	for i, row := range rows {
		totals[i] = report.DailyTotal{
			Day:           row.Day,
			DocumentCount: row.DocumentCount,
			Total:         row.Total,
		}
	}
	return totals, nil
}

// OutstandingAccounts returns credit accounts with a nonzero position,
// largest exposure first
func (r *GormReportRepository) OutstandingAccounts(ctx context.Context, storeID uuid.UUID, ownerType partner.OwnerType) ([]report.OutstandingAccount, error) {
	table := "customers"
	if ownerType == partner.OwnerTypeSupplier {
		table = "suppliers"
	}

	type accountRow struct {
		ID          uuid.UUID
		Code        string
		Name        string
		Balance     decimal.Decimal
		UsedAmount  decimal.Decimal
		CreditLimit decimal.Decimal
	}

	var rows []accountRow
	err := r.db.WithContext(ctx).Table(table).
		Select(`
			id,
			code,
			name,
			account_balance as balance,
			account_used_amount as used_amount,
			account_credit_limit as credit_limit
		`).
		Where("store_id = ?", storeID).
		Where("account_balance <> 0 OR account_used_amount <> 0").
		Order("account_used_amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	accounts := make([]report.OutstandingAccount, len(rows))
	for i, row := range rows {
		accounts[i] = report.OutstandingAccount{
			OwnerID:     row.ID,
			OwnerType:   ownerType,
			Code:        row.Code,
			Name:        row.Name,
			Balance:     row.Balance,
			UsedAmount:  row.UsedAmount,
			NetBalance:  row.Balance.Sub(row.UsedAmount),
			CreditLimit: row.CreditLimit,
		}
	}
	return accounts, nil
}

var _ report.Repository = (*GormReportRepository)(nil)
