package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
)

// GormStockBatchRepository implements StockBatchRepository using GORM
type GormStockBatchRepository struct {
	db *gorm.DB
}

// NewGormStockBatchRepository creates a new GormStockBatchRepository
func NewGormStockBatchRepository(db *gorm.DB) *GormStockBatchRepository {
	return &GormStockBatchRepository{db: db}
}

// FindByID finds a stock batch by its ID
func (r *GormStockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	var batch inventory.StockBatch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindConsumable returns active batches with stock for the product,
// ordered FEFO: earliest expiry first, nil expiry last, creation time
// as the tiebreak.
func (r *GormStockBatchRepository) FindConsumable(ctx context.Context, storeID, productID uuid.UUID) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Where("status = ? AND current_quantity > 0", inventory.BatchStatusActive).
		Order("CASE WHEN expiry_date IS NULL THEN 1 ELSE 0 END, expiry_date ASC, created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByProduct returns all batches for a product regardless of status,
// oldest first
func (r *GormStockBatchRepository) FindByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Order("created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByPurchase returns all batches created by a purchase
func (r *GormStockBatchRepository) FindByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	if err := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		Order("created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindExpiring returns active batches with stock expiring within the window
func (r *GormStockBatchRepository) FindExpiring(ctx context.Context, storeID uuid.UUID, withinDays int) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	now := time.Now()
	threshold := now.AddDate(0, 0, withinDays)

	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Where("status = ? AND current_quantity > 0", inventory.BatchStatusActive).
		Where("expiry_date IS NOT NULL AND expiry_date > ? AND expiry_date <= ?", now, threshold).
		Order("expiry_date ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindExpired returns batches whose expiry date has passed and that have
// not been depleted. Callers decide which of them still need marking.
func (r *GormStockBatchRepository) FindExpired(ctx context.Context, storeID uuid.UUID) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Where("status <> ?", inventory.BatchStatusDepleted).
		Where("expiry_date IS NOT NULL AND expiry_date <= ?", time.Now()).
		Order("expiry_date ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// SumNonDepleted computes the projection input: the sum of
// current_quantity over the product's non-depleted batches.
func (r *GormStockBatchRepository) SumNonDepleted(ctx context.Context, storeID, productID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockBatch{}).
		Select("SUM(current_quantity)").
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Where("status <> ?", inventory.BatchStatusDepleted).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Save creates or updates a stock batch
func (r *GormStockBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// SaveAll creates or updates multiple stock batches
func (r *GormStockBatchRepository) SaveAll(ctx context.Context, batches []*inventory.StockBatch) error {
	if len(batches) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(batches).Error
}

var _ inventory.StockBatchRepository = (*GormStockBatchRepository)(nil)
