package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
)

// GormCreditTransactionRepository implements the append-only credit
// ledger store using GORM. Reversal appends a compensating row; rows
// are never updated or deleted.
type GormCreditTransactionRepository struct {
	db *gorm.DB
}

// NewGormCreditTransactionRepository creates a new GormCreditTransactionRepository
func NewGormCreditTransactionRepository(db *gorm.DB) *GormCreditTransactionRepository {
	return &GormCreditTransactionRepository{db: db}
}

// Append inserts a new credit transaction
func (r *GormCreditTransactionRepository) Append(ctx context.Context, tx *partner.CreditTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindByID finds a credit transaction by its ID
func (r *GormCreditTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.CreditTransaction, error) {
	var tx partner.CreditTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByOwner returns the paginated ledger of a customer or supplier
// together with the total row count
func (r *GormCreditTransactionRepository) FindByOwner(ctx context.Context, ownerType partner.OwnerType, ownerID uuid.UUID, filter shared.Filter) ([]partner.CreditTransaction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&partner.CreditTransaction{}).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(&partner.CreditTransaction{}).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID)

	for key, value := range filter.Filters {
		switch key {
		case "transaction_type":
			query = query.Where("transaction_type = ?", value)
		case "source_type":
			query = query.Where("source_type = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "transaction_date")

	var txs []partner.CreditTransaction
	if err := query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).Find(&txs).Error; err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// FindBySource returns all ledger rows written for a source document,
// oldest first
func (r *GormCreditTransactionRepository) FindBySource(ctx context.Context, sourceType partner.CreditSourceType, sourceID uuid.UUID) ([]partner.CreditTransaction, error) {
	var txs []partner.CreditTransaction
	if err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

var _ partner.CreditTransactionRepository = (*GormCreditTransactionRepository)(nil)
