package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase with its items by ID
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindByIDForStore finds a purchase by ID within a store
func (r *GormPurchaseRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindByNumber finds a purchase by its document number within a store
func (r *GormPurchaseRepository) FindByNumber(ctx context.Context, storeID uuid.UUID, number string) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ? AND number = ?", storeID, number).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindAll finds all purchases matching the filter
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Purchase, error) {
	var purchases []trade.Purchase
	query := applyDocumentFilter(r.db.WithContext(ctx).Model(&trade.Purchase{}).Preload("Items"), filter, "supplier_id")

	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindAllForStore finds all purchases for a store
func (r *GormPurchaseRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]trade.Purchase, error) {
	var purchases []trade.Purchase
	query := applyDocumentFilter(
		r.db.WithContext(ctx).Model(&trade.Purchase{}).Preload("Items").Where("store_id = ?", storeID),
		filter, "supplier_id",
	)

	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// Save creates or updates a purchase and reconciles its items
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *trade.Purchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(purchase).Error; err != nil {
			return err
		}
		return saveDocumentItems(tx, "purchase_id", purchase.ID, purchase.Items, &trade.PurchaseItem{})
	})
}

// Delete deletes a purchase and its items
func (r *GormPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", id).Delete(&trade.PurchaseItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&trade.Purchase{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts purchases matching the filter
func (r *GormPurchaseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&trade.Purchase{})
	if filter.Search != "" {
		query = query.Where("number LIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateNumber generates the next purchase number for a store,
// formatted PO-<year>-<sequence>
func (r *GormPurchaseRepository) GenerateNumber(ctx context.Context, storeID uuid.UUID) (string, error) {
	return generateDocumentNumber(ctx, r.db, &trade.Purchase{}, storeID, "PO")
}

var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)

// applyDocumentFilter applies the shared filter rules for trade documents.
// partnerColumn names the counterparty FK (supplier_id or customer_id).
func applyDocumentFilter(query *gorm.DB, filter shared.Filter, partnerColumn string) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("number LIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "kind":
			query = query.Where("kind = ?", value)
		case "payment_type":
			query = query.Where("payment_type = ?", value)
		case partnerColumn:
			query = query.Where(partnerColumn+" = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DocumentSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// saveDocumentItems reconciles the item rows of a trade document:
// rows missing from the new list are deleted, the rest upserted.
func saveDocumentItems[T any](tx *gorm.DB, fkColumn string, docID uuid.UUID, items []T, model *T) error {
	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		if e, ok := any(&items[i]).(interface{ GetID() uuid.UUID }); ok {
			ids = append(ids, e.GetID())
		}
	}

	if len(ids) > 0 {
		if err := tx.Where(fkColumn+" = ? AND id NOT IN ?", docID, ids).Delete(model).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where(fkColumn+" = ?", docID).Delete(model).Error; err != nil {
			return err
		}
	}

	for i := range items {
		if err := tx.Save(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// generateDocumentNumber produces the next sequential document number
// for a store, formatted <prefix>-<year>-<5 digit sequence>.
func generateDocumentNumber(ctx context.Context, db *gorm.DB, model interface{}, storeID uuid.UUID, prefix string) (string, error) {
	yearPrefix := fmt.Sprintf("%s-%d-", prefix, time.Now().Year())

	var lastNumber string
	err := db.WithContext(ctx).
		Model(model).
		Select("number").
		Where("store_id = ? AND number LIKE ?", storeID, yearPrefix+"%").
		Order("number DESC").
		Limit(1).
		Scan(&lastNumber).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if lastNumber != "" {
		parts := strings.Split(lastNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", yearPrefix, nextNum), nil
}
