package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// PurchaseRepository provides access to purchases
type PurchaseRepository interface {
	shared.StoreRepository[Purchase]
	FindByNumber(ctx context.Context, storeID uuid.UUID, number string) (*Purchase, error)
	GenerateNumber(ctx context.Context, storeID uuid.UUID) (string, error)
}

// SaleRepository provides access to sales
type SaleRepository interface {
	shared.StoreRepository[Sale]
	FindByNumber(ctx context.Context, storeID uuid.UUID, number string) (*Sale, error)
	GenerateNumber(ctx context.Context, storeID uuid.UUID) (string, error)
}

// QuotationRepository provides access to quotations
type QuotationRepository interface {
	shared.StoreRepository[Quotation]
	FindByNumber(ctx context.Context, storeID uuid.UUID, number string) (*Quotation, error)
	GenerateNumber(ctx context.Context, storeID uuid.UUID) (string, error)
}
