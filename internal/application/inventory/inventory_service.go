package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
)

// InventoryService handles store-facing inventory operations: manual
// adjustments, expiry handling and ledger queries. Trade documents move
// stock through the coordinator in the trade package, not through this
// service.
type InventoryService struct {
	scope          TransactionScope
	ledger         *BatchLedger
	batchRepo      inventory.StockBatchRepository
	txRepo         inventory.InventoryTransactionRepository
	eventPublisher shared.EventPublisher
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	scope TransactionScope,
	batchRepo inventory.StockBatchRepository,
	txRepo inventory.InventoryTransactionRepository,
) *InventoryService {
	return &InventoryService{
		scope:     scope,
		ledger:    NewBatchLedger(),
		batchRepo: batchRepo,
		txRepo:    txRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AdjustStock applies a manual stock correction. Removals are allocated
// FEFO like a sale; additions land in the oldest batch. The adjustment
// gets its own source ID so its ledger entries can be traced and
// reversed as a unit.
func (s *InventoryService) AdjustStock(ctx context.Context, storeID, performedBy uuid.UUID, req AdjustStockRequest) (*AdjustStockResponse, error) {
	adjustmentID := uuid.New()
	var product *catalog.Product

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		switch req.Direction {
		case AdjustmentRemove:
			_, product, err = s.ledger.ConsumeForSale(ctx, repos, ConsumeParams{
				StoreID:     storeID,
				ProductID:   req.ProductID,
				Quantity:    req.Quantity,
				SourceType:  inventory.SourceTypeAdjustment,
				SourceID:    adjustmentID,
				TxType:      inventory.TransactionTypeAdjustment,
				PerformedBy: performedBy,
				Reason:      req.Reason,
			})
		case AdjustmentAdd:
			product, err = s.ledger.ReturnFromCustomer(ctx, repos, ReturnParams{
				StoreID:     storeID,
				ProductID:   req.ProductID,
				Quantity:    req.Quantity,
				SourceType:  inventory.SourceTypeAdjustment,
				SourceID:    adjustmentID,
				TxType:      inventory.TransactionTypeAdjustment,
				PerformedBy: performedBy,
				Reason:      req.Reason,
			})
		default:
			return shared.NewDomainError("INVALID_DIRECTION", "Adjustment direction must be add or remove")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	return &AdjustStockResponse{
		AdjustmentID: adjustmentID,
		ProductID:    req.ProductID,
		NewQuantity:  product.Quantity,
	}, nil
}

// ReverseAdjustment appends compensating entries for a prior manual
// adjustment, restoring the stock it moved.
func (s *InventoryService) ReverseAdjustment(ctx context.Context, adjustmentID, performedBy uuid.UUID) error {
	var products []*catalog.Product
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		products, err = s.ledger.Reverse(ctx, repos, inventory.SourceTypeAdjustment, adjustmentID, performedBy)
		return err
	})
	if err != nil {
		return err
	}

	for _, p := range products {
		s.publishEvents(ctx, p)
	}
	return nil
}

// ExpiringBatches returns batches expiring within the given number of days
func (s *InventoryService) ExpiringBatches(ctx context.Context, storeID uuid.UUID, withinDays int) ([]BatchResponse, error) {
	if withinDays <= 0 {
		withinDays = 30
	}
	batches, err := s.batchRepo.FindExpiring(ctx, storeID, withinDays)
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(batches), nil
}

// SweepExpired marks every batch past its expiry date as expired so it
// can no longer be allocated. The physical stock stays on the batch and
// in the product quantity until it is removed with an adjustment.
func (s *InventoryService) SweepExpired(ctx context.Context, storeID uuid.UUID) (int, error) {
	var swept int
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		batches, err := repos.BatchRepo().FindExpired(ctx, storeID)
		if err != nil {
			return err
		}
		touched := make([]*inventory.StockBatch, 0, len(batches))
		for i := range batches {
			if batches[i].Status != inventory.BatchStatusActive {
				continue
			}
			batches[i].MarkExpired()
			touched = append(touched, &batches[i])
		}
		if len(touched) == 0 {
			return nil
		}
		swept = len(touched)
		return repos.BatchRepo().SaveAll(ctx, touched)
	})
	return swept, err
}

// ProductBatches returns all batches for a product, oldest first
func (s *InventoryService) ProductBatches(ctx context.Context, storeID, productID uuid.UUID) ([]BatchResponse, error) {
	batches, err := s.batchRepo.FindByProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(batches), nil
}

// ProductTransactions returns the paginated ledger history for a product
func (s *InventoryService) ProductTransactions(ctx context.Context, storeID, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[TransactionResponse], error) {
	txs, total, err := s.txRepo.FindByProduct(ctx, storeID, productID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToTransactionResponses(txs), total, filter.Page, filter.PageSize)
	return &page, nil
}

// SourceTransactions returns the ledger entries recorded for one source document
func (s *InventoryService) SourceTransactions(ctx context.Context, sourceType inventory.SourceType, sourceID uuid.UUID) ([]TransactionResponse, error) {
	txs, err := s.txRepo.FindBySource(ctx, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(txs), nil
}

func (s *InventoryService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil || product == nil {
		return
	}
	for _, event := range product.GetDomainEvents() {
		// Event delivery is best effort; the transaction has committed
		_ = s.eventPublisher.Publish(ctx, event)
	}
	product.ClearDomainEvents()
}
