package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appinventory "github.com/retailcore/backend/internal/application/inventory"
	apppartner "github.com/retailcore/backend/internal/application/partner"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// PurchaseService is the transaction coordinator for purchases. A
// received purchase creates one stock batch per line; a supplier return
// deducts stock FEFO. Both sides settle against the supplier account in
// the same transaction as the stock movement.
type PurchaseService struct {
	scope          TransactionScope
	stockLedger    *appinventory.BatchLedger
	accountLedger  *apppartner.AccountLedger
	purchaseRepo   trade.PurchaseRepository
	eventPublisher shared.EventPublisher
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(scope TransactionScope, purchaseRepo trade.PurchaseRepository) *PurchaseService {
	return &PurchaseService{
		scope:         scope,
		stockLedger:   appinventory.NewBatchLedger(),
		accountLedger: apppartner.NewAccountLedger(),
		purchaseRepo:  purchaseRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a purchase (or supplier return) and applies all of its
// effects atomically.
func (s *PurchaseService) Create(ctx context.Context, storeID, performedBy uuid.UUID, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	kind := req.Kind
	if kind == "" {
		kind = trade.DocumentKindNormal
	}

	var purchase *trade.Purchase
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.PurchaseRepo().GenerateNumber(ctx, storeID)
		if err != nil {
			return err
		}
		purchase, err = trade.NewPurchase(storeID, number, req.SupplierID, kind, req.PaymentType)
		if err != nil {
			return err
		}
		purchase.SetCreatedBy(performedBy)
		purchase.Notes = req.Notes

		products, err := loadActiveProducts(ctx, repos, storeID, purchaseProductIDs(req.Items))
		if err != nil {
			return err
		}
		for i, item := range req.Items {
			product := products[item.ProductID]
			batchNumber := item.BatchNumber
			if batchNumber == "" {
				batchNumber = fmt.Sprintf("%s-%d", number, i+1)
			}
			if _, err := purchase.AddItem(item.ProductID, product.Name, batchNumber,
				item.Quantity, item.UnitPrice, item.ManufacturedDate, item.ExpiryDate); err != nil {
				return err
			}
		}

		stockEvents, err := s.applyStock(ctx, repos, purchase, performedBy)
		if err != nil {
			return err
		}
		events = append(events, stockEvents...)

		creditEvents, err := s.applyCredit(ctx, repos, purchase, req.Split, performedBy)
		if err != nil {
			return err
		}
		events = append(events, creditEvents...)

		if err := repos.PurchaseRepo().Save(ctx, purchase); err != nil {
			return err
		}
		events = append(events, trade.NewPurchaseCompletedEvent(purchase))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// Update edits a purchase. Item edits on a received purchase are only
// allowed while none of its batches has been consumed; otherwise the
// caller gets a BATCH_ALREADY_CONSUMED conflict and must use a supplier
// return instead.
func (s *PurchaseService) Update(ctx context.Context, storeID, purchaseID, performedBy uuid.UUID, req UpdatePurchaseRequest) (*PurchaseResponse, error) {
	var purchase *trade.Purchase
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		purchase, err = repos.PurchaseRepo().FindByIDForStore(ctx, storeID, purchaseID)
		if err != nil {
			return err
		}
		if purchase.IsCancelled() {
			return shared.NewDomainError("INVALID_STATE", "Cancelled purchases cannot be edited")
		}

		products, err := loadActiveProducts(ctx, repos, storeID, purchaseProductIDs(req.Items))
		if err != nil {
			return err
		}
		newItems := make([]trade.PurchaseItem, 0, len(req.Items))
		newTotal := decimal.Zero
		for i, item := range req.Items {
			product := products[item.ProductID]
			if !item.Quantity.IsPositive() {
				return shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
			}
			if item.UnitPrice.IsNegative() {
				return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
			}
			batchNumber := item.BatchNumber
			if batchNumber == "" {
				batchNumber = fmt.Sprintf("%s-%d", purchase.Number, i+1)
			}
			newItems = append(newItems, trade.PurchaseItem{
				BaseEntity:       shared.NewBaseEntity(),
				ProductID:        item.ProductID,
				ProductName:      product.Name,
				Quantity:         item.Quantity,
				UnitPrice:        item.UnitPrice,
				Subtotal:         item.Quantity.Mul(item.UnitPrice),
				BatchNumber:      batchNumber,
				ManufacturedDate: item.ManufacturedDate,
				ExpiryDate:       item.ExpiryDate,
			})
			newTotal = newTotal.Add(item.Quantity.Mul(item.UnitPrice))
		}

		itemsChanged := purchase.ItemsDiffer(newItems)
		creditChanged, err := s.creditTermsChanged(purchase, req, newTotal)
		if err != nil {
			return err
		}

		if !itemsChanged && !creditChanged {
			purchase.Notes = req.Notes
			return repos.PurchaseRepo().Save(ctx, purchase)
		}

		if itemsChanged {
			if purchase.Kind == trade.DocumentKindNormal {
				if err := s.ensureBatchesUntouched(ctx, repos, purchase.ID); err != nil {
					return err
				}
			}
			reverted, err := s.stockLedger.Reverse(ctx, repos, inventory.SourceTypePurchase, purchase.ID, performedBy)
			if err != nil {
				return err
			}
			collectProductEvents(&events, reverted)
		}

		purchase.ReplaceItems(newItems)

		if itemsChanged {
			stockEvents, err := s.applyStock(ctx, repos, purchase, performedBy)
			if err != nil {
				return err
			}
			events = append(events, stockEvents...)
		}

		if creditChanged {
			if err := s.accountLedger.Reverse(ctx, repos, partner.CreditSourcePurchase, purchase.ID, performedBy); err != nil {
				return err
			}
			purchase.SupplierID = req.SupplierID
			purchase.PaymentType = req.PaymentType
			purchase.SetSnapshot(trade.AccountSnapshot{})

			creditEvents, err := s.applyCredit(ctx, repos, purchase, req.Split, performedBy)
			if err != nil {
				return err
			}
			events = append(events, creditEvents...)
		}

		purchase.Notes = req.Notes
		return repos.PurchaseRepo().Save(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// Delete cancels a purchase, reversing its batches and supplier account
// effects with compensating ledger entries. Fails with a conflict when
// received stock has already been consumed.
func (s *PurchaseService) Delete(ctx context.Context, storeID, purchaseID, performedBy uuid.UUID) error {
	var purchase *trade.Purchase
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		purchase, err = repos.PurchaseRepo().FindByIDForStore(ctx, storeID, purchaseID)
		if err != nil {
			return err
		}
		if purchase.IsCancelled() {
			return shared.NewDomainError("INVALID_STATE", "Purchase is already cancelled")
		}

		reverted, err := s.stockLedger.Reverse(ctx, repos, inventory.SourceTypePurchase, purchase.ID, performedBy)
		if err != nil {
			return err
		}
		collectProductEvents(&events, reverted)

		if err := s.accountLedger.Reverse(ctx, repos, partner.CreditSourcePurchase, purchase.ID, performedBy); err != nil {
			return err
		}

		if err := purchase.Cancel(); err != nil {
			return err
		}
		if err := repos.PurchaseRepo().Save(ctx, purchase); err != nil {
			return err
		}
		events = append(events, trade.NewPurchaseCancelledEvent(purchase))
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

// Get returns one purchase
func (s *PurchaseService) Get(ctx context.Context, storeID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByIDForStore(ctx, storeID, purchaseID)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// List returns the store's purchases
func (s *PurchaseService) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]PurchaseResponse, error) {
	purchases, err := s.purchaseRepo.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		responses[i] = ToPurchaseResponse(&purchases[i])
	}
	return responses, nil
}

// applyStock moves stock for every line: a fresh batch per received
// line, FEFO deduction for supplier returns.
func (s *PurchaseService) applyStock(ctx context.Context, repos TransactionalRepositories, purchase *trade.Purchase, performedBy uuid.UUID) ([]shared.DomainEvent, error) {
	var events []shared.DomainEvent
	for _, item := range purchase.Items {
		var product *catalog.Product
		var err error

		switch purchase.Kind {
		case trade.DocumentKindNormal:
			_, product, err = s.stockLedger.ReceivePurchase(ctx, repos, appinventory.ReceiveParams{
				StoreID:          purchase.StoreID,
				ProductID:        item.ProductID,
				PurchaseID:       purchase.ID,
				BatchNumber:      item.BatchNumber,
				Quantity:         item.Quantity,
				PurchasePrice:    item.UnitPrice,
				ManufacturedDate: item.ManufacturedDate,
				ExpiryDate:       item.ExpiryDate,
				PerformedBy:      performedBy,
			})
		case trade.DocumentKindReturn:
			_, product, err = s.stockLedger.ReturnToSupplier(ctx, repos, appinventory.ConsumeParams{
				StoreID:     purchase.StoreID,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				SourceType:  inventory.SourceTypePurchase,
				SourceID:    purchase.ID,
				PerformedBy: performedBy,
			})
		}
		if err != nil {
			return nil, err
		}
		collectProductEvents(&events, []*catalog.Product{product})
	}
	return events, nil
}

// applyCredit settles the purchase against the supplier account.
// Purchases without a supplier must be paid fully in cash.
func (s *PurchaseService) applyCredit(ctx context.Context, repos TransactionalRepositories, purchase *trade.Purchase, splitReq *SplitRequest, performedBy uuid.UUID) ([]shared.DomainEvent, error) {
	if purchase.SupplierID == nil {
		if purchase.PaymentType != partner.PaymentTypeCash {
			return nil, shared.NewDomainError("SUPPLIER_REQUIRED",
				"Credit or split payment requires a supplier")
		}
		return nil, nil
	}

	split, err := resolveSplit(purchase.PaymentType, splitReq, purchase.GrandTotal)
	if err != nil {
		return nil, err
	}

	supplier, err := repos.SupplierRepo().FindByIDForStore(ctx, purchase.StoreID, *purchase.SupplierID)
	if err != nil {
		return nil, err
	}

	direction := partner.DirectionTrade
	txType := partner.CreditTxTypePurchase
	if purchase.Kind == trade.DocumentKindReturn {
		direction = partner.DirectionReturn
		txType = partner.CreditTxTypeReturn
	}

	movement, err := partner.ComputeMovement(&supplier.Account, direction, purchase.PaymentType, purchase.GrandTotal, split)
	if err != nil {
		return nil, err
	}

	purchaseID := purchase.ID
	supplier, entry, err := s.accountLedger.ApplyToSupplier(ctx, repos, apppartner.ApplyParams{
		StoreID:     purchase.StoreID,
		OwnerID:     *purchase.SupplierID,
		Movement:    movement,
		TxType:      txType,
		PaymentType: purchase.PaymentType,
		SourceType:  partner.CreditSourcePurchase,
		SourceID:    &purchaseID,
		PerformedBy: performedBy,
	})
	if err != nil {
		return nil, err
	}

	entryID := entry.ID
	purchase.SetSnapshot(trade.AccountSnapshot{
		CreditTransactionID: &entryID,
		PaymentType:         string(purchase.PaymentType),
		BalanceUsed:         movement.BalanceUsed,
		CreditUsed:          movement.CreditUsed,
		CashAmount:          movement.CashAmount,
		CreditAmount:        movement.CreditAmount,
		RemainingBalance:    entry.RemainingBalance,
		CreditLimit:         supplier.Account.CreditLimit,
	})

	return accountEvents(purchase.StoreID, supplier.ID, partner.OwnerTypeSupplier, supplier.Name, &supplier.Account, movement), nil
}

// ensureBatchesUntouched rejects item edits once any of the purchase's
// batches has been consumed against.
func (s *PurchaseService) ensureBatchesUntouched(ctx context.Context, repos TransactionalRepositories, purchaseID uuid.UUID) error {
	batches, err := repos.BatchRepo().FindByPurchase(ctx, purchaseID)
	if err != nil {
		return err
	}
	for i := range batches {
		if !batches[i].Untouched() {
			return shared.NewDomainError("BATCH_ALREADY_CONSUMED",
				fmt.Sprintf("Batch %s has been partially consumed; record a supplier return instead of editing items",
					batches[i].BatchNumber))
		}
	}
	return nil
}

func (s *PurchaseService) creditTermsChanged(purchase *trade.Purchase, req UpdatePurchaseRequest, newTotal decimal.Decimal) (bool, error) {
	if !uuidPtrEqual(purchase.SupplierID, req.SupplierID) {
		return true, nil
	}
	if purchase.PaymentType != req.PaymentType {
		return true, nil
	}
	if !purchase.GrandTotal.Equal(newTotal) {
		return true, nil
	}
	if req.PaymentType == partner.PaymentTypeSplit {
		split, err := resolveSplit(req.PaymentType, req.Split, newTotal)
		if err != nil {
			return false, err
		}
		if !split.CashAmount().Equal(purchase.Snapshot.CashAmount) ||
			!split.CreditAmount().Equal(purchase.Snapshot.CreditAmount) {
			return true, nil
		}
	}
	return false, nil
}

func (s *PurchaseService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func purchaseProductIDs(items []PurchaseItemRequest) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
