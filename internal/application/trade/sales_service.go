package trade

import (
	"context"

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

// SalesService is the transaction coordinator for sales. One call moves
// stock through the batch ledger, charges the customer account through
// the account ledger and persists the document header, all inside a
// single transaction scope. A failure at any step rolls back every
// effect.
type SalesService struct {
	scope          TransactionScope
	stockLedger    *appinventory.BatchLedger
	accountLedger  *apppartner.AccountLedger
	saleRepo       trade.SaleRepository
	eventPublisher shared.EventPublisher
}

// NewSalesService creates a new SalesService
func NewSalesService(scope TransactionScope, saleRepo trade.SaleRepository) *SalesService {
	return &SalesService{
		scope:         scope,
		stockLedger:   appinventory.NewBatchLedger(),
		accountLedger: apppartner.NewAccountLedger(),
		saleRepo:      saleRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SalesService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a sale (or customer return) and applies all of its
// effects atomically.
func (s *SalesService) Create(ctx context.Context, storeID, performedBy uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	kind := req.Kind
	if kind == "" {
		kind = trade.DocumentKindNormal
	}

	var sale *trade.Sale
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.SaleRepo().GenerateNumber(ctx, storeID)
		if err != nil {
			return err
		}
		sale, err = trade.NewSale(storeID, number, req.CustomerID, kind, req.PaymentType)
		if err != nil {
			return err
		}
		sale.SetCreatedBy(performedBy)
		sale.Notes = req.Notes

		products, err := s.loadProducts(ctx, repos, storeID, saleProductIDs(req.Items))
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			product := products[item.ProductID]
			if _, err := sale.AddItem(item.ProductID, product.Name, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
		}

		stockEvents, err := s.applyStock(ctx, repos, sale, performedBy)
		if err != nil {
			return err
		}
		events = append(events, stockEvents...)

		creditEvents, err := s.applyCredit(ctx, repos, sale, req.Split, performedBy)
		if err != nil {
			return err
		}
		events = append(events, creditEvents...)

		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		events = append(events, trade.NewSaleCompletedEvent(sale))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// Update edits a sale. Changes that touch neither stock nor the account
// (notes only) are written directly. Item or payment changes reverse the
// old effects with compensating ledger entries and apply the new ones in
// the same transaction.
func (s *SalesService) Update(ctx context.Context, storeID, saleID, performedBy uuid.UUID, req UpdateSaleRequest) (*SaleResponse, error) {
	var sale *trade.Sale
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByIDForStore(ctx, storeID, saleID)
		if err != nil {
			return err
		}
		if sale.IsCancelled() {
			return shared.NewDomainError("INVALID_STATE", "Cancelled sales cannot be edited")
		}

		products, err := s.loadProducts(ctx, repos, storeID, saleProductIDs(req.Items))
		if err != nil {
			return err
		}
		newItems := make([]trade.SaleItem, 0, len(req.Items))
		newTotal := decimal.Zero
		for _, item := range req.Items {
			product := products[item.ProductID]
			if !item.Quantity.IsPositive() {
				return shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
			}
			if item.UnitPrice.IsNegative() {
				return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
			}
			newItems = append(newItems, trade.SaleItem{
				BaseEntity:  shared.NewBaseEntity(),
				ProductID:   item.ProductID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Subtotal:    item.Quantity.Mul(item.UnitPrice),
			})
			newTotal = newTotal.Add(item.Quantity.Mul(item.UnitPrice))
		}

		itemsChanged := sale.ItemsDiffer(newItems)
		creditChanged, err := s.creditTermsChanged(sale, req, newTotal)
		if err != nil {
			return err
		}

		if !itemsChanged && !creditChanged {
			// Fast path: nothing ledger-relevant moved
			sale.Notes = req.Notes
			return repos.SaleRepo().Save(ctx, sale)
		}

		if itemsChanged {
			reverted, err := s.stockLedger.Reverse(ctx, repos, inventory.SourceTypeSale, sale.ID, performedBy)
			if err != nil {
				return err
			}
			collectProductEvents(&events, reverted)
		}

		sale.ReplaceItems(newItems)

		if itemsChanged {
			stockEvents, err := s.applyStock(ctx, repos, sale, performedBy)
			if err != nil {
				return err
			}
			events = append(events, stockEvents...)
		}

		if creditChanged {
			if err := s.accountLedger.Reverse(ctx, repos, partner.CreditSourceSale, sale.ID, performedBy); err != nil {
				return err
			}
			sale.CustomerID = req.CustomerID
			sale.PaymentType = req.PaymentType
			sale.SetSnapshot(trade.AccountSnapshot{})

			creditEvents, err := s.applyCredit(ctx, repos, sale, req.Split, performedBy)
			if err != nil {
				return err
			}
			events = append(events, creditEvents...)
		}

		sale.Notes = req.Notes
		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// Delete cancels a sale: every inventory and credit effect is undone
// with compensating ledger entries and the document is marked cancelled.
// The header and its ledger history remain queryable.
func (s *SalesService) Delete(ctx context.Context, storeID, saleID, performedBy uuid.UUID) error {
	var sale *trade.Sale
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByIDForStore(ctx, storeID, saleID)
		if err != nil {
			return err
		}
		if sale.IsCancelled() {
			return shared.NewDomainError("INVALID_STATE", "Sale is already cancelled")
		}

		reverted, err := s.stockLedger.Reverse(ctx, repos, inventory.SourceTypeSale, sale.ID, performedBy)
		if err != nil {
			return err
		}
		collectProductEvents(&events, reverted)

		if err := s.accountLedger.Reverse(ctx, repos, partner.CreditSourceSale, sale.ID, performedBy); err != nil {
			return err
		}

		if err := sale.Cancel(); err != nil {
			return err
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		events = append(events, trade.NewSaleCancelledEvent(sale))
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

// Get returns one sale
func (s *SalesService) Get(ctx context.Context, storeID, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForStore(ctx, storeID, saleID)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// List returns the store's sales
func (s *SalesService) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]SaleResponse, error) {
	sales, err := s.saleRepo.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i])
	}
	return responses, nil
}

// applyStock moves stock for every line of the sale: outbound FEFO
// consumption for normal sales, uncapped inbound for customer returns.
func (s *SalesService) applyStock(ctx context.Context, repos TransactionalRepositories, sale *trade.Sale, performedBy uuid.UUID) ([]shared.DomainEvent, error) {
	var events []shared.DomainEvent
	for _, item := range sale.Items {
		var product *catalog.Product
		var err error

		switch sale.Kind {
		case trade.DocumentKindNormal:
			_, product, err = s.stockLedger.ConsumeForSale(ctx, repos, appinventory.ConsumeParams{
				StoreID:     sale.StoreID,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				SourceType:  inventory.SourceTypeSale,
				SourceID:    sale.ID,
				PerformedBy: performedBy,
				CustomerID:  sale.CustomerID,
			})
		case trade.DocumentKindReturn:
			product, err = s.stockLedger.ReturnFromCustomer(ctx, repos, appinventory.ReturnParams{
				StoreID:     sale.StoreID,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				SourceType:  inventory.SourceTypeSale,
				SourceID:    sale.ID,
				PerformedBy: performedBy,
				CustomerID:  sale.CustomerID,
			})
		}
		if err != nil {
			return nil, err
		}
		collectProductEvents(&events, []*catalog.Product{product})
	}
	return events, nil
}

// applyCredit charges or credits the customer account and embeds the
// resulting snapshot on the sale header. Sales without a customer must
// be paid fully in cash.
func (s *SalesService) applyCredit(ctx context.Context, repos TransactionalRepositories, sale *trade.Sale, splitReq *SplitRequest, performedBy uuid.UUID) ([]shared.DomainEvent, error) {
	if sale.CustomerID == nil {
		if sale.PaymentType != partner.PaymentTypeCash {
			return nil, shared.NewDomainError("CUSTOMER_REQUIRED",
				"Credit or split payment requires a customer")
		}
		return nil, nil
	}

	split, err := resolveSplit(sale.PaymentType, splitReq, sale.GrandTotal)
	if err != nil {
		return nil, err
	}

	customer, err := repos.CustomerRepo().FindByIDForStore(ctx, sale.StoreID, *sale.CustomerID)
	if err != nil {
		return nil, err
	}

	direction := partner.DirectionTrade
	txType := partner.CreditTxTypeSale
	if sale.Kind == trade.DocumentKindReturn {
		direction = partner.DirectionReturn
		txType = partner.CreditTxTypeReturn
	}

	movement, err := partner.ComputeMovement(&customer.Account, direction, sale.PaymentType, sale.GrandTotal, split)
	if err != nil {
		return nil, err
	}

	saleID := sale.ID
	customer, entry, err := s.accountLedger.ApplyToCustomer(ctx, repos, apppartner.ApplyParams{
		StoreID:     sale.StoreID,
		OwnerID:     *sale.CustomerID,
		Movement:    movement,
		TxType:      txType,
		PaymentType: sale.PaymentType,
		SourceType:  partner.CreditSourceSale,
		SourceID:    &saleID,
		PerformedBy: performedBy,
	})
	if err != nil {
		return nil, err
	}

	entryID := entry.ID
	sale.SetSnapshot(trade.AccountSnapshot{
		CreditTransactionID: &entryID,
		PaymentType:         string(sale.PaymentType),
		BalanceUsed:         movement.BalanceUsed,
		CreditUsed:          movement.CreditUsed,
		CashAmount:          movement.CashAmount,
		CreditAmount:        movement.CreditAmount,
		RemainingBalance:    entry.RemainingBalance,
		CreditLimit:         customer.Account.CreditLimit,
	})

	return accountEvents(sale.StoreID, customer.ID, partner.OwnerTypeCustomer, customer.Name, &customer.Account, movement), nil
}

// creditTermsChanged reports whether the update alters the account
// effect: a different counterparty, payment type, total or split.
func (s *SalesService) creditTermsChanged(sale *trade.Sale, req UpdateSaleRequest, newTotal decimal.Decimal) (bool, error) {
	if !uuidPtrEqual(sale.CustomerID, req.CustomerID) {
		return true, nil
	}
	if sale.PaymentType != req.PaymentType {
		return true, nil
	}
	if !sale.GrandTotal.Equal(newTotal) {
		return true, nil
	}
	if req.PaymentType == partner.PaymentTypeSplit {
		split, err := resolveSplit(req.PaymentType, req.Split, newTotal)
		if err != nil {
			return false, err
		}
		if !split.CashAmount().Equal(sale.Snapshot.CashAmount) ||
			!split.CreditAmount().Equal(sale.Snapshot.CreditAmount) {
			return true, nil
		}
	}
	return false, nil
}

func (s *SalesService) loadProducts(ctx context.Context, repos TransactionalRepositories, storeID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	return loadActiveProducts(ctx, repos, storeID, ids)
}

func (s *SalesService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func saleProductIDs(items []SaleItemRequest) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
