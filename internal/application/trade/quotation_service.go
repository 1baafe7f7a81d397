package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
)

// QuotationService manages the quotation lifecycle. Quotations never
// touch stock or accounts; conversion delegates the full effect chain
// to the sales service.
type QuotationService struct {
	scope          TransactionScope
	quotationRepo  trade.QuotationRepository
	salesService   *SalesService
	eventPublisher shared.EventPublisher
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(scope TransactionScope, quotationRepo trade.QuotationRepository, salesService *SalesService) *QuotationService {
	return &QuotationService{
		scope:         scope,
		quotationRepo: quotationRepo,
		salesService:  salesService,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QuotationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a draft quotation
func (s *QuotationService) Create(ctx context.Context, storeID, performedBy uuid.UUID, req CreateQuotationRequest) (*QuotationResponse, error) {
	var quotation *trade.Quotation

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.QuotationRepo().GenerateNumber(ctx, storeID)
		if err != nil {
			return err
		}
		quotation, err = trade.NewQuotation(storeID, number, req.CustomerID)
		if err != nil {
			return err
		}
		quotation.SetCreatedBy(performedBy)
		quotation.ValidUntil = req.ValidUntil
		quotation.Notes = req.Notes

		products, err := loadActiveProducts(ctx, repos, storeID, quotationProductIDs(req.Items))
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			product := products[item.ProductID]
			if err := quotation.AddItem(item.ProductID, product.Name, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
		}
		return repos.QuotationRepo().Save(ctx, quotation)
	})
	if err != nil {
		return nil, err
	}

	resp := ToQuotationResponse(quotation)
	return &resp, nil
}

// Update rewrites a quotation. Only drafts can be edited.
func (s *QuotationService) Update(ctx context.Context, storeID, quotationID, performedBy uuid.UUID, req UpdateQuotationRequest) (*QuotationResponse, error) {
	var quotation *trade.Quotation

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		quotation, err = repos.QuotationRepo().FindByIDForStore(ctx, storeID, quotationID)
		if err != nil {
			return err
		}
		if quotation.Status != trade.QuotationStatusDraft {
			return shared.NewDomainError("INVALID_STATE", "Only draft quotations can be edited")
		}

		products, err := loadActiveProducts(ctx, repos, storeID, quotationProductIDs(req.Items))
		if err != nil {
			return err
		}
		quotation.CustomerID = req.CustomerID
		quotation.ValidUntil = req.ValidUntil
		quotation.Notes = req.Notes
		quotation.Items = nil
		for _, item := range req.Items {
			product := products[item.ProductID]
			if err := quotation.AddItem(item.ProductID, product.Name, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
		}
		return repos.QuotationRepo().Save(ctx, quotation)
	})
	if err != nil {
		return nil, err
	}

	resp := ToQuotationResponse(quotation)
	return &resp, nil
}

// MarkSent transitions a draft quotation to sent
func (s *QuotationService) MarkSent(ctx context.Context, storeID, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, storeID, quotationID, (*trade.Quotation).MarkSent)
}

// Accept marks a quotation accepted
func (s *QuotationService) Accept(ctx context.Context, storeID, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, storeID, quotationID, func(q *trade.Quotation) error {
		if q.IsExpired() {
			return shared.NewDomainError("QUOTATION_EXPIRED", "Quotation validity window has passed")
		}
		return q.Accept()
	})
}

// Reject marks a quotation rejected
func (s *QuotationService) Reject(ctx context.Context, storeID, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, storeID, quotationID, (*trade.Quotation).Reject)
}

// ConvertToSale turns an accepted quotation into a sale at the quoted
// prices. The sale carries the full stock and account effects; the
// quotation only records the link.
func (s *QuotationService) ConvertToSale(ctx context.Context, storeID, quotationID, performedBy uuid.UUID, req ConvertQuotationRequest) (*SaleResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForStore(ctx, storeID, quotationID)
	if err != nil {
		return nil, err
	}
	if quotation.Status != trade.QuotationStatusAccepted {
		return nil, shared.NewDomainError("INVALID_STATE", "Only accepted quotations can be converted")
	}
	if quotation.IsExpired() {
		return nil, shared.NewDomainError("QUOTATION_EXPIRED", "Quotation validity window has passed")
	}

	saleReq := CreateSaleRequest{
		CustomerID:  quotation.CustomerID,
		Kind:        trade.DocumentKindNormal,
		PaymentType: req.PaymentType,
		Split:       req.Split,
		Notes:       quotation.Notes,
	}
	for _, item := range quotation.Items {
		saleReq.Items = append(saleReq.Items, SaleItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	sale, err := s.salesService.Create(ctx, storeID, performedBy, saleReq)
	if err != nil {
		return nil, err
	}

	// The sale is committed at this point. A failure below leaves the
	// quotation accepted with the sale already on the books, which the
	// caller can retry.
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		fresh, err := repos.QuotationRepo().FindByIDForStore(ctx, storeID, quotationID)
		if err != nil {
			return err
		}
		if err := fresh.MarkConverted(sale.ID); err != nil {
			return err
		}
		quotation = fresh
		return repos.QuotationRepo().Save(ctx, fresh)
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, trade.NewQuotationConvertedEvent(quotation, sale.Number))
	}
	return sale, nil
}

// Get returns one quotation
func (s *QuotationService) Get(ctx context.Context, storeID, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForStore(ctx, storeID, quotationID)
	if err != nil {
		return nil, err
	}
	resp := ToQuotationResponse(quotation)
	return &resp, nil
}

// List returns the store's quotations
func (s *QuotationService) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]QuotationResponse, error) {
	quotations, err := s.quotationRepo.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]QuotationResponse, len(quotations))
	for i := range quotations {
		responses[i] = ToQuotationResponse(&quotations[i])
	}
	return responses, nil
}

func (s *QuotationService) transition(ctx context.Context, storeID, quotationID uuid.UUID, fn func(*trade.Quotation) error) (*QuotationResponse, error) {
	var quotation *trade.Quotation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		quotation, err = repos.QuotationRepo().FindByIDForStore(ctx, storeID, quotationID)
		if err != nil {
			return err
		}
		if err := fn(quotation); err != nil {
			return err
		}
		return repos.QuotationRepo().Save(ctx, quotation)
	})
	if err != nil {
		return nil, err
	}
	resp := ToQuotationResponse(quotation)
	return &resp, nil
}

func quotationProductIDs(items []QuotationItemRequest) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
