package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
)

// SupplierService handles supplier management and supplier-side credit
// operations. The store consumes supplier credit when buying on credit;
// payments to the supplier pay that consumption back down.
type SupplierService struct {
	scope          TransactionScope
	ledger         *AccountLedger
	supplierRepo   partner.SupplierRepository
	creditTxRepo   partner.CreditTransactionRepository
	eventPublisher shared.EventPublisher
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(
	scope TransactionScope,
	supplierRepo partner.SupplierRepository,
	creditTxRepo partner.CreditTransactionRepository,
) *SupplierService {
	return &SupplierService{
		scope:        scope,
		ledger:       NewAccountLedger(),
		supplierRepo: supplierRepo,
		creditTxRepo: creditTxRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new supplier with a cash account
func (s *SupplierService) Create(ctx context.Context, storeID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	existing, err := s.supplierRepo.FindByCode(ctx, storeID, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A supplier with this code already exists")
	}

	supplier, err := partner.NewSupplier(storeID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	supplier.ContactPerson = req.ContactPerson
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Update updates a supplier's contact information
func (s *SupplierService) Update(ctx context.Context, storeID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForStore(ctx, storeID, supplierID)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.Name, req.ContactPerson, req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.SaveWithVersion(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Get returns one supplier
func (s *SupplierService) Get(ctx context.Context, storeID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForStore(ctx, storeID, supplierID)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List returns the store's suppliers
func (s *SupplierService) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]SupplierResponse, error) {
	suppliers, err := s.supplierRepo.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses, nil
}

// Deactivate marks a supplier inactive
func (s *SupplierService) Deactivate(ctx context.Context, storeID, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByIDForStore(ctx, storeID, supplierID)
	if err != nil {
		return err
	}
	supplier.Deactivate()
	return s.supplierRepo.SaveWithVersion(ctx, supplier)
}

// EnableCredit converts the supplier's account to a credit account
func (s *SupplierService) EnableCredit(ctx context.Context, storeID, supplierID, performedBy uuid.UUID, req EnableCreditRequest) (*SupplierResponse, error) {
	var supplier *partner.Supplier
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		supplier, err = repos.SupplierRepo().FindByIDForStore(ctx, storeID, supplierID)
		if err != nil {
			return err
		}
		if err := supplier.EnableCredit(req.CreditLimit); err != nil {
			return err
		}
		if err := repos.SupplierRepo().SaveWithVersion(ctx, supplier); err != nil {
			return err
		}

		if req.InitialCredit.IsPositive() {
			movement, err := partner.ComputeManualAdjustment(&supplier.Account, partner.AdjustmentAdd, req.InitialCredit)
			if err != nil {
				return err
			}
			supplier, _, err = s.ledger.ApplyToSupplier(ctx, repos, ApplyParams{
				StoreID:     storeID,
				OwnerID:     supplierID,
				Movement:    movement,
				TxType:      partner.CreditTxTypeInitialCredit,
				PaymentType: partner.PaymentTypeCredit,
				SourceType:  partner.CreditSourceManual,
				PerformedBy: performedBy,
			})
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// RecordPayment records a payment made to the supplier against the
// credit the store has consumed
func (s *SupplierService) RecordPayment(ctx context.Context, storeID, supplierID, performedBy uuid.UUID, req PaymentRequest) (*SupplierResponse, error) {
	var supplier *partner.Supplier
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		current, err := repos.SupplierRepo().FindByIDForStore(ctx, storeID, supplierID)
		if err != nil {
			return err
		}
		movement, err := partner.ComputeManualAdjustment(&current.Account, partner.AdjustmentAdd, req.Amount)
		if err != nil {
			return err
		}
		supplier, _, err = s.ledger.ApplyToSupplier(ctx, repos, ApplyParams{
			StoreID:     storeID,
			OwnerID:     supplierID,
			Movement:    movement,
			TxType:      partner.CreditTxTypePayment,
			PaymentType: partner.PaymentTypeCash,
			SourceType:  partner.CreditSourcePayment,
			PerformedBy: performedBy,
			Note:        req.Note,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx,
			partner.NewPaymentRecordedEvent(storeID, supplierID, partner.OwnerTypeSupplier, supplier.Name, req.Amount))
	}

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// ManualAdjustment adds or excludes supplier credit outside any document
func (s *SupplierService) ManualAdjustment(ctx context.Context, storeID, supplierID, performedBy uuid.UUID, req ManualAdjustmentRequest) (*SupplierResponse, error) {
	txType := partner.CreditTxTypeBalanceAdded
	if req.Direction == partner.AdjustmentExclude {
		txType = partner.CreditTxTypeBalanceExcluded
	}

	var supplier *partner.Supplier
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		current, err := repos.SupplierRepo().FindByIDForStore(ctx, storeID, supplierID)
		if err != nil {
			return err
		}
		movement, err := partner.ComputeManualAdjustment(&current.Account, req.Direction, req.Amount)
		if err != nil {
			return err
		}
		supplier, _, err = s.ledger.ApplyToSupplier(ctx, repos, ApplyParams{
			StoreID:     storeID,
			OwnerID:     supplierID,
			Movement:    movement,
			TxType:      txType,
			PaymentType: partner.PaymentTypeCredit,
			SourceType:  partner.CreditSourceManual,
			PerformedBy: performedBy,
			Note:        req.Note,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Statement returns the supplier's paginated credit ledger history
func (s *SupplierService) Statement(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) (*shared.Paginated[StatementEntryResponse], error) {
	entries, total, err := s.creditTxRepo.FindByOwner(ctx, partner.OwnerTypeSupplier, supplierID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToStatementEntryResponses(entries), total, filter.Page, filter.PageSize)
	return &page, nil
}
