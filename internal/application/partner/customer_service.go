package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
)

// CustomerService handles customer management and the credit operations
// initiated from the customer side: payments, manual credit adjustments
// and initial credit grants.
type CustomerService struct {
	scope          TransactionScope
	ledger         *AccountLedger
	customerRepo   partner.CustomerRepository
	creditTxRepo   partner.CreditTransactionRepository
	eventPublisher shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	scope TransactionScope,
	customerRepo partner.CustomerRepository,
	creditTxRepo partner.CreditTransactionRepository,
) *CustomerService {
	return &CustomerService{
		scope:        scope,
		ledger:       NewAccountLedger(),
		customerRepo: customerRepo,
		creditTxRepo: creditTxRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new customer with a cash account
func (s *CustomerService) Create(ctx context.Context, storeID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	existing, err := s.customerRepo.FindByCode(ctx, storeID, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this code already exists")
	}

	customer, err := partner.NewCustomer(storeID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address
	customer.Notes = req.Notes

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Update updates a customer's contact information
func (s *CustomerService) Update(ctx context.Context, storeID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForStore(ctx, storeID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(req.Name, req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}
	if err := s.customerRepo.SaveWithVersion(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Get returns one customer
func (s *CustomerService) Get(ctx context.Context, storeID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForStore(ctx, storeID, customerID)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List returns the store's customers
func (s *CustomerService) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]CustomerResponse, error) {
	customers, err := s.customerRepo.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, nil
}

// Deactivate marks a customer inactive
func (s *CustomerService) Deactivate(ctx context.Context, storeID, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByIDForStore(ctx, storeID, customerID)
	if err != nil {
		return err
	}
	customer.Deactivate()
	return s.customerRepo.SaveWithVersion(ctx, customer)
}

// EnableCredit converts the customer's account to a credit account. A
// positive initial credit is granted in the same transaction and
// recorded as an initial-credit ledger entry.
func (s *CustomerService) EnableCredit(ctx context.Context, storeID, customerID, performedBy uuid.UUID, req EnableCreditRequest) (*CustomerResponse, error) {
	var customer *partner.Customer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		customer, err = repos.CustomerRepo().FindByIDForStore(ctx, storeID, customerID)
		if err != nil {
			return err
		}
		if err := customer.EnableCredit(req.CreditLimit); err != nil {
			return err
		}
		if err := repos.CustomerRepo().SaveWithVersion(ctx, customer); err != nil {
			return err
		}

		if req.InitialCredit.IsPositive() {
			movement, err := partner.ComputeManualAdjustment(&customer.Account, partner.AdjustmentAdd, req.InitialCredit)
			if err != nil {
				return err
			}
			customer, _, err = s.ledger.ApplyToCustomer(ctx, repos, ApplyParams{
				StoreID:     storeID,
				OwnerID:     customerID,
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
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// UpdateCreditLimit changes the customer's credit limit
func (s *CustomerService) UpdateCreditLimit(ctx context.Context, storeID, customerID uuid.UUID, req UpdateCreditLimitRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForStore(ctx, storeID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.UpdateCreditLimit(req.CreditLimit); err != nil {
		return nil, err
	}
	if err := s.customerRepo.SaveWithVersion(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// RecordPayment records a payment from the customer against their
// consumed credit. Payments pay down the used amount first; any excess
// accrues to the customer's balance.
func (s *CustomerService) RecordPayment(ctx context.Context, storeID, customerID, performedBy uuid.UUID, req PaymentRequest) (*CustomerResponse, error) {
	var customer *partner.Customer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		current, err := repos.CustomerRepo().FindByIDForStore(ctx, storeID, customerID)
		if err != nil {
			return err
		}
		movement, err := partner.ComputeManualAdjustment(&current.Account, partner.AdjustmentAdd, req.Amount)
		if err != nil {
			return err
		}
		customer, _, err = s.ledger.ApplyToCustomer(ctx, repos, ApplyParams{
			StoreID:     storeID,
			OwnerID:     customerID,
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

	s.publish(ctx, partner.NewPaymentRecordedEvent(storeID, customerID, partner.OwnerTypeCustomer, customer.Name, req.Amount))

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// ManualAdjustment adds or excludes customer credit outside any document
func (s *CustomerService) ManualAdjustment(ctx context.Context, storeID, customerID, performedBy uuid.UUID, req ManualAdjustmentRequest) (*CustomerResponse, error) {
	txType := partner.CreditTxTypeBalanceAdded
	if req.Direction == partner.AdjustmentExclude {
		txType = partner.CreditTxTypeBalanceExcluded
	}

	var customer *partner.Customer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		current, err := repos.CustomerRepo().FindByIDForStore(ctx, storeID, customerID)
		if err != nil {
			return err
		}
		movement, err := partner.ComputeManualAdjustment(&current.Account, req.Direction, req.Amount)
		if err != nil {
			return err
		}
		customer, _, err = s.ledger.ApplyToCustomer(ctx, repos, ApplyParams{
			StoreID:     storeID,
			OwnerID:     customerID,
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
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Statement returns the customer's paginated credit ledger history
func (s *CustomerService) Statement(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[StatementEntryResponse], error) {
	entries, total, err := s.creditTxRepo.FindByOwner(ctx, partner.OwnerTypeCustomer, customerID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToStatementEntryResponses(entries), total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *CustomerService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, event)
}
