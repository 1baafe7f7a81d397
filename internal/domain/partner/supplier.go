package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// Supplier is a counterparty the store buys from. Credit bookkeeping
// mirrors Customer: the store consumes the supplier's credit when buying
// on credit, and returns pay it back down.
type Supplier struct {
	shared.StoreAggregateRoot
	Code          string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_supplier_store_code,priority:2"`
	Name          string         `gorm:"type:varchar(200);not null"`
	ContactPerson string         `gorm:"type:varchar(100)"`
	Phone         string         `gorm:"type:varchar(50);index"`
	Email         string         `gorm:"type:varchar(200);index"`
	Address       string         `gorm:"type:text"`
	Status        SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Account       CreditAccount  `gorm:"embedded;embeddedPrefix:account_"`
	Notes         string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new cash-account supplier
func NewSupplier(storeID uuid.UUID, code, name string) (*Supplier, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Supplier code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}

	return &Supplier{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Code:               strings.ToUpper(code),
		Name:               name,
		Status:             SupplierStatusActive,
		Account:            NewCashAccount(),
	}, nil
}

// EnableCredit converts the account to a credit account with the given limit
func (s *Supplier) EnableCredit(creditLimit decimal.Decimal) error {
	if creditLimit.IsNegative() {
		return shared.NewDomainError("INVALID_LIMIT", "Credit limit cannot be negative")
	}
	s.Account.AccountType = AccountTypeCredit
	s.Account.CreditLimit = creditLimit
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Update updates the supplier's contact information
func (s *Supplier) Update(name, contactPerson, phone, email, address string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	s.Name = name
	s.ContactPerson = contactPerson
	s.Phone = phone
	s.Email = email
	s.Address = address
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// ApplyMovement writes an account movement and bumps the version for
// optimistic locking
func (s *Supplier) ApplyMovement(movement AccountMovement) error {
	if err := s.Account.Apply(movement); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deactivate marks the supplier inactive
func (s *Supplier) Deactivate() {
	s.Status = SupplierStatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsActive returns true if the supplier can trade
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}
