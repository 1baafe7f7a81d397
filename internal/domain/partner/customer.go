package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer is a counterparty who buys from the store. Its embedded
// CreditAccount is the aggregate's precision core: all mutation goes
// through AccountMovement.Apply inside a transaction.
type Customer struct {
	shared.StoreAggregateRoot
	Code    string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_customer_store_code,priority:2"`
	Name    string         `gorm:"type:varchar(200);not null"`
	Phone   string         `gorm:"type:varchar(50);index"`
	Email   string         `gorm:"type:varchar(200);index"`
	Address string         `gorm:"type:text"`
	Status  CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Account CreditAccount  `gorm:"embedded;embeddedPrefix:account_"`
	Notes   string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new cash-account customer
func NewCustomer(storeID uuid.UUID, code, name string) (*Customer, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}

	customer := &Customer{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Code:               strings.ToUpper(code),
		Name:               name,
		Status:             CustomerStatusActive,
		Account:            NewCashAccount(),
	}
	return customer, nil
}

// EnableCredit converts the account to a credit account with the given limit
func (c *Customer) EnableCredit(creditLimit decimal.Decimal) error {
	if creditLimit.IsNegative() {
		return shared.NewDomainError("INVALID_LIMIT", "Credit limit cannot be negative")
	}
	c.Account.AccountType = AccountTypeCredit
	c.Account.CreditLimit = creditLimit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// UpdateCreditLimit changes the credit limit. The new limit must cover
// the credit already consumed.
func (c *Customer) UpdateCreditLimit(creditLimit decimal.Decimal) error {
	if !c.Account.SupportsCredit() {
		return shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Customer has a cash-only account")
	}
	if creditLimit.LessThan(c.Account.UsedAmount) {
		return shared.NewDomainError("INVALID_LIMIT", "Credit limit cannot be below the amount already used")
	}
	c.Account.CreditLimit = creditLimit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Update updates the customer's contact information
func (c *Customer) Update(name, phone, email, address string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	c.Name = name
	c.Phone = phone
	c.Email = email
	c.Address = address
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// ApplyMovement writes an account movement and bumps the version for
// optimistic locking
func (c *Customer) ApplyMovement(movement AccountMovement) error {
	if err := c.Account.Apply(movement); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Deactivate marks the customer inactive
func (c *Customer) Deactivate() {
	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsActive returns true if the customer can trade
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}
