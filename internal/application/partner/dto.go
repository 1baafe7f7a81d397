package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest is the request to create a customer
type CreateCustomerRequest struct {
	Code    string `json:"code" binding:"required,max=50"`
	Name    string `json:"name" binding:"required,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// UpdateCustomerRequest is the request to update customer contact details
type UpdateCustomerRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

// CreateSupplierRequest is the request to create a supplier
type CreateSupplierRequest struct {
	Code          string `json:"code" binding:"required,max=50"`
	Name          string `json:"name" binding:"required,max=200"`
	ContactPerson string `json:"contact_person" binding:"max=100"`
	Phone         string `json:"phone" binding:"max=50"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address"`
}

// UpdateSupplierRequest is the request to update supplier contact details
type UpdateSupplierRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	ContactPerson string `json:"contact_person" binding:"max=100"`
	Phone         string `json:"phone" binding:"max=50"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address"`
}

// EnableCreditRequest converts a cash account to a credit account.
// InitialCredit, when positive, is granted as an opening balance and
// recorded as an initial-credit ledger entry.
type EnableCreditRequest struct {
	CreditLimit   decimal.Decimal `json:"credit_limit" binding:"required"`
	InitialCredit decimal.Decimal `json:"initial_credit"`
}

// UpdateCreditLimitRequest changes an existing credit limit
type UpdateCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"required"`
}

// PaymentRequest records a counterparty payment against consumed credit
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Note   string          `json:"note" binding:"max=255"`
}

// ManualAdjustmentRequest adds or excludes counterparty credit
type ManualAdjustmentRequest struct {
	Direction partner.AdjustmentDirection `json:"direction" binding:"required,oneof=add exclude"`
	Amount    decimal.Decimal             `json:"amount" binding:"required"`
	Note      string                      `json:"note" binding:"max=255"`
}

// AccountResponse is the API representation of a credit account
type AccountResponse struct {
	AccountType     string          `json:"account_type"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	UsedAmount      decimal.Decimal `json:"used_amount"`
	Balance         decimal.Decimal `json:"balance"`
	NetBalance      decimal.Decimal `json:"net_balance"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
}

// CustomerResponse is the API representation of a customer
type CustomerResponse struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	Email     string          `json:"email,omitempty"`
	Address   string          `json:"address,omitempty"`
	Status    string          `json:"status"`
	Account   AccountResponse `json:"account"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SupplierResponse is the API representation of a supplier
type SupplierResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	ContactPerson string          `json:"contact_person,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Email         string          `json:"email,omitempty"`
	Address       string          `json:"address,omitempty"`
	Status        string          `json:"status"`
	Account       AccountResponse `json:"account"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StatementEntryResponse is one line of an account statement
type StatementEntryResponse struct {
	ID                    uuid.UUID       `json:"id"`
	TransactionType       string          `json:"transaction_type"`
	PaymentType           string          `json:"payment_type"`
	PreviousBalance       decimal.Decimal `json:"previous_balance"`
	Amount                decimal.Decimal `json:"amount"`
	CashAmount            decimal.Decimal `json:"cash_amount"`
	CreditAmount          decimal.Decimal `json:"credit_amount"`
	RemainingBalance      decimal.Decimal `json:"remaining_balance"`
	SourceType            string          `json:"source_type"`
	SourceID              *uuid.UUID      `json:"source_id,omitempty"`
	ReversedTransactionID *uuid.UUID      `json:"reversed_transaction_id,omitempty"`
	Note                  string          `json:"note,omitempty"`
	TransactionDate       time.Time       `json:"transaction_date"`
}

// ToAccountResponse converts a credit account to its API representation
func ToAccountResponse(a *partner.CreditAccount) AccountResponse {
	return AccountResponse{
		AccountType:     string(a.AccountType),
		CreditLimit:     a.CreditLimit,
		UsedAmount:      a.UsedAmount,
		Balance:         a.Balance,
		NetBalance:      a.NetBalance(),
		AvailableCredit: a.AvailableCredit(),
	}
}

// ToCustomerResponse converts a customer to its API representation
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Status:    string(c.Status),
		Account:   ToAccountResponse(&c.Account),
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToSupplierResponse converts a supplier to its API representation
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		Status:        string(s.Status),
		Account:       ToAccountResponse(&s.Account),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ToStatementEntryResponse converts a ledger entry to a statement line
func ToStatementEntryResponse(t *partner.CreditTransaction) StatementEntryResponse {
	return StatementEntryResponse{
		ID:                    t.ID,
		TransactionType:       string(t.TransactionType),
		PaymentType:           string(t.PaymentType),
		PreviousBalance:       t.PreviousBalance,
		Amount:                t.Amount,
		CashAmount:            t.CashAmount,
		CreditAmount:          t.CreditAmount,
		RemainingBalance:      t.RemainingBalance,
		SourceType:            string(t.SourceType),
		SourceID:              t.SourceID,
		ReversedTransactionID: t.ReversedTransactionID,
		Note:                  t.Note,
		TransactionDate:       t.TransactionDate,
	}
}

// ToStatementEntryResponses converts a slice of ledger entries
func ToStatementEntryResponses(txs []partner.CreditTransaction) []StatementEntryResponse {
	responses := make([]StatementEntryResponse, len(txs))
	for i := range txs {
		responses[i] = ToStatementEntryResponse(&txs[i])
	}
	return responses
}
