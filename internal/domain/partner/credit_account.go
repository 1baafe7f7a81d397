package partner

import (
	"github.com/shopspring/decimal"
)

// AccountType represents how a counterparty settles transactions
type AccountType string

const (
	// AccountTypeCash settles everything immediately; no credit bookkeeping
	AccountTypeCash AccountType = "cash"
	// AccountTypeCredit allows buying/selling on credit up to a limit
	AccountTypeCredit AccountType = "credit"
)

// IsValid returns true if the account type is valid
func (t AccountType) IsValid() bool {
	return t == AccountTypeCash || t == AccountTypeCredit
}

// CreditAccount is the 2-register credit accumulator embedded in Customer
// and Supplier. Balance is credit the counterparty holds in their favor;
// UsedAmount is credit they have consumed against CreditLimit.
//
// Committed states always satisfy 0 <= UsedAmount <= CreditLimit and
// Balance >= 0; every movement is checked before any write.
type CreditAccount struct {
	AccountType AccountType     `gorm:"type:varchar(10);not null;default:'cash'"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UsedAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Balance     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// NewCashAccount returns a cash-only account
func NewCashAccount() CreditAccount {
	return CreditAccount{
		AccountType: AccountTypeCash,
		CreditLimit: decimal.Zero,
		UsedAmount:  decimal.Zero,
		Balance:     decimal.Zero,
	}
}

// NewCreditAccount returns a credit account with the given limit
func NewCreditAccount(creditLimit decimal.Decimal) CreditAccount {
	return CreditAccount{
		AccountType: AccountTypeCredit,
		CreditLimit: creditLimit,
		UsedAmount:  decimal.Zero,
		Balance:     decimal.Zero,
	}
}

// NetBalance returns Balance - UsedAmount. Positive means the counterparty
// holds standing credit; negative means outstanding debt.
func (a *CreditAccount) NetBalance() decimal.Decimal {
	return a.Balance.Sub(a.UsedAmount)
}

// AvailableCredit returns the unconsumed portion of the credit limit
func (a *CreditAccount) AvailableCredit() decimal.Decimal {
	return a.CreditLimit.Sub(a.UsedAmount)
}

// SupportsCredit returns true if credit/split payments are allowed
func (a *CreditAccount) SupportsCredit() bool {
	return a.AccountType == AccountTypeCredit
}
