package valueobject

import (
	"github.com/shopspring/decimal"
)

// SplitTolerance is the maximum allowed difference between the split parts
// and the grand total before the split is rejected.
var SplitTolerance = decimal.NewFromFloat(0.01)

// PaymentSplit is a value object describing how a single payment is divided
// between an immediate cash portion and a credit portion.
// It is immutable and validated on construction.
type PaymentSplit struct {
	cashAmount   decimal.Decimal
	creditAmount decimal.Decimal
}

// NewPaymentSplit creates a payment split. Both parts must be non-negative.
func NewPaymentSplit(cashAmount, creditAmount decimal.Decimal) (PaymentSplit, bool) {
	if cashAmount.IsNegative() || creditAmount.IsNegative() {
		return PaymentSplit{}, false
	}
	return PaymentSplit{cashAmount: cashAmount, creditAmount: creditAmount}, true
}

// CashOnly returns a split carrying the whole amount as cash
func CashOnly(amount decimal.Decimal) PaymentSplit {
	return PaymentSplit{cashAmount: amount, creditAmount: decimal.Zero}
}

// CreditOnly returns a split carrying the whole amount as credit
func CreditOnly(amount decimal.Decimal) PaymentSplit {
	return PaymentSplit{cashAmount: decimal.Zero, creditAmount: amount}
}

// CashAmount returns the cash portion
func (p PaymentSplit) CashAmount() decimal.Decimal {
	return p.cashAmount
}

// CreditAmount returns the credit portion
func (p PaymentSplit) CreditAmount() decimal.Decimal {
	return p.creditAmount
}

// Total returns cash + credit
func (p PaymentSplit) Total() decimal.Decimal {
	return p.cashAmount.Add(p.creditAmount)
}

// MatchesTotal reports whether cash + credit equals the grand total
// within SplitTolerance.
func (p PaymentSplit) MatchesTotal(grandTotal decimal.Decimal) bool {
	diff := p.Total().Sub(grandTotal).Abs()
	return diff.LessThanOrEqual(SplitTolerance)
}
