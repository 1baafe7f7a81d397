package partner

import (
	"fmt"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentType represents how a document is paid
type PaymentType string

const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeCredit PaymentType = "credit"
	PaymentTypeSplit  PaymentType = "split"
)

// IsValid returns true if the payment type is valid
func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentTypeCash, PaymentTypeCredit, PaymentTypeSplit:
		return true
	}
	return false
}

// MovementDirection distinguishes forward trades from returns
type MovementDirection string

const (
	// DirectionTrade is a regular sale or purchase: the counterparty
	// consumes credit (balance drained first, remainder to used amount).
	DirectionTrade MovementDirection = "trade"
	// DirectionReturn undoes value transfer: credit consumption is paid
	// down first, any remainder accrues to the counterparty's balance.
	DirectionReturn MovementDirection = "return"
)

// AccountMovement is the computed effect of one ledger operation on a
// credit account. It is pure data: Compute* functions derive it without
// touching the account, Apply writes it, and Inverse yields the
// compensating movement used for reversals.
type AccountMovement struct {
	BalanceDelta decimal.Decimal // signed change to Balance
	UsedDelta    decimal.Decimal // signed change to UsedAmount

	// Breakdown for snapshots and transaction records
	BalanceUsed  decimal.Decimal // portion of a trade drained from Balance
	CreditUsed   decimal.Decimal // portion of a trade pushed into UsedAmount
	CashAmount   decimal.Decimal // cash portion (no ledger effect)
	CreditAmount decimal.Decimal // credit portion (drives the deltas)
}

// SignedAmount is the movement's effect on the net balance:
// NetBalance = Balance - UsedAmount, so the delta is
// BalanceDelta - UsedDelta.
func (m AccountMovement) SignedAmount() decimal.Decimal {
	return m.BalanceDelta.Sub(m.UsedDelta)
}

// IsZero returns true when the movement has no ledger effect
func (m AccountMovement) IsZero() bool {
	return m.BalanceDelta.IsZero() && m.UsedDelta.IsZero()
}

// Inverse returns the compensating movement
func (m AccountMovement) Inverse() AccountMovement {
	return AccountMovement{
		BalanceDelta: m.BalanceDelta.Neg(),
		UsedDelta:    m.UsedDelta.Neg(),
		BalanceUsed:  m.BalanceUsed.Neg(),
		CreditUsed:   m.CreditUsed.Neg(),
		CashAmount:   m.CashAmount.Neg(),
		CreditAmount: m.CreditAmount.Neg(),
	}
}

// Combine adds another movement to this one. Used when an edit reverses
// the old effect and applies the new one as a single write.
func (m AccountMovement) Combine(other AccountMovement) AccountMovement {
	return AccountMovement{
		BalanceDelta: m.BalanceDelta.Add(other.BalanceDelta),
		UsedDelta:    m.UsedDelta.Add(other.UsedDelta),
		BalanceUsed:  m.BalanceUsed.Add(other.BalanceUsed),
		CreditUsed:   m.CreditUsed.Add(other.CreditUsed),
		CashAmount:   m.CashAmount.Add(other.CashAmount),
		CreditAmount: m.CreditAmount.Add(other.CreditAmount),
	}
}

// ComputeMovement derives the account effect of a trade or return without
// mutating the account. All guard failures happen here, before any write:
//
//	cash   - no ledger effect, recorded for history only
//	credit - trade: drain Balance first, push the remainder into
//	         UsedAmount, rejecting when that would exceed CreditLimit;
//	         return: pay down UsedAmount first, credit the remainder
//	         to Balance
//	split  - same, applied to the credit portion only
func ComputeMovement(
	account *CreditAccount,
	direction MovementDirection,
	paymentType PaymentType,
	grandTotal decimal.Decimal,
	split valueobject.PaymentSplit,
) (AccountMovement, error) {
	if !paymentType.IsValid() {
		return AccountMovement{}, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Invalid payment type")
	}
	if grandTotal.IsNegative() {
		return AccountMovement{}, shared.NewDomainError("INVALID_AMOUNT", "Grand total cannot be negative")
	}

	var cashPortion, creditPortion decimal.Decimal
	switch paymentType {
	case PaymentTypeCash:
		cashPortion = grandTotal
		creditPortion = decimal.Zero
	case PaymentTypeCredit:
		cashPortion = decimal.Zero
		creditPortion = grandTotal
	case PaymentTypeSplit:
		if !split.MatchesTotal(grandTotal) {
			return AccountMovement{}, shared.NewDomainError("SPLIT_MISMATCH",
				fmt.Sprintf("Split parts %s do not add up to grand total %s", split.Total(), grandTotal))
		}
		cashPortion = split.CashAmount()
		creditPortion = split.CreditAmount()
	}

	movement := AccountMovement{
		BalanceDelta: decimal.Zero,
		UsedDelta:    decimal.Zero,
		BalanceUsed:  decimal.Zero,
		CreditUsed:   decimal.Zero,
		CashAmount:   cashPortion,
		CreditAmount: creditPortion,
	}

	if creditPortion.IsZero() {
		return movement, nil
	}
	if !account.SupportsCredit() {
		return AccountMovement{}, shared.NewDomainError("INVALID_ACCOUNT_TYPE",
			"Credit payment attempted against a cash-only account")
	}

	switch direction {
	case DirectionTrade:
		usedFromBalance := decimal.Min(account.Balance, creditPortion)
		remainder := creditPortion.Sub(usedFromBalance)

		newUsed := account.UsedAmount.Add(remainder)
		if newUsed.GreaterThan(account.CreditLimit) {
			return AccountMovement{}, shared.NewDomainError("CREDIT_LIMIT_EXCEEDED",
				fmt.Sprintf("Credit limit exceeded: limit %s, used %s, required %s",
					account.CreditLimit, account.UsedAmount, remainder))
		}

		movement.BalanceDelta = usedFromBalance.Neg()
		movement.UsedDelta = remainder
		movement.BalanceUsed = usedFromBalance
		movement.CreditUsed = remainder

	case DirectionReturn:
		paidDown := decimal.Min(account.UsedAmount, creditPortion)
		remainder := creditPortion.Sub(paidDown)

		movement.UsedDelta = paidDown.Neg()
		movement.BalanceDelta = remainder

	default:
		return AccountMovement{}, shared.NewDomainError("INVALID_DIRECTION", "Invalid movement direction")
	}

	return movement, nil
}

// AdjustmentDirection distinguishes manual balance adjustments
type AdjustmentDirection string

const (
	// AdjustmentAdd grants credit: pays down UsedAmount first, any
	// remainder accrues to Balance.
	AdjustmentAdd AdjustmentDirection = "add"
	// AdjustmentExclude withdraws credit: drains Balance first, any
	// remainder raises UsedAmount subject to the credit limit.
	AdjustmentExclude AdjustmentDirection = "exclude"
)

// ComputeManualAdjustment derives the effect of a manual credit adjustment
func ComputeManualAdjustment(
	account *CreditAccount,
	direction AdjustmentDirection,
	amount decimal.Decimal,
) (AccountMovement, error) {
	if !amount.IsPositive() {
		return AccountMovement{}, shared.NewDomainError("INVALID_AMOUNT", "Adjustment amount must be positive")
	}
	if !account.SupportsCredit() {
		return AccountMovement{}, shared.NewDomainError("INVALID_ACCOUNT_TYPE",
			"Manual adjustment attempted against a cash-only account")
	}

	movement := AccountMovement{CreditAmount: amount}

	switch direction {
	case AdjustmentAdd:
		paidDown := decimal.Min(account.UsedAmount, amount)
		movement.UsedDelta = paidDown.Neg()
		movement.BalanceDelta = amount.Sub(paidDown)

	case AdjustmentExclude:
		drained := decimal.Min(account.Balance, amount)
		remainder := amount.Sub(drained)

		newUsed := account.UsedAmount.Add(remainder)
		if newUsed.GreaterThan(account.CreditLimit) {
			return AccountMovement{}, shared.NewDomainError("CREDIT_LIMIT_EXCEEDED",
				fmt.Sprintf("Credit limit exceeded: limit %s, used %s, required %s",
					account.CreditLimit, account.UsedAmount, remainder))
		}

		movement.BalanceDelta = drained.Neg()
		movement.UsedDelta = remainder

	default:
		return AccountMovement{}, shared.NewDomainError("INVALID_DIRECTION", "Invalid adjustment direction")
	}

	return movement, nil
}

// Apply writes the movement onto the account. The resulting state must
// satisfy the account invariants; a violation aborts the enclosing
// transaction rather than persisting a corrupt register.
func (a *CreditAccount) Apply(movement AccountMovement) error {
	newBalance := a.Balance.Add(movement.BalanceDelta)
	newUsed := a.UsedAmount.Add(movement.UsedDelta)

	if newBalance.IsNegative() {
		return shared.NewDomainError("INVALID_STATE", "Account balance cannot go negative")
	}
	if newUsed.IsNegative() {
		return shared.NewDomainError("INVALID_STATE", "Used amount cannot go negative")
	}
	if a.AccountType == AccountTypeCredit && newUsed.GreaterThan(a.CreditLimit) {
		return shared.NewDomainError("CREDIT_LIMIT_EXCEEDED",
			fmt.Sprintf("Credit limit exceeded: limit %s, resulting used %s", a.CreditLimit, newUsed))
	}

	a.Balance = newBalance
	a.UsedAmount = newUsed
	return nil
}
