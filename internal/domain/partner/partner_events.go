package partner

import (
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the partner context
const (
	EventTypeCreditCharged         = "partner.credit.charged"
	EventTypePaymentRecorded       = "partner.payment.recorded"
	EventTypeCreditNearlyExhausted = "partner.credit.nearly_exhausted"
)

// CreditChargedEvent is published when a trade consumes counterparty credit
type CreditChargedEvent struct {
	shared.BaseDomainEvent
	OwnerType  OwnerType       `json:"owner_type"`
	OwnerName  string          `json:"owner_name"`
	CreditUsed decimal.Decimal `json:"credit_used"`
	NetBalance decimal.Decimal `json:"net_balance"`
}

// NewCreditChargedEvent creates a CreditChargedEvent
func NewCreditChargedEvent(storeID, ownerID uuid.UUID, ownerType OwnerType, ownerName string, creditUsed, netBalance decimal.Decimal) *CreditChargedEvent {
	return &CreditChargedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditCharged, "CreditAccount", ownerID, storeID),
		OwnerType:       ownerType,
		OwnerName:       ownerName,
		CreditUsed:      creditUsed,
		NetBalance:      netBalance,
	}
}

// PaymentRecordedEvent is published when a counterparty payment is recorded
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	OwnerType OwnerType       `json:"owner_type"`
	OwnerName string          `json:"owner_name"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewPaymentRecordedEvent creates a PaymentRecordedEvent
func NewPaymentRecordedEvent(storeID, ownerID uuid.UUID, ownerType OwnerType, ownerName string, amount decimal.Decimal) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, "CreditAccount", ownerID, storeID),
		OwnerType:       ownerType,
		OwnerName:       ownerName,
		Amount:          amount,
	}
}

// CreditNearlyExhaustedEvent is published when a movement leaves less than
// ten percent of the credit limit available
type CreditNearlyExhaustedEvent struct {
	shared.BaseDomainEvent
	OwnerType       OwnerType       `json:"owner_type"`
	OwnerName       string          `json:"owner_name"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
}

// NewCreditNearlyExhaustedEvent creates a CreditNearlyExhaustedEvent
func NewCreditNearlyExhaustedEvent(storeID, ownerID uuid.UUID, ownerType OwnerType, ownerName string, account *CreditAccount) *CreditNearlyExhaustedEvent {
	return &CreditNearlyExhaustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditNearlyExhausted, "CreditAccount", ownerID, storeID),
		OwnerType:       ownerType,
		OwnerName:       ownerName,
		CreditLimit:     account.CreditLimit,
		AvailableCredit: account.AvailableCredit(),
	}
}
