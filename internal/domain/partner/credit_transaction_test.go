package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreditTransactionBalanceLaw(t *testing.T) {
	account := creditAccount(1000, 0, 300)
	previous := account.NetBalance()

	movement, err := ComputeMovement(account, DirectionTrade, PaymentTypeCredit,
		decimal.NewFromInt(500), valueobject.PaymentSplit{})
	require.NoError(t, err)

	tx, err := NewCreditTransaction(
		uuid.New(), OwnerTypeCustomer, uuid.New(),
		CreditTxTypeSale, PaymentTypeCredit,
		previous, movement,
		CreditSourceSale, nil, uuid.New(),
	)
	require.NoError(t, err)

	// remaining = previous + amount holds by construction
	assert.True(t, tx.SatisfiesBalanceLaw())
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-500)))
	assert.True(t, tx.RemainingBalance.Equal(decimal.NewFromInt(-200)))
}

func TestNewCreditTransactionValidation(t *testing.T) {
	_, err := NewCreditTransaction(uuid.New(), OwnerTypeCustomer, uuid.Nil,
		CreditTxTypeSale, PaymentTypeCash, decimal.Zero, AccountMovement{},
		CreditSourceSale, nil, uuid.New())
	assert.Error(t, err)

	_, err = NewCreditTransaction(uuid.New(), OwnerTypeCustomer, uuid.New(),
		CreditTransactionType("bogus"), PaymentTypeCash, decimal.Zero, AccountMovement{},
		CreditSourceSale, nil, uuid.New())
	assert.Error(t, err)
}

func TestCreditTransactionReversalLink(t *testing.T) {
	original := uuid.New()
	tx, err := NewCreditTransaction(uuid.New(), OwnerTypeSupplier, uuid.New(),
		CreditTxTypeReversal, PaymentTypeCredit, decimal.NewFromInt(100),
		AccountMovement{BalanceDelta: decimal.NewFromInt(50)},
		CreditSourcePurchase, nil, uuid.New())
	require.NoError(t, err)

	tx.WithReversedTransaction(original)
	require.NotNil(t, tx.ReversedTransactionID)
	assert.Equal(t, original, *tx.ReversedTransactionID)
	assert.True(t, tx.SatisfiesBalanceLaw())
}
