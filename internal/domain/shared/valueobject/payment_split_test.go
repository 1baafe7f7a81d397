package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewPaymentSplit(t *testing.T) {
	t.Run("valid split", func(t *testing.T) {
		split, ok := NewPaymentSplit(decimal.NewFromInt(30), decimal.NewFromInt(70))
		assert.True(t, ok)
		assert.True(t, split.Total().Equal(decimal.NewFromInt(100)))
	})

	t.Run("negative cash rejected", func(t *testing.T) {
		_, ok := NewPaymentSplit(decimal.NewFromInt(-1), decimal.NewFromInt(10))
		assert.False(t, ok)
	})

	t.Run("negative credit rejected", func(t *testing.T) {
		_, ok := NewPaymentSplit(decimal.NewFromInt(10), decimal.NewFromInt(-1))
		assert.False(t, ok)
	})
}

func TestPaymentSplitMatchesTotal(t *testing.T) {
	split, _ := NewPaymentSplit(decimal.NewFromFloat(49.99), decimal.NewFromFloat(50.0))

	assert.True(t, split.MatchesTotal(decimal.NewFromFloat(99.99)))
	// Within the 0.01 tolerance
	assert.True(t, split.MatchesTotal(decimal.NewFromFloat(100.00)))
	// Outside the tolerance
	assert.False(t, split.MatchesTotal(decimal.NewFromFloat(100.02)))
	assert.False(t, split.MatchesTotal(decimal.NewFromFloat(99.0)))
}

func TestCashOnlyAndCreditOnly(t *testing.T) {
	cash := CashOnly(decimal.NewFromInt(50))
	assert.True(t, cash.CashAmount().Equal(decimal.NewFromInt(50)))
	assert.True(t, cash.CreditAmount().IsZero())

	credit := CreditOnly(decimal.NewFromInt(75))
	assert.True(t, credit.CreditAmount().Equal(decimal.NewFromInt(75)))
	assert.True(t, credit.CashAmount().IsZero())
}
