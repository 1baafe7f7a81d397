package trade

import (
	"context"
	"testing"
	"time"

	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotationService_CreateHasNoStockEffect(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "RICE-5KG")
	env.seedBatch(t, product.ID, 10, 90)

	resp, err := env.quotation.Create(ctx, env.storeID, env.userID, CreateQuotationRequest{
		Items: []QuotationItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(55)},
		},
		Notes: "valid for bulk pickup",
	})
	require.NoError(t, err)

	assert.Equal(t, "QT-0001", resp.Number)
	assert.Equal(t, string(trade.QuotationStatusDraft), resp.Status)
	assert.Equal(t, "220", resp.GrandTotal.String())

	// Quoting reserves nothing
	assert.Empty(t, env.invTxs.entries)
}

func TestQuotationService_LifecycleTransitions(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "OIL-1L")

	created, err := env.quotation.Create(ctx, env.storeID, env.userID, CreateQuotationRequest{
		Items: []QuotationItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	sent, err := env.quotation.MarkSent(ctx, env.storeID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.QuotationStatusSent), sent.Status)

	// Sent quotations can no longer be edited
	_, err = env.quotation.Update(ctx, env.storeID, created.ID, env.userID, UpdateQuotationRequest{
		Items: []QuotationItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)

	accepted, err := env.quotation.Accept(ctx, env.storeID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.QuotationStatusAccepted), accepted.Status)

	rejected, err := env.quotation.Reject(ctx, env.storeID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.QuotationStatusRejected), rejected.Status)
}

func TestQuotationService_UpdateRewritesDraft(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "SUGAR-1KG")
	other := env.seedProduct(t, "TEA-250G")

	created, err := env.quotation.Create(ctx, env.storeID, env.userID, CreateQuotationRequest{
		Items: []QuotationItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	updated, err := env.quotation.Update(ctx, env.storeID, created.ID, env.userID, UpdateQuotationRequest{
		Items: []QuotationItemRequest{
			{ProductID: other.ID, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(20)},
		},
		Notes: "swapped to tea",
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, other.ID, updated.Items[0].ProductID)
	assert.Equal(t, "100", updated.GrandTotal.String())
	assert.Equal(t, "swapped to tea", updated.Notes)
}

func TestQuotationService_ConvertToSaleCarriesQuotedPrices(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "FLOUR-2KG")
	batch := env.seedBatch(t, product.ID, 10, 90)
	customer := env.seedCreditCustomer(t, 1000)
	customerID := customer.ID

	created, err := env.quotation.Create(ctx, env.storeID, env.userID, CreateQuotationRequest{
		CustomerID: &customerID,
		Items: []QuotationItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(45)},
		},
	})
	require.NoError(t, err)

	_, err = env.quotation.MarkSent(ctx, env.storeID, created.ID)
	require.NoError(t, err)
	_, err = env.quotation.Accept(ctx, env.storeID, created.ID)
	require.NoError(t, err)

	sale, err := env.quotation.ConvertToSale(ctx, env.storeID, created.ID, env.userID, ConvertQuotationRequest{
		PaymentType: partner.PaymentTypeCredit,
	})
	require.NoError(t, err)

	assert.Equal(t, "180", sale.GrandTotal.String())
	assert.Equal(t, "6", env.batchQuantity(t, batch.ID))
	assert.Equal(t, "180", env.customerAccount(t, customerID).UsedAmount.String())

	converted, err := env.quotation.Get(ctx, env.storeID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.QuotationStatusConverted), converted.Status)
	require.NotNil(t, converted.ConvertedSaleID)
	assert.Equal(t, sale.ID, *converted.ConvertedSaleID)

	// A converted quotation cannot be converted again
	_, err = env.quotation.ConvertToSale(ctx, env.storeID, created.ID, env.userID, ConvertQuotationRequest{
		PaymentType: partner.PaymentTypeCredit,
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestQuotationService_ConvertRejectsExpiredQuotation(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "MILK-1L")
	env.seedBatch(t, product.ID, 10, 90)

	yesterday := time.Now().AddDate(0, 0, -1)
	created, err := env.quotation.Create(ctx, env.storeID, env.userID, CreateQuotationRequest{
		ValidUntil: &yesterday,
		Items: []QuotationItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	_, err = env.quotation.MarkSent(ctx, env.storeID, created.ID)
	require.NoError(t, err)
	_, err = env.quotation.Accept(ctx, env.storeID, created.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "QUOTATION_EXPIRED", domainErr.Code)
}
