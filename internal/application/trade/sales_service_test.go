package trade

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tradeEnv struct {
	batches    *fakeBatchRepo
	invTxs     *fakeInvTxRepo
	products   *fakeProductRepo
	customers  *fakeCustomerRepo
	suppliers  *fakeSupplierRepo
	creditTxs  *fakeCreditTxRepo
	purchases  *fakePurchaseRepo
	saleDocs   *fakeSaleRepo
	quotations *fakeQuotationRepo

	scope     *NoOpTransactionScope
	sales     *SalesService
	purchase  *PurchaseService
	quotation *QuotationService

	storeID uuid.UUID
	userID  uuid.UUID
}

func newTradeEnv() *tradeEnv {
	env := &tradeEnv{
		batches:    newFakeBatchRepo(),
		invTxs:     newFakeInvTxRepo(),
		products:   newFakeProductRepo(),
		customers:  newFakeCustomerRepo(),
		suppliers:  newFakeSupplierRepo(),
		creditTxs:  newFakeCreditTxRepo(),
		purchases:  newFakePurchaseRepo(),
		saleDocs:   newFakeSaleRepo(),
		quotations: newFakeQuotationRepo(),
		storeID:    uuid.New(),
		userID:     uuid.New(),
	}
	env.scope = &NoOpTransactionScope{
		batchRepo:     env.batches,
		invTxRepo:     env.invTxs,
		productRepo:   env.products,
		customerRepo:  env.customers,
		supplierRepo:  env.suppliers,
		creditTxRepo:  env.creditTxs,
		purchaseRepo:  env.purchases,
		saleRepo:      env.saleDocs,
		quotationRepo: env.quotations,
	}
	env.sales = NewSalesService(env.scope, env.saleDocs)
	env.purchase = NewPurchaseService(env.scope, env.purchases)
	env.quotation = NewQuotationService(env.scope, env.quotations, env.sales)
	return env
}

func (env *tradeEnv) seedProduct(t *testing.T, sku string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(env.storeID, sku, "Product "+sku, "pcs", decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, env.products.Save(context.Background(), product))
	return product
}

func (env *tradeEnv) seedBatch(t *testing.T, productID uuid.UUID, quantity int64, expiresInDays int) *inventory.StockBatch {
	t.Helper()
	var expiry *time.Time
	if expiresInDays > 0 {
		e := time.Now().AddDate(0, 0, expiresInDays)
		expiry = &e
	}
	batch, err := inventory.NewStockBatch(env.storeID, productID, uuid.New(),
		uuid.NewString()[:8], decimal.NewFromInt(quantity), decimal.NewFromInt(30), nil, expiry)
	require.NoError(t, err)
	require.NoError(t, env.batches.Save(context.Background(), batch))
	return batch
}

func (env *tradeEnv) seedCreditCustomer(t *testing.T, limit int64) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(env.storeID, uuid.NewString()[:8], "Acme Retail")
	require.NoError(t, err)
	require.NoError(t, customer.EnableCredit(decimal.NewFromInt(limit)))
	require.NoError(t, env.customers.Save(context.Background(), customer))
	return customer
}

func (env *tradeEnv) seedCreditSupplier(t *testing.T, limit int64) *partner.Supplier {
	t.Helper()
	supplier, err := partner.NewSupplier(env.storeID, uuid.NewString()[:8], "Wholesale Foods")
	require.NoError(t, err)
	require.NoError(t, supplier.EnableCredit(decimal.NewFromInt(limit)))
	require.NoError(t, env.suppliers.Save(context.Background(), supplier))
	return supplier
}

func (env *tradeEnv) batchQuantity(t *testing.T, batchID uuid.UUID) string {
	t.Helper()
	batch, err := env.batches.FindByID(context.Background(), batchID)
	require.NoError(t, err)
	return batch.CurrentQuantity.String()
}

func (env *tradeEnv) productQuantity(t *testing.T, productID uuid.UUID) string {
	t.Helper()
	product, err := env.products.FindByID(context.Background(), productID)
	require.NoError(t, err)
	return product.Quantity.String()
}

func (env *tradeEnv) customerAccount(t *testing.T, customerID uuid.UUID) partner.CreditAccount {
	t.Helper()
	customer, err := env.customers.FindByID(context.Background(), customerID)
	require.NoError(t, err)
	return customer.Account
}

func TestSalesService_CreateCashSale(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "RICE-5KG")
	batch := env.seedBatch(t, product.ID, 10, 90)

	resp, err := env.sales.Create(ctx, env.storeID, env.userID, CreateSaleRequest{
		PaymentType: partner.PaymentTypeCash,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "SO-0001", resp.Number)
	assert.Equal(t, "200", resp.GrandTotal.String())
	assert.Equal(t, "6", env.batchQuantity(t, batch.ID))
	assert.Equal(t, "6", env.productQuantity(t, product.ID))

	entries, err := env.invTxs.FindBySource(ctx, inventory.SourceTypeSale, resp.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "-4", entries[0].Quantity.String())

	// Cash without a customer leaves the credit ledger untouched
	assert.Empty(t, env.creditTxs.entries)
}

func TestSalesService_CreateCreditSaleWritesSnapshot(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "OIL-1L")
	env.seedBatch(t, product.ID, 20, 90)
	customer := env.seedCreditCustomer(t, 1000)
	customerID := customer.ID

	resp, err := env.sales.Create(ctx, env.storeID, env.userID, CreateSaleRequest{
		CustomerID:  &customerID,
		PaymentType: partner.PaymentTypeCredit,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(6), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "300", resp.Snapshot.CreditUsed.String())
	assert.Equal(t, "-300", resp.Snapshot.RemainingBalance.String())
	assert.Equal(t, "1000", resp.Snapshot.CreditLimit.String())
	require.NotNil(t, resp.Snapshot.CreditTransactionID)

	account := env.customerAccount(t, customerID)
	assert.Equal(t, "300", account.UsedAmount.String())

	entries, err := env.creditTxs.FindBySource(ctx, partner.CreditSourceSale, resp.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "-300", entries[0].Amount.String())
	assert.True(t, entries[0].SatisfiesBalanceLaw())
}

func TestSalesService_CreateFailsWhenCreditLimitExceeded(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "SUGAR-1KG")
	env.seedBatch(t, product.ID, 20, 90)
	customer := env.seedCreditCustomer(t, 100)
	customerID := customer.ID

	_, err := env.sales.Create(ctx, env.storeID, env.userID, CreateSaleRequest{
		CustomerID:  &customerID,
		PaymentType: partner.PaymentTypeCredit,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(6), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CREDIT_LIMIT_EXCEEDED", domainErr.Code)

	assert.Empty(t, env.saleDocs.sales)
	assert.Empty(t, env.creditTxs.entries)
}

func TestSalesService_CreateRequiresCustomerForCredit(t *testing.T) {
	env := newTradeEnv()
	product := env.seedProduct(t, "TEA-250G")
	env.seedBatch(t, product.ID, 5, 90)

	_, err := env.sales.Create(context.Background(), env.storeID, env.userID, CreateSaleRequest{
		PaymentType: partner.PaymentTypeCredit,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CUSTOMER_REQUIRED", domainErr.Code)
}

func TestSalesService_CreateRejectsSplitThatDoesNotAddUp(t *testing.T) {
	env := newTradeEnv()
	product := env.seedProduct(t, "FLOUR-2KG")
	env.seedBatch(t, product.ID, 10, 90)
	customer := env.seedCreditCustomer(t, 1000)
	customerID := customer.ID

	_, err := env.sales.Create(context.Background(), env.storeID, env.userID, CreateSaleRequest{
		CustomerID:  &customerID,
		PaymentType: partner.PaymentTypeSplit,
		Split:       &SplitRequest{CashAmount: decimal.NewFromInt(100), CreditAmount: decimal.NewFromInt(50)},
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SPLIT_MISMATCH", domainErr.Code)
}

func TestSalesService_CreateInsufficientStockLeavesNothingBehind(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "MILK-1L")
	batch := env.seedBatch(t, product.ID, 5, 90)

	_, err := env.sales.Create(ctx, env.storeID, env.userID, CreateSaleRequest{
		PaymentType: partner.PaymentTypeCash,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(9), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)

	assert.Equal(t, "5", env.batchQuantity(t, batch.ID))
	assert.Empty(t, env.invTxs.entries)
	assert.Empty(t, env.saleDocs.sales)
}

func TestSalesService_UpdateNotesOnlyIsFastPath(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "SALT-1KG")
	env.seedBatch(t, product.ID, 10, 90)

	created, err := env.sales.Create(ctx, env.storeID, env.userID, CreateSaleRequest{
		PaymentType: partner.PaymentTypeCash,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	updated, err := env.sales.Update(ctx, env.storeID, created.ID, env.userID, UpdateSaleRequest{
		PaymentType: partner.PaymentTypeCash,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
		},
		Notes: "picked up in person",
	})
	require.NoError(t, err)

	assert.Equal(t, "picked up in person", updated.Notes)
	// No reversal and no re-consumption happened
	entries, err := env.invTxs.FindBySource(ctx, inventory.SourceTypeSale, created.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSalesService_UpdateItemsReversesAndReapplies(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "BEANS-1KG")
	batch := env.seedBatch(t, product.ID, 10, 90)

	created, err := env.sales.Create(ctx, env.storeID, env.userID, CreateSaleRequest{
		PaymentType: partner.PaymentTypeCash,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "6", env.batchQuantity(t, batch.ID))

	updated, err := env.sales.Update(ctx, env.storeID, created.ID, env.userID, UpdateSaleRequest{
		PaymentType: partner.PaymentTypeCash,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "100", updated.GrandTotal.String())
	assert.Equal(t, "8", env.batchQuantity(t, batch.ID))
	assert.Equal(t, "8", env.productQuantity(t, product.ID))

	// Original consumption, its reversal, then the new consumption
	entries, err := env.invTxs.FindBySource(ctx, inventory.SourceTypeSale, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	net := decimal.Zero
	for _, e := range entries {
		net = net.Add(e.Quantity)
	}
	assert.Equal(t, "-2", net.String())
}

func TestSalesService_UpdatePaymentTypeRechargesAccount(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "GHEE-500G")
	env.seedBatch(t, product.ID, 10, 90)
	customer := env.seedCreditCustomer(t, 1000)
	customerID := customer.ID

	created, err := env.sales.Create(ctx, env.storeID, env.userID, CreateSaleRequest{
		CustomerID:  &customerID,
		PaymentType: partner.PaymentTypeCash,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "0", env.customerAccount(t, customerID).UsedAmount.String())

	updated, err := env.sales.Update(ctx, env.storeID, created.ID, env.userID, UpdateSaleRequest{
		CustomerID:  &customerID,
		PaymentType: partner.PaymentTypeCredit,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "200", env.customerAccount(t, customerID).UsedAmount.String())
	assert.Equal(t, "200", updated.Snapshot.CreditUsed.String())
}

func TestSalesService_DeleteRestoresStockAndAccount(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "HONEY-250G")
	batch := env.seedBatch(t, product.ID, 10, 90)
	customer := env.seedCreditCustomer(t, 1000)
	customerID := customer.ID

	created, err := env.sales.Create(ctx, env.storeID, env.userID, CreateSaleRequest{
		CustomerID:  &customerID,
		PaymentType: partner.PaymentTypeCredit,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "6", env.batchQuantity(t, batch.ID))
	require.Equal(t, "200", env.customerAccount(t, customerID).UsedAmount.String())

	require.NoError(t, env.sales.Delete(ctx, env.storeID, created.ID, env.userID))

	assert.Equal(t, "10", env.batchQuantity(t, batch.ID))
	assert.Equal(t, "10", env.productQuantity(t, product.ID))
	assert.Equal(t, "0", env.customerAccount(t, customerID).UsedAmount.String())

	cancelled, err := env.sales.Get(ctx, env.storeID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.DocumentStatusCancelled), cancelled.Status)

	// Both ledgers keep the full history: original plus compensating entries
	invEntries, err := env.invTxs.FindBySource(ctx, inventory.SourceTypeSale, created.ID)
	require.NoError(t, err)
	assert.Len(t, invEntries, 2)
	creditEntries, err := env.creditTxs.FindBySource(ctx, partner.CreditSourceSale, created.ID)
	require.NoError(t, err)
	assert.Len(t, creditEntries, 2)

	err = env.sales.Delete(ctx, env.storeID, created.ID, env.userID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestSalesService_CustomerReturnAddsStockBack(t *testing.T) {
	env := newTradeEnv()
	ctx := context.Background()
	product := env.seedProduct(t, "JAM-300G")
	batch := env.seedBatch(t, product.ID, 10, 90)
	customer := env.seedCreditCustomer(t, 1000)
	customerID := customer.ID

	// Charge the account first so the return has something to pay down
	_, err := env.sales.Create(ctx, env.storeID, env.userID, CreateSaleRequest{
		CustomerID:  &customerID,
		PaymentType: partner.PaymentTypeCredit,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "200", env.customerAccount(t, customerID).UsedAmount.String())

	resp, err := env.sales.Create(ctx, env.storeID, env.userID, CreateSaleRequest{
		CustomerID:  &customerID,
		Kind:        trade.DocumentKindReturn,
		PaymentType: partner.PaymentTypeCredit,
		Items: []SaleItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "9", env.batchQuantity(t, batch.ID))
	assert.Equal(t, "9", env.productQuantity(t, product.ID))
	// 150 of the 200 owed came back
	assert.Equal(t, "50", env.customerAccount(t, customerID).UsedAmount.String())

	entries, err := env.invTxs.FindBySource(ctx, inventory.SourceTypeSale, resp.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "3", entries[0].Quantity.String())
}
