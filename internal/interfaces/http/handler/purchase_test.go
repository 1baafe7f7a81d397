package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tradeapp "github.com/retailcore/backend/internal/application/trade"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/infrastructure/persistence"
	"github.com/retailcore/backend/internal/interfaces/http/dto"
)

func decodePurchase(t *testing.T, w *httptest.ResponseRecorder) tradeapp.PurchaseResponse {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	var purchase tradeapp.PurchaseResponse
	raw, _ := json.Marshal(resp.Data)
	require.NoError(t, json.Unmarshal(raw, &purchase))
	return purchase
}

func TestPurchaseHandler_UpdateQuantityReissuesBatchNumber(t *testing.T) {
	env := newTradeEnv(t)
	productID := env.seedProduct(t, "SKU-500")

	// No batch number on the line, so the receipt falls back to the
	// document-derived one. The update reverses the old receipt and
	// re-receives under the same number.
	w := env.post(t, "/purchases", tradeapp.CreatePurchaseRequest{
		PaymentType: partner.PaymentTypeCash,
		Items: []tradeapp.PurchaseItemRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(3)},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	purchase := decodePurchase(t, w)

	w = env.put(t, "/purchases/"+purchase.ID.String(), tradeapp.UpdatePurchaseRequest{
		PaymentType: partner.PaymentTypeCash,
		Items: []tradeapp.PurchaseItemRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(8), UnitPrice: decimal.NewFromInt(3)},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	product, err := persistence.NewGormProductRepository(env.db.DB).FindByIDForStore(context.Background(), env.storeID, productID)
	require.NoError(t, err)
	assert.True(t, product.Quantity.Equal(decimal.NewFromInt(8)), "expected 8 on hand, got %s", product.Quantity)

	// Both receipts stay on the books: the reversed one depleted, the
	// replacement active, under the same lot number.
	var batches []inventory.StockBatch
	require.NoError(t, env.db.DB.
		Where("store_id = ? AND product_id = ?", env.storeID, productID).
		Find(&batches).Error)
	require.Len(t, batches, 2)
	assert.Equal(t, batches[0].BatchNumber, batches[1].BatchNumber)

	byStatus := map[inventory.BatchStatus]inventory.StockBatch{}
	for _, b := range batches {
		byStatus[b.Status] = b
	}
	require.Contains(t, byStatus, inventory.BatchStatusDepleted)
	require.Contains(t, byStatus, inventory.BatchStatusActive)
	assert.True(t, byStatus[inventory.BatchStatusActive].CurrentQuantity.Equal(decimal.NewFromInt(8)))
}

func TestPurchaseHandler_DeleteThenRepurchaseSameLotNumber(t *testing.T) {
	env := newTradeEnv(t)
	productID := env.seedProduct(t, "SKU-510")

	w := env.post(t, "/purchases", tradeapp.CreatePurchaseRequest{
		PaymentType: partner.PaymentTypeCash,
		Items: []tradeapp.PurchaseItemRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(3), BatchNumber: "LOT-7"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	purchase := decodePurchase(t, w)

	del := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/purchases/"+purchase.ID.String(), nil)
	env.router.ServeHTTP(del, req)
	require.Equal(t, http.StatusNoContent, del.Code, del.Body.String())

	w = env.post(t, "/purchases", tradeapp.CreatePurchaseRequest{
		PaymentType: partner.PaymentTypeCash,
		Items: []tradeapp.PurchaseItemRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(6), UnitPrice: decimal.NewFromInt(3), BatchNumber: "LOT-7"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	product, err := persistence.NewGormProductRepository(env.db.DB).FindByIDForStore(context.Background(), env.storeID, productID)
	require.NoError(t, err)
	assert.True(t, product.Quantity.Equal(decimal.NewFromInt(6)), "expected 6 on hand, got %s", product.Quantity)
}
