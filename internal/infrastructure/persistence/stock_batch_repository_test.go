package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/inventory"
)

func newBatch(t *testing.T, storeID, productID uuid.UUID, number string, quantity int64, expiry *time.Time) *inventory.StockBatch {
	t.Helper()
	batch, err := inventory.NewStockBatch(storeID, productID, uuid.New(), number,
		decimal.NewFromInt(quantity), decimal.NewFromInt(1), nil, expiry)
	require.NoError(t, err)
	return batch
}

func TestGormStockBatchRepository_FindConsumable(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockBatchRepository(db)
	ctx := context.Background()
	storeID := uuid.New()
	productID := uuid.New()

	soon := time.Now().AddDate(0, 0, 10)
	later := time.Now().AddDate(0, 0, 60)

	noExpiry := newBatch(t, storeID, productID, "B-NOEXP", 5, nil)
	expiresLater := newBatch(t, storeID, productID, "B-LATER", 5, &later)
	expiresSoon := newBatch(t, storeID, productID, "B-SOON", 5, &soon)
	depleted := newBatch(t, storeID, productID, "B-EMPTY", 5, &soon)
	require.NoError(t, depleted.Deduct(decimal.NewFromInt(5)))

	require.NoError(t, repo.SaveAll(ctx, []*inventory.StockBatch{noExpiry, expiresLater, expiresSoon, depleted}))

	batches, err := repo.FindConsumable(ctx, storeID, productID)
	require.NoError(t, err)

	// Earliest expiry first, no-expiry batches last, depleted excluded.
	require.Len(t, batches, 3)
	assert.Equal(t, "B-SOON", batches[0].BatchNumber)
	assert.Equal(t, "B-LATER", batches[1].BatchNumber)
	assert.Equal(t, "B-NOEXP", batches[2].BatchNumber)
}

func TestGormStockBatchRepository_FindExpiring(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockBatchRepository(db)
	ctx := context.Background()
	storeID := uuid.New()
	productID := uuid.New()

	inWindow := time.Now().AddDate(0, 0, 5)
	outOfWindow := time.Now().AddDate(0, 0, 45)
	past := time.Now().AddDate(0, 0, -1)

	require.NoError(t, repo.SaveAll(ctx, []*inventory.StockBatch{
		newBatch(t, storeID, productID, "B-WINDOW", 5, &inWindow),
		newBatch(t, storeID, productID, "B-FAR", 5, &outOfWindow),
		newBatch(t, storeID, productID, "B-PAST", 5, &past),
		newBatch(t, storeID, productID, "B-NONE", 5, nil),
	}))

	batches, err := repo.FindExpiring(ctx, storeID, 30)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "B-WINDOW", batches[0].BatchNumber)
}

func TestGormStockBatchRepository_FindExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockBatchRepository(db)
	ctx := context.Background()
	storeID := uuid.New()
	productID := uuid.New()

	past := time.Now().AddDate(0, 0, -2)
	future := time.Now().AddDate(0, 0, 30)

	expired := newBatch(t, storeID, productID, "B-OLD", 5, &past)
	fresh := newBatch(t, storeID, productID, "B-FRESH", 5, &future)
	require.NoError(t, repo.SaveAll(ctx, []*inventory.StockBatch{expired, fresh}))

	batches, err := repo.FindExpired(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "B-OLD", batches[0].BatchNumber)
}

func TestGormStockBatchRepository_SumNonDepleted(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockBatchRepository(db)
	ctx := context.Background()
	storeID := uuid.New()
	productID := uuid.New()

	t.Run("returns zero without batches", func(t *testing.T) {
		sum, err := repo.SumNonDepleted(ctx, storeID, productID)
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})

	t.Run("sums remaining quantity across batches", func(t *testing.T) {
		first := newBatch(t, storeID, productID, "B-1", 10, nil)
		second := newBatch(t, storeID, productID, "B-2", 7, nil)
		require.NoError(t, second.Deduct(decimal.NewFromInt(2)))
		drained := newBatch(t, storeID, productID, "B-3", 4, nil)
		require.NoError(t, drained.Deduct(decimal.NewFromInt(4)))

		require.NoError(t, repo.SaveAll(ctx, []*inventory.StockBatch{first, second, drained}))

		sum, err := repo.SumNonDepleted(ctx, storeID, productID)
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(15)), "got %s", sum)
	})
}
