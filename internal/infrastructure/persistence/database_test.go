package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/trade"
)

// newTestDB opens an in-memory SQLite database with the full schema
// migrated. Each call returns an isolated database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewSQLiteDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = db.DB.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&inventory.StockBatch{},
		&inventory.InventoryTransaction{},
		&partner.Customer{},
		&partner.Supplier{},
		&partner.CreditTransaction{},
		&trade.Purchase{},
		&trade.PurchaseItem{},
		&trade.Sale{},
		&trade.SaleItem{},
		&trade.Quotation{},
		&trade.QuotationItem{},
	)
	require.NoError(t, err)

	return db.DB
}

func TestNewSQLiteDatabase(t *testing.T) {
	db, err := NewSQLiteDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping())
}

func TestDatabase_Stats(t *testing.T) {
	db, err := NewSQLiteDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
}
