package stock_test

import (
	"testing"

	"soderia-backend/internal/apperr"
	"soderia-backend/internal/database"
	"soderia-backend/internal/models"
	"soderia-backend/internal/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seed(t *testing.T, db *gorm.DB) (models.Warehouse, models.Product) {
	t.Helper()

	warehouse := models.Warehouse{Name: "Depósito Central"}
	require.NoError(t, db.Create(&warehouse).Error)

	product := models.Product{Code: "BID-20", Name: "Bidón 20L", Price: 100, IsReturnable: true}
	require.NoError(t, db.Create(&product).Error)

	return warehouse, product
}

func TestAdjust_CreatesRowOnFirstMovement(t *testing.T) {
	db := newTestDB(t)
	svc := stock.NewService(db)
	warehouse, product := seed(t, db)

	row, err := svc.Adjust(warehouse.ID, product.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, row.Quantity)

	row, err = svc.Adjust(warehouse.ID, product.ID, -20)
	require.NoError(t, err)
	assert.Equal(t, 30, row.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.Stock{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "una sola fila por (depósito, producto)")
}

func TestAdjust_AllowsNegativeQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := stock.NewService(db)
	warehouse, product := seed(t, db)

	// la venta nunca se frena por falta de stock
	row, err := svc.Adjust(warehouse.ID, product.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, -10, row.Quantity)
}

func TestAdjust_UnknownReferences(t *testing.T) {
	db := newTestDB(t)
	svc := stock.NewService(db)
	warehouse, product := seed(t, db)

	_, err := svc.Adjust(9999, product.ID, 1)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = svc.Adjust(warehouse.ID, 9999, 1)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestLevels_PreloadsReferences(t *testing.T) {
	db := newTestDB(t)
	svc := stock.NewService(db)
	warehouse, product := seed(t, db)

	_, err := svc.Adjust(warehouse.ID, product.ID, 5)
	require.NoError(t, err)

	levels, err := svc.Levels()
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, "Bidón 20L", levels[0].Product.Name)
	assert.Equal(t, "Depósito Central", levels[0].Warehouse.Name)
}
