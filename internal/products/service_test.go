package products_test

import (
	"testing"

	"soderia-backend/internal/apperr"
	"soderia-backend/internal/database"
	"soderia-backend/internal/models"
	"soderia-backend/internal/products"

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

func TestCreateProduct_DuplicateCodeRejected(t *testing.T) {
	svc := products.NewService(newTestDB(t))

	_, err := svc.Create(products.CreateInput{Code: "SIF-1", Name: "Sifón", Price: 80, IsReturnable: true})
	require.NoError(t, err)

	_, err = svc.Create(products.CreateInput{Code: "SIF-1", Name: "Sifón grande", Price: 120})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := products.NewService(newTestDB(t))

	_, err := svc.Create(products.CreateInput{Code: "", Name: "Sifón", Price: 80})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Create(products.CreateInput{Code: "SIF-1", Name: "  ", Price: 80})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Create(products.CreateInput{Code: "SIF-1", Name: "Sifón", Price: -1})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdateProduct_PartialFields(t *testing.T) {
	svc := products.NewService(newTestDB(t))

	product, err := svc.Create(products.CreateInput{Code: "SIF-1", Name: "Sifón", Price: 80, IsReturnable: true})
	require.NoError(t, err)

	newPrice := 95.0
	updated, err := svc.Update(product.ID, products.UpdateInput{Price: &newPrice})
	require.NoError(t, err)
	assert.InDelta(t, 95, updated.Price, 0.001)
	assert.Equal(t, "Sifón", updated.Name, "los campos no enviados quedan como estaban")
	assert.True(t, updated.IsReturnable)
}

func TestDeleteProduct_BlockedWhileOrdersReferenceIt(t *testing.T) {
	db := newTestDB(t)
	svc := products.NewService(db)

	product, err := svc.Create(products.CreateInput{Code: "SIF-1", Name: "Sifón", Price: 80})
	require.NoError(t, err)

	client := models.Client{Name: "Juan", Address: "Calle 1 n° 23"}
	require.NoError(t, db.Create(&client).Error)
	order := models.Order{
		ClientID:      client.ID,
		Status:        models.OrderConfirmed,
		TotalAmount:   80,
		PaymentStatus: models.PaymentPending,
		Items: []models.OrderItem{
			{ProductID: product.ID, Quantity: 1, UnitPrice: 80, Subtotal: 80},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	err = svc.Delete(product.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))

	_, err = svc.Get(product.ID)
	assert.NoError(t, err)
}

func TestDeleteProduct_WithoutReferences(t *testing.T) {
	svc := products.NewService(newTestDB(t))

	product, err := svc.Create(products.CreateInput{Code: "SIF-1", Name: "Sifón", Price: 80})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(product.ID))

	_, err = svc.Get(product.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
