package orders_test

import (
	"testing"

	"soderia-backend/internal/apperr"
	"soderia-backend/internal/database"
	"soderia-backend/internal/models"
	"soderia-backend/internal/orders"

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

func seedClientAndProducts(t *testing.T, db *gorm.DB) (models.Client, models.Product, models.Product) {
	t.Helper()

	client := models.Client{Name: "Juan", Address: "Calle 1 n° 23"}
	require.NoError(t, db.Create(&client).Error)

	bidon := models.Product{Code: "BID-20", Name: "Bidón 20L", Price: 100, IsReturnable: true}
	require.NoError(t, db.Create(&bidon).Error)

	pack := models.Product{Code: "PCK-6", Name: "Pack botellas x6", Price: 250, IsReturnable: false}
	require.NoError(t, db.Create(&pack).Error)

	return client, bidon, pack
}

func TestCreateOrder_ComputesTotalAndSnapshotsPrice(t *testing.T) {
	db := newTestDB(t)
	svc := orders.NewService(db)
	client, bidon, pack := seedClientAndProducts(t, db)

	order, err := svc.Create(orders.CreateInput{
		ClientID: client.ID,
		Items: []orders.ItemInput{
			{ProductID: bidon.ID, Quantity: 2},                // toma el precio de lista (100)
			{ProductID: pack.ID, Quantity: 1, UnitPrice: 240}, // precio acordado
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderConfirmed, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.InDelta(t, 440, order.TotalAmount, 0.001)
	require.Len(t, order.Items, 2)

	// el precio queda congelado aunque cambie la lista
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", bidon.ID).Update("price", 999).Error)

	reloaded, err := svc.Get(order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 440, reloaded.TotalAmount, 0.001)
	for _, it := range reloaded.Items {
		if it.ProductID == bidon.ID {
			assert.InDelta(t, 100, it.UnitPrice, 0.001)
			assert.InDelta(t, 200, it.Subtotal, 0.001)
		}
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := orders.NewService(db)
	client, bidon, _ := seedClientAndProducts(t, db)

	_, err := svc.Create(orders.CreateInput{ClientID: client.ID})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "sin renglones")

	_, err = svc.Create(orders.CreateInput{
		ClientID: client.ID,
		Items:    []orders.ItemInput{{ProductID: bidon.ID, Quantity: 0}},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "cantidad cero")

	_, err = svc.Create(orders.CreateInput{
		ClientID: 9999,
		Items:    []orders.ItemInput{{ProductID: bidon.ID, Quantity: 1}},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "cliente inexistente")

	_, err = svc.Create(orders.CreateInput{
		ClientID: client.ID,
		Items:    []orders.ItemInput{{ProductID: 9999, Quantity: 1}},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "producto inexistente")
}

func TestDeleteOrder_DeliveredOrderIsUntouchable(t *testing.T) {
	db := newTestDB(t)
	svc := orders.NewService(db)
	client, bidon, _ := seedClientAndProducts(t, db)

	order, err := svc.Create(orders.CreateInput{
		ClientID: client.ID,
		Items:    []orders.ItemInput{{ProductID: bidon.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderDelivered).Error)

	err = svc.Delete(order.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))

	// el pedido y sus renglones quedan intactos
	reloaded, err := svc.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, reloaded.Status)
	assert.Len(t, reloaded.Items, 1)
}

func TestDeleteOrder_RemovesItemsWithOrder(t *testing.T) {
	db := newTestDB(t)
	svc := orders.NewService(db)
	client, bidon, _ := seedClientAndProducts(t, db)

	order, err := svc.Create(orders.CreateInput{
		ClientID: client.ID,
		Items:    []orders.ItemInput{{ProductID: bidon.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(order.ID))

	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	assert.EqualValues(t, 0, itemCount)

	_, err = svc.Get(order.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCancelOrder(t *testing.T) {
	db := newTestDB(t)
	svc := orders.NewService(db)
	client, bidon, _ := seedClientAndProducts(t, db)

	order, err := svc.Create(orders.CreateInput{
		ClientID: client.ID,
		Items:    []orders.ItemInput{{ProductID: bidon.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	// cancelar dos veces no falla ni cambia nada
	again, err := svc.Cancel(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, again.Status)
}

func TestCancelOrder_DeliveredIsRejected(t *testing.T) {
	db := newTestDB(t)
	svc := orders.NewService(db)
	client, bidon, _ := seedClientAndProducts(t, db)

	order, err := svc.Create(orders.CreateInput{
		ClientID: client.ID,
		Items:    []orders.ItemInput{{ProductID: bidon.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderDelivered).Error)

	_, err = svc.Cancel(order.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState),
		"un pedido entregado ya asentó plata y stock, no puede cancelarse")
}
