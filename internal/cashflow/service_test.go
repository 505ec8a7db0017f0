package cashflow_test

import (
	"testing"
	"time"

	"soderia-backend/internal/apperr"
	"soderia-backend/internal/cashflow"
	"soderia-backend/internal/database"
	"soderia-backend/internal/models"

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

func TestCreateMovement_Validation(t *testing.T) {
	svc := cashflow.NewService(newTestDB(t))

	_, err := svc.Create(cashflow.CreateInput{Amount: 0, Type: models.CashIncome, Concept: "x"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Create(cashflow.CreateInput{Amount: -5, Type: models.CashExpense, Concept: "x"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Create(cashflow.CreateInput{Amount: 10, Type: "OTRO", Concept: "x"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Create(cashflow.CreateInput{Amount: 10, Type: models.CashIncome})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "falta el concepto")
}

func TestBalance_SumsIncomeMinusExpense(t *testing.T) {
	db := newTestDB(t)
	svc := cashflow.NewService(db)

	_, err := svc.Create(cashflow.CreateInput{Amount: 1000, Type: models.CashIncome, Concept: "Cobro Pedido #1", PaymentMethod: models.PaymentCash})
	require.NoError(t, err)
	_, err = svc.Create(cashflow.CreateInput{Amount: 300, Type: models.CashExpense, Concept: "Nafta del camión", PaymentMethod: models.PaymentCash})
	require.NoError(t, err)
	_, err = svc.Create(cashflow.CreateInput{Amount: 500, Type: models.CashIncome, Concept: "Cobro Pedido #2", PaymentMethod: models.PaymentTransfer})
	require.NoError(t, err)

	balance, err := svc.Balance()
	require.NoError(t, err)
	assert.InDelta(t, 1200, balance, 0.001)
}

func TestBalance_EmptyDrawerIsZero(t *testing.T) {
	svc := cashflow.NewService(newTestDB(t))

	balance, err := svc.Balance()
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestListByDay_FiltersByDate(t *testing.T) {
	db := newTestDB(t)
	svc := cashflow.NewService(db)

	todayMov, err := svc.Create(cashflow.CreateInput{Amount: 100, Type: models.CashIncome, Concept: "hoy"})
	require.NoError(t, err)

	oldMov, err := svc.Create(cashflow.CreateInput{Amount: 200, Type: models.CashIncome, Concept: "ayer"})
	require.NoError(t, err)
	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Model(&models.CashMovement{}).Where("id = ?", oldMov.ID).
		Update("created_at", yesterday).Error)

	today, err := svc.ListByDay(time.Now())
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, todayMov.ID, today[0].ID)

	prev, err := svc.ListByDay(yesterday)
	require.NoError(t, err)
	require.Len(t, prev, 1)
	assert.Equal(t, oldMov.ID, prev[0].ID)
}

func TestSummaryByDay(t *testing.T) {
	db := newTestDB(t)
	svc := cashflow.NewService(db)

	_, err := svc.Create(cashflow.CreateInput{Amount: 800, Type: models.CashIncome, Concept: "Cobro Pedido #3"})
	require.NoError(t, err)
	_, err = svc.Create(cashflow.CreateInput{Amount: 150, Type: models.CashExpense, Concept: "Hielo"})
	require.NoError(t, err)

	summary, err := svc.SummaryByDay(time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 800, summary.Income, 0.001)
	assert.InDelta(t, 150, summary.Expense, 0.001)
	assert.InDelta(t, 650, summary.Net, 0.001)
	assert.Equal(t, 2, summary.Count)
}
