package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Galih-Arno/aplikasi-kasir/internal/dto"
	"github.com/Galih-Arno/aplikasi-kasir/internal/infra"
	"github.com/Galih-Arno/aplikasi-kasir/internal/model"
	"github.com/Galih-Arno/aplikasi-kasir/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB spins up an in-memory SQLite database so the rollback semantics
// of the recording sequence are exercised against a real SQL engine.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	return db
}

func seedSale(t *testing.T, db *gorm.DB) (*model.User, *model.Customer, *model.Product) {
	t.Helper()
	user := &model.User{Username: "cashier1", PasswordHash: "x", Role: "cashier", Active: true}
	require.NoError(t, db.Create(user).Error)
	customer := &model.Customer{Name: "Walk-in"}
	require.NoError(t, db.Create(customer).Error)
	product := &model.Product{Name: "Mineral water", Price: decimal.NewFromFloat(10), Stock: 5, Active: true}
	require.NoError(t, db.Create(product).Error)
	return user, customer, product
}

func TestTransactionRepo_CommitHeaderDetailsTotal(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewTransactionRepository(db)
	user, customer, product := seedSale(t, db)
	ctx := context.Background()

	var header model.Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		header = model.Transaction{
			Total:         decimal.Zero,
			PaymentMethod: "cash",
			UserID:        user.ID,
			CustomerID:    customer.ID,
		}
		if err := repo.Create(ctx, tx, &header); err != nil {
			return err
		}
		detail := model.TransactionDetail{
			TransactionID: header.ID,
			ProductID:     product.ID,
			Quantity:      3,
			Price:         product.Price,
		}
		if err := repo.CreateDetail(ctx, tx, &detail); err != nil {
			return err
		}
		return repo.UpdateTotal(ctx, tx, header.ID, decimal.NewFromFloat(30))
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, header.ID)
	require.NoError(t, err)
	assert.Equal(t, "30", found.Total.String())
	require.Len(t, found.Items, 1)
	assert.Equal(t, 3, found.Items[0].Quantity)
	assert.Equal(t, "10", found.Items[0].Price.String())
	require.NotNil(t, found.Items[0].Product)
	assert.Equal(t, "Mineral water", found.Items[0].Product.Name)
	require.NotNil(t, found.Customer)
	assert.Equal(t, "Walk-in", found.Customer.Name)
}

func TestTransactionRepo_RollbackLeavesNothing(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewTransactionRepository(db)
	user, customer, product := seedSale(t, db)
	ctx := context.Background()

	boom := errors.New("mid-recording failure")
	err := db.Transaction(func(tx *gorm.DB) error {
		header := model.Transaction{
			Total:         decimal.Zero,
			PaymentMethod: "cash",
			UserID:        user.ID,
			CustomerID:    customer.ID,
		}
		if err := repo.Create(ctx, tx, &header); err != nil {
			return err
		}
		detail := model.TransactionDetail{
			TransactionID: header.ID,
			ProductID:     product.ID,
			Quantity:      1,
			Price:         product.Price,
		}
		if err := repo.CreateDetail(ctx, tx, &detail); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// No partial sale visible: zero headers, zero details
	var headerCount, detailCount int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&headerCount).Error)
	require.NoError(t, db.Model(&model.TransactionDetail{}).Count(&detailCount).Error)
	assert.Zero(t, headerCount)
	assert.Zero(t, detailCount)
}

func TestTransactionRepo_FrozenPriceUnaffectedByProductUpdate(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewTransactionRepository(db)
	productRepo := repository.NewProductRepository(db)
	user, customer, product := seedSale(t, db)
	ctx := context.Background()

	var header model.Transaction
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		header = model.Transaction{PaymentMethod: "cash", UserID: user.ID, CustomerID: customer.ID, Total: decimal.Zero}
		if err := repo.Create(ctx, tx, &header); err != nil {
			return err
		}
		if err := repo.CreateDetail(ctx, tx, &model.TransactionDetail{
			TransactionID: header.ID, ProductID: product.ID, Quantity: 2, Price: product.Price,
		}); err != nil {
			return err
		}
		return repo.UpdateTotal(ctx, tx, header.ID, decimal.NewFromFloat(20))
	}))

	// Reprice the product after the sale
	product.Price = decimal.NewFromFloat(12.50)
	require.NoError(t, productRepo.Update(ctx, product))

	found, err := repo.FindByID(ctx, header.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "10", found.Items[0].Price.String())
	assert.Equal(t, "12.5", found.Items[0].Product.Price.String())
}

func TestTransactionRepo_ListPagination(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewTransactionRepository(db)
	user, customer, _ := seedSale(t, db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		header := model.Transaction{
			Total:         decimal.NewFromInt(int64(i)),
			PaymentMethod: "cash",
			UserID:        user.ID,
			CustomerID:    customer.ID,
		}
		require.NoError(t, repo.Create(ctx, db, &header))
	}

	page1, total, err := repo.List(ctx, dto.TransactionFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page1, 2)

	page2, _, err := repo.List(ctx, dto.TransactionFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}
