package repository

import (
	"context"

	"github.com/Galih-Arno/aplikasi-kasir/internal/dto"
	"github.com/Galih-Arno/aplikasi-kasir/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionRepository persists sale headers and their line items. The
// Create/CreateDetail/UpdateTotal triple is always called inside one storage
// transaction owned by the checkout service — callers pass the tx handle
// explicitly so no session state leaks across requests.
type TransactionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.Transaction) error
	CreateDetail(ctx context.Context, tx *gorm.DB, d *model.TransactionDetail) error
	UpdateTotal(ctx context.Context, tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) DB() *gorm.DB { return r.db }

func (r *transactionRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Transaction) error {
	// Omit associations: details are written one by one by the service so the
	// header exists (and has an identity) before any line references it.
	return tx.WithContext(ctx).Omit("Items", "User", "Customer").Create(t).Error
}

func (r *transactionRepo) CreateDetail(ctx context.Context, tx *gorm.DB, d *model.TransactionDetail) error {
	return tx.WithContext(ctx).Omit("Product").Create(d).Error
}

func (r *transactionRepo) UpdateTotal(ctx context.Context, tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	return tx.WithContext(ctx).Model(&model.Transaction{}).Where("id = ?", id).Update("total", total).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("Customer").Preload("User").
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *transactionRepo) List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error) {
	var transactions []model.Transaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Transaction{})
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.Product").Preload("Customer").Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&transactions).Error

	return transactions, total, err
}
