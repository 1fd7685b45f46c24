package service

import (
	"context"

	"github.com/Galih-Arno/aplikasi-kasir/internal/dto"
	"github.com/Galih-Arno/aplikasi-kasir/internal/model"
	"github.com/Galih-Arno/aplikasi-kasir/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CheckoutService interface {
	RecordTransaction(ctx context.Context, operatorID uuid.UUID, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error)
	ListTransactions(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
}

type checkoutService struct {
	repo         repository.TransactionRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
}

func NewCheckoutService(
	repo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
) CheckoutService {
	return &checkoutService{
		repo:         repo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RecordTransaction ────────────────────────────────────────────────────────
// Atomically records a sale:
//  1. Resolve customer and every item (pre-flight, outside the TX), freezing
//     each product's current unit price and accumulating the total in item
//     order.
//  2. BEGIN TX: create the header (total 0) so it has an identity, create one
//     detail per item referencing it, then fix the header total.
//  3. COMMIT — or roll back everything, leaving no partial sale visible.
//
// An empty item list is accepted and yields a zero-total sale with no lines.
// Stock is not decremented here: inventory levels are a catalog attribute
// maintained through product updates.

func (s *checkoutService) RecordTransaction(ctx context.Context, operatorID uuid.UUID, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if operatorID == uuid.Nil {
		return nil, &ValidationError{Field: "operator", Reason: "authenticated operator is required"}
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, &ValidationError{Field: "customer_id", Reason: "must be a valid UUID"}
	}
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, &ReferenceError{Entity: "customer", ID: req.CustomerID}
	}

	// Resolve products and freeze unit prices (pre-flight, outside TX)
	type resolvedItem struct {
		productID uuid.UUID
		name      string
		price     decimal.Decimal
		quantity  int
	}

	var resolved []resolvedItem
	total := decimal.Zero

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
		}
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, &ValidationError{Field: "product_id", Reason: "must be a valid UUID"}
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil || !p.Active {
			return nil, &ReferenceError{Entity: "product", ID: item.ProductID}
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			price:     p.Price,
			quantity:  item.Quantity,
		})
	}

	// All-or-nothing storage transaction: header → details → final total.
	var transaction model.Transaction
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		transaction = model.Transaction{
			Total:         decimal.Zero,
			PaymentMethod: req.PaymentMethod,
			UserID:        operatorID,
			CustomerID:    customerID,
		}
		if err := s.repo.Create(ctx, tx, &transaction); err != nil {
			return err
		}

		for _, r := range resolved {
			detail := model.TransactionDetail{
				TransactionID: transaction.ID,
				ProductID:     r.productID,
				Quantity:      r.quantity,
				Price:         r.price,
			}
			if err := s.repo.CreateDetail(ctx, tx, &detail); err != nil {
				return err
			}
			transaction.Items = append(transaction.Items, detail)
		}

		return s.repo.UpdateTotal(ctx, tx, transaction.ID, total)
	})
	if txErr != nil {
		return nil, &StorageFault{Err: txErr}
	}
	transaction.Total = total

	resp := transactionToResponse(&transaction)
	resp.Customer = customer.Name
	// Enrich items with product names from the resolved slice
	for i, r := range resolved {
		resp.Items[i].Product = r.name
	}
	return resp, nil
}

func (s *checkoutService) GetTransaction(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &ReferenceError{Entity: "transaction", ID: id.String()}
	}
	return transactionToResponse(t), nil
}

// ListTransactions returns a paginated list of sales, newest first,
// optionally filtered by date.
func (s *checkoutService) ListTransactions(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	transactions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, *transactionToResponse(&t))
	}
	return &dto.TransactionListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func transactionToResponse(t *model.Transaction) *dto.TransactionResponse {
	items := make([]dto.TransactionItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.TransactionItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	customerName := ""
	if t.Customer != nil {
		customerName = t.Customer.Name
	}
	cashierName := ""
	if t.User != nil {
		cashierName = t.User.Username
	}
	return &dto.TransactionResponse{
		ID:            t.ID.String(),
		Total:         t.Total,
		PaymentMethod: t.PaymentMethod,
		UserID:        t.UserID.String(),
		CustomerID:    t.CustomerID.String(),
		Customer:      customerName,
		Cashier:       cashierName,
		Items:         items,
		CreatedAt:     t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
