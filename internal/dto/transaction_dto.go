package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type TransactionItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
}

type CreateTransactionRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	// PaymentMethod is a free-text label ("cash", "card", …), not an enum.
	PaymentMethod string `json:"payment_method"`
	// Items may be empty: the sale is then recorded with total 0 and no lines.
	Items []TransactionItemRequest `json:"items" validate:"dive"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

// TransactionFilter is bound from the query string of GET /v1/transactions.
type TransactionFilter struct {
	Date  string `form:"date"` // YYYY-MM-DD; empty = all
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransactionItemResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type TransactionResponse struct {
	ID            string                    `json:"id"`
	Total         decimal.Decimal           `json:"total"`
	PaymentMethod string                    `json:"payment_method"`
	UserID        string                    `json:"user_id"`
	CustomerID    string                    `json:"customer_id"`
	Customer      string                    `json:"customer"`
	Cashier       string                    `json:"cashier"`
	Items         []TransactionItemResponse `json:"items"`
	CreatedAt     string                    `json:"created_at"`
}
