package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is the sale header. Total is derived: it must equal the sum of
// Quantity × Price over Items, and is written exactly once after the items
// are persisted. Never mutated after that, never deleted.
type Transaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(50);not null"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time

	User     *User               `gorm:"foreignKey:UserID"`
	Customer *Customer           `gorm:"foreignKey:CustomerID"`
	Items    []TransactionDetail `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
}

// TransactionDetail is one line of a sale. Price is the unit price frozen at
// sale time — a copy, not a live reference to the product.
type TransactionDetail struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity      int             `gorm:"not null"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (d *TransactionDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
