package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Batch represents a discrete received lot of a product
type Batch struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Code           int       `json:"code" gorm:"not null;index"`
	ProductID      uint      `json:"product_id" gorm:"not null;index"`
	Product        *Product  `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ProductionDate time.Time `json:"-" gorm:"type:date;not null"`
	ExpirationDate time.Time `json:"-" gorm:"type:date;not null"`
	Quantity       int       `json:"quantity" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Batch) TableName() string {
	return "batches"
}

// MarshalJSON renders both dates as YYYY-MM-DD
func (b Batch) MarshalJSON() ([]byte, error) {
	type alias Batch
	return json.Marshal(struct {
		alias
		ProductionDate string `json:"production_date"`
		ExpirationDate string `json:"expiration_date"`
	}{
		alias:          alias(b),
		ProductionDate: FormatDate(b.ProductionDate),
		ExpirationDate: FormatDate(b.ExpirationDate),
	})
}

// BatchRepository defines the contract for batch data access
type BatchRepository interface {
	Create(ctx context.Context, batch *Batch) error
	FindByID(ctx context.Context, id uint) (*Batch, error)
	FindByProductID(ctx context.Context, productID uint, limit, offset int) ([]Batch, error)
}

// Repositories groups the repositories that share one unit of work
type Repositories interface {
	Products() ProductRepository
	Batches() BatchRepository
}

// TransactionManager runs fn inside a single storage transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error
}
