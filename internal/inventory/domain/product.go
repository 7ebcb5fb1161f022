package domain

import (
	"context"
	"time"
)

// Product represents a catalog item tracked by name and aggregate on-hand quantity
type Product struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null;uniqueIndex"`
	TotalQuantity int       `json:"total_quantity" gorm:"not null;default:0"`
	Version       int       `json:"version" gorm:"not null;default:0"`
	Batches       []Batch   `json:"-" gorm:"foreignKey:ProductID"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
	FindAll(ctx context.Context, limit, offset int) ([]Product, error)
	Count(ctx context.Context) (int64, error)

	// AddQuantity increments the aggregate quantity in place and bumps the
	// version stamp. It returns ErrNotFound when no row was touched.
	AddQuantity(ctx context.Context, id uint, delta int) error
}
