package domain

import (
	"context"
	"time"
)

// ProductRegisteredEvent is emitted after a product is created
type ProductRegisteredEvent struct {
	ProductID uint
	Name      string
}

// BatchRecordedEvent is emitted after a batch entry has been committed
type BatchRecordedEvent struct {
	BatchID        uint
	Code           int
	ProductID      uint
	Quantity       int
	TotalQuantity  int
	ProductionDate time.Time
	ExpirationDate time.Time
}

// EventPublisher delivers domain events to downstream consumers
type EventPublisher interface {
	PublishProductRegistered(ctx context.Context, event ProductRegisteredEvent) error
	PublishBatchRecorded(ctx context.Context, event BatchRecordedEvent) error
}

// ProductCache is a read-through cache for product lookups by id
type ProductCache interface {
	Get(ctx context.Context, id uint) (*Product, error)
	Set(ctx context.Context, product *Product) error
	Invalidate(ctx context.Context, id uint) error
}
