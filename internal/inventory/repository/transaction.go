package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tair/batch-inventory/internal/inventory/domain"
)

// GormTransactionManager runs units of work inside a GORM transaction
type GormTransactionManager struct {
	db      *gorm.DB
	tracing bool
}

// NewGormTransactionManager creates a transaction manager. When tracing is
// set, repositories handed to the unit of work are wrapped with spans.
func NewGormTransactionManager(db *gorm.DB, tracing bool) *GormTransactionManager {
	return &GormTransactionManager{db: db, tracing: tracing}
}

func (m *GormTransactionManager) WithinTransaction(ctx context.Context, fn func(repos domain.Repositories) error) error {
	ctx, span := tracer.Start(ctx, "repository.Transaction")
	defer span.End()

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepositories(tx, m.tracing))
	})
	if err != nil {
		addDBErrorToSpan(span, err)
	}
	return err
}

type txRepositories struct {
	products domain.ProductRepository
	batches  domain.BatchRepository
}

func newTxRepositories(tx *gorm.DB, tracing bool) *txRepositories {
	var products domain.ProductRepository = NewGormProductRepository(tx)
	var batches domain.BatchRepository = NewGormBatchRepository(tx)
	if tracing {
		products = NewTracingProductRepository(products)
		batches = NewTracingBatchRepository(batches)
	}
	return &txRepositories{products: products, batches: batches}
}

func (r *txRepositories) Products() domain.ProductRepository {
	return r.products
}

func (r *txRepositories) Batches() domain.BatchRepository {
	return r.batches
}
