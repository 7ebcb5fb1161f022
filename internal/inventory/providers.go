package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/batch-inventory/internal/inventory/domain"
	"github.com/tair/batch-inventory/internal/inventory/repository"
)

// TracingEnabled toggles the repository tracing decorators
type TracingEnabled bool

// ProvideProductRepository provides the product repository
func ProvideProductRepository(db *gorm.DB, tracing TracingEnabled) domain.ProductRepository {
	var repo domain.ProductRepository = repository.NewGormProductRepository(db)
	if tracing {
		repo = repository.NewTracingProductRepository(repo)
	}
	return repo
}

// ProvideBatchRepository provides the batch repository
func ProvideBatchRepository(db *gorm.DB, tracing TracingEnabled) domain.BatchRepository {
	var repo domain.BatchRepository = repository.NewGormBatchRepository(db)
	if tracing {
		repo = repository.NewTracingBatchRepository(repo)
	}
	return repo
}

// ProvideTransactionManager provides the unit of work used by batch registration
func ProvideTransactionManager(db *gorm.DB, tracing TracingEnabled) domain.TransactionManager {
	return repository.NewGormTransactionManager(db, bool(tracing))
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideProductRepository,
	ProvideBatchRepository,
	ProvideTransactionManager,
)
