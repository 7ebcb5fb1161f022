//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/batch-inventory/internal/inventory/delivery/http"
	"github.com/tair/batch-inventory/internal/inventory/domain"
	"github.com/tair/batch-inventory/internal/inventory/usecase/command"
	"github.com/tair/batch-inventory/internal/inventory/usecase/query"
)

var CommandSet = wire.NewSet(
	command.NewRegisterProductHandler,
	command.NewRecordEntryHandler,
)

var QuerySet = wire.NewSet(
	query.NewGetProductHandler,
	query.NewFindProductByNameHandler,
	query.NewListProductsHandler,
	query.NewGetBatchHandler,
	query.NewListBatchesHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies.
// cache and publisher may be nil interfaces to disable them.
func InitializeHTTPHandler(
	db *gorm.DB,
	tracing TracingEnabled,
	cache domain.ProductCache,
	publisher domain.EventPublisher,
	clock command.Clock,
	registerer prometheus.Registerer,
) (*http.InventoryHandler, error) {
	wire.Build(
		RepositorySet,
		CommandSet,
		QuerySet,
		http.NewMetrics,
		http.NewInventoryHandler,
	)
	return nil, nil
}
