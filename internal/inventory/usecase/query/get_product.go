package query

import (
	"context"

	"github.com/tair/batch-inventory/internal/inventory/domain"
	"github.com/tair/batch-inventory/pkg/logger"
)

// GetProductQuery represents the query to get a product by ID
type GetProductQuery struct {
	ID uint
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo  domain.ProductRepository
	cache domain.ProductCache
}

// NewGetProductHandler creates a new get product handler. cache may be nil.
func NewGetProductHandler(repo domain.ProductRepository, cache domain.ProductCache) *GetProductHandler {
	return &GetProductHandler{repo: repo, cache: cache}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*domain.Product, error) {
	if query.ID == 0 {
		return nil, domain.InvalidInput("invalid product id")
	}

	if h.cache != nil {
		product, err := h.cache.Get(ctx, query.ID)
		if err != nil {
			logger.Warn(ctx).Err(err).Uint("product_id", query.ID).Msg("Product cache read failed")
		} else if product != nil {
			return product, nil
		}
	}

	product, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, product); err != nil {
			logger.Warn(ctx).Err(err).Uint("product_id", query.ID).Msg("Product cache write failed")
		}
	}

	return product, nil
}
