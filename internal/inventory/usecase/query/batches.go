package query

import (
	"context"
	"fmt"

	"github.com/tair/batch-inventory/internal/inventory/domain"
)

// GetBatchQuery represents the query to get a batch by ID
type GetBatchQuery struct {
	ID uint
}

// GetBatchHandler handles get batch query
type GetBatchHandler struct {
	repo domain.BatchRepository
}

// NewGetBatchHandler creates a new get batch handler
func NewGetBatchHandler(repo domain.BatchRepository) *GetBatchHandler {
	return &GetBatchHandler{repo: repo}
}

// Handle executes the get batch query
func (h *GetBatchHandler) Handle(ctx context.Context, query GetBatchQuery) (*domain.Batch, error) {
	if query.ID == 0 {
		return nil, domain.InvalidInput("invalid batch id")
	}
	return h.repo.FindByID(ctx, query.ID)
}

// ListBatchesQuery represents the query to list the batches of one product
type ListBatchesQuery struct {
	ProductID uint
	Limit     int
	Offset    int
}

// ListBatchesHandler handles list batches query
type ListBatchesHandler struct {
	batches  domain.BatchRepository
	products domain.ProductRepository
}

// NewListBatchesHandler creates a new list batches handler
func NewListBatchesHandler(batches domain.BatchRepository, products domain.ProductRepository) *ListBatchesHandler {
	return &ListBatchesHandler{batches: batches, products: products}
}

// Handle executes the list batches query. It fails with ErrNotFound when the
// product does not exist.
func (h *ListBatchesHandler) Handle(ctx context.Context, query ListBatchesQuery) ([]domain.Batch, error) {
	if query.ProductID == 0 {
		return nil, domain.InvalidInput("invalid product id")
	}
	if query.Limit <= 0 {
		query.Limit = defaultListLimit
	}

	if _, err := h.products.FindByID(ctx, query.ProductID); err != nil {
		return nil, err
	}

	batches, err := h.batches.FindByProductID(ctx, query.ProductID, query.Limit, query.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}
