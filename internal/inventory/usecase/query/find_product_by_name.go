package query

import (
	"context"

	"github.com/tair/batch-inventory/internal/inventory/domain"
)

// FindProductByNameQuery represents the query to get a product by its exact name
type FindProductByNameQuery struct {
	Name string
}

// FindProductByNameHandler handles find product by name query
type FindProductByNameHandler struct {
	repo domain.ProductRepository
}

// NewFindProductByNameHandler creates a new find product by name handler
func NewFindProductByNameHandler(repo domain.ProductRepository) *FindProductByNameHandler {
	return &FindProductByNameHandler{repo: repo}
}

// Handle executes the find product by name query
func (h *FindProductByNameHandler) Handle(ctx context.Context, query FindProductByNameQuery) (*domain.Product, error) {
	if query.Name == "" {
		return nil, domain.InvalidInput("product name is required")
	}
	return h.repo.FindByName(ctx, query.Name)
}
