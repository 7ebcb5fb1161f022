package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tair/batch-inventory/internal/inventory/domain"
	"github.com/tair/batch-inventory/pkg/logger"
)

// RegisterProductCommand represents the command to register a new product
type RegisterProductCommand struct {
	Name string
}

// RegisterProductHandler handles product registration command
type RegisterProductHandler struct {
	repo      domain.ProductRepository
	publisher domain.EventPublisher
}

// NewRegisterProductHandler creates a new register product handler.
// publisher may be nil.
func NewRegisterProductHandler(repo domain.ProductRepository, publisher domain.EventPublisher) *RegisterProductHandler {
	return &RegisterProductHandler{repo: repo, publisher: publisher}
}

// Handle executes the register product command
func (h *RegisterProductHandler) Handle(ctx context.Context, cmd RegisterProductCommand) (*domain.Product, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, domain.InvalidInput("name cannot be null or empty")
	}

	existing, err := h.repo.FindByName(ctx, cmd.Name)
	switch {
	case err == nil && existing != nil:
		return nil, domain.Conflict("a product with the same name already exists")
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("failed to check product name: %w", err)
	}

	product := &domain.Product{
		Name:          cmd.Name,
		TotalQuantity: 0,
	}

	if err := h.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("product_id", product.ID).
		Str("name", product.Name).
		Msg("Product registered")

	if h.publisher != nil {
		event := domain.ProductRegisteredEvent{ProductID: product.ID, Name: product.Name}
		if err := h.publisher.PublishProductRegistered(ctx, event); err != nil {
			logger.Warn(ctx).Err(err).Uint("product_id", product.ID).Msg("Failed to publish product registered event")
		}
	}

	return product, nil
}
