package command

import (
	"context"

	"github.com/tair/batch-inventory/internal/inventory/domain"
	"github.com/tair/batch-inventory/pkg/logger"
)

// RecordEntryCommand represents the command to record an incoming batch.
// Nil pointers and empty strings mean the field was not supplied.
type RecordEntryCommand struct {
	Code           *int
	ProductID      *int
	ProductionDate string
	ExpirationDate string
	Quantity       *int
}

// RecordEntryHandler validates a batch entry and commits it together with
// the owning product's new aggregate quantity
type RecordEntryHandler struct {
	tx        domain.TransactionManager
	products  domain.ProductRepository
	cache     domain.ProductCache
	publisher domain.EventPublisher
	clock     Clock
}

// NewRecordEntryHandler creates a new record entry handler.
// cache and publisher may be nil.
func NewRecordEntryHandler(
	tx domain.TransactionManager,
	products domain.ProductRepository,
	cache domain.ProductCache,
	publisher domain.EventPublisher,
	clock Clock,
) *RecordEntryHandler {
	return &RecordEntryHandler{
		tx:        tx,
		products:  products,
		cache:     cache,
		publisher: publisher,
		clock:     clock,
	}
}

// Handle executes the record entry command. Validation stops at the first
// failure and nothing is written unless every check passes.
func (h *RecordEntryHandler) Handle(ctx context.Context, cmd RecordEntryCommand) (*domain.Batch, error) {
	if err := h.ValidateCode(cmd.Code); err != nil {
		return nil, err
	}

	productCheck, err := h.ValidateProduct(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if !productCheck.Valid {
		return nil, domain.BusinessRule("product not found")
	}

	production, err := h.ValidateProductionDate(cmd.ProductionDate)
	if err != nil {
		return nil, err
	}
	if !production.Valid {
		return nil, domain.BusinessRule("invalid production date: date is in the future")
	}

	expiration, err := h.ValidateExpirationDate(cmd.ExpirationDate)
	if err != nil {
		return nil, err
	}
	if !expiration.Valid {
		return nil, domain.BusinessRule("invalid expiration date: date is in the past")
	}

	if err := h.ValidateQuantity(cmd.Quantity); err != nil {
		return nil, err
	}

	product := productCheck.Product
	batch := &domain.Batch{
		Code:           *cmd.Code,
		ProductID:      product.ID,
		Product:        product,
		ProductionDate: production.Date,
		ExpirationDate: expiration.Date,
		Quantity:       *cmd.Quantity,
	}

	err = h.tx.WithinTransaction(ctx, func(repos domain.Repositories) error {
		if err := repos.Batches().Create(ctx, batch); err != nil {
			return err
		}
		if err := repos.Products().AddQuantity(ctx, product.ID, batch.Quantity); err != nil {
			return err
		}
		updated, err := repos.Products().FindByID(ctx, product.ID)
		if err != nil {
			return err
		}
		batch.Product = updated
		return nil
	})
	if err != nil {
		logger.Error(ctx).Err(err).
			Uint("product_id", product.ID).
			Int("code", batch.Code).
			Msg("Failed to commit batch entry")
		return nil, err
	}

	logger.Info(ctx).
		Uint("batch_id", batch.ID).
		Int("code", batch.Code).
		Uint("product_id", batch.ProductID).
		Int("quantity", batch.Quantity).
		Int("total_quantity", batch.Product.TotalQuantity).
		Msg("Batch entry recorded")

	h.afterCommit(ctx, batch)

	return batch, nil
}

func (h *RecordEntryHandler) afterCommit(ctx context.Context, batch *domain.Batch) {
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, batch.ProductID); err != nil {
			logger.Warn(ctx).Err(err).Uint("product_id", batch.ProductID).Msg("Failed to invalidate product cache")
		}
	}

	if h.publisher != nil {
		event := domain.BatchRecordedEvent{
			BatchID:        batch.ID,
			Code:           batch.Code,
			ProductID:      batch.ProductID,
			Quantity:       batch.Quantity,
			TotalQuantity:  batch.Product.TotalQuantity,
			ProductionDate: batch.ProductionDate,
			ExpirationDate: batch.ExpirationDate,
		}
		if err := h.publisher.PublishBatchRecorded(ctx, event); err != nil {
			logger.Warn(ctx).Err(err).Uint("batch_id", batch.ID).Msg("Failed to publish batch recorded event")
		}
	}
}
