package repository

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/batch-inventory/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracingProductRepository wraps a ProductRepository with tracing
type TracingProductRepository struct {
	next domain.ProductRepository
}

// NewTracingProductRepository creates a new repository with tracing
func NewTracingProductRepository(next domain.ProductRepository) *TracingProductRepository {
	return &TracingProductRepository{next: next}
}

// Create with tracing
func (r *TracingProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := tracer.Start(ctx, "repository.product.Create")
	defer span.End()

	if product != nil {
		span.SetAttributes(attribute.String("product.name", product.Name))
	}

	if err := r.next.Create(ctx, product); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("product.id", int(product.ID)))
	return nil
}

// Update with tracing
func (r *TracingProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := tracer.Start(ctx, "repository.product.Update")
	defer span.End()

	if product != nil {
		span.SetAttributes(
			attribute.Int("product.id", int(product.ID)),
			attribute.Int("product.total_quantity", product.TotalQuantity),
		)
	}

	if err := r.next.Update(ctx, product); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}
	return nil
}

// FindByID with tracing
func (r *TracingProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.product.FindByID",
		trace.WithAttributes(
			attribute.Int("product.id", int(id)),
		),
	)
	defer span.End()

	product, err := r.next.FindByID(ctx, id)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("product.name", product.Name),
		attribute.Int("product.total_quantity", product.TotalQuantity),
	)
	return product, nil
}

// FindByName with tracing
func (r *TracingProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.product.FindByName",
		trace.WithAttributes(
			attribute.String("product.name", name),
		),
	)
	defer span.End()

	product, err := r.next.FindByName(ctx, name)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.id", int(product.ID)))
	return product, nil
}

// FindAll with tracing
func (r *TracingProductRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.product.FindAll",
		trace.WithAttributes(
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	products, err := r.next.FindAll(ctx, limit, offset)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

// Count with tracing
func (r *TracingProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.product.Count")
	defer span.End()

	count, err := r.next.Count(ctx)
	if err != nil {
		addDBErrorToSpan(span, err)
		return 0, err
	}
	return count, nil
}

// AddQuantity with tracing
func (r *TracingProductRepository) AddQuantity(ctx context.Context, id uint, delta int) error {
	ctx, span := tracer.Start(ctx, "repository.product.AddQuantity",
		trace.WithAttributes(
			attribute.Int("product.id", int(id)),
			attribute.Int("quantity.delta", delta),
		),
	)
	defer span.End()

	if err := r.next.AddQuantity(ctx, id, delta); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}
	return nil
}

// TracingBatchRepository wraps a BatchRepository with tracing
type TracingBatchRepository struct {
	next domain.BatchRepository
}

// NewTracingBatchRepository creates a new repository with tracing
func NewTracingBatchRepository(next domain.BatchRepository) *TracingBatchRepository {
	return &TracingBatchRepository{next: next}
}

// Create with tracing
func (r *TracingBatchRepository) Create(ctx context.Context, batch *domain.Batch) error {
	ctx, span := tracer.Start(ctx, "repository.batch.Create")
	defer span.End()

	if batch != nil {
		span.SetAttributes(
			attribute.Int("batch.code", batch.Code),
			attribute.Int("batch.product_id", int(batch.ProductID)),
			attribute.Int("batch.quantity", batch.Quantity),
		)
	}

	if err := r.next.Create(ctx, batch); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("batch.id", int(batch.ID)))
	return nil
}

// FindByID with tracing
func (r *TracingBatchRepository) FindByID(ctx context.Context, id uint) (*domain.Batch, error) {
	ctx, span := tracer.Start(ctx, "repository.batch.FindByID",
		trace.WithAttributes(
			attribute.Int("batch.id", int(id)),
		),
	)
	defer span.End()

	batch, err := r.next.FindByID(ctx, id)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}
	return batch, nil
}

// FindByProductID with tracing
func (r *TracingBatchRepository) FindByProductID(ctx context.Context, productID uint, limit, offset int) ([]domain.Batch, error) {
	ctx, span := tracer.Start(ctx, "repository.batch.FindByProductID",
		trace.WithAttributes(
			attribute.Int("batch.product_id", int(productID)),
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	batches, err := r.next.FindByProductID(ctx, productID, limit, offset)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(batches)))
	return batches, nil
}

// Helper function to add database error details to span
func addDBErrorToSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("database error: %v", err))
	}
}
