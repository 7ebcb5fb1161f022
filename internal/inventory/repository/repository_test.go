package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tair/batch-inventory/internal/inventory/domain"
	"github.com/tair/batch-inventory/internal/inventory/inventorytest"
	"github.com/tair/batch-inventory/internal/inventory/repository"
)

func date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestProductRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	repo := repository.NewGormProductRepository(db)

	product := &domain.Product{Name: "Widget"}
	require.NoError(t, repo.Create(ctx, product))
	assert.Equal(t, uint(1), product.ID)

	byID, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", byID.Name)
	assert.Equal(t, 0, byID.TotalQuantity)

	byName, err := repo.FindByName(ctx, "Widget")
	require.NoError(t, err)
	assert.Equal(t, product.ID, byName.ID)

	_, err = repo.FindByName(ctx, "widget")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = repo.FindByID(ctx, 99)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProductRepository_CreateDuplicateNameConflicts(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	repo := repository.NewGormProductRepository(db)

	require.NoError(t, repo.Create(ctx, &domain.Product{Name: "Widget"}))

	err := repo.Create(ctx, &domain.Product{Name: "Widget"})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTracingRepositories_RejectNil(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	products := repository.NewTracingProductRepository(repository.NewGormProductRepository(db))
	batches := repository.NewTracingBatchRepository(repository.NewGormBatchRepository(db))

	assert.NotPanics(t, func() {
		assert.True(t, errors.Is(products.Create(ctx, nil), domain.ErrInvalidInput))
		assert.True(t, errors.Is(products.Update(ctx, nil), domain.ErrInvalidInput))
		assert.True(t, errors.Is(batches.Create(ctx, nil), domain.ErrInvalidInput))
	})
}

func TestProductRepository_FindAllOrdersByID(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	repo := repository.NewGormProductRepository(db)

	for _, name := range []string{"Gamma", "Alpha", "Beta"} {
		inventorytest.SeedProduct(t, db, name, 0)
	}

	all, err := repo.FindAll(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Gamma", all[0].Name)
	assert.Equal(t, "Beta", all[2].Name)

	page, err := repo.FindAll(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Alpha", page[0].Name)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestProductRepository_AddQuantity(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	repo := repository.NewGormProductRepository(db)
	product := inventorytest.SeedProduct(t, db, "Widget", 0)

	require.NoError(t, repo.AddQuantity(ctx, product.ID, 10))
	require.NoError(t, repo.AddQuantity(ctx, product.ID, 5))

	got, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.TotalQuantity)
	assert.Equal(t, 2, got.Version)

	err = repo.AddQuantity(ctx, 42, 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProductRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	repo := repository.NewGormProductRepository(db)
	product := inventorytest.SeedProduct(t, db, "Widget", 0)

	product.TotalQuantity = 8
	require.NoError(t, repo.Update(ctx, product))

	got, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.TotalQuantity)
}

func TestBatchRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	repo := repository.NewGormBatchRepository(db)
	widget := inventorytest.SeedProduct(t, db, "Widget", 0)
	gadget := inventorytest.SeedProduct(t, db, "Gadget", 0)

	for i, productID := range []uint{widget.ID, gadget.ID, widget.ID} {
		batch := &domain.Batch{
			Code:           100 + i,
			ProductID:      productID,
			ProductionDate: date("2024-01-01"),
			ExpirationDate: date("2025-01-01"),
			Quantity:       i + 1,
		}
		require.NoError(t, repo.Create(ctx, batch))
	}

	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Code)
	assert.Equal(t, "2024-01-01", domain.FormatDate(got.ProductionDate))
	assert.Equal(t, "2025-01-01", domain.FormatDate(got.ExpirationDate))

	batches, err := repo.FindByProductID(ctx, widget.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, 100, batches[0].Code)
	assert.Equal(t, 102, batches[1].Code)

	_, err = repo.FindByID(ctx, 99)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBatchRepository_CreateDoesNotWriteProduct(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	product := inventorytest.SeedProduct(t, db, "Widget", 0)

	stale := *product
	stale.TotalQuantity = 999
	batch := &domain.Batch{
		Code:           1,
		ProductID:      product.ID,
		Product:        &stale,
		ProductionDate: date("2024-01-01"),
		ExpirationDate: date("2025-01-01"),
		Quantity:       3,
	}
	require.NoError(t, repository.NewGormBatchRepository(db).Create(ctx, batch))

	got, err := repository.NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalQuantity)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	product := inventorytest.SeedProduct(t, db, "Widget", 0)
	tx := repository.NewGormTransactionManager(db, false)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(repos domain.Repositories) error {
		batch := &domain.Batch{
			Code:           1,
			ProductID:      product.ID,
			ProductionDate: date("2024-01-01"),
			ExpirationDate: date("2025-01-01"),
			Quantity:       4,
		}
		require.NoError(t, repos.Batches().Create(ctx, batch))
		require.NoError(t, repos.Products().AddQuantity(ctx, product.ID, 4))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	batches, err := repository.NewGormBatchRepository(db).FindByProductID(ctx, product.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, batches)

	got, err := repository.NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalQuantity)
}

func TestTransactionManager_CommitsWithTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	ctx := context.Background()
	db := inventorytest.NewDB(t)
	product := inventorytest.SeedProduct(t, db, "Widget", 0)
	tx := repository.NewGormTransactionManager(db, true)

	err := tx.WithinTransaction(ctx, func(repos domain.Repositories) error {
		return repos.Products().AddQuantity(ctx, product.ID, 7)
	})
	require.NoError(t, err)

	got, err := repository.NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.TotalQuantity)

	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	assert.Contains(t, names, "repository.Transaction")
	assert.Contains(t, names, "repository.product.AddQuantity")
}
