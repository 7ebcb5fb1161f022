package command_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"pgregory.net/rapid"

	"github.com/tair/batch-inventory/internal/inventory/domain"
	"github.com/tair/batch-inventory/internal/inventory/inventorytest"
	"github.com/tair/batch-inventory/internal/inventory/repository"
	"github.com/tair/batch-inventory/internal/inventory/usecase/command"
)

const today = "2024-06-15"

type recordingPublisher struct {
	products []domain.ProductRegisteredEvent
	batches  []domain.BatchRecordedEvent
	err      error
}

func (p *recordingPublisher) PublishProductRegistered(_ context.Context, event domain.ProductRegisteredEvent) error {
	p.products = append(p.products, event)
	return p.err
}

func (p *recordingPublisher) PublishBatchRecorded(_ context.Context, event domain.BatchRecordedEvent) error {
	p.batches = append(p.batches, event)
	return p.err
}

type recordingCache struct {
	invalidated []uint
}

func (c *recordingCache) Get(context.Context, uint) (*domain.Product, error) { return nil, nil }
func (c *recordingCache) Set(context.Context, *domain.Product) error          { return nil }
func (c *recordingCache) Invalidate(_ context.Context, id uint) error {
	c.invalidated = append(c.invalidated, id)
	return nil
}

func newRecordEntryHandler(db *gorm.DB, cache domain.ProductCache, publisher domain.EventPublisher) *command.RecordEntryHandler {
	return command.NewRecordEntryHandler(
		repository.NewGormTransactionManager(db, false),
		repository.NewGormProductRepository(db),
		cache,
		publisher,
		command.Clock{Now: inventorytest.FixedClock(today), Location: time.UTC},
	)
}

func entry(productID int, production, expiration string, quantity int) command.RecordEntryCommand {
	return command.RecordEntryCommand{
		Code:           inventorytest.IntPtr(123),
		ProductID:      inventorytest.IntPtr(productID),
		ProductionDate: production,
		ExpirationDate: expiration,
		Quantity:       inventorytest.IntPtr(quantity),
	}
}

func countBatches(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&domain.Batch{}).Count(&n).Error)
	return n
}

func TestRegisterProduct(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	publisher := &recordingPublisher{}
	handler := command.NewRegisterProductHandler(repository.NewGormProductRepository(db), publisher)

	product, err := handler.Handle(ctx, command.RegisterProductCommand{Name: "Widget"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), product.ID)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, 0, product.TotalQuantity)

	require.Len(t, publisher.products, 1)
	assert.Equal(t, domain.ProductRegisteredEvent{ProductID: 1, Name: "Widget"}, publisher.products[0])

	_, err = handler.Handle(ctx, command.RegisterProductCommand{Name: "Widget"})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	// Names are compared exactly.
	other, err := handler.Handle(ctx, command.RegisterProductCommand{Name: "widget"})
	require.NoError(t, err)
	assert.Equal(t, uint(2), other.ID)
}

func TestRegisterProduct_RejectsBlankName(t *testing.T) {
	db := inventorytest.NewDB(t)
	handler := command.NewRegisterProductHandler(repository.NewGormProductRepository(db), nil)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := handler.Handle(context.Background(), command.RegisterProductCommand{Name: name})
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "name %q", name)
	}

	var n int64
	require.NoError(t, db.Model(&domain.Product{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRegisterProduct_PublishFailureDoesNotFail(t *testing.T) {
	db := inventorytest.NewDB(t)
	publisher := &recordingPublisher{err: errors.New("broker down")}
	handler := command.NewRegisterProductHandler(repository.NewGormProductRepository(db), publisher)

	product, err := handler.Handle(context.Background(), command.RegisterProductCommand{Name: "Widget"})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
}

func TestRecordEntry_AccumulatesTotal(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	cache := &recordingCache{}
	publisher := &recordingPublisher{}
	widget := inventorytest.SeedProduct(t, db, "Widget", 0)
	handler := newRecordEntryHandler(db, cache, publisher)

	batch, err := handler.Handle(ctx, entry(int(widget.ID), "2024-01-01", "2025-01-01", 10))
	require.NoError(t, err)
	assert.NotZero(t, batch.ID)
	assert.Equal(t, 123, batch.Code)
	assert.Equal(t, widget.ID, batch.ProductID)
	assert.Equal(t, 10, batch.Product.TotalQuantity)
	assert.Equal(t, "2024-01-01", domain.FormatDate(batch.ProductionDate))
	assert.Equal(t, "2025-01-01", domain.FormatDate(batch.ExpirationDate))

	batch, err = handler.Handle(ctx, entry(int(widget.ID), "2024-02-01", "2025-02-01", 5))
	require.NoError(t, err)
	assert.Equal(t, 15, batch.Product.TotalQuantity)

	stored, err := repository.NewGormProductRepository(db).FindByID(ctx, widget.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, stored.TotalQuantity)
	assert.Equal(t, int64(2), countBatches(t, db))

	assert.Equal(t, []uint{widget.ID, widget.ID}, cache.invalidated)
	require.Len(t, publisher.batches, 2)
	assert.Equal(t, 15, publisher.batches[1].TotalQuantity)
	assert.Equal(t, 5, publisher.batches[1].Quantity)
}

func TestRecordEntry_BoundaryDatesAreAccepted(t *testing.T) {
	db := inventorytest.NewDB(t)
	widget := inventorytest.SeedProduct(t, db, "Widget", 0)
	handler := newRecordEntryHandler(db, nil, nil)

	batch, err := handler.Handle(context.Background(), entry(int(widget.ID), today, today, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Product.TotalQuantity)
}

func TestRecordEntry_Rejections(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(cmd *command.RecordEntryCommand)
		businessRule bool
		message      string
	}{
		{
			name:    "missing code",
			mutate:  func(cmd *command.RecordEntryCommand) { cmd.Code = nil },
			message: "the batch code cannot be null",
		},
		{
			name:    "zero code",
			mutate:  func(cmd *command.RecordEntryCommand) { cmd.Code = inventorytest.IntPtr(0) },
			message: "the batch code cannot be less than or equal to zero",
		},
		{
			name:    "missing product id",
			mutate:  func(cmd *command.RecordEntryCommand) { cmd.ProductID = nil },
			message: "product ID cannot be null",
		},
		{
			name:    "negative product id",
			mutate:  func(cmd *command.RecordEntryCommand) { cmd.ProductID = inventorytest.IntPtr(-1) },
			message: "product ID must be greater than zero",
		},
		{
			name:         "unknown product",
			mutate:       func(cmd *command.RecordEntryCommand) { cmd.ProductID = inventorytest.IntPtr(999) },
			businessRule: true,
			message:      "product not found",
		},
		{
			name:    "empty production date",
			mutate:  func(cmd *command.RecordEntryCommand) { cmd.ProductionDate = "" },
			message: "production date string cannot be null or empty",
		},
		{
			name:    "malformed production date",
			mutate:  func(cmd *command.RecordEntryCommand) { cmd.ProductionDate = "01/01/2024" },
			message: "invalid production date format",
		},
		{
			name:         "future production date",
			mutate:       func(cmd *command.RecordEntryCommand) { cmd.ProductionDate = "2024-06-16" },
			businessRule: true,
			message:      "invalid production date: date is in the future",
		},
		{
			name:    "empty expiration date",
			mutate:  func(cmd *command.RecordEntryCommand) { cmd.ExpirationDate = "" },
			message: "expiration date string cannot be null or empty",
		},
		{
			name:    "malformed expiration date",
			mutate:  func(cmd *command.RecordEntryCommand) { cmd.ExpirationDate = "2025-13-01" },
			message: "invalid expiration date format",
		},
		{
			name:         "past expiration date",
			mutate:       func(cmd *command.RecordEntryCommand) { cmd.ExpirationDate = "2024-06-14" },
			businessRule: true,
			message:      "invalid expiration date: date is in the past",
		},
		{
			name:    "missing quantity",
			mutate:  func(cmd *command.RecordEntryCommand) { cmd.Quantity = nil },
			message: "the amount of products in the batch cannot be null",
		},
		{
			name:    "zero quantity",
			mutate:  func(cmd *command.RecordEntryCommand) { cmd.Quantity = inventorytest.IntPtr(0) },
			message: "the amount of products in the batch cannot be less than or equal to zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db := inventorytest.NewDB(t)
			widget := inventorytest.SeedProduct(t, db, "Widget", 0)
			publisher := &recordingPublisher{}
			handler := newRecordEntryHandler(db, nil, publisher)

			cmd := entry(int(widget.ID), "2024-01-01", "2025-01-01", 10)
			tt.mutate(&cmd)

			_, err := handler.Handle(ctx, cmd)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			assert.Equal(t, tt.businessRule, errors.Is(err, domain.ErrBusinessRule))
			assert.Contains(t, err.Error(), tt.message)

			assert.Zero(t, countBatches(t, db))
			stored, err := repository.NewGormProductRepository(db).FindByID(ctx, widget.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, stored.TotalQuantity)
			assert.Empty(t, publisher.batches)
		})
	}
}

func TestRecordEntry_ValidationOrder(t *testing.T) {
	db := inventorytest.NewDB(t)
	handler := newRecordEntryHandler(db, nil, nil)

	// Every field is wrong; the code is checked first.
	_, err := handler.Handle(context.Background(), command.RecordEntryCommand{
		Code:           inventorytest.IntPtr(-5),
		ProductID:      inventorytest.IntPtr(-1),
		ProductionDate: "bad",
		ExpirationDate: "bad",
		Quantity:       inventorytest.IntPtr(-1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch code")

	// Unknown product wins over a malformed date that comes later.
	_, err = handler.Handle(context.Background(), command.RecordEntryCommand{
		Code:           inventorytest.IntPtr(1),
		ProductID:      inventorytest.IntPtr(7),
		ProductionDate: "bad",
		ExpirationDate: "bad",
		Quantity:       inventorytest.IntPtr(1),
	})
	assert.True(t, errors.Is(err, domain.ErrBusinessRule))
	assert.Contains(t, err.Error(), "product not found")
}

func TestValidateProduct(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	widget := inventorytest.SeedProduct(t, db, "Widget", 4)
	handler := newRecordEntryHandler(db, nil, nil)

	check, err := handler.ValidateProduct(ctx, inventorytest.IntPtr(int(widget.ID)))
	require.NoError(t, err)
	assert.True(t, check.Valid)
	assert.Equal(t, "Widget", check.Product.Name)

	check, err = handler.ValidateProduct(ctx, inventorytest.IntPtr(2))
	require.NoError(t, err)
	assert.False(t, check.Valid)
	assert.Nil(t, check.Product)

	_, err = handler.ValidateProduct(ctx, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestValidateProductionDate_FutureKeepsDate(t *testing.T) {
	handler := newRecordEntryHandler(inventorytest.NewDB(t), nil, nil)

	check, err := handler.ValidateProductionDate("2099-12-31")
	require.NoError(t, err)
	assert.False(t, check.Valid)
	assert.Equal(t, "2099-12-31", domain.FormatDate(check.Date))
}

func TestValidateDates_UsesClockLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	db := inventorytest.NewDB(t)
	// 20:00 UTC on the 15th is the 16th in Tokyo.
	now := time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC)
	handler := command.NewRecordEntryHandler(
		repository.NewGormTransactionManager(db, false),
		repository.NewGormProductRepository(db),
		nil,
		nil,
		command.Clock{Now: func() time.Time { return now }, Location: tokyo},
	)

	production, err := handler.ValidateProductionDate("2024-06-16")
	require.NoError(t, err)
	assert.True(t, production.Valid)

	expiration, err := handler.ValidateExpirationDate("2024-06-15")
	require.NoError(t, err)
	assert.False(t, expiration.Valid)
}

func TestValidators_Properties(t *testing.T) {
	handler := newRecordEntryHandler(inventorytest.NewDB(t), nil, nil)
	base, err := domain.ParseDate(today)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(-1000, 1000).Draw(t, "n")

		if got := handler.ValidateCode(&n) == nil; got != (n > 0) {
			t.Fatalf("ValidateCode(%d) accepted=%v", n, got)
		}
		if got := handler.ValidateQuantity(&n) == nil; got != (n > 0) {
			t.Fatalf("ValidateQuantity(%d) accepted=%v", n, got)
		}

		text := domain.FormatDate(base.AddDate(0, 0, n))

		production, err := handler.ValidateProductionDate(text)
		if err != nil {
			t.Fatalf("ValidateProductionDate(%s): %v", text, err)
		}
		if production.Valid != (n <= 0) {
			t.Fatalf("production %s valid=%v", text, production.Valid)
		}

		expiration, err := handler.ValidateExpirationDate(text)
		if err != nil {
			t.Fatalf("ValidateExpirationDate(%s): %v", text, err)
		}
		if expiration.Valid != (n >= 0) {
			t.Fatalf("expiration %s valid=%v", text, expiration.Valid)
		}
	})
}

func TestRecordEntry_TotalIsSumOfBatches(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	handler := newRecordEntryHandler(db, nil, nil)
	products := repository.NewGormProductRepository(db)
	run := 0

	rapid.Check(t, func(t *rapid.T) {
		run++
		product := &domain.Product{Name: fmt.Sprintf("product-%d", run)}
		if err := products.Create(ctx, product); err != nil {
			t.Fatalf("create product: %v", err)
		}

		quantities := rapid.SliceOfN(rapid.IntRange(-5, 50), 1, 8).Draw(t, "quantities")
		want := 0
		for _, q := range quantities {
			_, err := handler.Handle(ctx, entry(int(product.ID), "2024-01-01", "2025-01-01", q))
			if q > 0 {
				if err != nil {
					t.Fatalf("quantity %d rejected: %v", q, err)
				}
				want += q
			} else if err == nil {
				t.Fatalf("quantity %d accepted", q)
			}
		}

		stored, err := products.FindByID(ctx, product.ID)
		if err != nil {
			t.Fatalf("find product: %v", err)
		}
		if stored.TotalQuantity != want {
			t.Fatalf("total = %d, want %d", stored.TotalQuantity, want)
		}
	})
}

func TestRegisterThenRecord_WidgetScenario(t *testing.T) {
	ctx := context.Background()
	db := inventorytest.NewDB(t)
	products := repository.NewGormProductRepository(db)
	register := command.NewRegisterProductHandler(products, nil)
	record := newRecordEntryHandler(db, nil, nil)

	widget, err := register.Handle(ctx, command.RegisterProductCommand{Name: "Widget"})
	require.NoError(t, err)
	require.Equal(t, uint(1), widget.ID)
	require.Equal(t, 0, widget.TotalQuantity)

	base, err := domain.ParseDate(today)
	require.NoError(t, err)
	production := domain.FormatDate(base.AddDate(0, 0, -2))
	expiration := domain.FormatDate(base.AddDate(0, 0, 5))

	cmd := entry(1, production, expiration, 10)
	cmd.Code = inventorytest.IntPtr(102030)
	batch, err := record.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 102030, batch.Code)
	assert.Equal(t, 10, batch.Product.TotalQuantity)

	cmd.Quantity = inventorytest.IntPtr(5)
	batch, err = record.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 15, batch.Product.TotalQuantity)

	// Batch codes are not required to be unique.
	assert.Equal(t, int64(2), countBatches(t, db))
}
