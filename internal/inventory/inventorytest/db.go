// Package inventorytest provides fixtures for tests that need a real
// database behind the inventory repositories.
package inventorytest

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tair/batch-inventory/internal/inventory/domain"
	"github.com/tair/batch-inventory/internal/inventory/repository"
)

// NewDB opens a migrated in-memory SQLite database that lives for the test
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repository.AutoMigrate(db))
	return db
}

// SeedProduct inserts a product with the given name and total quantity
func SeedProduct(t *testing.T, db *gorm.DB, name string, total int) *domain.Product {
	t.Helper()

	product := &domain.Product{Name: name, TotalQuantity: total}
	require.NoError(t, repository.NewGormProductRepository(db).Create(context.Background(), product))
	return product
}

// FixedClock returns a clock pinned to the given calendar date in UTC
func FixedClock(date string) func() time.Time {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		panic(err)
	}
	noon := t.Add(12 * time.Hour)
	return func() time.Time { return noon }
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
