package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/batch-inventory/internal/inventory/domain"
)

// GormProductRepository implements domain.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return domain.InvalidInput("product cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Conflict("a product with the same name already exists")
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return domain.InvalidInput("product cannot be nil")
	}
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (r *GormProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	query := r.db.WithContext(ctx).Order("id ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *GormProductRepository) AddQuantity(ctx context.Context, id uint, delta int) error {
	result := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_quantity": gorm.Expr("total_quantity + ?", delta),
			"version":        gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update product quantity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("product not found")
	}
	return nil
}

// GormBatchRepository implements domain.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

func (r *GormBatchRepository) Create(ctx context.Context, batch *domain.Batch) error {
	if batch == nil {
		return domain.InvalidInput("batch cannot be nil")
	}
	// The owning product is written through ProductRepository only.
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(batch).Error; err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	return nil
}

func (r *GormBatchRepository) FindByID(ctx context.Context, id uint) (*domain.Batch, error) {
	var batch domain.Batch
	if err := r.db.WithContext(ctx).First(&batch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("batch not found")
		}
		return nil, fmt.Errorf("failed to find batch: %w", err)
	}
	return &batch, nil
}

func (r *GormBatchRepository) FindByProductID(ctx context.Context, productID uint, limit, offset int) ([]domain.Batch, error) {
	var batches []domain.Batch
	query := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("failed to find batches: %w", err)
	}
	return batches, nil
}

// AutoMigrate creates or updates the product and batch tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Product{}, &domain.Batch{})
}
