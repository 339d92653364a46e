package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/types"
)

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error)
	GetByID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.Product, error)
	GetByCategory(ctx context.Context, tx *gorm.DB, category types.ProductCategory, limit int) ([]types.Product, error)
	Search(ctx context.Context, tx *gorm.DB, query string, limit int) ([]types.Product, error)
	GetByPriceRange(ctx context.Context, tx *gorm.DB, minPrice, maxPrice float64, limit int) ([]types.Product, error)
	// GetFeatured returns the most recently added products.
	GetFeatured(ctx context.Context, tx *gorm.DB, limit int) ([]types.Product, error)
	List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]types.Product, error)
	Update(ctx context.Context, tx *gorm.DB, productID uuid.UUID, updates map[string]any) (*types.Product, error)
	Delete(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (bool, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (pr *productRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return pr.db
}

func (pr *productRepo) Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error) {
	if err := pr.conn(tx).WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (pr *productRepo) GetByID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.Product, error) {
	var product types.Product
	err := pr.conn(tx).WithContext(ctx).Where("id = ?", productID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (pr *productRepo) GetByCategory(ctx context.Context, tx *gorm.DB, category types.ProductCategory, limit int) ([]types.Product, error) {
	var products []types.Product
	err := pr.conn(tx).WithContext(ctx).
		Where("category = ?", category).
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (pr *productRepo) Search(ctx context.Context, tx *gorm.DB, query string, limit int) ([]types.Product, error) {
	var products []types.Product
	pattern := "%" + strings.ToLower(query) + "%"
	err := pr.conn(tx).WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (pr *productRepo) GetByPriceRange(ctx context.Context, tx *gorm.DB, minPrice, maxPrice float64, limit int) ([]types.Product, error) {
	var products []types.Product
	err := pr.conn(tx).WithContext(ctx).
		Where("price >= ? AND price <= ?", minPrice, maxPrice).
		Order("price ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (pr *productRepo) GetFeatured(ctx context.Context, tx *gorm.DB, limit int) ([]types.Product, error) {
	var products []types.Product
	err := pr.conn(tx).WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (pr *productRepo) List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]types.Product, error) {
	var products []types.Product
	err := pr.conn(tx).WithContext(ctx).
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (pr *productRepo) Update(ctx context.Context, tx *gorm.DB, productID uuid.UUID, updates map[string]any) (*types.Product, error) {
	res := pr.conn(tx).WithContext(ctx).
		Model(&types.Product{}).
		Where("id = ?", productID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return pr.GetByID(ctx, tx, productID)
}

func (pr *productRepo) Delete(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (bool, error) {
	res := pr.conn(tx).WithContext(ctx).
		Where("id = ?", productID).
		Delete(&types.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (pr *productRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	err := pr.conn(tx).WithContext(ctx).Model(&types.Product{}).Count(&count).Error
	return count, err
}
