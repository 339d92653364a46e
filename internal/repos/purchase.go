package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/types"
)

type PurchaseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, purchase *types.Purchase) (*types.Purchase, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]types.Purchase, error)
	GetByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID, limit int) ([]types.Purchase, error)
	// TotalSpentByUser derives the spend aggregate; it is never stored.
	TotalSpentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (float64, error)
	GetSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]types.Purchase, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
	SumAmount(ctx context.Context, tx *gorm.DB) (float64, error)
	SumAmountSince(ctx context.Context, tx *gorm.DB, since time.Time) (float64, error)
	AvgAmount(ctx context.Context, tx *gorm.DB) (float64, error)
}

type purchaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPurchaseRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRepo {
	return &purchaseRepo{db: db, log: baseLog.With("repo", "PurchaseRepo")}
}

func (pr *purchaseRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return pr.db
}

func (pr *purchaseRepo) Create(ctx context.Context, tx *gorm.DB, purchase *types.Purchase) (*types.Purchase, error) {
	if err := pr.conn(tx).WithContext(ctx).Create(purchase).Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

func (pr *purchaseRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]types.Purchase, error) {
	var purchases []types.Purchase
	err := pr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&purchases).Error
	return purchases, err
}

func (pr *purchaseRepo) GetByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID, limit int) ([]types.Purchase, error) {
	var purchases []types.Purchase
	err := pr.conn(tx).WithContext(ctx).
		Where("product_id = ?", productID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&purchases).Error
	return purchases, err
}

func (pr *purchaseRepo) TotalSpentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (float64, error) {
	var total *float64
	err := pr.conn(tx).WithContext(ctx).
		Model(&types.Purchase{}).
		Select("SUM(amount)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

func (pr *purchaseRepo) GetSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]types.Purchase, error) {
	var purchases []types.Purchase
	err := pr.conn(tx).WithContext(ctx).
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp DESC").
		Find(&purchases).Error
	return purchases, err
}

func (pr *purchaseRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	err := pr.conn(tx).WithContext(ctx).Model(&types.Purchase{}).Count(&count).Error
	return count, err
}

func (pr *purchaseRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	var count int64
	err := pr.conn(tx).WithContext(ctx).
		Model(&types.Purchase{}).
		Where("timestamp >= ?", since).
		Count(&count).Error
	return count, err
}

func (pr *purchaseRepo) SumAmount(ctx context.Context, tx *gorm.DB) (float64, error) {
	var total *float64
	err := pr.conn(tx).WithContext(ctx).
		Model(&types.Purchase{}).
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

func (pr *purchaseRepo) SumAmountSince(ctx context.Context, tx *gorm.DB, since time.Time) (float64, error) {
	var total *float64
	err := pr.conn(tx).WithContext(ctx).
		Model(&types.Purchase{}).
		Select("SUM(amount)").
		Where("timestamp >= ?", since).
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

func (pr *purchaseRepo) AvgAmount(ctx context.Context, tx *gorm.DB) (float64, error) {
	var avg *float64
	err := pr.conn(tx).WithContext(ctx).
		Model(&types.Purchase{}).
		Select("AVG(amount)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
