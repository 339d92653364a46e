package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/types"
)

type UserInterestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, interest *types.UserInterest) (*types.UserInterest, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]types.UserInterest, error)
	GetByCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category types.InterestCategory) ([]types.UserInterest, error)
	// FindTriple locates the row for a (user, category, value) triple, the
	// uniqueness unit for interests.
	FindTriple(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category types.InterestCategory, value string) (*types.UserInterest, error)
	UpdateConfidence(ctx context.Context, tx *gorm.DB, interestID uuid.UUID, score float64) (*types.UserInterest, error)
	Delete(ctx context.Context, tx *gorm.DB, interestID uuid.UUID) (bool, error)
	TopCategories(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]types.CategoryBreakdown, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type userInterestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserInterestRepo(db *gorm.DB, baseLog *logger.Logger) UserInterestRepo {
	return &userInterestRepo{db: db, log: baseLog.With("repo", "UserInterestRepo")}
}

func (ir *userInterestRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return ir.db
}

func (ir *userInterestRepo) Create(ctx context.Context, tx *gorm.DB, interest *types.UserInterest) (*types.UserInterest, error) {
	if err := ir.conn(tx).WithContext(ctx).Create(interest).Error; err != nil {
		return nil, err
	}
	return interest, nil
}

func (ir *userInterestRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]types.UserInterest, error) {
	var interests []types.UserInterest
	err := ir.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("confidence_score DESC").
		Limit(limit).
		Find(&interests).Error
	return interests, err
}

func (ir *userInterestRepo) GetByCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category types.InterestCategory) ([]types.UserInterest, error) {
	var interests []types.UserInterest
	err := ir.conn(tx).WithContext(ctx).
		Where("user_id = ? AND category = ?", userID, category).
		Order("confidence_score DESC").
		Find(&interests).Error
	return interests, err
}

func (ir *userInterestRepo) FindTriple(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category types.InterestCategory, value string) (*types.UserInterest, error) {
	var interest types.UserInterest
	err := ir.conn(tx).WithContext(ctx).
		Where("user_id = ? AND category = ? AND value = ?", userID, category, value).
		First(&interest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &interest, nil
}

func (ir *userInterestRepo) UpdateConfidence(ctx context.Context, tx *gorm.DB, interestID uuid.UUID, score float64) (*types.UserInterest, error) {
	res := ir.conn(tx).WithContext(ctx).
		Model(&types.UserInterest{}).
		Where("id = ?", interestID).
		Update("confidence_score", score)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	var interest types.UserInterest
	if err := ir.conn(tx).WithContext(ctx).Where("id = ?", interestID).First(&interest).Error; err != nil {
		return nil, err
	}
	return &interest, nil
}

func (ir *userInterestRepo) Delete(ctx context.Context, tx *gorm.DB, interestID uuid.UUID) (bool, error) {
	res := ir.conn(tx).WithContext(ctx).
		Where("id = ?", interestID).
		Delete(&types.UserInterest{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (ir *userInterestRepo) TopCategories(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]types.CategoryBreakdown, error) {
	var rows []types.CategoryBreakdown
	err := ir.conn(tx).WithContext(ctx).
		Model(&types.UserInterest{}).
		Select("category AS category, AVG(confidence_score) AS avg_confidence, COUNT(id) AS interest_count").
		Where("user_id = ?", userID).
		Group("category").
		Order("avg_confidence DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (ir *userInterestRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	err := ir.conn(tx).WithContext(ctx).Model(&types.UserInterest{}).Count(&count).Error
	return count, err
}
