package repository

import (
	"context"
	"time"

	"storefront-backend/internal/model"

	"gorm.io/gorm"
)

type StockRepository interface {
	// Decrement lowers a variant's stock by quantity, never below zero. It reports false
	// when the variant does not exist.
	Decrement(ctx context.Context, tx *gorm.DB, variantID string, quantity int32) (bool, error)
	Get(ctx context.Context, variantID string) (*model.ProductVariant, error)
}

type stockRepoImpl struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepoImpl{
		db: db,
	}
}

func (r *stockRepoImpl) Decrement(ctx context.Context, tx *gorm.DB, variantID string, quantity int32) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).Model(&model.ProductVariant{}).
		Where("id = ?", variantID).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("CASE WHEN stock >= ? THEN stock - ? ELSE 0 END", quantity, quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *stockRepoImpl) Get(ctx context.Context, variantID string) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.WithContext(ctx).
		Where("id = ?", variantID).
		First(&variant).Error
	if err != nil {
		return nil, translate(err)
	}

	return &variant, nil
}
