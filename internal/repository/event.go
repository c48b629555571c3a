package repository

import (
	"context"

	"storefront-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderEventRepository interface {
	// Append stores the event unless one with the same idempotency key exists already.
	// It reports whether a row was written.
	Append(ctx context.Context, event *model.OrderEvent) (bool, error)
	Exists(ctx context.Context, idempotencyKey string) (bool, error)
	ListByOrder(ctx context.Context, orderID string) ([]*model.OrderEvent, error)
}

type orderEventRepoImpl struct {
	db *gorm.DB
}

func NewOrderEventRepository(db *gorm.DB) OrderEventRepository {
	return &orderEventRepoImpl{db: db}
}

func (r *orderEventRepoImpl) Append(ctx context.Context, event *model.OrderEvent) (bool, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	// keys are unique, so an event without one gets its own
	if event.IdempotencyKey == "" {
		event.IdempotencyKey = event.ID
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderEventRepoImpl) Exists(ctx context.Context, idempotencyKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderEvent{}).
		Where("idempotency_key = ?", idempotencyKey).
		Count(&count).Error

	return count > 0, err
}

func (r *orderEventRepoImpl) ListByOrder(ctx context.Context, orderID string) ([]*model.OrderEvent, error) {
	var events []*model.OrderEvent
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at, id").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}
