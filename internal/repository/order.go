package repository

import (
	"context"
	"errors"
	"time"

	"storefront-backend/internal/model"

	"gorm.io/gorm"
)

// ErrStatusChanged is returned when the order left the expected status between read and write.
var ErrStatusChanged = errors.New("order status changed concurrently")

type PaymentUpdate struct {
	Status        model.OrderStatus
	PaymentID     string
	PaymentStatus string
	PaymentMethod string
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindByExternalReference(ctx context.Context, externalReference string) (*model.Order, error)
	FindWithDetails(ctx context.Context, orderID string) (*model.Order, error)
	UpdatePayment(ctx context.Context, tx *gorm.DB, orderID string, from model.OrderStatus, update PaymentUpdate) error
	GetOrderItems(ctx context.Context, tx *gorm.DB, orderID string) ([]*model.OrderItem, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return conn(r.db, tx).WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return conn(r.db, tx).WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, translate(err)
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByExternalReference(ctx context.Context, externalReference string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("external_reference = ?", externalReference).
		First(&order).Error
	if err != nil {
		return nil, translate(err)
	}

	return &order, nil
}

// FindWithDetails loads the order with its customer profile and every item's variant and product.
func (r *orderRepoImpl) FindWithDetails(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Items.Variant.Product").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, translate(err)
	}

	return &order, nil
}

// UpdatePayment writes the new status and payment fields only while the order is still in
// status from.
func (r *orderRepoImpl) UpdatePayment(ctx context.Context, tx *gorm.DB, orderID string, from model.OrderStatus, update PaymentUpdate) error {
	result := conn(r.db, tx).WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]interface{}{
			"status":         update.Status,
			"payment_id":     update.PaymentID,
			"payment_status": update.PaymentStatus,
			"payment_method": update.PaymentMethod,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, tx *gorm.DB, orderID string) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := conn(r.db, tx).WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}
