package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/model"
)

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	CreateFromCart(ctx context.Context, order *model.Order, userID uint) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Order, error)
	List(ctx context.Context, limit, offset int) ([]model.Order, error)
	ListRecent(ctx context.Context, n int) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error
	UpdatePaymentOutcome(ctx context.Context, id uint, status model.OrderStatus, paymentStatus model.PaymentStatus) error
	SetPaymentIntentID(ctx context.Context, id uint, paymentIntentID string) error
	Count(ctx context.Context) (int64, error)
	SumRevenue(ctx context.Context) (decimal.Decimal, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateFromCart persists the order (with items, via association) and deletes
// the user's cart rows in a single transaction, so a failed insert never
// empties the cart.
func (r *orderRepository) CreateFromCart(ctx context.Context, order *model.Order, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
	})
}

// FindByID finds an order with user, items and item products joined.
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items").
		Preload("Items.Product").
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByPaymentIntentID finds an order by its gateway payment intent id.
func (r *orderRepository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).
		Where("payment_intent_id = ?", paymentIntentID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders with items joined, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// List returns all orders with user and items joined, newest first.
func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListRecent returns the n most recent orders with users joined.
func (r *orderRepository) ListRecent(ctx context.Context, n int) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(n).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets only the status column.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdatePaymentOutcome sets only the status and payment_status columns. A
// concurrent admin update can race on the status value (last write wins) but
// never on unrelated fields.
func (r *orderRepository) UpdatePaymentOutcome(ctx context.Context, id uint, status model.OrderStatus, paymentStatus model.PaymentStatus) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"payment_status": paymentStatus,
		}).Error
}

// SetPaymentIntentID records the gateway correlation id on the order.
func (r *orderRepository) SetPaymentIntentID(ctx context.Context, id uint, paymentIntentID string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Update("payment_intent_id", paymentIntentID).Error
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}

// SumRevenue returns the sum of all order totals. A NULL sum (zero orders)
// is coerced to zero, never returned as null.
func (r *orderRepository) SumRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
