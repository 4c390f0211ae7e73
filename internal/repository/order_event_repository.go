package repository

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/model"
)

// OrderEventRepository defines order audit log persistence operations.
type OrderEventRepository interface {
	Create(ctx context.Context, event *model.OrderEvent) error
	CreateBatch(ctx context.Context, events []model.OrderEvent) error
	ListByOrder(ctx context.Context, orderID uint) ([]model.OrderEvent, error)
}

type orderEventRepository struct {
	db *gorm.DB
}

// NewOrderEventRepository creates a new order event repository.
func NewOrderEventRepository(db *gorm.DB) OrderEventRepository {
	return &orderEventRepository{db: db}
}

// Create creates a single event row.
func (r *orderEventRepository) Create(ctx context.Context, event *model.OrderEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// CreateBatch creates multiple event rows in one statement.
func (r *orderEventRepository) CreateBatch(ctx context.Context, events []model.OrderEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(events, 100).Error
}

// ListByOrder returns the event history for an order, oldest first.
func (r *orderEventRepository) ListByOrder(ctx context.Context, orderID uint) ([]model.OrderEvent, error) {
	var events []model.OrderEvent
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
