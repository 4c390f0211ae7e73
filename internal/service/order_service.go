package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/errors"
	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// OrderService handles checkout, order history, and admin order management.
type OrderService interface {
	Checkout(ctx context.Context, userID uint, shippingAddress string) (*model.Order, error)
	ListForUser(ctx context.Context, userID uint) ([]model.Order, error)
	GetForUser(ctx context.Context, userID, orderID uint) (*model.Order, error)
	Get(ctx context.Context, id uint) (*model.Order, error)
	List(ctx context.Context, limit, offset int) ([]model.Order, error)
	ListRecent(ctx context.Context, n int) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	events    OrderEventSink
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, events OrderEventSink) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		events:    events,
	}
}

// Checkout converts the user's cart into a pending order. Unit prices are
// snapshotted from the current catalog price so later price edits do not
// rewrite historical invoices; order creation and cart cleanup commit in one
// transaction.
func (s *orderService) Checkout(ctx context.Context, userID uint, shippingAddress string) (*model.Order, error) {
	cartItems, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, errors.ErrCartEmpty
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(cartItems))
	for _, cartItem := range cartItems {
		items = append(items, model.OrderItem{
			ProductID: cartItem.ProductID,
			Quantity:  cartItem.Quantity,
			UnitPrice: cartItem.Product.Price,
		})
		total = total.Add(cartItem.Product.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity))))
	}

	order := &model.Order{
		UserID:          userID,
		Total:           total,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		ShippingAddress: shippingAddress,
		Items:           items,
	}

	if err := s.orderRepo.CreateFromCart(ctx, order, userID); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	metrics.OrdersCreatedTotal.Inc()
	s.events.Log(ctx, model.OrderEvent{
		OrderID:       order.ID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Actor:         model.ActorSystem,
		Note:          "order created at checkout",
	})

	return s.orderRepo.FindByID(ctx, order.ID)
}

// ListForUser returns the user's order history, newest first.
func (s *orderService) ListForUser(ctx context.Context, userID uint) ([]model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// GetForUser returns the order only when it belongs to the user. Orders of
// other users read as not found so ownership is not leaked.
func (s *orderService) GetForUser(ctx context.Context, userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, errors.ErrOrderNotFound
	}
	return order, nil
}

// Get returns any order with user, items and products joined. Admin use.
func (s *orderService) Get(ctx context.Context, id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// List returns all orders paginated. Admin use.
func (s *orderService) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	return s.orderRepo.List(ctx, limit, offset)
}

// ListRecent returns the n most recent orders. Admin dashboard use.
func (s *orderService) ListRecent(ctx context.Context, n int) ([]model.Order, error) {
	return s.orderRepo.ListRecent(ctx, n)
}

// UpdateStatus applies an admin fulfillment transition. The target status
// must come from the admin-settable set; "confirmed" belongs to the payment
// path and is rejected here. The order row is loaded first so a missing id
// reads as 404, not as a silent zero-row update.
func (s *orderService) UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) (*model.Order, error) {
	if !status.AdminSettable() {
		return nil, errors.ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	metrics.OrderTransitionsTotal.WithLabelValues(string(status), model.ActorAdmin).Inc()
	s.events.Log(ctx, model.OrderEvent{
		OrderID:       order.ID,
		Status:        status,
		PaymentStatus: order.PaymentStatus,
		Actor:         model.ActorAdmin,
	})

	return s.orderRepo.FindByID(ctx, order.ID)
}
