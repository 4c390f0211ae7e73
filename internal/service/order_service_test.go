package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"storefront/internal/errors"
	"storefront/internal/model"
)

func TestOrderService_Checkout(t *testing.T) {
	t.Run("converts cart into pending order with snapshotted prices", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		recorder := &eventRecorder{}
		svc := NewOrderService(orderRepo, cartRepo, recorder)

		cart := []model.CartItem{
			{UserID: 1, ProductID: 10, Quantity: 2, Product: model.Product{ID: 10, Price: decimal.RequireFromString("19.99")}},
			{UserID: 1, ProductID: 11, Quantity: 1, Product: model.Product{ID: 11, Price: decimal.RequireFromString("5.00")}},
		}
		cartRepo.On("ListByUser", mock.Anything, uint(1)).Return(cart, nil)

		orderRepo.On("CreateFromCart", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
			return o.UserID == 1 &&
				o.Status == model.OrderStatusPending &&
				o.PaymentStatus == model.PaymentStatusPending &&
				o.Total.Equal(decimal.RequireFromString("44.98")) &&
				len(o.Items) == 2 &&
				o.Items[0].UnitPrice.Equal(decimal.RequireFromString("19.99"))
		}), uint(1)).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Order).ID = 5
		}).Return(nil)
		orderRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.Order{ID: 5, UserID: 1}, nil)

		order, err := svc.Checkout(context.Background(), 1, "1 Main St")

		assert.NoError(t, err)
		assert.Equal(t, uint(5), order.ID)
		orderRepo.AssertExpectations(t)
		if assert.Len(t, recorder.events, 1) {
			assert.Equal(t, model.ActorSystem, recorder.events[0].Actor)
		}
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		svc := NewOrderService(orderRepo, cartRepo, &eventRecorder{})

		cartRepo.On("ListByUser", mock.Anything, uint(1)).Return([]model.CartItem{}, nil)

		_, err := svc.Checkout(context.Background(), 1, "1 Main St")

		assert.ErrorIs(t, err, errors.ErrCartEmpty)
		orderRepo.AssertNotCalled(t, "CreateFromCart", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderService_GetForUser(t *testing.T) {
	tests := []struct {
		name    string
		order   *model.Order
		repoErr error
		wantErr error
	}{
		{
			name:  "own order is returned",
			order: &model.Order{ID: 3, UserID: 1},
		},
		{
			name:    "missing order reads as not found",
			repoErr: gorm.ErrRecordNotFound,
			wantErr: errors.ErrOrderNotFound,
		},
		{
			name:    "another user's order reads as not found",
			order:   &model.Order{ID: 3, UserID: 2},
			wantErr: errors.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := new(MockOrderRepository)
			svc := NewOrderService(orderRepo, new(MockCartRepository), &eventRecorder{})

			if tt.repoErr != nil {
				orderRepo.On("FindByID", mock.Anything, uint(3)).Return(nil, tt.repoErr)
			} else {
				orderRepo.On("FindByID", mock.Anything, uint(3)).Return(tt.order, nil)
			}

			order, err := svc.GetForUser(context.Background(), 1, 3)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, order)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, uint(1), order.UserID)
			}
		})
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	t.Run("valid transition is applied and logged", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		recorder := &eventRecorder{}
		svc := NewOrderService(orderRepo, new(MockCartRepository), recorder)

		order := &model.Order{ID: 8, Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPaid}
		orderRepo.On("FindByID", mock.Anything, uint(8)).Return(order, nil)
		orderRepo.On("UpdateStatus", mock.Anything, uint(8), model.OrderStatusShipped).Return(nil)

		_, err := svc.UpdateStatus(context.Background(), 8, model.OrderStatusShipped)

		assert.NoError(t, err)
		orderRepo.AssertExpectations(t)
		if assert.Len(t, recorder.events, 1) {
			assert.Equal(t, model.OrderStatusShipped, recorder.events[0].Status)
			assert.Equal(t, model.ActorAdmin, recorder.events[0].Actor)
		}
	})

	t.Run("invalid status leaves the order unmodified", func(t *testing.T) {
		for _, status := range []model.OrderStatus{"SHIPPED", "confirmed", "unknown", ""} {
			orderRepo := new(MockOrderRepository)
			svc := NewOrderService(orderRepo, new(MockCartRepository), &eventRecorder{})

			_, err := svc.UpdateStatus(context.Background(), 8, status)

			assert.ErrorIs(t, err, errors.ErrInvalidStatus, "status %q", status)
			orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("missing order reads as not found", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		svc := NewOrderService(orderRepo, new(MockCartRepository), &eventRecorder{})

		orderRepo.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.UpdateStatus(context.Background(), 404, model.OrderStatusDelivered)

		assert.ErrorIs(t, err, errors.ErrOrderNotFound)
	})
}
