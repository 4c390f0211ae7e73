package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"storefront/internal/model"
	"storefront/internal/stripe"
)

func sessionEvent(id, eventType string, orderID string) stripe.Event {
	return stripe.Event{
		ID:   id,
		Type: eventType,
		Data: stripe.EventData{
			Object: stripe.EventObject{
				ID:            "cs_test_123",
				PaymentIntent: "pi_test_456",
				Metadata:      map[string]string{"orderId": orderID},
			},
		},
	}
}

func TestWebhookService_HandleEvent_AppliesOutcome(t *testing.T) {
	tests := []struct {
		name              string
		eventType         string
		wantStatus        model.OrderStatus
		wantPaymentStatus model.PaymentStatus
	}{
		{
			name:              "checkout session completed confirms order",
			eventType:         stripe.EventCheckoutSessionCompleted,
			wantStatus:        model.OrderStatusConfirmed,
			wantPaymentStatus: model.PaymentStatusPaid,
		},
		{
			name:              "payment intent succeeded confirms order",
			eventType:         stripe.EventPaymentIntentSucceeded,
			wantStatus:        model.OrderStatusConfirmed,
			wantPaymentStatus: model.PaymentStatusPaid,
		},
		{
			name:              "payment intent failed cancels order",
			eventType:         stripe.EventPaymentIntentFailed,
			wantStatus:        model.OrderStatusCancelled,
			wantPaymentStatus: model.PaymentStatusFailed,
		},
		{
			name:              "checkout session expired cancels order",
			eventType:         stripe.EventCheckoutSessionExpired,
			wantStatus:        model.OrderStatusCancelled,
			wantPaymentStatus: model.PaymentStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := new(MockOrderRepository)
			dedup := new(MockDeduper)
			recorder := &eventRecorder{}
			svc := NewWebhookService(orderRepo, dedup, recorder)

			order := &model.Order{ID: 42, Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending}
			dedup.On("Seen", mock.Anything, "evt_1").Return(false, nil)
			orderRepo.On("FindByID", mock.Anything, uint(42)).Return(order, nil)
			orderRepo.On("UpdatePaymentOutcome", mock.Anything, uint(42), tt.wantStatus, tt.wantPaymentStatus).Return(nil)
			orderRepo.On("SetPaymentIntentID", mock.Anything, uint(42), "pi_test_456").Return(nil)
			dedup.On("Mark", mock.Anything, "evt_1").Return(nil)

			svc.HandleEvent(context.Background(), sessionEvent("evt_1", tt.eventType, "42"))

			orderRepo.AssertExpectations(t)
			dedup.AssertExpectations(t)
			if assert.Len(t, recorder.events, 1) {
				assert.Equal(t, uint(42), recorder.events[0].OrderID)
				assert.Equal(t, tt.wantStatus, recorder.events[0].Status)
				assert.Equal(t, tt.wantPaymentStatus, recorder.events[0].PaymentStatus)
				assert.Equal(t, model.ActorGateway, recorder.events[0].Actor)
			}
		})
	}
}

func TestWebhookService_HandleEvent_DuplicateDeliverySkipped(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	dedup := new(MockDeduper)
	recorder := &eventRecorder{}
	svc := NewWebhookService(orderRepo, dedup, recorder)

	dedup.On("Seen", mock.Anything, "evt_dup").Return(true, nil)

	svc.HandleEvent(context.Background(), sessionEvent("evt_dup", stripe.EventCheckoutSessionCompleted, "42"))

	orderRepo.AssertNotCalled(t, "UpdatePaymentOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	dedup.AssertNotCalled(t, "Mark", mock.Anything, mock.Anything)
	assert.Empty(t, recorder.events)
}

func TestWebhookService_HandleEvent_UnknownTypeIgnored(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	dedup := new(MockDeduper)
	recorder := &eventRecorder{}
	svc := NewWebhookService(orderRepo, dedup, recorder)

	svc.HandleEvent(context.Background(), sessionEvent("evt_x", "customer.created", "42"))

	dedup.AssertNotCalled(t, "Seen", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	assert.Empty(t, recorder.events)
}

func TestWebhookService_HandleEvent_UnknownOrderSwallowed(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	dedup := new(MockDeduper)
	recorder := &eventRecorder{}
	svc := NewWebhookService(orderRepo, dedup, recorder)

	dedup.On("Seen", mock.Anything, "evt_2").Return(false, nil)
	orderRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	svc.HandleEvent(context.Background(), sessionEvent("evt_2", stripe.EventPaymentIntentSucceeded, "99"))

	orderRepo.AssertNotCalled(t, "UpdatePaymentOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	// Not marked processed: a later redelivery may find the order.
	dedup.AssertNotCalled(t, "Mark", mock.Anything, mock.Anything)
	assert.Empty(t, recorder.events)
}

func TestWebhookService_HandleEvent_FallsBackToPaymentIntent(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	dedup := new(MockDeduper)
	recorder := &eventRecorder{}
	svc := NewWebhookService(orderRepo, dedup, recorder)

	order := &model.Order{ID: 7, PaymentIntentID: "pi_known"}
	event := stripe.Event{
		ID:   "evt_3",
		Type: stripe.EventPaymentIntentFailed,
		Data: stripe.EventData{Object: stripe.EventObject{ID: "pi_known"}},
	}

	dedup.On("Seen", mock.Anything, "evt_3").Return(false, nil)
	orderRepo.On("FindByPaymentIntentID", mock.Anything, "pi_known").Return(order, nil)
	orderRepo.On("UpdatePaymentOutcome", mock.Anything, uint(7), model.OrderStatusCancelled, model.PaymentStatusFailed).Return(nil)
	dedup.On("Mark", mock.Anything, "evt_3").Return(nil)

	svc.HandleEvent(context.Background(), event)

	orderRepo.AssertExpectations(t)
	// Intent id already stored, no second write.
	orderRepo.AssertNotCalled(t, "SetPaymentIntentID", mock.Anything, mock.Anything, mock.Anything)
	assert.Len(t, recorder.events, 1)
}
