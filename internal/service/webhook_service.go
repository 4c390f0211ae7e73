package service

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/stripe"
)

// WebhookDeduper records processed gateway event ids. Implemented by
// cache.DedupStore.
type WebhookDeduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// WebhookService applies payment-gateway events to orders.
//
// HandleEvent never returns an error: the caller has already verified the
// signature and must ack 200 regardless, because the gateway retries
// non-200 responses into the same failure. Every failure path is logged.
type WebhookService interface {
	HandleEvent(ctx context.Context, event stripe.Event)
}

type paymentOutcome struct {
	status        model.OrderStatus
	paymentStatus model.PaymentStatus
}

// webhookOutcomes is the fixed dispatch table from gateway event type to the
// order mutation it triggers.
var webhookOutcomes = map[string]paymentOutcome{
	stripe.EventCheckoutSessionCompleted: {model.OrderStatusConfirmed, model.PaymentStatusPaid},
	stripe.EventPaymentIntentSucceeded:   {model.OrderStatusConfirmed, model.PaymentStatusPaid},
	stripe.EventPaymentIntentFailed:      {model.OrderStatusCancelled, model.PaymentStatusFailed},
	stripe.EventCheckoutSessionExpired:   {model.OrderStatusCancelled, model.PaymentStatusFailed},
}

type webhookService struct {
	orderRepo repository.OrderRepository
	dedup     WebhookDeduper
	events    OrderEventSink
}

// NewWebhookService creates a new webhook service.
func NewWebhookService(orderRepo repository.OrderRepository, dedup WebhookDeduper, events OrderEventSink) WebhookService {
	return &webhookService{
		orderRepo: orderRepo,
		dedup:     dedup,
		events:    events,
	}
}

// HandleEvent dispatches one verified gateway event.
func (s *webhookService) HandleEvent(ctx context.Context, event stripe.Event) {
	log := logger.Get().With().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Logger()

	outcome, known := webhookOutcomes[event.Type]
	if !known {
		log.Info().Msg("ignoring unhandled webhook event type")
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "ignored").Inc()
		return
	}

	seen, err := s.dedup.Seen(ctx, event.ID)
	if err != nil {
		// Dedup outage: proceed, re-applying the same assignment is a no-op.
		log.Warn().Err(err).Msg("webhook dedup check failed")
	}
	if seen {
		log.Info().Msg("skipping duplicate webhook delivery")
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "duplicate").Inc()
		return
	}

	order, err := s.resolveOrder(ctx, event.Data.Object)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Msg("webhook event references unknown order")
		} else {
			log.Error().Err(err).Msg("resolve order for webhook event")
		}
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "error").Inc()
		return
	}

	if err := s.orderRepo.UpdatePaymentOutcome(ctx, order.ID, outcome.status, outcome.paymentStatus); err != nil {
		log.Error().Err(err).Uint("order_id", order.ID).Msg("apply payment outcome")
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "error").Inc()
		return
	}

	// Record the gateway correlation id the first time we learn it.
	if pi := event.Data.Object.PaymentIntentID(); pi != "" && order.PaymentIntentID == "" {
		if err := s.orderRepo.SetPaymentIntentID(ctx, order.ID, pi); err != nil {
			log.Warn().Err(err).Uint("order_id", order.ID).Msg("store payment intent id")
		}
	}

	metrics.WebhookEventsTotal.WithLabelValues(event.Type, "applied").Inc()
	metrics.OrderTransitionsTotal.WithLabelValues(string(outcome.status), model.ActorGateway).Inc()
	s.events.Log(ctx, model.OrderEvent{
		OrderID:       order.ID,
		Status:        outcome.status,
		PaymentStatus: outcome.paymentStatus,
		Actor:         model.ActorGateway,
		Note:          event.Type,
	})

	// Mark only after a successful apply so a crashed apply can still be
	// recovered by a later redelivery.
	if err := s.dedup.Mark(ctx, event.ID); err != nil {
		log.Warn().Err(err).Msg("mark webhook event processed")
	}

	log.Info().
		Uint("order_id", order.ID).
		Str("status", string(outcome.status)).
		Str("payment_status", string(outcome.paymentStatus)).
		Msg("webhook event applied")
}

// resolveOrder locates the order by the id embedded in session metadata,
// falling back to the stored payment intent id.
func (s *webhookService) resolveOrder(ctx context.Context, object stripe.EventObject) (*model.Order, error) {
	if orderID := object.OrderID(); orderID != 0 {
		return s.orderRepo.FindByID(ctx, orderID)
	}
	if pi := object.PaymentIntentID(); pi != "" {
		return s.orderRepo.FindByPaymentIntentID(ctx, pi)
	}
	return nil, gorm.ErrRecordNotFound
}
