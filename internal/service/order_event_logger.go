package service

import (
	"context"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// OrderEventSink accepts order audit events. Implemented by OrderEventLogger;
// tests substitute a recorder.
type OrderEventSink interface {
	Log(ctx context.Context, event model.OrderEvent)
}

// OrderEventLogger writes order audit rows asynchronously in small batches so
// transition logging never sits on the request path.
type OrderEventLogger struct {
	repo    repository.OrderEventRepository
	channel chan model.OrderEvent
}

// NewOrderEventLogger creates the logger and starts its background worker.
func NewOrderEventLogger(repo repository.OrderEventRepository) *OrderEventLogger {
	l := &OrderEventLogger{
		repo:    repo,
		channel: make(chan model.OrderEvent, 100),
	}
	go l.worker(context.Background())
	return l
}

// Log enqueues an event without blocking. When the channel is full the event
// is written synchronously instead of being dropped.
func (l *OrderEventLogger) Log(ctx context.Context, event model.OrderEvent) {
	select {
	case l.channel <- event:
	default:
		_ = l.repo.Create(ctx, &event)
	}
}

// worker flushes batches of up to 10 events, or whatever has accumulated
// each second.
func (l *OrderEventLogger) worker(ctx context.Context) {
	batch := make([]model.OrderEvent, 0, 10)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-l.channel:
			if !ok {
				if len(batch) > 0 {
					_ = l.repo.CreateBatch(ctx, batch)
				}
				return
			}
			batch = append(batch, event)
			if len(batch) >= 10 {
				_ = l.repo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				_ = l.repo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ctx.Done():
			return
		}
	}
}
