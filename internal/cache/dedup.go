package cache

import (
	"context"
	"time"
)

const dedupTTL = 24 * time.Hour

// DedupStore records processed webhook event ids so redelivered events are
// applied at most once. Key format: webhook:event:<event_id>
type DedupStore struct {
	cache *Client
}

// NewDedupStore creates a DedupStore on top of the shared cache client.
func NewDedupStore(cache *Client) *DedupStore {
	return &DedupStore{cache: cache}
}

// Seen reports whether the event id has already been marked as processed.
func (d *DedupStore) Seen(ctx context.Context, eventID string) (bool, error) {
	return d.cache.Exists(ctx, d.key(eventID))
}

// Mark records the event id as processed (expires after dedupTTL).
func (d *DedupStore) Mark(ctx context.Context, eventID string) error {
	_, err := d.cache.SetNX(ctx, d.key(eventID), []byte("1"), dedupTTL)
	return err
}

func (d *DedupStore) key(eventID string) string {
	return "webhook:event:" + eventID
}
